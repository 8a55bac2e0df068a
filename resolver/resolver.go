// Package resolver binds every identifier use of a program to the symbol it
// refers to.
package resolver

import (
	"unicode"
	"unicode/utf8"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/diag"
	"github.com/t14raptor/fastfront/semantic"
	"github.com/t14raptor/fastfront/token"
)

// Resolve walks prog a second time and records a reference for every
// identifier use in sem. Unresolved names are globals, not errors.
func Resolve(prog *ast.Program, sem *semantic.Semantic) {
	r := &Resolver{
		prog: prog,
		a:    prog.Arena,
		sem:  sem,
	}
	r.visit(prog.Root, semantic.Read)
}

// Resolver holds the walk state. The current scope follows the scopes the
// builder attached to scope-creating nodes.
type Resolver struct {
	prog *ast.Program
	a    *ast.Arena
	sem  *semantic.Semantic

	current semantic.ScopeID
	// typeDepth counts the enclosing TypeScript type positions.
	typeDepth int
}

func (r *Resolver) enter(id ast.NodeID) (semantic.ScopeID, bool) {
	scope, ok := r.sem.ScopeOf(id)
	if !ok {
		return 0, false
	}
	old := r.current
	r.current = scope
	return old, true
}

func (r *Resolver) visitChildren(id ast.NodeID) {
	for c := range r.a.Children(id) {
		r.visit(c, semantic.Read)
	}
}

// visit resolves the identifiers below id. acc is the access of id itself
// when it is an assignment target.
func (r *Resolver) visit(id ast.NodeID, acc semantic.Access) {
	if id == ast.NoNode {
		return
	}
	if old, ok := r.enter(id); ok {
		defer func() { r.current = old }()
	}
	n := r.a.Node(id)
	if isTypePosition(n.Kind) {
		r.typeDepth++
		defer func() { r.typeDepth-- }()
	}

	switch n.Kind {
	case ast.KindIdentifierReference:
		r.reference(id, n, acc)

	case ast.KindIdentifierName, ast.KindLabelIdentifier, ast.KindPrivateIdentifier,
		ast.KindJSXText, ast.KindJSXNamespacedName:

	case ast.KindBindingIdentifier:
		r.visit(n.A, semantic.Read)

	case ast.KindSwitchStatement:
		// The discriminant is outside the scope of the case clauses.
		if scope, ok := r.sem.ScopeOf(id); ok {
			r.current = r.sem.Scope(scope).Parent
			r.visit(n.A, semantic.Read)
			r.current = scope
		}
		for _, c := range r.a.List(n.List) {
			r.visit(c, semantic.Read)
		}

	case ast.KindAssignmentExpression:
		target := semantic.Write
		if n.Op != token.Assign {
			target = semantic.ReadWrite
		}
		r.visit(n.A, target)
		r.visit(n.B, semantic.Read)

	case ast.KindUpdateExpression:
		r.visit(n.A, semantic.ReadWrite)

	case ast.KindForInStatement, ast.KindForOfStatement:
		if r.a.Kind(n.A) == ast.KindVariableDeclaration {
			r.visit(n.A, semantic.Read)
		} else {
			r.visit(n.A, semantic.Write)
		}
		r.visit(n.B, semantic.Read)
		r.visit(n.C, semantic.Read)

	// Assignment targets pass the access through to the identifiers they
	// contain.
	case ast.KindParenthesizedExpression, ast.KindTSNonNullExpression:
		r.visit(n.A, acc)
	case ast.KindTSAsExpression, ast.KindTSSatisfiesExpression:
		r.visit(n.A, acc)
		r.visit(n.B, semantic.Read)
	case ast.KindTSTypeAssertion:
		r.visit(n.A, semantic.Read)
		r.visit(n.B, acc)
	case ast.KindArrayPattern, ast.KindObjectPattern:
		for _, c := range r.a.List(n.List) {
			r.visit(c, acc)
		}
		r.visit(n.A, semantic.Read)
	case ast.KindAssignmentPattern:
		r.visit(n.A, acc)
		r.visit(n.B, semantic.Read)
	case ast.KindRestElement:
		r.visit(n.A, acc)
		r.visit(n.B, semantic.Read)
	case ast.KindProperty:
		if n.Has(ast.FlagComputed) {
			r.visit(n.A, semantic.Read)
		}
		r.visit(n.B, acc)

	case ast.KindMemberExpression:
		r.visit(n.A, semantic.Read)
	case ast.KindMetaProperty:

	case ast.KindMethodDefinition, ast.KindPropertyDefinition, ast.KindTSPropertySignature, ast.KindTSMethodSignature:
		r.visitMember(id, n)

	case ast.KindExportSpecifier:
		if r.a.Kind(n.A) == ast.KindIdentifierReference {
			ref := r.reference(n.A, r.a.Node(n.A), semantic.Read)
			if sym := r.sem.Reference(ref).Symbol; sym != semantic.NoSymbol {
				r.sem.Symbol(sym).Flags |= semantic.SymExported
			}
		}

	case ast.KindTSEnumMember:
		r.visit(n.B, semantic.Read)

	case ast.KindTSModuleDeclaration:
		r.visit(n.B, semantic.Read)

	case ast.KindTSTypePredicate:
		r.visit(n.B, semantic.Read)

	case ast.KindJSXOpeningElement, ast.KindJSXClosingElement:
		r.jsxTagName(n.A)
		for c := range r.a.Children(id) {
			if c != n.A {
				r.visit(c, semantic.Read)
			}
		}

	case ast.KindJSXAttribute:
		r.visit(n.B, semantic.Read)

	default:
		r.visitChildren(id)
	}
}

// visitMember skips non-computed keys of class members and type members.
func (r *Resolver) visitMember(id ast.NodeID, n *ast.Node) {
	for c := range r.a.Children(id) {
		if c == n.A && !n.Has(ast.FlagComputed) {
			continue
		}
		r.visit(c, semantic.Read)
	}
}

// jsxTagName resolves the component part of a tag name. Lower case names
// are intrinsic elements and refer to nothing.
func (r *Resolver) jsxTagName(id ast.NodeID) {
	n := r.a.Node(id)
	switch n.Kind {
	case ast.KindJSXIdentifier:
		if isComponentName(n.Text) {
			r.reference(id, n, semantic.Read)
		}
	case ast.KindJSXMemberExpression:
		obj := n.A
		for r.a.Kind(obj) == ast.KindJSXMemberExpression {
			obj = r.a.Node(obj).A
		}
		if on := r.a.Node(obj); on.Kind == ast.KindJSXIdentifier && on.Text != "this" {
			r.reference(obj, on, semantic.Read)
		}
	}
}

func isComponentName(name string) bool {
	c, _ := utf8.DecodeRuneInString(name)
	return c == '_' || c == '$' || unicode.IsUpper(c)
}

// isTypePosition reports whether identifiers below a node of kind k are in
// a TypeScript type position.
func isTypePosition(k ast.Kind) bool {
	return k.IsTSType() || k == ast.KindTSInterfaceHeritage || k == ast.KindTSClassImplements ||
		k == ast.KindTSTypeParameterDecl || k == ast.KindTSTypeParameterInst
}

// reference records one use and classifies it.
func (r *Resolver) reference(id ast.NodeID, n *ast.Node, acc semantic.Access) semantic.ReferenceID {
	ref := semantic.Reference{
		Node:   id,
		Name:   n.Text,
		Scope:  r.current,
		Access: acc,
	}
	meaning := semantic.MeaningValue
	if r.typeDepth > 0 {
		ref.Flags |= semantic.RefType
		if r.typeName(id) {
			meaning = semantic.MeaningType
		}
	}
	ref.Symbol = r.sem.Lookup(r.current, n.Text, meaning)
	if ref.Symbol != semantic.NoSymbol {
		r.check(&ref, n)
	}
	return r.sem.AddReference(ref)
}

// typeName reports whether a reference in a type position names a type.
// typeof queries and computed keys name values.
func (r *Resolver) typeName(id ast.NodeID) bool {
	for anc := range r.a.Ancestors(id) {
		switch r.a.Kind(anc) {
		case ast.KindTSQualifiedName:
			continue
		case ast.KindTSTypeReference, ast.KindTSExpressionWithTypeArgs:
			return true
		}
		return false
	}
	return false
}

// check updates the usage flags of the resolved symbol and reports TDZ reads
// and writes to immutable bindings.
func (r *Resolver) check(ref *semantic.Reference, n *ast.Node) {
	sym := r.sem.Symbol(ref.Symbol)
	if ref.Access&semantic.Read != 0 {
		sym.Flags |= semantic.SymRead
	}
	if ref.Access&semantic.Write != 0 {
		sym.Flags |= semantic.SymWritten
		switch sym.Kind {
		case semantic.DeclConst:
			r.sem.Diagnostics.Errorf(diag.AssignToConstant, n.Span, "Cannot assign to '%s' because it is a constant", n.Text)
		case semantic.DeclImport:
			r.sem.Diagnostics.Errorf(diag.AssignToImport, n.Span, "Cannot assign to '%s' because it is an import", n.Text)
		}
	}

	if ref.Flags&semantic.RefType != 0 || !sym.Kind.HasTDZ() || sym.TDZStart == semantic.NoTDZ {
		return
	}
	if n.Span.Start < sym.TDZStart && r.sem.VarScope(ref.Scope) == r.sem.VarScope(sym.Scope) {
		ref.Flags |= semantic.RefUsedBeforeDeclaration
		r.sem.Diagnostics.Warnf(diag.UsedBeforeDeclaration, n.Span, "'%s' is used before its declaration", n.Text)
	}
}
