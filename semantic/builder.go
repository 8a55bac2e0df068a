package semantic

import (
	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/token"
)

// Build walks prog once, top down, creating scopes in lockstep with the
// syntactic nesting and a symbol for every declared name.
func Build(prog *ast.Program) *Semantic {
	b := &builder{sem: newSemantic(prog), prog: prog, a: prog.Arena}
	b.visitProgram(prog.Root)
	return b.sem
}

type builder struct {
	sem  *Semantic
	prog *ast.Program
	a    *ast.Arena

	current ScopeID
	// uniqueParams is set while declaring parameters that must not repeat.
	uniqueParams bool
}

func (b *builder) scope() *Scope {
	return b.sem.Scope(b.current)
}

func (b *builder) pushScope(kind ScopeKind, node ast.NodeID, strict bool) ScopeID {
	parent := b.current
	if parent != NoScope {
		strict = strict || b.scope().Strict
	}
	id := b.sem.scopes.Push(newScope(kind, parent, node, strict))
	if parent != NoScope {
		p := b.sem.Scope(parent)
		p.Children = append(p.Children, id)
	}
	b.sem.nodeScope[node] = id
	b.current = id
	return id
}

func (b *builder) popScope() {
	sc := b.scope()
	sc.hoisted, sc.hoistedVars, sc.blockFunctions = nil, nil, nil
	b.current = sc.Parent
}

func (b *builder) visitProgram(root ast.NodeID) {
	n := b.a.Node(root)
	kind := ScopeScript
	if n.Has(ast.FlagModule) {
		kind = ScopeModule
	}
	b.pushScope(kind, root, kind == ScopeModule || n.Has(ast.FlagStrict))
	b.visitList(n.List)
	b.current = NoScope
}

func (b *builder) visitList(ref ast.ListRef) {
	for _, id := range b.a.List(ref) {
		b.visit(id)
	}
}

func (b *builder) visitChildren(id ast.NodeID) {
	for c := range b.a.Children(id) {
		b.visit(c)
	}
}

func (b *builder) visit(id ast.NodeID) {
	if id == ast.NoNode {
		return
	}
	n := b.a.Node(id)
	switch n.Kind {
	case ast.KindFunctionDeclaration:
		if n.A != ast.NoNode {
			if n.E != ast.NoNode {
				b.declareBlockFunction(n.A)
			}
			b.declare(n.A, DeclFunction, NoTDZ, b.ambient(n))
		}
		b.visitFunction(id, n)

	case ast.KindFunctionExpression:
		b.visitFunction(id, n)

	case ast.KindArrowFunctionExpression:
		b.pushScope(ScopeFunction, id, b.hasUseStrict(n.D))
		b.visit(n.A)
		b.declareParams(n.B, true)
		b.visit(n.C)
		if b.a.Kind(n.D) == ast.KindFunctionBody {
			b.visitList(b.a.Node(n.D).List)
		} else {
			b.visit(n.D)
		}
		b.popScope()

	case ast.KindClassDeclaration, ast.KindClassExpression:
		b.visitClass(id, n)

	case ast.KindStaticBlock:
		b.pushScope(ScopeFunction, id, true)
		b.visitList(n.List)
		b.popScope()

	case ast.KindBlockStatement:
		b.pushScope(ScopeBlock, id, false)
		b.visitList(n.List)
		b.popScope()

	case ast.KindForStatement, ast.KindForInStatement, ast.KindForOfStatement:
		b.pushScope(ScopeBlock, id, false)
		b.visitChildren(id)
		b.popScope()

	case ast.KindSwitchStatement:
		b.visit(n.A)
		b.pushScope(ScopeBlock, id, false)
		b.visitList(n.List)
		b.popScope()

	case ast.KindCatchClause:
		b.pushScope(ScopeCatch, id, false)
		if n.A != ast.NoNode {
			b.declarePattern(n.A, DeclCatch, NoTDZ, 0)
		}
		b.visit(n.B)
		b.popScope()

	case ast.KindVariableDeclaration:
		b.visitVariableDeclaration(n)

	case ast.KindImportDeclaration:
		for _, spec := range b.a.List(n.List) {
			sn := b.a.Node(spec)
			local := sn.A
			if sn.Kind == ast.KindImportSpecifier {
				local = sn.B
			}
			var flags SymbolFlags
			if n.Has(ast.FlagTypeOnly) || sn.Has(ast.FlagTypeOnly) {
				flags |= SymTypeOnly
			}
			if b.a.Kind(local) == ast.KindBindingIdentifier {
				b.declare(local, DeclImport, NoTDZ, flags)
			}
		}

	case ast.KindExportNamedDeclaration:
		b.visitChildren(id)
		if n.A != ast.NoNode {
			b.markExported(n.A)
		}

	case ast.KindExportDefaultDeclaration:
		b.visit(n.A)
		switch b.a.Kind(n.A) {
		case ast.KindFunctionDeclaration, ast.KindClassDeclaration:
			b.markExported(n.A)
		}

	case ast.KindTSImportEqualsDeclaration:
		var flags SymbolFlags
		if n.Has(ast.FlagTypeOnly) {
			flags |= SymTypeOnly
		}
		b.declare(n.A, DeclImport, NoTDZ, flags)
		b.visit(n.B)

	case ast.KindTSTypeAliasDeclaration:
		b.declare(n.A, DeclTypeAlias, NoTDZ, SymTypeOnly|b.ambient(n))
		b.pushScope(ScopeTypeParameters, id, false)
		b.visit(n.B)
		b.visit(n.C)
		b.popScope()

	case ast.KindTSInterfaceDeclaration:
		b.declare(n.A, DeclInterface, NoTDZ, SymTypeOnly|b.ambient(n))
		b.pushScope(ScopeTypeParameters, id, false)
		b.visit(n.B)
		b.visit(n.C)
		b.visit(n.D)
		b.popScope()

	case ast.KindTSEnumDeclaration:
		b.declare(n.A, DeclEnum, NoTDZ, b.ambient(n))
		b.visitList(n.List)

	case ast.KindTSModuleDeclaration:
		name := n.A
		for b.a.Kind(name) == ast.KindTSQualifiedName {
			name = b.a.Node(name).A
		}
		if b.a.Kind(name) == ast.KindBindingIdentifier {
			b.declare(name, DeclNamespace, NoTDZ, b.ambient(n))
		}
		b.pushScope(ScopeNamespace, id, false)
		b.visit(n.B)
		b.popScope()

	case ast.KindTSTypeParameter:
		b.declare(n.A, DeclTypeParameter, NoTDZ, SymTypeOnly)
		b.visit(n.B)
		b.visit(n.C)

	case ast.KindTSFunctionType, ast.KindTSConstructorType, ast.KindTSCallSignature, ast.KindTSConstructSignature:
		b.pushScope(ScopeTypeParameters, id, false)
		b.visit(n.A)
		b.declareParams(n.B, true)
		b.visit(n.C)
		b.popScope()

	case ast.KindTSMethodSignature:
		b.visit(n.A)
		b.pushScope(ScopeTypeParameters, id, false)
		b.visit(n.B)
		b.declareParams(n.C, true)
		b.visit(n.D)
		b.popScope()

	case ast.KindTSMappedType:
		b.pushScope(ScopeTypeParameters, id, false)
		b.visitChildren(id)
		b.popScope()

	case ast.KindTSConditionalType:
		// infer declarations are visible in the true branch only.
		b.visit(n.A)
		b.pushScope(ScopeTypeParameters, id, false)
		b.visit(n.B)
		b.visit(n.C)
		b.popScope()
		b.visit(n.D)

	default:
		b.visitChildren(id)
	}
}

func (b *builder) visitFunction(id ast.NodeID, n *ast.Node) {
	b.pushScope(ScopeFunction, id, b.hasUseStrict(n.E))
	if n.Kind == ast.KindFunctionExpression && n.A != ast.NoNode {
		b.declareIn(b.current, n.A, DeclFunction, NoTDZ, SymFunctionExprName)
	}
	b.visit(n.B)
	b.declareParams(n.C, false)
	b.visit(n.D)
	if n.E != ast.NoNode {
		b.visitList(b.a.Node(n.E).List)
	}
	b.popScope()
}

func (b *builder) visitClass(id ast.NodeID, n *ast.Node) {
	if n.Kind == ast.KindClassDeclaration && n.A != ast.NoNode {
		b.declare(n.A, DeclClass, n.Span.Start, b.ambient(n))
	}
	b.visitList(n.List)
	b.pushScope(ScopeClass, id, true)
	if n.Kind == ast.KindClassExpression && n.A != ast.NoNode {
		b.declareIn(b.current, n.A, DeclClass, NoTDZ, SymClassExprName)
	}
	b.visit(n.B)
	b.visit(n.C)
	b.visit(n.D)
	b.visit(n.E)
	b.popScope()
}

func (b *builder) visitVariableDeclaration(n *ast.Node) {
	kind := DeclVar
	switch n.Op {
	case token.Let:
		kind = DeclLet
	case token.Const:
		kind = DeclConst
	}
	tdz := NoTDZ
	if kind.HasTDZ() {
		tdz = n.Span.Start
	}
	flags := b.ambient(n)
	for _, d := range b.a.List(n.List) {
		dn := b.a.Node(d)
		b.declarePattern(dn.A, kind, tdz, flags)
		b.visit(dn.B)
	}
}

// declareParams binds the parameters of a FormalParameters node in the
// current scope. A TypeScript 'this' parameter only carries a type. Repeated
// names are reported when unique is set, in strict code, and when any
// parameter is a pattern, has a default or is a rest element.
func (b *builder) declareParams(params ast.NodeID, unique bool) {
	if params == ast.NoNode {
		return
	}
	defer func(prev bool) { b.uniqueParams = prev }(b.uniqueParams)
	b.uniqueParams = unique || b.scope().Strict || !b.simpleParams(params)
	for _, p := range b.a.List(b.a.Node(params).List) {
		pn := b.a.Node(p)
		switch pn.Kind {
		case ast.KindFormalParameter:
			b.visitList(pn.List)
			if target := b.a.Node(pn.A); target.Kind == ast.KindBindingIdentifier && target.Text == "this" {
				b.visit(target.A)
				continue
			}
			b.declarePattern(pn.A, DeclParameter, NoTDZ, 0)
		case ast.KindRestElement:
			b.declarePattern(pn.A, DeclParameter, NoTDZ, 0)
			b.visit(pn.B)
		default:
			b.visit(p)
		}
	}
}

func (b *builder) simpleParams(params ast.NodeID) bool {
	for _, p := range b.a.List(b.a.Node(params).List) {
		pn := b.a.Node(p)
		if pn.Kind != ast.KindFormalParameter || b.a.Kind(pn.A) != ast.KindBindingIdentifier {
			return false
		}
	}
	return true
}

// declarePattern declares every BindingIdentifier of a binding pattern and
// visits the default values and computed keys inside it.
func (b *builder) declarePattern(id ast.NodeID, kind DeclKind, tdz ast.Idx, flags SymbolFlags) {
	if id == ast.NoNode {
		return
	}
	n := b.a.Node(id)
	switch n.Kind {
	case ast.KindBindingIdentifier:
		b.declare(id, kind, tdz, flags)
		b.visit(n.A)
	case ast.KindObjectPattern:
		for _, prop := range b.a.List(n.List) {
			pn := b.a.Node(prop)
			switch pn.Kind {
			case ast.KindProperty:
				if pn.Has(ast.FlagComputed) {
					b.visit(pn.A)
				}
				b.declarePattern(pn.B, kind, tdz, flags)
			case ast.KindRestElement:
				b.declarePattern(pn.A, kind, tdz, flags)
			}
		}
		b.visit(n.A)
	case ast.KindArrayPattern:
		for _, elem := range b.a.List(n.List) {
			if b.a.Kind(elem) != ast.KindElision {
				b.declarePattern(elem, kind, tdz, flags)
			}
		}
		b.visit(n.A)
	case ast.KindAssignmentPattern:
		b.declarePattern(n.A, kind, tdz, flags)
		b.visit(n.B)
	case ast.KindRestElement:
		b.declarePattern(n.A, kind, tdz, flags)
		b.visit(n.B)
	default:
		b.visit(id)
	}
}

func (b *builder) ambient(n *ast.Node) SymbolFlags {
	if n.Has(ast.FlagDeclare) {
		return SymAmbient
	}
	return 0
}

// hasUseStrict reports whether a function body starts with a "use strict"
// directive.
func (b *builder) hasUseStrict(body ast.NodeID) bool {
	if b.a.Kind(body) != ast.KindFunctionBody {
		return false
	}
	for _, stmt := range b.a.List(b.a.Node(body).List) {
		sn := b.a.Node(stmt)
		if sn.Kind != ast.KindExpressionStatement || !sn.Has(ast.FlagDirective) {
			return false
		}
		raw := b.prog.Text(b.a.Node(sn.A).Span)
		if len(raw) >= 2 && raw[1:len(raw)-1] == "use strict" {
			return true
		}
	}
	return false
}

// markExported flags the names declared by an exported declaration.
func (b *builder) markExported(decl ast.NodeID) {
	n := b.a.Node(decl)
	mark := func(binding ast.NodeID) {
		if sym := b.sem.declSymbol[binding]; sym != NoSymbol {
			b.sem.Symbol(sym).Flags |= SymExported
		}
	}
	switch n.Kind {
	case ast.KindVariableDeclaration:
		for _, d := range b.a.List(n.List) {
			forEachBinding(b.a, b.a.Node(d).A, mark)
		}
	case ast.KindFunctionDeclaration, ast.KindClassDeclaration, ast.KindTSEnumDeclaration,
		ast.KindTSInterfaceDeclaration, ast.KindTSTypeAliasDeclaration, ast.KindTSModuleDeclaration,
		ast.KindTSImportEqualsDeclaration:
		if b.a.Kind(n.A) == ast.KindBindingIdentifier {
			mark(n.A)
		}
	}
}

// forEachBinding calls fn for every BindingIdentifier of a pattern.
func forEachBinding(a *ast.Arena, id ast.NodeID, fn func(ast.NodeID)) {
	n := a.Node(id)
	switch n.Kind {
	case ast.KindBindingIdentifier:
		fn(id)
	case ast.KindObjectPattern:
		for _, prop := range a.List(n.List) {
			pn := a.Node(prop)
			if pn.Kind == ast.KindProperty {
				forEachBinding(a, pn.B, fn)
			} else if pn.Kind == ast.KindRestElement {
				forEachBinding(a, pn.A, fn)
			}
		}
	case ast.KindArrayPattern:
		for _, elem := range a.List(n.List) {
			if a.Kind(elem) != ast.KindElision {
				forEachBinding(a, elem, fn)
			}
		}
	case ast.KindAssignmentPattern, ast.KindRestElement:
		forEachBinding(a, n.A, fn)
	}
}
