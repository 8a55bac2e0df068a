package semantic

import (
	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/diag"
)

// declare binds a BindingIdentifier. var and function declarations are
// hoisted to the nearest function, namespace or program scope; everything
// else binds in the current scope.
func (b *builder) declare(node ast.NodeID, kind DeclKind, tdz ast.Idx, flags SymbolFlags) SymbolID {
	scope := b.current
	if kind == DeclVar || kind == DeclFunction {
		scope = b.hoist(node, kind)
	}
	return b.declareIn(scope, node, kind, tdz, flags)
}

// hoist walks from the current scope to the var scope, remembering the name
// in every scope it passes. A lexical binding of the same name on the way is
// a redeclaration, except for a simple catch parameter. So is a block
// function passed by a var.
func (b *builder) hoist(node ast.NodeID, kind DeclKind) ScopeID {
	name := b.a.Node(node).Text
	target := b.sem.VarScope(b.current)
	for id := b.current; id != target; id = b.sem.Scope(id).Parent {
		sc := b.sem.Scope(id)
		if prev, ok := sc.Values[name]; ok {
			sym := b.sem.Symbol(prev)
			switch {
			case sym.Kind == DeclCatch && b.simpleCatchParam(sc):
			case sym.Has(SymFunctionExprName) || sym.Has(SymClassExprName):
			default:
				sym.Redeclarations = append(sym.Redeclarations, node)
				b.redeclared(node, name)
			}
		}
		if kind == DeclVar {
			if _, ok := sc.blockFunctions[name]; ok {
				b.redeclared(node, name)
			}
			mark(&sc.hoistedVars, name)
		}
		mark(&sc.hoisted, name)
	}
	return target
}

// declareBlockFunction records a function declared directly in a block or
// switch. It clashes with a var hoisted through the block and with the catch
// parameter around it. Repeating the function is allowed in sloppy code only.
func (b *builder) declareBlockFunction(node ast.NodeID) {
	if b.scope().Kind.IsVarScope() {
		return
	}
	name := b.a.Node(node).Text
	sc := b.scope()
	_, dup := sc.blockFunctions[name]
	_, hoisted := sc.hoistedVars[name]
	if hoisted || dup && sc.Strict {
		b.redeclared(node, name)
	}
	mark(&sc.blockFunctions, name)
	b.checkCatchParam(sc, name, node)
}

func (b *builder) simpleCatchParam(sc *Scope) bool {
	return sc.Kind == ScopeCatch && b.a.Kind(b.a.Node(sc.Node).A) == ast.KindBindingIdentifier
}

// declareIn binds node in scope. A second declaration of the same name joins
// the existing symbol, and is reported unless the two kinds merge. Names of
// function and class expressions are shadowed instead.
func (b *builder) declareIn(scope ScopeID, node ast.NodeID, kind DeclKind, tdz ast.Idx, flags SymbolFlags) SymbolID {
	name := b.a.Node(node).Text
	sc := b.sem.Scope(scope)
	meaning := kind.Meaning()
	if flags&SymTypeOnly != 0 && kind == DeclImport {
		meaning = MeaningType
	}

	if prev := sc.binding(name, meaning); prev != NoSymbol {
		sym := b.sem.Symbol(prev)
		if !sym.Has(SymFunctionExprName) && !sym.Has(SymClassExprName) {
			sym.Redeclarations = append(sym.Redeclarations, node)
			if !mergeable(sym.Kind, kind) || b.uniqueParams && kind == DeclParameter && sym.Kind == DeclParameter {
				b.redeclared(node, name)
			}
			sc.bind(name, meaning, prev)
			b.sem.declSymbol[node] = prev
			return prev
		}
	}

	if kind.IsLexical() || kind == DeclImport {
		if _, ok := sc.hoisted[name]; ok {
			b.redeclared(node, name)
		}
		b.checkCatchParam(sc, name, node)
	}

	id := b.sem.symbols.Push(Symbol{
		Name:     name,
		Kind:     kind,
		Scope:    scope,
		Decl:     node,
		Flags:    flags,
		TDZStart: tdz,
	})
	sc.bind(name, meaning, id)
	b.sem.declSymbol[node] = id
	return id
}

// checkCatchParam reports a lexical declaration in a catch body that
// shadows the catch parameter.
func (b *builder) checkCatchParam(sc *Scope, name string, node ast.NodeID) {
	if sc.Kind != ScopeBlock || sc.Parent == NoScope {
		return
	}
	parent := b.sem.Scope(sc.Parent)
	if parent.Kind != ScopeCatch || b.a.Node(parent.Node).B != sc.Node {
		return
	}
	if prev, ok := parent.Values[name]; ok {
		sym := b.sem.Symbol(prev)
		sym.Redeclarations = append(sym.Redeclarations, node)
		b.redeclared(node, name)
	}
}

func (b *builder) redeclared(node ast.NodeID, name string) {
	b.sem.Diagnostics.Errorf(diag.Redeclaration, b.a.Node(node).Span, "Identifier '%s' has already been declared", name)
}
