// Package semantic builds the scope tree and symbol table of a parsed
// program and stores the references the resolver attaches to it.
package semantic

import (
	"iter"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/diag"
)

// Semantic holds the scopes, symbols and references of one unit. Scopes and
// symbols are created by Build; references are added by the resolver.
type Semantic struct {
	Program *ast.Program

	scopes     ast.IndexVec[ScopeID, Scope]
	symbols    ast.IndexVec[SymbolID, Symbol]
	references ast.IndexVec[ReferenceID, Reference]

	nodeScope  map[ast.NodeID]ScopeID
	declSymbol map[ast.NodeID]SymbolID
	nodeRef    map[ast.NodeID]ReferenceID

	// Unresolved groups the references that found no binding by name.
	Unresolved map[string][]ReferenceID

	Diagnostics diag.List
}

func newSemantic(prog *ast.Program) *Semantic {
	s := &Semantic{
		Program:    prog,
		nodeScope:  make(map[ast.NodeID]ScopeID),
		declSymbol: make(map[ast.NodeID]SymbolID),
		nodeRef:    make(map[ast.NodeID]ReferenceID),
		Unresolved: make(map[string][]ReferenceID),
	}
	s.scopes.Push(Scope{})
	s.symbols.Push(Symbol{})
	s.references.Push(Reference{})
	return s
}

// Root returns the module or script scope.
func (s *Semantic) Root() ScopeID {
	return 1
}

// Scope returns the scope with the given id.
func (s *Semantic) Scope(id ScopeID) *Scope {
	return s.scopes.At(id)
}

// Symbol returns the symbol with the given id.
func (s *Semantic) Symbol(id SymbolID) *Symbol {
	return s.symbols.At(id)
}

// Reference returns the reference with the given id.
func (s *Semantic) Reference(id ReferenceID) *Reference {
	return s.references.At(id)
}

// NumScopes returns the number of scopes.
func (s *Semantic) NumScopes() int { return s.scopes.Len() - 1 }

// NumSymbols returns the number of symbols.
func (s *Semantic) NumSymbols() int { return s.symbols.Len() - 1 }

// NumReferences returns the number of references.
func (s *Semantic) NumReferences() int { return s.references.Len() - 1 }

// Scopes iterates over every scope in creation order, which is also a
// pre-order of the scope tree.
func (s *Semantic) Scopes() iter.Seq2[ScopeID, *Scope] {
	return skipSentinel(s.scopes.All())
}

// Symbols iterates over every symbol in declaration order.
func (s *Semantic) Symbols() iter.Seq2[SymbolID, *Symbol] {
	return skipSentinel(s.symbols.All())
}

// References iterates over every reference in source order.
func (s *Semantic) References() iter.Seq2[ReferenceID, *Reference] {
	return skipSentinel(s.references.All())
}

func skipSentinel[I ~uint32, T any](all iter.Seq2[I, *T]) iter.Seq2[I, *T] {
	return func(yield func(I, *T) bool) {
		for id, v := range all {
			if id == 0 {
				continue
			}
			if !yield(id, v) {
				return
			}
		}
	}
}

// ScopeOf returns the scope created by a scope-creating node.
func (s *Semantic) ScopeOf(node ast.NodeID) (ScopeID, bool) {
	id, ok := s.nodeScope[node]
	return id, ok
}

// EnclosingScope returns the innermost scope containing node.
func (s *Semantic) EnclosingScope(node ast.NodeID) ScopeID {
	if id, ok := s.nodeScope[node]; ok {
		return id
	}
	for anc := range s.Program.Arena.Ancestors(node) {
		if id, ok := s.nodeScope[anc]; ok {
			return id
		}
	}
	return s.Root()
}

// SymbolOf returns the symbol declared by a BindingIdentifier.
func (s *Semantic) SymbolOf(binding ast.NodeID) SymbolID {
	return s.declSymbol[binding]
}

// ReferenceOf returns the reference recorded for an identifier use.
func (s *Semantic) ReferenceOf(node ast.NodeID) (ReferenceID, bool) {
	id, ok := s.nodeRef[node]
	return id, ok
}

// VarScope returns the nearest scope at or above id that var declarations
// bind to.
func (s *Semantic) VarScope(id ScopeID) ScopeID {
	for id != NoScope {
		sc := s.Scope(id)
		if sc.Kind.IsVarScope() {
			return id
		}
		id = sc.Parent
	}
	return s.Root()
}

// IsAncestor reports whether anc is scope or one of its ancestors.
func (s *Semantic) IsAncestor(anc, scope ScopeID) bool {
	for id := scope; id != NoScope; id = s.Scope(id).Parent {
		if id == anc {
			return true
		}
	}
	return false
}

// Ancestors iterates from scope up to the root, scope included.
func (s *Semantic) Ancestors(scope ScopeID) iter.Seq[ScopeID] {
	return func(yield func(ScopeID) bool) {
		for id := scope; id != NoScope; id = s.Scope(id).Parent {
			if !yield(id) {
				return
			}
		}
	}
}

// Lookup walks the scope chain outward from scope and returns the first
// binding of name in the declaration spaces of m.
func (s *Semantic) Lookup(scope ScopeID, name string, m Meaning) SymbolID {
	for id := range s.Ancestors(scope) {
		if sym := s.Scope(id).binding(name, m); sym != NoSymbol {
			return sym
		}
	}
	return NoSymbol
}

// AddReference records a use. It is called by the resolver, which owns the
// reference table.
func (s *Semantic) AddReference(r Reference) ReferenceID {
	id := s.references.Push(r)
	s.nodeRef[r.Node] = id
	if r.Symbol != NoSymbol {
		sym := s.Symbol(r.Symbol)
		sym.References = append(sym.References, id)
	} else {
		s.Unresolved[r.Name] = append(s.Unresolved[r.Name], id)
	}
	return id
}

// SymbolsNamed returns every symbol with the given name in declaration
// order.
func (s *Semantic) SymbolsNamed(name string) []SymbolID {
	var out []SymbolID
	for id, sym := range s.Symbols() {
		if sym.Name == name {
			out = append(out, id)
		}
	}
	return out
}
