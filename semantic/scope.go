package semantic

import "github.com/t14raptor/fastfront/ast"

// ScopeID addresses a scope in the scope registry of one unit.
type ScopeID uint32

// NoScope is the parent of the root scope.
const NoScope ScopeID = 0

type ScopeKind uint8

const (
	ScopeModule ScopeKind = iota
	ScopeScript
	ScopeFunction
	ScopeBlock
	ScopeClass
	ScopeCatch
	ScopeTypeParameters
	ScopeNamespace
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeModule:
		return "module"
	case ScopeScript:
		return "script"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	case ScopeClass:
		return "class"
	case ScopeCatch:
		return "catch"
	case ScopeTypeParameters:
		return "type-parameters"
	case ScopeNamespace:
		return "namespace"
	}
	return "unknown"
}

// IsVarScope reports whether var and function declarations stop at scopes of
// this kind.
func (k ScopeKind) IsVarScope() bool {
	switch k {
	case ScopeModule, ScopeScript, ScopeFunction, ScopeNamespace:
		return true
	}
	return false
}

// Scope is one node of the scope tree. Values and types live in separate
// declaration spaces; classes, enums, namespaces and imports occupy both.
type Scope struct {
	Kind   ScopeKind
	Parent ScopeID
	Node   ast.NodeID
	Strict bool

	Values   map[string]SymbolID
	Types    map[string]SymbolID
	Children []ScopeID

	// hoisted records the var and function names that were hoisted through
	// this scope, so a later lexical declaration can detect the clash.
	hoisted map[string]struct{}
	// hoistedVars is the var subset of hoisted. blockFunctions holds the
	// functions declared directly in a block; they clash like let with a var.
	hoistedVars    map[string]struct{}
	blockFunctions map[string]struct{}
}

func newScope(kind ScopeKind, parent ScopeID, node ast.NodeID, strict bool) Scope {
	return Scope{
		Kind:   kind,
		Parent: parent,
		Node:   node,
		Strict: strict,
		Values: make(map[string]SymbolID),
		Types:  make(map[string]SymbolID),
	}
}

// binding returns the symbol bound to name in the declaration spaces of m.
func (s *Scope) binding(name string, m Meaning) SymbolID {
	if m&MeaningValue != 0 {
		if id, ok := s.Values[name]; ok {
			return id
		}
	}
	if m&MeaningType != 0 {
		if id, ok := s.Types[name]; ok {
			return id
		}
	}
	return NoSymbol
}

func mark(set *map[string]struct{}, name string) {
	if *set == nil {
		*set = make(map[string]struct{})
	}
	(*set)[name] = struct{}{}
}

func (s *Scope) bind(name string, m Meaning, id SymbolID) {
	if m&MeaningValue != 0 {
		s.Values[name] = id
	}
	if m&MeaningType != 0 {
		s.Types[name] = id
	}
}
