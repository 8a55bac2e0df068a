package semantic

import "github.com/t14raptor/fastfront/ast"

// SymbolID addresses a symbol in the flat symbol registry.
type SymbolID uint32

// NoSymbol marks an unresolved reference.
const NoSymbol SymbolID = 0

// DeclKind is the declaration form that introduced a symbol.
type DeclKind uint8

const (
	DeclVar DeclKind = iota
	DeclLet
	DeclConst
	DeclFunction
	DeclClass
	DeclParameter
	DeclCatch
	DeclImport
	DeclTypeAlias
	DeclInterface
	DeclEnum
	DeclNamespace
	DeclTypeParameter
)

var declKindNames = [...]string{
	DeclVar:           "var",
	DeclLet:           "let",
	DeclConst:         "const",
	DeclFunction:      "function",
	DeclClass:         "class",
	DeclParameter:     "parameter",
	DeclCatch:         "catch",
	DeclImport:        "import",
	DeclTypeAlias:     "type",
	DeclInterface:     "interface",
	DeclEnum:          "enum",
	DeclNamespace:     "namespace",
	DeclTypeParameter: "type-parameter",
}

func (k DeclKind) String() string {
	if int(k) < len(declKindNames) {
		return declKindNames[k]
	}
	return "unknown"
}

// IsLexical reports whether the binding is block scoped and may not be
// redeclared.
func (k DeclKind) IsLexical() bool {
	switch k {
	case DeclLet, DeclConst, DeclClass:
		return true
	}
	return false
}

// HasTDZ reports whether reads before the declaration are in the temporal
// dead zone.
func (k DeclKind) HasTDZ() bool {
	return k.IsLexical()
}

// Meaning reports the declaration spaces the binding occupies.
func (k DeclKind) Meaning() Meaning {
	switch k {
	case DeclClass, DeclEnum, DeclNamespace, DeclImport:
		return MeaningValue | MeaningType
	case DeclTypeAlias, DeclInterface, DeclTypeParameter:
		return MeaningType
	}
	return MeaningValue
}

// varLike kinds merge with each other silently.
func (k DeclKind) varLike() bool {
	return k == DeclVar || k == DeclFunction || k == DeclParameter
}

// mergeable reports whether a second declaration of kind next may share
// the symbol of a declaration of kind prev.
func mergeable(prev, next DeclKind) bool {
	switch {
	case prev.varLike() && next.varLike():
		return true
	case prev == DeclInterface && (next == DeclInterface || next == DeclClass),
		prev == DeclClass && next == DeclInterface:
		return true
	case prev == DeclEnum && next == DeclEnum:
		return true
	case prev == DeclNamespace || next == DeclNamespace:
		other := prev
		if prev == DeclNamespace {
			other = next
		}
		switch other {
		case DeclNamespace, DeclFunction, DeclClass, DeclEnum, DeclInterface:
			return true
		}
	}
	return false
}

// Meaning is a set of declaration spaces.
type Meaning uint8

const (
	MeaningValue Meaning = 1 << iota
	MeaningType
)

// SymbolFlags describe how a symbol is declared and used.
type SymbolFlags uint16

const (
	SymRead SymbolFlags = 1 << iota
	SymWritten
	SymExported
	SymFunctionExprName
	SymClassExprName
	SymTypeOnly
	SymAmbient
)

// NoTDZ is the TDZStart of bindings that can be read before their
// declaration.
const NoTDZ ast.Idx = -1

// Symbol is one named binding.
type Symbol struct {
	Name  string
	Kind  DeclKind
	Scope ScopeID
	// Decl is the BindingIdentifier of the first declaration.
	Decl           ast.NodeID
	Redeclarations []ast.NodeID
	Flags          SymbolFlags
	TDZStart       ast.Idx
	References     []ReferenceID
}

// Has reports whether all bits of f are set.
func (s *Symbol) Has(f SymbolFlags) bool {
	return s.Flags&f == f
}

// ReferenceID addresses a reference in the reference registry.
type ReferenceID uint32

// Access classifies what a reference does with its binding.
type Access uint8

const (
	Read Access = 1 << iota
	Write
	ReadWrite = Read | Write
)

func (a Access) String() string {
	switch a {
	case Read:
		return "read"
	case Write:
		return "write"
	case ReadWrite:
		return "read-write"
	}
	return "none"
}

// RefFlags annotate a reference.
type RefFlags uint8

const (
	// RefUsedBeforeDeclaration marks a read inside the temporal dead zone.
	RefUsedBeforeDeclaration RefFlags = 1 << iota
	// RefType marks a reference in a TypeScript type position.
	RefType
)

// Reference is one use of a name.
type Reference struct {
	Node   ast.NodeID
	Name   string
	Symbol SymbolID
	Scope  ScopeID
	Access Access
	Flags  RefFlags
}

// Resolved reports whether the reference found a binding.
func (r *Reference) Resolved() bool {
	return r.Symbol != NoSymbol
}
