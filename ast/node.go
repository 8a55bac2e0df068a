package ast

import "github.com/t14raptor/fastfront/token"

// Idx is a byte offset into the source text of a parse unit.
type Idx int

// Span is the half-open byte range [Start, End) covered by a node or token.
type Span struct {
	Start, End Idx
}

// Contains reports whether o lies within s.
func (s Span) Contains(o Span) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Overlaps reports whether s and o share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// Len returns the number of bytes in the span.
func (s Span) Len() int {
	return int(s.End - s.Start)
}

// NodeID addresses a node inside the arena of its parse unit.
type NodeID uint32

// NoNode is the absent child.
const NoNode NodeID = 0

// Valid reports whether the id refers to a node.
func (id NodeID) Valid() bool {
	return id != NoNode
}

// ListRef addresses a run of child ids in the arena's shared list pool.
type ListRef struct {
	Off, Len uint32
}

// Node is the single tagged representation of every syntax node. The meaning
// of the child slots, Op, Variant, Text and Num depends on Kind and is
// documented next to each kind constant.
type Node struct {
	Kind    Kind
	Op      token.Token
	Variant uint8
	Flags   Flags
	Span    Span

	A, B, C, D, E NodeID
	List          ListRef

	Text string
	Num  float64
}

// Has reports whether all bits of f are set on the node.
func (n *Node) Has(f Flags) bool {
	return n.Flags&f == f
}

// Flags are boolean attributes of a node. A bit is only meaningful for the
// kinds that document it.
type Flags uint32

const (
	FlagAsync Flags = 1 << iota
	FlagGenerator
	FlagStatic
	FlagComputed
	FlagOptional
	FlagShorthand
	FlagMethod
	FlagPrefix
	FlagDelegate
	FlagAwait
	FlagDeclare
	FlagAbstract
	FlagReadonly
	FlagDefinite
	FlagTypeOnly
	FlagExpressionBody
	FlagDirective
	FlagTail
	FlagInvalidCooked
	FlagSelfClosing
	FlagConst
	FlagOverride
	FlagAccessor
	FlagAsserts
	FlagPublic
	FlagPrivate
	FlagProtected
	FlagModule
	FlagStrict
	FlagIn
	FlagOut
)

// PropKind is stored in Variant of Property nodes.
const (
	PropInit uint8 = iota
	PropGet
	PropSet
)

// MethodKind is stored in Variant of MethodDefinition and TSMethodSignature.
const (
	MethodMethod uint8 = iota
	MethodGet
	MethodSet
	MethodConstructor
)

// NumberBase is stored in Variant of NumericLiteral and BigIntLiteral.
const (
	BaseDecimal uint8 = iota
	BaseHex
	BaseOctal
	BaseBinary
	BaseLegacyOctal
)

// RegExp flag bits, stored in Variant of RegExpLiteral.
const (
	RegExpD uint8 = 1 << iota
	RegExpG
	RegExpI
	RegExpM
	RegExpS
	RegExpU
	RegExpV
	RegExpY
)

var regExpFlagChars = [8]byte{'d', 'g', 'i', 'm', 's', 'u', 'v', 'y'}

// RegExpFlagBit maps a flag character to its bit, or 0.
func RegExpFlagBit(c byte) uint8 {
	for i, f := range regExpFlagChars {
		if f == c {
			return 1 << i
		}
	}
	return 0
}

// RegExpFlagString renders a flag bitset in canonical order.
func RegExpFlagString(bits uint8) string {
	var b []byte
	for i, f := range regExpFlagChars {
		if bits&(1<<i) != 0 {
			b = append(b, f)
		}
	}
	return string(b)
}

// Mapped type modifiers, stored in Variant of TSMappedType.
const (
	MappedReadonly uint8 = 1 << iota
	MappedReadonlyMinus
	MappedOptional
	MappedOptionalMinus
)

// Module declaration flavours, stored in Variant of TSModuleDeclaration.
const (
	ModuleNamespace uint8 = iota
	ModuleModule
	ModuleGlobal
)

// Comment is a line or block comment recorded by the scanner.
type Comment struct {
	Span  Span
	Block bool
}

// Program is the result of parsing one unit.
type Program struct {
	Arena    *Arena
	Root     NodeID
	Source   string
	Comments []Comment
	Hashbang string
}

// Node returns the node with the given id.
func (p *Program) Node(id NodeID) *Node {
	return p.Arena.Node(id)
}

// Text returns the source text covered by span.
func (p *Program) Text(s Span) string {
	return p.Source[s.Start:s.End]
}

// Position converts a byte offset to a 1-based line and a 1-based column
// counted in bytes. CR LF counts as one line break.
func (p *Program) Position(off Idx) (line, col int) {
	line, start := 1, 0
	end := max(0, min(int(off), len(p.Source)))
	for i := 0; i < end; i++ {
		switch p.Source[i] {
		case '\n':
			line++
			start = i + 1
		case '\r':
			if i+1 < len(p.Source) && p.Source[i+1] == '\n' {
				continue
			}
			line++
			start = i + 1
		}
	}
	return line, end - start + 1
}
