package scanner

import (
	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/token"
)

// Flags carry literal details the parser needs without rescanning.
type Flags uint16

const (
	FlagHex Flags = 1 << iota
	FlagOctal
	FlagBinary
	FlagLegacyOctal
	FlagBigInt
	FlagSeparators
	FlagInvalidEscape
	FlagLegacyOctalEscape
)

type Token struct {
	Kind token.Token

	OnNewLine bool
	HasEscape bool
	// Invalid is set when a diagnostic was reported while scanning the token.
	Invalid bool

	Idx0, Idx1 ast.Idx

	// Value is the cooked text: identifier names, string and template
	// contents, regexp patterns, bigint digits and JSX text.
	Value string
	// Number is the value of a Number token.
	Number float64

	Flags       Flags
	RegExpFlags uint8
}

// Span returns the byte range of the token.
func (t Token) Span() ast.Span {
	return ast.Span{Start: t.Idx0, End: t.Idx1}
}

// Base returns the numeric base of a Number token.
func (t Token) Base() uint8 {
	switch {
	case t.Flags&FlagHex != 0:
		return ast.BaseHex
	case t.Flags&FlagOctal != 0:
		return ast.BaseOctal
	case t.Flags&FlagBinary != 0:
		return ast.BaseBinary
	case t.Flags&FlagLegacyOctal != 0:
		return ast.BaseLegacyOctal
	}
	return ast.BaseDecimal
}

// Raw returns the source text of the token.
func (t Token) Raw(s *Scanner) string {
	return s.src.Slice(t.Idx0, t.Idx1)
}

// TemplateRaw returns the raw text of a template piece without its delimiters.
func (t Token) TemplateRaw(s *Scanner) string {
	raw := s.src.Slice(t.Idx0, t.Idx1)
	switch t.Kind {
	case token.NoSubstitutionTemplate, token.TemplateTail:
		if len(raw) >= 2 && raw[len(raw)-1] == '`' {
			return raw[1 : len(raw)-1]
		}
		return raw[1:]
	case token.TemplateHead, token.TemplateMiddle:
		return raw[1 : len(raw)-2]
	}
	return raw
}
