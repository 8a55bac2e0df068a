package scanner

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/token"
)

// Lookup tables for ASCII identifier characters.
// Non-ASCII bytes (>= 128) are always false, branching to the Unicode path.
var asciiStart, asciiContinue [256]bool

func init() {
	for i := 0; i < 128; i++ {
		if i >= 'a' && i <= 'z' || i >= 'A' && i <= 'Z' || i == '$' || i == '_' {
			asciiStart[i] = true
			asciiContinue[i] = true
		}
		if i >= '0' && i <= '9' {
			asciiContinue[i] = true
		}
	}
}

func isIdentifierStart(chr rune) bool {
	if chr < 0 {
		return false
	}
	if chr < utf8.RuneSelf {
		return asciiStart[chr]
	}
	return unicode.In(chr, unicode.L, unicode.Nl, unicode.Other_ID_Start)
}

func isIdentifierPart(chr rune) bool {
	if chr < 0 {
		return false
	}
	if chr < utf8.RuneSelf {
		return asciiContinue[chr]
	}
	return chr == '\u200c' || chr == '\u200d' ||
		unicode.In(chr, unicode.L, unicode.Nl, unicode.Other_ID_Start,
			unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}

// IsIdentifierName reports whether str is a valid identifier name.
func IsIdentifierName(str string) bool {
	for i, r := range str {
		if i == 0 && !isIdentifierStart(r) || i > 0 && !isIdentifierPart(r) {
			return false
		}
	}
	return str != ""
}

func (s *Scanner) scanIdentifierOrKeyword() token.Token {
	name, escaped := s.scanIdentifierName()
	s.Token.Value = name
	s.Token.HasEscape = escaped

	kind := token.MatchKeyword(name)
	if escaped && kind != token.Identifier {
		if token.UnreservedWord(kind) {
			return token.Identifier
		}
		return token.EscapedReservedWord
	}
	return kind
}

// scanIdentifierName reads an identifier starting at the cursor. The returned
// name has unicode escapes decoded.
func (s *Scanner) scanIdentifierName() (string, bool) {
	start := s.src.pos
	for pos := start; pos < s.src.len; pos++ {
		b := s.src.text[pos]
		if asciiContinue[b] {
			continue
		}
		s.src.pos = pos
		if b >= utf8.RuneSelf || b == '\\' {
			return s.scanIdentifierSlow(start)
		}
		return s.src.FromPositionToCurrent(start), false
	}
	s.src.pos = s.src.len
	return s.src.FromPositionToCurrent(start), false
}

func (s *Scanner) scanIdentifierSlow(start ast.Idx) (string, bool) {
	var str *strings.Builder
	chunk := start
	for {
		c, ok := s.src.PeekRune()
		if !ok {
			break
		}
		if c == '\\' {
			if str == nil {
				str = &strings.Builder{}
				str.Grow(16)
			}
			str.WriteString(s.src.text[chunk:s.src.pos])
			escStart := s.src.pos
			s.src.pos++
			value := s.identifierUnicodeEscape()
			first := escStart == start
			if value < 0 || first && !isIdentifierStart(value) || !first && !isIdentifierPart(value) {
				s.invalidIdentifierEscape(escStart, s.src.pos)
			} else {
				str.WriteRune(value)
			}
			chunk = s.src.pos
			continue
		}
		if s.src.pos == start {
			if !isIdentifierStart(c) {
				break
			}
		} else if !isIdentifierPart(c) {
			break
		}
		s.src.NextRune()
	}
	if str == nil {
		return s.src.FromPositionToCurrent(start), false
	}
	str.WriteString(s.src.text[chunk:s.src.pos])
	return str.String(), true
}
