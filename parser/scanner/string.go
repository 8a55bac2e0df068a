package scanner

import (
	"strings"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/token"
)

// scanStringLiteral reads a string delimited by quote. Value holds the cooked
// contents. An unterminated string ends at the line break or end of input.
func (s *Scanner) scanStringLiteral(quote byte) token.Token {
	start := s.src.pos
	s.src.pos++

	// Fast path: no escapes.
	for pos := s.src.pos; pos < s.src.len; pos++ {
		b := s.src.text[pos]
		if b == quote {
			s.Token.Value = s.src.text[s.src.pos:pos]
			s.src.pos = pos + 1
			return token.String
		}
		if b == '\\' || b == '\n' || b == '\r' {
			break
		}
	}

	var str strings.Builder
	chunk := s.src.pos
	for {
		b, ok := s.src.PeekByte()
		if !ok || b == '\n' || b == '\r' {
			str.WriteString(s.src.text[chunk:s.src.pos])
			s.Token.Value = str.String()
			s.unterminatedString(start, s.src.pos)
			return token.String
		}
		switch b {
		case quote:
			str.WriteString(s.src.text[chunk:s.src.pos])
			s.src.pos++
			s.Token.Value = str.String()
			return token.String
		case '\\':
			str.WriteString(s.src.text[chunk:s.src.pos])
			escStart := s.src.pos
			s.src.pos++
			s.Token.HasEscape = true
			switch s.readEscape(&str, false) {
			case escapeInvalid:
				s.invalidEscape(escStart)
			case escapeLegacyOctal:
				s.Token.Flags |= FlagLegacyOctalEscape
			}
			chunk = s.src.pos
		default:
			s.src.pos++
		}
	}
}

// invalidEscape reports a malformed escape starting at the backslash.
func (s *Scanner) invalidEscape(escStart ast.Idx) {
	if escStart+1 < s.src.len && s.src.text[escStart+1] == 'u' {
		s.invalidUnicodeEscapeSequence(escStart, s.src.pos)
		return
	}
	s.invalidEscapeSequence(escStart, s.src.pos)
}
