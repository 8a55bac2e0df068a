package scanner

import (
	"strings"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/token"
)

// Matches: '$', '`', '\r', '\\'.
var templateLiteralEnd [256]bool

func init() {
	for _, b := range []byte{'$', '`', '\r', '\\'} {
		templateLiteralEnd[b] = true
	}
}

// readTemplateLiteral scans the body of a template piece. The opening
// delimiter (` or }) has been consumed. sub is returned when the piece ends
// with ${ and tail when it ends with a backtick. Value holds the cooked
// text; a malformed escape sets FlagInvalidEscape instead of reporting, since
// tagged templates allow them.
func (s *Scanner) readTemplateLiteral(sub, tail token.Token) token.Token {
	start := s.Token.Idx0
	contentStart := s.src.pos

	for {
		b, ok := s.src.PeekByte()
		if !ok {
			s.Token.Value = s.src.FromPositionToCurrent(contentStart)
			s.unterminatedTemplateLiteral(start, s.src.pos)
			return tail
		}
		if !templateLiteralEnd[b] {
			s.src.pos++
			continue
		}
		switch b {
		case '$':
			if next, _ := s.src.PeekByteAt(1); next == '{' {
				s.Token.Value = s.src.FromPositionToCurrent(contentStart)
				s.src.pos += 2
				return sub
			}
			s.src.pos++
		case '`':
			s.Token.Value = s.src.FromPositionToCurrent(contentStart)
			s.src.pos++
			return tail
		default:
			return s.templateLiteralEscaped(start, contentStart, sub, tail)
		}
	}
}

// templateLiteralEscaped continues a template piece once an escape or a
// carriage return has been seen. \r and \r\n are normalized to \n.
func (s *Scanner) templateLiteralEscaped(start, contentStart ast.Idx, sub, tail token.Token) token.Token {
	var str strings.Builder
	str.WriteString(s.src.FromPositionToCurrent(contentStart))
	chunk := s.src.pos

	for {
		b, ok := s.src.PeekByte()
		if !ok {
			str.WriteString(s.src.text[chunk:s.src.pos])
			s.Token.Value = str.String()
			s.unterminatedTemplateLiteral(start, s.src.pos)
			return tail
		}
		switch b {
		case '$':
			if next, _ := s.src.PeekByteAt(1); next == '{' {
				str.WriteString(s.src.text[chunk:s.src.pos])
				s.Token.Value = str.String()
				s.src.pos += 2
				return sub
			}
			s.src.pos++
		case '`':
			str.WriteString(s.src.text[chunk:s.src.pos])
			s.Token.Value = str.String()
			s.src.pos++
			return tail
		case '\r':
			str.WriteString(s.src.text[chunk:s.src.pos])
			str.WriteByte('\n')
			s.src.pos++
			s.src.AdvanceIfByteEquals('\n')
			chunk = s.src.pos
		case '\\':
			str.WriteString(s.src.text[chunk:s.src.pos])
			s.src.pos++
			s.Token.HasEscape = true
			if s.readEscape(&str, true) != escapeOK {
				s.Token.Flags |= FlagInvalidEscape
			}
			chunk = s.src.pos
		default:
			s.src.pos++
		}
	}
}
