package scanner

import (
	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/token"
)

// ReScanRegExp reinterprets the current '/' or '/=' token as the start of a
// regular expression literal. Value receives the pattern and RegExpFlags the
// validated flags.
func (s *Scanner) ReScanRegExp() {
	if s.Token.Kind != token.Slash && s.Token.Kind != token.QuotientAssign {
		return
	}
	start := s.Token.Idx0
	s.src.pos = start + 1

	var inEscape, inClass bool
body:
	for {
		chr, ok := s.src.PeekRune()
		if !ok || isLineTerminator(chr) {
			s.unterminatedRegExp(start, s.src.pos)
			s.Token.Kind = token.RegExp
			s.Token.Value = s.src.FromPositionToCurrent(start + 1)
			s.Token.Idx1 = s.src.pos
			return
		}
		s.src.NextRune()
		if inEscape {
			inEscape = false
			continue
		}
		switch chr {
		case '\\':
			inEscape = true
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				break body
			}
		}
	}

	s.Token.Value = s.src.Slice(start+1, s.src.pos-1)
	s.Token.RegExpFlags = s.scanRegExpFlags()
	s.Token.Kind = token.RegExp
	s.Token.Idx1 = s.src.pos
}

func (s *Scanner) scanRegExpFlags() uint8 {
	var bits uint8
	for {
		c, ok := s.src.PeekRune()
		if !ok || !isIdentifierPart(c) && c != '\\' {
			return bits
		}
		at := s.src.pos
		s.src.NextRune()
		if c >= 0x80 || c == '\\' {
			s.regExpFlag('?', at, s.src.pos)
			continue
		}
		bit := ast.RegExpFlagBit(byte(c))
		switch {
		case bit == 0:
			s.regExpFlag(byte(c), at, s.src.pos)
		case bits&bit != 0:
			s.regExpFlagTwice(byte(c), at, s.src.pos)
		default:
			bits |= bit
		}
	}
}
