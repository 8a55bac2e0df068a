package scanner

import (
	"github.com/t14raptor/fastfront/diag"
	"github.com/t14raptor/fastfront/token"
)

// NextJSXChild scans the next token between JSX tags: a '<', a '{', or a run
// of JSXText up to either of them.
func (s *Scanner) NextJSXChild() {
	s.reset()
	s.Token.Idx0 = s.src.pos
	defer func() { s.Token.Idx1 = s.src.pos }()

	b, ok := s.src.PeekByte()
	switch {
	case !ok:
		s.Token.Kind = token.Eof
		return
	case b == '<':
		s.src.pos++
		s.Token.Kind = token.Less
		return
	case b == '{':
		s.src.pos++
		s.Token.Kind = token.LeftBrace
		return
	}

	start := s.src.pos
	for !s.src.EOF() {
		c := s.src.text[s.src.pos]
		if c == '<' || c == '{' {
			break
		}
		s.src.pos++
	}
	s.Token.Kind = token.JSXText
	s.Token.Value = s.src.FromPositionToCurrent(start)
}

// NextInsideJSXElement scans the next token inside a JSX tag, where names may
// contain '-', strings have no escapes, and '>' never merges with '='.
func (s *Scanner) NextInsideJSXElement() {
	s.reset()
	s.skipTrivia()
	s.Token.Idx0 = s.src.pos
	defer func() { s.Token.Idx1 = s.src.pos }()

	b, ok := s.src.PeekByte()
	if !ok {
		s.Token.Kind = token.Eof
		return
	}
	switch b {
	case '>':
		s.src.pos++
		s.Token.Kind = token.Greater
		return
	case '"', '\'':
		s.Token.Kind = s.scanJSXString(b)
		return
	}
	if r, _ := s.src.PeekRune(); isIdentifierStart(r) {
		s.Token.Kind = s.scanIdentifierOrKeyword()
		s.scanJSXIdentifierTail()
		return
	}
	s.Token.Kind = s.scanToken()
}

// ReScanJSXIdentifier extends an identifier or keyword token scanned in the
// default context with the '-' separated parts a JSX name allows.
func (s *Scanner) ReScanJSXIdentifier() {
	if !token.ID(s.Token.Kind) {
		return
	}
	s.src.pos = s.Token.Idx1
	s.scanJSXIdentifierTail()
	s.Token.Idx1 = s.src.pos
}

func (s *Scanner) scanJSXIdentifierTail() bool {
	extended := false
	for {
		b, ok := s.src.PeekByte()
		if !ok || b != '-' {
			break
		}
		s.src.pos++
		for {
			r, ok := s.src.PeekRune()
			if !ok || r != '-' && !isIdentifierPart(r) {
				break
			}
			s.src.NextRune()
		}
		extended = true
	}
	if extended {
		s.Token.Value = s.src.FromPositionToCurrent(s.Token.Idx0)
		s.Token.Kind = token.Identifier
	}
	return extended
}

func (s *Scanner) scanJSXString(quote byte) token.Token {
	start := s.src.pos
	s.src.pos++
	for !s.src.EOF() {
		if s.src.text[s.src.pos] == quote {
			s.Token.Value = s.src.Slice(start+1, s.src.pos)
			s.src.pos++
			return token.String
		}
		s.src.pos++
	}
	s.Token.Value = s.src.Slice(start+1, s.src.pos)
	s.error(diag.UnterminatedJSXString, start, s.src.pos, "Unterminated string in JSX attribute")
	return token.String
}
