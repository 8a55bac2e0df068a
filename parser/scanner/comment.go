package scanner

import "github.com/t14raptor/fastfront/ast"

// skipSingleLineComment consumes a // comment up to, but not including, the
// line terminator.
func (s *Scanner) skipSingleLineComment(start ast.Idx) {
	s.src.pos += 2
	s.skipToLineEnd()
	s.comments = append(s.comments, ast.Comment{Span: ast.Span{Start: start, End: s.src.pos}})
}

func (s *Scanner) skipToLineEnd() {
	for !s.src.EOF() {
		b := s.src.text[s.src.pos]
		if b == '\n' || b == '\r' {
			return
		}
		if b < 0x80 {
			s.src.pos++
			continue
		}
		r, _ := s.src.PeekRune()
		if r == '\u2028' || r == '\u2029' {
			return
		}
		s.src.NextRune()
	}
}

// skipMultiLineComment consumes a /* */ comment. A line terminator inside the
// comment counts as a line break for automatic semicolon insertion.
func (s *Scanner) skipMultiLineComment(start ast.Idx) {
	s.src.pos += 2
	for !s.src.EOF() {
		b := s.src.text[s.src.pos]
		switch {
		case b == '*':
			if next, _ := s.src.PeekByteAt(1); next == '/' {
				s.src.pos += 2
				s.comments = append(s.comments, ast.Comment{Span: ast.Span{Start: start, End: s.src.pos}, Block: true})
				return
			}
			s.src.pos++
		case b == '\n' || b == '\r':
			s.Token.OnNewLine = true
			s.src.pos++
		case b < 0x80:
			s.src.pos++
		default:
			if r, _ := s.src.NextRune(); r == '\u2028' || r == '\u2029' {
				s.Token.OnNewLine = true
			}
		}
	}
	s.unterminatedMultiLineComment(start, s.src.pos)
	s.comments = append(s.comments, ast.Comment{Span: ast.Span{Start: start, End: s.src.pos}, Block: true})
}
