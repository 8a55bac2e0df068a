package scanner

import (
	"unicode/utf8"

	"github.com/t14raptor/fastfront/ast"
)

// Source is a cursor over the text of one parse unit.
type Source struct {
	text string
	pos  ast.Idx
	len  ast.Idx
}

func NewSource(src string) Source {
	return Source{
		text: src,
		len:  ast.Idx(len(src)),
	}
}

func (s *Source) EOF() bool {
	return s.pos >= s.len
}

func (s *Source) Offset() ast.Idx {
	return s.pos
}

func (s *Source) EndOffset() ast.Idx {
	return s.len
}

func (s *Source) SetPosition(pos ast.Idx) {
	s.pos = pos
}

func (s *Source) ReadPosition(pos ast.Idx) byte {
	return s.text[pos]
}

func (s *Source) NextRune() (rune, bool) {
	if s.EOF() {
		return 0, false
	}
	if b := s.text[s.pos]; b < utf8.RuneSelf {
		s.pos++
		return rune(b), true
	}
	r, size := utf8.DecodeRuneInString(s.text[s.pos:])
	s.pos += ast.Idx(size)
	return r, true
}

func (s *Source) PeekRune() (rune, bool) {
	if s.EOF() {
		return 0, false
	}
	if b := s.text[s.pos]; b < utf8.RuneSelf {
		return rune(b), true
	}
	r, _ := utf8.DecodeRuneInString(s.text[s.pos:])
	return r, true
}

func (s *Source) NextByte() (byte, bool) {
	if s.EOF() {
		return 0, false
	}
	return s.NextByteUnchecked(), true
}

func (s *Source) NextByteUnchecked() byte {
	b := s.text[s.pos]
	s.pos++
	return b
}

func (s *Source) PeekByte() (byte, bool) {
	if s.EOF() {
		return 0, false
	}
	return s.text[s.pos], true
}

// PeekByteAt returns the byte n positions ahead of the cursor.
func (s *Source) PeekByteAt(n int) (byte, bool) {
	p := s.pos + ast.Idx(n)
	if p >= s.len {
		return 0, false
	}
	return s.text[p], true
}

func (s *Source) AdvanceIfByteEquals(b byte) (matched bool) {
	if !s.EOF() && s.text[s.pos] == b {
		s.pos++
		return true
	}
	return false
}

func (s *Source) FromPositionToCurrent(pos ast.Idx) string {
	return s.text[pos:s.pos]
}

func (s *Source) Slice(from, to ast.Idx) string {
	return s.text[from:to]
}
