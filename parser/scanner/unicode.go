package scanner

import (
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

func isLineTerminator(chr rune) bool {
	switch chr {
	case '\u000a', '\u000d', '\u2028', '\u2029':
		return true
	}
	return false
}

func isWhiteSpace(chr rune) bool {
	switch chr {
	case '\u0009', '\u000b', '\u000c', ' ', '\u00a0', '\ufeff':
		return true
	case '\u000a', '\u000d', '\u2028', '\u2029', '\u0085':
		return false
	}
	return unicode.Is(unicode.Zs, chr)
}

// identifierUnicodeEscape reads the tail of a \u escape in an identifier. The
// backslash has been consumed. It returns -1 when the escape is malformed.
func (s *Scanner) identifierUnicodeEscape() rune {
	if !s.src.AdvanceIfByteEquals('u') {
		return -1
	}
	if s.src.AdvanceIfByteEquals('{') {
		return s.codePointTail()
	}
	return s.hexFourDigits()
}

func (s *Scanner) hexDigit() (rune, bool) {
	b, ok := s.src.PeekByte()
	if !ok {
		return 0, false
	}
	var v rune
	switch {
	case '0' <= b && b <= '9':
		v = rune(b - '0')
	case 'a' <= b && b <= 'f':
		v = rune(b-'a') + 10
	case 'A' <= b && b <= 'F':
		v = rune(b-'A') + 10
	default:
		return 0, false
	}
	s.src.pos++
	return v, true
}

func (s *Scanner) hexFourDigits() (val rune) {
	for i := 0; i < 4; i++ {
		next, ok := s.hexDigit()
		if !ok {
			return -1
		}
		val = val<<4 | next
	}
	return val
}

// codePointTail reads the hex digits and closing brace of \u{...}.
func (s *Scanner) codePointTail() rune {
	val, ok := s.hexDigit()
	if !ok {
		return -1
	}
	for {
		next, ok := s.hexDigit()
		if !ok {
			break
		}
		val = val<<4 | next
		if val > utf8.MaxRune {
			for {
				if _, ok := s.hexDigit(); !ok {
					break
				}
			}
			s.src.AdvanceIfByteEquals('}')
			return -1
		}
	}
	if !s.src.AdvanceIfByteEquals('}') {
		return -1
	}
	return val
}

// unicodeEscape reads a \u escape in a string or template, joining an
// escaped surrogate pair into one code point.
func (s *Scanner) unicodeEscape() rune {
	if s.src.AdvanceIfByteEquals('{') {
		return s.codePointTail()
	}
	high := s.hexFourDigits()
	if high < 0 || !utf16.IsSurrogate(high) || high >= 0xDC00 {
		return high
	}
	if a, _ := s.src.PeekByteAt(0); a != '\\' {
		return high
	}
	if b, _ := s.src.PeekByteAt(1); b != 'u' {
		return high
	}
	save := s.src.pos
	s.src.pos += 2
	low := s.hexFourDigits()
	if low < 0xDC00 || low > 0xDFFF {
		s.src.pos = save
		return high
	}
	return utf16.DecodeRune(high, low)
}

type escapeResult uint8

const (
	escapeOK escapeResult = iota
	escapeInvalid
	escapeLegacyOctal
)

// readEscape decodes one escape sequence after the backslash and appends the
// cooked value to str.
func (s *Scanner) readEscape(str *strings.Builder, inTemplate bool) escapeResult {
	chr, ok := s.src.NextRune()
	if !ok {
		return escapeInvalid
	}

	switch chr {
	case '\n', '\u2028', '\u2029':
	case '\r':
		s.src.AdvanceIfByteEquals('\n')
	case 'b':
		str.WriteByte('\b')
	case 'f':
		str.WriteByte('\f')
	case 'n':
		str.WriteByte('\n')
	case 'r':
		str.WriteByte('\r')
	case 't':
		str.WriteByte('\t')
	case 'v':
		str.WriteByte('\v')
	case 'x':
		hi, ok1 := s.hexDigit()
		if !ok1 {
			return escapeInvalid
		}
		lo, ok2 := s.hexDigit()
		if !ok2 {
			return escapeInvalid
		}
		str.WriteRune(hi<<4 | lo)
	case 'u':
		v := s.unicodeEscape()
		if v < 0 {
			return escapeInvalid
		}
		str.WriteRune(v)
	case '0', '1', '2', '3', '4', '5', '6', '7':
		next, _ := s.src.PeekByte()
		if chr == '0' && !isDecimalDigit(next) {
			str.WriteByte(0)
			return escapeOK
		}
		if inTemplate {
			return escapeInvalid
		}
		val := chr - '0'
		limit := 2
		if chr > '3' {
			limit = 1
		}
		for i := 0; i < limit; i++ {
			b, ok := s.src.PeekByte()
			if !ok || b < '0' || b > '7' {
				break
			}
			val = val*8 + rune(b-'0')
			s.src.pos++
		}
		str.WriteRune(val)
		return escapeLegacyOctal
	case '8', '9':
		if inTemplate {
			return escapeInvalid
		}
		str.WriteRune(chr)
		return escapeLegacyOctal
	default:
		str.WriteRune(chr)
	}
	return escapeOK
}
