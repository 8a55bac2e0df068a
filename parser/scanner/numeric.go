package scanner

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/token"
)

// scanNumber reads a numeric literal starting at a digit or at '.' followed
// by a digit.
func (s *Scanner) scanNumber() token.Token {
	start := s.src.pos
	b := s.src.NextByteUnchecked()

	switch {
	case b == '.':
		s.decimalDigits()
		s.optionalExp()
		return s.finishDecimal(start)
	case b == '0':
		return s.readZero(start)
	}
	s.decimalDigits()
	return s.decimalAfterIntegerPart(start)
}

func (s *Scanner) readZero(start ast.Idx) token.Token {
	next, _ := s.src.PeekByte()
	switch next {
	case 'b', 'B':
		s.src.pos++
		s.Token.Flags |= FlagBinary
		return s.readNonDecimal(start, 2)
	case 'o', 'O':
		s.src.pos++
		s.Token.Flags |= FlagOctal
		return s.readNonDecimal(start, 8)
	case 'x', 'X':
		s.src.pos++
		s.Token.Flags |= FlagHex
		return s.readNonDecimal(start, 16)
	case '_':
		s.misplacedSeparator(s.src.pos, s.src.pos+1)
		s.src.pos++
		s.decimalDigits()
		return s.decimalAfterIntegerPart(start)
	}
	if isDecimalDigit(next) {
		return s.readLegacyOctal(start)
	}
	return s.decimalAfterIntegerPart(start)
}

func (s *Scanner) decimalAfterIntegerPart(start ast.Idx) token.Token {
	if s.src.AdvanceIfByteEquals('n') {
		s.Token.Flags |= FlagBigInt
		digits := s.cleanDigits(start, s.src.pos-1)
		s.Token.Value = digits
		s.Token.Number = bigValue(digits, 10)
		return s.checkAfterNumericLiteral(start)
	}
	if s.src.AdvanceIfByteEquals('.') {
		if b, _ := s.src.PeekByte(); b == '_' {
			s.misplacedSeparator(s.src.pos, s.src.pos+1)
		}
		if b, ok := s.src.PeekByte(); ok && isDecimalDigit(b) {
			s.decimalDigits()
		}
	}
	s.optionalExp()
	return s.finishDecimal(start)
}

func (s *Scanner) finishDecimal(start ast.Idx) token.Token {
	text := s.cleanDigits(start, s.src.pos)
	v, err := strconv.ParseFloat(text, 64)
	if err != nil && !isRangeErr(err) {
		s.invalidNumber(start, s.src.pos, "Invalid number")
	}
	s.Token.Number = v
	return s.checkAfterNumericLiteral(start)
}

func (s *Scanner) readNonDecimal(start ast.Idx, base int) token.Token {
	digitsStart := s.src.pos
	if b, ok := s.src.PeekByte(); !ok || digitValue(b) >= base {
		s.invalidNumber(start, s.src.pos, "Expected digits after base prefix")
		s.Token.Number = 0
		return s.checkAfterNumericLiteral(start)
	}
	s.digits(base)

	digits := s.cleanDigits(digitsStart, s.src.pos)
	if s.src.AdvanceIfByteEquals('n') {
		s.Token.Flags |= FlagBigInt
		s.Token.Value = s.src.FromPositionToCurrent(start)[:2] + digits
	}
	s.Token.Number = bigValue(digits, base)
	return s.checkAfterNumericLiteral(start)
}

// readLegacyOctal handles literals such as 0777. If a digit 8 or 9 appears
// the literal is a decimal with a leading zero instead.
func (s *Scanner) readLegacyOctal(start ast.Idx) token.Token {
	octal := true
	for {
		b, ok := s.src.PeekByte()
		if !ok || !isDecimalDigit(b) {
			break
		}
		if b >= '8' {
			octal = false
		}
		s.src.pos++
	}
	if b, _ := s.src.PeekByte(); b == '_' {
		s.misplacedSeparator(s.src.pos, s.src.pos+1)
		s.src.pos++
		s.decimalDigits()
	}
	if octal {
		s.Token.Flags |= FlagLegacyOctal
		s.Token.Number = bigValue(s.src.text[start+1:s.src.pos], 8)
		if s.src.AdvanceIfByteEquals('n') {
			s.invalidNumber(start, s.src.pos, "Legacy octal literals cannot be BigInts")
		}
		return s.checkAfterNumericLiteral(start)
	}
	return s.decimalAfterIntegerPart(start)
}

func (s *Scanner) optionalExp() {
	b, ok := s.src.PeekByte()
	if !ok || b != 'e' && b != 'E' {
		return
	}
	s.src.pos++
	if b, ok := s.src.PeekByte(); ok && (b == '+' || b == '-') {
		s.src.pos++
	}
	if b, ok := s.src.PeekByte(); !ok || !isDecimalDigit(b) {
		s.invalidNumber(s.src.pos, s.src.pos, "Missing exponent digits")
		return
	}
	s.decimalDigits()
}

func (s *Scanner) decimalDigits() {
	s.digits(10)
}

// digits consumes digits of base with '_' separators, reporting separators
// that are doubled or trailing.
func (s *Scanner) digits(base int) {
	prevSeparator := false
	for {
		b, ok := s.src.PeekByte()
		if !ok {
			break
		}
		if b == '_' {
			s.Token.Flags |= FlagSeparators
			if prevSeparator {
				s.misplacedSeparator(s.src.pos, s.src.pos+1)
			}
			prevSeparator = true
			s.src.pos++
			continue
		}
		if digitValue(b) >= base {
			break
		}
		prevSeparator = false
		s.src.pos++
	}
	if prevSeparator {
		s.misplacedSeparator(s.src.pos-1, s.src.pos)
	}
}

// cleanDigits returns source text between from and to with separators removed.
func (s *Scanner) cleanDigits(from, to ast.Idx) string {
	text := s.src.Slice(from, to)
	if s.Token.Flags&FlagSeparators == 0 {
		return text
	}
	return strings.ReplaceAll(text, "_", "")
}

// checkAfterNumericLiteral reports an identifier or digit immediately after
// a number, as in 3in or 0b12, and consumes it.
func (s *Scanner) checkAfterNumericLiteral(start ast.Idx) token.Token {
	b, ok := s.src.PeekByte()
	if !ok {
		return token.Number
	}
	if b < utf8.RuneSelf {
		if !asciiContinue[b] && b != '\\' {
			return token.Number
		}
	} else if c, _ := s.src.PeekRune(); !isIdentifierStart(c) {
		return token.Number
	}

	badStart := s.src.pos
	for {
		c, ok := s.src.PeekRune()
		if !ok || !isIdentifierPart(c) {
			break
		}
		s.src.NextRune()
	}
	if s.src.pos == badStart {
		s.src.pos++
	}
	s.invalidNumberEnd(badStart, s.src.pos)
	return token.Number
}

func digitValue(chr byte) int {
	switch {
	case '0' <= chr && chr <= '9':
		return int(chr - '0')
	case 'a' <= chr && chr <= 'f':
		return int(chr - 'a' + 10)
	case 'A' <= chr && chr <= 'F':
		return int(chr - 'A' + 10)
	}
	return 16 // Larger than any legal digit value
}

// bigValue converts digits of base to the nearest float64. Values beyond the
// float range become +Inf.
func bigValue(digits string, base int) float64 {
	if len(digits) <= 12 {
		v, err := strconv.ParseUint(digits, base, 64)
		if err == nil {
			return float64(v)
		}
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return math.NaN()
	}
	f, _ := new(big.Float).SetInt(n).Float64()
	return f
}

func isRangeErr(err error) bool {
	ne, ok := err.(*strconv.NumError)
	return ok && ne.Err == strconv.ErrRange
}
