package scanner

import (
	"iter"
	"unicode/utf8"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/diag"
	"github.com/t14raptor/fastfront/token"
)

// Scanner turns source text into tokens on demand. The parser reads the
// current token from Token and asks for a different interpretation of it
// through the ReScan and JSX methods when the grammar context requires one.
type Scanner struct {
	Token Token

	// Hashbang is the text of a leading #! line without the line terminator.
	Hashbang string

	src      Source
	diags    diag.List
	comments []ast.Comment
}

func NewScanner(src string) *Scanner {
	return &Scanner{
		src: NewSource(src),
	}
}

// Diagnostics returns the lexical diagnostics reported so far.
func (s *Scanner) Diagnostics() diag.List {
	return s.diags
}

// Comments returns the comments seen so far.
func (s *Scanner) Comments() []ast.Comment {
	return s.comments
}

// Tokens scans the rest of the input in the default context. Regular
// expressions are not recognized without a parser to ask for them.
func (s *Scanner) Tokens() iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for {
			s.Next()
			if !yield(s.Token) || s.Token.Kind == token.Eof {
				return
			}
		}
	}
}

func (s *Scanner) reset() {
	s.Token.OnNewLine = false
	s.Token.HasEscape = false
	s.Token.Invalid = false
	s.Token.Flags = 0
	s.Token.RegExpFlags = 0
	s.Token.Value = ""
	s.Token.Number = 0
}

// Next scans the next token in the default context.
func (s *Scanner) Next() {
	s.reset()
	s.skipTrivia()
	s.Token.Idx0 = s.src.pos
	if s.src.EOF() {
		s.Token.Kind = token.Eof
	} else {
		s.Token.Kind = s.scanToken()
	}
	s.Token.Idx1 = s.src.pos
}

// skipTrivia advances over whitespace and comments, recording line breaks.
func (s *Scanner) skipTrivia() {
	for !s.src.EOF() {
		b := s.src.text[s.src.pos]
		switch b {
		case ' ', '\t', 0x0B, 0x0C:
			s.src.pos++
		case '\n', '\r':
			s.src.pos++
			s.Token.OnNewLine = true
		case '/':
			next, _ := s.src.PeekByteAt(1)
			switch next {
			case '/':
				s.skipSingleLineComment(s.src.pos)
			case '*':
				s.skipMultiLineComment(s.src.pos)
			default:
				return
			}
		case '#':
			if s.src.pos != 0 {
				return
			}
			if next, _ := s.src.PeekByteAt(1); next != '!' {
				return
			}
			start := s.src.pos
			s.skipToLineEnd()
			s.Hashbang = s.src.FromPositionToCurrent(start)
		default:
			if b < utf8.RuneSelf {
				return
			}
			r, _ := s.src.PeekRune()
			switch {
			case r == '\u2028' || r == '\u2029':
				s.src.NextRune()
				s.Token.OnNewLine = true
			case isWhiteSpace(r):
				s.src.NextRune()
			default:
				return
			}
		}
	}
}

func (s *Scanner) scanToken() token.Token {
	b := s.src.text[s.src.pos]
	switch b {
	case '(':
		s.src.pos++
		return token.LeftParenthesis
	case ')':
		s.src.pos++
		return token.RightParenthesis
	case ',':
		s.src.pos++
		return token.Comma
	case ':':
		s.src.pos++
		return token.Colon
	case ';':
		s.src.pos++
		return token.Semicolon
	case '[':
		s.src.pos++
		return token.LeftBracket
	case ']':
		s.src.pos++
		return token.RightBracket
	case '{':
		s.src.pos++
		return token.LeftBrace
	case '}':
		s.src.pos++
		return token.RightBrace
	case '~':
		s.src.pos++
		return token.BitwiseNot
	case '@':
		s.src.pos++
		return token.At

	case '!':
		s.src.pos++
		if s.src.AdvanceIfByteEquals('=') {
			if s.src.AdvanceIfByteEquals('=') {
				return token.StrictNotEqual
			}
			return token.NotEqual
		}
		return token.Not

	case '%':
		s.src.pos++
		if s.src.AdvanceIfByteEquals('=') {
			return token.RemainderAssign
		}
		return token.Remainder

	case '&':
		s.src.pos++
		if s.src.AdvanceIfByteEquals('&') {
			if s.src.AdvanceIfByteEquals('=') {
				return token.LogicalAndAssign
			}
			return token.LogicalAnd
		} else if s.src.AdvanceIfByteEquals('=') {
			return token.AndAssign
		}
		return token.And

	case '*':
		s.src.pos++
		if s.src.AdvanceIfByteEquals('*') {
			if s.src.AdvanceIfByteEquals('=') {
				return token.ExponentAssign
			}
			return token.Exponent
		} else if s.src.AdvanceIfByteEquals('=') {
			return token.MultiplyAssign
		}
		return token.Multiply

	case '+':
		s.src.pos++
		if s.src.AdvanceIfByteEquals('+') {
			return token.Increment
		} else if s.src.AdvanceIfByteEquals('=') {
			return token.AddAssign
		}
		return token.Plus

	case '-':
		s.src.pos++
		if s.src.AdvanceIfByteEquals('-') {
			return token.Decrement
		} else if s.src.AdvanceIfByteEquals('=') {
			return token.SubtractAssign
		}
		return token.Minus

	case '.':
		if next, ok := s.src.PeekByteAt(1); ok && isDecimalDigit(next) {
			return s.scanNumber()
		}
		s.src.pos++
		if a, _ := s.src.PeekByteAt(0); a == '.' {
			if b, _ := s.src.PeekByteAt(1); b == '.' {
				s.src.pos += 2
				return token.Ellipsis
			}
		}
		return token.Period

	case '/':
		s.src.pos++
		if s.src.AdvanceIfByteEquals('=') {
			return token.QuotientAssign
		}
		return token.Slash

	case '<':
		s.src.pos++
		if s.src.AdvanceIfByteEquals('<') {
			if s.src.AdvanceIfByteEquals('=') {
				return token.ShiftLeftAssign
			}
			return token.ShiftLeft
		} else if s.src.AdvanceIfByteEquals('=') {
			return token.LessOrEqual
		}
		return token.Less

	case '=':
		s.src.pos++
		if s.src.AdvanceIfByteEquals('=') {
			if s.src.AdvanceIfByteEquals('=') {
				return token.StrictEqual
			}
			return token.Equal
		} else if s.src.AdvanceIfByteEquals('>') {
			return token.Arrow
		}
		return token.Assign

	case '>':
		s.src.pos++
		if s.src.AdvanceIfByteEquals('=') {
			return token.GreaterOrEqual
		} else if s.src.AdvanceIfByteEquals('>') {
			if s.src.AdvanceIfByteEquals('=') {
				return token.ShiftRightAssign
			} else if s.src.AdvanceIfByteEquals('>') {
				if s.src.AdvanceIfByteEquals('=') {
					return token.UnsignedShiftRightAssign
				}
				return token.UnsignedShiftRight
			}
			return token.ShiftRight
		}
		return token.Greater

	case '?':
		s.src.pos++
		switch next, _ := s.src.PeekByte(); next {
		case '?':
			s.src.pos++
			if s.src.AdvanceIfByteEquals('=') {
				return token.CoalesceAssign
			}
			return token.Coalesce
		case '.':
			if after, ok := s.src.PeekByteAt(1); !ok || !isDecimalDigit(after) {
				s.src.pos++
				return token.QuestionDot
			}
		}
		return token.QuestionMark

	case '^':
		s.src.pos++
		if s.src.AdvanceIfByteEquals('=') {
			return token.ExclusiveOrAssign
		}
		return token.ExclusiveOr

	case '|':
		s.src.pos++
		if s.src.AdvanceIfByteEquals('|') {
			if s.src.AdvanceIfByteEquals('=') {
				return token.LogicalOrAssign
			}
			return token.LogicalOr
		} else if s.src.AdvanceIfByteEquals('=') {
			return token.OrAssign
		}
		return token.Or

	case '"', '\'':
		return s.scanStringLiteral(b)

	case '`':
		s.src.pos++
		return s.readTemplateLiteral(token.TemplateHead, token.NoSubstitutionTemplate)

	case '#':
		s.src.pos++
		if r, ok := s.src.PeekRune(); ok && (isIdentifierStart(r) || r == '\\') {
			name, escaped := s.scanIdentifierName()
			s.Token.Value = name
			s.Token.HasEscape = escaped
			return token.PrivateIdentifier
		}
		s.invalidCharacter('#', s.Token.Idx0, s.src.pos)
		return token.Illegal

	case '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		return s.scanNumber()
	}

	r, _ := s.src.PeekRune()
	if isIdentifierStart(r) || r == '\\' {
		return s.scanIdentifierOrKeyword()
	}

	start := s.src.pos
	s.src.NextRune()
	s.invalidCharacter(r, start, s.src.pos)
	return token.Illegal
}

// Checkpoint captures everything needed to resume scanning from the current
// token, including how many diagnostics and comments had been reported.
type Checkpoint struct {
	pos      ast.Idx
	tok      Token
	diags    int
	comments int
}

func (s *Scanner) Checkpoint() Checkpoint {
	return Checkpoint{
		pos:      s.src.pos,
		tok:      s.Token,
		diags:    len(s.diags),
		comments: len(s.comments),
	}
}

// Rewind restores a checkpoint. Diagnostics and comments recorded after it
// are discarded.
func (s *Scanner) Rewind(c Checkpoint) {
	s.src.pos = c.pos
	s.Token = c.tok
	s.diags = s.diags[:c.diags]
	s.comments = s.comments[:c.comments]
}

func (s *Scanner) Offset() ast.Idx {
	return s.src.Offset()
}

// Source returns the full text being scanned.
func (s *Scanner) Source() string {
	return s.src.text
}

// ReScanGreater splits a token starting with '>' so that only the first
// character is consumed. Used when closing type argument lists.
func (s *Scanner) ReScanGreater() {
	switch s.Token.Kind {
	case token.ShiftRight, token.UnsignedShiftRight, token.GreaterOrEqual,
		token.ShiftRightAssign, token.UnsignedShiftRightAssign:
		s.src.pos = s.Token.Idx0 + 1
		s.Token.Kind = token.Greater
		s.Token.Idx1 = s.src.pos
	}
}

// ReScanLess splits a '<<' token into a single '<'.
func (s *Scanner) ReScanLess() {
	if s.Token.Kind == token.ShiftLeft || s.Token.Kind == token.ShiftLeftAssign || s.Token.Kind == token.LessOrEqual {
		s.src.pos = s.Token.Idx0 + 1
		s.Token.Kind = token.Less
		s.Token.Idx1 = s.src.pos
	}
}

// ReScanTemplate treats the current '}' token as the end of a template
// substitution and scans the following template piece.
func (s *Scanner) ReScanTemplate() {
	if s.Token.Kind != token.RightBrace {
		return
	}
	onNewLine := s.Token.OnNewLine
	s.reset()
	s.Token.OnNewLine = onNewLine
	s.src.pos = s.Token.Idx0 + 1
	s.Token.Kind = s.readTemplateLiteral(token.TemplateMiddle, token.TemplateTail)
	s.Token.Idx1 = s.src.pos
}

func isDecimalDigit(chr byte) bool {
	return '0' <= chr && chr <= '9'
}
