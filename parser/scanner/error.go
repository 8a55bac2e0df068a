package scanner

import (
	"fmt"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/diag"
)

func (s *Scanner) error(code diag.Code, start, end ast.Idx, msg string) {
	s.Token.Invalid = true
	s.diags = append(s.diags, diag.Diagnostic{
		Severity: diag.Error,
		Span:     ast.Span{Start: start, End: end},
		Code:     code,
		Message:  msg,
	})
}

func (s *Scanner) invalidCharacter(c rune, start, end ast.Idx) {
	s.error(diag.InvalidCharacter, start, end, fmt.Sprintf("Invalid character `%c`", c))
}

func (s *Scanner) unterminatedString(start, end ast.Idx) {
	s.error(diag.UnterminatedString, start, end, "Unterminated string")
}

func (s *Scanner) unterminatedTemplateLiteral(start, end ast.Idx) {
	s.error(diag.UnterminatedTemplate, start, end, "Unterminated template literal")
}

func (s *Scanner) unterminatedMultiLineComment(start, end ast.Idx) {
	s.error(diag.UnterminatedComment, start, end, "Unterminated multiline comment")
}

func (s *Scanner) unterminatedRegExp(start, end ast.Idx) {
	s.error(diag.UnterminatedRegExp, start, end, "Unterminated regular expression")
}

func (s *Scanner) invalidEscapeSequence(start, end ast.Idx) {
	s.error(diag.InvalidEscape, start, end, "Invalid escape sequence")
}

func (s *Scanner) invalidUnicodeEscapeSequence(start, end ast.Idx) {
	s.error(diag.InvalidUnicodeEscape, start, end, "Invalid Unicode escape sequence")
}

func (s *Scanner) invalidIdentifierEscape(start, end ast.Idx) {
	s.error(diag.InvalidIdentifierEscape, start, end, "Invalid escape in identifier")
}

func (s *Scanner) invalidNumberEnd(start, end ast.Idx) {
	s.error(diag.InvalidNumber, start, end, "Invalid characters after number")
}

func (s *Scanner) invalidNumber(start, end ast.Idx, msg string) {
	s.error(diag.InvalidNumber, start, end, msg)
}

func (s *Scanner) misplacedSeparator(start, end ast.Idx) {
	s.error(diag.NumericSeparatorMisplace, start, end, "Numeric separators are not allowed here")
}

func (s *Scanner) regExpFlag(c byte, start, end ast.Idx) {
	s.error(diag.InvalidRegExpFlag, start, end, fmt.Sprintf("Invalid regular expression flag `%c`", c))
}

func (s *Scanner) regExpFlagTwice(c byte, start, end ast.Idx) {
	s.error(diag.DuplicateRegExpFlag, start, end, fmt.Sprintf("Duplicate regular expression flag `%c`", c))
}
