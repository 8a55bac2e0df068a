package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/diag"
	"github.com/t14raptor/fastfront/token"
)

func kinds(src string) []token.Token {
	var out []token.Token
	for tok := range NewScanner(src).Tokens() {
		out = append(out, tok.Kind)
	}
	return out
}

func scanOne(t *testing.T, src string) (Token, diag.List) {
	t.Helper()
	s := NewScanner(src)
	s.Next()
	return s.Token, s.Diagnostics()
}

func TestPunctuators(t *testing.T) {
	assert.Equal(t, []token.Token{
		token.Identifier, token.QuestionDot, token.Identifier,
		token.Coalesce, token.Number, token.Eof,
	}, kinds("a?.b ?? 1"))

	assert.Equal(t, []token.Token{
		token.Identifier, token.QuestionMark, token.Number, token.Colon, token.Number, token.Eof,
	}, kinds("a?.5:1"))

	assert.Equal(t, []token.Token{
		token.Ellipsis, token.Identifier, token.UnsignedShiftRightAssign, token.Arrow,
		token.LogicalOrAssign, token.CoalesceAssign, token.ExponentAssign, token.At, token.Eof,
	}, kinds("...x >>>= => ||= ??= **= @"))
}

func TestKeywords(t *testing.T) {
	tok, _ := scanOne(t, "function")
	assert.Equal(t, token.Function, tok.Kind)

	tok, _ = scanOne(t, "async")
	assert.Equal(t, token.Async, tok.Kind)

	tok, _ = scanOne(t, `\u0061sync`)
	assert.Equal(t, token.Identifier, tok.Kind)
	assert.Equal(t, "async", tok.Value)
	assert.True(t, tok.HasEscape)

	tok, _ = scanOne(t, `\u0076ar`)
	assert.Equal(t, token.EscapedReservedWord, tok.Kind)
}

func TestIdentifiers(t *testing.T) {
	tok, diags := scanOne(t, "ünïcödé_$1")
	assert.Equal(t, token.Identifier, tok.Kind)
	assert.Equal(t, "ünïcödé_$1", tok.Value)
	assert.Empty(t, diags)

	tok, diags = scanOne(t, `a\u{62}c`)
	assert.Equal(t, "abc", tok.Value)
	assert.Empty(t, diags)

	tok, diags = scanOne(t, `a\u0020`)
	assert.Equal(t, token.Identifier, tok.Kind)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.InvalidIdentifierEscape, diags[0].Code)
	assert.True(t, tok.Invalid)

	tok, _ = scanOne(t, "#secret")
	assert.Equal(t, token.PrivateIdentifier, tok.Kind)
	assert.Equal(t, "secret", tok.Value)
}

func TestNumbers(t *testing.T) {
	for _, tt := range []struct {
		src   string
		value float64
		base  uint8
	}{
		{"0", 0, ast.BaseDecimal},
		{"42", 42, ast.BaseDecimal},
		{"1_000_000", 1000000, ast.BaseDecimal},
		{".5", 0.5, ast.BaseDecimal},
		{"5.", 5, ast.BaseDecimal},
		{"1e3", 1000, ast.BaseDecimal},
		{"2.5E-1", 0.25, ast.BaseDecimal},
		{"0x1F", 31, ast.BaseHex},
		{"0o17", 15, ast.BaseOctal},
		{"0b1010", 10, ast.BaseBinary},
		{"017", 15, ast.BaseLegacyOctal},
		{"089", 89, ast.BaseDecimal},
	} {
		tok, diags := scanOne(t, tt.src)
		assert.Equal(t, token.Number, tok.Kind, tt.src)
		assert.Equal(t, tt.value, tok.Number, tt.src)
		assert.Equal(t, tt.base, tok.Base(), tt.src)
		assert.Empty(t, diags, tt.src)
		assert.Equal(t, ast.Idx(len(tt.src)), tok.Idx1, tt.src)
	}
}

func TestBigInt(t *testing.T) {
	tok, diags := scanOne(t, "123n")
	assert.Equal(t, token.Number, tok.Kind)
	assert.NotZero(t, tok.Flags&FlagBigInt)
	assert.Equal(t, "123", tok.Value)
	assert.Empty(t, diags)

	tok, _ = scanOne(t, "0xFFn")
	assert.Equal(t, "0xFF", tok.Value)
	assert.Equal(t, float64(255), tok.Number)
}

func TestInvalidNumbers(t *testing.T) {
	for src, code := range map[string]diag.Code{
		"1__0": diag.NumericSeparatorMisplace,
		"1_":   diag.NumericSeparatorMisplace,
		"3in":  diag.InvalidNumber,
		"0x":   diag.InvalidNumber,
		"1e":   diag.InvalidNumber,
		"1.5n": diag.InvalidNumber,
	} {
		tok, diags := scanOne(t, src)
		assert.Equal(t, token.Number, tok.Kind, src)
		require.NotEmpty(t, diags, src)
		assert.Equal(t, code, diags[0].Code, src)
	}
}

func TestStrings(t *testing.T) {
	for src, want := range map[string]string{
		`"plain"`:        "plain",
		`'single'`:       "single",
		`"a\nb"`:         "a\nb",
		`"\x41B\u{43}"`:  "ABC",
		`"\uD83D\uDE00"`: "\U0001F600",
		`"line\
cont"`: "linecont",
		`"\0"`: "\x00",
	} {
		tok, diags := scanOne(t, src)
		assert.Equal(t, token.String, tok.Kind, src)
		assert.Equal(t, want, tok.Value, src)
		assert.Empty(t, diags, src)
	}

	tok, _ := scanOne(t, `"\101"`)
	assert.Equal(t, "A", tok.Value)
	assert.NotZero(t, tok.Flags&FlagLegacyOctalEscape)
}

func TestUnterminatedString(t *testing.T) {
	s := NewScanner("'abc\nnext")
	s.Next()
	assert.Equal(t, token.String, s.Token.Kind)
	assert.True(t, s.Token.Invalid)
	assert.Equal(t, "abc", s.Token.Value)
	require.Len(t, s.Diagnostics(), 1)
	assert.Equal(t, diag.UnterminatedString, s.Diagnostics()[0].Code)
	assert.Equal(t, diag.LexError, s.Diagnostics()[0].Code.Category())

	s.Next()
	assert.Equal(t, token.Identifier, s.Token.Kind)
	assert.True(t, s.Token.OnNewLine)
	assert.False(t, s.Token.Invalid)
}

func TestInvalidEscape(t *testing.T) {
	_, diags := scanOne(t, `"\u{110000}"`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.InvalidUnicodeEscape, diags[0].Code)

	_, diags = scanOne(t, `"\xZZ"`)
	require.Len(t, diags, 1)
	assert.Equal(t, diag.InvalidEscape, diags[0].Code)
}

func TestTemplate(t *testing.T) {
	s := NewScanner("`a${x}b${y}c`")
	s.Next()
	assert.Equal(t, token.TemplateHead, s.Token.Kind)
	assert.Equal(t, "a", s.Token.Value)

	s.Next()
	assert.Equal(t, token.Identifier, s.Token.Kind)

	s.Next()
	require.Equal(t, token.RightBrace, s.Token.Kind)
	s.ReScanTemplate()
	assert.Equal(t, token.TemplateMiddle, s.Token.Kind)
	assert.Equal(t, "b", s.Token.Value)
	assert.Equal(t, "b", s.Token.TemplateRaw(s))

	s.Next()
	s.Next()
	s.ReScanTemplate()
	assert.Equal(t, token.TemplateTail, s.Token.Kind)
	assert.Equal(t, "c", s.Token.Value)

	s.Next()
	assert.Equal(t, token.Eof, s.Token.Kind)
	assert.Empty(t, s.Diagnostics())
}

func TestTemplateCooking(t *testing.T) {
	tok, diags := scanOne(t, "`a\r\nb\\tc`")
	assert.Equal(t, token.NoSubstitutionTemplate, tok.Kind)
	assert.Equal(t, "a\nb\tc", tok.Value)
	assert.Empty(t, diags)

	tok, diags = scanOne(t, "`\\unicode`")
	assert.NotZero(t, tok.Flags&FlagInvalidEscape)
	assert.Empty(t, diags)

	tok, diags = scanOne(t, "`open")
	require.Len(t, diags, 1)
	assert.Equal(t, diag.UnterminatedTemplate, diags[0].Code)
	assert.Equal(t, "open", tok.Value)
}

func TestRegExp(t *testing.T) {
	s := NewScanner(`/[/]\/x/gi;`)
	s.Next()
	require.Equal(t, token.Slash, s.Token.Kind)
	s.ReScanRegExp()
	assert.Equal(t, token.RegExp, s.Token.Kind)
	assert.Equal(t, `[/]\/x`, s.Token.Value)
	assert.Equal(t, "gi", ast.RegExpFlagString(s.Token.RegExpFlags))

	s.Next()
	assert.Equal(t, token.Semicolon, s.Token.Kind)
	assert.Empty(t, s.Diagnostics())

	s = NewScanner(`/=x/gg`)
	s.Next()
	require.Equal(t, token.QuotientAssign, s.Token.Kind)
	s.ReScanRegExp()
	assert.Equal(t, "=x", s.Token.Value)
	require.Len(t, s.Diagnostics(), 1)
	assert.Equal(t, diag.DuplicateRegExpFlag, s.Diagnostics()[0].Code)

	s = NewScanner("/abc\n")
	s.Next()
	s.ReScanRegExp()
	require.Len(t, s.Diagnostics(), 1)
	assert.Equal(t, diag.UnterminatedRegExp, s.Diagnostics()[0].Code)
}

func TestComments(t *testing.T) {
	s := NewScanner("#!/usr/bin/env node\na // one\n/* two\n */ b /* three */ c")
	s.Next()
	assert.Equal(t, "#!/usr/bin/env node", s.Hashbang)
	assert.Equal(t, "a", s.Token.Value)

	s.Next()
	assert.Equal(t, "b", s.Token.Value)
	assert.True(t, s.Token.OnNewLine)

	s.Next()
	assert.Equal(t, "c", s.Token.Value)
	assert.False(t, s.Token.OnNewLine)

	comments := s.Comments()
	require.Len(t, comments, 3)
	assert.False(t, comments[0].Block)
	assert.Equal(t, "// one", s.Source()[comments[0].Span.Start:comments[0].Span.End])
	assert.True(t, comments[1].Block)

	_, diags := scanOne(t, "/* open")
	require.Len(t, diags, 1)
	assert.Equal(t, diag.UnterminatedComment, diags[0].Code)
}

func TestLineSeparatorSetsNewLine(t *testing.T) {
	s := NewScanner("a\u2028b")
	s.Next()
	s.Next()
	assert.Equal(t, "b", s.Token.Value)
	assert.True(t, s.Token.OnNewLine)
}

func TestCheckpointRewind(t *testing.T) {
	s := NewScanner("a 'x\n b")
	s.Next()
	cp := s.Checkpoint()

	s.Next()
	s.Next()
	require.Len(t, s.Diagnostics(), 1)
	assert.Equal(t, "b", s.Token.Value)

	s.Rewind(cp)
	assert.Equal(t, "a", s.Token.Value)
	assert.Empty(t, s.Diagnostics())

	s.Next()
	assert.Equal(t, token.String, s.Token.Kind)
}

func TestReScanGreater(t *testing.T) {
	s := NewScanner("a>>=b")
	s.Next()
	s.Next()
	require.Equal(t, token.ShiftRightAssign, s.Token.Kind)
	s.ReScanGreater()
	assert.Equal(t, token.Greater, s.Token.Kind)
	s.Next()
	assert.Equal(t, token.GreaterOrEqual, s.Token.Kind)
}

func TestJSX(t *testing.T) {
	s := NewScanner(`<div data-id="a\b" {...p}>hi {x}</div>`)
	s.Next()
	require.Equal(t, token.Less, s.Token.Kind)

	s.NextInsideJSXElement()
	assert.Equal(t, "div", s.Token.Value)

	s.NextInsideJSXElement()
	assert.Equal(t, token.Identifier, s.Token.Kind)
	assert.Equal(t, "data-id", s.Token.Value)

	s.NextInsideJSXElement()
	assert.Equal(t, token.Assign, s.Token.Kind)

	s.NextInsideJSXElement()
	assert.Equal(t, token.String, s.Token.Kind)
	assert.Equal(t, `a\b`, s.Token.Value)

	s.NextInsideJSXElement()
	assert.Equal(t, token.LeftBrace, s.Token.Kind)
	s.Next()
	assert.Equal(t, token.Ellipsis, s.Token.Kind)
	s.Next()
	s.Next()
	assert.Equal(t, token.RightBrace, s.Token.Kind)

	s.NextInsideJSXElement()
	assert.Equal(t, token.Greater, s.Token.Kind)

	s.NextJSXChild()
	assert.Equal(t, token.JSXText, s.Token.Kind)
	assert.Equal(t, "hi ", s.Token.Value)

	s.NextJSXChild()
	assert.Equal(t, token.LeftBrace, s.Token.Kind)
	assert.Empty(t, s.Diagnostics())
}

func TestIllegalCharacter(t *testing.T) {
	assert.Equal(t, []token.Token{token.Identifier, token.Illegal, token.Identifier, token.Eof}, kinds("a \u00ac b"))
}
