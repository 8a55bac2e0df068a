package parser

import "github.com/t14raptor/fastfront/token"

// Precedence represents operator binding power for Pratt parsing.
//
// Even values are left-associative and odd values right-associative. The
// loop compares lbp <= minBP and recurses with lbp ^ 1, which makes a
// same-level operator break for even powers and continue for odd ones.
//
// See: https://matklad.github.io/2020/04/13/simple-but-powerful-pratt-parsing.html
type Precedence uint8

const (
	PrecedenceLowest            Precedence = 0
	PrecedenceNullishCoalescing Precedence = 12 // ??
	PrecedenceLogicalOr         Precedence = 14 // ||
	PrecedenceLogicalAnd        Precedence = 16 // &&
	PrecedenceBitwiseOr         Precedence = 18 // |
	PrecedenceBitwiseXor        Precedence = 20 // ^
	PrecedenceBitwiseAnd        Precedence = 22 // &
	PrecedenceEquals            Precedence = 24 // == != === !==
	PrecedenceCompare           Precedence = 26 // < > <= >= instanceof in as satisfies
	PrecedenceShift             Precedence = 28 // << >> >>>
	PrecedenceAdd               Precedence = 30 // + -
	PrecedenceMultiply          Precedence = 32 // * / %
	PrecedenceExponentiation    Precedence = 35 // ** (right-assoc)
)

// tokenPrecedence maps each token kind to its left binding power.
// Zero means the token is not a binary or logical operator.
var tokenPrecedence [256]Precedence

func init() {
	tokenPrecedence[token.Coalesce] = PrecedenceNullishCoalescing
	tokenPrecedence[token.LogicalOr] = PrecedenceLogicalOr
	tokenPrecedence[token.LogicalAnd] = PrecedenceLogicalAnd
	tokenPrecedence[token.Or] = PrecedenceBitwiseOr
	tokenPrecedence[token.ExclusiveOr] = PrecedenceBitwiseXor
	tokenPrecedence[token.And] = PrecedenceBitwiseAnd
	tokenPrecedence[token.Equal] = PrecedenceEquals
	tokenPrecedence[token.StrictEqual] = PrecedenceEquals
	tokenPrecedence[token.NotEqual] = PrecedenceEquals
	tokenPrecedence[token.StrictNotEqual] = PrecedenceEquals
	tokenPrecedence[token.Less] = PrecedenceCompare
	tokenPrecedence[token.Greater] = PrecedenceCompare
	tokenPrecedence[token.LessOrEqual] = PrecedenceCompare
	tokenPrecedence[token.GreaterOrEqual] = PrecedenceCompare
	tokenPrecedence[token.InstanceOf] = PrecedenceCompare
	tokenPrecedence[token.In] = PrecedenceCompare
	tokenPrecedence[token.ShiftLeft] = PrecedenceShift
	tokenPrecedence[token.ShiftRight] = PrecedenceShift
	tokenPrecedence[token.UnsignedShiftRight] = PrecedenceShift
	tokenPrecedence[token.Plus] = PrecedenceAdd
	tokenPrecedence[token.Minus] = PrecedenceAdd
	tokenPrecedence[token.Multiply] = PrecedenceMultiply
	tokenPrecedence[token.Slash] = PrecedenceMultiply
	tokenPrecedence[token.Remainder] = PrecedenceMultiply
	tokenPrecedence[token.Exponent] = PrecedenceExponentiation
}

// kindToPrecedence returns the left binding power for a token kind.
func kindToPrecedence(kind token.Token) Precedence {
	return tokenPrecedence[kind]
}

// isLogicalOperator returns true if the token is a logical operator (&&, ||, ??).
func isLogicalOperator(kind token.Token) bool {
	return kind == token.LogicalAnd || kind == token.LogicalOr || kind == token.Coalesce
}
