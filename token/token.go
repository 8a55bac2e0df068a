package token

import (
	"strconv"
)

// Token is the set of lexical tokens in JavaScript, TypeScript and JSX.
type Token uint8

// String returns the string corresponding to the token.
func (t Token) String() string {
	if t == 0 {
		return "UNKNOWN"
	}
	if int(t) < len(token2string) && token2string[t] != "" {
		return token2string[t]
	}
	return "token(" + strconv.Itoa(int(t)) + ")"
}

// keyword ...
type keyword struct {
	token  Token
	strict bool
}

// MatchKeyword returns the keyword token for literal, or Identifier when the
// literal is not a keyword.
func MatchKeyword(literal string) Token {
	if k, exists := keywordTable[literal]; exists {
		return k.token
	}
	return Identifier
}

// StrictReserved reports whether literal is reserved only in strict mode code.
func StrictReserved(literal string) bool {
	k, exists := keywordTable[literal]
	return exists && k.strict
}

// ID reports whether the token can appear as an identifier name, i.e. a
// property key or member name. Every keyword qualifies.
func ID(token Token) bool {
	return token >= Identifier
}

// IsKeyword reports whether the token is a reserved or contextual keyword.
func IsKeyword(token Token) bool {
	return token > Identifier
}

// UnreservedWord reports whether the token is a contextual keyword that may
// still be used as a binding or reference name.
func UnreservedWord(token Token) bool {
	return token > EscapedReservedWord
}

// IsAssign reports whether the token is = or a compound assignment operator.
func IsAssign(token Token) bool {
	return token >= Assign && token <= CoalesceAssign
}

// IsLogicalAssign reports whether the token is &&=, ||= or ??=.
func IsLogicalAssign(token Token) bool {
	return token == LogicalAndAssign || token == LogicalOrAssign || token == CoalesceAssign
}

// IsTemplate reports whether the token is one of the template literal pieces.
func IsTemplate(token Token) bool {
	return token >= NoSubstitutionTemplate && token <= TemplateTail
}
