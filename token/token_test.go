package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchKeyword(t *testing.T) {
	assert.Equal(t, If, MatchKeyword("if"))
	assert.Equal(t, Let, MatchKeyword("let"))
	assert.Equal(t, Identifier, MatchKeyword("interface"))
	assert.Equal(t, Identifier, MatchKeyword("foo"))
	assert.True(t, StrictReserved("interface"))
	assert.False(t, StrictReserved("foo"))
}

func TestClassification(t *testing.T) {
	assert.True(t, UnreservedWord(Async))
	assert.True(t, UnreservedWord(Of))
	assert.False(t, UnreservedWord(Class))
	assert.True(t, ID(Class))
	assert.False(t, ID(Comma))
	assert.True(t, IsAssign(AddAssign))
	assert.True(t, IsAssign(CoalesceAssign))
	assert.False(t, IsAssign(Equal))
	assert.True(t, IsTemplate(TemplateMiddle))
	assert.Equal(t, ">>>=", UnsignedShiftRightAssign.String())
}
