package wat

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCursor_PeekDoesNotConsume(t *testing.T) {
	c := newCursor(newFakeTokenSource(tKw("module"), tID("x")))

	require.Equal(t, TokenKeyword, c.peek().Type)
	require.Equal(t, TokenKeyword, c.peek().Type)
	require.Equal(t, TokenKeyword, c.next().Type)
	require.Equal(t, TokenID, c.next().Type)
}

func TestCursor_AtAndAtKeyword(t *testing.T) {
	c := newCursor(newFakeTokenSource(tKw("func"), tLP()))

	require.True(t, c.at(TokenKeyword))
	require.True(t, c.atKeyword("func"))
	require.False(t, c.atKeyword("type"))
	c.next()
	require.True(t, c.at(TokenLParen))
	require.False(t, c.atKeyword("func"))
}

func TestCursor_EOFIsSticky(t *testing.T) {
	c := newCursor(newFakeTokenSource(tLP()))

	c.next()
	require.Equal(t, TokenEOF, c.next().Type)
	require.Equal(t, TokenEOF, c.peek().Type)
	require.Equal(t, TokenEOF, c.next().Type)
}

func TestCursor_Unread(t *testing.T) {
	c := newCursor(newFakeTokenSource(tLP(), tKw("param")))

	lp := c.next()
	require.True(t, c.atKeyword("param"))
	c.unread(lp)
	require.True(t, c.at(TokenLParen))
	require.Equal(t, TokenLParen, c.next().Type)
	require.True(t, c.atKeyword("param"))
}
