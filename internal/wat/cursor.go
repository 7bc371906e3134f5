package wat

import "github.com/tetratelabs/wazero-wat/internal/wasm"

// cursor adapts a pulled TokenSource into a one-token-lookahead stream for
// the Grammar Engine's recursive-descent productions (C4). Go's call stack
// plays the role of the shift-reduce engine's explicit state stack (§4.1);
// cursor holds the next token not yet consumed, plus at most one more when
// unread pushes a token back in front of one peek had already buffered.
type cursor struct {
	src       TokenSource
	lookRaw   Token
	hasLook   bool
	pushed    Token
	hasPushed bool
	eofLoc    wasm.Location
}

func newCursor(src TokenSource) *cursor {
	return &cursor{src: src}
}

// peek returns the next token without consuming it.
func (c *cursor) peek() Token {
	if !c.hasLook {
		tok, ok := c.src.Next()
		if !ok {
			tok = Token{Type: TokenEOF, Location: c.eofLoc}
		} else {
			c.eofLoc = tok.Location
		}
		c.lookRaw = tok
		c.hasLook = true
	}
	return c.lookRaw
}

// next consumes and returns the next token.
func (c *cursor) next() Token {
	tok := c.peek()
	if c.hasPushed {
		c.lookRaw, c.hasPushed = c.pushed, false
	} else {
		c.hasLook = false
	}
	return tok
}

// unread pushes tok back as the next token to be peeked/consumed. It exists
// to support the grammar's handful of two-token lookahead decisions (e.g.
// "is this '(' the start of a type-use clause, or something else entirely"):
// callers only ever unread the token they just took with next(). If they
// peeked past it first, the peeked token is kept in a second slot and is
// returned again right after tok.
func (c *cursor) unread(tok Token) {
	if c.hasLook {
		c.pushed, c.hasPushed = c.lookRaw, true
	}
	c.lookRaw = tok
	c.hasLook = true
}

// at reports whether the next token has the given type, without consuming.
func (c *cursor) at(t TokenType) bool {
	return c.peek().Type == t
}

// atKeyword reports whether the next token is TokenKeyword with the exact
// given lexeme, without consuming.
func (c *cursor) atKeyword(kw string) bool {
	tok := c.peek()
	return tok.Type == TokenKeyword && string(tok.Lexeme) == kw
}
