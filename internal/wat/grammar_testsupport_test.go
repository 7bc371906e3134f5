package wat

import "github.com/tetratelabs/wazero-wat/internal/wasm"

// fakeTokenSource replays a canned token slice, used throughout this
// package's grammar-level tests in place of a real lexer (C1 is an
// external collaborator this core never implements).
type fakeTokenSource struct {
	toks []Token
	i    int
}

func newFakeTokenSource(toks ...Token) *fakeTokenSource {
	return &fakeTokenSource{toks: toks}
}

func (f *fakeTokenSource) Next() (Token, bool) {
	if f.i >= len(f.toks) {
		return Token{}, false
	}
	t := f.toks[f.i]
	f.i++
	return t, true
}

func (f *fakeTokenSource) Report(wasm.Location, string) {}

func tLP() Token               { return Token{Type: TokenLParen} }
func tRP() Token               { return Token{Type: TokenRParen} }
func tKw(s string) Token       { return Token{Type: TokenKeyword, Lexeme: []byte(s)} }
func tID(s string) Token       { return Token{Type: TokenID, Lexeme: []byte(s)} }
func tNat(s string) Token      { return Token{Type: TokenNAT, Lexeme: []byte(s)} }
func tStr(s string) Token      { return Token{Type: TokenString, Lexeme: []byte(s)} }
func tValType(s string) Token  { return Token{Type: TokenValueType, Lexeme: []byte(s)} }
func tConst(op wasm.Opcode) Token { return Token{Type: TokenConst, Opcode: op} }

// newTestParser returns a Parser with no reporter (diagnostics are still
// tallied, just not delivered anywhere) driving a cursor over toks.
func newTestParser(toks ...Token) (*Parser, *cursor) {
	p := NewParser(0, nil)
	return p, newCursor(newFakeTokenSource(toks...))
}
