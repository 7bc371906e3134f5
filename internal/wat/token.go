// Package wat implements the WebAssembly text-format front-end: a
// grammar-driven recognizer (C4) whose semantic actions build the IR
// defined in internal/wasm (§3) from a pulled stream of lexed tokens (C1).
package wat

import "github.com/tetratelabs/wazero-wat/internal/wasm"

// TokenType enumerates the token kinds the external lexer produces (§6).
type TokenType int

const (
	TokenLParen TokenType = iota
	TokenRParen
	TokenKeyword
	TokenNAT
	TokenINT
	TokenFLOAT
	TokenString
	TokenID
	TokenValueType
	TokenReserved
	// TokenLoad, TokenStore, TokenConst, TokenUnary, TokenBinary,
	// TokenCompare, and TokenConvert each carry an opcode discriminant in
	// Token.Opcode (§6); the lexer, not this core, decides which
	// instruction mnemonic maps to which of these kinds.
	TokenLoad
	TokenStore
	TokenConst
	TokenUnary
	TokenBinary
	TokenCompare
	TokenConvert
	TokenEOF
)

// String names the token kind, used in diagnostics.
func (t TokenType) String() string {
	switch t {
	case TokenLParen:
		return "("
	case TokenRParen:
		return ")"
	case TokenKeyword:
		return "keyword"
	case TokenNAT:
		return "nat"
	case TokenINT:
		return "int"
	case TokenFLOAT:
		return "float"
	case TokenString:
		return "string"
	case TokenID:
		return "id"
	case TokenValueType:
		return "valtype"
	case TokenReserved:
		return "reserved"
	case TokenLoad:
		return "load"
	case TokenStore:
		return "store"
	case TokenConst:
		return "const"
	case TokenUnary:
		return "unary"
	case TokenBinary:
		return "binary"
	case TokenCompare:
		return "compare"
	case TokenConvert:
		return "convert"
	case TokenEOF:
		return "eof"
	}
	return "unknown"
}

// Token is one lexed unit, as pulled from a TokenSource (§6).
type Token struct {
	Type     TokenType
	Lexeme   []byte
	Opcode   wasm.Opcode // populated for TokenLoad/Store/Const/Unary/Binary/Compare/Convert
	Location wasm.Location
}

// TokenSource is the Token Source Adapter's contract (C1, §6): a
// non-blocking pull interface the Grammar Engine drives to completion.
// Implementations wrap an external lexer; this core never tokenizes bytes
// itself.
type TokenSource interface {
	// Next returns the next token, or ok=false once the source is
	// exhausted (an explicit EOF sentinel, distinct from a zero-value
	// Token with an empty lexeme).
	Next() (tok Token, ok bool)

	// Report forwards a lexical error detected by the external lexer
	// into the same diagnostic path the Grammar Engine uses for
	// syntactic and semantic errors (§6, §7).
	Report(loc wasm.Location, message string)
}
