package wat

import (
	"github.com/tetratelabs/wazero-wat/api"
	"github.com/tetratelabs/wazero-wat/internal/wasm"
)

// Parser drives the Grammar Engine (C4) over a pulled token stream,
// dispatching to the Literal Parser (C2), Expression Builder (C5), Name
// Binder (C9), Field Assembler (C7)/Inline Expander (C8), and Type-Use
// Resolver (C10) as each construct is recognized (§2, §4.1).
//
// Every production is a plain Go method taking a *cursor;
// Go's own call stack plays the role of the shift-reduce engine's explicit
// state stack, which is the idiomatic Go rendition of §4.1's "auto-growing
// stack of states/values/locations" - see DESIGN.md.
type Parser struct {
	features api.CoreFeatures
	errs     *errorTally
}

// NewParser returns a Parser gated by the given feature set (§5), reporting
// diagnostics to reporter (nil is permitted: errors are still tallied,
// just never delivered anywhere).
func NewParser(features api.CoreFeatures, reporter Reporter) *Parser {
	return &Parser{features: features, errs: &errorTally{reporter: reporter}}
}

func (p *Parser) errorCount() int { return p.errs.count }

// Errors returns every diagnostic reported during this Parser's lifetime,
// in report order - the payload of the *ErrorList the public wat.Parse/
// wat.ParseModule wrapper returns (§7).
func (p *Parser) Errors() []*FormatError { return p.errs.errs }

// NewCursor adapts a TokenSource into the one-token-lookahead stream the
// Grammar Engine's productions consume. It exists only so the public
// top-level wrapper (repository-root package wat) can drive ParseModule/
// ParseScript without this package exposing the cursor type itself.
func NewCursor(src TokenSource) *cursor { return newCursor(src) }

func (p *Parser) expect(c *cursor, t TokenType, what string) (Token, bool) {
	tok := c.next()
	if tok.Type != t {
		p.errs.reportf(tok.Location, "", "expected %s, got %s", what, tok.Type)
		return tok, false
	}
	return tok, true
}

func (p *Parser) expectLParen(c *cursor) bool {
	_, ok := p.expect(c, TokenLParen, "(")
	return ok
}

func (p *Parser) expectRParen(c *cursor) bool {
	_, ok := p.expect(c, TokenRParen, ")")
	return ok
}

func (p *Parser) expectKeyword(c *cursor, kw string) (Token, bool) {
	tok := c.peek()
	if tok.Type != TokenKeyword || string(tok.Lexeme) != kw {
		p.errs.reportf(tok.Location, "", "expected %q, got %s", kw, tok.Type)
		return tok, false
	}
	c.next()
	return tok, true
}

// skipToMatchingRParen consumes tokens until the paren nesting opened by
// the construct currently being recognized returns to zero, recovering
// synchronization after an error without aborting the whole parse (§4.1
// "failures short-circuit the current rule but the parser may continue").
func (p *Parser) skipToMatchingRParen(c *cursor) {
	depth := 1
	for depth > 0 {
		switch c.next().Type {
		case TokenLParen:
			depth++
		case TokenRParen:
			depth--
		case TokenEOF:
			return
		}
	}
}

// optionalID consumes a leading "$name" if present (§3, §4.4), returning
// "" otherwise.
func (p *Parser) optionalID(c *cursor) string {
	if c.at(TokenID) {
		return string(c.next().Lexeme)
	}
	return ""
}

// parseVar parses a single Var: either a NAT/INT literal index or a "$id"
// name (§3 "Var").
func (p *Parser) parseVar(c *cursor) (wasm.Var, bool) {
	tok := c.peek()
	switch tok.Type {
	case TokenID:
		c.next()
		return wasm.NewNameVar(string(tok.Lexeme), tok.Location), true
	case TokenNAT, TokenINT:
		c.next()
		idx, err := ParseUint64(tok.Lexeme)
		if err != nil || idx > uint64(^wasm.Index(0)) {
			p.errs.reportf(tok.Location, "var", "invalid index: %s", tok.Lexeme)
			return wasm.Var{}, false
		}
		return wasm.NewIndexVar(wasm.Index(idx), tok.Location), true
	default:
		p.errs.reportf(tok.Location, "var", "expected an index or name, got %s", tok.Type)
		return wasm.Var{}, false
	}
}

// parseOptionalVar parses a Var only when the next token could start one,
// returning ok=false without consuming or reporting an error otherwise -
// used where a var is optional, e.g. the table index on an elem/data
// segment, or the module reference on a script action (§4.4, §4.7).
func (p *Parser) parseOptionalVar(c *cursor) (wasm.Var, bool) {
	switch c.peek().Type {
	case TokenID, TokenNAT, TokenINT:
		return p.parseVar(c)
	default:
		return wasm.Var{}, false
	}
}

// parseString parses and escape-decodes a single TEXT token (§4.8).
func (p *Parser) parseString(c *cursor) ([]byte, wasm.Location, bool) {
	tok, ok := p.expect(c, TokenString, "a string")
	if !ok {
		return nil, tok.Location, false
	}
	decoded, err := DecodeText(tok.Lexeme)
	if err != nil {
		p.errs.reportf(tok.Location, "string", "%v", err)
		return nil, tok.Location, false
	}
	return decoded, tok.Location, true
}

// valueTypeFromLexeme maps a TokenValueType's lexeme to the ValueType it
// names, reporting an error and returning false for anything else.
func (p *Parser) valueTypeFromLexeme(tok Token) (wasm.ValueType, bool) {
	switch string(tok.Lexeme) {
	case "i32":
		return wasm.ValueTypeI32, true
	case "i64":
		return wasm.ValueTypeI64, true
	case "f32":
		return wasm.ValueTypeF32, true
	case "f64":
		return wasm.ValueTypeF64, true
	default:
		p.errs.reportf(tok.Location, "type", "unknown type: %s", tok.Lexeme)
		return 0, false
	}
}

// parseValueType parses a single (required) value type token (§3).
func (p *Parser) parseValueType(c *cursor) (wasm.ValueType, bool) {
	tok, ok := p.expect(c, TokenValueType, "a value type")
	if !ok {
		return 0, false
	}
	return p.valueTypeFromLexeme(tok)
}

// checkMultiValueArity enforces the FunctionSignature invariant that a
// result list holds at most one entry unless CoreFeatureMultiValue is
// enabled (§3, §5). Called wherever a result list - a type declaration's,
// a type-use's, or a block's - is finalized.
func (p *Parser) checkMultiValueArity(loc wasm.Location, results []wasm.ValueType) {
	if len(results) > 1 && !p.features.IsEnabled(api.CoreFeatureMultiValue) {
		p.errs.reportf(loc, "result arity", "multiple result types require the multi-value feature")
	}
}
