package wat

import (
	"strings"

	"github.com/tetratelabs/wazero-wat/internal/wasm"
)

// parseInstrList parses a flat stack-form instruction sequence until the
// enclosing construct's terminator is reached: ')' for a function/global
// body or offset expression, or "else"/"end" for a block/loop/if body
// (§4.2 "Stack form"). Folded forms nested anywhere in the sequence are
// unfolded in place by parseFoldedInstr.
func (p *Parser) parseInstrList(c *cursor, list *wasm.ExprList, fn *wasm.Function) {
	for {
		tok := c.peek()
		if tok.Type == TokenRParen || tok.Type == TokenEOF {
			return
		}
		if tok.Type == TokenKeyword {
			switch string(tok.Lexeme) {
			case "end", "else":
				return
			}
		}
		if tok.Type == TokenLParen {
			p.parseFoldedInstr(c, list, fn)
			continue
		}
		if e := p.parsePlainInstr(c, fn); e != nil {
			list.Append(e)
		}
	}
}

// parseFoldedInstr recognizes one parenthesized "(opcode immediate*
// operand*)" form (§4.2 "Folded form"). The operator's own immediates
// (var, memarg, literal, type-use) are parsed first, since they appear
// right after the keyword in source; any operand sub-expressions that
// follow are themselves folded forms, parsed and appended to list before
// the operator node itself, since they must execute first on the stack.
// block/loop/if in folded form carry their bodies as nested instruction
// lists rather than operands, and are special-cased up front.
func (p *Parser) parseFoldedInstr(c *cursor, list *wasm.ExprList, fn *wasm.Function) {
	if !p.expectLParen(c) {
		return
	}
	tok := c.peek()
	if tok.Type == TokenKeyword {
		switch string(tok.Lexeme) {
		case "block":
			c.next()
			list.Append(p.parseFoldedBlockBody(c, wasm.ExprBlock, tok.Location))
			p.expectRParen(c)
			p.consumeStrayEnd(c, list)
			return
		case "loop":
			c.next()
			list.Append(p.parseFoldedBlockBody(c, wasm.ExprLoop, tok.Location))
			p.expectRParen(c)
			p.consumeStrayEnd(c, list)
			return
		case "if":
			c.next()
			p.parseFoldedIf(c, tok.Location, list)
			p.expectRParen(c)
			return
		}
	}

	e := p.parsePlainInstr(c, fn)
	for c.at(TokenLParen) {
		p.parseFoldedInstr(c, list, fn)
	}
	if e != nil {
		list.Append(e)
	}
	p.expectRParen(c)
}

// parseFoldedIf recognizes folded "if"'s distinct shape: "label?
// blocktype? cond-expr* (then instr*) (else instr*)?" (§4.2). The
// condition's folded expressions are appended to list ahead of the if
// node itself, same as any other folded operator's operands.
func (p *Parser) parseFoldedIf(c *cursor, loc wasm.Location, list *wasm.ExprList) {
	label := p.optionalID(c)
	sig := p.parseBlockResultType(c)

	for c.at(TokenLParen) {
		lp := c.next()
		if c.atKeyword("then") {
			c.unread(lp)
			break
		}
		c.unread(lp)
		p.parseFoldedInstr(c, list, nil)
	}

	then := &wasm.ExprList{}
	if p.expectLParen(c) {
		p.expectKeyword(c, "then")
		p.parseInstrList(c, then, nil)
		p.expectRParen(c)
	}

	var elseList *wasm.ExprList
	if c.at(TokenLParen) {
		lp := c.next()
		if c.atKeyword("else") {
			c.next()
			elseList = &wasm.ExprList{}
			p.parseInstrList(c, elseList, nil)
			p.expectRParen(c)
		} else {
			c.unread(lp)
		}
	}

	list.Append(&wasm.Expr{
		Kind:     wasm.ExprIf,
		Block:    &wasm.Block{Label: label, Signature: sig, Body: then, Location: loc},
		IfElse:   elseList,
		Location: loc,
	})
}

// parseFoldedBlockBody parses a folded block/loop's body: "label? blocktype?
// instr*", terminating on the fold's own ')' rather than an "end" keyword
// (§4.2 "Folded form"). Unlike stack-form block/loop, a folded block/loop
// carries no end label of its own.
func (p *Parser) parseFoldedBlockBody(c *cursor, kind wasm.ExprKind, loc wasm.Location) *wasm.Expr {
	label := p.optionalID(c)
	sig := p.parseBlockResultType(c)

	body := &wasm.ExprList{}
	p.parseInstrList(c, body, nil)

	return &wasm.Expr{
		Kind:     kind,
		Block:    &wasm.Block{Label: label, Signature: sig, Body: body, Location: loc},
		Location: loc,
	}
}

// consumeStrayEnd tolerates a bare "end label?" immediately following a
// folded block/loop that was just appended to list. Folded forms close via
// ')' and carry no "end" of their own, but source that redundantly repeats
// the stack-form terminator right after the fold still names the block
// being closed, so its label (if any) is checked against the block's begin
// label the same way a real stack-form "end" would be (C6, §4.3).
func (p *Parser) consumeStrayEnd(c *cursor, list *wasm.ExprList) {
	if !c.atKeyword("end") {
		return
	}
	last := list.Last
	if last == nil || (last.Kind != wasm.ExprBlock && last.Kind != wasm.ExprLoop) {
		return
	}
	endLoc := c.next().Location
	endLabel := p.optionalID(c)
	resolveBlockLabel(p.errs, last.Block.Label, endLabel, endLoc)
}

// parsePlainInstr parses one non-parenthesized instruction, consuming its
// own leading keyword/opcode token plus any immediates it carries. It
// never recurses into operand expressions; that is parseFoldedInstr's job
// when called from folded context, and simply the next loop iteration in
// stack-form context.
func (p *Parser) parsePlainInstr(c *cursor, fn *wasm.Function) *wasm.Expr {
	tok := c.next()
	loc := tok.Location
	switch tok.Type {
	case TokenLoad:
		return p.parseMemArgInstr(c, wasm.ExprLoad, tok)
	case TokenStore:
		return p.parseMemArgInstr(c, wasm.ExprStore, tok)
	case TokenConst:
		return p.parseConstInstr(c, tok)
	case TokenUnary:
		return &wasm.Expr{Kind: wasm.ExprUnary, Opcode: tok.Opcode, Location: loc}
	case TokenBinary:
		return &wasm.Expr{Kind: wasm.ExprBinary, Opcode: tok.Opcode, Location: loc}
	case TokenCompare:
		return &wasm.Expr{Kind: wasm.ExprCompare, Opcode: tok.Opcode, Location: loc}
	case TokenConvert:
		return &wasm.Expr{Kind: wasm.ExprConvert, Opcode: tok.Opcode, Location: loc}
	case TokenKeyword:
		return p.parseKeywordInstr(c, tok, fn)
	default:
		p.errs.reportf(loc, "instruction", "unexpected token: %s", tok.Type)
		return nil
	}
}

func (p *Parser) parseKeywordInstr(c *cursor, tok Token, fn *wasm.Function) *wasm.Expr {
	loc := tok.Location
	switch string(tok.Lexeme) {
	case "unreachable":
		return &wasm.Expr{Kind: wasm.ExprUnreachable, Location: loc}
	case "nop":
		return &wasm.Expr{Kind: wasm.ExprNop, Location: loc}
	case "drop":
		return &wasm.Expr{Kind: wasm.ExprDrop, Location: loc}
	case "select":
		return &wasm.Expr{Kind: wasm.ExprSelect, Location: loc}
	case "return":
		return &wasm.Expr{Kind: wasm.ExprReturn, Location: loc}
	case "memory.size", "current_memory":
		return &wasm.Expr{Kind: wasm.ExprMemorySize, Location: loc}
	case "memory.grow", "grow_memory":
		return &wasm.Expr{Kind: wasm.ExprMemoryGrow, Location: loc}
	case "br":
		v, _ := p.parseVar(c)
		return &wasm.Expr{Kind: wasm.ExprBr, Var: v, Location: loc}
	case "br_if":
		v, _ := p.parseVar(c)
		return &wasm.Expr{Kind: wasm.ExprBrIf, Var: v, Location: loc}
	case "br_table":
		var vars []wasm.Var
		for {
			v, ok := p.parseOptionalVar(c)
			if !ok {
				break
			}
			vars = append(vars, v)
		}
		e := &wasm.Expr{Kind: wasm.ExprBrTable, Location: loc}
		if len(vars) > 0 {
			e.BrTableDefault = vars[len(vars)-1]
			e.BrTableTargets = vars[:len(vars)-1]
		}
		return e
	case "call":
		v, _ := p.parseVar(c)
		return &wasm.Expr{Kind: wasm.ExprCall, Var: v, Location: loc}
	case "call_indirect":
		tu, _ := p.parseTypeUse(c)
		return &wasm.Expr{Kind: wasm.ExprCallIndirect, CallIndirectType: &tu, Location: loc}
	case "local.get", "get_local":
		v, _ := p.parseVar(c)
		return &wasm.Expr{Kind: wasm.ExprLocalGet, Var: v, Location: loc}
	case "local.set", "set_local":
		v, _ := p.parseVar(c)
		return &wasm.Expr{Kind: wasm.ExprLocalSet, Var: v, Location: loc}
	case "local.tee", "tee_local":
		v, _ := p.parseVar(c)
		return &wasm.Expr{Kind: wasm.ExprLocalTee, Var: v, Location: loc}
	case "global.get", "get_global":
		v, _ := p.parseVar(c)
		return &wasm.Expr{Kind: wasm.ExprGlobalGet, Var: v, Location: loc}
	case "global.set", "set_global":
		v, _ := p.parseVar(c)
		return &wasm.Expr{Kind: wasm.ExprGlobalSet, Var: v, Location: loc}
	case "block":
		return p.parseBlockBody(c, wasm.ExprBlock, loc)
	case "loop":
		return p.parseBlockBody(c, wasm.ExprLoop, loc)
	case "if":
		return p.parseStackIf(c, loc)
	default:
		p.errs.reportf(loc, "instruction", "unknown instruction: %s", tok.Lexeme)
		return nil
	}
}

// parseMemArgInstr parses a load/store's "offset="/"align=" modifiers,
// each lexed as a single TokenKeyword carrying its numeric suffix (§4.2 "§9
// bullet 2 default alignment"). Align defaults to AlignNatural when no
// "align=" modifier is present.
func (p *Parser) parseMemArgInstr(c *cursor, kind wasm.ExprKind, tok Token) *wasm.Expr {
	e := &wasm.Expr{Kind: kind, Opcode: tok.Opcode, Align: wasm.AlignNatural, Location: tok.Location}
	for c.at(TokenKeyword) {
		lex := string(c.peek().Lexeme)
		switch {
		case strings.HasPrefix(lex, "offset="):
			t := c.next()
			v, err := ParseUint64([]byte(lex[len("offset="):]))
			if err != nil {
				p.errs.reportf(t.Location, "memarg", "%v", err)
				continue
			}
			e.Offset = uint32(v)
		case strings.HasPrefix(lex, "align="):
			t := c.next()
			v, err := ParseUint64([]byte(lex[len("align="):]))
			if err != nil {
				p.errs.reportf(t.Location, "memarg", "%v", err)
				continue
			}
			if v == 0 || v&(v-1) != 0 {
				p.errs.reportf(t.Location, "memarg", "alignment must be a power of 2")
				continue
			}
			e.Align = uint32(v)
		default:
			return e
		}
	}
	return e
}

// parseConstInstr parses a const's trailing literal token, choosing the
// integer or float literal grammar by the const opcode the lexer tagged
// the mnemonic with (§4.8).
func (p *Parser) parseConstInstr(c *cursor, tok Token) *wasm.Expr {
	e := &wasm.Expr{Kind: wasm.ExprConst, Opcode: tok.Opcode, Location: tok.Location}
	lit := c.next()
	switch tok.Opcode {
	case ConstOpcodeI32:
		e.ValueType = wasm.ValueTypeI32
		v, err := ParseInt32(lit.Lexeme, IntSignedOrUnsigned)
		if err != nil {
			p.errs.reportf(lit.Location, "const", "%v", err)
		}
		e.ConstBits = uint64(v)
	case ConstOpcodeI64:
		e.ValueType = wasm.ValueTypeI64
		v, err := ParseInt64(lit.Lexeme, IntSignedOrUnsigned)
		if err != nil {
			p.errs.reportf(lit.Location, "const", "%v", err)
		}
		e.ConstBits = v
	case ConstOpcodeF32:
		e.ValueType = wasm.ValueTypeF32
		v, err := ParseFloat32Bits(floatLiteralKind(lit.Lexeme), lit.Lexeme)
		if err != nil {
			p.errs.reportf(lit.Location, "const", "%v", err)
		}
		e.ConstBits = uint64(v)
	case ConstOpcodeF64:
		e.ValueType = wasm.ValueTypeF64
		v, err := ParseFloat64Bits(floatLiteralKind(lit.Lexeme), lit.Lexeme)
		if err != nil {
			p.errs.reportf(lit.Location, "const", "%v", err)
		}
		e.ConstBits = v
	default:
		p.errs.reportf(tok.Location, "const", "unknown const opcode")
	}
	return e
}

// floatLiteralKind classifies a FLOAT (or FLOAT-shaped NAT/INT) lexeme into
// the FloatLiteralKind ParseFloat32Bits/ParseFloat64Bits expect (§4.8).
func floatLiteralKind(lex []byte) FloatLiteralKind {
	s := string(lex)
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "+"), "-")
	switch {
	case trimmed == "nan":
		return FloatCanonicalNaN
	case strings.HasPrefix(trimmed, "nan:"):
		return FloatArithmeticNaN
	case trimmed == "inf":
		return FloatInf
	case strings.HasPrefix(trimmed, "0x") || strings.Contains(trimmed, "0x"):
		return FloatHex
	default:
		return FloatDecimal
	}
}

// parseBlockResultType recognizes the block type a block/loop/if carries:
// zero or more "(result valtype)" clauses (§3 "Block"). More than one
// result across those clauses requires CoreFeatureMultiValue (§5);
// checkMultiValueArity reports it otherwise.
func (p *Parser) parseBlockResultType(c *cursor) []wasm.ValueType {
	loc := c.peek().Location
	var sig []wasm.ValueType
	for c.at(TokenLParen) {
		lp := c.next()
		if c.atKeyword("result") {
			c.next()
			sig = append(sig, p.parseResultClause(c)...)
			p.expectRParen(c)
			continue
		}
		c.unread(lp)
		break
	}
	p.checkMultiValueArity(loc, sig)
	return sig
}

// parseBlockBody parses a stack-form block/loop: "label? blocktype?
// instr* end label?" (§3 "Block", §4.3).
func (p *Parser) parseBlockBody(c *cursor, kind wasm.ExprKind, loc wasm.Location) *wasm.Expr {
	label := p.optionalID(c)
	sig := p.parseBlockResultType(c)

	body := &wasm.ExprList{}
	p.parseInstrList(c, body, nil)

	endLoc := c.peek().Location
	p.expectKeyword(c, "end")
	endLabel := p.optionalID(c)
	resolveBlockLabel(p.errs, label, endLabel, endLoc)

	return &wasm.Expr{
		Kind:     kind,
		Block:    &wasm.Block{Label: label, Signature: sig, Body: body, Location: loc, EndLocation: endLoc},
		Location: loc,
	}
}

// parseStackIf parses a stack-form if: "label? blocktype? instr* (else
// label? instr*)? end label?" (§3 "Block", §4.3).
func (p *Parser) parseStackIf(c *cursor, loc wasm.Location) *wasm.Expr {
	label := p.optionalID(c)
	sig := p.parseBlockResultType(c)

	then := &wasm.ExprList{}
	p.parseInstrList(c, then, nil)

	var elseList *wasm.ExprList
	if c.atKeyword("else") {
		c.next()
		elseLabel := p.optionalID(c)
		resolveBlockLabel(p.errs, label, elseLabel, c.peek().Location)
		elseList = &wasm.ExprList{}
		p.parseInstrList(c, elseList, nil)
	}

	endLoc := c.peek().Location
	p.expectKeyword(c, "end")
	endLabel := p.optionalID(c)
	resolveBlockLabel(p.errs, label, endLabel, endLoc)

	return &wasm.Expr{
		Kind:     wasm.ExprIf,
		Block:    &wasm.Block{Label: label, Signature: sig, Body: then, Location: loc, EndLocation: endLoc},
		IfElse:   elseList,
		Location: loc,
	}
}
