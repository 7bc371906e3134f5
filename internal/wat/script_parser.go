package wat

import "github.com/tetratelabs/wazero-wat/internal/wasm"

// ParseScript recognizes the top-level sequence of script commands (§3
// "Script", §4.7) and composes their module/action references via
// ComposeScript once every command has been parsed.
func (p *Parser) ParseScript(c *cursor) *wasm.Script {
	s := wasm.NewScript()
	for !c.at(TokenEOF) {
		if !p.expectLParen(c) {
			p.skipToMatchingRParen(c)
			continue
		}
		cmd := p.parseCommand(c)
		p.expectRParen(c)
		if cmd != nil {
			s.Commands = append(s.Commands, cmd)
		}
	}
	ComposeScript(s, p.errs)
	return s
}

// parseRawModuleCommand recognizes a "(module ...)" command's payload -
// either a text module's field list or an explicit "binary "..."* " form -
// with "module" already consumed and the optional name still to parse
// (§3 "Raw Module", §4.7).
func (p *Parser) parseRawModuleCommand(c *cursor, loc wasm.Location) *wasm.RawModule {
	name := p.optionalID(c)
	if c.atKeyword("binary") {
		c.next()
		var data []byte
		for c.at(TokenString) {
			chunk, _, ok := p.parseString(c)
			if ok {
				data = append(data, chunk...)
			}
		}
		return &wasm.RawModule{Kind: wasm.RawModuleBinary, Name: name, Bytes: data, Location: loc}
	}
	m := wasm.NewModule()
	m.Name = name
	p.parseModuleFields(c, m)
	return &wasm.RawModule{Kind: wasm.RawModuleText, Module: m, Location: loc}
}

// parseAction recognizes "invoke $module? "name" arg*" or "get $module?
// "name"", with "invoke"/"get" the current (not yet consumed) token and the
// enclosing "(" already consumed by the caller (§3 "Action"). An absent
// module var is left as the pending sentinel for the Script Composer to
// resolve against the most recently declared module.
func (p *Parser) parseAction(c *cursor) *wasm.Action {
	tok := c.next()
	loc := tok.Location
	modVar, hasVar := p.parseOptionalVar(c)
	if !hasVar {
		modVar = pendingModuleVar(loc)
	}
	fieldBytes, _, _ := p.parseString(c)

	a := &wasm.Action{ModuleVar: modVar, Field: string(fieldBytes), Location: loc}
	switch string(tok.Lexeme) {
	case "invoke":
		a.Kind = wasm.ActionInvoke
		a.Args = p.parseConstValueList(c)
	case "get":
		a.Kind = wasm.ActionGet
	}
	return a
}

// parseNestedAction recognizes a parenthesized action appearing as the
// subject of an assert command: "(invoke ...)" or "(get ...)".
func (p *Parser) parseNestedAction(c *cursor) *wasm.Action {
	if !p.expectLParen(c) {
		return nil
	}
	a := p.parseAction(c)
	p.expectRParen(c)
	return a
}

func (p *Parser) parseConstValueList(c *cursor) []wasm.ConstValue {
	var out []wasm.ConstValue
	for c.at(TokenLParen) {
		cv, ok := p.parseConstValue(c)
		if !ok {
			break
		}
		out = append(out, cv)
	}
	return out
}

// parseConstValue parses one "(TYPE.const literal)" argument/expected-value
// node (§3 "Action", §4.8). "nan:canonical"/"nan:arithmetic" pseudo-literals
// (used only inside assert_return_canonical_nan/arithmetic_nan's expected
// value) carry no meaningful bit pattern here - the Command's own Kind is
// what records which NaN class is expected.
func (p *Parser) parseConstValue(c *cursor) (wasm.ConstValue, bool) {
	if !p.expectLParen(c) {
		return wasm.ConstValue{}, false
	}
	tok := c.next()
	if tok.Type != TokenConst {
		p.errs.reportf(tok.Location, "const value", "expected a const expression, got %s", tok.Type)
		p.skipToMatchingRParen(c)
		return wasm.ConstValue{}, false
	}
	lit := c.next()

	cv := wasm.ConstValue{}
	switch tok.Opcode {
	case ConstOpcodeI32:
		cv.ValueType = wasm.ValueTypeI32
		v, err := ParseInt32(lit.Lexeme, IntSignedOrUnsigned)
		if err != nil {
			p.errs.reportf(lit.Location, "const value", "%v", err)
		}
		cv.Bits = uint64(v)
	case ConstOpcodeI64:
		cv.ValueType = wasm.ValueTypeI64
		v, err := ParseInt64(lit.Lexeme, IntSignedOrUnsigned)
		if err != nil {
			p.errs.reportf(lit.Location, "const value", "%v", err)
		}
		cv.Bits = v
	case ConstOpcodeF32:
		cv.ValueType = wasm.ValueTypeF32
		cv.Bits = uint64(p.parseScriptFloat32(lit))
	case ConstOpcodeF64:
		cv.ValueType = wasm.ValueTypeF64
		cv.Bits = p.parseScriptFloat64(lit)
	}
	p.expectRParen(c)
	return cv, true
}

func (p *Parser) parseScriptFloat32(lit Token) uint32 {
	s := string(lit.Lexeme)
	if s == "nan:canonical" || s == "nan:arithmetic" {
		return 0
	}
	v, err := ParseFloat32Bits(floatLiteralKind(lit.Lexeme), lit.Lexeme)
	if err != nil {
		p.errs.reportf(lit.Location, "const value", "%v", err)
	}
	return v
}

func (p *Parser) parseScriptFloat64(lit Token) uint64 {
	s := string(lit.Lexeme)
	if s == "nan:canonical" || s == "nan:arithmetic" {
		return 0
	}
	v, err := ParseFloat64Bits(floatLiteralKind(lit.Lexeme), lit.Lexeme)
	if err != nil {
		p.errs.reportf(lit.Location, "const value", "%v", err)
	}
	return v
}

func (p *Parser) parseCommand(c *cursor) *wasm.Command {
	tok := c.peek()
	if tok.Type != TokenKeyword {
		p.errs.reportf(tok.Location, "command", "expected a command keyword, got %s", tok.Type)
		p.skipToMatchingRParen(c)
		return nil
	}
	loc := tok.Location
	switch string(tok.Lexeme) {
	case "module":
		c.next()
		raw := p.parseRawModuleCommand(c, loc)
		return &wasm.Command{Kind: wasm.CommandModule, Module: raw, Location: loc}
	case "register":
		c.next()
		nameBytes, _, _ := p.parseString(c)
		modVar, hasVar := p.parseOptionalVar(c)
		if !hasVar {
			modVar = pendingModuleVar(loc)
		}
		return &wasm.Command{Kind: wasm.CommandRegister, RegisterName: string(nameBytes), RegisterModuleVar: modVar, Location: loc}
	case "invoke", "get":
		a := p.parseAction(c)
		return &wasm.Command{Kind: wasm.CommandAction, Action: a, Location: loc}
	case "assert_return":
		c.next()
		a := p.parseNestedAction(c)
		results := p.parseConstValueList(c)
		return &wasm.Command{Kind: wasm.CommandAssertReturn, Action: a, ExpectedResults: results, Location: loc}
	case "assert_return_canonical_nan":
		c.next()
		a := p.parseNestedAction(c)
		return &wasm.Command{Kind: wasm.CommandAssertReturnCanonicalNan, Action: a, Location: loc}
	case "assert_return_arithmetic_nan":
		c.next()
		a := p.parseNestedAction(c)
		return &wasm.Command{Kind: wasm.CommandAssertReturnArithmeticNan, Action: a, Location: loc}
	case "assert_trap":
		c.next()
		return p.parseAssertTrapLike(c, loc, wasm.CommandAssertTrap)
	case "assert_exhaustion":
		c.next()
		a := p.parseNestedAction(c)
		msgBytes, _, _ := p.parseString(c)
		return &wasm.Command{Kind: wasm.CommandAssertExhaustion, Action: a, ExpectedMessage: string(msgBytes), Location: loc}
	case "assert_malformed":
		c.next()
		return p.parseAssertModuleLike(c, loc, wasm.CommandAssertMalformed)
	case "assert_invalid":
		c.next()
		return p.parseAssertModuleLike(c, loc, wasm.CommandAssertInvalid)
	case "assert_unlinkable":
		c.next()
		return p.parseAssertModuleLike(c, loc, wasm.CommandAssertUnlinkable)
	case "assert_uninstantiable":
		c.next()
		return p.parseAssertModuleLike(c, loc, wasm.CommandAssertUninstantiable)
	default:
		p.errs.reportf(loc, "command", "unknown command: %s", tok.Lexeme)
		p.skipToMatchingRParen(c)
		return nil
	}
}

// parseAssertTrapLike recognizes "assert_trap (action|module) "message"":
// its subject is a module when the nested form's keyword is "module", and
// an action otherwise (§3 "Command" doc on AssertTrap's dual subject).
func (p *Parser) parseAssertTrapLike(c *cursor, loc wasm.Location, kind wasm.CommandKind) *wasm.Command {
	if !p.expectLParen(c) {
		return nil
	}
	kwTok := c.peek()
	cmd := &wasm.Command{Kind: kind, Location: loc}
	if kwTok.Type == TokenKeyword && string(kwTok.Lexeme) == "module" {
		c.next()
		cmd.Module = p.parseRawModuleCommand(c, kwTok.Location)
	} else {
		cmd.Action = p.parseAction(c)
	}
	p.expectRParen(c)
	msgBytes, _, _ := p.parseString(c)
	cmd.ExpectedMessage = string(msgBytes)
	return cmd
}

// parseAssertModuleLike recognizes "assert_{malformed,invalid,unlinkable,
// uninstantiable} (module ...) "message"".
func (p *Parser) parseAssertModuleLike(c *cursor, loc wasm.Location, kind wasm.CommandKind) *wasm.Command {
	if !p.expectLParen(c) {
		return nil
	}
	p.expectKeyword(c, "module")
	raw := p.parseRawModuleCommand(c, loc)
	p.expectRParen(c)
	msgBytes, _, _ := p.parseString(c)
	return &wasm.Command{Kind: kind, Module: raw, ExpectedMessage: string(msgBytes), Location: loc}
}
