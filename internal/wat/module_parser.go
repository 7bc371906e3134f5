package wat

import (
	"github.com/tetratelabs/wazero-wat/api"
	"github.com/tetratelabs/wazero-wat/internal/wasm"
)

// ParseModule recognizes a module's field list - "$name? field*" - with the
// opening "(module" already consumed by the caller, and returns the fully
// assembled Module, type uses resolved (§3 "Module", §4.4).
func (p *Parser) ParseModule(c *cursor) *wasm.Module {
	m := wasm.NewModule()
	m.Name = p.optionalID(c)
	p.parseModuleFields(c, m)
	return m
}

// parseModuleFields parses the field list into an already-named Module
// (shared by ParseModule and the script grammar's nested "(module ...)"
// raw-module form, which must consume the name before deciding whether a
// "binary" form follows).
func (p *Parser) parseModuleFields(c *cursor, m *wasm.Module) {
	fa := newFieldAssembler(m, p.errs)

	for !c.at(TokenRParen) && !c.at(TokenEOF) {
		if !p.expectLParen(c) {
			p.skipToMatchingRParen(c)
			continue
		}
		kwTok := c.peek()
		if kwTok.Type != TokenKeyword {
			p.errs.reportf(kwTok.Location, "module field", "expected a field keyword, got %s", kwTok.Type)
			p.skipToMatchingRParen(c)
			continue
		}
		switch string(kwTok.Lexeme) {
		case "type":
			c.next()
			p.parseTypeField(c, fa)
		case "func":
			c.next()
			p.parseFuncField(c, fa)
		case "table":
			c.next()
			p.parseTableField(c, fa)
		case "memory":
			c.next()
			p.parseMemoryField(c, fa)
		case "global":
			c.next()
			p.parseGlobalField(c, fa)
		case "import":
			c.next()
			p.parseImportField(c, fa)
		case "export":
			c.next()
			p.parseExportField(c, fa)
		case "elem":
			c.next()
			p.parseElemField(c, fa)
		case "data":
			c.next()
			p.parseDataField(c, fa)
		case "start":
			c.next()
			p.parseStartField(c, fa)
		default:
			p.errs.reportf(kwTok.Location, "module field", "unknown field: %s", kwTok.Lexeme)
			p.skipToMatchingRParen(c)
			continue
		}
		p.expectRParen(c)
	}

	resolveTypeUses(m, p.errs)
}

// parseTypeUse recognizes the three type-use forms (§4.6): an optional
// leading "(type ...)", followed by any number of "(param ...)"/"(result
// ...)" clauses. Resolution against the module's type table is deferred to
// resolveTypeUses, once the whole module is known.
func (p *Parser) parseTypeUse(c *cursor) (wasm.TypeUse, []wasm.ParamOrLocal) {
	var tu wasm.TypeUse
	var params []wasm.ParamOrLocal

	if c.at(TokenLParen) {
		lp := c.next()
		if c.atKeyword("type") {
			c.next()
			if v, ok := p.parseVar(c); ok {
				tu.HasFuncType = true
				tu.TypeVar = v
			}
			p.expectRParen(c)
		} else {
			c.unread(lp)
		}
	}

	for c.at(TokenLParen) {
		lp := c.next()
		if c.atKeyword("param") {
			c.next()
			params = append(params, p.parseParamClause(c)...)
			p.expectRParen(c)
			continue
		}
		if c.atKeyword("result") {
			c.next()
			tu.InlineSignature.Results = append(tu.InlineSignature.Results, p.parseResultClause(c)...)
			p.expectRParen(c)
			continue
		}
		c.unread(lp)
		break
	}
	for _, pl := range params {
		tu.InlineSignature.Params = append(tu.InlineSignature.Params, pl.ValueType)
	}
	p.checkMultiValueArity(c.peek().Location, tu.InlineSignature.Results)
	return tu, params
}

// parseParamClause recognizes the body of one "(param ...)" clause: either a
// single named entry ("$x i32") or zero or more unnamed abbreviated types
// ("i32 i32 i64").
func (p *Parser) parseParamClause(c *cursor) []wasm.ParamOrLocal {
	if c.at(TokenID) {
		name := string(c.next().Lexeme)
		vt, ok := p.parseValueType(c)
		if !ok {
			return nil
		}
		return []wasm.ParamOrLocal{{Name: name, ValueType: vt}}
	}
	var out []wasm.ParamOrLocal
	for c.at(TokenValueType) {
		vt, _ := p.parseValueType(c)
		out = append(out, wasm.ParamOrLocal{ValueType: vt})
	}
	return out
}

// parseLocalClause mirrors parseParamClause for a "(local ...)" clause.
func (p *Parser) parseLocalClause(c *cursor) []wasm.ParamOrLocal {
	return p.parseParamClause(c)
}

func (p *Parser) parseResultClause(c *cursor) []wasm.ValueType {
	var out []wasm.ValueType
	for c.at(TokenValueType) {
		vt, _ := p.parseValueType(c)
		out = append(out, vt)
	}
	return out
}

// parseLimits parses a Table's or Memory's "initial max?" pair (§3
// "Limits"). Both bounds accept either a NAT or INT token, resolving the
// "NAT vs INT leniency" open question in favor of the reference
// interpreter's behavior: any natural-number-shaped token is accepted
// wherever the grammar calls for a count.
func (p *Parser) parseLimits(c *cursor) wasm.Limits {
	var lim wasm.Limits
	lim.Initial = p.parseNat(c)
	if c.at(TokenNAT) || c.at(TokenINT) {
		maxLoc := c.peek().Location
		max := p.parseNat(c)
		if max < lim.Initial {
			p.errs.reportf(maxLoc, "limits", "size minimum must not be greater than maximum")
		}
		lim.Max = &max
	}
	return lim
}

func (p *Parser) parseNat(c *cursor) uint64 {
	tok := c.peek()
	if tok.Type != TokenNAT && tok.Type != TokenINT {
		p.errs.reportf(tok.Location, "limits", "expected a number, got %s", tok.Type)
		return 0
	}
	c.next()
	v, err := ParseUint64(tok.Lexeme)
	if err != nil {
		p.errs.reportf(tok.Location, "limits", "%v", err)
		return 0
	}
	return v
}

// parseGlobalType recognizes a global's value type, either bare (immutable)
// or wrapped in "(mut valtype)" (§3 "Global").
func (p *Parser) parseGlobalType(c *cursor) (mutable bool, vt wasm.ValueType) {
	if c.at(TokenLParen) {
		lp := c.next()
		if c.atKeyword("mut") {
			c.next()
			vt, _ = p.parseValueType(c)
			p.expectRParen(c)
			return true, vt
		}
		c.unread(lp)
	}
	vt, _ = p.parseValueType(c)
	return false, vt
}

// parseInlineImportExportSugar consumes zero or more leading "(export
// "...")"/"(import "m" "n")" clauses, in whatever order they were written
// (§4.4 bullets 1-3): the resolved import-before-export field ordering is
// the Field Assembler's job, not the grammar's.
func (p *Parser) parseInlineImportExportSugar(c *cursor) (exportNames []string, hasImport bool, importModule, importField string) {
	for c.at(TokenLParen) {
		lp := c.next()
		if c.atKeyword("export") {
			c.next()
			name, _, ok := p.parseString(c)
			if ok {
				exportNames = append(exportNames, string(name))
			}
			p.expectRParen(c)
			continue
		}
		if c.atKeyword("import") {
			c.next()
			mod, _, okm := p.parseString(c)
			fld, _, okf := p.parseString(c)
			if okm && okf {
				hasImport, importModule, importField = true, string(mod), string(fld)
			}
			p.expectRParen(c)
			continue
		}
		c.unread(lp)
		break
	}
	return
}

func (p *Parser) parseTypeField(c *cursor, fa *FieldAssembler) {
	loc := c.peek().Location
	name := p.optionalID(c)
	decl := &wasm.TypeDeclaration{Name: name, Location: loc}

	if p.expectLParen(c) {
		if _, ok := p.expectKeyword(c, "func"); ok {
			for c.at(TokenLParen) {
				lp := c.next()
				if c.atKeyword("param") {
					c.next()
					for _, pl := range p.parseParamClause(c) {
						decl.Signature.Params = append(decl.Signature.Params, pl.ValueType)
					}
					p.expectRParen(c)
					continue
				}
				if c.atKeyword("result") {
					c.next()
					decl.Signature.Results = append(decl.Signature.Results, p.parseResultClause(c)...)
					p.expectRParen(c)
					continue
				}
				c.unread(lp)
				break
			}
		}
		p.expectRParen(c)
	}
	p.checkMultiValueArity(loc, decl.Signature.Results)
	fa.AppendType(decl)
}

func (p *Parser) parseFuncField(c *cursor, fa *FieldAssembler) {
	loc := c.peek().Location
	name := p.optionalID(c)
	exportNames, hasImport, importModule, importField := p.parseInlineImportExportSugar(c)

	tu, params := p.parseTypeUse(c)
	f := &wasm.Function{Name: name, Type: tu, Params: params, Location: loc}

	if hasImport {
		fa.AppendFunc(f, true, importModule, importField, exportNames)
		return
	}

	for c.at(TokenLParen) {
		lp := c.next()
		if c.atKeyword("local") {
			c.next()
			f.Locals = append(f.Locals, p.parseLocalClause(c)...)
			p.expectRParen(c)
			continue
		}
		c.unread(lp)
		break
	}
	bindFunctionLocals(f)

	body := &wasm.ExprList{}
	p.parseInstrList(c, body, f)
	f.Body = body

	fa.AppendFunc(f, false, "", "", exportNames)
}

func (p *Parser) parseTableField(c *cursor, fa *FieldAssembler) {
	loc := c.peek().Location
	name := p.optionalID(c)
	exportNames, hasImport, importModule, importField := p.parseInlineImportExportSugar(c)

	tbl := &wasm.Table{Name: name, ElemType: wasm.ElemTypeFuncref, Location: loc}

	if c.at(TokenNAT) || c.at(TokenINT) {
		tbl.Limits = p.parseLimits(c)
		p.expectKeyword(c, "funcref")
		fa.AppendTable(tbl, hasImport, importModule, importField, exportNames, nil)
		return
	}

	// No explicit limits: this is the inline elem sugar, "funcref (elem
	// $a $b ...)" (§4.4 bullet 4) - the table's limits are derived from
	// the element list's length.
	p.expectKeyword(c, "funcref")
	var elemFuncs []wasm.Var
	if p.expectLParen(c) {
		p.expectKeyword(c, "elem")
		for !c.at(TokenRParen) && !c.at(TokenEOF) {
			v, ok := p.parseVar(c)
			if !ok {
				break
			}
			elemFuncs = append(elemFuncs, v)
		}
		p.expectRParen(c)
	}
	if elemFuncs == nil {
		elemFuncs = []wasm.Var{}
	}
	fa.AppendTable(tbl, hasImport, importModule, importField, exportNames, elemFuncs)
}

func (p *Parser) parseMemoryField(c *cursor, fa *FieldAssembler) {
	loc := c.peek().Location
	name := p.optionalID(c)
	exportNames, hasImport, importModule, importField := p.parseInlineImportExportSugar(c)

	mem := &wasm.Memory{Name: name, Location: loc}

	if c.at(TokenNAT) || c.at(TokenINT) {
		mem.Limits = p.parseLimits(c)
		fa.AppendMemory(mem, hasImport, importModule, importField, exportNames, false, nil)
		return
	}

	// Inline data sugar: "(data "..." ...)" in place of limits (§4.4
	// bullet 5) - the memory's page count is derived from the data size.
	var data []byte
	hasData := false
	if p.expectLParen(c) {
		p.expectKeyword(c, "data")
		hasData = true
		for c.at(TokenString) {
			chunk, _, ok := p.parseString(c)
			if ok {
				data = append(data, chunk...)
			}
		}
		p.expectRParen(c)
	}
	fa.AppendMemory(mem, hasImport, importModule, importField, exportNames, hasData, data)
}

func (p *Parser) parseGlobalField(c *cursor, fa *FieldAssembler) {
	loc := c.peek().Location
	name := p.optionalID(c)
	exportNames, hasImport, importModule, importField := p.parseInlineImportExportSugar(c)

	g := &wasm.Global{Name: name, Location: loc}
	g.Mutable, g.ValueType = p.parseGlobalType(c)

	if hasImport {
		fa.AppendGlobal(g, true, importModule, importField, exportNames)
		return
	}

	body := &wasm.ExprList{}
	p.parseInstrList(c, body, nil)
	g.Init = body
	fa.AppendGlobal(g, false, "", "", exportNames)
}

// parseImportField recognizes a standalone "(import "m" "n" (kind ...))"
// field (as opposed to the inline import sugar on func/table/memory/global,
// which parseInlineImportExportSugar handles instead).
func (p *Parser) parseImportField(c *cursor, fa *FieldAssembler) {
	modBytes, _, okm := p.parseString(c)
	fldBytes, _, okf := p.parseString(c)
	if !okm || !okf {
		return
	}
	mod, fld := string(modBytes), string(fldBytes)

	if !p.expectLParen(c) {
		return
	}
	kwTok := c.peek()
	switch string(kwTok.Lexeme) {
	case "func":
		c.next()
		loc := kwTok.Location
		name := p.optionalID(c)
		tu, params := p.parseTypeUse(c)
		f := &wasm.Function{Name: name, Type: tu, Params: params, Location: loc}
		fa.AppendFunc(f, true, mod, fld, nil)
	case "table":
		c.next()
		loc := kwTok.Location
		name := p.optionalID(c)
		tbl := &wasm.Table{Name: name, ElemType: wasm.ElemTypeFuncref, Location: loc}
		tbl.Limits = p.parseLimits(c)
		p.expectKeyword(c, "funcref")
		fa.AppendTable(tbl, true, mod, fld, nil, nil)
	case "memory":
		c.next()
		loc := kwTok.Location
		name := p.optionalID(c)
		mem := &wasm.Memory{Name: name, Location: loc}
		mem.Limits = p.parseLimits(c)
		fa.AppendMemory(mem, true, mod, fld, nil, false, nil)
	case "global":
		c.next()
		loc := kwTok.Location
		name := p.optionalID(c)
		g := &wasm.Global{Name: name, Location: loc}
		g.Mutable, g.ValueType = p.parseGlobalType(c)
		fa.AppendGlobal(g, true, mod, fld, nil)
	default:
		p.errs.reportf(kwTok.Location, "import", "unknown import kind: %s", kwTok.Lexeme)
		p.skipToMatchingRParen(c)
		return
	}
	p.expectRParen(c)
}

// parseExportField recognizes a standalone "(export "name" (kind $var))"
// field, whose Var refers to an already-declared member rather than one
// this field creates (§3 "Export").
func (p *Parser) parseExportField(c *cursor, fa *FieldAssembler) {
	nameBytes, loc, ok := p.parseString(c)
	if !ok {
		return
	}
	if !p.expectLParen(c) {
		return
	}
	kwTok := c.peek()
	var kind api.ExternType
	switch string(kwTok.Lexeme) {
	case "func":
		kind = api.ExternTypeFunc
	case "table":
		kind = api.ExternTypeTable
	case "memory":
		kind = api.ExternTypeMemory
	case "global":
		kind = api.ExternTypeGlobal
	default:
		p.errs.reportf(kwTok.Location, "export", "unknown export kind: %s", kwTok.Lexeme)
		p.skipToMatchingRParen(c)
		return
	}
	c.next()
	v, ok := p.parseVar(c)
	p.expectRParen(c)
	if !ok {
		return
	}
	fa.AppendStandaloneExport(string(nameBytes), kind, v, loc)
}

// parseOffsetClause recognizes an elem/data segment's offset expression,
// either wrapped in "(offset instr*)" or written as a single folded
// instruction standing in for it - both equally valid shorthand (§3
// "Element Segment"/"Data Segment").
func (p *Parser) parseOffsetClause(c *cursor) *wasm.ExprList {
	list := &wasm.ExprList{}
	if !c.at(TokenLParen) {
		return list
	}
	lp := c.next()
	if c.atKeyword("offset") {
		c.next()
		p.parseInstrList(c, list, nil)
		p.expectRParen(c)
		return list
	}
	c.unread(lp)
	p.parseFoldedInstr(c, list, nil)
	return list
}

func (p *Parser) parseElemField(c *cursor, fa *FieldAssembler) {
	loc := c.peek().Location
	tableVar, hasVar := p.parseOptionalVar(c)
	if !hasVar {
		tableVar = wasm.NewIndexVar(0, loc)
	}
	offset := p.parseOffsetClause(c)

	var funcs []wasm.Var
	for !c.at(TokenRParen) && !c.at(TokenEOF) {
		v, ok := p.parseVar(c)
		if !ok {
			break
		}
		funcs = append(funcs, v)
	}
	fa.AppendElem(&wasm.ElementSegment{TableVar: tableVar, Offset: offset, Funcs: funcs, Location: loc})
}

func (p *Parser) parseDataField(c *cursor, fa *FieldAssembler) {
	loc := c.peek().Location
	memVar, hasVar := p.parseOptionalVar(c)
	if !hasVar {
		memVar = wasm.NewIndexVar(0, loc)
	}
	offset := p.parseOffsetClause(c)

	var bytes []byte
	for c.at(TokenString) {
		chunk, _, ok := p.parseString(c)
		if ok {
			bytes = append(bytes, chunk...)
		}
	}
	fa.AppendData(&wasm.DataSegment{MemoryVar: memVar, Offset: offset, Bytes: bytes, Location: loc})
}

func (p *Parser) parseStartField(c *cursor, fa *FieldAssembler) {
	loc := c.peek().Location
	v, ok := p.parseVar(c)
	if !ok {
		return
	}
	fa.AppendStart(&wasm.Start{FuncVar: v, Location: loc})
}
