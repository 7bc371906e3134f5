package wat

import (
	"github.com/tetratelabs/wazero-wat/api"
	"github.com/tetratelabs/wazero-wat/internal/wasm"
)

// FieldAssembler accumulates ModuleFields onto a Module in declaration
// order (C7), enforcing "imports must occur before all non-import
// definitions" (§4.4) of the same kind, and expanding the inline
// import/export/elem/data sugars (C8) as each field is appended.
type FieldAssembler struct {
	m    *wasm.Module
	errs *errorTally
}

func newFieldAssembler(m *wasm.Module, errs *errorTally) *FieldAssembler {
	return &FieldAssembler{m: m, errs: errs}
}

// checkImportOrder reports the §4.4 ordering diagnostic when a kind's
// vector already holds more entries than it has recorded imports - i.e. a
// non-import definition of that kind was appended before this one.
func (a *FieldAssembler) checkImportOrder(kindLen int, importCount uint32, loc wasm.Location) {
	if kindLen != int(importCount) {
		a.errs.reportf(loc, "field assembler", "imports must occur before all non-import definitions")
	}
}

// zeroOffset builds the single-node "i32.const 0" expression list used as
// the implicit offset for inline elem/data sugar (§4.4).
func zeroOffset(loc wasm.Location) *wasm.ExprList {
	l := &wasm.ExprList{}
	l.Append(&wasm.Expr{Kind: wasm.ExprConst, ValueType: wasm.ValueTypeI32, Location: loc})
	return l
}

// appendExports expands N inline (export "name") sugars onto an already
// indexed field, in source order (§4.4 "generalizes to N exports").
func (a *FieldAssembler) appendExports(names []string, kind api.ExternType, idx wasm.Index, loc wasm.Location) {
	for _, name := range names {
		exp := &wasm.Export{Name: name, Kind: kind, Var: wasm.NewIndexVar(idx, loc), Location: loc}
		a.m.Exports = append(a.m.Exports, exp)
		a.m.Fields = append(a.m.Fields, &wasm.ModuleField{Kind: wasm.FieldExport, Export: exp})
		bindExportName(a.m.Bindings.Exports, name, wasm.Index(len(a.m.Exports)-1), loc)
	}
}

// AppendStandaloneExport records a top-level "(export "name" (kind $var))"
// field, whose Var already refers to an existing declaration rather than
// one this assembler just created (§3 "Export").
func (a *FieldAssembler) AppendStandaloneExport(name string, kind api.ExternType, v wasm.Var, loc wasm.Location) {
	exp := &wasm.Export{Name: name, Kind: kind, Var: v, Location: loc}
	a.m.Exports = append(a.m.Exports, exp)
	a.m.Fields = append(a.m.Fields, &wasm.ModuleField{Kind: wasm.FieldExport, Export: exp})
	bindExportName(a.m.Bindings.Exports, name, wasm.Index(len(a.m.Exports)-1), loc)
}

func (a *FieldAssembler) appendElem(e *wasm.ElementSegment) {
	a.m.Elems = append(a.m.Elems, e)
	a.m.Fields = append(a.m.Fields, &wasm.ModuleField{Kind: wasm.FieldElem, Elem: e})
}

func (a *FieldAssembler) appendData(d *wasm.DataSegment) {
	a.m.Data = append(a.m.Data, d)
	a.m.Fields = append(a.m.Fields, &wasm.ModuleField{Kind: wasm.FieldData, Data: d})
}

// AppendElem appends a standalone (non-inline) element segment (§3).
func (a *FieldAssembler) AppendElem(e *wasm.ElementSegment) { a.appendElem(e) }

// AppendData appends a standalone (non-inline) data segment (§3).
func (a *FieldAssembler) AppendData(d *wasm.DataSegment) { a.appendData(d) }

// AppendType records an explicit (type $id (func ...)) declaration (§3).
func (a *FieldAssembler) AppendType(t *wasm.TypeDeclaration) wasm.Index {
	idx := wasm.Index(len(a.m.Types))
	a.m.Types = append(a.m.Types, t)
	a.m.Fields = append(a.m.Fields, &wasm.ModuleField{Kind: wasm.FieldType, Type: t})
	bindModuleName(a.m.Bindings.Types, t.Name, idx, t.Location)
	return idx
}

// AppendStart records the module's (start $f) declaration (§3).
func (a *FieldAssembler) AppendStart(s *wasm.Start) {
	fv := s.FuncVar
	a.m.StartFunc = &fv
	a.m.Fields = append(a.m.Fields, &wasm.ModuleField{Kind: wasm.FieldStart, Start: s})
}

// AppendFunc assembles a func declaration, expanding inline import/export
// sugar (§4.4 bullets 1 and 3). When hasImport is set, AppendFunc sets
// f.IsImport; f.Body is the caller's responsibility and must be nil.
func (a *FieldAssembler) AppendFunc(f *wasm.Function, hasImport bool, importModule, importField string, exportNames []string) wasm.Index {
	var idx wasm.Index
	if hasImport {
		a.checkImportOrder(len(a.m.Funcs), a.m.NumFuncImports, f.Location)
		f.IsImport = true
		idx = wasm.Index(len(a.m.Funcs))
		a.m.Funcs = append(a.m.Funcs, f)
		a.m.NumFuncImports++
		imp := &wasm.Import{
			ModuleName: importModule, FieldName: importField,
			Kind: api.ExternTypeFunc, Func: f, Location: f.Location,
		}
		a.m.Imports = append(a.m.Imports, imp)
		a.m.Fields = append(a.m.Fields, &wasm.ModuleField{Kind: wasm.FieldImport, Import: imp})
	} else {
		idx = wasm.Index(len(a.m.Funcs))
		a.m.Funcs = append(a.m.Funcs, f)
		a.m.Fields = append(a.m.Fields, &wasm.ModuleField{Kind: wasm.FieldFunc, Func: f})
	}
	bindModuleName(a.m.Bindings.Funcs, f.Name, idx, f.Location)
	a.appendExports(exportNames, api.ExternTypeFunc, idx, f.Location)
	return idx
}

// AppendTable assembles a table declaration, expanding the inline
// "(table ... funcref (elem $a $b ...))" sugar (§4.4 bullet 4): the
// table's limits become initial = max = len(inlineElemFuncs), and a
// matching element segment at offset "i32.const 0" is appended after it
// and its inline exports. inlineElemFuncs is nil when no inline elem sugar was written.
func (a *FieldAssembler) AppendTable(t *wasm.Table, hasImport bool, importModule, importField string, exportNames []string, inlineElemFuncs []wasm.Var) wasm.Index {
	var idx wasm.Index
	if hasImport {
		a.checkImportOrder(len(a.m.Tables), a.m.NumTableImports, t.Location)
		idx = wasm.Index(len(a.m.Tables))
		a.m.Tables = append(a.m.Tables, t)
		a.m.NumTableImports++
		imp := &wasm.Import{
			ModuleName: importModule, FieldName: importField,
			Kind: api.ExternTypeTable, Table: t, Location: t.Location,
		}
		a.m.Imports = append(a.m.Imports, imp)
		a.m.Fields = append(a.m.Fields, &wasm.ModuleField{Kind: wasm.FieldImport, Import: imp})
	} else {
		idx = wasm.Index(len(a.m.Tables))
		a.m.Tables = append(a.m.Tables, t)
		a.m.Fields = append(a.m.Fields, &wasm.ModuleField{Kind: wasm.FieldTable, Table: t})
	}
	bindModuleName(a.m.Bindings.Tables, t.Name, idx, t.Location)
	a.appendExports(exportNames, api.ExternTypeTable, idx, t.Location)

	if inlineElemFuncs != nil {
		n := uint64(len(inlineElemFuncs))
		t.Limits = wasm.Limits{Initial: n, Max: &n}
		a.appendElem(&wasm.ElementSegment{
			TableVar: wasm.NewIndexVar(idx, t.Location),
			Offset:   zeroOffset(t.Location),
			Funcs:    inlineElemFuncs,
			Location: t.Location,
		})
	}
	return idx
}

// AppendMemory assembles a memory declaration, expanding the inline
// "(memory ... (data "abc" ...))" sugar (§4.4 bullet 5): the memory's
// limits become ceil(len(inlineData)/PageSize) pages, max equal to
// initial, and a matching data segment at offset "i32.const 0" is
// appended after it and its inline exports. hasInlineData distinguishes "(memory (data))"
// (zero-length, still sugar) from no inline data sugar at all.
func (a *FieldAssembler) AppendMemory(mem *wasm.Memory, hasImport bool, importModule, importField string, exportNames []string, hasInlineData bool, inlineData []byte) wasm.Index {
	var idx wasm.Index
	if hasImport {
		a.checkImportOrder(len(a.m.Memories), a.m.NumMemoryImports, mem.Location)
		idx = wasm.Index(len(a.m.Memories))
		a.m.Memories = append(a.m.Memories, mem)
		a.m.NumMemoryImports++
		imp := &wasm.Import{
			ModuleName: importModule, FieldName: importField,
			Kind: api.ExternTypeMemory, Memory: mem, Location: mem.Location,
		}
		a.m.Imports = append(a.m.Imports, imp)
		a.m.Fields = append(a.m.Fields, &wasm.ModuleField{Kind: wasm.FieldImport, Import: imp})
	} else {
		idx = wasm.Index(len(a.m.Memories))
		a.m.Memories = append(a.m.Memories, mem)
		a.m.Fields = append(a.m.Fields, &wasm.ModuleField{Kind: wasm.FieldMemory, Memory: mem})
	}
	bindModuleName(a.m.Bindings.Memories, mem.Name, idx, mem.Location)
	a.appendExports(exportNames, api.ExternTypeMemory, idx, mem.Location)

	if hasInlineData {
		pages := (uint64(len(inlineData)) + wasm.PageSize - 1) / wasm.PageSize
		mem.Limits = wasm.Limits{Initial: pages, Max: &pages}
		a.appendData(&wasm.DataSegment{
			MemoryVar: wasm.NewIndexVar(idx, mem.Location),
			Offset:    zeroOffset(mem.Location),
			Bytes:     inlineData,
			Location:  mem.Location,
		})
	}
	return idx
}

// AppendGlobal assembles a global declaration, expanding inline
// import/export sugar (§4.4 bullet 2). For an imported global, g must
// already have Init == nil; AppendGlobal builds the Import's ImportedGlobal
// payload from g's name/type/mutability.
func (a *FieldAssembler) AppendGlobal(g *wasm.Global, hasImport bool, importModule, importField string, exportNames []string) wasm.Index {
	var idx wasm.Index
	if hasImport {
		a.checkImportOrder(len(a.m.Globals), a.m.NumGlobalImports, g.Location)
		idx = wasm.Index(len(a.m.Globals))
		a.m.Globals = append(a.m.Globals, g)
		a.m.NumGlobalImports++
		imp := &wasm.Import{
			ModuleName: importModule, FieldName: importField,
			Kind: api.ExternTypeGlobal,
			GlobalDecl: &wasm.ImportedGlobal{
				Name: g.Name, ValueType: g.ValueType, Mutable: g.Mutable, Location: g.Location,
			},
			Location: g.Location,
		}
		a.m.Imports = append(a.m.Imports, imp)
		a.m.Fields = append(a.m.Fields, &wasm.ModuleField{Kind: wasm.FieldImport, Import: imp})
	} else {
		idx = wasm.Index(len(a.m.Globals))
		a.m.Globals = append(a.m.Globals, g)
		a.m.Fields = append(a.m.Fields, &wasm.ModuleField{Kind: wasm.FieldGlobal, Global: g})
	}
	bindModuleName(a.m.Bindings.Globals, g.Name, idx, g.Location)
	a.appendExports(exportNames, api.ExternTypeGlobal, idx, g.Location)
	return idx
}
