package wat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/wazero-wat/api"
	"github.com/tetratelabs/wazero-wat/internal/wasm"
)

func TestFieldAssembler_AppendFunc_Plain(t *testing.T) {
	m := wasm.NewModule()
	errs := &errorTally{}
	a := newFieldAssembler(m, errs)

	f := &wasm.Function{Name: "f"}
	idx := a.AppendFunc(f, false, "", "", nil)

	require.EqualValues(t, 0, idx)
	require.Equal(t, 0, errs.count)
	require.Len(t, m.Funcs, 1)
	require.Len(t, m.Fields, 1)
	require.Equal(t, wasm.FieldFunc, m.Fields[0].Kind)
	b, ok := m.Bindings.Funcs["f"]
	require.True(t, ok)
	require.EqualValues(t, 0, b.Index)
}

func TestFieldAssembler_AppendFunc_InlineImportAndMultipleExports(t *testing.T) {
	m := wasm.NewModule()
	errs := &errorTally{}
	a := newFieldAssembler(m, errs)

	f := &wasm.Function{Name: "f"}
	idx := a.AppendFunc(f, true, "m", "n", []string{"a", "b"})

	require.Equal(t, 0, errs.count)
	require.EqualValues(t, 0, idx)
	require.True(t, f.IsImport)
	require.Len(t, m.Funcs, 1)
	require.Len(t, m.Imports, 1)
	require.Len(t, m.Exports, 2)
	require.EqualValues(t, 1, m.NumFuncImports)

	// Import field first, then both export fields, matching source order.
	require.Len(t, m.Fields, 3)
	require.Equal(t, wasm.FieldImport, m.Fields[0].Kind)
	require.Equal(t, wasm.FieldExport, m.Fields[1].Kind)
	require.Equal(t, wasm.FieldExport, m.Fields[2].Kind)
	require.Equal(t, "a", m.Fields[1].Export.Name)
	require.Equal(t, "b", m.Fields[2].Export.Name)
	require.True(t, m.Fields[1].Export.Var.IsIndex())
	require.EqualValues(t, 0, m.Fields[1].Export.Var.Index)
}

func TestFieldAssembler_AppendFunc_ImportAfterDefinitionReportsError(t *testing.T) {
	m := wasm.NewModule()
	errs := &errorTally{}
	a := newFieldAssembler(m, errs)

	a.AppendFunc(&wasm.Function{Name: "defined"}, false, "", "", nil)
	a.AppendFunc(&wasm.Function{Name: "late"}, true, "m", "n", nil)

	require.Equal(t, 1, errs.count)
}

func TestFieldAssembler_AppendTable_InlineElemSugar(t *testing.T) {
	m := wasm.NewModule()
	errs := &errorTally{}
	a := newFieldAssembler(m, errs)

	tbl := &wasm.Table{Name: "t", ElemType: wasm.ElemTypeFuncref}
	funcs := []wasm.Var{wasm.NewIndexVar(0, wasm.Location{}), wasm.NewIndexVar(1, wasm.Location{})}
	idx := a.AppendTable(tbl, false, "", "", nil, funcs)

	require.EqualValues(t, 0, idx)
	require.EqualValues(t, 2, tbl.Limits.Initial)
	require.NotNil(t, tbl.Limits.Max)
	require.EqualValues(t, 2, *tbl.Limits.Max)
	require.Len(t, m.Elems, 1)
	require.Equal(t, funcs, m.Elems[0].Funcs)
	require.True(t, m.Elems[0].TableVar.IsIndex())
	require.EqualValues(t, 0, m.Elems[0].TableVar.Index)
	require.Len(t, m.Fields, 2)
	require.Equal(t, wasm.FieldTable, m.Fields[0].Kind)
	require.Equal(t, wasm.FieldElem, m.Fields[1].Kind)
}

func TestFieldAssembler_AppendMemory_InlineDataSugar(t *testing.T) {
	m := wasm.NewModule()
	errs := &errorTally{}
	a := newFieldAssembler(m, errs)

	mem := &wasm.Memory{Name: "m"}
	data := make([]byte, wasm.PageSize+1)
	idx := a.AppendMemory(mem, false, "", "", nil, true, data)

	require.EqualValues(t, 0, idx)
	require.EqualValues(t, 2, mem.Limits.Initial)
	require.EqualValues(t, 2, *mem.Limits.Max)
	require.Len(t, m.Data, 1)
	require.Equal(t, data, m.Data[0].Bytes)
	require.Len(t, m.Fields, 2)
}

func TestFieldAssembler_AppendMemory_EmptyInlineDataIsZeroPages(t *testing.T) {
	m := wasm.NewModule()
	errs := &errorTally{}
	a := newFieldAssembler(m, errs)

	mem := &wasm.Memory{Name: "m"}
	a.AppendMemory(mem, false, "", "", nil, true, nil)

	require.EqualValues(t, 0, mem.Limits.Initial)
	require.EqualValues(t, 0, *mem.Limits.Max)
	require.Len(t, m.Data, 1)
}

func TestFieldAssembler_AppendGlobal_InlineImport(t *testing.T) {
	m := wasm.NewModule()
	errs := &errorTally{}
	a := newFieldAssembler(m, errs)

	g := &wasm.Global{Name: "g", ValueType: wasm.ValueTypeI32, Mutable: true}
	idx := a.AppendGlobal(g, true, "m", "n", []string{"x"})

	require.EqualValues(t, 0, idx)
	require.Len(t, m.Imports, 1)
	require.Equal(t, api.ExternTypeGlobal, m.Imports[0].Kind)
	require.NotNil(t, m.Imports[0].GlobalDecl)
	require.Equal(t, "g", m.Imports[0].GlobalDecl.Name)
	require.EqualValues(t, 1, m.NumGlobalImports)
	require.Len(t, m.Exports, 1)
}

func TestFieldAssembler_AppendType_Binds(t *testing.T) {
	m := wasm.NewModule()
	a := newFieldAssembler(m, &errorTally{})

	idx := a.AppendType(&wasm.TypeDeclaration{Name: "t"})
	require.EqualValues(t, 0, idx)
	b, ok := m.Bindings.Types["t"]
	require.True(t, ok)
	require.EqualValues(t, 0, b.Index)
}

func TestFieldAssembler_AppendStart(t *testing.T) {
	m := wasm.NewModule()
	a := newFieldAssembler(m, &errorTally{})

	a.AppendStart(&wasm.Start{FuncVar: wasm.NewIndexVar(3, wasm.Location{})})
	require.NotNil(t, m.StartFunc)
	require.EqualValues(t, 3, m.StartFunc.Index)
	require.Len(t, m.Fields, 1)
	require.Equal(t, wasm.FieldStart, m.Fields[0].Kind)
}

func TestFieldAssembler_AppendExports_EmptyNameIsBound(t *testing.T) {
	m := wasm.NewModule()
	a := newFieldAssembler(m, &errorTally{})

	a.AppendFunc(&wasm.Function{}, false, "", "", []string{""})
	_, ok := m.Bindings.Exports[""]
	require.True(t, ok)
}
