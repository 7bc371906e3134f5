package wat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/wazero-wat/internal/wasm"
)

func TestComposeScript_ResolvesImplicitActionToLatestModule(t *testing.T) {
	s := wasm.NewScript()
	s.Commands = append(s.Commands,
		&wasm.Command{Kind: wasm.CommandModule, Module: &wasm.RawModule{}},
		&wasm.Command{Kind: wasm.CommandAction, Action: &wasm.Action{ModuleVar: pendingModuleVar(wasm.Location{})}},
	)

	errs := &errorTally{}
	ComposeScript(s, errs)

	require.Equal(t, 0, errs.count)
	require.True(t, s.Commands[1].Action.ModuleVar.IsIndex())
	require.EqualValues(t, 0, s.Commands[1].Action.ModuleVar.Index)
}

func TestComposeScript_ResolvesNamedModule(t *testing.T) {
	s := wasm.NewScript()
	s.Commands = append(s.Commands,
		&wasm.Command{Kind: wasm.CommandModule, Module: &wasm.RawModule{Name: "m1"}},
		&wasm.Command{Kind: wasm.CommandModule, Module: &wasm.RawModule{}},
		&wasm.Command{Kind: wasm.CommandRegister, RegisterName: "x", RegisterModuleVar: wasm.NewNameVar("m1", wasm.Location{})},
	)

	errs := &errorTally{}
	ComposeScript(s, errs)

	require.Equal(t, 0, errs.count)
	require.True(t, s.Commands[2].RegisterModuleVar.IsIndex())
	require.EqualValues(t, 0, s.Commands[2].RegisterModuleVar.Index)
}

func TestComposeScript_UnknownNamedModuleReportsError(t *testing.T) {
	s := wasm.NewScript()
	s.Commands = append(s.Commands,
		&wasm.Command{Kind: wasm.CommandRegister, RegisterModuleVar: wasm.NewNameVar("missing", wasm.Location{})},
	)

	errs := &errorTally{}
	ComposeScript(s, errs)

	require.Equal(t, 1, errs.count)
}

func TestComposeScript_RecordsModuleNameToCommandIndex(t *testing.T) {
	s := wasm.NewScript()
	s.Commands = append(s.Commands,
		&wasm.Command{Kind: wasm.CommandModule, Module: &wasm.RawModule{Name: "a"}},
		&wasm.Command{Kind: wasm.CommandModule, Module: &wasm.RawModule{Name: "b"}},
	)

	ComposeScript(s, &errorTally{})

	require.Equal(t, 0, s.ModuleNameToCommandIndex["a"])
	require.Equal(t, 1, s.ModuleNameToCommandIndex["b"])
}
