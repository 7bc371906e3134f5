package wat

import "github.com/tetratelabs/wazero-wat/internal/wasm"

// InvalidModuleIndex is the reserved sentinel a module-referencing Var
// carries when the source left the module implicit - e.g. a bare
// "(invoke "f")" with no "$mod" - until the Script Composer resolves it
// to the most recently declared module's command index (§4.7).
const InvalidModuleIndex = wasm.Index(^uint32(0))

// pendingModuleVar builds the Var a grammar production stores on an
// Action/Register command before the Script Composer runs, for the case
// where the source left the module reference out entirely.
func pendingModuleVar(loc wasm.Location) wasm.Var {
	return wasm.NewIndexVar(InvalidModuleIndex, loc)
}

// ComposeScript implements the Script Composer (C11): having collected
// every command, walk the sequence once, recording each named Module
// command's (name -> command index) and resolving every command-level
// module reference - implicit ("most recent module") or by name - to a
// concrete command index (§4.7).
func ComposeScript(s *wasm.Script, errs *errorTally) {
	latest := InvalidModuleIndex
	for i, cmd := range s.Commands {
		if cmd.Kind == wasm.CommandModule {
			if cmd.Module != nil {
				name := cmd.Module.Name
				if cmd.Module.Kind == wasm.RawModuleText && cmd.Module.Module != nil {
					name = cmd.Module.Module.Name
				}
				if name != "" {
					s.ModuleNameToCommandIndex[name] = i
				}
			}
			latest = wasm.Index(i)
			continue
		}
		if cmd.Kind == wasm.CommandRegister {
			resolveModuleVar(&cmd.RegisterModuleVar, latest, s, errs, cmd.Location)
		}
		if cmd.Action != nil {
			resolveModuleVar(&cmd.Action.ModuleVar, latest, s, errs, cmd.Action.Location)
		}
	}
}

// resolveModuleVar turns an implicit or by-name module reference into a
// concrete command-index Var in place.
func resolveModuleVar(v *wasm.Var, latest wasm.Index, s *wasm.Script, errs *errorTally, loc wasm.Location) {
	if v.IsIndex() {
		if v.Index == InvalidModuleIndex {
			v.Index = latest
		}
		return
	}
	idx, ok := s.ModuleNameToCommandIndex[v.Name]
	if !ok {
		errs.reportf(loc, "script composer", "unknown module: $%s", v.Name)
		return
	}
	v.Kind = wasm.VarKindIndex
	v.Index = wasm.Index(idx)
}
