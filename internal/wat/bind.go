package wat

import "github.com/tetratelabs/wazero-wat/internal/wasm"

// bindModuleName records name -> index in one of a Module's per-namespace
// binding tables (C9). Names with an empty lexeme are not bound, except
// for exports, whose binding table additionally keys on the export's
// surface name, including the empty string (§4.4).
//
// Re-binding an already-bound name is permitted here; duplicate detection
// is left to a downstream validation pass (§4.5).
func bindModuleName(table wasm.BindingTable, name string, index wasm.Index, loc wasm.Location) {
	if name == "" {
		return
	}
	table[name] = wasm.Binding{Index: index, Location: loc}
}

// bindExportName always records the export's name, even when empty,
// because export names occupy a distinct namespace where "" is a valid
// key (§4.4).
func bindExportName(table wasm.BindingTable, name string, index wasm.Index, loc wasm.Location) {
	table[name] = wasm.Binding{Index: index, Location: loc}
}

// bindFunctionLocals builds the per-function name -> index table over the
// combined params⧺locals index space (§4.5 "Name Binder", §3 "Function"
// invariant). It is called once a function's full parameter and local
// list is known, before its body is parsed. The body's local.get/set/tee
// Vars are still recorded as written; nothing in this package resolves
// them against this table.
func bindFunctionLocals(f *wasm.Function) {
	f.Bindings = make(map[string]wasm.Index, len(f.Params)+len(f.Locals))
	idx := wasm.Index(0)
	for _, p := range f.Params {
		if p.Name != "" {
			f.Bindings[p.Name] = idx
		}
		idx++
	}
	for _, l := range f.Locals {
		if l.Name != "" {
			f.Bindings[l.Name] = idx
		}
		idx++
	}
}
