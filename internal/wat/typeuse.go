package wat

import (
	"github.com/tetratelabs/wazero-wat/api"
	"github.com/tetratelabs/wazero-wat/internal/wasm"
)

// resolveTypeVar looks up a (type $id)/(type N) reference against the
// module's type table, returning the entry's index and signature (C10).
func resolveTypeVar(m *wasm.Module, v wasm.Var) (wasm.Index, wasm.FunctionSignature, *FormatError) {
	if v.IsIndex() {
		if int(v.Index) >= len(m.Types) {
			return 0, wasm.FunctionSignature{}, newFormatErrorf(v.Location, "type use", "unknown type %s", v.String())
		}
		return v.Index, m.Types[v.Index].Signature, nil
	}
	b, ok := m.Bindings.Types[v.Name]
	if !ok {
		return 0, wasm.FunctionSignature{}, newFormatErrorf(v.Location, "type use", "unknown type %s", v.String())
	}
	return b.Index, m.Types[b.Index].Signature, nil
}

// addAnonymousType implements the C10 helper that gives an un-typed-use
// function an anonymous type-table entry, reusing an existing
// structurally-equal entry rather than appending a duplicate (§4.6).
func addAnonymousType(m *wasm.Module, sig wasm.FunctionSignature) wasm.Index {
	for i, t := range m.Types {
		if t.Signature.Equal(&sig) {
			return wasm.Index(i)
		}
	}
	idx := wasm.Index(len(m.Types))
	decl := &wasm.TypeDeclaration{Signature: sig}
	m.Types = append(m.Types, decl)
	m.Fields = append(m.Fields, &wasm.ModuleField{Kind: wasm.FieldType, Type: decl})
	return idx
}

// resolveTypeUses runs the Type-Use Resolver (C10) over every function
// declared anywhere in the module (module-defined and imported), once the
// whole module has been parsed (§4.6 "Resolution occurs after the whole
// module is parsed").
func resolveTypeUses(m *wasm.Module, errs *errorTally) {
	resolve := func(f *wasm.Function) {
		if f == nil {
			return
		}
		if f.Type.HasFuncType {
			idx, sig, err := resolveTypeVar(m, f.Type.TypeVar)
			if err != nil {
				errs.report(err)
				return
			}
			f.Type.ResolvedIndex = idx
			if len(f.Type.InlineSignature.Params) == 0 && len(f.Type.InlineSignature.Results) == 0 {
				f.Type.InlineSignature = sig
			}
			// "Both" case: structural equality between the inline and
			// named signatures is checked downstream (§4.6).
			return
		}
		f.Type.ResolvedIndex = addAnonymousType(m, f.Type.InlineSignature)
	}

	for _, f := range m.Funcs {
		resolve(f)
	}
	for _, imp := range m.Imports {
		if imp.Kind == api.ExternTypeFunc {
			resolve(imp.Func)
		}
	}
}
