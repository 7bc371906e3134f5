package wasm

import "strconv"

// Index is a dense, zero-based position within one of a Module's
// per-kind namespaces (funcs, tables, memories, globals, types). Indices
// are assigned strictly by declaration order, imports first (§4.5, §8
// invariant 1/2).
type Index = uint32

// VarKind discriminates the two forms a Var's reference can take.
type VarKind int

const (
	// VarKindIndex is a Var written as a literal numeral in the source,
	// e.g. "call 3". It is already numeric, but is not necessarily valid
	// (out of range) until a downstream pass checks it against the
	// relevant namespace's size.
	VarKindIndex VarKind = iota
	// VarKindName is a Var written as a "$id" in the source. Resolving it
	// to an Index is explicitly a downstream concern (§3 "Var", §9); this
	// core only records it, alongside the binding tables (C9) a resolver
	// needs to finish the job.
	VarKindName
)

// Var is an unresolved reference that later becomes a dense Index (§3).
type Var struct {
	Kind     VarKind
	Index    Index
	Name     string
	Location Location
}

// NewIndexVar builds a Var from a literal numeral already seen in the source.
func NewIndexVar(index Index, loc Location) Var {
	return Var{Kind: VarKindIndex, Index: index, Location: loc}
}

// NewNameVar builds a Var from a "$id" textual reference.
func NewNameVar(name string, loc Location) Var {
	return Var{Kind: VarKindName, Name: name, Location: loc}
}

// IsIndex reports whether this Var was already numeric in the source.
func (v Var) IsIndex() bool { return v.Kind == VarKindIndex }

// String renders the Var the way it appeared in source: the bare number, or
// "$" plus the name.
func (v Var) String() string {
	if v.Kind == VarKindName {
		return "$" + v.Name
	}
	return strconv.FormatUint(uint64(v.Index), 10)
}
