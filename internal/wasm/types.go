package wasm

import "github.com/tetratelabs/wazero-wat/api"

// ValueType is re-exported from api so IR consumers need only import one
// package for the primitive operand kinds (§3 "Value Type").
type ValueType = api.ValueType

const (
	ValueTypeI32 = api.ValueTypeI32
	ValueTypeI64 = api.ValueTypeI64
	ValueTypeF32 = api.ValueTypeF32
	ValueTypeF64 = api.ValueTypeF64
)

// FunctionSignature is a Type Vector pair: parameters and results (§3).
//
// Invariant: Results holds at most one entry unless CoreFeatureMultiValue
// is enabled on the parser that built it (§3).
type FunctionSignature struct {
	Params  []ValueType
	Results []ValueType
}

// Equal compares two signatures structurally, used by the Type-Use
// Resolver (C10) to detect when an inline signature already matches an
// existing type table entry.
func (s *FunctionSignature) Equal(o *FunctionSignature) bool {
	if s == nil || o == nil {
		return s == o
	}
	return valueTypesEqual(s.Params, o.Params) && valueTypesEqual(s.Results, o.Results)
}

func valueTypesEqual(a, b []ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TypeDeclaration is a named entry in the module's type table (§3
// "Function Type Declaration").
type TypeDeclaration struct {
	Name      string
	Signature FunctionSignature
	Location  Location
}

// Limits bounds a Table's or Memory's size (§3).
//
// Invariant: if Max is non-nil, *Max >= Initial (§3, §8 boundary behaviors).
type Limits struct {
	Initial uint64
	Max     *uint64
}

// ElemTypeFuncref is the only table element type in WebAssembly 1.0.
const ElemTypeFuncref = "funcref"

// Table declares an indirect-call table (§3).
type Table struct {
	Name     string
	ElemType string // always ElemTypeFuncref in this core
	Limits   Limits
	Location Location
}

// PageSize is the unit Memory Limits are expressed in (64 KiB), absent
// CoreFeatureCustomPageSizes (§3 "Memory", SPEC_FULL.md domain stack).
const PageSize = 65536

// Memory declares linear memory sized in page units (§3).
type Memory struct {
	Name     string
	Limits   Limits
	Location Location
}

// Global declares a module-level value cell (§3).
type Global struct {
	Name      string
	ValueType ValueType
	Mutable   bool
	Init      *ExprList
	Location  Location
}
