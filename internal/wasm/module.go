package wasm

import "github.com/tetratelabs/wazero-wat/api"

// ParamOrLocal names one entry in a function's combined params⧺locals
// index space (§4.5). Name is empty when the source left the entry
// unnamed.
type ParamOrLocal struct {
	Name      string
	ValueType ValueType
	Location  Location
}

// Function is a func declaration: either a module-defined function with a
// Body, or (when IsImport is true) the func-shaped payload of an Import,
// in which case Body is nil (§3 "Function", §4.4 inline import sugar).
type Function struct {
	Name     string
	Type     TypeUse
	Params   []ParamOrLocal
	Locals   []ParamOrLocal
	Body     *ExprList
	IsImport bool
	Location Location

	// Bindings maps a non-empty param/local name to its index in the
	// combined params⧺locals space (§4.5).
	Bindings map[string]Index
}

// ElementSegment populates a table with a sequence of function references
// at an offset (§3). TableVar defaults to Index(0) when the source left it
// implicit (§4.4).
type ElementSegment struct {
	TableVar Var
	Offset   *ExprList
	Funcs    []Var
	Location Location
}

// DataSegment populates a memory region with a byte buffer at an offset
// (§3). MemoryVar defaults to Index(0) when the source left it implicit
// (§4.4).
type DataSegment struct {
	MemoryVar Var
	Offset    *ExprList
	Bytes     []byte
	Location  Location
}

// Export re-exposes a module member under a (possibly empty, possibly
// duplicate - downstream validates that) surface name (§3).
type Export struct {
	Name     string
	Kind     api.ExternType
	Var      Var
	Location Location
}

// Import pulls a member in from a host-provided module/field pair (§3).
// Exactly one of Func/Table/Memory/GlobalDecl is non-nil, per Kind.
type Import struct {
	ModuleName string
	FieldName  string
	Kind       api.ExternType
	Func       *Function
	Table      *Table
	Memory     *Memory
	GlobalDecl *ImportedGlobal
	Location   Location
}

// ImportedGlobal is the kind-specific payload of a global Import: an
// imported global has a type and mutability but no Init expression.
type ImportedGlobal struct {
	Name      string
	ValueType ValueType
	Mutable   bool
	Location  Location
}

// Start names the module's start function (§3).
type Start struct {
	FuncVar  Var
	Location Location
}

// FieldKind discriminates the ModuleField tagged union (§3 "Module Field").
type FieldKind int

const (
	FieldFunc FieldKind = iota
	FieldGlobal
	FieldTable
	FieldMemory
	FieldElem
	FieldData
	FieldImport
	FieldExport
	FieldType
	FieldStart
)

// ModuleField is one top-level declaration, in source declaration order
// (§3). Exactly one of the kind-specific pointers is non-nil, per Kind.
type ModuleField struct {
	Kind   FieldKind
	Func   *Function
	Global *Global
	Table  *Table
	Memory *Memory
	Elem   *ElementSegment
	Data   *DataSegment
	Import *Import
	Export *Export
	Type   *TypeDeclaration
	Start  *Start
}

// Binding is one entry of a BindingTable: the index a name resolved to,
// and where it was declared (§4.5).
type Binding struct {
	Index    Index
	Location Location
}

// BindingTable maps a declared name (without its leading '$') to the
// index it was bound to. Re-binding the same name is permitted
// syntactically here; duplicate detection is a downstream concern (§4.5).
type BindingTable map[string]Binding

// ModuleBindings holds one BindingTable per namespace that can be named at
// module scope (§4.5).
type ModuleBindings struct {
	Funcs    BindingTable
	Globals  BindingTable
	Tables   BindingTable
	Memories BindingTable
	Types    BindingTable
	Exports  BindingTable
}

func newModuleBindings() *ModuleBindings {
	return &ModuleBindings{
		Funcs:    BindingTable{},
		Globals:  BindingTable{},
		Tables:   BindingTable{},
		Memories: BindingTable{},
		Types:    BindingTable{},
		Exports:  BindingTable{},
	}
}

// Module is the fully parsed, structurally validated IR for one text-format
// module (§3 "Module").
//
// Invariant (§8 #2, "Import segregation"): for each kind K, the first
// NumXImports entries of the K vector are imports, in declaration order.
// Invariant (§8 #3, "Field/vector coherence"): every ModuleField's payload
// appears exactly once, at the same relative order, in its kind's vector.
type Module struct {
	Name     string
	Fields   []*ModuleField
	Location Location

	Funcs     []*Function
	Tables    []*Table
	Memories  []*Memory
	Globals   []*Global
	Exports   []*Export
	Imports   []*Import
	Types     []*TypeDeclaration
	Elems     []*ElementSegment
	Data      []*DataSegment
	StartFunc *Var

	NumFuncImports    uint32
	NumTableImports   uint32
	NumMemoryImports  uint32
	NumGlobalImports  uint32

	Bindings *ModuleBindings
}

// NewModule returns an empty Module ready for field-by-field assembly by
// the Field Assembler (C7).
func NewModule() *Module {
	return &Module{Bindings: newModuleBindings()}
}
