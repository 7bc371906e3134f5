package wasm

// ExprKind discriminates the Expr tagged union (§3 "Expr").
type ExprKind int

const (
	ExprUnreachable ExprKind = iota
	ExprNop
	ExprDrop
	ExprSelect
	ExprBr
	ExprBrIf
	ExprBrTable
	ExprReturn
	ExprCall
	ExprCallIndirect
	ExprLocalGet
	ExprLocalSet
	ExprLocalTee
	ExprGlobalGet
	ExprGlobalSet
	ExprLoad
	ExprStore
	ExprConst
	ExprUnary
	ExprBinary
	ExprCompare
	ExprConvert
	ExprMemorySize
	ExprMemoryGrow
	ExprBlock
	ExprLoop
	ExprIf
)

// Opcode is the numeric-family discriminant carried by LOAD/STORE/CONST/
// UNARY/BINARY/COMPARE/CONVERT tokens (§6). The lexer assigns the value;
// this core treats it opaquely except to copy it onto the Expr it builds.
type Opcode uint32

// AlignNatural is the default-alignment sentinel (§4.2, §9 bullet 2). It is
// deliberately not zero and not a power of two, so downstream code can tell
// "no align= given" apart from an explicit "align=N", which Expr.Align
// stores as the byte count N, without an extra boolean.
const AlignNatural = ^uint32(0)

// Expr is one instruction node. It is an intrusive singly linked list node
// (§3): Next chains to the following instruction in the same Block, in
// Function body, or segment offset expression.
type Expr struct {
	Kind     ExprKind
	Location Location
	Next     *Expr

	// Var is populated for Br, BrIf, Call, LocalGet, LocalSet, LocalTee,
	// GlobalGet, GlobalSet. CallIndirect carries no table Var.
	Var Var

	// CallIndirectType is populated only for ExprCallIndirect.
	CallIndirectType *TypeUse

	// BrTableTargets/BrTableDefault are populated only for ExprBrTable.
	BrTableTargets []Var
	BrTableDefault Var

	// Opcode/Align/Offset are populated for ExprLoad/ExprStore.
	Opcode Opcode
	Align  uint32
	Offset uint32

	// ValueType/ConstBits are populated only for ExprConst: ConstBits holds
	// the literal's raw bit pattern (i32/i64 zero/sign-extended to 64 bits,
	// f32/f64 IEEE-754 bits zero-extended to 64 bits).
	ValueType ValueType
	ConstBits uint64

	// Block is populated for ExprBlock/ExprLoop, and holds the "then" arm
	// for ExprIf.
	Block *Block
	// IfElse is populated only for ExprIf: it is nil when no else arm was
	// written, and non-nil-but-empty when "(else)"/an empty stack-form else
	// was written (§4.2 distinguishes the two).
	IfElse *ExprList
}

// ExprList is a constant-time-append singly linked list of Expr (§4.2).
type ExprList struct {
	First *Expr
	Last  *Expr
	Size  int
}

// Append adds e to the tail of the list.
func (l *ExprList) Append(e *Expr) {
	if l.First == nil {
		l.First = e
	} else {
		l.Last.Next = e
	}
	l.Last = e
	l.Size++
}

// AppendList concatenates o onto the tail of l, leaving o usable only as a
// read-only view (its nodes are now reachable from l).
func (l *ExprList) AppendList(o *ExprList) {
	if o == nil || o.First == nil {
		return
	}
	if l.First == nil {
		l.First = o.First
	} else {
		l.Last.Next = o.First
	}
	l.Last = o.Last
	l.Size += o.Size
}

// Block is the body of a block/loop/if-then/if-else construct (§3 "Block").
type Block struct {
	Label       string
	Signature   []ValueType
	Body        *ExprList
	Location    Location
	EndLocation Location
}

// TypeUse is a function's signature declaration, in any of the three forms
// the grammar allows (§4.6 "Type-Use Resolver"): inline only, named only
// (resolved against the module's type table after the whole module is
// parsed), or both (stored verbatim; structural-equality checking is a
// downstream concern per §4.6).
type TypeUse struct {
	HasFuncType     bool
	TypeVar         Var
	InlineSignature FunctionSignature
	// ResolvedIndex is filled in by the Type-Use Resolver (C10) once the
	// function's signature has a concrete type-table entry, whether
	// reused or freshly appended.
	ResolvedIndex Index
}
