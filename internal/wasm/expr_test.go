package wasm

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExprList_Append(t *testing.T) {
	l := &ExprList{}
	e1 := &Expr{Kind: ExprNop}
	e2 := &Expr{Kind: ExprDrop}

	l.Append(e1)
	require.Equal(t, 1, l.Size)
	require.Same(t, e1, l.First)
	require.Same(t, e1, l.Last)

	l.Append(e2)
	require.Equal(t, 2, l.Size)
	require.Same(t, e1, l.First)
	require.Same(t, e2, l.Last)
	require.Same(t, e2, l.First.Next)
}

func TestExprList_AppendList(t *testing.T) {
	a := &ExprList{}
	a.Append(&Expr{Kind: ExprNop})

	b := &ExprList{}
	b.Append(&Expr{Kind: ExprDrop})
	b.Append(&Expr{Kind: ExprUnreachable})

	a.AppendList(b)
	require.Equal(t, 3, a.Size)

	var kinds []ExprKind
	for e := a.First; e != nil; e = e.Next {
		kinds = append(kinds, e.Kind)
	}
	require.Equal(t, []ExprKind{ExprNop, ExprDrop, ExprUnreachable}, kinds)
}

func TestExprList_AppendList_Empty(t *testing.T) {
	a := &ExprList{}
	a.Append(&Expr{Kind: ExprNop})

	a.AppendList(&ExprList{})
	require.Equal(t, 1, a.Size)

	a.AppendList(nil)
	require.Equal(t, 1, a.Size)
}

func TestFunctionSignature_Equal(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *FunctionSignature
		expected bool
	}{
		{
			name:     "both empty",
			a:        &FunctionSignature{},
			b:        &FunctionSignature{},
			expected: true,
		},
		{
			name:     "same params and results",
			a:        &FunctionSignature{Params: []ValueType{ValueTypeI32}, Results: []ValueType{ValueTypeI32}},
			b:        &FunctionSignature{Params: []ValueType{ValueTypeI32}, Results: []ValueType{ValueTypeI32}},
			expected: true,
		},
		{
			name:     "different params",
			a:        &FunctionSignature{Params: []ValueType{ValueTypeI32}},
			b:        &FunctionSignature{Params: []ValueType{ValueTypeI64}},
			expected: false,
		},
		{
			name:     "different result count",
			a:        &FunctionSignature{Results: []ValueType{ValueTypeI32}},
			b:        &FunctionSignature{Results: []ValueType{ValueTypeI32, ValueTypeI32}},
			expected: false,
		},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.a.Equal(tc.b))
		})
	}
}
