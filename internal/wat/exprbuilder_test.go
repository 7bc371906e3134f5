package wat

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tetratelabs/wazero-wat/internal/wasm"
)

func tBinary() Token { return Token{Type: TokenBinary} }

func TestParseFoldedInstr_OperandsBeforeOperator(t *testing.T) {
	p, c := newTestParser(
		tLP(),
		tBinary(), // i32.add
		tLP(), tConst(ConstOpcodeI32), tNat("1"), tRP(),
		tLP(), tConst(ConstOpcodeI32), tNat("2"), tRP(),
		tRP(),
	)
	list := &wasm.ExprList{}
	p.parseFoldedInstr(c, list, nil)

	require.Equal(t, 0, p.errorCount())
	require.Equal(t, 3, list.Size)
	n := list.First
	require.Equal(t, wasm.ExprConst, n.Kind)
	require.Equal(t, uint64(1), n.ConstBits)
	n = n.Next
	require.Equal(t, wasm.ExprConst, n.Kind)
	require.Equal(t, uint64(2), n.ConstBits)
	n = n.Next
	require.Equal(t, wasm.ExprBinary, n.Kind)
	require.Nil(t, n.Next)
}

func TestParseBlockBody_LabelMatch(t *testing.T) {
	p, c := newTestParser(tID("l"), tKw("end"), tID("l"))
	e := p.parseBlockBody(c, wasm.ExprBlock, wasm.Location{})

	require.Equal(t, 0, p.errorCount())
	require.Equal(t, wasm.ExprBlock, e.Kind)
	require.Equal(t, "l", e.Block.Label)
	require.Equal(t, 0, e.Block.Body.Size)
}

func TestParseBlockBody_EndLabelWithoutBeginLabelReportsError(t *testing.T) {
	p, c := newTestParser(tKw("end"), tID("bad"))
	p.parseBlockBody(c, wasm.ExprBlock, wasm.Location{})

	require.Equal(t, 1, p.errorCount())
}

func TestParseKeywordInstr_BrTableSplitsDefaultFromTargets(t *testing.T) {
	p, c := newTestParser(tKw("br_table"), tNat("0"), tNat("1"), tNat("2"))
	e := p.parsePlainInstr(c, nil)

	require.Equal(t, 0, p.errorCount())
	require.Equal(t, wasm.ExprBrTable, e.Kind)
	require.Len(t, e.BrTableTargets, 2)
	require.Equal(t, wasm.Index(0), e.BrTableTargets[0].Index)
	require.Equal(t, wasm.Index(1), e.BrTableTargets[1].Index)
	require.Equal(t, wasm.Index(2), e.BrTableDefault.Index)
}

func TestParseMemArgInstr_OffsetAndAlign(t *testing.T) {
	p, c := newTestParser(
		Token{Type: TokenLoad},
		tKw("offset=4"),
		tKw("align=8"),
	)
	e := p.parsePlainInstr(c, nil)

	require.Equal(t, 0, p.errorCount())
	require.Equal(t, wasm.ExprLoad, e.Kind)
	require.Equal(t, uint32(4), e.Offset)
	require.Equal(t, uint32(8), e.Align)
}

func TestParseMemArgInstr_RejectsNonPowerOfTwoAlign(t *testing.T) {
	p, c := newTestParser(Token{Type: TokenLoad}, tKw("align=3"))
	p.parsePlainInstr(c, nil)

	require.Equal(t, 1, p.errorCount())
}

func TestParseMemArgInstr_AcceptsPowerOfTwoAlign(t *testing.T) {
	p, c := newTestParser(Token{Type: TokenLoad}, tKw("align=4"))
	e := p.parsePlainInstr(c, nil)

	require.Equal(t, 0, p.errorCount())
	require.Equal(t, uint32(4), e.Align)
}

func TestParseMemArgInstr_DefaultAlignIsNatural(t *testing.T) {
	p, c := newTestParser(Token{Type: TokenLoad})
	e := p.parsePlainInstr(c, nil)

	require.Equal(t, wasm.AlignNatural, e.Align)
}

func TestParseConstInstr_I64(t *testing.T) {
	p, c := newTestParser(tConst(ConstOpcodeI64), tNat("42"))
	e := p.parsePlainInstr(c, nil)

	require.Equal(t, 0, p.errorCount())
	require.Equal(t, wasm.ValueTypeI64, e.ValueType)
	require.Equal(t, uint64(42), e.ConstBits)
}

func TestParseKeywordInstr_AcceptsLegacyLocalGlobalMnemonics(t *testing.T) {
	cases := []struct {
		legacy string
		kind   wasm.ExprKind
	}{
		{"get_local", wasm.ExprLocalGet},
		{"set_local", wasm.ExprLocalSet},
		{"tee_local", wasm.ExprLocalTee},
		{"get_global", wasm.ExprGlobalGet},
		{"set_global", wasm.ExprGlobalSet},
	}
	for _, tc := range cases {
		p, c := newTestParser(tKw(tc.legacy), tNat("0"))
		e := p.parsePlainInstr(c, nil)

		require.Equal(t, 0, p.errorCount(), tc.legacy)
		require.Equal(t, tc.kind, e.Kind, tc.legacy)
		require.Equal(t, wasm.Index(0), e.Var.Index, tc.legacy)
	}
}

func TestParseKeywordInstr_AcceptsLegacyMemoryMnemonics(t *testing.T) {
	p, c := newTestParser(tKw("current_memory"))
	e := p.parsePlainInstr(c, nil)
	require.Equal(t, 0, p.errorCount())
	require.Equal(t, wasm.ExprMemorySize, e.Kind)

	p, c = newTestParser(tKw("grow_memory"))
	e = p.parsePlainInstr(c, nil)
	require.Equal(t, 0, p.errorCount())
	require.Equal(t, wasm.ExprMemoryGrow, e.Kind)
}

func TestParseFoldedInstr_BlockClosesOnRParenWithoutEnd(t *testing.T) {
	p, c := newTestParser(
		tLP(), tKw("block"), tID("l"),
		tLP(), tKw("result"), tValType("i32"), tRP(),
		tLP(), tKw("br"), tID("l"), tRP(),
		tRP(),
	)
	list := &wasm.ExprList{}
	p.parseFoldedInstr(c, list, nil)

	require.Equal(t, 0, p.errorCount())
	require.Equal(t, 1, list.Size)
	require.Equal(t, wasm.ExprBlock, list.First.Kind)
	require.Equal(t, "l", list.First.Block.Label)
}

func TestParseFoldedInstr_LoopClosesOnRParenWithoutEnd(t *testing.T) {
	p, c := newTestParser(
		tLP(), tKw("loop"),
		tLP(), tKw("br"), tNat("0"), tRP(),
		tRP(),
	)
	list := &wasm.ExprList{}
	p.parseFoldedInstr(c, list, nil)

	require.Equal(t, 0, p.errorCount())
	require.Equal(t, 1, list.Size)
	require.Equal(t, wasm.ExprLoop, list.First.Kind)
}

// TestParseInstrList_FoldedBlockWithStrayEndReportsMismatchingLabel mirrors
// the seed scenario where a folded block is immediately followed, in the
// same instruction list, by a redundant "end" bearing a different label:
// "(block $l (result i32) (br $l)) end $l2". The fold itself closes clean
// on its own ')'; the stray "end $l2" is checked against the block's own
// label and reported as a mismatch rather than as a stray-token parse
// error.
func TestParseInstrList_FoldedBlockWithStrayEndReportsMismatchingLabel(t *testing.T) {
	p, c := newTestParser(
		tLP(), tKw("block"), tID("l"),
		tLP(), tKw("result"), tValType("i32"), tRP(),
		tLP(), tKw("br"), tID("l"), tRP(),
		tRP(),
		tKw("end"), tID("l2"),
	)
	list := &wasm.ExprList{}
	p.parseInstrList(c, list, nil)

	require.Equal(t, 1, p.errorCount())
	require.Equal(t, 1, list.Size)
}

func TestFloatLiteralKind(t *testing.T) {
	require.Equal(t, FloatCanonicalNaN, floatLiteralKind([]byte("nan")))
	require.Equal(t, FloatArithmeticNaN, floatLiteralKind([]byte("nan:0x200000")))
	require.Equal(t, FloatInf, floatLiteralKind([]byte("-inf")))
	require.Equal(t, FloatHex, floatLiteralKind([]byte("0x1.8p3")))
	require.Equal(t, FloatDecimal, floatLiteralKind([]byte("1.5")))
}
