package wat

import "github.com/tetratelabs/wazero-wat/internal/wasm"

// ConstOpcode is the TokenConst family's Opcode convention (§6): the lexer
// tags "i32.const"/"i64.const"/"f32.const"/"f64.const" with one of these
// four values so the Expression Builder knows which literal grammar (and
// which ValueType) follows, without re-parsing the mnemonic text itself.
const (
	ConstOpcodeI32 wasm.Opcode = iota
	ConstOpcodeI64
	ConstOpcodeF32
	ConstOpcodeF64
)
