package wasm

// RawModuleKind discriminates a RawModule between the text and binary
// surface forms a script's "module" command may take (§3, §4.7).
type RawModuleKind int

const (
	RawModuleText RawModuleKind = iota
	RawModuleBinary
)

// RawModule is a script-level module reference before the Raw-Module
// Dispatcher (C12) has decided (and, for the binary case, run) how to turn
// it into a Module (§3 "Raw Module").
type RawModule struct {
	Kind RawModuleKind

	// Module is populated when Kind == RawModuleText, and (after dispatch)
	// is also populated for the binary case once the external Binary
	// Reader has decoded Bytes successfully.
	Module *Module

	// Name and Bytes are populated when Kind == RawModuleBinary. A
	// successful dispatch clears Bytes once Module holds the decoded
	// result; Name is kept.
	Name  string
	Bytes []byte

	Location Location
}

// ActionKind discriminates the Action tagged union (§3 "Action").
type ActionKind int

const (
	ActionInvoke ActionKind = iota
	ActionGet
)

// ConstValue is a single literal argument or expected result value, typed
// and bit-encoded the same way Expr's Const node is (§3, §4.8).
type ConstValue struct {
	ValueType ValueType
	Bits      uint64
}

// Action invokes an exported function, or reads an exported global, of the
// module ModuleVar refers to (§3 "Action"). ModuleVar's resolution to a
// specific command index is the Script Composer's job (C11).
type Action struct {
	Kind      ActionKind
	ModuleVar Var
	Field     string
	Args      []ConstValue // populated only for ActionInvoke
	Location  Location
}

// CommandKind discriminates the Command tagged union (§3 "Command").
type CommandKind int

const (
	CommandModule CommandKind = iota
	CommandRegister
	CommandAction
	CommandAssertReturn
	CommandAssertReturnCanonicalNan
	CommandAssertReturnArithmeticNan
	CommandAssertTrap
	CommandAssertExhaustion
	CommandAssertMalformed
	CommandAssertInvalid
	CommandAssertUnlinkable
	CommandAssertUninstantiable
)

// Command is one top-level script item (§3 "Command"). Exactly the fields
// relevant to Kind are populated; this core does not interpret or check
// any assertion's expected payload (§1 Non-goals) — it only resolves
// module/action references and preserves the expected payload verbatim.
type Command struct {
	Kind CommandKind

	// Module is populated for CommandModule and for any assert command
	// whose payload is a module (AssertMalformed, AssertInvalid,
	// AssertUnlinkable, AssertUninstantiable, and AssertTrap when its
	// subject is a module rather than an action).
	Module *RawModule

	// RegisterName/RegisterModuleVar are populated for CommandRegister.
	RegisterName     string
	RegisterModuleVar Var

	// Action is populated for CommandAction and for any assert command
	// whose subject is an action (AssertReturn and its Nan variants,
	// AssertTrap, AssertExhaustion).
	Action *Action

	// ExpectedResults is populated for CommandAssertReturn.
	ExpectedResults []ConstValue

	// ExpectedMessage is populated for AssertTrap, AssertExhaustion, and
	// the four module-level asserts (the text the reference interpreter
	// would have produced; this core neither validates nor matches it).
	ExpectedMessage string

	Location Location
}

// Script is the fully composed top-level sequence of commands (§3
// "Script").
type Script struct {
	Commands []*Command

	// ModuleNameToCommandIndex binds a non-empty module name to the index
	// of the CommandModule that declared it (§4.7, §8 invariant #10).
	ModuleNameToCommandIndex map[string]int
}

// NewScript returns an empty Script ready for command-by-command assembly
// by the Script Composer (C11).
func NewScript() *Script {
	return &Script{ModuleNameToCommandIndex: map[string]int{}}
}
