// Package evm implements the bytecode execution engine: the stack machine,
// its gas accounting, nested calls and contract creation.
package evm

import "fmt"

// OpCode represents an instruction byte.
type OpCode byte

// === Stop and Arithmetic Operations (0x00 - 0x0b) ===
const (
	STOP       OpCode = 0x00
	ADD        OpCode = 0x01
	MUL        OpCode = 0x02
	SUB        OpCode = 0x03
	DIV        OpCode = 0x04
	SDIV       OpCode = 0x05
	MOD        OpCode = 0x06
	SMOD       OpCode = 0x07
	ADDMOD     OpCode = 0x08
	MULMOD     OpCode = 0x09
	EXP        OpCode = 0x0a
	SIGNEXTEND OpCode = 0x0b
)

// === Comparison and Bitwise Logic Operations (0x10 - 0x1d) ===
const (
	LT     OpCode = 0x10
	GT     OpCode = 0x11
	SLT    OpCode = 0x12
	SGT    OpCode = 0x13
	EQ     OpCode = 0x14
	ISZERO OpCode = 0x15
	AND    OpCode = 0x16
	OR     OpCode = 0x17
	XOR    OpCode = 0x18
	NOT    OpCode = 0x19
	BYTE   OpCode = 0x1a
	SHL    OpCode = 0x1b // EIP-145
	SHR    OpCode = 0x1c // EIP-145
	SAR    OpCode = 0x1d // EIP-145
)

// === SHA3 (0x20) ===
const (
	SHA3 OpCode = 0x20
)

// === Environmental Information (0x30 - 0x3f) ===
const (
	ADDRESS        OpCode = 0x30
	BALANCE        OpCode = 0x31
	ORIGIN         OpCode = 0x32
	CALLER         OpCode = 0x33
	CALLVALUE      OpCode = 0x34
	CALLDATALOAD   OpCode = 0x35
	CALLDATASIZE   OpCode = 0x36
	CALLDATACOPY   OpCode = 0x37
	CODESIZE       OpCode = 0x38
	CODECOPY       OpCode = 0x39
	GASPRICE       OpCode = 0x3a
	EXTCODESIZE    OpCode = 0x3b
	EXTCODECOPY    OpCode = 0x3c
	RETURNDATASIZE OpCode = 0x3d
	RETURNDATACOPY OpCode = 0x3e
	EXTCODEHASH    OpCode = 0x3f // EIP-1052
)

// === Block Information (0x40 - 0x45) ===
const (
	BLOCKHASH  OpCode = 0x40
	COINBASE   OpCode = 0x41
	TIMESTAMP  OpCode = 0x42
	NUMBER     OpCode = 0x43
	DIFFICULTY OpCode = 0x44
	GASLIMIT   OpCode = 0x45
)

// === Stack, Memory, Storage and Flow Operations (0x50 - 0x5b) ===
const (
	POP      OpCode = 0x50
	MLOAD    OpCode = 0x51
	MSTORE   OpCode = 0x52
	MSTORE8  OpCode = 0x53
	SLOAD    OpCode = 0x54
	SSTORE   OpCode = 0x55
	JUMP     OpCode = 0x56
	JUMPI    OpCode = 0x57
	PC       OpCode = 0x58
	MSIZE    OpCode = 0x59
	GAS      OpCode = 0x5a
	JUMPDEST OpCode = 0x5b
)

// === Push Operations (0x60 - 0x7f) ===
const (
	PUSH1 OpCode = 0x60 + iota
	PUSH2
	PUSH3
	PUSH4
	PUSH5
	PUSH6
	PUSH7
	PUSH8
	PUSH9
	PUSH10
	PUSH11
	PUSH12
	PUSH13
	PUSH14
	PUSH15
	PUSH16
	PUSH17
	PUSH18
	PUSH19
	PUSH20
	PUSH21
	PUSH22
	PUSH23
	PUSH24
	PUSH25
	PUSH26
	PUSH27
	PUSH28
	PUSH29
	PUSH30
	PUSH31
	PUSH32
)

// === Duplication Operations (0x80 - 0x8f) ===
const (
	DUP1 OpCode = 0x80 + iota
	DUP2
	DUP3
	DUP4
	DUP5
	DUP6
	DUP7
	DUP8
	DUP9
	DUP10
	DUP11
	DUP12
	DUP13
	DUP14
	DUP15
	DUP16
)

// === Exchange Operations (0x90 - 0x9f) ===
const (
	SWAP1 OpCode = 0x90 + iota
	SWAP2
	SWAP3
	SWAP4
	SWAP5
	SWAP6
	SWAP7
	SWAP8
	SWAP9
	SWAP10
	SWAP11
	SWAP12
	SWAP13
	SWAP14
	SWAP15
	SWAP16
)

// === Logging Operations (0xa0 - 0xa4) ===
const (
	LOG0 OpCode = 0xa0 + iota
	LOG1
	LOG2
	LOG3
	LOG4
)

// === System Operations (0xf0 - 0xff) ===
const (
	CREATE       OpCode = 0xf0
	CALL         OpCode = 0xf1
	CALLCODE     OpCode = 0xf2
	RETURN       OpCode = 0xf3
	DELEGATECALL OpCode = 0xf4
	CREATE2      OpCode = 0xf5 // EIP-1014
	STATICCALL   OpCode = 0xfa
	REVERT       OpCode = 0xfd
	INVALID      OpCode = 0xfe
	SUICIDE      OpCode = 0xff
)

// String returns the opcode mnemonic, or its hex value when undefined.
func (op OpCode) String() string {
	if info := OpTable[op]; info.Valid {
		return info.Name
	}
	return fmt.Sprintf("0x%02x", byte(op))
}

// IsPush reports whether the opcode is PUSH1..PUSH32.
func (op OpCode) IsPush() bool {
	return op >= PUSH1 && op <= PUSH32
}

// PushBytes returns the immediate width of a PUSH opcode.
func (op OpCode) PushBytes() int {
	if op.IsPush() {
		return int(op-PUSH1) + 1
	}
	return 0
}

// IsDup reports whether the opcode is DUP1..DUP16.
func (op OpCode) IsDup() bool {
	return op >= DUP1 && op <= DUP16
}

// DupPosition returns the 1-based stack position copied by a DUP opcode.
func (op OpCode) DupPosition() int {
	if op.IsDup() {
		return int(op-DUP1) + 1
	}
	return 0
}

// IsSwap reports whether the opcode is SWAP1..SWAP16.
func (op OpCode) IsSwap() bool {
	return op >= SWAP1 && op <= SWAP16
}

// SwapPosition returns the stack position exchanged with the top.
func (op OpCode) SwapPosition() int {
	if op.IsSwap() {
		return int(op-SWAP1) + 1
	}
	return 0
}

// IsLog reports whether the opcode is LOG0..LOG4.
func (op OpCode) IsLog() bool {
	return op >= LOG0 && op <= LOG4
}

// LogTopics returns the number of topics a LOG opcode takes.
func (op OpCode) LogTopics() int {
	if op.IsLog() {
		return int(op - LOG0)
	}
	return 0
}

// IsCall reports whether the opcode performs a message call.
func (op OpCode) IsCall() bool {
	return op == CALL || op == CALLCODE || op == DELEGATECALL || op == STATICCALL
}

// IsCreate reports whether the opcode creates a contract.
func (op OpCode) IsCreate() bool {
	return op == CREATE || op == CREATE2
}

// CallHasValue reports whether the call opcode takes a value operand.
func (op OpCode) CallHasValue() bool {
	return op == CALL || op == CALLCODE
}

// callIsStateless reports whether the callee runs in the caller's context.
func (op OpCode) callIsStateless() bool {
	return op == CALLCODE || op == DELEGATECALL
}

// callIsDelegate reports whether caller and value pass through unchanged.
func (op OpCode) callIsDelegate() bool {
	return op == DELEGATECALL
}

// OpCodeByName looks up an opcode by mnemonic.
func OpCodeByName(name string) (OpCode, bool) {
	op, ok := opCodesByName[name]
	return op, ok
}

// === Opcode Metadata ===

// Tier is the static price class of an opcode.
type Tier uint8

const (
	ZeroTier Tier = iota
	BaseTier
	VeryLowTier
	LowTier
	MidTier
	HighTier
	ExtTier
	SpecialTier
)

// OpInfo contains metadata about an opcode.
type OpInfo struct {
	Name      string
	StackPop  int // items required on the stack
	StackPush int // items left on the stack
	Tier      Tier
	Valid     bool
	Jumps     bool // sets the program counter
	Writes    bool // forbidden in a static frame
}

// OpTable maps opcodes to their metadata.
var OpTable = [256]OpInfo{
	STOP:       {"STOP", 0, 0, ZeroTier, true, false, false},
	ADD:        {"ADD", 2, 1, VeryLowTier, true, false, false},
	MUL:        {"MUL", 2, 1, LowTier, true, false, false},
	SUB:        {"SUB", 2, 1, VeryLowTier, true, false, false},
	DIV:        {"DIV", 2, 1, LowTier, true, false, false},
	SDIV:       {"SDIV", 2, 1, LowTier, true, false, false},
	MOD:        {"MOD", 2, 1, LowTier, true, false, false},
	SMOD:       {"SMOD", 2, 1, LowTier, true, false, false},
	ADDMOD:     {"ADDMOD", 3, 1, MidTier, true, false, false},
	MULMOD:     {"MULMOD", 3, 1, MidTier, true, false, false},
	EXP:        {"EXP", 2, 1, SpecialTier, true, false, false},
	SIGNEXTEND: {"SIGNEXTEND", 2, 1, LowTier, true, false, false},

	LT:     {"LT", 2, 1, VeryLowTier, true, false, false},
	GT:     {"GT", 2, 1, VeryLowTier, true, false, false},
	SLT:    {"SLT", 2, 1, VeryLowTier, true, false, false},
	SGT:    {"SGT", 2, 1, VeryLowTier, true, false, false},
	EQ:     {"EQ", 2, 1, VeryLowTier, true, false, false},
	ISZERO: {"ISZERO", 1, 1, VeryLowTier, true, false, false},
	AND:    {"AND", 2, 1, VeryLowTier, true, false, false},
	OR:     {"OR", 2, 1, VeryLowTier, true, false, false},
	XOR:    {"XOR", 2, 1, VeryLowTier, true, false, false},
	NOT:    {"NOT", 1, 1, VeryLowTier, true, false, false},
	BYTE:   {"BYTE", 2, 1, VeryLowTier, true, false, false},
	SHL:    {"SHL", 2, 1, VeryLowTier, true, false, false},
	SHR:    {"SHR", 2, 1, VeryLowTier, true, false, false},
	SAR:    {"SAR", 2, 1, VeryLowTier, true, false, false},

	SHA3: {"SHA3", 2, 1, SpecialTier, true, false, false},

	ADDRESS:        {"ADDRESS", 0, 1, BaseTier, true, false, false},
	BALANCE:        {"BALANCE", 1, 1, ExtTier, true, false, false},
	ORIGIN:         {"ORIGIN", 0, 1, BaseTier, true, false, false},
	CALLER:         {"CALLER", 0, 1, BaseTier, true, false, false},
	CALLVALUE:      {"CALLVALUE", 0, 1, BaseTier, true, false, false},
	CALLDATALOAD:   {"CALLDATALOAD", 1, 1, VeryLowTier, true, false, false},
	CALLDATASIZE:   {"CALLDATASIZE", 0, 1, BaseTier, true, false, false},
	CALLDATACOPY:   {"CALLDATACOPY", 3, 0, VeryLowTier, true, false, false},
	CODESIZE:       {"CODESIZE", 0, 1, BaseTier, true, false, false},
	CODECOPY:       {"CODECOPY", 3, 0, VeryLowTier, true, false, false},
	GASPRICE:       {"GASPRICE", 0, 1, BaseTier, true, false, false},
	EXTCODESIZE:    {"EXTCODESIZE", 1, 1, ExtTier, true, false, false},
	EXTCODECOPY:    {"EXTCODECOPY", 4, 0, ExtTier, true, false, false},
	RETURNDATASIZE: {"RETURNDATASIZE", 0, 1, BaseTier, true, false, false},
	RETURNDATACOPY: {"RETURNDATACOPY", 3, 0, VeryLowTier, true, false, false},
	EXTCODEHASH:    {"EXTCODEHASH", 1, 1, ExtTier, true, false, false},

	BLOCKHASH:  {"BLOCKHASH", 1, 1, ExtTier, true, false, false},
	COINBASE:   {"COINBASE", 0, 1, BaseTier, true, false, false},
	TIMESTAMP:  {"TIMESTAMP", 0, 1, BaseTier, true, false, false},
	NUMBER:     {"NUMBER", 0, 1, BaseTier, true, false, false},
	DIFFICULTY: {"DIFFICULTY", 0, 1, BaseTier, true, false, false},
	GASLIMIT:   {"GASLIMIT", 0, 1, BaseTier, true, false, false},

	POP:      {"POP", 1, 0, BaseTier, true, false, false},
	MLOAD:    {"MLOAD", 1, 1, VeryLowTier, true, false, false},
	MSTORE:   {"MSTORE", 2, 0, VeryLowTier, true, false, false},
	MSTORE8:  {"MSTORE8", 2, 0, VeryLowTier, true, false, false},
	SLOAD:    {"SLOAD", 1, 1, SpecialTier, true, false, false},
	SSTORE:   {"SSTORE", 2, 0, SpecialTier, true, false, true},
	JUMP:     {"JUMP", 1, 0, MidTier, true, true, false},
	JUMPI:    {"JUMPI", 2, 0, HighTier, true, true, false},
	PC:       {"PC", 0, 1, BaseTier, true, false, false},
	MSIZE:    {"MSIZE", 0, 1, BaseTier, true, false, false},
	GAS:      {"GAS", 0, 1, BaseTier, true, false, false},
	JUMPDEST: {"JUMPDEST", 0, 0, SpecialTier, true, false, false},

	CREATE:       {"CREATE", 3, 1, SpecialTier, true, false, true},
	CALL:         {"CALL", 7, 1, SpecialTier, true, false, false},
	CALLCODE:     {"CALLCODE", 7, 1, SpecialTier, true, false, false},
	RETURN:       {"RETURN", 2, 0, ZeroTier, true, false, false},
	DELEGATECALL: {"DELEGATECALL", 6, 1, SpecialTier, true, false, false},
	CREATE2:      {"CREATE2", 4, 1, SpecialTier, true, false, true},
	STATICCALL:   {"STATICCALL", 6, 1, SpecialTier, true, false, false},
	REVERT:       {"REVERT", 2, 0, ZeroTier, true, false, false},
	INVALID:      {"INVALID", 0, 0, ZeroTier, true, false, false},
	SUICIDE:      {"SUICIDE", 1, 0, SpecialTier, true, false, true},
}

var opCodesByName = make(map[string]OpCode)

func init() {
	for i := 0; i < 32; i++ {
		OpTable[PUSH1+OpCode(i)] = OpInfo{fmt.Sprintf("PUSH%d", i+1), 0, 1, VeryLowTier, true, false, false}
	}
	for i := 0; i < 16; i++ {
		OpTable[DUP1+OpCode(i)] = OpInfo{fmt.Sprintf("DUP%d", i+1), i + 1, i + 2, VeryLowTier, true, false, false}
		OpTable[SWAP1+OpCode(i)] = OpInfo{fmt.Sprintf("SWAP%d", i+1), i + 2, i + 2, VeryLowTier, true, false, false}
	}
	for i := 0; i <= 4; i++ {
		OpTable[LOG0+OpCode(i)] = OpInfo{fmt.Sprintf("LOG%d", i), i + 2, 0, SpecialTier, true, false, true}
	}
	for i, info := range OpTable {
		if info.Valid {
			opCodesByName[info.Name] = OpCode(i)
		}
	}
	opCodesByName["KECCAK256"] = SHA3
	opCodesByName["SELFDESTRUCT"] = SUICIDE
	opCodesByName["PREVRANDAO"] = DIFFICULTY
}
