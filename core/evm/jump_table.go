package evm

type (
	executionFunc func(evm *EVM, p *Program) error
	// gasFunc returns the full price of an instruction, replacing the
	// static tier price.
	gasFunc func(evm *EVM, p *Program) (uint64, error)
)

type operation struct {
	execute    executionFunc
	dynamicGas gasFunc
}

// JumpTable contains the operation for each opcode. A nil entry is an
// illegal instruction.
type JumpTable [256]*operation

// newJumpTable builds the instruction set enabled by spec.
func newJumpTable(spec *Spec) *JumpTable {
	jt := &JumpTable{
		STOP:       {execute: opStop},
		ADD:        {execute: opAdd},
		MUL:        {execute: opMul},
		SUB:        {execute: opSub},
		DIV:        {execute: opDiv},
		SDIV:       {execute: opSdiv},
		MOD:        {execute: opMod},
		SMOD:       {execute: opSmod},
		ADDMOD:     {execute: opAddmod},
		MULMOD:     {execute: opMulmod},
		EXP:        {execute: opExp, dynamicGas: gasExp},
		SIGNEXTEND: {execute: opSignExtend},

		LT:     {execute: opLt},
		GT:     {execute: opGt},
		SLT:    {execute: opSlt},
		SGT:    {execute: opSgt},
		EQ:     {execute: opEq},
		ISZERO: {execute: opIszero},
		AND:    {execute: opAnd},
		OR:     {execute: opOr},
		XOR:    {execute: opXor},
		NOT:    {execute: opNot},
		BYTE:   {execute: opByte},

		SHA3: {execute: opSha3, dynamicGas: gasSha3},

		ADDRESS:        {execute: opAddress},
		BALANCE:        {execute: opBalance, dynamicGas: gasBalance},
		ORIGIN:         {execute: opOrigin},
		CALLER:         {execute: opCaller},
		CALLVALUE:      {execute: opCallValue},
		CALLDATALOAD:   {execute: opCallDataLoad},
		CALLDATASIZE:   {execute: opCallDataSize},
		CALLDATACOPY:   {execute: opCallDataCopy, dynamicGas: gasCopy},
		CODESIZE:       {execute: opCodeSize},
		CODECOPY:       {execute: opCodeCopy, dynamicGas: gasCopy},
		GASPRICE:       {execute: opGasPrice},
		EXTCODESIZE:    {execute: opExtCodeSize, dynamicGas: gasExtCodeSize},
		EXTCODECOPY:    {execute: opExtCodeCopy, dynamicGas: gasExtCodeCopy},
		RETURNDATASIZE: {execute: opReturnDataSize},
		RETURNDATACOPY: {execute: opReturnDataCopy, dynamicGas: gasCopy},

		BLOCKHASH:  {execute: opBlockhash},
		COINBASE:   {execute: opCoinbase},
		TIMESTAMP:  {execute: opTimestamp},
		NUMBER:     {execute: opNumber},
		DIFFICULTY: {execute: opDifficulty},
		GASLIMIT:   {execute: opGasLimit},

		POP:      {execute: opPop},
		MLOAD:    {execute: opMload, dynamicGas: gasMemoryWord},
		MSTORE:   {execute: opMstore, dynamicGas: gasMemoryWord},
		MSTORE8:  {execute: opMstore8, dynamicGas: gasMstore8},
		SLOAD:    {execute: opSload, dynamicGas: gasSLoad},
		SSTORE:   {execute: opSstore, dynamicGas: gasSStoreLegacy},
		JUMP:     {execute: opJump},
		JUMPI:    {execute: opJumpi},
		PC:       {execute: opPc},
		MSIZE:    {execute: opMsize},
		GAS:      {execute: opGas},
		JUMPDEST: {execute: opJumpdest},

		CREATE:       {execute: opCreate, dynamicGas: gasCreate},
		CALL:         {execute: opCall, dynamicGas: gasCall},
		CALLCODE:     {execute: opCall, dynamicGas: gasCall},
		RETURN:       {execute: opReturn, dynamicGas: gasReturn},
		DELEGATECALL: {execute: opCall, dynamicGas: gasCall},
		STATICCALL:   {execute: opCall, dynamicGas: gasCall},
		REVERT:       {execute: opReturn, dynamicGas: gasReturn},
		SUICIDE:      {execute: opSuicide, dynamicGas: gasSuicide},
	}

	for i := 0; i < 32; i++ {
		jt[PUSH1+OpCode(i)] = &operation{execute: makePush(i + 1)}
	}
	for i := 0; i < 16; i++ {
		jt[DUP1+OpCode(i)] = &operation{execute: makeDup(i + 1)}
		jt[SWAP1+OpCode(i)] = &operation{execute: makeSwap(i + 1)}
	}
	for i := 0; i <= 4; i++ {
		jt[LOG0+OpCode(i)] = &operation{execute: makeLog(i), dynamicGas: gasLog}
	}

	if spec.EIP145 {
		jt[SHL] = &operation{execute: opSHL}
		jt[SHR] = &operation{execute: opSHR}
		jt[SAR] = &operation{execute: opSAR}
	}
	if spec.EIP1052 {
		jt[EXTCODEHASH] = &operation{execute: opExtCodeHash, dynamicGas: gasExtCodeHash}
	}
	if spec.EIP1014 {
		jt[CREATE2] = &operation{execute: opCreate2, dynamicGas: gasCreate2}
	}
	if spec.EIP1283 {
		jt[SSTORE] = &operation{execute: opSstore, dynamicGas: gasSStoreEIP1283}
	}
	return jt
}
