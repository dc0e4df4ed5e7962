package evm

import (
	"github.com/XDagger/xdagj-sub001/core/types"
	"github.com/XDagger/xdagj-sub001/crypto"
)

// === Arithmetic ===

func opStop(evm *EVM, p *Program) error {
	p.Stop()
	return nil
}

func opAdd(evm *EVM, p *Program) error {
	x, y := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(x.Add(y))
	return nil
}

func opMul(evm *EVM, p *Program) error {
	x, y := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(x.Mul(y))
	return nil
}

func opSub(evm *EVM, p *Program) error {
	x, y := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(x.Sub(y))
	return nil
}

func opDiv(evm *EVM, p *Program) error {
	x, y := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(x.Div(y))
	return nil
}

func opSdiv(evm *EVM, p *Program) error {
	x, y := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(x.SDiv(y))
	return nil
}

func opMod(evm *EVM, p *Program) error {
	x, y := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(x.Mod(y))
	return nil
}

func opSmod(evm *EVM, p *Program) error {
	x, y := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(x.SMod(y))
	return nil
}

func opAddmod(evm *EVM, p *Program) error {
	x, y, m := p.stack.Pop(), p.stack.Pop(), p.stack.Pop()
	p.stack.Push(x.AddMod(y, m))
	return nil
}

func opMulmod(evm *EVM, p *Program) error {
	x, y, m := p.stack.Pop(), p.stack.Pop(), p.stack.Pop()
	p.stack.Push(x.MulMod(y, m))
	return nil
}

func opExp(evm *EVM, p *Program) error {
	base, exponent := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(base.Exp(exponent))
	return nil
}

// opSignExtend leaves the value untouched for byte positions of 32 and up.
func opSignExtend(evm *EVM, p *Program) error {
	k, x := p.stack.Pop(), p.stack.Pop()
	if k.Lt(types.WordFromUint64(32)) {
		ext, err := x.SignExtend(k)
		if err != nil {
			return err
		}
		x = ext
	}
	p.stack.Push(x)
	return nil
}

// === Comparison and Bitwise ===

func opLt(evm *EVM, p *Program) error {
	x, y := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(types.WordFromBool(x.Lt(y)))
	return nil
}

func opGt(evm *EVM, p *Program) error {
	x, y := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(types.WordFromBool(x.Gt(y)))
	return nil
}

func opSlt(evm *EVM, p *Program) error {
	x, y := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(types.WordFromBool(x.Slt(y)))
	return nil
}

func opSgt(evm *EVM, p *Program) error {
	x, y := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(types.WordFromBool(x.Sgt(y)))
	return nil
}

func opEq(evm *EVM, p *Program) error {
	x, y := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(types.WordFromBool(x.Eq(y)))
	return nil
}

func opIszero(evm *EVM, p *Program) error {
	x := p.stack.Pop()
	p.stack.Push(types.WordFromBool(x.IsZero()))
	return nil
}

func opAnd(evm *EVM, p *Program) error {
	x, y := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(x.And(y))
	return nil
}

func opOr(evm *EVM, p *Program) error {
	x, y := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(x.Or(y))
	return nil
}

func opXor(evm *EVM, p *Program) error {
	x, y := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(x.Xor(y))
	return nil
}

func opNot(evm *EVM, p *Program) error {
	x := p.stack.Pop()
	p.stack.Push(x.Not())
	return nil
}

func opByte(evm *EVM, p *Program) error {
	i, x := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(x.Byte(i))
	return nil
}

func opSHL(evm *EVM, p *Program) error {
	shift, value := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(value.Shl(shift))
	return nil
}

func opSHR(evm *EVM, p *Program) error {
	shift, value := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(value.Shr(shift))
	return nil
}

func opSAR(evm *EVM, p *Program) error {
	shift, value := p.stack.Pop(), p.stack.Pop()
	p.stack.Push(value.Sar(shift))
	return nil
}

func opSha3(evm *EVM, p *Program) error {
	offset, size := p.stack.Pop(), p.stack.Pop()
	data := p.memory.Read(offset.Uint64(), size.Uint64())
	p.stack.Push(types.WordFromHash(crypto.Keccak256(data)))
	return nil
}

// === Environment ===

func opAddress(evm *EVM, p *Program) error {
	p.stack.Push(types.WordFromAddress(p.invoke.Owner))
	return nil
}

func opBalance(evm *EVM, p *Program) error {
	addr := p.stack.Pop().Address()
	p.stack.Push(p.repo.GetBalance(addr))
	return nil
}

func opOrigin(evm *EVM, p *Program) error {
	p.stack.Push(types.WordFromAddress(p.invoke.Origin))
	return nil
}

func opCaller(evm *EVM, p *Program) error {
	p.stack.Push(types.WordFromAddress(p.invoke.Caller))
	return nil
}

func opCallValue(evm *EVM, p *Program) error {
	p.stack.Push(p.invoke.Value)
	return nil
}

func opCallDataLoad(evm *EVM, p *Program) error {
	offset := p.stack.Pop()
	p.stack.Push(types.WordFromBytes(getData(p.invoke.Data, offset.Uint64Safe(), 32)))
	return nil
}

func opCallDataSize(evm *EVM, p *Program) error {
	p.stack.Push(types.WordFromUint64(uint64(len(p.invoke.Data))))
	return nil
}

func opCallDataCopy(evm *EVM, p *Program) error {
	memOffset, dataOffset, size := p.stack.Pop(), p.stack.Pop(), p.stack.Pop()
	if size.IsZero() {
		return nil
	}
	p.memory.Write(memOffset.Uint64(), getData(p.invoke.Data, dataOffset.Uint64Safe(), size.Uint64()))
	return nil
}

func opCodeSize(evm *EVM, p *Program) error {
	p.stack.Push(types.WordFromUint64(uint64(p.code.Len())))
	return nil
}

func opCodeCopy(evm *EVM, p *Program) error {
	memOffset, codeOffset, size := p.stack.Pop(), p.stack.Pop(), p.stack.Pop()
	if size.IsZero() {
		return nil
	}
	p.memory.Write(memOffset.Uint64(), p.code.GetData(codeOffset.Uint64Safe(), size.Uint64()))
	return nil
}

func opGasPrice(evm *EVM, p *Program) error {
	p.stack.Push(p.invoke.GasPrice)
	return nil
}

func opExtCodeSize(evm *EVM, p *Program) error {
	addr := p.stack.Pop().Address()
	p.stack.Push(types.WordFromUint64(uint64(len(p.repo.GetCode(addr)))))
	return nil
}

func opExtCodeCopy(evm *EVM, p *Program) error {
	addr := p.stack.Pop().Address()
	memOffset, codeOffset, size := p.stack.Pop(), p.stack.Pop(), p.stack.Pop()
	if size.IsZero() {
		return nil
	}
	code := p.repo.GetCode(addr)
	p.memory.Write(memOffset.Uint64(), getData(code, codeOffset.Uint64Safe(), size.Uint64()))
	return nil
}

// opExtCodeHash pushes the hash of the account code, treating a missing
// account as holding empty code.
func opExtCodeHash(evm *EVM, p *Program) error {
	addr := p.stack.Pop().Address()
	p.stack.Push(types.WordFromHash(crypto.Keccak256(p.repo.GetCode(addr))))
	return nil
}

func opReturnDataSize(evm *EVM, p *Program) error {
	p.stack.Push(types.WordFromUint64(uint64(len(p.returnData))))
	return nil
}

func opReturnDataCopy(evm *EVM, p *Program) error {
	memOffset, dataOffset, size := p.stack.Pop(), p.stack.Pop(), p.stack.Pop()
	if !dataOffset.IsUint64() {
		return ErrReturnDataOutOfBounds
	}
	off, sz := dataOffset.Uint64(), size.Uint64()
	end := off + sz
	if end < off || end > uint64(len(p.returnData)) {
		return ErrReturnDataOutOfBounds
	}
	p.memory.Write(memOffset.Uint64(), p.returnData[off:end])
	return nil
}

// === Block ===

// opBlockhash yields the hash of one of the 256 most recent blocks, or zero.
func opBlockhash(evm *EVM, p *Program) error {
	num := p.stack.Pop()
	current := evm.block.Number
	lower := uint64(0)
	if current > 256 {
		lower = current - 256
	}
	if !num.IsUint64() || num.Uint64() >= current || num.Uint64() < lower || evm.blocks == nil {
		p.stack.Push(types.ZeroWord)
		return nil
	}
	p.stack.Push(types.WordFromHash(evm.blocks.GetBlockHashByNumber(num.Uint64())))
	return nil
}

func opCoinbase(evm *EVM, p *Program) error {
	p.stack.Push(types.WordFromAddress(evm.block.Coinbase))
	return nil
}

func opTimestamp(evm *EVM, p *Program) error {
	p.stack.Push(types.WordFromUint64(evm.block.Timestamp))
	return nil
}

func opNumber(evm *EVM, p *Program) error {
	p.stack.Push(types.WordFromUint64(evm.block.Number))
	return nil
}

func opDifficulty(evm *EVM, p *Program) error {
	p.stack.Push(evm.block.Difficulty)
	return nil
}

func opGasLimit(evm *EVM, p *Program) error {
	p.stack.Push(types.WordFromUint64(evm.block.GasLimit))
	return nil
}

// === Stack, Memory, Storage and Flow ===

func opPop(evm *EVM, p *Program) error {
	p.stack.Pop()
	return nil
}

func opMload(evm *EVM, p *Program) error {
	offset := p.stack.Pop()
	p.stack.Push(p.memory.ReadWord(offset.Uint64()))
	return nil
}

func opMstore(evm *EVM, p *Program) error {
	offset, value := p.stack.Pop(), p.stack.Pop()
	p.memory.WriteWord(offset.Uint64(), value)
	return nil
}

func opMstore8(evm *EVM, p *Program) error {
	offset, value := p.stack.Pop(), p.stack.Pop()
	p.memory.WriteByte(offset.Uint64(), byte(value.Uint64()))
	return nil
}

func opSload(evm *EVM, p *Program) error {
	key := p.stack.Pop()
	p.stack.Push(p.repo.GetStorageRow(p.invoke.Owner, key))
	return nil
}

func opSstore(evm *EVM, p *Program) error {
	key, value := p.stack.Pop(), p.stack.Pop()
	p.repo.PutStorageRow(p.invoke.Owner, key, value)
	return nil
}

func opJump(evm *EVM, p *Program) error {
	dest, err := p.verifyJumpDest(p.stack.Pop())
	if err != nil {
		return err
	}
	p.pc = dest
	return nil
}

func opJumpi(evm *EVM, p *Program) error {
	pos, cond := p.stack.Pop(), p.stack.Pop()
	if cond.IsZero() {
		p.pc++
		return nil
	}
	dest, err := p.verifyJumpDest(pos)
	if err != nil {
		return err
	}
	p.pc = dest
	return nil
}

func opPc(evm *EVM, p *Program) error {
	p.stack.Push(types.WordFromUint64(p.pc))
	return nil
}

func opMsize(evm *EVM, p *Program) error {
	p.stack.Push(types.WordFromUint64(uint64(p.memory.Len())))
	return nil
}

func opGas(evm *EVM, p *Program) error {
	p.stack.Push(types.WordFromUint64(p.gas.Remaining()))
	return nil
}

func opJumpdest(evm *EVM, p *Program) error {
	return nil
}

// makePush returns the PUSHn operation. The dispatcher advances past the
// opcode byte; the immediate is skipped here.
func makePush(size int) executionFunc {
	return func(evm *EVM, p *Program) error {
		p.stack.Push(types.WordFromBytes(p.code.GetData(p.pc+1, uint64(size))))
		p.pc += uint64(size)
		return nil
	}
}

func makeDup(n int) executionFunc {
	return func(evm *EVM, p *Program) error {
		p.stack.Dup(n)
		return nil
	}
}

func makeSwap(n int) executionFunc {
	return func(evm *EVM, p *Program) error {
		p.stack.Swap(n)
		return nil
	}
}

func makeLog(topics int) executionFunc {
	return func(evm *EVM, p *Program) error {
		offset, size := p.stack.Pop(), p.stack.Pop()
		t := make([]types.Word, topics)
		for i := range t {
			t[i] = p.stack.Pop()
		}
		data := p.memory.Read(offset.Uint64(), size.Uint64())
		p.addLog(types.NewLog(p.invoke.Owner, t, data))
		return nil
	}
}

// === System ===

func opReturn(evm *EVM, p *Program) error {
	offset, size := p.stack.Pop(), p.stack.Pop()
	data := p.memory.Read(offset.Uint64(), size.Uint64())
	p.setReturn(data, p.code.GetOp(p.pc) == REVERT)
	p.Stop()
	return nil
}

func opCreate(evm *EVM, p *Program) error {
	value, offset, size := p.stack.Pop(), p.stack.Pop(), p.stack.Pop()
	gas := evm.spec.CreateGas.MaxAllowed(p.gas.Remaining())
	evm.create(p, value, offset, size, nil, gas)
	return nil
}

func opCreate2(evm *EVM, p *Program) error {
	value, offset, size, salt := p.stack.Pop(), p.stack.Pop(), p.stack.Pop(), p.stack.Pop()
	gas := evm.spec.CreateGas.MaxAllowed(p.gas.Remaining())
	evm.create(p, value, offset, size, &salt, gas)
	return nil
}

func opCall(evm *EVM, p *Program) error {
	op := p.code.GetOp(p.pc)
	p.stack.Pop() // requested gas, already resolved by gasCall
	target := p.stack.Pop().Address()
	value := types.ZeroWord
	if op.CallHasValue() {
		value = p.stack.Pop()
	}
	if p.invoke.Static && op == CALL && !value.IsZero() {
		return ErrStaticCallViolation
	}
	gas := evm.callGasTemp
	if !value.IsZero() {
		gas += evm.spec.Fees.CallStipend
	}
	msg := messageCall{
		op:        op,
		gas:       gas,
		target:    target,
		value:     value,
		inOffset:  p.stack.Pop(),
		inSize:    p.stack.Pop(),
		outOffset: p.stack.Pop(),
		outSize:   p.stack.Pop(),
	}
	if !msg.outSize.IsZero() {
		p.memory.Extend(msg.outOffset.Uint64(), msg.outSize.Uint64())
	}
	evm.call(p, msg)
	return nil
}

func opSuicide(evm *EVM, p *Program) error {
	beneficiary := p.stack.Pop().Address()
	evm.suicide(p, beneficiary)
	p.Stop()
	return nil
}
