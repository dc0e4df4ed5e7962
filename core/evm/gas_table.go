package evm

import (
	"github.com/XDagger/xdagj-sub001/core/types"
	"github.com/ethereum/go-ethereum/common/math"
)

// memoryCopierGas returns the price of touching [offset, offset+size) and
// copying words(copySize) words.
func memoryCopierGas(fs *FeeSchedule, mem *Memory, offset, size, copySize types.Word) (uint64, error) {
	needed, err := memoryNeeded(offset, size)
	if err != nil {
		return 0, err
	}
	gas, err := memoryGasCost(fs, mem, needed)
	if err != nil {
		return 0, err
	}
	if copySize.IsZero() {
		return gas, nil
	}
	if !copySize.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	words, overflow := math.SafeMul(toWordSize(copySize.Uint64()), fs.Copy)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	if gas, overflow = math.SafeAdd(gas, words); overflow {
		return 0, ErrGasUintOverflow
	}
	return gas, nil
}

func addGas(base uint64, extra uint64, err error) (uint64, error) {
	if err != nil {
		return 0, err
	}
	total, overflow := math.SafeAdd(base, extra)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	return total, nil
}

func gasMemoryWord(evm *EVM, p *Program) (uint64, error) {
	fs := evm.spec.Fees
	gas, err := memoryCopierGas(fs, p.memory, p.stack.Back(0), types.WordFromUint64(32), types.ZeroWord)
	return addGas(fs.TierCost(VeryLowTier), gas, err)
}

func gasMstore8(evm *EVM, p *Program) (uint64, error) {
	fs := evm.spec.Fees
	gas, err := memoryCopierGas(fs, p.memory, p.stack.Back(0), types.OneWord, types.ZeroWord)
	return addGas(fs.TierCost(VeryLowTier), gas, err)
}

func gasReturn(evm *EVM, p *Program) (uint64, error) {
	fs := evm.spec.Fees
	gas, err := memoryCopierGas(fs, p.memory, p.stack.Back(0), p.stack.Back(1), types.ZeroWord)
	return addGas(fs.TierCost(ZeroTier), gas, err)
}

func gasSha3(evm *EVM, p *Program) (uint64, error) {
	fs := evm.spec.Fees
	gas, err := memoryCopierGas(fs, p.memory, p.stack.Back(0), p.stack.Back(1), types.ZeroWord)
	if err != nil {
		return 0, err
	}
	words, overflow := math.SafeMul(toWordSize(p.stack.Back(1).Uint64()), fs.SHA3Word)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	return addGas(fs.SHA3+gas, words, nil)
}

// gasCopy prices CALLDATACOPY, CODECOPY and RETURNDATACOPY.
func gasCopy(evm *EVM, p *Program) (uint64, error) {
	fs := evm.spec.Fees
	size := p.stack.Back(2)
	gas, err := memoryCopierGas(fs, p.memory, p.stack.Back(0), size, size)
	return addGas(fs.TierCost(VeryLowTier), gas, err)
}

func gasExtCodeCopy(evm *EVM, p *Program) (uint64, error) {
	fs := evm.spec.Fees
	size := p.stack.Back(3)
	gas, err := memoryCopierGas(fs, p.memory, p.stack.Back(1), size, size)
	return addGas(fs.ExtCodeCopy, gas, err)
}

func gasBalance(evm *EVM, p *Program) (uint64, error) {
	return evm.spec.Fees.Balance, nil
}

func gasSLoad(evm *EVM, p *Program) (uint64, error) {
	return evm.spec.Fees.SLoad, nil
}

func gasExtCodeSize(evm *EVM, p *Program) (uint64, error) {
	return evm.spec.Fees.ExtCodeSize, nil
}

func gasExtCodeHash(evm *EVM, p *Program) (uint64, error) {
	return evm.spec.Fees.ExtCodeHash, nil
}

func gasExp(evm *EVM, p *Program) (uint64, error) {
	fs := evm.spec.Fees
	return fs.Exp + fs.ExpByte*uint64(p.stack.Back(1).BytesOccupied()), nil
}

// gasLog rejects data that could never be paid for before pricing memory.
func gasLog(evm *EVM, p *Program) (uint64, error) {
	fs := evm.spec.Fees
	op := p.code.GetOp(p.pc)
	size := p.stack.Back(1)
	if !size.IsUint64() || size.Uint64() > p.gas.Remaining()/fs.LogData {
		return 0, &OutOfGasError{Cause: op.String() + " data", Cost: size.Uint64Safe(), Available: p.gas.Remaining()}
	}
	gas, err := memoryCopierGas(fs, p.memory, p.stack.Back(0), size, types.ZeroWord)
	if err != nil {
		return 0, err
	}
	cost := fs.Log + fs.LogTopic*uint64(op.LogTopics()) + fs.LogData*size.Uint64()
	return addGas(cost, gas, nil)
}

func gasCreate(evm *EVM, p *Program) (uint64, error) {
	fs := evm.spec.Fees
	gas, err := memoryCopierGas(fs, p.memory, p.stack.Back(1), p.stack.Back(2), types.ZeroWord)
	return addGas(fs.Create, gas, err)
}

// gasCreate2 also charges for hashing the init code.
func gasCreate2(evm *EVM, p *Program) (uint64, error) {
	fs := evm.spec.Fees
	size := p.stack.Back(2)
	gas, err := memoryCopierGas(fs, p.memory, p.stack.Back(1), size, types.ZeroWord)
	if err != nil {
		return 0, err
	}
	words, overflow := math.SafeMul(toWordSize(size.Uint64()), fs.SHA3Word)
	if overflow {
		return 0, ErrGasUintOverflow
	}
	return addGas(fs.Create+gas, words, nil)
}

// gasSuicide adds the new-account surcharge when a non-empty balance is
// sent to an account that does not exist yet.
func gasSuicide(evm *EVM, p *Program) (uint64, error) {
	fs := evm.spec.Fees
	gas := fs.Suicide
	if evm.isDeadAccount(p, p.stack.Back(0).Address()) && !p.repo.GetBalance(p.invoke.Owner).IsZero() {
		gas += fs.NewAcctSuicide
	}
	return gas, nil
}

// gasCall prices a call and resolves the gas forwarded to the callee, which
// is stored in evm.callGasTemp for the execution step.
func gasCall(evm *EVM, p *Program) (uint64, error) {
	fs := evm.spec.Fees
	op := p.code.GetOp(p.pc)
	st := p.stack

	value := types.ZeroWord
	argOff := 2
	if op.CallHasValue() {
		value = st.Back(2)
		argOff = 3
	}

	gas := fs.Call
	if op == CALL && !value.IsZero() && evm.isDeadAccount(p, st.Back(1).Address()) {
		gas += fs.NewAcctCall
	}
	if !value.IsZero() {
		gas += fs.CallValue
	}

	in, err := memoryNeeded(st.Back(argOff), st.Back(argOff+1))
	if err != nil {
		return 0, err
	}
	out, err := memoryNeeded(st.Back(argOff+2), st.Back(argOff+3))
	if err != nil {
		return 0, err
	}
	if out > in {
		in = out
	}
	memGas, err := memoryGasCost(fs, p.memory, in)
	if gas, err = addGas(gas, memGas, err); err != nil {
		return 0, err
	}

	available := p.gas.Remaining()
	if gas > available {
		return 0, &OutOfGasError{Cause: op.String(), Cost: gas, Available: available}
	}
	evm.callGasTemp = evm.spec.CallGas.CallGas(st.Back(0).Uint64Safe(), available-gas)
	return gas + evm.callGasTemp, nil
}

// gasSStoreLegacy prices a storage write by the zero-ness of the current
// and new values alone.
func gasSStoreLegacy(evm *EVM, p *Program) (uint64, error) {
	fs := evm.spec.Fees
	current := p.repo.GetStorageRow(p.invoke.Owner, p.stack.Back(0))
	value := p.stack.Back(1)
	switch {
	case current.IsZero() && !value.IsZero():
		return fs.SStoreSet, nil
	case !current.IsZero() && value.IsZero():
		p.gas.AddFutureRefund(int64(fs.SStoreRefund))
		return fs.SStoreClear, nil
	default:
		return fs.SStoreReset, nil
	}
}

// gasSStoreEIP1283 prices a storage write against the value the slot held
// when the transaction started.
//
//  1. current == new: noop.
//  2. current == original (clean slot): init when original is zero,
//     otherwise clean; clearing the slot earns the clear refund.
//  3. otherwise (dirty slot): dirty, and the clear and reset refunds are
//     rebalanced against the original value.
func gasSStoreEIP1283(evm *EVM, p *Program) (uint64, error) {
	fs := evm.spec.Fees
	owner, key := p.invoke.Owner, p.stack.Back(0)
	current := p.repo.GetStorageRow(owner, key)
	value := p.stack.Back(1)

	if current == value {
		return fs.SStoreNoop, nil
	}
	original := evm.originalValue(owner, key, current)
	if original == current {
		if original.IsZero() {
			return fs.SStoreInit, nil
		}
		if value.IsZero() {
			p.gas.AddFutureRefund(int64(fs.SStoreClearRefund))
		}
		return fs.SStoreClean, nil
	}
	if !original.IsZero() {
		if current.IsZero() {
			p.gas.AddFutureRefund(-int64(fs.SStoreClearRefund))
		} else if value.IsZero() {
			p.gas.AddFutureRefund(int64(fs.SStoreClearRefund))
		}
	}
	if original == value {
		if original.IsZero() {
			p.gas.AddFutureRefund(int64(fs.SStoreResetClearRefund))
		} else {
			p.gas.AddFutureRefund(int64(fs.SStoreResetRefund))
		}
	}
	return fs.SStoreDirty, nil
}
