package evm

import (
	"fmt"

	"github.com/XDagger/xdagj-sub001/core/state"
	"github.com/XDagger/xdagj-sub001/core/types"
	"github.com/XDagger/xdagj-sub001/crypto"
)

// messageCall holds the operands of a CALL-family instruction.
type messageCall struct {
	op        OpCode
	gas       uint64
	target    types.Address
	value     types.Word
	inOffset  types.Word
	inSize    types.Word
	outOffset types.Word
	outSize   types.Word
}

// verifyCall checks the depth limit and the sender balance. On failure the
// caller's stack receives zero.
func (evm *EVM) verifyCall(p *Program, sender types.Address, value types.Word) error {
	if p.invoke.Depth >= evm.spec.MaxCallDepth {
		p.stack.Push(types.ZeroWord)
		return fmt.Errorf("call depth %d reached", p.invoke.Depth)
	}
	if balance := p.repo.GetBalance(sender); balance.Lt(value) {
		p.stack.Push(types.ZeroWord)
		return fmt.Errorf("insufficient balance %s for transfer of %s", balance, value)
	}
	return nil
}

// runFrame plays a nested program and returns its result.
func (evm *EVM) runFrame(code *Code, invoke Invoke, repo state.Repository) *ProgramResult {
	child := NewProgram(code, invoke, repo, evm.spec.StackLimit)
	defer child.release()
	evm.Play(child)
	return child.Result()
}

// call performs a CALL, CALLCODE, DELEGATECALL or STATICCALL. The forwarded
// gas has already been charged to p.
func (evm *EVM) call(p *Program, msg messageCall) {
	p.returnData = nil
	sender := p.invoke.Owner

	if err := evm.verifyCall(p, sender, msg.value); err != nil {
		logger.Debug("Call revoked", "depth", p.invoke.Depth, "to", msg.target, "err", err)
		p.gas.Refund(msg.gas)
		return
	}

	context := msg.target
	if msg.op.callIsStateless() {
		context = sender
	}
	data := p.memory.Read(msg.inOffset.Uint64(), msg.inSize.Uint64())

	track := p.repo.StartTracking()
	state.Transfer(track, sender, context, msg.value)
	itx := p.addInternalTx(msg.op, sender, context, p.repo.GetNonce(sender), msg.value, data, msg.gas)
	logger.Debug("Message call", "op", msg.op, "depth", p.invoke.Depth, "from", sender, "to", context, "gas", msg.gas)

	var result *ProgramResult
	if contract, ok := evm.spec.Precompiles[msg.target]; ok {
		result = evm.runPrecompile(contract, data, msg.gas)
	} else if code := p.repo.GetCode(msg.target); len(code) > 0 {
		invoke := Invoke{
			Owner:    context,
			Origin:   p.invoke.Origin,
			Caller:   sender,
			Value:    msg.value,
			GasPrice: p.invoke.GasPrice,
			Data:     data,
			Gas:      msg.gas,
			Depth:    p.invoke.Depth + 1,
			Static:   msg.op == STATICCALL || p.invoke.Static,
		}
		if msg.op.callIsDelegate() {
			invoke.Caller = p.invoke.Caller
			invoke.Value = p.invoke.Value
		}
		codeObj := evm.config.Codes.GetWithHash(p.repo.GetCodeHash(msg.target), code)
		result = evm.runFrame(codeObj, invoke, track)
	} else {
		result = emptyResult(msg.gas)
	}

	if result.Failed() {
		logger.Debug("Call failed", "depth", p.invoke.Depth, "to", context, "reverted", result.Reverted, "err", result.Err)
		itx.Reject()
		result.rejectInternalTxs()
		track.Rollback()
		p.stack.Push(types.ZeroWord)
	} else {
		if err := track.Commit(); err != nil {
			logger.Error("Checkpoint commit failed", "err", err)
		}
		p.stack.Push(types.OneWord)
	}

	if len(result.ReturnData) > 0 {
		p.memory.WriteLimited(msg.outOffset.Uint64(), result.ReturnData, msg.outSize.Uint64())
	}
	if result.Err == nil {
		p.gas.Refund(result.GasLeft)
	}
	p.mergeChild(result)
	p.returnData = result.ReturnData
}

// CallContract runs the code of to as a top-level frame against repo. The
// value transfer is the caller's job. Precompiled contracts run natively.
func (evm *EVM) CallContract(repo state.Repository, to types.Address, invoke Invoke) *ProgramResult {
	if contract, ok := evm.spec.Precompiles[to]; ok {
		return evm.runPrecompile(contract, invoke.Data, invoke.Gas)
	}
	code := repo.GetCode(to)
	if len(code) == 0 {
		return emptyResult(invoke.Gas)
	}
	return evm.runFrame(evm.config.Codes.GetWithHash(repo.GetCodeHash(to), code), invoke, repo)
}

// CreateContract runs initCode as a top-level frame owned by addr and
// deposits the returned code on success.
func (evm *EVM) CreateContract(repo state.Repository, addr types.Address, initCode []byte, invoke Invoke) *ProgramResult {
	invoke.Owner = addr
	invoke.Data = nil
	result := emptyResult(invoke.Gas)
	if len(initCode) > 0 {
		result = evm.runFrame(NewCode(initCode), invoke, repo)
	}
	if !result.Failed() {
		evm.depositCode(repo, addr, result)
	}
	return result
}

// runPrecompile prices and runs a precompiled contract. Running short of
// gas consumes everything forwarded.
func (evm *EVM) runPrecompile(contract PrecompiledContract, data []byte, gas uint64) *ProgramResult {
	required := contract.RequiredGas(evm.spec.Fees, data)
	if required > gas {
		return exceptionResult(gas, &OutOfGasError{Cause: "precompiled contract", Cost: required, Available: gas})
	}
	result := emptyResult(gas)
	result.spendGas(required)
	out, err := contract.Run(data)
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrPrecompileFailure, err)
		return result
	}
	result.ReturnData = out
	return result
}

// create performs CREATE, or CREATE2 when salt is set. gas is the amount
// the new contract may use; it is charged here.
func (evm *EVM) create(p *Program, value, offset, size types.Word, salt *types.Word, gas uint64) {
	p.returnData = nil
	sender := p.invoke.Owner

	if err := evm.verifyCall(p, sender, value); err != nil {
		logger.Debug("Create revoked", "depth", p.invoke.Depth, "err", err)
		return
	}

	initCode := p.memory.Read(offset.Uint64(), size.Uint64())
	var addr types.Address
	if salt == nil {
		addr = crypto.CreateAddress(sender, p.repo.GetNonce(sender))
	} else {
		addr = crypto.CreateAddress2(sender, salt.Bytes32(), initCode)
	}
	op := CREATE
	if salt != nil {
		op = CREATE2
	}

	// Plain value transfers to the address do not count as a collision.
	exists := p.repo.GetNonce(addr) != 0 || len(p.repo.GetCode(addr)) > 0
	// Charged in full before the nested frame runs; cannot fail since gas
	// never exceeds the remaining amount.
	_ = p.gas.Spend(gas, op.String())
	p.repo.IncreaseNonce(sender)

	track := p.repo.StartTracking()
	track.IncreaseNonce(addr)
	state.Transfer(track, sender, addr, value)
	itx := p.addInternalTx(op, sender, types.EmptyAddress, p.repo.GetNonce(sender), value, initCode, gas)
	logger.Debug("Contract creation", "op", op, "depth", p.invoke.Depth, "from", sender, "addr", addr, "gas", gas)

	var result *ProgramResult
	if exists {
		result = exceptionResult(gas, fmt.Errorf("%w: %s", ErrAddressCollision, addr))
	} else {
		result = evm.CreateContract(track, addr, initCode, Invoke{
			Origin:   p.invoke.Origin,
			Caller:   sender,
			Value:    value,
			GasPrice: p.invoke.GasPrice,
			Gas:      gas,
			Depth:    p.invoke.Depth + 1,
		})
	}

	if result.Failed() {
		logger.Debug("Contract creation failed", "addr", addr, "reverted", result.Reverted, "err", result.Err)
		itx.Reject()
		result.rejectInternalTxs()
		track.Rollback()
		p.stack.Push(types.ZeroWord)
	} else {
		if err := track.Commit(); err != nil {
			logger.Error("Checkpoint commit failed", "err", err)
		}
		p.stack.Push(types.WordFromAddress(addr))
	}

	if result.Err == nil {
		p.gas.Refund(result.GasLeft)
	}
	p.mergeChild(result)
	if result.Reverted {
		p.returnData = result.ReturnData
	}
}

// depositCode stores the code returned by a successful init frame, charging
// CreateData per byte. A failure is recorded on result.
func (evm *EVM) depositCode(track state.Repository, addr types.Address, result *ProgramResult) {
	code := result.ReturnData
	cost := uint64(len(code)) * evm.spec.Fees.CreateData
	switch {
	case result.GasLeft < cost:
		if evm.spec.CreateEmptyContractOnOOG {
			track.SaveCode(addr, nil)
			return
		}
		result.ReturnData = nil
		result.Err = &OutOfGasError{Cause: "code deposit", Cost: cost, Available: result.GasLeft}
	case len(code) > evm.spec.MaxContractSize:
		result.ReturnData = nil
		result.Err = fmt.Errorf("%w: %d bytes", ErrCodeSizeLimit, len(code))
	default:
		result.spendGas(cost)
		track.SaveCode(addr, code)
	}
}

// suicide moves the owner's balance to beneficiary and schedules the owner
// for deletion at the end of the transaction.
func (evm *EVM) suicide(p *Program, beneficiary types.Address) {
	owner := p.invoke.Owner
	balance := p.repo.GetBalance(owner)
	p.addInternalTx(SUICIDE, owner, beneficiary, p.repo.GetNonce(owner), balance, nil, 0)
	logger.Debug("Contract suicide", "depth", p.invoke.Depth, "owner", owner, "beneficiary", beneficiary, "balance", balance)

	if owner == beneficiary {
		p.repo.SubBalance(owner, balance)
	} else {
		state.Transfer(p.repo, owner, beneficiary, balance)
	}
	p.result.addDeletedAccount(owner)
}
