package evm

import (
	"github.com/XDagger/xdagj-sub001/core/state"
	"github.com/XDagger/xdagj-sub001/core/types"
	"github.com/ethereum/go-ethereum/log"
)

var logger = log.New("module", "vm")

// Config contains optional engine settings.
type Config struct {
	// Tracer observes every step when set.
	Tracer Tracer

	// Codes caches jump destination analyses across engines. A nil cache
	// analyzes code on every frame.
	Codes *CodeCache
}

// Context carries what the engine reads from outside the repository.
type Context struct {
	Block  types.BlockContext
	Blocks state.BlockStore

	// Original is the repository as it was before the transaction started.
	// Net-gas storage metering reads original slot values from it.
	Original state.Repository
}

type storageSlot struct {
	addr types.Address
	key  types.Word
}

// EVM drives programs one instruction at a time. An EVM serves a single
// transaction and is not safe for concurrent use.
type EVM struct {
	spec   *Spec
	table  *JumpTable
	block  types.BlockContext
	blocks state.BlockStore
	config Config

	original  state.Repository
	originals map[storageSlot]types.Word

	// callGasTemp is the gas a call forwards, resolved while pricing it.
	callGasTemp uint64
}

// NewEVM creates an engine for spec. A nil spec selects Constantinople.
func NewEVM(spec *Spec, ctx Context, config *Config) *EVM {
	if spec == nil {
		spec = Constantinople()
	}
	evm := &EVM{
		spec:      spec,
		table:     newJumpTable(spec),
		block:     ctx.Block,
		blocks:    ctx.Blocks,
		original:  ctx.Original,
		originals: make(map[storageSlot]types.Word),
	}
	if config != nil {
		evm.config = *config
	}
	return evm
}

// Spec returns the rule set of the engine.
func (evm *EVM) Spec() *Spec { return evm.spec }

// NewProgram creates a top-level frame running code.
func (evm *EVM) NewProgram(code []byte, invoke Invoke, repo state.Repository) *Program {
	return NewProgram(evm.config.Codes.Get(code), invoke, repo, evm.spec.StackLimit)
}

// Play runs the program until it halts.
func (evm *EVM) Play(p *Program) {
	if t := evm.config.Tracer; t != nil {
		inv := p.invoke
		t.CaptureStart(inv.Depth, inv.Caller, inv.Owner, inv.Data, inv.Gas, inv.Value)
	}
	for !p.stopped {
		evm.Step(p)
	}
	if t := evm.config.Tracer; t != nil {
		t.CaptureEnd(p.invoke.Depth, p.result.ReturnData, p.gas.Used(), p.result.Err)
	}
}

// Step executes one instruction. An error halts the frame, consumes all of
// its gas and drops its refund.
func (evm *EVM) Step(p *Program) {
	if p.stopped {
		return
	}
	pc := p.pc
	op := p.code.GetOp(pc)
	cost, err := evm.step(p, op)
	if t := evm.config.Tracer; t != nil {
		t.CaptureState(pc, op, p.gas.Remaining(), cost, p, err)
	}
	if err != nil {
		logger.Trace("Frame halted by exception", "depth", p.invoke.Depth, "pc", pc, "op", op, "err", err)
		p.gas.SpendAll()
		p.gas.ResetFutureRefund()
		p.setException(err)
		p.Stop()
	}
}

func (evm *EVM) step(p *Program, op OpCode) (uint64, error) {
	operation := evm.table[op]
	if operation == nil {
		return 0, &InvalidOpcodeError{Op: op, PC: p.pc}
	}
	info := OpTable[op]
	if err := p.stack.Require(info.StackPop); err != nil {
		return 0, err
	}
	if err := p.stack.ValidSize(info.StackPop, info.StackPush); err != nil {
		return 0, err
	}

	cost := evm.spec.Fees.TierCost(info.Tier)
	if operation.dynamicGas != nil {
		var err error
		if cost, err = operation.dynamicGas(evm, p); err != nil {
			return 0, err
		}
	}
	if err := p.gas.Spend(cost, info.Name); err != nil {
		return cost, err
	}
	// Out of gas takes precedence over a static violation.
	if info.Writes && p.invoke.Static {
		return cost, ErrStaticCallViolation
	}

	if err := operation.execute(evm, p); err != nil {
		return cost, err
	}
	if !info.Jumps {
		p.pc++
	}
	return cost, nil
}

// originalValue returns the value the slot held when the transaction
// started. current is used when the engine has no pre-transaction view.
func (evm *EVM) originalValue(addr types.Address, key, current types.Word) types.Word {
	slot := storageSlot{addr, key}
	if v, ok := evm.originals[slot]; ok {
		return v
	}
	v := current
	if evm.original != nil {
		v = evm.original.GetStorageRow(addr, key)
	}
	evm.originals[slot] = v
	return v
}

// isDeadAccount reports whether addr names neither an existing account nor
// a precompiled contract.
func (evm *EVM) isDeadAccount(p *Program, addr types.Address) bool {
	if _, ok := evm.spec.Precompiles[addr]; ok {
		return false
	}
	return !p.repo.Exists(addr)
}
