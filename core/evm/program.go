package evm

import (
	"github.com/XDagger/xdagj-sub001/core/state"
	"github.com/XDagger/xdagj-sub001/core/types"
)

// Invoke carries the parameters of one frame.
type Invoke struct {
	// Owner is the account whose storage and balance the code acts on.
	Owner    types.Address
	Origin   types.Address
	Caller   types.Address
	Value    types.Word
	GasPrice types.Word
	Data     []byte
	Gas      uint64
	Depth    int
	Static   bool
}

// ProgramResult is what a frame hands back to its parent.
type ProgramResult struct {
	GasLeft    uint64
	ReturnData []byte
	Reverted   bool
	Err        error

	Logs            []*types.Log
	DeletedAccounts []types.Address
	InternalTxs     []*types.InternalTransaction
	FutureRefund    int64
}

func emptyResult(gas uint64) *ProgramResult {
	return &ProgramResult{GasLeft: gas}
}

func exceptionResult(gas uint64, err error) *ProgramResult {
	return &ProgramResult{GasLeft: gas, Err: err}
}

// Failed reports whether the frame raised an exception or reverted.
func (r *ProgramResult) Failed() bool {
	return r.Err != nil || r.Reverted
}

// Kind returns the exception kind of the frame.
func (r *ProgramResult) Kind() types.ExceptionKind {
	return KindOf(r.Err)
}

func (r *ProgramResult) spendGas(gas uint64) {
	r.GasLeft -= gas
}

func (r *ProgramResult) addDeletedAccount(addr types.Address) {
	for _, a := range r.DeletedAccounts {
		if a == addr {
			return
		}
	}
	r.DeletedAccounts = append(r.DeletedAccounts, addr)
}

func (r *ProgramResult) rejectInternalTxs() {
	for _, itx := range r.InternalTxs {
		itx.Reject()
	}
}

// merge folds a finished sub-frame into r. Internal transactions are always
// kept; deleted accounts and logs only survive a successful sub-frame. The
// refund is carried by the gas meter, see mergeChild.
func (r *ProgramResult) merge(child *ProgramResult) {
	r.InternalTxs = append(r.InternalTxs, child.InternalTxs...)
	if child.Failed() {
		return
	}
	for _, addr := range child.DeletedAccounts {
		r.addDeletedAccount(addr)
	}
	r.Logs = append(r.Logs, child.Logs...)
}

// Program is the execution state of one frame.
type Program struct {
	invoke Invoke
	code   *Code
	repo   state.Repository

	pc      uint64
	stack   *Stack
	memory  *Memory
	gas     *GasMeter
	stopped bool

	// returnData is the output of the most recent sub-call.
	returnData []byte
	result     *ProgramResult
}

// NewProgram creates a frame running code against repo.
func NewProgram(code *Code, invoke Invoke, repo state.Repository, stackLimit int) *Program {
	return &Program{
		invoke: invoke,
		code:   code,
		repo:   repo,
		stack:  NewStack(stackLimit),
		memory: NewMemory(),
		gas:    NewGasMeter(invoke.Gas),
		result: &ProgramResult{},
	}
}

// PC returns the program counter.
func (p *Program) PC() uint64 { return p.pc }

// Code returns the code being run.
func (p *Program) Code() *Code { return p.code }

// Stack returns the operand stack.
func (p *Program) Stack() *Stack { return p.stack }

// Memory returns the frame memory.
func (p *Program) Memory() *Memory { return p.memory }

// Gas returns the gas meter.
func (p *Program) Gas() *GasMeter { return p.gas }

// Invoke returns the frame parameters.
func (p *Program) Invoke() Invoke { return p.invoke }

// Repository returns the checkpoint the frame writes to.
func (p *Program) Repository() state.Repository { return p.repo }

// Owner returns the account the code acts on.
func (p *Program) Owner() types.Address { return p.invoke.Owner }

// Depth returns the call depth of the frame.
func (p *Program) Depth() int { return p.invoke.Depth }

// IsStatic reports whether state modification is forbidden.
func (p *Program) IsStatic() bool { return p.invoke.Static }

// Stopped reports whether the frame has halted.
func (p *Program) Stopped() bool { return p.stopped }

// Stop halts the frame.
func (p *Program) Stop() { p.stopped = true }

// ReturnDataBuffer returns the output of the most recent sub-call.
func (p *Program) ReturnDataBuffer() []byte { return p.returnData }

// Result returns the frame outcome. It is final once the frame stopped.
func (p *Program) Result() *ProgramResult {
	p.result.GasLeft = p.gas.Remaining()
	p.result.FutureRefund = p.gas.FutureRefund()
	return p.result
}

func (p *Program) setReturn(data []byte, reverted bool) {
	p.result.ReturnData = data
	p.result.Reverted = reverted
}

func (p *Program) setException(err error) {
	p.result.Err = err
	p.result.ReturnData = nil
}

func (p *Program) addLog(l *types.Log) {
	p.result.Logs = append(p.result.Logs, l)
}

func (p *Program) addInternalTx(op OpCode, from, to types.Address, nonce uint64, value types.Word, data []byte, gas uint64) *types.InternalTransaction {
	itx := &types.InternalTransaction{
		Depth: p.invoke.Depth,
		Index: len(p.result.InternalTxs),
		Type:  op.String(),
		From:  from,
		To:    to,
		Nonce: nonce,
		Value: value,
		Data:  append([]byte(nil), data...),
		Gas:   gas,
	}
	p.result.InternalTxs = append(p.result.InternalTxs, itx)
	return itx
}

// mergeChild folds a finished sub-frame into p.
func (p *Program) mergeChild(child *ProgramResult) {
	p.result.merge(child)
	if !child.Failed() {
		p.gas.AddFutureRefund(child.FutureRefund)
	}
}

func (p *Program) verifyJumpDest(dest types.Word) (uint64, error) {
	if !dest.IsUint64() || dest.Uint64() > 0xffffffff || !p.code.ValidJumpDest(dest.Uint64()) {
		return 0, &BadJumpError{Dest: dest}
	}
	return dest.Uint64(), nil
}

// release returns pooled resources once the frame is finished.
func (p *Program) release() {
	if p.stack != nil {
		ReturnStack(p.stack)
		p.stack = nil
	}
}
