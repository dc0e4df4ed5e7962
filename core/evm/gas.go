package evm

// GasMeter tracks the gas left to a frame and the refund it has earned.
// The refund may go negative inside a frame; it is settled by the
// transaction executor.
type GasMeter struct {
	limit        uint64
	remaining    uint64
	futureRefund int64
}

// NewGasMeter creates a meter holding limit gas.
func NewGasMeter(limit uint64) *GasMeter {
	return &GasMeter{limit: limit, remaining: limit}
}

// Limit returns the gas the frame started with.
func (g *GasMeter) Limit() uint64 { return g.limit }

// Remaining returns the gas left.
func (g *GasMeter) Remaining() uint64 { return g.remaining }

// Used returns the gas consumed so far.
func (g *GasMeter) Used() uint64 { return g.limit - g.remaining }

// Spend charges cost, failing without change when it exceeds the remaining
// gas.
func (g *GasMeter) Spend(cost uint64, cause string) error {
	if cost > g.remaining {
		return &OutOfGasError{Cause: cause, Cost: cost, Available: g.remaining}
	}
	g.remaining -= cost
	return nil
}

// SpendAll consumes the remaining gas.
func (g *GasMeter) SpendAll() {
	g.remaining = 0
}

// Refund returns unused gas, typically the leftover of a sub-invocation.
func (g *GasMeter) Refund(gas uint64) {
	g.remaining += gas
}

// FutureRefund returns the refund counter.
func (g *GasMeter) FutureRefund() int64 { return g.futureRefund }

// AddFutureRefund adjusts the refund counter by delta.
func (g *GasMeter) AddFutureRefund(delta int64) {
	g.futureRefund += delta
}

// ResetFutureRefund clears the refund counter.
func (g *GasMeter) ResetFutureRefund() {
	g.futureRefund = 0
}
