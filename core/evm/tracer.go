package evm

import (
	"fmt"
	"io"
	"sort"

	"github.com/XDagger/xdagj-sub001/core/types"
	"github.com/codahale/hdrhistogram"
)

// === Tracer Interface ===

// Tracer is the interface for execution tracers. Hooks run synchronously on
// the executing goroutine.
type Tracer interface {
	// CaptureStart is called when a frame starts.
	CaptureStart(depth int, from, to types.Address, input []byte, gas uint64, value types.Word)

	// CaptureState is called after each step, with the error that halted
	// the frame if any.
	CaptureState(pc uint64, op OpCode, gas, cost uint64, p *Program, err error)

	// CaptureEnd is called when a frame halts.
	CaptureEnd(depth int, output []byte, gasUsed uint64, err error)
}

const maxTracedCost = 1 << 40

// StatsTracer records a gas histogram per opcode.
type StatsTracer struct {
	hists  map[OpCode]*hdrhistogram.Histogram
	steps  int64
	frames int
	faults int

	// dropped counts costs outside the histogram range.
	dropped int
}

// NewStatsTracer creates an empty tracer.
func NewStatsTracer() *StatsTracer {
	return &StatsTracer{hists: make(map[OpCode]*hdrhistogram.Histogram)}
}

func (t *StatsTracer) CaptureStart(depth int, from, to types.Address, input []byte, gas uint64, value types.Word) {
	t.frames++
}

func (t *StatsTracer) CaptureState(pc uint64, op OpCode, gas, cost uint64, p *Program, err error) {
	t.steps++
	if err != nil {
		t.faults++
		return
	}
	h, ok := t.hists[op]
	if !ok {
		h = hdrhistogram.New(1, maxTracedCost, 3)
		t.hists[op] = h
	}
	if cost > maxTracedCost || h.RecordValue(int64(cost)) != nil {
		t.dropped++
	}
}

func (t *StatsTracer) CaptureEnd(depth int, output []byte, gasUsed uint64, err error) {}

// Dropped returns the number of costs that could not be recorded.
func (t *StatsTracer) Dropped() int { return t.dropped }

// Steps returns the number of instructions observed.
func (t *StatsTracer) Steps() int64 { return t.steps }

// Count returns how often op executed successfully.
func (t *StatsTracer) Count(op OpCode) int64 {
	if h, ok := t.hists[op]; ok {
		return h.TotalCount()
	}
	return 0
}

// TotalGas returns an estimate of the gas spent on op.
func (t *StatsTracer) TotalGas(op OpCode) int64 {
	h, ok := t.hists[op]
	if !ok {
		return 0
	}
	var total int64
	for _, b := range h.Distribution() {
		total += b.Count * b.From
	}
	return total
}

// WriteSummary writes one line per opcode, sorted by opcode value.
func (t *StatsTracer) WriteSummary(w io.Writer) {
	ops := make([]OpCode, 0, len(t.hists))
	for op := range t.hists {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })

	fmt.Fprintf(w, "frames=%d steps=%d faults=%d dropped=%d\n", t.frames, t.steps, t.faults, t.dropped)
	for _, op := range ops {
		h := t.hists[op]
		fmt.Fprintf(w, "%-14s count=%-6d min=%-6d max=%-6d mean=%.1f p99=%d\n",
			op, h.TotalCount(), h.Min(), h.Max(), h.Mean(), h.ValueAtQuantile(99))
	}
}
