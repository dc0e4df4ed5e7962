package evm

import (
	"fmt"

	"github.com/XDagger/xdagj-sub001/core/types"
)

// maxMemorySize is the largest memory a frame may address. Larger sizes
// cannot be paid for and are reported as a gas overflow.
const maxMemorySize = 0x1FFFFFFFE0

// Memory is the byte-addressable scratch space of one frame. It grows in
// 32-byte words and never shrinks.
type Memory struct {
	store       []byte
	lastGasCost uint64
}

// NewMemory creates an empty memory.
func NewMemory() *Memory {
	return &Memory{}
}

// Resize grows the memory to hold size bytes, rounded up to a word.
func (m *Memory) Resize(size uint64) {
	if uint64(len(m.store)) >= size {
		return
	}
	size = toWordSize(size) * 32
	if uint64(cap(m.store)) >= size {
		m.store = m.store[:size]
		return
	}
	newStore := make([]byte, size, size*2)
	copy(newStore, m.store)
	m.store = newStore[:size]
}

// Extend grows the memory to cover [offset, offset+size). A zero size
// touches nothing.
func (m *Memory) Extend(offset, size uint64) {
	if size == 0 {
		return
	}
	m.Resize(offset + size)
}

// Write copies data to memory at offset, growing as needed.
func (m *Memory) Write(offset uint64, data []byte) {
	if len(data) == 0 {
		return
	}
	m.Extend(offset, uint64(len(data)))
	copy(m.store[offset:], data)
}

// WriteLimited copies at most limit bytes of data to offset. The region
// must already be allocated.
func (m *Memory) WriteLimited(offset uint64, data []byte, limit uint64) {
	if uint64(len(data)) > limit {
		data = data[:limit]
	}
	m.Write(offset, data)
}

// WriteWord stores a word at offset.
func (m *Memory) WriteWord(offset uint64, w types.Word) {
	b := w.Bytes32()
	m.Write(offset, b[:])
}

// WriteByte stores a single byte at offset.
func (m *Memory) WriteByte(offset uint64, b byte) {
	m.Extend(offset, 1)
	m.store[offset] = b
}

// Read returns a copy of size bytes at offset, growing the memory so that
// the region is allocated and zero-filled.
func (m *Memory) Read(offset, size uint64) []byte {
	if size == 0 {
		return nil
	}
	m.Extend(offset, size)
	cpy := make([]byte, size)
	copy(cpy, m.store[offset:offset+size])
	return cpy
}

// ReadWord loads the word at offset.
func (m *Memory) ReadWord(offset uint64) types.Word {
	m.Extend(offset, 32)
	return types.WordFromBytes(m.store[offset : offset+32])
}

// Len returns the memory size in bytes.
func (m *Memory) Len() int {
	return len(m.store)
}

// Data returns the backing slice.
func (m *Memory) Data() []byte {
	return m.store
}

// String returns a hex rendering of the first 64 bytes.
func (m *Memory) String() string {
	if len(m.store) <= 64 {
		return fmt.Sprintf("[%d bytes: %x]", len(m.store), m.store)
	}
	return fmt.Sprintf("[%d bytes: %x...]", len(m.store), m.store[:64])
}

// === Memory Gas Calculation ===

// memoryGasCost returns the price of growing mem to newSize bytes, charged
// as the difference against the size already paid for.
func memoryGasCost(fs *FeeSchedule, mem *Memory, newSize uint64) (uint64, error) {
	if newSize == 0 {
		return 0, nil
	}
	if newSize > maxMemorySize {
		return 0, ErrGasUintOverflow
	}
	words := toWordSize(newSize)
	newCost := words*fs.Memory + words*words/fs.QuadCoeffDiv
	if newCost <= mem.lastGasCost {
		return 0, nil
	}
	fee := newCost - mem.lastGasCost
	mem.lastGasCost = newCost
	return fee, nil
}

// toWordSize returns the number of 32-byte words needed for size bytes.
func toWordSize(size uint64) uint64 {
	if size > maxUint64-31 {
		return maxUint64/32 + 1
	}
	return (size + 31) / 32
}

const maxUint64 = ^uint64(0)

// memoryNeeded returns offset+size, or zero when size is zero. Regions that
// cannot be addressed fail with ErrGasUintOverflow.
func memoryNeeded(offset, size types.Word) (uint64, error) {
	if size.IsZero() {
		return 0, nil
	}
	if !offset.IsUint64() || !size.IsUint64() {
		return 0, ErrGasUintOverflow
	}
	off, sz := offset.Uint64(), size.Uint64()
	if off > maxUint64-sz {
		return 0, ErrGasUintOverflow
	}
	return off + sz, nil
}
