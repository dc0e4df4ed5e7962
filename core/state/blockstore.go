package state

import (
	"sync"

	"github.com/XDagger/xdagj-sub001/core/types"
)

// BlockStore resolves historical block hashes for BLOCKHASH.
type BlockStore interface {
	// GetBlockHashByNumber returns the hash of block n, or the zero hash
	// when the block is unknown.
	GetBlockHashByNumber(n uint64) types.Hash
}

// MemoryBlockStore is an in-memory BlockStore.
type MemoryBlockStore struct {
	hashes map[uint64]types.Hash
	mu     sync.RWMutex
}

// NewMemoryBlockStore creates an empty block store.
func NewMemoryBlockStore() *MemoryBlockStore {
	return &MemoryBlockStore{hashes: make(map[uint64]types.Hash)}
}

// AddBlockHash records the hash of block n.
func (s *MemoryBlockStore) AddBlockHash(n uint64, hash types.Hash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hashes[n] = hash
}

// GetBlockHashByNumber returns the hash of block n.
func (s *MemoryBlockStore) GetBlockHashByNumber(n uint64) types.Hash {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hashes[n]
}
