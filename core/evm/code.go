package evm

import (
	"sync"

	"github.com/XDagger/xdagj-sub001/core/types"
	"github.com/XDagger/xdagj-sub001/crypto"
	"github.com/golang/groupcache/lru"
)

// Code is an immutable bytecode together with its jump destination
// analysis.
type Code struct {
	code  []byte
	hash  types.Hash
	dests *JumpDestAnalysis
}

// NewCode analyzes code. The caller must not modify code afterwards.
func NewCode(code []byte) *Code {
	return &Code{
		code:  code,
		hash:  types.Hash(crypto.Keccak256(code)),
		dests: NewJumpDestAnalysis(code),
	}
}

// GetOp returns the opcode at n. Reading past the end yields STOP.
func (c *Code) GetOp(n uint64) OpCode {
	if n >= uint64(len(c.code)) {
		return STOP
	}
	return OpCode(c.code[n])
}

// GetData returns size bytes starting at start, zero-padded past the end.
func (c *Code) GetData(start, size uint64) []byte {
	return getData(c.code, start, size)
}

// Bytes returns the raw code.
func (c *Code) Bytes() []byte { return c.code }

// Len returns the code length.
func (c *Code) Len() int { return len(c.code) }

// Hash returns the keccak256 hash of the code.
func (c *Code) Hash() types.Hash { return c.hash }

// ValidJumpDest reports whether dest holds a JUMPDEST outside push data.
func (c *Code) ValidJumpDest(dest uint64) bool {
	return c.dests.Valid(dest)
}

// JumpDestAnalysis is a bitmap of valid jump destinations.
type JumpDestAnalysis struct {
	bitmap []byte
}

// NewJumpDestAnalysis marks every JUMPDEST that is not part of a push
// immediate.
func NewJumpDestAnalysis(code []byte) *JumpDestAnalysis {
	jda := &JumpDestAnalysis{
		bitmap: make([]byte, (len(code)+7)/8),
	}
	for i := 0; i < len(code); {
		op := OpCode(code[i])
		if op == JUMPDEST {
			jda.bitmap[i/8] |= 1 << (i % 8)
		}
		i += 1 + op.PushBytes()
	}
	return jda
}

// Valid checks if a position is a valid jump destination.
func (jda *JumpDestAnalysis) Valid(dest uint64) bool {
	if dest >= uint64(len(jda.bitmap)*8) {
		return false
	}
	return jda.bitmap[dest/8]&(1<<(dest%8)) != 0
}

// CodeCache keeps analyzed code keyed by code hash so that repeated calls
// into the same contract skip the analysis. It is safe for concurrent use.
type CodeCache struct {
	mu    sync.Mutex
	cache *lru.Cache
}

// NewCodeCache creates a cache holding up to size analyses. A non-positive
// size disables caching.
func NewCodeCache(size int) *CodeCache {
	if size <= 0 {
		return nil
	}
	return &CodeCache{cache: lru.New(size)}
}

// Get returns the analysis of code.
func (cc *CodeCache) Get(code []byte) *Code {
	if cc == nil {
		return NewCode(code)
	}
	return cc.GetWithHash(types.Hash(crypto.Keccak256(code)), code)
}

// GetWithHash returns the analysis stored under hash, analyzing code on a
// miss. A nil cache analyzes every time.
func (cc *CodeCache) GetWithHash(hash types.Hash, code []byte) *Code {
	if cc == nil {
		return &Code{code: code, hash: hash, dests: NewJumpDestAnalysis(code)}
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if c, ok := cc.cache.Get(hash); ok {
		return c.(*Code)
	}
	c := &Code{code: code, hash: hash, dests: NewJumpDestAnalysis(code)}
	cc.cache.Add(hash, c)
	return c
}

// Len returns the number of cached analyses.
func (cc *CodeCache) Len() int {
	if cc == nil {
		return 0
	}
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.cache.Len()
}

// getData returns size bytes of data starting at start, zero-padded past
// the end.
func getData(data []byte, start, size uint64) []byte {
	out := make([]byte, size)
	if start < uint64(len(data)) {
		copy(out, data[start:])
	}
	return out
}
