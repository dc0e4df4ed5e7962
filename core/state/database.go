package state

import (
	"bytes"
	"errors"
	"sort"
	"sync"

	"github.com/XDagger/xdagj-sub001/core/types"
)

// Database is the interface for key-value storage backing a Repository.
type Database interface {
	// Get retrieves a value by key.
	Get(key []byte) ([]byte, error)

	// Put stores a key-value pair.
	Put(key, value []byte) error

	// Delete removes a key.
	Delete(key []byte) error

	// Has returns true if the key exists.
	Has(key []byte) (bool, error)

	// ForEach calls fn for every key with the given prefix, in key order.
	ForEach(prefix []byte, fn func(key, value []byte) error) error

	// NewBatch creates a new batch for atomic writes.
	NewBatch() Batch

	// Close closes the database.
	Close() error
}

// Batch is an interface for batch writes.
type Batch interface {
	// Put adds a key-value pair to the batch.
	Put(key, value []byte) error

	// Delete adds a delete operation to the batch.
	Delete(key []byte) error

	// Write commits the batch to the database.
	Write() error

	// Reset clears the batch.
	Reset()

	// Size returns the number of operations in the batch.
	Size() int
}

// MemoryDatabase is an in-memory implementation of Database.
type MemoryDatabase struct {
	data map[string][]byte
	mu   sync.RWMutex
}

// NewMemoryDatabase creates a new in-memory database.
func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{
		data: make(map[string][]byte),
	}
}

// Get retrieves a value by key.
func (db *MemoryDatabase) Get(key []byte) ([]byte, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if db.data == nil {
		return nil, ErrClosed
	}
	value, ok := db.data[string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return bytes.Clone(value), nil
}

// Put stores a key-value pair.
func (db *MemoryDatabase) Put(key, value []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.data == nil {
		return ErrClosed
	}
	db.data[string(key)] = bytes.Clone(value)
	return nil
}

// Delete removes a key.
func (db *MemoryDatabase) Delete(key []byte) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if db.data == nil {
		return ErrClosed
	}
	delete(db.data, string(key))
	return nil
}

// Has returns true if the key exists.
func (db *MemoryDatabase) Has(key []byte) (bool, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	_, ok := db.data[string(key)]
	return ok, nil
}

// ForEach calls fn for every key with the given prefix, in key order. The
// callback runs on a snapshot, so it may modify the database.
func (db *MemoryDatabase) ForEach(prefix []byte, fn func(key, value []byte) error) error {
	db.mu.RLock()
	var keys []string
	for k := range db.data {
		if bytes.HasPrefix([]byte(k), prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	values := make([][]byte, len(keys))
	for i, k := range keys {
		values[i] = db.data[k]
	}
	db.mu.RUnlock()

	for i, k := range keys {
		if err := fn([]byte(k), values[i]); err != nil {
			return err
		}
	}
	return nil
}

// NewBatch creates a new batch.
func (db *MemoryDatabase) NewBatch() Batch {
	return &MemoryBatch{db: db}
}

// Close closes the database.
func (db *MemoryDatabase) Close() error {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.data = nil
	return nil
}

// Size returns the number of entries.
func (db *MemoryDatabase) Size() int {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.data)
}

// MemoryBatch is an in-memory batch implementation. Operations are applied
// in the order they were added.
type MemoryBatch struct {
	db  *MemoryDatabase
	ops []batchOp
}

type batchOp struct {
	key    string
	value  []byte
	delete bool
}

// Put adds a key-value pair to the batch.
func (b *MemoryBatch) Put(key, value []byte) error {
	b.ops = append(b.ops, batchOp{key: string(key), value: bytes.Clone(value)})
	return nil
}

// Delete adds a delete operation to the batch.
func (b *MemoryBatch) Delete(key []byte) error {
	b.ops = append(b.ops, batchOp{key: string(key), delete: true})
	return nil
}

// Write commits the batch to the database.
func (b *MemoryBatch) Write() error {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()

	if b.db.data == nil {
		return ErrClosed
	}
	for _, op := range b.ops {
		if op.delete {
			delete(b.db.data, op.key)
		} else {
			b.db.data[op.key] = op.value
		}
	}
	return nil
}

// Reset clears the batch.
func (b *MemoryBatch) Reset() {
	b.ops = b.ops[:0]
}

// Size returns the number of operations in the batch.
func (b *MemoryBatch) Size() int {
	return len(b.ops)
}

// Key prefixes for different data types
var (
	PrefixAccount = []byte("a") // Account data
	PrefixCode    = []byte("c") // Contract code by hash
	PrefixStorage = []byte("s") // Contract storage rows
)

func accountKey(addr types.Address) []byte {
	return append(append([]byte{}, PrefixAccount...), addr[:]...)
}

func codeKey(hash types.Hash) []byte {
	return append(append([]byte{}, PrefixCode...), hash[:]...)
}

func storagePrefix(addr types.Address) []byte {
	return append(append([]byte{}, PrefixStorage...), addr[:]...)
}

func storageKey(addr types.Address, key types.Word) []byte {
	return append(storagePrefix(addr), key.Bytes()...)
}

// Error types
var (
	ErrNotFound = errors.New("not found")
	ErrClosed   = errors.New("database closed")
)
