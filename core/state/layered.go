package state

import (
	"fmt"

	"github.com/XDagger/xdagj-sub001/core/types"
	"github.com/XDagger/xdagj-sub001/crypto"
	"github.com/ethereum/go-ethereum/log"
)

var logger = log.New("module", "state")

// accountEntry is an account as seen by one layer. A nil account marks a
// deletion that hides every lower layer.
type accountEntry struct {
	account *Account
}

// MemoryRepository is a Repository built from a stack of diff layers. The
// root layer caches pending writes over a Database; each tracking layer
// holds the writes of one checkpoint and reads through to its parent.
type MemoryRepository struct {
	parent *MemoryRepository
	db     Database // root only

	accounts map[types.Address]accountEntry
	storage  map[types.Address]map[types.Word]types.Word
	// cleared marks addresses whose storage below this layer is hidden.
	cleared map[types.Address]struct{}

	released bool
}

// NewMemoryRepository creates a root repository over an in-memory database.
func NewMemoryRepository() *MemoryRepository {
	return NewRepository(NewMemoryDatabase())
}

// NewRepository creates a root repository over db.
func NewRepository(db Database) *MemoryRepository {
	r := newLayer(nil)
	r.db = db
	return r
}

func newLayer(parent *MemoryRepository) *MemoryRepository {
	return &MemoryRepository{
		parent:   parent,
		accounts: make(map[types.Address]accountEntry),
		storage:  make(map[types.Address]map[types.Word]types.Word),
		cleared:  make(map[types.Address]struct{}),
	}
}

// IsRoot reports whether this is the root layer.
func (r *MemoryRepository) IsRoot() bool {
	return r.parent == nil
}

// === Account access ===

// account returns the account visible from this layer, or nil.
func (r *MemoryRepository) account(addr types.Address) *Account {
	for l := r; l != nil; l = l.parent {
		if e, ok := l.accounts[addr]; ok {
			return e.account
		}
		if l.parent == nil {
			return l.loadAccount(addr)
		}
	}
	return nil
}

// loadAccount reads an account from the backing database into the root
// cache.
func (r *MemoryRepository) loadAccount(addr types.Address) *Account {
	if r.db == nil {
		return nil
	}
	data, err := r.db.Get(accountKey(addr))
	if err != nil {
		return nil
	}
	acc, err := DeserializeAccount(data)
	if err != nil {
		logger.Error("Corrupt account record", "addr", addr, "err", err)
		return nil
	}
	r.accounts[addr] = accountEntry{account: acc}
	return acc
}

// mutable returns a copy of the account owned by this layer, creating the
// account when it does not exist.
func (r *MemoryRepository) mutable(addr types.Address) *Account {
	if e, ok := r.accounts[addr]; ok && e.account != nil {
		return e.account
	}
	var acc *Account
	if prev := r.account(addr); prev != nil {
		acc = prev.Copy()
	} else {
		acc = NewAccount()
	}
	r.accounts[addr] = accountEntry{account: acc}
	return acc
}

// Exists reports whether the account exists.
func (r *MemoryRepository) Exists(addr types.Address) bool {
	return r.account(addr) != nil
}

// CreateAccount creates an empty account, replacing any existing one.
func (r *MemoryRepository) CreateAccount(addr types.Address) {
	r.accounts[addr] = accountEntry{account: NewAccount()}
	r.clearStorage(addr)
}

// Delete removes the account together with its code and storage.
func (r *MemoryRepository) Delete(addr types.Address) {
	r.accounts[addr] = accountEntry{}
	r.clearStorage(addr)
}

func (r *MemoryRepository) clearStorage(addr types.Address) {
	delete(r.storage, addr)
	r.cleared[addr] = struct{}{}
}

// IncreaseNonce increments the nonce and returns the new value.
func (r *MemoryRepository) IncreaseNonce(addr types.Address) uint64 {
	acc := r.mutable(addr)
	acc.Nonce++
	return acc.Nonce
}

// SetNonce sets the nonce.
func (r *MemoryRepository) SetNonce(addr types.Address, nonce uint64) {
	r.mutable(addr).Nonce = nonce
}

// GetNonce returns the nonce, or zero for a missing account.
func (r *MemoryRepository) GetNonce(addr types.Address) uint64 {
	if acc := r.account(addr); acc != nil {
		return acc.Nonce
	}
	return 0
}

// SaveCode sets the account code.
func (r *MemoryRepository) SaveCode(addr types.Address, code []byte) {
	acc := r.mutable(addr)
	acc.code = append([]byte(nil), code...)
	acc.CodeHash = types.Hash(crypto.Keccak256(code))
}

// GetCode returns the account code, or nil.
func (r *MemoryRepository) GetCode(addr types.Address) []byte {
	acc := r.account(addr)
	if acc == nil || !acc.IsContract() {
		return nil
	}
	if acc.code == nil {
		acc.code = r.root().loadCode(acc.CodeHash)
	}
	return acc.code
}

func (r *MemoryRepository) loadCode(hash types.Hash) []byte {
	if r.db == nil {
		return nil
	}
	code, err := r.db.Get(codeKey(hash))
	if err != nil {
		logger.Error("Missing contract code", "hash", hash, "err", err)
		return nil
	}
	return code
}

// GetCodeHash returns the code hash, or the zero hash for a missing account.
func (r *MemoryRepository) GetCodeHash(addr types.Address) types.Hash {
	if acc := r.account(addr); acc != nil {
		return acc.CodeHash
	}
	return types.EmptyHash
}

// GetBalance returns the balance, or zero for a missing account.
func (r *MemoryRepository) GetBalance(addr types.Address) types.Word {
	if acc := r.account(addr); acc != nil {
		return acc.Balance
	}
	return types.ZeroWord
}

// AddBalance adds amount to the balance and returns the new balance.
func (r *MemoryRepository) AddBalance(addr types.Address, amount types.Word) types.Word {
	acc := r.mutable(addr)
	acc.Balance = acc.Balance.Add(amount)
	return acc.Balance
}

// SubBalance subtracts amount from the balance and returns the new balance.
func (r *MemoryRepository) SubBalance(addr types.Address, amount types.Word) types.Word {
	acc := r.mutable(addr)
	acc.Balance = acc.Balance.Sub(amount)
	return acc.Balance
}

// === Storage access ===

// PutStorageRow writes a storage row. Writing zero removes the row.
func (r *MemoryRepository) PutStorageRow(addr types.Address, key, value types.Word) {
	r.mutable(addr)
	rows, ok := r.storage[addr]
	if !ok {
		rows = make(map[types.Word]types.Word)
		r.storage[addr] = rows
	}
	rows[key] = value
}

// GetStorageRow reads a storage row, or zero.
func (r *MemoryRepository) GetStorageRow(addr types.Address, key types.Word) types.Word {
	for l := r; l != nil; l = l.parent {
		if v, ok := l.storage[addr][key]; ok {
			return v
		}
		if _, ok := l.cleared[addr]; ok {
			return types.ZeroWord
		}
		if l.parent == nil {
			return l.loadStorageRow(addr, key)
		}
	}
	return types.ZeroWord
}

func (r *MemoryRepository) loadStorageRow(addr types.Address, key types.Word) types.Word {
	if r.db == nil {
		return types.ZeroWord
	}
	data, err := r.db.Get(storageKey(addr, key))
	if err != nil {
		return types.ZeroWord
	}
	return types.WordFromBytes(data)
}

// === Checkpoints ===

// StartTracking opens a nested checkpoint on top of this layer.
func (r *MemoryRepository) StartTracking() Repository {
	return newLayer(r)
}

func (r *MemoryRepository) root() *MemoryRepository {
	l := r
	for l.parent != nil {
		l = l.parent
	}
	return l
}

// Depth returns the number of layers above the root.
func (r *MemoryRepository) Depth() int {
	d := 0
	for l := r; l.parent != nil; l = l.parent {
		d++
	}
	return d
}

// Commit merges the layer into its parent, or flushes the root to the
// database.
func (r *MemoryRepository) Commit() error {
	if r.released {
		return ErrReleasedLayer
	}
	if r.parent == nil {
		return r.flush()
	}
	r.mergeInto(r.parent)
	r.release()
	return nil
}

// mergeInto applies this layer's writes on top of dst.
func (r *MemoryRepository) mergeInto(dst *MemoryRepository) {
	for addr := range r.cleared {
		dst.clearStorage(addr)
	}
	for addr, e := range r.accounts {
		dst.accounts[addr] = e
	}
	for addr, rows := range r.storage {
		dstRows, ok := dst.storage[addr]
		if !ok {
			dstRows = make(map[types.Word]types.Word, len(rows))
			dst.storage[addr] = dstRows
		}
		for k, v := range rows {
			dstRows[k] = v
		}
	}
}

// Rollback discards every write made in this layer.
func (r *MemoryRepository) Rollback() {
	if r.parent == nil {
		r.accounts = make(map[types.Address]accountEntry)
		r.storage = make(map[types.Address]map[types.Word]types.Word)
		r.cleared = make(map[types.Address]struct{})
		return
	}
	r.release()
}

func (r *MemoryRepository) release() {
	r.released = true
	r.accounts = nil
	r.storage = nil
	r.cleared = nil
}

// flush writes the root's pending state to the database in one batch.
func (r *MemoryRepository) flush() error {
	if r.db == nil {
		return nil
	}
	batch := r.db.NewBatch()

	for addr := range r.cleared {
		err := r.db.ForEach(storagePrefix(addr), func(key, _ []byte) error {
			return batch.Delete(key)
		})
		if err != nil {
			return fmt.Errorf("clear storage of %s: %w", addr, err)
		}
	}

	for addr, e := range r.accounts {
		if e.account == nil {
			if err := batch.Delete(accountKey(addr)); err != nil {
				return err
			}
			continue
		}
		if err := batch.Put(accountKey(addr), e.account.Serialize()); err != nil {
			return err
		}
		if e.account.code != nil && e.account.IsContract() {
			if err := batch.Put(codeKey(e.account.CodeHash), e.account.code); err != nil {
				return err
			}
		}
	}

	rows := 0
	for addr, kv := range r.storage {
		for k, v := range kv {
			var err error
			if v.IsZero() {
				err = batch.Delete(storageKey(addr, k))
			} else {
				err = batch.Put(storageKey(addr, k), v.NoLeadZeroes())
			}
			if err != nil {
				return err
			}
			rows++
		}
	}

	if err := batch.Write(); err != nil {
		return fmt.Errorf("flush repository: %w", err)
	}
	logger.Debug("Flushed repository", "accounts", len(r.accounts), "rows", rows, "cleared", len(r.cleared))

	r.accounts = make(map[types.Address]accountEntry)
	r.storage = make(map[types.Address]map[types.Word]types.Word)
	r.cleared = make(map[types.Address]struct{})
	return nil
}

// Clone returns a copy of this layer chain. The copy shares the backing
// database, so at most one of the two roots should be flushed.
func (r *MemoryRepository) Clone() Repository {
	var parent *MemoryRepository
	if r.parent != nil {
		parent = r.parent.Clone().(*MemoryRepository)
	}
	cpy := newLayer(parent)
	cpy.db = r.db
	for addr, e := range r.accounts {
		if e.account != nil {
			e = accountEntry{account: e.account.Copy()}
		}
		cpy.accounts[addr] = e
	}
	for addr, rows := range r.storage {
		m := make(map[types.Word]types.Word, len(rows))
		for k, v := range rows {
			m[k] = v
		}
		cpy.storage[addr] = m
	}
	for addr := range r.cleared {
		cpy.cleared[addr] = struct{}{}
	}
	cpy.released = r.released
	return cpy
}
