package state

import (
	"github.com/XDagger/xdagj-sub001/core/types"
)

// Repository is the account and storage store the engine executes against.
// StartTracking opens a nested checkpoint whose writes stay invisible to the
// parent until Commit; Rollback discards them.
type Repository interface {
	// Exists reports whether the account exists.
	Exists(addr types.Address) bool

	// CreateAccount creates an empty account, replacing any existing one and
	// clearing its storage.
	CreateAccount(addr types.Address)

	// Delete removes the account together with its code and storage.
	Delete(addr types.Address)

	// IncreaseNonce increments the nonce and returns the new value.
	IncreaseNonce(addr types.Address) uint64

	// SetNonce sets the nonce.
	SetNonce(addr types.Address, nonce uint64)

	// GetNonce returns the nonce, or zero for a missing account.
	GetNonce(addr types.Address) uint64

	// SaveCode sets the account code.
	SaveCode(addr types.Address, code []byte)

	// GetCode returns the account code, or nil.
	GetCode(addr types.Address) []byte

	// GetCodeHash returns the code hash, or the zero hash for a missing
	// account.
	GetCodeHash(addr types.Address) types.Hash

	// PutStorageRow writes a storage row. Writing zero removes the row.
	PutStorageRow(addr types.Address, key, value types.Word)

	// GetStorageRow reads a storage row, or zero.
	GetStorageRow(addr types.Address, key types.Word) types.Word

	// GetBalance returns the balance, or zero for a missing account.
	GetBalance(addr types.Address) types.Word

	// AddBalance adds amount to the balance and returns the new balance.
	AddBalance(addr types.Address, amount types.Word) types.Word

	// SubBalance subtracts amount from the balance and returns the new
	// balance. Callers check sufficiency first.
	SubBalance(addr types.Address, amount types.Word) types.Word

	// StartTracking opens a nested checkpoint on top of this repository.
	StartTracking() Repository

	// Clone returns an independent copy of the repository and its pending
	// checkpoints.
	Clone() Repository

	// Commit merges the checkpoint into its parent. On the root it flushes
	// pending writes to the backing database.
	Commit() error

	// Rollback discards every write made since the checkpoint was opened.
	Rollback()
}

// Transfer moves amount from one account to another.
func Transfer(repo Repository, from, to types.Address, amount types.Word) {
	repo.SubBalance(from, amount)
	repo.AddBalance(to, amount)
}
