// Package state implements the account and storage store consumed by the
// execution engine: a Repository of nested diff layers over a key-value
// Database, plus the block-hash lookup used by BLOCKHASH.
package state

import (
	"encoding/binary"
	"errors"

	"github.com/XDagger/xdagj-sub001/core/types"
	"github.com/XDagger/xdagj-sub001/crypto"
)

// EmptyCodeHash is the hash of empty code (Keccak256 of empty bytes).
var EmptyCodeHash = types.Hash(crypto.EmptyCodeHash)

// Account represents the state of an account.
type Account struct {
	// Nonce is the number of transactions sent from this account.
	// For contract accounts, it's the number of contract creations.
	Nonce uint64

	// Balance is the account's balance in the smallest denomination.
	Balance types.Word

	// CodeHash is the hash of the account's bytecode.
	CodeHash types.Hash

	// code is loaded lazily from the database by CodeHash.
	code []byte
}

// NewAccount creates a new empty account.
func NewAccount() *Account {
	return &Account{CodeHash: EmptyCodeHash}
}

// IsEmpty returns true if the account has zero nonce, zero balance and no
// code.
func (a *Account) IsEmpty() bool {
	return a.Nonce == 0 && a.Balance.IsZero() && a.CodeHash == EmptyCodeHash
}

// IsContract returns true if the account has code.
func (a *Account) IsContract() bool {
	return a.CodeHash != EmptyCodeHash
}

// Copy creates a copy of the account. Code is immutable and shared.
func (a *Account) Copy() *Account {
	cpy := *a
	return &cpy
}

// Serialize serializes the account for storage.
// Format: nonce(8) + balance(32) + code_hash(32)
func (a *Account) Serialize() []byte {
	data := make([]byte, 0, accountEncodedSize)
	data = binary.BigEndian.AppendUint64(data, a.Nonce)
	data = append(data, a.Balance.Bytes()...)
	data = append(data, a.CodeHash[:]...)
	return data
}

const accountEncodedSize = 8 + 32 + 32

// DeserializeAccount deserializes an account from bytes.
func DeserializeAccount(data []byte) (*Account, error) {
	if len(data) != accountEncodedSize {
		return nil, ErrInvalidAccountData
	}
	return &Account{
		Nonce:    binary.BigEndian.Uint64(data[0:8]),
		Balance:  types.WordFromBytes(data[8:40]),
		CodeHash: types.BytesToHash(data[40:72]),
	}, nil
}

// Error types
var (
	ErrInvalidAccountData = errors.New("invalid account data")
	ErrNonceOverflow      = errors.New("nonce overflow")
	ErrReleasedLayer      = errors.New("repository layer already committed or rolled back")
)
