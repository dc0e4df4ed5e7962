package types

import (
	"encoding/binary"
	"sync/atomic"

	"github.com/XDagger/xdagj-sub001/crypto"
)

// Transaction is a top-level invocation: either a message call to an
// existing account or a contract creation.
type Transaction struct {
	create   bool
	from     Address
	to       Address
	nonce    uint64
	value    Word
	data     []byte
	gas      uint64
	gasPrice Word

	// Cached values
	hash atomic.Value // Hash
}

// NewTransaction creates a message call transaction.
func NewTransaction(from Address, nonce uint64, to Address, value Word, gasLimit uint64, gasPrice Word, data []byte) *Transaction {
	return &Transaction{
		from:     from,
		to:       to,
		nonce:    nonce,
		value:    value,
		data:     copyBytes(data),
		gas:      gasLimit,
		gasPrice: gasPrice,
	}
}

// NewContractCreation creates a contract creation transaction. The data is
// the init code.
func NewContractCreation(from Address, nonce uint64, value Word, gasLimit uint64, gasPrice Word, data []byte) *Transaction {
	return &Transaction{
		create:   true,
		from:     from,
		nonce:    nonce,
		value:    value,
		data:     copyBytes(data),
		gas:      gasLimit,
		gasPrice: gasPrice,
	}
}

// IsContractCreation returns true if this is a contract creation.
func (tx *Transaction) IsContractCreation() bool { return tx.create }

// From returns the sender.
func (tx *Transaction) From() Address { return tx.from }

// To returns the recipient. It is the zero address for a creation.
func (tx *Transaction) To() Address { return tx.to }

// Nonce returns the sender nonce.
func (tx *Transaction) Nonce() uint64 { return tx.nonce }

// Value returns the amount transferred.
func (tx *Transaction) Value() Word { return tx.value }

// Data returns the call data or init code.
func (tx *Transaction) Data() []byte { return tx.data }

// Gas returns the gas limit.
func (tx *Transaction) Gas() uint64 { return tx.gas }

// GasPrice returns the gas price.
func (tx *Transaction) GasPrice() Word { return tx.gasPrice }

// Cost returns gas * price + value.
func (tx *Transaction) Cost() Word {
	return tx.gasPrice.Mul(WordFromUint64(tx.gas)).Add(tx.value)
}

// Hash returns the transaction hash.
func (tx *Transaction) Hash() Hash {
	if h := tx.hash.Load(); h != nil {
		return h.(Hash)
	}
	h := Hash(crypto.Keccak256(tx.serialize()))
	tx.hash.Store(h)
	return h
}

// serialize encodes the transaction for hashing.
// Format: create(1) + from(20) + to(20) + nonce(8) + gas(8) + value(32) + price(32) + data_len(4) + data
func (tx *Transaction) serialize() []byte {
	data := make([]byte, 0, 1+20+20+8+8+32+32+4+len(tx.data))

	if tx.create {
		data = append(data, 1)
	} else {
		data = append(data, 0)
	}
	data = append(data, tx.from[:]...)
	data = append(data, tx.to[:]...)
	data = binary.BigEndian.AppendUint64(data, tx.nonce)
	data = binary.BigEndian.AppendUint64(data, tx.gas)
	data = append(data, tx.value.Bytes()...)
	data = append(data, tx.gasPrice.Bytes()...)
	data = binary.BigEndian.AppendUint32(data, uint32(len(tx.data)))
	data = append(data, tx.data...)

	return data
}

func copyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	cpy := make([]byte, len(b))
	copy(cpy, b)
	return cpy
}

// Transactions is a list of transactions.
type Transactions []*Transaction

// Len returns the number of transactions.
func (txs Transactions) Len() int { return len(txs) }
