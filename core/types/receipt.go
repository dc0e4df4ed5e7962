package types

import (
	"encoding/binary"

	"github.com/XDagger/xdagj-sub001/crypto"
)

// ExceptionKind classifies the fault that halted an invocation.
type ExceptionKind uint8

const (
	ExceptionNone ExceptionKind = iota
	ExceptionStackUnderflow
	ExceptionStackOverflow
	ExceptionOutOfGas
	ExceptionBadJumpDestination
	ExceptionIllegalOperation
	ExceptionStaticCallViolation
	ExceptionReturnDataOutOfBounds
	ExceptionAddressCollision
	ExceptionCodeSizeLimit
	ExceptionPrecompileFailure
	ExceptionInvalidArgument
)

var exceptionNames = map[ExceptionKind]string{
	ExceptionNone:                  "none",
	ExceptionStackUnderflow:        "stack underflow",
	ExceptionStackOverflow:         "stack overflow",
	ExceptionOutOfGas:              "out of gas",
	ExceptionBadJumpDestination:    "bad jump destination",
	ExceptionIllegalOperation:      "illegal operation",
	ExceptionStaticCallViolation:   "static call violation",
	ExceptionReturnDataOutOfBounds: "return data out of bounds",
	ExceptionAddressCollision:      "contract address collision",
	ExceptionCodeSizeLimit:         "code size limit exceeded",
	ExceptionPrecompileFailure:     "precompiled contract failure",
	ExceptionInvalidArgument:       "invalid argument",
}

// String returns a human-readable name for the kind.
func (k ExceptionKind) String() string {
	if name, ok := exceptionNames[k]; ok {
		return name
	}
	return "unknown"
}

// InternalTransaction records a message call, contract creation or
// self-destruct performed by executing code.
type InternalTransaction struct {
	Depth    int
	Index    int
	Type     string
	From     Address
	To       Address
	Nonce    uint64
	Value    Word
	Data     []byte
	Gas      uint64
	Rejected bool
}

// Reject marks the internal transaction as rolled back.
func (itx *InternalTransaction) Reject() {
	itx.Rejected = true
}

// Receipt is the outcome of one top-level invocation.
type Receipt struct {
	TxHash     Hash
	Success    bool
	Reverted   bool
	GasUsed    uint64
	Refund     uint64
	ReturnData []byte
	Logs       []*Log

	// ContractAddress is set for a successful contract creation.
	ContractAddress Address

	Exception ExceptionKind
	Err       string

	DeletedAccounts      []Address
	InternalTransactions []*InternalTransaction

	// Set by the block executor.
	CumulativeGasUsed uint64
}

// Hash returns a digest of the consensus-relevant receipt fields.
func (r *Receipt) Hash() Hash {
	var buf []byte
	buf = append(buf, r.TxHash[:]...)
	if r.Success {
		buf = append(buf, 1)
	} else {
		buf = append(buf, 0)
	}
	buf = binary.BigEndian.AppendUint64(buf, r.GasUsed)
	buf = binary.BigEndian.AppendUint64(buf, r.CumulativeGasUsed)
	buf = append(buf, r.ReturnData...)
	for _, l := range r.Logs {
		buf = append(buf, l.Address[:]...)
		for _, t := range l.Topics {
			buf = append(buf, t.Bytes()...)
		}
		buf = append(buf, l.Data...)
	}
	return Hash(crypto.Keccak256(buf))
}

// Receipts is a list of receipts.
type Receipts []*Receipt
