package types

import (
	"bytes"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

const (
	// AddressLength is the length of an account address in bytes.
	AddressLength = 20
	// HashLength is the length of a hash in bytes.
	HashLength = 32
)

// Address represents a 20-byte account address.
type Address [AddressLength]byte

// EmptyAddress is the zero address.
var EmptyAddress = Address{}

// Bytes returns the address as a byte slice.
func (a Address) Bytes() []byte {
	return a[:]
}

// Hex returns the 0x-prefixed hex encoding of the address.
func (a Address) Hex() string {
	return hexutil.Encode(a[:])
}

// String implements fmt.Stringer.
func (a Address) String() string {
	return a.Hex()
}

// Less orders addresses bytewise.
func (a Address) Less(b Address) bool {
	return bytes.Compare(a[:], b[:]) < 0
}

// BytesToAddress creates an address from bytes, keeping the low 20 bytes of
// longer input and left-padding shorter input.
func BytesToAddress(b []byte) Address {
	var addr Address
	if len(b) > AddressLength {
		b = b[len(b)-AddressLength:]
	}
	copy(addr[AddressLength-len(b):], b)
	return addr
}

// HexToAddress parses a hex string into an address.
func HexToAddress(s string) Address {
	return BytesToAddress(common.FromHex(s))
}

// Hash represents a 32-byte hash.
type Hash [HashLength]byte

// EmptyHash is the zero hash.
var EmptyHash = Hash{}

// Bytes returns the hash as a byte slice.
func (h Hash) Bytes() []byte {
	return h[:]
}

// IsEmpty returns true if the hash is zero.
func (h Hash) IsEmpty() bool {
	return h == EmptyHash
}

// Hex returns the 0x-prefixed hex encoding of the hash.
func (h Hash) Hex() string {
	return hexutil.Encode(h[:])
}

// String implements fmt.Stringer.
func (h Hash) String() string {
	return h.Hex()
}

// BytesToHash creates a hash from bytes, left-padding shorter input.
func BytesToHash(b []byte) Hash {
	var h Hash
	if len(b) > HashLength {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
	return h
}
