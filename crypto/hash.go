// Package crypto provides the hashing and signature primitives used by the
// execution engine.
package crypto

import (
	"crypto/sha256"
	"encoding/binary"

	"golang.org/x/crypto/ripemd160"
	"golang.org/x/crypto/sha3"
)

// EmptyCodeHash is the Keccak-256 hash of empty input.
var EmptyCodeHash = Keccak256(nil)

// Keccak256 computes the Keccak-256 hash (Ethereum compatible).
func Keccak256(data []byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	h.Write(data)
	var result [32]byte
	copy(result[:], h.Sum(nil))
	return result
}

// Keccak256Multiple computes Keccak-256 of multiple byte slices.
func Keccak256Multiple(data ...[]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	var result [32]byte
	copy(result[:], h.Sum(nil))
	return result
}

// Sha256 computes the SHA-256 hash of the input.
func Sha256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// Ripemd160 computes the RIPEMD-160 hash of the input.
func Ripemd160(data []byte) [20]byte {
	h := ripemd160.New()
	h.Write(data)
	var result [20]byte
	copy(result[:], h.Sum(nil))
	return result
}

// CombineHashes combines multiple hashes into one.
func CombineHashes(hashes ...[32]byte) [32]byte {
	h := sha3.NewLegacyKeccak256()
	for _, hash := range hashes {
		h.Write(hash[:])
	}
	var result [32]byte
	copy(result[:], h.Sum(nil))
	return result
}

// MerkleRoot computes the Merkle root of a list of hashes.
func MerkleRoot(hashes [][32]byte) [32]byte {
	if len(hashes) == 0 {
		return [32]byte{}
	}
	if len(hashes) == 1 {
		return hashes[0]
	}

	level := make([][32]byte, len(hashes))
	copy(level, hashes)

	for len(level) > 1 {
		if len(level)%2 == 1 {
			level = append(level, level[len(level)-1])
		}
		next := make([][32]byte, 0, len(level)/2)
		for i := 0; i < len(level); i += 2 {
			next = append(next, CombineHashes(level[i], level[i+1]))
		}
		level = next
	}

	return level[0]
}

// HashToAddress converts a hash to an address (last 20 bytes).
func HashToAddress(hash [32]byte) [20]byte {
	var addr [20]byte
	copy(addr[:], hash[12:])
	return addr
}

// PubKeyToAddress derives an address from an uncompressed public key,
// with or without its 0x04 prefix.
func PubKeyToAddress(pubKey []byte) [20]byte {
	if len(pubKey) == 65 {
		pubKey = pubKey[1:]
	}
	return HashToAddress(Keccak256(pubKey))
}

// CreateAddress derives the address of a contract created by sender with the
// given nonce: keccak256(sender ++ uint64be(nonce))[12:].
func CreateAddress(sender [20]byte, nonce uint64) [20]byte {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], nonce)
	return HashToAddress(Keccak256Multiple(sender[:], n[:]))
}

// CreateAddress2 derives the address of a contract created with CREATE2:
// keccak256(0xff ++ sender ++ salt ++ keccak256(initCode))[12:].
func CreateAddress2(sender [20]byte, salt [32]byte, initCode []byte) [20]byte {
	codeHash := Keccak256(initCode)
	return HashToAddress(Keccak256Multiple([]byte{0xff}, sender[:], salt[:], codeHash[:]))
}
