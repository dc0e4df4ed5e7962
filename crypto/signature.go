package crypto

import (
	"errors"
	"math/big"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidSignature is returned when a signature cannot be recovered.
var ErrInvalidSignature = errors.New("invalid signature")

// RecoverAddress recovers the signer address of a 32-byte message hash from
// a recovery id v (27 or 28) and the signature scalars r and s.
func RecoverAddress(hash [32]byte, v byte, r, s *big.Int) ([20]byte, error) {
	if v != 27 && v != 28 {
		return [20]byte{}, ErrInvalidSignature
	}
	if !gethcrypto.ValidateSignatureValues(v-27, r, s, false) {
		return [20]byte{}, ErrInvalidSignature
	}

	sig := make([]byte, 65)
	r.FillBytes(sig[0:32])
	s.FillBytes(sig[32:64])
	sig[64] = v - 27

	pub, err := gethcrypto.Ecrecover(hash[:], sig)
	if err != nil {
		return [20]byte{}, ErrInvalidSignature
	}
	return PubKeyToAddress(pub), nil
}
