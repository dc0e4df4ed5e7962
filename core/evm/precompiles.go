package evm

import (
	"errors"
	"math/big"

	"github.com/XDagger/xdagj-sub001/core/types"
	"github.com/XDagger/xdagj-sub001/crypto"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto/bn256"
)

// PrecompiledContract is a contract implemented natively.
type PrecompiledContract interface {
	// RequiredGas returns the price of running the contract on input.
	RequiredGas(fs *FeeSchedule, input []byte) uint64
	// Run executes the contract. An error fails the call.
	Run(input []byte) ([]byte, error)
}

// PrecompiledContracts maps addresses to native contracts.
type PrecompiledContracts map[types.Address]PrecompiledContract

var frontierPrecompiles = PrecompiledContracts{
	types.BytesToAddress([]byte{1}): &ecrecover{},
	types.BytesToAddress([]byte{2}): &sha256hash{},
	types.BytesToAddress([]byte{3}): &ripemd160hash{},
	types.BytesToAddress([]byte{4}): &dataCopy{},
}

var byzantiumPrecompiles = PrecompiledContracts{
	types.BytesToAddress([]byte{1}): &ecrecover{},
	types.BytesToAddress([]byte{2}): &sha256hash{},
	types.BytesToAddress([]byte{3}): &ripemd160hash{},
	types.BytesToAddress([]byte{4}): &dataCopy{},
	types.BytesToAddress([]byte{5}): &bigModExp{},
	types.BytesToAddress([]byte{6}): &bn256Add{},
	types.BytesToAddress([]byte{7}): &bn256ScalarMul{},
	types.BytesToAddress([]byte{8}): &bn256Pairing{},
}

var (
	errBadPairingInput = errors.New("bad elliptic curve pairing size")
)

// perWord returns base + word*words(len(input)).
func perWord(base, word uint64, input []byte) uint64 {
	return base + word*toWordSize(uint64(len(input)))
}

// === ECRECOVER (0x01) ===

type ecrecover struct{}

func (c *ecrecover) RequiredGas(fs *FeeSchedule, input []byte) uint64 {
	return fs.Ecrecover
}

// Run returns the signer address left-padded to 32 bytes, or no output for
// an invalid signature.
func (c *ecrecover) Run(input []byte) ([]byte, error) {
	input = common.RightPadBytes(input, 128)
	v := new(big.Int).SetBytes(input[32:64])
	if !v.IsUint64() || (v.Uint64() != 27 && v.Uint64() != 28) {
		return nil, nil
	}
	var hash [32]byte
	copy(hash[:], input[:32])
	r := new(big.Int).SetBytes(input[64:96])
	s := new(big.Int).SetBytes(input[96:128])

	addr, err := crypto.RecoverAddress(hash, byte(v.Uint64()), r, s)
	if err != nil {
		return nil, nil
	}
	return common.LeftPadBytes(addr[:], 32), nil
}

// === SHA256 (0x02) ===

type sha256hash struct{}

func (c *sha256hash) RequiredGas(fs *FeeSchedule, input []byte) uint64 {
	return perWord(fs.Sha256Base, fs.Sha256Word, input)
}

func (c *sha256hash) Run(input []byte) ([]byte, error) {
	h := crypto.Sha256(input)
	return h[:], nil
}

// === RIPEMD160 (0x03) ===

type ripemd160hash struct{}

func (c *ripemd160hash) RequiredGas(fs *FeeSchedule, input []byte) uint64 {
	return perWord(fs.Ripemd160Base, fs.Ripemd160Word, input)
}

func (c *ripemd160hash) Run(input []byte) ([]byte, error) {
	h := crypto.Ripemd160(input)
	return common.LeftPadBytes(h[:], 32), nil
}

// === IDENTITY (0x04) ===

type dataCopy struct{}

func (c *dataCopy) RequiredGas(fs *FeeSchedule, input []byte) uint64 {
	return perWord(fs.IdentityBase, fs.IdentityWord, input)
}

func (c *dataCopy) Run(input []byte) ([]byte, error) {
	return common.CopyBytes(input), nil
}

// === MODEXP (0x05) ===

type bigModExp struct{}

var (
	big1      = big.NewInt(1)
	big8      = big.NewInt(8)
	big32     = big.NewInt(32)
	big64     = big.NewInt(64)
	big96     = big.NewInt(96)
	big480    = big.NewInt(480)
	big1024   = big.NewInt(1024)
	big3072   = big.NewInt(3072)
	big199680 = big.NewInt(199680)
)

// modExpLengths decodes the three length words that prefix the input.
func modExpLengths(input []byte) (baseLen, expLen, modLen *big.Int, rest []byte) {
	baseLen = new(big.Int).SetBytes(getData(input, 0, 32))
	expLen = new(big.Int).SetBytes(getData(input, 32, 32))
	modLen = new(big.Int).SetBytes(getData(input, 64, 32))
	if len(input) > 96 {
		rest = input[96:]
	}
	return
}

// RequiredGas prices the call by the largest operand length and the bit
// length of the exponent.
func (c *bigModExp) RequiredGas(fs *FeeSchedule, input []byte) uint64 {
	baseLen, expLen, modLen, rest := modExpLengths(input)

	var expHead *big.Int
	if big.NewInt(int64(len(rest))).Cmp(baseLen) <= 0 {
		expHead = new(big.Int)
	} else {
		n := uint64(32)
		if expLen.Cmp(big32) < 0 {
			n = expLen.Uint64()
		}
		expHead = new(big.Int).SetBytes(getData(rest, baseLen.Uint64(), n))
	}

	msb := 0
	if bitlen := expHead.BitLen(); bitlen > 0 {
		msb = bitlen - 1
	}
	adjExpLen := new(big.Int)
	if expLen.Cmp(big32) > 0 {
		adjExpLen.Sub(expLen, big32)
		adjExpLen.Mul(big8, adjExpLen)
	}
	adjExpLen.Add(adjExpLen, big.NewInt(int64(msb)))

	gas := new(big.Int).Set(math.BigMax(modLen, baseLen))
	gas = multComplexity(gas)
	gas.Mul(gas, math.BigMax(adjExpLen, big1))
	gas.Div(gas, new(big.Int).SetUint64(fs.ModExpQuadDivisor))
	if gas.BitLen() > 64 {
		return maxUint64
	}
	return gas.Uint64()
}

// multComplexity is the EIP-198 multiplication cost of x-byte operands.
func multComplexity(x *big.Int) *big.Int {
	switch {
	case x.Cmp(big64) <= 0:
		x.Mul(x, x)
	case x.Cmp(big1024) <= 0:
		x = new(big.Int).Add(
			new(big.Int).Div(new(big.Int).Mul(x, x), big.NewInt(4)),
			new(big.Int).Sub(new(big.Int).Mul(big96, x), big3072),
		)
	default:
		x = new(big.Int).Add(
			new(big.Int).Div(new(big.Int).Mul(x, x), big.NewInt(16)),
			new(big.Int).Sub(new(big.Int).Mul(big480, x), big199680),
		)
	}
	return x
}

func (c *bigModExp) Run(input []byte) ([]byte, error) {
	baseLen, expLen, modLen, rest := modExpLengths(input)
	bLen, eLen, mLen := baseLen.Uint64(), expLen.Uint64(), modLen.Uint64()
	if bLen == 0 && mLen == 0 {
		return []byte{}, nil
	}
	base := new(big.Int).SetBytes(getData(rest, 0, bLen))
	exp := new(big.Int).SetBytes(getData(rest, bLen, eLen))
	mod := new(big.Int).SetBytes(getData(rest, bLen+eLen, mLen))
	if mod.BitLen() == 0 {
		return common.LeftPadBytes(nil, int(mLen)), nil
	}
	return common.LeftPadBytes(base.Exp(base, exp, mod).Bytes(), int(mLen)), nil
}

// === BN256 (0x06 - 0x08) ===

func newCurvePoint(blob []byte) (*bn256.G1, error) {
	p := new(bn256.G1)
	if _, err := p.Unmarshal(blob); err != nil {
		return nil, err
	}
	return p, nil
}

func newTwistPoint(blob []byte) (*bn256.G2, error) {
	p := new(bn256.G2)
	if _, err := p.Unmarshal(blob); err != nil {
		return nil, err
	}
	return p, nil
}

type bn256Add struct{}

func (c *bn256Add) RequiredGas(fs *FeeSchedule, input []byte) uint64 {
	return fs.Bn256Add
}

func (c *bn256Add) Run(input []byte) ([]byte, error) {
	x, err := newCurvePoint(getData(input, 0, 64))
	if err != nil {
		return nil, err
	}
	y, err := newCurvePoint(getData(input, 64, 64))
	if err != nil {
		return nil, err
	}
	res := new(bn256.G1)
	res.Add(x, y)
	return res.Marshal(), nil
}

type bn256ScalarMul struct{}

func (c *bn256ScalarMul) RequiredGas(fs *FeeSchedule, input []byte) uint64 {
	return fs.Bn256ScalarMul
}

func (c *bn256ScalarMul) Run(input []byte) ([]byte, error) {
	p, err := newCurvePoint(getData(input, 0, 64))
	if err != nil {
		return nil, err
	}
	res := new(bn256.G1)
	res.ScalarMult(p, new(big.Int).SetBytes(getData(input, 64, 32)))
	return res.Marshal(), nil
}

type bn256Pairing struct{}

func (c *bn256Pairing) RequiredGas(fs *FeeSchedule, input []byte) uint64 {
	return fs.Bn256PairingBase + uint64(len(input)/192)*fs.Bn256PairingPerPoint
}

// Run returns a 32-byte one when the pairing product is the identity.
func (c *bn256Pairing) Run(input []byte) ([]byte, error) {
	if len(input)%192 > 0 {
		return nil, errBadPairingInput
	}
	var (
		cs []*bn256.G1
		ts []*bn256.G2
	)
	for i := 0; i < len(input); i += 192 {
		p, err := newCurvePoint(input[i : i+64])
		if err != nil {
			return nil, err
		}
		t, err := newTwistPoint(input[i+64 : i+192])
		if err != nil {
			return nil, err
		}
		cs = append(cs, p)
		ts = append(ts, t)
	}
	if bn256.PairingCheck(cs, ts) {
		return common.LeftPadBytes([]byte{1}, 32), nil
	}
	return make([]byte, 32), nil
}
