// Package types implements the value types shared by the execution engine:
// the 256-bit Word, addresses, transactions, logs and receipts.
package types

import (
	"errors"
	"math"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// WordSize is the width of a Word in bytes.
const WordSize = 32

// ErrSignExtendPosition is returned when a sign extension is requested from a
// byte position outside [0, 31].
var ErrSignExtendPosition = errors.New("sign extension byte position out of range")

// Word is an immutable 256-bit value. It is interpreted as unsigned
// (arithmetic mod 2^256) or as two's-complement signed, depending on the
// operation. Every method returns a new Word and leaves the receiver intact.
type Word struct {
	n uint256.Int
}

var (
	// ZeroWord is the Word with every bit clear.
	ZeroWord = Word{}
	// OneWord is the Word holding 1.
	OneWord = WordFromUint64(1)
	// MaxWord is the Word with every bit set (2^256-1, or -1 signed).
	MaxWord = Word{n: *new(uint256.Int).SetAllOne()}
)

// WordFromUint64 creates a Word from a uint64.
func WordFromUint64(v uint64) Word {
	var w Word
	w.n.SetUint64(v)
	return w
}

// WordFromBytes creates a Word from a big-endian byte slice. Shorter input is
// left-padded with zero bytes; longer input keeps the low 32 bytes.
func WordFromBytes(b []byte) Word {
	if len(b) > WordSize {
		b = b[len(b)-WordSize:]
	}
	var w Word
	w.n.SetBytes(b)
	return w
}

// WordFromBig creates a Word from a big.Int, reducing it mod 2^256. Negative
// values map to their two's-complement representation.
func WordFromBig(b *big.Int) Word {
	var w Word
	if b == nil {
		return w
	}
	w.n.SetFromBig(b)
	return w
}

// WordFromHex parses a hex string (with or without 0x prefix).
func WordFromHex(s string) Word {
	return WordFromBytes(common.FromHex(s))
}

// WordFromInt creates a Word from a uint256.Int.
func WordFromInt(x *uint256.Int) Word {
	var w Word
	w.n.Set(x)
	return w
}

// WordFromAddress creates a Word holding the address right-aligned.
func WordFromAddress(a Address) Word {
	return WordFromBytes(a[:])
}

// WordFromHash creates a Word from a 32-byte hash.
func WordFromHash(h Hash) Word {
	return WordFromBytes(h[:])
}

// WordFromBool returns OneWord for true and ZeroWord for false.
func WordFromBool(b bool) Word {
	if b {
		return OneWord
	}
	return ZeroWord
}

// === Conversions ===

// Bytes32 returns the 32-byte big-endian representation.
func (w Word) Bytes32() [WordSize]byte {
	return w.n.Bytes32()
}

// Bytes returns the 32-byte big-endian representation as a slice.
func (w Word) Bytes() []byte {
	b := w.n.Bytes32()
	return b[:]
}

// NoLeadZeroes returns the minimal big-endian representation.
func (w Word) NoLeadZeroes() []byte {
	return w.n.Bytes()
}

// Address returns the low 20 bytes as an address.
func (w Word) Address() Address {
	return Address(w.n.Bytes20())
}

// Hash returns the Word as a 32-byte hash.
func (w Word) Hash() Hash {
	return Hash(w.n.Bytes32())
}

// Uint64 returns the low 64 bits.
func (w Word) Uint64() uint64 {
	return w.n.Uint64()
}

// IsUint64 reports whether the value fits in 64 bits.
func (w Word) IsUint64() bool {
	return w.n.IsUint64()
}

// Uint64Safe returns the value, or math.MaxUint64 when it does not fit.
func (w Word) Uint64Safe() uint64 {
	if !w.n.IsUint64() {
		return math.MaxUint64
	}
	return w.n.Uint64()
}

// IntSafe returns the value clamped to math.MaxInt32.
func (w Word) IntSafe() int {
	if !w.n.IsUint64() || w.n.Uint64() > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(w.n.Uint64())
}

// Int64Safe returns the value clamped to math.MaxInt64.
func (w Word) Int64Safe() int64 {
	if !w.n.IsUint64() || w.n.Uint64() > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(w.n.Uint64())
}

// Big returns the unsigned value as a big.Int.
func (w Word) Big() *big.Int {
	return w.n.ToBig()
}

// Int returns a copy of the value as a uint256.Int.
func (w Word) Int() *uint256.Int {
	return new(uint256.Int).Set(&w.n)
}

// BytesOccupied returns the number of bytes needed to hold the value.
func (w Word) BytesOccupied() int {
	return w.n.ByteLen()
}

// Hex returns the full 32-byte hex encoding with 0x prefix.
func (w Word) Hex() string {
	return hexutil.Encode(w.Bytes())
}

// String implements fmt.Stringer.
func (w Word) String() string {
	return w.n.Hex()
}

// === Arithmetic ===

// Add returns w + y mod 2^256.
func (w Word) Add(y Word) Word {
	var r Word
	r.n.Add(&w.n, &y.n)
	return r
}

// Sub returns w - y mod 2^256.
func (w Word) Sub(y Word) Word {
	var r Word
	r.n.Sub(&w.n, &y.n)
	return r
}

// Mul returns w * y mod 2^256.
func (w Word) Mul(y Word) Word {
	var r Word
	r.n.Mul(&w.n, &y.n)
	return r
}

// Div returns the unsigned quotient w / y, or zero when y is zero.
func (w Word) Div(y Word) Word {
	var r Word
	r.n.Div(&w.n, &y.n)
	return r
}

// SDiv returns the signed quotient w / y truncated toward zero, or zero
// when y is zero.
func (w Word) SDiv(y Word) Word {
	var r Word
	r.n.SDiv(&w.n, &y.n)
	return r
}

// Mod returns the unsigned remainder w % y, or zero when y is zero.
func (w Word) Mod(y Word) Word {
	var r Word
	r.n.Mod(&w.n, &y.n)
	return r
}

// SMod returns the signed remainder, taking the sign of w, or zero when y is
// zero.
func (w Word) SMod(y Word) Word {
	var r Word
	r.n.SMod(&w.n, &y.n)
	return r
}

// AddMod returns (w + y) % m computed without intermediate overflow, or zero
// when m is zero.
func (w Word) AddMod(y, m Word) Word {
	var r Word
	r.n.AddMod(&w.n, &y.n, &m.n)
	return r
}

// MulMod returns (w * y) % m computed without intermediate overflow, or zero
// when m is zero.
func (w Word) MulMod(y, m Word) Word {
	var r Word
	r.n.MulMod(&w.n, &y.n, &m.n)
	return r
}

// Exp returns w ** e mod 2^256.
func (w Word) Exp(e Word) Word {
	var r Word
	r.n.Exp(&w.n, &e.n)
	return r
}

// SignExtend extends the two's-complement number stored in the low k+1 bytes
// of w to the full width.
func (w Word) SignExtend(k Word) (Word, error) {
	if !k.n.IsUint64() || k.n.Uint64() > 31 {
		return w, ErrSignExtendPosition
	}
	var r Word
	r.n.ExtendSign(&w.n, &k.n)
	return r, nil
}

// Neg returns the two's-complement negation of w.
func (w Word) Neg() Word {
	var r Word
	r.n.Neg(&w.n)
	return r
}

// === Bitwise ===

// And returns w & y.
func (w Word) And(y Word) Word {
	var r Word
	r.n.And(&w.n, &y.n)
	return r
}

// Or returns w | y.
func (w Word) Or(y Word) Word {
	var r Word
	r.n.Or(&w.n, &y.n)
	return r
}

// Xor returns w ^ y.
func (w Word) Xor(y Word) Word {
	var r Word
	r.n.Xor(&w.n, &y.n)
	return r
}

// Not returns the bitwise complement of w.
func (w Word) Not() Word {
	var r Word
	r.n.Not(&w.n)
	return r
}

// Byte returns the i-th byte of w counting from the most significant end,
// or zero when i is outside [0, 31].
func (w Word) Byte(i Word) Word {
	r := w
	r.n.Byte(&i.n)
	return r
}

// Shl returns w << n. Shifts of 256 or more yield zero.
func (w Word) Shl(n Word) Word {
	var r Word
	if !n.n.LtUint64(256) {
		return r
	}
	r.n.Lsh(&w.n, uint(n.n.Uint64()))
	return r
}

// Shr returns the logical right shift w >> n. Shifts of 256 or more yield
// zero.
func (w Word) Shr(n Word) Word {
	var r Word
	if !n.n.LtUint64(256) {
		return r
	}
	r.n.Rsh(&w.n, uint(n.n.Uint64()))
	return r
}

// Sar returns the arithmetic right shift of w by n. Shifts of 256 or more
// yield zero for non-negative w and all ones for negative w.
func (w Word) Sar(n Word) Word {
	if !n.n.LtUint64(256) {
		if w.n.Sign() >= 0 {
			return ZeroWord
		}
		return MaxWord
	}
	var r Word
	r.n.SRsh(&w.n, uint(n.n.Uint64()))
	return r
}

// === Comparison ===

// IsZero reports whether w is zero.
func (w Word) IsZero() bool {
	return w.n.IsZero()
}

// Eq reports whether w == y.
func (w Word) Eq(y Word) bool {
	return w.n.Eq(&y.n)
}

// Lt reports whether w < y as unsigned integers.
func (w Word) Lt(y Word) bool {
	return w.n.Lt(&y.n)
}

// Gt reports whether w > y as unsigned integers.
func (w Word) Gt(y Word) bool {
	return w.n.Gt(&y.n)
}

// Slt reports whether w < y as signed integers.
func (w Word) Slt(y Word) bool {
	return w.n.Slt(&y.n)
}

// Sgt reports whether w > y as signed integers.
func (w Word) Sgt(y Word) bool {
	return w.n.Sgt(&y.n)
}

// Cmp compares w and y as unsigned integers and returns -1, 0 or +1.
func (w Word) Cmp(y Word) int {
	return w.n.Cmp(&y.n)
}

// Sign returns -1, 0 or +1 for the signed interpretation of w.
func (w Word) Sign() int {
	return w.n.Sign()
}
