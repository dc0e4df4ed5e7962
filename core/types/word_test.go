package types

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var two256 = new(big.Int).Lsh(big.NewInt(1), 256)

func TestWordFromBytesLeftPads(t *testing.T) {
	w := WordFromBytes([]byte{0x01, 0x02})
	b := w.Bytes()
	require.Len(t, b, 32)
	assert.Equal(t, byte(0x01), b[30])
	assert.Equal(t, byte(0x02), b[31])
	assert.Equal(t, uint64(0x0102), w.Uint64())

	long := make([]byte, 40)
	long[39] = 7
	long[0] = 0xff
	assert.Equal(t, uint64(7), WordFromBytes(long).Uint64())
}

func TestWordAddWraps(t *testing.T) {
	assert.True(t, MaxWord.Add(OneWord).IsZero())
	assert.Equal(t, MaxWord, ZeroWord.Sub(OneWord))

	a := WordFromHex("0x9999999999999999999999999999999999999999999999999999999999999999")
	b := WordFromHex("0x8888888888888888888888888888888888888888888888888888888888888888")
	want := new(big.Int).Add(a.Big(), b.Big())
	want.Mod(want, two256)
	assert.Equal(t, 0, want.Cmp(a.Add(b).Big()))
}

func TestWordMulOverflow(t *testing.T) {
	x := WordFromHex("0x0100") // 2^8
	y := WordFromHex("0x0100000000000000000000000000000000000000000000000000000000000000")
	assert.True(t, x.Mul(y).IsZero())
}

func TestWordDivisionByZero(t *testing.T) {
	x := WordFromUint64(12345)
	assert.True(t, x.Div(ZeroWord).IsZero())
	assert.True(t, x.Mod(ZeroWord).IsZero())
	assert.True(t, x.SDiv(ZeroWord).IsZero())
	assert.True(t, x.SMod(ZeroWord).IsZero())
	assert.True(t, MaxWord.Div(ZeroWord).IsZero())
}

func TestWordSignedDivision(t *testing.T) {
	minus300 := WordFromUint64(300).Neg()
	got := minus300.SDiv(WordFromUint64(15))
	assert.Equal(t, WordFromUint64(20).Neg(), got)
	assert.Equal(t, -1, got.Sign())
	assert.Equal(t, "0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffec", got.Hex())

	// Remainder takes the sign of the dividend.
	assert.Equal(t, WordFromUint64(2).Neg(), WordFromUint64(8).Neg().SMod(WordFromUint64(3)))
}

func TestWordAddMod(t *testing.T) {
	cases := [][3]string{
		{"9999999999999999999999999999999999999999999999999999999999999999",
			"8888888888888888888888888888888888888888888888888888888888888888",
			"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
		{"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
			"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff",
			"ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"},
	}
	for _, c := range cases {
		a, b, m := WordFromHex(c[0]), WordFromHex(c[1]), WordFromHex(c[2])
		want := new(big.Int).Add(a.Big(), b.Big())
		want.Mod(want, m.Big())
		assert.Equal(t, 0, want.Cmp(a.AddMod(b, m).Big()), "addmod(%s, %s, %s)", c[0], c[1], c[2])
	}
	assert.True(t, MaxWord.AddMod(OneWord, ZeroWord).IsZero())
}

func TestWordMulMod(t *testing.T) {
	x := WordFromHex("9999999999999999999999999999999999999999999999999999999999999999")
	m := WordFromHex("9999999999999999999999999999999999999999999999999999999999999998")
	assert.Equal(t, OneWord, x.MulMod(OneWord, m))
	assert.True(t, x.MulMod(OneWord, x).IsZero())
	assert.True(t, x.MulMod(MaxWord, ZeroWord).IsZero())
	assert.True(t, ZeroWord.MulMod(x, MaxWord).IsZero())
}

func TestWordExp(t *testing.T) {
	assert.Equal(t, WordFromUint64(1024), WordFromUint64(2).Exp(WordFromUint64(10)))
	assert.True(t, WordFromUint64(2).Exp(WordFromUint64(256)).IsZero())
	assert.Equal(t, OneWord, MaxWord.Exp(ZeroWord))
}

func TestWordSignExtend(t *testing.T) {
	x := WordFromHex("f2")
	got, err := x.SignExtend(ZeroWord)
	require.NoError(t, err)
	assert.Equal(t, "0xfffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff2", got.Hex())

	x = WordFromHex("0f00ab")
	got, err = x.SignExtend(WordFromUint64(1))
	require.NoError(t, err)
	assert.Equal(t, "0x00000000000000000000000000000000000000000000000000000000000000ab", got.Hex())

	x = WordFromHex("ffaa")
	got, err = x.SignExtend(WordFromUint64(31))
	require.NoError(t, err)
	assert.Equal(t, x, got)

	_, err = x.SignExtend(WordFromUint64(32))
	assert.ErrorIs(t, err, ErrSignExtendPosition)
}

func TestWordByte(t *testing.T) {
	x := WordFromHex("0x0102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f20")
	assert.Equal(t, WordFromUint64(0x01), x.Byte(ZeroWord))
	assert.Equal(t, WordFromUint64(0x20), x.Byte(WordFromUint64(31)))
	assert.True(t, x.Byte(WordFromUint64(32)).IsZero())
	assert.True(t, x.Byte(MaxWord).IsZero())
}

func TestWordShifts(t *testing.T) {
	top := WordFromHex("0x8000000000000000000000000000000000000000000000000000000000000000")
	assert.Equal(t, top, OneWord.Shl(WordFromUint64(0xff)))
	assert.True(t, OneWord.Shl(WordFromUint64(0x100)).IsZero())
	assert.True(t, OneWord.Shl(MaxWord).IsZero())

	assert.Equal(t, OneWord, top.Shr(WordFromUint64(0xff)))
	assert.True(t, top.Shr(WordFromUint64(0x100)).IsZero())

	for _, n := range []uint64{0, 1, 0xff, 0x100, 0x101} {
		assert.Equal(t, MaxWord, MaxWord.Sar(WordFromUint64(n)), "sar by %d", n)
	}
	assert.Equal(t, MaxWord, MaxWord.Sar(MaxWord))
	assert.Equal(t, MaxWord, top.Sar(WordFromUint64(0xff)))
	assert.True(t, WordFromUint64(0x7f).Sar(WordFromUint64(0x100)).IsZero())
}

func TestWordComparisons(t *testing.T) {
	one, two := OneWord, WordFromUint64(2)
	assert.True(t, one.Lt(two))
	assert.True(t, two.Gt(one))
	assert.True(t, MaxWord.Gt(one))
	assert.True(t, MaxWord.Slt(one), "-1 < 1 signed")
	assert.True(t, one.Sgt(MaxWord))
	assert.True(t, one.Eq(WordFromUint64(1)))
	assert.Equal(t, 0, one.Cmp(OneWord))
}

func TestWordBitwise(t *testing.T) {
	a := WordFromUint64(0b1100)
	b := WordFromUint64(0b1010)
	assert.Equal(t, WordFromUint64(0b1000), a.And(b))
	assert.Equal(t, WordFromUint64(0b1110), a.Or(b))
	assert.Equal(t, WordFromUint64(0b0110), a.Xor(b))
	assert.Equal(t, MaxWord, ZeroWord.Not())
}

func TestWordConversions(t *testing.T) {
	assert.Equal(t, 0, ZeroWord.BytesOccupied())
	assert.Equal(t, 2, WordFromUint64(0x100).BytesOccupied())
	assert.Equal(t, 32, MaxWord.BytesOccupied())

	assert.Equal(t, 1<<31-1, MaxWord.IntSafe())
	assert.Equal(t, 5, WordFromUint64(5).IntSafe())
	assert.False(t, MaxWord.IsUint64())

	addr := HexToAddress("0x0102030405060708090a0b0c0d0e0f1011121314")
	assert.Equal(t, addr, WordFromAddress(addr).Address())
	assert.Equal(t, WordFromBig(big.NewInt(-1)), MaxWord)
}
