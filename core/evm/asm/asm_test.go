package asm

import (
	"errors"
	"testing"

	"github.com/XDagger/xdagj-sub001/core/evm"
	"github.com/ethereum/go-ethereum/common"
)

func TestCompile(t *testing.T) {
	cases := []struct {
		src     string
		want    string
		wantErr error
	}{
		{"PUSH1 0x01 PUSH1 0x00 SSTORE", "6001600055", nil},
		{"push1 0x01 push1 0x00 sstore", "6001600055", nil},
		{"PUSH2 0x01", "610001", nil},
		{"0x2a 0x0100 ADD", "602a61010001", nil},
		{"0x00", "6000", nil},
		{"KECCAK256 SELFDESTRUCT", "20ff", nil},
		{"[0xef] STOP", "ef00", nil},
		{"PUSH1", "", ErrMissingImmediate},
		{"PUSH1 ADD", "", ErrMissingImmediate},
		{"PUSH1 0x0100", "", ErrImmediateTooLarge},
		{"BADTOKEN", "", ErrUnknownToken},
		{"[0x0102]", "", ErrUnknownToken},
	}

	for _, c := range cases {
		got, err := Compile(c.src)
		if !errors.Is(err, c.wantErr) {
			t.Errorf("Compile(%s) err = %v want %v", c.src, err, c.wantErr)
			continue
		}
		if c.wantErr != nil {
			continue
		}
		if common.Bytes2Hex(got) != c.want {
			t.Errorf("Compile(%s) = %x want %s", c.src, got, c.want)
		}
	}
}

func TestDecompile(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"6001600055", "PUSH1 0x01 PUSH1 0x00 SSTORE"},
		{"61ffff5b00", "PUSH2 0xffff JUMPDEST STOP"},
		{"ef", "[0xef]"},
		{"6201", "PUSH3 0x01"},
	}

	for _, c := range cases {
		if got := Decompile(common.Hex2Bytes(c.raw)); got != c.want {
			t.Errorf("Decompile(%s) = %q want %q", c.raw, got, c.want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	src := "PUSH1 0x04 JUMP INVALID JUMPDEST PUSH32 0x" +
		"00000000000000000000000000000000000000000000000000000000000000ff CALLER [0x0c] RETURN"
	code := MustCompile(src)
	if got := Decompile(code); got != src {
		t.Errorf("round trip mismatch:\n got %s\nwant %s", got, src)
	}
}

func TestDisassemble(t *testing.T) {
	instrs := Disassemble(MustCompile("PUSH2 0x0102 ADD"))
	if len(instrs) != 2 {
		t.Fatalf("expected 2 instructions, got %d", len(instrs))
	}
	if instrs[0].Op != evm.PUSH2 || instrs[0].PC != 0 || len(instrs[0].Arg) != 2 {
		t.Errorf("unexpected first instruction %+v", instrs[0])
	}
	if instrs[1].Op != evm.ADD || instrs[1].PC != 3 {
		t.Errorf("unexpected second instruction %+v", instrs[1])
	}
}
