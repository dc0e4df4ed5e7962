// Package asm translates between bytecode and a whitespace-separated
// mnemonic form such as "PUSH1 0x01 PUSH1 0x00 SSTORE".
//
// A PUSHn mnemonic takes the following 0x-prefixed token as its immediate,
// left-padded to n bytes. A bare 0x token is pushed with the smallest PUSH
// that holds it. "[0xNN]" emits a raw byte.
package asm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/XDagger/xdagj-sub001/core/evm"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

var (
	ErrUnknownToken      = errors.New("unknown token")
	ErrMissingImmediate  = errors.New("push without immediate")
	ErrImmediateTooLarge = errors.New("immediate does not fit the push")
)

// Compile assembles src into bytecode.
func Compile(src string) ([]byte, error) {
	var code []byte
	tokens := strings.Fields(src)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case strings.HasPrefix(tok, "[") && strings.HasSuffix(tok, "]"):
			b, err := hexutil.Decode(tok[1 : len(tok)-1])
			if err != nil || len(b) != 1 {
				return nil, fmt.Errorf("token %d %q: %w", i, tok, ErrUnknownToken)
			}
			code = append(code, b[0])

		case has0xPrefix(tok):
			imm := trimLeadingZeros(common.FromHex(tok))
			if len(imm) == 0 {
				imm = []byte{0}
			}
			if len(imm) > 32 {
				return nil, fmt.Errorf("token %d %q: %w", i, tok, ErrImmediateTooLarge)
			}
			code = append(code, byte(evm.PUSH1)+byte(len(imm)-1))
			code = append(code, imm...)

		default:
			op, ok := evm.OpCodeByName(strings.ToUpper(tok))
			if !ok {
				return nil, fmt.Errorf("token %d %q: %w", i, tok, ErrUnknownToken)
			}
			code = append(code, byte(op))
			if !op.IsPush() {
				continue
			}
			if i+1 >= len(tokens) || !has0xPrefix(tokens[i+1]) {
				return nil, fmt.Errorf("token %d %q: %w", i, tok, ErrMissingImmediate)
			}
			i++
			imm := trimLeadingZeros(common.FromHex(tokens[i]))
			if len(imm) > op.PushBytes() {
				return nil, fmt.Errorf("token %d %q: %w", i, tokens[i], ErrImmediateTooLarge)
			}
			code = append(code, common.LeftPadBytes(imm, op.PushBytes())...)
		}
	}
	return code, nil
}

// MustCompile is like Compile but panics on error. It is meant for tests.
func MustCompile(src string) []byte {
	code, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return code
}

// Instruction is one decoded instruction.
type Instruction struct {
	PC  uint64
	Op  evm.OpCode
	Arg []byte // push immediate, truncated at the end of the code
}

// Valid reports whether the opcode is defined.
func (in Instruction) Valid() bool {
	return evm.OpTable[in.Op].Valid
}

func (in Instruction) String() string {
	switch {
	case !in.Valid():
		return fmt.Sprintf("[0x%02x]", byte(in.Op))
	case in.Op.IsPush():
		return fmt.Sprintf("%s 0x%x", in.Op, in.Arg)
	default:
		return in.Op.String()
	}
}

// Disassemble splits code into instructions.
func Disassemble(code []byte) []Instruction {
	var out []Instruction
	for pc := 0; pc < len(code); {
		op := evm.OpCode(code[pc])
		in := Instruction{PC: uint64(pc), Op: op}
		pc++
		if n := op.PushBytes(); n > 0 {
			end := pc + n
			if end > len(code) {
				end = len(code)
			}
			in.Arg = common.CopyBytes(code[pc:end])
			pc += n
		}
		out = append(out, in)
	}
	return out
}

// Decompile renders code in the form accepted by Compile. Undefined bytes
// are printed as [0xNN].
func Decompile(code []byte) string {
	instrs := Disassemble(code)
	parts := make([]string, len(instrs))
	for i, in := range instrs {
		parts[i] = in.String()
	}
	return strings.Join(parts, " ")
}

func has0xPrefix(s string) bool {
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func trimLeadingZeros(b []byte) []byte {
	for len(b) > 0 && b[0] == 0 {
		b = b[1:]
	}
	return b
}
