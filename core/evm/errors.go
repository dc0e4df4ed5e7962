package evm

import (
	"errors"
	"fmt"

	"github.com/XDagger/xdagj-sub001/core/types"
)

// Execution errors. Every error that halts a frame unwraps to one of these.
var (
	ErrStackUnderflow        = errors.New("stack underflow")
	ErrStackOverflow         = errors.New("stack overflow")
	ErrOutOfGas              = errors.New("out of gas")
	ErrGasUintOverflow       = errors.New("gas uint64 overflow")
	ErrBadJumpDestination    = errors.New("bad jump destination")
	ErrIllegalOperation      = errors.New("illegal operation")
	ErrStaticCallViolation   = errors.New("state modification in static call")
	ErrReturnDataOutOfBounds = errors.New("return data out of bounds")
	ErrAddressCollision      = errors.New("contract address collision")
	ErrCodeSizeLimit         = errors.New("max code size exceeded")
	ErrPrecompileFailure     = errors.New("precompiled contract failed")
	ErrInvalidArgument       = errors.New("invalid argument")
)

// StackUnderflowError is returned when an instruction needs more operands
// than the stack holds.
type StackUnderflowError struct {
	Required  int
	Available int
}

func (e *StackUnderflowError) Error() string {
	return fmt.Sprintf("stack underflow: required %d, available %d", e.Required, e.Available)
}

func (e *StackUnderflowError) Unwrap() error { return ErrStackUnderflow }

// StackOverflowError is returned when an instruction would grow the stack
// past its limit.
type StackOverflowError struct {
	Size  int
	Limit int
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("stack overflow: size %d, limit %d", e.Size, e.Limit)
}

func (e *StackOverflowError) Unwrap() error { return ErrStackOverflow }

// InvalidOpcodeError is returned for undefined or disabled opcodes.
type InvalidOpcodeError struct {
	Op OpCode
	PC uint64
}

func (e *InvalidOpcodeError) Error() string {
	return fmt.Sprintf("invalid opcode %s at pc %d", e.Op, e.PC)
}

func (e *InvalidOpcodeError) Unwrap() error { return ErrIllegalOperation }

// BadJumpError is returned when a jump targets anything but a JUMPDEST.
type BadJumpError struct {
	Dest types.Word
}

func (e *BadJumpError) Error() string {
	return fmt.Sprintf("bad jump destination %s", e.Dest)
}

func (e *BadJumpError) Unwrap() error { return ErrBadJumpDestination }

// OutOfGasError is returned when a charge exceeds the remaining gas.
type OutOfGasError struct {
	Cause     string
	Cost      uint64
	Available uint64
}

func (e *OutOfGasError) Error() string {
	return fmt.Sprintf("out of gas: %s costs %d, available %d", e.Cause, e.Cost, e.Available)
}

func (e *OutOfGasError) Unwrap() error { return ErrOutOfGas }

var errorKinds = []struct {
	err  error
	kind types.ExceptionKind
}{
	{ErrStackUnderflow, types.ExceptionStackUnderflow},
	{ErrStackOverflow, types.ExceptionStackOverflow},
	{ErrOutOfGas, types.ExceptionOutOfGas},
	{ErrGasUintOverflow, types.ExceptionOutOfGas},
	{ErrBadJumpDestination, types.ExceptionBadJumpDestination},
	{ErrIllegalOperation, types.ExceptionIllegalOperation},
	{ErrStaticCallViolation, types.ExceptionStaticCallViolation},
	{ErrReturnDataOutOfBounds, types.ExceptionReturnDataOutOfBounds},
	{ErrAddressCollision, types.ExceptionAddressCollision},
	{ErrCodeSizeLimit, types.ExceptionCodeSizeLimit},
	{ErrPrecompileFailure, types.ExceptionPrecompileFailure},
	{ErrInvalidArgument, types.ExceptionInvalidArgument},
	{types.ErrSignExtendPosition, types.ExceptionInvalidArgument},
}

// KindOf classifies an execution error. A nil error maps to ExceptionNone.
func KindOf(err error) types.ExceptionKind {
	if err == nil {
		return types.ExceptionNone
	}
	for _, ek := range errorKinds {
		if errors.Is(err, ek.err) {
			return ek.kind
		}
	}
	return types.ExceptionIllegalOperation
}
