package asm

import (
	"errors"

	"github.com/oisee/sim8085/pkg/translate"
)

var f = translate.From

var (
	ErrOpcodeUnknown   = errors.New(f("unknown mnemonic"))
	ErrOperandCount    = errors.New(f("wrong operand count"))
	ErrOperandInvalid  = errors.New(f("invalid operand"))
	ErrValueRange      = errors.New(f("value out of range"))
	ErrOrgBackwards    = errors.New(f("ORG below program origin"))
	ErrAddressOverflow = errors.New(f("address beyond FFFFh"))
	ErrEquateName      = errors.New(f("EQU without a name"))
	ErrExpression      = errors.New(f("bad expression"))
	ErrCharLiteral     = errors.New(f("bad character literal"))
)

// ErrSymbolUndefined names a label or equate used before it has a value.
type ErrSymbolUndefined string

func (e ErrSymbolUndefined) Error() string {
	return f("symbol %v undefined", string(e))
}

// ErrSymbolDuplicate names a label or equate defined twice.
type ErrSymbolDuplicate string

func (e ErrSymbolDuplicate) Error() string {
	return f("symbol %v duplicated", string(e))
}

// ErrNumber is a numeric literal that does not parse.
type ErrNumber string

func (e ErrNumber) Error() string {
	return f("bad number %v", string(e))
}

// LineError ties an assembly error to its 1-based source line.
type LineError struct {
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return f("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
