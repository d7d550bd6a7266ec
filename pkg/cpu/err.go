package cpu

import (
	"errors"
	"fmt"

	"github.com/oisee/sim8085/pkg/translate"
)

var f = translate.From

// ErrIllegalOpcode is matched by every *IllegalOpcodeError.
var ErrIllegalOpcode = errors.New(f("illegal opcode"))

// IllegalOpcodeError records the fail-stop on an unassigned opcode byte.
type IllegalOpcodeError struct {
	Op   uint8  // The offending byte
	Addr uint16 // Address it was fetched from
}

func (e *IllegalOpcodeError) Error() string {
	return f("%v %02Xh at %04Xh", ErrIllegalOpcode, e.Op, e.Addr)
}

func (e *IllegalOpcodeError) Unwrap() error {
	return ErrIllegalOpcode
}

// HaltReason tells why the processor stopped.
type HaltReason uint8

const (
	Running         HaltReason = iota
	HaltInstruction            // HLT executed
	HaltIllegal                // fail-stop on an unassigned opcode
)

func (r HaltReason) String() string {
	switch r {
	case Running:
		return "running"
	case HaltInstruction:
		return "halted"
	case HaltIllegal:
		return "illegal opcode"
	}
	return fmt.Sprintf("HaltReason(%d)", uint8(r))
}
