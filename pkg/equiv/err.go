package equiv

import (
	"errors"

	"github.com/oisee/sim8085/pkg/inst"
	"github.com/oisee/sim8085/pkg/translate"
)

var f = translate.From

var (
	ErrControlFlow = errors.New(f("sequence is not straight-line"))
	ErrCodeRead    = errors.New(f("sequence reads its own code"))
)

// ControlFlowError names the instruction that breaks a straight line.
type ControlFlowError struct {
	Instr inst.Instruction
}

func (e *ControlFlowError) Error() string {
	return f("%v: %v", ErrControlFlow, inst.Disassemble(e.Instr))
}

func (e *ControlFlowError) Is(target error) bool {
	return target == ErrControlFlow
}

// CodeReadError names a direct load from the area holding the sequences.
type CodeReadError struct {
	Instr inst.Instruction
}

func (e *CodeReadError) Error() string {
	return f("%v: %v", ErrCodeRead, inst.Disassemble(e.Instr))
}

func (e *CodeReadError) Is(target error) bool {
	return target == ErrCodeRead
}
