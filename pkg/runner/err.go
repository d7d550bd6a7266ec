package runner

import (
	"errors"

	"github.com/oisee/sim8085/pkg/translate"
)

var f = translate.From

var (
	ErrStepLimit  = errors.New(f("step limit reached"))
	ErrBreakpoint = errors.New(f("breakpoint"))
)

// BreakpointError reports the address a run stopped at.
type BreakpointError struct {
	Addr uint16
}

func (e *BreakpointError) Error() string {
	return f("breakpoint at %04Xh", e.Addr)
}

func (e *BreakpointError) Is(target error) bool {
	return target == ErrBreakpoint
}
