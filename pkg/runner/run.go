// Package runner drives a processor: continuous runs with limits,
// breakpoints and tracing, and batches of independent machines.
package runner

import (
	"context"
	"log/slog"

	"github.com/oisee/sim8085/pkg/cpu"
	"github.com/oisee/sim8085/pkg/inst"
	"github.com/oisee/sim8085/pkg/result"
)

// ctxCheckInterval is how many instructions run between context checks.
const ctxCheckInterval = 1024

// Options control a run. The zero value runs until halt with no logging.
type Options struct {
	MaxSteps    uint64 // 0 = unlimited
	Breakpoints []uint16
	Logger      *slog.Logger
	Trace       *result.Trace
}

// Result describes how a run ended.
type Result struct {
	Steps  uint64
	PC     uint16
	Reason cpu.HaltReason
}

// Run steps c until it halts, a breakpoint is reached, the step budget is
// spent or ctx is done. A HLT ends the run without error; an unassigned
// opcode returns the processor's fail-stop error. A breakpoint at the
// starting PC is skipped so a stopped run can be resumed.
func Run(ctx context.Context, c *cpu.CPU, opts Options) (Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	debug := log.Enabled(ctx, slog.LevelDebug)

	breaks := make(map[uint16]bool, len(opts.Breakpoints))
	for _, b := range opts.Breakpoints {
		breaks[b] = true
	}

	log.Info("run start", "pc", c.PC, "sp", c.SP, "max_steps", opts.MaxSteps)

	var steps uint64
	done := func(err error) (Result, error) {
		res := Result{Steps: steps, PC: c.PC, Reason: c.Reason()}
		if err != nil {
			log.Info("run stopped", "pc", c.PC, "steps", steps, "err", err)
		} else {
			log.Info("run halted", "pc", c.PC, "steps", steps, "reason", res.Reason)
		}
		return res, err
	}

	for !c.Halted {
		if steps%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return done(err)
			}
		}
		if opts.MaxSteps > 0 && steps >= opts.MaxSteps {
			return done(ErrStepLimit)
		}
		if steps > 0 && breaks[c.PC] {
			return done(&BreakpointError{Addr: c.PC})
		}

		if opts.Trace != nil || debug {
			s := result.Step{
				N:     steps + 1,
				PC:    c.PC,
				Instr: inst.Decode(c.Memory[:], int(c.PC)),
				A:     c.A,
				Flags: c.Flags.Byte(),
				SP:    c.SP,
			}
			if opts.Trace != nil {
				opts.Trace.Add(s)
			}
			if debug {
				log.Debug("step", "n", s.N, "pc", s.PC, "op", s.Text(), "a", s.A, "f", s.Flags)
			}
		}

		c.Step()
		steps++
	}

	if err := c.Err(); err != nil {
		return done(err)
	}
	return done(nil)
}
