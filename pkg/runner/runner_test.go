package runner

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/oisee/sim8085/pkg/cpu"
	"github.com/oisee/sim8085/pkg/result"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countdown: B = n; loop DCR B / JNZ; HLT
func countdown(n uint8) *cpu.CPU {
	c := cpu.New()
	c.Load(0, []byte{
		0x06, n, // MVI B, n
		0x05,             // 0002: DCR B
		0xC2, 0x02, 0x00, // JNZ 0002
		0x76, // HLT
	})
	return c
}

func TestRunToHalt(t *testing.T) {
	assert := assert.New(t)

	c := countdown(3)
	res, err := Run(context.Background(), c, Options{})
	require.NoError(t, err)
	assert.Equal(uint64(1+2*3+1), res.Steps)
	assert.Equal(cpu.HaltInstruction, res.Reason)
	assert.Equal(uint16(7), res.PC)
	assert.Equal(uint8(0), c.B)
}

func TestRunAlreadyHalted(t *testing.T) {
	c := countdown(1)
	c.SetHalted(cpu.HaltInstruction, nil)
	res, err := Run(context.Background(), c, Options{})
	assert.NoError(t, err)
	assert.Zero(t, res.Steps)
}

func TestRunStepLimit(t *testing.T) {
	assert := assert.New(t)

	c := cpu.New()
	c.Load(0, []byte{0xC3, 0x00, 0x00}) // JMP 0
	res, err := Run(context.Background(), c, Options{MaxSteps: 50})
	assert.ErrorIs(err, ErrStepLimit)
	assert.Equal(uint64(50), res.Steps)
	assert.False(c.Halted)
}

func TestRunIllegal(t *testing.T) {
	assert := assert.New(t)

	c := cpu.New()
	c.Load(0, []byte{0x00, 0xCB})
	res, err := Run(context.Background(), c, Options{})
	assert.ErrorIs(err, cpu.ErrIllegalOpcode)
	assert.Equal(cpu.HaltIllegal, res.Reason)
	assert.Equal(uint64(2), res.Steps)
}

func TestRunBreakpointAndResume(t *testing.T) {
	assert := assert.New(t)

	c := countdown(2)
	opts := Options{Breakpoints: []uint16{0x0002}}

	res, err := Run(context.Background(), c, opts)
	assert.ErrorIs(err, ErrBreakpoint)
	var be *BreakpointError
	require.True(t, errors.As(err, &be))
	assert.Equal(uint16(0x0002), be.Addr)
	assert.Equal(uint64(1), res.Steps)

	// resuming skips the breakpoint we are sitting on, then hits it again
	res, err = Run(context.Background(), c, opts)
	assert.ErrorIs(err, ErrBreakpoint)
	assert.Equal(uint64(2), res.Steps)
	assert.Equal(uint8(1), c.B)

	res, err = Run(context.Background(), c, opts)
	assert.NoError(err)
	assert.Equal(uint64(3), res.Steps)
	assert.True(c.Halted)
}

func TestRunCancelled(t *testing.T) {
	c := cpu.New()
	c.Load(0, []byte{0xC3, 0x00, 0x00})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := Run(ctx, c, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, res.Steps)
}

func TestRunTraceAndLog(t *testing.T) {
	assert := assert.New(t)

	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	tr := result.NewTrace(0)

	c := countdown(1)
	_, err := Run(context.Background(), c, Options{Trace: tr, Logger: log})
	require.NoError(t, err)

	steps := tr.Steps()
	require.Len(t, steps, 4)
	assert.Equal("MVI B, 01H", steps[0].Text())
	assert.Equal("DCR B", steps[1].Text())
	assert.Equal(uint16(0x0003), steps[2].PC)
	assert.Equal("HLT", steps[3].Text())

	assert.Contains(logs.String(), "run start")
	assert.Contains(logs.String(), "op=\"JNZ 0002H\"")
	assert.Contains(logs.String(), "run halted")
}

func TestPoolRunJobs(t *testing.T) {
	assert := assert.New(t)

	loop := cpu.New()
	loop.Load(0, []byte{0xC3, 0x00, 0x00})
	jobs := []Job{
		{Name: "three", CPU: countdown(3)},
		{Name: "ten", CPU: countdown(10)},
		{Name: "loop", CPU: loop, Options: Options{MaxSteps: 100}},
	}

	p := NewPool(2)
	results, err := p.RunJobs(context.Background(), jobs)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal("three", results[0].Name)
	assert.NoError(results[0].Err)
	assert.Equal(uint64(8), results[0].Result.Steps)
	assert.Equal(uint64(22), results[1].Result.Steps)
	assert.ErrorIs(results[2].Err, ErrStepLimit)

	n, steps := p.Stats()
	assert.Equal(int64(3), n)
	assert.Equal(int64(8+22+100), steps)
}

func TestPoolCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	results, err := NewPool(0).RunJobs(ctx, []Job{{Name: "a", CPU: countdown(5)}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, results[0].Err, context.Canceled)
}
