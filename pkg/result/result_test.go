package result

import (
	"bytes"
	"path/filepath"
	"sync"
	"testing"

	"github.com/oisee/sim8085/pkg/cpu"
	"github.com/oisee/sim8085/pkg/inst"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceLimit(t *testing.T) {
	assert := assert.New(t)

	tr := NewTrace(3)
	for i := uint64(1); i <= 5; i++ {
		tr.Add(Step{N: i, PC: uint16(i)})
	}
	assert.Equal(3, tr.Len())
	steps := tr.Steps()
	assert.Equal([]uint64{3, 4, 5}, []uint64{steps[0].N, steps[1].N, steps[2].N})
}

func TestTraceConcurrentAdd(t *testing.T) {
	tr := NewTrace(0)
	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				tr.Add(Step{N: uint64(w*100 + i)})
			}
		}(w)
	}
	wg.Wait()
	steps := tr.Steps()
	require.Len(t, steps, 400)
	for i := range steps {
		assert.Equal(t, uint64(i), steps[i].N)
	}
}

func TestStepText(t *testing.T) {
	s := Step{Instr: inst.Instruction{Op: inst.MVI_A, Imm: 0x25}}
	assert.Equal(t, "MVI A, 25H", s.Text())
}

func TestCheckpointRoundTrip(t *testing.T) {
	assert := assert.New(t)

	c := cpu.New()
	c.Load(0x100, []byte{0x3E, 0x42, 0xD3, 0x07, 0xDD})
	c.PC = 0x100
	for !c.Halted {
		c.Step()
	}
	require.Equal(t, cpu.HaltIllegal, c.Reason())

	path := filepath.Join(t.TempDir(), "machine.ckpt")
	require.NoError(t, SaveCheckpoint(path, Capture(c, 3)))

	ckpt, err := LoadCheckpoint(path)
	require.NoError(t, err)
	assert.Equal(uint64(3), ckpt.Steps)

	d := cpu.New()
	ckpt.Restore(d)
	assert.Equal(c.Registers, d.Registers)
	assert.Equal(c.Flags, d.Flags)
	assert.Equal(c.Memory, d.Memory)
	assert.Equal(uint8(0x42), d.Ports[7])
	assert.True(d.Halted)
	assert.Equal(cpu.HaltIllegal, d.Reason())
	assert.ErrorIs(d.Err(), cpu.ErrIllegalOpcode)
	assert.Equal(c.Err().Error(), d.Err().Error())
}

func TestCheckpointIsACopy(t *testing.T) {
	c := cpu.New()
	ckpt := Capture(c, 0)
	c.Poke(0, 0xFF)
	assert.Equal(t, uint8(0), ckpt.Memory[0])
}

func TestLoadCheckpointMissing(t *testing.T) {
	_, err := LoadCheckpoint(filepath.Join(t.TempDir(), "none"))
	assert.Error(t, err)
}

func TestReport(t *testing.T) {
	assert := assert.New(t)

	c := cpu.New()
	c.Load(0, []byte{0x3E, 0x25, 0x06, 0x35, 0x80, 0xD3, 0x01, 0x76})
	for !c.Halted {
		c.Step()
	}
	r := NewReport(c.State(), 5)
	r.AddDump(c.State(), 0xFFFF, 3)
	assert.Equal(uint8(0x5A), r.A)
	assert.Equal(uint16(8), r.PC)
	assert.Equal("halted", r.Reason)
	assert.Empty(r.Fault)
	assert.Equal(map[uint8]uint8{1: 0x5A}, r.Ports)
	assert.Equal("00"+"3e25", r.Memory[0].Hex)

	var buf bytes.Buffer
	require.NoError(t, r.WriteJSON(&buf))
	assert.Contains(buf.String(), `"reason": "halted"`)

	back, err := ReadReport(&buf)
	require.NoError(t, err)
	assert.Equal(r, back)
}
