package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/oisee/sim8085/pkg/config"
	"github.com/oisee/sim8085/pkg/cpu"
	"github.com/oisee/sim8085/pkg/inst"
	"github.com/oisee/sim8085/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddrFlag(t *testing.T) {
	assert := assert.New(t)

	var a addrFlag
	require.NoError(t, a.Set("2000H"))
	assert.True(a.set)
	assert.Equal(uint16(0x2000), a.v)
	assert.Equal("2000H", a.String())
	assert.Equal("addr", a.Type())

	assert.Error(a.Set("10000H"))
	assert.Error(a.Set("zz"))

	addrs, err := parseAddrs([]string{"0x10", "32"})
	require.NoError(t, err)
	assert.Equal([]uint16{0x10, 0x20}, addrs)
}

func TestParseSequence(t *testing.T) {
	src, err := parseSequence("MVI A, 25H : ADI 35H :")
	require.NoError(t, err)
	assert.Equal(t, "\tMVI A, 25H\n\tADI 35H\n", src)

	_, err = parseSequence(" : ")
	assert.Error(t, err)
}

func TestLoadProgramFormats(t *testing.T) {
	assert := assert.New(t)
	dir := t.TempDir()

	asmPath := filepath.Join(dir, "add.asm")
	require.NoError(t, os.WriteFile(asmPath, []byte("\tORG 100H\n\tMVI A, 25H\n\tHLT\n"), 0o644))
	c := cpu.New()
	ld, err := loadProgram(c, asmPath, 0)
	require.NoError(t, err)
	assert.Equal(loaded{Origin: 0x100, Entry: 0x100, Size: 3}, ld)
	assert.Equal(uint8(0x3E), c.Peek(0x100))

	hexPath := filepath.Join(dir, "p.hex")
	require.NoError(t, os.WriteFile(hexPath, []byte(":0300300002337A1E\n:00000001FF\n"), 0o644))
	ld, err = loadProgram(c, hexPath, 0)
	require.NoError(t, err)
	assert.Equal(loaded{Origin: 0x30, Entry: 0x30, Size: 3}, ld)

	binPath := filepath.Join(dir, "p.bin")
	require.NoError(t, os.WriteFile(binPath, []byte{0x76}, 0o644))
	ld, err = loadProgram(c, binPath, 0x4000)
	require.NoError(t, err)
	assert.Equal(uint16(0x4000), ld.Entry)
	assert.Equal(uint8(0x76), c.Peek(0x4000))
}

func TestSetupEntryPrecedence(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "p.bin")
	require.NoError(t, os.WriteFile(bin, []byte{0x76}, 0o644))

	var mf machineFlags
	require.NoError(t, mf.org.Set("300H"))
	c, err := mf.setup(config.Default(), []string{bin})
	require.NoError(t, err)
	assert.Equal(t, uint16(0x300), c.PC)

	require.NoError(t, mf.entry.Set("0"))
	c, err = mf.setup(config.Default(), []string{bin})
	require.NoError(t, err)
	assert.Equal(t, uint16(0), c.PC)
}

func TestStateText(t *testing.T) {
	c := cpu.New()
	c.A = 0x5A
	text := stateText(c.State())
	assert.Contains(t, text, "A=5A")
	assert.Contains(t, text, "SP=FFFE PC=0000")
	assert.Contains(t, text, "(status 46H)")
	assert.NotContains(t, text, "Halted")
}

func TestInteractivePiped(t *testing.T) {
	assert := assert.New(t)

	c := cpu.New()
	c.Load(0, []byte{0x3E, 0x25, 0x06, 0x35, 0x80, 0x76})

	r, w, err := os.Pipe()
	require.NoError(t, err)
	_, err = w.WriteString("ss r q")
	require.NoError(t, err)
	w.Close()
	defer r.Close()

	var out bytes.Buffer
	require.NoError(t, interactive(t.Context(), r, &out, c, runner.Options{}))
	assert.True(c.Halted)
	assert.Equal(uint8(0x5A), c.A)
	assert.True(strings.Contains(out.String(), "MVI B, 35H"))
	assert.True(strings.Contains(out.String(), "Halted"))
}

func TestNewStateView(t *testing.T) {
	assert := assert.New(t)

	c := cpu.New()
	c.SP = 0x2000
	c.Load(0x2000, []byte{0x34, 0x12, 0x78, 0x56})
	c.Ports[3] = 9
	v := newStateView(c.State(), 2)
	assert.Equal([]uint16{0x1234, 0x5678}, v.Stack)
	assert.Equal(map[uint8]uint8{3: 9}, v.Ports)
	assert.Equal("NOP", v.Next)

	var dot bytes.Buffer
	writeDot(&dot, c.State(), 1)
	assert.Contains(dot.String(), "digraph")
}

func TestAssembleSequence(t *testing.T) {
	seq, err := assembleSequence("MVI A, 25H : ADD B : LXI H, 1234H")
	require.NoError(t, err)
	require.Len(t, seq, 3)
	assert.Equal(t, "MVI A, 25H", inst.Disassemble(seq[0]))
	assert.Equal(t, "ADD B", inst.Disassemble(seq[1]))
	assert.Equal(t, "LXI H, 1234H", inst.Disassemble(seq[2]))

	_, err = assembleSequence("FOO")
	assert.Error(t, err)
}
