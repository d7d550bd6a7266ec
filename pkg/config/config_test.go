package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/oisee/sim8085/pkg/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	assert := assert.New(t)

	p, err := Parse("")
	require.NoError(t, err)
	assert.Equal(Machine{SP: DefaultSP}, p.Machine)

	c := cpu.New()
	c.PC = 0x1234
	require.NoError(t, p.Apply(c))
	assert.Equal(uint16(0), c.PC)
	assert.Equal(uint16(0xFFFE), c.SP)
}

func TestParseAndApply(t *testing.T) {
	assert := assert.New(t)

	p, err := Parse(`
[machine]
origin = 0x2000
sp = 0x4000
max_steps = 500

[[preload]]
addr = 0x3000
bytes = [0x3E, 0x25]

[ports]
0x10 = 0x55
7 = 1

[trace]
enabled = true
limit = 10
breakpoints = [0x2005]
`)
	require.NoError(t, err)
	assert.Equal(0x2000, p.Machine.Entry)

	c := cpu.New()
	require.NoError(t, p.Apply(c))
	assert.Equal(uint16(0x2000), c.PC)
	assert.Equal(uint16(0x4000), c.SP)
	assert.Equal(uint8(0x3E), c.Peek(0x3000))
	assert.Equal(uint8(0x25), c.Peek(0x3001))
	assert.Equal(uint8(0x55), c.Ports[0x10])
	assert.Equal(uint8(1), c.Ports[7])

	opts := p.Options(nil)
	assert.Equal(uint64(500), opts.MaxSteps)
	assert.Equal([]uint16{0x2005}, opts.Breakpoints)
	require.NotNil(t, opts.Trace)
}

func TestExplicitEntry(t *testing.T) {
	p, err := Parse("[machine]\norigin = 0x100\nentry = 0\n")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Machine.Entry)
	assert.Nil(t, p.Options(nil).Trace)
}

func TestLoadWithFiles(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "prog.hex"),
		[]byte(":0300300002337A1E\n:00000001FF\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blob.bin"), []byte{9, 8, 7}, 0o644))
	path := filepath.Join(dir, "machine.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[[preload]]
file = "prog.hex"

[[preload]]
addr = 0x8000
file = "blob.bin"
`), 0o644))

	p, err := Load(path)
	require.NoError(t, err)
	c := cpu.New()
	require.NoError(t, p.Apply(c))
	assert.Equal(uint8(0x7A), c.Peek(0x32))
	assert.Equal(uint8(7), c.Peek(0x8002))

	p.Preload[0].File = "missing.hex"
	assert.Error(p.Apply(c))
}

func TestParseErrors(t *testing.T) {
	assert := assert.New(t)

	_, err := Parse("[machine]\norign = 1\n")
	var unknown ErrUnknownKey
	assert.True(errors.As(err, &unknown))

	_, err = Parse("[machine]\nsp = 0x10000\n")
	var re *RangeError
	require.True(t, errors.As(err, &re))
	assert.Equal("machine.sp", re.Key)

	_, err = Parse("[ports]\nfoo = 1\n")
	var pn ErrPortName
	assert.True(errors.As(err, &pn))

	_, err = Parse("[ports]\n256 = 1\n")
	assert.True(errors.As(err, &pn))

	_, err = Parse("[[preload]]\naddr = 0\nbytes = [256]\n")
	assert.True(errors.As(err, &re))

	_, err = Parse("[machine\n")
	assert.Error(err)
}

func TestPortKeysUseAssemblerNumbers(t *testing.T) {
	assert := assert.New(t)

	p, err := Parse("[ports]\n010 = 1\n20H = 2\n0x30 = 3\n")
	require.NoError(t, err)

	c := cpu.New()
	require.NoError(t, p.Apply(c))
	assert.Equal(uint8(1), c.Ports[10])
	assert.Equal(uint8(0), c.Ports[8])
	assert.Equal(uint8(2), c.Ports[0x20])
	assert.Equal(uint8(3), c.Ports[0x30])

	_, err = Parse("[ports]\n100H = 1\n")
	var pn ErrPortName
	assert.True(errors.As(err, &pn))
}
