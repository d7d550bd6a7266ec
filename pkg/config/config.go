// Package config loads TOML machine profiles.
//
//	[machine]
//	origin = 0x2000      # where programs are loaded
//	entry = 0x2000       # initial PC, defaults to origin
//	sp = 0xFFFE
//	max_steps = 1000000
//
//	[[preload]]
//	addr = 0x3000
//	bytes = [0x01, 0x02]
//
//	[[preload]]
//	file = "table.hex"   # Intel HEX, or raw binary loaded at addr
//
//	[ports]
//	0x10 = 0x55
//
//	[trace]
//	enabled = true
//	limit = 1000
//	breakpoints = [0x2010]
package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/oisee/sim8085/pkg/asm"
	"github.com/oisee/sim8085/pkg/cpu"
	"github.com/oisee/sim8085/pkg/ihex"
	"github.com/oisee/sim8085/pkg/result"
	"github.com/oisee/sim8085/pkg/runner"
)

const DefaultSP = 0xFFFE

// Profile is a machine setup: load address, entry, stack, memory and port
// contents and run limits.
type Profile struct {
	Machine Machine        `toml:"machine"`
	Preload []Preload      `toml:"preload"`
	Ports   map[string]int `toml:"ports"`
	Trace   Trace          `toml:"trace"`

	dir string // base for relative preload files
}

type Machine struct {
	Origin   int    `toml:"origin"`
	Entry    int    `toml:"entry"`
	SP       int    `toml:"sp"`
	MaxSteps uint64 `toml:"max_steps"`
}

type Preload struct {
	Addr  int    `toml:"addr"`
	Bytes []int  `toml:"bytes"`
	File  string `toml:"file"`
}

type Trace struct {
	Enabled     bool  `toml:"enabled"`
	Limit       int   `toml:"limit"`
	Breakpoints []int `toml:"breakpoints"`
}

// Default is the profile used without a file: load and start at 0, stack
// at FFFEh, no limits.
func Default() *Profile {
	return &Profile{Machine: Machine{SP: DefaultSP}}
}

// Parse decodes a profile from TOML text.
func Parse(data string) (*Profile, error) {
	p := Default()
	md, err := toml.Decode(data, p)
	if err != nil {
		return nil, err
	}
	return p.finish(md)
}

// Load reads a profile file. Relative preload files resolve against its
// directory.
func Load(path string) (*Profile, error) {
	p := Default()
	md, err := toml.DecodeFile(path, p)
	if err != nil {
		return nil, err
	}
	p.dir = filepath.Dir(path)
	return p.finish(md)
}

func (p *Profile) finish(md toml.MetaData) (*Profile, error) {
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, ErrUnknownKey(undecoded[0].String())
	}
	if !md.IsDefined("machine", "entry") {
		p.Machine.Entry = p.Machine.Origin
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func addrOK(v int) bool {
	return v >= 0 && v <= 0xFFFF
}

func (p *Profile) validate() error {
	for name, v := range map[string]int{
		"machine.origin": p.Machine.Origin,
		"machine.entry":  p.Machine.Entry,
		"machine.sp":     p.Machine.SP,
	} {
		if !addrOK(v) {
			return &RangeError{Key: name, Value: v}
		}
	}
	for i, pl := range p.Preload {
		if !addrOK(pl.Addr) {
			return &RangeError{Key: "preload[" + strconv.Itoa(i) + "].addr", Value: pl.Addr}
		}
		for _, b := range pl.Bytes {
			if b < 0 || b > 0xFF {
				return &RangeError{Key: "preload[" + strconv.Itoa(i) + "].bytes", Value: b}
			}
		}
	}
	for k, v := range p.Ports {
		if _, ok := portKey(k); !ok {
			return ErrPortName(k)
		}
		if v < 0 || v > 0xFF {
			return &RangeError{Key: "ports." + k, Value: v}
		}
	}
	for _, b := range p.Trace.Breakpoints {
		if !addrOK(b) {
			return &RangeError{Key: "trace.breakpoints", Value: b}
		}
	}
	return nil
}

// portKey reads a [ports] key with the assembler's number syntax, so "010"
// is decimal and "10H" or "0x10" hexadecimal.
func portKey(k string) (uint8, bool) {
	n, err := asm.ParseNumber(k)
	if err != nil || n < 0 || n >= cpu.PortCount {
		return 0, false
	}
	return uint8(n), true
}

// Apply loads preloads and ports into c and sets PC and SP. Registers and
// flags are otherwise left as they are.
func (p *Profile) Apply(c *cpu.CPU) error {
	for _, pl := range p.Preload {
		c.Load(pl.Addr, bytesOf(pl.Bytes))
		if pl.File == "" {
			continue
		}
		if err := p.loadFile(c, pl); err != nil {
			return err
		}
	}
	for k, v := range p.Ports {
		port, _ := portKey(k)
		c.Ports[port] = uint8(v)
	}
	c.PC = uint16(p.Machine.Entry)
	c.SP = uint16(p.Machine.SP)
	return nil
}

func (p *Profile) loadFile(c *cpu.CPU, pl Preload) error {
	path := pl.File
	if !filepath.IsAbs(path) && p.dir != "" {
		path = filepath.Join(p.dir, path)
	}
	if strings.EqualFold(filepath.Ext(path), ".hex") {
		fh, err := os.Open(path)
		if err != nil {
			return err
		}
		defer fh.Close()
		segs, err := ihex.Decode(fh)
		if err != nil {
			return err
		}
		for _, s := range segs {
			c.Load(int(s.Addr), s.Data)
		}
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	c.Load(pl.Addr, data)
	return nil
}

// Options converts the limits and trace settings for the runner.
func (p *Profile) Options(log *slog.Logger) runner.Options {
	opts := runner.Options{
		MaxSteps: p.Machine.MaxSteps,
		Logger:   log,
	}
	for _, b := range p.Trace.Breakpoints {
		opts.Breakpoints = append(opts.Breakpoints, uint16(b))
	}
	if p.Trace.Enabled {
		opts.Trace = result.NewTrace(p.Trace.Limit)
	}
	return opts
}

func bytesOf(vals []int) []byte {
	out := make([]byte, len(vals))
	for i, v := range vals {
		out[i] = uint8(v)
	}
	return out
}
