package main

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/oisee/sim8085/pkg/asm"
	"github.com/oisee/sim8085/pkg/config"
	"github.com/oisee/sim8085/pkg/cpu"
	"github.com/oisee/sim8085/pkg/ihex"
)

// loaded describes a program placed in memory.
type loaded struct {
	Origin uint16
	Entry  uint16
	Size   int
}

// loadProgram places a program file in c: .asm/.s/.a85 are assembled,
// .hex/.ihx are Intel HEX, anything else is a raw image at org.
func loadProgram(c *cpu.CPU, path string, org uint16) (loaded, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".asm", ".s", ".a85":
		f, err := os.Open(path)
		if err != nil {
			return loaded{}, err
		}
		defer f.Close()
		prog, err := asm.Assemble(f)
		if err != nil {
			return loaded{}, fmt.Errorf("%s: %w", path, err)
		}
		c.Load(int(prog.Origin), prog.Code)
		return loaded{Origin: prog.Origin, Entry: prog.Entry, Size: len(prog.Code)}, nil

	case ".hex", ".ihx":
		f, err := os.Open(path)
		if err != nil {
			return loaded{}, err
		}
		defer f.Close()
		segs, err := ihex.Decode(f)
		if err != nil {
			return loaded{}, fmt.Errorf("%s: %w", path, err)
		}
		origin, img := ihex.Flatten(segs)
		for _, s := range segs {
			c.Load(int(s.Addr), s.Data)
		}
		return loaded{Origin: origin, Entry: origin, Size: len(img)}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return loaded{}, err
	}
	c.Load(int(org), data)
	return loaded{Origin: org, Entry: org, Size: len(data)}, nil
}

// machineFlags are shared by every command that sets up a machine.
type machineFlags struct {
	org   addrFlag
	entry addrFlag
}

// setup builds a processor from the profile and an optional program file.
// PC is the --entry flag, else the program's entry, else the profile's.
func (mf *machineFlags) setup(prof *config.Profile, args []string) (*cpu.CPU, error) {
	c := cpu.New()
	if err := prof.Apply(c); err != nil {
		return nil, err
	}
	org := uint16(prof.Machine.Origin)
	if mf.org.set {
		org = mf.org.v
	}
	if len(args) > 0 {
		ld, err := loadProgram(c, args[0], org)
		if err != nil {
			return nil, err
		}
		c.PC = ld.Entry
	}
	if mf.entry.set {
		c.PC = mf.entry.v
	}
	return c, nil
}

func printState(s cpu.Snapshot) {
	fmt.Print(stateText(s))
}

func stateText(s cpu.Snapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X  SP=%04X PC=%04X\n",
		s.A, s.B, s.C, s.D, s.E, s.H, s.L, s.SP, s.PC)
	fmt.Fprintf(&b, "S=%d Z=%d AC=%d P=%d CY=%d  (status %02XH)\n",
		b2i(s.Flags.S), b2i(s.Flags.Z), b2i(s.Flags.AC), b2i(s.Flags.P), b2i(s.Flags.CY), s.Flags.Byte())
	switch {
	case s.Err != nil:
		fmt.Fprintf(&b, "Stopped: %v\n", s.Err)
	case s.Halted:
		b.WriteString("Halted\n")
	}
	return b.String()
}

func printDump(s cpu.Snapshot, addr uint16, n int) {
	for row := 0; row < n; row += 16 {
		fmt.Printf("%04X:", uint16(int(addr)+row))
		for i := row; i < row+16 && i < n; i++ {
			fmt.Printf(" %02X", s.Memory[uint16(int(addr)+i)])
		}
		fmt.Println()
	}
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

func sortedSymbols(syms map[string]uint16) []string {
	return slices.Sorted(maps.Keys(syms))
}
