// Package equiv decides whether two straight-line 8085 instruction
// sequences leave the machine in the same state.
package equiv

import (
	"bytes"

	"github.com/oisee/sim8085/pkg/cpu"
	"github.com/oisee/sim8085/pkg/inst"
)

// FlagMask selects status-word bits to ignore. A set bit means that flag is
// dead (ignored).
type FlagMask = uint8

const (
	DeadNone FlagMask = 0x00 // Full equivalence
	DeadAC   FlagMask = cpu.FlagAC
	DeadAll  FlagMask = 0xFF // Registers and memory only
)

// codeBase is where sequences are placed. Vector SPs stay clear of it.
const codeBase = 0xF000

// Vector is one machine input: registers plus a status word.
type Vector struct {
	cpu.Registers
	Status uint8
}

// TestVectors are fixed inputs used by QuickCheck to reject most
// non-matches cheaply.
var TestVectors = []Vector{
	{Registers: cpu.Registers{A: 0x00, B: 0x00, C: 0x00, D: 0x00, E: 0x00, H: 0x00, L: 0x00, SP: 0x0000}, Status: 0x02},
	{Registers: cpu.Registers{A: 0xFF, B: 0xFF, C: 0xFF, D: 0xFF, E: 0xFF, H: 0xFF, L: 0xFF, SP: 0xFFFF}, Status: 0xD7},
	{Registers: cpu.Registers{A: 0x01, B: 0x02, C: 0x03, D: 0x04, E: 0x05, H: 0x06, L: 0x07, SP: 0x1234}, Status: 0x02},
	{Registers: cpu.Registers{A: 0x80, B: 0x40, C: 0x20, D: 0x10, E: 0x08, H: 0x04, L: 0x02, SP: 0x8000}, Status: 0x03},
	{Registers: cpu.Registers{A: 0x55, B: 0xAA, C: 0x55, D: 0xAA, E: 0x55, H: 0xAA, L: 0x55, SP: 0x5555}, Status: 0x02},
	{Registers: cpu.Registers{A: 0xAA, B: 0x55, C: 0xAA, D: 0x55, E: 0xAA, H: 0x55, L: 0xAA, SP: 0xAAAA}, Status: 0x13},
	{Registers: cpu.Registers{A: 0x0F, B: 0xF0, C: 0x0F, D: 0xF0, E: 0x0F, H: 0xF0, L: 0x0F, SP: 0xE000}, Status: 0x06},
	{Registers: cpu.Registers{A: 0x7F, B: 0x80, C: 0x7F, D: 0x80, E: 0x7F, H: 0x80, L: 0x7F, SP: 0x7FFF}, Status: 0x83},
}

// controlFlow holds mnemonics that leave a straight line.
var controlFlow = map[string]bool{
	"JMP": true, "CALL": true, "RET": true, "PCHL": true, "HLT": true, "RST": true,
}

func init() {
	for _, cc := range []string{"NZ", "Z", "NC", "C", "PO", "PE", "P", "M"} {
		controlFlow["J"+cc] = true
		controlFlow["C"+cc] = true
		controlFlow["R"+cc] = true
	}
}

// Straight checks that seq has no branches, halts or unassigned opcodes.
func Straight(seq []inst.Instruction) error {
	for _, in := range seq {
		if !inst.Legal(in.Op) || controlFlow[inst.Name(in.Op)] {
			return &ControlFlowError{Instr: in}
		}
	}
	return nil
}

// machine is a scratch processor reused across runs.
type machine struct {
	c    *cpu.CPU
	code []byte
	n    int
}

func newMachine(seq []inst.Instruction) *machine {
	m := &machine{c: cpu.New(), n: len(seq)}
	for _, in := range seq {
		m.code = append(m.code, in.Bytes()...)
	}
	return m
}

// exec runs the sequence on a clean memory image.
func (m *machine) exec(v Vector) *cpu.CPU {
	c := m.c
	c.Reset()
	c.Memory = [cpu.MemorySize]uint8{}
	c.Ports = [cpu.PortCount]uint8{}
	c.Load(codeBase, m.code)
	c.Registers = v.Registers
	c.Flags.SetByte(v.Status)
	c.PC = codeBase
	for i := 0; i < m.n; i++ {
		c.Step()
	}
	return c
}

// original is the byte at codeBase+i before the run.
func (m *machine) original(i int) uint8 {
	if i < len(m.code) {
		return m.code[i]
	}
	return 0
}

// pair runs two sequences side by side.
type pair struct {
	a, b *machine
	span int
	dead FlagMask
}

func newPair(target, candidate []inst.Instruction, dead FlagMask) (*pair, error) {
	if err := Straight(target); err != nil {
		return nil, err
	}
	if err := Straight(candidate); err != nil {
		return nil, err
	}
	p := &pair{a: newMachine(target), b: newMachine(candidate), dead: dead}
	p.span = max(inst.SeqByteSize(target), inst.SeqByteSize(candidate))
	for _, seq := range [][]inst.Instruction{target, candidate} {
		if err := p.selfRead(seq); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// selfRead rejects direct loads from the code area, whose contents differ
// between the two sides.
func (p *pair) selfRead(seq []inst.Instruction) error {
	for _, in := range seq {
		width := 0
		switch in.Op {
		case inst.LDA:
			width = 1
		case inst.LHLD:
			width = 2
		}
		for i := 0; i < width; i++ {
			if addr := int(uint16(int(in.Imm) + i)); addr >= codeBase && addr < codeBase+p.span {
				return &CodeReadError{Instr: in}
			}
		}
	}
	return nil
}

// match compares everything but PC. Inside the code area a byte still
// holding its side's original encoding counts as untouched; written bytes
// must agree.
func (p *pair) match(v Vector) bool {
	a := p.a.exec(v)
	b := p.b.exec(v)
	ra, rb := a.Registers, b.Registers
	ra.PC, rb.PC = 0, 0
	if ra != rb ||
		a.Flags.Byte()&^p.dead != b.Flags.Byte()&^p.dead ||
		a.Ports != b.Ports {
		return false
	}
	for i := 0; i < p.span; i++ {
		ma, mb := a.Memory[codeBase+i], b.Memory[codeBase+i]
		wa, wb := ma != p.a.original(i), mb != p.b.original(i)
		if wa != wb || (wa && ma != mb) {
			return false
		}
	}
	return equalOutside(&a.Memory, &b.Memory, codeBase, codeBase+p.span)
}

func equalOutside(a, b *[cpu.MemorySize]uint8, lo, hi int) bool {
	return bytes.Equal(a[:lo], b[:lo]) && bytes.Equal(a[hi:], b[hi:])
}

// QuickCheck tests two sequences against the test vectors.
// Returns true if they produce identical outputs on all test vectors.
func QuickCheck(target, candidate []inst.Instruction, dead FlagMask) (bool, error) {
	p, err := newPair(target, candidate, dead)
	if err != nil {
		return false, err
	}
	for _, v := range TestVectors {
		if !p.match(v) {
			return false, nil
		}
	}
	return true, nil
}

// ExhaustiveCheck sweeps A (0..255) and CY over every test vector and
// reports the first differing input, if any.
func ExhaustiveCheck(target, candidate []inst.Instruction, dead FlagMask) (bool, *Vector, error) {
	p, err := newPair(target, candidate, dead)
	if err != nil {
		return false, nil, err
	}
	for _, base := range TestVectors {
		for a := 0; a < 256; a++ {
			for cy := uint8(0); cy < 2; cy++ {
				v := base
				v.A = uint8(a)
				v.Status = v.Status&^cpu.FlagCY | cy
				if !p.match(v) {
					return false, &v, nil
				}
			}
		}
	}
	return true, nil, nil
}

// Inputs is the number of machine inputs ExhaustiveCheck tries.
func Inputs() int {
	return len(TestVectors) * 256 * 2
}
