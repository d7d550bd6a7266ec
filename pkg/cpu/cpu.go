package cpu

import "github.com/oisee/sim8085/pkg/inst"

// CPU is the whole simulated machine: registers, flags, 64 KiB of memory,
// 256 I/O ports and the halted state. It is always used through a pointer
// and has no internal locking; callers serialise Step and Poke.
type CPU struct {
	Registers
	Flags Flags

	Memory [MemorySize]uint8
	Ports  [PortCount]uint8

	Halted bool
	reason HaltReason
	err    *IllegalOpcodeError
}

// New returns a processor in the reset state with zeroed memory and ports.
func New() *CPU {
	c := &CPU{}
	c.Reset()
	return c
}

// Reset puts registers and flags into their power-on values and clears the
// halted state. Memory and ports are left untouched so a loaded program can
// be re-run.
func (c *CPU) Reset() {
	c.Registers = Registers{SP: 0xFFFE, PC: 0x0000}
	c.Flags = Flags{Z: true, P: true}
	c.Halted = false
	c.reason = Running
	c.err = nil
}

// Reason reports why the processor is halted, or Running.
func (c *CPU) Reason() HaltReason {
	return c.reason
}

// Err returns the fail-stop error after an unassigned opcode, nil otherwise.
// A deliberate HLT is not an error.
func (c *CPU) Err() error {
	if c.err == nil {
		return nil
	}
	return c.err
}

// SetHalted restores a halted state saved from Reason and Err, e.g. from a
// checkpoint. Running clears the halt; fault is kept only for HaltIllegal.
func (c *CPU) SetHalted(reason HaltReason, fault *IllegalOpcodeError) {
	c.Halted = reason != Running
	c.reason = reason
	c.err = nil
	if reason == HaltIllegal {
		c.err = fault
	}
}

// Poke stores value&0xFF at addr&0xFFFF.
func (c *CPU) Poke(addr, value int) {
	c.Memory[uint16(addr)] = uint8(value)
}

// Peek returns the byte at addr&0xFFFF.
func (c *CPU) Peek(addr int) uint8 {
	return c.Memory[uint16(addr)]
}

// Load copies data into memory starting at addr, wrapping past 0xFFFF.
func (c *CPU) Load(addr int, data []byte) {
	for i, b := range data {
		c.Poke(addr+i, int(b))
	}
}

// State returns a snapshot of registers, flags and halted state. The memory
// and port arrays are shared with the live processor.
func (c *CPU) State() Snapshot {
	return Snapshot{
		Registers: c.Registers,
		Flags:     c.Flags,
		Halted:    c.Halted,
		Reason:    c.reason,
		Err:       c.Err(),
		Memory:    &c.Memory,
		Ports:     &c.Ports,
	}
}

// BC returns the B:C register pair.
func (c *CPU) BC() uint16 { return pair(c.B, c.C) }

// DE returns the D:E register pair.
func (c *CPU) DE() uint16 { return pair(c.D, c.E) }

// HL returns the H:L register pair.
func (c *CPU) HL() uint16 { return pair(c.H, c.L) }

// SetBC writes both halves of B:C.
func (c *CPU) SetBC(v uint16) { c.B, c.C = uint8(v>>8), uint8(v) }

// SetDE writes both halves of D:E.
func (c *CPU) SetDE(v uint16) { c.D, c.E = uint8(v>>8), uint8(v) }

// SetHL writes both halves of H:L.
func (c *CPU) SetHL(v uint16) { c.H, c.L = uint8(v>>8), uint8(v) }

// PSW returns the accumulator (high byte) and the status word (low byte).
func (c *CPU) PSW() uint16 { return pair(c.A, c.Flags.Byte()) }

// SetPSW loads the accumulator and flags from a processor status word.
func (c *CPU) SetPSW(v uint16) {
	c.A = uint8(v >> 8)
	c.Flags.SetByte(uint8(v))
}

// Register pair selectors in the order of the opcode encoding (bits 4-5).
const (
	PairB = iota
	PairD
	PairH
	PairSP
)

func (c *CPU) getPair(p int) uint16 {
	switch p {
	case PairB:
		return c.BC()
	case PairD:
		return c.DE()
	case PairH:
		return c.HL()
	}
	return c.SP
}

func (c *CPU) setPair(p int, v uint16) {
	switch p {
	case PairB:
		c.SetBC(v)
	case PairD:
		c.SetDE(v)
	case PairH:
		c.SetHL(v)
	default:
		c.SP = v
	}
}

// reg reads an 8-bit operand by its 3-bit encoding; RegM is memory at (HL).
func (c *CPU) reg(r int) uint8 {
	switch r {
	case inst.RegB:
		return c.B
	case inst.RegC:
		return c.C
	case inst.RegD:
		return c.D
	case inst.RegE:
		return c.E
	case inst.RegH:
		return c.H
	case inst.RegL:
		return c.L
	case inst.RegM:
		return c.Memory[c.HL()]
	}
	return c.A
}

func (c *CPU) setReg(r int, v uint8) {
	switch r {
	case inst.RegB:
		c.B = v
	case inst.RegC:
		c.C = v
	case inst.RegD:
		c.D = v
	case inst.RegE:
		c.E = v
	case inst.RegH:
		c.H = v
	case inst.RegL:
		c.L = v
	case inst.RegM:
		c.Memory[c.HL()] = v
	default:
		c.A = v
	}
}
