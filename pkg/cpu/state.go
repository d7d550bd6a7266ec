package cpu

// Address space sizes.
const (
	MemorySize = 0x10000
	PortCount  = 0x100
)

// Registers holds the 8085 register file. Go's fixed-width integers keep every
// register inside its 8- or 16-bit range; all arithmetic truncates.
type Registers struct {
	A, B, C, D, E, H, L uint8
	SP, PC              uint16
}

// Flags holds the five 8085 condition flags.
type Flags struct {
	S  bool // Sign
	Z  bool // Zero
	AC bool // Auxiliary carry (carry/borrow out of bit 3)
	P  bool // Parity (even)
	CY bool // Carry
}

// Byte packs the flags into the 8085 status word: S Z 0 AC 0 P 1 CY.
func (f Flags) Byte() uint8 {
	b := FlagFixed
	if f.S {
		b |= FlagS
	}
	if f.Z {
		b |= FlagZ
	}
	if f.AC {
		b |= FlagAC
	}
	if f.P {
		b |= FlagP
	}
	if f.CY {
		b |= FlagCY
	}
	return b
}

// SetByte unpacks a status word. Bits 5, 3 and 1 carry no state and are
// ignored.
func (f *Flags) SetByte(b uint8) {
	f.S = b&FlagS != 0
	f.Z = b&FlagZ != 0
	f.AC = b&FlagAC != 0
	f.P = b&FlagP != 0
	f.CY = b&FlagCY != 0
}

// Snapshot is a copy of the processor state for display. Memory and Ports
// point at the live arrays; they are shared, not copied, and must only be
// mutated through (*CPU).Poke.
type Snapshot struct {
	Registers
	Flags  Flags
	Halted bool
	Reason HaltReason
	Err    error

	Memory *[MemorySize]uint8
	Ports  *[PortCount]uint8
}

// BC returns the B:C register pair.
func (s Snapshot) BC() uint16 { return pair(s.B, s.C) }

// DE returns the D:E register pair.
func (s Snapshot) DE() uint16 { return pair(s.D, s.E) }

// HL returns the H:L register pair.
func (s Snapshot) HL() uint16 { return pair(s.H, s.L) }

// PSW returns the accumulator and packed flags as one word.
func (s Snapshot) PSW() uint16 { return pair(s.A, s.Flags.Byte()) }

func pair(hi, lo uint8) uint16 {
	return uint16(hi)<<8 | uint16(lo)
}
