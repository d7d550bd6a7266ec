package cpu

// 8085 flag bit positions in the status word.
const (
	FlagCY    uint8 = 0x01 // Carry
	FlagFixed uint8 = 0x02 // Always reads as 1
	FlagP     uint8 = 0x04 // Parity (even)
	FlagAC    uint8 = 0x10 // Auxiliary carry
	FlagZ     uint8 = 0x40 // Zero
	FlagS     uint8 = 0x80 // Sign
)

// ParityTable[v] is true when v has an even number of set bits.
var ParityTable [256]bool

func init() {
	for i := 0; i < 256; i++ {
		j := uint8(i)
		parity := uint8(0)
		for k := 0; k < 8; k++ {
			parity ^= j & 1
			j >>= 1
		}
		ParityTable[i] = parity == 0
	}
}

// setSZP updates Sign, Zero and Parity from a result byte.
func (c *CPU) setSZP(v uint8) {
	c.Flags.S = v&0x80 != 0
	c.Flags.Z = v == 0
	c.Flags.P = ParityTable[v]
}

// bit converts a flag into a 0/1 operand.
func bit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
