package cpu

// SP points at the last byte pushed. A word goes high byte first, so it ends
// up little-endian in memory.
func (c *CPU) push16(v uint16) {
	c.SP--
	c.Memory[c.SP] = uint8(v >> 8)
	c.SP--
	c.Memory[c.SP] = uint8(v)
}

func (c *CPU) pop16() uint16 {
	lo := c.Memory[c.SP]
	c.SP++
	hi := c.Memory[c.SP]
	c.SP++
	return pair(hi, lo)
}

// call pushes the current PC, which the caller has already advanced past the
// whole instruction, and jumps.
func (c *CPU) call(addr uint16) {
	c.push16(c.PC)
	c.PC = addr
}

func (c *CPU) ret() {
	c.PC = c.pop16()
}

// xthl swaps HL with the word at (SP) without moving SP.
func (c *CPU) xthl() {
	lo, hi := c.Memory[c.SP], c.Memory[c.SP+1]
	c.Memory[c.SP], c.Memory[c.SP+1] = c.L, c.H
	c.L, c.H = lo, hi
}

// Branch conditions in the order of the opcode encoding (bits 3-5).
const (
	CondNZ = iota
	CondZ
	CondNC
	CondC
	CondPO
	CondPE
	CondP
	CondM
)

func (c *CPU) cond(cc int) bool {
	switch cc {
	case CondNZ:
		return !c.Flags.Z
	case CondZ:
		return c.Flags.Z
	case CondNC:
		return !c.Flags.CY
	case CondC:
		return c.Flags.CY
	case CondPO:
		return !c.Flags.P
	case CondPE:
		return c.Flags.P
	case CondP:
		return !c.Flags.S
	}
	return c.Flags.S
}
