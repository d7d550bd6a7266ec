package cpu

// --- ALU helpers ---
//
// All helpers update c.Flags and return the 8-bit result; callers decide
// where the result goes.

// add8 returns a+b+carryIn. CY is the carry out of bit 7, AC the carry out of
// bit 3; S, Z and P follow the masked result.
func (c *CPU) add8(a, b uint8, carryIn bool) uint8 {
	cin := bit(carryIn)
	sum := uint16(a) + uint16(b) + uint16(cin)
	c.Flags.CY = sum > 0xFF
	c.Flags.AC = (a&0x0F)+(b&0x0F)+cin > 0x0F
	r := uint8(sum)
	c.setSZP(r)
	return r
}

// sub8 returns a-b-borrowIn. CY is the borrow out of bit 7, AC the borrow out
// of bit 3.
func (c *CPU) sub8(a, b uint8, borrowIn bool) uint8 {
	bin := int(bit(borrowIn))
	diff := int(a) - int(b) - bin
	c.Flags.CY = diff < 0
	c.Flags.AC = int(a&0x0F)-int(b&0x0F)-bin < 0
	r := uint8(diff)
	c.setSZP(r)
	return r
}

// inr8 is INR: add8(v, 1) with CY preserved. The 8085 never lets INR/DCR
// touch the carry flag, while ADD/ADI through the same helper must.
func (c *CPU) inr8(v uint8) uint8 {
	savedCY := c.Flags.CY
	r := c.add8(v, 1, false)
	c.Flags.CY = savedCY
	return r
}

// dcr8 is DCR: sub8(v, 1) with CY preserved (see inr8).
func (c *CPU) dcr8(v uint8) uint8 {
	savedCY := c.Flags.CY
	r := c.sub8(v, 1, false)
	c.Flags.CY = savedCY
	return r
}

// cmp8 sets flags for a-b and discards the result.
func (c *CPU) cmp8(a, b uint8) {
	c.sub8(a, b, false)
}

func (c *CPU) and8(v uint8) {
	c.A &= v
	c.logicFlags()
}

func (c *CPU) xor8(v uint8) {
	c.A ^= v
	c.logicFlags()
}

func (c *CPU) or8(v uint8) {
	c.A |= v
	c.logicFlags()
}

func (c *CPU) logicFlags() {
	c.Flags.CY = false
	c.Flags.AC = false
	c.setSZP(c.A)
}

// daa adjusts A to two valid BCD digits after an addition.
// A set CY is never cleared.
func (c *CPU) daa() {
	var correction uint8
	cy := c.Flags.CY
	lo := c.A & 0x0F
	hi := c.A >> 4
	if c.Flags.AC || lo > 9 {
		correction |= 0x06
	}
	if c.Flags.CY || hi > 9 || (hi >= 9 && lo > 9) {
		correction |= 0x60
		cy = true
	}
	c.A = c.add8(c.A, correction, false)
	c.Flags.CY = cy
}

// Accumulator rotates touch only CY.

func (c *CPU) rlc() {
	out := c.A >> 7
	c.A = c.A<<1 | out
	c.Flags.CY = out == 1
}

func (c *CPU) rrc() {
	out := c.A & 1
	c.A = c.A>>1 | out<<7
	c.Flags.CY = out == 1
}

func (c *CPU) ral() {
	out := c.A >> 7
	c.A = c.A<<1 | bit(c.Flags.CY)
	c.Flags.CY = out == 1
}

func (c *CPU) rar() {
	out := c.A & 1
	c.A = c.A>>1 | bit(c.Flags.CY)<<7
	c.Flags.CY = out == 1
}

// dad adds v to HL; only CY (carry out of bit 15) changes.
func (c *CPU) dad(v uint16) {
	sum := uint32(c.HL()) + uint32(v)
	c.Flags.CY = sum > 0xFFFF
	c.SetHL(uint16(sum))
}
