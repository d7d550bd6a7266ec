package cpu

import (
	"fmt"

	"github.com/oisee/sim8085/pkg/inst"
)

// Step executes one instruction. A halted processor ignores the call, so
// drivers may poll it freely.
//
// The opcode is fetched and PC advanced before dispatch; handlers that take
// operands advance PC past them before using it, so a CALL pushes the
// address of the following instruction.
func (c *CPU) Step() {
	if c.Halted {
		return
	}
	op := c.fetch8()
	dispatch[op](c)
}

func (c *CPU) fetch8() uint8 {
	v := c.Memory[c.PC]
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return pair(hi, lo)
}

type opFunc func(c *CPU)

// dispatch holds one explicit entry per opcode byte. Unassigned bytes map to
// illegal, never to a catch-all; init refuses a table with holes.
var dispatch = [inst.OpCodeCount]opFunc{
	inst.NOP:     opNOP,
	inst.LXI_B:   lxi(PairB),
	inst.STAX_B:  stax(PairB),
	inst.INX_B:   inx(PairB),
	inst.INR_B:   inr(inst.RegB),
	inst.DCR_B:   dcr(inst.RegB),
	inst.MVI_B:   mvi(inst.RegB),
	inst.RLC:     opRLC,
	inst.UNDEF08: illegal,
	inst.DAD_B:   dad(PairB),
	inst.LDAX_B:  ldax(PairB),
	inst.DCX_B:   dcx(PairB),
	inst.INR_C:   inr(inst.RegC),
	inst.DCR_C:   dcr(inst.RegC),
	inst.MVI_C:   mvi(inst.RegC),
	inst.RRC:     opRRC,

	inst.UNDEF10: illegal,
	inst.LXI_D:   lxi(PairD),
	inst.STAX_D:  stax(PairD),
	inst.INX_D:   inx(PairD),
	inst.INR_D:   inr(inst.RegD),
	inst.DCR_D:   dcr(inst.RegD),
	inst.MVI_D:   mvi(inst.RegD),
	inst.RAL:     opRAL,
	inst.UNDEF18: illegal,
	inst.DAD_D:   dad(PairD),
	inst.LDAX_D:  ldax(PairD),
	inst.DCX_D:   dcx(PairD),
	inst.INR_E:   inr(inst.RegE),
	inst.DCR_E:   dcr(inst.RegE),
	inst.MVI_E:   mvi(inst.RegE),
	inst.RAR:     opRAR,

	inst.RIM:     opRIM,
	inst.LXI_H:   lxi(PairH),
	inst.SHLD:    opSHLD,
	inst.INX_H:   inx(PairH),
	inst.INR_H:   inr(inst.RegH),
	inst.DCR_H:   dcr(inst.RegH),
	inst.MVI_H:   mvi(inst.RegH),
	inst.DAA:     opDAA,
	inst.UNDEF28: illegal,
	inst.DAD_H:   dad(PairH),
	inst.LHLD:    opLHLD,
	inst.DCX_H:   dcx(PairH),
	inst.INR_L:   inr(inst.RegL),
	inst.DCR_L:   dcr(inst.RegL),
	inst.MVI_L:   mvi(inst.RegL),
	inst.CMA:     opCMA,

	inst.SIM:     opSIM,
	inst.LXI_SP:  lxi(PairSP),
	inst.STA:     opSTA,
	inst.INX_SP:  inx(PairSP),
	inst.INR_M:   inr(inst.RegM),
	inst.DCR_M:   dcr(inst.RegM),
	inst.MVI_M:   mvi(inst.RegM),
	inst.STC:     opSTC,
	inst.UNDEF38: illegal,
	inst.DAD_SP:  dad(PairSP),
	inst.LDA:     opLDA,
	inst.DCX_SP:  dcx(PairSP),
	inst.INR_A:   inr(inst.RegA),
	inst.DCR_A:   dcr(inst.RegA),
	inst.MVI_A:   mvi(inst.RegA),
	inst.CMC:     opCMC,

	inst.MOV_B_B: mov(inst.RegB, inst.RegB),
	inst.MOV_B_C: mov(inst.RegB, inst.RegC),
	inst.MOV_B_D: mov(inst.RegB, inst.RegD),
	inst.MOV_B_E: mov(inst.RegB, inst.RegE),
	inst.MOV_B_H: mov(inst.RegB, inst.RegH),
	inst.MOV_B_L: mov(inst.RegB, inst.RegL),
	inst.MOV_B_M: mov(inst.RegB, inst.RegM),
	inst.MOV_B_A: mov(inst.RegB, inst.RegA),
	inst.MOV_C_B: mov(inst.RegC, inst.RegB),
	inst.MOV_C_C: mov(inst.RegC, inst.RegC),
	inst.MOV_C_D: mov(inst.RegC, inst.RegD),
	inst.MOV_C_E: mov(inst.RegC, inst.RegE),
	inst.MOV_C_H: mov(inst.RegC, inst.RegH),
	inst.MOV_C_L: mov(inst.RegC, inst.RegL),
	inst.MOV_C_M: mov(inst.RegC, inst.RegM),
	inst.MOV_C_A: mov(inst.RegC, inst.RegA),

	inst.MOV_D_B: mov(inst.RegD, inst.RegB),
	inst.MOV_D_C: mov(inst.RegD, inst.RegC),
	inst.MOV_D_D: mov(inst.RegD, inst.RegD),
	inst.MOV_D_E: mov(inst.RegD, inst.RegE),
	inst.MOV_D_H: mov(inst.RegD, inst.RegH),
	inst.MOV_D_L: mov(inst.RegD, inst.RegL),
	inst.MOV_D_M: mov(inst.RegD, inst.RegM),
	inst.MOV_D_A: mov(inst.RegD, inst.RegA),
	inst.MOV_E_B: mov(inst.RegE, inst.RegB),
	inst.MOV_E_C: mov(inst.RegE, inst.RegC),
	inst.MOV_E_D: mov(inst.RegE, inst.RegD),
	inst.MOV_E_E: mov(inst.RegE, inst.RegE),
	inst.MOV_E_H: mov(inst.RegE, inst.RegH),
	inst.MOV_E_L: mov(inst.RegE, inst.RegL),
	inst.MOV_E_M: mov(inst.RegE, inst.RegM),
	inst.MOV_E_A: mov(inst.RegE, inst.RegA),

	inst.MOV_H_B: mov(inst.RegH, inst.RegB),
	inst.MOV_H_C: mov(inst.RegH, inst.RegC),
	inst.MOV_H_D: mov(inst.RegH, inst.RegD),
	inst.MOV_H_E: mov(inst.RegH, inst.RegE),
	inst.MOV_H_H: mov(inst.RegH, inst.RegH),
	inst.MOV_H_L: mov(inst.RegH, inst.RegL),
	inst.MOV_H_M: mov(inst.RegH, inst.RegM),
	inst.MOV_H_A: mov(inst.RegH, inst.RegA),
	inst.MOV_L_B: mov(inst.RegL, inst.RegB),
	inst.MOV_L_C: mov(inst.RegL, inst.RegC),
	inst.MOV_L_D: mov(inst.RegL, inst.RegD),
	inst.MOV_L_E: mov(inst.RegL, inst.RegE),
	inst.MOV_L_H: mov(inst.RegL, inst.RegH),
	inst.MOV_L_L: mov(inst.RegL, inst.RegL),
	inst.MOV_L_M: mov(inst.RegL, inst.RegM),
	inst.MOV_L_A: mov(inst.RegL, inst.RegA),

	inst.MOV_M_B: mov(inst.RegM, inst.RegB),
	inst.MOV_M_C: mov(inst.RegM, inst.RegC),
	inst.MOV_M_D: mov(inst.RegM, inst.RegD),
	inst.MOV_M_E: mov(inst.RegM, inst.RegE),
	inst.MOV_M_H: mov(inst.RegM, inst.RegH),
	inst.MOV_M_L: mov(inst.RegM, inst.RegL),
	inst.HLT:     opHLT,
	inst.MOV_M_A: mov(inst.RegM, inst.RegA),
	inst.MOV_A_B: mov(inst.RegA, inst.RegB),
	inst.MOV_A_C: mov(inst.RegA, inst.RegC),
	inst.MOV_A_D: mov(inst.RegA, inst.RegD),
	inst.MOV_A_E: mov(inst.RegA, inst.RegE),
	inst.MOV_A_H: mov(inst.RegA, inst.RegH),
	inst.MOV_A_L: mov(inst.RegA, inst.RegL),
	inst.MOV_A_M: mov(inst.RegA, inst.RegM),
	inst.MOV_A_A: mov(inst.RegA, inst.RegA),

	inst.ADD_B: add(inst.RegB),
	inst.ADD_C: add(inst.RegC),
	inst.ADD_D: add(inst.RegD),
	inst.ADD_E: add(inst.RegE),
	inst.ADD_H: add(inst.RegH),
	inst.ADD_L: add(inst.RegL),
	inst.ADD_M: add(inst.RegM),
	inst.ADD_A: add(inst.RegA),
	inst.ADC_B: adc(inst.RegB),
	inst.ADC_C: adc(inst.RegC),
	inst.ADC_D: adc(inst.RegD),
	inst.ADC_E: adc(inst.RegE),
	inst.ADC_H: adc(inst.RegH),
	inst.ADC_L: adc(inst.RegL),
	inst.ADC_M: adc(inst.RegM),
	inst.ADC_A: adc(inst.RegA),

	inst.SUB_B: sub(inst.RegB),
	inst.SUB_C: sub(inst.RegC),
	inst.SUB_D: sub(inst.RegD),
	inst.SUB_E: sub(inst.RegE),
	inst.SUB_H: sub(inst.RegH),
	inst.SUB_L: sub(inst.RegL),
	inst.SUB_M: sub(inst.RegM),
	inst.SUB_A: sub(inst.RegA),
	inst.SBB_B: sbb(inst.RegB),
	inst.SBB_C: sbb(inst.RegC),
	inst.SBB_D: sbb(inst.RegD),
	inst.SBB_E: sbb(inst.RegE),
	inst.SBB_H: sbb(inst.RegH),
	inst.SBB_L: sbb(inst.RegL),
	inst.SBB_M: sbb(inst.RegM),
	inst.SBB_A: sbb(inst.RegA),

	inst.ANA_B: ana(inst.RegB),
	inst.ANA_C: ana(inst.RegC),
	inst.ANA_D: ana(inst.RegD),
	inst.ANA_E: ana(inst.RegE),
	inst.ANA_H: ana(inst.RegH),
	inst.ANA_L: ana(inst.RegL),
	inst.ANA_M: ana(inst.RegM),
	inst.ANA_A: ana(inst.RegA),
	inst.XRA_B: xra(inst.RegB),
	inst.XRA_C: xra(inst.RegC),
	inst.XRA_D: xra(inst.RegD),
	inst.XRA_E: xra(inst.RegE),
	inst.XRA_H: xra(inst.RegH),
	inst.XRA_L: xra(inst.RegL),
	inst.XRA_M: xra(inst.RegM),
	inst.XRA_A: xra(inst.RegA),

	inst.ORA_B: ora(inst.RegB),
	inst.ORA_C: ora(inst.RegC),
	inst.ORA_D: ora(inst.RegD),
	inst.ORA_E: ora(inst.RegE),
	inst.ORA_H: ora(inst.RegH),
	inst.ORA_L: ora(inst.RegL),
	inst.ORA_M: ora(inst.RegM),
	inst.ORA_A: ora(inst.RegA),
	inst.CMP_B: cmp(inst.RegB),
	inst.CMP_C: cmp(inst.RegC),
	inst.CMP_D: cmp(inst.RegD),
	inst.CMP_E: cmp(inst.RegE),
	inst.CMP_H: cmp(inst.RegH),
	inst.CMP_L: cmp(inst.RegL),
	inst.CMP_M: cmp(inst.RegM),
	inst.CMP_A: cmp(inst.RegA),

	inst.RNZ:     rcc(CondNZ),
	inst.POP_B:   pop(PairB),
	inst.JNZ:     jcc(CondNZ),
	inst.JMP:     opJMP,
	inst.CNZ:     ccc(CondNZ),
	inst.PUSH_B:  push(PairB),
	inst.ADI:     opADI,
	inst.RST_0:   rst(0),
	inst.RZ:      rcc(CondZ),
	inst.RET:     opRET,
	inst.JZ:      jcc(CondZ),
	inst.UNDEFCB: illegal,
	inst.CZ:      ccc(CondZ),
	inst.CALL:    opCALL,
	inst.ACI:     opACI,
	inst.RST_1:   rst(1),

	inst.RNC:     rcc(CondNC),
	inst.POP_D:   pop(PairD),
	inst.JNC:     jcc(CondNC),
	inst.OUT:     opOUT,
	inst.CNC:     ccc(CondNC),
	inst.PUSH_D:  push(PairD),
	inst.SUI:     opSUI,
	inst.RST_2:   rst(2),
	inst.RC:      rcc(CondC),
	inst.UNDEFD9: illegal,
	inst.JC:      jcc(CondC),
	inst.IN:      opIN,
	inst.CC:      ccc(CondC),
	inst.UNDEFDD: illegal,
	inst.SBI:     opSBI,
	inst.RST_3:   rst(3),

	inst.RPO:     rcc(CondPO),
	inst.POP_H:   pop(PairH),
	inst.JPO:     jcc(CondPO),
	inst.XTHL:    opXTHL,
	inst.CPO:     ccc(CondPO),
	inst.PUSH_H:  push(PairH),
	inst.ANI:     opANI,
	inst.RST_4:   rst(4),
	inst.RPE:     rcc(CondPE),
	inst.PCHL:    opPCHL,
	inst.JPE:     jcc(CondPE),
	inst.XCHG:    opXCHG,
	inst.CPE:     ccc(CondPE),
	inst.UNDEFED: illegal,
	inst.XRI:     opXRI,
	inst.RST_5:   rst(5),

	inst.RP:       rcc(CondP),
	inst.POP_PSW:  opPOPPSW,
	inst.JP:       jcc(CondP),
	inst.DI:       opDI,
	inst.CP:       ccc(CondP),
	inst.PUSH_PSW: opPUSHPSW,
	inst.ORI:      opORI,
	inst.RST_6:    rst(6),
	inst.RM:       rcc(CondM),
	inst.SPHL:     opSPHL,
	inst.JM:       jcc(CondM),
	inst.EI:       opEI,
	inst.CM:       ccc(CondM),
	inst.UNDEFFD:  illegal,
	inst.CPI:      opCPI,
	inst.RST_7:    rst(7),
}

func init() {
	for op, fn := range dispatch {
		if fn == nil {
			panic(fmt.Sprintf("cpu: no handler for opcode %02Xh", op))
		}
	}
}

// === Machine control ===

func opNOP(c *CPU) {}

// Interrupts are not modelled: EI, DI, RIM and SIM decode and do nothing.
func opEI(c *CPU)  {}
func opDI(c *CPU)  {}
func opRIM(c *CPU) {}
func opSIM(c *CPU) {}

func opHLT(c *CPU) {
	c.Halted = true
	c.reason = HaltInstruction
}

// illegal fail-stops on a byte the 8085 leaves unassigned.
func illegal(c *CPU) {
	at := c.PC - 1
	c.err = &IllegalOpcodeError{Op: c.Memory[at], Addr: at}
	c.Halted = true
	c.reason = HaltIllegal
}

// === Data transfer ===

func mov(dst, src int) opFunc {
	return func(c *CPU) { c.setReg(dst, c.reg(src)) }
}

func mvi(r int) opFunc {
	return func(c *CPU) { c.setReg(r, c.fetch8()) }
}

func lxi(p int) opFunc {
	return func(c *CPU) { c.setPair(p, c.fetch16()) }
}

func stax(p int) opFunc {
	return func(c *CPU) { c.Memory[c.getPair(p)] = c.A }
}

func ldax(p int) opFunc {
	return func(c *CPU) { c.A = c.Memory[c.getPair(p)] }
}

func opSTA(c *CPU) {
	c.Memory[c.fetch16()] = c.A
}

func opLDA(c *CPU) {
	c.A = c.Memory[c.fetch16()]
}

func opSHLD(c *CPU) {
	addr := c.fetch16()
	c.Memory[addr] = c.L
	c.Memory[addr+1] = c.H
}

func opLHLD(c *CPU) {
	addr := c.fetch16()
	c.L = c.Memory[addr]
	c.H = c.Memory[addr+1]
}

func opXCHG(c *CPU) {
	c.H, c.D = c.D, c.H
	c.L, c.E = c.E, c.L
}

// === 8-bit arithmetic and logic ===

func inr(r int) opFunc {
	return func(c *CPU) { c.setReg(r, c.inr8(c.reg(r))) }
}

func dcr(r int) opFunc {
	return func(c *CPU) { c.setReg(r, c.dcr8(c.reg(r))) }
}

func add(r int) opFunc {
	return func(c *CPU) { c.A = c.add8(c.A, c.reg(r), false) }
}

func adc(r int) opFunc {
	return func(c *CPU) { c.A = c.add8(c.A, c.reg(r), c.Flags.CY) }
}

func sub(r int) opFunc {
	return func(c *CPU) { c.A = c.sub8(c.A, c.reg(r), false) }
}

func sbb(r int) opFunc {
	return func(c *CPU) { c.A = c.sub8(c.A, c.reg(r), c.Flags.CY) }
}

func ana(r int) opFunc {
	return func(c *CPU) { c.and8(c.reg(r)) }
}

func xra(r int) opFunc {
	return func(c *CPU) { c.xor8(c.reg(r)) }
}

func ora(r int) opFunc {
	return func(c *CPU) { c.or8(c.reg(r)) }
}

func cmp(r int) opFunc {
	return func(c *CPU) { c.cmp8(c.A, c.reg(r)) }
}

func opADI(c *CPU) { c.A = c.add8(c.A, c.fetch8(), false) }
func opACI(c *CPU) { c.A = c.add8(c.A, c.fetch8(), c.Flags.CY) }
func opSUI(c *CPU) { c.A = c.sub8(c.A, c.fetch8(), false) }
func opSBI(c *CPU) { c.A = c.sub8(c.A, c.fetch8(), c.Flags.CY) }
func opANI(c *CPU) { c.and8(c.fetch8()) }
func opXRI(c *CPU) { c.xor8(c.fetch8()) }
func opORI(c *CPU) { c.or8(c.fetch8()) }
func opCPI(c *CPU) { c.cmp8(c.A, c.fetch8()) }

func opDAA(c *CPU) { c.daa() }
func opCMA(c *CPU) { c.A = ^c.A }
func opSTC(c *CPU) { c.Flags.CY = true }
func opCMC(c *CPU) { c.Flags.CY = !c.Flags.CY }
func opRLC(c *CPU) { c.rlc() }
func opRRC(c *CPU) { c.rrc() }
func opRAL(c *CPU) { c.ral() }
func opRAR(c *CPU) { c.rar() }

// === 16-bit ===

func inx(p int) opFunc {
	return func(c *CPU) { c.setPair(p, c.getPair(p)+1) }
}

func dcx(p int) opFunc {
	return func(c *CPU) { c.setPair(p, c.getPair(p)-1) }
}

func dad(p int) opFunc {
	return func(c *CPU) { c.dad(c.getPair(p)) }
}

// === Stack ===

func push(p int) opFunc {
	return func(c *CPU) { c.push16(c.getPair(p)) }
}

func pop(p int) opFunc {
	return func(c *CPU) { c.setPair(p, c.pop16()) }
}

func opPUSHPSW(c *CPU) { c.push16(c.PSW()) }
func opPOPPSW(c *CPU)  { c.SetPSW(c.pop16()) }
func opXTHL(c *CPU)    { c.xthl() }
func opSPHL(c *CPU)    { c.SP = c.HL() }

// === Control flow ===

func opJMP(c *CPU) {
	c.PC = c.fetch16()
}

// jcc always consumes the address, taken or not.
func jcc(cc int) opFunc {
	return func(c *CPU) {
		addr := c.fetch16()
		if c.cond(cc) {
			c.PC = addr
		}
	}
}

func opCALL(c *CPU) {
	c.call(c.fetch16())
}

func ccc(cc int) opFunc {
	return func(c *CPU) {
		addr := c.fetch16()
		if c.cond(cc) {
			c.call(addr)
		}
	}
}

func opRET(c *CPU) {
	c.ret()
}

func rcc(cc int) opFunc {
	return func(c *CPU) {
		if c.cond(cc) {
			c.ret()
		}
	}
}

// rst calls vector n*8; the return address is the byte after RST.
func rst(n int) opFunc {
	return func(c *CPU) { c.call(uint16(n) * 8) }
}

func opPCHL(c *CPU) {
	c.PC = c.HL()
}

// === I/O ===

func opIN(c *CPU) {
	c.A = c.Ports[c.fetch8()]
}

func opOUT(c *CPU) {
	c.Ports[c.fetch8()] = c.A
}
