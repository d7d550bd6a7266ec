package inst

import "strings"

// Class separates assigned opcodes from the byte values the 8085 leaves
// undefined.
type Class uint8

const (
	Assigned Class = iota
	Unassigned
)

// Info holds static metadata for an opcode byte.
type Info struct {
	Mnemonic string // Assembly template, "n" = 8-bit operand, "nn" = 16-bit operand (e.g. "MVI B, n")
	Size     int    // Total encoded size in bytes (1..3)
	Class    Class
	Flags    string // Flags written, e.g. "S Z AC P CY"; empty if none
	TStates  int    // Nominal clock states (taken path); reference data only
	Summary  string // One-line description for the instruction reference
}

// Catalog maps each opcode byte to its Info.
var Catalog [OpCodeCount]Info

// byName indexes opcodes by their mnemonic name (first word).
var byName = map[string][]OpCode{}

const (
	allFlags  = "S Z AC P CY"
	szapFlags = "S Z AC P"
)

// AllOps returns every opcode byte, legal or not.
func AllOps() []OpCode {
	ops := make([]OpCode, 0, OpCodeCount)
	for i := 0; i < OpCodeCount; i++ {
		ops = append(ops, OpCode(i))
	}
	return ops
}

// LegalOps returns the opcodes the 8085 assigns semantics to.
func LegalOps() []OpCode {
	ops := make([]OpCode, 0, OpCodeCount)
	for i := 0; i < OpCodeCount; i++ {
		if Catalog[i].Class != Unassigned {
			ops = append(ops, OpCode(i))
		}
	}
	return ops
}

// ByteSize returns the total byte size of an instruction.
func ByteSize(op OpCode) int {
	return Catalog[op].Size
}

// Name returns the mnemonic name without operands ("MOV", "LXI", ...).
func Name(op OpCode) string {
	name, _, _ := strings.Cut(Catalog[op].Mnemonic, " ")
	return name
}

// Operands returns the operand template of op, e.g. {"B", "n"} for MVI B, n.
func Operands(op OpCode) []string {
	_, rest, ok := strings.Cut(Catalog[op].Mnemonic, " ")
	if !ok {
		return nil
	}
	parts := strings.Split(rest, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// ByName returns every opcode whose mnemonic name matches (case-insensitive).
func ByName(name string) []OpCode {
	return byName[strings.ToUpper(name)]
}

// Decode reads the instruction at addr from mem. Operand reads wrap around
// the end of mem, so a 64 KiB image behaves like the 8085 address space.
func Decode(mem []byte, addr int) Instruction {
	n := len(mem)
	at := func(i int) uint8 { return mem[((addr+i)%n+n)%n] }
	op := OpCode(at(0))
	in := Instruction{Op: op}
	switch Catalog[op].Size {
	case 2:
		in.Imm = uint16(at(1))
	case 3:
		in.Imm = uint16(at(1)) | uint16(at(2))<<8
	}
	return in
}

// Disassemble returns assembly text for an instruction.
func Disassemble(instr Instruction) string {
	info := &Catalog[instr.Op]
	if info.Class == Unassigned {
		return disasmImm8("DB n", instr.Op8())
	}
	if HasImm16(instr.Op) {
		return disasmImm16(info.Mnemonic, instr.Imm)
	}
	if HasImmediate(instr.Op) {
		return disasmImm8(info.Mnemonic, uint8(instr.Imm))
	}
	return info.Mnemonic
}

// Op8 returns the opcode as a plain byte.
func (in Instruction) Op8() uint8 {
	return uint8(in.Op)
}

// Bytes returns the encoded instruction.
func (in Instruction) Bytes() []byte {
	switch ByteSize(in.Op) {
	case 2:
		return []byte{uint8(in.Op), uint8(in.Imm)}
	case 3:
		return []byte{uint8(in.Op), uint8(in.Imm), uint8(in.Imm >> 8)}
	}
	return []byte{uint8(in.Op)}
}

func disasmImm8(mnemonic string, imm uint8) string {
	// Replace "n" placeholder with hex value
	buf := make([]byte, 0, len(mnemonic)+4)
	for i := 0; i < len(mnemonic); i++ {
		if mnemonic[i] == 'n' {
			buf = appendHex8(buf, imm)
		} else {
			buf = append(buf, mnemonic[i])
		}
	}
	return string(buf)
}

func disasmImm16(mnemonic string, imm uint16) string {
	// Replace "nn" placeholder with 16-bit hex value
	buf := make([]byte, 0, len(mnemonic)+6)
	for i := 0; i < len(mnemonic); i++ {
		if i+1 < len(mnemonic) && mnemonic[i] == 'n' && mnemonic[i+1] == 'n' {
			buf = appendHex16(buf, imm)
			i++ // skip second 'n'
		} else {
			buf = append(buf, mnemonic[i])
		}
	}
	return string(buf)
}

func appendHex8(buf []byte, v uint8) []byte {
	const hex = "0123456789ABCDEF"
	if v >= 0xA0 {
		buf = append(buf, '0')
	}
	buf = append(buf, hex[v>>4], hex[v&0x0F], 'H')
	return buf
}

func appendHex16(buf []byte, v uint16) []byte {
	const hex = "0123456789ABCDEF"
	if v>>12 >= 0xA {
		buf = append(buf, '0')
	}
	buf = append(buf, hex[v>>12], hex[(v>>8)&0x0F], hex[(v>>4)&0x0F], hex[v&0x0F], 'H')
	return buf
}

// SeqByteSize returns total byte size for a sequence of instructions.
func SeqByteSize(seq []Instruction) int {
	n := 0
	for i := range seq {
		n += ByteSize(seq[i].Op)
	}
	return n
}

func set(op OpCode, mnemonic string, size int, flags string, tstates int, summary string) {
	Catalog[op] = Info{
		Mnemonic: mnemonic,
		Size:     size,
		Flags:    flags,
		TStates:  tstates,
		Summary:  summary,
	}
}

func init() {
	// === Data transfer ===

	// MOV dst, src: 0x40-0x7F except 0x76 (HLT)
	for dst := 0; dst < 8; dst++ {
		for src := 0; src < 8; src++ {
			op := OpCode(0x40 | dst<<3 | src)
			if op == HLT {
				continue
			}
			t := 4
			if dst == RegM || src == RegM {
				t = 7
			}
			set(op, "MOV "+RegNames[dst]+", "+RegNames[src], 1, "", t,
				"Copy "+RegNames[src]+" into "+RegNames[dst])
		}
	}

	// MVI r, n / INR r / DCR r: columns 6, 4, 5 of rows 0x00-0x3F
	for r := 0; r < 8; r++ {
		t, tm := 4, 7
		if r == RegM {
			t, tm = 10, 10
		}
		set(OpCode(r<<3|0x06), "MVI "+RegNames[r]+", n", 2, "", tm,
			"Load immediate byte into "+RegNames[r])
		set(OpCode(r<<3|0x04), "INR "+RegNames[r], 1, szapFlags, t,
			"Increment "+RegNames[r]+" (Carry unaffected)")
		set(OpCode(r<<3|0x05), "DCR "+RegNames[r], 1, szapFlags, t,
			"Decrement "+RegNames[r]+" (Carry unaffected)")
	}

	// Register pair ops
	pairs := []struct {
		name string
		base OpCode
	}{{"B", 0x00}, {"D", 0x10}, {"H", 0x20}, {"SP", 0x30}}
	for _, p := range pairs {
		set(p.base|0x01, "LXI "+p.name+", nn", 3, "", 10, "Load immediate word into pair "+p.name)
		set(p.base|0x03, "INX "+p.name, 1, "", 6, "Increment pair "+p.name)
		set(p.base|0x0B, "DCX "+p.name, 1, "", 6, "Decrement pair "+p.name)
		set(p.base|0x09, "DAD "+p.name, 1, "CY", 10, "Add pair "+p.name+" to HL")
	}
	set(STAX_B, "STAX B", 1, "", 7, "Store A at (BC)")
	set(STAX_D, "STAX D", 1, "", 7, "Store A at (DE)")
	set(LDAX_B, "LDAX B", 1, "", 7, "Load A from (BC)")
	set(LDAX_D, "LDAX D", 1, "", 7, "Load A from (DE)")
	set(SHLD, "SHLD nn", 3, "", 16, "Store L at addr, H at addr+1")
	set(LHLD, "LHLD nn", 3, "", 16, "Load L from addr, H from addr+1")
	set(STA, "STA nn", 3, "", 13, "Store A at addr")
	set(LDA, "LDA nn", 3, "", 13, "Load A from addr")
	set(XCHG, "XCHG", 1, "", 4, "Exchange HL and DE")

	// === Accumulator and flag ops ===
	set(RLC, "RLC", 1, "CY", 4, "Rotate A left, bit 7 into CY and bit 0")
	set(RRC, "RRC", 1, "CY", 4, "Rotate A right, bit 0 into CY and bit 7")
	set(RAL, "RAL", 1, "CY", 4, "Rotate A left through CY")
	set(RAR, "RAR", 1, "CY", 4, "Rotate A right through CY")
	set(DAA, "DAA", 1, allFlags, 4, "Decimal-adjust A after BCD addition")
	set(CMA, "CMA", 1, "", 4, "Complement A")
	set(STC, "STC", 1, "CY", 4, "Set CY")
	set(CMC, "CMC", 1, "CY", 4, "Complement CY")

	// === ALU register/memory (0x80-0xBF) and immediate forms ===
	alu := []struct {
		name, imm string
		immOp     OpCode
		flags     string
		summary   string
	}{
		{"ADD", "ADI", ADI, allFlags, "Add to A"},
		{"ADC", "ACI", ACI, allFlags, "Add with carry to A"},
		{"SUB", "SUI", SUI, allFlags, "Subtract from A"},
		{"SBB", "SBI", SBI, allFlags, "Subtract with borrow from A"},
		{"ANA", "ANI", ANI, allFlags, "AND with A (CY, AC cleared)"},
		{"XRA", "XRI", XRI, allFlags, "XOR with A (CY, AC cleared)"},
		{"ORA", "ORI", ORI, allFlags, "OR with A (CY, AC cleared)"},
		{"CMP", "CPI", CPI, allFlags, "Compare with A (A unchanged)"},
	}
	for i, a := range alu {
		for r := 0; r < 8; r++ {
			t := 4
			if r == RegM {
				t = 7
			}
			set(OpCode(0x80|i<<3|r), a.name+" "+RegNames[r], 1, a.flags, t, a.summary+": "+RegNames[r])
		}
		set(a.immOp, a.imm+" n", 2, a.flags, 7, a.summary+": immediate byte")
	}

	// === Branches ===
	conds := []struct {
		cc   string
		desc string
	}{
		{"NZ", "not zero"}, {"Z", "zero"}, {"NC", "no carry"}, {"C", "carry"},
		{"PO", "parity odd"}, {"PE", "parity even"}, {"P", "plus"}, {"M", "minus"},
	}
	for i, c := range conds {
		base := OpCode(0xC0 | i<<3)
		set(base|0x00, "R"+c.cc, 1, "", 12, "Return if "+c.desc)
		set(base|0x02, "J"+c.cc+" nn", 3, "", 10, "Jump if "+c.desc)
		set(base|0x04, "C"+c.cc+" nn", 3, "", 18, "Call if "+c.desc)
		set(base|0x07, "RST "+string(rune('0'+i)), 1, "", 12,
			"Call restart vector "+string(rune('0'+i)))
	}
	set(JMP, "JMP nn", 3, "", 10, "Jump")
	set(CALL, "CALL nn", 3, "", 18, "Push return address and jump")
	set(RET, "RET", 1, "", 10, "Pop return address")
	set(PCHL, "PCHL", 1, "", 6, "Jump to HL")

	// === Stack ===
	stack := []struct {
		name string
		pop  OpCode
		push OpCode
	}{{"B", POP_B, PUSH_B}, {"D", POP_D, PUSH_D}, {"H", POP_H, PUSH_H}, {"PSW", POP_PSW, PUSH_PSW}}
	for _, s := range stack {
		flags := ""
		if s.name == "PSW" {
			flags = allFlags
		}
		set(s.pop, "POP "+s.name, 1, flags, 10, "Pop pair "+s.name)
		set(s.push, "PUSH "+s.name, 1, "", 12, "Push pair "+s.name)
	}
	set(XTHL, "XTHL", 1, "", 16, "Exchange HL with the word at (SP)")
	set(SPHL, "SPHL", 1, "", 6, "Copy HL into SP")

	// === I/O and machine control ===
	set(IN, "IN n", 2, "", 10, "Read port into A")
	set(OUT, "OUT n", 2, "", 10, "Write A to port")
	set(EI, "EI", 1, "", 4, "Enable interrupts (no effect)")
	set(DI, "DI", 1, "", 4, "Disable interrupts (no effect)")
	set(RIM, "RIM", 1, "", 4, "Read interrupt mask (no effect)")
	set(SIM, "SIM", 1, "", 4, "Set interrupt mask (no effect)")
	set(HLT, "HLT", 1, "", 5, "Halt")
	set(NOP, "NOP", 1, "", 4, "No operation")

	for _, op := range []OpCode{UNDEF08, UNDEF10, UNDEF18, UNDEF28, UNDEF38,
		UNDEFCB, UNDEFD9, UNDEFDD, UNDEFED, UNDEFFD} {
		Catalog[op] = Info{Mnemonic: "???", Size: 1, Class: Unassigned, Summary: "Unassigned opcode (fail-stop)"}
	}

	for i := range Catalog {
		if Catalog[i].Class == Unassigned {
			continue
		}
		name := Name(OpCode(i))
		byName[name] = append(byName[name], OpCode(i))
	}
}
