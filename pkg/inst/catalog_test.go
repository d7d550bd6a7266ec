package inst

import (
	"testing"
)

// TestCatalogCompleteness verifies every byte value has a catalog entry.
func TestCatalogCompleteness(t *testing.T) {
	for _, op := range AllOps() {
		info := &Catalog[op]
		if info.Mnemonic == "" {
			t.Errorf("opcode %02X has no mnemonic", uint8(op))
		}
		if info.Size < 1 || info.Size > 3 {
			t.Errorf("opcode %02X (%s) has size %d", uint8(op), info.Mnemonic, info.Size)
		}
		if info.Class == Assigned && info.TStates == 0 {
			t.Errorf("opcode %02X (%s) has 0 T-states", uint8(op), info.Mnemonic)
		}
	}
}

func TestLegalCount(t *testing.T) {
	if got := len(LegalOps()); got != 246 {
		t.Errorf("LegalOps() = %d opcodes, want 246", got)
	}
	for _, op := range []OpCode{0x08, 0x10, 0x18, 0x28, 0x38, 0xCB, 0xD9, 0xDD, 0xED, 0xFD} {
		if Legal(op) {
			t.Errorf("opcode %02X should be unassigned", uint8(op))
		}
	}
}

// TestEncoding spot-checks mnemonics against the 8085 opcode map.
func TestEncoding(t *testing.T) {
	expected := map[OpCode]string{
		0x00: "NOP",
		0x01: "LXI B, nn",
		0x06: "MVI B, n",
		0x20: "RIM",
		0x22: "SHLD nn",
		0x27: "DAA",
		0x30: "SIM",
		0x31: "LXI SP, nn",
		0x36: "MVI M, n",
		0x3E: "MVI A, n",
		0x40: "MOV B, B",
		0x46: "MOV B, M",
		0x70: "MOV M, B",
		0x76: "HLT",
		0x7F: "MOV A, A",
		0x80: "ADD B",
		0x8E: "ADC M",
		0x97: "SUB A",
		0x9F: "SBB A",
		0xA6: "ANA M",
		0xAF: "XRA A",
		0xB0: "ORA B",
		0xBE: "CMP M",
		0xC0: "RNZ",
		0xC3: "JMP nn",
		0xC6: "ADI n",
		0xC7: "RST 0",
		0xC9: "RET",
		0xCD: "CALL nn",
		0xCE: "ACI n",
		0xD3: "OUT n",
		0xDB: "IN n",
		0xDE: "SBI n",
		0xE3: "XTHL",
		0xE9: "PCHL",
		0xEB: "XCHG",
		0xF1: "POP PSW",
		0xF2: "JP nn",
		0xF4: "CP nn",
		0xF5: "PUSH PSW",
		0xF9: "SPHL",
		0xFA: "JM nn",
		0xFE: "CPI n",
		0xFF: "RST 7",
	}
	for op, want := range expected {
		if got := Catalog[op].Mnemonic; got != want {
			t.Errorf("opcode %02X: mnemonic %q, want %q", uint8(op), got, want)
		}
	}
}

func TestByteSize(t *testing.T) {
	tests := []struct {
		op   OpCode
		want int
	}{
		{NOP, 1}, {MOV_A_M, 1}, {MVI_A, 2}, {ADI, 2}, {IN, 2}, {OUT, 2},
		{LXI_H, 3}, {JMP, 3}, {CALL, 3}, {CNZ, 3}, {STA, 3}, {LHLD, 3},
		{RST_3, 1}, {UNDEFCB, 1},
	}
	for _, tc := range tests {
		if got := ByteSize(tc.op); got != tc.want {
			t.Errorf("ByteSize(%s) = %d, want %d", Catalog[tc.op].Mnemonic, got, tc.want)
		}
	}
}

func TestDisassemble(t *testing.T) {
	tests := []struct {
		in   Instruction
		want string
	}{
		{Instruction{Op: MVI_A, Imm: 0x25}, "MVI A, 25H"},
		{Instruction{Op: MVI_B, Imm: 0xF0}, "MVI B, 0F0H"},
		{Instruction{Op: JMP, Imm: 0x2000}, "JMP 2000H"},
		{Instruction{Op: LXI_SP, Imm: 0xFFFE}, "LXI SP, 0FFFEH"},
		{Instruction{Op: ADD_B}, "ADD B"},
		{Instruction{Op: UNDEFED}, "DB 0EDH"},
	}
	for _, tc := range tests {
		if got := Disassemble(tc.in); got != tc.want {
			t.Errorf("Disassemble(%02X %04X) = %q, want %q", uint8(tc.in.Op), tc.in.Imm, got, tc.want)
		}
	}
}

func TestDecodeWraps(t *testing.T) {
	mem := make([]byte, 0x10000)
	mem[0xFFFF] = uint8(JMP)
	mem[0x0000] = 0x34
	mem[0x0001] = 0x12
	in := Decode(mem, 0xFFFF)
	if in.Op != JMP || in.Imm != 0x1234 {
		t.Errorf("Decode at FFFF = %+v, want JMP 1234", in)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	for _, op := range LegalOps() {
		in := Instruction{Op: op, Imm: 0xBEEF}
		if HasImmediate(op) {
			in.Imm = 0xEF
		} else if !HasImm16(op) {
			in.Imm = 0
		}
		enc := in.Bytes()
		if len(enc) != ByteSize(op) {
			t.Fatalf("%s: encoded %d bytes, want %d", Catalog[op].Mnemonic, len(enc), ByteSize(op))
		}
		if got := Decode(enc, 0); got != in {
			t.Errorf("%s: decode(encode) = %+v, want %+v", Catalog[op].Mnemonic, got, in)
		}
	}
}

func TestByName(t *testing.T) {
	if got := len(ByName("mov")); got != 63 {
		t.Errorf("ByName(mov) = %d opcodes, want 63", got)
	}
	if got := len(ByName("RST")); got != 8 {
		t.Errorf("ByName(RST) = %d opcodes, want 8", got)
	}
	ops := Operands(MVI_M)
	if len(ops) != 2 || ops[0] != "M" || ops[1] != "n" {
		t.Errorf("Operands(MVI M) = %v", ops)
	}
	if Operands(NOP) != nil {
		t.Errorf("Operands(NOP) should be nil")
	}
}
