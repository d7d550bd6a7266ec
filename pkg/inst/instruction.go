package inst

// OpCode is the raw 8085 opcode byte. Unlike a Z80 there are no prefixes, so
// the byte value itself is the identity of the instruction and the 256 values
// form a closed enumeration.
type OpCode uint8

// OpCodeCount is the number of distinct opcode bytes.
const OpCodeCount = 256

// Register operand encoding used in bits 0-2 (source) and 3-5 (destination)
// of the MOV/ALU/INR/DCR/MVI families.
const (
	RegB = iota
	RegC
	RegD
	RegE
	RegH
	RegL
	RegM // memory at (HL)
	RegA
)

// RegNames maps the 3-bit register encoding to its assembler name.
var RegNames = [8]string{"B", "C", "D", "E", "H", "L", "M", "A"}

// Opcode byte values, ordered as in the 8085 opcode map.
//
// The ten UNDEF_xx values are not assigned by the 8085 and fail-stop the
// simulator when executed.
const (
	NOP     OpCode = 0x00
	LXI_B   OpCode = 0x01
	STAX_B  OpCode = 0x02
	INX_B   OpCode = 0x03
	INR_B   OpCode = 0x04
	DCR_B   OpCode = 0x05
	MVI_B   OpCode = 0x06
	RLC     OpCode = 0x07
	UNDEF08 OpCode = 0x08
	DAD_B   OpCode = 0x09
	LDAX_B  OpCode = 0x0A
	DCX_B   OpCode = 0x0B
	INR_C   OpCode = 0x0C
	DCR_C   OpCode = 0x0D
	MVI_C   OpCode = 0x0E
	RRC     OpCode = 0x0F

	UNDEF10 OpCode = 0x10
	LXI_D   OpCode = 0x11
	STAX_D  OpCode = 0x12
	INX_D   OpCode = 0x13
	INR_D   OpCode = 0x14
	DCR_D   OpCode = 0x15
	MVI_D   OpCode = 0x16
	RAL     OpCode = 0x17
	UNDEF18 OpCode = 0x18
	DAD_D   OpCode = 0x19
	LDAX_D  OpCode = 0x1A
	DCX_D   OpCode = 0x1B
	INR_E   OpCode = 0x1C
	DCR_E   OpCode = 0x1D
	MVI_E   OpCode = 0x1E
	RAR     OpCode = 0x1F

	RIM     OpCode = 0x20
	LXI_H   OpCode = 0x21
	SHLD    OpCode = 0x22
	INX_H   OpCode = 0x23
	INR_H   OpCode = 0x24
	DCR_H   OpCode = 0x25
	MVI_H   OpCode = 0x26
	DAA     OpCode = 0x27
	UNDEF28 OpCode = 0x28
	DAD_H   OpCode = 0x29
	LHLD    OpCode = 0x2A
	DCX_H   OpCode = 0x2B
	INR_L   OpCode = 0x2C
	DCR_L   OpCode = 0x2D
	MVI_L   OpCode = 0x2E
	CMA     OpCode = 0x2F

	SIM     OpCode = 0x30
	LXI_SP  OpCode = 0x31
	STA     OpCode = 0x32
	INX_SP  OpCode = 0x33
	INR_M   OpCode = 0x34
	DCR_M   OpCode = 0x35
	MVI_M   OpCode = 0x36
	STC     OpCode = 0x37
	UNDEF38 OpCode = 0x38
	DAD_SP  OpCode = 0x39
	LDA     OpCode = 0x3A
	DCX_SP  OpCode = 0x3B
	INR_A   OpCode = 0x3C
	DCR_A   OpCode = 0x3D
	MVI_A   OpCode = 0x3E
	CMC     OpCode = 0x3F

	// MOV dst, src (0x40-0x7F, 0x76 is HLT)
	MOV_B_B OpCode = 0x40
	MOV_B_C OpCode = 0x41
	MOV_B_D OpCode = 0x42
	MOV_B_E OpCode = 0x43
	MOV_B_H OpCode = 0x44
	MOV_B_L OpCode = 0x45
	MOV_B_M OpCode = 0x46
	MOV_B_A OpCode = 0x47
	MOV_C_B OpCode = 0x48
	MOV_C_C OpCode = 0x49
	MOV_C_D OpCode = 0x4A
	MOV_C_E OpCode = 0x4B
	MOV_C_H OpCode = 0x4C
	MOV_C_L OpCode = 0x4D
	MOV_C_M OpCode = 0x4E
	MOV_C_A OpCode = 0x4F
	MOV_D_B OpCode = 0x50
	MOV_D_C OpCode = 0x51
	MOV_D_D OpCode = 0x52
	MOV_D_E OpCode = 0x53
	MOV_D_H OpCode = 0x54
	MOV_D_L OpCode = 0x55
	MOV_D_M OpCode = 0x56
	MOV_D_A OpCode = 0x57
	MOV_E_B OpCode = 0x58
	MOV_E_C OpCode = 0x59
	MOV_E_D OpCode = 0x5A
	MOV_E_E OpCode = 0x5B
	MOV_E_H OpCode = 0x5C
	MOV_E_L OpCode = 0x5D
	MOV_E_M OpCode = 0x5E
	MOV_E_A OpCode = 0x5F
	MOV_H_B OpCode = 0x60
	MOV_H_C OpCode = 0x61
	MOV_H_D OpCode = 0x62
	MOV_H_E OpCode = 0x63
	MOV_H_H OpCode = 0x64
	MOV_H_L OpCode = 0x65
	MOV_H_M OpCode = 0x66
	MOV_H_A OpCode = 0x67
	MOV_L_B OpCode = 0x68
	MOV_L_C OpCode = 0x69
	MOV_L_D OpCode = 0x6A
	MOV_L_E OpCode = 0x6B
	MOV_L_H OpCode = 0x6C
	MOV_L_L OpCode = 0x6D
	MOV_L_M OpCode = 0x6E
	MOV_L_A OpCode = 0x6F
	MOV_M_B OpCode = 0x70
	MOV_M_C OpCode = 0x71
	MOV_M_D OpCode = 0x72
	MOV_M_E OpCode = 0x73
	MOV_M_H OpCode = 0x74
	MOV_M_L OpCode = 0x75
	HLT     OpCode = 0x76
	MOV_M_A OpCode = 0x77
	MOV_A_B OpCode = 0x78
	MOV_A_C OpCode = 0x79
	MOV_A_D OpCode = 0x7A
	MOV_A_E OpCode = 0x7B
	MOV_A_H OpCode = 0x7C
	MOV_A_L OpCode = 0x7D
	MOV_A_M OpCode = 0x7E
	MOV_A_A OpCode = 0x7F

	// Register/memory ALU ops (0x80-0xBF)
	ADD_B OpCode = 0x80
	ADD_C OpCode = 0x81
	ADD_D OpCode = 0x82
	ADD_E OpCode = 0x83
	ADD_H OpCode = 0x84
	ADD_L OpCode = 0x85
	ADD_M OpCode = 0x86
	ADD_A OpCode = 0x87
	ADC_B OpCode = 0x88
	ADC_C OpCode = 0x89
	ADC_D OpCode = 0x8A
	ADC_E OpCode = 0x8B
	ADC_H OpCode = 0x8C
	ADC_L OpCode = 0x8D
	ADC_M OpCode = 0x8E
	ADC_A OpCode = 0x8F
	SUB_B OpCode = 0x90
	SUB_C OpCode = 0x91
	SUB_D OpCode = 0x92
	SUB_E OpCode = 0x93
	SUB_H OpCode = 0x94
	SUB_L OpCode = 0x95
	SUB_M OpCode = 0x96
	SUB_A OpCode = 0x97
	SBB_B OpCode = 0x98
	SBB_C OpCode = 0x99
	SBB_D OpCode = 0x9A
	SBB_E OpCode = 0x9B
	SBB_H OpCode = 0x9C
	SBB_L OpCode = 0x9D
	SBB_M OpCode = 0x9E
	SBB_A OpCode = 0x9F
	ANA_B OpCode = 0xA0
	ANA_C OpCode = 0xA1
	ANA_D OpCode = 0xA2
	ANA_E OpCode = 0xA3
	ANA_H OpCode = 0xA4
	ANA_L OpCode = 0xA5
	ANA_M OpCode = 0xA6
	ANA_A OpCode = 0xA7
	XRA_B OpCode = 0xA8
	XRA_C OpCode = 0xA9
	XRA_D OpCode = 0xAA
	XRA_E OpCode = 0xAB
	XRA_H OpCode = 0xAC
	XRA_L OpCode = 0xAD
	XRA_M OpCode = 0xAE
	XRA_A OpCode = 0xAF
	ORA_B OpCode = 0xB0
	ORA_C OpCode = 0xB1
	ORA_D OpCode = 0xB2
	ORA_E OpCode = 0xB3
	ORA_H OpCode = 0xB4
	ORA_L OpCode = 0xB5
	ORA_M OpCode = 0xB6
	ORA_A OpCode = 0xB7
	CMP_B OpCode = 0xB8
	CMP_C OpCode = 0xB9
	CMP_D OpCode = 0xBA
	CMP_E OpCode = 0xBB
	CMP_H OpCode = 0xBC
	CMP_L OpCode = 0xBD
	CMP_M OpCode = 0xBE
	CMP_A OpCode = 0xBF

	RNZ     OpCode = 0xC0
	POP_B   OpCode = 0xC1
	JNZ     OpCode = 0xC2
	JMP     OpCode = 0xC3
	CNZ     OpCode = 0xC4
	PUSH_B  OpCode = 0xC5
	ADI     OpCode = 0xC6
	RST_0   OpCode = 0xC7
	RZ      OpCode = 0xC8
	RET     OpCode = 0xC9
	JZ      OpCode = 0xCA
	UNDEFCB OpCode = 0xCB
	CZ      OpCode = 0xCC
	CALL    OpCode = 0xCD
	ACI     OpCode = 0xCE
	RST_1   OpCode = 0xCF

	RNC     OpCode = 0xD0
	POP_D   OpCode = 0xD1
	JNC     OpCode = 0xD2
	OUT     OpCode = 0xD3
	CNC     OpCode = 0xD4
	PUSH_D  OpCode = 0xD5
	SUI     OpCode = 0xD6
	RST_2   OpCode = 0xD7
	RC      OpCode = 0xD8
	UNDEFD9 OpCode = 0xD9
	JC      OpCode = 0xDA
	IN      OpCode = 0xDB
	CC      OpCode = 0xDC
	UNDEFDD OpCode = 0xDD
	SBI     OpCode = 0xDE
	RST_3   OpCode = 0xDF

	RPO     OpCode = 0xE0
	POP_H   OpCode = 0xE1
	JPO     OpCode = 0xE2
	XTHL    OpCode = 0xE3
	CPO     OpCode = 0xE4
	PUSH_H  OpCode = 0xE5
	ANI     OpCode = 0xE6
	RST_4   OpCode = 0xE7
	RPE     OpCode = 0xE8
	PCHL    OpCode = 0xE9
	JPE     OpCode = 0xEA
	XCHG    OpCode = 0xEB
	CPE     OpCode = 0xEC
	UNDEFED OpCode = 0xED
	XRI     OpCode = 0xEE
	RST_5   OpCode = 0xEF

	RP       OpCode = 0xF0
	POP_PSW  OpCode = 0xF1
	JP       OpCode = 0xF2
	DI       OpCode = 0xF3
	CP       OpCode = 0xF4
	PUSH_PSW OpCode = 0xF5
	ORI      OpCode = 0xF6
	RST_6    OpCode = 0xF7
	RM       OpCode = 0xF8
	SPHL     OpCode = 0xF9
	JM       OpCode = 0xFA
	EI       OpCode = 0xFB
	CM       OpCode = 0xFC
	UNDEFFD  OpCode = 0xFD
	CPI      OpCode = 0xFE
	RST_7    OpCode = 0xFF
)

// Instruction is one decoded instruction: the opcode and its operand, if any.
// Imm holds the 8-bit immediate or the 16-bit address/data word.
type Instruction struct {
	Op  OpCode
	Imm uint16
}

// HasImmediate returns true if this opcode is followed by an 8-bit operand.
func HasImmediate(op OpCode) bool {
	return Catalog[op].Size == 2
}

// HasImm16 returns true if this opcode is followed by a 16-bit operand.
func HasImm16(op OpCode) bool {
	return Catalog[op].Size == 3
}

// Legal reports whether the 8085 assigns semantics to op.
func Legal(op OpCode) bool {
	return Catalog[op].Class != Unassigned
}
