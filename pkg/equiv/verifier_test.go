package equiv

import (
	"errors"
	"testing"

	"github.com/oisee/sim8085/pkg/cpu"
	"github.com/oisee/sim8085/pkg/inst"
)

func seq(ops ...inst.Instruction) []inst.Instruction { return ops }

func op(o inst.OpCode) inst.Instruction { return inst.Instruction{Op: o} }

func imm(o inst.OpCode, v uint16) inst.Instruction { return inst.Instruction{Op: o, Imm: v} }

func TestEquivalentLogic(t *testing.T) {
	// both leave A alone, clear CY and AC, and set S Z P from A
	ok, v, err := ExhaustiveCheck(seq(op(inst.ANA_A)), seq(op(inst.ORA_A)), DeadNone)
	if err != nil || !ok {
		t.Fatalf("ANA A vs ORA A: ok=%v input=%+v err=%v", ok, v, err)
	}
}

func TestIncVersusAddImmediate(t *testing.T) {
	inr := seq(op(inst.INR_A))
	adi := seq(imm(inst.ADI, 1))

	ok, err := QuickCheck(inr, adi, DeadNone)
	if err != nil || ok {
		t.Errorf("INR A vs ADI 1 should differ in CY: ok=%v err=%v", ok, err)
	}
	ok, v, err := ExhaustiveCheck(inr, adi, DeadNone)
	if err != nil || ok || v == nil {
		t.Errorf("exhaustive: ok=%v input=%v err=%v", ok, v, err)
	}

	ok, v, err = ExhaustiveCheck(inr, adi, cpu.FlagCY)
	if err != nil || !ok {
		t.Errorf("with CY dead: ok=%v input=%+v err=%v", ok, v, err)
	}
}

func TestDifferentLengths(t *testing.T) {
	mvi := seq(imm(inst.MVI_A, 0))
	xra := seq(op(inst.XRA_A))

	ok, err := QuickCheck(mvi, xra, DeadAll)
	if err != nil || !ok {
		t.Errorf("MVI A,0 vs XRA A with flags dead: ok=%v err=%v", ok, err)
	}
	ok, err = QuickCheck(mvi, xra, DeadNone)
	if err != nil || ok {
		t.Errorf("MVI A,0 vs XRA A differ in flags: ok=%v err=%v", ok, err)
	}
}

func TestMemoryWrites(t *testing.T) {
	ok, err := QuickCheck(seq(op(inst.MOV_M_A)), seq(op(inst.NOP)), DeadNone)
	if err != nil || ok {
		t.Errorf("MOV M,A vs NOP: ok=%v err=%v", ok, err)
	}

	// PUSH H : POP D  ==  MOV D,H : MOV E,L apart from the stack bytes
	push := seq(op(inst.PUSH_H), op(inst.POP_D))
	mov := seq(op(inst.MOV_D_H), op(inst.MOV_E_L))
	ok, err = QuickCheck(push, mov, DeadNone)
	if err != nil || ok {
		t.Errorf("stack bytes should differ: ok=%v err=%v", ok, err)
	}
}

func TestStraight(t *testing.T) {
	for _, bad := range []inst.Instruction{
		imm(inst.JMP, 0), imm(inst.CZ, 0), op(inst.RNC), op(inst.RST_1),
		op(inst.PCHL), op(inst.HLT), op(inst.UNDEFCB),
	} {
		err := Straight(seq(op(inst.NOP), bad))
		if !errors.Is(err, ErrControlFlow) {
			t.Errorf("%s: err = %v, want ErrControlFlow", inst.Disassemble(bad), err)
		}
	}
	for _, good := range []inst.OpCode{inst.CMA, inst.CMC, inst.CMP_B, inst.CPI, inst.RAL, inst.RIM, inst.XTHL} {
		if err := Straight(seq(op(good))); err != nil {
			t.Errorf("%s rejected: %v", inst.Name(good), err)
		}
	}
	if _, err := QuickCheck(seq(op(inst.RET)), seq(op(inst.NOP)), DeadNone); err == nil {
		t.Error("QuickCheck accepted RET")
	}
}

func TestInputs(t *testing.T) {
	if got := Inputs(); got != len(TestVectors)*512 {
		t.Errorf("Inputs() = %d", got)
	}
}

func TestWritesIntoCodeArea(t *testing.T) {
	sta := seq(imm(inst.STA, codeBase))
	ok, err := QuickCheck(sta, seq(op(inst.NOP)), DeadNone)
	if err != nil || ok {
		t.Errorf("STA over own code vs NOP: ok=%v err=%v", ok, err)
	}
	ok, v, err := ExhaustiveCheck(sta, seq(op(inst.NOP)), DeadNone)
	if err != nil || ok || v == nil {
		t.Errorf("exhaustive: ok=%v input=%v err=%v", ok, v, err)
	}

	// the same byte written through HL or directly
	viaHL := seq(imm(inst.LXI_H, codeBase), op(inst.MOV_M_A))
	direct := seq(imm(inst.STA, codeBase), imm(inst.LXI_H, codeBase))
	ok, err = QuickCheck(viaHL, direct, DeadNone)
	if err != nil || !ok {
		t.Errorf("MOV M,A vs STA at code base: ok=%v err=%v", ok, err)
	}
}

func TestReadsOfCodeAreaRejected(t *testing.T) {
	for _, in := range []inst.Instruction{
		imm(inst.LDA, codeBase),
		imm(inst.LDA, codeBase+2),
		imm(inst.LHLD, codeBase-1),
	} {
		_, err := QuickCheck(seq(in), seq(op(inst.NOP)), DeadNone)
		if !errors.Is(err, ErrCodeRead) {
			t.Errorf("%s: err = %v, want ErrCodeRead", inst.Disassemble(in), err)
		}
	}
	if _, err := QuickCheck(seq(imm(inst.LDA, codeBase+3)), seq(op(inst.NOP)), DeadNone); err != nil {
		t.Errorf("LDA past the code area rejected: %v", err)
	}
}
