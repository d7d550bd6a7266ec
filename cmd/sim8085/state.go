package main

import (
	"io"

	"github.com/bradleyjkemp/memviz"

	"github.com/oisee/sim8085/pkg/cpu"
	"github.com/oisee/sim8085/pkg/inst"
)

// stateView is the part of a machine worth drawing; the full 64 KiB
// memory array would swamp the graph.
type stateView struct {
	Registers cpu.Registers
	Flags     cpu.Flags
	Status    uint8
	Halted    bool
	Reason    string
	Next      string
	Stack     []uint16 // Words from SP upwards
	Ports     map[uint8]uint8
}

func newStateView(s cpu.Snapshot, stackWords int) *stateView {
	v := &stateView{
		Registers: s.Registers,
		Flags:     s.Flags,
		Status:    s.Flags.Byte(),
		Halted:    s.Halted,
		Reason:    s.Reason.String(),
		Next:      inst.Disassemble(inst.Decode(s.Memory[:], int(s.PC))),
		Ports:     map[uint8]uint8{},
	}
	for i := 0; i < stackWords; i++ {
		at := s.SP + uint16(2*i)
		v.Stack = append(v.Stack, uint16(s.Memory[at])|uint16(s.Memory[at+1])<<8)
	}
	for p, val := range s.Ports {
		if val != 0 {
			v.Ports[uint8(p)] = val
		}
	}
	return v
}

// writeDot renders the view as a graphviz digraph.
func writeDot(w io.Writer, s cpu.Snapshot, stackWords int) {
	memviz.Map(w, newStateView(s, stackWords))
}
