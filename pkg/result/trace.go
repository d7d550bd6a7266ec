package result

import (
	"sort"
	"sync"

	"github.com/oisee/sim8085/pkg/inst"
)

// Step is one executed instruction as seen before it ran.
type Step struct {
	N     uint64
	PC    uint16
	Instr inst.Instruction
	A     uint8
	Flags uint8 // Status word
	SP    uint16
}

// Text disassembles the traced instruction.
func (s Step) Text() string {
	return inst.Disassemble(s.Instr)
}

// Trace stores executed steps. With a limit it keeps only the most recent
// ones.
type Trace struct {
	mu    sync.Mutex
	limit int
	steps []Step
}

// NewTrace creates an empty trace; limit <= 0 keeps everything.
func NewTrace(limit int) *Trace {
	return &Trace{limit: limit}
}

// Add appends a step, dropping the oldest one past the limit.
func (t *Trace) Add(s Step) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.steps = append(t.steps, s)
	if t.limit > 0 && len(t.steps) > t.limit {
		t.steps = append(t.steps[:0], t.steps[len(t.steps)-t.limit:]...)
	}
}

// Steps returns a copy of the recorded steps in execution order.
func (t *Trace) Steps() []Step {
	t.mu.Lock()
	defer t.mu.Unlock()
	result := make([]Step, len(t.steps))
	copy(result, t.steps)
	sort.Slice(result, func(i, j int) bool {
		return result[i].N < result[j].N
	})
	return result
}

// Len returns the number of recorded steps.
func (t *Trace) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.steps)
}
