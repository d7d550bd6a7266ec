package result

import (
	"encoding/gob"
	"errors"
	"os"

	"github.com/oisee/sim8085/pkg/cpu"
)

// Checkpoint is a full machine image for resuming a run.
type Checkpoint struct {
	Registers cpu.Registers
	Status    uint8 // Flags as a status word
	Memory    []byte
	Ports     []byte
	Reason    cpu.HaltReason
	Fault     *cpu.IllegalOpcodeError
	Steps     uint64 // Instructions executed so far
}

// Capture copies the machine state of c.
func Capture(c *cpu.CPU, steps uint64) *Checkpoint {
	ckpt := &Checkpoint{
		Registers: c.Registers,
		Status:    c.Flags.Byte(),
		Memory:    append([]byte(nil), c.Memory[:]...),
		Ports:     append([]byte(nil), c.Ports[:]...),
		Reason:    c.Reason(),
		Steps:     steps,
	}
	var ie *cpu.IllegalOpcodeError
	if errors.As(c.Err(), &ie) {
		ckpt.Fault = ie
	}
	return ckpt
}

// Restore writes the checkpoint back into c.
func (ckpt *Checkpoint) Restore(c *cpu.CPU) {
	c.Registers = ckpt.Registers
	c.Flags.SetByte(ckpt.Status)
	copy(c.Memory[:], ckpt.Memory)
	copy(c.Ports[:], ckpt.Ports)
	c.SetHalted(ckpt.Reason, ckpt.Fault)
}

// SaveCheckpoint writes machine state to a file.
func SaveCheckpoint(path string, ckpt *Checkpoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gob.NewEncoder(f).Encode(ckpt)
}

// LoadCheckpoint loads machine state from a file.
func LoadCheckpoint(path string) (*Checkpoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var ckpt Checkpoint
	if err := gob.NewDecoder(f).Decode(&ckpt); err != nil {
		return nil, err
	}
	if len(ckpt.Memory) != cpu.MemorySize || len(ckpt.Ports) != cpu.PortCount {
		return nil, ErrCheckpointSize
	}
	return &ckpt, nil
}
