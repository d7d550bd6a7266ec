package result

import (
	"encoding/hex"
	"encoding/json"
	"io"

	"github.com/oisee/sim8085/pkg/cpu"
)

// Report is the JSON summary of a finished run.
type Report struct {
	A  uint8  `json:"a"`
	B  uint8  `json:"b"`
	C  uint8  `json:"c"`
	D  uint8  `json:"d"`
	E  uint8  `json:"e"`
	H  uint8  `json:"h"`
	L  uint8  `json:"l"`
	SP uint16 `json:"sp"`
	PC uint16 `json:"pc"`

	Flags  cpu.Flags `json:"flags"`
	Status uint8     `json:"status"`

	Halted bool   `json:"halted"`
	Reason string `json:"reason"`
	Fault  string `json:"fault,omitempty"`
	Steps  uint64 `json:"steps"`
	Stop   string `json:"stop,omitempty"` // Why the driver stopped, if not a halt

	Ports  map[uint8]uint8 `json:"ports,omitempty"` // Non-zero ports only
	Memory []Dump          `json:"memory,omitempty"`
}

// Dump is a hex window of memory.
type Dump struct {
	Addr uint16 `json:"addr"`
	Hex  string `json:"hex"`
}

// NewReport summarises a snapshot.
func NewReport(s cpu.Snapshot, steps uint64) *Report {
	r := &Report{
		A: s.A, B: s.B, C: s.C, D: s.D, E: s.E, H: s.H, L: s.L,
		SP:     s.SP,
		PC:     s.PC,
		Flags:  s.Flags,
		Status: s.Flags.Byte(),
		Halted: s.Halted,
		Reason: s.Reason.String(),
		Steps:  steps,
	}
	if s.Err != nil {
		r.Fault = s.Err.Error()
	}
	if s.Ports != nil {
		for p, v := range s.Ports {
			if v != 0 {
				if r.Ports == nil {
					r.Ports = map[uint8]uint8{}
				}
				r.Ports[uint8(p)] = v
			}
		}
	}
	return r
}

// AddDump appends n bytes of memory from addr, wrapping past 0xFFFF.
func (r *Report) AddDump(s cpu.Snapshot, addr, n int) {
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = s.Memory[uint16(addr+i)]
	}
	r.Memory = append(r.Memory, Dump{Addr: uint16(addr), Hex: hex.EncodeToString(buf)})
}

// WriteJSON writes the report as indented JSON.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// ReadReport decodes a report written by WriteJSON.
func ReadReport(rd io.Reader) (*Report, error) {
	var r Report
	if err := json.NewDecoder(rd).Decode(&r); err != nil {
		return nil, err
	}
	return &r, nil
}
