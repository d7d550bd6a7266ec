// Package script drives a processor from Lua.
//
// Globals:
//
//	reset()                 power-on reset (memory kept)
//	step([n])               execute up to n instructions (default 1), returns count
//	run([max])              run to halt, returns steps and a stop message or nil
//	poke(addr, v)  peek(addr)
//	load(addr, {bytes})     store a byte list
//	asm(source)             assemble and load, returns origin and size
//	reg(name)  setreg(name, v)    A B C D E H L SP PC BC DE HL PSW
//	flag(name)  setflag(name, b)  S Z AC P CY
//	halted()                returns halted flag and reason
//	port(p)  setport(p, v)
package script

import (
	"context"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/oisee/sim8085/pkg/asm"
	"github.com/oisee/sim8085/pkg/cpu"
	"github.com/oisee/sim8085/pkg/runner"
)

// Script is a Lua state bound to one processor.
type Script struct {
	CPU     *cpu.CPU
	Options runner.Options // used by run()

	L   *lua.LState
	ctx context.Context
}

// New creates a Lua state with the machine globals installed.
func New(ctx context.Context, c *cpu.CPU, opts runner.Options) *Script {
	s := &Script{
		CPU:     c,
		Options: opts,
		L:       lua.NewState(),
		ctx:     ctx,
	}
	s.L.SetContext(ctx)
	for name, fn := range map[string]lua.LGFunction{
		"reset":   s.reset,
		"step":    s.step,
		"run":     s.run,
		"poke":    s.poke,
		"peek":    s.peek,
		"load":    s.load,
		"asm":     s.asm,
		"reg":     s.reg,
		"setreg":  s.setreg,
		"flag":    s.flag,
		"setflag": s.setflag,
		"halted":  s.halted,
		"port":    s.port,
		"setport": s.setport,
	} {
		s.L.SetGlobal(name, s.L.NewFunction(fn))
	}
	return s
}

// DoString runs a chunk of Lua.
func (s *Script) DoString(src string) error {
	return s.L.DoString(src)
}

// DoFile runs a Lua file.
func (s *Script) DoFile(path string) error {
	return s.L.DoFile(path)
}

// Close releases the Lua state.
func (s *Script) Close() {
	s.L.Close()
}

func (s *Script) reset(L *lua.LState) int {
	s.CPU.Reset()
	return 0
}

func (s *Script) step(L *lua.LState) int {
	n := L.OptInt(1, 1)
	done := 0
	for ; done < n && !s.CPU.Halted; done++ {
		s.CPU.Step()
	}
	L.Push(lua.LNumber(done))
	return 1
}

func (s *Script) run(L *lua.LState) int {
	opts := s.Options
	if L.GetTop() >= 1 {
		n := L.CheckInt(1)
		if n < 1 {
			L.ArgError(1, "step budget must be at least 1")
			return 0
		}
		opts.MaxSteps = uint64(n)
	}
	res, err := runner.Run(s.ctx, s.CPU, opts)
	L.Push(lua.LNumber(res.Steps))
	if err != nil {
		L.Push(lua.LString(err.Error()))
	} else {
		L.Push(lua.LNil)
	}
	return 2
}

func (s *Script) poke(L *lua.LState) int {
	s.CPU.Poke(L.CheckInt(1), L.CheckInt(2))
	return 0
}

func (s *Script) peek(L *lua.LState) int {
	L.Push(lua.LNumber(s.CPU.Peek(L.CheckInt(1))))
	return 1
}

func (s *Script) load(L *lua.LState) int {
	addr := L.CheckInt(1)
	tbl := L.CheckTable(2)
	data := make([]byte, 0, tbl.Len())
	for i := 1; i <= tbl.Len(); i++ {
		v, ok := tbl.RawGetInt(i).(lua.LNumber)
		if !ok {
			L.ArgError(2, "byte list expected")
			return 0
		}
		data = append(data, uint8(int(v)))
	}
	s.CPU.Load(addr, data)
	return 0
}

func (s *Script) asm(L *lua.LState) int {
	prog, err := asm.AssembleString(L.CheckString(1))
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	s.CPU.Load(int(prog.Origin), prog.Code)
	L.Push(lua.LNumber(prog.Origin))
	L.Push(lua.LNumber(len(prog.Code)))
	return 2
}

func (s *Script) reg(L *lua.LState) int {
	c := s.CPU
	var v int
	switch strings.ToUpper(L.CheckString(1)) {
	case "A":
		v = int(c.A)
	case "B":
		v = int(c.B)
	case "C":
		v = int(c.C)
	case "D":
		v = int(c.D)
	case "E":
		v = int(c.E)
	case "H":
		v = int(c.H)
	case "L":
		v = int(c.L)
	case "SP":
		v = int(c.SP)
	case "PC":
		v = int(c.PC)
	case "BC":
		v = int(c.BC())
	case "DE":
		v = int(c.DE())
	case "HL":
		v = int(c.HL())
	case "PSW":
		v = int(c.PSW())
	default:
		L.ArgError(1, "unknown register")
		return 0
	}
	L.Push(lua.LNumber(v))
	return 1
}

func (s *Script) setreg(L *lua.LState) int {
	c := s.CPU
	v := L.CheckInt(2)
	switch strings.ToUpper(L.CheckString(1)) {
	case "A":
		c.A = uint8(v)
	case "B":
		c.B = uint8(v)
	case "C":
		c.C = uint8(v)
	case "D":
		c.D = uint8(v)
	case "E":
		c.E = uint8(v)
	case "H":
		c.H = uint8(v)
	case "L":
		c.L = uint8(v)
	case "SP":
		c.SP = uint16(v)
	case "PC":
		c.PC = uint16(v)
	case "BC":
		c.SetBC(uint16(v))
	case "DE":
		c.SetDE(uint16(v))
	case "HL":
		c.SetHL(uint16(v))
	case "PSW":
		c.SetPSW(uint16(v))
	default:
		L.ArgError(1, "unknown register")
	}
	return 0
}

func (s *Script) flagPtr(L *lua.LState) *bool {
	fl := &s.CPU.Flags
	switch strings.ToUpper(L.CheckString(1)) {
	case "S":
		return &fl.S
	case "Z":
		return &fl.Z
	case "AC":
		return &fl.AC
	case "P":
		return &fl.P
	case "CY":
		return &fl.CY
	}
	L.ArgError(1, "unknown flag")
	return nil
}

func (s *Script) flag(L *lua.LState) int {
	L.Push(lua.LBool(*s.flagPtr(L)))
	return 1
}

func (s *Script) setflag(L *lua.LState) int {
	*s.flagPtr(L) = L.CheckBool(2)
	return 0
}

func (s *Script) halted(L *lua.LState) int {
	L.Push(lua.LBool(s.CPU.Halted))
	L.Push(lua.LString(s.CPU.Reason().String()))
	return 2
}

func (s *Script) port(L *lua.LState) int {
	L.Push(lua.LNumber(s.CPU.Ports[uint8(L.CheckInt(1))]))
	return 1
}

func (s *Script) setport(L *lua.LState) int {
	s.CPU.Ports[uint8(L.CheckInt(1))] = uint8(L.CheckInt(2))
	return 0
}
