// Package asm is a two-pass 8085 assembler producing images for the
// simulator.
package asm

import (
	"bufio"
	"io"
	"strings"

	"github.com/oisee/sim8085/pkg/inst"
)

// Program is an assembled image. Code is contiguous from Origin; gaps left
// by ORG or DS inside the image are zero-filled.
type Program struct {
	Origin  uint16
	Entry   uint16 // END operand, or Origin
	Code    []byte
	Symbols map[string]uint16
	Listing []Line
}

// Line is one source line with the address and bytes it produced.
type Line struct {
	Number int
	Addr   uint16
	Bytes  []byte
	Source string
}

type statement struct {
	line  int
	text  string
	label string
	op    string
	args  []string

	addr   int
	opcode inst.OpCode
}

// Assembler holds the symbol table across both passes. Symbols defined
// with Define before Assemble behave like EQU.
type Assembler struct {
	symbols map[string]int
}

// New returns an assembler with an empty symbol table.
func New() *Assembler {
	return &Assembler{symbols: map[string]int{}}
}

// Define presets a symbol.
func (asm *Assembler) Define(name string, value int) {
	asm.symbols[strings.ToUpper(name)] = value
}

// Assemble reads source from r.
func Assemble(r io.Reader) (*Program, error) {
	return New().Assemble(r)
}

// AssembleString is Assemble for in-memory source.
func AssembleString(src string) (*Program, error) {
	return New().Assemble(strings.NewReader(src))
}

func (asm *Assembler) lookup(name string) (int, bool) {
	v, ok := asm.symbols[name]
	return v, ok
}

func (asm *Assembler) define(name string, value int) error {
	name = strings.ToUpper(name)
	if !validName(name) {
		return ErrOperandInvalid
	}
	if _, ok := asm.symbols[name]; ok {
		return ErrSymbolDuplicate(name)
	}
	asm.symbols[name] = value
	return nil
}

// Assemble runs both passes over the source read from r.
func (asm *Assembler) Assemble(r io.Reader) (*Program, error) {
	var stmts []*statement
	scanner := bufio.NewScanner(r)
	for n := 1; scanner.Scan(); n++ {
		st, err := parseLine(n, scanner.Text())
		if err != nil {
			return nil, &LineError{Line: n, Err: err}
		}
		stmts = append(stmts, st)
		if st.op == "END" {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	stmts, err := asm.pass1(stmts)
	if err != nil {
		return nil, err
	}
	return asm.pass2(stmts)
}

// pass1 assigns addresses and defines labels. It stops at END.
func (asm *Assembler) pass1(stmts []*statement) ([]*statement, error) {
	pc := 0
	for i, st := range stmts {
		st.addr = pc
		fail := func(err error) ([]*statement, error) {
			return nil, &LineError{Line: st.line, Err: err}
		}

		if st.op == "EQU" {
			if st.label == "" {
				return fail(ErrEquateName)
			}
			if len(st.args) != 1 {
				return fail(ErrOperandCount)
			}
			v, err := eval(st.args[0], pc, asm.lookup)
			if err != nil {
				return fail(err)
			}
			if err := asm.define(st.label, v); err != nil {
				return fail(err)
			}
			continue
		}
		if st.label != "" {
			if err := asm.define(st.label, pc); err != nil {
				return fail(err)
			}
		}

		switch st.op {
		case "":
		case "ORG":
			v, err := asm.single(st, pc)
			if err != nil {
				return fail(err)
			}
			pc = v
			st.addr = pc
		case "DS":
			v, err := asm.single(st, pc)
			if err != nil {
				return fail(err)
			}
			pc += v
		case "DB":
			if len(st.args) == 0 {
				return fail(ErrOperandCount)
			}
			for _, a := range st.args {
				if s, ok := quoted(a); ok {
					pc += len(s)
				} else {
					pc++
				}
			}
		case "DW":
			if len(st.args) == 0 {
				return fail(ErrOperandCount)
			}
			pc += 2 * len(st.args)
		case "END":
			return stmts[:i+1], nil
		default:
			op, err := match(st)
			if err != nil {
				return fail(err)
			}
			st.opcode = op
			pc += inst.ByteSize(op)
		}
		if pc < 0 || pc > 0x10000 {
			return fail(ErrAddressOverflow)
		}
	}
	return stmts, nil
}

func (asm *Assembler) single(st *statement, pc int) (int, error) {
	if len(st.args) != 1 {
		return 0, ErrOperandCount
	}
	return eval(st.args[0], pc, asm.lookup)
}

// image accumulates emitted bytes from the first emitting address.
type image struct {
	started bool
	base    int
	code    []byte
}

func (im *image) put(addr int, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	if !im.started {
		im.started = true
		im.base = addr
	}
	off := addr - im.base
	if off < 0 {
		return ErrOrgBackwards
	}
	if need := off + len(data); need > len(im.code) {
		im.code = append(im.code, make([]byte, need-len(im.code))...)
	}
	copy(im.code[off:], data)
	return nil
}

// pass2 encodes every statement with all symbols known.
func (asm *Assembler) pass2(stmts []*statement) (*Program, error) {
	var im image
	prog := &Program{Symbols: map[string]uint16{}}
	entry := -1

	for _, st := range stmts {
		fail := func(err error) (*Program, error) {
			return nil, &LineError{Line: st.line, Err: err}
		}

		var data []byte
		switch st.op {
		case "", "EQU", "ORG", "DS":
		case "DB":
			for _, a := range st.args {
				if s, ok := quoted(a); ok {
					data = append(data, s...)
					continue
				}
				v, err := asm.value(a, st.addr, 8)
				if err != nil {
					return fail(err)
				}
				data = append(data, uint8(v))
			}
		case "DW":
			for _, a := range st.args {
				v, err := asm.value(a, st.addr, 16)
				if err != nil {
					return fail(err)
				}
				data = append(data, uint8(v), uint8(v>>8))
			}
		case "END":
			if len(st.args) == 1 {
				v, err := asm.value(st.args[0], st.addr, 16)
				if err != nil {
					return fail(err)
				}
				entry = v & 0xFFFF
			}
		default:
			in := inst.Instruction{Op: st.opcode}
			if inst.HasImmediate(st.opcode) || inst.HasImm16(st.opcode) {
				bits := 8
				if inst.HasImm16(st.opcode) {
					bits = 16
				}
				v, err := asm.value(st.args[len(st.args)-1], st.addr, bits)
				if err != nil {
					return fail(err)
				}
				in.Imm = uint16(v)
			}
			data = in.Bytes()
		}

		if err := im.put(st.addr, data); err != nil {
			return fail(err)
		}
		prog.Listing = append(prog.Listing, Line{
			Number: st.line,
			Addr:   uint16(st.addr),
			Bytes:  data,
			Source: st.text,
		})
	}

	for name, v := range asm.symbols {
		prog.Symbols[name] = uint16(v)
	}
	prog.Origin = uint16(im.base)
	prog.Code = im.code
	prog.Entry = prog.Origin
	if entry >= 0 {
		prog.Entry = uint16(entry)
	}
	return prog, nil
}

// value evaluates an operand and checks it fits in bits, accepting the
// signed range too.
func (asm *Assembler) value(expr string, pc, bits int) (int, error) {
	v, err := eval(expr, pc, asm.lookup)
	if err != nil {
		return 0, err
	}
	limit := 1 << bits
	if v < -limit/2 || v >= limit {
		return 0, ErrValueRange
	}
	return v & (limit - 1), nil
}

// match picks the opcode whose operand template fits the statement:
// register and condition operands must match literally, "n"/"nn" take any
// expression.
func match(st *statement) (inst.OpCode, error) {
	ops := inst.ByName(st.op)
	if len(ops) == 0 {
		return 0, ErrOpcodeUnknown
	}
	countOK := false
	for _, op := range ops {
		tmpl := inst.Operands(op)
		if len(tmpl) != len(st.args) {
			continue
		}
		countOK = true
		ok := true
		for i, t := range tmpl {
			if t == "n" || t == "nn" {
				continue
			}
			if !strings.EqualFold(t, st.args[i]) {
				ok = false
				break
			}
		}
		if ok {
			return op, nil
		}
	}
	if !countOK {
		return 0, ErrOperandCount
	}
	return 0, ErrOperandInvalid
}

var directives = map[string]bool{
	"ORG": true, "EQU": true, "DB": true, "DW": true, "DS": true, "END": true,
}

func isKeyword(word string) bool {
	up := strings.ToUpper(word)
	return directives[up] || len(inst.ByName(up)) > 0
}

// parseLine splits one source line into label, operation and operands.
func parseLine(n int, text string) (*statement, error) {
	st := &statement{line: n, text: text}
	body := strings.TrimSpace(stripComment(text))
	if body == "" {
		return st, nil
	}

	// "NAME:" anywhere before the operation
	if i := strings.IndexByte(body, ':'); i > 0 && validName(strings.TrimSpace(body[:i])) {
		st.label = strings.TrimSpace(body[:i])
		body = strings.TrimSpace(body[i+1:])
	}

	word, rest, _ := strings.Cut(body, " ")
	if w, r, ok := strings.Cut(word, "\t"); ok {
		word, rest = w, r+" "+rest
	}
	rest = strings.TrimSpace(rest)

	// "NAME EQU value" without a colon
	if st.label == "" && !isKeyword(word) && rest != "" {
		next, tail, _ := strings.Cut(strings.ReplaceAll(rest, "\t", " "), " ")
		if strings.EqualFold(next, "EQU") {
			st.label = word
			word, rest = next, strings.TrimSpace(tail)
		}
	}

	st.op = strings.ToUpper(word)
	if st.op != "" && !isKeyword(st.op) {
		return nil, ErrOpcodeUnknown
	}
	st.args = splitArgs(rest)
	return st, nil
}

// stripComment drops everything from the first ';' outside quotes.
func stripComment(s string) string {
	var quote byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == ';':
			return s[:i]
		}
	}
	return s
}

// splitArgs splits on commas outside quotes.
func splitArgs(s string) []string {
	if s == "" {
		return nil
	}
	var args []string
	var quote byte
	start := 0
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case quote != 0:
			if ch == quote {
				quote = 0
			}
		case ch == '\'' || ch == '"':
			quote = ch
		case ch == ',':
			args = append(args, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	return append(args, strings.TrimSpace(s[start:]))
}

// quoted reports a DB string operand of any length other than one; a
// single quoted character is an ordinary expression.
func quoted(arg string) (string, bool) {
	if len(arg) < 2 {
		return "", false
	}
	q := arg[0]
	if (q != '\'' && q != '"') || arg[len(arg)-1] != q || len(arg) == 3 {
		return "", false
	}
	return arg[1 : len(arg)-1], true
}
