package asm

import (
	"fmt"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

// Intel-style word operators and their starlark spelling.
var wordOps = map[string]string{
	"AND": "&",
	"OR":  "|",
	"XOR": "^",
	"NOT": "~",
	"MOD": "%",
	"SHL": "<<",
	"SHR": ">>",
}

// builtins are callable from any operand, e.g. MVI A, HIGH(TABLE).
var builtins = starlark.StringDict{
	"HIGH": starlark.NewBuiltin("HIGH", byteOf(8)),
	"LOW":  starlark.NewBuiltin("LOW", byteOf(0)),
}

func byteOf(shift uint) func(*starlark.Thread, *starlark.Builtin, starlark.Tuple, []starlark.Tuple) (starlark.Value, error) {
	return func(_ *starlark.Thread, b *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
		var v int
		if err := starlark.UnpackPositionalArgs(b.Name(), args, kwargs, 1, &v); err != nil {
			return nil, err
		}
		return starlark.MakeInt((v >> shift) & 0xFF), nil
	}
}

// ParseNumber reads 25H, 0FFh, 0x25, 1010B, 17O, 17Q, 25D and plain decimal.
func ParseNumber(tok string) (int, error) {
	up := strings.ToUpper(tok)
	base := 10
	digits := up
	switch {
	case strings.HasPrefix(up, "0X"):
		base, digits = 16, up[2:]
	case strings.HasSuffix(up, "H"):
		base, digits = 16, up[:len(up)-1]
	case strings.HasSuffix(up, "B"):
		base, digits = 2, up[:len(up)-1]
	case strings.HasSuffix(up, "O"), strings.HasSuffix(up, "Q"):
		base, digits = 8, up[:len(up)-1]
	case strings.HasSuffix(up, "D"):
		digits = up[:len(up)-1]
	}
	v, err := strconv.ParseInt(digits, base, 32)
	if err != nil || digits == "" {
		return 0, ErrNumber(tok)
	}
	return int(v), nil
}

func isIdentStart(ch byte) bool {
	return ch == '_' || ('A' <= ch && ch <= 'Z') || ('a' <= ch && ch <= 'z')
}

func isIdentChar(ch byte) bool {
	return isIdentStart(ch) || ('0' <= ch && ch <= '9')
}

func validName(name string) bool {
	if name == "" || !isIdentStart(name[0]) {
		return false
	}
	for i := 1; i < len(name); i++ {
		if !isIdentChar(name[i]) {
			return false
		}
	}
	return true
}

// rewrite turns an assembler expression into starlark source and the
// bindings it needs. Symbols resolve through lookup; $ is the current
// address.
func rewrite(expr string, pc int, lookup func(string) (int, bool)) (string, starlark.StringDict, error) {
	var out strings.Builder
	pred := starlark.StringDict{}
	for i := 0; i < len(expr); {
		ch := expr[i]
		switch {
		case ch == '\'' || ch == '"':
			end := strings.IndexByte(expr[i+1:], ch)
			if end != 1 {
				return "", nil, ErrCharLiteral
			}
			out.WriteString(strconv.Itoa(int(expr[i+1])))
			i += 3
		case ch == '$':
			out.WriteString("_pc")
			pred["_pc"] = starlark.MakeInt(pc)
			i++
		case '0' <= ch && ch <= '9':
			j := i
			for j < len(expr) && isIdentChar(expr[j]) {
				j++
			}
			v, err := ParseNumber(expr[i:j])
			if err != nil {
				return "", nil, err
			}
			out.WriteString(strconv.Itoa(v))
			i = j
		case isIdentStart(ch):
			j := i
			for j < len(expr) && isIdentChar(expr[j]) {
				j++
			}
			name := strings.ToUpper(expr[i:j])
			i = j
			if op, ok := wordOps[name]; ok {
				out.WriteString(" " + op + " ")
				continue
			}
			if fn, ok := builtins[name]; ok {
				out.WriteString(name)
				pred[name] = fn
				continue
			}
			v, ok := lookup(name)
			if !ok {
				return "", nil, ErrSymbolUndefined(name)
			}
			out.WriteString(name)
			pred[name] = starlark.MakeInt(v)
		case ch == '/':
			out.WriteString("//")
			i++
			if i < len(expr) && expr[i] == '/' {
				i++
			}
		default:
			out.WriteByte(ch)
			i++
		}
	}
	return out.String(), pred, nil
}

// eval computes an operand expression. Plain numbers and lone symbols skip
// the interpreter.
func eval(expr string, pc int, lookup func(string) (int, bool)) (int, error) {
	src, pred, err := rewrite(strings.TrimSpace(expr), pc, lookup)
	if err != nil {
		return 0, err
	}
	src = strings.TrimSpace(src)
	if src == "" {
		return 0, ErrExpression
	}
	if v, err := strconv.Atoi(src); err == nil {
		return v, nil
	}
	if v, ok := pred[src].(starlark.Int); ok {
		if n, ok := v.Int64(); ok {
			return int(n), nil
		}
	}

	thread := starlark.Thread{Name: "asm"}
	opts := syntax.FileOptions{}
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", "rc="+src+"\n", pred)
	if err != nil {
		return 0, fmt.Errorf("%w: %s: %v", ErrExpression, expr, err)
	}
	rc, ok := dict["rc"].(starlark.Int)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrExpression, expr)
	}
	n, ok := rc.Int64()
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrExpression, expr)
	}
	return int(n), nil
}
