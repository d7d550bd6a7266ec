package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/oisee/sim8085/pkg/cpu"
	"github.com/oisee/sim8085/pkg/inst"
	"github.com/oisee/sim8085/pkg/runner"
)

const stepHelp = "space/enter/s = step, r = run, x = reset, q = quit"

// interactive single-steps c from keypresses. A terminal is put into raw
// mode so each key acts at once; piped input is read byte by byte.
func interactive(ctx context.Context, in *os.File, out io.Writer, c *cpu.CPU, opts runner.Options) error {
	eol := "\n"
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return err
		}
		defer func() { _ = term.Restore(fd, oldState) }()
		eol = "\r\n"
	}
	say := func(s string) {
		fmt.Fprint(out, strings.ReplaceAll(s, "\n", eol))
	}
	show := func() {
		next := inst.Decode(c.Memory[:], int(c.PC))
		say(fmt.Sprintf("%04X  %-8s  %s\n", c.PC, hexBytes(next.Bytes()), inst.Disassemble(next)))
		say(stateText(c.State()))
	}

	say(stepHelp + "\n")
	show()
	buf := make([]byte, 1)
	for {
		if _, err := in.Read(buf); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		switch buf[0] {
		case 'q', 3, 4: // Ctrl-C, Ctrl-D
			return nil
		case 'x':
			c.Reset()
			show()
		case 'r':
			res, err := runner.Run(ctx, c, opts)
			if err != nil && !errors.Is(err, cpu.ErrIllegalOpcode) {
				say(fmt.Sprintf("%v after %d steps\n", err, res.Steps))
			}
			show()
		case ' ', '\r', '\n', 's':
			if c.Halted {
				say("halted: x resets, q quits\n")
				continue
			}
			c.Step()
			show()
		}
	}
}

func hexBytes(b []byte) string {
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("%02X", v)
	}
	return strings.Join(parts, " ")
}
