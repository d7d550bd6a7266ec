package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/oisee/sim8085/pkg/asm"
	"github.com/oisee/sim8085/pkg/config"
	"github.com/oisee/sim8085/pkg/cpu"
	"github.com/oisee/sim8085/pkg/equiv"
	"github.com/oisee/sim8085/pkg/ihex"
	"github.com/oisee/sim8085/pkg/inst"
	"github.com/oisee/sim8085/pkg/result"
	"github.com/oisee/sim8085/pkg/runner"
	"github.com/oisee/sim8085/pkg/script"
)

func main() {
	var profilePath string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:          "sim8085",
		Short:        "Intel 8085 instruction-level simulator",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "TOML machine profile")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging (per-instruction trace) on stderr")

	machine := func() (*config.Profile, *slog.Logger, error) {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		if profilePath == "" {
			return config.Default(), logger, nil
		}
		prof, err := config.Load(profilePath)
		return prof, logger, err
	}

	// run command
	var runFlags machineFlags
	var maxSteps uint64
	var breaks []string
	var traceN int
	var jsonOut string
	var dumpAt addrFlag
	var dumpLen int
	var save string
	var resume string

	runCmd := &cobra.Command{
		Use:   "run [program]",
		Short: "Run a program (.asm, .hex or raw binary) until it halts",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, logger, err := machine()
			if err != nil {
				return err
			}

			var c *cpu.CPU
			var prior uint64
			if resume != "" {
				ckpt, err := result.LoadCheckpoint(resume)
				if err != nil {
					return err
				}
				c = cpu.New()
				ckpt.Restore(c)
				prior = ckpt.Steps
			} else {
				if c, err = runFlags.setup(prof, args); err != nil {
					return err
				}
			}

			opts := prof.Options(logger)
			if maxSteps > 0 {
				opts.MaxSteps = maxSteps
			}
			bps, err := parseAddrs(breaks)
			if err != nil {
				return err
			}
			opts.Breakpoints = append(opts.Breakpoints, bps...)
			if traceN > 0 {
				opts.Trace = result.NewTrace(traceN)
			}

			res, runErr := runner.Run(cmd.Context(), c, opts)
			steps := prior + res.Steps

			if opts.Trace != nil {
				fmt.Printf("Trace (last %d):\n", opts.Trace.Len())
				for _, s := range opts.Trace.Steps() {
					fmt.Printf("  %8d  %04X  %-12s A=%02X F=%02X SP=%04X\n",
						s.N+prior, s.PC, s.Text(), s.A, s.Flags, s.SP)
				}
			}

			st := c.State()
			printState(st)
			fmt.Printf("Steps: %d\n", steps)
			stop := ""
			if runErr != nil && !errors.Is(runErr, cpu.ErrIllegalOpcode) {
				stop = runErr.Error()
				fmt.Printf("Stopped: %s\n", stop)
			}
			if dumpLen > 0 {
				printDump(st, dumpAt.v, dumpLen)
			}

			if jsonOut != "" {
				rep := result.NewReport(st, steps)
				rep.Stop = stop
				if dumpLen > 0 {
					rep.AddDump(st, int(dumpAt.v), dumpLen)
				}
				f, err := os.Create(jsonOut)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := rep.WriteJSON(f); err != nil {
					return err
				}
				fmt.Printf("Report written to %s\n", jsonOut)
			}
			if save != "" {
				if err := result.SaveCheckpoint(save, result.Capture(c, steps)); err != nil {
					return err
				}
				fmt.Printf("Checkpoint written to %s\n", save)
			}

			if errors.Is(runErr, cpu.ErrIllegalOpcode) || errors.Is(runErr, context.Canceled) {
				return runErr
			}
			return nil
		},
	}
	runFlags.register(runCmd)
	runCmd.Flags().Uint64Var(&maxSteps, "max-steps", 0, "Stop after this many instructions (0 = profile or unlimited)")
	runCmd.Flags().StringSliceVar(&breaks, "break", nil, "Breakpoint addresses (repeatable)")
	runCmd.Flags().IntVar(&traceN, "trace", 0, "Print the last N executed instructions")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "Write a JSON report to this file")
	runCmd.Flags().Var(&dumpAt, "dump", "Memory dump start address")
	runCmd.Flags().IntVar(&dumpLen, "dump-len", 0, "Memory dump length in bytes")
	runCmd.Flags().StringVar(&save, "save", "", "Write a checkpoint when the run stops")
	runCmd.Flags().StringVar(&resume, "resume", "", "Continue from a checkpoint instead of loading a program")

	// exec command
	var execFlags machineFlags

	execCmd := &cobra.Command{
		Use:   "exec [instructions]",
		Short: "Assemble and run an inline sequence, e.g. \"MVI A, 25H : ADI 35H : DAA\"",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, logger, err := machine()
			if err != nil {
				return err
			}
			input := strings.Join(args, " ")
			src, err := parseSequence(input)
			if err != nil {
				return err
			}
			c, err := execFlags.setup(prof, nil)
			if err != nil {
				return err
			}
			if execFlags.org.set && !execFlags.entry.set {
				c.PC = execFlags.org.v
			}
			a := asm.New()
			a.Define("ORIGIN", int(c.PC))
			prog, err := a.Assemble(strings.NewReader("\tORG ORIGIN\n" + src + "\tHLT\n"))
			if err != nil {
				return fmt.Errorf("failed to parse: %w", err)
			}
			c.Load(int(prog.Origin), prog.Code)

			fmt.Printf("Sequence: %s (%d bytes)\n", input, len(prog.Code)-1)
			res, err := runner.Run(cmd.Context(), c, prof.Options(logger))
			printState(c.State())
			fmt.Printf("Steps: %d\n", res.Steps)
			return err
		},
	}
	execFlags.register(execCmd)

	// equiv command
	var deadFlags uint8

	equivCmd := &cobra.Command{
		Use:   "equiv [sequence] [sequence]",
		Short: "Check two straight-line sequences for identical effect, e.g. \"ANA A\" \"ORA A\"",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := assembleSequence(args[0])
			if err != nil {
				return err
			}
			candidate, err := assembleSequence(args[1])
			if err != nil {
				return err
			}

			ok, v, err := equiv.ExhaustiveCheck(target, candidate, deadFlags)
			if err != nil {
				return err
			}
			if ok {
				fmt.Printf("Equivalent on all %d inputs\n", equiv.Inputs())
				return nil
			}
			fmt.Printf("Differ for A=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X SP=%04X status=%02XH\n",
				v.A, v.B, v.C, v.D, v.E, v.H, v.L, v.SP, v.Status)
			return nil
		},
	}
	equivCmd.Flags().Uint8Var(&deadFlags, "dead-flags", 0, "Status-word bits to ignore (e.g. 0x01 = CY, 0xFF = all)")

	// asm command
	var output string
	var listing bool
	var symbols bool

	asmCmd := &cobra.Command{
		Use:   "asm [source.asm]",
		Short: "Assemble to Intel HEX (.hex) or a raw binary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			prog, err := asm.Assemble(f)
			if err != nil {
				return err
			}

			if listing {
				for _, l := range prog.Listing {
					fmt.Printf("%04X  %-12s %5d  %s\n", l.Addr, hexBytes(l.Bytes), l.Number, l.Source)
				}
			}
			if symbols {
				for _, name := range sortedSymbols(prog.Symbols) {
					fmt.Printf("%-16s %04XH\n", name, prog.Symbols[name])
				}
			}
			fmt.Printf("Assembled %d bytes at %04XH, entry %04XH\n", len(prog.Code), prog.Origin, prog.Entry)

			if output == "" {
				return nil
			}
			out, err := os.Create(output)
			if err != nil {
				return err
			}
			defer out.Close()
			if strings.EqualFold(filepath.Ext(output), ".hex") {
				err = ihex.Encode(out, prog.Origin, prog.Code)
			} else {
				_, err = out.Write(prog.Code)
			}
			if err != nil {
				return err
			}
			fmt.Printf("Written to %s\n", output)
			return nil
		},
	}
	asmCmd.Flags().StringVarP(&output, "output", "o", "", "Output file (.hex = Intel HEX, otherwise binary)")
	asmCmd.Flags().BoolVarP(&listing, "list", "l", false, "Print the listing")
	asmCmd.Flags().BoolVar(&symbols, "symbols", false, "Print the symbol table")

	// disasm command
	var disFlags machineFlags
	var count int

	disasmCmd := &cobra.Command{
		Use:   "disasm [program]",
		Short: "Disassemble a program image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := cpu.New()
			ld, err := loadProgram(c, args[0], disFlags.org.v)
			if err != nil {
				return err
			}
			addr := int(ld.Origin)
			if disFlags.entry.set {
				addr = int(disFlags.entry.v)
			}
			end := int(ld.Origin) + ld.Size
			for n := 0; addr < end && (count <= 0 || n < count); n++ {
				in := inst.Decode(c.Memory[:], addr)
				fmt.Printf("%04X  %-8s  %s\n", addr, hexBytes(in.Bytes()), inst.Disassemble(in))
				addr += inst.ByteSize(in.Op)
			}
			return nil
		},
	}
	disFlags.register(disasmCmd)
	disasmCmd.Flags().IntVarP(&count, "count", "n", 0, "Instructions to show (0 = whole image)")

	// ref command
	var all bool

	refCmd := &cobra.Command{
		Use:   "ref [mnemonic...]",
		Short: "Instruction reference: encoding, size, flags, timing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ops := inst.LegalOps()
			if all {
				ops = inst.AllOps()
			}
			if len(args) > 0 {
				ops = nil
				for _, name := range args {
					found := inst.ByName(name)
					if len(found) == 0 {
						return fmt.Errorf("unknown mnemonic: %s", name)
					}
					ops = append(ops, found...)
				}
			}
			for _, op := range ops {
				info := &inst.Catalog[op]
				fmt.Printf("%02X  %-12s %d  %-12s %2d  %s\n",
					uint8(op), info.Mnemonic, info.Size, info.Flags, info.TStates, info.Summary)
			}
			return nil
		},
	}
	refCmd.Flags().BoolVar(&all, "all", false, "Include unassigned opcodes")

	// step command
	var stepFlags machineFlags

	stepCmd := &cobra.Command{
		Use:   "step [program]",
		Short: "Single-step a program from the keyboard",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, logger, err := machine()
			if err != nil {
				return err
			}
			c, err := stepFlags.setup(prof, args)
			if err != nil {
				return err
			}
			return interactive(cmd.Context(), os.Stdin, os.Stdout, c, prof.Options(logger))
		},
	}
	stepFlags.register(stepCmd)

	// script command
	var scriptFlags machineFlags

	scriptCmd := &cobra.Command{
		Use:   "script [file.lua] [program]",
		Short: "Drive the machine from a Lua script",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, logger, err := machine()
			if err != nil {
				return err
			}
			c, err := scriptFlags.setup(prof, args[1:])
			if err != nil {
				return err
			}
			s := script.New(cmd.Context(), c, prof.Options(logger))
			defer s.Close()
			return s.DoFile(args[0])
		},
	}
	scriptFlags.register(scriptCmd)

	// state command
	var stateFlags machineFlags
	var runFirst bool
	var dot bool
	var stackWords int

	stateCmd := &cobra.Command{
		Use:   "state [program]",
		Short: "Show machine state after loading (and optionally running) a program",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, logger, err := machine()
			if err != nil {
				return err
			}
			c, err := stateFlags.setup(prof, args)
			if err != nil {
				return err
			}
			if runFirst {
				if _, err := runner.Run(cmd.Context(), c, prof.Options(logger)); err != nil {
					logger.Warn("run stopped", "err", err)
				}
			}
			if dot {
				writeDot(os.Stdout, c.State(), stackWords)
				return nil
			}
			printState(c.State())
			for i, w := range newStateView(c.State(), stackWords).Stack {
				fmt.Printf("  SP+%d: %04X\n", 2*i, w)
			}
			return nil
		},
	}
	stateFlags.register(stateCmd)
	stateCmd.Flags().BoolVar(&runFirst, "run", false, "Run to halt before showing the state")
	stateCmd.Flags().BoolVar(&dot, "dot", false, "Emit a graphviz digraph")
	stateCmd.Flags().IntVar(&stackWords, "stack", 4, "Stack words to show")

	rootCmd.AddCommand(runCmd, execCmd, equivCmd, asmCmd, disasmCmd, refCmd, stepCmd, scriptCmd, stateCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func (mf *machineFlags) register(cmd *cobra.Command) {
	cmd.Flags().Var(&mf.org, "org", "Load address for raw images (default profile origin)")
	cmd.Flags().Var(&mf.entry, "entry", "Initial PC (default program entry)")
}

// parseSequence turns "MVI A, 0 : INR A" into assembler lines.
func parseSequence(text string) (string, error) {
	var b strings.Builder
	for _, part := range strings.Split(text, ":") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		b.WriteString("\t" + part + "\n")
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no instructions parsed from %q", text)
	}
	return b.String(), nil
}

// assembleSequence assembles an inline sequence into instructions.
func assembleSequence(text string) ([]inst.Instruction, error) {
	src, err := parseSequence(text)
	if err != nil {
		return nil, err
	}
	prog, err := asm.AssembleString(src)
	if err != nil {
		return nil, fmt.Errorf("cannot parse %q: %w", text, err)
	}
	var seq []inst.Instruction
	for addr := 0; addr < len(prog.Code); {
		in := inst.Decode(prog.Code, addr)
		seq = append(seq, in)
		addr += inst.ByteSize(in.Op)
	}
	return seq, nil
}
