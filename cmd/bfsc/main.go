// Command bfsc compiles BFS source to Brainfuck, runs BFS or Brainfuck
// programs directly, verifies that both interpreters agree on a program,
// and differentially fuzzes the pipeline. Structured after
// cmd/z80opt/main.go: a cobra root command with one subcommand per
// operation, flags parsed with pflag, RunE returning wrapped errors.
package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/oisee/bfsc/internal/config"
	"github.com/oisee/bfsc/internal/parser"
	"github.com/oisee/bfsc/internal/preprocess"
	"github.com/oisee/bfsc/pkg/backend"
	"github.com/oisee/bfsc/pkg/bfvm"
	"github.com/oisee/bfsc/pkg/fuzz"
	"github.com/oisee/bfsc/pkg/ir"
	"github.com/oisee/bfsc/pkg/lower"
	"github.com/oisee/bfsc/pkg/report"
)

func main() {
	defer glog.Flush()

	if err := newRootCmd().Execute(); err != nil {
		glog.Errorf("bfsc: %v", err)
		fmt.Fprintln(os.Stderr, "bfsc:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "bfsc",
		Short: "bfsc compiles the BFS language to Brainfuck",
	}

	build := newBuildCmd()
	// with no subcommand, bfsc behaves as "bfsc build"
	root.Args = build.Args
	root.RunE = build.RunE
	root.Flags().AddFlagSet(build.Flags())

	root.AddCommand(build)
	root.AddCommand(newRunCmd())
	root.AddCommand(newVerifyCmd())
	root.AddCommand(newFuzzCmd())
	return root
}

func newBuildCmd() *cobra.Command {
	var output string
	var debug bool

	cmd := &cobra.Command{
		Use:   "build [source.bfs]",
		Short: "Compile a BFS source file to Brainfuck",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input := "main.bfs"
			if len(args) == 1 {
				input = args[0]
			}

			lowered, err := compileFile(input)
			if err != nil {
				return err
			}

			if debug {
				if err := os.WriteFile("instructions.bfi", []byte(ir.Dump(lowered.Program)), 0644); err != nil {
					return fmt.Errorf("writing IR dump: %w", err)
				}
			}

			bf := backend.Compile(lowered.Program, backend.Options{Debug: debug})

			outPath := output
			if outPath == "" {
				outPath = deriveOutputPath(input)
			}
			if err := os.WriteFile(outPath, []byte(bf), 0644); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			glog.Infof("wrote %d bytes of Brainfuck to %s", len(bf), outPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: input with .bfs -> .bf, else input + .bf)")
	cmd.Flags().BoolVar(&debug, "debug", false, "dump the IR to instructions.bfi (indented by loop depth) and append debug markers to the Brainfuck output")
	return cmd
}

// deriveOutputPath implements the driver's default output naming: an input
// path ending in .bfs has that suffix swapped for .bf, otherwise .bf is
// appended outright.
func deriveOutputPath(input string) string {
	if strings.HasSuffix(input, ".bfs") {
		return strings.TrimSuffix(input, ".bfs") + ".bf"
	}
	return input + ".bf"
}

func newRunCmd() *cobra.Command {
	var asBF bool
	var tapeSize int

	cmd := &cobra.Command{
		Use:   "run <source>",
		Short: "Compile and execute a BFS (or, with --bf, Brainfuck) program",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if asBF {
				src, err := os.ReadFile(args[0])
				if err != nil {
					return err
				}
				return bfvm.Run(string(src), tapeSize, os.Stdin, os.Stdout)
			}

			lowered, err := compileFile(args[0])
			if err != nil {
				return err
			}
			mem := make([]byte, lowered.MemSize)
			return ir.Run(lowered.Program, mem, os.Stdin, os.Stdout)
		},
	}

	cmd.Flags().BoolVar(&asBF, "bf", false, "treat the input file as Brainfuck source, not BFS")
	cmd.Flags().IntVar(&tapeSize, "tape-size", bfvm.DefaultTapeSize, "Brainfuck tape size in cells")
	return cmd
}

func newVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify <source.bfs>",
		Short: "Check that the IR interpreter and the compiled Brainfuck agree on empty input",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lowered, err := compileFile(args[0])
			if err != nil {
				return err
			}

			mem := make([]byte, lowered.MemSize)
			irOut := &bytes.Buffer{}
			if err := ir.Run(lowered.Program, mem, bytes.NewReader(nil), irOut); err != nil {
				return fmt.Errorf("IR interpreter: %w", err)
			}

			bfSrc := backend.Compile(lowered.Program, backend.Options{})
			bfOut := &bytes.Buffer{}
			if err := bfvm.Run(bfSrc, bfvm.DefaultTapeSize, bytes.NewReader(nil), bfOut); err != nil {
				return fmt.Errorf("Brainfuck interpreter: %w", err)
			}

			if !bytes.Equal(irOut.Bytes(), bfOut.Bytes()) {
				return fmt.Errorf("mismatch: IR output %q, BF output %q", irOut.Bytes(), bfOut.Bytes())
			}
			fmt.Printf("OK: both interpreters produced %q\n", irOut.Bytes())
			return nil
		},
	}
	return cmd
}

func newFuzzCmd() *cobra.Command {
	var cases int
	var workers int
	var maxStmts int
	var seed int64
	var out string

	cmd := &cobra.Command{
		Use:   "fuzz",
		Short: "Differentially fuzz the compiler against randomly generated programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				glog.Warningf("failed to load config, using defaults: %v", err)
				cfg = config.DefaultConfig()
			}
			if cases <= 0 {
				cases = 1000
			}
			if workers <= 0 {
				workers = cfg.Fuzz.Workers
			}
			if maxStmts <= 0 {
				maxStmts = cfg.Fuzz.MaxStmts
			}
			if out == "" {
				out = cfg.Fuzz.ReportFile
			}

			pool := fuzz.NewPool(workers)
			pool.Run(fuzz.Config{
				NumWorkers: workers,
				Cases:      cases,
				MaxStmts:   maxStmts,
				Seed:       uint64(seed),
			})

			checked, mismatched := pool.Stats()
			fmt.Printf("checked %d cases, %d mismatches\n", checked, mismatched)

			mismatches := pool.Results.Mismatches()
			if len(mismatches) > 0 {
				if err := report.WriteJSON(out, mismatches); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
				fmt.Printf("wrote %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&cases, "cases", 1000, "number of random programs to generate")
	cmd.Flags().IntVar(&workers, "workers", 0, "worker goroutines (0: use config default)")
	cmd.Flags().IntVar(&maxStmts, "max-statements", 0, "max top-level statements per generated program (0: use config default)")
	cmd.Flags().Int64Var(&seed, "seed", 1, "base RNG seed")
	cmd.Flags().StringVar(&out, "out", "", "mismatch report path (default: config fuzz.report_file)")
	return cmd
}

// compileFile runs the full preprocess -> parse -> lower pipeline over
// path and returns the lowering result.
func compileFile(path string) (lower.Result, error) {
	src, err := preprocess.Run(path)
	if err != nil {
		return lower.Result{}, err
	}
	prog, err := parser.ParseProgram(src)
	if err != nil {
		return lower.Result{}, err
	}
	return lower.Lower(prog)
}
