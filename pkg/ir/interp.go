package ir

import (
	"bufio"
	"fmt"
	"io"
)

// State is the virtual machine state the IR executes against: the two
// registers plus a byte-addressable memory slice. Mirrors the teacher's
// cpu.State — a small, trivially-copyable register file — generalized from
// a CPU's named registers to the IR's REG_A/REG_B pair plus flat memory.
type State struct {
	A, B uint8
	Mem  []byte
}

// jumpTargets precomputes, for every LOOP_START the index to jump to when
// REG_A == 0 (one past the matching LOOP_END), and for every LOOP_END the
// index to jump back to when REG_A != 0 (one past the matching LOOP_START).
// Mirrors the bracket-matching pass bfvm.Run performs for BF's [ and ].
func jumpTargets(prog Program) ([]int, error) {
	targets := make([]int, len(prog))
	var stack []int
	for i, instr := range prog {
		switch instr.Op {
		case LoopStart:
			stack = append(stack, i)
		case LoopEnd:
			if len(stack) == 0 {
				return nil, fmt.Errorf("ir: unmatched LOOP_END at %d", i)
			}
			start := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			targets[start] = i + 1
			targets[i] = start + 1
		}
	}
	if len(stack) != 0 {
		return nil, fmt.Errorf("ir: unmatched LOOP_START at %d", stack[len(stack)-1])
	}
	return targets, nil
}

// Exec executes a single instruction against s, reading from in and writing
// to out as needed. Returns the next program counter delta is handled by
// the caller (Run); Exec itself only mutates s and performs I/O. Named and
// shaped after the teacher's cpu.Exec: one case per opcode, state mutated
// in place.
func Exec(s *State, instr Instr, r *bufio.Reader, w io.Writer) error {
	switch instr.Op {
	case LoadAImm:
		s.A = uint8(instr.Arg)
	case LoadAMem:
		if instr.Arg < 0 || instr.Arg >= len(s.Mem) {
			return fmt.Errorf("ir: LOAD_A_MEM address %d out of range", instr.Arg)
		}
		s.A = s.Mem[instr.Arg]
	case LoadBImm:
		s.B = uint8(instr.Arg)
	case LoadBMem:
		if instr.Arg < 0 || instr.Arg >= len(s.Mem) {
			return fmt.Errorf("ir: LOAD_B_MEM address %d out of range", instr.Arg)
		}
		s.B = s.Mem[instr.Arg]
	case StoreA:
		if instr.Arg < 0 || instr.Arg >= len(s.Mem) {
			return fmt.Errorf("ir: STORE_A address %d out of range", instr.Arg)
		}
		s.Mem[instr.Arg] = s.A
	case StoreB:
		if instr.Arg < 0 || instr.Arg >= len(s.Mem) {
			return fmt.Errorf("ir: STORE_B address %d out of range", instr.Arg)
		}
		s.Mem[instr.Arg] = s.B
	case Add:
		s.A = s.A + s.B
		s.B = 0
	case Sub:
		s.A = s.A - s.B
		s.B = 0
	case InA:
		s.A = readByte(r)
	case InB:
		s.B = readByte(r)
	case OutA:
		if _, err := w.Write([]byte{s.A}); err != nil {
			return err
		}
	case OutB:
		if _, err := w.Write([]byte{s.B}); err != nil {
			return err
		}
	case LoopStart, LoopEnd:
		// handled by Run's control flow, gated on REG_A
	default:
		return fmt.Errorf("ir: unknown opcode %v", instr.Op)
	}
	return nil
}

func readByte(r *bufio.Reader) uint8 {
	b, err := r.ReadByte()
	if err != nil {
		return 0
	}
	return b
}

// Run executes prog against mem (sized to the compilation's symbol table),
// consuming bytes from in on IN_A/IN_B and writing bytes to out on
// OUT_A/OUT_B. This is the "IR interpreter" referenced by testable
// property 1 in spec.md §8.
func Run(prog Program, mem []byte, in io.Reader, out io.Writer) error {
	_, err := RunBounded(prog, mem, in, out, 0)
	return err
}

// ErrStepLimit is returned by RunBounded when maxSteps instructions execute
// without the program terminating — pkg/fuzz's non-negotiable defense
// against a generated program whose while condition never clears.
var ErrStepLimit = fmt.Errorf("ir: exceeded step limit")

// RunBounded behaves like Run but aborts with ErrStepLimit after maxSteps
// instruction dispatches (0 means unbounded). It returns the number of
// steps actually executed.
func RunBounded(prog Program, mem []byte, in io.Reader, out io.Writer, maxSteps int) (int, error) {
	targets, err := jumpTargets(prog)
	if err != nil {
		return 0, err
	}
	r := bufio.NewReader(in)
	s := &State{Mem: mem}

	steps := 0
	for pc := 0; pc < len(prog); {
		if maxSteps > 0 && steps >= maxSteps {
			return steps, ErrStepLimit
		}
		steps++
		instr := prog[pc]
		switch instr.Op {
		case LoopStart:
			if s.A == 0 {
				pc = targets[pc]
				continue
			}
			pc++
		case LoopEnd:
			if s.A != 0 {
				pc = targets[pc]
				continue
			}
			pc++
		default:
			if err := Exec(s, instr, r, out); err != nil {
				return steps, err
			}
			pc++
		}
	}
	return steps, nil
}
