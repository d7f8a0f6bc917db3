// Package backend lowers a pkg/ir.Program to Brainfuck source, generalizing
// original_source/instruction_set_parser.py's Parser class: the same
// compile-time cursor tracking and move_to/clear/copy macros, now driven by
// tagged IR instructions instead of parsed instruction-set text.
package backend

import (
	"strings"

	"github.com/oisee/bfsc/pkg/ir"
)

// Fixed cell assignment: REG_A, REG_B, and a scratch TEMP cell used only by
// the copy macro occupy the first three tape cells; user memory addresses
// are shifted past them.
const (
	cellA    = 0
	cellB    = 1
	cellTemp = 2
	cellBase = 3
)

func userCell(addr int) int { return addr + cellBase }

// Options controls code generation.
type Options struct {
	// Debug appends a '#' marker and a newline after each IR instruction's
	// emitted BF chunk. Because the peephole canceller runs once over the
	// complete output, an embedded newline acts as a cancellation barrier:
	// debug builds cancel only within a chunk, release builds cancel freely
	// across instruction boundaries.
	Debug bool
}

// compiler tracks the BF cursor's compile-time-known position across a
// single program's worth of emitted code.
type compiler struct {
	cursor int
	out    strings.Builder
}

func (c *compiler) moveTo(target int) {
	delta := target - c.cursor
	if delta > 0 {
		c.out.WriteString(strings.Repeat(">", delta))
	} else if delta < 0 {
		c.out.WriteString(strings.Repeat("<", -delta))
	}
	c.cursor = target
}

func (c *compiler) repeat(ch byte, n int) {
	if n <= 0 {
		return
	}
	c.out.WriteString(strings.Repeat(string(ch), n))
}

// clear zeroes addr's cell using BF's standard dynamic loop, independent of
// the cell's current value.
func (c *compiler) clear(addr int) {
	c.moveTo(addr)
	c.out.WriteString("[-]")
}

// setImmediate clears addr then increments it n times (n in 0..255).
func (c *compiler) setImmediate(addr, n int) {
	c.clear(addr)
	c.repeat('+', n)
}

// addMove adds src into dst and zeroes src, the single BF loop that
// simultaneously implements pkg/ir's destructive ADD/SUB register contract.
func (c *compiler) addMove(src, dst int) {
	c.moveTo(src)
	c.out.WriteByte('[')
	c.moveTo(dst)
	c.out.WriteByte('+')
	c.moveTo(src)
	c.out.WriteByte('-')
	c.out.WriteByte(']')
}

// subMove subtracts src from dst and zeroes src.
func (c *compiler) subMove(src, dst int) {
	c.moveTo(src)
	c.out.WriteByte('[')
	c.moveTo(dst)
	c.out.WriteByte('-')
	c.moveTo(src)
	c.out.WriteByte('-')
	c.out.WriteByte(']')
}

// copy copies src into dst non-destructively, routing through the shared
// TEMP cell and restoring src: the canonical "copy macro", with a
// destructive move expressible as copy followed by clear(src) wherever one
// is needed (none of the fixed IR opcodes require it, but the macro is kept
// general in the Parser's original style).
func (c *compiler) copy(src, dst int) {
	c.clear(dst)
	c.clear(cellTemp)
	c.moveTo(src)
	c.out.WriteByte('[')
	c.moveTo(dst)
	c.out.WriteByte('+')
	c.moveTo(cellTemp)
	c.out.WriteByte('+')
	c.moveTo(src)
	c.out.WriteByte('-')
	c.out.WriteByte(']')
	c.moveTo(cellTemp)
	c.out.WriteByte('[')
	c.moveTo(src)
	c.out.WriteByte('+')
	c.moveTo(cellTemp)
	c.out.WriteByte('-')
	c.out.WriteByte(']')
}

// Compile translates prog into Brainfuck source text.
func Compile(prog ir.Program, opts Options) string {
	c := &compiler{}
	for _, instr := range prog {
		start := c.out.Len()
		c.emit(instr)
		if opts.Debug {
			// only a non-empty chunk gets a marker; LOOP_START/LOOP_END
			// without cursor movement still emit '[' or ']' so this is
			// effectively unconditional, but guards against an instruction
			// that legitimately produces no BF text.
			if c.out.Len() > start {
				c.out.WriteByte('#')
			}
			c.out.WriteByte('\n')
		}
	}
	return cancelPeephole(c.out.String())
}

func (c *compiler) emit(instr ir.Instr) {
	switch instr.Op {
	case ir.LoadAImm:
		c.setImmediate(cellA, instr.Arg)
	case ir.LoadAMem:
		c.copy(userCell(instr.Arg), cellA)
	case ir.LoadBImm:
		c.setImmediate(cellB, instr.Arg)
	case ir.LoadBMem:
		c.copy(userCell(instr.Arg), cellB)
	case ir.StoreA:
		c.copy(cellA, userCell(instr.Arg))
	case ir.StoreB:
		c.copy(cellB, userCell(instr.Arg))
	case ir.Add:
		c.addMove(cellB, cellA)
	case ir.Sub:
		c.subMove(cellB, cellA)
	case ir.InA:
		c.moveTo(cellA)
		c.out.WriteByte(',')
	case ir.InB:
		c.moveTo(cellB)
		c.out.WriteByte(',')
	case ir.OutA:
		c.moveTo(cellA)
		c.out.WriteByte('.')
	case ir.OutB:
		c.moveTo(cellB)
		c.out.WriteByte('.')
	case ir.LoopStart:
		c.moveTo(cellA)
		c.out.WriteByte('[')
	case ir.LoopEnd:
		c.moveTo(cellA)
		c.out.WriteByte(']')
	}
}

// cancelPeephole repeatedly strips adjacent "<>" and "><" pairs to a fixed
// point, mirroring the original compiler's
// _remove_redundant_instructions: two repeated literal-string replacements
// run until neither changes the text.
func cancelPeephole(s string) string {
	for {
		next := strings.ReplaceAll(s, "<>", "")
		next = strings.ReplaceAll(next, "><", "")
		if next == s {
			return next
		}
		s = next
	}
}
