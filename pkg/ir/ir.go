// Package ir defines the register-machine intermediate representation that
// the lowerer emits and the backend consumes: a sum type of instruction
// variants over two virtual registers (REG_A, REG_B) and byte-addressable
// memory, rather than the string-mnemonic IR a scripting-language port
// would use.
package ir

import "fmt"

// Op identifies an IR instruction variant.
type Op uint8

const (
	LoadAImm Op = iota
	LoadAMem
	LoadBImm
	LoadBMem
	StoreA
	StoreB
	Add
	Sub
	InA
	InB
	OutA
	OutB
	LoopStart
	LoopEnd
)

var mnemonics = [...]string{
	LoadAImm:  "LOAD_A_IMM",
	LoadAMem:  "LOAD_A_MEM",
	LoadBImm:  "LOAD_B_IMM",
	LoadBMem:  "LOAD_B_MEM",
	StoreA:    "STORE_A",
	StoreB:    "STORE_B",
	Add:       "ADD",
	Sub:       "SUB",
	InA:       "IN_A",
	InB:       "IN_B",
	OutA:      "OUT_A",
	OutB:      "OUT_B",
	LoopStart: "LOOP_START",
	LoopEnd:   "LOOP_END",
}

// HasOperand reports whether the opcode carries an immediate or address
// operand.
func (o Op) HasOperand() bool {
	switch o {
	case LoadAImm, LoadAMem, LoadBImm, LoadBMem, StoreA, StoreB:
		return true
	default:
		return false
	}
}

func (o Op) String() string {
	if int(o) < len(mnemonics) {
		return mnemonics[o]
	}
	return fmt.Sprintf("Op(%d)", o)
}

// Instr is one tagged IR instruction. Arg holds the immediate value for
// *_IMM opcodes or the user memory address for *_MEM/STORE_* opcodes; it is
// unused (and must be 0) for operand-less opcodes.
type Instr struct {
	Op  Op
	Arg int
}

func (i Instr) String() string {
	if i.Op.HasOperand() {
		return fmt.Sprintf("%s %d", i.Op, i.Arg)
	}
	return i.Op.String()
}

// Program is an ordered sequence of IR instructions. Every LoopStart has a
// matching LoopEnd in lexical order.
type Program []Instr

// Dump renders the program as the teacher's indented, human-readable text
// form (one instruction per line, body of a loop indented one level deeper
// than its LOOP_START/LOOP_END), the format written to instructions.bfi in
// debug builds.
func Dump(prog Program) string {
	var sb []byte
	depth := 0
	for _, instr := range prog {
		if instr.Op == LoopEnd {
			depth--
			if depth < 0 {
				depth = 0
			}
		}
		for i := 0; i < depth; i++ {
			sb = append(sb, ' ', ' ')
		}
		sb = append(sb, instr.String()...)
		sb = append(sb, '\n')
		if instr.Op == LoopStart {
			depth++
		}
	}
	return string(sb)
}
