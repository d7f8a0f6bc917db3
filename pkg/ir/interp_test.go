package ir

import (
	"bytes"
	"strings"
	"testing"
)

func TestRunArithmetic(t *testing.T) {
	// mem[0] = 5 + 3
	prog := Program{
		{Op: LoadAImm, Arg: 5},
		{Op: LoadBImm, Arg: 3},
		{Op: Add},
		{Op: StoreA, Arg: 0},
	}
	mem := make([]byte, 1)
	if err := Run(prog, mem, strings.NewReader(""), &bytes.Buffer{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if mem[0] != 8 {
		t.Errorf("mem[0] = %d, want 8", mem[0])
	}
}

func TestAddClearsB(t *testing.T) {
	prog := Program{
		{Op: LoadAImm, Arg: 1},
		{Op: LoadBImm, Arg: 2},
		{Op: Add},
		{Op: StoreB, Arg: 0},
	}
	mem := make([]byte, 1)
	if err := Run(prog, mem, strings.NewReader(""), &bytes.Buffer{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if mem[0] != 0 {
		t.Errorf("REG_B not cleared after ADD: mem[0] = %d", mem[0])
	}
}

func TestSubWraps(t *testing.T) {
	prog := Program{
		{Op: LoadAImm, Arg: 0},
		{Op: LoadBImm, Arg: 1},
		{Op: Sub},
		{Op: StoreA, Arg: 0},
	}
	mem := make([]byte, 1)
	if err := Run(prog, mem, strings.NewReader(""), &bytes.Buffer{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if mem[0] != 255 {
		t.Errorf("mem[0] = %d, want 255 (mod-256 wraparound)", mem[0])
	}
}

func TestLoopRunsUntilZero(t *testing.T) {
	// mem[0] = 3; while (mem[0] != 0) { out mem[0]; mem[0] -= 1 }
	prog := Program{
		{Op: LoadAImm, Arg: 3},
		{Op: StoreA, Arg: 0},
		{Op: LoadAMem, Arg: 0},
		{Op: LoopStart},
		{Op: OutA},
		{Op: LoadBImm, Arg: 1},
		{Op: Sub},
		{Op: StoreA, Arg: 0},
		{Op: LoadAMem, Arg: 0},
		{Op: LoopEnd},
	}
	mem := make([]byte, 1)
	out := &bytes.Buffer{}
	if err := Run(prog, mem, strings.NewReader(""), out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := out.Bytes(); !bytes.Equal(got, []byte{3, 2, 1}) {
		t.Errorf("output = %v, want [3 2 1]", got)
	}
}

func TestInputEOFYieldsZero(t *testing.T) {
	prog := Program{
		{Op: InA},
		{Op: StoreA, Arg: 0},
	}
	mem := make([]byte, 1)
	if err := Run(prog, mem, strings.NewReader(""), &bytes.Buffer{}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if mem[0] != 0 {
		t.Errorf("mem[0] = %d, want 0 on EOF read", mem[0])
	}
}

func TestRunBoundedStepLimit(t *testing.T) {
	prog := Program{
		{Op: LoadAImm, Arg: 1},
		{Op: LoopStart},
		{Op: LoopEnd},
	}
	mem := make([]byte, 1)
	_, err := RunBounded(prog, mem, strings.NewReader(""), &bytes.Buffer{}, 2)
	if err != ErrStepLimit {
		t.Errorf("err = %v, want ErrStepLimit", err)
	}
}

func TestUnmatchedLoop(t *testing.T) {
	prog := Program{{Op: LoopStart}}
	mem := make([]byte, 1)
	if err := Run(prog, mem, strings.NewReader(""), &bytes.Buffer{}); err == nil {
		t.Errorf("expected error for unmatched LOOP_START")
	}
}

func TestDump(t *testing.T) {
	prog := Program{
		{Op: LoadAImm, Arg: 1},
		{Op: LoopStart},
		{Op: OutA},
		{Op: LoopEnd},
	}
	got := Dump(prog)
	want := "LOAD_A_IMM 1\nLOOP_START\n  OUT_A\nLOOP_END\n"
	if got != want {
		t.Errorf("Dump = %q, want %q", got, want)
	}
}
