package backend

import (
	"strings"
	"testing"

	"github.com/oisee/bfsc/pkg/bfvm"
	"github.com/oisee/bfsc/pkg/ir"
)

func TestCompileLoadOutput(t *testing.T) {
	prog := ir.Program{
		{Op: ir.LoadAImm, Arg: 65},
		{Op: ir.OutA},
	}
	src := Compile(prog, Options{})

	out := &strings.Builder{}
	if err := bfvm.Run(src, bfvm.DefaultTapeSize, strings.NewReader(""), out); err != nil {
		t.Fatalf("bfvm.Run: %v", err)
	}
	if out.String() != "A" {
		t.Errorf("output = %q, want %q", out.String(), "A")
	}
}

func TestCompileMemoryRoundTrip(t *testing.T) {
	prog := ir.Program{
		{Op: ir.LoadAImm, Arg: 7},
		{Op: ir.StoreA, Arg: 0},
		{Op: ir.LoadAImm, Arg: 0},
		{Op: ir.LoadAMem, Arg: 0},
		{Op: ir.OutA},
	}
	src := Compile(prog, Options{})
	out := &strings.Builder{}
	if err := bfvm.Run(src, bfvm.DefaultTapeSize, strings.NewReader(""), out); err != nil {
		t.Fatalf("bfvm.Run: %v", err)
	}
	if got := out.String(); got != string(rune(7)) {
		t.Errorf("output = %q, want byte 7", got)
	}
}

func TestCancelPeepholeFixedPoint(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"<>", ""},
		{"><", ""},
		{"+<>+", "++"},
		{"<><><>", ""},
		{"<<>>", ""},
		{"+-", "+-"},
	}
	for _, c := range cases {
		if got := cancelPeephole(c.in); got != c.want {
			t.Errorf("cancelPeephole(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestDebugModeBarriersPeepholeCancellation(t *testing.T) {
	prog := ir.Program{
		{Op: ir.LoadAImm, Arg: 1},
		{Op: ir.StoreA, Arg: 0},
	}
	debugSrc := Compile(prog, Options{Debug: true})
	plainSrc := Compile(prog, Options{Debug: false})

	if !strings.Contains(debugSrc, "\n") {
		t.Errorf("expected debug output to contain newline separators")
	}
	if strings.Contains(plainSrc, "\n") {
		t.Errorf("expected non-debug output to contain no newlines")
	}
}

func TestMoveToCancelsAdjacentMotion(t *testing.T) {
	c := &compiler{}
	c.moveTo(3)
	c.moveTo(0)
	got := cancelPeephole(c.out.String())
	if got != "" {
		t.Errorf("moveTo forward then back = %q, want empty after cancellation", got)
	}
}
