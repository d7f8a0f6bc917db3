package lower

import (
	"bytes"
	"strings"
	"testing"

	"github.com/oisee/bfsc/internal/ast"
	"github.com/oisee/bfsc/internal/parser"
	"github.com/oisee/bfsc/pkg/ir"
)

func runSource(t *testing.T, src, input string) string {
	t.Helper()
	prog, err := parser.ParseProgram(src)
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	res, err := Lower(prog)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	mem := make([]byte, res.MemSize)
	out := &bytes.Buffer{}
	if err := ir.Run(res.Program, mem, strings.NewReader(input), out); err != nil {
		t.Fatalf("ir.Run: %v", err)
	}
	return out.String()
}

func TestLowerSimpleArithmetic(t *testing.T) {
	got := runSource(t, "var x = 2 + 3; output(x);", "")
	if got != "\x05" {
		t.Errorf("output = %v, want [5]", []byte(got))
	}
}

func TestLowerChainedArithmetic(t *testing.T) {
	// left-associative: (1 + 2) + 3 = 6
	got := runSource(t, "output(1 + 2 + 3);", "")
	if got != "\x06" {
		t.Errorf("output = %v, want [6]", []byte(got))
	}
}

func TestLowerGeneralCaseSpill(t *testing.T) {
	// (1 + 1) + (1 + 1): right operand is not simple, forcing the spill path
	got := runSource(t, "var x = (1 + 1) + (1 + 1); output(x);", "")
	if got != "\x04" {
		t.Errorf("output = %v, want [4]", []byte(got))
	}
}

func TestLowerEquality(t *testing.T) {
	got := runSource(t, "var x = 3 == 3; output(x); var y = 3 == 4; output(y);", "")
	if got != "\x01\x00" {
		t.Errorf("output = %v, want [1 0]", []byte(got))
	}
}

func TestLowerInequality(t *testing.T) {
	got := runSource(t, "var x = 3 != 3; output(x); var y = 3 != 4; output(y);", "")
	if got != "\x00\x01" {
		t.Errorf("output = %v, want [0 1]", []byte(got))
	}
}

func TestLowerIfElse(t *testing.T) {
	got := runSource(t, `
		var x = 1;
		if (x == 1) { output(11); } else { output(22); }
		var y = 2;
		if (y == 1) { output(33); } else { output(44); }
	`, "")
	if got != "\x0b\x2c" {
		t.Errorf("output = %v, want [11 44]", []byte(got))
	}
}

func TestLowerIfWithoutElse(t *testing.T) {
	got := runSource(t, `var x = 0; if (x != 0) { output(1); }`, "")
	if got != "" {
		t.Errorf("output = %v, want no output", []byte(got))
	}
}

func TestLowerWhileLoop(t *testing.T) {
	got := runSource(t, `
		var x = 3;
		while (x != 0) {
			output(x);
			x = x - 1;
		}
	`, "")
	if got != "\x03\x02\x01" {
		t.Errorf("output = %v, want [3 2 1]", []byte(got))
	}
}

func TestLowerInputEcho(t *testing.T) {
	got := runSource(t, "input(x); output(x);", "q")
	if got != "q" {
		t.Errorf("output = %q, want %q", got, "q")
	}
}

func TestLowerDefineUsedAsLiteral(t *testing.T) {
	got := runSource(t, `#define LETTER_A 65
output(LETTER_A);`, "")
	if got != "A" {
		t.Errorf("output = %q, want %q", got, "A")
	}
}

func TestLowerCharacterLiteral(t *testing.T) {
	got := runSource(t, `output('A' + 1);`, "")
	if got != "B" {
		t.Errorf("output = %q, want %q", got, "B")
	}
}

func TestLowerCharacterEscapes(t *testing.T) {
	got := runSource(t, `output('\n'); output('\t'); output('\0');`, "")
	if got != "\n\t\x00" {
		t.Errorf("output = %v, want [\\n \\t \\0]", []byte(got))
	}
}

func TestLowerDefineCharacterConstant(t *testing.T) {
	got := runSource(t, "#define NL '\\n'\noutput(NL);", "")
	if got != "\n" {
		t.Errorf("output = %v, want newline", []byte(got))
	}
}

func TestLowerUndefinedVariable(t *testing.T) {
	_, err := Lower(mustParse(t, "output(x);"))
	if err == nil {
		t.Fatal("expected undefined variable error")
	}
}

func TestLowerDefineStringUsedNumerically(t *testing.T) {
	_, err := Lower(mustParse(t, "#define NAME \"bob\"\noutput(NAME);"))
	if err == nil {
		t.Fatal("expected unsupported constant error")
	}
}

func TestLowerOutOfRangeLiteral(t *testing.T) {
	_, err := Lower(mustParse(t, "output(256);"))
	if err == nil {
		t.Fatal("expected range error")
	}
}

func TestFreshGoElseNamesDoNotCollide(t *testing.T) {
	prog := mustParse(t, `
		var go_else_0 = 9;
		if (go_else_0 == 9) { output(1); } else { output(2); }
	`)
	res, err := Lower(prog)
	if err != nil {
		t.Fatalf("Lower: %v", err)
	}
	mem := make([]byte, res.MemSize)
	out := &bytes.Buffer{}
	if err := ir.Run(res.Program, mem, strings.NewReader(""), out); err != nil {
		t.Fatalf("ir.Run: %v", err)
	}
	if out.String() != "\x01" {
		t.Errorf("output = %v, want [1]; the synthesized go_else guard must not alias the user's go_else_0", []byte(out.String()))
	}
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	p, err := parser.ParseProgram(src)
	if err != nil {
		t.Fatalf("ParseProgram: %v", err)
	}
	return p
}
