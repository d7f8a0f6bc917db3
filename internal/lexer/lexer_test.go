package lexer

import "testing"

func tokens(t *testing.T, src string) []Token {
	t.Helper()
	l := New(src)
	var out []Token
	for {
		tok, err := l.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		out = append(out, tok)
		if tok.Kind == TokEOF {
			return out
		}
	}
}

func TestLexKeywordsAndIdents(t *testing.T) {
	toks := tokens(t, "var x = input;")
	want := []struct {
		kind TokenKind
		text string
	}{
		{TokKeyword, "var"},
		{TokIdent, "x"},
		{TokSymbol, "="},
		{TokKeyword, "input"},
		{TokSymbol, ";"},
		{TokEOF, ""},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text {
			t.Errorf("token %d = %+v, want kind=%d text=%q", i, toks[i], w.kind, w.text)
		}
	}
}

func TestLexNumber(t *testing.T) {
	toks := tokens(t, "255")
	if toks[0].Kind != TokNumber || toks[0].Num != 255 {
		t.Errorf("got %+v, want number 255", toks[0])
	}
}

func TestLexTwoCharOperators(t *testing.T) {
	toks := tokens(t, "== !=")
	if toks[0].Text != "==" || toks[1].Text != "!=" {
		t.Errorf("got %q %q, want == !=", toks[0].Text, toks[1].Text)
	}
}

func TestLexStringLiteral(t *testing.T) {
	toks := tokens(t, `"hi\n"`)
	if toks[0].Kind != TokString || toks[0].Text != "hi\n" {
		t.Errorf("got %+v, want string \"hi\\n\"", toks[0])
	}
}

func TestLexLineComment(t *testing.T) {
	toks := tokens(t, "x // comment\ny")
	if len(toks) != 3 || toks[0].Text != "x" || toks[1].Text != "y" {
		t.Errorf("got %+v, want [x y EOF]", toks)
	}
}

func TestLexBlockComment(t *testing.T) {
	toks := tokens(t, "x /* c1\nc2 */ y")
	if len(toks) != 3 || toks[0].Text != "x" || toks[1].Text != "y" {
		t.Errorf("got %+v, want [x y EOF]", toks)
	}
}

func TestLexUnterminatedString(t *testing.T) {
	l := New(`"abc`)
	if _, err := l.Next(); err == nil {
		t.Errorf("expected error for unterminated string")
	}
}

func TestLexCharacterLiteral(t *testing.T) {
	toks := tokens(t, `'A'`)
	if toks[0].Kind != TokChar || toks[0].Num != 'A' {
		t.Errorf("got %+v, want character 'A'", toks[0])
	}
}

func TestLexCharacterEscapes(t *testing.T) {
	cases := map[string]int{
		`'\n'`: '\n',
		`'\t'`: '\t',
		`'\r'`: '\r',
		`'\\'`: '\\',
		`'\''`: '\'',
		`'\0'`: 0,
		`'\*'`: '*', // unknown escape \x yields the literal byte x
	}
	for src, want := range cases {
		toks := tokens(t, src)
		if toks[0].Kind != TokChar || toks[0].Num != want {
			t.Errorf("lexing %q: got %+v, want char %d", src, toks[0], want)
		}
	}
}

func TestLexUnterminatedCharacter(t *testing.T) {
	l := New(`'A`)
	if _, err := l.Next(); err == nil {
		t.Errorf("expected error for unterminated character literal")
	}
}

func TestLexHashSymbolForDefine(t *testing.T) {
	toks := tokens(t, "#define MAX 3")
	want := []struct {
		kind TokenKind
		text string
	}{
		{TokSymbol, "#"},
		{TokKeyword, "define"},
		{TokIdent, "MAX"},
		{TokNumber, "3"},
		{TokEOF, ""},
	}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d: %+v", len(toks), len(want), toks)
	}
	for i, w := range want {
		if toks[i].Kind != w.kind || toks[i].Text != w.text {
			t.Errorf("token %d = %+v, want kind=%d text=%q", i, toks[i], w.kind, w.text)
		}
	}
}
