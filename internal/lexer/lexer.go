// Package lexer tokenizes preprocessed BFS source into the stream consumed
// by internal/parser.
package lexer

import (
	"fmt"
	"strings"

	"github.com/oisee/bfsc/pkg/diag"
)

// TokenKind identifies a lexical category.
type TokenKind uint8

const (
	TokEOF TokenKind = iota
	TokIdent
	TokNumber
	TokChar
	TokString
	TokSymbol // punctuation / operators, literal text in Token.Text
	TokKeyword
)

// Token is one lexical unit.
type Token struct {
	Kind TokenKind
	Text string
	Num  int
	Pos  diag.Pos
}

var keywords = map[string]bool{
	"var": true, "if": true, "else": true, "while": true,
	"input": true, "output": true, "define": true,
}

// Lexer scans one source buffer into Tokens.
type Lexer struct {
	src  string
	pos  int
	line int
	col  int
}

// New returns a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

func (l *Lexer) peek() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *Lexer) here() diag.Pos {
	return diag.Pos{Line: l.line, Col: l.col}
}

func (l *Lexer) skipSpaceAndComments() {
	for l.pos < len(l.src) {
		c := l.peek()
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/' && l.peekAt(1) == '/':
			for l.pos < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
		case c == '/' && l.peekAt(1) == '*':
			l.advance()
			l.advance()
			for l.pos < len(l.src) && !(l.peek() == '*' && l.peekAt(1) == '/') {
				l.advance()
			}
			if l.pos < len(l.src) {
				l.advance()
				l.advance()
			}
		default:
			return
		}
	}
}

// Next returns the next token. At end of input it returns a TokEOF token
// forever.
func (l *Lexer) Next() (Token, error) {
	l.skipSpaceAndComments()
	if l.pos >= len(l.src) {
		return Token{Kind: TokEOF, Pos: l.here()}, nil
	}

	start := l.here()
	c := l.peek()

	switch {
	case isDigit(c):
		return l.lexNumber(start)
	case isIdentStart(c):
		return l.lexIdent(start)
	case c == '"':
		return l.lexString(start)
	case c == '\'':
		return l.lexChar(start)
	default:
		return l.lexSymbol(start)
	}
}

func (l *Lexer) lexNumber(start diag.Pos) (Token, error) {
	var sb strings.Builder
	for l.pos < len(l.src) && isDigit(l.peek()) {
		sb.WriteByte(l.advance())
	}
	text := sb.String()
	n := 0
	for _, r := range text {
		n = n*10 + int(r-'0')
	}
	return Token{Kind: TokNumber, Text: text, Num: n, Pos: start}, nil
}

func (l *Lexer) lexIdent(start diag.Pos) (Token, error) {
	var sb strings.Builder
	for l.pos < len(l.src) && isIdentPart(l.peek()) {
		sb.WriteByte(l.advance())
	}
	text := sb.String()
	if keywords[text] {
		return Token{Kind: TokKeyword, Text: text, Pos: start}, nil
	}
	return Token{Kind: TokIdent, Text: text, Pos: start}, nil
}

func (l *Lexer) lexString(start diag.Pos) (Token, error) {
	l.advance() // opening quote
	var sb strings.Builder
	for l.pos < len(l.src) && l.peek() != '"' {
		c := l.advance()
		if c == '\\' && l.pos < len(l.src) {
			c = l.advance()
			switch c {
			case 'n':
				c = '\n'
			case 't':
				c = '\t'
			}
		}
		sb.WriteByte(c)
	}
	if l.pos >= len(l.src) {
		return Token{}, &diag.SyntaxError{Msg: "unterminated string literal", Pos: start}
	}
	l.advance() // closing quote
	return Token{Kind: TokString, Text: sb.String(), Pos: start}, nil
}

// lexChar scans a 'c' character literal, mirroring original_source's
// _extract_character: \n \t \r \\ \' \0 are recognized escapes, and an
// unrecognized \x yields the literal byte x.
func (l *Lexer) lexChar(start diag.Pos) (Token, error) {
	l.advance() // opening quote
	if l.pos >= len(l.src) {
		return Token{}, &diag.SyntaxError{Msg: "unterminated character literal", Pos: start}
	}
	c := l.advance()
	value := c
	if c == '\\' {
		if l.pos >= len(l.src) {
			return Token{}, &diag.SyntaxError{Msg: "unterminated character literal", Pos: start}
		}
		esc := l.advance()
		switch esc {
		case 'n':
			value = '\n'
		case 't':
			value = '\t'
		case 'r':
			value = '\r'
		case '\\':
			value = '\\'
		case '\'':
			value = '\''
		case '0':
			value = 0
		default:
			value = esc
		}
	}
	if l.pos >= len(l.src) || l.peek() != '\'' {
		return Token{}, &diag.SyntaxError{Msg: "unterminated character literal", Pos: start}
	}
	l.advance() // closing quote
	return Token{Kind: TokChar, Num: int(value), Pos: start}, nil
}

var twoCharSymbols = []string{"==", "!="}

func (l *Lexer) lexSymbol(start diag.Pos) (Token, error) {
	for _, sym := range twoCharSymbols {
		if strings.HasPrefix(l.src[l.pos:], sym) {
			l.advance()
			l.advance()
			return Token{Kind: TokSymbol, Text: sym, Pos: start}, nil
		}
	}
	c := l.advance()
	switch c {
	case '+', '-', '=', ';', '{', '}', '(', ')', ',', '#':
		return Token{Kind: TokSymbol, Text: string(c), Pos: start}, nil
	default:
		return Token{}, &diag.SyntaxError{Msg: fmt.Sprintf("unexpected character %q", c), Pos: start}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}
