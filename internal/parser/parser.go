// Package parser implements a recursive-descent parser over the token
// stream internal/lexer produces, building the internal/ast tree pkg/lower
// consumes. No parser-generator dependency appears anywhere in the example
// corpus retrieved for this compiler, so a hand-written descent parser is
// the idiomatic substitute — the same choice the corpus makes for its own
// disassemblers and instruction decoders.
package parser

import (
	"fmt"

	"github.com/oisee/bfsc/internal/ast"
	"github.com/oisee/bfsc/internal/lexer"
	"github.com/oisee/bfsc/pkg/diag"
)

// Parser consumes tokens from a Lexer one lookahead token at a time.
type Parser struct {
	lex  *lexer.Lexer
	tok  lexer.Token
	peek *lexer.Token
}

// New returns a Parser over src.
func New(src string) (*Parser, error) {
	p := &Parser{lex: lexer.New(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	if p.peek != nil {
		p.tok = *p.peek
		p.peek = nil
		return nil
	}
	t, err := p.lex.Next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *Parser) expectSymbol(s string) error {
	if p.tok.Kind != lexer.TokSymbol || p.tok.Text != s {
		return &diag.SyntaxError{Msg: fmt.Sprintf("expected %q, got %q", s, p.tok.Text), Pos: p.tok.Pos}
	}
	return p.advance()
}

func (p *Parser) expectKeyword(k string) error {
	if p.tok.Kind != lexer.TokKeyword || p.tok.Text != k {
		return &diag.SyntaxError{Msg: fmt.Sprintf("expected keyword %q, got %q", k, p.tok.Text), Pos: p.tok.Pos}
	}
	return p.advance()
}

func (p *Parser) expectIdent() (string, error) {
	if p.tok.Kind != lexer.TokIdent {
		return "", &diag.SyntaxError{Msg: fmt.Sprintf("expected identifier, got %q", p.tok.Text), Pos: p.tok.Pos}
	}
	name := p.tok.Text
	return name, p.advance()
}

// ParseProgram parses a full translation unit.
func ParseProgram(src string) (*ast.Program, error) {
	p, err := New(src)
	if err != nil {
		return nil, err
	}
	var items []ast.Stmt
	for p.tok.Kind != lexer.TokEOF {
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		items = append(items, s)
	}
	return &ast.Program{Items: items}, nil
}

func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	if err := p.expectSymbol("{"); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for !(p.tok.Kind == lexer.TokSymbol && p.tok.Text == "}") {
		if p.tok.Kind == lexer.TokEOF {
			return nil, &diag.SyntaxError{Msg: "unterminated block", Pos: p.tok.Pos}
		}
		s, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, p.expectSymbol("}")
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	pos := p.tok.Pos
	if p.tok.Kind == lexer.TokSymbol && p.tok.Text == "#" {
		return p.parseDefine(pos)
	}
	if p.tok.Kind == lexer.TokKeyword {
		switch p.tok.Text {
		case "var":
			return p.parseVarDecl(pos)
		case "input":
			return p.parseInput(pos)
		case "output":
			return p.parseOutput(pos)
		case "while":
			return p.parseWhile(pos)
		case "if":
			return p.parseIf(pos)
		}
	}
	if p.tok.Kind == lexer.TokIdent {
		// lookahead: IDENT "=" is an assignment, else an expression statement
		name := p.tok.Text
		if err := p.advance(); err != nil {
			return ast.Stmt{}, err
		}
		if p.tok.Kind == lexer.TokSymbol && p.tok.Text == "=" {
			if err := p.advance(); err != nil {
				return ast.Stmt{}, err
			}
			expr, err := p.parseExpr()
			if err != nil {
				return ast.Stmt{}, err
			}
			if err := p.expectSymbol(";"); err != nil {
				return ast.Stmt{}, err
			}
			return ast.Stmt{Kind: ast.StmtAssign, Pos: pos, AssignName: name, AssignExpr: expr}, nil
		}
		expr, err := p.parseExprTail(ast.Expr{Kind: ast.ExprIdent, Name: name, Pos: pos})
		if err != nil {
			return ast.Stmt{}, err
		}
		if err := p.expectSymbol(";"); err != nil {
			return ast.Stmt{}, err
		}
		return ast.Stmt{Kind: ast.StmtExprStmt, Pos: pos, ExprStmt: expr}, nil
	}

	expr, err := p.parseExpr()
	if err != nil {
		return ast.Stmt{}, err
	}
	if err := p.expectSymbol(";"); err != nil {
		return ast.Stmt{}, err
	}
	return ast.Stmt{Kind: ast.StmtExprStmt, Pos: pos, ExprStmt: expr}, nil
}

// parseDefine parses "#define" IDENT constant — the grammar's define
// production. Unlike every other statement it carries no trailing ";".
func (p *Parser) parseDefine(pos diag.Pos) (ast.Stmt, error) {
	if err := p.expectSymbol("#"); err != nil {
		return ast.Stmt{}, err
	}
	if err := p.expectKeyword("define"); err != nil {
		return ast.Stmt{}, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return ast.Stmt{}, err
	}
	val, err := p.parseConstant()
	if err != nil {
		return ast.Stmt{}, err
	}
	return ast.Stmt{Kind: ast.StmtDefine, Pos: pos, DefineName: name, DefineValue: val}, nil
}

// parseConstant parses the grammar's constant production: NUMBER | CHARACTER
// | STRING. A character literal is already resolved to its ordinal value by
// the lexer, so it is bound the same way a numeric constant is.
func (p *Parser) parseConstant() (ast.Value, error) {
	switch p.tok.Kind {
	case lexer.TokNumber:
		val := ast.Value{Kind: ast.ValueInt, Int: p.tok.Num}
		return val, p.advance()
	case lexer.TokChar:
		val := ast.Value{Kind: ast.ValueInt, Int: p.tok.Num}
		return val, p.advance()
	case lexer.TokString:
		val := ast.Value{Kind: ast.ValueString, Str: p.tok.Text}
		return val, p.advance()
	default:
		return ast.Value{}, &diag.SyntaxError{Msg: "expected number, character, or string literal after define name", Pos: p.tok.Pos}
	}
}

func (p *Parser) parseVarDecl(pos diag.Pos) (ast.Stmt, error) {
	if err := p.advance(); err != nil { // consume "var"
		return ast.Stmt{}, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return ast.Stmt{}, err
	}
	s := ast.Stmt{Kind: ast.StmtVarDecl, Pos: pos, VarName: name}
	if p.tok.Kind == lexer.TokSymbol && p.tok.Text == "=" {
		if err := p.advance(); err != nil {
			return ast.Stmt{}, err
		}
		e, err := p.parseExpr()
		if err != nil {
			return ast.Stmt{}, err
		}
		s.VarInit = e
		s.HasVarInit = true
	}
	if err := p.expectSymbol(";"); err != nil {
		return ast.Stmt{}, err
	}
	return s, nil
}

func (p *Parser) parseInput(pos diag.Pos) (ast.Stmt, error) {
	if err := p.expectKeyword("input"); err != nil {
		return ast.Stmt{}, err
	}
	if err := p.expectSymbol("("); err != nil {
		return ast.Stmt{}, err
	}
	name, err := p.expectIdent()
	if err != nil {
		return ast.Stmt{}, err
	}
	if err := p.expectSymbol(")"); err != nil {
		return ast.Stmt{}, err
	}
	if err := p.expectSymbol(";"); err != nil {
		return ast.Stmt{}, err
	}
	return ast.Stmt{Kind: ast.StmtInput, Pos: pos, InputName: name}, nil
}

func (p *Parser) parseOutput(pos diag.Pos) (ast.Stmt, error) {
	if err := p.expectKeyword("output"); err != nil {
		return ast.Stmt{}, err
	}
	if err := p.expectSymbol("("); err != nil {
		return ast.Stmt{}, err
	}
	expr, err := p.parseExpr()
	if err != nil {
		return ast.Stmt{}, err
	}
	if err := p.expectSymbol(")"); err != nil {
		return ast.Stmt{}, err
	}
	if err := p.expectSymbol(";"); err != nil {
		return ast.Stmt{}, err
	}
	return ast.Stmt{Kind: ast.StmtOutput, Pos: pos, OutputExpr: expr}, nil
}

func (p *Parser) parseWhile(pos diag.Pos) (ast.Stmt, error) {
	if err := p.expectKeyword("while"); err != nil {
		return ast.Stmt{}, err
	}
	if err := p.expectSymbol("("); err != nil {
		return ast.Stmt{}, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return ast.Stmt{}, err
	}
	if err := p.expectSymbol(")"); err != nil {
		return ast.Stmt{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return ast.Stmt{}, err
	}
	return ast.Stmt{Kind: ast.StmtWhile, Pos: pos, WhileCond: cond, WhileBody: body}, nil
}

func (p *Parser) parseIf(pos diag.Pos) (ast.Stmt, error) {
	if err := p.expectKeyword("if"); err != nil {
		return ast.Stmt{}, err
	}
	if err := p.expectSymbol("("); err != nil {
		return ast.Stmt{}, err
	}
	cond, err := p.parseExpr()
	if err != nil {
		return ast.Stmt{}, err
	}
	if err := p.expectSymbol(")"); err != nil {
		return ast.Stmt{}, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return ast.Stmt{}, err
	}
	s := ast.Stmt{Kind: ast.StmtIf, Pos: pos, IfCond: cond, IfBody: body}
	if p.tok.Kind == lexer.TokKeyword && p.tok.Text == "else" {
		if err := p.advance(); err != nil {
			return ast.Stmt{}, err
		}
		elseBody, err := p.parseBlock()
		if err != nil {
			return ast.Stmt{}, err
		}
		s.ElseBody = elseBody
		s.HasElse = true
	}
	return s, nil
}

// parseExpr parses the grammar's left-recursive expression production:
// expression ::= term | expression ("+"|"-"|"=="|"!=") term. Rewritten as a
// loop over parsePrimary, each trailing operator folds the accumulated tree
// in as its left operand so a chain like 1 + 2 + 3 parses left-associatively
// as ((1+2)+3), per §6.
func (p *Parser) parseExpr() (ast.Expr, error) {
	left, err := p.parsePrimary()
	if err != nil {
		return ast.Expr{}, err
	}
	return p.parseExprTail(left)
}

func (p *Parser) parseExprTail(left ast.Expr) (ast.Expr, error) {
	for {
		if p.tok.Kind != lexer.TokSymbol {
			return left, nil
		}
		var kind ast.ExprKind
		switch p.tok.Text {
		case "+":
			kind = ast.ExprAdd
		case "-":
			kind = ast.ExprSub
		case "==":
			kind = ast.ExprEq
		case "!=":
			kind = ast.ExprNeq
		default:
			return left, nil
		}
		pos := p.tok.Pos
		if err := p.advance(); err != nil {
			return ast.Expr{}, err
		}
		right, err := p.parsePrimary()
		if err != nil {
			return ast.Expr{}, err
		}
		accumulated := left
		left = ast.Expr{Kind: kind, Pos: pos, Left: &accumulated, Right: &right}
	}
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	pos := p.tok.Pos
	switch p.tok.Kind {
	case lexer.TokNumber:
		n := p.tok.Num
		if err := p.advance(); err != nil {
			return ast.Expr{}, err
		}
		return ast.Expr{Kind: ast.ExprLiteral, Lit: n, Pos: pos}, nil
	case lexer.TokIdent:
		name := p.tok.Text
		if err := p.advance(); err != nil {
			return ast.Expr{}, err
		}
		return ast.Expr{Kind: ast.ExprIdent, Name: name, Pos: pos}, nil
	case lexer.TokChar:
		n := p.tok.Num
		if err := p.advance(); err != nil {
			return ast.Expr{}, err
		}
		return ast.Expr{Kind: ast.ExprChar, Lit: n, Pos: pos}, nil
	case lexer.TokSymbol:
		if p.tok.Text == "(" {
			if err := p.advance(); err != nil {
				return ast.Expr{}, err
			}
			e, err := p.parseExpr()
			if err != nil {
				return ast.Expr{}, err
			}
			if err := p.expectSymbol(")"); err != nil {
				return ast.Expr{}, err
			}
			return e, nil
		}
	}
	return ast.Expr{}, &diag.SyntaxError{Msg: fmt.Sprintf("unexpected token %q", p.tok.Text), Pos: pos}
}
