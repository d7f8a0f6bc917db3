// Package fuzz differentially tests the compiler: it generates random BFS
// programs, lowers and compiles each one, and runs the resulting IR and BF
// programs on the same input, reporting any program whose two interpreters
// disagree. The worker pool and weighted random construction are adapted
// from the teacher's pkg/search/worker.go and pkg/stoke/mutator.go,
// repurposed from mutating Z80 instruction sequences to generating BFS
// syntax trees from scratch.
package fuzz

import (
	"fmt"
	"math/rand/v2"

	"github.com/oisee/bfsc/internal/ast"
)

// Generator builds random, well-formed BFS programs. Nesting depth is
// limited so each generated program has a bounded number of IR
// instructions; a generated while loop may still never exit, which the
// worker's step limit guards against.
type Generator struct {
	rng      *rand.Rand
	maxStmts int
	vars     []string
	nextVar  int
}

// NewGenerator returns a Generator seeded from rng, producing programs with
// at most maxStmts top-level statements.
func NewGenerator(rng *rand.Rand, maxStmts int) *Generator {
	if maxStmts <= 0 {
		maxStmts = 16
	}
	return &Generator{rng: rng, maxStmts: maxStmts}
}

// Program generates one random, well-formed *ast.Program.
func (g *Generator) Program() *ast.Program {
	g.vars = nil
	g.nextVar = 0

	n := 1 + g.rng.IntN(g.maxStmts)
	var items []ast.Stmt
	for i := 0; i < n; i++ {
		items = append(items, g.stmt(3))
	}
	return &ast.Program{Items: items}
}

func (g *Generator) freshVar() string {
	name := fmt.Sprintf("v%d", g.nextVar)
	g.nextVar++
	g.vars = append(g.vars, name)
	return name
}

func (g *Generator) randomVar() (string, bool) {
	if len(g.vars) == 0 {
		return "", false
	}
	return g.vars[g.rng.IntN(len(g.vars))], true
}

// stmt picks a statement kind with weighted odds matching pkg/stoke's
// Mutate: declarations and assignments dominate, control flow is rarer and
// tapers off as depth decreases so recursion always terminates.
func (g *Generator) stmt(depth int) ast.Stmt {
	r := g.rng.IntN(100)
	switch {
	case r < 30:
		return g.varDecl()
	case r < 55:
		return g.assign()
	case r < 65:
		return g.output()
	case r < 70:
		return g.input()
	case depth <= 0:
		return g.assign()
	case r < 83:
		return g.whileStmt(depth - 1)
	default:
		return g.ifStmt(depth - 1)
	}
}

func (g *Generator) block(depth int) []ast.Stmt {
	n := 1 + g.rng.IntN(3)
	var stmts []ast.Stmt
	for i := 0; i < n; i++ {
		stmts = append(stmts, g.stmt(depth))
	}
	return stmts
}

func (g *Generator) varDecl() ast.Stmt {
	name := g.freshVar()
	return ast.Stmt{
		Kind:       ast.StmtVarDecl,
		VarName:    name,
		VarInit:    g.expr(),
		HasVarInit: true,
	}
}

func (g *Generator) assign() ast.Stmt {
	name, ok := g.randomVar()
	if !ok {
		return g.varDecl()
	}
	return ast.Stmt{Kind: ast.StmtAssign, AssignName: name, AssignExpr: g.expr()}
}

func (g *Generator) input() ast.Stmt {
	return ast.Stmt{Kind: ast.StmtInput, InputName: g.freshVar()}
}

func (g *Generator) output() ast.Stmt {
	name, ok := g.randomVar()
	var e ast.Expr
	if ok {
		e = ast.Expr{Kind: ast.ExprIdent, Name: name}
	} else {
		e = g.literal()
	}
	return ast.Stmt{Kind: ast.StmtOutput, OutputExpr: e}
}

func (g *Generator) whileStmt(depth int) ast.Stmt {
	return ast.Stmt{Kind: ast.StmtWhile, WhileCond: g.cond(), WhileBody: g.block(depth)}
}

func (g *Generator) ifStmt(depth int) ast.Stmt {
	s := ast.Stmt{Kind: ast.StmtIf, IfCond: g.cond(), IfBody: g.block(depth)}
	if g.rng.IntN(2) == 0 {
		s.HasElse = true
		s.ElseBody = g.block(depth)
	}
	return s
}

func (g *Generator) literal() ast.Expr {
	return ast.Expr{Kind: ast.ExprLiteral, Lit: g.rng.IntN(256)}
}

func (g *Generator) leaf() ast.Expr {
	if name, ok := g.randomVar(); ok && g.rng.IntN(2) == 0 {
		return ast.Expr{Kind: ast.ExprIdent, Name: name}
	}
	return g.literal()
}

// expr generates a leaf or a single binary operation over two leaves. The
// grammar itself allows arbitrarily long left-associative chains, but one
// operation per generated expression keeps programs small. The right
// operand is always a leaf, so arithmetic lowers through the simple-right
// path; the spill path is not generated.
func (g *Generator) expr() ast.Expr {
	if g.rng.IntN(3) == 0 {
		left, right := g.leaf(), g.leaf()
		kind := ast.ExprAdd
		if g.rng.IntN(2) == 0 {
			kind = ast.ExprSub
		}
		return ast.Expr{Kind: kind, Left: &left, Right: &right}
	}
	return g.leaf()
}

// cond generates an expression suitable for a while/if condition, biased
// towards comparisons so both control-flow synthesis paths get exercised.
func (g *Generator) cond() ast.Expr {
	if g.rng.IntN(2) == 0 {
		left, right := g.leaf(), g.leaf()
		kind := ast.ExprEq
		if g.rng.IntN(2) == 0 {
			kind = ast.ExprNeq
		}
		return ast.Expr{Kind: kind, Left: &left, Right: &right}
	}
	return g.leaf()
}
