// Package ast defines the syntax tree produced by internal/parser and
// consumed by pkg/lower. Nodes are plain structs tagged by a discriminated
// Kind where a statement or expression can take several shapes, following
// the same tagged-variant style as pkg/ir rather than an interface-per-node
// hierarchy.
package ast

import "github.com/oisee/bfsc/pkg/diag"

// Program is a parsed, preprocessed translation unit: one file with all
// #include directives already expanded by internal/preprocess.
type Program struct {
	Items []Stmt
}

// StmtKind discriminates the statement variants the grammar allows at
// top level and inside a block.
type StmtKind uint8

const (
	StmtDefine StmtKind = iota
	StmtVarDecl
	StmtAssign
	StmtInput
	StmtOutput
	StmtWhile
	StmtIf
	StmtExprStmt
)

// Stmt is one statement node. Only the fields relevant to Kind are
// populated; the rest are zero.
type Stmt struct {
	Kind StmtKind
	Pos  diag.Pos

	// StmtDefine
	DefineName  string
	DefineValue Value // ValueInt or ValueString

	// StmtVarDecl
	VarName    string
	VarInit    Expr // meaningful only if HasInit
	HasVarInit bool

	// StmtAssign
	AssignName string
	AssignExpr Expr

	// StmtInput
	InputName string

	// StmtOutput
	OutputExpr Expr

	// StmtWhile
	WhileCond Expr
	WhileBody []Stmt

	// StmtIf
	IfCond    Expr
	IfBody    []Stmt
	ElseBody  []Stmt // nil if no else clause
	HasElse   bool

	// StmtExprStmt
	ExprStmt Expr
}

// ValueKind discriminates the literal kinds a #define may bind.
type ValueKind uint8

const (
	ValueInt ValueKind = iota
	ValueString
)

// Value is a #define's bound literal: either a numeric constant or a
// string (only numeric values may be used where an expression is
// expected; a string used numerically is diag.UnsupportedConstantError).
type Value struct {
	Kind ValueKind
	Int  int
	Str  string
}

// ExprKind discriminates the expression variants.
type ExprKind uint8

const (
	ExprLiteral ExprKind = iota
	ExprChar
	ExprIdent
	ExprAdd
	ExprSub
	ExprEq
	ExprNeq
)

// Expr is one expression node. Binary kinds populate Left/Right; ExprLiteral
// and ExprChar populate Lit (a character literal is already resolved to its
// ordinal value by the lexer); ExprIdent populates Name.
type Expr struct {
	Kind  ExprKind
	Pos   diag.Pos
	Lit   int
	Name  string
	Left  *Expr
	Right *Expr
}

// IsSimple reports whether e is a leaf (literal, character, or identifier) —
// the "simple expression" predicate the lowerer's expression optimizer uses
// to decide whether a binary operation's right operand can be loaded
// directly into REG_B without first spilling REG_A to a scratch cell.
func (e *Expr) IsSimple() bool {
	return e.Kind == ExprLiteral || e.Kind == ExprChar || e.Kind == ExprIdent
}
