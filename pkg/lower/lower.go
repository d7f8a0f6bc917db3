// Package lower translates a parsed internal/ast.Program into a pkg/ir.Program,
// generalizing original_source/lark_parser.py's CompilerTransformer,
// SymbolTable, and ExpressionOptimizer into idiomatic Go types: a symbol
// table for variable addresses, a define table for compile-time constants,
// and a recursive expression lowerer that picks the cheapest instruction
// sequence for each binary operation.
package lower

import (
	"github.com/oisee/bfsc/internal/ast"
	"github.com/oisee/bfsc/pkg/diag"
	"github.com/oisee/bfsc/pkg/ir"
)

// Result is a completed lowering: the emitted program and the user-memory
// size the IR interpreter and backend must allocate.
type Result struct {
	Program ir.Program
	MemSize int
}

// Lowerer holds the compile-time tables threaded through a single
// translation unit's lowering.
type Lowerer struct {
	syms    *SymbolTable
	defines map[string]ast.Value
	prog    ir.Program
}

// New returns a Lowerer ready to lower a single program.
func New() *Lowerer {
	return &Lowerer{
		syms: NewSymbolTable(),
		defines: map[string]ast.Value{
			"true":  {Kind: ast.ValueInt, Int: 1},
			"false": {Kind: ast.ValueInt, Int: 0},
		},
	}
}

// Lower lowers prog in full and returns the emitted IR.
func Lower(prog *ast.Program) (Result, error) {
	l := New()
	for _, stmt := range prog.Items {
		if err := l.lowerStmt(stmt); err != nil {
			return Result{}, err
		}
	}
	return Result{Program: l.prog, MemSize: l.syms.Size()}, nil
}

func (l *Lowerer) emit(op ir.Op, arg int) {
	l.prog = append(l.prog, ir.Instr{Op: op, Arg: arg})
}

func (l *Lowerer) lowerStmt(s ast.Stmt) error {
	switch s.Kind {
	case ast.StmtDefine:
		l.defines[s.DefineName] = s.DefineValue
		return nil

	case ast.StmtVarDecl:
		addr := l.syms.Define(s.VarName)
		// a var declaration shadows any #define of the same name from here on
		delete(l.defines, s.VarName)
		if !s.HasVarInit {
			// the tape cell already reads zero; nothing to emit
			return nil
		}
		if err := l.lowerExprInto(&s.VarInit); err != nil {
			return err
		}
		l.emit(ir.StoreA, addr)
		return nil

	case ast.StmtAssign:
		addr, ok := l.syms.Lookup(s.AssignName)
		if !ok {
			return &diag.UndefinedVariableError{Name: s.AssignName, Pos: s.Pos}
		}
		if err := l.lowerExprInto(&s.AssignExpr); err != nil {
			return err
		}
		l.emit(ir.StoreA, addr)
		return nil

	case ast.StmtInput:
		addr := l.syms.Define(s.InputName)
		l.emit(ir.InA, 0)
		l.emit(ir.StoreA, addr)
		return nil

	case ast.StmtOutput:
		if err := l.lowerExprInto(&s.OutputExpr); err != nil {
			return err
		}
		l.emit(ir.OutA, 0)
		return nil

	case ast.StmtExprStmt:
		// evaluated for side effect only; REG_A result is discarded
		return l.lowerExprInto(&s.ExprStmt)

	case ast.StmtWhile:
		return l.lowerWhile(s)

	case ast.StmtIf:
		return l.lowerIf(s)

	default:
		return &diag.InternalError{Msg: "unknown statement kind in lower"}
	}
}

func (l *Lowerer) lowerBlock(stmts []ast.Stmt) error {
	for _, s := range stmts {
		if err := l.lowerStmt(s); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lowerer) lowerWhile(s ast.Stmt) error {
	if err := l.lowerExprInto(&s.WhileCond); err != nil {
		return err
	}
	l.emit(ir.LoopStart, 0)
	if err := l.lowerBlock(s.WhileBody); err != nil {
		return err
	}
	if err := l.lowerExprInto(&s.WhileCond); err != nil {
		return err
	}
	l.emit(ir.LoopEnd, 0)
	return nil
}

// lowerIf synthesizes the if/else control flow as two single-iteration
// loops guarded by a fresh go_else_N variable, matching the original
// compiler's if_statement/else_clause pair. The two paths are kept
// structurally distinct rather than collapsed (see DESIGN.md).
func (l *Lowerer) lowerIf(s ast.Stmt) error {
	if !s.HasElse {
		if err := l.lowerExprInto(&s.IfCond); err != nil {
			return err
		}
		l.emit(ir.LoopStart, 0)
		if err := l.lowerBlock(s.IfBody); err != nil {
			return err
		}
		l.emit(ir.LoadAImm, 0)
		l.emit(ir.LoopEnd, 0)
		return nil
	}

	goElseName := l.syms.FreshName("go_else_")
	goElseAddr := l.syms.Define(goElseName)

	l.emit(ir.LoadAImm, 1)
	l.emit(ir.StoreA, goElseAddr)

	if err := l.lowerExprInto(&s.IfCond); err != nil {
		return err
	}
	l.emit(ir.LoopStart, 0)
	if err := l.lowerBlock(s.IfBody); err != nil {
		return err
	}
	l.emit(ir.LoadAImm, 0)
	l.emit(ir.StoreA, goElseAddr)
	l.emit(ir.LoadAImm, 0)
	l.emit(ir.LoopEnd, 0)

	l.emit(ir.LoadAMem, goElseAddr)
	l.emit(ir.LoopStart, 0)
	if err := l.lowerBlock(s.ElseBody); err != nil {
		return err
	}
	l.emit(ir.LoadAImm, 0)
	l.emit(ir.LoopEnd, 0)
	return nil
}
