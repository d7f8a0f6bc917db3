package lower

import (
	"github.com/oisee/bfsc/internal/ast"
	"github.com/oisee/bfsc/pkg/diag"
	"github.com/oisee/bfsc/pkg/ir"
)

// lowerExprInto emits instructions that leave e's value in REG_A,
// generalizing original_source/lark_parser.py's add/subtract/equal/
// not_equal/variable transformer methods and ExpressionOptimizer's
// simple-right-operand check into one recursive lowerer.
func (l *Lowerer) lowerExprInto(e *ast.Expr) error {
	switch e.Kind {
	case ast.ExprLiteral:
		if e.Lit < 0 || e.Lit > 255 {
			return &diag.RangeError{Value: e.Lit, Pos: e.Pos}
		}
		l.emit(ir.LoadAImm, e.Lit)
		return nil

	case ast.ExprChar:
		// the lexer already resolved escapes to a byte ordinal, so a
		// character literal lowers exactly like a numeric one.
		l.emit(ir.LoadAImm, e.Lit)
		return nil

	case ast.ExprIdent:
		return l.lowerIdentInto(e)

	case ast.ExprAdd:
		return l.lowerArith(e, ir.Add)

	case ast.ExprSub:
		return l.lowerArith(e, ir.Sub)

	case ast.ExprEq:
		return l.lowerCompare(e, true)

	case ast.ExprNeq:
		return l.lowerCompare(e, false)

	default:
		return &diag.InternalError{Msg: "unknown expression kind in lower"}
	}
}

func (l *Lowerer) lowerIdentInto(e *ast.Expr) error {
	if val, ok := l.defines[e.Name]; ok {
		if val.Kind != ast.ValueInt {
			return &diag.UnsupportedConstantError{Name: e.Name, Pos: e.Pos}
		}
		if val.Int < 0 || val.Int > 255 {
			return &diag.RangeError{Value: val.Int, Pos: e.Pos}
		}
		l.emit(ir.LoadAImm, val.Int)
		return nil
	}
	if addr, ok := l.syms.Lookup(e.Name); ok {
		l.emit(ir.LoadAMem, addr)
		return nil
	}
	return &diag.UndefinedVariableError{Name: e.Name, Pos: e.Pos}
}

// loadSimpleIntoB loads a leaf expression directly into REG_B, used only
// when the expression optimizer has already established e.IsSimple().
func (l *Lowerer) loadSimpleIntoB(e *ast.Expr) error {
	switch e.Kind {
	case ast.ExprLiteral:
		if e.Lit < 0 || e.Lit > 255 {
			return &diag.RangeError{Value: e.Lit, Pos: e.Pos}
		}
		l.emit(ir.LoadBImm, e.Lit)
		return nil
	case ast.ExprChar:
		l.emit(ir.LoadBImm, e.Lit)
		return nil
	case ast.ExprIdent:
		if val, ok := l.defines[e.Name]; ok {
			if val.Kind != ast.ValueInt {
				return &diag.UnsupportedConstantError{Name: e.Name, Pos: e.Pos}
			}
			l.emit(ir.LoadBImm, val.Int)
			return nil
		}
		addr, ok := l.syms.Lookup(e.Name)
		if !ok {
			return &diag.UndefinedVariableError{Name: e.Name, Pos: e.Pos}
		}
		l.emit(ir.LoadBMem, addr)
		return nil
	default:
		return &diag.InternalError{Msg: "loadSimpleIntoB called on a non-leaf expression"}
	}
}

// lowerArith implements ExpressionOptimizer.optimize_binary_operation: when
// the right operand is simple (a literal or a bare identifier) it is loaded
// straight into REG_B, avoiding a spill. Otherwise both operands are
// computed into REG_A in turn and shuttled through the two reserved
// scratch cells before the operation executes.
func (l *Lowerer) lowerArith(e *ast.Expr, op ir.Op) error {
	if err := l.lowerExprInto(e.Left); err != nil {
		return err
	}
	if e.Right.IsSimple() {
		if err := l.loadSimpleIntoB(e.Right); err != nil {
			return err
		}
		l.emit(op, 0)
		return nil
	}

	l.emit(ir.StoreA, scratchAddr0)
	if err := l.lowerExprInto(e.Right); err != nil {
		return err
	}
	l.emit(ir.StoreA, scratchAddr1)
	l.emit(ir.LoadAMem, scratchAddr0)
	l.emit(ir.LoadBMem, scratchAddr1)
	l.emit(op, 0)
	return nil
}

// lowerCompare synthesizes == and != via an assume-then-flip single
// iteration loop, generalizing the original compiler's equal/not_equal
// transformer methods. eq selects which operator is being lowered; the
// default/flip values are swapped accordingly so the same instruction
// shape serves both.
func (l *Lowerer) lowerCompare(e *ast.Expr, eq bool) error {
	if err := l.lowerExprInto(e.Left); err != nil {
		return err
	}
	l.emit(ir.StoreA, scratchAddr0)
	if err := l.lowerExprInto(e.Right); err != nil {
		return err
	}
	l.emit(ir.StoreA, scratchAddr1)

	l.emit(ir.LoadAMem, scratchAddr0)
	l.emit(ir.LoadBMem, scratchAddr1)
	l.emit(ir.Sub, 0) // A = left - right (mod 256), B = 0

	l.emit(ir.StoreA, scratchAddr0) // guard = diff

	defaultVal, flippedVal := 1, 0
	if !eq {
		defaultVal, flippedVal = 0, 1
	}
	l.emit(ir.LoadAImm, defaultVal)
	l.emit(ir.StoreA, scratchAddr1) // result = default

	l.emit(ir.LoadAMem, scratchAddr0)
	l.emit(ir.LoopStart, 0)
	l.emit(ir.LoadAImm, flippedVal)
	l.emit(ir.StoreA, scratchAddr1)
	l.emit(ir.LoadAImm, 0)
	l.emit(ir.StoreA, scratchAddr0)
	l.emit(ir.LoadAMem, scratchAddr0)
	l.emit(ir.LoopEnd, 0)

	l.emit(ir.LoadAMem, scratchAddr1)
	return nil
}
