// Package logicalexpr is the backend expression algebra that the
// expr/compiler package lowers the expression-language AST onto, and
// that dataframe.PlanExecutor implementations evaluate row-by-row
// (spec §4.2 compiled-expression semantics). Its Expr interface
// mirrors the teacher's plan.Expression interface (Eval/GetType/
// String/Children) generalized to the value.Scalar type system.
package logicalexpr

import (
	"vegafusion-go/internal/value"
)

// EvalContext is the row a logical expression is evaluated against,
// together with that row's schema. It carries no signal scope: the
// compiler resolves signal identifiers to constants at compile time,
// and only column references read the live row.
type EvalContext struct {
	Row    value.Row
	Schema *value.Schema
}

// Expr is a compiled logical expression: an evaluable node over a row.
type Expr interface {
	// Eval computes the expression's value against ctx.
	Eval(ctx *EvalContext) (value.Scalar, error)
	// Type returns the expression's static output type, used to build
	// the output schema of a transform that adds a computed column.
	Type() value.FieldType
	// String renders the expression for debugging/explain output.
	String() string
	// Children returns the expression's direct operands, used by
	// optimizer passes that rewrite an expression tree (e.g. constant
	// folding, column-pruning).
	Children() []Expr
}

// base carries the fields every Expr implementation shares.
type base struct {
	children []Expr
}

func (b *base) Children() []Expr { return b.children }
