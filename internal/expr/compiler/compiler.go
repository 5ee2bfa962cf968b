// Package compiler lowers the expression sublanguage's AST (package
// ast) onto the backend logical-expression algebra (package
// logicalexpr), resolving signals/constants against a compilation
// scope and column references against a table schema (spec §4.2).
package compiler

import (
	"strconv"

	vferrors "vegafusion-go/internal/errors"
	"vegafusion-go/internal/expr/ast"
	"vegafusion-go/internal/logicalexpr"
	"vegafusion-go/internal/value"
)

// Config is the compilation scope an expression is lowered against: a
// signal/parameter name -> value map (already-evaluated upstream task
// outputs) and, when the expression is a row predicate/derivation, the
// schema of the datum it runs against.
type Config struct {
	// Scope holds resolved signal and constant values, keyed by name,
	// available to bare Identifier references outside of `datum`.
	Scope map[string]value.Scalar
	// Schema is the row schema `datum.field` references resolve
	// against; nil when compiling a signal expression with no datum.
	Schema *value.Schema
}

// Compile lowers an AST expression into a logicalexpr.Expr under cfg.
func Compile(n ast.Node, cfg *Config) (logicalexpr.Expr, error) {
	switch v := n.(type) {
	case *ast.Literal:
		return compileLiteral(v)
	case *ast.Identifier:
		return compileIdentifier(v, cfg)
	case *ast.Member:
		return compileMember(v, cfg)
	case *ast.Unary:
		return compileUnary(v, cfg)
	case *ast.Binary:
		return compileBinary(v, cfg)
	case *ast.Logical:
		return compileLogical(v, cfg)
	case *ast.Conditional:
		return compileConditional(v, cfg)
	case *ast.Call:
		return compileCall(v, cfg)
	case *ast.Array:
		return compileArray(v, cfg)
	case *ast.Object:
		return compileObject(v, cfg)
	default:
		return nil, vferrors.Compilation("no compilation rule for AST node %T", n)
	}
}

func compileLiteral(l *ast.Literal) (logicalexpr.Expr, error) {
	switch l.Kind {
	case ast.LiteralNumber:
		return logicalexpr.NewConst(value.Float(l.Number)), nil
	case ast.LiteralString:
		return logicalexpr.NewConst(value.String(l.Str)), nil
	case ast.LiteralBoolean:
		return logicalexpr.NewConst(value.Bool(l.Boolean)), nil
	case ast.LiteralNull:
		return logicalexpr.NewConst(value.Null()), nil
	default:
		return nil, vferrors.Compilation("unknown literal kind %v", l.Kind)
	}
}

// compileIdentifier resolves a bare name against the signal/constant
// scope. `datum` itself has no standalone value: it is only valid as
// the root of a Member access, handled in compileMember.
func compileIdentifier(id *ast.Identifier, cfg *Config) (logicalexpr.Expr, error) {
	if id.Name == "datum" || id.Name == "event" {
		return nil, vferrors.Compilation("%q may only be used as the root of a member access", id.Name)
	}
	v, ok := cfg.Scope[id.Name]
	if !ok {
		return nil, vferrors.Compilation("unresolved signal or constant %q", id.Name)
	}
	return logicalexpr.NewConst(v), nil
}

// compileMember resolves `datum.field` / `datum["field"]` to a
// ColumnRef, and any other member chain (e.g. a signal holding an
// object-shaped scalar) as an unsupported compile-time construct,
// since value.Scalar carries no nested-object representation.
func compileMember(m *ast.Member, cfg *Config) (logicalexpr.Expr, error) {
	if name, ok := ast.MemberColumnName(m); ok {
		if cfg.Schema == nil || !cfg.Schema.HasColumn(name) {
			return nil, vferrors.Compilation("column %q not found in input schema", name)
		}
		field, _ := cfg.Schema.Field(name)
		return logicalexpr.NewColumnRef(name, field.Type), nil
	}
	return nil, vferrors.Compilation("unsupported member access %s", m.String())
}

func compileUnary(u *ast.Unary, cfg *Config) (logicalexpr.Expr, error) {
	arg, err := Compile(u.Argument, cfg)
	if err != nil {
		return nil, vferrors.Annotate(err, "while compiling unary operand")
	}
	var op logicalexpr.UnaryOp
	switch u.Operator {
	case ast.UnaryMinus:
		op = logicalexpr.OpNeg
	case ast.UnaryPlus:
		op = logicalexpr.OpPos
	case ast.UnaryNot:
		op = logicalexpr.OpNot
	case ast.UnaryBitwiseNot:
		op = logicalexpr.OpBitNot
	default:
		return nil, vferrors.Compilation("unknown unary operator %v", u.Operator)
	}
	return logicalexpr.NewUnary(op, arg), nil
}

var binaryOpMap = map[ast.BinaryOperator]logicalexpr.BinaryOp{
	ast.Plus:             logicalexpr.OpAdd,
	ast.Minus:            logicalexpr.OpSub,
	ast.Mult:             logicalexpr.OpMul,
	ast.Div:               logicalexpr.OpDiv,
	ast.Mod:              logicalexpr.OpMod,
	ast.Equals:           logicalexpr.OpEQ,
	ast.StrictEquals:     logicalexpr.OpStrictEQ,
	ast.NotEquals:        logicalexpr.OpNE,
	ast.NotStrictEquals:  logicalexpr.OpStrictNE,
	ast.LessThan:         logicalexpr.OpLT,
	ast.LessThanEqual:    logicalexpr.OpLE,
	ast.GreaterThan:      logicalexpr.OpGT,
	ast.GreaterThanEqual: logicalexpr.OpGE,
	ast.BitwiseAnd:       logicalexpr.OpBitAnd,
	ast.BitwiseOr:        logicalexpr.OpBitOr,
	ast.BitwiseXor:       logicalexpr.OpBitXor,
	ast.BitwiseShiftLeft: logicalexpr.OpShl,
	ast.BitwiseShiftRight: logicalexpr.OpShr,
}

func compileBinary(b *ast.Binary, cfg *Config) (logicalexpr.Expr, error) {
	left, err := Compile(b.Left, cfg)
	if err != nil {
		return nil, vferrors.Annotate(err, "while compiling left operand of %v", b.Operator)
	}
	right, err := Compile(b.Right, cfg)
	if err != nil {
		return nil, vferrors.Annotate(err, "while compiling right operand of %v", b.Operator)
	}
	op, ok := binaryOpMap[b.Operator]
	if !ok {
		return nil, vferrors.Compilation("unknown binary operator %v", b.Operator)
	}
	return logicalexpr.NewBinary(op, left, right), nil
}

func compileLogical(l *ast.Logical, cfg *Config) (logicalexpr.Expr, error) {
	left, err := Compile(l.Left, cfg)
	if err != nil {
		return nil, err
	}
	right, err := Compile(l.Right, cfg)
	if err != nil {
		return nil, err
	}
	op := logicalexpr.OpAnd
	if l.Operator == ast.LogicalOr {
		op = logicalexpr.OpOr
	}
	return logicalexpr.NewLogical(op, left, right), nil
}

func compileConditional(c *ast.Conditional, cfg *Config) (logicalexpr.Expr, error) {
	test, err := Compile(c.Test, cfg)
	if err != nil {
		return nil, vferrors.Annotate(err, "while compiling ternary test")
	}
	cons, err := Compile(c.Consequent, cfg)
	if err != nil {
		return nil, vferrors.Annotate(err, "while compiling ternary consequent")
	}
	alt, err := Compile(c.Alternate, cfg)
	if err != nil {
		return nil, vferrors.Annotate(err, "while compiling ternary alternate")
	}
	return logicalexpr.NewConditional(test, cons, alt), nil
}

func compileCall(c *ast.Call, cfg *Config) (logicalexpr.Expr, error) {
	args := make([]logicalexpr.Expr, len(c.Args))
	for i, a := range c.Args {
		compiled, err := Compile(a, cfg)
		if err != nil {
			return nil, vferrors.Annotate(err, "while compiling argument %d of %s(...)", i, c.Callee)
		}
		args[i] = compiled
	}
	call, err := logicalexpr.NewCall(c.Callee, args)
	if err != nil {
		return nil, err
	}
	return call, nil
}

func compileArray(a *ast.Array, cfg *Config) (logicalexpr.Expr, error) {
	elems := make([]logicalexpr.Expr, len(a.Elements))
	for i, e := range a.Elements {
		compiled, err := Compile(e, cfg)
		if err != nil {
			return nil, vferrors.Annotate(err, "while compiling array element %d", i)
		}
		elems[i] = compiled
	}
	return logicalexpr.NewMakeArray(elems), nil
}

func compileObject(o *ast.Object, cfg *Config) (logicalexpr.Expr, error) {
	keys := make([]string, len(o.Properties))
	vals := make([]logicalexpr.Expr, len(o.Properties))
	for i, p := range o.Properties {
		key, err := propertyKeyName(p)
		if err != nil {
			return nil, err
		}
		compiled, err := Compile(p.Value, cfg)
		if err != nil {
			return nil, vferrors.Annotate(err, "while compiling object property %q", key)
		}
		keys[i] = key
		vals[i] = compiled
	}
	return logicalexpr.NewNamedStruct(keys, vals), nil
}

func propertyKeyName(p ast.ObjectProperty) (string, error) {
	switch k := p.Key.(type) {
	case *ast.Identifier:
		return k.Name, nil
	case *ast.Literal:
		if k.Kind == ast.LiteralString {
			return k.Str, nil
		}
		if k.Kind == ast.LiteralNumber {
			return strconv.FormatFloat(k.Number, 'g', -1, 64), nil
		}
	}
	return "", vferrors.Compilation("unsupported object key %s", p.Key.String())
}
