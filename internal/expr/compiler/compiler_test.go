package compiler

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vegafusion-go/internal/expr/parser"
	"vegafusion-go/internal/logicalexpr"
	"vegafusion-go/internal/value"
)

func mustCompile(t *testing.T, src string, cfg *Config) logicalexpr.Expr {
	t.Helper()
	n, err := parser.Parse(src)
	require.NoError(t, err)
	e, err := Compile(n, cfg)
	require.NoError(t, err)
	return e
}

func TestCompileArithmetic(t *testing.T) {
	e := mustCompile(t, "(20 + 5) * 300", &Config{})
	v, err := e.Eval(&logicalexpr.EvalContext{})
	require.NoError(t, err)
	require.Equal(t, 7500.0, v.Float)
}

func TestCompileColumnReference(t *testing.T) {
	schema := value.NewSchema(value.Field{Name: "x", Type: value.FieldInt})
	cfg := &Config{Schema: schema}
	e := mustCompile(t, "datum.x * 2", cfg)

	row := value.Row{value.Int(5)}
	v, err := e.Eval(&logicalexpr.EvalContext{Row: row, Schema: schema})
	require.NoError(t, err)
	require.Equal(t, 10.0, v.Float)
}

func TestCompileSignalReference(t *testing.T) {
	cfg := &Config{Scope: map[string]value.Scalar{"threshold": value.Float(10)}}
	e := mustCompile(t, "threshold + 1", cfg)
	v, err := e.Eval(&logicalexpr.EvalContext{})
	require.NoError(t, err)
	require.Equal(t, 11.0, v.Float)
}

func TestCompileUnresolvedSignalErrors(t *testing.T) {
	n, err := parser.Parse("unknownSignal")
	require.NoError(t, err)
	_, err = Compile(n, &Config{})
	require.Error(t, err)
}

func TestCompileUnknownColumnErrors(t *testing.T) {
	schema := value.NewSchema(value.Field{Name: "x", Type: value.FieldInt})
	n, err := parser.Parse("datum.missing")
	require.NoError(t, err)
	_, err = Compile(n, &Config{Schema: schema})
	require.Error(t, err)
}

func TestCompileConditionalAndBuiltinCall(t *testing.T) {
	schema := value.NewSchema(value.Field{Name: "x", Type: value.FieldFloat})
	cfg := &Config{Schema: schema}
	e := mustCompile(t, `datum.x < 0 ? abs(datum.x) : datum.x`, cfg)

	row := value.Row{value.Float(-3)}
	v, err := e.Eval(&logicalexpr.EvalContext{Row: row, Schema: schema})
	require.NoError(t, err)
	require.Equal(t, 3.0, v.Float)
}
