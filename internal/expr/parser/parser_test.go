package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vegafusion-go/internal/expr/ast"
)

func TestParseArithmeticPrecedence(t *testing.T) {
	// spec §8 scenario 1: "(20 + 5) * 300" parses as
	// Binary(*, Binary(+, 20, 5), 300).
	n, err := Parse("(20 + 5) * 300")
	require.NoError(t, err)

	mul, ok := n.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, ast.Mult, mul.Operator)

	add, ok := mul.Left.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, ast.Plus, add.Operator)

	lit, ok := add.Left.(*ast.Literal)
	require.True(t, ok)
	require.Equal(t, float64(20), lit.Number)

	rlit, ok := mul.Right.(*ast.Literal)
	require.True(t, ok)
	require.Equal(t, float64(300), rlit.Number)
}

func TestRoundTripStringify(t *testing.T) {
	cases := []string{
		"20 + a",
		"(a + 2) >= 9 || b % 4 == 0",
		"a ? b : c",
		"a ? b : c ? d : e",
		"-a * b",
		"!isValid(datum.x) && datum[\"y\"] > 0",
		"{a: 1, b: [1, 2, 3]}",
		"datum.x.y",
		"foo(a, b, c)",
		"a === b !== c",
		"a & b | c ^ d",
		"a << 2 >> 1",
	}
	for _, src := range cases {
		n1, err := Parse(src)
		require.NoErrorf(t, err, "parsing %q", src)

		reSrc := n1.String()
		n2, err := Parse(reSrc)
		require.NoErrorf(t, err, "re-parsing stringified %q (from %q)", reSrc, src)

		require.Equalf(t, n1.String(), n2.String(), "round trip mismatch for %q -> %q", src, reSrc)
	}
}

func TestLeftAssociativity(t *testing.T) {
	n, err := Parse("a - b - c")
	require.NoError(t, err)
	outer, ok := n.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, ast.Minus, outer.Operator)
	inner, ok := outer.Left.(*ast.Binary)
	require.True(t, ok)
	require.Equal(t, ast.Minus, inner.Operator)
	// Stringify must keep the grouping, not silently re-associate.
	require.Equal(t, "a - b - c", n.String())
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("1 +")
	require.Error(t, err)

	_, err = Parse("(1 + 2")
	require.Error(t, err)

	_, err = Parse("1 2")
	require.Error(t, err)
}
