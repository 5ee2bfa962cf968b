package logicalexpr

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vegafusion-go/internal/value"
)

func callBuiltin(t *testing.T, name string, args ...value.Scalar) value.Scalar {
	t.Helper()
	fn, ok := Builtins[name]
	require.True(t, ok, "builtin %q not registered", name)
	v, err := fn.Eval(args)
	require.NoError(t, err)
	return v
}

func TestTrigBuiltins(t *testing.T) {
	v := callBuiltin(t, "sin", value.Float(0))
	require.Equal(t, 0.0, v.Float)
}

func TestIsDateAndToDate(t *testing.T) {
	ts := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	require.True(t, callBuiltin(t, "isDate", value.Timestamp(ts)).Bool)
	require.False(t, callBuiltin(t, "isDate", value.Int(1)).Bool)

	got := callBuiltin(t, "toDate", value.Int(ts.UnixMilli()))
	require.True(t, ts.Equal(got.Timestamp))
}

func TestSpanAndIndexof(t *testing.T) {
	arr := value.String("[1,5,9]")
	span := callBuiltin(t, "span", arr)
	require.Equal(t, 8.0, span.Float)

	idx := callBuiltin(t, "indexof", arr, value.String("5"))
	require.Equal(t, int64(1), idx.Int)

	strIdx := callBuiltin(t, "indexof", value.String("hello world"), value.String("world"))
	require.Equal(t, int64(6), strIdx.Int)
}

func TestDateAccessorFamily(t *testing.T) {
	ts := value.Timestamp(time.Date(2024, 3, 5, 13, 45, 30, 0, time.UTC))
	require.Equal(t, 2024.0, callBuiltin(t, "year", ts).Float)
	require.Equal(t, 2.0, callBuiltin(t, "month", ts).Float) // 0-based: March
	require.Equal(t, 5.0, callBuiltin(t, "date", ts).Float)
	require.Equal(t, 13.0, callBuiltin(t, "hours", ts).Float)
	require.Equal(t, 2024.0, callBuiltin(t, "utcyear", ts).Float)
}

func TestDatetimeAndUtcConstructFromComponents(t *testing.T) {
	got := callBuiltin(t, "datetime", value.Int(2024), value.Int(0), value.Int(5))
	require.Equal(t, 2024, got.Timestamp.Year())
	require.Equal(t, time.January, got.Timestamp.Month())
	require.Equal(t, 5, got.Timestamp.Day())

	utcGot := callBuiltin(t, "utc", value.Int(2024), value.Int(0), value.Int(5))
	require.Equal(t, time.UTC, utcGot.Timestamp.Location())
}

func TestTimeOffsetAdvancesByUnit(t *testing.T) {
	ts := value.Timestamp(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	got := callBuiltin(t, "timeOffset", value.String("date"), ts, value.Int(3))
	require.Equal(t, 4, got.Timestamp.Day())
}

func TestIfSelectsBranchByTestTruthiness(t *testing.T) {
	require.Equal(t, "yes", callBuiltin(t, "if", value.Bool(true), value.String("yes"), value.String("no")).Str)
	require.Equal(t, "no", callBuiltin(t, "if", value.Bool(false), value.String("yes"), value.String("no")).Str)
}

func TestFormatBuiltin(t *testing.T) {
	require.Equal(t, "1,234", callBuiltin(t, "format", value.Float(1234), value.String(",")).Str)
	require.Equal(t, "3.14", callBuiltin(t, "format", value.Float(3.14159), value.String(".2f")).Str)
	require.Equal(t, "50%", callBuiltin(t, "format", value.Float(0.5), value.String("%")).Str)
}

func TestDataAndVlSelectionTestAreUnsupported(t *testing.T) {
	fn, ok := Builtins["data"]
	require.True(t, ok)
	_, err := fn.Eval([]value.Scalar{value.String("source")})
	require.Error(t, err)

	fn, ok = Builtins["vlSelectionTest"]
	require.True(t, ok)
	_, err = fn.Eval([]value.Scalar{value.String("sel")})
	require.Error(t, err)
}
