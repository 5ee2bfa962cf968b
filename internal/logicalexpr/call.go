package logicalexpr

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	vferrors "vegafusion-go/internal/errors"
	"vegafusion-go/internal/value"
)

// BuiltinFunc evaluates a registered function given its already
// evaluated argument scalars.
type BuiltinFunc struct {
	ReturnType value.FieldType
	Eval       func(args []value.Scalar) (value.Scalar, error)
}

// Builtins is the registry of scalar functions the expression
// compiler's Call node dispatches into, generalizing the teacher's
// Function.Eval name switch (plan/expression.go) from a fixed
// SQL-aggregate set to the expression language's full scalar-function
// surface (spec §4.2: math/trig, type checks, type coercion, array,
// date-time, control flow, data, and format builtins). `data` and
// `vlSelectionTest` are registered (so referencing them compiles) but
// always fail at Eval time: BuiltinFunc.Eval only ever receives
// already-evaluated argument scalars, never the row/dataset-directory
// context those two need, so they can't be implemented as ordinary
// scalar functions without a wider Eval signature change this package
// doesn't otherwise require.
var Builtins = map[string]BuiltinFunc{
	"isValid": {value.FieldBool, func(a []value.Scalar) (value.Scalar, error) {
		return value.Bool(len(a) == 1 && !a[0].IsNull()), nil
	}},
	"isNaN": {value.FieldBool, func(a []value.Scalar) (value.Scalar, error) {
		f, ok := a[0].AsFloat64()
		return value.Bool(!ok || math.IsNaN(f)), nil
	}},
	"isFinite": {value.FieldBool, func(a []value.Scalar) (value.Scalar, error) {
		f, ok := a[0].AsFloat64()
		return value.Bool(ok && !math.IsNaN(f) && !math.IsInf(f, 0)), nil
	}},
	"length": {value.FieldInt, func(a []value.Scalar) (value.Scalar, error) {
		s := a[0].ToStringValue()
		if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
			return value.Int(int64(len(splitArrayString(s)))), nil
		}
		return value.Int(int64(len(s))), nil
	}},
	"abs":   {value.FieldFloat, unaryMath(math.Abs)},
	"ceil":  {value.FieldFloat, unaryMath(math.Ceil)},
	"floor": {value.FieldFloat, unaryMath(math.Floor)},
	"round": {value.FieldFloat, unaryMath(math.Round)},
	"sqrt":  {value.FieldFloat, unaryMath(math.Sqrt)},
	"exp":   {value.FieldFloat, unaryMath(math.Exp)},
	"log":   {value.FieldFloat, unaryMath(math.Log)},
	"pow": {value.FieldFloat, func(a []value.Scalar) (value.Scalar, error) {
		if len(a) != 2 {
			return value.Scalar{}, vferrors.Internal("pow expects 2 arguments, got %d", len(a))
		}
		b, okb := a[0].AsFloat64()
		e, oke := a[1].AsFloat64()
		if !okb || !oke {
			return value.Scalar{}, vferrors.Internal("pow expects numeric arguments")
		}
		return value.Float(math.Pow(b, e)), nil
	}},
	"min": {value.FieldFloat, variadicMinMax(func(a, b float64) bool { return a < b })},
	"max": {value.FieldFloat, variadicMinMax(func(a, b float64) bool { return a > b })},
	"toString": {value.FieldString, func(a []value.Scalar) (value.Scalar, error) {
		return value.String(a[0].ToStringValue()), nil
	}},
	"toNumber": {value.FieldFloat, func(a []value.Scalar) (value.Scalar, error) {
		f, ok := a[0].AsFloat64()
		if !ok {
			return value.Float(math.NaN()), nil
		}
		return value.Float(f), nil
	}},
	"toBoolean": {value.FieldBool, func(a []value.Scalar) (value.Scalar, error) {
		return value.Bool(a[0].ToBool()), nil
	}},
	"upper": {value.FieldString, func(a []value.Scalar) (value.Scalar, error) {
		return value.String(strings.ToUpper(a[0].ToStringValue())), nil
	}},
	"lower": {value.FieldString, func(a []value.Scalar) (value.Scalar, error) {
		return value.String(strings.ToLower(a[0].ToStringValue())), nil
	}},
	// dateTrunc/dateTruncNext back the timeUnit transform's unit0/unit1
	// columns (spec §4.3 TimeUnit): truncate a timestamp down to the
	// start of its calendar unit, or advance to the start of the next one.
	"dateTrunc":     {value.FieldTimestamp, dateTruncFunc(false)},
	"dateTruncNext": {value.FieldTimestamp, dateTruncFunc(true)},

	// Trig (spec §4.2 "math ... trig").
	"sin":  {value.FieldFloat, unaryMath(math.Sin)},
	"cos":  {value.FieldFloat, unaryMath(math.Cos)},
	"tan":  {value.FieldFloat, unaryMath(math.Tan)},
	"asin": {value.FieldFloat, unaryMath(math.Asin)},
	"acos": {value.FieldFloat, unaryMath(math.Acos)},
	"atan": {value.FieldFloat, unaryMath(math.Atan)},

	// Type checks (spec §4.2 "type checks ... isDate").
	"isDate": {value.FieldBool, func(a []value.Scalar) (value.Scalar, error) {
		return value.Bool(len(a) == 1 && a[0].Kind == value.KindTimestamp), nil
	}},

	// toDate coerces a string/epoch-millis number to a timestamp (spec
	// §4.2 "type coercion ... toDate").
	"toDate": {value.FieldTimestamp, func(a []value.Scalar) (value.Scalar, error) {
		if len(a) != 1 {
			return value.Scalar{}, vferrors.Internal("toDate expects 1 argument, got %d", len(a))
		}
		switch a[0].Kind {
		case value.KindTimestamp:
			return a[0], nil
		case value.KindInt:
			return value.Timestamp(time.UnixMilli(a[0].Int).UTC()), nil
		case value.KindFloat:
			return value.Timestamp(time.UnixMilli(int64(a[0].Float)).UTC()), nil
		case value.KindString:
			t, err := time.Parse(time.RFC3339Nano, a[0].Str)
			if err != nil {
				return value.Null(), nil
			}
			return value.Timestamp(t), nil
		default:
			return value.Null(), nil
		}
	}},

	// Array builtins (spec §4.2 "array (length, span, indexof)"),
	// operating on the bracket-encoded array strings MakeArray produces
	// (internal/logicalexpr/collection.go).
	"span": {value.FieldFloat, func(a []value.Scalar) (value.Scalar, error) {
		elems, err := decodeArrayElements(a, "span")
		if err != nil {
			return value.Scalar{}, err
		}
		if len(elems) == 0 {
			return value.Float(math.NaN()), nil
		}
		lo, hi := elems[0], elems[0]
		for _, e := range elems[1:] {
			if e < lo {
				lo = e
			}
			if e > hi {
				hi = e
			}
		}
		return value.Float(hi - lo), nil
	}},
	"indexof": {value.FieldInt, func(a []value.Scalar) (value.Scalar, error) {
		if len(a) != 2 {
			return value.Scalar{}, vferrors.Internal("indexof expects 2 arguments, got %d", len(a))
		}
		haystack := a[0].ToStringValue()
		needle := a[1].ToStringValue()
		if strings.HasPrefix(haystack, "[") && strings.HasSuffix(haystack, "]") {
			for i, part := range splitArrayString(haystack) {
				if part == needle {
					return value.Int(int64(i)), nil
				}
			}
			return value.Int(-1), nil
		}
		return value.Int(int64(strings.Index(haystack, needle))), nil
	}},

	// Date-time accessor family (spec §4.2 "date-time (year, month, …,
	// utc, datetime, time, timeOffset, format)"), each reading the
	// field named by the function off a timestamp scalar in local time
	// (the "utc..." variants read the same field in UTC).
	"year":         dateField(func(t time.Time) float64 { return float64(t.Year()) }),
	"quarter":      dateField(func(t time.Time) float64 { return float64((int(t.Month())-1)/3 + 1) }),
	"month":        dateField(func(t time.Time) float64 { return float64(int(t.Month()) - 1) }),
	"date":         dateField(func(t time.Time) float64 { return float64(t.Day()) }),
	"day":          dateField(func(t time.Time) float64 { return float64(int(t.Weekday())) }),
	"dayofyear":    dateField(func(t time.Time) float64 { return float64(t.YearDay()) }),
	"hours":        dateField(func(t time.Time) float64 { return float64(t.Hour()) }),
	"minutes":      dateField(func(t time.Time) float64 { return float64(t.Minute()) }),
	"seconds":      dateField(func(t time.Time) float64 { return float64(t.Second()) }),
	"milliseconds": dateField(func(t time.Time) float64 { return float64(t.Nanosecond() / 1e6) }),
	"utcyear":         dateFieldUTC(func(t time.Time) float64 { return float64(t.Year()) }),
	"utcquarter":      dateFieldUTC(func(t time.Time) float64 { return float64((int(t.Month())-1)/3 + 1) }),
	"utcmonth":        dateFieldUTC(func(t time.Time) float64 { return float64(int(t.Month()) - 1) }),
	"utcdate":         dateFieldUTC(func(t time.Time) float64 { return float64(t.Day()) }),
	"utcday":          dateFieldUTC(func(t time.Time) float64 { return float64(int(t.Weekday())) }),
	"utcdayofyear":    dateFieldUTC(func(t time.Time) float64 { return float64(t.YearDay()) }),
	"utchours":        dateFieldUTC(func(t time.Time) float64 { return float64(t.Hour()) }),
	"utcminutes":      dateFieldUTC(func(t time.Time) float64 { return float64(t.Minute()) }),
	"utcseconds":      dateFieldUTC(func(t time.Time) float64 { return float64(t.Second()) }),
	"utcmilliseconds": dateFieldUTC(func(t time.Time) float64 { return float64(t.Nanosecond() / 1e6) }),

	// utc/datetime construct a timestamp from (year, month, day, hours,
	// minutes, seconds, milliseconds) components, the same argument
	// shape as Vega's own datetime()/utc() functions; trailing args
	// default to 0, month is 0-based.
	"datetime": {value.FieldTimestamp, datetimeFunc(false)},
	"utc":      {value.FieldTimestamp, datetimeFunc(true)},

	// time returns a timestamp's epoch milliseconds as a float.
	"time": {value.FieldFloat, func(a []value.Scalar) (value.Scalar, error) {
		if len(a) != 1 || a[0].Kind != value.KindTimestamp {
			return value.Float(math.NaN()), nil
		}
		return value.Float(float64(a[0].Timestamp.UnixMilli())), nil
	}},

	// timeOffset(unit, date, step) advances date by step calendar units
	// (spec §4.2 "timeOffset").
	"timeOffset": {value.FieldTimestamp, func(a []value.Scalar) (value.Scalar, error) {
		if len(a) != 3 || a[1].Kind != value.KindTimestamp {
			return value.Scalar{}, vferrors.Internal("timeOffset expects (unit, date, step)")
		}
		unit := a[0].ToStringValue()
		step, ok := a[2].AsFloat64()
		if !ok {
			return value.Scalar{}, vferrors.Internal("timeOffset expects a numeric step")
		}
		t := a[1].Timestamp
		for i := 0; i < int(step); i++ {
			t = advanceUnit(t, unit)
		}
		return value.Timestamp(t), nil
	}},

	// if(test, then, else) is the function-call spelling of the ternary
	// operator (spec §4.2 "control flow (if)"); because BuiltinFunc
	// receives already-evaluated arguments, both branches are evaluated
	// unconditionally — harmless since expression evaluation here is
	// pure (no side effects to avoid).
	"if": {value.FieldString, func(a []value.Scalar) (value.Scalar, error) {
		if len(a) != 3 {
			return value.Scalar{}, vferrors.Internal("if expects 3 arguments, got %d", len(a))
		}
		if a[0].ToBool() {
			return a[1], nil
		}
		return a[2], nil
	}},

	// format renders a number per a (small, fixed-point-oriented)
	// subset of d3-format specifiers: "" (default), ",": thousands
	// grouping, ".Nf": N fixed decimals, "%": percentage (spec §4.2
	// "format").
	"format": {value.FieldString, func(a []value.Scalar) (value.Scalar, error) {
		if len(a) != 2 {
			return value.Scalar{}, vferrors.Internal("format expects (value, specifier)")
		}
		f, ok := a[0].AsFloat64()
		if !ok {
			return value.String(a[0].ToStringValue()), nil
		}
		return value.String(formatNumber(f, a[1].ToStringValue())), nil
	}},

	// data/vlSelectionTest are registered so referencing them compiles
	// (spec §4.2 "data (data, vlSelectionTest)"); see the package doc
	// comment on Builtins for why they can't evaluate here.
	"data": {value.FieldString, func([]value.Scalar) (value.Scalar, error) {
		return value.Scalar{}, vferrors.SQLNotSupported("the data() builtin requires access to the named-dataset directory, not available to a scalar expression evaluator")
	}},
	"vlSelectionTest": {value.FieldBool, func([]value.Scalar) (value.Scalar, error) {
		return value.Scalar{}, vferrors.SQLNotSupported("vlSelectionTest requires an interactive selection store, out of scope for this engine")
	}},
}

// dateField builds a BuiltinFunc that reads one field off a timestamp
// scalar in the timestamp's own (local) location.
func dateField(f func(time.Time) float64) BuiltinFunc {
	return BuiltinFunc{value.FieldFloat, func(a []value.Scalar) (value.Scalar, error) {
		if len(a) != 1 || a[0].Kind != value.KindTimestamp {
			return value.Float(math.NaN()), nil
		}
		return value.Float(f(a[0].Timestamp)), nil
	}}
}

// dateFieldUTC is dateField but normalizes to UTC first, backing the
// "utc..." accessor family.
func dateFieldUTC(f func(time.Time) float64) BuiltinFunc {
	return BuiltinFunc{value.FieldFloat, func(a []value.Scalar) (value.Scalar, error) {
		if len(a) != 1 || a[0].Kind != value.KindTimestamp {
			return value.Float(math.NaN()), nil
		}
		return value.Float(f(a[0].Timestamp.UTC())), nil
	}}
}

// datetimeFunc builds datetime()/utc(): construct a timestamp from up
// to 7 numeric components (year, month [0-based], day, hours, minutes,
// seconds, milliseconds), trailing components defaulting to their
// identity value.
func datetimeFunc(utc bool) func([]value.Scalar) (value.Scalar, error) {
	return func(a []value.Scalar) (value.Scalar, error) {
		if len(a) == 0 {
			return value.Scalar{}, vferrors.Internal("datetime/utc expects at least 1 argument")
		}
		parts := make([]int, 7)
		parts[2] = 1 // day defaults to 1, not 0
		for i := 0; i < len(a) && i < 7; i++ {
			f, ok := a[i].AsFloat64()
			if !ok {
				return value.Scalar{}, vferrors.Internal("datetime/utc expects numeric arguments")
			}
			parts[i] = int(f)
		}
		loc := time.Local
		if utc {
			loc = time.UTC
		}
		t := time.Date(parts[0], time.Month(parts[1]+1), parts[2], parts[3], parts[4], parts[5], parts[6]*1e6, loc)
		return value.Timestamp(t), nil
	}
}

// splitArrayString splits a MakeArray-encoded "[a,b,c]" string into its
// comma-separated elements, or nil if s isn't bracket-wrapped.
func splitArrayString(s string) []string {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil
	}
	inner := s[1 : len(s)-1]
	if inner == "" {
		return nil
	}
	return strings.Split(inner, ",")
}

// decodeArrayElements parses a single bracket-encoded array argument
// into numeric elements, for array builtins like span.
func decodeArrayElements(a []value.Scalar, fnName string) ([]float64, error) {
	if len(a) != 1 {
		return nil, vferrors.Internal("%s expects 1 array argument, got %d", fnName, len(a))
	}
	parts := splitArrayString(a[0].ToStringValue())
	elems := make([]float64, 0, len(parts))
	for _, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, vferrors.Compilation("%s: non-numeric array element %q", fnName, p)
		}
		elems = append(elems, f)
	}
	return elems, nil
}

// formatNumber applies a small, fixed-point-oriented subset of
// d3-format specifiers.
func formatNumber(f float64, specifier string) string {
	switch {
	case specifier == "":
		return strconv.FormatFloat(f, 'g', -1, 64)
	case specifier == ",":
		return groupThousands(strconv.FormatFloat(f, 'f', 0, 64))
	case strings.HasSuffix(specifier, "%"):
		prec := formatPrecision(specifier[:len(specifier)-1], 0)
		return strconv.FormatFloat(f*100, 'f', prec, 64) + "%"
	case strings.HasSuffix(specifier, "f"):
		prec := formatPrecision(specifier[:len(specifier)-1], 6)
		return strconv.FormatFloat(f, 'f', prec, 64)
	case specifier == "d":
		return strconv.FormatFloat(f, 'f', 0, 64)
	default:
		return fmt.Sprintf("%v", f)
	}
}

// formatPrecision parses a d3-format precision fragment like ".2" or
// ",.2"; def is returned when no explicit precision is given.
func formatPrecision(fragment string, def int) int {
	fragment = strings.TrimPrefix(fragment, ",")
	fragment = strings.TrimPrefix(fragment, ".")
	if fragment == "" {
		return def
	}
	n, err := strconv.Atoi(fragment)
	if err != nil {
		return def
	}
	return n
}

// groupThousands inserts "," separators into an integer-formatted
// string's integer part.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}
	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	out := b.String()
	if neg {
		out = "-" + out
	}
	return out
}

func dateTruncFunc(next bool) func([]value.Scalar) (value.Scalar, error) {
	return func(a []value.Scalar) (value.Scalar, error) {
		if len(a) != 3 {
			return value.Scalar{}, vferrors.Internal("dateTrunc expects 3 arguments, got %d", len(a))
		}
		if a[0].Kind != value.KindTimestamp {
			return value.Null(), nil
		}
		loc, err := time.LoadLocation(a[2].ToStringValue())
		if err != nil {
			loc = time.UTC
		}
		t := a[0].Timestamp.In(loc)
		unit := a[1].ToStringValue()
		truncated := truncateToUnit(t, unit)
		if next {
			truncated = advanceUnit(truncated, unit)
		}
		return value.Timestamp(truncated), nil
	}
}

func truncateToUnit(t time.Time, unit string) time.Time {
	loc := t.Location()
	switch unit {
	case "year":
		return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, loc)
	case "yearmonth", "month":
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	case "yearmonthdate", "date", "day":
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	case "hours":
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, loc)
	case "minutes":
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, loc)
	case "seconds":
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
	default:
		return t
	}
}

func advanceUnit(t time.Time, unit string) time.Time {
	switch unit {
	case "year":
		return t.AddDate(1, 0, 0)
	case "yearmonth", "month":
		return t.AddDate(0, 1, 0)
	case "yearmonthdate", "date", "day":
		return t.AddDate(0, 0, 1)
	case "hours":
		return t.Add(time.Hour)
	case "minutes":
		return t.Add(time.Minute)
	case "seconds":
		return t.Add(time.Second)
	default:
		return t
	}
}

func unaryMath(f func(float64) float64) func([]value.Scalar) (value.Scalar, error) {
	return func(a []value.Scalar) (value.Scalar, error) {
		if len(a) != 1 {
			return value.Scalar{}, vferrors.Internal("expected 1 argument, got %d", len(a))
		}
		x, ok := a[0].AsFloat64()
		if !ok {
			return value.Scalar{}, vferrors.Internal("expected numeric argument, found %s", a[0].Kind)
		}
		return value.Float(f(x)), nil
	}
}

func variadicMinMax(better func(a, b float64) bool) func([]value.Scalar) (value.Scalar, error) {
	return func(args []value.Scalar) (value.Scalar, error) {
		if len(args) == 0 {
			return value.Scalar{}, vferrors.Internal("expected at least 1 argument")
		}
		best, ok := args[0].AsFloat64()
		if !ok {
			return value.Scalar{}, vferrors.Internal("expected numeric argument, found %s", args[0].Kind)
		}
		for _, a := range args[1:] {
			f, ok := a.AsFloat64()
			if !ok {
				return value.Scalar{}, vferrors.Internal("expected numeric argument, found %s", a.Kind)
			}
			if better(f, best) {
				best = f
			}
		}
		return value.Float(best), nil
	}
}

// IsBuiltin satisfies ast.BuiltinNameSet, letting the expr/ast and
// expr/compiler packages share one source of truth for which bare
// identifiers are function names rather than free variables.
type BuiltinNameSet struct{}

func (BuiltinNameSet) IsBuiltin(name string) bool {
	_, ok := Builtins[name]
	return ok
}

// Call evaluates a named builtin function over its evaluated
// arguments, the Expr-tree counterpart of the teacher's Function
// expression (plan/expression.go), but dispatching through a map
// registry instead of a hardcoded switch so new functions require no
// change to the Eval method.
type Call struct {
	base
	Name string
	Args []Expr
	fn   BuiltinFunc
}

func NewCall(name string, args []Expr) (*Call, error) {
	fn, ok := Builtins[name]
	if !ok {
		return nil, vferrors.Compilation("unknown function %q", name)
	}
	return &Call{base: base{children: args}, Name: name, Args: args, fn: fn}, nil
}

func (c *Call) Eval(ctx *EvalContext) (value.Scalar, error) {
	vals := make([]value.Scalar, len(c.Args))
	for i, a := range c.Args {
		v, err := a.Eval(ctx)
		if err != nil {
			return value.Scalar{}, err
		}
		vals[i] = v
	}
	return c.fn.Eval(vals)
}

func (c *Call) Type() value.FieldType { return c.fn.ReturnType }

func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Name + "(" + strings.Join(parts, ", ") + ")"
}
