// Package value implements the data model of spec §3: typed scalars,
// row schemas, and the ordered-table representation tasks and
// transforms operate on.
package value

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// ScalarKind tags which field of Scalar is populated.
type ScalarKind int

const (
	KindNull ScalarKind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindTimestamp
	// KindDecimal is an engine extension beyond the Rust original's
	// scalar set, built only through Dec. Aggregate results are
	// KindFloat: the sum aggregate accumulates in decimal.Decimal
	// internally and converts the total to float64, while mean and
	// variance accumulate in float64.
	KindDecimal
)

func (k ScalarKind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "boolean"
	case KindInt:
		return "integer"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTimestamp:
		return "timestamp"
	case KindDecimal:
		return "decimal"
	default:
		return "unknown"
	}
}

// Scalar is a typed runtime value: bool, integer, float, string,
// timestamp, decimal, or null (spec §3 TaskValue::Scalar).
type Scalar struct {
	Kind ScalarKind

	Bool      bool
	Int       int64
	Float     float64
	Str       string
	Timestamp time.Time
	Decimal   decimal.Decimal
}

func Null() Scalar                  { return Scalar{Kind: KindNull} }
func Bool(b bool) Scalar            { return Scalar{Kind: KindBool, Bool: b} }
func Int(i int64) Scalar            { return Scalar{Kind: KindInt, Int: i} }
func Float(f float64) Scalar        { return Scalar{Kind: KindFloat, Float: f} }
func String(s string) Scalar        { return Scalar{Kind: KindString, Str: s} }
func Timestamp(t time.Time) Scalar  { return Scalar{Kind: KindTimestamp, Timestamp: t} }
func Dec(d decimal.Decimal) Scalar  { return Scalar{Kind: KindDecimal, Decimal: d} }

func (s Scalar) IsNull() bool { return s.Kind == KindNull }

// AsFloat64 coerces a numeric/bool scalar to float64; used by the
// arithmetic-operator compiler path and by aggregate accumulation.
func (s Scalar) AsFloat64() (float64, bool) {
	switch s.Kind {
	case KindInt:
		return float64(s.Int), true
	case KindFloat:
		return s.Float, true
	case KindDecimal:
		f, _ := s.Decimal.Float64()
		return f, true
	case KindBool:
		if s.Bool {
			return 1, true
		}
		return 0, true
	case KindString:
		f, err := strconv.ParseFloat(s.Str, 64)
		if err != nil {
			return math.NaN(), false
		}
		return f, true
	default:
		return math.NaN(), false
	}
}

// ToBool implements JavaScript-style truthiness coercion, used by the
// !, &&, || and ternary-test compilation paths (spec §4.2).
func (s Scalar) ToBool() bool {
	switch s.Kind {
	case KindNull:
		return false
	case KindBool:
		return s.Bool
	case KindInt:
		return s.Int != 0
	case KindFloat:
		return s.Float != 0 && !math.IsNaN(s.Float)
	case KindDecimal:
		return !s.Decimal.IsZero()
	case KindString:
		return s.Str != ""
	case KindTimestamp:
		return true
	default:
		return false
	}
}

// ToStringValue renders the scalar's value as a display string, used by
// string-coercing binary operators and the `toString` builtin.
func (s Scalar) ToStringValue() string {
	switch s.Kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(s.Bool)
	case KindInt:
		return strconv.FormatInt(s.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(s.Float, 'g', -1, 64)
	case KindDecimal:
		return s.Decimal.String()
	case KindString:
		return s.Str
	case KindTimestamp:
		return s.Timestamp.Format(time.RFC3339Nano)
	default:
		return ""
	}
}

// Equal implements strict equality (===): types must match exactly.
func (s Scalar) Equal(o Scalar) bool {
	if s.Kind != o.Kind {
		return false
	}
	switch s.Kind {
	case KindNull:
		return true
	case KindBool:
		return s.Bool == o.Bool
	case KindInt:
		return s.Int == o.Int
	case KindFloat:
		return s.Float == o.Float
	case KindDecimal:
		return s.Decimal.Equal(o.Decimal)
	case KindString:
		return s.Str == o.Str
	case KindTimestamp:
		return s.Timestamp.Equal(o.Timestamp)
	default:
		return false
	}
}

// LooseEqual implements == with numeric/string/bool cross-coercion.
func (s Scalar) LooseEqual(o Scalar) bool {
	if s.Kind == o.Kind {
		return s.Equal(o)
	}
	if s.Kind == KindNull || o.Kind == KindNull {
		return s.Kind == o.Kind
	}
	sf, sok := s.AsFloat64()
	of, ook := o.AsFloat64()
	if sok && ook {
		return sf == of
	}
	return s.ToStringValue() == o.ToStringValue()
}

func (s Scalar) String() string {
	return fmt.Sprintf("%s(%s)", s.Kind, s.ToStringValue())
}
