package transforms

import (
	"context"
	"time"

	"vegafusion-go/internal/dataframe"
	vferrors "vegafusion-go/internal/errors"
	"vegafusion-go/internal/expr/compiler"
	"vegafusion-go/internal/logicalexpr"
	"vegafusion-go/internal/value"
)

// TimeUnitKind enumerates the calendar truncation granularities Vega
// exposes through its timeUnit transform (spec §4.3 TimeUnit).
type TimeUnitKind int

const (
	TimeUnitYear TimeUnitKind = iota
	TimeUnitYearMonth
	TimeUnitYearMonthDate
	TimeUnitMonth
	TimeUnitDate
	TimeUnitDay
	TimeUnitHours
	TimeUnitMinutes
	TimeUnitSeconds
)

// TimeUnit truncates Field to Unit, emitting unit0 (interval start)
// and optionally unit1 (interval end) columns, plus a units signal
// (spec §4.3 TimeUnit).
type TimeUnit struct {
	defaultSupport
	Field      string
	Unit       TimeUnitKind
	EmitUnit1  bool
	As         [2]string // unit0, unit1 aliases; defaults to "unit0"/"unit1"
	SignalName string
	Local      bool
	Tz         *time.Location
}

func (t *TimeUnit) LocalDatetimeColumnsProduced() []string {
	if t.Local {
		unit0 := "unit0"
		if t.As[0] != "" {
			unit0 = t.As[0]
		}
		return []string{unit0}
	}
	return nil
}

func (t *TimeUnit) Eval(ctx context.Context, df *dataframe.DataFrame, cfg *compiler.Config) (*dataframe.DataFrame, []Signal, error) {
	inSchema := df.Schema()
	if _, ok := inSchema.Field(t.Field); !ok {
		return nil, nil, vferrors.Compilation("timeUnit: column %q not found in input schema", t.Field)
	}

	unit0 := "unit0"
	if t.As[0] != "" {
		unit0 = t.As[0]
	}
	unit1 := "unit1"
	if t.As[1] != "" {
		unit1 = t.As[1]
	}

	loc := t.Tz
	if loc == nil {
		loc = time.UTC
	}

	outSchema := inSchema.WithField(value.Field{Name: unit0, Type: value.FieldTimestamp})
	if t.EmitUnit1 {
		outSchema = outSchema.WithField(value.Field{Name: unit1, Type: value.FieldTimestamp})
	}

	fields := make([]dataframe.ProjectField, 0, len(outSchema.Fields))
	for _, f := range inSchema.Fields {
		fields = append(fields, dataframe.ProjectField{Alias: f.Name, Expr: columnRefExpr(f)})
	}
	fields = append(fields, dataframe.ProjectField{Alias: unit0, Expr: timeUnitTruncExpr(t.Field, t.Unit, loc, false)})
	if t.EmitUnit1 {
		fields = append(fields, dataframe.ProjectField{Alias: unit1, Expr: timeUnitTruncExpr(t.Field, t.Unit, loc, true)})
	}

	result := df.Select(outSchema, fields)

	var signals []Signal
	if t.SignalName != "" {
		signals = append(signals, Signal{Name: t.SignalName, Value: value.String(timeUnitName(t.Unit))})
	}
	return result, signals, nil
}

func (t *TimeUnit) PublishedSignalNames() []string {
	if t.SignalName == "" {
		return nil
	}
	return []string{t.SignalName}
}

func timeUnitName(u TimeUnitKind) string {
	switch u {
	case TimeUnitYear:
		return "year"
	case TimeUnitYearMonth:
		return "yearmonth"
	case TimeUnitYearMonthDate:
		return "yearmonthdate"
	case TimeUnitMonth:
		return "month"
	case TimeUnitDate:
		return "date"
	case TimeUnitDay:
		return "day"
	case TimeUnitHours:
		return "hours"
	case TimeUnitMinutes:
		return "minutes"
	case TimeUnitSeconds:
		return "seconds"
	default:
		return "unknown"
	}
}

// timeUnitTruncExpr builds an expression truncating the timestamp
// column to the given unit via the "dateTrunc" builtin, registered
// for exactly this purpose. next selects the upper interval boundary
// for unit1 rather than the lower one.
func timeUnitTruncExpr(field string, unit TimeUnitKind, loc *time.Location, next bool) logicalexpr.Expr {
	col := logicalexpr.NewColumnRef(field, value.FieldTimestamp)
	unitArg := logicalexpr.NewConst(value.String(timeUnitName(unit)))
	tzArg := logicalexpr.NewConst(value.String(loc.String()))
	fn := "dateTrunc"
	if next {
		fn = "dateTruncNext"
	}
	call, err := logicalexpr.NewCall(fn, []logicalexpr.Expr{col, unitArg, tzArg})
	if err != nil {
		// Both builtins are registered unconditionally; a construction
		// failure here indicates a registry bug, not bad user input.
		panic(err)
	}
	return call
}
