package transforms

import (
	"context"

	"vegafusion-go/internal/dataframe"
	"vegafusion-go/internal/expr/compiler"
	"vegafusion-go/internal/value"
)

// StackOffset selects how Stack normalizes cumulative totals within a
// partition (spec §4.3 Stack).
type StackOffset int

const (
	StackOffsetZero StackOffset = iota
	StackOffsetCenter
	StackOffsetNormalize
)

// Stack computes cumulative start/stop boundaries of Field within each
// GroupBy partition, ordered by Sort, with the given Offset (spec
// §4.3 Stack).
type Stack struct {
	defaultSupport
	Field   string
	GroupBy []string
	Sort    []dataframe.SortKey
	Offset  StackOffset
	As      [2]string // start, stop aliases; defaults to "y0"/"y1"
}

func (s *Stack) Eval(ctx context.Context, df *dataframe.DataFrame, cfg *compiler.Config) (*dataframe.DataFrame, []Signal, error) {
	startName, stopName := "y0", "y1"
	if s.As[0] != "" {
		startName = s.As[0]
	}
	if s.As[1] != "" {
		stopName = s.As[1]
	}

	outSchema := df.Schema().
		WithField(value.Field{Name: "__vf_stack_total__", Type: value.FieldFloat}).
		WithField(value.Field{Name: startName, Type: value.FieldFloat}).
		WithField(value.Field{Name: stopName, Type: value.FieldFloat})

	runningSum := dataframe.WindowExpr{
		Func:        "cume_sum",
		Field:       s.Field,
		Alias:       stopName,
		PartitionBy: s.GroupBy,
		OrderBy:     s.Sort,
	}
	groupTotal := dataframe.WindowExpr{
		Func:        "sum",
		Field:       s.Field,
		Alias:       "__vf_stack_total__",
		PartitionBy: s.GroupBy,
	}

	stacked := df.Window(outSchema, []dataframe.WindowExpr{groupTotal, runningSum})

	// y0 = y1 - field; the per-row delta this row contributed to the
	// running sum.
	y0Schema := stacked.Schema().WithField(value.Field{Name: startName, Type: value.FieldFloat})
	fields := make([]dataframe.ProjectField, 0, len(y0Schema.Fields))
	for _, f := range stacked.Schema().Fields {
		fields = append(fields, dataframe.ProjectField{Alias: f.Name, Expr: columnRefExpr(f)})
	}
	fields = append(fields, dataframe.ProjectField{Alias: startName, Expr: stackStartExpr(stopName, s.Field)})
	withStart := stacked.Select(y0Schema, fields)

	switch s.Offset {
	case StackOffsetCenter:
		return applyStackOffset(withStart, startName, stopName, stackCenterExpr), nil, nil
	case StackOffsetNormalize:
		return applyStackOffset(withStart, startName, stopName, stackNormalizeExpr), nil, nil
	default:
		return withStart, nil, nil
	}
}
