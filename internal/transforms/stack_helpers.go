package transforms

import (
	"vegafusion-go/internal/dataframe"
	"vegafusion-go/internal/logicalexpr"
	"vegafusion-go/internal/value"
)

// stackStartExpr computes y0 = y1 - field, the per-row contribution to
// the running sum that Stack's window pass already produced as y1.
func stackStartExpr(stopName, field string) logicalexpr.Expr {
	stop := logicalexpr.NewColumnRef(stopName, value.FieldFloat)
	val := logicalexpr.NewColumnRef(field, value.FieldFloat)
	return logicalexpr.NewBinary(logicalexpr.OpSub, stop, val)
}

// offsetKind distinguishes the two non-zero Stack offsets so a single
// applyStackOffset implementation can build either rewrite.
type offsetKind int

const (
	stackCenterExpr offsetKind = iota
	stackNormalizeExpr
)

// applyStackOffset rewrites the already-computed start/stop columns to
// implement StackOffsetCenter (shift so the partition total is
// vertically centered on zero) or StackOffsetNormalize (rescale the
// partition total to span [0,1]).
func applyStackOffset(df *dataframe.DataFrame, startName, stopName string, kind offsetKind) *dataframe.DataFrame {
	schema := df.Schema()
	total := logicalexpr.NewColumnRef("__vf_stack_total__", value.FieldFloat)
	start := logicalexpr.NewColumnRef(startName, value.FieldFloat)
	stop := logicalexpr.NewColumnRef(stopName, value.FieldFloat)

	var newStart, newStop logicalexpr.Expr
	switch kind {
	case stackCenterExpr:
		half := logicalexpr.NewBinary(logicalexpr.OpDiv, total, logicalexpr.NewConst(value.Float(2)))
		newStart = logicalexpr.NewBinary(logicalexpr.OpSub, start, half)
		newStop = logicalexpr.NewBinary(logicalexpr.OpSub, stop, half)
	default: // stackNormalizeExpr
		newStart = logicalexpr.NewBinary(logicalexpr.OpDiv, start, total)
		newStop = logicalexpr.NewBinary(logicalexpr.OpDiv, stop, total)
	}

	fields := make([]dataframe.ProjectField, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		switch f.Name {
		case startName:
			fields = append(fields, dataframe.ProjectField{Alias: f.Name, Expr: newStart})
		case stopName:
			fields = append(fields, dataframe.ProjectField{Alias: f.Name, Expr: newStop})
		default:
			fields = append(fields, dataframe.ProjectField{Alias: f.Name, Expr: columnRefExpr(f)})
		}
	}
	return df.Select(schema, fields)
}
