package transforms

import (
	"context"

	"vegafusion-go/internal/dataframe"
	"vegafusion-go/internal/expr/compiler"
	"vegafusion-go/internal/value"
)

// AggregateField is one aggregate output: op(field) as alias (spec
// §4.3 Aggregate).
type AggregateField struct {
	Op    string
	Field string
	As    string
}

// defaultAlias implements "aliased by as_i if given, else
// {op}_{field} (empty field falls back to the op name)".
func (a AggregateField) defaultAlias() string {
	if a.As != "" {
		return a.As
	}
	if a.Field == "" {
		return a.Op
	}
	return a.Op + "_" + a.Field
}

// Aggregate groups by GroupBy and computes Fields per group (spec
// §4.3 Aggregate).
type Aggregate struct {
	defaultSupport
	GroupBy []string
	Fields  []AggregateField
}

func (a *Aggregate) Eval(ctx context.Context, df *dataframe.DataFrame, cfg *compiler.Config) (*dataframe.DataFrame, []Signal, error) {
	inSchema := df.Schema()
	fields := make([]value.Field, 0, len(a.GroupBy)+len(a.Fields))
	for _, g := range a.GroupBy {
		if f, ok := inSchema.Field(g); ok {
			fields = append(fields, f)
		} else {
			fields = append(fields, value.Field{Name: g, Type: value.FieldUnknown})
		}
	}
	aggs := make([]dataframe.AggExpr, len(a.Fields))
	for i, f := range a.Fields {
		alias := f.defaultAlias()
		aggs[i] = dataframe.AggExpr{Op: f.Op, Field: f.Field, Alias: alias}
		fields = append(fields, value.Field{Name: alias, Type: aggregateOutputType(f.Op)})
	}
	outSchema := value.NewSchema(fields...)
	return df.Aggregate(outSchema, a.GroupBy, aggs), nil, nil
}

func aggregateOutputType(op string) value.FieldType {
	switch op {
	case "count", "valid", "missing", "distinct":
		return value.FieldInt
	case "values", "argmin", "argmax":
		return value.FieldString
	default:
		return value.FieldFloat
	}
}

// JoinAggregate is the same as Aggregate but emitted as a window over
// the group partition, so every input row receives the aggregated
// value rather than collapsing rows (spec §4.3 JoinAggregate).
type JoinAggregate struct {
	defaultSupport
	GroupBy []string
	Fields  []AggregateField
}

func (j *JoinAggregate) Eval(ctx context.Context, df *dataframe.DataFrame, cfg *compiler.Config) (*dataframe.DataFrame, []Signal, error) {
	inSchema := df.Schema()
	outSchema := inSchema
	exprs := make([]dataframe.WindowExpr, len(j.Fields))
	for i, f := range j.Fields {
		alias := f.defaultAlias()
		outSchema = outSchema.WithField(value.Field{Name: alias, Type: aggregateOutputType(f.Op)})
		exprs[i] = dataframe.WindowExpr{Func: f.Op, Field: f.Field, Alias: alias, PartitionBy: j.GroupBy}
	}
	return df.JoinAggregate(outSchema, exprs), nil, nil
}
