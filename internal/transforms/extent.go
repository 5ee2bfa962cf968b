package transforms

import (
	"context"

	"vegafusion-go/internal/dataframe"
	"vegafusion-go/internal/expr/compiler"
	"vegafusion-go/internal/value"
)

// Extent aggregates min/max over Field; when Signal is set, emits a
// two-element list [min, max] as an auxiliary signal (spec §4.3
// Extent).
type Extent struct {
	defaultSupport
	Field  string
	Signal string
}

func (e *Extent) Eval(ctx context.Context, df *dataframe.DataFrame, cfg *compiler.Config) (*dataframe.DataFrame, []Signal, error) {
	outSchema := value.NewSchema(
		value.Field{Name: "min", Type: value.FieldFloat},
		value.Field{Name: "max", Type: value.FieldFloat},
	)
	aggDf := df.Aggregate(outSchema, nil, []dataframe.AggExpr{
		{Op: "min", Field: e.Field, Alias: "min"},
		{Op: "max", Field: e.Field, Alias: "max"},
	})

	if e.Signal == "" {
		return aggDf, nil, nil
	}

	exec := dataframe.InMemoryExecutor{}
	tbl, err := exec.Execute(ctx, aggDf.Plan())
	if err != nil {
		return nil, nil, err
	}
	var minV, maxV value.Scalar = value.Null(), value.Null()
	if tbl.NumRows() > 0 {
		minV, _ = tbl.Rows[0].Get(outSchema, "min")
		maxV, _ = tbl.Rows[0].Get(outSchema, "max")
	}
	extentStr := value.String("[" + minV.ToStringValue() + "," + maxV.ToStringValue() + "]")
	return df, []Signal{{Name: e.Signal, Value: extentStr}}, nil
}

func (e *Extent) PublishedSignalNames() []string {
	if e.Signal == "" {
		return nil
	}
	return []string{e.Signal}
}
