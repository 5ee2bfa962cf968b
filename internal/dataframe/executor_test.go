package dataframe

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"vegafusion-go/internal/logicalexpr"
	"vegafusion-go/internal/value"
)

func sampleTable() *value.Table {
	schema := value.NewSchema(
		value.Field{Name: "category", Type: value.FieldString},
		value.Field{Name: "amount", Type: value.FieldFloat},
	)
	return value.NewTable(schema, []value.Row{
		{value.String("a"), value.Float(1)},
		{value.String("a"), value.Float(3)},
		{value.String("b"), value.Float(2)},
	})
}

func TestFilterKeepsMatchingRows(t *testing.T) {
	df := FromTable(sampleTable())
	pred := logicalexpr.NewBinary(logicalexpr.OpGT, logicalexpr.NewColumnRef("amount", value.FieldFloat), logicalexpr.NewConst(value.Float(1)))
	filtered := df.Filter(pred)

	exec := InMemoryExecutor{}
	tbl, err := exec.Execute(context.Background(), filtered.Plan())
	require.NoError(t, err)
	require.Equal(t, 2, tbl.NumRows())
}

func TestAggregateSumByGroup(t *testing.T) {
	df := FromTable(sampleTable())
	outSchema := value.NewSchema(
		value.Field{Name: "category", Type: value.FieldString},
		value.Field{Name: "total", Type: value.FieldFloat},
	)
	agg := df.Aggregate(outSchema, []string{"category"}, []AggExpr{{Op: "sum", Field: "amount", Alias: "total"}})

	exec := InMemoryExecutor{}
	tbl, err := exec.Execute(context.Background(), agg.Plan())
	require.NoError(t, err)
	require.Equal(t, 2, tbl.NumRows())

	totals := map[string]float64{}
	for _, r := range tbl.Rows {
		v, _ := r.Get(outSchema, "category")
		total, _ := r.Get(outSchema, "total")
		totals[v.Str] = total.Float
	}
	require.Equal(t, 4.0, totals["a"])
	require.Equal(t, 2.0, totals["b"])
}

func TestWindowRowNumber(t *testing.T) {
	df := FromTable(sampleTable())
	schema := sampleTable().Schema.WithField(value.Field{Name: "rn", Type: value.FieldInt})
	win := df.Window(schema, []WindowExpr{{Func: "row_number", Alias: "rn", PartitionBy: []string{"category"}}})

	exec := InMemoryExecutor{}
	tbl, err := exec.Execute(context.Background(), win.Plan())
	require.NoError(t, err)
	require.Equal(t, 3, tbl.NumRows())
}

func TestSortDescending(t *testing.T) {
	df := FromTable(sampleTable())
	sorted := df.Sort([]SortKey{{Field: "amount", Descending: true}})
	exec := InMemoryExecutor{}
	tbl, err := exec.Execute(context.Background(), sorted.Plan())
	require.NoError(t, err)
	first, _ := tbl.Rows[0].Get(tbl.Schema, "amount")
	require.Equal(t, 3.0, first.Float)
}

func TestNoOpExecutorErrors(t *testing.T) {
	df := FromTable(sampleTable())
	_, err := NoOpExecutor{}.Execute(context.Background(), df.Plan())
	require.Error(t, err)
}
