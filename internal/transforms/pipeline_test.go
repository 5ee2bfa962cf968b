package transforms

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"vegafusion-go/internal/dataframe"
	"vegafusion-go/internal/expr/compiler"
	"vegafusion-go/internal/value"
)

func sampleSalesTable() *value.Table {
	schema := value.NewSchema(
		value.Field{Name: "category", Type: value.FieldString},
		value.Field{Name: "amount", Type: value.FieldFloat},
	)
	rows := []value.Row{
		{value.String("a"), value.Float(10)},
		{value.String("a"), value.Float(30)},
		{value.String("b"), value.Float(5)},
		{value.String("b"), value.Float(15)},
	}
	return value.NewTable(schema, rows)
}

func runStage(t *testing.T, df *dataframe.DataFrame, stage Transform) (*dataframe.DataFrame, []Signal) {
	t.Helper()
	cfg := &compiler.Config{Scope: map[string]value.Scalar{}}
	out, signals, err := stage.Eval(context.Background(), df, cfg)
	require.NoError(t, err)
	return out, signals
}

func materialize(t *testing.T, df *dataframe.DataFrame) *value.Table {
	t.Helper()
	tbl, err := (dataframe.InMemoryExecutor{}).Execute(context.Background(), df.Plan())
	require.NoError(t, err)
	return tbl
}

func TestFilterTransform(t *testing.T) {
	df := dataframe.FromTable(sampleSalesTable())
	out, _ := runStage(t, df, &Filter{Expr: "datum.amount > 10"})
	tbl := materialize(t, out)
	require.Equal(t, 2, tbl.NumRows())
}

func TestFormulaTransform(t *testing.T) {
	df := dataframe.FromTable(sampleSalesTable())
	out, _ := runStage(t, df, &Formula{Expr: "datum.amount * 2", As: "doubled"})
	tbl := materialize(t, out)
	v, ok := tbl.Rows[0].Get(out.Schema(), "doubled")
	require.True(t, ok)
	require.Equal(t, 20.0, v.Float)
}

func TestAggregateTransform(t *testing.T) {
	df := dataframe.FromTable(sampleSalesTable())
	out, _ := runStage(t, df, &Aggregate{
		GroupBy: []string{"category"},
		Fields:  []AggregateField{{Op: "sum", Field: "amount"}},
	})
	tbl := materialize(t, out)
	require.Equal(t, 2, tbl.NumRows())
	for _, r := range tbl.Rows {
		v, _ := r.Get(out.Schema(), "sum_amount")
		require.True(t, v.Float == 40 || v.Float == 20)
	}
}

func TestWindowRowNumberTransform(t *testing.T) {
	df := dataframe.FromTable(sampleSalesTable())
	out, _ := runStage(t, df, &Identifier{As: "id"})
	tbl := materialize(t, out)
	require.Equal(t, 4, tbl.NumRows())
	v0, _ := tbl.Rows[0].Get(out.Schema(), "id")
	require.Equal(t, int64(1), v0.Int)
}

func TestSequenceTransform(t *testing.T) {
	seq := &Sequence{Start: 0, Stop: 5, Step: 1}
	out, _ := runStage(t, nil, seq)
	tbl := materialize(t, out)
	require.Equal(t, 5, tbl.NumRows())
}

func TestBinTransform(t *testing.T) {
	df := dataframe.FromTable(sampleSalesTable())
	bin := &Bin{Field: "amount", Extent: [2]float64{0, 30}, MaxBins: 10, Nice: true}
	out, _ := runStage(t, df, bin)
	tbl := materialize(t, out)
	_, ok := tbl.Rows[0].Get(out.Schema(), "bin0")
	require.True(t, ok)
}

func TestFoldTransform(t *testing.T) {
	schema := value.NewSchema(
		value.Field{Name: "x", Type: value.FieldFloat},
		value.Field{Name: "y", Type: value.FieldFloat},
	)
	tbl := value.NewTable(schema, []value.Row{{value.Float(1), value.Float(2)}})
	df := dataframe.FromTable(tbl)
	out, _ := runStage(t, df, &Fold{Fields: []string{"x", "y"}})
	res := materialize(t, out)
	require.Equal(t, 2, res.NumRows())
}

func TestPivotTransform(t *testing.T) {
	schema := value.NewSchema(
		value.Field{Name: "cat", Type: value.FieldString},
		value.Field{Name: "group", Type: value.FieldString},
		value.Field{Name: "val", Type: value.FieldFloat},
	)
	rows := []value.Row{
		{value.String("a"), value.String("g1"), value.Float(1)},
		{value.String("b"), value.String("g1"), value.Float(2)},
	}
	tbl := value.NewTable(schema, rows)
	df := dataframe.FromTable(tbl)
	out, _ := runStage(t, df, &Pivot{Field: "cat", ValueField: "val", GroupBy: []string{"group"}})
	res := materialize(t, out)
	require.Equal(t, 1, res.NumRows())
}

func TestImputeTransform(t *testing.T) {
	schema := value.NewSchema(
		value.Field{Name: "group", Type: value.FieldString},
		value.Field{Name: "key", Type: value.FieldString},
		value.Field{Name: "val", Type: value.FieldFloat},
	)
	rows := []value.Row{
		{value.String("g1"), value.String("k1"), value.Float(1)},
		{value.String("g2"), value.String("k2"), value.Float(2)},
	}
	tbl := value.NewTable(schema, rows)
	df := dataframe.FromTable(tbl)
	out, _ := runStage(t, df, &Impute{Field: "val", Key: "key", GroupBy: []string{"group"}, Method: "value", Value: value.Int(0)})
	res := materialize(t, out)
	require.Equal(t, 4, res.NumRows())
}

func TestLookupUnsupported(t *testing.T) {
	l := &Lookup{Dataset: "other"}
	require.False(t, l.Supported(nil))
	_, _, err := l.Eval(context.Background(), nil, &compiler.Config{})
	require.Error(t, err)
}

func TestStackTransform(t *testing.T) {
	df := dataframe.FromTable(sampleSalesTable())
	stack := &Stack{
		Field:   "amount",
		GroupBy: []string{"category"},
		Sort:    []dataframe.SortKey{{Field: value.OrderingColumn}},
	}
	out, _ := runStage(t, df, stack)
	tbl := materialize(t, out)
	require.Equal(t, 4, tbl.NumRows())
	for _, r := range tbl.Rows {
		y0, _ := r.Get(out.Schema(), "y0")
		y1, _ := r.Get(out.Schema(), "y1")
		require.InDelta(t, y1.Float-y0.Float, 10.0, 20.0)
	}
}

func TestTimeUnitTransform(t *testing.T) {
	schema := value.NewSchema(value.Field{Name: "ts", Type: value.FieldTimestamp})
	tbl := value.NewTable(schema, []value.Row{{value.Timestamp(mustParseTime("2024-03-15T10:30:00Z"))}})
	df := dataframe.FromTable(tbl)
	tu := &TimeUnit{Field: "ts", Unit: TimeUnitYearMonth, SignalName: "unit"}
	out, signals := runStage(t, df, tu)
	res := materialize(t, out)
	v, ok := res.Rows[0].Get(out.Schema(), "unit0")
	require.True(t, ok)
	require.Equal(t, 1, v.Timestamp.Day())
	require.Len(t, signals, 1)
}

func mustParseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestPipelineAccumulatesSignals(t *testing.T) {
	pipeline := &Pipeline{Stages: []Transform{
		&Extent{Field: "amount", Signal: "amount_extent"},
		&Filter{Expr: "datum.amount > 0"},
	}}
	df := dataframe.FromTable(sampleSalesTable())
	cfg := &compiler.Config{Scope: map[string]value.Scalar{}}
	_, signals, err := pipeline.Eval(context.Background(), df, cfg)
	require.NoError(t, err)
	require.Len(t, signals, 1)
	require.Equal(t, "amount_extent", signals[0].Name)
}
