package transforms

import (
	"context"

	"vegafusion-go/internal/dataframe"
	"vegafusion-go/internal/expr/compiler"
	"vegafusion-go/internal/value"
)

// WindowField is one window-function output column (spec §4.3 Window).
type WindowField struct {
	Op    string
	Field string
	As    string
}

func (w WindowField) defaultAlias() string {
	if w.As != "" {
		return w.As
	}
	if w.Field == "" {
		return w.Op
	}
	return w.Op + "_" + w.Field
}

// Window applies ordered window functions with the given
// partition/order (spec §4.3 Window: row_number, rank, dense_rank,
// percent_rank, cume_dist, ntile, lag, lead, first_value, last_value,
// aggregate windows).
type Window struct {
	defaultSupport
	GroupBy []string
	Sort    []dataframe.SortKey
	Fields  []WindowField
}

func (w *Window) Eval(ctx context.Context, df *dataframe.DataFrame, cfg *compiler.Config) (*dataframe.DataFrame, []Signal, error) {
	outSchema := df.Schema()
	exprs := make([]dataframe.WindowExpr, len(w.Fields))
	for i, f := range w.Fields {
		alias := f.defaultAlias()
		outSchema = outSchema.WithField(value.Field{Name: alias, Type: aggregateOutputType(f.Op)})
		exprs[i] = dataframe.WindowExpr{Func: f.Op, Field: f.Field, Alias: alias, PartitionBy: w.GroupBy, OrderBy: w.Sort}
	}
	return df.Window(outSchema, exprs), nil, nil
}

// Collect sorts rows by a field list with per-field ascending/
// descending ordering; nulls-first iff ascending. len(Order), if
// given, must equal len(Fields) (spec §4.3 Collect).
type Collect struct {
	defaultSupport
	Fields []string
	Order  []bool // true = ascending; empty means all ascending, else one entry per field
}

func (c *Collect) Eval(ctx context.Context, df *dataframe.DataFrame, cfg *compiler.Config) (*dataframe.DataFrame, []Signal, error) {
	if len(c.Order) != 0 && len(c.Order) != len(c.Fields) {
		return nil, nil, specificationErrorCollectLength(len(c.Fields), len(c.Order))
	}
	keys := make([]dataframe.SortKey, len(c.Fields))
	for i, f := range c.Fields {
		asc := true
		if i < len(c.Order) {
			asc = c.Order[i]
		}
		keys[i] = dataframe.SortKey{Field: f, Descending: !asc, NullsFirst: asc}
	}
	return df.Sort(keys), nil, nil
}

// Identifier emits a 1-based row number in stable ordering-column
// order, aliased by As (spec §4.3 Identifier).
type Identifier struct {
	defaultSupport
	As string
}

func (id *Identifier) Eval(ctx context.Context, df *dataframe.DataFrame, cfg *compiler.Config) (*dataframe.DataFrame, []Signal, error) {
	outSchema := df.Schema().WithField(value.Field{Name: id.As, Type: value.FieldInt})
	expr := dataframe.WindowExpr{Func: "row_number", Alias: id.As}
	ordered := df.Sort([]dataframe.SortKey{{Field: value.OrderingColumn}})
	return ordered.Window(outSchema, []dataframe.WindowExpr{expr}), nil, nil
}

// Project keeps only Fields that exist in the input, preserving the
// ordering column (spec §4.3 Project).
type Project struct {
	defaultSupport
	Fields []string
}

func (p *Project) Eval(ctx context.Context, df *dataframe.DataFrame, cfg *compiler.Config) (*dataframe.DataFrame, []Signal, error) {
	inSchema := df.Schema()
	keep := map[string]bool{value.OrderingColumn: true}
	var fields []value.Field
	var projFields []dataframe.ProjectField
	for _, name := range p.Fields {
		if f, ok := inSchema.Field(name); ok && !keep[name] {
			keep[name] = true
			fields = append(fields, f)
		}
	}
	if orderField, ok := inSchema.Field(value.OrderingColumn); ok {
		fields = append(fields, orderField)
	}
	for _, f := range fields {
		projFields = append(projFields, dataframe.ProjectField{Alias: f.Name, Expr: columnRefExpr(f)})
	}
	outSchema := value.NewSchema(fields...)
	return df.Select(outSchema, projFields), nil, nil
}
