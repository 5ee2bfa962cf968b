package transforms

import (
	"context"
	"sort"

	"vegafusion-go/internal/dataframe"
	"vegafusion-go/internal/expr/compiler"
	"vegafusion-go/internal/value"
)

// Pivot reshapes Field's distinct values (sorted as strings, and cut to
// the first Limit of them if Limit > 0) into columns, collapsing ValueField into each
// new column via Op when multiple input rows collide on the same
// GroupBy x pivoted-column combination (spec §4.3 Pivot).
type Pivot struct {
	defaultSupport
	Field      string
	ValueField string
	GroupBy    []string
	Op         string // aggregate op for collisions; defaults to "sum"
	Limit      int    // 0 = unlimited
}

func (p *Pivot) Eval(ctx context.Context, df *dataframe.DataFrame, cfg *compiler.Config) (*dataframe.DataFrame, []Signal, error) {
	schema := df.Schema()
	exec := dataframe.InMemoryExecutor{}
	tbl, err := exec.Execute(ctx, df.Plan())
	if err != nil {
		return nil, nil, err
	}

	op := p.Op
	if op == "" {
		op = "sum"
	}

	var pivotCols []string
	seenCol := map[string]bool{}
	for _, row := range tbl.Rows {
		v, _ := row.Get(schema, p.Field)
		name := v.ToStringValue()
		if !seenCol[name] {
			seenCol[name] = true
			pivotCols = append(pivotCols, name)
		}
	}
	sort.Strings(pivotCols)
	if p.Limit > 0 && len(pivotCols) > p.Limit {
		pivotCols = pivotCols[:p.Limit]
	}
	keepCol := map[string]bool{}
	for _, c := range pivotCols {
		keepCol[c] = true
	}

	type groupEntry struct {
		groupVals []value.Scalar
		cellRows  map[string][]value.Row
	}
	groupOrder := []string{}
	groups := map[string]*groupEntry{}
	keyOf := func(row value.Row) (string, []value.Scalar) {
		vals := make([]value.Scalar, len(p.GroupBy))
		parts := make([]string, len(p.GroupBy))
		for i, g := range p.GroupBy {
			v, _ := row.Get(schema, g)
			vals[i] = v
			parts[i] = v.ToStringValue()
		}
		key := ""
		for _, pt := range parts {
			key += pt + "\x1f"
		}
		return key, vals
	}

	for _, row := range tbl.Rows {
		colVal, _ := row.Get(schema, p.Field)
		colName := colVal.ToStringValue()
		if !keepCol[colName] {
			continue
		}
		gkey, gvals := keyOf(row)
		g, ok := groups[gkey]
		if !ok {
			g = &groupEntry{groupVals: gvals, cellRows: map[string][]value.Row{}}
			groups[gkey] = g
			groupOrder = append(groupOrder, gkey)
		}
		g.cellRows[colName] = append(g.cellRows[colName], row)
	}

	fields := make([]value.Field, 0, len(p.GroupBy)+len(pivotCols))
	for _, g := range p.GroupBy {
		f, ok := schema.Field(g)
		if !ok {
			f = value.Field{Name: g, Type: value.FieldUnknown}
		}
		fields = append(fields, f)
	}
	for _, c := range pivotCols {
		fields = append(fields, value.Field{Name: c, Type: value.FieldFloat})
	}
	outSchema := value.NewSchema(fields...)

	var outRows []value.Row
	for _, gkey := range groupOrder {
		g := groups[gkey]
		row := make(value.Row, 0, len(fields))
		row = append(row, g.groupVals...)
		for _, c := range pivotCols {
			rows := g.cellRows[c]
			if len(rows) == 0 {
				row = append(row, value.Null())
				continue
			}
			v, err := dataframe.ComputeAgg(op, p.ValueField, schema, rows)
			if err != nil {
				return nil, nil, err
			}
			row = append(row, v)
		}
		outRows = append(outRows, row)
	}

	outTbl := value.NewTable(outSchema, outRows)
	return dataframe.FromTable(outTbl), nil, nil
}
