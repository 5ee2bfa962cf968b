package transforms

import (
	"context"
	"sort"
	"strings"

	"vegafusion-go/internal/dataframe"
	"vegafusion-go/internal/expr/compiler"
	"vegafusion-go/internal/value"
)

// Impute fills in missing combinations of Key x GroupBy so that every
// group has a row for every observed key value, using either a fixed
// Value or an aggregate Method computed per group over Field (spec
// §4.3 Impute).
type Impute struct {
	defaultSupport
	Field   string
	Key     string
	GroupBy []string
	Method  string // "value" (use Value) or an aggregate op name
	Value   value.Scalar
}

func (imp *Impute) Eval(ctx context.Context, df *dataframe.DataFrame, cfg *compiler.Config) (*dataframe.DataFrame, []Signal, error) {
	schema := df.Schema()
	exec := dataframe.InMemoryExecutor{}
	tbl, err := exec.Execute(ctx, df.Plan())
	if err != nil {
		return nil, nil, err
	}

	keyVals := map[string]value.Scalar{}
	groupKeys := map[string][]value.Scalar{}
	existing := map[string]bool{}
	var groupOrder []string

	for _, row := range tbl.Rows {
		kv, _ := row.Get(schema, imp.Key)
		keyVals[kv.ToStringValue()] = kv

		gvals := make([]value.Scalar, len(imp.GroupBy))
		gparts := make([]string, len(imp.GroupBy))
		for i, g := range imp.GroupBy {
			v, _ := row.Get(schema, g)
			gvals[i] = v
			gparts[i] = v.ToStringValue()
		}
		gkey := strings.Join(gparts, "\x1f")
		if _, ok := groupKeys[gkey]; !ok {
			groupKeys[gkey] = gvals
			groupOrder = append(groupOrder, gkey)
		}
		existing[gkey+"\x1e"+kv.ToStringValue()] = true
	}

	var keyOrder []string
	for k := range keyVals {
		keyOrder = append(keyOrder, k)
	}
	sort.Strings(keyOrder)
	sort.Strings(groupOrder)

	fillValue := func(gkey string) value.Scalar {
		if imp.Method == "" || imp.Method == "value" {
			return imp.Value
		}
		var rows []value.Row
		for _, row := range tbl.Rows {
			gparts := make([]string, len(imp.GroupBy))
			for i, g := range imp.GroupBy {
				v, _ := row.Get(schema, g)
				gparts[i] = v.ToStringValue()
			}
			if strings.Join(gparts, "\x1f") == gkey {
				rows = append(rows, row)
			}
		}
		agg, _ := dataframe.ComputeAgg(imp.Method, imp.Field, schema, rows)
		return agg
	}

	newRows := append([]value.Row(nil), tbl.Rows...)
	for _, gkey := range groupOrder {
		fill := fillValue(gkey)
		for _, kstr := range keyOrder {
			if existing[gkey+"\x1e"+kstr] {
				continue
			}
			row := make(value.Row, len(schema.Fields))
			for i, f := range schema.Fields {
				switch f.Name {
				case imp.Key:
					row[i] = keyVals[kstr]
				case imp.Field:
					row[i] = fill
				case value.OrderingColumn:
					row[i] = value.Null()
				default:
					row[i] = value.Null()
				}
			}
			for i, g := range imp.GroupBy {
				if idx := schema.IndexOf(g); idx >= 0 {
					row[idx] = groupKeys[gkey][i]
				}
			}
			newRows = append(newRows, row)
		}
	}

	outTbl := value.NewTable(schema, newRows)
	return dataframe.FromTable(outTbl), nil, nil
}
