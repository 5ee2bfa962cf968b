package dataframe

import (
	"context"
	"sort"
	"strings"

	vferrors "vegafusion-go/internal/errors"
	"vegafusion-go/internal/logicalexpr"
	"vegafusion-go/internal/value"
)

// windowOperator buffers all input rows, partitions them, orders each
// partition, and computes each WindowExpr per row (spec §4.3 Window /
// JoinAggregate). Like sortOperator/aggregateOperator this is a
// full-materialization operator: window functions need every row of a
// partition before any row's result is known.
type windowOperator struct {
	baseOperator
	inSchema  *value.Schema
	outSchema *value.Schema
	exprs     []WindowExpr

	rows   []value.Row
	pos    int
	loaded bool
}

func newWindowOperator(child Operator, inSchema, outSchema *value.Schema, exprs []WindowExpr) *windowOperator {
	return &windowOperator{baseOperator: baseOperator{children: []Operator{child}}, inSchema: inSchema, outSchema: outSchema, exprs: exprs}
}

func (w *windowOperator) Next(ctx context.Context) (value.Row, error) {
	if !w.loaded {
		if err := w.compute(ctx); err != nil {
			return nil, err
		}
		w.loaded = true
	}
	if w.pos >= len(w.rows) {
		return nil, nil
	}
	row := w.rows[w.pos]
	w.pos++
	return row, nil
}

func (w *windowOperator) compute(ctx context.Context) error {
	var all []value.Row
	for {
		row, err := w.children[0].Next(ctx)
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		all = append(all, row)
	}

	results := make([]value.Row, len(all))
	for i, r := range all {
		out := make(value.Row, len(r), len(r)+len(w.exprs))
		copy(out, r)
		results[i] = out
	}

	for _, expr := range w.exprs {
		if err := w.applyExpr(expr, all, results); err != nil {
			return vferrors.Annotate(err, "while computing window expression %q", expr.Alias)
		}
	}
	w.rows = results
	return nil
}

func (w *windowOperator) applyExpr(expr WindowExpr, all []value.Row, results []value.Row) error {
	partitions := partitionIndices(w.inSchema, all, expr.PartitionBy)
	for _, idxs := range partitions {
		ordered := append([]int(nil), idxs...)
		if len(expr.OrderBy) > 0 {
			sort.SliceStable(ordered, func(a, b int) bool {
				return rowLess(w.inSchema, all[ordered[a]], all[ordered[b]], expr.OrderBy)
			})
		}
		vals, err := computeWindowFunc(expr, w.inSchema, all, ordered)
		if err != nil {
			return err
		}
		for i, idx := range ordered {
			results[idx] = append(results[idx], vals[i])
		}
	}
	return nil
}

func partitionIndices(schema *value.Schema, rows []value.Row, partitionBy []string) [][]int {
	if len(partitionBy) == 0 {
		idxs := make([]int, len(rows))
		for i := range rows {
			idxs[i] = i
		}
		return [][]int{idxs}
	}
	order := []string{}
	groups := map[string][]int{}
	for i, r := range rows {
		parts := make([]string, len(partitionBy))
		for j, f := range partitionBy {
			v, _ := r.Get(schema, f)
			parts[j] = v.ToStringValue()
		}
		key := strings.Join(parts, "\x1f")
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}
	out := make([][]int, len(order))
	for i, k := range order {
		out[i] = groups[k]
	}
	return out
}

func rowLess(schema *value.Schema, a, b value.Row, keys []SortKey) bool {
	for _, k := range keys {
		av, _ := a.Get(schema, k.Field)
		bv, _ := b.Get(schema, k.Field)
		af, aok := av.AsFloat64()
		bf, bok := bv.AsFloat64()
		var cmp int
		if aok && bok {
			switch {
			case af < bf:
				cmp = -1
			case af > bf:
				cmp = 1
			}
		} else {
			cmp = strings.Compare(av.ToStringValue(), bv.ToStringValue())
		}
		if cmp == 0 {
			continue
		}
		if k.Descending {
			return cmp > 0
		}
		return cmp < 0
	}
	return false
}

// computeWindowFunc evaluates expr.Func over the partition whose rows
// are all[order[i]] in window order, returning one scalar per ordered
// position (spec §4.3 Window: row_number, rank, dense_rank,
// percent_rank, cume_dist, ntile, lag, lead, first_value, last_value,
// and plain aggregate-as-window functions).
func computeWindowFunc(expr WindowExpr, schema *value.Schema, all []value.Row, order []int) ([]value.Scalar, error) {
	n := len(order)
	out := make([]value.Scalar, n)
	switch expr.Func {
	case "row_number":
		for i := range order {
			out[i] = value.Int(int64(i + 1))
		}
	case "rank":
		rank := 1
		for i := range order {
			if i > 0 && !rowsEqualOn(schema, all[order[i]], all[order[i-1]], expr.OrderBy) {
				rank = i + 1
			}
			out[i] = value.Int(int64(rank))
		}
	case "dense_rank":
		rank := 1
		for i := range order {
			if i > 0 && !rowsEqualOn(schema, all[order[i]], all[order[i-1]], expr.OrderBy) {
				rank++
			}
			out[i] = value.Int(int64(rank))
		}
	case "percent_rank":
		if n <= 1 {
			for i := range order {
				out[i] = value.Float(0)
			}
			break
		}
		rank := 1
		ranks := make([]int, n)
		for i := range order {
			if i > 0 && !rowsEqualOn(schema, all[order[i]], all[order[i-1]], expr.OrderBy) {
				rank = i + 1
			}
			ranks[i] = rank
		}
		for i := range order {
			out[i] = value.Float(float64(ranks[i]-1) / float64(n-1))
		}
	case "cume_dist":
		for i := range order {
			count := i + 1
			for count < n && rowsEqualOn(schema, all[order[count-1]], all[order[count]], expr.OrderBy) {
				count++
			}
			out[i] = value.Float(float64(count) / float64(n))
		}
	case "ntile":
		buckets := 4
		if len(expr.Args) == 1 {
			if v, err := expr.Args[0].Eval(&logicalexpr.EvalContext{}); err == nil {
				if f, ok := v.AsFloat64(); ok {
					buckets = int(f)
				}
			}
		}
		for i := range order {
			out[i] = value.Int(int64(i*buckets/n + 1))
		}
	case "lag":
		offset := 1
		for i := range order {
			j := i - offset
			if j >= 0 {
				v, _ := all[order[j]].Get(schema, expr.Field)
				out[i] = v
			} else {
				out[i] = value.Null()
			}
		}
	case "lead":
		offset := 1
		for i := range order {
			j := i + offset
			if j < n {
				v, _ := all[order[j]].Get(schema, expr.Field)
				out[i] = v
			} else {
				out[i] = value.Null()
			}
		}
	case "first_value":
		if n == 0 {
			break
		}
		v, _ := all[order[0]].Get(schema, expr.Field)
		for i := range order {
			out[i] = v
		}
	case "last_value":
		if n == 0 {
			break
		}
		v, _ := all[order[n-1]].Get(schema, expr.Field)
		for i := range order {
			out[i] = v
		}
	case "cume_sum":
		// Running total through the current row in window order, used by
		// the Stack transform to compute each row's upper boundary.
		var running float64
		for i := range order {
			v, _ := all[order[i]].Get(schema, expr.Field)
			if f, ok := v.AsFloat64(); ok {
				running += f
			}
			out[i] = value.Float(running)
		}
	default:
		rows := make([]value.Row, n)
		for i, idx := range order {
			rows[i] = all[idx]
		}
		agg, err := computeAgg(AggExpr{Op: expr.Func, Field: expr.Field}, schema, rows)
		if err != nil {
			return nil, err
		}
		for i := range order {
			out[i] = agg
		}
	}
	return out, nil
}

func rowsEqualOn(schema *value.Schema, a, b value.Row, keys []SortKey) bool {
	for _, k := range keys {
		av, _ := a.Get(schema, k.Field)
		bv, _ := b.Get(schema, k.Field)
		if !av.LooseEqual(bv) {
			return false
		}
	}
	return true
}
