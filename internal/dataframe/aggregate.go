package dataframe

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	vferrors "vegafusion-go/internal/errors"
	"vegafusion-go/internal/value"
)

// aggregateOperator groups all child rows by GroupBy field values and
// computes one output row per group, per spec §4.3 Aggregate. Like
// sortOperator it buffers eagerly on first Next: aggregation is
// inherently a full-materialization operation.
type aggregateOperator struct {
	baseOperator
	inSchema *value.Schema
	groupBy  []string
	aggs     []AggExpr

	groups []value.Row
	pos    int
	loaded bool
}

func newAggregateOperator(child Operator, inSchema *value.Schema, groupBy []string, aggs []AggExpr) *aggregateOperator {
	return &aggregateOperator{baseOperator: baseOperator{children: []Operator{child}}, inSchema: inSchema, groupBy: groupBy, aggs: aggs}
}

func (a *aggregateOperator) Next(ctx context.Context) (value.Row, error) {
	if !a.loaded {
		if err := a.compute(ctx); err != nil {
			return nil, err
		}
		a.loaded = true
	}
	if a.pos >= len(a.groups) {
		return nil, nil
	}
	row := a.groups[a.pos]
	a.pos++
	return row, nil
}

func (a *aggregateOperator) compute(ctx context.Context) error {
	type group struct {
		key  string
		vals []value.Scalar
		rows []value.Row
	}
	order := []string{}
	groups := map[string]*group{}

	for {
		row, err := a.children[0].Next(ctx)
		if err != nil {
			return err
		}
		if row == nil {
			break
		}
		keyParts := make([]string, len(a.groupBy))
		keyVals := make([]value.Scalar, len(a.groupBy))
		for i, f := range a.groupBy {
			v, _ := row.Get(a.inSchema, f)
			keyVals[i] = v
			keyParts[i] = v.ToStringValue()
		}
		key := strings.Join(keyParts, "\x1f")
		g, ok := groups[key]
		if !ok {
			g = &group{key: key, vals: keyVals}
			groups[key] = g
			order = append(order, key)
		}
		g.rows = append(g.rows, row)
	}

	out := make([]value.Row, 0, len(order))
	for _, key := range order {
		g := groups[key]
		row := make(value.Row, 0, len(a.groupBy)+len(a.aggs))
		row = append(row, g.vals...)
		for _, agg := range a.aggs {
			v, err := computeAgg(agg, a.inSchema, g.rows)
			if err != nil {
				return vferrors.Annotate(err, "while computing aggregate %s(%s)", agg.Op, agg.Field)
			}
			row = append(row, v)
		}
		out = append(out, row)
	}
	a.groups = out
	return nil
}

func fieldValues(schema *value.Schema, rows []value.Row, field string) []value.Scalar {
	out := make([]value.Scalar, 0, len(rows))
	for _, r := range rows {
		if v, ok := r.Get(schema, field); ok && !v.IsNull() {
			out = append(out, v)
		}
	}
	return out
}

func floatValues(vals []value.Scalar) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if f, ok := v.AsFloat64(); ok {
			out = append(out, f)
		}
	}
	return out
}

// computeAgg implements the aggregate ops of spec §4.3: count, valid,
// missing, distinct, sum, mean/average, min, max, median, q1, q3,
// variance, variancep, stdev, stdevp, stderr, product, values,
// argmin, argmax.
func computeAgg(agg AggExpr, schema *value.Schema, rows []value.Row) (value.Scalar, error) {
	switch agg.Op {
	case "count":
		return value.Int(int64(len(rows))), nil
	case "valid":
		return value.Int(int64(len(fieldValues(schema, rows, agg.Field)))), nil
	case "missing":
		total := len(rows)
		valid := len(fieldValues(schema, rows, agg.Field))
		return value.Int(int64(total - valid)), nil
	case "distinct":
		seen := map[string]bool{}
		for _, v := range fieldValues(schema, rows, agg.Field) {
			seen[v.ToStringValue()] = true
		}
		return value.Int(int64(len(seen))), nil
	case "sum":
		sum := decimal.Zero
		for _, v := range fieldValues(schema, rows, agg.Field) {
			if f, ok := v.AsFloat64(); ok {
				sum = sum.Add(decimal.NewFromFloat(f))
			}
		}
		f, _ := sum.Float64()
		return value.Float(f), nil
	case "mean", "average":
		vals := floatValues(fieldValues(schema, rows, agg.Field))
		if len(vals) == 0 {
			return value.Null(), nil
		}
		return value.Float(mean(vals)), nil
	case "min":
		vals := floatValues(fieldValues(schema, rows, agg.Field))
		if len(vals) == 0 {
			return value.Null(), nil
		}
		m := vals[0]
		for _, v := range vals[1:] {
			if v < m {
				m = v
			}
		}
		return value.Float(m), nil
	case "max":
		vals := floatValues(fieldValues(schema, rows, agg.Field))
		if len(vals) == 0 {
			return value.Null(), nil
		}
		m := vals[0]
		for _, v := range vals[1:] {
			if v > m {
				m = v
			}
		}
		return value.Float(m), nil
	case "median":
		return percentile(floatValues(fieldValues(schema, rows, agg.Field)), 0.5), nil
	case "q1":
		return percentile(floatValues(fieldValues(schema, rows, agg.Field)), 0.25), nil
	case "q3":
		return percentile(floatValues(fieldValues(schema, rows, agg.Field)), 0.75), nil
	case "variance":
		return varianceScalar(floatValues(fieldValues(schema, rows, agg.Field)), true), nil
	case "variancep":
		return varianceScalar(floatValues(fieldValues(schema, rows, agg.Field)), false), nil
	case "stdev":
		v := varianceScalar(floatValues(fieldValues(schema, rows, agg.Field)), true)
		if v.IsNull() {
			return v, nil
		}
		return value.Float(math.Sqrt(v.Float)), nil
	case "stdevp":
		v := varianceScalar(floatValues(fieldValues(schema, rows, agg.Field)), false)
		if v.IsNull() {
			return v, nil
		}
		return value.Float(math.Sqrt(v.Float)), nil
	case "stderr":
		vals := floatValues(fieldValues(schema, rows, agg.Field))
		v := varianceScalar(vals, true)
		if v.IsNull() || len(vals) == 0 {
			return value.Null(), nil
		}
		return value.Float(math.Sqrt(v.Float) / math.Sqrt(float64(len(vals)))), nil
	case "product":
		prod := 1.0
		vals := floatValues(fieldValues(schema, rows, agg.Field))
		if len(vals) == 0 {
			return value.Null(), nil
		}
		for _, v := range vals {
			prod *= v
		}
		return value.Float(prod), nil
	case "values":
		vals := fieldValues(schema, rows, agg.Field)
		parts := make([]string, len(vals))
		for i, v := range vals {
			parts[i] = v.ToStringValue()
		}
		return value.String("[" + strings.Join(parts, ",") + "]"), nil
	case "argmin":
		return argExtreme(schema, rows, agg.Field, true)
	case "argmax":
		return argExtreme(schema, rows, agg.Field, false)
	default:
		return value.Scalar{}, vferrors.Compilation("unsupported aggregate op %q", agg.Op)
	}
}

// ComputeAgg exposes computeAgg to other packages (the Impute and
// Pivot transforms need to compute a fill/collision value outside of
// a full Aggregation plan).
func ComputeAgg(op, field string, schema *value.Schema, rows []value.Row) (value.Scalar, error) {
	return computeAgg(AggExpr{Op: op, Field: field}, schema, rows)
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func varianceScalar(vals []float64, sample bool) value.Scalar {
	n := len(vals)
	if n == 0 || (sample && n < 2) {
		return value.Null()
	}
	m := mean(vals)
	var ss float64
	for _, v := range vals {
		d := v - m
		ss += d * d
	}
	denom := float64(n)
	if sample {
		denom = float64(n - 1)
	}
	return value.Float(ss / denom)
}

func percentile(vals []float64, p float64) value.Scalar {
	if len(vals) == 0 {
		return value.Null()
	}
	sorted := append([]float64(nil), vals...)
	sort.Float64s(sorted)
	idx := p * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return value.Float(sorted[lo])
	}
	frac := idx - float64(lo)
	return value.Float(sorted[lo]*(1-frac) + sorted[hi]*frac)
}

// argExtreme returns the full row (encoded as a struct-string, since
// value.Scalar has no row type) at the min/max of field.
func argExtreme(schema *value.Schema, rows []value.Row, field string, wantMin bool) (value.Scalar, error) {
	if len(rows) == 0 {
		return value.Null(), nil
	}
	best := rows[0]
	bestVal, _ := best.Get(schema, field)
	bestF, _ := bestVal.AsFloat64()
	for _, r := range rows[1:] {
		v, _ := r.Get(schema, field)
		f, ok := v.AsFloat64()
		if !ok {
			continue
		}
		if (wantMin && f < bestF) || (!wantMin && f > bestF) {
			best = r
			bestF = f
		}
	}
	parts := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		if i < len(best) {
			parts[i] = f.Name + ":" + best[i].ToStringValue()
		}
	}
	return value.String("{" + strings.Join(parts, ",") + "}"), nil
}
