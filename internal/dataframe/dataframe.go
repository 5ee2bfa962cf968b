package dataframe

import (
	"vegafusion-go/internal/logicalexpr"
	"vegafusion-go/internal/value"
)

// DataFrame is an immutable handle over a LogicalPlan. Every builder
// method returns a new handle wrapping a taller plan; no method
// mutates the receiver, and handles share no mutable state (spec's
// design note: value semantics, not reference counting, for DataFrame
// handles).
type DataFrame struct {
	plan LogicalPlan
}

// FromTable builds a DataFrame rooted at an in-memory table.
func FromTable(t *value.Table) *DataFrame {
	return &DataFrame{plan: NewTableScan(t)}
}

// FromPlan wraps an existing plan (used by Connection implementations
// that build a plan directly, e.g. a SQL table reference).
func FromPlan(p LogicalPlan) *DataFrame {
	return &DataFrame{plan: p}
}

// Plan exposes the underlying logical plan, for PlanExecutor and
// debug/explain tooling.
func (df *DataFrame) Plan() LogicalPlan { return df.plan }

// Schema returns the frame's current output schema.
func (df *DataFrame) Schema() *value.Schema { return df.plan.Schema() }

// Filter returns a new frame selecting rows where predicate evaluates
// truthy.
func (df *DataFrame) Filter(predicate logicalexpr.Expr) *DataFrame {
	return &DataFrame{plan: NewSelection(df.plan, predicate)}
}

// Select returns a new frame whose schema and rows are computed by
// fields, replacing a same-named existing field in place (formula) or
// narrowing to the given fields (project).
func (df *DataFrame) Select(schema *value.Schema, fields []ProjectField) *DataFrame {
	return &DataFrame{plan: NewProjection(df.plan, schema, fields)}
}

// Sort returns a new frame ordered by keys.
func (df *DataFrame) Sort(keys []SortKey) *DataFrame {
	return &DataFrame{plan: NewSort(df.plan, keys)}
}

// Aggregate returns a new frame grouping by groupBy and computing aggs.
func (df *DataFrame) Aggregate(schema *value.Schema, groupBy []string, aggs []AggExpr) *DataFrame {
	return &DataFrame{plan: NewAggregation(df.plan, schema, groupBy, aggs)}
}

// JoinAggregate returns a new frame with window-style per-row
// aggregates computed over each group's partition (spec §4.3
// JoinAggregate: "same as aggregate, emitted as a window").
func (df *DataFrame) JoinAggregate(schema *value.Schema, exprs []WindowExpr) *DataFrame {
	return &DataFrame{plan: NewWindow(df.plan, schema, exprs)}
}

// Window returns a new frame with window functions applied.
func (df *DataFrame) Window(schema *value.Schema, exprs []WindowExpr) *DataFrame {
	return &DataFrame{plan: NewWindow(df.plan, schema, exprs)}
}

// Limit returns a new frame capped to the first n rows.
func (df *DataFrame) Limit(n int) *DataFrame {
	return &DataFrame{plan: NewLimit(df.plan, n)}
}

// Fold returns a new frame with fields pivoted into long key/value rows.
func (df *DataFrame) Fold(schema *value.Schema, fields []string, keyName, valueName string) *DataFrame {
	return &DataFrame{plan: NewFold(df.plan, schema, fields, keyName, valueName)}
}

// Join returns a new frame combining df with right on a key-equality
// condition.
func (df *DataFrame) Join(right *DataFrame, schema *value.Schema, typ JoinType, leftKey, rightKey string) *DataFrame {
	return &DataFrame{plan: NewJoin(df.plan, right.plan, schema, typ, leftKey, rightKey)}
}
