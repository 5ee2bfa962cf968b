// Package dataframe implements the immutable logical-plan façade of
// spec §4.5: DataFrame builds a LogicalPlan tree by value (no shared
// mutable state between handles, per the spec's design note replacing
// the original's reference-counted plan sharing), Connection produces
// DataFrames from external sources, and PlanExecutor materializes a
// finalized plan into a value.Table.
//
// The LogicalPlan node shapes mirror the teacher's plan.LogicalPlan
// interface (Schema/Children/SetChildren/String), generalized from a
// SQL-statement builder to the transform-pipeline operations the
// expression/transform compiler emits.
package dataframe

import (
	"fmt"
	"strings"

	"vegafusion-go/internal/logicalexpr"
	"vegafusion-go/internal/value"
)

// LogicalPlan is one node of an immutable query plan tree.
type LogicalPlan interface {
	Schema() *value.Schema
	Children() []LogicalPlan
	String() string
}

type basePlan struct {
	schema   *value.Schema
	children []LogicalPlan
}

func (p *basePlan) Schema() *value.Schema    { return p.schema }
func (p *basePlan) Children() []LogicalPlan  { return p.children }

// TableScan is a leaf plan reading a named, already-materialized
// table (the root of any pipeline: the task's loaded/evaluated input).
type TableScan struct {
	basePlan
	Source *value.Table
}

func NewTableScan(t *value.Table) *TableScan {
	return &TableScan{basePlan: basePlan{schema: t.Schema}, Source: t}
}

func (s *TableScan) String() string { return "TableScan" }

// Selection filters rows by a compiled boolean predicate.
type Selection struct {
	basePlan
	Predicate logicalexpr.Expr
}

func NewSelection(child LogicalPlan, predicate logicalexpr.Expr) *Selection {
	return &Selection{basePlan: basePlan{schema: child.Schema(), children: []LogicalPlan{child}}, Predicate: predicate}
}

func (s *Selection) String() string { return fmt.Sprintf("Selection(%s)", s.Predicate.String()) }

// ProjectField is one output column of a Projection: an expression
// plus its output alias.
type ProjectField struct {
	Alias string
	Expr  logicalexpr.Expr
}

// Projection computes a new column list, used for formula (append/
// replace one column) and project (column subset) alike.
type Projection struct {
	basePlan
	Fields []ProjectField
}

func NewProjection(child LogicalPlan, schema *value.Schema, fields []ProjectField) *Projection {
	return &Projection{basePlan: basePlan{schema: schema, children: []LogicalPlan{child}}, Fields: fields}
}

func (p *Projection) String() string {
	names := make([]string, len(p.Fields))
	for i, f := range p.Fields {
		names[i] = f.Alias
	}
	return fmt.Sprintf("Projection(%s)", strings.Join(names, ", "))
}

// AggExpr is one aggregate output: op applied to field, aliased.
type AggExpr struct {
	Op    string
	Field string
	Alias string
}

// Aggregation groups by GroupBy and computes Aggs per group.
type Aggregation struct {
	basePlan
	GroupBy []string
	Aggs    []AggExpr
}

func NewAggregation(child LogicalPlan, schema *value.Schema, groupBy []string, aggs []AggExpr) *Aggregation {
	return &Aggregation{basePlan: basePlan{schema: schema, children: []LogicalPlan{child}}, GroupBy: groupBy, Aggs: aggs}
}

func (a *Aggregation) String() string { return "Aggregation" }

// SortKey is one Collect/Sort ordering field.
type SortKey struct {
	Field      string
	Descending bool
	NullsFirst bool
}

// Sort orders rows by Keys, in priority order.
type Sort struct {
	basePlan
	Keys []SortKey
}

func NewSort(child LogicalPlan, keys []SortKey) *Sort {
	return &Sort{basePlan: basePlan{schema: child.Schema(), children: []LogicalPlan{child}}, Keys: keys}
}

func (s *Sort) String() string { return "Sort" }

// WindowExpr is one window-function output column.
type WindowExpr struct {
	Func      string
	Field     string
	Alias     string
	Args      []logicalexpr.Expr
	PartitionBy []string
	OrderBy   []SortKey
}

// Window computes WindowExprs over (possibly empty) partitions.
type Window struct {
	basePlan
	Exprs []WindowExpr
}

func NewWindow(child LogicalPlan, schema *value.Schema, exprs []WindowExpr) *Window {
	return &Window{basePlan: basePlan{schema: schema, children: []LogicalPlan{child}}, Exprs: exprs}
}

func (w *Window) String() string { return "Window" }

// Limit caps the row count.
type Limit struct {
	basePlan
	N int
}

func NewLimit(child LogicalPlan, n int) *Limit {
	return &Limit{basePlan: basePlan{schema: child.Schema(), children: []LogicalPlan{child}}, N: n}
}

func (l *Limit) String() string { return fmt.Sprintf("Limit(%d)", l.N) }

// Join type tag.
type JoinType int

const (
	JoinLeft JoinType = iota
	JoinInner
)

// Join combines two plans on a key-equality condition (built by
// DataFrame.Join).
type Join struct {
	basePlan
	Right    LogicalPlan
	Type     JoinType
	LeftKey  string
	RightKey string
}

func NewJoin(left, right LogicalPlan, schema *value.Schema, typ JoinType, leftKey, rightKey string) *Join {
	return &Join{basePlan: basePlan{schema: schema, children: []LogicalPlan{left}}, Right: right, Type: typ, LeftKey: leftKey, RightKey: rightKey}
}

func (j *Join) String() string { return "Join" }

// Fold pivots wide columns into long key/value rows.
type Fold struct {
	basePlan
	Fields   []string
	KeyName  string
	ValueName string
}

func NewFold(child LogicalPlan, schema *value.Schema, fields []string, keyName, valueName string) *Fold {
	return &Fold{basePlan: basePlan{schema: schema, children: []LogicalPlan{child}}, Fields: fields, KeyName: keyName, ValueName: valueName}
}

func (f *Fold) String() string { return "Fold" }
