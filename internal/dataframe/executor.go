package dataframe

import (
	"context"
	"sort"
	"strings"

	vferrors "vegafusion-go/internal/errors"
	"vegafusion-go/internal/logicalexpr"
	"vegafusion-go/internal/value"
)

// PlanExecutor accepts a finalized logical plan and returns a
// materialized table (spec §4.5).
type PlanExecutor interface {
	Execute(ctx context.Context, plan LogicalPlan) (*value.Table, error)
}

// NoOpExecutor is provided for contexts that must not run queries
// (e.g. a client-only planning pass); every call fails with a typed
// error (spec §4.5 "a NoOp executor ... returns a typed error").
type NoOpExecutor struct{}

func (NoOpExecutor) Execute(context.Context, LogicalPlan) (*value.Table, error) {
	return nil, vferrors.Internal("plan execution is disabled for this executor")
}

// Operator is a pull-based (volcano-style) plan iterator, generalizing
// the teacher's engine.Operator interface (Open/Next/Close) from
// storage-engine records to value.Row.
type Operator interface {
	Open(ctx context.Context) error
	Next(ctx context.Context) (value.Row, error)
	Close() error
}

type baseOperator struct {
	children []Operator
}

func (b *baseOperator) Open(ctx context.Context) error {
	for _, c := range b.children {
		if err := c.Open(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (b *baseOperator) Close() error {
	for _, c := range b.children {
		if err := c.Close(); err != nil {
			return err
		}
	}
	return nil
}

// InMemoryExecutor is the reference PlanExecutor: it compiles a
// LogicalPlan tree into a chain of pull operators and drains them,
// grounded on the teacher's volcano_executor.go Open/Next/Close
// iterator protocol.
type InMemoryExecutor struct{}

func (InMemoryExecutor) Execute(ctx context.Context, plan LogicalPlan) (*value.Table, error) {
	op, schema, err := buildOperator(plan)
	if err != nil {
		return nil, vferrors.Annotate(err, "while building operator tree for plan %s", plan.String())
	}
	if err := op.Open(ctx); err != nil {
		return nil, vferrors.Annotate(err, "while opening operator tree")
	}
	defer op.Close()

	var rows []value.Row
	for {
		row, err := op.Next(ctx)
		if err != nil {
			return nil, vferrors.Annotate(err, "while pulling rows from plan %s", plan.String())
		}
		if row == nil {
			break
		}
		rows = append(rows, row)
	}
	return &value.Table{Schema: schema, Rows: rows}, nil
}

func buildOperator(p LogicalPlan) (Operator, *value.Schema, error) {
	switch n := p.(type) {
	case *TableScan:
		return newScanOperator(n.Source), n.Source.Schema, nil
	case *Selection:
		childOp, schema, err := buildOperator(n.Children()[0])
		if err != nil {
			return nil, nil, err
		}
		return newFilterOperator(childOp, schema, n.Predicate), schema, nil
	case *Projection:
		childOp, childSchema, err := buildOperator(n.Children()[0])
		if err != nil {
			return nil, nil, err
		}
		return newProjectOperator(childOp, childSchema, n.Fields), n.Schema(), nil
	case *Sort:
		childOp, schema, err := buildOperator(n.Children()[0])
		if err != nil {
			return nil, nil, err
		}
		return newSortOperator(childOp, schema, n.Keys), schema, nil
	case *Limit:
		childOp, schema, err := buildOperator(n.Children()[0])
		if err != nil {
			return nil, nil, err
		}
		return newLimitOperator(childOp, n.N), schema, nil
	case *Aggregation:
		childOp, childSchema, err := buildOperator(n.Children()[0])
		if err != nil {
			return nil, nil, err
		}
		return newAggregateOperator(childOp, childSchema, n.GroupBy, n.Aggs), n.Schema(), nil
	case *Window:
		childOp, childSchema, err := buildOperator(n.Children()[0])
		if err != nil {
			return nil, nil, err
		}
		return newWindowOperator(childOp, childSchema, n.Schema(), n.Exprs), n.Schema(), nil
	case *Fold:
		childOp, childSchema, err := buildOperator(n.Children()[0])
		if err != nil {
			return nil, nil, err
		}
		return newFoldOperator(childOp, childSchema, n.Schema(), n.Fields, n.KeyName, n.ValueName), n.Schema(), nil
	case *Join:
		leftOp, leftSchema, err := buildOperator(n.Children()[0])
		if err != nil {
			return nil, nil, err
		}
		rightOp, rightSchema, err := buildOperator(n.Right)
		if err != nil {
			return nil, nil, err
		}
		return newJoinOperator(leftOp, rightOp, leftSchema, rightSchema, n.Type, n.LeftKey, n.RightKey), n.Schema(), nil
	default:
		return nil, nil, vferrors.Internal("plan node %T has no registered operator", p)
	}
}

// scanOperator replays the rows of an already-materialized table.
type scanOperator struct {
	baseOperator
	table *value.Table
	pos   int
}

func newScanOperator(t *value.Table) *scanOperator { return &scanOperator{table: t} }

func (s *scanOperator) Next(context.Context) (value.Row, error) {
	if s.pos >= len(s.table.Rows) {
		return nil, nil
	}
	row := s.table.Rows[s.pos]
	s.pos++
	return row, nil
}

// filterOperator pulls from child, skipping rows whose predicate is
// falsy, grounded on the teacher's FilterOperator.Next loop.
type filterOperator struct {
	baseOperator
	schema    *value.Schema
	predicate logicalexpr.Expr
}

func newFilterOperator(child Operator, schema *value.Schema, predicate logicalexpr.Expr) *filterOperator {
	return &filterOperator{baseOperator: baseOperator{children: []Operator{child}}, schema: schema, predicate: predicate}
}

func (f *filterOperator) Next(ctx context.Context) (value.Row, error) {
	for {
		row, err := f.children[0].Next(ctx)
		if err != nil || row == nil {
			return nil, err
		}
		keep, err := f.predicate.Eval(&logicalexpr.EvalContext{Row: row, Schema: f.schema})
		if err != nil {
			return nil, err
		}
		if keep.ToBool() {
			return row, nil
		}
	}
}

// projectOperator computes each output field in turn, grounded on the
// teacher's ProjectionOperator.
type projectOperator struct {
	baseOperator
	inSchema *value.Schema
	fields   []ProjectField
}

func newProjectOperator(child Operator, inSchema *value.Schema, fields []ProjectField) *projectOperator {
	return &projectOperator{baseOperator: baseOperator{children: []Operator{child}}, inSchema: inSchema, fields: fields}
}

func (p *projectOperator) Next(ctx context.Context) (value.Row, error) {
	row, err := p.children[0].Next(ctx)
	if err != nil || row == nil {
		return nil, err
	}
	out := make(value.Row, len(p.fields))
	for i, f := range p.fields {
		v, err := f.Expr.Eval(&logicalexpr.EvalContext{Row: row, Schema: p.inSchema})
		if err != nil {
			return nil, vferrors.Annotate(err, "while computing projected column %q", f.Alias)
		}
		out[i] = v
	}
	return out, nil
}

// sortOperator buffers all child rows then emits them in sorted order.
// A single-pass, no-spill implementation is appropriate here: plan
// inputs are task-graph intermediate tables, already memory-resident.
type sortOperator struct {
	baseOperator
	schema *value.Schema
	keys   []SortKey
	rows   []value.Row
	pos    int
	loaded bool
}

func newSortOperator(child Operator, schema *value.Schema, keys []SortKey) *sortOperator {
	return &sortOperator{baseOperator: baseOperator{children: []Operator{child}}, schema: schema, keys: keys}
}

func (s *sortOperator) Next(ctx context.Context) (value.Row, error) {
	if !s.loaded {
		for {
			row, err := s.children[0].Next(ctx)
			if err != nil {
				return nil, err
			}
			if row == nil {
				break
			}
			s.rows = append(s.rows, row)
		}
		sort.SliceStable(s.rows, func(i, j int) bool { return s.less(s.rows[i], s.rows[j]) })
		s.loaded = true
	}
	if s.pos >= len(s.rows) {
		return nil, nil
	}
	row := s.rows[s.pos]
	s.pos++
	return row, nil
}

func (s *sortOperator) less(a, b value.Row) bool {
	for _, k := range s.keys {
		av, _ := a.Get(s.schema, k.Field)
		bv, _ := b.Get(s.schema, k.Field)
		if av.IsNull() || bv.IsNull() {
			if av.IsNull() != bv.IsNull() {
				return (av.IsNull() == k.NullsFirst)
			}
			continue
		}
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

// limitOperator caps the number of rows pulled through.
type limitOperator struct {
	baseOperator
	n     int
	count int
}

func newLimitOperator(child Operator, n int) *limitOperator {
	return &limitOperator{baseOperator: baseOperator{children: []Operator{child}}, n: n}
}

func (l *limitOperator) Next(ctx context.Context) (value.Row, error) {
	if l.count >= l.n {
		return nil, nil
	}
	row, err := l.children[0].Next(ctx)
	if err != nil || row == nil {
		return nil, err
	}
	l.count++
	return row, nil
}
