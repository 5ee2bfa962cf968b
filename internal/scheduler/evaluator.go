// Package scheduler implements the async, single-flight task graph
// evaluator of spec §4.4/§5: launches node evaluators in topological
// order, shares in-flight work through internal/cache, and returns
// requested values in request order.
package scheduler

import (
	"context"
	"sort"

	"vegafusion-go/internal/dataframe"
	"vegafusion-go/internal/expr/compiler"
	"vegafusion-go/internal/logicalexpr"
	"vegafusion-go/internal/taskgraph"
	"vegafusion-go/internal/transforms"
	"vegafusion-go/internal/value"
)

// Backend supplies the connection DataUrl/DataSource tasks scan their
// datasets from (spec §4.5). Executor is not consulted: evaluateNode,
// and the transforms that materialize intermediate tables, always run
// plans with dataframe.InMemoryExecutor.
type Backend struct {
	Connection dataframe.Connection
	Executor   dataframe.PlanExecutor
}

// evaluateNode dispatches on the task's kind, compiling expressions and
// building/executing a plan as needed (spec §5 "compile expressions,
// build a plan, await plan execution, assemble outputs").
func evaluateNode(ctx context.Context, backend Backend, t *taskgraph.Task, inputs []value.TaskValue) (taskgraph.EvalResult, error) {
	switch t.Kind.Tag {
	case taskgraph.TaskValue:
		return taskgraph.EvalResult{Main: t.Kind.Literal}, nil

	case taskgraph.TaskDataValues:
		df := dataframe.FromTable(mustTable(t.Kind.InlineValues))
		return runPipeline(ctx, df, t.Kind.ValuesPipeline)

	case taskgraph.TaskDataSource:
		df, err := backend.Connection.Scan(ctx, t.Kind.SourceDataset)
		if err != nil {
			return taskgraph.EvalResult{}, err
		}
		return runPipeline(ctx, df, t.Kind.SourcePipeline)

	case taskgraph.TaskDataURL:
		url := t.Kind.URL
		if t.Kind.URLSignal != nil && len(inputs) > 0 {
			url = inputs[0].Scalar.ToStringValue()
		}
		df, err := backend.Connection.Scan(ctx, url)
		if err != nil {
			return taskgraph.EvalResult{}, err
		}
		return runPipeline(ctx, df, t.Kind.URLPipeline)

	case taskgraph.TaskSignal:
		cfg := &compiler.Config{Scope: map[string]value.Scalar{}}
		for i, iv := range t.InputVars {
			if i < len(inputs) && inputs[i].IsScalar() {
				cfg.Scope[iv.Var.Var.Name] = inputs[i].Scalar
			}
		}
		expr, err := compiler.Compile(t.Kind.Expr, cfg)
		if err != nil {
			return taskgraph.EvalResult{}, err
		}
		v, err := expr.Eval(&logicalexpr.EvalContext{})
		if err != nil {
			return taskgraph.EvalResult{}, err
		}
		return taskgraph.EvalResult{Main: value.NewScalarValue(v)}, nil

	default:
		return taskgraph.EvalResult{}, nil
	}
}

func mustTable(tv value.TaskValue) *value.Table {
	t, _ := tv.AsTable()
	return t
}

// runPipeline materializes a dataframe produced by a DataUrl/
// DataValues/DataSource task through its optional pipeline, returning
// the final table as the main output and its published signals as
// auxiliary outputs sorted by name (the same order Pipeline.Eval
// already guarantees, spec §5 "Output signals of a pipeline are
// returned sorted by variable name").
func runPipeline(ctx context.Context, df *dataframe.DataFrame, pipeline *transforms.Pipeline) (taskgraph.EvalResult, error) {
	if pipeline == nil || len(pipeline.Stages) == 0 {
		tbl, err := (dataframe.InMemoryExecutor{}).Execute(ctx, df.Plan())
		if err != nil {
			return taskgraph.EvalResult{}, err
		}
		return taskgraph.EvalResult{Main: value.NewTableValue(tbl)}, nil
	}

	cfg := &compiler.Config{Scope: map[string]value.Scalar{}}
	finalDf, signals, err := pipeline.Eval(ctx, df, cfg)
	if err != nil {
		return taskgraph.EvalResult{}, err
	}
	tbl, err := (dataframe.InMemoryExecutor{}).Execute(ctx, finalDf.Plan())
	if err != nil {
		return taskgraph.EvalResult{}, err
	}

	sort.Slice(signals, func(i, j int) bool { return signals[i].Name < signals[j].Name })
	aux := make([]value.TaskValue, len(signals))
	for i, s := range signals {
		aux[i] = value.NewScalarValue(s.Value)
	}
	return taskgraph.EvalResult{Main: value.NewTableValue(tbl), Auxiliary: aux}, nil
}
