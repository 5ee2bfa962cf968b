package taskgraph

import (
	"vegafusion-go/internal/expr/ast"
	"vegafusion-go/internal/transforms"
	"vegafusion-go/internal/value"
)

// TaskKindTag discriminates the TaskKind sum type (spec §3 TaskKind
// variants).
type TaskKindTag int

const (
	TaskValue TaskKindTag = iota
	TaskDataURL
	TaskDataValues
	TaskDataSource
	TaskSignal
)

func (k TaskKindTag) String() string {
	switch k {
	case TaskValue:
		return "value"
	case TaskDataURL:
		return "data_url"
	case TaskDataValues:
		return "data_values"
	case TaskDataSource:
		return "data_source"
	case TaskSignal:
		return "signal"
	default:
		return "unknown"
	}
}

// TaskKind is a tagged union over the five evaluator shapes a task may
// take (spec §3). Exactly the fields relevant to Tag are populated;
// the rest are left zero, the same pattern the compiler package uses
// for ast.Node's own variant fields.
type TaskKind struct {
	Tag TaskKindTag

	// TaskValue
	Literal value.TaskValue

	// TaskDataURL
	URL        string   // literal URL, empty when URLSignal is set
	URLSignal  *Variable // indirect: url comes from a signal instead of a literal
	Format     string    // format hint: csv, json, arrow, parquet
	URLPipeline *transforms.Pipeline

	// TaskDataValues
	InlineValues  value.TaskValue
	ValuesPipeline *transforms.Pipeline

	// TaskDataSource
	SourceDataset    string
	SourcePipeline   *transforms.Pipeline

	// TaskSignal
	Expr ast.Node
}

// InputVar is one of a Task's declared inputs (spec §3 "declared input
// variables, each marked propagate=true if the caller must forward its
// value when evaluating children").
type InputVar struct {
	Var       ScopedVariable
	Propagate bool
}

// Task is an immutable record pairing a scoped output variable with
// its evaluation kind, declared inputs, and an optional timezone
// config (spec §3 Task).
type Task struct {
	Output    ScopedVariable
	Kind      TaskKind
	InputVars []InputVar
	TzConfig  *RuntimeTzConfig
}

// Pipeline returns the transform pipeline this task's kind carries, or
// nil for kinds with none (TaskValue, TaskSignal).
func (t *Task) Pipeline() *transforms.Pipeline {
	switch t.Kind.Tag {
	case TaskDataURL:
		return t.Kind.URLPipeline
	case TaskDataValues:
		return t.Kind.ValuesPipeline
	case TaskDataSource:
		return t.Kind.SourcePipeline
	default:
		return nil
	}
}

// InputVariables returns the task's declared input variables in
// declared order, the order fingerprinting and evaluator dispatch
// both depend on (spec §4.4 "receives only the values of its declared
// inputs ... in declared order").
func (t *Task) InputVariables() []ScopedVariable {
	out := make([]ScopedVariable, len(t.InputVars))
	for i, iv := range t.InputVars {
		out[i] = iv.Var
	}
	return out
}
