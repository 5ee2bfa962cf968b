package taskgraph

import "vegafusion-go/internal/value"

// EvalResult is a node evaluator's return: the main output plus zero
// or more auxiliary outputs, addressed by NodeValueIndex.Output (spec
// §3 "a task may emit the main output plus auxiliary signal outputs").
type EvalResult struct {
	Main      value.TaskValue
	Auxiliary []value.TaskValue
}
