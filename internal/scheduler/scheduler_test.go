package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"vegafusion-go/internal/dataframe"
	"vegafusion-go/internal/expr/ast"
	"vegafusion-go/internal/expr/parser"
	"vegafusion-go/internal/taskgraph"
	"vegafusion-go/internal/transforms"
	"vegafusion-go/internal/value"
)

func mustParseDatumExpr(t *testing.T, name string) ast.Node {
	t.Helper()
	node, err := parser.Parse(name)
	require.NoError(t, err)
	return node
}

func literalTask(name string, v value.Scalar, inputs ...taskgraph.InputVar) *taskgraph.Task {
	return &taskgraph.Task{
		Output:    taskgraph.ScopedVariable{Var: taskgraph.Variable{Namespace: taskgraph.NamespaceSignal, Name: name}},
		Kind:      taskgraph.TaskKind{Tag: taskgraph.TaskValue, Literal: value.NewScalarValue(v)},
		InputVars: inputs,
	}
}

func TestSchedulerEvaluatesRequestedNodes(t *testing.T) {
	a := literalTask("a", value.Int(10))
	b := literalTask("b", value.Int(20))

	graph, err := taskgraph.BuildTaskGraph([]*taskgraph.Task{a, b})
	require.NoError(t, err)

	sched := New(graph, Backend{}, 10, 0, nil, 0)
	results, err := sched.Evaluate(context.Background(), []taskgraph.NodeValueIndex{
		taskgraph.MainOutput(0),
		taskgraph.MainOutput(1),
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	v0, _ := results[0].AsScalar()
	v1, _ := results[1].AsScalar()
	require.Equal(t, int64(10), v0.Int)
	require.Equal(t, int64(20), v1.Int)
}

func TestSchedulerCachesAcrossRequests(t *testing.T) {
	a := literalTask("a", value.Int(1))
	graph, err := taskgraph.BuildTaskGraph([]*taskgraph.Task{a})
	require.NoError(t, err)

	sched := New(graph, Backend{}, 10, 0, nil, 0)
	_, err = sched.Evaluate(context.Background(), []taskgraph.NodeValueIndex{taskgraph.MainOutput(0)})
	require.NoError(t, err)
	_, err = sched.Evaluate(context.Background(), []taskgraph.NodeValueIndex{taskgraph.MainOutput(0)})
	require.NoError(t, err)
	require.Equal(t, uint64(1), sched.Cache.Stats.HitCount())
}

// A signal task declaring an input on another task's published extent
// signal must receive that auxiliary output, not the producer's main
// table output, exercising the edge (source_index, output_ordinal)
// wiring spec §3 documents for "pipelines with extent/bin/timeunit
// that publish side-channel signals".
func TestSchedulerWiresAuxiliaryOutputAsAnotherTasksInput(t *testing.T) {
	conn := dataframe.NewInMemoryConnection()
	schema := value.NewSchema(value.Field{Name: "a", Type: value.FieldFloat})
	conn.RegisterTable("nums", value.NewTable(schema, []value.Row{
		{value.Float(1)}, {value.Float(5)}, {value.Float(9)},
	}))

	dataTask := &taskgraph.Task{
		Output: taskgraph.ScopedVariable{Var: taskgraph.Variable{Namespace: taskgraph.NamespaceData, Name: "nums"}},
		Kind: taskgraph.TaskKind{
			Tag:           taskgraph.TaskDataSource,
			SourceDataset: "nums",
			SourcePipeline: &transforms.Pipeline{
				Stages: []transforms.Transform{&transforms.Extent{Field: "a", Signal: "a_extent"}},
			},
		},
	}
	echoTask := &taskgraph.Task{
		Output: taskgraph.ScopedVariable{Var: taskgraph.Variable{Namespace: taskgraph.NamespaceSignal, Name: "echo"}},
		Kind:   taskgraph.TaskKind{Tag: taskgraph.TaskSignal, Expr: mustParseDatumExpr(t, "a_extent")},
		InputVars: []taskgraph.InputVar{{
			Var: taskgraph.ScopedVariable{Var: taskgraph.Variable{Namespace: taskgraph.NamespaceSignal, Name: "a_extent"}},
		}},
	}

	graph, err := taskgraph.BuildTaskGraph([]*taskgraph.Task{dataTask, echoTask})
	require.NoError(t, err)
	require.Equal(t, 0, graph.Nodes[1].Edges[0].OutputOrdinal)

	sched := New(graph, Backend{Connection: conn}, 10, 0, nil, 0)
	results, err := sched.Evaluate(context.Background(), []taskgraph.NodeValueIndex{taskgraph.MainOutput(1)})
	require.NoError(t, err)
	s, _ := results[0].AsScalar()
	require.Equal(t, "[1,9]", s.ToStringValue())
}
