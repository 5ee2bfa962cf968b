package taskgraph

import (
	"testing"

	"github.com/stretchr/testify/require"

	"vegafusion-go/internal/transforms"
	"vegafusion-go/internal/value"
)

func valueTask(name string, v value.Scalar, inputs ...InputVar) *Task {
	return &Task{
		Output:    ScopedVariable{Var: Variable{Namespace: NamespaceSignal, Name: name}},
		Kind:      TaskKind{Tag: TaskValue, Literal: value.NewScalarValue(v)},
		InputVars: inputs,
	}
}

func TestBuildTaskGraphResolvesInputsAndFingerprints(t *testing.T) {
	a := valueTask("a", value.Int(1))
	b := valueTask("b", value.Int(2), InputVar{
		Var:       ScopedVariable{Var: Variable{Namespace: NamespaceSignal, Name: "a"}},
		Propagate: true,
	})

	g, err := BuildTaskGraph([]*Task{a, b})
	require.NoError(t, err)
	require.Len(t, g.Nodes, 2)
	require.Equal(t, 0, g.Nodes[1].Edges[0].SourceIndex)
	require.NotEqual(t, g.Nodes[0].Fingerprint, g.Nodes[1].Fingerprint)
}

func TestBuildTaskGraphMissingInputErrors(t *testing.T) {
	b := valueTask("b", value.Int(2), InputVar{
		Var: ScopedVariable{Var: Variable{Namespace: NamespaceSignal, Name: "missing"}},
	})
	_, err := BuildTaskGraph([]*Task{b})
	require.Error(t, err)
}

func TestScopeChainInnermostWins(t *testing.T) {
	idx := newScopedIndex()
	v := Variable{Namespace: NamespaceSignal, Name: "x"}
	idx.register(ScopedVariable{Var: v, Scope: nil}, 0)
	idx.register(ScopedVariable{Var: v, Scope: []uint32{1}}, 1)

	node, _, ok := idx.resolve(v, []uint32{1, 2})
	require.True(t, ok)
	require.Equal(t, 1, node)

	node, _, ok = idx.resolve(v, []uint32{5})
	require.True(t, ok)
	require.Equal(t, 0, node)
}

func TestTransitiveClosure(t *testing.T) {
	a := valueTask("a", value.Int(1))
	b := valueTask("b", value.Int(2), InputVar{
		Var: ScopedVariable{Var: Variable{Namespace: NamespaceSignal, Name: "a"}},
	})
	c := valueTask("c", value.Int(3))

	g, err := BuildTaskGraph([]*Task{a, b, c})
	require.NoError(t, err)

	closure := g.TransitiveClosure([]NodeValueIndex{MainOutput(1)})
	require.Equal(t, []int{0, 1}, closure)
}

func TestFingerprintDeterministic(t *testing.T) {
	a1 := valueTask("a", value.Int(1))
	a2 := valueTask("a", value.Int(1))
	g1, err := BuildTaskGraph([]*Task{a1})
	require.NoError(t, err)
	g2, err := BuildTaskGraph([]*Task{a2})
	require.NoError(t, err)
	require.Equal(t, g1.Nodes[0].Fingerprint, g2.Nodes[0].Fingerprint)
}

// Two TaskDataSource tasks with the same source dataset and the same
// stage count, but structurally different filter predicates, must not
// collide: the fingerprint is the cache/single-flight key (spec §3,
// §4.4) and a collision here would silently serve one pipeline's
// cached result for the other's request.
func TestFingerprintDistinguishesPipelineContent(t *testing.T) {
	sourceTask := func(expr string) *Task {
		return &Task{
			Output: ScopedVariable{Var: Variable{Namespace: NamespaceData, Name: "d"}},
			Kind: TaskKind{
				Tag:           TaskDataSource,
				SourceDataset: "people",
				SourcePipeline: &transforms.Pipeline{
					Stages: []transforms.Transform{
						&transforms.Filter{Expr: expr},
						&transforms.Aggregate{Fields: []transforms.AggregateField{{Op: "sum", Field: "age", As: "total"}}},
					},
				},
			},
		}
	}

	g1, err := BuildTaskGraph([]*Task{sourceTask("datum.a > 5")})
	require.NoError(t, err)
	g2, err := BuildTaskGraph([]*Task{sourceTask("datum.a < 5")})
	require.NoError(t, err)
	require.NotEqual(t, g1.Nodes[0].Fingerprint, g2.Nodes[0].Fingerprint)
}
