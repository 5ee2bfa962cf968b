package taskgraph

import (
	"sort"

	vferrors "vegafusion-go/internal/errors"
)

// Edge is an incoming dependency edge into a node, addressing either
// the source node's main output or one of its auxiliary outputs (spec
// §3 TaskGraph: "a task may emit the main output plus auxiliary
// signal outputs").
type Edge struct {
	SourceIndex  int
	OutputOrdinal int // -1 selects the main output
}

// Node is one entry of a TaskGraph: a Task plus its resolved incoming
// edges, in the same order as Task.InputVars, and the node's own
// fingerprint (spec §3 TaskGraph / Fingerprint).
type Node struct {
	Task        *Task
	Edges       []Edge
	Fingerprint Fingerprint
}

// NodeValueIndex addresses either a node's main output (Output == nil)
// or one of its auxiliary outputs (spec §3 NodeValueIndex).
type NodeValueIndex struct {
	Node   int
	Output *int
}

func MainOutput(node int) NodeValueIndex { return NodeValueIndex{Node: node} }
func AuxOutput(node, ordinal int) NodeValueIndex {
	o := ordinal
	return NodeValueIndex{Node: node, Output: &o}
}

// TaskGraph is a topologically ordered, content-fingerprinted DAG of
// tasks (spec §3 TaskGraph, §4.4 "Graph construction sorts tasks
// topologically and assigns per-node fingerprints").
type TaskGraph struct {
	Nodes []Node
}

// scopedIndex is a lookup table from ScopedVariable to the node that
// produces it, consulted while resolving declared inputs.
type scopedIndex struct {
	byVar map[Variable][]entry
}

// entry records one producer of a Variable: its node index and which
// output ordinal publishes it (-1 for the node's main output, >=0 for
// one of its auxiliary signal outputs, spec §3 "a task may emit the
// main output plus auxiliary signal outputs").
type entry struct {
	scope   []uint32
	node    int
	ordinal int
}

func newScopedIndex() *scopedIndex {
	return &scopedIndex{byVar: map[Variable][]entry{}}
}

func (s *scopedIndex) register(sv ScopedVariable, node int) {
	s.registerOutput(sv, node, -1)
}

func (s *scopedIndex) registerOutput(sv ScopedVariable, node, ordinal int) {
	s.byVar[sv.Var] = append(s.byVar[sv.Var], entry{scope: sv.Scope, node: node, ordinal: ordinal})
}

// resolve implements "innermost wins": among registered producers of
// v, pick the one whose scope is the longest prefix match of
// fromScope (spec §4.4 "looked up in the enclosing scope chain
// (innermost wins)"). It returns both the producer's node index and
// the output ordinal (-1 for main) that publishes v, so that a task
// declaring a dependency on another task's auxiliary signal output
// (e.g. an extent transform's published signal) resolves to that
// output specifically rather than always the producer's main output.
func (s *scopedIndex) resolve(v Variable, fromScope []uint32) (node, ordinal int, ok bool) {
	best := -1
	bestOrdinal := -1
	bestLen := -1
	for _, e := range s.byVar[v] {
		if !isPrefix(e.scope, fromScope) {
			continue
		}
		if len(e.scope) > bestLen {
			bestLen = len(e.scope)
			best = e.node
			bestOrdinal = e.ordinal
		}
	}
	if best < 0 {
		return 0, 0, false
	}
	return best, bestOrdinal, true
}

func isPrefix(prefix, scope []uint32) bool {
	if len(prefix) > len(scope) {
		return false
	}
	for i, p := range prefix {
		if scope[i] != p {
			return false
		}
	}
	return true
}

// BuildTaskGraph assigns each task its topological index (tasks must
// already be supplied in an order where every dependency precedes its
// dependents — the planner that constructs the chart's task list owns
// that ordering), resolves input edges via scope-chain lookup, and
// computes fingerprints bottom-up (spec §4.4 "Graph construction
// sorts tasks topologically and assigns per-node fingerprints").
func BuildTaskGraph(tasks []*Task) (*TaskGraph, error) {
	index := newScopedIndex()
	nodes := make([]Node, len(tasks))

	for i, t := range tasks {
		edges := make([]Edge, len(t.InputVars))
		fps := make([]Fingerprint, len(t.InputVars))
		for j, iv := range t.InputVars {
			srcNode, ordinal, ok := index.resolve(iv.Var.Var, iv.Var.Scope)
			if !ok {
				return nil, vferrors.Specification(
					"task graph: no earlier node satisfies input variable %s required by %s",
					iv.Var, t.Output)
			}
			edges[j] = Edge{SourceIndex: srcNode, OutputOrdinal: ordinal}
			fps[j] = nodes[srcNode].Fingerprint
		}
		nodes[i] = Node{
			Task:        t,
			Edges:       edges,
			Fingerprint: fingerprintTask(t, fps),
		}
		index.register(t.Output, i)

		// A task's pipeline may publish auxiliary signals (extent, bin,
		// timeUnit) whose names are statically known from the pipeline's
		// own stage parameters; register each under the task's output
		// scope so a later task can declare an input on that signal and
		// have it resolve to this node's auxiliary output rather than its
		// main output (spec §3 "a task may emit the main output plus
		// auxiliary signal outputs").
		if p := t.Pipeline(); p != nil {
			for ordinal, name := range p.PublishedSignalNames() {
				sv := ScopedVariable{Var: Variable{Namespace: NamespaceSignal, Name: name}, Scope: t.Output.Scope}
				index.registerOutput(sv, i, ordinal)
			}
		}
	}

	g := &TaskGraph{Nodes: nodes}
	if err := g.checkAcyclic(); err != nil {
		return nil, err
	}
	return g, nil
}

// checkAcyclic verifies every edge points to a strictly earlier index,
// which combined with BuildTaskGraph's resolve-before-register
// construction is sufficient to guarantee acyclicity (spec §3 TaskGraph
// invariant "acyclic").
func (g *TaskGraph) checkAcyclic() error {
	for i, n := range g.Nodes {
		for _, e := range n.Edges {
			if e.SourceIndex >= i {
				return vferrors.Internal("task graph: node %d has a non-backward edge to %d", i, e.SourceIndex)
			}
		}
	}
	return nil
}

// TransitiveClosure returns the sorted set of node indices that must
// be evaluated to produce every value in requested, including the
// requested nodes themselves (spec §4.4 scheduler contract step 1).
func (g *TaskGraph) TransitiveClosure(requested []NodeValueIndex) []int {
	seen := map[int]bool{}
	var visit func(i int)
	visit = func(i int) {
		if seen[i] {
			return
		}
		seen[i] = true
		for _, e := range g.Nodes[i].Edges {
			visit(e.SourceIndex)
		}
	}
	for _, r := range requested {
		visit(r.Node)
	}
	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}
