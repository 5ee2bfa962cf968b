package scheduler

import (
	"context"
	"sync"

	gxsync "github.com/dubbogo/gost/sync"

	"vegafusion-go/internal/cache"
	vferrors "vegafusion-go/internal/errors"
	"vegafusion-go/internal/taskgraph"
	"vegafusion-go/internal/value"
)

// Scheduler evaluates requested NodeValueIndexes against a TaskGraph,
// sharing in-flight and completed results through a fingerprint cache
// and running independent branches concurrently on a worker pool
// (spec §4.4 Scheduler contract, §5 Concurrency & resource model).
type Scheduler struct {
	Graph   *taskgraph.TaskGraph
	Backend Backend
	Cache   *cache.Cache
	pool    gxsync.GenericTaskPool
}

// New builds a Scheduler with a worker pool sized per poolSize (0 lets
// the pool grow unbounded, matching the teacher's
// gxsync.NewTaskPoolSimple(0) convention for its session dispatch
// pool) and a cache bounded by maxEntries/maxBytes.
func New(graph *taskgraph.TaskGraph, backend Backend, maxEntries, maxBytes int, sizeOf cache.SizeOf, poolSize int) *Scheduler {
	return &Scheduler{
		Graph:   graph,
		Backend: backend,
		Cache:   cache.New(maxEntries, maxBytes, sizeOf),
		pool:    gxsync.NewTaskPoolSimple(poolSize),
	}
}

// nodeOutcome is the completed state of one graph node: its main value
// plus auxiliary outputs, or an error if evaluation failed.
type nodeOutcome struct {
	result taskgraph.EvalResult
	err    error
}

// Evaluate computes every requested NodeValueIndex by first taking the
// transitive closure of dependencies, then launching each node's
// evaluator once its inputs are ready, honoring cancellation at every
// suspension point (spec §4.4 steps 1-5, §5 "Suspension points").
func (s *Scheduler) Evaluate(ctx context.Context, requested []taskgraph.NodeValueIndex) ([]value.TaskValue, error) {
	closure := s.Graph.TransitiveClosure(requested)

	done := make(map[int]chan struct{}, len(closure))
	for _, i := range closure {
		done[i] = make(chan struct{})
	}

	var mu sync.Mutex
	outcomes := make(map[int]nodeOutcome, len(closure))

	setOutcome := func(i int, o nodeOutcome) {
		mu.Lock()
		outcomes[i] = o
		mu.Unlock()
		close(done[i])
	}
	getOutcome := func(i int) nodeOutcome {
		mu.Lock()
		defer mu.Unlock()
		return outcomes[i]
	}

	var wg sync.WaitGroup
	for _, idx := range closure {
		idx := idx
		wg.Add(1)
		dispatch := func() {
			defer wg.Done()
			node := s.Graph.Nodes[idx]

			// Await every dependency's completion before evaluating this
			// node; independent branches proceed in parallel because each
			// only blocks on its own inputs (spec §5 "independent branches
			// run in parallel").
			for _, e := range node.Edges {
				select {
				case <-done[e.SourceIndex]:
				case <-ctx.Done():
					setOutcome(idx, nodeOutcome{err: vferrors.Cancelled("node %d cancelled waiting on dependency %d", idx, e.SourceIndex)})
					return
				}
			}

			inputs := make([]value.TaskValue, len(node.Edges))
			for j, e := range node.Edges {
				dep := getOutcome(e.SourceIndex)
				if dep.err != nil {
					setOutcome(idx, nodeOutcome{err: vferrors.Annotate(dep.err, "while evaluating dependency of node %d", idx)})
					return
				}
				if e.OutputOrdinal < 0 {
					inputs[j] = dep.result.Main
					continue
				}
				if e.OutputOrdinal >= len(dep.result.Auxiliary) {
					setOutcome(idx, nodeOutcome{err: vferrors.Internal(
						"node %d has no auxiliary output %d (dependency of node %d)", e.SourceIndex, e.OutputOrdinal, idx)})
					return
				}
				inputs[j] = dep.result.Auxiliary[e.OutputOrdinal]
			}

			v, err := s.Cache.GetOrCompute(ctx, uint64(node.Fingerprint), func(ctx context.Context) (interface{}, error) {
				return evaluateNode(ctx, s.Backend, node.Task, inputs)
			})
			if err != nil {
				setOutcome(idx, nodeOutcome{err: vferrors.Annotate(err, "while evaluating node %d (%s)", idx, node.Task.Output)})
				return
			}
			setOutcome(idx, nodeOutcome{result: v.(taskgraph.EvalResult)})
		}
		s.pool.AddTask(dispatch)
	}
	wg.Wait()

	out := make([]value.TaskValue, len(requested))
	for i, r := range requested {
		o := getOutcome(r.Node)
		if o.err != nil {
			return nil, o.err
		}
		if r.Output == nil {
			out[i] = o.result.Main
			continue
		}
		ord := *r.Output
		if ord < 0 || ord >= len(o.result.Auxiliary) {
			return nil, vferrors.Internal("node %d has no auxiliary output %d", r.Node, ord)
		}
		out[i] = o.result.Auxiliary[ord]
	}
	return out, nil
}
