// Command vfrun loads a small fixture task graph, evaluates the
// requested node values through a scheduler.Scheduler, and prints the
// results — a thin end-to-end harness for the engine, in the spirit of
// the teacher's own cmd/demo_executor ad hoc runner, generalized from a
// hardcoded storage-engine demo to a task-graph evaluation demo.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"vegafusion-go/internal/cache"
	"vegafusion-go/internal/config"
	"vegafusion-go/internal/logging"
	"vegafusion-go/internal/scheduler"
	"vegafusion-go/internal/taskgraph"
	"vegafusion-go/internal/transforms"
	"vegafusion-go/internal/value"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML runtime config file (defaults built in if omitted)")
	threshold := flag.Float64("threshold", 20, "minimum age kept by the fixture pipeline's filter stage")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}

	if err := logging.Init(logging.Config{LogLevel: cfg.LogLevel}); err != nil {
		log.Fatalf("initializing logging: %v", err)
	}

	graph, requested, err := buildFixtureGraph(*threshold)
	if err != nil {
		log.Fatalf("building task graph: %v", err)
	}

	sched := scheduler.New(graph, scheduler.Backend{}, cfg.Cache.MaxEntries, cfg.Cache.MaxBytes, cache.TaskValueSizeOf, cfg.Scheduler.PoolSize)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeoutDuration())
	defer cancel()

	results, err := sched.Evaluate(ctx, requested)
	if err != nil {
		log.Fatalf("evaluating task graph: %v", err)
	}

	for i, r := range results {
		printResult(i, r)
	}
}

// buildFixtureGraph builds a one-node graph: an inline dataset of rows
// {name, age} with a pipeline (filter age >= threshold, then row count),
// and returns the NodeValueIndex of that node's main output, the
// one-row count table.
func buildFixtureGraph(threshold float64) (*taskgraph.TaskGraph, []taskgraph.NodeValueIndex, error) {
	schema := value.NewSchema(
		value.Field{Name: "name", Type: value.FieldString},
		value.Field{Name: "age", Type: value.FieldInt},
	)
	rows := []value.Row{
		{value.String("alice"), value.Int(34)},
		{value.String("bob"), value.Int(19)},
		{value.String("carol"), value.Int(41)},
		{value.String("dave"), value.Int(17)},
	}
	inline := value.NewTableValue(value.NewTable(schema, rows))

	pipeline := &transforms.Pipeline{
		Stages: []transforms.Transform{
			&transforms.Filter{Expr: fmt.Sprintf("datum.age >= %g", threshold)},
			&transforms.Aggregate{Fields: []transforms.AggregateField{{Op: "count", As: "kept"}}},
		},
	}

	dataTask := &taskgraph.Task{
		Output: taskgraph.ScopedVariable{Var: taskgraph.Variable{Namespace: taskgraph.NamespaceData, Name: "people"}},
		Kind:   taskgraph.TaskKind{Tag: taskgraph.TaskDataValues, InlineValues: inline, ValuesPipeline: pipeline},
	}

	graph, err := taskgraph.BuildTaskGraph([]*taskgraph.Task{dataTask})
	if err != nil {
		return nil, nil, err
	}
	return graph, []taskgraph.NodeValueIndex{taskgraph.MainOutput(0)}, nil
}

func printResult(i int, v value.TaskValue) {
	if v.IsScalar() {
		s, _ := v.AsScalar()
		fmt.Printf("result[%d] = %s\n", i, s.ToStringValue())
		return
	}
	t, err := v.AsTable()
	if err != nil {
		fmt.Printf("result[%d] = <error: %v>\n", i, err)
		return
	}
	fmt.Printf("result[%d] = table(%d rows, columns=%v)\n", i, t.NumRows(), t.Schema.Names())
	for _, row := range t.Rows {
		fmt.Printf("  %v\n", row)
	}
}
