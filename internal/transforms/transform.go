// Package transforms implements the dataset transform pipeline of
// spec §4.3: each transform compiles its declarative parameters
// against a dataframe.DataFrame and an expr/compiler.Config, returning
// an extended dataframe plus any auxiliary signals it publishes.
package transforms

import (
	"context"
	"sort"

	"vegafusion-go/internal/dataframe"
	"vegafusion-go/internal/expr/compiler"
	"vegafusion-go/internal/value"
)

// Signal is one auxiliary output a transform publishes into the
// compilation scope for later pipeline stages (spec §4.3 "each stage
// may publish output signals").
type Signal struct {
	Name  string
	Value value.Scalar
}

// Transform is one pipeline stage: a spec (the concrete struct's own
// fields), a supported() predicate the planner consults before
// scheduling server-side execution, a rule for which output columns
// carry local-datetime semantics (consulted by the timezone-stringify
// pass), and the eval itself.
type Transform interface {
	// Supported reports whether this transform can run against df in
	// this backend; Lookup always returns false (spec §4.3).
	Supported(df *dataframe.DataFrame) bool
	// LocalDatetimeColumnsProduced names output columns holding a
	// timezone-naive local datetime, so downstream stringification
	// knows to attach the request's timezone rather than UTC.
	LocalDatetimeColumnsProduced() []string
	// Eval extends df per the transform's semantics and returns any
	// signals it publishes.
	Eval(ctx context.Context, df *dataframe.DataFrame, cfg *compiler.Config) (*dataframe.DataFrame, []Signal, error)
	// PublishedSignalNames names the signals this stage will publish,
	// statically known from the stage's own declared parameters (e.g.
	// Extent.Signal, Bin.SignalName). The graph builder consults this
	// to wire a task's auxiliary outputs to other tasks' declared
	// inputs without having to run the pipeline first.
	PublishedSignalNames() []string
}

// Pipeline threads a dataframe through an ordered list of transforms,
// inserting each stage's published signals into cfg.Scope before the
// next stage runs, and returning the terminal dataframe plus every
// published signal sorted by name (spec §4.3 "Transform pipeline").
type Pipeline struct {
	Stages []Transform
}

func (p *Pipeline) Eval(ctx context.Context, df *dataframe.DataFrame, cfg *compiler.Config) (*dataframe.DataFrame, []Signal, error) {
	var allSignals []Signal
	for _, stage := range p.Stages {
		var signals []Signal
		var err error
		df, signals, err = stage.Eval(ctx, df, cfg)
		if err != nil {
			return nil, nil, err
		}
		for _, s := range signals {
			if cfg.Scope == nil {
				cfg.Scope = map[string]value.Scalar{}
			}
			cfg.Scope[s.Name] = s.Value
			allSignals = append(allSignals, s)
		}
	}
	sort.Slice(allSignals, func(i, j int) bool { return allSignals[i].Name < allSignals[j].Name })
	return df, allSignals, nil
}

// defaultSupport is embedded by transforms that are always supported
// and produce no local-datetime columns, to avoid repeating the two
// trivial methods on every transform type.
type defaultSupport struct{}

func (defaultSupport) Supported(*dataframe.DataFrame) bool    { return true }
func (defaultSupport) LocalDatetimeColumnsProduced() []string { return nil }
func (defaultSupport) PublishedSignalNames() []string         { return nil }

// PublishedSignalNames collects every stage's published signal names,
// sorted, mirroring the order Pipeline.Eval itself returns them in.
func (p *Pipeline) PublishedSignalNames() []string {
	var names []string
	for _, stage := range p.Stages {
		names = append(names, stage.PublishedSignalNames()...)
	}
	sort.Strings(names)
	return names
}
