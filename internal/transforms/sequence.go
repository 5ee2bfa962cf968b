package transforms

import (
	"context"

	"vegafusion-go/internal/dataframe"
	vferrors "vegafusion-go/internal/errors"
	"vegafusion-go/internal/expr/compiler"
	"vegafusion-go/internal/value"
)

// Sequence generates a numeric table from Start (inclusive) to Stop
// (exclusive) in increments of Step, ignoring the input dataframe
// (spec §4.3 Sequence: a source transform, not a row-wise one).
type Sequence struct {
	defaultSupport
	Start, Stop, Step float64
	As                string // defaults to "data"
}

func (s *Sequence) Eval(ctx context.Context, df *dataframe.DataFrame, cfg *compiler.Config) (*dataframe.DataFrame, []Signal, error) {
	step := s.Step
	if step == 0 {
		// Step inferred as sign(stop-start) when omitted (spec §4.3
		// Sequence), so a descending range like Start:10 Stop:0 defaults
		// to step=-1 instead of always defaulting to step=1.
		if s.Stop >= s.Start {
			step = 1
		} else {
			step = -1
		}
	}
	if (step > 0 && s.Start >= s.Stop) || (step < 0 && s.Start <= s.Stop) {
		return nil, nil, vferrors.Compilation("sequence: start/stop/step produce an empty or infinite range")
	}
	colName := s.As
	if colName == "" {
		colName = "data"
	}

	schema := value.NewSchema(value.Field{Name: colName, Type: value.FieldFloat})
	var rows []value.Row
	if step > 0 {
		for x := s.Start; x < s.Stop; x += step {
			rows = append(rows, value.Row{value.Float(x)})
		}
	} else {
		for x := s.Start; x > s.Stop; x += step {
			rows = append(rows, value.Row{value.Float(x)})
		}
	}
	tbl := value.NewTable(schema, rows)
	return dataframe.FromTable(tbl), nil, nil
}
