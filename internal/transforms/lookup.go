package transforms

import (
	"context"

	"vegafusion-go/internal/dataframe"
	vferrors "vegafusion-go/internal/errors"
	"vegafusion-go/internal/expr/compiler"
)

// Lookup joins rows of a secondary dataset by key; it always reports
// Supported() == false because the secondary dataset is resolved by
// name against a client-side data registry the pipeline evaluator
// does not have access to (spec §4.3 Lookup: declares a dataset
// dependency without implementing server-side evaluation).
type Lookup struct {
	Dataset string
	Key     string
	Fields  []string
	As      []string
}

func (l *Lookup) Supported(df *dataframe.DataFrame) bool { return false }

func (l *Lookup) LocalDatetimeColumnsProduced() []string { return nil }

func (l *Lookup) PublishedSignalNames() []string { return nil }

func (l *Lookup) Eval(ctx context.Context, df *dataframe.DataFrame, cfg *compiler.Config) (*dataframe.DataFrame, []Signal, error) {
	return nil, nil, vferrors.SQLNotSupported("lookup transform against dataset %q must be evaluated client-side", l.Dataset)
}
