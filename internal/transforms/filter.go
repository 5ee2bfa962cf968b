package transforms

import (
	"context"

	"vegafusion-go/internal/dataframe"
	"vegafusion-go/internal/expr/compiler"
	"vegafusion-go/internal/expr/parser"
	vferrors "vegafusion-go/internal/errors"
)

// Filter compiles Expr, coerces its result to boolean (null treated as
// false), and applies it as the row predicate (spec §4.3 Filter).
type Filter struct {
	defaultSupport
	Expr string
}

func (f *Filter) Eval(ctx context.Context, df *dataframe.DataFrame, cfg *compiler.Config) (*dataframe.DataFrame, []Signal, error) {
	node, err := parser.Parse(f.Expr)
	if err != nil {
		return nil, nil, vferrors.Annotate(err, "while parsing filter expression %q", f.Expr)
	}
	predCfg := *cfg
	predCfg.Schema = df.Schema()
	pred, err := compiler.Compile(node, &predCfg)
	if err != nil {
		return nil, nil, vferrors.Annotate(err, "while compiling filter expression %q", f.Expr)
	}
	return df.Filter(pred), nil, nil
}
