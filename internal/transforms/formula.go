package transforms

import (
	"context"

	"vegafusion-go/internal/dataframe"
	"vegafusion-go/internal/expr/compiler"
	"vegafusion-go/internal/expr/parser"
	vferrors "vegafusion-go/internal/errors"
	"vegafusion-go/internal/logicalexpr"
	"vegafusion-go/internal/value"
)

// Formula compiles Expr, aliases it as As, and inserts it into the
// projection list — replacing an existing column of the same name in
// place to preserve column order, or appending a new one (spec §4.3
// Formula).
type Formula struct {
	defaultSupport
	Expr string
	As   string
}

func (f *Formula) Eval(ctx context.Context, df *dataframe.DataFrame, cfg *compiler.Config) (*dataframe.DataFrame, []Signal, error) {
	node, err := parser.Parse(f.Expr)
	if err != nil {
		return nil, nil, vferrors.Annotate(err, "while parsing formula expression %q", f.Expr)
	}
	exprCfg := *cfg
	exprCfg.Schema = df.Schema()
	compiled, err := compiler.Compile(node, &exprCfg)
	if err != nil {
		return nil, nil, vferrors.Annotate(err, "while compiling formula expression %q", f.Expr)
	}

	inSchema := df.Schema()
	outField := value.Field{Name: f.As, Type: compiled.Type()}
	outSchema := inSchema.WithField(outField)

	fields := make([]dataframe.ProjectField, 0, len(outSchema.Fields))
	replaced := false
	for _, fl := range inSchema.Fields {
		if fl.Name == f.As {
			fields = append(fields, dataframe.ProjectField{Alias: f.As, Expr: compiled})
			replaced = true
		} else {
			fields = append(fields, dataframe.ProjectField{Alias: fl.Name, Expr: logicalexpr.NewColumnRef(fl.Name, fl.Type)})
		}
	}
	if !replaced {
		fields = append(fields, dataframe.ProjectField{Alias: f.As, Expr: compiled})
	}
	return df.Select(outSchema, fields), nil, nil
}
