package transforms

import (
	"context"

	"vegafusion-go/internal/dataframe"
	"vegafusion-go/internal/expr/compiler"
	"vegafusion-go/internal/value"
)

// Fold pivots Fields from wide to long, emitting one row per
// (input row, folded field) pair with KeyAs holding the field name and
// ValueAs holding its value (spec §4.3 Fold).
type Fold struct {
	defaultSupport
	Fields  []string
	KeyAs   string // defaults to "key"
	ValueAs string // defaults to "value"
}

func (f *Fold) Eval(ctx context.Context, df *dataframe.DataFrame, cfg *compiler.Config) (*dataframe.DataFrame, []Signal, error) {
	keyName := f.KeyAs
	if keyName == "" {
		keyName = "key"
	}
	valueName := f.ValueAs
	if valueName == "" {
		valueName = "value"
	}

	inSchema := df.Schema()
	folded := map[string]bool{}
	for _, name := range f.Fields {
		folded[name] = true
	}

	var fields []value.Field
	for _, fl := range inSchema.Fields {
		if !folded[fl.Name] {
			fields = append(fields, fl)
		}
	}
	fields = append(fields,
		value.Field{Name: keyName, Type: value.FieldString},
		value.Field{Name: valueName, Type: value.FieldFloat},
	)
	outSchema := value.NewSchema(fields...)
	return df.Fold(outSchema, f.Fields, keyName, valueName), nil, nil
}
