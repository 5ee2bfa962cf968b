package dataframe

import (
	"context"

	"vegafusion-go/internal/value"
)

// foldOperator pivots the wide Fields columns of each input row into
// len(Fields) long rows carrying (key, value) plus every column not
// being folded (spec §4.3 Fold).
type foldOperator struct {
	baseOperator
	inSchema, outSchema *value.Schema
	fields              []string
	keyName, valueName  string

	pending []value.Row
	cur     value.Row
	curIdx  int
}

func newFoldOperator(child Operator, inSchema, outSchema *value.Schema, fields []string, keyName, valueName string) *foldOperator {
	return &foldOperator{baseOperator: baseOperator{children: []Operator{child}}, inSchema: inSchema, outSchema: outSchema, fields: fields, keyName: keyName, valueName: valueName}
}

func (f *foldOperator) Next(ctx context.Context) (value.Row, error) {
	for f.curIdx >= len(f.fields) || f.cur == nil {
		row, err := f.children[0].Next(ctx)
		if err != nil {
			return nil, err
		}
		if row == nil {
			return nil, nil
		}
		f.cur = row
		f.curIdx = 0
	}
	field := f.fields[f.curIdx]
	f.curIdx++

	var out value.Row
	for _, fl := range f.inSchema.Fields {
		isFolded := false
		for _, fname := range f.fields {
			if fl.Name == fname {
				isFolded = true
				break
			}
		}
		if !isFolded {
			v, _ := f.cur.Get(f.inSchema, fl.Name)
			out = append(out, v)
		}
	}
	v, _ := f.cur.Get(f.inSchema, field)
	out = append(out, value.String(field), v)
	return out, nil
}
