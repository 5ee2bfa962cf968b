package dataframe

import (
	"context"

	"vegafusion-go/internal/value"
)

// joinOperator implements a simple hash join keyed on LeftKey/RightKey
// equality, executing plans built by DataFrame.Join. No transform in
// this module builds a Join plan.
type joinOperator struct {
	baseOperator
	leftSchema, rightSchema *value.Schema
	leftKey, rightKey       string
	typ                     JoinType

	rightRows []value.Row
	rightByKey map[string][]value.Row
	loaded    bool
}

func newJoinOperator(left, right Operator, leftSchema, rightSchema *value.Schema, typ JoinType, leftKey, rightKey string) *joinOperator {
	return &joinOperator{
		baseOperator: baseOperator{children: []Operator{left, right}},
		leftSchema:   leftSchema,
		rightSchema:  rightSchema,
		leftKey:      leftKey,
		rightKey:     rightKey,
		typ:          typ,
	}
}

func (j *joinOperator) Next(ctx context.Context) (value.Row, error) {
	if !j.loaded {
		j.rightByKey = map[string][]value.Row{}
		for {
			row, err := j.children[1].Next(ctx)
			if err != nil {
				return nil, err
			}
			if row == nil {
				break
			}
			v, _ := row.Get(j.rightSchema, j.rightKey)
			key := v.ToStringValue()
			j.rightByKey[key] = append(j.rightByKey[key], row)
		}
		j.loaded = true
	}

	for {
		left, err := j.children[0].Next(ctx)
		if err != nil {
			return nil, err
		}
		if left == nil {
			return nil, nil
		}
		v, _ := left.Get(j.leftSchema, j.leftKey)
		matches := j.rightByKey[v.ToStringValue()]
		if len(matches) == 0 {
			if j.typ == JoinLeft {
				out := append(value.Row(nil), left...)
				for range j.rightSchema.Fields {
					out = append(out, value.Null())
				}
				return out, nil
			}
			continue
		}
		out := append(value.Row(nil), left...)
		out = append(out, matches[0]...)
		return out, nil
	}
}
