package logicalexpr

import (
	"strings"

	"vegafusion-go/internal/value"
)

// MakeArray evaluates an array literal by evaluating each element and
// packing the results into a JSON-ish encoded string value, since
// value.Scalar has no native list kind (spec's array literal is
// primarily used as an argument to builtins like `indexof`/`span`
// rather than stored in a column).
type MakeArray struct {
	base
	Elements []Expr
}

func NewMakeArray(elems []Expr) *MakeArray {
	return &MakeArray{base: base{children: elems}, Elements: elems}
}

func (m *MakeArray) Eval(ctx *EvalContext) (value.Scalar, error) {
	parts := make([]string, len(m.Elements))
	for i, e := range m.Elements {
		v, err := e.Eval(ctx)
		if err != nil {
			return value.Scalar{}, err
		}
		parts[i] = v.ToStringValue()
	}
	return value.String("[" + strings.Join(parts, ",") + "]"), nil
}

func (m *MakeArray) Type() value.FieldType { return value.FieldString }

func (m *MakeArray) String() string {
	parts := make([]string, len(m.Elements))
	for i, e := range m.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// NamedStruct evaluates an object literal similarly to MakeArray: a
// display-oriented string encoding, since object-literal results flow
// into builtins (format strings, tooltip payloads) rather than
// becoming typed columns directly.
type NamedStruct struct {
	base
	Keys   []string
	Values []Expr
}

func NewNamedStruct(keys []string, values []Expr) *NamedStruct {
	return &NamedStruct{base: base{children: values}, Keys: keys, Values: values}
}

func (n *NamedStruct) Eval(ctx *EvalContext) (value.Scalar, error) {
	parts := make([]string, len(n.Keys))
	for i, k := range n.Keys {
		v, err := n.Values[i].Eval(ctx)
		if err != nil {
			return value.Scalar{}, err
		}
		parts[i] = k + ":" + v.ToStringValue()
	}
	return value.String("{" + strings.Join(parts, ",") + "}"), nil
}

func (n *NamedStruct) Type() value.FieldType { return value.FieldString }

func (n *NamedStruct) String() string {
	parts := make([]string, len(n.Keys))
	for i, k := range n.Keys {
		parts[i] = k + ": " + n.Values[i].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
