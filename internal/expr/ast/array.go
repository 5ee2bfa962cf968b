package ast

import "strings"

// Array is an array literal `[a, b, c]`.
type Array struct {
	span     Span
	Elements []Node
}

func NewArray(span Span, elements []Node) *Array {
	return &Array{span: span, Elements: elements}
}

func (a *Array) Span() Span                         { return a.span }
func (a *Array) BindingPower() (left, right float64) { return leafPower, leafPower }

func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ObjectProperty is a single key/value pair of an Object literal. Key is
// either an Identifier (bareword key) or a Literal string (quoted key);
// Computed marks a `[expr]: value` key, which the compiler rejects.
type ObjectProperty struct {
	Key      Node
	Value    Node
	Computed bool
}

// Object is an object literal `{a: 1, "b": 2}`.
type Object struct {
	span       Span
	Properties []ObjectProperty
}

func NewObject(span Span, props []ObjectProperty) *Object {
	return &Object{span: span, Properties: props}
}

func (o *Object) Span() Span                         { return o.span }
func (o *Object) BindingPower() (left, right float64) { return leafPower, leafPower }

func (o *Object) String() string {
	parts := make([]string, len(o.Properties))
	for i, p := range o.Properties {
		key := p.Key.String()
		if p.Computed {
			key = "[" + key + "]"
		}
		parts[i] = key + ": " + p.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
