package ast

import "fmt"

// Member is `object.property` or `object[property]`. Computed is true
// for the bracket form, where Property may be any expression (e.g.
// `datum[field]`) rather than a bareword.
type Member struct {
	span     Span
	Object   Node
	Property Node
	Computed bool
}

func NewMember(span Span, object, property Node, computed bool) *Member {
	return &Member{span: span, Object: object, Property: property, Computed: computed}
}

func (m *Member) Span() Span { return m.span }

func (m *Member) BindingPower() (left, right float64) {
	return memberLeftPower, memberRightPower
}

func (m *Member) String() string {
	objLeft, _ := m.Object.BindingPower()
	objStr := wrap(m.Object.String(), needsParens(objLeft, memberLeftPower, false))

	if m.Computed {
		return fmt.Sprintf("%s[%s]", objStr, m.Property.String())
	}
	// bareword property: Property is always an Identifier-shaped node.
	return fmt.Sprintf("%s.%s", objStr, m.Property.String())
}
