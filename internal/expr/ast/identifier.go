package ast

// Identifier is a bare variable reference, e.g. `width` or `datum`.
type Identifier struct {
	span Span
	Name string
}

func NewIdentifier(span Span, name string) *Identifier {
	return &Identifier{span: span, Name: name}
}

func (i *Identifier) Span() Span                         { return i.span }
func (i *Identifier) BindingPower() (left, right float64) { return leafPower, leafPower }
func (i *Identifier) String() string                      { return i.Name }
