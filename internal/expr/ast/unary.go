package ast

// Unary is a prefix operator applied to a single operand: `+x`, `-x`,
// `!x`. Binding power 17 per spec §4.1.
type Unary struct {
	span     Span
	Operator UnaryOperator
	Argument Node
}

func NewUnary(span Span, op UnaryOperator, arg Node) *Unary {
	return &Unary{span: span, Operator: op, Argument: arg}
}

func (u *Unary) Span() Span                         { return u.span }
func (u *Unary) BindingPower() (left, right float64) { return unaryPower, unaryPower }

func (u *Unary) String() string {
	argLeft, _ := u.Argument.BindingPower()
	argStr := wrap(u.Argument.String(), needsParens(argLeft, unaryPower, true))
	return u.Operator.String() + argStr
}
