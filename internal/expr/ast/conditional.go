package ast

// TernaryBindingPower returns the (left, middle, right) binding powers
// of the ternary operator, per spec §4.1 and
// vegafusion-core/src/expression/ast/conditional.rs.
func TernaryBindingPower() (left, middle, right float64) {
	return 4.8, 4.6, 4.4
}

// Conditional is the ternary `test ? consequent : alternate`.
type Conditional struct {
	span       Span
	Test       Node
	Consequent Node
	Alternate  Node
}

func NewConditional(span Span, test, consequent, alternate Node) *Conditional {
	return &Conditional{span: span, Test: test, Consequent: consequent, Alternate: alternate}
}

func (c *Conditional) Span() Span { return c.span }

func (c *Conditional) BindingPower() (left, right float64) {
	l, _, r := TernaryBindingPower()
	return l, r
}

// String re-emits the ternary, parenthesizing each of the three
// sub-expressions exactly when its own binding power on the relevant
// side is lower than the ternary's, following the original's
// three-way rule (test compares its right power against leftBP,
// consequent compares its right power against middleBP, alternate
// compares its left power against rightBP).
func (c *Conditional) String() string {
	leftBP, middleBP, rightBP := TernaryBindingPower()

	_, testRight := c.Test.BindingPower()
	testStr := wrap(c.Test.String(), testRight < leftBP)

	_, consequentRight := c.Consequent.BindingPower()
	consequentStr := wrap(c.Consequent.String(), consequentRight < middleBP)

	alternateLeft, _ := c.Alternate.BindingPower()
	alternateStr := wrap(c.Alternate.String(), alternateLeft < rightBP)

	return testStr + " ? " + consequentStr + ": " + alternateStr
}
