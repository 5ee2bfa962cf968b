package ast

// Binary is a left-associative infix arithmetic/comparison/bitwise
// expression.
type Binary struct {
	span     Span
	Operator BinaryOperator
	Left     Node
	Right    Node
}

func NewBinary(span Span, op BinaryOperator, left, right Node) *Binary {
	return &Binary{span: span, Operator: op, Left: left, Right: right}
}

func (b *Binary) Span() Span { return b.span }

func (b *Binary) BindingPower() (left, right float64) {
	p := BinaryPrecedence(b.Operator)
	return p, p
}

func (b *Binary) String() string {
	p := BinaryPrecedence(b.Operator)
	leftBP, _ := b.Left.BindingPower()
	_, rightBP := b.Right.BindingPower()

	leftStr := wrap(b.Left.String(), needsParens(leftBP, p, false))
	rightStr := wrap(b.Right.String(), needsParens(rightBP, p, true))

	return leftStr + " " + b.Operator.String() + " " + rightStr
}

// Logical is && / || with JavaScript value semantics (not boolean truth)
// per spec §4.2: `a && b` evaluates to b when a is truthy, else a.
type Logical struct {
	span     Span
	Operator LogicalOperator
	Left     Node
	Right    Node
}

func NewLogical(span Span, op LogicalOperator, left, right Node) *Logical {
	return &Logical{span: span, Operator: op, Left: left, Right: right}
}

func (l *Logical) Span() Span { return l.span }

func (l *Logical) BindingPower() (left, right float64) {
	p := LogicalPrecedence(l.Operator)
	return p, p
}

func (l *Logical) String() string {
	p := LogicalPrecedence(l.Operator)
	leftBP, _ := l.Left.BindingPower()
	_, rightBP := l.Right.BindingPower()

	leftStr := wrap(l.Left.String(), needsParens(leftBP, p, false))
	rightStr := wrap(l.Right.String(), needsParens(rightBP, p, true))

	return leftStr + " " + l.Operator.String() + " " + rightStr
}
