package ast

import "strings"

// Call is a function invocation `name(arg0, arg1, ...)`. The callee is
// always a bare name in the chart expression grammar (no first-class
// function values), so Callee is stored as a string rather than a Node.
type Call struct {
	span     Span
	Callee   string
	Args     []Node
}

func NewCall(span Span, callee string, args []Node) *Call {
	return &Call{span: span, Callee: callee, Args: args}
}

func (c *Call) Span() Span                         { return c.span }
func (c *Call) BindingPower() (left, right float64) { return memberLeftPower, memberRightPower }

func (c *Call) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	return c.Callee + "(" + strings.Join(parts, ", ") + ")"
}
