package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// LiteralKind tags which Go field of Literal is populated.
type LiteralKind int

const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralBoolean
	LiteralNull
)

// Literal is a numeric, string, boolean or null constant.
type Literal struct {
	span Span
	Kind LiteralKind

	Number  float64
	Str     string
	Boolean bool

	// Raw preserves the original source text for numbers so that
	// stringify reproduces the author's formatting (e.g. "1e3" rather
	// than "1000").
	Raw string
}

func NewNumberLiteral(span Span, raw string) (*Literal, error) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, err
	}
	return &Literal{span: span, Kind: LiteralNumber, Number: v, Raw: raw}, nil
}

func NewStringLiteral(span Span, value string) *Literal {
	return &Literal{span: span, Kind: LiteralString, Str: value}
}

func NewBooleanLiteral(span Span, value bool) *Literal {
	return &Literal{span: span, Kind: LiteralBoolean, Boolean: value}
}

func NewNullLiteral(span Span) *Literal {
	return &Literal{span: span, Kind: LiteralNull}
}

func (l *Literal) Span() Span                        { return l.span }
func (l *Literal) BindingPower() (left, right float64) { return leafPower, leafPower }

func (l *Literal) String() string {
	switch l.Kind {
	case LiteralNumber:
		if l.Raw != "" {
			return l.Raw
		}
		return strconv.FormatFloat(l.Number, 'g', -1, 64)
	case LiteralString:
		return quoteString(l.Str)
	case LiteralBoolean:
		return fmt.Sprintf("%t", l.Boolean)
	case LiteralNull:
		return "null"
	default:
		return "null"
	}
}

func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
