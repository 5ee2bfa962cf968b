// Package parser implements a Pratt parser over the expression
// sublanguage's token stream, producing the typed AST of package ast
// (spec §4.1).
package parser

import (
	"strconv"

	vferrors "vegafusion-go/internal/errors"
	"vegafusion-go/internal/expr/ast"
	"vegafusion-go/internal/expr/lexer"
)

// Parser holds the token stream and current read position.
type Parser struct {
	toks []lexer.Token
	pos  int
}

// Parse tokenizes and parses src into a single expression AST. Trailing
// tokens after a complete expression are a parse error.
func Parse(src string) (ast.Node, error) {
	toks, err := lexer.New(src).Tokenize()
	if err != nil {
		return nil, err
	}
	p := &Parser{toks: toks}
	expr, err := p.parseExpression(0)
	if err != nil {
		return nil, vferrors.Annotate(err, "while parsing expression %q", src)
	}
	if p.peek().Kind != lexer.EOF {
		return nil, vferrors.Parse("unexpected trailing token %s in expression %q", p.peek(), src)
	}
	return expr, nil
}

func (p *Parser) peek() lexer.Token {
	return p.toks[p.pos]
}

func (p *Parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) expect(k lexer.Kind) (lexer.Token, error) {
	if p.peek().Kind != k {
		return lexer.Token{}, vferrors.Parse("expected %s but found %s", k, p.peek())
	}
	return p.advance(), nil
}

func span(start, end lexer.Token) ast.Span {
	return ast.Span{Start: start.Start, End: end.End}
}

// parseExpression parses an expression whose outermost operator must
// bind at least as tightly as minBP, implementing the Pratt loop: parse
// a prefix/primary term, then repeatedly fold in infix/ternary operators
// whose precedence is >= minBP.
func (p *Parser) parseExpression(minBP float64) (ast.Node, error) {
	left, err := p.parsePrefix()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		switch {
		case isBinaryOpToken(tok.Kind):
			op, _ := ast.BinaryOpFromToken(tok)
			bp := ast.BinaryPrecedence(op)
			if bp < minBP {
				return left, nil
			}
			p.advance()
			right, err := p.parseExpression(bp + 1)
			if err != nil {
				return nil, err
			}
			left = ast.NewBinary(ast.Span{Start: left.Span().Start, End: right.Span().End}, op, left, right)

		case tok.Kind == lexer.LogicalAnd || tok.Kind == lexer.LogicalOr:
			op, _ := ast.LogicalOpFromToken(tok)
			bp := ast.LogicalPrecedence(op)
			if bp < minBP {
				return left, nil
			}
			p.advance()
			right, err := p.parseExpression(bp + 1)
			if err != nil {
				return nil, err
			}
			left = ast.NewLogical(ast.Span{Start: left.Span().Start, End: right.Span().End}, op, left, right)

		case tok.Kind == lexer.Question:
			leftBP, _, rightBP := ast.TernaryBindingPower()
			if leftBP < minBP {
				return left, nil
			}
			p.advance()
			consequent, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.Colon); err != nil {
				return nil, err
			}
			alternate, err := p.parseExpression(rightBP)
			if err != nil {
				return nil, err
			}
			left = ast.NewConditional(ast.Span{Start: left.Span().Start, End: alternate.Span().End}, left, consequent, alternate)

		default:
			return left, nil
		}
	}
}

func isBinaryOpToken(k lexer.Kind) bool {
	switch k {
	case lexer.Plus, lexer.Minus, lexer.Asterisk, lexer.Slash, lexer.Percent,
		lexer.DoubleEquals, lexer.TripleEquals, lexer.ExclamEquals, lexer.ExclamDouble,
		lexer.GreaterThan, lexer.GreaterEqual, lexer.LessThan, lexer.LessEqual,
		lexer.BitwiseAnd, lexer.BitwiseOr, lexer.BitwiseXor, lexer.ShiftLeft, lexer.ShiftRight:
		return true
	default:
		return false
	}
}

// parsePrefix parses a unary-prefixed term or falls through to a primary
// term followed by any member/call postfix chain.
func (p *Parser) parsePrefix() (ast.Node, error) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.Plus, lexer.Minus, lexer.Exclamation, lexer.BitwiseNot:
		p.advance()
		op, err := ast.UnaryOpFromToken(tok)
		if err != nil {
			return nil, err
		}
		arg, err := p.parseExpression(17)
		if err != nil {
			return nil, err
		}
		return ast.NewUnary(ast.Span{Start: tok.Start, End: arg.Span().End}, op, arg), nil
	default:
		return p.parsePostfix()
	}
}

// parsePostfix parses a primary term, then folds in any trailing member
// access or call-argument list.
func (p *Parser) parsePostfix() (ast.Node, error) {
	n, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		switch tok.Kind {
		case lexer.Dot:
			p.advance()
			idTok, err := p.expect(lexer.Identifier)
			if err != nil {
				return nil, err
			}
			prop := ast.NewIdentifier(span(idTok, idTok), idTok.Text)
			n = ast.NewMember(ast.Span{Start: n.Span().Start, End: idTok.End}, n, prop, false)
		case lexer.LBracket:
			p.advance()
			idx, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			closeTok, err := p.expect(lexer.RBracket)
			if err != nil {
				return nil, err
			}
			n = ast.NewMember(ast.Span{Start: n.Span().Start, End: closeTok.End}, n, idx, true)
		default:
			return n, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Node, error) {
	tok := p.peek()
	switch tok.Kind {
	case lexer.Number:
		p.advance()
		lit, err := ast.NewNumberLiteral(span(tok, tok), tok.Text)
		if err != nil {
			return nil, vferrors.Parse("invalid numeric literal %q: %v", tok.Text, err)
		}
		return lit, nil
	case lexer.String:
		p.advance()
		return ast.NewStringLiteral(span(tok, tok), tok.Text), nil
	case lexer.Boolean:
		p.advance()
		b, _ := strconv.ParseBool(tok.Text)
		return ast.NewBooleanLiteral(span(tok, tok), b), nil
	case lexer.Null:
		p.advance()
		return ast.NewNullLiteral(span(tok, tok)), nil
	case lexer.Identifier:
		p.advance()
		if p.peek().Kind == lexer.LParen {
			return p.parseCallArgs(tok)
		}
		return ast.NewIdentifier(span(tok, tok), tok.Text), nil
	case lexer.LParen:
		p.advance()
		inner, err := p.parseExpression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen); err != nil {
			return nil, err
		}
		return inner, nil
	case lexer.LBracket:
		return p.parseArray(tok)
	case lexer.LBrace:
		return p.parseObject(tok)
	default:
		return nil, vferrors.Parse("unexpected token %s while parsing expression", tok)
	}
}

func (p *Parser) parseCallArgs(name lexer.Token) (ast.Node, error) {
	if _, err := p.expect(lexer.LParen); err != nil {
		return nil, err
	}
	var args []ast.Node
	if p.peek().Kind != lexer.RParen {
		for {
			arg, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if p.peek().Kind == lexer.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	closeTok, err := p.expect(lexer.RParen)
	if err != nil {
		return nil, err
	}
	return ast.NewCall(ast.Span{Start: name.Start, End: closeTok.End}, name.Text, args), nil
}

func (p *Parser) parseArray(open lexer.Token) (ast.Node, error) {
	p.advance()
	var elems []ast.Node
	if p.peek().Kind != lexer.RBracket {
		for {
			e, err := p.parseExpression(0)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
			if p.peek().Kind == lexer.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	closeTok, err := p.expect(lexer.RBracket)
	if err != nil {
		return nil, err
	}
	return ast.NewArray(ast.Span{Start: open.Start, End: closeTok.End}, elems), nil
}

func (p *Parser) parseObject(open lexer.Token) (ast.Node, error) {
	p.advance()
	var props []ast.ObjectProperty
	if p.peek().Kind != lexer.RBrace {
		for {
			prop, err := p.parseObjectProperty()
			if err != nil {
				return nil, err
			}
			props = append(props, prop)
			if p.peek().Kind == lexer.Comma {
				p.advance()
				continue
			}
			break
		}
	}
	closeTok, err := p.expect(lexer.RBrace)
	if err != nil {
		return nil, err
	}
	return ast.NewObject(ast.Span{Start: open.Start, End: closeTok.End}, props), nil
}

func (p *Parser) parseObjectProperty() (ast.ObjectProperty, error) {
	tok := p.peek()
	var key ast.Node
	computed := false
	switch tok.Kind {
	case lexer.Identifier:
		p.advance()
		key = ast.NewIdentifier(span(tok, tok), tok.Text)
	case lexer.String:
		p.advance()
		key = ast.NewStringLiteral(span(tok, tok), tok.Text)
	case lexer.Number:
		p.advance()
		lit, err := ast.NewNumberLiteral(span(tok, tok), tok.Text)
		if err != nil {
			return ast.ObjectProperty{}, err
		}
		key = lit
	case lexer.LBracket:
		p.advance()
		computed = true
		k, err := p.parseExpression(0)
		if err != nil {
			return ast.ObjectProperty{}, err
		}
		if _, err := p.expect(lexer.RBracket); err != nil {
			return ast.ObjectProperty{}, err
		}
		key = k
	default:
		return ast.ObjectProperty{}, vferrors.Parse("unexpected token %s in object key position", tok)
	}
	if _, err := p.expect(lexer.Colon); err != nil {
		return ast.ObjectProperty{}, err
	}
	val, err := p.parseExpression(0)
	if err != nil {
		return ast.ObjectProperty{}, err
	}
	return ast.ObjectProperty{Key: key, Value: val, Computed: computed}, nil
}
