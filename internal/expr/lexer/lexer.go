package lexer

import (
	"strings"

	vferrors "vegafusion-go/internal/errors"
)

// Lexer scans src into a stream of Tokens. Whitespace separates tokens;
// the grammar has no comment syntax (spec §4.1).
type Lexer struct {
	src []rune
	pos int
}

// New returns a Lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: []rune(src)}
}

func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(off int) rune {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() rune {
	r := l.peek()
	l.pos++
	return r
}

func (l *Lexer) skipWhitespace() {
	for l.pos < len(l.src) && isSpace(l.peek()) {
		l.pos++
	}
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || isDigit(r)
}

// Tokenize scans the entire source and returns the token list, terminated
// by an EOF token.
func (l *Lexer) Tokenize() ([]Token, error) {
	var toks []Token
	for {
		l.skipWhitespace()
		start := l.pos
		if l.pos >= len(l.src) {
			toks = append(toks, Token{Kind: EOF, Start: start, End: start})
			return toks, nil
		}
		r := l.peek()
		switch {
		case isDigit(r) || (r == '.' && isDigit(l.peekAt(1))):
			tok, err := l.lexNumber()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case r == '"' || r == '\'':
			tok, err := l.lexString()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case isIdentStart(r):
			toks = append(toks, l.lexIdentifier())
		default:
			tok, err := l.lexPunct()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		}
	}
}

func (l *Lexer) lexNumber() (Token, error) {
	start := l.pos
	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance()
		for isDigit(l.peek()) {
			l.advance()
		}
	} else if l.peek() == '.' && !isIdentStart(l.peekAt(1)) {
		// trailing dot, e.g. "20."
		l.advance()
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		save := l.pos
		l.advance()
		if l.peek() == '+' || l.peek() == '-' {
			l.advance()
		}
		if isDigit(l.peek()) {
			for isDigit(l.peek()) {
				l.advance()
			}
		} else {
			l.pos = save
		}
	}
	text := string(l.src[start:l.pos])
	return Token{Kind: Number, Text: text, Start: start, End: l.pos}, nil
}

func (l *Lexer) lexString() (Token, error) {
	start := l.pos
	quote := l.advance()
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return Token{}, vferrors.Parse("unterminated string literal starting at %d", start)
		}
		r := l.advance()
		if r == quote {
			break
		}
		if r == '\\' {
			esc := l.advance()
			switch esc {
			case 'n':
				b.WriteRune('\n')
			case 't':
				b.WriteRune('\t')
			case 'r':
				b.WriteRune('\r')
			case '\\', '\'', '"':
				b.WriteRune(esc)
			default:
				b.WriteRune(esc)
			}
			continue
		}
		b.WriteRune(r)
	}
	return Token{Kind: String, Text: b.String(), Start: start, End: l.pos}, nil
}

func (l *Lexer) lexIdentifier() Token {
	start := l.pos
	for isIdentPart(l.peek()) {
		l.advance()
	}
	text := string(l.src[start:l.pos])
	switch text {
	case "true", "false":
		return Token{Kind: Boolean, Text: text, Start: start, End: l.pos}
	case "null":
		return Token{Kind: Null, Text: text, Start: start, End: l.pos}
	default:
		return Token{Kind: Identifier, Text: text, Start: start, End: l.pos}
	}
}

func (l *Lexer) lexPunct() (Token, error) {
	start := l.pos
	r := l.advance()
	two := func(next rune, k2 Kind, k1 Kind) Token {
		if l.peek() == next {
			l.advance()
			return Token{Kind: k2, Text: string(l.src[start:l.pos]), Start: start, End: l.pos}
		}
		return Token{Kind: k1, Text: string(r), Start: start, End: l.pos}
	}
	switch r {
	case '+':
		return Token{Kind: Plus, Text: "+", Start: start, End: l.pos}, nil
	case '-':
		return Token{Kind: Minus, Text: "-", Start: start, End: l.pos}, nil
	case '*':
		return Token{Kind: Asterisk, Text: "*", Start: start, End: l.pos}, nil
	case '/':
		return Token{Kind: Slash, Text: "/", Start: start, End: l.pos}, nil
	case '%':
		return Token{Kind: Percent, Text: "%", Start: start, End: l.pos}, nil
	case '~':
		return Token{Kind: BitwiseNot, Text: "~", Start: start, End: l.pos}, nil
	case '?':
		return Token{Kind: Question, Text: "?", Start: start, End: l.pos}, nil
	case ':':
		return Token{Kind: Colon, Text: ":", Start: start, End: l.pos}, nil
	case '.':
		return Token{Kind: Dot, Text: ".", Start: start, End: l.pos}, nil
	case ',':
		return Token{Kind: Comma, Text: ",", Start: start, End: l.pos}, nil
	case ';':
		return Token{Kind: Semicolon, Text: ";", Start: start, End: l.pos}, nil
	case '(':
		return Token{Kind: LParen, Text: "(", Start: start, End: l.pos}, nil
	case ')':
		return Token{Kind: RParen, Text: ")", Start: start, End: l.pos}, nil
	case '[':
		return Token{Kind: LBracket, Text: "[", Start: start, End: l.pos}, nil
	case ']':
		return Token{Kind: RBracket, Text: "]", Start: start, End: l.pos}, nil
	case '{':
		return Token{Kind: LBrace, Text: "{", Start: start, End: l.pos}, nil
	case '}':
		return Token{Kind: RBrace, Text: "}", Start: start, End: l.pos}, nil
	case '=':
		if l.peek() == '=' {
			l.advance()
			if l.peek() == '=' {
				l.advance()
				return Token{Kind: TripleEquals, Text: "===", Start: start, End: l.pos}, nil
			}
			return Token{Kind: DoubleEquals, Text: "==", Start: start, End: l.pos}, nil
		}
		return Token{Kind: Equals, Text: "=", Start: start, End: l.pos}, nil
	case '!':
		if l.peek() == '=' {
			l.advance()
			if l.peek() == '=' {
				l.advance()
				return Token{Kind: ExclamDouble, Text: "!==", Start: start, End: l.pos}, nil
			}
			return Token{Kind: ExclamEquals, Text: "!=", Start: start, End: l.pos}, nil
		}
		return Token{Kind: Exclamation, Text: "!", Start: start, End: l.pos}, nil
	case '>':
		if l.peek() == '=' {
			l.advance()
			return Token{Kind: GreaterEqual, Text: ">=", Start: start, End: l.pos}, nil
		}
		if l.peek() == '>' {
			l.advance()
			return Token{Kind: ShiftRight, Text: ">>", Start: start, End: l.pos}, nil
		}
		return Token{Kind: GreaterThan, Text: ">", Start: start, End: l.pos}, nil
	case '<':
		if l.peek() == '=' {
			l.advance()
			return Token{Kind: LessEqual, Text: "<=", Start: start, End: l.pos}, nil
		}
		if l.peek() == '<' {
			l.advance()
			return Token{Kind: ShiftLeft, Text: "<<", Start: start, End: l.pos}, nil
		}
		return Token{Kind: LessThan, Text: "<", Start: start, End: l.pos}, nil
	case '&':
		return two('&', LogicalAnd, BitwiseAnd), nil
	case '|':
		return two('|', LogicalOr, BitwiseOr), nil
	case '^':
		return Token{Kind: BitwiseXor, Text: "^", Start: start, End: l.pos}, nil
	default:
		return Token{}, vferrors.Parse("unexpected character %q at position %d", r, start)
	}
}
