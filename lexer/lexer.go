// Package lexer tokenizes normalized Galluz source — a single, fully
// parenthesized S-expression — into the token stream consumed by the
// parser. Comment stripping and escape normalization happen upstream in the
// normalizer; the lexer itself only needs to recognize parens, numbers,
// strings, and symbols.
package lexer

import (
	"bufio"
	"io"
	"unicode"

	"github.com/galluzlang/galluzc/errors"
	"github.com/galluzlang/galluzc/token"
)

type Lexer struct {
	pos    token.Position
	reader *bufio.Reader
	peeked *token.Token
}

func NewLexer(reader io.Reader, filename string) *Lexer {
	return &Lexer{
		pos:    token.Position{Line: 1, Column: 0, Filename: filename},
		reader: bufio.NewReader(reader),
	}
}

func (l *Lexer) newline() {
	l.pos.Line++
	l.pos.Column = 0
}

func (l *Lexer) backup() {
	if err := l.reader.UnreadRune(); err != nil {
		panic(err)
	}
	l.pos.Column--
}

func (l *Lexer) kinded(t token.Kind) token.Token {
	return token.Token{
		Kind:     t,
		Location: token.SingleCharSpan(l.pos),
	}
}

func firstSymbolChar(r rune) bool {
	switch r {
	case '+', '-', '*', '/', '%', '>', '<', '=', '!', '_', '\'':
		return true
	}
	return unicode.IsLetter(r)
}

func otherSymbolChar(r rune) bool {
	return firstSymbolChar(r) || unicode.IsDigit(r)
}

func (l *Lexer) lexSymbol(first rune) (token.Position, token.Position, string) {
	lit := string(first)
	from := l.pos

	r, _, err := l.reader.ReadRune()
	for {
		if err != nil {
			if err == io.EOF {
				return from, l.pos, lit
			}
			panic(err)
		}
		if !otherSymbolChar(r) {
			l.backup()
			return from, l.pos, lit
		}
		lit += string(r)
		l.pos.Column++

		r, _, err = l.reader.ReadRune()
	}
}

// lexString reads the body of a double-quoted string literal. The returned
// literal retains backslash escapes verbatim; the generator that lowers a
// Str node applies the escape table (spec §4.1's "string
// post-processing"), not the lexer.
func (l *Lexer) lexString() (token.Position, token.Position, string) {
	var lit string
	from := l.pos

	for {
		r, _, err := l.reader.ReadRune()
		if err != nil {
			panic(errors.SyntaxNormalization{
				Message:  "unterminated string literal",
				Location: token.Span{From: from, To: l.pos},
			})
		}
		l.pos.Column++

		if r == '\\' {
			esc, _, err := l.reader.ReadRune()
			if err != nil {
				panic(errors.SyntaxNormalization{
					Message:  "unterminated string literal",
					Location: token.Span{From: from, To: l.pos},
				})
			}
			l.pos.Column++
			lit += string(r) + string(esc)
			continue
		}
		if r == '"' {
			return from, l.pos, lit
		}
		if r == '\n' {
			l.newline()
		}
		lit += string(r)
	}
}

func (l *Lexer) Peek() (token.Token, string) {
	if l.peeked != nil {
		return *l.peeked, l.peeked.Literal
	}
	tok, str := l.Lex()
	tok.Literal = str
	l.peeked = &tok
	return tok, str
}

func (l *Lexer) PeekIs(k ...token.Kind) bool {
	tok, _ := l.Peek()
	for _, kind := range k {
		if tok.Kind == kind {
			return true
		}
	}
	return false
}

func (l *Lexer) LexExpecting(k ...token.Kind) (token.Token, string) {
	tok, lit := l.Lex()
	for _, kind := range k {
		if tok.Kind == kind {
			return tok, lit
		}
	}
	panic(errors.ExpectedOneOfKindGotKind{
		Expected: k,
		Got:      tok.Kind,
		Location: tok.Location,
	})
}

func (l *Lexer) Lex() (token.Token, string) {
	if l.peeked != nil {
		t := *l.peeked
		l.peeked = nil
		return t, t.Literal
	}

	for {
		r, _, err := l.reader.ReadRune()
		if err != nil {
			if err == io.EOF {
				return l.kinded(token.EOF), ""
			}
			panic(err)
		}
		l.pos.Column++

		switch r {
		case '(':
			return l.kinded(token.LPAREN), "("
		case ')':
			return l.kinded(token.RPAREN), ")"
		case '\n':
			l.newline()
			continue
		case '"':
			from, to, lit := l.lexString()
			return token.Token{Kind: token.STRING, Location: token.Span{From: from, To: to}}, lit
		}

		switch {
		case unicode.IsSpace(r):
			continue
		case unicode.IsDigit(r) || (r == '-' && l.peekDigit()):
			from, to, lit := l.lexNumber(r)
			kind := token.INT
			for _, c := range lit {
				if c == '.' {
					kind = token.FRACTIONAL
				}
			}
			return token.Token{Kind: kind, Location: token.Span{From: from, To: to}}, lit
		case firstSymbolChar(r):
			from, to, lit := l.lexSymbol(r)
			return token.Token{Kind: token.SYMBOL, Location: token.Span{From: from, To: to}}, lit
		}

		panic(errors.SyntaxNormalization{
			Message:  "stray character outside an expression",
			Location: token.SingleCharSpan(l.pos),
		})
	}
}

func (l *Lexer) peekDigit() bool {
	byt, err := l.reader.Peek(1)
	if err != nil {
		return false
	}
	return byt[0] >= '0' && byt[0] <= '9'
}

func (l *Lexer) lexNumber(first rune) (token.Position, token.Position, string) {
	from := l.pos
	lit := string(first)

	for {
		r, _, err := l.reader.ReadRune()
		if err != nil {
			if err == io.EOF {
				return from, l.pos, lit
			}
			panic(err)
		}
		if unicode.IsDigit(r) || r == '.' {
			lit += string(r)
			l.pos.Column++
			continue
		}
		l.backup()
		return from, l.pos, lit
	}
}

type testToken struct {
	tok token.Token
	lit string
}

func (l *Lexer) lexToEOF() (ret []testToken) {
	tok, lit := l.Lex()
	for tok.Kind != token.EOF {
		ret = append(ret, testToken{tok: tok, lit: lit})
		tok, lit = l.Lex()
	}
	return
}
