package main

import (
	"strconv"

	"github.com/galluzlang/galluzc/errors"
	"github.com/galluzlang/galluzc/lexer"
	"github.com/galluzlang/galluzc/token"
)

// Parser turns a lexed token stream into a single Expr tree. The grammar is
// uniform: a list is a parenthesized sequence of expressions, an atom is a
// number, fractional, string, or symbol. Normalization guarantees the
// stream holds exactly one top-level form (sibling forms are wrapped in a
// synthetic scope first), so Parse need not loop over top-level forms.
type Parser struct {
	l *lexer.Lexer
}

func NewParser(l *lexer.Lexer) *Parser {
	return &Parser{l: l}
}

func (p *Parser) Parse() (expr Expr, err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = e
				return
			}
			panic(r)
		}
	}()

	expr = p.parseExpr()
	if tok, _ := p.l.Lex(); tok.Kind != token.EOF {
		panic(errors.SyntaxNormalization{
			Message:  "trailing input after the top-level expression",
			Location: tok.Location,
		})
	}
	return expr, nil
}

func (p *Parser) parseExpr() Expr {
	tok, lit := p.l.LexExpecting(token.LPAREN, token.INT, token.FRACTIONAL, token.STRING, token.SYMBOL)

	switch tok.Kind {
	case token.LPAREN:
		return p.parseList(tok)
	case token.INT:
		n, err := strconv.ParseInt(lit, 10, 64)
		if err != nil {
			panic(errors.SyntaxNormalization{Message: "malformed integer literal '" + lit + "'", Location: tok.Location})
		}
		return Number{Value: n, Pos: tok.Location}
	case token.FRACTIONAL:
		f, err := strconv.ParseFloat(lit, 64)
		if err != nil {
			panic(errors.SyntaxNormalization{Message: "malformed fractional literal '" + lit + "'", Location: tok.Location})
		}
		return Fractional{Value: f, Pos: tok.Location}
	case token.STRING:
		// Escapes are resolved later by the generator that lowers a string
		// literal (spec §4.1), not here — the parser keeps the raw text.
		return Str{Value: lit, Pos: tok.Location}
	default: // token.SYMBOL
		return Sym{Value: lit, Pos: tok.Location}
	}
}

func (p *Parser) parseList(open token.Token) Expr {
	var items []Expr
	for !p.l.PeekIs(token.RPAREN) {
		if p.l.PeekIs(token.EOF) {
			panic(errors.SyntaxNormalization{
				Message:  "unbalanced parentheses: missing ')'",
				Location: open.Location,
			})
		}
		items = append(items, p.parseExpr())
	}
	closeTok, _ := p.l.LexExpecting(token.RPAREN)

	return List{Value: items, Pos: token.Span{From: open.Location.From, To: closeTok.Location.To}}
}
