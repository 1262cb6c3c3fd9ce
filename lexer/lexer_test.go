package lexer

import (
	"strings"
	"testing"

	"github.com/galluzlang/galluzc/token"
)

func TestLexerParens(t *testing.T) {
	l := NewLexer(strings.NewReader("(+ 2 3)"), "stdin")
	tokens := l.lexToEOF()

	want := []token.Kind{token.LPAREN, token.SYMBOL, token.INT, token.INT, token.RPAREN}
	if len(tokens) != len(want) {
		t.Fatalf("got %d tokens, want %d: %#v", len(tokens), len(want), tokens)
	}
	for i, k := range want {
		if tokens[i].tok.Kind != k {
			t.Errorf("token %d: got %s, want %s", i, tokens[i].tok.Kind, k)
		}
	}
}

func TestLexerString(t *testing.T) {
	l := NewLexer(strings.NewReader(`"%d\n"`), "stdin")
	tok, lit := l.Lex()
	if tok.Kind != token.STRING {
		t.Fatalf("got %s, want STRING", tok.Kind)
	}
	if lit != `%d\n` {
		t.Fatalf("got %q, want %q", lit, `%d\n`)
	}
}

func TestLexerFractional(t *testing.T) {
	l := NewLexer(strings.NewReader("3.14"), "stdin")
	tok, lit := l.Lex()
	if tok.Kind != token.FRACTIONAL {
		t.Fatalf("got %s, want FRACTIONAL", tok.Kind)
	}
	if lit != "3.14" {
		t.Fatalf("got %q", lit)
	}
}

func TestLexerSymbolOperators(t *testing.T) {
	for _, op := range []string{"+", "-", "*", "/", "%", ">", "<", ">=", "<=", "==", "!="} {
		l := NewLexer(strings.NewReader(op), "stdin")
		tok, lit := l.Lex()
		if tok.Kind != token.SYMBOL || lit != op {
			t.Errorf("operator %q: got kind=%s lit=%q", op, tok.Kind, lit)
		}
	}
}

func TestLexerTypeReference(t *testing.T) {
	l := NewLexer(strings.NewReader("!int"), "stdin")
	tok, lit := l.Lex()
	if tok.Kind != token.SYMBOL || lit != "!int" {
		t.Fatalf("got kind=%s lit=%q, want SYMBOL !int", tok.Kind, lit)
	}
}

func TestLexerPeekIsDoesNotConsume(t *testing.T) {
	l := NewLexer(strings.NewReader("(foo)"), "stdin")
	if !l.PeekIs(token.LPAREN) {
		t.Fatalf("expected PeekIs(LPAREN) to be true")
	}
	tok, _ := l.Lex()
	if tok.Kind != token.LPAREN {
		t.Fatalf("Peek consumed the token")
	}
}
