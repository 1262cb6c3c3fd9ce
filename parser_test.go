package main

import (
	"strings"
	"testing"

	"github.com/galluzlang/galluzc/lexer"
)

func parse(t *testing.T, src string) Expr {
	t.Helper()
	p := NewParser(lexer.NewLexer(strings.NewReader(src), "stdin"))
	expr, err := p.Parse()
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	return expr
}

func TestParserAtoms(t *testing.T) {
	if got := parse(t, "42"); got.(Number).Value != 42 {
		t.Errorf("got %#v", got)
	}
	if got := parse(t, "3.5"); got.(Fractional).Value != 3.5 {
		t.Errorf("got %#v", got)
	}
	if got := parse(t, `"hi"`); got.(Str).Value != "hi" {
		t.Errorf("got %#v", got)
	}
	if got := parse(t, "x"); got.(Sym).Value != "x" {
		t.Errorf("got %#v", got)
	}
}

func TestParserNestedList(t *testing.T) {
	got := parse(t, "(+ 1 (* 2 3))").(List)
	if len(got.Value) != 3 {
		t.Fatalf("got %d items, want 3", len(got.Value))
	}
	if got.Value[0].(Sym).Value != "+" {
		t.Errorf("head = %#v", got.Value[0])
	}
	inner, ok := got.Value[2].(List)
	if !ok || len(inner.Value) != 3 || inner.Value[0].(Sym).Value != "*" {
		t.Errorf("inner list = %#v", got.Value[2])
	}
}

func TestParserEmptyList(t *testing.T) {
	got := parse(t, "()").(List)
	if len(got.Value) != 0 {
		t.Errorf("got %d items, want 0", len(got.Value))
	}
}

func TestParserStringKeepsEscapesRaw(t *testing.T) {
	got := parse(t, `"a\nb"`).(Str)
	if got.Value != `a\nb` {
		t.Errorf("got %q, want raw %q", got.Value, `a\nb`)
	}
}

func TestParserUnbalancedParens(t *testing.T) {
	p := NewParser(lexer.NewLexer(strings.NewReader("(+ 1 2"), "stdin"))
	if _, err := p.Parse(); err == nil {
		t.Fatalf("expected an error for unbalanced parens")
	}
}

func TestParserTrailingInput(t *testing.T) {
	p := NewParser(lexer.NewLexer(strings.NewReader("1 2"), "stdin"))
	if _, err := p.Parse(); err == nil {
		t.Fatalf("expected an error for trailing input")
	}
}

func TestParserTypeReferenceSymbol(t *testing.T) {
	got := parse(t, "!int").(Sym)
	if got.Value != "!int" {
		t.Errorf("got %q", got.Value)
	}
}
