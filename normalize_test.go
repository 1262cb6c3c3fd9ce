package main

import "testing"

func TestNormalizeSingleExpression(t *testing.T) {
	got := normalize(`(+ 1 2)`, "t.glz")
	if got != "(+ 1 2)" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeWrapsMultipleTopLevelForms(t *testing.T) {
	got := normalize(`(var x 1) (fprint "%d" x)`, "t.glz")
	want := `(scope (var x 1) (fprint "%d" x))`
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestNormalizeStripsLineComments(t *testing.T) {
	got := normalize("(+ 1 2) // trailing comment\n", "t.glz")
	if got != "(+ 1 2)" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeStripsBlockComments(t *testing.T) {
	got := normalize("(+ /* two */ 1 2)", "t.glz")
	if got != "(+ 1 2)" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeIgnoresCommentMarkersInStrings(t *testing.T) {
	got := normalize(`(fprint "// not a comment")`, "t.glz")
	if got != `(fprint "// not a comment")` {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeCollapsesWhitespace(t *testing.T) {
	got := normalize("(+   1\n\n  2)", "t.glz")
	if got != "(+ 1 2)" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeUnbalancedParensIsFatal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for unbalanced parens")
		}
	}()
	normalize("(+ 1 2", "t.glz")
}

func TestNormalizeEmptyProgramIsFatal(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for an empty program")
		}
	}()
	normalize("   // just a comment\n", "t.glz")
}

func TestNormalizeIdempotence(t *testing.T) {
	once := normalize(`(var x 1) (set x 2)`, "t.glz")
	twice := normalize(once, "t.glz")
	if once != twice {
		t.Fatalf("normalize is not idempotent: %q != %q", once, twice)
	}
}

func TestUnescapeString(t *testing.T) {
	cases := map[string]string{
		`hello\n`:    "hello\n",
		`a\tb`:       "a\tb",
		`\"quoted\"`: `"quoted"`,
		`\q`:         "q",
	}
	for in, want := range cases {
		if got := unescapeString(in); got != want {
			t.Errorf("unescapeString(%q) = %q, want %q", in, got, want)
		}
	}
}
