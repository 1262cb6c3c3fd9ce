package main

import (
	"strings"
	"testing"

	"github.com/galluzlang/galluzc/lexer"
)

// parseRootModule turns a source string directly into a root SourceModule,
// the same way loadRootModule does for a directory of .glz files but without
// touching the filesystem.
func parseRootModule(t *testing.T, src string) *SourceModule {
	t.Helper()
	normalized := normalize(src, "t.glz")
	p := NewParser(lexer.NewLexer(strings.NewReader(normalized), "t.glz"))
	root, err := p.Parse()
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	mod := &SourceModule{
		Path:    "t.glz",
		Name:    "",
		Root:    root,
		Exports: map[string]Expr{},
		Nested:  map[string]*SourceModule{},
	}
	scanTopLevel(mod, root)
	return mod
}

func TestCodegenSimpleMainProducesEntryPoint(t *testing.T) {
	root := parseRootModule(t, `(fprint "%d\n" (+ 2 3))`)
	modu := codegen(root, NewModuleManager(t.TempDir()), settings{})

	ir := modu.String()
	if !strings.Contains(ir, "define i32 @main()") {
		t.Fatalf("expected a wrapped i32 @main in the generated IR, got:\n%s", ir)
	}
	if !strings.Contains(ir, "declare i32 @printf") {
		t.Fatalf("expected printf to be declared, got:\n%s", ir)
	}
}

func TestCodegenArithmeticAndStruct(t *testing.T) {
	root := parseRootModule(t, `
		(struct Point ((x !int) (y !int)))
		(defn (area !int) ((p !Point)) (* (getprop p x) (getprop p y)))
		(var p (new Point (x 3) (y 4)))
		(area p)
	`)
	modu := codegen(root, NewModuleManager(t.TempDir()), settings{})

	ir := modu.String()
	if !strings.Contains(ir, "%Point") {
		t.Fatalf("expected the Point struct type to appear in the generated IR, got:\n%s", ir)
	}
	if !strings.Contains(ir, "define i64 @area(") {
		t.Fatalf("expected area to be defined taking a pointer to Point, got:\n%s", ir)
	}
}

func TestCodegenLibraryWithoutMainDoesNotPanic(t *testing.T) {
	root := parseRootModule(t, `(defn (area !int) ((r !int)) (* r r))`)
	modu := codegen(root, NewModuleManager(t.TempDir()), settings{isLibrary: true})

	ir := modu.String()
	if !strings.Contains(ir, "define i64 @area(") {
		t.Fatalf("expected area to be defined, got:\n%s", ir)
	}
	if strings.Contains(ir, "@main") {
		t.Fatalf("a library build should not synthesize a main entry point")
	}
	if !strings.Contains(ir, "@_galluz_init") {
		t.Fatalf("a library build should synthesize its entry point under a non-main name, got:\n%s", ir)
	}
}

func TestCodegenNestedModuleQualifiesCalls(t *testing.T) {
	root := parseRootModule(t, `
		(defmodule shapes
			(defn (area !int) ((r !int)) (* r r)))
		(shapes.area 4)
	`)
	modu := codegen(root, NewModuleManager(t.TempDir()), settings{})

	ir := modu.String()
	if !strings.Contains(ir, "@\"shapes.area\"") && !strings.Contains(ir, "@shapes.area") {
		t.Fatalf("expected a qualified shapes.area function, got:\n%s", ir)
	}
}

func TestCodegenWhileLoopWithBreak(t *testing.T) {
	root := parseRootModule(t, `
		(var i 0)
		(while (< i 10)
			(if (== i 5) (break))
			(set i (+ i 1)))
		i
	`)
	modu := codegen(root, NewModuleManager(t.TempDir()), settings{})

	ir := modu.String()
	if !strings.Contains(ir, "loopcond") || !strings.Contains(ir, "loopexit") {
		t.Fatalf("expected while-loop blocks in the generated IR, got:\n%s", ir)
	}
}
