package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/galluzlang/galluzc/token"
)

func writeGlz(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0644); err != nil {
		t.Fatalf("writing %s: %s", name, err)
	}
}

func TestModuleManagerLoadScansExports(t *testing.T) {
	dir := t.TempDir()
	writeGlz(t, dir, "shapes.glz", `(defn (area !int) ((r !int)) (* r r))`)

	m := NewModuleManager(dir)
	mod := m.Load("shapes", token.Span{})

	if mod.Name != "shapes" {
		t.Fatalf("got module name %q, want shapes", mod.Name)
	}
	if _, ok := mod.Exports["area"]; !ok {
		t.Fatalf("expected 'area' to be exported")
	}
}

func TestModuleManagerCachesByPath(t *testing.T) {
	dir := t.TempDir()
	writeGlz(t, dir, "shapes.glz", `(defn (area !int) ((r !int)) (* r r))`)

	m := NewModuleManager(dir)
	first := m.Load("shapes", token.Span{})
	second := m.Load("shapes", token.Span{})
	if first != second {
		t.Fatalf("expected repeated loads of the same module to return the cached instance")
	}
}

func TestModuleManagerMissingFilePanics(t *testing.T) {
	dir := t.TempDir()
	m := NewModuleManager(dir)

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for a missing module file")
		}
	}()
	m.Load("nope", token.Span{})
}

func TestScanTopLevelFindsNestedModule(t *testing.T) {
	dir := t.TempDir()
	writeGlz(t, dir, "shapes.glz", `(defmodule circle (defn (area !int) ((r !int)) (* r r)))`)

	m := NewModuleManager(dir)
	mod := m.Load("shapes", token.Span{})

	nested, ok := mod.Nested["circle"]
	if !ok {
		t.Fatalf("expected a nested module 'circle'")
	}
	if _, ok := nested.Exports["area"]; !ok {
		t.Fatalf("expected 'circle' to export 'area'")
	}
}

func TestModuleManagerResolveDottedName(t *testing.T) {
	dir := t.TempDir()
	writeGlz(t, dir, "shapes.glz", `(defmodule circle (defn (area !int) ((r !int)) (* r r)))`)

	m := NewModuleManager(dir)
	root := m.Load("shapes", token.Span{})

	owner, bare := m.Resolve(root, "circle.area", token.Span{})
	if owner.Name != "circle" || bare != "area" {
		t.Fatalf("got owner=%q bare=%q, want circle/area", owner.Name, bare)
	}
}

func TestModuleManagerResolveUnknownModulePanics(t *testing.T) {
	dir := t.TempDir()
	writeGlz(t, dir, "shapes.glz", `(defn (area !int) ((r !int)) (* r r))`)

	m := NewModuleManager(dir)
	root := m.Load("shapes", token.Span{})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic resolving through a nonexistent nested module")
		}
	}()
	m.Resolve(root, "triangle.area", token.Span{})
}
