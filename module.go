package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/galluzlang/galluzc/errors"
	"github.com/galluzlang/galluzc/lexer"
	"github.com/galluzlang/galluzc/token"
)

// SourceModule is one loaded, parsed, normalized .glz file. defmodule forms
// found anywhere inside its top-level scope are registered under their own
// name, so `(a.b foo)` can resolve `b` to a module nested in file `a` just
// as easily as a top-level one.
type SourceModule struct {
	Path    string
	Name    string // a loaded file's basename without extension, a defmodule's own name, or "" for the entry module
	Root    Expr
	Exports map[string]Expr // every defn/struct/global bound at this module's top level, by bare name
	Nested  map[string]*SourceModule
}

// ModuleManager loads, caches, and resolves every file pulled in by an
// import form. It is the single owner of the file-level cache so the same
// path is never parsed twice, and it DFS-walks the import graph to reject
// cycles before any codegen begins.
type ModuleManager struct {
	baseDir string
	loaded  map[string]*SourceModule
	loading map[string]bool // on the current DFS stack; seeing it again is a cycle
	used    map[string]bool // "<file path>.<modName>" keys already registered by an import
}

func NewModuleManager(baseDir string) *ModuleManager {
	return &ModuleManager{
		baseDir: baseDir,
		loaded:  map[string]*SourceModule{},
		loading: map[string]bool{},
		used:    map[string]bool{},
	}
}

// IsUsed reports whether the module registration key has already been
// processed by a prior import — re-importing it is then a silent no-op.
func (m *ModuleManager) IsUsed(key string) bool { return m.used[key] }

// MarkUsed records a module registration key as processed.
func (m *ModuleManager) MarkUsed(key string) { m.used[key] = true }

func (m *ModuleManager) resolvePath(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(m.baseDir, name)
}

// Load parses and normalizes the named file (a bare module name, or one
// ending in .glz), registers its nested defmodule forms, and returns the
// cached SourceModule. loc is the import site, used only for diagnostics.
func (m *ModuleManager) Load(name string, loc token.Span) *SourceModule {
	path := m.resolvePath(name)
	if !strings.HasSuffix(path, ".glz") {
		path += ".glz"
	}

	if mod, ok := m.loaded[path]; ok {
		return mod
	}
	if m.loading[path] {
		panic(errors.ModuleError{Message: "circular import of '" + name + "'", Location: loc})
	}
	m.loading[path] = true
	defer delete(m.loading, path)

	data, err := os.ReadFile(path)
	if err != nil {
		panic(errors.ModuleError{Message: "cannot read module file '" + path + "': " + err.Error(), Location: loc})
	}

	normalized := normalize(string(data), path)
	p := NewParser(lexer.NewLexer(strings.NewReader(normalized), path))
	root, perr := p.Parse()
	if perr != nil {
		panic(perr)
	}

	mod := &SourceModule{
		Path:    path,
		Name:    strings.TrimSuffix(filepath.Base(path), ".glz"),
		Root:    root,
		Exports: map[string]Expr{},
		Nested:  map[string]*SourceModule{},
	}
	scanTopLevel(mod, root)

	// Follow this file's own import statements while it's still on the
	// loading stack, so a cycle anywhere in the import graph (not just a
	// direct self-import) trips the loading-set guard above.
	for _, importedPath := range importedPaths(root) {
		m.Load(importedPath, loc)
	}

	m.loaded[path] = mod
	return mod
}

// importedPaths collects every path string named by an `(import "path" ...)`
// form reachable from e's top-level scope.
func importedPaths(e Expr) []string {
	var paths []string
	var walk func(e Expr)
	walk = func(e Expr) {
		list, ok := e.(List)
		if !ok || len(list.Value) == 0 {
			return
		}
		if isForm(list, "import") && len(list.Value) >= 2 {
			if pathStr, ok := list.Value[1].(Str); ok {
				paths = append(paths, pathStr.Value)
			}
			return
		}
		if isForm(list, "scope") {
			for _, child := range list.Value[1:] {
				walk(child)
			}
		}
	}
	walk(e)
	return paths
}

// scanTopLevel walks every form reachable from the module's top scope
// (which normalize.go always wraps as `(scope ...)` when there's more than
// one) and records every top-level defn/struct/global binding, plus any
// defmodule it finds, regardless of how deeply nested inside that scope.
func scanTopLevel(mod *SourceModule, e Expr) {
	list, ok := e.(List)
	if !ok || len(list.Value) == 0 {
		return
	}
	head, ok := list.Value[0].(Sym)
	if !ok {
		return
	}

	switch head.Value {
	case "scope":
		for _, child := range list.Value[1:] {
			scanTopLevel(mod, child)
		}
	case "defn":
		if len(list.Value) >= 2 {
			if headPair, ok := list.Value[1].(List); ok && len(headPair.Value) == 2 {
				if name, ok := headPair.Value[0].(Sym); ok {
					mod.Exports[name.Value] = list
				}
			}
		}
	case "struct":
		if len(list.Value) >= 2 {
			if name, ok := list.Value[1].(Sym); ok {
				mod.Exports[name.Value] = list
			}
		}
	case "global":
		if len(list.Value) >= 2 {
			if name, ok := bindingNameOf(list.Value[1]); ok {
				mod.Exports[name] = list
			}
		}
	case "defmodule":
		if len(list.Value) >= 2 {
			if name, ok := list.Value[1].(Sym); ok {
				nested := &SourceModule{
					Path:    mod.Path,
					Name:    name.Value,
					Root:    list,
					Exports: map[string]Expr{},
					Nested:  map[string]*SourceModule{},
				}
				for _, child := range list.Value[2:] {
					scanTopLevel(nested, child)
				}
				mod.Nested[name.Value] = nested
			}
		}
	}
}

// bindingNameOf extracts the bound name from either a bare symbol or an
// annotated (name !type) pair, for scanning `global` exports.
func bindingNameOf(e Expr) (string, bool) {
	switch v := e.(type) {
	case Sym:
		return v.Value, true
	case List:
		if len(v.Value) != 2 {
			return "", false
		}
		name, ok := v.Value[0].(Sym)
		return name.Value, ok
	}
	return "", false
}

// Resolve follows a dotted name (e.g. "shapes.circle.area") through nested
// defmodule boundaries starting from the root module set, returning the
// innermost module and the bare symbol left unresolved within it.
func (m *ModuleManager) Resolve(root *SourceModule, dotted string, loc token.Span) (*SourceModule, string) {
	parts := strings.Split(dotted, ".")
	cur := root
	for _, part := range parts[:len(parts)-1] {
		next, ok := cur.Nested[part]
		if !ok {
			panic(errors.UndefinedName{Kind: "module", Name: part, Location: loc})
		}
		cur = next
	}
	return cur, parts[len(parts)-1]
}
