package main

import (
	"os"

	"github.com/galluzlang/galluzc/errors"
	"github.com/galluzlang/galluzc/token"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// registerExports walks every defn/struct/global/defmodule a module
// exposes and checks it against the accumulator seen so far, panicking with
// a ModuleError on the first collision. This is the cross-module
// symbol-uniqueness enforcement the Module Manager's file-level cache
// alone doesn't give you: two different files can each define their own
// top-level `area`, and only combining them here catches the clash.
func registerExports(mod *SourceModule, prefix string, seen map[string]token.Span) {
	for name, expr := range mod.Exports {
		key := prefix + name
		if loc, ok := seen[key]; ok {
			panic(errors.ModuleError{
				Message:  "duplicate top-level symbol '" + key + "' (first defined at " + loc.String() + ")",
				Location: expr.Span(),
			})
		}
		seen[key] = expr.Span()
	}
	for name, nested := range mod.Nested {
		registerExports(nested, prefix+name+".", seen)
	}
}

// codegen lowers a fully resolved root module (plus every module pulled in
// by an import) into an *ir.Module. A single fatal error aborts the whole
// compilation by panicking one of the errors package's kinds; codegen is
// the only place that recovers it, prints it, and exits — cleanup of any
// partially built state happens by process exit, same as the teacher's
// codegen().
func codegen(root *SourceModule, modules *ModuleManager, settings settings) (result *ir.Module) {
	defer func() {
		if v := recover(); v != nil {
			if err, ok := v.(error); ok {
				os.Stderr.WriteString(err.Error() + "\n")
				os.Exit(1)
			}
			panic(v)
		}
	}()

	imported := loadImports(root, modules)

	seen := map[string]token.Span{}
	registerExports(root, "", seen)
	for _, mod := range imported {
		registerExports(mod, mod.Name+".", seen)
	}

	modu := ir.NewModule()
	lw := NewLowerer(modu, modules)
	lw.runtime, lw.runtimeGlobals = declareRuntime(modu)

	for _, g := range allGenerators() {
		lw.Disp.Register(g)
	}

	// Forward-declaration pass: every defn/struct/global signature is
	// registered — root's own, and every module pulled in by an import —
	// before any body is lowered, so mutually recursive calls resolve.
	// Imported modules go first, as in wrapEntryPoint, so a top-level call
	// into one resolves. Non-declaration top-level forms are lowered too, so
	// the pass emits into a scratch function that is never added to modu.
	lw.forwardDecl = true
	scratch := ir.NewFunc("_galluz_forward_decl", types.I32)
	lw.fn, lw.block = scratch, scratch.NewBlock("entry")
	for _, mod := range imported {
		lowerModuleBody(lw, mod)
	}
	lw.current = root
	lw.lower(root.Root)

	lw.forwardDecl = false
	lw.Env.frames = []map[string]*varSlot{{}} // bodies get a clean lexical stack; fns/types carry over

	wrapEntryPoint(lw, root, imported, settings.isLibrary)
	return modu
}

// wrapEntryPoint builds the process's real entry function, lowering every
// imported module's top-level forms and then the unit's own normalized
// top-level expression directly into its body — spec's entry-point
// contract: the compilation unit defines main() -> i32 around whichever
// top-level expression normalization produced, and its last action is
// `return 0`. A library build still needs a valid insertion block for any
// stray non-defn top-level form, so it gets one under a name that is never
// itself the process entry point.
func wrapEntryPoint(lw *Lowerer, root *SourceModule, imported []*SourceModule, isLibrary bool) {
	name := "main"
	if isLibrary {
		name = "_galluz_init"
	}
	fn := lw.module.NewFunc(name, types.I32)
	block := fn.NewBlock("entry")
	lw.fn, lw.block = fn, block

	for _, mod := range imported {
		lowerModuleBody(lw, mod)
	}
	lw.current = root
	lw.lower(root.Root)

	lw.block.NewRet(constant.NewInt(types.I32, 0))
}

// lowerModuleBody lowers every child of a module's body (everything after
// its name) with ctx.current switched to that module, so a defn inside
// registers under the module's own qualified prefix (e.g. "shapes.area")
// rather than the enclosing file's.
func lowerModuleBody(ctx *Lowerer, mod *SourceModule) {
	list, ok := mod.Root.(List)
	if !ok {
		return
	}
	prev := ctx.current
	ctx.current = mod
	for _, stmt := range list.Value[2:] {
		ctx.lower(stmt)
	}
	ctx.current = prev
}

// loadImports walks the root module's top-level forms for
// `(import "path" (module A) (module B) ...)`. An empty selector list
// registers every module defmodule'd in the file; a named list registers
// only those, and a missing name is fatal. Each selected module is
// registered at most once — re-importing it is a silent no-op.
func loadImports(root *SourceModule, modules *ModuleManager) []*SourceModule {
	var out []*SourceModule
	var walk func(e Expr)
	walk = func(e Expr) {
		list, ok := e.(List)
		if !ok || len(list.Value) == 0 {
			return
		}
		if isForm(list, "import") && len(list.Value) >= 2 {
			pathStr, ok := list.Value[1].(Str)
			if !ok {
				panic(errors.ShapeError{Form: "import", Message: "first argument must be a path string", Location: list.Pos})
			}
			file := modules.Load(pathStr.Value, list.Pos)

			var names []string
			for _, sel := range list.Value[2:] {
				selList, ok := sel.(List)
				if !ok || !isForm(selList, "module") || len(selList.Value) != 2 {
					panic(errors.ShapeError{Form: "import", Message: "module selector must be (module Name)", Location: list.Pos})
				}
				nameSym, ok := selList.Value[1].(Sym)
				if !ok {
					panic(errors.ShapeError{Form: "import", Message: "module selector name must be a symbol", Location: list.Pos})
				}
				names = append(names, nameSym.Value)
			}
			if len(names) == 0 {
				for modName := range file.Nested {
					names = append(names, modName)
				}
			}

			for _, modName := range names {
				nested, ok := file.Nested[modName]
				if !ok {
					panic(errors.ModuleError{Message: "module '" + modName + "' not found in '" + pathStr.Value + "'", Location: list.Pos})
				}
				key := file.Path + "." + modName
				if modules.IsUsed(key) {
					continue
				}
				modules.MarkUsed(key)
				out = append(out, nested)
			}
			return
		}
		if isForm(list, "scope") {
			for _, child := range list.Value[1:] {
				walk(child)
			}
		}
	}
	walk(root.Root)
	return out
}

func allGenerators() []Generator {
	return []Generator{
		literalGen{}, symGen{},
		scopeGen{}, doGen{}, varGen{}, globalGen{}, setGen{},
		ifGen{}, whileGen{}, breakGen{}, continueGen{},
		arithGen{}, cmpGen{},
		defnGen{},
		structGen{}, newGen{}, getpropGen{}, setpropGen{}, haspropGen{},
		importGen{}, moduleuseGen{}, defmoduleGen{},
		fprintGen{}, finputGen{},
		callGen{},
	}
}
