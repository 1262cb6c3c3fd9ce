package main

// importGen and moduleuseGen are no-ops at lowering time: loadImports,
// called at the start of codegen, loads every imported file and selects
// its modules, and codegen lowers those modules' bodies itself before the
// entry module's own forms. The generators exist so
// the dispatcher doesn't treat a leftover `(import ...)`/`(moduleuse ...)`
// node as a DispatchFailure if one survives into the body stream.
type importGen struct{}

func (importGen) Priority() int { return 600 }
func (importGen) Accepts(e Expr, ctx *Lowerer) bool { return isForm(e, "import") }
func (importGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	return llvmValue{gtype: ctx.Types.Lookup("void", e.Span())}
}

type moduleuseGen struct{}

func (moduleuseGen) Priority() int { return 600 }
func (moduleuseGen) Accepts(e Expr, ctx *Lowerer) bool { return isForm(e, "moduleuse") }
func (moduleuseGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	return llvmValue{gtype: ctx.Types.Lookup("void", e.Span())}
}

type defmoduleGen struct{}

func (defmoduleGen) Priority() int { return 600 }
func (defmoduleGen) Accepts(e Expr, ctx *Lowerer) bool { return isForm(e, "defmodule") }

// defmoduleGen lowers the bodies nested inside a module block under the
// module's own qualified prefix, switching ctx.current for the duration so
// defn registers itself as e.g. "shapes.area" rather than a bare "area".
func (defmoduleGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	name := list.Value[1].(Sym)

	nested, ok := ctx.current.Nested[name.Value]
	if !ok {
		nested = &SourceModule{Name: name.Value, Root: list, Exports: map[string]Expr{}, Nested: map[string]*SourceModule{}}
	}
	lowerModuleBody(ctx, nested)

	return llvmValue{gtype: ctx.Types.Lookup("void", list.Pos)}
}
