package main

import (
	"github.com/galluzlang/galluzc/errors"
	"github.com/galluzlang/galluzc/token"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// scopeGen lowers `(scope e1 e2 ...)`, Galluz's grouping form: push a fresh
// frame, lower every child for effect, and hand back the last one's value
// (or int 0 for an empty scope).
type scopeGen struct{}

func (scopeGen) Priority() int { return 850 }

func (scopeGen) Accepts(e Expr, ctx *Lowerer) bool {
	return isForm(e, "scope")
}

func (scopeGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	ctx.Env.PushScope()
	defer ctx.Env.PopScope()

	if len(list.Value) == 1 {
		intT := ctx.Types.Lookup("int", list.Pos)
		return llvmValue{value: constant.NewInt(types.I64, 0), gtype: intT}
	}

	var last llvmValue
	for _, child := range list.Value[1:] {
		last = ctx.lower(child)
	}
	return last
}

// doGen lowers `(do e1 e2 ...)`: identical to scope except its default for
// an empty body is an i64 0 rather than scope's — a distinction that only
// matters in an implementation that keeps more than one integer width; this
// one fixes i64 for every integer, so the two defaults coincide in practice.
type doGen struct{}

func (doGen) Priority() int { return 100 }

func (doGen) Accepts(e Expr, ctx *Lowerer) bool {
	return isForm(e, "do")
}

func (doGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	ctx.Env.PushScope()
	defer ctx.Env.PopScope()

	if len(list.Value) == 1 {
		intT := ctx.Types.Lookup("int", list.Pos)
		return llvmValue{value: constant.NewInt(types.I64, 0), gtype: intT}
	}

	var last llvmValue
	for _, child := range list.Value[1:] {
		last = ctx.lower(child)
	}
	return last
}

// declNameAndType resolves the name half of a binding form's first
// argument, which is either a bare `name` or an annotated `(name !Type)`
// pair per spec §4.4. The bool result reports whether an annotation was
// present, since only then should the initializer be coerced.
func declNameAndType(ctx *Lowerer, e Expr, form string, loc token.Span) (string, GType, bool) {
	switch v := e.(type) {
	case Sym:
		return v.Value, GType{}, false
	case List:
		if len(v.Value) != 2 {
			panic(errors.ShapeError{Form: form, Message: "annotated name must be (name !Type)", Location: loc})
		}
		name, ok := v.Value[0].(Sym)
		if !ok {
			panic(errors.ShapeError{Form: form, Message: "annotated name must be (name !Type)", Location: loc})
		}
		tsym, ok := v.Value[1].(Sym)
		if !ok {
			panic(errors.ShapeError{Form: form, Message: "annotated name must be (name !Type)", Location: loc})
		}
		return name.Value, resolveTypeRef(ctx, tsym), true
	default:
		panic(errors.ShapeError{Form: form, Message: "first argument must be a name or (name !Type)", Location: loc})
	}
}

// varGen lowers `(var name init)` or `(var (name !T) init)`: a mutable,
// block-local binding backed by an alloca, matching the teacher's
// MutDeclaration. A struct-typed initializer binds the raw SSA pointer
// instead — a struct value is already a pointer to storage (a `new`
// alloca or a caller's pointer), so there's nothing for a local alloca to
// add.
type varGen struct{}

func (varGen) Priority() int { return 900 }
func (varGen) Accepts(e Expr, ctx *Lowerer) bool { return isForm(e, "var") }

func (varGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	if len(list.Value) != 3 {
		panic(errors.ShapeError{Form: "var", Message: "expects a name and an initializer", Location: list.Pos})
	}
	name, declared, annotated := declNameAndType(ctx, list.Value[1], "var", list.Pos)

	init := ctx.lower(list.Value[2])
	if annotated {
		init = Coerce(ctx.b(), init, declared, list.Pos)
	}

	if init.gtype.Kind == KindStruct {
		ctx.Env.BindVar(name, &varSlot{ssa: init, gtype: init.gtype})
		return init
	}

	alloca := ctx.block.NewAlloca(init.value.Type())
	ctx.block.NewStore(init.value, alloca)

	ctx.Env.BindVar(name, &varSlot{alloca: alloca, gtype: init.gtype})
	return init
}

// coerceConstant is Coerce's constant-expression counterpart: globals are
// materialized during the forward-declaration pass, whose block is a
// scratch block outside the module, and a global's initializer must be a
// constant rather than a cast instruction appended to some block.
// llir/llvm's constant-expression builders (NewSExt, NewTrunc, NewSIToFP,
// ...) work directly on constant.Constant without one.
func coerceConstant(v llvmValue, want GType, loc token.Span) llvmValue {
	if v.gtype.Kind == want.Kind && v.value.Type().Equal(want.LLVM) {
		return v
	}
	c, ok := v.value.(constant.Constant)
	if !ok {
		panic(errors.ConstantRequired{Location: loc})
	}

	switch {
	case want.Kind == KindInt && v.gtype.Kind == KindInt:
		from, to := v.gtype.LLVM.(*types.IntType), want.LLVM.(*types.IntType)
		if from.BitSize < to.BitSize {
			return llvmValue{value: constant.NewSExt(c, want.LLVM), gtype: want}
		}
		return llvmValue{value: constant.NewTrunc(c, want.LLVM), gtype: want}
	case want.Kind == KindDouble && v.gtype.Kind == KindDouble:
		from, to := v.gtype.LLVM.(*types.FloatType), want.LLVM.(*types.FloatType)
		if from.Kind < to.Kind {
			return llvmValue{value: constant.NewFPExt(c, want.LLVM), gtype: want}
		}
		return llvmValue{value: constant.NewFPTrunc(c, want.LLVM), gtype: want}
	case want.Kind == KindDouble && v.gtype.Kind == KindInt:
		return llvmValue{value: constant.NewSIToFP(c, want.LLVM), gtype: want}
	case want.Kind == KindInt && v.gtype.Kind == KindDouble:
		return llvmValue{value: constant.NewFPToSI(c, want.LLVM), gtype: want}
	case want.Kind == KindBool && v.gtype.Kind == KindInt:
		return llvmValue{value: constant.NewTrunc(c, want.LLVM), gtype: want}
	}

	panic(errors.TypeMismatch{Context: "coercion", Expected: want.Name, Got: v.gtype.Name, Location: loc})
}

// globalGen lowers `(global name init)` or `(global (name !T) init)`: a
// module-level global that `set` can later store into. The initializer
// must be a compile-time constant
// (spec §7's ConstantRequired) since llir/llvm globals are initialized
// once, not by instructions.
type globalGen struct{}

func (globalGen) Priority() int { return 900 }
func (globalGen) Accepts(e Expr, ctx *Lowerer) bool { return isForm(e, "global") }

func (globalGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	if len(list.Value) != 3 {
		panic(errors.ShapeError{Form: "global", Message: "expects a name and an initializer", Location: list.Pos})
	}
	name, declared, annotated := declNameAndType(ctx, list.Value[1], "global", list.Pos)

	// Globals are module-level definitions, not per-call instructions: only
	// materialize the llir/llvm global during the forward-declaration
	// pass, same as defn's signature. The body-lowering pass just reads
	// the slot the first pass already bound.
	if !ctx.forwardDecl {
		slot := ctx.Env.LookupVar(name, list.Pos)
		return llvmValue{value: slot.alloca, gtype: slot.gtype}
	}

	lit, ok := list.Value[2].(Number)
	var init llvmValue
	if ok {
		init = ctx.lower(lit)
	} else if f, ok := list.Value[2].(Fractional); ok {
		init = ctx.lower(f)
	} else if s, ok := list.Value[2].(Str); ok {
		init = ctx.lower(s)
	} else {
		panic(errors.ConstantRequired{Location: list.Pos})
	}

	if annotated {
		init = coerceConstant(init, declared, list.Pos)
	}

	g := ctx.module.NewGlobalDef(name, toConstant(init.value))
	ctx.Env.BindGlobal(name, &varSlot{alloca: g, gtype: init.gtype, isGlobal: true})
	return init
}

// setGen lowers `(set name value)`, reassigning an existing mutable
// binding: one whose varSlot has a non-nil alloca (a non-struct `var`, a
// `global`, a non-struct parameter, or a finput target). Struct-typed
// bindings hold their pointer as an SSA value and are rejected.
type setGen struct{}

func (setGen) Priority() int { return 900 }
func (setGen) Accepts(e Expr, ctx *Lowerer) bool { return isForm(e, "set") }

func (setGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	if len(list.Value) != 3 {
		panic(errors.ShapeError{Form: "set", Message: "expects a name and a value", Location: list.Pos})
	}
	name, ok := list.Value[1].(Sym)
	if !ok {
		panic(errors.ShapeError{Form: "set", Message: "first argument must be a name", Location: list.Pos})
	}

	slot := ctx.Env.LookupVar(name.Value, list.Pos)
	if slot.alloca == nil {
		panic(errors.ShapeError{Form: "set", Message: "'" + name.Value + "' is not mutable", Location: list.Pos})
	}

	val := ctx.lower(list.Value[2])
	val = Coerce(ctx.b(), val, slot.gtype, list.Pos)
	ctx.block.NewStore(val.value, slot.alloca)
	return val
}

func isForm(e Expr, head string) bool {
	list, ok := e.(List)
	if !ok || len(list.Value) == 0 {
		return false
	}
	sym, ok := list.Value[0].(Sym)
	return ok && sym.Value == head
}
