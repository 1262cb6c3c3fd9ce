package main

import (
	"github.com/galluzlang/galluzc/errors"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// defnGen lowers `(defn (name !RetT) ((arg !type) ...) body...)`: the name
// and return type are a bundled head pair, not separate positional
// arguments. During codegen's forward-declaration pass every
// defn is registered as a bare signature first (so mutually recursive calls
// resolve), then on the second pass each body is actually lowered into its
// blocks.
type defnGen struct{}

func (defnGen) Priority() int { return 700 }
func (defnGen) Accepts(e Expr, ctx *Lowerer) bool { return isForm(e, "defn") }

func (defnGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	if len(list.Value) < 4 {
		panic(errors.ShapeError{Form: "defn", Message: "expects a (name !RetT) head, a parameter list, and a body", Location: list.Pos})
	}
	head, ok := list.Value[1].(List)
	if !ok || len(head.Value) != 2 {
		panic(errors.ShapeError{Form: "defn", Message: "first argument must be (name !RetT)", Location: list.Pos})
	}
	name, ok := head.Value[0].(Sym)
	retSym, ok2 := head.Value[1].(Sym)
	if !ok || !ok2 {
		panic(errors.ShapeError{Form: "defn", Message: "(name !RetT) head must be two symbols", Location: list.Pos})
	}
	paramList, ok := list.Value[2].(List)
	if !ok {
		panic(errors.ShapeError{Form: "defn", Message: "second argument must be a parameter list", Location: list.Pos})
	}
	retType := resolveTypeRef(ctx, retSym)

	if ctx.forwardDecl {
		var paramTypes []GType
		var paramNames []string
		for _, p := range paramList.Value {
			pair, ok := p.(List)
			if !ok || len(pair.Value) != 2 {
				panic(errors.ShapeError{Form: "defn", Message: "each parameter must be (name !type)", Location: list.Pos})
			}
			pname, ok := pair.Value[0].(Sym)
			ptypeSym, ok2 := pair.Value[1].(Sym)
			if !ok || !ok2 {
				panic(errors.ShapeError{Form: "defn", Message: "malformed parameter", Location: list.Pos})
			}
			paramNames = append(paramNames, pname.Value)
			paramTypes = append(paramTypes, resolveTypeRef(ctx, ptypeSym))
		}

		var irParams []*ir.Param
		for i, pt := range paramTypes {
			irParams = append(irParams, ir.NewParam(paramNames[i], pt.LLVM))
		}
		fn := ctx.module.NewFunc(qualifiedFnName(ctx, name.Value), retType.LLVM, irParams...)
		ctx.Env.BindFn(qualifiedFnName(ctx, name.Value), &fnSlot{fn: fn, params: paramTypes, ret: retType})
		return llvmValue{gtype: ctx.Types.Lookup("void", list.Pos)}
	}

	slot := ctx.Env.LookupFn(qualifiedFnName(ctx, name.Value), list.Pos)
	fn := slot.fn
	block := fn.NewBlock("entry")

	prevFn, prevBlock := ctx.fn, ctx.block
	ctx.fn, ctx.block = fn, block

	ctx.Env.PushScope()
	for i, pname := range paramNamesOf(paramList) {
		pt := slot.params[i]
		if pt.Kind == KindStruct {
			ctx.Env.BindVar(pname, &varSlot{ssa: llvmValue{value: fn.Params[i], gtype: pt}, gtype: pt})
			continue
		}
		storage := ctx.block.NewAlloca(pt.LLVM)
		ctx.block.NewStore(fn.Params[i], storage)
		ctx.Env.BindVar(pname, &varSlot{alloca: storage, gtype: pt})
	}
	var last llvmValue
	bodyRan := false
	for _, stmt := range list.Value[3:] {
		last = ctx.lower(stmt)
		bodyRan = true
	}
	ctx.Env.PopScope()

	switch {
	case retType.Kind == KindVoid:
		ctx.block.NewRet(nil)
	case !bodyRan:
		ctx.block.NewRet(zeroValueOf(retType))
	default:
		ctx.block.NewRet(Coerce(ctx.b(), last, retType, list.Pos).value)
	}

	ctx.fn, ctx.block = prevFn, prevBlock
	return llvmValue{gtype: ctx.Types.Lookup("void", list.Pos)}
}

// zeroValueOf returns the zero value for a Galluz type — used when a defn's
// body produces nothing but its declared return type is non-void.
func zeroValueOf(gt GType) value.Value {
	switch gt.Kind {
	case KindDouble:
		return constant.NewFloat(gt.LLVM.(*types.FloatType), 0)
	case KindBool:
		return constant.False
	case KindStruct, KindString:
		return constant.NewNull(gt.LLVM.(*types.PointerType))
	default:
		return constant.NewInt(gt.LLVM.(*types.IntType), 0)
	}
}

func paramNamesOf(paramList List) []string {
	var names []string
	for _, p := range paramList.Value {
		pair := p.(List)
		names = append(names, pair.Value[0].(Sym).Value)
	}
	return names
}

// resolveTypeRef resolves a `!name` symbol (or a bare struct name) to a
// registered GType.
func resolveTypeRef(ctx *Lowerer, sym Sym) GType {
	name := sym.Value
	if len(name) > 0 && name[0] == '!' {
		name = name[1:]
	}
	return ctx.Types.Lookup(name, sym.Pos)
}

// qualifiedFnName prefixes name with the name of the module currently being
// lowered — empty for the entry file itself, so its own defns bind under
// their bare names. The prefix is that one module's own name only: the
// names of enclosing defmodules are not added.
func qualifiedFnName(ctx *Lowerer, name string) string {
	if ctx.current != nil && ctx.current.Name != "" {
		return ctx.current.Name + "." + name
	}
	return name
}

// callGen is the dispatcher's generic-list fallback, priority 10 per the
// total order: a list whose head resolves to a bound function (plainly, or
// through a dotted module path) is a call. Everything more specific has
// already claimed the node by the time dispatch reaches this generator.
type callGen struct{}

func (callGen) Priority() int { return 10 }

func (callGen) Accepts(e Expr, ctx *Lowerer) bool {
	list, ok := e.(List)
	return ok && len(list.Value) >= 1
}

func (callGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	head, ok := list.Value[0].(Sym)
	if !ok {
		panic(errors.DispatchFailure{Head: "<non-symbol-head>", Location: list.Pos})
	}

	qualified := resolveCallTarget(ctx, head.Value)
	slot := ctx.Env.LookupFn(qualified, list.Pos)

	args := list.Value[1:]
	if !slot.variadic && len(args) != len(slot.params) {
		panic(errors.ShapeError{Form: head.Value, Message: "wrong number of arguments", Location: list.Pos})
	}

	var argVals []value.Value
	for i, a := range args {
		v := ctx.lower(a)
		if i < len(slot.params) {
			v = Coerce(ctx.b(), v, slot.params[i], list.Pos)
		}
		argVals = append(argVals, v.value)
	}

	call := ctx.block.NewCall(slot.fn, argVals...)
	return llvmValue{value: call, gtype: slot.ret}
}

// resolveCallTarget turns `circle.area` into the module-qualified function
// name the Module Manager registered it under, and a bare name into the
// current module's own qualified name.
func resolveCallTarget(ctx *Lowerer, name string) string {
	if idx := lastDot(name); idx >= 0 {
		return name[:idx] + "." + name[idx+1:]
	}
	return qualifiedFnName(ctx, name)
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}
