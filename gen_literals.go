package main

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// literalGen lowers the three atomic literal kinds straight to LLVM
// constants. It sits at the top of the priority order (spec's literal
// generators are priority 1000) since a bare Number/Fractional/Str node
// never needs to be reinterpreted as anything else.
type literalGen struct{}

func (literalGen) Priority() int { return 1000 }

func (literalGen) Accepts(e Expr, ctx *Lowerer) bool {
	switch e.(type) {
	case Number, Fractional, Str:
		return true
	}
	return false
}

func (literalGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	switch v := e.(type) {
	case Number:
		intType := ctx.Types.Lookup("int", v.Pos)
		return llvmValue{value: constant.NewInt(intType.LLVM.(*types.IntType), v.Value), gtype: intType}
	case Fractional:
		dt := ctx.Types.Lookup("double", v.Pos)
		return llvmValue{value: constant.NewFloat(dt.LLVM.(*types.FloatType), v.Value), gtype: dt}
	case Str:
		st := ctx.Types.Lookup("string", v.Pos)
		return llvmValue{value: ctx.stringPtr(unescapeString(v.Value)), gtype: st}
	}
	panic("unreachable")
}

// symGen resolves a bare symbol: `true`/`false` booleans, or a bound
// variable. Type-reference symbols (those starting with '!') are resolved
// by the generators that consume a type position directly and never reach
// this generator.
type symGen struct{}

func (symGen) Priority() int { return 950 }

func (symGen) Accepts(e Expr, ctx *Lowerer) bool {
	sym, ok := e.(Sym)
	return ok && sym.Value != ""
}

func (symGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	sym := e.(Sym)
	switch sym.Value {
	case "true":
		bt := ctx.Types.Lookup("bool", sym.Pos)
		return llvmValue{value: constant.True, gtype: bt}
	case "false":
		bt := ctx.Types.Lookup("bool", sym.Pos)
		return llvmValue{value: constant.False, gtype: bt}
	}

	slot := ctx.Env.LookupVar(sym.Value, sym.Pos)
	if slot.alloca == nil {
		return slot.ssa
	}
	return llvmValue{value: ctx.block.NewLoad(slot.gtype.LLVM, slot.alloca), gtype: slot.gtype}
}
