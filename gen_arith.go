package main

import (
	"github.com/galluzlang/galluzc/errors"
	"github.com/galluzlang/galluzc/token"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
)

var arithOps = map[string]bool{"+": true, "-": true, "*": true, "/": true, "%": true}

// arithGen lowers `(+ a b ...)` and friends: every operator is variadic and
// left-folded. A lone unary `(- x)` negates; a lone unary `(+ x)` is
// identity; `*`, `/` and `%` need at least two operands. `%` on a double operand is fatal — LLVM has no
// floating modulo instruction in this front end's arithmetic set.
type arithGen struct{}

func (arithGen) Priority() int { return 750 }

func (arithGen) Accepts(e Expr, ctx *Lowerer) bool {
	list, ok := e.(List)
	if !ok || len(list.Value) == 0 {
		return false
	}
	sym, ok := list.Value[0].(Sym)
	return ok && arithOps[sym.Value]
}

func (arithGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	op := list.Value[0].(Sym).Value
	args := list.Value[1:]

	if len(args) == 0 {
		panic(errors.ShapeError{Form: op, Message: "expects at least one argument", Location: list.Pos})
	}

	if len(args) == 1 {
		v := ctx.lower(args[0])
		switch op {
		case "+":
			return v
		case "-":
			return negate(ctx, v, list.Pos)
		default:
			panic(errors.ShapeError{Form: op, Message: "expects at least two arguments", Location: list.Pos})
		}
	}

	acc := ctx.lower(args[0])
	for _, rest := range args[1:] {
		rhs := ctx.lower(rest)
		acc = applyArith(ctx, op, acc, rhs, list.Pos)
	}
	return acc
}

func negate(ctx *Lowerer, v llvmValue, loc token.Span) llvmValue {
	switch v.gtype.Kind {
	case KindInt:
		return llvmValue{value: ctx.block.NewSub(constant.NewInt(v.value.Type().(*types.IntType), 0), v.value), gtype: v.gtype}
	case KindDouble:
		return llvmValue{value: ctx.block.NewFSub(constant.NewFloat(v.value.Type().(*types.FloatType), 0), v.value), gtype: v.gtype}
	}
	panic(errors.TypeMismatch{Context: "unary -", Expected: "int or double", Got: v.gtype.Name, Location: loc})
}

func applyArith(ctx *Lowerer, op string, a, b llvmValue, loc token.Span) llvmValue {
	kind := a.gtype
	if a.gtype.Kind == KindDouble || b.gtype.Kind == KindDouble {
		kind = ctx.Types.Lookup("double", loc)
	}
	a = Coerce(ctx.b(), a, kind, loc)
	b = Coerce(ctx.b(), b, kind, loc)

	if kind.Kind == KindDouble {
		switch op {
		case "+":
			return llvmValue{value: ctx.block.NewFAdd(a.value, b.value), gtype: kind}
		case "-":
			return llvmValue{value: ctx.block.NewFSub(a.value, b.value), gtype: kind}
		case "*":
			return llvmValue{value: ctx.block.NewFMul(a.value, b.value), gtype: kind}
		case "/":
			return llvmValue{value: ctx.block.NewFDiv(a.value, b.value), gtype: kind}
		case "%":
			panic(errors.TypeMismatch{Context: "%", Expected: "int", Got: "double", Location: loc})
		}
	}

	switch op {
	case "+":
		return llvmValue{value: ctx.block.NewAdd(a.value, b.value), gtype: kind}
	case "-":
		return llvmValue{value: ctx.block.NewSub(a.value, b.value), gtype: kind}
	case "*":
		return llvmValue{value: ctx.block.NewMul(a.value, b.value), gtype: kind}
	case "/":
		return llvmValue{value: ctx.block.NewSDiv(a.value, b.value), gtype: kind}
	case "%":
		return llvmValue{value: ctx.block.NewSRem(a.value, b.value), gtype: kind}
	}
	panic("unreachable")
}

var cmpOps = map[string]bool{"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true}

// cmpGen lowers the comparison operators to a single icmp/fcmp, picking the
// integer or floating predicate based on the (coerced) operand kind, then
// zero-extends the i1 result to int so it composes with arithmetic.
type cmpGen struct{}

func (cmpGen) Priority() int { return 740 }

func (cmpGen) Accepts(e Expr, ctx *Lowerer) bool {
	list, ok := e.(List)
	if !ok || len(list.Value) == 0 {
		return false
	}
	sym, ok := list.Value[0].(Sym)
	return ok && cmpOps[sym.Value]
}

func (cmpGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	op := list.Value[0].(Sym).Value
	if len(list.Value) != 3 {
		panic(errors.ShapeError{Form: op, Message: "expects exactly two arguments", Location: list.Pos})
	}

	a := ctx.lower(list.Value[1])
	b := ctx.lower(list.Value[2])

	kind := a.gtype
	if a.gtype.Kind == KindDouble || b.gtype.Kind == KindDouble {
		kind = ctx.Types.Lookup("double", list.Pos)
	}
	a = Coerce(ctx.b(), a, kind, list.Pos)
	b = Coerce(ctx.b(), b, kind, list.Pos)

	intT := ctx.Types.Lookup("int", list.Pos)

	if kind.Kind == KindDouble {
		pred := map[string]enum.FPred{
			"==": enum.FPredOEQ, "!=": enum.FPredONE,
			"<": enum.FPredOLT, ">": enum.FPredOGT,
			"<=": enum.FPredOLE, ">=": enum.FPredOGE,
		}[op]
		cmp := ctx.block.NewFCmp(pred, a.value, b.value)
		return llvmValue{value: ctx.block.NewZExt(cmp, intT.LLVM), gtype: intT}
	}

	pred := map[string]enum.IPred{
		"==": enum.IPredEQ, "!=": enum.IPredNE,
		"<": enum.IPredSLT, ">": enum.IPredSGT,
		"<=": enum.IPredSLE, ">=": enum.IPredSGE,
	}[op]
	cmp := ctx.block.NewICmp(pred, a.value, b.value)
	return llvmValue{value: ctx.block.NewZExt(cmp, intT.LLVM), gtype: intT}
}
