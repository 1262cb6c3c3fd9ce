package main

import (
	"github.com/galluzlang/galluzc/errors"
	"github.com/llir/llvm/ir"
)

// ifGen lowers `(if cond then else)`, building then/else/merge blocks and
// joining with a phi node exactly like the teacher's If case — generalized
// to accept a missing else arm. The phi is built only when both arms are
// present and non-void; with a missing else arm (or a void arm) no phi is
// built, no value stands in for the absent arm, and the form types as void.
type ifGen struct{}

func (ifGen) Priority() int { return 800 }
func (ifGen) Accepts(e Expr, ctx *Lowerer) bool { return isForm(e, "if") }

func (ifGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	if len(list.Value) < 3 || len(list.Value) > 4 {
		panic(errors.ShapeError{Form: "if", Message: "expects a condition, a then branch, and an optional else branch", Location: list.Pos})
	}

	cond := ctx.lower(list.Value[1])
	fn := ctx.fn

	thenBlock := fn.NewBlock("then")
	elseBlock := fn.NewBlock("else")
	mergeBlock := fn.NewBlock("ifcont")

	ctx.block.NewCondBr(ctx.b().truthy(cond.value), thenBlock, elseBlock)

	ctx.block = thenBlock
	thenVal := ctx.lower(list.Value[2])
	thenEnd := ctx.block
	thenEnd.NewBr(mergeBlock)

	var elseVal llvmValue
	elseVal.gtype = ctx.Types.Lookup("void", list.Pos)
	ctx.block = elseBlock
	if len(list.Value) == 4 {
		elseVal = ctx.lower(list.Value[3])
	}
	elseEnd := ctx.block
	elseEnd.NewBr(mergeBlock)

	ctx.block = mergeBlock

	if thenVal.gtype.Kind == KindVoid || elseVal.gtype.Kind == KindVoid {
		return llvmValue{gtype: ctx.Types.Lookup("void", list.Pos)}
	}

	phi := mergeBlock.NewPhi(ir.NewIncoming(thenVal.value, thenEnd), ir.NewIncoming(elseVal.value, elseEnd))
	return llvmValue{value: phi, gtype: thenVal.gtype}
}

// whileGen lowers `(while cond body...)` as a standard three-block loop:
// a condition-test block branched back into from the bottom of the body,
// and an exit block that break jumps to directly.
type whileGen struct{}

func (whileGen) Priority() int { return 800 }
func (whileGen) Accepts(e Expr, ctx *Lowerer) bool { return isForm(e, "while") }

func (whileGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	if len(list.Value) < 2 {
		panic(errors.ShapeError{Form: "while", Message: "expects a condition", Location: list.Pos})
	}

	fn := ctx.fn
	condBlock := fn.NewBlock("loopcond")
	bodyBlock := fn.NewBlock("loopbody")
	exitBlock := fn.NewBlock("loopexit")

	ctx.block.NewBr(condBlock)

	ctx.block = condBlock
	cond := ctx.lower(list.Value[1])
	ctx.block.NewCondBr(ctx.b().truthy(cond.value), bodyBlock, exitBlock)

	ctx.block = bodyBlock
	ctx.Env.PushLoop(loopFrame{continueBlock: condBlock, breakBlock: exitBlock})
	for _, stmt := range list.Value[2:] {
		ctx.lower(stmt)
	}
	ctx.Env.PopLoop()
	ctx.block.NewBr(condBlock)

	ctx.block = exitBlock
	return llvmValue{gtype: ctx.Types.Lookup("void", list.Pos)}
}

type breakGen struct{}

func (breakGen) Priority() int { return 800 }
func (breakGen) Accepts(e Expr, ctx *Lowerer) bool { return isForm(e, "break") }

func (breakGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	loop := ctx.Env.CurrentLoop("break", list.Pos)
	ctx.block.NewBr(loop.breakBlock)
	ctx.block = ctx.fn.NewBlock("unreachable")
	return llvmValue{gtype: ctx.Types.Lookup("void", list.Pos)}
}

type continueGen struct{}

func (continueGen) Priority() int { return 800 }
func (continueGen) Accepts(e Expr, ctx *Lowerer) bool { return isForm(e, "continue") }

func (continueGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	loop := ctx.Env.CurrentLoop("continue", list.Pos)
	ctx.block.NewBr(loop.continueBlock)
	ctx.block = ctx.fn.NewBlock("unreachable")
	return llvmValue{gtype: ctx.Types.Lookup("void", list.Pos)}
}
