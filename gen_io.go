package main

import (
	"strconv"

	"github.com/galluzlang/galluzc/errors"
	"github.com/galluzlang/galluzc/token"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// fprintGen lowers `(fprint "format" arg...)` to a printf call. The format
// string is interned as a global exactly like the teacher's string
// literals; arguments are passed through as-is, since libc's varargs
// promotion (not this front end) decides their calling-convention width.
type fprintGen struct{}

func (fprintGen) Priority() int { return 550 }
func (fprintGen) Accepts(e Expr, ctx *Lowerer) bool { return isForm(e, "fprint") }

func (fprintGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	if len(list.Value) < 2 {
		panic(errors.ShapeError{Form: "fprint", Message: "expects a format string", Location: list.Pos})
	}
	fmtStr, ok := list.Value[1].(Str)
	if !ok {
		panic(errors.ShapeError{Form: "fprint", Message: "first argument must be a string literal", Location: list.Pos})
	}

	var args []value.Value
	args = append(args, ctx.stringPtr(unescapeString(fmtStr.Value)))
	for _, a := range list.Value[2:] {
		args = append(args, ctx.lower(a).value)
	}

	printf := ctx.runtime["printf"]
	call := ctx.block.NewCall(printf, args...)
	intT := ctx.Types.Lookup("int", list.Pos)
	return llvmValue{value: ctx.block.NewSExt(call, intT.LLVM), gtype: intT}
}

// finputTarget is one resolved scan destination. destPtr is where the
// target's final value ends up: for a non-string it's also where scanf
// writes directly; for a string, scanf instead fills a 256-byte stack
// buffer and the heap-copy step stores the resulting pointer into destPtr.
type finputTarget struct {
	destPtr  value.Value
	gtype    GType
	bindName string // "" for an existing variable, which is already bound
}

// finputGen lowers `(finput [prompt] target...)` per two shapes. With no
// targets it is prompt-only: print the prompt, fgets a line into a stack
// buffer, strip the trailing newline, and hand back the buffer pointer —
// aborting the enclosing function with exit code 1 on a read failure
// (spec's documented wart: the abort fires even when the enclosing
// function isn't main). With one or more targets it is scanf-like: print
// the prompt, build a scanf format from each target's type, and scan into
// all of them in one call, checking the conversion count.
type finputGen struct{}

func (finputGen) Priority() int { return 550 }
func (finputGen) Accepts(e Expr, ctx *Lowerer) bool { return isForm(e, "finput") }

func (finputGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	args := list.Value[1:]

	var prompt *Str
	if len(args) > 0 {
		if s, ok := args[0].(Str); ok {
			prompt = &s
			args = args[1:]
		}
	}

	if prompt != nil {
		printf := ctx.runtime["printf"]
		ctx.block.NewCall(printf, ctx.stringPtr(unescapeString(prompt.Value)))
	}

	if len(args) == 0 {
		return lowerPromptOnlyInput(ctx, list.Pos)
	}
	return lowerScanfInput(ctx, list.Pos, args)
}

// lowerPromptOnlyInput implements finput's line-read shape: a 1024-byte
// stack buffer, an fgets call against stdin, a newline strip, and the
// documented abort-on-failure path.
func lowerPromptOnlyInput(ctx *Lowerer, loc token.Span) llvmValue {
	i8ptr := types.NewPointer(types.I8)
	bufType := types.NewArray(1024, types.I8)
	buf := ctx.block.NewAlloca(bufType)
	bufPtr := ctx.block.NewGetElementPtr(bufType, buf, constant.NewInt(types.I32, 0), constant.NewInt(types.I32, 0))

	stdin := ctx.block.NewLoad(i8ptr, ctx.runtimeGlobals["stdin"])
	result := ctx.block.NewCall(ctx.runtime["fgets"], bufPtr, constant.NewInt(types.I64, 1024), stdin)

	errBlock := ctx.fn.NewBlock("finput_err")
	okBlock := ctx.fn.NewBlock("finput_ok")
	isNull := ctx.block.NewICmp(enum.IPredEQ, result, constant.NewNull(i8ptr))
	ctx.block.NewCondBr(isNull, errBlock, okBlock)

	errBlock.NewCall(ctx.runtime["printf"], ctx.stringPtr("Input error\n"))
	errBlock.NewRet(constant.NewInt(types.I32, 1))

	ctx.block = okBlock
	stripTrailingNewline(ctx, bufPtr)

	return llvmValue{value: bufPtr, gtype: ctx.Types.Lookup("string", loc)}
}

// stripTrailingNewline overwrites buf[strlen(buf)-1] with a NUL byte, but
// only when that last byte actually is '\n' — an empty read (a bare
// newline already consumed, or EOF right after) leaves the buffer alone.
func stripTrailingNewline(ctx *Lowerer, bufPtr value.Value) {
	length := ctx.block.NewCall(ctx.runtime["strlen"], bufPtr)

	checkBlock := ctx.fn.NewBlock("finput_nlcheck")
	stripBlock := ctx.fn.NewBlock("finput_nlstrip")
	doneBlock := ctx.fn.NewBlock("finput_nldone")

	nonEmpty := ctx.block.NewICmp(enum.IPredNE, length, constant.NewInt(types.I64, 0))
	ctx.block.NewCondBr(nonEmpty, checkBlock, doneBlock)

	ctx.block = checkBlock
	lastIdx := checkBlock.NewSub(length, constant.NewInt(types.I64, 1))
	lastPtr := checkBlock.NewGetElementPtr(types.I8, bufPtr, lastIdx)
	lastByte := checkBlock.NewLoad(types.I8, lastPtr)
	isNewline := checkBlock.NewICmp(enum.IPredEQ, lastByte, constant.NewInt(types.I8, int64('\n')))
	checkBlock.NewCondBr(isNewline, stripBlock, doneBlock)

	stripBlock.NewStore(constant.NewInt(types.I8, 0), stripBlock.NewGetElementPtr(types.I8, bufPtr, lastIdx))
	stripBlock.NewBr(doneBlock)

	ctx.block = doneBlock
}

// scanfConversion returns the printf/scanf-style conversion for a target's
// type, per spec §4.5: ints and bools scan as %d, doubles as %lf, and
// strings as %255s (one short of the 256-byte stack buffer, leaving room
// for the NUL terminator scanf writes).
func scanfConversion(gt GType, loc token.Span) string {
	switch gt.Kind {
	case KindInt, KindBool:
		return "%d"
	case KindDouble:
		return "%lf"
	case KindString:
		return "%255s"
	default:
		panic(errors.IOShape{Message: "cannot finput into a " + gt.Kind.String(), Location: loc})
	}
}

// resolveFinputTarget lowers one scanf argument to a finputTarget: an
// existing variable name, a bare `!T` marker (scan into a fresh
// temporary of type T), or a `(name !T)` pair (scan into a fresh
// temporary of type T, then bind it under name). Existing struct
// variables are rejected, matching newGen/varGen's struct-is-a-pointer
// convention having no "scan a struct" counterpart.
func resolveFinputTarget(ctx *Lowerer, e Expr, loc token.Span) finputTarget {
	switch v := e.(type) {
	case Sym:
		if len(v.Value) > 0 && v.Value[0] == '!' {
			gt := resolveTypeRef(ctx, v)
			return finputTarget{destPtr: ctx.block.NewAlloca(gt.LLVM), gtype: gt}
		}
		slot := ctx.Env.LookupVar(v.Value, loc)
		if slot.gtype.Kind == KindStruct {
			panic(errors.IOShape{Message: "cannot finput into existing struct variable '" + v.Value + "'", Location: loc})
		}
		if slot.alloca == nil {
			panic(errors.IOShape{Message: "'" + v.Value + "' is not mutable", Location: loc})
		}
		return finputTarget{destPtr: slot.alloca, gtype: slot.gtype}
	case List:
		if len(v.Value) != 2 {
			panic(errors.IOShape{Message: "finput target must be a name, !type, or (name !type)", Location: loc})
		}
		name, ok := v.Value[0].(Sym)
		tsym, ok2 := v.Value[1].(Sym)
		if !ok || !ok2 {
			panic(errors.IOShape{Message: "finput target must be a name, !type, or (name !type)", Location: loc})
		}
		gt := resolveTypeRef(ctx, tsym)
		if gt.Kind == KindStruct {
			panic(errors.IOShape{Message: "cannot finput into a struct", Location: loc})
		}
		return finputTarget{destPtr: ctx.block.NewAlloca(gt.LLVM), gtype: gt, bindName: name.Value}
	default:
		panic(errors.IOShape{Message: "finput target must be a name, !type, or (name !type)", Location: loc})
	}
}

// lowerScanfInput implements finput's scanf-like shape: one scanf call
// scanning into every target, a conversion-count check against the
// requested count, and a heap-copy step for every string target so its
// lifetime outlives the 256-byte stack buffer scanf actually filled.
func lowerScanfInput(ctx *Lowerer, loc token.Span, rawTargets []Expr) llvmValue {
	var targets []finputTarget
	var scanPtrs []value.Value
	var format string

	var scanSources []value.Value // parallel to targets: where scanf actually wrote each value
	for _, raw := range rawTargets {
		t := resolveFinputTarget(ctx, raw, loc)
		format += scanfConversion(t.gtype, loc)

		if t.gtype.Kind == KindString {
			// scanf fills a 256-byte stack buffer; destPtr only receives
			// the heap copy once scanning succeeds.
			stackBuf := ctx.block.NewAlloca(types.NewArray(256, types.I8))
			stackPtr := ctx.block.NewGetElementPtr(types.NewArray(256, types.I8), stackBuf, constant.NewInt(types.I32, 0), constant.NewInt(types.I32, 0))
			targets = append(targets, t)
			scanSources = append(scanSources, stackPtr)
			scanPtrs = append(scanPtrs, stackPtr)
			continue
		}
		targets = append(targets, t)
		scanSources = append(scanSources, t.destPtr)
		scanPtrs = append(scanPtrs, t.destPtr)
	}

	var scanArgs []value.Value
	scanArgs = append(scanArgs, ctx.stringPtr(format))
	scanArgs = append(scanArgs, scanPtrs...)
	count := ctx.block.NewCall(ctx.runtime["scanf"], scanArgs...)

	mismatchBlock := ctx.fn.NewBlock("finput_mismatch")
	continueBlock := ctx.fn.NewBlock("finput_continue")
	ok := ctx.block.NewICmp(enum.IPredEQ, count, constant.NewInt(types.I32, int64(len(rawTargets))))
	ctx.block.NewCondBr(ok, continueBlock, mismatchBlock)

	msg := "Input format error. Expected " + strconv.Itoa(len(rawTargets)) + " values, got %d\n"
	mismatchBlock.NewCall(ctx.runtime["printf"], ctx.stringPtr(msg), count)
	mismatchBlock.NewCall(ctx.runtime["scanf"], ctx.stringPtr("%*[^\n]"))
	mismatchBlock.NewBr(continueBlock)

	ctx.block = continueBlock

	// Heap-copy every string target out of its stack buffer, then bind
	// and materialize each target's final value.
	var values []llvmValue
	for i, t := range targets {
		if t.gtype.Kind == KindString {
			n := ctx.block.NewCall(ctx.runtime["strlen"], scanSources[i])
			size := ctx.block.NewAdd(n, constant.NewInt(types.I64, 1))
			heap := ctx.block.NewCall(ctx.runtime["malloc"], size)
			ctx.block.NewCall(ctx.runtime["strcpy"], heap, scanSources[i])
			ctx.block.NewStore(heap, t.destPtr)

			if t.bindName != "" {
				ctx.Env.BindVar(t.bindName, &varSlot{alloca: t.destPtr, gtype: t.gtype})
			}
			values = append(values, llvmValue{value: heap, gtype: t.gtype})
			continue
		}

		loaded := ctx.block.NewLoad(t.gtype.LLVM, t.destPtr)
		if t.bindName != "" {
			ctx.Env.BindVar(t.bindName, &varSlot{alloca: t.destPtr, gtype: t.gtype})
		}
		values = append(values, llvmValue{value: loaded, gtype: t.gtype})
	}

	if len(values) == 1 {
		return values[0]
	}
	return llvmValue{value: count, gtype: ctx.Types.Lookup("int", loc)}
}
