package main

import (
	"github.com/galluzlang/galluzc/errors"
	"github.com/galluzlang/galluzc/token"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// llvmValue pairs a raw llir/llvm value with the Galluz type the generator
// suite reasons about. Every generator hands these around rather than bare
// value.Value so a coercion or a field lookup never has to re-derive the
// Galluz-level type from the LLVM one.
type llvmValue struct {
	value value.Value
	gtype GType
}

// varSlot is what a bound name resolves to: either an SSA value (the
// pointer of a struct-typed `var` or parameter), or a stack slot or global
// from a `var`, `global`, parameter, or finput target that needs a load to
// read and a store to update.
type varSlot struct {
	alloca   value.Value // non-nil: mutable, needs load/store
	ssa      llvmValue   // valid when alloca == nil
	gtype    GType
	isGlobal bool
}

type fnSlot struct {
	fn       *ir.Func
	params   []GType
	ret      GType
	variadic bool
}

// loopFrame tracks the blocks a break/continue inside the current loop
// should branch to.
type loopFrame struct {
	continueBlock *ir.Block
	breakBlock    *ir.Block
}

// Environment is the lexical frame stack: one map of names per nested
// scope, searched innermost-first, plus a side stack of loop frames so
// break/continue can find their target blocks without threading them
// through every generator call.
type Environment struct {
	frames  []map[string]*varSlot
	globals map[string]*varSlot
	fns     map[string]*fnSlot
	loops   []loopFrame
}

func NewEnvironment() *Environment {
	return &Environment{
		frames:  []map[string]*varSlot{{}},
		globals: map[string]*varSlot{},
		fns:     map[string]*fnSlot{},
	}
}

func (e *Environment) BindGlobal(name string, slot *varSlot) {
	e.globals[name] = slot
}

func (e *Environment) PushScope() {
	e.frames = append(e.frames, map[string]*varSlot{})
}

func (e *Environment) PopScope() {
	e.frames = e.frames[:len(e.frames)-1]
}

func (e *Environment) top() map[string]*varSlot {
	return e.frames[len(e.frames)-1]
}

func (e *Environment) BindVar(name string, slot *varSlot) {
	e.top()[name] = slot
}

func (e *Environment) LookupVar(name string, loc token.Span) *varSlot {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if v, ok := e.frames[i][name]; ok {
			return v
		}
	}
	if v, ok := e.globals[name]; ok {
		return v
	}
	panic(errors.UndefinedName{Kind: "variable", Name: name, Location: loc})
}

func (e *Environment) HasVar(name string) bool {
	for i := len(e.frames) - 1; i >= 0; i-- {
		if _, ok := e.frames[i][name]; ok {
			return true
		}
	}
	_, ok := e.globals[name]
	return ok
}

func (e *Environment) BindFn(qualifiedName string, slot *fnSlot) {
	e.fns[qualifiedName] = slot
}

func (e *Environment) LookupFn(qualifiedName string, loc token.Span) *fnSlot {
	fn, ok := e.fns[qualifiedName]
	if !ok {
		panic(errors.UndefinedName{Kind: "function", Name: qualifiedName, Location: loc})
	}
	return fn
}

func (e *Environment) HasFn(qualifiedName string) bool {
	_, ok := e.fns[qualifiedName]
	return ok
}

func (e *Environment) PushLoop(f loopFrame) {
	e.loops = append(e.loops, f)
}

func (e *Environment) PopLoop() {
	e.loops = e.loops[:len(e.loops)-1]
}

func (e *Environment) CurrentLoop(keyword string, loc token.Span) loopFrame {
	if len(e.loops) == 0 {
		panic(errors.ControlFlowMisuse{Keyword: keyword, Location: loc})
	}
	return e.loops[len(e.loops)-1]
}

// blockBuilder wraps the current *ir.Block with the numeric-coercion
// helpers the Type Registry calls into; keeping them here (rather than on
// GType) means only this file reaches into llir/llvm/ir/enum for cast
// opcodes.
type blockBuilder struct {
	block *ir.Block
}

func (b *blockBuilder) intCast(v value.Value, want types.Type) value.Value {
	from := v.Type().(*types.IntType)
	to := want.(*types.IntType)
	if from.BitSize == to.BitSize {
		return v
	}
	if from.BitSize < to.BitSize {
		return b.block.NewSExt(v, to)
	}
	return b.block.NewTrunc(v, to)
}

func (b *blockBuilder) fpCast(v value.Value, want types.Type) value.Value {
	from := v.Type().(*types.FloatType)
	to := want.(*types.FloatType)
	if from.Kind == to.Kind {
		return v
	}
	if from.Kind < to.Kind {
		return b.block.NewFPExt(v, to)
	}
	return b.block.NewFPTrunc(v, to)
}

func (b *blockBuilder) intToFloat(v value.Value, want types.Type) value.Value {
	return b.block.NewSIToFP(v, want)
}

func (b *blockBuilder) floatToInt(v value.Value, want types.Type) value.Value {
	return b.block.NewFPToSI(v, want)
}

func (b *blockBuilder) truthy(v value.Value) value.Value {
	if v.Type().Equal(types.I1) {
		return v
	}
	return b.block.NewICmp(enum.IPredNE, v, constant.NewInt(v.Type().(*types.IntType), 0))
}
