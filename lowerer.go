package main

import (
	"hash/fnv"
	"strconv"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// Lowerer is the orchestration context threaded through every generator
// call: the Type Registry, the Environment, the Dispatcher, the Module
// Manager, the in-progress llir/llvm module, and the block currently being
// appended to. It generalizes the teacher's ctx struct from a flat
// name-to-value map into the five components spec'd for the front end.
type Lowerer struct {
	Types   *TypeRegistry
	Env     *Environment
	Disp    *Dispatcher
	Modules *ModuleManager

	module  *ir.Module
	fn      *ir.Func
	block   *ir.Block
	current *SourceModule // the module currently being lowered, for qualified name resolution

	forwardDecl    bool // true during the signature pre-pass, before any bodies are lowered
	strConsts      map[string]*ir.Global
	runtime        map[string]*ir.Func
	runtimeGlobals map[string]*ir.Global
}

func NewLowerer(m *ir.Module, modules *ModuleManager) *Lowerer {
	return &Lowerer{
		Types:     NewTypeRegistry(),
		Env:       NewEnvironment(),
		Disp:      NewDispatcher(),
		Modules:   modules,
		module:    m,
		strConsts: map[string]*ir.Global{},
	}
}

func (l *Lowerer) b() *blockBuilder {
	return &blockBuilder{block: l.block}
}

func (l *Lowerer) lower(e Expr) llvmValue {
	return l.Disp.Dispatch(e, l)
}

// newBlock opens a fresh block in the current function; it does not move
// the builder (l.block) to it. Mirrors how the teacher's If generator grows new blocks
// for its branches.
func (l *Lowerer) newBlock(name string) *ir.Block {
	return l.fn.NewBlock(name)
}

// internString caches each distinct string literal as a single global,
// keyed by its text and named after a content hash — repeated format strings in fprint
// calls shouldn't duplicate storage.
func (l *Lowerer) internString(s string) *ir.Global {
	if g, ok := l.strConsts[s]; ok {
		return g
	}
	h := fnv.New32a()
	h.Write([]byte(s))
	name := "_str_" + strconv.FormatUint(uint64(h.Sum32()), 10)
	g := l.module.NewGlobalDef(name, constant.NewCharArrayFromString(s+"\x00"))
	l.strConsts[s] = g
	return g
}

func (l *Lowerer) stringPtr(s string) value.Value {
	g := l.internString(s)
	zero := constant.NewInt(types.I32, 0)
	return constant.NewGetElementPtr(g.ContentType, g, zero, zero)
}
