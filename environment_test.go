package main

import (
	"testing"

	"github.com/galluzlang/galluzc/token"
	"github.com/llir/llvm/ir"
)

func TestEnvironmentVarScoping(t *testing.T) {
	e := NewEnvironment()
	e.BindVar("x", &varSlot{gtype: GType{Name: "int"}})

	e.PushScope()
	e.BindVar("y", &varSlot{gtype: GType{Name: "int"}})
	if !e.HasVar("x") || !e.HasVar("y") {
		t.Fatalf("expected both outer and inner bindings to be visible")
	}
	e.PopScope()

	if e.HasVar("y") {
		t.Fatalf("expected inner binding to be gone after PopScope")
	}
	if !e.HasVar("x") {
		t.Fatalf("expected outer binding to survive PopScope")
	}
}

func TestEnvironmentInnerShadowsOuter(t *testing.T) {
	e := NewEnvironment()
	e.BindVar("x", &varSlot{gtype: GType{Name: "outer"}})
	e.PushScope()
	e.BindVar("x", &varSlot{gtype: GType{Name: "inner"}})

	got := e.LookupVar("x", token.Span{})
	if got.gtype.Name != "inner" {
		t.Fatalf("got %q, want inner binding to shadow outer", got.gtype.Name)
	}
}

func TestEnvironmentGlobalsSurviveFrameReset(t *testing.T) {
	e := NewEnvironment()
	e.BindGlobal("g", &varSlot{gtype: GType{Name: "int"}, isGlobal: true})

	e.frames = []map[string]*varSlot{{}}
	if !e.HasVar("g") {
		t.Fatalf("expected a global binding to survive resetting the frame stack")
	}
}

func TestEnvironmentLookupVarUndefinedPanics(t *testing.T) {
	e := NewEnvironment()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for an undefined variable")
		}
	}()
	e.LookupVar("missing", token.Span{})
}

func TestEnvironmentFunctions(t *testing.T) {
	e := NewEnvironment()
	if e.HasFn("area") {
		t.Fatalf("expected area to be unbound initially")
	}
	e.BindFn("area", &fnSlot{})
	if !e.HasFn("area") {
		t.Fatalf("expected area to be bound after BindFn")
	}
}

func TestEnvironmentLoopFrames(t *testing.T) {
	e := NewEnvironment()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for break outside any loop")
		}
	}()
	e.CurrentLoop("break", token.Span{})
}

func TestEnvironmentCurrentLoopReturnsInnermost(t *testing.T) {
	e := NewEnvironment()
	e.PushLoop(loopFrame{breakBlock: ir.NewBlock("outer_exit")})
	inner := loopFrame{breakBlock: ir.NewBlock("inner_exit")}
	e.PushLoop(inner)

	got := e.CurrentLoop("continue", token.Span{})
	if got != inner {
		t.Fatalf("expected CurrentLoop to return the innermost loop frame")
	}
	e.PopLoop()
	e.PopLoop()
}
