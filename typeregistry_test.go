package main

import (
	"testing"

	"github.com/galluzlang/galluzc/token"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

func intAt(v int64) *constant.Int {
	return constant.NewInt(types.I64, v)
}

func TestTypeRegistryBuiltins(t *testing.T) {
	r := NewTypeRegistry()
	for _, name := range []string{"int", "double", "string", "bool", "void"} {
		if !r.Has(name) {
			t.Errorf("expected builtin type %q to be registered", name)
		}
	}
}

func TestTypeRegistryLookupUndefinedPanics(t *testing.T) {
	r := NewTypeRegistry()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for an undefined type")
		}
	}()
	r.Lookup("nope", token.Span{})
}

func TestTypeRegistryDefineStructIsIdempotent(t *testing.T) {
	r := NewTypeRegistry()
	intT := r.Lookup("int", token.Span{})

	first := r.DefineStruct("point", []string{"x", "y"}, []GType{intT, intT})
	second := r.DefineStruct("point", []string{"x", "y"}, []GType{intT, intT})

	if first.Name != second.Name || !first.LLVM.Equal(second.LLVM) {
		t.Fatalf("redefining the same struct should be a no-op")
	}
}

func TestTypeRegistryFieldIndex(t *testing.T) {
	r := NewTypeRegistry()
	intT := r.Lookup("int", token.Span{})
	st := r.DefineStruct("point", []string{"x", "y"}, []GType{intT, intT})

	if idx := st.FieldIndex("y", token.Span{}); idx != 1 {
		t.Fatalf("got field index %d, want 1", idx)
	}
}

func TestTypeRegistryFieldIndexUndefinedPanics(t *testing.T) {
	r := NewTypeRegistry()
	intT := r.Lookup("int", token.Span{})
	st := r.DefineStruct("point", []string{"x"}, []GType{intT})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic for an undefined field")
		}
	}()
	st.FieldIndex("z", token.Span{})
}

func TestCoerceIdenticalTypeIsNoop(t *testing.T) {
	r := NewTypeRegistry()
	intT := r.Lookup("int", token.Span{})
	fn := ir.NewFunc("f", intT.LLVM)
	block := fn.NewBlock("entry")
	b := &blockBuilder{block: block}

	v := llvmValue{value: block.NewAdd(intAt(0), intAt(0)), gtype: intT}
	got := Coerce(b, v, intT, token.Span{})
	if got.value != v.value {
		t.Fatalf("Coerce should return the same value for an identical type")
	}
}

func TestCoerceIntToDouble(t *testing.T) {
	r := NewTypeRegistry()
	intT := r.Lookup("int", token.Span{})
	doubleT := r.Lookup("double", token.Span{})

	fn := ir.NewFunc("f", doubleT.LLVM)
	block := fn.NewBlock("entry")
	b := &blockBuilder{block: block}

	v := llvmValue{value: intAt(0), gtype: intT}
	got := Coerce(b, v, doubleT, token.Span{})
	if got.gtype.Kind != KindDouble {
		t.Fatalf("expected coercion result to be double")
	}
}

func TestCoerceMismatchedStructsPanics(t *testing.T) {
	r := NewTypeRegistry()
	intT := r.Lookup("int", token.Span{})
	a := r.DefineStruct("a", []string{"x"}, []GType{intT})
	b := r.DefineStruct("b", []string{"x"}, []GType{intT})

	fn := ir.NewFunc("f", a.LLVM)
	block := fn.NewBlock("entry")
	bb := &blockBuilder{block: block}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic coercing between unrelated structs")
		}
	}()
	Coerce(bb, llvmValue{value: block.NewAlloca(a.LLVM), gtype: a}, b, token.Span{})
}
