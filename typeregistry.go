package main

import (
	"github.com/galluzlang/galluzc/errors"
	"github.com/galluzlang/galluzc/token"
	"github.com/llir/llvm/ir/types"
)

// TypeKind classifies a Galluz type independent of its llir/llvm
// representation. Struct and Unknown carry extra data (field layout, or
// nothing at all) alongside the Kind.
type TypeKind int

const (
	KindInt TypeKind = iota
	KindDouble
	KindString
	KindBool
	KindVoid
	KindStruct
	KindUnknown
)

func (k TypeKind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindVoid:
		return "void"
	case KindStruct:
		return "struct"
	default:
		return "unknown"
	}
}

// GType is the Type Registry's handle on a Galluz type: the LLVM type it
// lowers to, plus enough of its own shape (field order, for structs) that
// the generator suite doesn't need to reach back into llir/llvm types to
// answer "does this struct have a field named X".
type GType struct {
	Kind   TypeKind
	LLVM   types.Type
	Name   string
	Fields []string       // struct field order
	Index  map[string]int // struct field name -> position
}

func (t GType) IsNumeric() bool {
	return t.Kind == KindInt || t.Kind == KindDouble
}

// TypeRegistry owns every named type known to a compilation unit: the
// built-in primitives plus every struct defined so far. Redefining a struct
// under the same name is a no-op rather than an error — module re-imports
// routinely redeclare the same struct, and Galluz tolerates that.
type TypeRegistry struct {
	named map[string]GType
}

func NewTypeRegistry() *TypeRegistry {
	r := &TypeRegistry{named: map[string]GType{}}
	r.named["int"] = GType{Kind: KindInt, LLVM: types.I64, Name: "int"}
	r.named["double"] = GType{Kind: KindDouble, LLVM: types.Double, Name: "double"}
	r.named["string"] = GType{Kind: KindString, LLVM: types.NewPointer(types.I8), Name: "string"}
	r.named["bool"] = GType{Kind: KindBool, LLVM: types.I1, Name: "bool"}
	r.named["void"] = GType{Kind: KindVoid, LLVM: types.Void, Name: "void"}
	return r
}

func (r *TypeRegistry) Lookup(name string, loc token.Span) GType {
	t, ok := r.named[name]
	if !ok {
		panic(errors.UndefinedName{Kind: "struct", Name: name, Location: loc})
	}
	return t
}

func (r *TypeRegistry) Has(name string) bool {
	_, ok := r.named[name]
	return ok
}

// DefineStruct registers a struct type, in field-declaration order.
// Redefinition under an existing struct name is a no-op that returns the
// existing type, whatever fields the new declaration lists; Galluz never
// errors on a repeated struct declaration, since cross-module
// imports can pull the same definition in more than once.
func (r *TypeRegistry) DefineStruct(name string, fieldNames []string, fieldTypes []GType) GType {
	if existing, ok := r.named[name]; ok && existing.Kind == KindStruct {
		return existing
	}

	var llvmFields []types.Type
	for _, f := range fieldTypes {
		llvmFields = append(llvmFields, f.LLVM)
	}
	st := types.NewStruct(llvmFields...)
	st.SetName(name)

	index := map[string]int{}
	for i, n := range fieldNames {
		index[n] = i
	}

	gt := GType{Kind: KindStruct, LLVM: types.NewPointer(st), Name: name, Fields: fieldNames, Index: index}
	r.named[name] = gt
	return gt
}

// FieldIndex returns the struct field position for a property access, or
// an error if the struct has no such field.
func (t GType) FieldIndex(field string, loc token.Span) int {
	idx, ok := t.Index[field]
	if !ok {
		panic(errors.UndefinedName{Kind: "field", Name: field, Location: loc})
	}
	return idx
}

// Coerce implements the implicit numeric/type conversion table: identical
// types are a no-op; int<->int sign-extends or truncates; float<->float
// extends or truncates; int->float is a signed conversion; float->int
// truncates; int->bool truncates to i1; struct targets require a pointer
// source of the exact same struct type, with no implicit conversion.
func Coerce(b *blockBuilder, v llvmValue, want GType, loc token.Span) llvmValue {
	if v.gtype.Kind == want.Kind && v.value.Type().Equal(want.LLVM) {
		return v
	}

	switch {
	case want.Kind == KindInt && v.gtype.Kind == KindInt:
		return llvmValue{value: b.intCast(v.value, want.LLVM), gtype: want}
	case want.Kind == KindDouble && v.gtype.Kind == KindDouble:
		return llvmValue{value: b.fpCast(v.value, want.LLVM), gtype: want}
	case want.Kind == KindDouble && v.gtype.Kind == KindInt:
		return llvmValue{value: b.intToFloat(v.value, want.LLVM), gtype: want}
	case want.Kind == KindInt && v.gtype.Kind == KindDouble:
		return llvmValue{value: b.floatToInt(v.value, want.LLVM), gtype: want}
	case want.Kind == KindBool && v.gtype.Kind == KindInt:
		return llvmValue{value: b.intCast(v.value, want.LLVM), gtype: want}
	case want.Kind == KindStruct && v.gtype.Kind == KindStruct && want.Name == v.gtype.Name:
		return v
	}

	panic(errors.TypeMismatch{Context: "coercion", Expected: want.Name, Got: v.gtype.Name, Location: loc})
}
