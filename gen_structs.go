package main

import (
	"github.com/galluzlang/galluzc/errors"
	"github.com/galluzlang/galluzc/token"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// structGen lowers `(struct Name ((field !type) ...))`, registering the
// struct's shape with the Type Registry. Redefinition is a no-op there (see
// TypeRegistry.DefineStruct), so re-evaluating the same struct via a
// repeated import is harmless.
type structGen struct{}

func (structGen) Priority() int { return 650 }
func (structGen) Accepts(e Expr, ctx *Lowerer) bool { return isForm(e, "struct") }

func (structGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	if len(list.Value) != 3 {
		panic(errors.ShapeError{Form: "struct", Message: "expects a name and a field list", Location: list.Pos})
	}
	name, ok := list.Value[1].(Sym)
	fieldList, ok2 := list.Value[2].(List)
	if !ok || !ok2 {
		panic(errors.ShapeError{Form: "struct", Message: "expects a name and a field list", Location: list.Pos})
	}

	var fieldNames []string
	var fieldTypes []GType
	for _, f := range fieldList.Value {
		pair, ok := f.(List)
		if !ok || len(pair.Value) != 2 {
			panic(errors.ShapeError{Form: "struct", Message: "each field must be (name !type)", Location: list.Pos})
		}
		fname := pair.Value[0].(Sym)
		ftypeSym := pair.Value[1].(Sym)
		fieldNames = append(fieldNames, fname.Value)
		fieldTypes = append(fieldTypes, resolveTypeRef(ctx, ftypeSym))
	}

	gt := ctx.Types.DefineStruct(name.Value, fieldNames, fieldTypes)
	if st, ok := gt.LLVM.(*types.PointerType).ElemType.(*types.StructType); ok {
		alreadyDefined := false
		for _, td := range ctx.module.TypeDefs {
			if td == st {
				alreadyDefined = true
				break
			}
		}
		if !alreadyDefined {
			ctx.module.TypeDefs = append(ctx.module.TypeDefs, st)
		}
	}
	return llvmValue{gtype: ctx.Types.Lookup("void", list.Pos)}
}

// newGen lowers `(new StructName (field value) ...)`: allocate the struct
// on the stack, zero-initialize it, then store each initializer into its
// field slot. A repeated field name or an unknown one is fatal.
type newGen struct{}

func (newGen) Priority() int { return 650 }
func (newGen) Accepts(e Expr, ctx *Lowerer) bool { return isForm(e, "new") }

func (newGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	if len(list.Value) < 2 {
		panic(errors.ShapeError{Form: "new", Message: "expects a struct type reference", Location: list.Pos})
	}
	typeSym, ok := list.Value[1].(Sym)
	if !ok {
		panic(errors.ShapeError{Form: "new", Message: "first argument must be a type reference", Location: list.Pos})
	}
	gt := resolveTypeRef(ctx, typeSym)
	if gt.Kind != KindStruct {
		panic(errors.TypeMismatch{Context: "new", Expected: "struct", Got: gt.Name, Location: list.Pos})
	}

	st := gt.LLVM.(*types.PointerType).ElemType.(*types.StructType)
	alloca := ctx.block.NewAlloca(st)
	ctx.block.NewStore(constant.NewZeroInitializer(st), alloca)

	seen := map[string]bool{}
	for _, f := range list.Value[2:] {
		pair, ok := f.(List)
		if !ok || len(pair.Value) != 2 {
			panic(errors.ShapeError{Form: "new", Message: "each initializer must be (field value)", Location: list.Pos})
		}
		fname := pair.Value[0].(Sym)
		if seen[fname.Value] {
			panic(errors.ShapeError{Form: "new", Message: "duplicate field '" + fname.Value + "'", Location: list.Pos})
		}
		seen[fname.Value] = true
		idx := gt.FieldIndex(fname.Value, list.Pos)

		val := ctx.lower(pair.Value[1])
		val = Coerce(ctx.b(), val, fieldGType(ctx, gt, idx), list.Pos)

		ptr := ctx.block.NewGetElementPtr(st, alloca, constant.NewInt(types.I32, 0), constant.NewInt(types.I32, int64(idx)))
		ctx.block.NewStore(val.value, ptr)
	}

	return llvmValue{value: alloca, gtype: gt}
}

func fieldGType(ctx *Lowerer, structType GType, idx int) GType {
	st := structType.LLVM.(*types.PointerType).ElemType.(*types.StructType)
	llvmField := st.Fields[idx]
	for _, t := range []string{"int", "double", "string", "bool", "void"} {
		gt := ctx.Types.Lookup(t, token.Span{})
		if gt.LLVM.Equal(llvmField) {
			return gt
		}
	}
	return GType{Kind: KindStruct, LLVM: llvmField, Name: structType.Fields[idx]}
}

// getpropGen lowers `(getprop struct-expr field)`.
type getpropGen struct{}

func (getpropGen) Priority() int { return 650 }
func (getpropGen) Accepts(e Expr, ctx *Lowerer) bool { return isForm(e, "getprop") }

func (getpropGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	if len(list.Value) != 3 {
		panic(errors.ShapeError{Form: "getprop", Message: "expects a struct value and a field name", Location: list.Pos})
	}
	of := ctx.lower(list.Value[1])
	field, ok := list.Value[2].(Sym)
	if !ok {
		panic(errors.ShapeError{Form: "getprop", Message: "field must be a name", Location: list.Pos})
	}
	if of.gtype.Kind != KindStruct {
		panic(errors.TypeMismatch{Context: "getprop", Expected: "struct", Got: of.gtype.Name, Location: list.Pos})
	}

	idx := of.gtype.FieldIndex(field.Value, list.Pos)
	st := of.gtype.LLVM.(*types.PointerType).ElemType.(*types.StructType)
	ptr := ctx.block.NewGetElementPtr(st, of.value, constant.NewInt(types.I32, 0), constant.NewInt(types.I32, int64(idx)))
	loaded := ctx.block.NewLoad(st.Fields[idx], ptr)

	return llvmValue{value: loaded, gtype: fieldGType(ctx, of.gtype, idx)}
}

// setpropGen lowers `(setprop struct-expr field value)`.
type setpropGen struct{}

func (setpropGen) Priority() int { return 650 }
func (setpropGen) Accepts(e Expr, ctx *Lowerer) bool { return isForm(e, "setprop") }

func (setpropGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	if len(list.Value) != 4 {
		panic(errors.ShapeError{Form: "setprop", Message: "expects a struct value, a field name, and a value", Location: list.Pos})
	}
	of := ctx.lower(list.Value[1])
	field, ok := list.Value[2].(Sym)
	if !ok {
		panic(errors.ShapeError{Form: "setprop", Message: "field must be a name", Location: list.Pos})
	}
	if of.gtype.Kind != KindStruct {
		panic(errors.TypeMismatch{Context: "setprop", Expected: "struct", Got: of.gtype.Name, Location: list.Pos})
	}

	idx := of.gtype.FieldIndex(field.Value, list.Pos)
	st := of.gtype.LLVM.(*types.PointerType).ElemType.(*types.StructType)

	val := ctx.lower(list.Value[3])
	val = Coerce(ctx.b(), val, fieldGType(ctx, of.gtype, idx), list.Pos)

	ptr := ctx.block.NewGetElementPtr(st, of.value, constant.NewInt(types.I32, 0), constant.NewInt(types.I32, int64(idx)))
	ctx.block.NewStore(val.value, ptr)
	return val
}

// haspropGen lowers `(hasprop !structname field)` to a compile-time bool
// literal: there is no runtime reflection, so this only ever answers a
// question the Type Registry already knows.
type haspropGen struct{}

func (haspropGen) Priority() int { return 650 }
func (haspropGen) Accepts(e Expr, ctx *Lowerer) bool { return isForm(e, "hasprop") }

func (haspropGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	list := e.(List)
	if len(list.Value) != 3 {
		panic(errors.ShapeError{Form: "hasprop", Message: "expects a type reference and a field name", Location: list.Pos})
	}
	typeSym := list.Value[1].(Sym)
	field := list.Value[2].(Sym)

	gt := resolveTypeRef(ctx, typeSym)
	_, has := gt.Index[field.Value]

	boolT := ctx.Types.Lookup("bool", list.Pos)
	if has {
		return llvmValue{value: constant.True, gtype: boolT}
	}
	return llvmValue{value: constant.False, gtype: boolT}
}
