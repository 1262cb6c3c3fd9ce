package main

import (
	"github.com/alecthomas/repr"
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"
)

// typeInfo is a flattened, human-readable view of a module's function
// signatures — the in-memory replacement for the teacher's dlopen-and-read
// approach, since a fresh codegen pass already has every signature on
// hand without reading anything back out of a compiled shared object.
type typeInfo struct {
	Functions map[string]string
}

func signatureString(fn *ir.Func) string {
	s := fn.Sig.RetType.String() + " ("
	for i, p := range fn.Sig.Params {
		if i > 0 {
			s += ", "
		}
		s += p.String()
	}
	return s + ")"
}

// printTypeInfo runs codegen far enough to have every function signature
// resolved (both the entry module's and every transitively imported
// module's), then reprs the resulting table. It never writes a binary.
func printTypeInfo(root *SourceModule, modules *ModuleManager) {
	imported := loadImports(root, modules)

	modu := ir.NewModule()
	lw := NewLowerer(modu, modules)
	lw.runtime, lw.runtimeGlobals = declareRuntime(modu)
	for _, g := range allGenerators() {
		lw.Disp.Register(g)
	}

	lw.forwardDecl = true
	scratch := ir.NewFunc("_galluz_forward_decl", types.I32)
	lw.fn, lw.block = scratch, scratch.NewBlock("entry")
	for _, mod := range imported {
		lowerModuleBody(lw, mod)
	}
	lw.current = root
	lw.lower(root.Root)

	info := typeInfo{Functions: map[string]string{}}
	for name, slot := range lw.Env.fns {
		info.Functions[name] = signatureString(slot.fn)
	}

	repr.Println(info)
}
