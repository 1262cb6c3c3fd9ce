package main

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
)

// declareRuntime declares the small set of C library functions Galluz's
// fprint/finput generators call into, plus the stdin/stdout externs they
// need and a version global useful to the typeinfo subcommand. Everything
// here is a declaration only — no bodies — matching how the teacher's
// addBuiltins wired libc rather than hand-rolling syscalls for every case.
func declareRuntime(m *ir.Module) (map[string]*ir.Func, map[string]*ir.Global) {
	i8ptr := types.NewPointer(types.I8)

	sig := func(name string, ret types.Type, variadic bool, params ...types.Type) *ir.Func {
		var ps []*ir.Param
		for i, p := range params {
			ps = append(ps, ir.NewParam("", p))
			_ = i
		}
		fn := m.NewFunc(name, ret, ps...)
		fn.Sig.Variadic = variadic
		return fn
	}

	fns := map[string]*ir.Func{
		"printf":  sig("printf", types.I32, true, i8ptr),
		"fprintf": sig("fprintf", types.I32, true, i8ptr, i8ptr),
		"scanf":   sig("scanf", types.I32, true, i8ptr),
		"fscanf":  sig("fscanf", types.I32, true, i8ptr, i8ptr),
		"sscanf":  sig("sscanf", types.I32, true, i8ptr, i8ptr),
		"fgets":   sig("fgets", i8ptr, false, i8ptr, types.I64, i8ptr),
		"atoi":    sig("atoi", types.I32, false, i8ptr),
		"atof":    sig("atof", types.Double, false, i8ptr),
		"strtol":  sig("strtol", types.I64, false, i8ptr, types.NewPointer(i8ptr), types.I32),
		"strtod":  sig("strtod", types.Double, false, i8ptr, types.NewPointer(i8ptr)),
		"malloc":  sig("malloc", i8ptr, false, types.I64),
		"free":    sig("free", types.Void, false, i8ptr),
		"strlen":  sig("strlen", types.I64, false, i8ptr),
		"strcpy":  sig("strcpy", i8ptr, false, i8ptr, i8ptr),
	}

	globals := map[string]*ir.Global{
		"stdin":  m.NewGlobal("stdin", i8ptr),
		"stdout": m.NewGlobal("stdout", i8ptr),
	}
	m.NewGlobalDef("_GALLUZ_LLVM_VERSION", constant.NewCharArrayFromString("0.3.2\x00"))

	return fns, globals
}
