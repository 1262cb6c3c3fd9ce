package main

import (
	"github.com/galluzlang/galluzc/errors"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/value"
)

// toConstant narrows a value.Value down to the constant.Constant llir/llvm
// globals require for their initializer. Every literal generator already
// produces a constant.Constant under the hood, so this only ever fails for
// a global initializer that genuinely isn't one.
func toConstant(v value.Value) constant.Constant {
	c, ok := v.(constant.Constant)
	if !ok {
		panic(errors.ConstantRequired{})
	}
	return c
}
