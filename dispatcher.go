package main

import (
	"sort"

	"github.com/galluzlang/galluzc/errors"
)

// Generator is one lowering rule for a syntactic form. accepts decides
// whether this generator claims a given node; priority breaks ties when
// more than one generator would accept the same node (the generic list
// fallback and the handful of literal generators, chiefly); lower performs
// the actual codegen.
type Generator interface {
	Accepts(e Expr, ctx *Lowerer) bool
	Priority() int
	Lower(e Expr, ctx *Lowerer) llvmValue
}

// Dispatcher holds every registered generator, sorted once by descending
// priority so dispatch is a linear scan for the first acceptor.
type Dispatcher struct {
	generators []Generator
	trace      []Expr // bounded traceback of in-flight lowerings, for diagnostics
}

const maxTrace = 64

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

func (d *Dispatcher) Register(g Generator) {
	d.generators = append(d.generators, g)
	sort.SliceStable(d.generators, func(i, j int) bool {
		return d.generators[i].Priority() > d.generators[j].Priority()
	})
}

func (d *Dispatcher) Dispatch(e Expr, ctx *Lowerer) llvmValue {
	d.trace = append(d.trace, e)
	if len(d.trace) > maxTrace {
		d.trace = d.trace[len(d.trace)-maxTrace:]
	}
	defer func() {
		if len(d.trace) > 0 {
			d.trace = d.trace[:len(d.trace)-1]
		}
	}()

	for _, g := range d.generators {
		if g.Accepts(e, ctx) {
			return g.Lower(e, ctx)
		}
	}

	panic(errors.DispatchFailure{Head: headOf(e), Location: e.Span()})
}

func headOf(e Expr) string {
	switch v := e.(type) {
	case Sym:
		return v.Value
	case List:
		if len(v.Value) > 0 {
			if s, ok := v.Value[0].(Sym); ok {
				return s.Value
			}
		}
		return "()"
	case Number:
		return "<number>"
	case Fractional:
		return "<fractional>"
	case Str:
		return "<string>"
	default:
		return "<unknown>"
	}
}
