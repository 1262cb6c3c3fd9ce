package main

import "testing"

type stubGen struct {
	accept   bool
	priority int
	tag      string
}

func (g stubGen) Priority() int { return g.priority }
func (g stubGen) Accepts(e Expr, ctx *Lowerer) bool { return g.accept }
func (g stubGen) Lower(e Expr, ctx *Lowerer) llvmValue {
	return llvmValue{gtype: GType{Name: g.tag}}
}

func TestDispatcherPicksHighestPriorityAcceptor(t *testing.T) {
	d := NewDispatcher()
	d.Register(stubGen{accept: true, priority: 10, tag: "low"})
	d.Register(stubGen{accept: true, priority: 900, tag: "high"})
	d.Register(stubGen{accept: false, priority: 1000, tag: "unreachable"})

	got := d.Dispatch(Sym{Value: "x"}, &Lowerer{})
	if got.gtype.Name != "high" {
		t.Fatalf("got %q, want the higher-priority acceptor to win", got.gtype.Name)
	}
}

func TestDispatcherNoAcceptorPanics(t *testing.T) {
	d := NewDispatcher()
	d.Register(stubGen{accept: false, priority: 1})

	defer func() {
		if recover() == nil {
			t.Fatalf("expected a panic when no generator accepts the node")
		}
	}()
	d.Dispatch(Sym{Value: "mystery"}, &Lowerer{})
}

func TestHeadOfNamesTheDispatchFailure(t *testing.T) {
	cases := []struct {
		e    Expr
		want string
	}{
		{Sym{Value: "foo"}, "foo"},
		{List{Value: []Expr{Sym{Value: "bar"}}}, "bar"},
		{List{Value: []Expr{}}, "()"},
		{Number{Value: 1}, "<number>"},
	}
	for _, c := range cases {
		if got := headOf(c.e); got != c.want {
			t.Errorf("headOf(%#v) = %q, want %q", c.e, got, c.want)
		}
	}
}
