package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiff_Outcomes(t *testing.T) {
	tests := []struct {
		title string
		build func(a *Arena, in *Interner) (Term, Term)
		out   difOutcome
	}{
		{title: "distinct atoms are different", out: difDifferent, build: func(a *Arena, in *Interner) (Term, Term) {
			return in.Intern("a"), in.Intern("b")
		}},
		{title: "same atom is same", out: difSame, build: func(a *Arena, in *Interner) (Term, Term) {
			return in.Intern("a"), in.Intern("a")
		}},
		{title: "functor clash is different", out: difDifferent, build: func(a *Arena, in *Interner) (Term, Term) {
			return a.NewStruct(in.Intern("f"), []Term{in.Intern("a")}, false),
				a.NewStruct(in.Intern("g"), []Term{in.Intern("a")}, false)
		}},
		{title: "mismatch beyond a variable position still wins", out: difDifferent, build: func(a *Arena, in *Interner) (Term, Term) {
			f := in.Intern("f")
			return a.NewStruct(f, []Term{a.NewVariable("X"), in.Intern("a")}, false),
				a.NewStruct(f, []Term{a.NewVariable("Y"), in.Intern("b")}, false)
		}},
		{title: "identical structures are same", out: difSame, build: func(a *Arena, in *Interner) (Term, Term) {
			f := in.Intern("f")
			x := a.NewVariable("X")
			return a.NewStruct(f, []Term{x}, false), a.NewStruct(f, []Term{x}, false)
		}},
		{title: "bare variable defers", out: difVarDeferred, build: func(a *Arena, in *Interner) (Term, Term) {
			return a.NewVariable("X"), in.Intern("a")
		}},
		{title: "negation distinguishes", out: difDifferent, build: func(a *Arena, in *Interner) (Term, Term) {
			f := in.Intern("f")
			return a.NewStruct(f, []Term{in.Intern("a")}, false),
				a.NewStruct(f, []Term{in.Intern("a")}, true)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			a := NewArena()
			in := NewInterner(a)
			x, y := tt.build(a, in)
			out, _ := diff(x, y)
			assert.Equal(t, tt.out, out)
		})
	}
}

func TestDiff_AttrVarDefers(t *testing.T) {
	a := NewArena()
	in := NewInterner(a)
	tr := NewTrail()

	x := a.NewVariable("X")
	g := a.NewStruct(in.Intern("dif"), []Term{x, in.Intern("a")}, false)
	av := a.NewAttrVar(x, g)
	replaceWith(x, av, tr)

	out, at := diff(x, in.Intern("b"))
	assert.Equal(t, difAttrVarDeferred, out)
	assert.Equal(t, Term(av), at)
}

func TestDiff_TerminatesOnRationalTrees(t *testing.T) {
	a := NewArena()
	in := NewInterner(a)
	tr := NewTrail()
	u := NewUnifier(tr)

	f := in.Intern("f")
	x := a.NewVariable("X")
	y := a.NewVariable("Y")
	require.True(t, u.UnifyTerms(x, a.NewStruct(f, []Term{x}, false)))
	require.True(t, u.UnifyTerms(y, a.NewStruct(f, []Term{y}, false)))

	// X and Y denote the same rational tree f(f(f(...))); the read-only
	// walk must converge on the revisited pair and report same.
	out, _ := diff(x, y)
	assert.Equal(t, difSame, out)
}

func TestDisunifier_FreezeAndThaw(t *testing.T) {
	a := NewArena()
	in := NewInterner(a)
	tr := NewTrail()
	u := NewUnifier(tr)
	d := NewDisunifier(a, tr)

	x := a.NewVariable("X")
	goal := a.NewStruct(in.Intern("dif"), []Term{x, in.Intern("a")}, false)

	require.True(t, d.Dif(x, in.Intern("a"), goal), "undecided constraint freezes")
	av, ok := find(x).(*AttrVar)
	require.True(t, ok, "the variable is now attributed")
	assert.Equal(t, []*Struct{goal}, av.goals())

	// Binding the variable wakes the frozen goal; re-running it against the
	// new binding decides it.
	require.True(t, u.UnifyTerms(x, in.Intern("b")))
	require.Len(t, tr.DeferredGoals(), 1)
	assert.True(t, d.Dif(goal.Args[0], goal.Args[1], goal))
}

func TestDisunifier_SecondConstraintPrepends(t *testing.T) {
	a := NewArena()
	in := NewInterner(a)
	tr := NewTrail()
	d := NewDisunifier(a, tr)

	x := a.NewVariable("X")
	g1 := a.NewStruct(in.Intern("dif"), []Term{x, in.Intern("a")}, false)
	g2 := a.NewStruct(in.Intern("dif"), []Term{x, in.Intern("b")}, false)

	require.True(t, d.Dif(x, in.Intern("a"), g1))
	require.True(t, d.Dif(x, in.Intern("b"), g2))

	av, ok := find(x).(*AttrVar)
	require.True(t, ok)
	assert.Equal(t, []*Struct{g2, g1}, av.goals(), "newest constraint heads the chain")
}

func TestDisunifier_ViolationFails(t *testing.T) {
	a := NewArena()
	in := NewInterner(a)
	tr := NewTrail()
	d := NewDisunifier(a, tr)

	x := a.NewVariable("X")
	goal := a.NewStruct(in.Intern("dif"), []Term{x, x}, false)
	assert.False(t, d.Dif(x, x, goal))
}
