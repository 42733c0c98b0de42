package engine

// Disunification: decide whether two terms can be proved structurally
// unequal under the current substitution. The walk has the same dispatch
// shape as the unifier but never mutates. Four outcomes:
//
//   - different: some rigid-rigid mismatch exists, the constraint holds now;
//   - same: no distinguishing position exists, the constraint is violated;
//   - variable deferred: the first distinguishing position is a bare
//     variable, freeze the constraint there;
//   - attrvar deferred: that position is an existing attributed variable,
//     prepend the constraint to its chain.
//
// Frozen constraints thaw when a unification touches their AttrVar: the
// unifier queues the chain in the trail's deferred buffer and the resolver
// re-inserts the goals into the pending body.

type difOutcome int

const (
	difDifferent difOutcome = iota
	difSame
	difVarDeferred
	difAttrVarDeferred
)

// Disunifier freezes undecided constraints by allocating attributed
// variables, so it needs the arena as well as the trail.
type Disunifier struct {
	arena *Arena
	trail *Trail
}

// NewDisunifier returns a disunifier allocating through a and journaling
// to tr.
func NewDisunifier(a *Arena, tr *Trail) *Disunifier {
	return &Disunifier{arena: a, trail: tr}
}

// Dif discharges the constraint goal dif(a, b). It reports false only for
// the same outcome; for the deferred outcomes it has frozen the goal on the
// first distinguishing variable before returning.
func (d *Disunifier) Dif(a, b Term, goal *Struct) bool {
	out, at := diff(a, b)
	switch out {
	case difDifferent:
		return true
	case difSame:
		return false
	case difVarDeferred:
		v := at.(*Variable)
		av := d.arena.NewAttrVar(v, goal)
		replaceWith(v, av, d.trail)
		return true
	default:
		old := at.(*AttrVar)
		av := d.arena.NewAttrVar(old.Var, goal)
		av.Next = old
		replaceWith(old, av, d.trail)
		return true
	}
}

// diff walks canonical pairs looking for a distinguishing position. A
// rigid-rigid mismatch anywhere wins immediately; otherwise the first
// variable position seen decides where to defer. The seen set makes the
// read-only walk terminate on rational trees (the unifier terminates by
// linking, which is not available here).
func diff(a, b Term) (difOutcome, Term) {
	var frozen Term
	seen := map[pair]bool{}
	todo := []pair{{a, b}}
	for len(todo) > 0 {
		p := todo[len(todo)-1]
		todo = todo[:len(todo)-1]
		x, y := find(p.a), find(p.b)
		if x == y || seen[pair{x, y}] {
			continue
		}
		seen[pair{x, y}] = true

		if v, ok := variablePosition(x, y); ok {
			if frozen == nil {
				frozen = v
			}
			continue
		}

		switch s := x.(type) {
		case *Atom:
			switch t := y.(type) {
			case *Atom:
				if s.Value != t.Value {
					return difDifferent, nil
				}
			case *Struct:
				if t.Arity() != 0 || t.Negated || t.Functor.Value != s.Value {
					return difDifferent, nil
				}
			default:
				return difDifferent, nil
			}
		case *Struct:
			switch t := y.(type) {
			case *Atom:
				if s.Arity() != 0 || s.Negated || s.Functor.Value != t.Value {
					return difDifferent, nil
				}
			case *Struct:
				if s.Functor != t.Functor || s.Arity() != t.Arity() || s.Negated != t.Negated {
					return difDifferent, nil
				}
				for i := range s.Args {
					todo = append(todo, pair{s.Args[i], t.Args[i]})
				}
			case *Clause:
				todo = append(todo, pair{s, t.Head})
			default:
				return difDifferent, nil
			}
		case *Clause:
			if t, ok := y.(*Struct); ok {
				todo = append(todo, pair{s.Head, t})
			} else {
				return difDifferent, nil
			}
		}
	}
	if frozen == nil {
		return difSame, nil
	}
	if _, ok := frozen.(*AttrVar); ok {
		return difAttrVarDeferred, frozen
	}
	return difVarDeferred, frozen
}

// variablePosition reports whether the pair involves a variable, returning
// the variable side. A bare Variable is preferred over an AttrVar when both
// sides are variables, so freezing stays on unattributed storage.
func variablePosition(x, y Term) (Term, bool) {
	switch x.(type) {
	case *Variable:
		return x, true
	case *AttrVar:
		if _, bare := y.(*Variable); bare {
			return y, true
		}
		return x, true
	}
	switch y.(type) {
	case *Variable, *AttrVar:
		return y, true
	}
	return nil, false
}
