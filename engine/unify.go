package engine

// Unifier performs rational-tree unification over the term graph. Pairs are
// processed from a LIFO worklist; both operands are reduced to canonical
// representatives first, and struct-struct matches link the structs
// themselves, so a revisited pair is already identical under find and the
// walk terminates on cyclic terms.
type Unifier struct {
	trail *Trail
	todo  []pair
}

type pair struct {
	a, b Term
}

// NewUnifier returns a unifier journaling to tr.
func NewUnifier(tr *Trail) *Unifier {
	return &Unifier{trail: tr}
}

func (u *Unifier) queue(a, b Term) {
	if a != b {
		u.todo = append(u.todo, pair{a, b})
	}
}

// UnifyGoalRule unifies a goal against a clause head, then runs the cycle
// check over the clause's cyck variables. Mutations stay on the trail either
// way; callers backtrack on failure.
func (u *Unifier) UnifyGoalRule(g *Struct, r *Clause) bool {
	u.todo = u.todo[:0]
	u.trail.resetDeferred()
	if !u.structStruct(g, r.Head) {
		return false
	}
	if !u.run() {
		return false
	}
	for _, v := range r.Cyck {
		if !acyclic(v) {
			return false
		}
	}
	return true
}

// UnifyTerms unifies two arbitrary terms. Used by duplicate_term/2; no cycle
// check is applied.
func (u *Unifier) UnifyTerms(a, b Term) bool {
	u.todo = u.todo[:0]
	u.trail.resetDeferred()
	u.queue(a, b)
	return u.run()
}

// MatchGoalRule is a read-only probe: it runs UnifyGoalRule under a trail
// savepoint and unconditionally rewinds before returning the result.
func (u *Unifier) MatchGoalRule(g *Struct, r *Clause) bool {
	p := u.trail.Checkpoint()
	ok := u.UnifyGoalRule(g, r)
	u.trail.Rewind(p)
	return ok
}

func (u *Unifier) run() bool {
	for len(u.todo) > 0 {
		p := u.todo[len(u.todo)-1]
		u.todo = u.todo[:len(u.todo)-1]
		a := find(p.a)
		b := find(p.b)
		if a == b {
			continue
		}
		if !u.step(a, b) {
			return false
		}
	}
	return true
}

// step dispatches one canonical pair. Both operands are roots and distinct.
func (u *Unifier) step(a, b Term) bool {
	switch x := a.(type) {
	case *Variable:
		switch y := b.(type) {
		case *Variable:
			link(x, y, u.trail)
		case *AttrVar:
			u.attach(y, x)
		case *Clause:
			return false
		default:
			replaceWith(x, y, u.trail)
		}
		return true

	case *AttrVar:
		switch y := b.(type) {
		case *Variable:
			u.attach(x, y)
		case *AttrVar:
			u.trail.wake(linkAttrVars(x, y, u.trail))
		case *Clause:
			return false
		default:
			u.bind(x, y)
		}
		return true

	case *Atom:
		switch y := b.(type) {
		case *Variable:
			replaceWith(y, x, u.trail)
			return true
		case *AttrVar:
			u.bind(y, x)
			return true
		case *Atom:
			return x.Value == y.Value
		case *Struct:
			return y.Arity() == 0 && !y.Negated && y.Functor.Value == x.Value
		default:
			return false
		}

	case *Struct:
		switch y := b.(type) {
		case *Variable:
			replaceWith(y, x, u.trail)
			return true
		case *AttrVar:
			u.bind(y, x)
			return true
		case *Atom:
			return x.Arity() == 0 && !x.Negated && x.Functor.Value == y.Value
		case *Struct:
			return u.structStruct(x, y)
		case *Clause:
			u.queue(x, y.Head)
			return true
		default:
			return false
		}

	case *Clause:
		if y, ok := b.(*Struct); ok {
			u.queue(x.Head, y)
			return true
		}
		return false
	}
	return false
}

// structStruct matches functor, arity and negation, links the structs so a
// revisited pair terminates, and queues the argument pairs.
func (u *Unifier) structStruct(x, y *Struct) bool {
	if x.Functor != y.Functor || x.Arity() != y.Arity() || x.Negated != y.Negated {
		return false
	}
	link(x, y, u.trail)
	for i := range x.Args {
		u.queue(x.Args[i], y.Args[i])
	}
	return true
}

// attach binds a bare variable to an attributed one. The AttrVar stays the
// representative; its goal chain is queued for the resolver to re-awaken,
// since variable aliasing can decide a pending constraint.
func (u *Unifier) attach(a *AttrVar, v *Variable) {
	replaceWith(v, a, u.trail)
	u.trail.wake(a)
}

// bind instantiates an attributed variable with a non-variable term and
// queues its goal chain for re-examination.
func (u *Unifier) bind(a *AttrVar, t Term) {
	replaceWith(a, t, u.trail)
	u.trail.wake(a)
}
