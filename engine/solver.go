package engine

// Context bundles the mutable state of one solving run: the arena owning
// every node the run allocates, the trail journaling every mutation, and the
// machinery driving both. The clause database is shared and read-only.
type Context struct {
	db    *Database
	arena *Arena
	trail *Trail
	unify *Unifier
	dif   *Disunifier
	inst  *Instantiator
}

// NewContext returns a fresh context over db.
func NewContext(db *Database) *Context {
	a := NewArena()
	tr := NewTrail()
	return &Context{
		db:    db,
		arena: a,
		trail: tr,
		unify: NewUnifier(tr),
		dif:   NewDisunifier(a, tr),
		inst:  NewInstantiator(a),
	}
}

type builtin int

const (
	builtinNone builtin = iota
	builtinDif
	builtinDuplicateTerm
)

// unfolder enumerates the ways the leftmost body goal of a partial clause
// can be discharged: by one of the matching rules in the database, or by a
// builtin when the functor has no clauses. Each get undoes the previous
// attempt first, so the frame is also the OR-choice point for the goal.
type unfolder struct {
	cxt     *Context
	goal    *Clause
	fresh   *Clause
	rules   []*Clause
	pos     int
	builtin builtin
	done    bool
	trailCP int
	arenaCP int
}

func newUnfolder(cxt *Context, goal *Clause) *unfolder {
	u := &unfolder{
		cxt:     cxt,
		goal:    goal,
		trailCP: cxt.trail.Checkpoint(),
		arenaCP: cxt.arena.Checkpoint(),
	}
	first := goal.Body[0]
	u.rules = cxt.db.Lookup(first.Functor)
	if u.rules == nil {
		switch {
		case first.Functor.Value == "dif" && first.Arity() == 2:
			u.builtin = builtinDif
		case first.Functor.Value == "duplicate_term" && first.Arity() == 2:
			u.builtin = builtinDuplicateTerm
		}
	}
	return u
}

// get returns the successor partial clause for the next untried choice, or
// nil when the frame is exhausted.
func (u *unfolder) get() *Clause {
	u.cxt.trail.Rewind(u.trailCP)
	u.cxt.arena.Truncate(u.arenaCP)
	first := u.goal.Body[0]

	switch u.builtin {
	case builtinDif:
		if u.done {
			return nil
		}
		u.done = true
		if !u.cxt.dif.Dif(first.Args[0], first.Args[1], first) {
			return nil
		}
		u.fresh = u.cxt.arena.NewClause(u.goal.Head, nil, u.goal.Body[1:], 0)
		return u.fresh

	case builtinDuplicateTerm:
		if u.done {
			return nil
		}
		u.done = true
		copied := u.cxt.inst.Term(first.Args[0])
		if !u.cxt.unify.UnifyTerms(copied, first.Args[1]) {
			return nil
		}
		body := append(wokenGoals(u.cxt.trail), u.goal.Body[1:]...)
		u.fresh = u.cxt.arena.NewClause(u.goal.Head, nil, body, 0)
		return u.fresh
	}

	for u.pos < len(u.rules) {
		c := u.rules[u.pos]
		u.pos++
		if !u.cxt.unify.MatchGoalRule(first, c) {
			continue
		}
		u.fresh = u.cxt.inst.Rule(c)
		u.cxt.unify.UnifyGoalRule(first, u.fresh)
		body := append(wokenGoals(u.cxt.trail), u.fresh.Body...)
		body = append(body, u.goal.Body[1:]...)
		return u.cxt.arena.NewClause(u.goal.Head, nil, body, c.ID)
	}
	return nil
}

// reget returns the fresh clause chosen by the last successful get; for the
// builtins this is the successor partial clause itself.
func (u *unfolder) reget() *Clause {
	return u.fresh
}

// atEnd reports that no further get can succeed. The solver drops exhausted
// frames without re-entering them.
func (u *unfolder) atEnd() bool {
	if u.builtin != builtinNone {
		return u.done
	}
	return u.pos >= len(u.rules)
}

// wokenGoals flattens the goal chains of the attributed variables touched by
// the last unification, preserving insertion order. They are re-inserted at
// the front of the successor body so constraints are re-examined before any
// further progress.
func wokenGoals(tr *Trail) []*Struct {
	var gs []*Struct
	for _, a := range tr.DeferredGoals() {
		gs = append(gs, a.goals()...)
	}
	return gs
}

// Solver searches for a proof of a goal clause by depth-bounded SLD
// resolution. The stack of unfolders is the AND/OR frontier: each frame is
// the OR-choice point for one body goal, and the stacking is the AND
// composition of the remaining goals.
type Solver struct {
	cxt      *Context
	trailCP  int
	arenaCP  int
	stack    []*unfolder
	maxDepth int
	next     *Clause
}

// NewSolver prepares a search for goal with the given depth bound. Callers
// run increasing bounds 1..D for completeness; Stop must be called between
// runs to restore the construction checkpoints.
func NewSolver(db *Database, goal *Clause, maxDepth int) *Solver {
	cxt := NewContext(db)
	s := &Solver{
		cxt:      cxt,
		trailCP:  cxt.trail.Checkpoint(),
		arenaCP:  cxt.arena.Checkpoint(),
		maxDepth: maxDepth,
	}
	s.stack = append(s.stack, newUnfolder(cxt, goal))
	return s
}

// Get runs the search until a proof is found or the depth is exhausted. On
// success it returns the final partial clause, whose body is empty and whose
// head carries the answer substitution; the stack then encodes the
// derivation. On exhaustion it returns nil with all state restored.
func (s *Solver) Get() *Clause {
	for len(s.stack) > 0 {
		top := s.stack[len(s.stack)-1]
		next := top.get()
		if next != nil {
			if len(next.Body) == 0 {
				s.next = next
				return next
			}
			if len(s.stack)+len(next.Body) <= s.maxDepth {
				s.stack = append(s.stack, newUnfolder(s.cxt, next))
			}
			continue
		}
		s.stack = s.stack[:len(s.stack)-1]
		for len(s.stack) > 0 && s.stack[len(s.stack)-1].atEnd() {
			s.stack = s.stack[:len(s.stack)-1]
		}
	}
	s.cxt.trail.Rewind(s.trailCP)
	s.cxt.arena.Truncate(s.arenaCP)
	return nil
}

// Answer returns the final partial clause of the last successful Get.
func (s *Solver) Answer() *Clause {
	return s.next
}

// Derivation returns the clause each stack frame chose, outermost first.
// Only meaningful after a successful Get and before Stop.
func (s *Solver) Derivation() []*Clause {
	ds := make([]*Clause, len(s.stack))
	for i, u := range s.stack {
		ds[i] = u.reget()
	}
	return ds
}

// Stop aborts the search and restores the trail and arena to their state at
// construction. After Stop the solver must not be reused.
func (s *Solver) Stop() {
	s.stack = nil
	s.cxt.trail.Rewind(s.trailCP)
	s.cxt.arena.Truncate(s.arenaCP)
}
