package engine

// Arena owns every node of a solving context. Allocation is strictly stack
// ordered: Truncate destroys all nodes allocated after a savepoint, in
// reverse order of allocation, and must be paired with a Trail rewind to the
// matching savepoint. References returned by the allocators stay valid until
// a Truncate crosses their allocation point.
type Arena struct {
	nodes []Term
}

// NewArena returns an empty arena.
func NewArena() *Arena {
	return &Arena{}
}

// Checkpoint records the current length as a savepoint.
func (a *Arena) Checkpoint() int {
	return len(a.nodes)
}

// Truncate destroys all nodes allocated after the savepoint.
func (a *Arena) Truncate(p int) {
	for i := len(a.nodes) - 1; i >= p; i-- {
		a.nodes[i] = nil
	}
	a.nodes = a.nodes[:p]
}

// Len reports the number of live nodes.
func (a *Arena) Len() int {
	return len(a.nodes)
}

func (a *Arena) alloc(t Term) {
	t.header().canonical = t
	a.nodes = append(a.nodes, t)
}

// NewVariable allocates a fresh variable.
func (a *Arena) NewVariable(name string) *Variable {
	v := &Variable{Name: name}
	a.alloc(v)
	return v
}

// NewAtom allocates an atom node. Callers that need interning go through
// Interner instead.
func (a *Arena) NewAtom(value string) *Atom {
	t := &Atom{Value: value}
	a.alloc(t)
	return t
}

// NewStruct allocates a compound term.
func (a *Arena) NewStruct(functor *Atom, args []Term, negated bool) *Struct {
	s := &Struct{Functor: functor, Args: args, Negated: negated}
	a.alloc(s)
	return s
}

// NewAttrVar allocates an attributed variable wrapping v with a single
// attached goal.
func (a *Arena) NewAttrVar(v *Variable, goal *Struct) *AttrVar {
	av := &AttrVar{Var: v, Goal: goal}
	a.alloc(av)
	return av
}

// NewClause allocates a clause node.
func (a *Arena) NewClause(head *Struct, cyck []*Variable, body []*Struct, id int) *Clause {
	c := &Clause{ID: id, Head: head, Cyck: cyck, Body: body}
	a.alloc(c)
	return c
}
