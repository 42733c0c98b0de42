package engine

// Term is a node in the term graph. Every node carries a union-find header:
// a canonical pointer (initially itself) and a rank for union-by-rank.
// Structural mutations to the header go through link and replaceWith, which
// journal each change in a Trail so it can be reversed exactly.
type Term interface {
	header() *ref
}

// ref is the union-find header shared by every node variant.
type ref struct {
	canonical Term
	rank      int
}

func (r *ref) header() *ref { return r }

// Variable is an unbound logic variable. The name is for display only;
// identity is the node itself.
type Variable struct {
	ref
	Name string
}

// AttrVar wraps a Variable and carries a chain of attached goals, currently
// pending dif constraints. Once attached it is the representative for its
// variable until bound. Next links further attached goals: a newly frozen
// dif goal is prepended, and merging two AttrVars appends the demoted chain.
type AttrVar struct {
	ref
	Var  *Variable
	Goal *Struct
	Next *AttrVar
}

// Atom is an interned symbol. Within one context there is a single node per
// distinct name, so functor comparison is pointer comparison.
type Atom struct {
	ref
	Value string
}

// Struct is a compound term. Negated records a leading '-' on the source
// goal; it takes part in unification identity but has no further semantics.
type Struct struct {
	ref
	Functor *Atom
	Args    []Term
	Negated bool
}

// Clause is a rule, a fact (empty body), or a top-level query (nil head).
// Cyck lists head variables that need a cycle check after the clause's head
// has been unified with a goal.
type Clause struct {
	ref
	ID   int
	Head *Struct
	Cyck []*Variable
	Body []*Struct
}

// find walks canonical pointers to the root. No path compression: reversal
// then only ever needs to reset a single pointer per journal entry.
func find(t Term) Term {
	for {
		h := t.header()
		if h.canonical == t {
			return t
		}
		t = h.canonical
	}
}

// link joins two roots by rank. The lower-ranked root becomes a child of the
// higher-ranked one; on a tie the survivor's rank is bumped. One trail entry
// records the demoted node and whether the bump happened.
func link(x, y Term, tr *Trail) {
	hx, hy := x.header(), y.header()
	ranked := false
	if hx.rank > hy.rank {
		x, y = y, x
		hx, hy = hy, hx
	} else if hx.rank == hy.rank {
		ranked = true
		hy.rank++
	}
	hx.canonical = y
	tr.push(entry{node: x, ranked: ranked})
}

// replaceWith points n's canonical at e unconditionally. Used for
// variable-to-nonvariable substitution where the survivor is not negotiable.
func replaceWith(n, e Term, tr *Trail) {
	hn, he := n.header(), e.header()
	ranked := hn.rank == he.rank
	if ranked {
		he.rank++
	}
	hn.canonical = e
	tr.push(entry{node: n, ranked: ranked})
}

// linkAttrVars joins two attributed variables by rank and splices the
// demoted chain onto the end of the survivor's chain. Returns the survivor.
func linkAttrVars(x, y *AttrVar, tr *Trail) *AttrVar {
	ranked := false
	if x.rank > y.rank {
		x, y = y, x
	} else if x.rank == y.rank {
		ranked = true
		y.rank++
	}
	tail := y
	for tail.Next != nil {
		tail = tail.Next
	}
	tail.Next = x
	x.canonical = y
	tr.push(entry{node: x, ranked: ranked, splicedAt: tail})
	return y
}

// Arity returns the number of arguments.
func (s *Struct) Arity() int { return len(s.Args) }

// GoalVariables collects the variables occurring in a conjunction of goals,
// in first occurrence order, following canonical representatives.
func GoalVariables(gs []*Struct) []Term {
	var vars []Term
	seen := map[Term]bool{}
	var walk func(t Term)
	walk = func(t Term) {
		switch t := find(t).(type) {
		case *Variable:
			if !seen[t] {
				seen[t] = true
				vars = append(vars, t)
			}
		case *AttrVar:
			if !seen[t] {
				seen[t] = true
				vars = append(vars, t)
			}
		case *Struct:
			for _, a := range t.Args {
				walk(a)
			}
		}
	}
	for _, g := range gs {
		walk(g)
	}
	return vars
}

// goals returns the chain of attached goals starting at a, in chain order
// along Next.
func (a *AttrVar) goals() []*Struct {
	var gs []*Struct
	for n := a; n != nil; n = n.Next {
		gs = append(gs, n.Goal)
	}
	return gs
}
