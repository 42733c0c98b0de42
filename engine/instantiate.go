package engine

// Instantiator makes fresh copies of clauses and terms for resolution.
// Within one call, every occurrence of the same original variable maps to
// the same fresh variable. Atoms are shared; structs are rebuilt over copied
// arguments; attributed variables are copied with their goal chain, by
// recursion on next. Copies always start from the canonical image, so a
// partially bound original yields its current instance.
type Instantiator struct {
	arena *Arena
	vars  map[*Variable]*Variable
	avars map[*AttrVar]*AttrVar
}

// NewInstantiator returns an instantiator allocating from a.
func NewInstantiator(a *Arena) *Instantiator {
	return &Instantiator{arena: a}
}

// Rule copies a clause for use at a goal. The cyck set carries over to the
// fresh variables and the clause keeps its source id, so proof printing can
// identify the rule.
func (in *Instantiator) Rule(c *Clause) *Clause {
	in.reset()
	return in.rule(c)
}

func (in *Instantiator) reset() {
	in.vars = map[*Variable]*Variable{}
	in.avars = map[*AttrVar]*AttrVar{}
}

func (in *Instantiator) rule(c *Clause) *Clause {
	head := in.strct(c.Head)
	cyck := make([]*Variable, 0, len(c.Cyck))
	for _, v := range c.Cyck {
		if fresh, ok := in.vars[v]; ok {
			cyck = append(cyck, fresh)
		}
	}
	body := make([]*Struct, 0, len(c.Body))
	for _, g := range c.Body {
		body = append(body, in.strct(g))
	}
	return in.arena.NewClause(head, cyck, body, c.ID)
}

// Term copies an arbitrary term, as needed by duplicate_term/2.
func (in *Instantiator) Term(t Term) Term {
	in.reset()
	return in.term(t)
}

func (in *Instantiator) variable(v *Variable) *Variable {
	if fresh, ok := in.vars[v]; ok {
		return fresh
	}
	fresh := in.arena.NewVariable(v.Name)
	in.vars[v] = fresh
	return fresh
}

// attrVar memoizes per original node: a dif goal mentions the variable it is
// attached to, so the copy must close the loop instead of recursing into it.
func (in *Instantiator) attrVar(a *AttrVar) *AttrVar {
	if fresh, ok := in.avars[a]; ok {
		return fresh
	}
	fresh := in.arena.NewAttrVar(in.variable(a.Var), nil)
	in.avars[a] = fresh
	fresh.Goal = in.strct(a.Goal)
	if a.Next != nil {
		fresh.Next = in.attrVar(a.Next)
	}
	return fresh
}

func (in *Instantiator) strct(s *Struct) *Struct {
	args := make([]Term, len(s.Args))
	for i, a := range s.Args {
		args[i] = in.term(a)
	}
	return in.arena.NewStruct(s.Functor, args, s.Negated)
}

// term is the recursive copy sharing the per-call variable map.
func (in *Instantiator) term(t Term) Term {
	switch t := find(t).(type) {
	case *Variable:
		return in.variable(t)
	case *AttrVar:
		return in.attrVar(t)
	case *Atom:
		return t
	case *Struct:
		return in.strct(t)
	case *Clause:
		return in.rule(t)
	}
	return nil
}
