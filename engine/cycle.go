package engine

// acyclic reports whether the canonical image of t is free of cycles. The
// walk goes depth-first through struct arguments, always via find, keeping
// the structs on the current path in an in-progress set; re-entering one
// signals a cycle. Rational trees are tolerated during unification, but a
// clause use whose cyck variables close a cycle must fail.
func acyclic(t Term) bool {
	path := map[*Struct]bool{}
	return walkAcyclic(find(t), path)
}

func walkAcyclic(t Term, path map[*Struct]bool) bool {
	switch t := t.(type) {
	case *Struct:
		if path[t] {
			return false
		}
		path[t] = true
		for _, a := range t.Args {
			if !walkAcyclic(find(a), path) {
				return false
			}
		}
		delete(path, t)
		return true
	case *Clause:
		return walkAcyclic(find(t.Head), path)
	default:
		return true
	}
}
