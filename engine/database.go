package engine

// Interner maintains the name-to-atom map for one context. Atoms are
// interned so that functor equality is pointer equality.
type Interner struct {
	arena *Arena
	names map[string]*Atom
}

// NewInterner returns an interner allocating through a.
func NewInterner(a *Arena) *Interner {
	return &Interner{arena: a, names: map[string]*Atom{}}
}

// Intern returns the atom for name, allocating it on first use.
func (in *Interner) Intern(name string) *Atom {
	if a, ok := in.names[name]; ok {
		return a
	}
	a := in.arena.NewAtom(name)
	in.names[name] = a
	return a
}

// Database maps functor atoms to their clauses in declaration order. It is
// append-only before resolution and read-only during it, so candidate
// slices handed to unfolders stay stable.
type Database struct {
	procs map[*Atom][]*Clause
	order []*Clause
}

// NewDatabase returns an empty database.
func NewDatabase() *Database {
	return &Database{procs: map[*Atom][]*Clause{}}
}

// Assert appends a clause under its head functor.
func (db *Database) Assert(c *Clause) {
	f := c.Head.Functor
	db.procs[f] = append(db.procs[f], c)
	db.order = append(db.order, c)
}

// Lookup returns the ordered candidate list for a functor, or nil.
func (db *Database) Lookup(f *Atom) []*Clause {
	return db.procs[f]
}

// Clauses lists every asserted clause in declaration order.
func (db *Database) Clauses() []*Clause {
	return db.order
}
