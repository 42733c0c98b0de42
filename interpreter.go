// Package clors is a resolution-based logic programming engine: definite
// clauses with rational-tree unification, iterative-deepening search and
// dif/2 disequality constraints over attributed variables.
package clors

import (
	"fmt"
	"io"
	"strings"

	"github.com/keean/Clors/engine"
)

// DefaultMaxDepth bounds the iterative-deepening search when the caller
// doesn't choose one.
const DefaultMaxDepth = 100

// Interpreter owns a program: the arena holding its term graph, the atom
// interner, and the clause database. Queries run through iterative
// deepening; results are written to Out.
type Interpreter struct {
	// MaxDepth is the largest depth bound tried before reporting NP.
	MaxDepth int
	// Out receives proof traces and NP reports.
	Out io.Writer
	// OnDepth, if set, is called before each depth iteration.
	OnDepth func(depth int)
	// OnProgram, if set, is called after a program text has been
	// consulted, before its queries run.
	OnProgram func(db *engine.Database)

	arena    *engine.Arena
	interner *engine.Interner
	db       *engine.Database
}

// New creates an interpreter writing results to out.
func New(out io.Writer) *Interpreter {
	a := engine.NewArena()
	return &Interpreter{
		MaxDepth: DefaultMaxDepth,
		Out:      out,
		arena:    a,
		interner: engine.NewInterner(a),
		db:       engine.NewDatabase(),
	}
}

// Database exposes the clause database, read-only during solving.
func (i *Interpreter) Database() *engine.Database {
	return i.db
}

// Exec consults the program text: clauses are asserted, then each query is
// solved in order of appearance. Returns the first parse error, if any.
func (i *Interpreter) Exec(text string) error {
	return i.ExecReader(strings.NewReader(text))
}

// ExecReader is Exec over a reader.
func (i *Interpreter) ExecReader(r io.Reader) error {
	p := engine.NewParser(r, i.arena, i.interner)
	var queries []*engine.Clause
	for {
		c, err := p.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if c.Head == nil {
			queries = append(queries, c)
		} else {
			i.db.Assert(c)
		}
	}
	if i.OnProgram != nil {
		i.OnProgram(i.db)
	}
	for _, q := range queries {
		i.Solve(q.Body)
	}
	return nil
}

// Solve runs one goal conjunction under iterative deepening and writes the
// outcome. It reports whether a proof was found.
//
// The answer head is yes(V1, …, Vn) over the goals' variables in first
// occurrence order, so the winning substitution is visible in the trace.
func (i *Interpreter) Solve(goals []*engine.Struct) bool {
	maxDepth := i.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	head := i.arena.NewStruct(i.interner.Intern("yes"), engine.GoalVariables(goals), false)
	goal := i.arena.NewClause(head, nil, goals, 0)

	for d := 1; d <= maxDepth; d++ {
		if i.OnDepth != nil {
			i.OnDepth(d)
		}
		s := engine.NewSolver(i.db, goal, d)
		answer := s.Get()
		if answer != nil {
			i.writeProof(s, answer)
			s.Stop()
			return true
		}
		s.Stop()
	}
	fmt.Fprint(i.Out, "NP\n\n")
	return false
}

// writeProof prints the derivation while its bindings are still in place:
// one id-prefixed clause per solver frame, then the answer head.
func (i *Interpreter) writeProof(s *engine.Solver, answer *engine.Clause) {
	names := engine.NewVarNames()
	fmt.Fprintln(i.Out, "PROOF:")
	for _, c := range s.Derivation() {
		fmt.Fprintln(i.Out, engine.ClauseString(c, names, engine.WithID(true)))
	}
	fmt.Fprintf(i.Out, "\n%s.\n\n", engine.TermString(answer.Head, names))
}

// Listing writes every asserted clause in declaration order.
func (i *Interpreter) Listing(w io.Writer) {
	names := engine.NewVarNames()
	for _, c := range i.db.Clauses() {
		fmt.Fprintln(w, engine.ClauseString(c, names))
	}
}
