package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newGoalClause wraps a parsed query body in an answer clause, the way the
// interpreter does before solving.
func newGoalClause(a *Arena, in *Interner, goals []*Struct) *Clause {
	head := a.NewStruct(in.Intern("yes"), GoalVariables(goals), false)
	return a.NewClause(head, nil, goals, 0)
}

func solveAtDepth(db *Database, goal *Clause, maxDepth int) (*Solver, *Clause) {
	for d := 1; d <= maxDepth; d++ {
		s := NewSolver(db, goal, d)
		if answer := s.Get(); answer != nil {
			return s, answer
		}
		s.Stop()
	}
	return nil, nil
}

func TestSolver_FactsInDeclarationOrder(t *testing.T) {
	a, in, db, queries := parseProgram(t, "p(a). p(b). :- p(X).")
	require.Len(t, queries, 1)

	goal := newGoalClause(a, in, queries[0].Body)
	s, answer := solveAtDepth(db, goal, 10)
	require.NotNil(t, answer)
	defer s.Stop()

	assert.Empty(t, answer.Body)
	assert.Equal(t, "a", find(answer.Head.Args[0]).(*Atom).Value, "first declared fact wins")
	assert.Equal(t, 1, s.Derivation()[0].ID)
}

func TestSolver_RecursionDerivationLength(t *testing.T) {
	a, in, db, queries := parseProgram(t, "nat(z). nat(s(X)) :- nat(X). :- nat(s(s(z))).")
	goal := newGoalClause(a, in, queries[0].Body)

	// Depths 1 and 2 cannot hold the three-frame derivation.
	for d := 1; d <= 2; d++ {
		s := NewSolver(db, goal, d)
		assert.Nil(t, s.Get(), "no proof at depth %d", d)
		s.Stop()
	}

	s, answer := solveAtDepth(db, goal, 10)
	require.NotNil(t, answer)
	defer s.Stop()
	assert.Len(t, s.Derivation(), 3)

	ids := make([]int, 0, 3)
	for _, c := range s.Derivation() {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []int{2, 2, 1}, ids)
}

func TestSolver_ExhaustionReportsNil(t *testing.T) {
	a, in, db, queries := parseProgram(t, "p(a). :- p(b).")
	goal := newGoalClause(a, in, queries[0].Body)

	for d := 1; d <= 5; d++ {
		s := NewSolver(db, goal, d)
		assert.Nil(t, s.Get())
		s.Stop()
	}
}

func TestSolver_UnknownFunctorFails(t *testing.T) {
	a, in, db, queries := parseProgram(t, "p(a). :- q(a).")
	goal := newGoalClause(a, in, queries[0].Body)

	s := NewSolver(db, goal, 5)
	assert.Nil(t, s.Get())
	s.Stop()
}

func TestSolver_StopRestoresProgramState(t *testing.T) {
	a, in, db, queries := parseProgram(t, "p(a). p(b). :- p(X).")
	goal := newGoalClause(a, in, queries[0].Body)

	before := takeSnapshot(a)
	s := NewSolver(db, goal, 10)
	require.NotNil(t, s.Get())
	s.Stop()
	assertSnapshot(t, a, before)

	// The same goal clause is reusable for another run.
	s, answer := solveAtDepth(db, goal, 10)
	require.NotNil(t, answer)
	s.Stop()
	assertSnapshot(t, a, before)
}

func TestSolver_DifBuiltinSucceedsAndBinds(t *testing.T) {
	a, in, db, queries := parseProgram(t, "eq(X, X). :- dif(X, a), eq(X, b).")
	goal := newGoalClause(a, in, queries[0].Body)

	s, answer := solveAtDepth(db, goal, 10)
	require.NotNil(t, answer, "dif(X, a) with X = b succeeds")
	defer s.Stop()
	assert.Equal(t, "b", find(answer.Head.Args[0]).(*Atom).Value)
}

func TestSolver_DifViolationIsNP(t *testing.T) {
	a, in, db, queries := parseProgram(t, "eq(X, X). :- dif(X, a), eq(X, a).")
	goal := newGoalClause(a, in, queries[0].Body)

	_, answer := solveAtDepth(db, goal, 10)
	assert.Nil(t, answer, "binding the frozen variable to the excluded atom fails")
}

func TestSolver_DifGroundDecidesImmediately(t *testing.T) {
	a, in, db, queries := parseProgram(t, ":- dif(a, b).")
	goal := newGoalClause(a, in, queries[0].Body)
	s, answer := solveAtDepth(db, goal, 10)
	require.NotNil(t, answer, "rigid mismatch satisfies the constraint")
	s.Stop()

	a, in, db, queries = parseProgram(t, ":- dif(a, a).")
	goal = newGoalClause(a, in, queries[0].Body)
	_, answer = solveAtDepth(db, goal, 10)
	assert.Nil(t, answer, "identical terms violate the constraint")
}

func TestSolver_CyclicUseRejected(t *testing.T) {
	a, in, db, queries := parseProgram(t, "eq(X, X). :- eq(X, f(X)).")
	goal := newGoalClause(a, in, queries[0].Body)

	_, answer := solveAtDepth(db, goal, 10)
	assert.Nil(t, answer, "rational unification succeeds but the cyck check rejects the use")
}

func TestSolver_DuplicateTerm(t *testing.T) {
	a, in, db, queries := parseProgram(t, ":- duplicate_term(f(A, A), T).")
	goal := newGoalClause(a, in, queries[0].Body)

	s, answer := solveAtDepth(db, goal, 10)
	require.NotNil(t, answer)
	defer s.Stop()

	orig := find(answer.Head.Args[0])
	copied := find(answer.Head.Args[1]).(*Struct)
	assert.Equal(t, "f", copied.Functor.Value)
	assert.Same(t, find(copied.Args[0]), find(copied.Args[1]), "sharing within the copy is preserved")
	assert.NotSame(t, orig, find(copied.Args[0]), "the copy is fresh")
}

func TestSolver_DeepRecursionWithinBound(t *testing.T) {
	a, in, db, queries := parseProgram(t,
		"nat(z). nat(s(X)) :- nat(X). :- nat(s(s(s(s(s(s(s(s(z))))))))).")
	goal := newGoalClause(a, in, queries[0].Body)

	s, answer := solveAtDepth(db, goal, 20)
	require.NotNil(t, answer)
	defer s.Stop()
	assert.Len(t, s.Derivation(), 9)
}
