package engine

// Trail journals every structural mutation of the term graph: one entry per
// canonical-pointer change, with the demoted node, whether the survivor's
// rank was bumped, and the chain position of an AttrVar splice if one
// happened. Rewind reverses entries LIFO; each reversal is O(1).
//
// The trail also carries the deferred-goals side buffer: attributed
// variables touched during the current unification call, in insertion order,
// for the resolver to re-awaken.
type Trail struct {
	entries  []entry
	deferred []*AttrVar
}

type entry struct {
	node      Term
	ranked    bool
	splicedAt *AttrVar
}

// NewTrail returns an empty trail.
func NewTrail() *Trail {
	return &Trail{}
}

// Checkpoint records the current length as a savepoint.
func (tr *Trail) Checkpoint() int {
	return len(tr.entries)
}

// Len reports the number of journal entries.
func (tr *Trail) Len() int {
	return len(tr.entries)
}

func (tr *Trail) push(e entry) {
	tr.entries = append(tr.entries, e)
}

// Rewind pops entries back to the savepoint, undoing each mutation.
func (tr *Trail) Rewind(p int) {
	for i := len(tr.entries) - 1; i >= p; i-- {
		deunion(tr.entries[i])
		tr.entries[i] = entry{}
	}
	tr.entries = tr.entries[:p]
}

// deunion restores the demoted node's canonical to itself, drops the
// survivor's rank if it was bumped, and cuts a spliced AttrVar chain.
func deunion(e entry) {
	h := e.node.header()
	if e.ranked {
		h.canonical.header().rank--
	}
	h.canonical = e.node
	if e.splicedAt != nil {
		e.splicedAt.Next = nil
	}
}

// DeferredGoals returns the attributed variables whose goal chains were
// touched by the current unification call. Valid until the next call.
func (tr *Trail) DeferredGoals() []*AttrVar {
	return tr.deferred
}

func (tr *Trail) resetDeferred() {
	tr.deferred = tr.deferred[:0]
}

// wake records a touched AttrVar, once per unification call even when both
// an aliasing and a binding step touch it.
func (tr *Trail) wake(a *AttrVar) {
	for _, b := range tr.deferred {
		if a == b {
			return
		}
	}
	tr.deferred = append(tr.deferred, a)
}
