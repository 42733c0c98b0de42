package engine

import (
	"fmt"
	"io"
	"strings"
)

// VarNames assigns display names of the form name#k, where k is a per-name
// counter handed out on first display. Alpha-equivalent variables with the
// same source name stay distinguishable across one rendering session.
type VarNames struct {
	ids  map[*Variable]int
	next map[string]int
}

// NewVarNames returns an empty naming session.
func NewVarNames() *VarNames {
	return &VarNames{ids: map[*Variable]int{}, next: map[string]int{}}
}

// Name returns the display name for v.
func (n *VarNames) Name(v *Variable) string {
	id, ok := n.ids[v]
	if !ok {
		n.next[v.Name]++
		id = n.next[v.Name]
		n.ids[v] = id
	}
	return fmt.Sprintf("%s#%d", v.Name, id)
}

type writeOptions struct {
	id bool
}

// WriteOption adjusts clause rendering.
type WriteOption func(*writeOptions)

// WithID prefixes the clause with its rule id, as in proof traces.
func WithID(b bool) WriteOption {
	return func(o *writeOptions) {
		o.id = b
	}
}

// WriteTerm renders the canonical image of t. Attributed variables print
// their frozen-goal chain in braces after the variable name. The writer
// assumes the image is acyclic.
func WriteTerm(w io.Writer, t Term, names *VarNames) error {
	_, err := io.WriteString(w, TermString(t, names))
	return err
}

// TermString renders the canonical image of t to a string.
func TermString(t Term, names *VarNames) string {
	var sb strings.Builder
	writeTerm(&sb, t, names, false)
	return sb.String()
}

// writeTerm renders one term. Inside a frozen-goal chain, attributed
// variables render by name alone: the goal mentions the variable it is
// attached to, so printing chains there would never bottom out.
func writeTerm(sb *strings.Builder, t Term, names *VarNames, inChain bool) {
	switch t := find(t).(type) {
	case *Variable:
		sb.WriteString(names.Name(t))
	case *AttrVar:
		sb.WriteString(names.Name(t.Var))
		if inChain {
			return
		}
		sb.WriteString("{")
		for i, g := range t.goals() {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeTerm(sb, g, names, true)
		}
		sb.WriteString("}")
	case *Atom:
		sb.WriteString(t.Value)
	case *Struct:
		writeStruct(sb, t, names, inChain)
	case *Clause:
		writeClause(sb, t, names, writeOptions{})
	}
}

func writeStruct(sb *strings.Builder, s *Struct, names *VarNames, inChain bool) {
	if s.Negated {
		sb.WriteString("-")
	}
	sb.WriteString(s.Functor.Value)
	if len(s.Args) > 0 {
		sb.WriteString("(")
		for i, a := range s.Args {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeTerm(sb, a, names, inChain)
		}
		sb.WriteString(")")
	}
}

// WriteClause renders a clause terminated by '.'. A nil head renders the
// query form ':- body.'.
func WriteClause(w io.Writer, c *Clause, names *VarNames, opts ...WriteOption) error {
	var o writeOptions
	for _, opt := range opts {
		opt(&o)
	}
	var sb strings.Builder
	writeClause(&sb, c, names, o)
	_, err := io.WriteString(w, sb.String())
	return err
}

// ClauseString renders a clause to a string.
func ClauseString(c *Clause, names *VarNames, opts ...WriteOption) string {
	var o writeOptions
	for _, opt := range opts {
		opt(&o)
	}
	var sb strings.Builder
	writeClause(&sb, c, names, o)
	return sb.String()
}

func writeClause(sb *strings.Builder, c *Clause, names *VarNames, o writeOptions) {
	if o.id {
		fmt.Fprintf(sb, "%d. ", c.ID)
	}
	if c.Head != nil {
		writeTerm(sb, c.Head, names, false)
	}
	if len(c.Body) > 0 {
		if c.Head != nil {
			sb.WriteString(" ")
		}
		sb.WriteString(":- ")
		for i, g := range c.Body {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeTerm(sb, g, names, false)
		}
	}
	sb.WriteString(".")
}
