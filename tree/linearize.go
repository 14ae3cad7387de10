package tree

import (
	"fmt"
	"strings"
)

// UnitKind tags the three shapes a linearized element can take.
type UnitKind uint8

const (
	UnitWord UnitKind = iota
	UnitTrace
	UnitMover
)

// Unit is one element of a BaseString/NormalString linearization: a
// spoken word (including the literal "ε" placeholder for an empty
// lexical entry), a trace standing in for a moved constituent's silent
// copy, or a mover wrapping the words of a moved constituent at the
// position it is pronounced.
type Unit struct {
	Kind    UnitKind
	Text    string
	TraceID int
	Content []Unit
}

func (u Unit) String() string {
	switch u.Kind {
	case UnitTrace:
		return fmt.Sprintf("Trace(%d)", u.TraceID)
	case UnitMover:
		parts := make([]string, len(u.Content))
		for i, c := range u.Content {
			parts[i] = c.String()
		}
		return fmt.Sprintf("Mover([%s], %d)", strings.Join(parts, ", "), u.TraceID)
	default:
		return u.Text
	}
}

// NormalString linearizes t in pronounced order: a moved constituent's
// words appear, wrapped as a Mover, at its landing site; its base merge
// site is left as a bare Trace.
func (t *Tree) NormalString() []Unit {
	return t.linearize(t.Root, false)
}

// BaseString linearizes t in underlying (base) order: a moved
// constituent's words are reconstructed, wrapped as a Mover, at its base
// merge site; its landing site is left as a bare Trace.
func (t *Tree) BaseString() []Unit {
	return t.linearize(t.Root, true)
}

func (t *Tree) linearize(id int, base bool) []Unit {
	n := t.Nodes[id]
	switch n.Kind {
	case NodeLexical:
		return []Unit{{Kind: UnitWord, Text: n.Form}}

	case NodeTrace:
		if base {
			if landing, ok := t.moverLanding[n.TraceID]; ok {
				return []Unit{{
					Kind:    UnitMover,
					TraceID: n.TraceID,
					Content: t.linearize(landing, base),
				}}
			}
		}
		return []Unit{{Kind: UnitTrace, TraceID: n.TraceID}}

	default:
		var out []Unit
		for _, c := range t.childrenOf(id) {
			if !base {
				if tid, isLanding := t.landingTrace[c]; isLanding {
					out = append(out, Unit{
						Kind:    UnitMover,
						TraceID: tid,
						Content: t.linearize(c, base),
					})
					continue
				}
			}
			out = append(out, t.linearize(c, base)...)
		}
		return out
	}
}

// Words flattens a slice of Units down to their surface forms, descending
// into Mover content and dropping Trace markers; it is the tree-package
// equivalent of derivation.State.Yield for an already-lowered tree.
func Words(units []Unit) []string {
	var out []string
	for _, u := range units {
		switch u.Kind {
		case UnitWord:
			if u.Text != "ε" {
				out = append(out, u.Text)
			}
		case UnitMover:
			out = append(out, Words(u.Content)...)
		}
	}
	return out
}
