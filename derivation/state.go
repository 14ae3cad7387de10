// Package derivation implements the partial-derivation value type and the
// step generator that advances it by one merge or move.
package derivation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arashi-lang/mg/feature"
	"github.com/arashi-lang/mg/lexicon"
)

// Kind tags which of the three derivation-node shapes a State is. Dispatch
// throughout this package and the tree package is by this tag, not by
// interface method sets: a derivation node is a closed set of three
// variants and nothing else ever needs to extend it.
type Kind uint8

const (
	KindLexical Kind = iota
	KindMerge
	KindMove
)

// MergeShape distinguishes the three selector variants' branching and
// phonological fusion behaviour.
type MergeShape uint8

const (
	// ShapePlain is an ordinary X= selector: host projects on the left,
	// the selectee is merged as its right sister, no fusion.
	ShapePlain MergeShape = iota
	// ShapeHeadLeft is a =X selector: the selectee's head adjoins to the
	// right of the host's own form (fused form = host+selecteeHead).
	ShapeHeadLeft
	// ShapeHeadRight is a =>X or X<= selector: the selectee's head
	// adjoins to the left of the host's own form (fused form =
	// selecteeHead+host).
	ShapeHeadRight
)

// MoverSlot is one entry of a movers store: the subderivation waiting to
// be moved, plus its still-outstanding licensee features in order.
// Remaining[0] is always the licensee this slot is currently keyed by in
// its owning State.Movers map; when Move consumes it, Remaining[1:]
// determines whether the same mover re-enters the store under its next
// licensee (chain continuation) or is fully discharged.
type MoverSlot struct {
	State     *State
	Remaining []feature.Feature
}

// State is one node of a derivation: either a lexical projection, a merge
// of two constituents, or a move that re-attaches a stored mover. States
// are immutable once built; the step generator only ever produces new
// States, sharing existing subderivations by reference. This lets many
// frontier states in a beam share the bulk of their structure.
type State struct {
	Kind     Kind
	Features []feature.Feature // remaining head chain
	Movers   map[feature.NameID]*MoverSlot

	// KindLexical
	Item *lexicon.Item

	// KindMerge
	Shape          MergeShape
	Host, Selectee *State

	// KindMove: Pred is the predecessor state, whose head chain still
	// begins with the licensor this move consumed; Mover is the subderivation pulled out of Pred's
	// movers store and re-attached as this state's left child; Licensee
	// names the feature that was checked.
	Pred     *State
	Mover    *State
	Licensee feature.NameID

	LogProb float64
	NSteps  int

	fingerprint string
}

// NewLexical builds the axiom state for a single lexical item. If the
// item's feature list is [selectors..., category, licensees...], the
// trailing licensees are not yet owed to any parent: they only enter a
// movers store once this state is used as a Merge selectee, per
// spec.md 4.3 ("add the selectee's unchecked licensees to the movers
// store"). Until then they remain ordinary trailing Features.
func NewLexical(it *lexicon.Item) *State {
	s := &State{
		Kind:     KindLexical,
		Features: append([]feature.Feature(nil), it.Features...),
		Movers:   nil,
		Item:     it,
		LogProb:  it.LogWeight,
		NSteps:   0,
	}
	s.fingerprint = s.computeFingerprint()
	return s
}

// Final reports whether s is a completed derivation of goal: its head
// chain is a single category feature equal to goal, and its movers store
// is empty.
func (s *State) Final(in *feature.Interner, goal feature.NameID) bool {
	if len(s.Movers) != 0 {
		return false
	}
	if len(s.Features) != 1 {
		return false
	}
	f := s.Features[0]
	return f.Kind() == feature.KindCategory && f.Name() == goal
}

// HeadForm returns the phonological form of the constituent's projecting
// head. For a plain merge this is the host's head form unchanged; for a
// head-movement merge it is the fused form; for a move it is the
// predecessor's head form, since attracting a mover into specifier
// position never changes which element projects.
func (s *State) HeadForm() string {
	switch s.Kind {
	case KindLexical:
		return s.Item.Form
	case KindMerge:
		switch s.Shape {
		case ShapeHeadLeft:
			return s.Host.HeadForm() + s.Selectee.HeadForm()
		case ShapeHeadRight:
			return s.Selectee.HeadForm() + s.Host.HeadForm()
		default:
			return s.Host.HeadForm()
		}
	case KindMove:
		return s.Pred.HeadForm()
	default:
		return ""
	}
}

// Yield returns the ordered, non-empty surface tokens of s: the search-
// level "surface string" of spec.md 4.3, which drops empty lexical forms
// entirely (unlike tree linearisation, which prints a placeholder for
// them). excluded marks subderivations already surfaced elsewhere in the
// same derivation (a mover's body is excluded at its original merge site
// once a Move has re-attached it at a higher position); a nil excluded
// excludes nothing, and callers outside this package pass nil.
func (s *State) Yield(excluded map[*State]bool) []string {
	if excluded != nil && excluded[s] {
		return nil
	}
	switch s.Kind {
	case KindLexical:
		if s.Item.Form == "" {
			return nil
		}
		return []string{s.Item.Form}
	case KindMerge:
		switch s.Shape {
		case ShapeHeadLeft, ShapeHeadRight:
			form := s.HeadForm()
			if form == "" {
				return nil
			}
			return []string{form}
		default:
			out := append([]string(nil), s.Host.Yield(excluded)...)
			return append(out, s.Selectee.Yield(excluded)...)
		}
	case KindMove:
		sub := cloneExclusion(excluded)
		sub[s.Mover] = true
		out := append([]string(nil), s.Mover.Yield(excluded)...)
		return append(out, s.Pred.Yield(sub)...)
	default:
		return nil
	}
}

func cloneExclusion(excluded map[*State]bool) map[*State]bool {
	out := make(map[*State]bool, len(excluded)+1)
	for k, v := range excluded {
		out[k] = v
	}
	return out
}

// SurfaceString is the space-joined form of Yield(nil): the plain string
// this derivation produces, used for parse-mode equality and generation
// output.
func (s *State) SurfaceString() string {
	return strings.Join(s.Yield(nil), " ")
}

// computeFingerprint builds the deduplication key of spec.md 4.4: the
// head chain, the movers store as a sorted multiset of licensee-keyed
// subderivation fingerprints, and the surface yield consumed so far. The
// yield is part of the key, not just the head chain: two states can
// share the same remaining head chain and empty movers store (both are,
// say, finished derivations of category c) while having produced
// different surface strings, and parse mode's consumed-prefix
// requirement means those are distinct search states, not duplicates of
// one another. It is computed once, at construction time, from the
// (already-computed) fingerprints of any child states, so each step only
// does O(movers) extra work beyond the yield itself.
func (s *State) computeFingerprint() string {
	var b strings.Builder
	for _, f := range s.Features {
		fmt.Fprintf(&b, "%d:%d|", f.Kind(), f.Name())
	}
	b.WriteByte(';')

	names := make([]feature.NameID, 0, len(s.Movers))
	for name := range s.Movers {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	for _, name := range names {
		fmt.Fprintf(&b, "%d=%s,", name, s.Movers[name].State.fingerprint)
	}

	b.WriteByte(';')
	for _, w := range s.Yield(nil) {
		b.WriteString(w)
		b.WriteByte(' ')
	}
	return b.String()
}

// Fingerprint returns the deduplication key described at computeFingerprint.
func (s *State) Fingerprint() string {
	return s.fingerprint
}
