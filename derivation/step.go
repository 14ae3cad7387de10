package derivation

import (
	"math"

	"github.com/arashi-lang/mg/feature"
	"github.com/arashi-lang/mg/lexicon"
)

// SelecteeSource supplies already-completed constituents of a given
// category, beyond the static lexicon, for Merge to consider as a
// selectee. The beam driver in package search implements this over its
// own chart of completed constituents; derivation never needs to know
// how that chart is maintained.
type SelecteeSource interface {
	CompletedWithCategory(name feature.NameID) []*State
}

// Successors enumerates every single-step Merge or Move extension of s,
// per spec.md 4.3. lex supplies lexical selectee candidates; chart
// supplies previously completed composite selectee candidates (may be
// nil, meaning none are available yet). moveProb is the configured
// weight split between move and merge steps.
func Successors(s *State, lex *lexicon.Lexicon, chart SelecteeSource, moveProb float64) []*State {
	if len(s.Features) == 0 {
		return nil
	}

	var out []*State
	f0 := s.Features[0]

	switch {
	case f0.Kind().IsSelector():
		out = append(out, mergeSuccessors(s, f0, lex, chart, moveProb)...)
	case f0.Kind() == feature.KindLicensor:
		if mv := moveSuccessor(s, f0, moveProb); mv != nil {
			out = append(out, mv)
		}
	}
	return out
}

func mergeSuccessors(s *State, selector feature.Feature, lex *lexicon.Lexicon, chart SelecteeSource, moveProb float64) []*State {
	target := feature.New(feature.KindCategory, selector.Name())

	var candidates []*State
	for _, it := range lex.ItemsWithHead(target) {
		candidates = append(candidates, NewLexical(it))
	}
	if chart != nil {
		candidates = append(candidates, chart.CompletedWithCategory(selector.Name())...)
	}

	shape := shapeOf(selector.Kind())

	var out []*State
	for _, selectee := range candidates {
		if !isComplete(selectee, selector.Name()) {
			continue
		}
		movers, ok := mergeMovers(s.Movers, selectee)
		if !ok {
			// Shortest-Move Constraint: a colliding licensee name makes
			// this step illegal.
			continue
		}

		out = append(out, &State{
			Kind:     KindMerge,
			Features: s.Features[1:],
			Movers:   movers,
			Shape:    shape,
			Host:     s,
			Selectee: selectee,
			LogProb:  s.LogProb + selectee.LogProb + math.Log(1-moveProb),
			NSteps:   s.NSteps + selectee.NSteps + 1,
		})
	}
	for i, st := range out {
		st.fingerprint = st.computeFingerprint()
		out[i] = st
	}
	return out
}

// isComplete reports whether a candidate selectee's head chain is
// exactly [category(name), licensee, licensee, ...].
func isComplete(s *State, name feature.NameID) bool {
	cat, ok := s.CompletionCategory()
	return ok && cat == name
}

// CompletionCategory reports the category a state is available as a
// Merge selectee for: its head chain must be a single category feature,
// optionally followed only by trailing licensees still owed once it is
// selected. Package search's chart uses this to index completed
// constituents for later reuse as selectees, beyond the static lexicon.
func (s *State) CompletionCategory() (feature.NameID, bool) {
	if len(s.Features) == 0 {
		return 0, false
	}
	head := s.Features[0]
	if head.Kind() != feature.KindCategory {
		return 0, false
	}
	for _, f := range s.Features[1:] {
		if f.Kind() != feature.KindLicensee {
			return 0, false
		}
	}
	return head.Name(), true
}

// mergeMovers folds a selectee's trailing licensees (promoted to a
// single new MoverSlot keyed by the first one) into hostMovers, failing
// if any licensee name collides with one already present.
func mergeMovers(hostMovers map[feature.NameID]*MoverSlot, selectee *State) (map[feature.NameID]*MoverSlot, bool) {
	out := make(map[feature.NameID]*MoverSlot, len(hostMovers)+len(selectee.Movers)+1)
	for name, slot := range hostMovers {
		out[name] = slot
	}
	for name, slot := range selectee.Movers {
		if _, dup := out[name]; dup {
			return nil, false
		}
		out[name] = slot
	}

	licensees := selectee.Features[1:]
	if len(licensees) > 0 {
		name := licensees[0].Name()
		if _, dup := out[name]; dup {
			return nil, false
		}
		out[name] = &MoverSlot{State: selectee, Remaining: licensees}
	}

	if len(out) == 0 {
		return nil, true
	}
	return out, true
}

func shapeOf(k feature.Kind) MergeShape {
	switch k {
	case feature.KindHeadMovementSelectorLeft:
		return ShapeHeadLeft
	case feature.KindHeadMovementSelectorRight:
		return ShapeHeadRight
	default:
		return ShapePlain
	}
}

// moveSuccessor consumes a licensor feature +x against the movers store
// entry keyed by x, if any. If the mover has further outstanding
// licensees beyond x, it re-enters the store keyed by the next one
// (chain continuation).
func moveSuccessor(s *State, licensor feature.Feature, moveProb float64) *State {
	slot, ok := s.Movers[licensor.Name()]
	if !ok {
		return nil
	}

	movers := make(map[feature.NameID]*MoverSlot, len(s.Movers))
	for name, v := range s.Movers {
		if name == licensor.Name() {
			continue
		}
		movers[name] = v
	}
	if len(slot.Remaining) > 1 {
		next := slot.Remaining[1:]
		movers[next[0].Name()] = &MoverSlot{State: slot.State, Remaining: next}
	}

	mv := &State{
		Kind:     KindMove,
		Features: s.Features[1:],
		Movers:   movers,
		Pred:     s,
		Mover:    slot.State,
		Licensee: licensor.Name(),
		LogProb:  s.LogProb + math.Log(moveProb),
		NSteps:   s.NSteps + 1,
	}
	mv.fingerprint = mv.computeFingerprint()
	return mv
}
