package search

import (
	"fmt"
	"strings"

	"github.com/arashi-lang/mg/derivation"
	"github.com/arashi-lang/mg/feature"
	"github.com/arashi-lang/mg/lexicon"
)

// goalCategory resolves the category name to its interned id, failing
// with lexicon.ErrEmptyCategory if it is never produced by any lexical
// item (spec.md 4.1's EmptyCategory failure, diagnosed by search-entry
// operations rather than by lexicon.Build itself — see DESIGN.md).
func goalCategory(lex *lexicon.Lexicon, goal string) (feature.NameID, error) {
	id, ok := lex.Interner().Lookup(goal)
	if !ok || !lex.HasCategory(goal) {
		return 0, fmt.Errorf("%w: %q", lexicon.ErrEmptyCategory, goal)
	}
	return id, nil
}

// run drives the shared beam loop of spec.md 4.4 from an initial
// frontier, collecting every final state for goal, in best-first order,
// up to cfg's bounds. It is the single algorithm behind Parse, Generate,
// and Continuations; the three differ only in how they build seed and
// interpret the results.
func run(lex *lexicon.Lexicon, goalID feature.NameID, seed []*derivation.State, cfg Config, accept func(*derivation.State) bool) []*derivation.State {
	chart := NewChart()
	frontier := NewFrontier()
	for _, s := range seed {
		frontier.Offer(s)
	}

	var results []*derivation.State
	for frontier.Len() > 0 {
		if cfg.boundedBeams() {
			frontier.Truncate(cfg.NBeams)
		}
		s := frontier.Pop()
		if s.LogProb < cfg.MinLogProb {
			continue
		}
		chart.Record(s)

		if s.Final(lex.Interner(), goalID) && accept(s) {
			results = append(results, s)
			if cfg.boundedStrings() && len(results) >= cfg.MaxStrings {
				break
			}
			continue
		}

		if cfg.boundedSteps() && s.NSteps >= cfg.MaxSteps {
			continue
		}
		for _, succ := range derivation.Successors(s, lex, chart, cfg.MoveProb) {
			frontier.Offer(succ)
		}
	}
	return results
}

// Generate enumerates finished derivations of goal, in non-increasing
// log-probability order (the frontier's own pop order), stopping after
// cfg.MaxStrings distinct surface strings have been accepted. Per
// spec.md 4.4, the initial frontier is every lexical item whose head
// category is goal.
func Generate(lex *lexicon.Lexicon, goal string, cfg Config) ([]*derivation.State, error) {
	goalID, err := goalCategory(lex, goal)
	if err != nil {
		return nil, err
	}

	var seed []*derivation.State
	for _, it := range lex.ItemsWithHead(feature.New(feature.KindCategory, goalID)) {
		seed = append(seed, derivation.NewLexical(it))
	}

	seenStrings := map[string]bool{}
	results := run(lex, goalID, seed, cfg, func(s *derivation.State) bool {
		str := s.SurfaceString()
		if seenStrings[str] {
			return false
		}
		seenStrings[str] = true
		return true
	})
	return results, nil
}

// Parse finds every finished derivation of goal whose surface string
// equals text exactly. Per spec.md 4.4, the initial frontier is every
// lexical item whose head category is goal: the head's own surface
// position is not necessarily first in the derived string (a moved
// specifier, as in spec.md 8 scenario 5, can precede it), so unlike
// Generate's seeding this cannot also prune by matching the first token
// of text up front — only the final accepted string is checked against
// text.
func Parse(lex *lexicon.Lexicon, text string, goal string, cfg Config) ([]*derivation.State, error) {
	goalID, err := goalCategory(lex, goal)
	if err != nil {
		return nil, err
	}

	tokens := strings.Fields(text)
	candidates := lex.ItemsWithHead(feature.New(feature.KindCategory, goalID))

	var seed []*derivation.State
	for _, it := range candidates {
		seed = append(seed, derivation.NewLexical(it))
	}

	results := run(lex, goalID, seed, cfg, func(s *derivation.State) bool {
		return s.SurfaceString() == strings.Join(tokens, " ")
	})
	return results, nil
}

// ParseTokens is Parse over a pre-tokenised input: ids are detokenised
// through lex before parsing.
func ParseTokens(lex *lexicon.Lexicon, ids []int, goal string, cfg Config) ([]*derivation.State, error) {
	forms, err := lex.Detokenize(ids)
	if err != nil {
		return nil, err
	}
	return Parse(lex, strings.Join(forms, " "), goal, cfg)
}
