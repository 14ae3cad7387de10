package search

import (
	"github.com/arashi-lang/mg/derivation"
	"github.com/arashi-lang/mg/feature"
)

// Chart indexes every completed constituent discovered during a search
// by head category, so Merge can select a previously built composite
// derivation as a selectee, not only a raw lexical item. It implements
// derivation.SelecteeSource.
type Chart struct {
	byCategory map[feature.NameID][]*derivation.State
}

// NewChart returns an empty Chart.
func NewChart() *Chart {
	return &Chart{byCategory: map[feature.NameID][]*derivation.State{}}
}

// CompletedWithCategory implements derivation.SelecteeSource.
func (c *Chart) CompletedWithCategory(name feature.NameID) []*derivation.State {
	return c.byCategory[name]
}

// Record indexes s if it is available as a Merge selectee for some
// category (see derivation.State.CompletionCategory).
func (c *Chart) Record(s *derivation.State) {
	name, ok := s.CompletionCategory()
	if !ok {
		return
	}
	c.byCategory[name] = append(c.byCategory[name], s)
}
