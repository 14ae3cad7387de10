// Package lexicon implements the grammar-text parser and the lexicon
// value: an ordered sequence of lexical items, a reverse index from head
// feature to the items that project it, an interned token table, and an
// MDL scorer.
package lexicon

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	mgerr "github.com/arashi-lang/mg/error"
	"github.com/arashi-lang/mg/feature"
)

// Item is a single lexical entry: a (possibly empty) surface form, its
// ordered feature list, and a log-weight. The feature list is consumed
// left-to-right during derivation; the rightmost unchecked feature is the
// head of the projected structure.
type Item struct {
	Form      string
	Features  []feature.Feature
	LogWeight float64
}

// Head returns the item's head category feature: the one feature in its
// list with Kind() == feature.KindCategory. Selectors always select by
// category, so this is what indexes an item for Merge regardless of
// where the category sits relative to any trailing licensees (a
// category feature may be followed by one or more "-x" licensees still
// owed by this item once it becomes a Merge selectee). If the item
// carries more than one category feature, the first is returned; Build
// does not check the count. If none is found, the last feature is
// returned as a fallback.
func (it *Item) Head() feature.Feature {
	for _, f := range it.Features {
		if f.Kind() == feature.KindCategory {
			return f
		}
	}
	return it.Features[len(it.Features)-1]
}

// Lexicon is an immutable grammar: an ordered list of lexical items plus
// derived indices. A Lexicon is only ever produced by Build, RandomLexicon,
// or UnmarshalBinary, and is safe for concurrent read access from multiple
// goroutines once constructed.
type Lexicon struct {
	items     []*Item
	headIndex map[feature.Feature][]*Item
	interner  *feature.Interner
	tokens    *tokenTable
}

// Items returns the lexicon's entries in declaration order. The returned
// slice must not be modified.
func (l *Lexicon) Items() []*Item {
	return l.items
}

// Interner returns the feature-name interner backing this lexicon's
// features.
func (l *Lexicon) Interner() *feature.Interner {
	return l.interner
}

// ItemsWithHead returns every item whose head feature equals f, in
// declaration order.
func (l *Lexicon) ItemsWithHead(f feature.Feature) []*Item {
	return l.headIndex[f]
}

// HasCategory reports whether name occurs as a bare category head
// somewhere in the lexicon. Search-entry operations use this to diagnose
// EmptyCategory before starting a beam search.
func (l *Lexicon) HasCategory(name string) bool {
	id, ok := l.interner.Lookup(name)
	if !ok {
		return false
	}
	_, ok = l.headIndex[feature.New(feature.KindCategory, id)]
	return ok
}

// Tokens returns the lexicon's full form->id map, including the three
// reserved ids (BOS=0, EOS=1, PAD=2).
func (l *Lexicon) Tokens() map[string]int {
	return l.tokens.all()
}

// Detokenize maps a single id sequence back to surface forms, preserving
// order. It fails with ErrUnknownToken if any id has no registered form.
func (l *Lexicon) Detokenize(ids []int) ([]string, error) {
	out := make([]string, len(ids))
	for i, id := range ids {
		form, ok := l.tokens.formOf(id)
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrUnknownToken, id)
		}
		out[i] = form
	}
	return out, nil
}

// DetokenizeBatch applies Detokenize to each row of a batch of id
// sequences.
func (l *Lexicon) DetokenizeBatch(batch [][]int) ([][]string, error) {
	out := make([][]string, len(batch))
	for i, row := range batch {
		forms, err := l.Detokenize(row)
		if err != nil {
			return nil, err
		}
		out[i] = forms
	}
	return out, nil
}

// Build parses grammar text into a Lexicon. Each non-blank, non-comment
// line has the form "form::F1 F2 ... Fn". Build fails with a
// *mgerr.GrammarError wrapping ErrMalformedLine or ErrDuplicateLicensee,
// naming the offending line.
func Build(text string) (*Lexicon, error) {
	l := &Lexicon{
		headIndex: map[feature.Feature][]*Item{},
		interner:  feature.NewInterner(),
		tokens:    newTokenTable(),
	}

	lines := strings.Split(text, "\n")
	for row, raw := range lines {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		sep := strings.Index(line, "::")
		if sep < 0 {
			return nil, &mgerr.GrammarError{Cause: ErrMalformedLine, Row: row + 1}
		}
		form := line[:sep]
		featureText := strings.TrimSpace(line[sep+2:])

		var feats []feature.Feature
		seenLicensees := map[feature.NameID]bool{}
		for _, tok := range strings.Fields(featureText) {
			kind, name := classify(tok)
			id := l.interner.Intern(name)
			f := feature.New(kind, id)
			if kind == feature.KindLicensee {
				if seenLicensees[id] {
					return nil, &mgerr.GrammarError{Cause: ErrDuplicateLicensee, Row: row + 1}
				}
				seenLicensees[id] = true
			}
			feats = append(feats, f)
		}

		l.tokens.register(form)

		item := &Item{Form: form, Features: feats, LogWeight: 0}
		l.items = append(l.items, item)
		if len(feats) > 0 {
			head := item.Head()
			l.headIndex[head] = append(l.headIndex[head], item)
		}
	}

	return l, nil
}

// classify determines the Kind and bare name encoded by a single
// grammar-text feature token. Order matters: the two-character prefixes
// and suffixes must be checked before the single-character ones they
// would otherwise be mistaken for.
func classify(tok string) (feature.Kind, string) {
	switch {
	case strings.HasPrefix(tok, "=>"):
		return feature.KindHeadMovementSelectorRight, tok[2:]
	case strings.HasSuffix(tok, "<="):
		return feature.KindHeadMovementSelectorRight, tok[:len(tok)-2]
	case strings.HasPrefix(tok, "="):
		return feature.KindHeadMovementSelectorLeft, tok[1:]
	case strings.HasSuffix(tok, "="):
		return feature.KindSelector, tok[:len(tok)-1]
	case strings.HasPrefix(tok, "+"):
		return feature.KindLicensor, tok[1:]
	case strings.HasPrefix(tok, "-"):
		return feature.KindLicensee, tok[1:]
	default:
		return feature.KindCategory, tok
	}
}

// MDL scores the lexicon against a vocabulary of size vocabSize, per
// mdl(|Sigma|) = -[ sum_items(|features of item| * log|Sigma|) +
// vocabulary code ], where the vocabulary code is len(items) * log2(vocabSize).
// The engine only guarantees stability across runs with the same inputs;
// it does not claim this is an optimal code.
func (l *Lexicon) MDL(vocabSize int) float64 {
	if vocabSize <= 1 {
		return 0
	}
	logSigma := math.Log2(float64(vocabSize))
	var total float64
	for _, it := range l.items {
		total += float64(len(it.Features)) * logSigma
	}
	total += float64(len(l.items)) * logSigma
	return -total
}

// RandomLexicon deterministically samples a toy lexicon over the given
// surface forms with a small fixed category inventory. The forms are
// sorted first; the alphabetically first form always heads the goal
// category "0" directly (so "0" is always
// reachable); every other form is assigned a random selector into some
// category of the inventory, headed by "0". Two calls with the same forms
// and seed produce identical lexicons.
func RandomLexicon(forms []string, seed int64) *Lexicon {
	r := rand.New(rand.NewSource(seed))
	categories := []string{"0", "1", "2"}

	l := &Lexicon{
		headIndex: map[feature.Feature][]*Item{},
		interner:  feature.NewInterner(),
		tokens:    newTokenTable(),
	}

	sorted := append([]string(nil), forms...)
	sort.Strings(sorted)

	goalID := l.interner.Intern(categories[0])
	catIDs := make([]feature.NameID, len(categories))
	for i, cat := range categories {
		catIDs[i] = l.interner.Intern(cat)
	}

	for i, form := range sorted {
		var feats []feature.Feature
		if i == 0 {
			feats = []feature.Feature{feature.New(feature.KindCategory, goalID)}
		} else {
			selID := catIDs[r.Intn(len(catIDs))]
			feats = []feature.Feature{
				feature.New(feature.KindSelector, selID),
				feature.New(feature.KindCategory, goalID),
			}
		}
		l.tokens.register(form)
		item := &Item{Form: form, Features: feats, LogWeight: 0}
		l.items = append(l.items, item)
		head := item.Head()
		l.headIndex[head] = append(l.headIndex[head], item)
	}

	return l
}
