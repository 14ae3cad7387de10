// Package mg is the public facade of the Minimalist Grammar engine: build
// a lexicon from grammar text, then parse, generate, or project
// continuations against it. It wires the lower-level lexicon, derivation,
// search, and tree packages into the operations of spec.md 6.
package mg

import (
	"errors"

	"github.com/google/uuid"

	"github.com/arashi-lang/mg/derivation"
	"github.com/arashi-lang/mg/lexicon"
	"github.com/arashi-lang/mg/search"
	"github.com/arashi-lang/mg/tree"
)

// ErrUnknownReduction is reserved for the batch F1-scoring helpers
// described in spec.md 7; computing F1 over a batch of derivations is an
// explicit non-goal of this engine (see SPEC_FULL.md's Non-goals), so no
// operation here ever returns it. It is declared so the engine's error
// kind surface matches spec.md 7 in full, for a downstream evaluation
// collaborator to reuse as its own sentinel.
var ErrUnknownReduction = errors.New("mg: unknown batch reduction mode")

// Lexicon re-exports lexicon.Lexicon so callers need only import this
// package for the common path.
type Lexicon = lexicon.Lexicon

// Option re-exports search.Option.
type Option = search.Option

// Continuation re-exports search.Continuation.
type Continuation = search.Continuation

var (
	WithMaxSteps   = search.WithMaxSteps
	WithNBeams     = search.WithNBeams
	WithMaxStrings = search.WithMaxStrings
	WithMinLogProb = search.WithMinLogProb
	WithMoveProb   = search.WithMoveProb
)

// BuildLexicon parses grammar text into a Lexicon.
func BuildLexicon(text string) (*Lexicon, error) {
	return lexicon.Build(text)
}

// Tokens returns lex's full form->id map, including BOS/EOS/PAD.
func Tokens(lex *Lexicon) map[string]int {
	return lex.Tokens()
}

// Detokenize maps a token id sequence back to surface forms.
func Detokenize(lex *Lexicon, ids []int) ([]string, error) {
	return lex.Detokenize(ids)
}

// Derivation wraps a finished derivation.State with the lexicon it was
// built from, and lazily materializes its lowered Tree on first use.
type Derivation struct {
	state *derivation.State
	lex   *Lexicon
	id    uuid.UUID
	tr    *tree.Tree
}

func wrap(lex *Lexicon, s *derivation.State) *Derivation {
	id, err := uuid.NewRandom()
	if err != nil {
		id = uuid.Nil
	}
	return &Derivation{state: s, lex: lex, id: id}
}

func wrapAll(lex *Lexicon, states []*derivation.State) []*Derivation {
	out := make([]*Derivation, len(states))
	for i, s := range states {
		out[i] = wrap(lex, s)
	}
	return out
}

// ID returns the derivation's correlation identifier.
func (d *Derivation) ID() uuid.UUID { return d.id }

// LogProb returns the derivation's accumulated log-probability.
func (d *Derivation) LogProb() float64 { return d.state.LogProb }

// Prob returns exp(d.LogProb()).
func (d *Derivation) Prob() float64 { return d.state.Prob() }

// NSteps returns the number of merge/move steps taken to reach this
// derivation.
func (d *Derivation) NSteps() int { return d.state.NSteps }

// MaxMemoryLoad returns the largest movers-store size observed anywhere
// in this derivation's history.
func (d *Derivation) MaxMemoryLoad() int { return d.state.MaxMemoryLoad() }

// String returns the plain space-joined surface string, independent of
// any tree lowering.
func (d *Derivation) String() string { return d.state.SurfaceString() }

// Tokens returns the derivation's surface string as a token-id sequence,
// framed with BOS and EOS (spec.md 8: tokens()[0] == BOS, ends with EOS).
func (d *Derivation) Tokens() []int {
	vocab := d.lex.Tokens()
	words := d.state.Yield(nil)
	ids := make([]int, 0, len(words)+2)
	ids = append(ids, lexicon.TokenBOS)
	for _, w := range words {
		if id, ok := vocab[w]; ok {
			ids = append(ids, id)
		}
	}
	ids = append(ids, lexicon.TokenEOS)
	return ids
}

// ContainsWord reports whether word appears in the derivation's surface
// string. The empty string matches a derivation that uses any lexical
// item with the empty surface form, the same as ContainsEmptyWord.
func (d *Derivation) ContainsWord(word string) bool {
	if word == "" {
		return d.ContainsEmptyWord()
	}
	words := d.state.Yield(nil)
	for _, w := range words {
		if w == word {
			return true
		}
	}
	return false
}

// ContainsEmptyWord reports whether any lexical item used anywhere in
// the derivation (including moved or otherwise non-spoken positions) has
// the empty surface form.
func (d *Derivation) ContainsEmptyWord() bool {
	return d.ContainsLexicalEntry("")
}

// ContainsLexicalEntry reports whether the lexical item with surface
// form form was used anywhere in the derivation, walking the full
// subderivation structure rather than only the spoken surface string (so
// it also finds entries realized at a trace's base position).
func (d *Derivation) ContainsLexicalEntry(form string) bool {
	found := false
	seen := map[*derivation.State]bool{}
	var walk func(*derivation.State)
	walk = func(s *derivation.State) {
		if s == nil || seen[s] || found {
			return
		}
		seen[s] = true
		if s.Kind == derivation.KindLexical && s.Item.Form == form {
			found = true
			return
		}
		walk(s.Host)
		walk(s.Selectee)
		walk(s.Pred)
		walk(s.Mover)
	}
	walk(d.state)
	return found
}

// ToTree lowers the derivation to an explicit Tree, caching the result.
func (d *Derivation) ToTree() *tree.Tree {
	if d.tr == nil {
		d.tr = tree.Lower(d.state, d.lex.Interner())
	}
	return d.tr
}

// Latex renders the derivation's tree as a forest-package LaTeX block.
func (d *Derivation) Latex() string {
	return d.ToTree().ToLaTeX()
}

// Parse finds every finished derivation of goal whose surface string
// equals text exactly.
func Parse(lex *Lexicon, text, goal string, opts ...Option) ([]*Derivation, error) {
	states, err := search.Parse(lex, text, goal, search.NewConfig(opts...))
	if err != nil {
		return nil, err
	}
	return wrapAll(lex, states), nil
}

// ParseTokens is Parse over a pre-tokenized input.
func ParseTokens(lex *Lexicon, ids []int, goal string, opts ...Option) ([]*Derivation, error) {
	states, err := search.ParseTokens(lex, ids, goal, search.NewConfig(opts...))
	if err != nil {
		return nil, err
	}
	return wrapAll(lex, states), nil
}

// GenerateGrammar returns an iterator over finished derivations of goal,
// in non-increasing log-probability order. The search itself runs to
// completion up front (bounded by opts); the iterator lets a caller stop
// consuming early without materializing a slice it never inspects past
// that point.
func GenerateGrammar(lex *Lexicon, goal string, opts ...Option) (func() (*Derivation, bool), error) {
	states, err := search.Generate(lex, goal, search.NewConfig(opts...))
	if err != nil {
		return nil, err
	}
	i := 0
	next := func() (*Derivation, bool) {
		if i >= len(states) {
			return nil, false
		}
		d := wrap(lex, states[i])
		i++
		return d, true
	}
	return next, nil
}

// StringProb is a surface string paired with its derivation's
// log-probability.
type StringProb struct {
	Surface string
	LogProb float64
}

// GenerateUniqueStrings returns up to n distinct surface strings of goal
// with their log-probabilities, best-first.
func GenerateUniqueStrings(lex *Lexicon, goal string, n int, opts ...Option) ([]StringProb, error) {
	opts = append(opts, search.WithMaxStrings(n))
	states, err := search.Generate(lex, goal, search.NewConfig(opts...))
	if err != nil {
		return nil, err
	}
	out := make([]StringProb, len(states))
	for i, s := range states {
		out[i] = StringProb{Surface: s.SurfaceString(), LogProb: s.LogProb}
	}
	return out, nil
}

// defaultContinuationMaxSteps and defaultContinuationMaxStrings bound
// Continuations/ContinuationsFromString by default. Both are implemented
// as a filter over Generate (see search/continuation.go), so on a
// recursive grammar an unbounded search never terminates; a caller who
// wants different bounds can always override them by passing its own
// WithMaxSteps/WithMaxStrings, since later options win.
const (
	defaultContinuationMaxSteps   = 200
	defaultContinuationMaxStrings = 500
)

func continuationConfig(opts []Option) search.Config {
	merged := append([]Option{
		search.WithMaxSteps(defaultContinuationMaxSteps),
		search.WithMaxStrings(defaultContinuationMaxStrings),
	}, opts...)
	return search.NewConfig(merged...)
}

// Continuations projects the set of admissible next surface tokens (or
// EOS) for prefix under goal. Bounded by default (see
// defaultContinuationMaxSteps/defaultContinuationMaxStrings) so a
// recursive grammar still returns the continuations reachable within
// those bounds rather than searching forever; pass WithMaxSteps/
// WithMaxStrings to override.
func Continuations(lex *Lexicon, prefix []string, goal string, opts ...Option) ([]Continuation, error) {
	return search.Continuations(lex, prefix, goal, continuationConfig(opts))
}

// ContinuationsFromString is Continuations over a whitespace-tokenized
// prefix string.
func ContinuationsFromString(lex *Lexicon, text, goal string, opts ...Option) ([]Continuation, error) {
	return search.ContinuationsFromString(lex, text, goal, continuationConfig(opts))
}

// TokenContinuations computes, for a batch of token-id rows, which token
// ids can legally appear next at each position.
func TokenContinuations(lex *Lexicon, idBatch [][]int, goal string, opts ...Option) ([][][]bool, error) {
	return search.TokenContinuations(lex, idBatch, goal, search.NewConfig(opts...))
}

// Serialize encodes lex to a byte string.
func Serialize(lex *Lexicon) ([]byte, error) {
	return lex.Serialize()
}

// Deserialize decodes a Lexicon previously produced by Serialize.
func Deserialize(data []byte) (*Lexicon, error) {
	return lexicon.Deserialize(data)
}

// RandomLexicon deterministically samples a toy lexicon, for grammar
// induction experiments and test fixtures.
func RandomLexicon(forms []string, seed int64) *Lexicon {
	return lexicon.RandomLexicon(forms, seed)
}
