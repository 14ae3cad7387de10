package search

import (
	"strings"

	"github.com/arashi-lang/mg/lexicon"
)

// Continuation is an admissible next surface token, or the EOS sentinel.
type Continuation struct {
	form string
	eos  bool
}

// EOS returns the end-of-sequence continuation marker.
func EOS() Continuation { return Continuation{eos: true} }

// Word returns a continuation for a concrete surface form.
func Word(form string) Continuation { return Continuation{form: form} }

// IsEOS reports whether c is the end-of-sequence marker.
func (c Continuation) IsEOS() bool { return c.eos }

// Form returns the surface form of a non-EOS continuation.
func (c Continuation) Form() string { return c.form }

func (c Continuation) String() string {
	if c.eos {
		return "<eos>"
	}
	return c.form
}

// Continuations projects the set of admissible next surface tokens (or
// EOS) for prefix under goal, per spec.md 4.6. It is implemented as a
// thin filter over Generate: every finished derivation discovered within
// cfg's bounds contributes its token immediately following prefix (or
// EOS, if prefix is exactly its full yield). This satisfies the
// continuation soundness/completeness properties of spec.md 8 directly,
// at the cost of the single-pass efficiency spec.md 9's design notes
// describe as an optimisation, not a requirement.
func Continuations(lex *lexicon.Lexicon, prefix []string, goal string, cfg Config) ([]Continuation, error) {
	finals, err := Generate(lex, goal, cfg)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var out []Continuation
	sawEOS := false

	for _, s := range finals {
		toks := s.Yield(nil)
		if len(toks) < len(prefix) {
			continue
		}
		match := true
		for i, p := range prefix {
			if toks[i] != p {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		if len(toks) == len(prefix) {
			sawEOS = true
			continue
		}
		next := toks[len(prefix)]
		if !seen[next] {
			seen[next] = true
			out = append(out, Word(next))
		}
	}

	if sawEOS {
		out = append(out, EOS())
	}
	return out, nil
}

// ContinuationsFromString tokenises text through lex's surface forms
// (splitting on whitespace) before projecting continuations.
func ContinuationsFromString(lex *lexicon.Lexicon, text string, goal string, cfg Config) ([]Continuation, error) {
	var prefix []string
	if strings.TrimSpace(text) != "" {
		prefix = strings.Fields(text)
	}
	return Continuations(lex, prefix, goal, cfg)
}

// TokenContinuations computes, for a batch of token-id rows, which token
// ids can legally appear next at each position: a boolean 3D array
// [batch][position][vocab]. Position L-1 (just after the last
// non-padding token of a row) may mark EOS's token id as admissible.
func TokenContinuations(lex *lexicon.Lexicon, idBatch [][]int, goal string, cfg Config) ([][][]bool, error) {
	vocab := lex.Tokens()
	vocabSize := 0
	for _, id := range vocab {
		if id+1 > vocabSize {
			vocabSize = id + 1
		}
	}

	out := make([][][]bool, len(idBatch))
	for row, ids := range idBatch {
		length := rowLength(ids)
		out[row] = make([][]bool, length)
		for pos := 0; pos < length; pos++ {
			out[row][pos] = make([]bool, vocabSize)

			prefixIDs := ids[:pos+1]
			for _, id := range prefixIDs {
				if id < 0 {
					return nil, lexicon.ErrInvalidTokenID
				}
			}
			prefix, err := lex.Detokenize(prefixIDs)
			if err != nil {
				return nil, err
			}

			conts, err := Continuations(lex, prefix, goal, cfg)
			if err != nil {
				return nil, err
			}
			for _, c := range conts {
				if c.IsEOS() {
					out[row][pos][lexicon.TokenEOS] = true
					continue
				}
				if id, ok := vocab[c.Form()]; ok {
					out[row][pos][id] = true
				}
			}
		}
	}
	return out, nil
}

// rowLength returns the index of the first PAD token in ids, or len(ids)
// if there is none; PAD entries past the first are ignored for length
// detection, per spec.md 6.
func rowLength(ids []int) int {
	for i, id := range ids {
		if id == lexicon.TokenPAD {
			return i
		}
	}
	return len(ids)
}
