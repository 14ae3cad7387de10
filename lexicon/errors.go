package lexicon

import "errors"

// Sentinel causes wrapped by mgerr.GrammarError when Build fails, or
// returned bare when the condition isn't tied to a single grammar-text
// line.
var (
	// ErrDuplicateLicensee is the cause when a single lexical item lists
	// the same licensee feature (-f) more than once.
	ErrDuplicateLicensee = errors.New("lexicon: duplicate licensee feature in one item")

	// ErrEmptyCategory is returned by search-entry operations (mg.Parse,
	// mg.GenerateGrammar, mg.Continuations, ...) when the requested goal
	// category never appears as a bare category feature anywhere in the
	// lexicon.
	ErrEmptyCategory = errors.New("lexicon: goal category is not produced by any lexical item")

	// ErrMalformedLine is the cause when a grammar-text line has no "::"
	// separator.
	ErrMalformedLine = errors.New("lexicon: expected \"form :: features\"")

	// ErrUnknownToken is returned by Detokenize/DetokenizeBatch when a
	// token id has no corresponding surface form.
	ErrUnknownToken = errors.New("lexicon: unknown token id")

	// ErrInvalidTokenID is returned by TokenContinuations when a negative
	// token id is supplied; a non-negative id with no registered form
	// fails with ErrUnknownToken instead.
	ErrInvalidTokenID = errors.New("lexicon: invalid token id")
)
