// Package feature implements the tagged feature values used by the
// Minimalist Grammar engine: categories, selectors, the two head-movement
// selector variants, and licensor/licensee pairs. All comparisons in the
// hot path (the step generator and beam frontier) are over interned
// integer ids rather than strings.
package feature

import "fmt"

// Kind identifies which of the six feature kinds a Feature carries. There
// is deliberately no distinct kind for the `X<=` grammar-text spelling: it
// denotes the same head-movement-to-the-right behaviour as `=>X` and is
// interned to KindHeadMovementSelectorRight (see lexicon.classify).
type Kind uint8

const (
	KindCategory Kind = iota
	KindSelector
	KindHeadMovementSelectorLeft
	KindHeadMovementSelectorRight
	KindLicensor
	KindLicensee
)

func (k Kind) String() string {
	switch k {
	case KindCategory:
		return "category"
	case KindSelector:
		return "selector"
	case KindHeadMovementSelectorLeft:
		return "head-movement-selector-left"
	case KindHeadMovementSelectorRight:
		return "head-movement-selector-right"
	case KindLicensor:
		return "licensor"
	case KindLicensee:
		return "licensee"
	default:
		return "unknown"
	}
}

// IsSelector reports whether the kind consumes a selectee during Merge,
// i.e. every selector variant except plain categories, licensors and
// licensees.
func (k Kind) IsSelector() bool {
	return k == KindSelector || k == KindHeadMovementSelectorLeft || k == KindHeadMovementSelectorRight
}

// IsHeadMovement reports whether merging this selector concatenates the
// selectee's head form onto the host's own form (see
// derivation.State.HeadForm).
func (k Kind) IsHeadMovement() bool {
	return k == KindHeadMovementSelectorLeft || k == KindHeadMovementSelectorRight
}

// NameID is an interned feature-name id. The zero value never denotes a
// real name: the interner reserves it.
type NameID uint32

// Feature is a small, comparable value: a kind plus an interned name. Two
// Features compare equal iff both fields match, so Feature is safe to use
// as a map key (the movers store keys on the licensee NameID alone, but
// fingerprints and equality checks compare whole Features).
type Feature struct {
	kind Kind
	name NameID
}

// New builds a Feature. Callers obtain name from an Interner.
func New(kind Kind, name NameID) Feature {
	return Feature{kind: kind, name: name}
}

func (f Feature) Kind() Kind   { return f.kind }
func (f Feature) Name() NameID { return f.name }

// Interner assigns stable small integer ids to feature names, so that the
// hot path in the derivation step generator never compares strings.
type Interner struct {
	name2id map[string]NameID
	id2name []string
}

// NewInterner returns an Interner whose id 0 is reserved and never
// assigned to a real name.
func NewInterner() *Interner {
	return &Interner{
		name2id: map[string]NameID{},
		id2name: []string{""},
	}
}

// Intern returns the id for name, assigning a fresh one on first sight.
func (in *Interner) Intern(name string) NameID {
	if id, ok := in.name2id[name]; ok {
		return id
	}
	id := NameID(len(in.id2name))
	in.id2name = append(in.id2name, name)
	in.name2id[name] = id
	return id
}

// Lookup returns the id for name without interning it.
func (in *Interner) Lookup(name string) (NameID, bool) {
	id, ok := in.name2id[name]
	return id, ok
}

// Name returns the text behind id. It panics on an id this interner never
// produced, since that indicates a programmer error (a Feature built from
// a different Interner).
func (in *Interner) Name(id NameID) string {
	if int(id) >= len(in.id2name) {
		panic(fmt.Sprintf("feature: name id %d was never interned", id))
	}
	return in.id2name[id]
}

// Format renders f back into its canonical grammar-text spelling.
func (in *Interner) Format(f Feature) string {
	name := in.Name(f.name)
	switch f.kind {
	case KindSelector:
		return name + "="
	case KindHeadMovementSelectorLeft:
		return "=" + name
	case KindHeadMovementSelectorRight:
		return "=>" + name
	case KindLicensor:
		return "+" + name
	case KindLicensee:
		return "-" + name
	default:
		return name
	}
}

// FormatAll renders a feature list the way lexical entries and tree nodes
// display them: space separated, in list order.
func FormatAll(in *Interner, fs []Feature) string {
	if len(fs) == 0 {
		return ""
	}
	s := in.Format(fs[0])
	for _, f := range fs[1:] {
		s += " " + in.Format(f)
	}
	return s
}
