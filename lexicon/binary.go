package lexicon

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/dekarrin/rezi"

	"github.com/arashi-lang/mg/feature"
)

// binaryVersion guards the wire format. Bump it if the encoding below
// changes shape.
const binaryVersion = 1

// The helpers below hand-encode primitives rather than delegating to rezi
// for them, mirroring how dekarrin/tunaq's internal/tunascript/binary.go
// builds its own varint/string helpers and only calls into a generic
// marshaler at the outermost boundary.

func encBinaryInt(n int) []byte {
	return binary.AppendVarint(nil, int64(n))
}

func decBinaryInt(data []byte) (int, int, error) {
	n, read := binary.Varint(data)
	if read <= 0 {
		return 0, 0, fmt.Errorf("lexicon: malformed int in binary stream")
	}
	return int(n), read, nil
}

func encBinaryString(s string) []byte {
	b := encBinaryInt(len(s))
	return append(b, []byte(s)...)
}

func decBinaryString(data []byte) (string, int, error) {
	n, read, err := decBinaryInt(data)
	if err != nil {
		return "", 0, err
	}
	if n < 0 || read+n > len(data) {
		return "", 0, fmt.Errorf("lexicon: malformed string in binary stream")
	}
	return string(data[read : read+n]), read + n, nil
}

func encBinaryFloat64(f float64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, math.Float64bits(f))
	return b
}

func decBinaryFloat64(data []byte) (float64, int, error) {
	if len(data) < 8 {
		return 0, 0, fmt.Errorf("lexicon: malformed float64 in binary stream")
	}
	return math.Float64frombits(binary.BigEndian.Uint64(data)), 8, nil
}

// encode renders a single lexical item as form, log-weight, feature
// count, then each feature as (kind byte, name string). Feature names are
// stored as text, not interned ids, so the result is self-describing
// independent of any particular Interner; encode is unexported because it
// needs the owning lexicon's interner to resolve names.
func (it *Item) encode(in *feature.Interner) []byte {
	var out []byte
	out = append(out, encBinaryString(it.Form)...)
	out = append(out, encBinaryFloat64(it.LogWeight)...)
	out = append(out, encBinaryInt(len(it.Features))...)
	for _, f := range it.Features {
		out = append(out, byte(f.Kind()))
		out = append(out, encBinaryString(in.Name(f.Name()))...)
	}
	return out
}

func decodeItem(data []byte, in *feature.Interner) (*Item, int, error) {
	var total int

	form, n, err := decBinaryString(data)
	if err != nil {
		return nil, 0, err
	}
	total += n

	logWeight, n, err := decBinaryFloat64(data[total:])
	if err != nil {
		return nil, 0, err
	}
	total += n

	count, n, err := decBinaryInt(data[total:])
	if err != nil {
		return nil, 0, err
	}
	total += n

	feats := make([]feature.Feature, 0, count)
	for i := 0; i < count; i++ {
		if total >= len(data) {
			return nil, 0, fmt.Errorf("lexicon: truncated feature in binary stream")
		}
		kind := feature.Kind(data[total])
		total++

		name, n, err := decBinaryString(data[total:])
		if err != nil {
			return nil, 0, err
		}
		total += n

		id := in.Intern(name)
		feats = append(feats, feature.New(kind, id))
	}

	return &Item{Form: form, Features: feats, LogWeight: logWeight}, total, nil
}

// MarshalBinary encodes the full lexicon: a version byte, item count, and
// each item via encode. Feature names round-trip as text, so the decoded
// lexicon rebuilds its own Interner rather than requiring the original.
func (l *Lexicon) MarshalBinary() ([]byte, error) {
	out := []byte{binaryVersion}
	out = append(out, encBinaryInt(len(l.items))...)
	for _, it := range l.items {
		out = append(out, it.encode(l.interner)...)
	}
	return out, nil
}

// UnmarshalBinary decodes data produced by MarshalBinary, replacing the
// receiver's contents. It rebuilds the interner, token table, and head
// index from the decoded items.
func (l *Lexicon) UnmarshalBinary(data []byte) error {
	if len(data) < 1 {
		return fmt.Errorf("lexicon: empty binary stream")
	}
	if data[0] != binaryVersion {
		return fmt.Errorf("lexicon: unsupported binary version %d", data[0])
	}
	pos := 1

	count, n, err := decBinaryInt(data[pos:])
	if err != nil {
		return err
	}
	pos += n

	interner := feature.NewInterner()
	items := make([]*Item, 0, count)
	for i := 0; i < count; i++ {
		it, n, err := decodeItem(data[pos:], interner)
		if err != nil {
			return err
		}
		pos += n
		items = append(items, it)
	}

	tokens := newTokenTable()
	headIndex := map[feature.Feature][]*Item{}
	for _, it := range items {
		tokens.register(it.Form)
		if len(it.Features) > 0 {
			head := it.Head()
			headIndex[head] = append(headIndex[head], it)
		}
	}

	l.items = items
	l.interner = interner
	l.tokens = tokens
	l.headIndex = headIndex
	return nil
}

// Serialize encodes the lexicon to a byte string via rezi, satisfying the
// "persisted state" contract of the public interface: a lexicon is
// serialisable to and from a byte string, and the round-trip equals the
// original under structural equality.
func (l *Lexicon) Serialize() ([]byte, error) {
	return rezi.EncBinary(l), nil
}

// Deserialize decodes a byte string produced by Serialize into a fresh
// Lexicon.
func Deserialize(data []byte) (*Lexicon, error) {
	l := &Lexicon{}
	if _, err := rezi.DecBinary(data, l); err != nil {
		return nil, err
	}
	return l, nil
}
