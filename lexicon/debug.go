package lexicon

import (
	"github.com/dekarrin/rosed"

	"github.com/arashi-lang/mg/feature"
)

// DebugTable renders the lexicon's entries as a human-readable table, one
// row per item, columns form/features/log-weight. It is meant for
// grammar troubleshooting, not machine consumption.
func (l *Lexicon) DebugTable() string {
	data := make([][]interface{}, 0, len(l.items)+1)
	data = append(data, []interface{}{"form", "features", "log-weight"})
	for _, it := range l.items {
		data = append(data, []interface{}{
			it.Form,
			feature.FormatAll(l.interner, it.Features),
			it.LogWeight,
		})
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, 10, rosed.Options{
			TableHeaders:             true,
			NoTrailingLineSeparators: true,
		}).
		String()
}
