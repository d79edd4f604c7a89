package festival

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Transformer chains are stateful, so each caller takes its own from the pool.
var foldPool = sync.Pool{
	New: func() any {
		return transform.Chain(
			norm.NFKD,
			runes.Remove(runes.In(unicode.Mn)), // Śukla -> Sukla
			cases.Fold(),
			norm.NFC,
		)
	},
}

// fold lower-cases s with Unicode case folding and strips diacritics.
func fold(s string) string {
	if s == "" {
		return ""
	}
	tr := foldPool.Get().(transform.Transformer)
	out, _, err := transform.String(tr, s)
	tr.Reset()
	foldPool.Put(tr)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

// foldName folds an element name and joins its words with underscores, so
// "Purva Phalguni" and "purva_phalguni" compare equal.
func foldName(s string) string {
	return strings.Join(strings.FieldsFunc(fold(s), func(r rune) bool {
		return unicode.IsSpace(r) || r == '_' || r == '-'
	}), "_")
}
