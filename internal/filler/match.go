package filler

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"autoapply/internal/dom"
)

// normalize lowercases, trims, and strips combining marks so that accented
// option text still matches plain-ASCII profile values.
func normalize(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// matchOption returns the first option whose display text or underlying
// value contains the target as a case-insensitive substring. Numeric-bucket
// translation (profile "4" against "3-5 years") is intentionally not
// attempted: a value with no textual overlap reports no match and the
// dropdown keeps its prior selection.
func matchOption(opts []dom.Option, value string) (dom.Option, bool) {
	want := normalize(value)
	if want == "" {
		return dom.Option{}, false
	}
	for _, opt := range opts {
		if strings.Contains(normalize(opt.Text), want) || strings.Contains(normalize(opt.Value), want) {
			return opt, true
		}
	}
	return dom.Option{}, false
}

// matchesControl reports whether a checkbox/radio carries the target value:
// either its value attribute equals it, or its associated label text
// contains it, case-insensitive.
func matchesControl(el dom.Element, value string) bool {
	want := normalize(value)
	if want == "" {
		return false
	}
	if normalize(el.Value()) == want {
		return true
	}
	label := normalize(el.LabelText())
	return label != "" && strings.Contains(label, want)
}
