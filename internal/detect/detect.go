// Package detect decides whether the current page shows an application form
// for a registered job site.
package detect

import (
	"autoapply/internal/dom"
	"autoapply/internal/domain"
)

// IsApplicationPage reports whether the page currently exposes an apply
// flow: either any apply-entry selector or any mapped form-field selector
// resolves to at least one element. This is a heuristic biased toward
// availability — a false positive just means the fill affordance appears on
// a page where a fill would match zero fields.
func IsApplicationPage(cfg *domain.FormConfig, doc dom.Document) bool {
	if cfg == nil || doc == nil {
		return false
	}
	for _, selector := range cfg.ApplicationSelectors {
		if hasMatch(doc, selector) {
			return true
		}
	}
	for _, selectors := range cfg.Selectors {
		for _, selector := range selectors {
			if hasMatch(doc, selector) {
				return true
			}
		}
	}
	return false
}

func hasMatch(doc dom.Document, selector string) bool {
	els, err := doc.QueryAll(selector)
	return err == nil && len(els) > 0
}
