package filler

import (
	"unicode/utf8"

	"autoapply/internal/dom"
	"autoapply/internal/domain"
	"autoapply/internal/registry"
)

const maxDescriptionLen = 1000

// ExtractPosting pulls the job identity off the current page using the same
// ordered-selector-fallback walk as the filler: first selector with
// non-empty text wins. Missing pieces fall back to the page title or to
// fixed placeholders so a record can always be built.
func ExtractPosting(doc dom.Document, pageURL, source string) domain.JobPosting {
	posting := domain.JobPosting{
		URL:         pageURL,
		Source:      source,
		Title:       firstText(doc, registry.PostingSelectors["title"]),
		Company:     firstText(doc, registry.PostingSelectors["company"]),
		Location:    firstText(doc, registry.PostingSelectors["location"]),
		Description: firstText(doc, registry.PostingSelectors["description"]),
	}

	if posting.Title == "" {
		posting.Title = firstText(doc, []string{"title"})
	}
	if posting.Title == "" {
		posting.Title = "Unknown Job Title"
	}
	if posting.Company == "" {
		posting.Company = "Unknown Company"
	}
	if posting.Location == "" {
		posting.Location = "Location not specified"
	}
	if posting.Description == "" {
		posting.Description = "Job description not available"
	}
	if len(posting.Description) > maxDescriptionLen {
		cut := maxDescriptionLen
		// Back up to a rune boundary so the cap never splits a multi-byte
		// character.
		for cut > 0 && !utf8.RuneStart(posting.Description[cut]) {
			cut--
		}
		posting.Description = posting.Description[:cut]
	}
	return posting
}

func firstText(doc dom.Document, selectors []string) string {
	for _, selector := range selectors {
		els, err := doc.QueryAll(selector)
		if err != nil || len(els) == 0 {
			continue
		}
		if text := els[0].Text(); text != "" {
			return text
		}
	}
	return ""
}
