package filler

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestExtractPosting_SiteSpecificSelectors(t *testing.T) {
	doc := snap(t, `<html><body>
		<h1 data-automation-id="jobPostingHeader">Senior Go Engineer</h1>
		<div data-automation-id="jobPostingCompanyName">Acme Corp</div>
		<div data-automation-id="jobPostingLocation">Remote, US</div>
		<div data-automation-id="jobPostingDescription">Build crawlers all day.</div>
	</body></html>`)

	p := ExtractPosting(doc, "https://acme.myworkdayjobs.com/job/1", "Workday")
	if p.Title != "Senior Go Engineer" {
		t.Errorf("title = %q", p.Title)
	}
	if p.Company != "Acme Corp" {
		t.Errorf("company = %q", p.Company)
	}
	if p.Location != "Remote, US" {
		t.Errorf("location = %q", p.Location)
	}
	if p.Description != "Build crawlers all day." {
		t.Errorf("description = %q", p.Description)
	}
	if p.URL != "https://acme.myworkdayjobs.com/job/1" || p.Source != "Workday" {
		t.Errorf("url/source = %q/%q", p.URL, p.Source)
	}
}

func TestExtractPosting_GenericHeadingFallback(t *testing.T) {
	doc := snap(t, `<html><body><h1>Staff Engineer</h1></body></html>`)
	p := ExtractPosting(doc, "https://example.org/job", "Other")
	if p.Title != "Staff Engineer" {
		t.Errorf("title = %q, want the h1 text", p.Title)
	}
}

func TestExtractPosting_Placeholders(t *testing.T) {
	doc := snap(t, `<html><head><title>Careers at Initech</title></head><body><div>nothing useful</div></body></html>`)
	p := ExtractPosting(doc, "https://example.org/job", "Other")

	// No heading on the page: the document title is the last resort before
	// the fixed placeholder.
	if p.Title != "Careers at Initech" {
		t.Errorf("title = %q, want the page title", p.Title)
	}
	if p.Company != "Unknown Company" {
		t.Errorf("company = %q", p.Company)
	}
	if p.Location != "Location not specified" {
		t.Errorf("location = %q", p.Location)
	}
	if p.Description != "Job description not available" {
		t.Errorf("description = %q", p.Description)
	}
}

func TestExtractPosting_DescriptionTruncated(t *testing.T) {
	long := strings.Repeat("go ", 600) // well past the cap
	doc := snap(t, `<html><body>
		<div data-automation-id="jobPostingDescription">`+long+`</div>
	</body></html>`)

	p := ExtractPosting(doc, "https://example.org/job", "Other")
	if len(p.Description) != maxDescriptionLen {
		t.Errorf("description length = %d, want %d", len(p.Description), maxDescriptionLen)
	}
}

func TestExtractPosting_TruncationKeepsRunesWhole(t *testing.T) {
	// The leading ASCII byte puts every two-byte rune off-phase with the
	// cap, so a plain byte-index slice would cut one in half.
	long := "x" + strings.Repeat("é", maxDescriptionLen)
	doc := snap(t, `<html><body>
		<div data-automation-id="jobPostingDescription">`+long+`</div>
	</body></html>`)

	p := ExtractPosting(doc, "https://example.org/job", "Other")
	if len(p.Description) > maxDescriptionLen {
		t.Errorf("description length = %d, want at most %d", len(p.Description), maxDescriptionLen)
	}
	if !utf8.ValidString(p.Description) {
		t.Error("truncation produced invalid UTF-8")
	}
	if !strings.HasSuffix(p.Description, "é") {
		t.Errorf("description ends mid-rune: %q", p.Description[len(p.Description)-4:])
	}
}
