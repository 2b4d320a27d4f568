package detect_test

import (
	"testing"

	"autoapply/internal/detect"
	"autoapply/internal/dom"
	"autoapply/internal/domain"
)

func snap(t *testing.T, html string) *dom.Snapshot {
	t.Helper()
	s, err := dom.NewSnapshot(html)
	if err != nil {
		t.Fatalf("NewSnapshot: %v", err)
	}
	return s
}

func TestIsApplicationPage(t *testing.T) {
	cfg := &domain.FormConfig{
		ApplicationSelectors: []string{".jobs-apply-button", "button[aria-label*='Easy Apply']"},
		Selectors: map[string][]string{
			"firstName": {`input[name="firstName"]`},
			"email":     {`input[type="email"]`},
		},
	}

	cases := []struct {
		name string
		html string
		want bool
	}{
		{
			"apply button present",
			`<div><button class="jobs-apply-button">Easy Apply</button></div>`,
			true,
		},
		{
			"form field present without apply button",
			`<form><input name="firstName"></form>`,
			true,
		},
		{
			"second selector of a field matches",
			`<form><input type="email" name="contact"></form>`,
			true,
		},
		{
			"neither present",
			`<div><h1>Job listing</h1><p>Read about the role.</p></div>`,
			false,
		},
		{
			"empty page",
			``,
			false,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := detect.IsApplicationPage(cfg, snap(t, c.html)); got != c.want {
				t.Errorf("IsApplicationPage = %v, want %v", got, c.want)
			}
		})
	}
}

func TestIsApplicationPage_NilInputs(t *testing.T) {
	doc := snap(t, `<button class="jobs-apply-button"></button>`)
	if detect.IsApplicationPage(nil, doc) {
		t.Error("nil config reported as application page")
	}
	cfg := &domain.FormConfig{ApplicationSelectors: []string{"button"}}
	if detect.IsApplicationPage(cfg, nil) {
		t.Error("nil document reported as application page")
	}
}

func TestIsApplicationPage_MalformedSelectorIgnored(t *testing.T) {
	cfg := &domain.FormConfig{
		ApplicationSelectors: []string{`button[aria-label=`, ".apply-now"},
	}
	doc := snap(t, `<button class="apply-now">Apply</button>`)
	if !detect.IsApplicationPage(cfg, doc) {
		t.Error("malformed selector prevented later selector from matching")
	}
}
