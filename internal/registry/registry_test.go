package registry_test

import (
	"testing"

	"autoapply/internal/registry"
)

func TestLookup_KnownSites(t *testing.T) {
	cases := []struct {
		hostname string
		want     string
	}{
		{"www.linkedin.com", "LinkedIn"},
		{"indeed.com", "Indeed"},
		{"uk.indeed.com", "Indeed"}, // regional subdomain still matches
		{"www.glassdoor.com", "Glassdoor"},
		{"www.naukri.com", "Naukri"},
		{"acme.wd5.myworkdayjobs.com", "Workday"},
		{"angel.co", "AngelList"},
		{"www.monster.com", "Monster"},
		{"www.ziprecruiter.com", "ZipRecruiter"},
		{"WWW.LINKEDIN.COM", "LinkedIn"}, // case-insensitive
	}
	for _, c := range cases {
		site := registry.Lookup(c.hostname)
		if site == nil {
			t.Errorf("Lookup(%q) = nil, want %q", c.hostname, c.want)
			continue
		}
		if site.Name != c.want {
			t.Errorf("Lookup(%q) = %q, want %q", c.hostname, site.Name, c.want)
		}
	}
}

func TestLookup_UnsupportedSite(t *testing.T) {
	for _, hostname := range []string{"example.com", "github.com", ""} {
		if site := registry.Lookup(hostname); site != nil {
			t.Errorf("Lookup(%q) = %q, want nil", hostname, site.Name)
		}
	}
}

func TestLookup_EverySiteHasUsableConfig(t *testing.T) {
	for _, name := range registry.Names() {
		t.Run(name, func(t *testing.T) {
			var found *registry.Site
			for _, hostname := range []string{
				"www.linkedin.com", "www.indeed.com", "www.glassdoor.com",
				"www.naukri.com", "acme.myworkdayjobs.com", "angel.co",
				"www.monster.com", "www.ziprecruiter.com",
			} {
				if s := registry.Lookup(hostname); s != nil && s.Name == name {
					found = s
					break
				}
			}
			if found == nil {
				t.Fatalf("no hostname resolves to site %q", name)
			}
			if len(found.Form.ApplicationSelectors) == 0 {
				t.Errorf("site %q has no application selectors", name)
			}
			for _, field := range []string{"firstName", "lastName", "email", "phone"} {
				if len(found.Form.Selectors[field]) == 0 {
					t.Errorf("site %q has no selectors for %q", name, field)
				}
			}
		})
	}
}

func TestPostingSelectors_CoverAllParts(t *testing.T) {
	for _, part := range []string{"title", "company", "location", "description"} {
		if len(registry.PostingSelectors[part]) == 0 {
			t.Errorf("no posting selectors for %q", part)
		}
	}
}
