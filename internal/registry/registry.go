package registry

import (
	"strings"

	"autoapply/internal/domain"
)

// Site is one row of the job-site table: an identifier, the domain substring
// that selects it, and the site's form-mapping configuration. Adding support
// for a new site means appending a row to sites.go, not writing code.
type Site struct {
	Name   string
	Domain string
	Form   domain.FormConfig
}

// Lookup finds the site whose registered domain is a substring of hostname.
// The substring rule deliberately tolerates regional subdomains such as
// uk.indeed.com; it can false-positive on unrelated hosts that embed the
// same substring, which matches the behavior the selector tables were built
// against. Returns nil for an unsupported site — callers must treat nil as
// "disable all fill UI", not as an error.
func Lookup(hostname string) *Site {
	host := strings.ToLower(hostname)
	for i := range sites {
		if strings.Contains(host, sites[i].Domain) {
			return &sites[i]
		}
	}
	return nil
}

// Names returns the identifiers of all registered sites.
func Names() []string {
	out := make([]string, len(sites))
	for i := range sites {
		out[i] = sites[i].Name
	}
	return out
}
