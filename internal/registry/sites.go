package registry

import "autoapply/internal/domain"

// genericSelectors are the cross-site fallbacks appended after each site's
// own selectors. A site-specific selector always appears earlier in the list
// and therefore wins when both match.
var genericSelectors = map[string][]string{
	"firstName":      {`input[name="firstName"]`, `#firstName`, `input[autocomplete="given-name"]`},
	"lastName":       {`input[name="lastName"]`, `#lastName`, `input[autocomplete="family-name"]`},
	"email":          {`input[name="email"]`, `#email`, `input[type="email"]`},
	"phone":          {`input[name="phone"]`, `#phone`, `input[type="tel"]`},
	"linkedinUrl":    {`input[name="linkedin"]`, `input[name="linkedinUrl"]`},
	"portfolioUrl":   {`input[name="portfolio"]`, `input[name="website"]`},
	"city":           {`input[name="city"]`, `#city`, `input[autocomplete="address-level2"]`},
	"state":          {`input[name="state"]`, `select[name="state"]`},
	"country":        {`select[name="country"]`, `input[name="country"]`},
	"zipCode":        {`input[name="zipCode"]`, `input[name="postalCode"]`, `input[autocomplete="postal-code"]`},
	"currentCompany": {`input[name="currentCompany"]`, `input[name="company"]`},
	"currentTitle":   {`input[name="currentTitle"]`, `input[name="jobTitle"]`},
	"experience":     {`select[name="experience"]`, `input[name="experience"]`, `input[name="yearsOfExperience"]`},
	"skills":         {`textarea[name="skills"]`, `input[name="skills"]`},
	"workAuthorization": {
		`select[name="workAuthorization"]`,
		`input[name="workAuthorization"]`,
		`input[name="legallyAuthorized"]`,
	},
	"sponsorship":  {`select[name="sponsorship"]`, `input[name="sponsorship"]`, `input[name="requiresSponsorship"]`},
	"noticePeriod": {`select[name="noticePeriod"]`, `input[name="noticePeriod"]`},
	"salary":       {`input[name="salary"]`, `input[name="desiredSalary"]`, `input[name="expectedSalary"]`},
	"relocation":   {`select[name="relocation"]`, `input[name="relocation"]`, `input[name="willingToRelocate"]`},
}

// withGenerics builds a field table from a site's own selectors plus the
// generic fallbacks. Fields the site does not override still get the
// generic list so the filler always has something to try.
func withGenerics(own map[string][]string) map[string][]string {
	out := make(map[string][]string, len(genericSelectors))
	for field, generic := range genericSelectors {
		merged := append([]string{}, own[field]...)
		out[field] = append(merged, generic...)
	}
	return out
}

// sites is the closed, updatable registry table. Order matters only for
// overlapping domain substrings, of which there are none today.
var sites = []Site{
	{
		Name:   "LinkedIn",
		Domain: "linkedin.com",
		Form: domain.FormConfig{
			ApplicationSelectors: []string{
				".jobs-apply-button",
				`[data-control-name="jobdetails_topcard_inapply"]`,
				".jobs-s-apply button",
				".jobs-easy-apply-modal",
			},
			Selectors: withGenerics(map[string][]string{
				"firstName": {`input[id*="easyApplyFormElement"][id*="first"]`},
				"lastName":  {`input[id*="easyApplyFormElement"][id*="last"]`},
				"email":     {`input[id*="easyApplyFormElement"][id*="email"]`},
				"phone":     {`input[id*="easyApplyFormElement"][id*="phoneNumber"]`},
			}),
			NextButton:   []string{`[data-easy-apply-next-button]`, `button[aria-label="Continue to next step"]`},
			SubmitButton: []string{`[data-live-test-easy-apply-submit-button]`, `button[aria-label="Submit application"]`},
		},
	},
	{
		Name:   "Indeed",
		Domain: "indeed.com",
		Form: domain.FormConfig{
			ApplicationSelectors: []string{
				"[data-jk] .ia-IndeedApplyButton",
				".jobsearch-IndeedApplyButton",
				".ia-continueButton",
			},
			Selectors: withGenerics(map[string][]string{
				"firstName": {`input[name="applicant.name.first"]`},
				"lastName":  {`input[name="applicant.name.last"]`},
				"email":     {`input[name="applicant.emailAddress"]`},
				"phone":     {`input[name="applicant.phoneNumber"]`},
				"city":      {`input[name="applicant.location.city"]`},
			}),
			NextButton:   []string{".ia-continueButton"},
			SubmitButton: []string{".ia-SubmitButton"},
		},
	},
	{
		Name:   "Glassdoor",
		Domain: "glassdoor.com",
		Form: domain.FormConfig{
			ApplicationSelectors: []string{
				`[data-test="applyButton"]`,
				".applyButton",
				`button[data-test="easyApply"]`,
			},
			Selectors: withGenerics(map[string][]string{
				"firstName": {`input[data-test="firstName"]`},
				"lastName":  {`input[data-test="lastName"]`},
				"email":     {`input[data-test="email"]`},
			}),
			SubmitButton: []string{`button[data-test="submit-application"]`},
		},
	},
	{
		Name:   "Naukri",
		Domain: "naukri.com",
		Form: domain.FormConfig{
			ApplicationSelectors: []string{
				"#apply-button",
				".apply-button",
				".jd-apply-btn",
			},
			Selectors: withGenerics(map[string][]string{
				"phone":        {`input[name="mobile"]`},
				"noticePeriod": {`select[name="noticePeriod"]`, `#noticePeriod`},
				"salary":       {`input[name="expectedCtc"]`},
			}),
			SubmitButton: []string{".submit-btn"},
		},
	},
	{
		Name:   "Workday",
		Domain: "myworkdayjobs.com",
		Form: domain.FormConfig{
			ApplicationSelectors: []string{
				`[data-automation-id="applyButton"]`,
				`[data-automation-id="useMyLastApplication"]`,
				`[data-automation-id="applicationForm"]`,
			},
			Selectors: withGenerics(map[string][]string{
				"firstName":   {`[data-automation-id="legalNameSection_firstName"]`},
				"lastName":    {`[data-automation-id="legalNameSection_lastName"]`},
				"email":       {`[data-automation-id="email"]`},
				"phone":       {`[data-automation-id="phone-number"]`},
				"city":        {`[data-automation-id="addressSection_city"]`},
				"state":       {`[data-automation-id="addressSection_countryRegion"]`},
				"zipCode":     {`[data-automation-id="addressSection_postalCode"]`},
				"sponsorship": {`[data-automation-id="sponsorship"]`},
			}),
			NextButton:         []string{`[data-automation-id="bottom-navigation-next-button"]`},
			SubmitButton:       []string{`[data-automation-id="bottom-navigation-submit-button"]`},
			SkipOptionalFields: true,
		},
	},
	{
		Name:   "AngelList",
		Domain: "angel.co",
		Form: domain.FormConfig{
			ApplicationSelectors: []string{
				`[data-test="JobApplicationButton"]`,
				".apply-button",
			},
			Selectors: withGenerics(nil),
		},
	},
	{
		Name:   "Monster",
		Domain: "monster.com",
		Form: domain.FormConfig{
			ApplicationSelectors: []string{
				`[data-testid="apply-button"]`,
				".apply-button",
			},
			Selectors: withGenerics(map[string][]string{
				"firstName": {`input[name="candidate.firstName"]`},
				"lastName":  {`input[name="candidate.lastName"]`},
				"email":     {`input[name="candidate.email"]`},
			}),
		},
	},
	{
		Name:   "ZipRecruiter",
		Domain: "ziprecruiter.com",
		Form: domain.FormConfig{
			ApplicationSelectors: []string{
				".job_apply",
				`button[aria-label="1-Click Apply"]`,
			},
			Selectors: withGenerics(map[string][]string{
				"email": {`input[name="contact.email"]`},
				"phone": {`input[name="contact.phone"]`},
			}),
		},
	},
}

// PostingSelectors are the ordered fallback lists used to extract a job
// posting's identity from the page. They span all sites, most specific
// first, ending in generic fallbacks.
var PostingSelectors = map[string][]string{
	"title": {
		`h1[data-automation-id="jobPostingHeader"]`, // Workday
		".jobs-unified-top-card__job-title",         // LinkedIn
		`[data-testid="jobsearch-JobInfoHeader-title"]`,
		".jobsearch-JobInfoHeader-title", // Indeed
		"h1.jobTitle",                    // Glassdoor
		".jd-header-title",               // Naukri
		"h1", "h2",
	},
	"company": {
		`[data-automation-id="jobPostingCompanyName"]`,
		".jobs-unified-top-card__company-name",
		`[data-testid="inlineHeader-companyName"]`,
		".jobsearch-InlineCompanyRating",
		`[data-test="employer-name"]`,
		".jd-header-comp-name",
		".company-name", ".employer-name",
	},
	"location": {
		`[data-automation-id="jobPostingLocation"]`,
		".jobs-unified-top-card__bullet",
		`[data-testid="job-location"]`,
		".jobsearch-JobInfoHeader-subtitle",
		`[data-test="job-location"]`,
		".jd-header-comp-loc",
		".location", ".job-location",
	},
	"description": {
		`[data-automation-id="jobPostingDescription"]`,
		".jobs-description-content__text",
		"#jobDescriptionText",
		".jobsearch-jobDescriptionText",
		".jobDescriptionContent",
		".jd-desc",
		".job-description", ".description",
	},
}
