package domain

import "time"

// Address is the mailing-address part of the personal details.
type Address struct {
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Country string `json:"country,omitempty"`
	ZipCode string `json:"zipCode,omitempty"`
}

// PersonalDetails holds name and contact information.
type PersonalDetails struct {
	FirstName      string  `json:"firstName,omitempty"`
	LastName       string  `json:"lastName,omitempty"`
	Email          string  `json:"email,omitempty"`
	Phone          string  `json:"phone,omitempty"`
	CurrentAddress Address `json:"currentAddress,omitempty"`
	LinkedinURL    string  `json:"linkedinUrl,omitempty"`
	PortfolioURL   string  `json:"portfolioUrl,omitempty"`
	GithubURL      string  `json:"githubUrl,omitempty"`
}

// ProfessionalDetails holds current-employment information.
type ProfessionalDetails struct {
	CurrentCompany  string   `json:"currentCompany,omitempty"`
	CurrentJobTitle string   `json:"currentJobTitle,omitempty"`
	ExperienceYears int      `json:"experienceYears,omitempty"`
	Skills          []string `json:"skills,omitempty"`
}

// WorkAuthorization holds eligibility answers commonly asked on applications.
type WorkAuthorization struct {
	LegallyAuthorized   bool `json:"legallyAuthorized"`
	RequiresSponsorship bool `json:"requiresSponsorship"`
}

// SalaryRange is the desired compensation band.
type SalaryRange struct {
	Min      int    `json:"min,omitempty"`
	Max      int    `json:"max,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// EmploymentPreferences holds availability and compensation preferences.
type EmploymentPreferences struct {
	NoticePeriod      string      `json:"noticePeriod,omitempty"`
	DesiredSalary     SalaryRange `json:"desiredSalary,omitempty"`
	WillingToRelocate bool        `json:"willingToRelocate"`
}

// UserProfile is the stored applicant profile. Every leaf is optional; the
// filler skips empty values rather than failing on them. The coordinator is
// the sole owner — page sessions receive a copy per fill and never cache it.
type UserProfile struct {
	PersonalDetails       PersonalDetails       `json:"personalDetails,omitempty"`
	ProfessionalDetails   ProfessionalDetails   `json:"professionalDetails,omitempty"`
	WorkAuthorization     WorkAuthorization     `json:"workAuthorization,omitempty"`
	EmploymentPreferences EmploymentPreferences `json:"employmentPreferences,omitempty"`
}

// IsZero reports whether no fillable value is present anywhere in the
// profile. A zero profile disables all fill affordances. Bare booleans do
// not count: they always render an answer and carry no signal that the user
// ever entered anything.
func (p *UserProfile) IsZero() bool {
	if p == nil {
		return true
	}
	pd := p.PersonalDetails
	prof := p.ProfessionalDetails
	ep := p.EmploymentPreferences
	for _, v := range []string{
		pd.FirstName, pd.LastName, pd.Email, pd.Phone,
		pd.LinkedinURL, pd.PortfolioURL, pd.GithubURL,
		pd.CurrentAddress.City, pd.CurrentAddress.State,
		pd.CurrentAddress.Country, pd.CurrentAddress.ZipCode,
		prof.CurrentCompany, prof.CurrentJobTitle,
		ep.NoticePeriod,
	} {
		if v != "" {
			return false
		}
	}
	return prof.ExperienceYears == 0 && len(prof.Skills) == 0 && ep.DesiredSalary.Min == 0
}

// FormConfig is one site's static field-mapping table. Selector lists are
// tried in declared order; the first selector that resolves to at least one
// element wins.
type FormConfig struct {
	// Selectors maps a logical field name to its ordered selector list.
	Selectors map[string][]string `json:"selectors"`
	// ApplicationSelectors signal that an apply flow is present on the page.
	ApplicationSelectors []string `json:"applicationSelectors"`
	NextButton           []string `json:"nextButton,omitempty"`
	SubmitButton         []string `json:"submitButton,omitempty"`
	SkipButton           []string `json:"skipButton,omitempty"`
	SkipOptionalFields   bool     `json:"skipOptionalFields,omitempty"`
}

// FieldResult is the outcome of filling one logical field.
type FieldResult struct {
	Field    string `json:"field"`
	Matched  bool   `json:"matched"`
	Applied  bool   `json:"applied"`
	Kind     string `json:"kind,omitempty"`
	Selector string `json:"selector,omitempty"`
}

// FillResult summarizes a single fill invocation. Fields with empty profile
// values are not recorded at all — absence here means "not applicable",
// Matched=false means "looked and did not find".
type FillResult struct {
	Fields  []FieldResult `json:"fields"`
	Filled  int           `json:"filled"`
	Missed  int           `json:"missed"`
	Skipped int           `json:"skipped"`
}

// JobPosting is the job identity extracted from a posting page.
type JobPosting struct {
	Title       string `json:"title"`
	Company     string `json:"company"`
	Location    string `json:"location"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url"`
	Source      string `json:"source"`
}

// ApplicationRecord is a tracked application, created on save-application.
type ApplicationRecord struct {
	JobPosting
	Status    string    `json:"status"`
	AppliedAt time.Time `json:"appliedAt"`
}

// StatusApplied is the initial status of every recorded application.
const StatusApplied = "applied"

// Settings is the persisted coordinator settings record, including the
// daily-quota state. LastResetDate is a calendar-date string; the rollover
// compares date strings, not elapsed time.
type Settings struct {
	AutoApplyEnabled      bool   `json:"autoApplyEnabled"`
	DailyApplicationLimit int    `json:"dailyApplicationLimit"`
	ApplicationsToday     int    `json:"applicationsToday"`
	LastResetDate         string `json:"lastResetDate"`
}

// SettingsPatch is a partial settings update; nil fields are left unchanged.
type SettingsPatch struct {
	AutoApplyEnabled      *bool `json:"autoApplyEnabled,omitempty"`
	DailyApplicationLimit *int  `json:"dailyApplicationLimit,omitempty"`
}

// Apply merges the patch into s.
func (p SettingsPatch) Apply(s *Settings) {
	if p.AutoApplyEnabled != nil {
		s.AutoApplyEnabled = *p.AutoApplyEnabled
	}
	if p.DailyApplicationLimit != nil {
		s.DailyApplicationLimit = *p.DailyApplicationLimit
	}
}
