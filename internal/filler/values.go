package filler

import (
	"strconv"
	"strings"

	"autoapply/internal/domain"
)

// FieldValue pairs a logical field name with the profile value to write.
type FieldValue struct {
	Name  string
	Value string
}

// FieldValues flattens a profile into the ordered list of logical fields the
// filler knows about. Empty values are included — the filler skips them so
// that "not applicable" stays distinguishable from "not found". Booleans
// render as yes/no, matching what site dropdowns and radio groups expect.
func FieldValues(p *domain.UserProfile) []FieldValue {
	if p == nil {
		return nil
	}
	pd := p.PersonalDetails
	prof := p.ProfessionalDetails
	wa := p.WorkAuthorization
	ep := p.EmploymentPreferences

	experience := ""
	if prof.ExperienceYears > 0 {
		experience = strconv.Itoa(prof.ExperienceYears)
	}
	salary := ""
	if ep.DesiredSalary.Min > 0 {
		salary = strconv.Itoa(ep.DesiredSalary.Min)
	}

	return []FieldValue{
		{"firstName", pd.FirstName},
		{"lastName", pd.LastName},
		{"email", pd.Email},
		{"phone", pd.Phone},
		{"linkedinUrl", pd.LinkedinURL},
		{"portfolioUrl", pd.PortfolioURL},
		{"city", pd.CurrentAddress.City},
		{"state", pd.CurrentAddress.State},
		{"country", pd.CurrentAddress.Country},
		{"zipCode", pd.CurrentAddress.ZipCode},
		{"currentCompany", prof.CurrentCompany},
		{"currentTitle", prof.CurrentJobTitle},
		{"experience", experience},
		{"skills", strings.Join(prof.Skills, ", ")},
		{"workAuthorization", yesNo(wa.LegallyAuthorized)},
		{"sponsorship", yesNo(wa.RequiresSponsorship)},
		{"noticePeriod", ep.NoticePeriod},
		{"salary", salary},
		{"relocation", yesNo(ep.WillingToRelocate)},
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
