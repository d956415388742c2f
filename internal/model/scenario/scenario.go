package scenario

import (
	"errors"
	"strings"
)

var (
	ErrRoleRequired      = errors.New("role is required")
	ErrSalaryRequired    = errors.New("target salary is required")
	ErrUnknownIndustry   = errors.New("unknown industry")
	ErrUnknownSize       = errors.New("unknown company size")
	ErrUnknownExperience = errors.New("unknown experience level")
)

// Industries lists the closed set of industries offered on the setup form.
var Industries = []string{
	"Technology",
	"Finance & Banking",
	"Healthcare",
	"Consulting",
	"Marketing & Advertising",
	"Education",
	"Manufacturing",
	"Retail & E-commerce",
	"Legal",
	"Other",
}

// CompanySizes lists the closed set of company size brackets.
var CompanySizes = []string{
	"Startup (1-50)",
	"Small (51-200)",
	"Mid-size (201-1,000)",
	"Large (1,001-10,000)",
	"Enterprise (10,000+)",
}

// ExperienceLevels lists the closed set of candidate experience levels.
var ExperienceLevels = []string{
	"Entry-level (0-2 years)",
	"Mid-level (3-5 years)",
	"Senior (6-10 years)",
	"Lead / Principal (10+ years)",
	"Executive / C-Suite",
}

// Descriptor captures the parameters of one practice negotiation. It is
// immutable once a session starts; changing it means starting a new session.
type Descriptor struct {
	Role         string `json:"role"`
	TargetSalary string `json:"targetSalary"`
	Industry     string `json:"industry"`
	CompanySize  string `json:"companySize"`
	Experience   string `json:"experience"`
	Persona      string `json:"persona"`
}

// Validate checks that every field is present and that the enumerated fields
// belong to their closed lists. Persona ids are not checked here: unknown ids
// resolve to the default persona at the registry.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Role) == "" {
		return ErrRoleRequired
	}
	if strings.TrimSpace(d.TargetSalary) == "" {
		return ErrSalaryRequired
	}
	if !contains(Industries, d.Industry) {
		return ErrUnknownIndustry
	}
	if !contains(CompanySizes, d.CompanySize) {
		return ErrUnknownSize
	}
	if !contains(ExperienceLevels, d.Experience) {
		return ErrUnknownExperience
	}
	return nil
}

// NormalizeSalary strips everything but digits and regroups the result with
// comma thousands separators, matching the setup form's salary field. An input
// without digits normalizes to the empty string.
func NormalizeSalary(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	s := strings.TrimLeft(digits.String(), "0")
	if s == "" {
		if digits.Len() > 0 {
			return "0"
		}
		return ""
	}

	var out strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
