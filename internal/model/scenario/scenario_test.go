package scenario_test

import (
	"testing"

	"github.com/salaryrep/backend/internal/model/scenario"
)

func validDescriptor() scenario.Descriptor {
	return scenario.Descriptor{
		Role:         "Senior Software Engineer",
		TargetSalary: "150,000",
		Industry:     "Technology",
		CompanySize:  "Startup (1-50)",
		Experience:   "Senior (6-10 years)",
		Persona:      "tough-hiring-manager",
	}
}

func TestValidateAccepted(t *testing.T) {
	if err := validDescriptor().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateMissingFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*scenario.Descriptor)
		want   error
	}{
		{"blank role", func(d *scenario.Descriptor) { d.Role = "   " }, scenario.ErrRoleRequired},
		{"empty salary", func(d *scenario.Descriptor) { d.TargetSalary = "" }, scenario.ErrSalaryRequired},
		{"unknown industry", func(d *scenario.Descriptor) { d.Industry = "Aerospace" }, scenario.ErrUnknownIndustry},
		{"unknown size", func(d *scenario.Descriptor) { d.CompanySize = "Tiny" }, scenario.ErrUnknownSize},
		{"unknown experience", func(d *scenario.Descriptor) { d.Experience = "Intern" }, scenario.ErrUnknownExperience},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := validDescriptor()
			tc.mutate(&d)
			if err := d.Validate(); err != tc.want {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestValidateUnknownPersonaAllowed(t *testing.T) {
	d := validDescriptor()
	d.Persona = "made-up-persona"
	if err := d.Validate(); err != nil {
		t.Fatalf("unknown persona should validate (falls back at registry): %v", err)
	}
}

func TestNormalizeSalary(t *testing.T) {
	cases := []struct{ in, want string }{
		{"150000", "150,000"},
		{"$150,000", "150,000"},
		{"1200", "1,200"},
		{"999", "999"},
		{"1000000", "1,000,000"},
		{"abc", ""},
		{"", ""},
		{"000", "0"},
	}

	for _, tc := range cases {
		if got := scenario.NormalizeSalary(tc.in); got != tc.want {
			t.Fatalf("NormalizeSalary(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
