package ai_test

import (
	"strings"
	"testing"
	"time"

	"github.com/salaryrep/backend/internal/model/negotiation"
	"github.com/salaryrep/backend/internal/model/persona"
	"github.com/salaryrep/backend/internal/model/scenario"
	"github.com/salaryrep/backend/internal/service/ai"
)

func testScenario() scenario.Descriptor {
	return scenario.Descriptor{
		Role:         "Senior Software Engineer",
		TargetSalary: "150,000",
		Industry:     "Technology",
		CompanySize:  "Startup (1-50)",
		Experience:   "Senior (6-10 years)",
		Persona:      "tough-hiring-manager",
	}
}

func TestBuildSystemPromptDeterministic(t *testing.T) {
	store := persona.NewMemoryStore(persona.Seed())
	sc := testScenario()
	p := store.Resolve(sc.Persona)

	first := ai.BuildSystemPrompt(sc, p)
	second := ai.BuildSystemPrompt(sc, p)
	if first != second {
		t.Fatal("BuildSystemPrompt is not deterministic")
	}
}

func TestBuildSystemPromptEmbedsScenarioAndPersona(t *testing.T) {
	store := persona.NewMemoryStore(persona.Seed())
	sc := testScenario()
	p := store.Resolve(sc.Persona)

	prompt := ai.BuildSystemPrompt(sc, p)

	for _, want := range []string{
		"Senior Software Engineer",
		"Technology",
		"Startup (1-50)",
		"Senior (6-10 years)",
		"$150,000",
		"10-20% below the candidate's target salary",
		"Stay in character at all times",
		"no-nonsense hiring manager",
	} {
		if !strings.Contains(prompt, want) {
			t.Fatalf("prompt missing %q", want)
		}
	}
}

func TestBuildSystemPromptUnknownPersonaUsesDefaultBehavior(t *testing.T) {
	store := persona.NewMemoryStore(persona.Seed())
	sc := testScenario()
	sc.Persona = "made-up"

	prompt := ai.BuildSystemPrompt(sc, store.Resolve(sc.Persona))
	if !strings.Contains(prompt, "friendly, warm recruiter") {
		t.Fatal("expected default persona behavior in prompt")
	}
}

func TestBuildFeedbackPromptLabelsTurnsInOrder(t *testing.T) {
	sc := testScenario()
	now := time.Now().UTC()
	transcript := []negotiation.Turn{
		{Role: negotiation.RoleCandidate, Text: "Hi, I'm excited about the role.", CreatedAt: now},
		{Role: negotiation.RoleCounterpart, Text: "We're excited to offer you $125,000.", CreatedAt: now},
		{Role: negotiation.RoleCandidate, Text: "My number is $150,000.", CreatedAt: now},
	}

	prompt := ai.BuildFeedbackPrompt(sc, transcript)

	first := strings.Index(prompt, "CANDIDATE: Hi, I'm excited about the role.")
	second := strings.Index(prompt, "COUNTERPART: We're excited to offer you $125,000.")
	third := strings.Index(prompt, "CANDIDATE: My number is $150,000.")
	if first == -1 || second == -1 || third == -1 {
		t.Fatalf("prompt missing labeled turns:\n%s", prompt)
	}
	if !(first < second && second < third) {
		t.Fatal("transcript lines out of order")
	}

	if !strings.Contains(prompt, "Negotiation Persona: tough-hiring-manager") {
		t.Fatal("prompt missing persona field")
	}
	if !strings.Contains(prompt, `"overallScore"`) {
		t.Fatal("prompt missing response format section")
	}
}
