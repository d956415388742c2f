package persona_test

import (
	"testing"

	"github.com/salaryrep/backend/internal/model/persona"
)

func TestSeedContainsThreePersonas(t *testing.T) {
	seed := persona.Seed()
	if len(seed) != 3 {
		t.Fatalf("expected 3 personas, got %d", len(seed))
	}

	ids := map[string]bool{}
	for _, p := range seed {
		ids[p.ID] = true
		if p.Behavior == "" {
			t.Fatalf("persona %s has no behavior text", p.ID)
		}
	}
	for _, id := range []string{"friendly-recruiter", "tough-hiring-manager", "hr-budget-holder"} {
		if !ids[id] {
			t.Fatalf("missing persona %s", id)
		}
	}
}

func TestResolveKnownID(t *testing.T) {
	store := persona.NewMemoryStore(persona.Seed())
	p := store.Resolve("hr-budget-holder")
	if p.ID != "hr-budget-holder" {
		t.Fatalf("expected hr-budget-holder, got %s", p.ID)
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	store := persona.NewMemoryStore(persona.Seed())

	for _, id := range []string{"", "unknown", "Friendly-Recruiter"} {
		p := store.Resolve(id)
		if p.ID != persona.DefaultID {
			t.Fatalf("Resolve(%q) = %s, want %s", id, p.ID, persona.DefaultID)
		}
	}
}
