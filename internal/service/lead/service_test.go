package lead_test

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/salaryrep/backend/internal/gate"
	"github.com/salaryrep/backend/internal/service/lead"
)

type recordingStore struct {
	calls int
	name  string
	email string
	err   error
}

func (s *recordingStore) UpsertLead(_ context.Context, name, email string) error {
	s.calls++
	s.name = name
	s.email = email
	return s.err
}

func newLeadService(store lead.Store) (*lead.Service, *gate.Gate) {
	g := gate.New(gate.NewMemoryKV(), gate.DefaultFreeSessionLimit)
	return lead.NewService(store, g, zap.NewNop()), g
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, inEmail string
		wantName    string
		wantEmail   string
		wantErr     error
	}{
		{"Alex", "alex@example.com", "Alex", "alex@example.com", nil},
		{"  Alex  ", " A@B.COM ", "Alex", "a@b.com", nil},
		{"", "alex@example.com", "", "", lead.ErrNameRequired},
		{"   ", "alex@example.com", "", "", lead.ErrNameRequired},
		{"Alex", "", "", "", lead.ErrEmailInvalid},
		{"Alex", "not-an-email", "", "", lead.ErrEmailInvalid},
	}
	for _, tt := range tests {
		name, email, err := lead.Normalize(tt.in, tt.inEmail)
		if !errors.Is(err, tt.wantErr) {
			t.Fatalf("Normalize(%q, %q) err = %v, want %v", tt.in, tt.inEmail, err, tt.wantErr)
		}
		if name != tt.wantName || email != tt.wantEmail {
			t.Fatalf("Normalize(%q, %q) = (%q, %q), want (%q, %q)",
				tt.in, tt.inEmail, name, email, tt.wantName, tt.wantEmail)
		}
	}
}

func TestCaptureRejectsBeforeAnyStoreCall(t *testing.T) {
	store := &recordingStore{}
	svc, g := newLeadService(store)

	if err := svc.Capture(context.Background(), "", "a@b.com"); !errors.Is(err, lead.ErrNameRequired) {
		t.Fatalf("err = %v, want ErrNameRequired", err)
	}
	if err := svc.Capture(context.Background(), "Alex", "not-an-email"); !errors.Is(err, lead.ErrEmailInvalid) {
		t.Fatalf("err = %v, want ErrEmailInvalid", err)
	}
	if store.calls != 0 {
		t.Fatalf("store called %d times on invalid input, want 0", store.calls)
	}
	if g.State().ContactCaptured {
		t.Fatal("gate must stay locked after rejected capture")
	}
}

func TestCaptureNormalizesAndPersists(t *testing.T) {
	store := &recordingStore{}
	svc, g := newLeadService(store)

	if err := svc.Capture(context.Background(), "  Alex  ", "A@B.COM"); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if store.calls != 1 || store.name != "Alex" || store.email != "a@b.com" {
		t.Fatalf("store got (%q, %q) in %d calls", store.name, store.email, store.calls)
	}

	state := g.State()
	if !state.ContactCaptured || state.Email != "a@b.com" || state.Name != "Alex" {
		t.Fatalf("gate state after capture: %+v", state)
	}
}

func TestCaptureSwallowsStoreFailure(t *testing.T) {
	store := &recordingStore{err: errors.New("disk full")}
	svc, g := newLeadService(store)

	if err := svc.Capture(context.Background(), "Alex", "alex@example.com"); err != nil {
		t.Fatalf("store failure must not surface, got %v", err)
	}
	if !g.State().ContactCaptured {
		t.Fatal("gate must unlock even when the upsert fails")
	}
}

func TestCaptureWithoutStore(t *testing.T) {
	svc, g := newLeadService(nil)

	if err := svc.Capture(context.Background(), "Alex", "alex@example.com"); err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if !g.State().ContactCaptured {
		t.Fatal("gate must unlock without a backing store")
	}
}
