package gate

import (
	"errors"
	"fmt"
	"testing"
)

func TestNewClampsLimit(t *testing.T) {
	if got := New(NewMemoryKV(), 0).limit; got != DefaultFreeSessionLimit {
		t.Fatalf("limit = %d, want %d", got, DefaultFreeSessionLimit)
	}
	if got := New(NewMemoryKV(), 5).limit; got != 5 {
		t.Fatalf("limit = %d, want 5", got)
	}
}

func TestStateDefaults(t *testing.T) {
	g := New(NewMemoryKV(), 3)

	state := g.State()
	if state.ContactCaptured {
		t.Fatal("fresh gate must not report a captured contact")
	}
	if state.SessionsCompleted != 0 {
		t.Fatalf("SessionsCompleted = %d, want 0", state.SessionsCompleted)
	}
	if state.FreeSessionLimit != 3 {
		t.Fatalf("FreeSessionLimit = %d, want 3", state.FreeSessionLimit)
	}
}

func TestCaptureContact(t *testing.T) {
	g := New(NewMemoryKV(), 3)

	if err := g.CaptureContact("", "a@b.com"); !errors.Is(err, ErrContactRequired) {
		t.Fatalf("err = %v, want ErrContactRequired", err)
	}
	if err := g.CaptureContact("Alex", ""); !errors.Is(err, ErrContactRequired) {
		t.Fatalf("err = %v, want ErrContactRequired", err)
	}

	if err := g.CaptureContact("Alex", "alex@example.com"); err != nil {
		t.Fatalf("CaptureContact: %v", err)
	}
	state := g.State()
	if !state.ContactCaptured || state.Name != "Alex" || state.Email != "alex@example.com" {
		t.Fatalf("state after capture: %+v", state)
	}
}

func TestRecordCompletionIsIdempotentPerSession(t *testing.T) {
	g := New(NewMemoryKV(), 3)

	for i := 0; i < 4; i++ {
		if err := g.RecordCompletion("session-1"); err != nil {
			t.Fatalf("RecordCompletion: %v", err)
		}
	}
	if got := g.State().SessionsCompleted; got != 1 {
		t.Fatalf("SessionsCompleted = %d, want 1 after repeated recording", got)
	}

	if err := g.RecordCompletion("session-2"); err != nil {
		t.Fatalf("RecordCompletion: %v", err)
	}
	if got := g.State().SessionsCompleted; got != 2 {
		t.Fatalf("SessionsCompleted = %d, want 2", got)
	}
}

func TestAtLimit(t *testing.T) {
	g := New(NewMemoryKV(), 3)

	for i := 0; i < 3; i++ {
		if g.AtLimit() {
			t.Fatalf("at limit after %d completions, limit 3", i)
		}
		if err := g.RecordCompletion(fmt.Sprintf("session-%d", i)); err != nil {
			t.Fatalf("RecordCompletion: %v", err)
		}
	}
	if !g.AtLimit() {
		t.Fatal("expected gate at limit after 3 completions")
	}
}

func TestCounterSurvivesGateRestart(t *testing.T) {
	kv := NewMemoryKV()
	g := New(kv, 3)
	if err := g.RecordCompletion("session-1"); err != nil {
		t.Fatalf("RecordCompletion: %v", err)
	}

	// A new gate over the same KV sees the persisted counter.
	reopened := New(kv, 3)
	if got := reopened.State().SessionsCompleted; got != 1 {
		t.Fatalf("SessionsCompleted = %d, want 1 after reopen", got)
	}
}

func TestCorruptCounterReadsAsZero(t *testing.T) {
	kv := NewMemoryKV()
	if err := kv.Set(keySessions, "three"); err != nil {
		t.Fatal(err)
	}
	g := New(kv, 3)
	if got := g.State().SessionsCompleted; got != 0 {
		t.Fatalf("SessionsCompleted = %d, want 0 for unparsable counter", got)
	}

	if err := kv.Set(keySessions, "-2"); err != nil {
		t.Fatal(err)
	}
	if got := g.State().SessionsCompleted; got != 0 {
		t.Fatalf("SessionsCompleted = %d, want 0 for negative counter", got)
	}
}
