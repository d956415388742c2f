package gate

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
)

// Persisted keys. The session counter is stored as a base-10 integer string,
// defaulting to "0" when absent.
const (
	keyEmail    = "lead.email"
	keyName     = "lead.name"
	keySessions = "sessions.completed"
)

// DefaultFreeSessionLimit is the number of completed sessions included in the
// free tier.
const DefaultFreeSessionLimit = 3

var ErrContactRequired = errors.New("contact name and email are required")

// State is a read-only snapshot of the gate.
type State struct {
	ContactCaptured   bool   `json:"contactCaptured"`
	Name              string `json:"name,omitempty"`
	Email             string `json:"email,omitempty"`
	SessionsCompleted int    `json:"sessionsCompleted"`
	FreeSessionLimit  int    `json:"freeSessionLimit"`
}

// Gate tracks whether a contact has been captured and how many sessions have
// completed, reading and writing through an injected KV store. Reads and
// read-modify-writes are serialized by the gate's own mutex.
type Gate struct {
	mu      sync.Mutex
	kv      KV
	limit   int
	counted map[string]bool // session ids already recorded
}

// New builds a Gate over the supplied KV. limit values below 1 fall back to
// DefaultFreeSessionLimit.
func New(kv KV, limit int) *Gate {
	if limit < 1 {
		limit = DefaultFreeSessionLimit
	}
	return &Gate{kv: kv, limit: limit, counted: make(map[string]bool)}
}

// State reads the current gate snapshot.
func (g *Gate) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stateLocked()
}

// CaptureContact stores the lead identity and flips contactCaptured. The name
// and email must already be validated; empty values are rejected.
func (g *Gate) CaptureContact(name, email string) error {
	if name == "" || email == "" {
		return ErrContactRequired
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.kv.Set(keyName, name); err != nil {
		return fmt.Errorf("persist contact name: %w", err)
	}
	if err := g.kv.Set(keyEmail, email); err != nil {
		return fmt.Errorf("persist contact email: %w", err)
	}
	return nil
}

// RecordCompletion increments the completed-session counter exactly once for
// the given session. Recording the same session again is a no-op, so a
// feedback view reached twice never double-counts.
func (g *Gate) RecordCompletion(sessionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.counted[sessionID] {
		return nil
	}

	completed := g.sessionsCompletedLocked() + 1
	if err := g.kv.Set(keySessions, strconv.Itoa(completed)); err != nil {
		return fmt.Errorf("persist session counter: %w", err)
	}
	g.counted[sessionID] = true
	return nil
}

// AtLimit reports whether the free tier is exhausted.
func (g *Gate) AtLimit() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sessionsCompletedLocked() >= g.limit
}

func (g *Gate) stateLocked() State {
	email, _ := g.kv.Get(keyEmail)
	name, _ := g.kv.Get(keyName)
	return State{
		ContactCaptured:   email != "",
		Name:              name,
		Email:             email,
		SessionsCompleted: g.sessionsCompletedLocked(),
		FreeSessionLimit:  g.limit,
	}
}

func (g *Gate) sessionsCompletedLocked() int {
	raw, ok := g.kv.Get(keySessions)
	if !ok {
		return 0
	}
	completed, err := strconv.Atoi(raw)
	if err != nil || completed < 0 {
		return 0
	}
	return completed
}
