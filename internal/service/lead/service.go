package lead

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/salaryrep/backend/internal/gate"
)

var (
	ErrNameRequired = errors.New("name is required")
	ErrEmailInvalid = errors.New("a valid email is required")
)

// Store persists captured leads. The upsert is idempotent and keyed by email:
// re-submitting the same email overwrites the stored name.
type Store interface {
	UpsertLead(ctx context.Context, name, email string) error
}

// Service validates and captures leads. Capture unlocks the free tier locally
// before the remote upsert; a failing upsert is logged and swallowed, so a
// storage outage never blocks the user.
type Service struct {
	store  Store
	gate   *gate.Gate
	logger *zap.Logger
}

// NewService wires the lead boundary.
func NewService(store Store, g *gate.Gate, logger *zap.Logger) *Service {
	return &Service{store: store, gate: g, logger: logger}
}

// Normalize validates and canonicalizes a lead: trimmed non-empty name,
// email containing "@" lower-cased. Rejections happen before any store call.
func Normalize(name, email string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", ErrNameRequired
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return "", "", ErrEmailInvalid
	}

	return name, email, nil
}

// Capture validates the lead, marks the gate's contact as captured, and
// upserts the lead best-effort.
func (s *Service) Capture(ctx context.Context, name, email string) error {
	name, email, err := Normalize(name, email)
	if err != nil {
		return err
	}

	if err := s.gate.CaptureContact(name, email); err != nil {
		return err
	}

	if s.store == nil {
		return nil
	}
	if err := s.store.UpsertLead(ctx, name, email); err != nil {
		// Best-effort policy: the local capture already unlocked the free
		// tier, so the remote failure is not surfaced to the user.
		s.logger.Warn("lead upsert failed",
			zap.String("email", email),
			zap.Error(err))
	}
	return nil
}
