package negotiation

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/salaryrep/backend/internal/model/negotiation"
	"github.com/salaryrep/backend/internal/model/scenario"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionEnded         = errors.New("session already ended")
	ErrEmptyMessage         = errors.New("message text is required")
	ErrReplyInFlight        = errors.New("a counterpart reply is already in flight")
	ErrTooFewTurns          = errors.New("session needs at least one real exchange before ending")
	ErrResponderUnavailable = errors.New("counterpart generation unavailable")
	ErrSessionBusy          = errors.New("session is busy")
)

// Responder produces the counterpart's next turn. history always ends with the
// candidate turn being answered; onDelta receives incremental text fragments.
type Responder interface {
	Reply(ctx context.Context, sc scenario.Descriptor, history []negotiation.Turn, onDelta func(delta string)) (string, error)
}

type sessionState struct {
	scenario  scenario.Descriptor
	status    negotiation.Status
	ended     bool
	turns     []negotiation.Turn
	pending   string // counterpart text accumulated while streaming
	createdAt time.Time
}

// Service owns every live conversation session and enforces the lifecycle:
// idle -> sending -> idle on success, idle -> sending -> error on failure.
// Turns are append-only; at most one counterpart request is in flight per
// session.
type Service struct {
	mu        sync.RWMutex
	sessions  map[string]*sessionState
	responder Responder
	logger    *zap.Logger
}

// NewService bootstraps the in-memory session registry. responder may be nil,
// in which case Submit fails with ErrResponderUnavailable.
func NewService(responder Responder, logger *zap.Logger) *Service {
	return &Service{
		sessions:  make(map[string]*sessionState),
		responder: responder,
		logger:    logger,
	}
}

// Create validates the scenario and provisions a session seeded with the
// synthetic candidate opener at index 0. The descriptor is copied and never
// mutated afterwards.
func (s *Service) Create(_ context.Context, sc scenario.Descriptor) (negotiation.Session, error) {
	sc.TargetSalary = scenario.NormalizeSalary(sc.TargetSalary)
	if err := sc.Validate(); err != nil {
		return negotiation.Session{}, err
	}

	state := &sessionState{
		scenario:  sc,
		status:    negotiation.StatusIdle,
		createdAt: time.Now().UTC(),
		turns: []negotiation.Turn{{
			ID:        uuid.NewString(),
			Role:      negotiation.RoleCandidate,
			Text:      negotiation.Opener(sc.Role),
			CreatedAt: time.Now().UTC(),
		}},
	}

	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = state
	s.mu.Unlock()

	s.logger.Info("session created",
		zap.String("session", id),
		zap.String("persona", sc.Persona))
	return s.snapshotLocked(id, state), nil
}

// Get returns a point-in-time copy of the session.
func (s *Service) Get(_ context.Context, id string) (negotiation.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[id]
	if !ok {
		return negotiation.Session{}, ErrSessionNotFound
	}
	return s.snapshotLocked(id, state), nil
}

// Peek returns the counterpart text accumulated so far for an in-flight reply,
// for typing indicators. The second result is false when nothing is streaming.
func (s *Service) Peek(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	state, ok := s.sessions[id]
	if !ok || state.status != negotiation.StatusSending {
		return "", false
	}
	return state.pending, true
}

// Submit appends a candidate turn and drives one counterpart reply. It is
// rejected while a reply is in flight, after the session has ended, and for
// empty (post-trim) text. On failure the candidate turn stays in the
// transcript so the user can retry; the error status clears on the next
// successful submission.
func (s *Service) Submit(ctx context.Context, id, text string, onDelta func(delta string)) (negotiation.Turn, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return negotiation.Turn{}, ErrEmptyMessage
	}
	if s.responder == nil {
		return negotiation.Turn{}, ErrResponderUnavailable
	}

	s.mu.Lock()
	state, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return negotiation.Turn{}, ErrSessionNotFound
	}
	if state.ended {
		s.mu.Unlock()
		return negotiation.Turn{}, ErrSessionEnded
	}
	if state.status == negotiation.StatusSending {
		s.mu.Unlock()
		return negotiation.Turn{}, ErrReplyInFlight
	}

	state.turns = append(state.turns, negotiation.Turn{
		ID:        uuid.NewString(),
		Role:      negotiation.RoleCandidate,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	})
	state.status = negotiation.StatusSending
	state.pending = ""
	sc := state.scenario
	history := append([]negotiation.Turn(nil), state.turns...)
	s.mu.Unlock()

	reply, err := s.responder.Reply(ctx, sc, history, func(delta string) {
		s.mu.Lock()
		state.pending += delta
		s.mu.Unlock()
		if onDelta != nil {
			onDelta(delta)
		}
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	state.pending = ""

	if err != nil {
		state.status = negotiation.StatusError
		s.logger.Warn("counterpart reply failed",
			zap.String("session", id),
			zap.Error(err))
		return negotiation.Turn{}, err
	}

	turn := negotiation.Turn{
		ID:        uuid.NewString(),
		Role:      negotiation.RoleCounterpart,
		Text:      reply,
		CreatedAt: time.Now().UTC(),
	}
	state.turns = append(state.turns, turn)
	state.status = negotiation.StatusIdle
	return turn, nil
}

// End freezes the transcript and returns it. Allowed only when no reply is in
// flight and the transcript holds the opener plus at least one full exchange.
func (s *Service) End(_ context.Context, id string) ([]negotiation.Turn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if state.ended {
		return nil, ErrSessionEnded
	}
	if state.status == negotiation.StatusSending {
		return nil, ErrSessionBusy
	}
	if len(state.turns) < negotiation.MinTurnsToEnd {
		return nil, ErrTooFewTurns
	}

	state.ended = true
	state.status = negotiation.StatusIdle
	s.logger.Info("session ended",
		zap.String("session", id),
		zap.Int("turns", len(state.turns)))
	return append([]negotiation.Turn(nil), state.turns...), nil
}

// Discard drops a session entirely, as when the user resets to a new scenario.
func (s *Service) Discard(_ context.Context, id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// snapshotLocked copies the mutable state; callers must hold at least a read
// lock.
func (s *Service) snapshotLocked(id string, state *sessionState) negotiation.Session {
	return negotiation.Session{
		ID:        id,
		Scenario:  state.scenario,
		Status:    state.status,
		Ended:     state.ended,
		Turns:     append([]negotiation.Turn(nil), state.turns...),
		CreatedAt: state.createdAt,
	}
}
