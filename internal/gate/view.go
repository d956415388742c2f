package gate

import (
	"errors"
	"sync"

	"github.com/salaryrep/backend/internal/model/feedback"
	"github.com/salaryrep/backend/internal/model/scenario"
)

var (
	ErrInvalidTransition  = errors.New("transition not allowed from current view")
	ErrUpgradeUnavailable = errors.New("paid upgrade is not implemented")
)

// View is one of the closed set of screens the router can present. Each
// concrete view carries only the data that screen needs, so impossible
// combinations cannot be represented.
type View interface {
	ViewName() string
}

type EmailCaptureView struct{}

type SetupView struct {
	SessionsRemaining int `json:"sessionsRemaining"`
}

type ChatView struct {
	SessionID string              `json:"sessionId"`
	Scenario  scenario.Descriptor `json:"scenario"`
}

type LoadingFeedbackView struct {
	SessionID string              `json:"sessionId"`
	Scenario  scenario.Descriptor `json:"scenario"`
}

type FeedbackView struct {
	SessionID string              `json:"sessionId"`
	Scenario  scenario.Descriptor `json:"scenario"`
	Result    feedback.Result     `json:"result"`
}

type FeedbackErrorView struct {
	SessionID string              `json:"sessionId"`
	Scenario  scenario.Descriptor `json:"scenario"`
}

type UpgradeView struct{}

func (EmailCaptureView) ViewName() string    { return "email-capture" }
func (SetupView) ViewName() string           { return "setup" }
func (ChatView) ViewName() string            { return "chat" }
func (LoadingFeedbackView) ViewName() string { return "loading-feedback" }
func (FeedbackView) ViewName() string        { return "feedback" }
func (FeedbackErrorView) ViewName() string   { return "feedback-error" }
func (UpgradeView) ViewName() string         { return "upgrade" }

// Router is the finite-state view controller. Every decision point re-checks
// the gate: no contact always routes to email capture, and an exhausted free
// tier routes to upgrade. Upgrade is terminal short of the (unimplemented)
// paid flow.
type Router struct {
	mu      sync.Mutex
	gate    *Gate
	current View
}

// NewRouter computes the entry view from persisted gate state. Re-entering
// with no captured contact restarts at email capture regardless of anything
// else stored.
func NewRouter(g *Gate) *Router {
	r := &Router{gate: g}
	r.current = r.entryView()
	return r
}

// Current returns the view being presented.
func (r *Router) Current() View {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// ContactCaptured moves past the email gate once the lead has been captured.
func (r *Router) ContactCaptured() (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.current.(EmailCaptureView); !ok {
		return r.current, ErrInvalidTransition
	}
	r.current = r.gatedSetup()
	return r.current, nil
}

// StartScenario enters the chat for a finalized scenario. The gate is checked
// at this decision point; an exhausted tier routes to upgrade instead.
func (r *Router) StartScenario(sessionID string, sc scenario.Descriptor) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.current.(SetupView); !ok {
		return r.current, ErrInvalidTransition
	}
	if r.gate.AtLimit() {
		r.current = UpgradeView{}
		return r.current, nil
	}
	r.current = ChatView{SessionID: sessionID, Scenario: sc}
	return r.current, nil
}

// EndSession leaves the chat and waits for the evaluation.
func (r *Router) EndSession() (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.current.(ChatView)
	if !ok {
		return r.current, ErrInvalidTransition
	}
	r.current = LoadingFeedbackView{SessionID: chat.SessionID, Scenario: chat.Scenario}
	return r.current, nil
}

// FeedbackReady presents the evaluation and records the completed session.
// The counter moves here and only here: abandoned chats never count.
func (r *Router) FeedbackReady(result feedback.Result) (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loading, ok := r.current.(LoadingFeedbackView)
	if !ok {
		return r.current, ErrInvalidTransition
	}
	if err := r.gate.RecordCompletion(loading.SessionID); err != nil {
		return r.current, err
	}
	r.current = FeedbackView{SessionID: loading.SessionID, Scenario: loading.Scenario, Result: result}
	return r.current, nil
}

// FeedbackFailed surfaces the evaluation failure without losing the session.
func (r *Router) FeedbackFailed() (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	loading, ok := r.current.(LoadingFeedbackView)
	if !ok {
		return r.current, ErrInvalidTransition
	}
	r.current = FeedbackErrorView{SessionID: loading.SessionID, Scenario: loading.Scenario}
	return r.current, nil
}

// Continue leaves the feedback (or feedback-error) screen for another round,
// re-checking the gate on the way out.
func (r *Router) Continue() (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.current.(type) {
	case FeedbackView, FeedbackErrorView:
		r.current = r.gatedSetup()
		return r.current, nil
	default:
		return r.current, ErrInvalidTransition
	}
}

// PaidUpgrade is the only way out of the upgrade view. Not implemented.
func (r *Router) PaidUpgrade() (View, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.current.(UpgradeView); !ok {
		return r.current, ErrInvalidTransition
	}
	return r.current, ErrUpgradeUnavailable
}

func (r *Router) entryView() View {
	state := r.gate.State()
	if !state.ContactCaptured {
		return EmailCaptureView{}
	}
	if state.SessionsCompleted >= state.FreeSessionLimit {
		return UpgradeView{}
	}
	return SetupView{SessionsRemaining: state.FreeSessionLimit - state.SessionsCompleted}
}

func (r *Router) gatedSetup() View {
	state := r.gate.State()
	if state.SessionsCompleted >= state.FreeSessionLimit {
		return UpgradeView{}
	}
	return SetupView{SessionsRemaining: state.FreeSessionLimit - state.SessionsCompleted}
}
