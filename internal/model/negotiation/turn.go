package negotiation

import (
	"fmt"
	"time"
)

// TurnRole identifies which side of the negotiation spoke a turn.
type TurnRole string

const (
	RoleCandidate   TurnRole = "candidate"
	RoleCounterpart TurnRole = "counterpart"
)

// Turn is one utterance in the transcript. Turns are append-only and keep
// insertion order; the synthesized opener is always index 0.
type Turn struct {
	ID        string    `json:"id"`
	Role      TurnRole  `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// Opener builds the synthetic candidate turn text that starts every session.
// The template is persona-agnostic; only the scenario role varies.
func Opener(role string) string {
	return fmt.Sprintf("Hi, I'm excited about the %s opportunity. I'd love to discuss the compensation package.", role)
}
