package negotiation

import (
	"time"

	"github.com/salaryrep/backend/internal/model/scenario"
)

// Status is the conversation lifecycle state. Only one counterpart request may
// be in flight at a time, enforced through this field.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusSending Status = "sending"
	StatusError   Status = "error"
)

// MinTurnsToEnd is the smallest transcript that may be handed to feedback:
// the synthetic opener plus at least one real exchange.
const MinTurnsToEnd = 3

// Session is a point-in-time snapshot of one conversation. The service owns
// the mutable state; snapshots returned to callers are copies.
type Session struct {
	ID        string              `json:"id"`
	Scenario  scenario.Descriptor `json:"scenario"`
	Status    Status              `json:"status"`
	Ended     bool                `json:"ended"`
	Turns     []Turn              `json:"turns"`
	CreatedAt time.Time           `json:"createdAt"`
}
