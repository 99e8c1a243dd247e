package audit

import (
	"time"

	"github.com/google/uuid"

	id "tonetags/pkg/domain"
)

// Action names a user-visible change worth recording.
type Action string

const (
	ActionStandardsSet    Action = "standards_set"
	ActionUserDataDeleted Action = "user_data_deleted"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID `json:"id"`
	Action    Action    `json:"action"`
	UserID    id.UserID `json:"user_id"`
	RequestID string    `json:"request_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	// Standards holds the enabled ids after a standards_set.
	Standards []string `json:"standards,omitempty"`
}
