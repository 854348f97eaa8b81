package state

import (
	"context"

	"github.com/SanderSepp/omicron-app/internal/models"
)

// Storage keys for the persisted session state.
const (
	KeyEvent   = "event"
	KeyProfile = "selectedProfile"
)

// Change is a state-change notification delivered to subscribers. Key names
// which slot changed; the matching field carries the new value.
type Change struct {
	Key     string             `json:"key"`
	Event   models.EventState  `json:"event,omitempty"`
	Profile models.UserProfile `json:"profile,omitempty"`
}

// Store is the shared event/profile state every open view observes. Writes
// persist synchronously and notify all subscribers; Subscribe is how a view
// (or another process, for backends that support it) reacts to changes made
// elsewhere.
type Store interface {
	Event(ctx context.Context) (models.EventState, error)
	SetEvent(ctx context.Context, event models.EventState) error
	Profile(ctx context.Context) (models.UserProfile, error)
	SetProfile(ctx context.Context, profile models.UserProfile) error

	Subscribe() (uint64, <-chan Change)
	Unsubscribe(id uint64)

	Close() error
}
