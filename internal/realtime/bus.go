package realtime

import (
	"context"

	"github.com/google/uuid"
)

// EventKind names the categories of profile-changed events carried on the
// bus. Consumers use them to decide which caches to drop.
type EventKind string

const (
	EventProfileRecomputed EventKind = "profile_recomputed"
	EventGateChanged       EventKind = "gate_changed"
	EventProfileReset      EventKind = "profile_reset"
)

// Event is the wire payload published whenever a user's derived matching
// state changes. Other instances drop their cached pair scores for the user
// on receipt.
type Event struct {
	Kind   EventKind `json:"kind"`
	UserID uuid.UUID `json:"user_id"`
}

// Bus fans profile-change events out across server instances.
type Bus interface {
	Publish(ctx context.Context, ev Event) error
	StartForwarder(ctx context.Context, onEvent func(ev Event)) error
	Close() error
}

type noopBus struct{}

// NewNoopBus returns a Bus that drops everything, for single-instance
// deployments without Redis.
func NewNoopBus() Bus { return noopBus{} }

func (noopBus) Publish(ctx context.Context, ev Event) error { return nil }

func (noopBus) StartForwarder(ctx context.Context, onEvent func(ev Event)) error { return nil }

func (noopBus) Close() error { return nil }
