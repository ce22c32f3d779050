package interfaces

import (
	"context"

	"github.com/google/uuid"

	"position-watcher/internal/types"
)

type PositionListener func(ctx context.Context, snap types.Snapshot)

// PositionSource exposes the last accepted position and change events.
type PositionSource interface {
	Side() types.Side
	Quantity() float64
	Price() float64
	Snapshot() (types.Snapshot, bool)

	OnUpdate(listener PositionListener) uuid.UUID
	Unsubscribe(id uuid.UUID) bool
}
