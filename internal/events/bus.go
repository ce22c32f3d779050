package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"position-watcher/internal/interfaces"
	"position-watcher/internal/logger"
	"position-watcher/internal/types"
)

// EventKind names a class of published events.
type EventKind string

const PositionUpdated EventKind = "position.updated"

type subscription struct {
	id       uuid.UUID
	kind     EventKind
	listener interfaces.PositionListener
}

// Bus is a synchronous in-process publish/subscribe registry.
type Bus struct {
	mu   sync.RWMutex
	subs []subscription
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers listener for kind and returns the id to unsubscribe with.
func (b *Bus) Subscribe(kind EventKind, listener interfaces.PositionListener) uuid.UUID {
	id := uuid.New()

	b.mu.Lock()
	b.subs = append(b.subs, subscription{id: id, kind: kind, listener: listener})
	b.mu.Unlock()

	return id
}

// Unsubscribe removes a subscription. It reports whether id was registered.
func (b *Bus) Unsubscribe(id uuid.UUID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of listeners registered for kind.
func (b *Bus) Len(kind EventKind) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, s := range b.subs {
		if s.kind == kind {
			n++
		}
	}
	return n
}

// Publish delivers snap to every listener of kind in registration order and
// returns the number of listeners that completed. A listener that panics is
// logged and skipped; delivery continues with the next one.
func (b *Bus) Publish(ctx context.Context, kind EventKind, snap types.Snapshot) int {
	b.mu.RLock()
	targets := make([]subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if s.kind == kind {
			targets = append(targets, s)
		}
	}
	b.mu.RUnlock()

	delivered := 0
	for _, s := range targets {
		if err := deliver(ctx, s.listener, snap); err != nil {
			logger.ErrorWithErr(ctx, "Listener failed", err,
				"kind", string(kind),
				"subscription", s.id.String(),
			)
			continue
		}
		delivered++
	}
	return delivered
}

func deliver(ctx context.Context, listener interfaces.PositionListener, snap types.Snapshot) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("listener panic: %v", r)
		}
	}()
	listener(ctx, snap)
	return nil
}
