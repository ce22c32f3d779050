package position

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"position-watcher/internal/events"
	"position-watcher/internal/interfaces"
	"position-watcher/internal/logger"
	"position-watcher/internal/poller"
	"position-watcher/internal/poller/pollerobs"
	"position-watcher/internal/trace"
	"position-watcher/internal/types"
)

// DefaultInterval is how often the position file is polled.
const DefaultInterval = poller.DefaultInterval

// PollerFactory creates the poller that watches path.
type PollerFactory func(path string, interval time.Duration) interfaces.FilePoller

// Options configures New. Account and Instrument are required.
type Options struct {
	// BasePath is the platform's data folder. When empty it is resolved
	// once from USERPROFILE via LookupEnv.
	BasePath   string
	Account    string
	Instrument string

	Interval  time.Duration
	// NewPoller defaults to an observable FilePoller.
	NewPoller PollerFactory
	LookupEnv LookupEnv
}

// Tracker follows one account/instrument position file and publishes a
// position.updated event whenever the parsed state actually changes.
type Tracker struct {
	account    string
	instrument string
	path       string
	poller     interfaces.FilePoller
	bus        *events.Bus

	// updateMu serialises HandleContent so each update finishes publishing
	// before the next is considered.
	updateMu sync.Mutex

	mu       sync.RWMutex
	retained types.Snapshot
	observed bool
}

var _ interfaces.PositionSource = (*Tracker)(nil)

// New validates opts, computes the watched path and wires the poller. The
// file is not required to exist.
func New(opts Options) (*Tracker, error) {
	account := strings.TrimSpace(opts.Account)
	if account == "" {
		return nil, fmt.Errorf("%w: account is required", ErrConfiguration)
	}
	instrument := strings.TrimSpace(opts.Instrument)
	if instrument == "" {
		return nil, fmt.Errorf("%w: instrument is required", ErrConfiguration)
	}

	base := opts.BasePath
	if base == "" {
		resolved, err := ResolveBasePath(opts.LookupEnv)
		if err != nil {
			return nil, err
		}
		base = resolved
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	t := &Tracker{
		account:    account,
		instrument: instrument,
		path:       PositionFile(base, account, instrument),
		bus:        events.NewBus(),
	}
	newPoller := opts.NewPoller
	if newPoller == nil {
		newPoller = defaultPoller
	}
	t.poller = newPoller(t.path, interval)
	t.poller.OnChange(func(ctx context.Context, content string) {
		t.HandleContent(ctx, content)
	})
	return t, nil
}

func defaultPoller(path string, interval time.Duration) interfaces.FilePoller {
	return pollerobs.Wrap(poller.New(path, interval))
}

// Account returns the account name the tracker was built for.
func (t *Tracker) Account() string { return t.account }

// Instrument returns the instrument name the tracker was built for.
func (t *Tracker) Instrument() string { return t.instrument }

// Path returns the position file being watched.
func (t *Tracker) Path() string { return t.path }

// Run polls the position file until ctx is cancelled.
func (t *Tracker) Run(ctx context.Context) error {
	logger.Info(ctx, "Position tracker running",
		"account", t.account,
		"instrument", t.instrument,
		"path", t.path,
	)
	return t.poller.Run(ctx)
}

// HandleContent parses one delivered file content and publishes it when it
// differs from the retained snapshot. It reports whether an event was published.
func (t *Tracker) HandleContent(ctx context.Context, content string) bool {
	t.updateMu.Lock()
	defer t.updateMu.Unlock()

	ctx, span := trace.StartSpan(ctx, "position.HandleContent")
	defer span.End()

	candidate := ParseRecord(content)

	t.mu.Lock()
	changed := !t.observed || !t.retained.Equal(candidate)
	if changed {
		t.retained = candidate
		t.observed = true
	}
	t.mu.Unlock()

	span.SetAttributes(
		attribute.String("account", t.account),
		attribute.String("instrument", t.instrument),
		attribute.Bool("changed", changed),
	)

	if !changed {
		logger.Debug(ctx, "Position unchanged",
			"account", t.account,
			"instrument", t.instrument,
		)
		return false
	}

	if candidate.Malformed() {
		logger.Warn(ctx, "Position file content is malformed",
			"account", t.account,
			"instrument", t.instrument,
			"content", strings.TrimSpace(content),
		)
	}
	logger.Position(ctx, t.account, t.instrument, candidate)

	t.bus.Publish(ctx, events.PositionUpdated, candidate)
	return true
}

// Snapshot returns the retained snapshot and whether anything was observed.
func (t *Tracker) Snapshot() (types.Snapshot, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.observed {
		return types.FlatSnapshot(), false
	}
	return t.retained, true
}

// Side returns the retained side, or Flat before the first observation.
func (t *Tracker) Side() types.Side {
	s, _ := t.Snapshot()
	return s.Side
}

// Quantity returns the retained quantity, or 0 before the first observation.
// It is NaN when the quantity field could not be parsed.
func (t *Tracker) Quantity() float64 {
	s, _ := t.Snapshot()
	return s.Quantity
}

// Price returns the retained average price, or 0 before the first observation.
func (t *Tracker) Price() float64 {
	s, _ := t.Snapshot()
	return s.Price
}

// OnUpdate subscribes to position.updated events.
func (t *Tracker) OnUpdate(listener interfaces.PositionListener) uuid.UUID {
	return t.bus.Subscribe(events.PositionUpdated, listener)
}

// Unsubscribe removes a listener added with OnUpdate and reports whether it
// was still subscribed.
func (t *Tracker) Unsubscribe(id uuid.UUID) bool {
	return t.bus.Unsubscribe(id)
}
