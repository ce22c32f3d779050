package poller

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"

	"position-watcher/internal/interfaces"
	"position-watcher/internal/logger"
)

// DefaultInterval is used when New is given a non-positive interval.
const DefaultInterval = 100 * time.Millisecond

// FilePoller re-reads a file on a fixed interval and hands new content to
// its handlers. Writes landing within one interval are coalesced; only the
// content present at poll time is seen.
type FilePoller struct {
	path     string
	interval time.Duration
	readFile func(name string) ([]byte, error)

	mu       sync.Mutex
	handlers []interfaces.ContentHandler

	// pollMu serialises polls so handlers see changes in detection order.
	pollMu   sync.Mutex
	lastHash uint64
	seen     bool
	missing  bool
}

var _ interfaces.FilePoller = (*FilePoller)(nil)

type Option func(*FilePoller)

// WithReadFile replaces os.ReadFile, mostly for tests.
func WithReadFile(fn func(name string) ([]byte, error)) Option {
	return func(p *FilePoller) {
		p.readFile = fn
	}
}

// New creates a poller for path. A non-positive interval uses DefaultInterval.
func New(path string, interval time.Duration, opts ...Option) *FilePoller {
	if interval <= 0 {
		interval = DefaultInterval
	}
	p := &FilePoller{
		path:     path,
		interval: interval,
		readFile: os.ReadFile,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *FilePoller) Path() string            { return p.path }
func (p *FilePoller) Interval() time.Duration { return p.interval }

func (p *FilePoller) OnChange(handler interfaces.ContentHandler) {
	p.mu.Lock()
	p.handlers = append(p.handlers, handler)
	p.mu.Unlock()
}

// Run polls immediately and then on every tick until ctx is cancelled.
func (p *FilePoller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			p.Poll(ctx)
		}
	}
}

// Poll checks the file once and reports whether handlers were invoked.
func (p *FilePoller) Poll(ctx context.Context) bool {
	p.pollMu.Lock()
	defer p.pollMu.Unlock()

	data, err := p.readFile(p.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if !p.missing {
				logger.Debug(ctx, "Watched file does not exist yet", "path", p.path)
				p.missing = true
			}
			return false
		}
		logger.Warn(ctx, "Failed to read watched file", "path", p.path, "error", err)
		return false
	}
	p.missing = false

	sum := xxhash.Sum64(data)
	if p.seen && sum == p.lastHash {
		return false
	}
	p.seen = true
	p.lastHash = sum

	p.mu.Lock()
	handlers := append([]interfaces.ContentHandler(nil), p.handlers...)
	p.mu.Unlock()

	content := string(data)
	for _, h := range handlers {
		h(ctx, content)
	}
	return true
}
