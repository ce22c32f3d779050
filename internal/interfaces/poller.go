package interfaces

import "context"

// ContentHandler receives the full file content each time it changes.
type ContentHandler func(ctx context.Context, content string)

// FilePoller watches one file and reports content changes.
type FilePoller interface {
	// OnChange registers a handler. Handlers run serially in the order
	// changes are detected.
	OnChange(handler ContentHandler)

	// Run polls until ctx is cancelled.
	Run(ctx context.Context) error

	// Path returns the watched file.
	Path() string
}
