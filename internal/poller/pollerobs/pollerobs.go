package pollerobs

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"position-watcher/internal/interfaces"
	"position-watcher/internal/logger"
	"position-watcher/internal/trace"
)

type observablePoller struct {
	poller interfaces.FilePoller
}

var _ interfaces.FilePoller = (*observablePoller)(nil)

func Wrap(p interfaces.FilePoller) interfaces.FilePoller {
	return &observablePoller{
		poller: p,
	}
}

func (op *observablePoller) Path() string {
	return op.poller.Path()
}

func (op *observablePoller) OnChange(handler interfaces.ContentHandler) {
	path := op.poller.Path()
	op.poller.OnChange(func(ctx context.Context, content string) {
		ctx, span := trace.StartSpan(ctx, "poller.ContentChanged")
		defer span.End()
		span.SetAttributes(
			attribute.String("path", path),
			attribute.Int("bytes", len(content)),
		)

		start := time.Now()
		handler(ctx, content)

		logger.DebugSkip(ctx, 1, "File content change handled",
			"path", path,
			"bytes", len(content),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (op *observablePoller) Run(ctx context.Context) error {
	ctx, span := trace.StartSpan(ctx, "poller.Run")
	defer span.End()

	path := op.poller.Path()
	span.SetAttributes(attribute.String("path", path))
	logger.InfoSkip(ctx, 1, "File poller started", "path", path)

	start := time.Now()
	err := op.poller.Run(ctx)
	if err != nil {
		logger.ErrorWithErrSkip(ctx, 1, "File poller failed", err,
			"path", path,
		)
		return err
	}

	logger.InfoSkip(ctx, 1, "File poller stopped",
		"path", path,
		"uptime_ms", time.Since(start).Milliseconds(),
	)
	return nil
}
