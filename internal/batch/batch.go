// Package batch runs purify over many files on a bounded set of goroutines
// and relays progress, result and error events to a single consumer.
package batch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/jdeng/gopurify/pkg/purify"
)

// ErrTooLarge is reported for inputs above the configured size ceiling.
var ErrTooLarge = errors.New("batch: file exceeds size limit")

// EventKind distinguishes the events sent by Run.
type EventKind int

const (
	EventProgress EventKind = iota
	EventResult
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventResult:
		return "result"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event reports on one input. Index is the position of the path passed to
// Run. Data holds the original bytes on EventResult.
type Event struct {
	Kind     EventKind
	Index    int
	Path     string
	Progress float64
	Result   *purify.Result
	Data     []byte
	Err      error
}

// Runner purifies files concurrently.
type Runner struct {
	// Workers bounds concurrent purify calls; values below 1 mean 1.
	Workers int
	// MaxFileSize rejects larger files before reading them. Zero disables
	// the check.
	MaxFileSize int64
	Logger      *slog.Logger
}

// Run purifies every path and sends its events to events, which Run closes
// before returning. Each path produces any number of EventProgress events
// (sent without blocking, so some may be dropped) followed by exactly one
// EventResult or EventError.
//
// Cancelling ctx stops new files from starting. A purify call already in
// flight runs to completion and its outcome is discarded. Run returns
// ctx.Err() in that case and nil otherwise; per-file failures are events.
func (r *Runner) Run(ctx context.Context, paths []string, events chan<- Event) error {
	defer close(events)

	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := r.Workers
	if workers < 1 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			ev := r.process(gctx, logger, i, path, events)
			if gctx.Err() != nil {
				logger.Debug("discarding result after cancellation", "path", path)
				return nil
			}
			select {
			case events <- ev:
			case <-gctx.Done():
			}
			return nil
		})
	}
	g.Wait()
	return ctx.Err()
}

func (r *Runner) process(ctx context.Context, logger *slog.Logger, index int, path string, events chan<- Event) Event {
	fail := func(err error) Event {
		logger.Debug("purify failed", "path", path, "error", err)
		return Event{Kind: EventError, Index: index, Path: path, Err: err}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fail(errors.Wrapf(err, "stat %s", path))
	}
	if r.MaxFileSize > 0 && info.Size() > r.MaxFileSize {
		return fail(errors.Wrapf(ErrTooLarge, "%s is %d bytes, limit %d", path, info.Size(), r.MaxFileSize))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fail(errors.Wrapf(err, "reading %s", path))
	}

	res, err := purify.Purify(purify.Options{
		Filename: filepath.Base(path),
		Data:     data,
		OnProgress: func(p float64) {
			if ctx.Err() != nil {
				return
			}
			select {
			case events <- Event{Kind: EventProgress, Index: index, Path: path, Progress: p}:
			default:
			}
		},
	})
	if err != nil {
		return fail(err)
	}

	logger.Info("purified", "path", path, "format", res.Format(),
		"removed", len(res.Removed()), "removed_bytes", res.RemovedBytes())
	return Event{Kind: EventResult, Index: index, Path: path, Result: res, Data: data}
}
