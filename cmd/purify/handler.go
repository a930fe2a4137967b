package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"

	"github.com/jdeng/gopurify/internal/batch"
	"github.com/jdeng/gopurify/internal/export"
	"github.com/jdeng/gopurify/internal/hexview"
	"github.com/jdeng/gopurify/internal/report"
	"github.com/jdeng/gopurify/internal/tui"
)

// genericFailure is the only failure text users see for purify errors; the
// detailed cause is logged at debug level.
const genericFailure = "Error: Malformed binary structure detected."

// handler turns batch events into display statuses, writing outputs for
// successful results. It runs on a single goroutine.
type handler struct {
	writer   *export.Writer
	logger   *slog.Logger
	maxSize  int64
	hexBytes int

	failed   int
	previews []string
}

func (h *handler) handle(ev batch.Event) tui.Status {
	switch ev.Kind {
	case batch.EventProgress:
		return tui.Status{Index: ev.Index, Progress: ev.Progress}
	case batch.EventError:
		h.failed++
		h.logger.Debug("purify failed", "path", ev.Path, "error", ev.Err)
		return tui.Status{Index: ev.Index, Done: true, Failed: true, Text: h.failureText(ev.Err)}
	}

	res := ev.Result
	paths, err := h.writer.Write(ev.Path, ev.Data, res)
	if err != nil {
		h.failed++
		h.logger.Error("writing output failed", "path", ev.Path, "error", err)
		return tui.Status{Index: ev.Index, Done: true, Failed: true, Text: err.Error()}
	}
	h.logger.Info("wrote purified file", "source", ev.Path, "output", paths.Purified)

	if h.hexBytes > 0 {
		h.previews = append(h.previews,
			fmt.Sprintf("%s\n%s", ev.Path, hexview.Render(ev.Data, res.Removed(), hexview.Options{Limit: h.hexBytes})))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s → %s  entropy %.4f → %.4f bits  removed %d segment(s), %d bytes",
		res.Format(), paths.Purified, res.BeforeEntropy(), res.AfterEntropy(),
		len(res.Removed()), res.RemovedBytes())
	for _, line := range report.New(ev.Path, ev.Data, res).Lines() {
		b.WriteByte('\n')
		b.WriteString(line)
	}
	return tui.Status{Index: ev.Index, Progress: 1, Done: true, Text: b.String()}
}

func (h *handler) failureText(err error) string {
	if errors.Is(err, batch.ErrTooLarge) {
		return fmt.Sprintf("Surgical Safety: File exceeds %dMB hard limit.", h.maxSize/(1024*1024))
	}
	return genericFailure
}
