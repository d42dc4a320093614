package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"
)

func runLogWriter(w io.Writer, lines <-chan string) {
	for s := range lines {
		fmt.Fprintln(w, s)
	}
}

type errorEntry struct {
	File string
	Err  error
}

func runErrorHandler(errors <-chan errorEntry, logger *slog.Logger) {
	for e := range errors {
		logger.Error("file error", "file", e.File, "error", e.Err)
	}
}

func runHeartbeat(ctx context.Context, interval time.Duration, totalFiles int, t *tally, logger *slog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			done, ok, empty, fails, bars := t.snapshot()
			logger.Info("heartbeat", "done", done, "total", totalFiles, "ok", ok, "empty", empty, "failed", fails, "bars", bars)
		}
	}
}
