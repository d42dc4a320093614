package batch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"qmt-data/internal/dat"
	"qmt-data/internal/metrics"
	"qmt-data/internal/model"
	"qmt-data/internal/saver"
	"qmt-data/internal/slogx"
	"qmt-data/internal/source"
)

const (
	// progressEvery logs a progress line every N finished files.
	progressEvery = 100

	// CombinedName is the base name of the concatenated output table.
	CombinedName = "all_stocks_data"
)

// SeriesSink receives every non-empty series, e.g. a database store.
type SeriesSink interface {
	SaveSeries(ctx context.Context, s model.Series) error
}

// Runner decodes every file of a Source and writes one combined table.
// Files are independent, so up to Workers of them are decoded at once.
type Runner struct {
	Parser    *dat.Parser
	Saver     saver.TableSaver // nil skips writing the combined table
	Sink      SeriesSink       // optional
	Metrics   *metrics.Metrics // optional
	Workers   int
	Heartbeat time.Duration
	LogLevel  slog.Level
	LogOutput io.Writer // fan-in log destination, stderr when nil
}

// FileResult is the outcome of one file. Err is set only for read failures.
type FileResult struct {
	Path   string
	Series model.Series
	Stats  dat.ScanStats
	Err    error
}

// Result summarizes one run over a source.
type Result struct {
	RunID    string
	Source   string
	Files    int
	WithData int
	Empty    int
	Failed   int
	Rows     int
	Codes    int
	Tables   []model.Table
	Outputs  []string
	Reports  []FileResult
	Duration time.Duration
}

func (r *Runner) workers() int {
	if r.Workers < 1 {
		return 1
	}
	return r.Workers
}

func (r *Runner) heartbeat() time.Duration {
	if r.Heartbeat <= 0 {
		return 30 * time.Second
	}
	return r.Heartbeat
}

func (r *Runner) logOutput() io.Writer {
	if r.LogOutput == nil {
		return os.Stderr
	}
	return r.LogOutput
}

// Run processes every file of src and writes the combined table into outputDir.
// A bad file never stops the run; only listing, output and cancellation errors are returned.
func (r *Runner) Run(ctx context.Context, src source.Source, outputDir string) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.NewString(), Source: src.GetName()}

	files, err := src.Files()
	if err != nil {
		return res, fmt.Errorf("list files: %w", err)
	}
	res.Files = len(files)
	if len(files) == 0 {
		slog.Warn("no DAT files found", "dir", src.GetName())
		return res, nil
	}
	slog.Info("found DAT files", "dir", src.GetName(), "count", len(files), "workers", r.workers(), "run_id", res.RunID)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return res, fmt.Errorf("create output dir: %w", err)
	}

	logs := make(chan string, 2048)
	logger := slogx.NewChanLogger(logs, r.LogLevel)
	errs := make(chan errorEntry, 64)
	var logWg sync.WaitGroup
	logWg.Add(1)
	go func() {
		defer logWg.Done()
		runLogWriter(r.logOutput(), logs)
	}()
	var errWg sync.WaitGroup
	errWg.Add(1)
	go func() {
		defer errWg.Done()
		runErrorHandler(errs, logger)
	}()

	updates := make(chan ManifestUpdate, 256)
	manifestDone := make(chan struct{})
	go func() {
		defer close(manifestDone)
		RunManifestWriter(ManifestPath(outputDir), updates)
	}()

	hbCtx, stopHeartbeat := context.WithCancel(ctx)
	var t tally
	var hbWg sync.WaitGroup
	hbWg.Add(1)
	go func() {
		defer hbWg.Done()
		runHeartbeat(hbCtx, r.heartbeat(), len(files), &t, logger)
	}()

	results := make([]FileResult, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = r.processFile(gctx, src, path, logger, errs, updates)
			if n := t.record(results[i]); n%progressEvery == 0 {
				logger.Info("progress", "done", n, "total", len(files), "file", filepath.Base(path))
			}
			return nil
		})
	}
	waitErr := g.Wait()

	stopHeartbeat()
	hbWg.Wait()
	close(updates)
	<-manifestDone
	close(errs)
	errWg.Wait()
	close(logs)
	logWg.Wait()

	if waitErr != nil {
		return res, fmt.Errorf("batch interrupted: %w", waitErr)
	}

	var successList, emptyList []string
	var failedList []failedEntry
	tables := make(map[model.Kind]*model.Table)
	codes := make(map[string]struct{})
	for _, fr := range results {
		switch {
		case fr.Err != nil:
			res.Failed++
			failedList = append(failedList, failedEntry{File: fr.Path, Reason: fr.Err.Error()})
		case fr.Series.Empty():
			res.Empty++
			emptyList = append(emptyList, fr.Path)
		default:
			res.WithData++
			successList = appendSuccess(successList, fr.Series.Code)
			codes[fr.Series.Code] = struct{}{}
			tb, ok := tables[fr.Series.Kind]
			if !ok {
				tb = &model.Table{Kind: fr.Series.Kind}
				tables[fr.Series.Kind] = tb
			}
			tb.Bars = append(tb.Bars, fr.Series.Bars...)
			res.Rows += fr.Series.Len()
		}
	}
	res.Codes = len(codes)
	res.Reports = results
	for _, k := range []model.Kind{model.Daily, model.Intraday} {
		if tb, ok := tables[k]; ok {
			res.Tables = append(res.Tables, *tb)
		}
	}
	slog.Info("parsed files", "dir", src.GetName(), "with_data", res.WithData, "empty", res.Empty, "failed", res.Failed)

	if err := writeRunReport(outputDir, res.RunID, successList, emptyList, failedList); err != nil {
		slog.Warn("could not write run report", "error", err)
	}
	if len(failedList) > 0 {
		slog.Info("summary failed", "count", len(failedList), "reasons", joinFailedReasons(failedList))
	}

	if r.Saver != nil && len(res.Tables) > 0 {
		for _, tb := range res.Tables {
			p := filepath.Join(outputDir, combinedFileName(tb.Kind, len(res.Tables) > 1, r.Saver.Extension()))
			if err := r.Saver.Save(tb, p); err != nil {
				return res, fmt.Errorf("save %s: %w", p, err)
			}
			res.Outputs = append(res.Outputs, p)
			slog.Info("combined data saved", "path", p, "rows", len(tb.Bars))
		}
	}

	res.Duration = time.Since(start)
	slog.Info("summary", "rows", res.Rows, "codes", res.Codes, "took", res.Duration.Round(time.Millisecond))
	return res, nil
}

func (r *Runner) processFile(
	ctx context.Context,
	src source.Source,
	path string,
	logger *slog.Logger,
	errs chan<- errorEntry,
	updates chan<- ManifestUpdate,
) FileResult {
	start := time.Now()
	fr := FileResult{Path: path}

	data, err := src.ReadFile(path)
	if err != nil {
		fr.Err = &dat.FileError{Path: path, Err: err}
		fr.Series = dat.EmptySeries(path)
		select {
		case errs <- errorEntry{File: path, Err: fr.Err}:
		default:
		}
		r.Metrics.ObserveFile(metrics.OutcomeFailed, 0, time.Since(start))
		return fr
	}

	fr.Series, fr.Stats = r.Parser.ParseBytes(path, data)
	for _, reason := range dat.Rejections() {
		r.Metrics.AddRejections(reason.String(), fr.Stats.Rejected[reason])
	}
	if fr.Stats.Truncated {
		logger.Warn("short record, scan stopped", "file", path, "pairs", fr.Stats.Pairs)
	}

	if fr.Series.Empty() {
		logger.Debug("no bars", "file", path, "pairs", fr.Stats.Pairs, "rejected", fr.Stats.RejectedTotal())
		r.Metrics.ObserveFile(metrics.OutcomeEmpty, 0, time.Since(start))
		return fr
	}

	if r.Sink != nil {
		if err := r.Sink.SaveSeries(ctx, fr.Series); err != nil {
			select {
			case errs <- errorEntry{File: path, Err: fmt.Errorf("store: %w", err)}:
			default:
			}
		}
	}

	last := fr.Series.Bars[fr.Series.Len()-1]
	select {
	case updates <- ManifestUpdate{Code: fr.Series.Code, Last: last.Timestamp}:
	default:
		logger.Warn("manifest channel full, skip update", "code", fr.Series.Code)
	}

	logger.Debug("file ok", "code", fr.Series.Code, "bars", fr.Series.Len(), "rejected", fr.Stats.RejectedTotal())
	r.Metrics.ObserveFile(metrics.OutcomeOK, fr.Series.Len(), time.Since(start))
	return fr
}

func combinedFileName(k model.Kind, split bool, ext string) string {
	if split {
		return fmt.Sprintf("%s_%s.%s", CombinedName, k, ext)
	}
	return CombinedName + "." + ext
}

// tally tracks per-run counters shared by workers and the heartbeat.
type tally struct {
	mu                     sync.Mutex
	done, ok, empty, fails int
	bars                   int
}

func (t *tally) record(fr FileResult) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.done++
	switch {
	case fr.Err != nil:
		t.fails++
	case fr.Series.Empty():
		t.empty++
	default:
		t.ok++
		t.bars += fr.Series.Len()
	}
	return t.done
}

func (t *tally) snapshot() (done, ok, empty, fails, bars int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done, t.ok, t.empty, t.fails, t.bars
}
