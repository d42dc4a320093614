package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"qmt-data/internal/batch"
	"qmt-data/internal/source"
)

// Market maps a vendor data directory to an output directory name.
type Market struct {
	Dir    string
	Output string
	Label  string
}

// Markets are the directories the vendor terminal exports, in processing order.
var Markets = []Market{
	{Dir: "szdayK", Output: "shenzhen_daily", Label: "Shenzhen daily"},
	{Dir: "shdayK", Output: "shanghai_daily", Label: "Shanghai daily"},
	{Dir: "sh5mK", Output: "shanghai_5min", Label: "Shanghai 5-minute"},
}

// RunDirectory decodes every matching file in dir into outputDir.
func RunDirectory(ctx context.Context, cfg *Config, r *batch.Runner, dir, outputDir string) (*batch.Result, error) {
	src := source.NewDirSource(dir, cfg.Glob)
	defer src.Close()
	return r.Run(ctx, src, outputDir)
}

// RunMarkets sweeps the known market directories under cfg.DataDir.
// Missing directories are skipped; a failed market does not stop the next one.
func RunMarkets(ctx context.Context, cfg *Config, r *batch.Runner) ([]*batch.Result, error) {
	var results []*batch.Result
	var failed int
	for _, m := range Markets {
		dir := filepath.Join(cfg.DataDir, m.Dir)
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			slog.Debug("market dir not found, skip", "dir", dir)
			continue
		}
		slog.Info("parsing market", "market", m.Label, "dir", dir)
		res, err := RunDirectory(ctx, cfg, r, dir, filepath.Join(cfg.OutputDir, m.Output))
		if err != nil {
			if ctx.Err() != nil {
				return results, err
			}
			slog.Error("market failed", "market", m.Label, "error", err)
			failed++
			continue
		}
		results = append(results, res)
	}
	if len(results) == 0 && failed == 0 {
		slog.Warn("no market directories found", "data_dir", cfg.DataDir)
	}
	if failed > 0 {
		return results, fmt.Errorf("%d market(s) failed", failed)
	}
	return results, nil
}
