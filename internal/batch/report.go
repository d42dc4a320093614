package batch

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

type failedEntry struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

type successReport struct {
	RunID string   `json:"run_id"`
	Codes []string `json:"codes"`
	Empty []string `json:"empty,omitempty"`
}

type failedReport struct {
	RunID string        `json:"run_id"`
	Files []failedEntry `json:"files"`
}

const (
	successReportName = ".lastrun.success.json"
	failedReportName  = ".lastrun.failed.json"
)

// writeRunReport replaces both report files. A report with nothing to list is
// removed so a file from an earlier run is never mistaken for this one.
func writeRunReport(outputDir, runID string, successList, emptyList []string, failedList []failedEntry) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}
	p := filepath.Join(outputDir, successReportName)
	if len(successList) > 0 || len(emptyList) > 0 {
		if err := writeReportFile(p, successReport{RunID: runID, Codes: successList, Empty: emptyList}); err != nil {
			return err
		}
		slog.Info("report wrote success", "path", p, "codes", len(successList), "empty", len(emptyList))
	} else if err := removeStale(p); err != nil {
		return err
	}

	p = filepath.Join(outputDir, failedReportName)
	if len(failedList) > 0 {
		if err := writeReportFile(p, failedReport{RunID: runID, Files: failedList}); err != nil {
			return err
		}
		slog.Info("report wrote failed", "path", p, "count", len(failedList))
	} else if err := removeStale(p); err != nil {
		return err
	}
	return nil
}

func writeReportFile(p string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, data, 0644)
}

func removeStale(p string) error {
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func appendSuccess(list []string, code string) []string {
	for _, c := range list {
		if c == code {
			return list
		}
	}
	return append(list, code)
}

func joinFailedReasons(failedList []failedEntry) string {
	if len(failedList) == 0 {
		return ""
	}
	var b strings.Builder
	for i, f := range failedList {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(filepath.Base(f.File))
		b.WriteString(": ")
		b.WriteString(f.Reason)
		if i >= 4 && len(failedList) > 6 {
			b.WriteString(fmt.Sprintf(" (+%d more)", len(failedList)-5))
			break
		}
	}
	return b.String()
}
