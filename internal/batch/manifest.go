package batch

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
)

// manifestFlushEvery bounds how many updates are held before the file is rewritten.
const manifestFlushEvery = 100

// ManifestUpdate is sent when a file yields bars.
type ManifestUpdate struct {
	Code string
	Last string // latest bar timestamp
}

// ManifestPath returns the path of the latest-bar manifest in dir.
func ManifestPath(dir string) string {
	return filepath.Join(dir, ".lastbar.json")
}

// LoadManifest reads code → latest timestamp. A missing or corrupt file yields an empty map.
func LoadManifest(path string) map[string]string {
	data, err := os.ReadFile(path)
	if err != nil {
		return make(map[string]string)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return make(map[string]string)
	}
	return m
}

// RunManifestWriter receives updates and persists them to path (run as goroutine).
// It returns after updates is closed and the final state is written.
func RunManifestWriter(path string, updates <-chan ManifestUpdate) {
	m := LoadManifest(path)
	pending := 0
	for u := range updates {
		if prev, ok := m[u.Code]; !ok || u.Last > prev {
			m[u.Code] = u.Last
		}
		pending++
		if pending >= manifestFlushEvery {
			writeManifest(path, m)
			pending = 0
		}
	}
	if pending > 0 {
		writeManifest(path, m)
	}
}

func writeManifest(path string, m map[string]string) {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		slog.Warn("manifest marshal error", "error", err)
		return
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		slog.Warn("manifest write error", "error", err)
	}
}
