package batch

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qmt-data/internal/dat"
	"qmt-data/internal/metrics"
	"qmt-data/internal/model"
	"qmt-data/internal/saver"
	"qmt-data/internal/source"
)

const ts0 = 1700000000

func encodePair(ts, open, high, low, close, vol, amount uint32) []byte {
	b := make([]byte, dat.PairSize)
	for i, f := range []uint32{0, 0, ts, open, high, low, close, 0} {
		binary.LittleEndian.PutUint32(b[i*4:], f)
	}
	binary.LittleEndian.PutUint32(b[dat.RecordSize:], vol)
	binary.LittleEndian.PutUint32(b[dat.RecordSize+8:], amount)
	return b
}

func dailyBars(n int) []byte {
	var data []byte
	for i := 0; i < n; i++ {
		data = append(data, encodePair(uint32(ts0+i*86400), 10000, 10500, 9900, 10200, 500, 5000000)...)
	}
	return data
}

type fakeSource struct {
	files []string
	data  map[string][]byte
}

func (s *fakeSource) GetName() string          { return "fake" }
func (s *fakeSource) Files() ([]string, error) { return s.files, nil }
func (s *fakeSource) Close() error             { return nil }
func (s *fakeSource) ReadFile(p string) ([]byte, error) {
	d, ok := s.data[p]
	if !ok {
		return nil, os.ErrPermission
	}
	return d, nil
}

type recordingSink struct {
	mu    sync.Mutex
	codes []string
}

func (s *recordingSink) SaveSeries(_ context.Context, series model.Series) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.codes = append(s.codes, series.Code)
	return nil
}

func newRunner(workers int) *Runner {
	opts := dat.DefaultOptions()
	opts.Location = time.UTC
	return &Runner{
		Parser:    dat.NewParser(opts),
		Saver:     saver.CSVSaver{},
		Workers:   workers,
		Heartbeat: time.Hour,
		LogOutput: io.Discard,
	}
}

func TestRunDirectory(t *testing.T) {
	dataDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "shenzhen_daily")
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "000001.DAT"), dailyBars(3), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "000002.DAT"), dailyBars(2), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "000003.DAT"), make([]byte, 64), 0o644))

	reg := prometheus.NewRegistry()
	r := newRunner(1)
	r.Metrics = metrics.New(reg)
	sink := &recordingSink{}
	r.Sink = sink

	res, err := r.Run(context.Background(), source.NewDirSource(dataDir, "*.DAT"), outDir)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Files)
	assert.Equal(t, 2, res.WithData)
	assert.Equal(t, 1, res.Empty)
	assert.Equal(t, 0, res.Failed)
	assert.Equal(t, 5, res.Rows)
	assert.Equal(t, 2, res.Codes)
	require.Len(t, res.Tables, 1)
	assert.Equal(t, []string{filepath.Join(outDir, "all_stocks_data.csv")}, res.Outputs)
	assert.ElementsMatch(t, []string{"000001", "000002"}, sink.codes)

	raw, err := os.ReadFile(res.Outputs[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Len(t, lines, 6)
	assert.True(t, strings.HasPrefix(lines[1], "000001,2023-11-14,"))
	assert.True(t, strings.HasPrefix(lines[4], "000002,2023-11-14,"))

	manifest := LoadManifest(ManifestPath(outDir))
	assert.Equal(t, map[string]string{"000001": "2023-11-16", "000002": "2023-11-15"}, manifest)

	var success successReport
	data, err := os.ReadFile(filepath.Join(outDir, successReportName))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &success))
	assert.Equal(t, res.RunID, success.RunID)
	assert.Equal(t, []string{"000001", "000002"}, success.Codes)
	assert.Equal(t, []string{filepath.Join(dataDir, "000003.DAT")}, success.Empty)
	assert.NoFileExists(t, filepath.Join(outDir, failedReportName))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.Metrics.FilesTotal.WithLabelValues(metrics.OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Metrics.RejectionsTotal.WithLabelValues("timestamp")))
}

func TestRunReadFailureDoesNotAbort(t *testing.T) {
	src := &fakeSource{
		files: []string{"d/000001.DAT", "d/locked.DAT"},
		data:  map[string][]byte{"d/000001.DAT": dailyBars(1)},
	}
	res, err := newRunner(2).Run(context.Background(), src, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 1, res.WithData)
	assert.Equal(t, 1, res.Failed)

	fr := res.Reports[1]
	var fe *dat.FileError
	require.True(t, errors.As(fr.Err, &fe))
	assert.Equal(t, "d/locked.DAT", fe.Path)
	assert.True(t, fr.Series.Empty())
}

func TestRunReportReplacesPreviousRun(t *testing.T) {
	out := t.TempDir()
	first := &fakeSource{
		files: []string{"d/000001.DAT", "d/locked.DAT"},
		data:  map[string][]byte{"d/000001.DAT": dailyBars(1)},
	}
	_, err := newRunner(1).Run(context.Background(), first, out)
	require.NoError(t, err)
	require.FileExists(t, filepath.Join(out, failedReportName))
	require.FileExists(t, filepath.Join(out, successReportName))

	second := &fakeSource{
		files: []string{"d/000002.DAT"},
		data:  map[string][]byte{"d/000002.DAT": dailyBars(2)},
	}
	res, err := newRunner(1).Run(context.Background(), second, out)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(out, failedReportName))

	var success successReport
	data, err := os.ReadFile(filepath.Join(out, successReportName))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &success))
	assert.Equal(t, res.RunID, success.RunID)
	assert.Equal(t, []string{"000002"}, success.Codes)

	third := &fakeSource{files: []string{"d/locked.DAT"}, data: map[string][]byte{}}
	_, err = newRunner(1).Run(context.Background(), third, out)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(out, successReportName))
	assert.FileExists(t, filepath.Join(out, failedReportName))
}

func TestRunSplitsKinds(t *testing.T) {
	src := &fakeSource{
		files: []string{"sh5mK/600000.DAT", "shdayK/600000.DAT"},
		data: map[string][]byte{
			"sh5mK/600000.DAT":  dailyBars(2),
			"shdayK/600000.DAT": dailyBars(1),
		},
	}
	out := t.TempDir()
	res, err := newRunner(1).Run(context.Background(), src, out)
	require.NoError(t, err)
	require.Len(t, res.Tables, 2)
	assert.Equal(t, model.Daily, res.Tables[0].Kind)
	assert.Equal(t, model.Intraday, res.Tables[1].Kind)
	assert.Equal(t, []string{
		filepath.Join(out, "all_stocks_data_daily.csv"),
		filepath.Join(out, "all_stocks_data_intraday.csv"),
	}, res.Outputs)
	assert.Equal(t, 1, res.Codes)
}

func TestRunWorkersKeepFileOrder(t *testing.T) {
	dataDir := t.TempDir()
	for _, code := range []string{"000001", "000002", "000003", "000004", "000005"} {
		require.NoError(t, os.WriteFile(filepath.Join(dataDir, code+".DAT"), dailyBars(4), 0o644))
	}
	serial, err := newRunner(1).Run(context.Background(), source.NewDirSource(dataDir, ""), t.TempDir())
	require.NoError(t, err)
	parallel, err := newRunner(4).Run(context.Background(), source.NewDirSource(dataDir, ""), t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, serial.Tables, parallel.Tables)
}

func TestRunNoFiles(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out")
	res, err := newRunner(1).Run(context.Background(), source.NewDirSource(t.TempDir(), ""), out)
	require.NoError(t, err)
	assert.Zero(t, res.Files)
	assert.Empty(t, res.Outputs)
}

func TestRunCanceled(t *testing.T) {
	src := &fakeSource{files: []string{"a/1.DAT"}, data: map[string][]byte{"a/1.DAT": dailyBars(1)}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newRunner(1).Run(ctx, src, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunManifestWriterKeepsLatest(t *testing.T) {
	p := filepath.Join(t.TempDir(), ".lastbar.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"000001":"2024-01-05"}`), 0o644))

	updates := make(chan ManifestUpdate, 3)
	updates <- ManifestUpdate{Code: "000001", Last: "2024-01-02"}
	updates <- ManifestUpdate{Code: "000002", Last: "2024-01-03"}
	close(updates)
	RunManifestWriter(p, updates)

	assert.Equal(t, map[string]string{"000001": "2024-01-05", "000002": "2024-01-03"}, LoadManifest(p))
}

func TestJoinFailedReasons(t *testing.T) {
	var list []failedEntry
	for i := 0; i < 8; i++ {
		list = append(list, failedEntry{File: "/x/f.DAT", Reason: "no data"})
	}
	s := joinFailedReasons(list)
	assert.Contains(t, s, "f.DAT: no data")
	assert.Contains(t, s, "(+3 more)")
	assert.Empty(t, joinFailedReasons(nil))
}
