package dat

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"qmt-data/internal/model"
)

// FileError reports a DAT file that could not be read.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string { return fmt.Sprintf("dat: read %s: %v", e.Path, e.Err) }
func (e *FileError) Unwrap() error { return e.Err }

// Parser decodes DAT files into series with fixed Options.
type Parser struct {
	opts Options
}

func NewParser(opts Options) *Parser {
	if opts.Location == nil {
		opts.Location = DefaultOptions().Location
	}
	return &Parser{opts: opts}
}

func (p *Parser) Options() Options { return p.opts }

// ParseFile reads path fully and decodes it. On a read failure the returned
// series is empty and the error is a *FileError.
func (p *Parser) ParseFile(path string) (model.Series, ScanStats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EmptySeries(path), ScanStats{}, &FileError{Path: path, Err: err}
	}
	s, stats := p.ParseBytes(path, data)
	return s, stats, nil
}

// ParseBytes decodes the contents of one file. path only drives kind
// detection and the instrument code.
func (p *Parser) ParseBytes(path string, data []byte) (model.Series, ScanStats) {
	kind := DetectKind(path)
	bars, stats := ScanBars(data, kind, p.opts)
	return buildSeries(InstrumentCode(path), kind, bars), stats
}

// BuildSeries attaches the instrument code, orders bars by timestamp and
// derives pct_change. bars must come from a single file.
func BuildSeries(path string, bars []model.Bar) model.Series {
	return buildSeries(InstrumentCode(path), DetectKind(path), bars)
}

func buildSeries(code string, kind model.Kind, bars []model.Bar) model.Series {
	s := model.Series{Code: code, Kind: kind, Bars: []model.Bar{}}
	if len(bars) == 0 {
		return s
	}

	out := make([]model.Bar, len(bars))
	copy(out, bars)
	for i := range out {
		out[i].Code = s.Code
		out[i].Kind = s.Kind
		out[i].PctChange = nil
	}

	// Both timestamp layouts are zero-padded, so string order is time order.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })

	for i := 1; i < len(out); i++ {
		out[i].PctChange = PctChange(out[i-1].Close, out[i].Close)
	}
	s.Bars = out
	return s
}

// PctChange is (cur/prev - 1) * 100, or nil when prev is zero.
func PctChange(prev, cur float64) *float64 {
	if prev == 0 {
		return nil
	}
	v := (cur/prev - 1) * 100
	return &v
}

// InstrumentCode is the file base name without its extension.
func InstrumentCode(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == base {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// EmptySeries is the explicit zero-bar result for path.
func EmptySeries(path string) model.Series {
	return model.Series{Code: InstrumentCode(path), Kind: DetectKind(path), Bars: []model.Bar{}}
}
