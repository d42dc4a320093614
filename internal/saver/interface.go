package saver

import (
	"strings"

	"qmt-data/internal/model"
)

// TableSaver persists a combined bar table to one file.
// The batch runner depends only on this interface; main injects the format.
type TableSaver interface {
	Save(t model.Table, path string) error
	Extension() string
}

// Formats lists the accepted SAVE_FORMAT values.
var Formats = []string{"csv", "json", "parquet", "xlsx"}

// NewTableSaver creates an implementation by format (csv, json, parquet, xlsx).
// Returns nil if format not supported.
func NewTableSaver(format string) TableSaver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "csv":
		return CSVSaver{}
	case "json":
		return JSONSaver{}
	case "parquet":
		return ParquetSaver{}
	case "xlsx", "excel":
		return XLSXSaver{}
	default:
		return nil
	}
}
