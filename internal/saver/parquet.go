package saver

import (
	"github.com/parquet-go/parquet-go"

	"qmt-data/internal/model"
)

// ParquetSaver writes the table as a Parquet file; pct_change is an optional column.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) Save(t model.Table, path string) error {
	if t.Kind == model.Intraday {
		return parquet.WriteFile(path, t.IntradayRows())
	}
	return parquet.WriteFile(path, t.DailyRows())
}
