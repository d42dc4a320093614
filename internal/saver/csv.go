package saver

import (
	"encoding/csv"
	"os"

	"qmt-data/internal/model"
)

// utf8BOM keeps spreadsheet tools from misreading the file encoding.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVSaver writes the table as UTF-8 CSV with a BOM and a header row.
// An undefined pct_change is written as an empty cell.
type CSVSaver struct{}

func (CSVSaver) Extension() string { return "csv" }

func (CSVSaver) Save(t model.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.Write(utf8BOM); err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := w.Write(model.Columns(t.Kind)); err != nil {
		return err
	}
	for _, b := range t.Bars {
		if err := w.Write(b.Record()); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}
