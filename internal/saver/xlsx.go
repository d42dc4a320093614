package saver

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"qmt-data/internal/model"
)

const sheetName = "Sheet1"

// XLSXSaver writes the table into the first sheet of an Excel workbook.
type XLSXSaver struct{}

func (XLSXSaver) Extension() string { return "xlsx" }

func (XLSXSaver) Save(t model.Table, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	cols := model.Columns(t.Kind)
	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i, b := range t.Bars {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, b.Values()); err != nil {
			return fmt.Errorf("row %d: %w", i+2, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	return f.SaveAs(path)
}
