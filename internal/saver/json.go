package saver

import (
	"encoding/json"
	"os"

	"qmt-data/internal/model"
)

// JSONSaver writes the table as an indented JSON array of rows.
type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) Save(t model.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(t.Rows()); err != nil {
		return err
	}
	return f.Close()
}
