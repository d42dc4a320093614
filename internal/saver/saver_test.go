package saver

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"qmt-data/internal/model"
)

func pct(v float64) *float64 { return &v }

func dailyTable() model.Table {
	return model.Table{Kind: model.Daily, Bars: []model.Bar{
		{Code: "000001", Kind: model.Daily, Timestamp: "2023-11-14", Open: 10, High: 10.5, Low: 9.9, Close: 10.2, Volume: 50000, Amount: 5000000},
		{Code: "000001", Kind: model.Daily, Timestamp: "2023-11-15", Open: 10.2, High: 10.6, Low: 10.1, Close: 10.5, Volume: 60000, Amount: 6300000, PctChange: pct(2.5)},
	}}
}

func TestNewTableSaver(t *testing.T) {
	for _, f := range Formats {
		s := NewTableSaver(f)
		require.NotNil(t, s, f)
		assert.Equal(t, f, s.Extension())
	}
	assert.NotNil(t, NewTableSaver(" CSV "))
	assert.Nil(t, NewTableSaver("feather"))
}

func TestCSVSaver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, CSVSaver{}.Save(dailyTable(), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(raw), "\xEF\xBB\xBF"))

	lines := strings.Split(strings.TrimSpace(string(raw[3:])), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "code,date,open,high,low,close,volume,amount,pct_change", lines[0])
	assert.Equal(t, "000001,2023-11-14,10,10.5,9.9,10.2,50000,5000000,", lines[1])
	assert.Equal(t, "000001,2023-11-15,10.2,10.6,10.1,10.5,60000,6300000,2.5", lines[2])
}

func TestCSVSaverIntradayHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, CSVSaver{}.Save(model.Table{Kind: model.Intraday}, path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "code,datetime,open,high,low,close,volume,amount,pct_change", strings.TrimSpace(string(raw[3:])))
}

func TestJSONSaver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, JSONSaver{}.Save(dailyTable(), path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(raw, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "2023-11-14", rows[0]["date"])
	assert.Nil(t, rows[0]["pct_change"])
	assert.Equal(t, 2.5, rows[1]["pct_change"])
}

func TestParquetSaver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.parquet")
	require.NoError(t, ParquetSaver{}.Save(dailyTable(), path))

	rows, err := parquet.ReadFile[model.DailyRow](path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "000001", rows[0].Code)
	assert.Equal(t, 10.2, rows[0].Close)
	assert.Nil(t, rows[0].PctChange)
	require.NotNil(t, rows[1].PctChange)
	assert.Equal(t, 2.5, *rows[1].PctChange)
}

func TestXLSXSaver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, XLSXSaver{}.Save(dailyTable(), path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, model.Columns(model.Daily), rows[0])
	assert.Equal(t, "000001", rows[1][0])
	assert.Equal(t, "10.5", rows[2][5])
}
