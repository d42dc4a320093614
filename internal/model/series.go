package model

// Series is the ordered set of bars decoded from one file.
type Series struct {
	Code string
	Kind Kind
	Bars []Bar
}

func (s Series) Len() int    { return len(s.Bars) }
func (s Series) Empty() bool { return len(s.Bars) == 0 }

// Table is a concatenation of series sharing one Kind, ready for serialization.
type Table struct {
	Kind Kind
	Bars []Bar
}

// Columns returns the output schema for a kind; order is significant.
func Columns(k Kind) []string {
	return []string{"code", k.TimeField(), "open", "high", "low", "close", "volume", "amount", "pct_change"}
}

// DailyRow and IntradayRow are the serialized row shapes (json, parquet).
type DailyRow struct {
	Code      string   `json:"code" parquet:"code"`
	Date      string   `json:"date" parquet:"date"`
	Open      float64  `json:"open" parquet:"open"`
	High      float64  `json:"high" parquet:"high"`
	Low       float64  `json:"low" parquet:"low"`
	Close     float64  `json:"close" parquet:"close"`
	Volume    int64    `json:"volume" parquet:"volume"`
	Amount    float64  `json:"amount" parquet:"amount"`
	PctChange *float64 `json:"pct_change" parquet:"pct_change,optional"`
}

type IntradayRow struct {
	Code      string   `json:"code" parquet:"code"`
	Datetime  string   `json:"datetime" parquet:"datetime"`
	Open      float64  `json:"open" parquet:"open"`
	High      float64  `json:"high" parquet:"high"`
	Low       float64  `json:"low" parquet:"low"`
	Close     float64  `json:"close" parquet:"close"`
	Volume    int64    `json:"volume" parquet:"volume"`
	Amount    float64  `json:"amount" parquet:"amount"`
	PctChange *float64 `json:"pct_change" parquet:"pct_change,optional"`
}

func (t Table) DailyRows() []DailyRow {
	rows := make([]DailyRow, len(t.Bars))
	for i, b := range t.Bars {
		rows[i] = DailyRow{b.Code, b.Timestamp, b.Open, b.High, b.Low, b.Close, b.Volume, b.Amount, b.PctChange}
	}
	return rows
}

func (t Table) IntradayRows() []IntradayRow {
	rows := make([]IntradayRow, len(t.Bars))
	for i, b := range t.Bars {
		rows[i] = IntradayRow{b.Code, b.Timestamp, b.Open, b.High, b.Low, b.Close, b.Volume, b.Amount, b.PctChange}
	}
	return rows
}

// Rows returns DailyRows or IntradayRows depending on the table kind.
func (t Table) Rows() any {
	if t.Kind == Intraday {
		return t.IntradayRows()
	}
	return t.DailyRows()
}
