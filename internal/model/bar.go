package model

import "strconv"

// Bar is one normalized OHLCV observation decoded from a DAT record pair.
// Timestamp holds either YYYY-MM-DD (Daily) or YYYY-MM-DD HH:MM:SS (Intraday).
type Bar struct {
	Code      string
	Kind      Kind
	Timestamp string
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
	Amount    float64
	PctChange *float64 // nil for the first bar of a series
}

// Record returns the bar as string cells in Columns order.
func (b Bar) Record() []string {
	pct := ""
	if b.PctChange != nil {
		pct = floatStr(*b.PctChange)
	}
	return []string{
		b.Code,
		b.Timestamp,
		floatStr(b.Open),
		floatStr(b.High),
		floatStr(b.Low),
		floatStr(b.Close),
		strconv.FormatInt(b.Volume, 10),
		floatStr(b.Amount),
		pct,
	}
}

// Values returns the bar as typed cells in Columns order. A nil pct_change stays nil.
func (b Bar) Values() []any {
	var pct any
	if b.PctChange != nil {
		pct = *b.PctChange
	}
	return []any{b.Code, b.Timestamp, b.Open, b.High, b.Low, b.Close, b.Volume, b.Amount, pct}
}

func floatStr(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
