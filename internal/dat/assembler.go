package dat

import (
	"math"

	"qmt-data/internal/model"
)

// Rejection names why a record pair did not become a bar.
type Rejection uint8

const (
	RejectNone Rejection = iota
	RejectShortRecord
	RejectTimestamp
	RejectPriceRange
	RejectZeroOrNegative
	RejectInconsistent

	rejectionCount
)

var rejectionNames = [rejectionCount]string{
	RejectNone:           "none",
	RejectShortRecord:    "short_record",
	RejectTimestamp:      "timestamp",
	RejectPriceRange:     "price_range",
	RejectZeroOrNegative: "zero_or_negative",
	RejectInconsistent:   "inconsistent",
}

func (r Rejection) String() string {
	if r < rejectionCount {
		return rejectionNames[r]
	}
	return "unknown"
}

// Rejections lists every reason other than RejectNone.
func Rejections() []Rejection {
	out := make([]Rejection, 0, rejectionCount-1)
	for r := RejectShortRecord; r < rejectionCount; r++ {
		out = append(out, r)
	}
	return out
}

// AssembleBar turns one (price, volume) record pair into a bar.
// The returned Rejection is RejectNone exactly when the bar is valid.
// Code and PctChange are left for the series builder.
func AssembleBar(price, volume Record, kind model.Kind, opts Options) (model.Bar, Rejection) {
	ts := int64(price[2])
	if !IsEpoch(ts) {
		return model.Bar{}, RejectTimestamp
	}

	ceiling := opts.priceCeiling(kind)
	inRange := 0
	for _, p := range price[3:7] {
		if p > 0 && p < ceiling {
			inRange++
		}
	}
	if inRange < 3 {
		return model.Bar{}, RejectPriceRange
	}

	open := ScalePrice(price[3])
	high := ScalePrice(price[4])
	low := ScalePrice(price[5])
	closePrice := ScalePrice(price[6])

	var vol int64
	var amount float64
	rawAmount := volume[2]
	if kind == model.Intraday {
		vol = int64(volume[0])
		if rawAmount > opts.IntradayAmountThreshold {
			amount = roundQuotient(rawAmount, opts.IntradayAmountDivisor)
		} else {
			amount = float64(rawAmount)
		}
	} else {
		vol = int64(volume[0]) * opts.DailyVolumeMultiplier
		amount = float64(rawAmount)
	}

	if open == 0 && high == 0 && low == 0 && closePrice == 0 {
		return model.Bar{}, RejectZeroOrNegative
	}
	if open < 0 || high < 0 || low < 0 || closePrice < 0 {
		return model.Bar{}, RejectZeroOrNegative
	}
	if high < low || high < math.Max(open, closePrice) || low > math.Min(open, closePrice) {
		return model.Bar{}, RejectInconsistent
	}

	return model.Bar{
		Kind:      kind,
		Timestamp: FormatTimestamp(ts, kind.Precise(), opts.Location),
		Open:      roundScaledPrice(price[3]),
		High:      roundScaledPrice(price[4]),
		Low:       roundScaledPrice(price[5]),
		Close:     roundScaledPrice(price[6]),
		Volume:    vol,
		Amount:    Round2(amount),
	}, RejectNone
}

// ScanStats counts what happened to the record pairs of one file.
type ScanStats struct {
	Pairs     int
	Accepted  int
	Rejected  [rejectionCount]int
	Truncated bool // a short record stopped the scan
}

// RejectedTotal sums all rejection counters.
func (s ScanStats) RejectedTotal() int {
	n := 0
	for _, c := range s.Rejected {
		n += c
	}
	return n
}

// ScanBars walks data in non-overlapping (price, volume) pairs and returns the
// accepted bars in file order. A trailing unpaired record is ignored; a pair
// containing a short record ends the scan and keeps what was already accepted.
func ScanBars(data []byte, kind model.Kind, opts Options) ([]model.Bar, ScanStats) {
	var stats ScanStats
	records := (len(data) + RecordSize - 1) / RecordSize
	bars := make([]model.Bar, 0, records/2)

	for i := 0; i+1 < records; i += 2 {
		stats.Pairs++
		price, errP := DecodeRecord(recordAt(data, i))
		volume, errV := DecodeRecord(recordAt(data, i+1))
		if errP != nil || errV != nil {
			stats.Rejected[RejectShortRecord]++
			stats.Truncated = true
			break
		}

		bar, reason := AssembleBar(price, volume, kind, opts)
		if reason != RejectNone {
			stats.Rejected[reason]++
			continue
		}
		stats.Accepted++
		bars = append(bars, bar)
	}
	return bars, stats
}

func recordAt(data []byte, i int) []byte {
	start := i * RecordSize
	end := min(start+RecordSize, len(data))
	return data[start:end]
}
