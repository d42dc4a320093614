package dat

import (
	"time"

	"qmt-data/internal/model"
)

// Options carries the scaling thresholds used by the bar assembler.
// The volume and amount conventions are not documented by the vendor,
// so they are kept configurable; DefaultOptions matches observed files.
type Options struct {
	Location *time.Location

	DailyPriceCeiling    uint32 // exclusive upper bound for raw daily prices
	IntradayPriceCeiling uint32 // exclusive upper bound for raw intraday prices

	IntradayAmountThreshold uint32  // raw intraday amounts above this are divided
	IntradayAmountDivisor   float64 // divisor applied above the threshold
	DailyVolumeMultiplier   int64   // daily volume is stored in lots
}

func DefaultOptions() Options {
	return Options{
		Location:                time.Local,
		DailyPriceCeiling:       1_000_000,
		IntradayPriceCeiling:    10_000_000,
		IntradayAmountThreshold: 1_000_000,
		IntradayAmountDivisor:   100,
		DailyVolumeMultiplier:   100,
	}
}

func (o Options) priceCeiling(k model.Kind) uint32 {
	if k == model.Intraday {
		return o.IntradayPriceCeiling
	}
	return o.DailyPriceCeiling
}
