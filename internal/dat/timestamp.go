package dat

import (
	"strconv"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"

	// Epoch seconds strictly inside (minEpoch, maxEpoch) are treated as timestamps.
	minEpoch = 1_500_000_000
	maxEpoch = 2_000_000_000
)

// IsEpoch reports whether v is a plausible Unix timestamp for this format.
func IsEpoch(v int64) bool {
	return v > minEpoch && v < maxEpoch
}

// FormatTimestamp renders v as a date (or date-time when precise) in loc.
// Values outside the epoch window come back as their decimal form.
// A nil loc means time.Local.
func FormatTimestamp(v int64, precise bool, loc *time.Location) string {
	if !IsEpoch(v) {
		return strconv.FormatInt(v, 10)
	}
	if loc == nil {
		loc = time.Local
	}
	t := time.Unix(v, 0).In(loc)
	if precise {
		return t.Format(DateTimeLayout)
	}
	return t.Format(DateLayout)
}
