package dat

import (
	"strings"

	"qmt-data/internal/model"
)

// intradayHints mark a path as holding intraday (5-minute) bars.
var intradayHints = []string{"5m", "min"}

// DetectKind infers the data-set kind from a file path.
// Matching is a case-insensitive substring test on the whole path.
func DetectKind(path string) model.Kind {
	p := strings.ToLower(path)
	for _, h := range intradayHints {
		if strings.Contains(p, h) {
			return model.Intraday
		}
	}
	return model.Daily
}
