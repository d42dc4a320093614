package model

// Kind is the data-set granularity of a DAT file, resolved once per file.
type Kind uint8

const (
	Daily Kind = iota
	Intraday
)

func (k Kind) String() string {
	if k == Intraday {
		return "intraday"
	}
	return "daily"
}

// TimeField is the output column name of the timestamp: date or datetime.
func (k Kind) TimeField() string {
	if k == Intraday {
		return "datetime"
	}
	return "date"
}

// Precise reports whether timestamps carry a time of day.
func (k Kind) Precise() bool { return k == Intraday }

// ParseKind is the inverse of String. Unknown values map to Daily.
func ParseKind(s string) Kind {
	if s == "intraday" {
		return Intraday
	}
	return Daily
}
