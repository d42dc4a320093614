package dat

import (
	"encoding/binary"
	"fmt"
)

const (
	// RecordSize is the byte width of one DAT record.
	RecordSize = 32
	// PairSize is one price record followed by its volume record.
	PairSize = 2 * RecordSize

	fieldsPerRecord = RecordSize / 4
)

// Record is one DAT record decoded as eight little-endian uint32 fields.
type Record [fieldsPerRecord]uint32

// DecodeError reports a record slice shorter than RecordSize.
type DecodeError struct {
	Len int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("dat: record needs %d bytes, got %d", RecordSize, e.Len)
}

// DecodeRecord interprets the first RecordSize bytes of b.
func DecodeRecord(b []byte) (Record, error) {
	var r Record
	if len(b) < RecordSize {
		return r, &DecodeError{Len: len(b)}
	}
	for i := range r {
		r[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	return r, nil
}
