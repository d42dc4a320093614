package store

import (
	"time"

	"qmt-data/internal/model"
)

// BarRecord is the persisted form of a bar, unique per (code, kind, ts).
type BarRecord struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:16;not null;uniqueIndex:uidx_bars_code_kind_ts,priority:1"`
	Kind      string    `gorm:"size:8;not null;uniqueIndex:uidx_bars_code_kind_ts,priority:2"`
	Ts        string    `gorm:"column:ts;size:19;not null;uniqueIndex:uidx_bars_code_kind_ts,priority:3"`
	Open      float64   `gorm:"not null"`
	High      float64   `gorm:"not null"`
	Low       float64   `gorm:"not null"`
	Close     float64   `gorm:"not null"`
	Volume    int64     `gorm:"not null"`
	Amount    float64   `gorm:"not null"`
	PctChange *float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (BarRecord) TableName() string { return "bars" }

func toRecord(b model.Bar) BarRecord {
	return BarRecord{
		Code:      b.Code,
		Kind:      b.Kind.String(),
		Ts:        b.Timestamp,
		Open:      b.Open,
		High:      b.High,
		Low:       b.Low,
		Close:     b.Close,
		Volume:    b.Volume,
		Amount:    b.Amount,
		PctChange: b.PctChange,
	}
}

func (r BarRecord) toBar() model.Bar {
	return model.Bar{
		Code:      r.Code,
		Kind:      model.ParseKind(r.Kind),
		Timestamp: r.Ts,
		Open:      r.Open,
		High:      r.High,
		Low:       r.Low,
		Close:     r.Close,
		Volume:    r.Volume,
		Amount:    r.Amount,
		PctChange: r.PctChange,
	}
}
