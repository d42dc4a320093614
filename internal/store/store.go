package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"qmt-data/internal/model"
)

const (
	insertBatchSize = 2000
	defaultLimit    = 1000
	maxLimit        = 50000
)

// ErrNotFound is returned when no bar matches a lookup.
var ErrNotFound = errors.New("store: not found")

// BarStore persists bars in Postgres through gorm.
type BarStore struct {
	db *gorm.DB
}

// Open connects to dsn, configures the pool and migrates the schema.
func Open(dsn string) (*BarStore, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(16)
	sqlDB.SetMaxIdleConns(16)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	s := New(db)
	if err := s.Migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an existing gorm handle.
func New(db *gorm.DB) *BarStore {
	return &BarStore{db: db}
}

func (s *BarStore) Migrate() error {
	if err := s.db.AutoMigrate(&BarRecord{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (s *BarStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveSeries upserts every bar of a series in one transaction.
func (s *BarStore) SaveSeries(ctx context.Context, series model.Series) error {
	if series.Empty() {
		return nil
	}
	records := dedupeByTs(series.Bars)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(upsertClause()).CreateInBatches(records, insertBatchSize).Error
	})
}

// dedupeByTs maps bars to records, keeping one record per timestamp.
// Postgres rejects an upsert that touches the same conflict row twice,
// so a later bar replaces an earlier one with the same timestamp in place.
func dedupeByTs(bars []model.Bar) []BarRecord {
	records := make([]BarRecord, 0, len(bars))
	seen := make(map[string]int, len(bars))
	for _, b := range bars {
		r := toRecord(b)
		if i, ok := seen[r.Ts]; ok {
			records[i] = r
			continue
		}
		seen[r.Ts] = len(records)
		records = append(records, r)
	}
	return records
}

func upsertClause() clause.OnConflict {
	return clause.OnConflict{
		Columns: []clause.Column{{Name: "code"}, {Name: "kind"}, {Name: "ts"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"open", "high", "low", "close", "volume", "amount", "pct_change", "updated_at",
		}),
	}
}

// Query selects bars for one instrument; From and To are inclusive timestamp strings.
type Query struct {
	Code  string
	Kind  string
	From  string
	To    string
	Limit int
}

func (q Query) limit() int {
	switch {
	case q.Limit <= 0:
		return defaultLimit
	case q.Limit > maxLimit:
		return maxLimit
	default:
		return q.Limit
	}
}

func (q Query) apply(db *gorm.DB) *gorm.DB {
	db = db.Where("code = ?", q.Code)
	if q.Kind != "" {
		db = db.Where("kind = ?", q.Kind)
	}
	if q.From != "" {
		db = db.Where("ts >= ?", q.From)
	}
	if q.To != "" {
		db = db.Where("ts <= ?", q.To)
	}
	return db
}

// Bars returns matching bars in ascending time order.
func (s *BarStore) Bars(ctx context.Context, q Query) ([]model.Bar, error) {
	var records []BarRecord
	err := q.apply(s.db.WithContext(ctx).Model(&BarRecord{})).
		Order("ts ASC").
		Limit(q.limit()).
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	bars := make([]model.Bar, len(records))
	for i, r := range records {
		bars[i] = r.toBar()
	}
	return bars, nil
}

// Latest returns the most recent bar of code, optionally restricted to kind.
func (s *BarStore) Latest(ctx context.Context, code, kind string) (model.Bar, error) {
	var r BarRecord
	err := Query{Code: code, Kind: kind}.apply(s.db.WithContext(ctx).Model(&BarRecord{})).
		Order("ts DESC").
		Take(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Bar{}, ErrNotFound
	}
	if err != nil {
		return model.Bar{}, err
	}
	return r.toBar(), nil
}
