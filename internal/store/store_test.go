package store

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"qmt-data/internal/model"
)

func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN: "host=localhost user=qmt dbname=qmt sslmode=disable",
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db
}

func TestRecordMapping(t *testing.T) {
	pct := 2.5
	b := model.Bar{Code: "000001", Kind: model.Intraday, Timestamp: "2023-11-14 09:35:00",
		Open: 10, High: 10.5, Low: 9.9, Close: 10.2, Volume: 500, Amount: 20000, PctChange: &pct}

	r := toRecord(b)
	assert.Equal(t, "intraday", r.Kind)
	assert.Equal(t, "2023-11-14 09:35:00", r.Ts)
	assert.Equal(t, b, r.toBar())
	assert.Equal(t, "bars", BarRecord{}.TableName())
}

func TestQueryLimit(t *testing.T) {
	assert.Equal(t, defaultLimit, Query{}.limit())
	assert.Equal(t, 10, Query{Limit: 10}.limit())
	assert.Equal(t, maxLimit, Query{Limit: maxLimit + 1}.limit())
}

func TestQuerySQL(t *testing.T) {
	db := dryRunDB(t)
	var records []BarRecord
	stmt := Query{Code: "000001", Kind: "daily", From: "2023-01-01", To: "2023-12-31"}.
		apply(db.Model(&BarRecord{})).
		Order("ts ASC").
		Limit(5).
		Find(&records).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, `FROM "bars"`)
	assert.Contains(t, sql, "code = $1 AND kind = $2 AND ts >= $3 AND ts <= $4")
	assert.Contains(t, sql, "ORDER BY ts ASC")
	require.GreaterOrEqual(t, len(stmt.Vars), 4)
	assert.Equal(t, []any{"000001", "daily", "2023-01-01", "2023-12-31"}, stmt.Vars[:4])
}

func TestUpsertSQL(t *testing.T) {
	db := dryRunDB(t)
	records := []BarRecord{toRecord(model.Bar{Code: "000001", Timestamp: "2023-11-14", Open: 10, High: 11, Low: 9, Close: 10})}
	stmt := db.Clauses(upsertClause()).Create(&records).Statement

	sql := stmt.SQL.String()
	assert.Contains(t, sql, `INSERT INTO "bars"`)
	assert.Contains(t, sql, `ON CONFLICT ("code","kind","ts") DO UPDATE SET`)
	assert.Contains(t, sql, `"pct_change"="excluded"."pct_change"`)
}

func TestDedupeByTsKeepsLastBar(t *testing.T) {
	bars := []model.Bar{
		{Code: "000001", Timestamp: "2023-11-14", Close: 10},
		{Code: "000001", Timestamp: "2023-11-14", Close: 10.5},
		{Code: "000001", Timestamp: "2023-11-15", Close: 11},
		{Code: "000001", Timestamp: "2023-11-15", Close: 11.2},
		{Code: "000001", Timestamp: "2023-11-16", Close: 12},
	}
	records := dedupeByTs(bars)
	require.Len(t, records, 3)
	assert.Equal(t, "2023-11-14", records[0].Ts)
	assert.Equal(t, 10.5, records[0].Close)
	assert.Equal(t, "2023-11-15", records[1].Ts)
	assert.Equal(t, 11.2, records[1].Close)
	assert.Equal(t, 12.0, records[2].Close)

	db := dryRunDB(t)
	stmt := db.Clauses(upsertClause()).Create(&records).Statement
	assert.Equal(t, 2, strings.Count(stmt.SQL.String(), "),("), "three VALUES tuples")
}
