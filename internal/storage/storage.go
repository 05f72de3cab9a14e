// Package storage persists analysis records in ClickHouse.
package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/navid-fn/radar/internal/models"
)

// Storage defines how analysis records are persisted and read back.
// Implementations must be safe for concurrent use.
type Storage interface {
	// CreateRecords inserts the records of one cycle as a single batch.
	CreateRecords(ctx context.Context, records []models.AnalysisRecord) error

	// LatestRecords returns the records of the most recent cycle ordered by symbol.
	LatestRecords(ctx context.Context) ([]models.AnalysisRecord, error)

	// Close releases database connection resources.
	Close() error
}

const insertRecords = `
	INSERT INTO arbitrage_record (
		captured_at, symbol,
		usdt_price, usdt_bid, usdt_ask, usdt_volume, usdt_quote_volume,
		tmn_price, tmn_bid, tmn_ask, tmn_volume, tmn_quote_volume,
		bridged_price, price_difference, percentage_difference,
		global_price, global_volume_24h, global_market_cap, global_percent_change_24h,
		inserted_at
	)
`

const selectLatestRecords = `
	SELECT
		captured_at, symbol,
		usdt_price, usdt_bid, usdt_ask, usdt_volume, usdt_quote_volume,
		tmn_price, tmn_bid, tmn_ask, tmn_volume, tmn_quote_volume,
		bridged_price, price_difference, percentage_difference,
		global_price, global_volume_24h, global_market_cap, global_percent_change_24h
	FROM arbitrage_record
	WHERE captured_at = (SELECT max(captured_at) FROM arbitrage_record)
	ORDER BY symbol
`

// clickhouseStorage implements Storage using the native ClickHouse driver.
type clickhouseStorage struct {
	conn driver.Conn
}

// NewClickHouseStorage parses the DSN, opens a connection and verifies it
// with a ping. It fails if the server does not answer within 5 seconds.
func NewClickHouseStorage(dsn string) (Storage, error) {
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	conn, err := clickhouse.Open(opts)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := conn.Ping(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping clickhouse: %w", err)
	}

	return &clickhouseStorage{conn: conn}, nil
}

func (s *clickhouseStorage) CreateRecords(ctx context.Context, records []models.AnalysisRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch, err := s.conn.PrepareBatch(ctx, insertRecords)
	if err != nil {
		return err
	}

	now := time.Now()
	for _, r := range records {
		if err := batch.Append(append(toRow(r).values(), now)...); err != nil {
			batch.Abort()
			return err
		}
	}

	return batch.Send()
}

func (s *clickhouseStorage) LatestRecords(ctx context.Context) ([]models.AnalysisRecord, error) {
	rows, err := s.conn.Query(ctx, selectLatestRecords)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []models.AnalysisRecord
	for rows.Next() {
		var row recordRow
		if err := rows.Scan(row.targets()...); err != nil {
			return nil, err
		}
		records = append(records, row.toRecord())
	}

	return records, rows.Err()
}

func (s *clickhouseStorage) Close() error {
	return s.conn.Close()
}
