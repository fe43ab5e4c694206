package clickhouse

import (
	"context"
	"fmt"

	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"

	"github.com/iinyiska/dextrend/internal/domain"
	"github.com/iinyiska/dextrend/internal/storage"
)

// PriceHistoryStore implements storage.PriceHistoryStore using ClickHouse.
// Duplicate (chain, pair, timestamp) rows are collapsed by the
// ReplacingMergeTree engine rather than rejected at insert time.
type PriceHistoryStore struct {
	conn *Conn
}

// NewPriceHistoryStore creates a new PriceHistoryStore.
func NewPriceHistoryStore(conn *Conn) *PriceHistoryStore {
	return &PriceHistoryStore{conn: conn}
}

var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// InsertBulk appends price points in one batch.
func (s *PriceHistoryStore) InsertBulk(ctx context.Context, points []*domain.PricePoint) error {
	if len(points) == 0 {
		return nil
	}
	for _, p := range points {
		if p == nil || p.ChainID == "" || p.PairAddress == "" {
			return storage.ErrInvalidInput
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_history (
			chain_id, pair_address, timestamp_ms, price_usd, volume_h24, liquidity_usd
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(
			p.ChainID, p.PairAddress, uint64(p.TimestampMs),
			p.PriceUSD, p.VolumeH24, p.LiquidityUSD,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByPairRange retrieves points within [from, to] inclusive, ordered by
// timestamp ASC.
func (s *PriceHistoryStore) GetByPairRange(ctx context.Context, chainID, pairAddress string, from, to int64) ([]*domain.PricePoint, error) {
	rows, err := s.conn.Query(ctx, `
		SELECT chain_id, pair_address, timestamp_ms, price_usd, volume_h24, liquidity_usd
		FROM price_history
		WHERE chain_id = ? AND pair_address = ?
		  AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`, chainID, pairAddress, uint64(from), uint64(to))
	if err != nil {
		return nil, fmt.Errorf("query price history: %w", err)
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

func scanPricePoints(rows driver.Rows) ([]*domain.PricePoint, error) {
	var result []*domain.PricePoint
	for rows.Next() {
		var (
			p  domain.PricePoint
			ts uint64
		)
		if err := rows.Scan(&p.ChainID, &p.PairAddress, &ts, &p.PriceUSD, &p.VolumeH24, &p.LiquidityUSD); err != nil {
			return nil, fmt.Errorf("scan price point: %w", err)
		}
		p.TimestampMs = int64(ts)
		result = append(result, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate price history: %w", err)
	}
	return result, nil
}
