package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/iinyiska/dextrend/internal/domain"
	"github.com/iinyiska/dextrend/internal/storage"
)

// PriceHistoryStore is an in-memory implementation of storage.PriceHistoryStore.
type PriceHistoryStore struct {
	mu   sync.RWMutex
	data map[string][]*domain.PricePoint // keyed by pair key
}

// NewPriceHistoryStore creates a new in-memory price history store.
func NewPriceHistoryStore() *PriceHistoryStore {
	return &PriceHistoryStore{data: make(map[string][]*domain.PricePoint)}
}

var _ storage.PriceHistoryStore = (*PriceHistoryStore)(nil)

// InsertBulk appends price points.
func (s *PriceHistoryStore) InsertBulk(_ context.Context, points []*domain.PricePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, p := range points {
		if p == nil || p.ChainID == "" || p.PairAddress == "" {
			return storage.ErrInvalidInput
		}
		key := domain.PairKey(p.ChainID, p.PairAddress)
		pointCopy := *p
		s.data[key] = append(s.data[key], &pointCopy)
	}
	return nil
}

// GetByPairRange retrieves points within [from, to] inclusive, ordered by
// timestamp ASC.
func (s *PriceHistoryStore) GetByPairRange(_ context.Context, chainID, pairAddress string, from, to int64) ([]*domain.PricePoint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.PricePoint
	for _, p := range s.data[domain.PairKey(chainID, pairAddress)] {
		if p.TimestampMs >= from && p.TimestampMs <= to {
			pointCopy := *p
			result = append(result, &pointCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].TimestampMs < result[j].TimestampMs
	})
	return result, nil
}
