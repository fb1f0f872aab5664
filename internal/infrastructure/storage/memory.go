package storage

import (
	"context"
	"sync"

	"tradelog/internal/application/port"
	"tradelog/internal/domain/model"
)

// MemoryRepo is a simple in-memory trade ledger, used for tests and the
// "memory" backend.
type MemoryRepo struct {
	mu     sync.Mutex
	trades []*model.Trade
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		trades: make([]*model.Trade, 0),
	}
}

func (r *MemoryRepo) Append(ctx context.Context, t *model.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.trades = append(r.trades, &cp)
	return nil
}

func (r *MemoryRepo) ListAll(ctx context.Context) ([]*model.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Trade, len(r.trades))
	copy(out, r.trades)
	return out, nil
}

func (r *MemoryRepo) Close() error { return nil }

var _ port.TradeRepository = (*MemoryRepo)(nil)
