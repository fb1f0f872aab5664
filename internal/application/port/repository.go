package port

import (
	"context"
	"errors"

	"tradelog/internal/domain/model"
)

var (
	// ErrStoreUnavailable means the backing store could not be opened or read.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrWriteFailed means the store rejected an append.
	ErrWriteFailed = errors.New("write failed")
)

// TradeRepository is the append-only trade ledger.
type TradeRepository interface {
	// Append stores a single trade as one atomic row.
	Append(ctx context.Context, t *model.Trade) error

	// ListAll returns the full history in append order.
	ListAll(ctx context.Context) ([]*model.Trade, error)

	// Connection management
	Close() error
}
