package redisrepo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"tradelog/internal/application/port"
	"tradelog/internal/domain/model"
)

// Repo mirrors appended trades into a Redis stream and a pub/sub
// channel for downstream consumers. It is write-only: the stream is a
// mirror of the ledger, not a source of history.
type Repo struct {
	rdb     *redis.Client
	stream  string
	channel string
}

func New(rdb *redis.Client, prefix, stream string) *Repo {
	if stream == "" {
		stream = prefix + ":trades"
	}
	return &Repo{
		rdb:     rdb,
		stream:  stream,
		channel: prefix + ":trades:pub",
	}
}

func (r *Repo) Append(ctx context.Context, t *model.Trade) error {
	// 1) Stream: XADD <stream> * id ticker side price qty fees date ts
	_, err := r.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: r.stream,
		Values: map[string]any{
			"id":     t.ID,
			"date":   t.Date,
			"ticker": t.Ticker,
			"figi":   t.InstrumentID,
			"side":   t.Side,
			"price":  t.Price,
			"qty":    t.Quantity,
			"fees":   t.Fees,
			"ts_ms":  t.RecordedAt.UnixMilli(),
		},
	}).Result()
	if err != nil {
		return fmt.Errorf("%w: %v", port.ErrWriteFailed, err)
	}

	// 2) PubSub: PUBLISH <channel> json
	b, _ := json.Marshal(t)
	if err := r.rdb.Publish(ctx, r.channel, string(b)).Err(); err != nil {
		return fmt.Errorf("%w: %v", port.ErrWriteFailed, err)
	}
	return nil
}

func (r *Repo) ListAll(ctx context.Context) ([]*model.Trade, error) {
	return nil, fmt.Errorf("%w: redis mirror is write-only", port.ErrStoreUnavailable)
}

func (r *Repo) Close() error { return r.rdb.Close() }

var _ port.TradeRepository = (*Repo)(nil)
