package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"tradelog/internal/application/port"
	"tradelog/internal/domain/model"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS trades (
  seq BIGSERIAL PRIMARY KEY,
  id TEXT NOT NULL UNIQUE,
  date TEXT NOT NULL,
  ticker TEXT NOT NULL,
  instrument_id TEXT NOT NULL,
  side TEXT NOT NULL,
  price DOUBLE PRECISION NOT NULL,
  qty BIGINT NOT NULL,
  fees DOUBLE PRECISION NOT NULL,
  recorded_at_ms BIGINT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trades_ticker ON trades(ticker);
`)
	return err
}

func (r *Repo) Append(ctx context.Context, t *model.Trade) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO trades(id, date, ticker, instrument_id, side, price, qty, fees, recorded_at_ms)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, t.ID, t.Date, t.Ticker, t.InstrumentID, t.Side, t.Price, t.Quantity, t.Fees, t.RecordedAt.UnixMilli())
	if err != nil {
		return fmt.Errorf("%w: %v", port.ErrWriteFailed, err)
	}
	return nil
}

func (r *Repo) ListAll(ctx context.Context) ([]*model.Trade, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, date, ticker, instrument_id, side, price, qty, fees, recorded_at_ms
		FROM trades ORDER BY seq
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var trades []*model.Trade
	for rows.Next() {
		var t model.Trade
		var ms int64
		if err := rows.Scan(&t.ID, &t.Date, &t.Ticker, &t.InstrumentID, &t.Side, &t.Price, &t.Quantity, &t.Fees, &ms); err != nil {
			return nil, fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
		}
		t.RecordedAt = time.UnixMilli(ms).UTC()
		trades = append(trades, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}
	return trades, nil
}

var _ port.TradeRepository = (*Repo)(nil)
