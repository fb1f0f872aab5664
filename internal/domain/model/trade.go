package model

import (
	"strings"
	"time"
)

// Trade sides. Anything else is carried through unvalidated and ignored
// by the P/L replay.
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// Trade is one ingested execution record. Records are append-only:
// once written to the ledger they are never updated or deleted.
type Trade struct {
	ID           string    `json:"id"`
	Date         string    `json:"date"` // YYYY-MM-DD
	Ticker       string    `json:"ticker"`
	InstrumentID string    `json:"instrument_id"`
	Side         string    `json:"side"`
	Price        float64   `json:"price"`
	Quantity     int64     `json:"qty"`
	Fees         float64   `json:"fees"`
	RecordedAt   time.Time `json:"recorded_at"`
}

// Header is the fixed first row of the trade sheet.
func Header() []string {
	return []string{"Date", "Ticker", "InstrumentId", "Side", "Price", "Quantity", "Fees", "Timestamp"}
}

// Row returns the trade as the 8 ordered sheet columns.
func (t *Trade) Row() []any {
	return []any{
		t.Date,
		t.Ticker,
		t.InstrumentID,
		t.Side,
		t.Price,
		t.Quantity,
		t.Fees,
		t.RecordedAt.UTC().Format(time.RFC3339),
	}
}

// IsBuy reports whether the side matches BUY, case-insensitively.
func (t *Trade) IsBuy() bool {
	return strings.EqualFold(t.Side, SideBuy)
}

// IsSell reports whether the side matches SELL, case-insensitively.
func (t *Trade) IsSell() bool {
	return strings.EqualFold(t.Side, SideSell)
}
