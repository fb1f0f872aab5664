package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"tradelog/internal/application/port"
	"tradelog/internal/domain/model"
)

// IngestService normalizes raw webhook fields into a trade record and
// appends it to the ledger as a single row.
type IngestService struct {
	repo port.TradeRepository
	sink port.TradeSink // optional, may be nil

	now   func() time.Time
	newID func() string
}

func NewIngestService(repo port.TradeRepository, sink port.TradeSink) *IngestService {
	return &IngestService{
		repo:  repo,
		sink:  sink,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// Ingest builds a normalized trade from string-valued request fields and
// appends it. Missing or unparseable fields fall back to their defaults:
// today's UTC date, empty strings, zero numbers. On success exactly one
// row has been appended; on error none.
func (s *IngestService) Ingest(ctx context.Context, fields map[string]string) (*model.Trade, error) {
	recordedAt := s.now().UTC()

	t := &model.Trade{
		ID:           s.newID(),
		Date:         normDate(fields["date"], recordedAt),
		Ticker:       fields["ticker"],
		InstrumentID: fields["figi"],
		Side:         fields["side"],
		Price:        normPrice(fields["price"]),
		Quantity:     normQty(fields["qty"]),
		Fees:         normFees(fields["fees"]),
		RecordedAt:   recordedAt,
	}

	if err := s.repo.Append(ctx, t); err != nil {
		log.Error().Err(err).Str("ticker", t.Ticker).Msg("append trade failed")
		return nil, err
	}

	log.Info().
		Str("id", t.ID).
		Str("ticker", t.Ticker).
		Str("side", t.Side).
		Float64("price", t.Price).
		Int64("qty", t.Quantity).
		Msg("trade logged")

	if s.sink != nil {
		s.sink.Publish(t)
	}
	return t, nil
}

func normDate(s string, now time.Time) string {
	if s == "" {
		return now.Format("2006-01-02")
	}
	return s
}

// normPrice parses a non-negative price, 0 on failure.
func normPrice(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || f < 0 {
		return 0
	}
	return f
}

// normQty parses a non-negative integer quantity, 0 on failure.
func normQty(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// normFees parses the fee amount, 0 on failure. Negative fees (rebates)
// are allowed.
func normFees(s string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return f
}
