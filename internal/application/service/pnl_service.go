package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"tradelog/internal/application/port"
	domain "tradelog/internal/domain/service"
)

// PnLResult carries a computed report plus the number of history rows it
// was built from, so callers can distinguish an empty ledger.
type PnLResult struct {
	Realized  float64
	Positions map[string]int64
	Trades    int
}

// PnLService rebuilds realized P/L from the full ledger history on every
// call. There is no cached aggregate: cost is linear in history size.
type PnLService struct {
	repo port.TradeRepository
	calc *domain.PnLCalculator
}

func NewPnLService(repo port.TradeRepository) *PnLService {
	return &PnLService{
		repo: repo,
		calc: domain.NewPnLCalculator(),
	}
}

func (s *PnLService) Compute(ctx context.Context) (*PnLResult, error) {
	trades, err := s.repo.ListAll(ctx)
	if err != nil {
		log.Error().Err(err).Msg("read trade history failed")
		return nil, err
	}

	report := s.calc.Replay(trades)
	log.Debug().
		Int("trades", len(trades)).
		Float64("pnl", report.Realized).
		Msg("pnl computed")

	return &PnLResult{
		Realized:  report.Realized,
		Positions: report.Positions,
		Trades:    len(trades),
	}, nil
}
