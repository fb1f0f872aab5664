package composite

import (
	"context"

	"github.com/rs/zerolog/log"

	"tradelog/internal/application/port"
	"tradelog/internal/domain/model"
)

// Repo chains a primary ledger with best-effort mirrors. An append that
// fails on the primary is reported as failed and the mirrors are
// skipped; mirror failures after a successful primary append are logged
// and swallowed, since the authoritative row has already landed.
type Repo struct {
	primary port.TradeRepository
	mirrors []port.TradeRepository
}

func New(primary port.TradeRepository, mirrors ...port.TradeRepository) *Repo {
	// nil mirrors are allowed; filter in constructor for safety
	out := make([]port.TradeRepository, 0, len(mirrors))
	for _, m := range mirrors {
		if m != nil {
			out = append(out, m)
		}
	}
	return &Repo{primary: primary, mirrors: out}
}

func (r *Repo) Append(ctx context.Context, t *model.Trade) error {
	if err := r.primary.Append(ctx, t); err != nil {
		return err
	}
	for _, m := range r.mirrors {
		if err := m.Append(ctx, t); err != nil {
			log.Warn().Err(err).Str("id", t.ID).Msg("mirror append failed")
		}
	}
	return nil
}

// ListAll reads from the primary only; mirrors hold no history.
func (r *Repo) ListAll(ctx context.Context) ([]*model.Trade, error) {
	return r.primary.ListAll(ctx)
}

func (r *Repo) Close() error {
	var firstErr error
	if err := r.primary.Close(); err != nil {
		firstErr = err
	}
	for _, m := range r.mirrors {
		if err := m.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

var _ port.TradeRepository = (*Repo)(nil)
