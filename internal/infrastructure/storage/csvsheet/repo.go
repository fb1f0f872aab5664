package csvsheet

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"tradelog/internal/application/port"
	"tradelog/internal/domain/model"
)

// Repo stores trades in a single CSV file with the same 8-column layout
// as the trade sheet: Date | Ticker | InstrumentId | Side | Price |
// Quantity | Fees | Timestamp. The header row is written only when the
// file is empty at append time.
//
// The mutex serializes the empty-check, header write and row append, so
// concurrent ingests cannot interleave them.
type Repo struct {
	mu   sync.Mutex
	path string
}

func New(path string) (*Repo, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
		}
	}
	return &Repo{path: path}, nil
}

func (r *Repo) Append(ctx context.Context, t *model.Trade) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(model.Header()); err != nil {
			return fmt.Errorf("%w: write header: %v", port.ErrWriteFailed, err)
		}
	}
	if err := w.Write(record(t)); err != nil {
		return fmt.Errorf("%w: %v", port.ErrWriteFailed, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("%w: %v", port.ErrWriteFailed, err)
	}
	return nil
}

func (r *Repo) ListAll(ctx context.Context) ([]*model.Trade, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.Open(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}
	defer f.Close()

	rd := csv.NewReader(f)
	rd.FieldsPerRecord = 8
	rows, err := rd.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", port.ErrStoreUnavailable, err)
	}

	var trades []*model.Trade
	for i, row := range rows {
		if i == 0 && row[0] == "Date" {
			continue
		}
		trades = append(trades, parse(row))
	}
	return trades, nil
}

func (r *Repo) Close() error { return nil }

func record(t *model.Trade) []string {
	return []string{
		t.Date,
		t.Ticker,
		t.InstrumentID,
		t.Side,
		strconv.FormatFloat(t.Price, 'f', -1, 64),
		strconv.FormatInt(t.Quantity, 10),
		strconv.FormatFloat(t.Fees, 'f', -1, 64),
		t.RecordedAt.UTC().Format(time.RFC3339),
	}
}

// parse is tolerant: malformed numeric cells become zero, which the P/L
// replay already skips.
func parse(row []string) *model.Trade {
	price, _ := strconv.ParseFloat(row[4], 64)
	qty, _ := strconv.ParseInt(row[5], 10, 64)
	fees, _ := strconv.ParseFloat(row[6], 64)
	recordedAt, _ := time.Parse(time.RFC3339, row[7])
	return &model.Trade{
		Date:         row[0],
		Ticker:       row[1],
		InstrumentID: row[2],
		Side:         row[3],
		Price:        price,
		Quantity:     qty,
		Fees:         fees,
		RecordedAt:   recordedAt,
	}
}

var _ port.TradeRepository = (*Repo)(nil)
