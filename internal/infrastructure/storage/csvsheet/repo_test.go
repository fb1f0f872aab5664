package csvsheet

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tradelog/internal/domain/model"
)

func testTrade(ticker string, qty int64) *model.Trade {
	return &model.Trade{
		ID:           "t-" + ticker,
		Date:         "2025-06-12",
		Ticker:       ticker,
		InstrumentID: "BBG004730N88",
		Side:         "BUY",
		Price:        2500.5,
		Quantity:     qty,
		Fees:         1.25,
		RecordedAt:   time.Date(2025, 6, 12, 10, 30, 0, 0, time.UTC),
	}
}

func TestHeaderWrittenExactlyOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	repo, err := New(path)
	if err != nil {
		t.Fatalf("create repo: %v", err)
	}
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		if err := repo.Append(ctx, testTrade("YNDX", i)); err != nil {
			t.Fatalf("append %d failed: %v", i, err)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")

	if len(lines) != 4 {
		t.Fatalf("expected header + 3 rows, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "Date,Ticker,InstrumentId,Side") {
		t.Errorf("first line is not the header: %q", lines[0])
	}
	if strings.Count(string(raw), "Date,Ticker") != 1 {
		t.Errorf("header appears more than once:\n%s", raw)
	}
}

func TestAppendListRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trades.csv")
	repo, err := New(path)
	if err != nil {
		t.Fatalf("create repo: %v", err)
	}
	ctx := context.Background()

	want := testTrade("YNDX", 2)
	if err := repo.Append(ctx, want); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if err := repo.Append(ctx, testTrade("SBER", 100)); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	trades, err := repo.ListAll(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}

	got := trades[0]
	if got.Ticker != want.Ticker || got.Side != want.Side || got.Date != want.Date {
		t.Errorf("string fields mismatch: %+v", got)
	}
	if got.Price != want.Price || got.Quantity != want.Quantity || got.Fees != want.Fees {
		t.Errorf("numeric fields mismatch: %+v", got)
	}
	if !got.RecordedAt.Equal(want.RecordedAt) {
		t.Errorf("timestamp mismatch: %v vs %v", got.RecordedAt, want.RecordedAt)
	}
	if trades[1].Ticker != "SBER" {
		t.Errorf("append order not preserved: %+v", trades[1])
	}
}

func TestListAllMissingFileIsEmpty(t *testing.T) {
	repo, err := New(filepath.Join(t.TempDir(), "trades.csv"))
	if err != nil {
		t.Fatalf("create repo: %v", err)
	}

	trades, err := repo.ListAll(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(trades) != 0 {
		t.Errorf("expected empty history, got %d", len(trades))
	}
}
