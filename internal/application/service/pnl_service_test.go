package service

import (
	"context"
	"errors"
	"testing"

	"tradelog/internal/application/port"
	"tradelog/internal/domain/model"
)

func TestPnLServiceComputesFromHistory(t *testing.T) {
	ledger := &mockLedger{trades: []*model.Trade{
		{Ticker: "YNDX", Side: "BUY", Price: 100, Quantity: 10},
		{Ticker: "YNDX", Side: "SELL", Price: 120, Quantity: 5},
	}}
	svc := NewPnLService(ledger)

	res, err := svc.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if res.Realized != 100.00 {
		t.Errorf("realized mismatch: expected 100.00, got %v", res.Realized)
	}
	if res.Positions["YNDX"] != 5 {
		t.Errorf("position mismatch: expected 5, got %d", res.Positions["YNDX"])
	}
	if res.Trades != 2 {
		t.Errorf("expected 2 history rows, got %d", res.Trades)
	}
}

func TestPnLServiceEmptyLedger(t *testing.T) {
	svc := NewPnLService(&mockLedger{})

	res, err := svc.Compute(context.Background())
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if res.Trades != 0 || res.Realized != 0 {
		t.Errorf("expected empty zero report, got %+v", res)
	}
}

func TestPnLServicePropagatesReadError(t *testing.T) {
	svc := NewPnLService(&mockLedger{listErr: port.ErrStoreUnavailable})

	_, err := svc.Compute(context.Background())
	if !errors.Is(err, port.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
