package service

import (
	"math"

	"tradelog/internal/domain/model"
)

// position is the running state for one ticker during a replay.
type position struct {
	quantity int64
	avgCost  float64
}

// PnLReport is the result of replaying a trade history.
type PnLReport struct {
	Realized  float64          // total realized P/L, rounded to 2 decimals
	Positions map[string]int64 // residual quantity held per ticker
}

// PnLCalculator computes realized profit/loss against a weighted-average
// cost basis. It holds no state between calls; every report is rebuilt
// from the full history.
type PnLCalculator struct{}

func NewPnLCalculator() *PnLCalculator {
	return &PnLCalculator{}
}

// Replay walks the trade history in append order and returns total
// realized P/L plus residual positions.
//
// Rows with an empty ticker or side, a non-positive price, or a
// non-positive quantity contribute nothing. A BUY reweights the average
// cost and adds to the held quantity. A SELL realizes
// (price - avgCost) * qty and subtracts from the held quantity,
// clamping at zero: short positions are not modeled, and the unmatched
// portion of an over-sell is still realized at the existing average
// cost. Sides other than BUY/SELL are skipped silently.
func (c *PnLCalculator) Replay(trades []*model.Trade) PnLReport {
	book := make(map[string]*position)
	var realized float64

	for _, t := range trades {
		if t.Ticker == "" || t.Side == "" || t.Price <= 0 || t.Quantity <= 0 {
			continue
		}

		pos := book[t.Ticker]
		if pos == nil {
			pos = &position{}
			book[t.Ticker] = pos
		}

		switch {
		case t.IsBuy():
			total := pos.quantity + t.Quantity
			if total > 0 {
				held := float64(pos.quantity) * pos.avgCost
				bought := float64(t.Quantity) * t.Price
				pos.avgCost = (held + bought) / float64(total)
			}
			pos.quantity = total

		case t.IsSell():
			realized += (t.Price - pos.avgCost) * float64(t.Quantity)
			pos.quantity -= t.Quantity
			if pos.quantity < 0 {
				pos.quantity = 0
			}
		}
	}

	positions := make(map[string]int64, len(book))
	for ticker, pos := range book {
		positions[ticker] = pos.quantity
	}

	return PnLReport{
		Realized:  round2(realized),
		Positions: positions,
	}
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
