package port

import "tradelog/internal/domain/model"

// TradeSink receives every trade that was successfully appended to the
// ledger, for fan-out to live subscribers. Delivery is best-effort.
type TradeSink interface {
	Publish(t *model.Trade)
}
