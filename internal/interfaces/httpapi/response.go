package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
)

// envelope is the single JSON response shape of the webhook API. The
// legacy endpoint always answered 200 with ok:false on failure, and
// callers depend on that, so handlers never pick another status.
type envelope struct {
	OK         bool              `json:"ok"`
	Message    string            `json:"message,omitempty"`
	Error      string            `json:"error,omitempty"`
	Data       []any             `json:"data,omitempty"`
	PnL        *float64          `json:"pnl,omitempty"`
	Positions  map[string]int64  `json:"positions,omitempty"`
	Method     string            `json:"method,omitempty"`
	Timestamp  string            `json:"timestamp,omitempty"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

func setCORS(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", "*")
	h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	h.Set("Access-Control-Allow-Headers", "Content-Type")
}

func writeJSON(w http.ResponseWriter, env envelope) {
	setCORS(w)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(env); err != nil {
		log.Error().Err(err).Msg("encode response failed")
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, envelope{OK: false, Error: err.Error()})
}

func float(v float64) *float64 { return &v }
