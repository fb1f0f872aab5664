package httpapi

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
)

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		setCORS(w)
		w.WriteHeader(http.StatusNoContent)
	case http.MethodPost:
		s.handleIngest(w, r)
	case http.MethodGet:
		s.handleQuery(w, r)
	default:
		writeJSON(w, envelope{OK: false, Error: "method not allowed"})
	}
}

// handleIngest processes one trade append. The token check comes before
// everything else, including the ping/hello short-circuits.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, envelope{OK: false, Error: "malformed form data"})
		return
	}
	fields := flatten(r.Form)

	if !s.authorized(fields["token"]) {
		log.Warn().Str("remote", r.RemoteAddr).Msg("unauthorized ingest attempt")
		writeJSON(w, envelope{OK: false, Error: "Unauthorized"})
		return
	}

	// Diagnostic short-circuits: neither touches the store.
	switch fields["test"] {
	case "ping":
		writeJSON(w, envelope{
			OK:        true,
			Message:   "Webhook is working",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	case "hello":
		writeJSON(w, envelope{
			OK:         true,
			Message:    "Hello from tradelog",
			Parameters: fields,
		})
		return
	}

	trade, err := s.ingest.Ingest(r.Context(), fields)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, envelope{
		OK:      true,
		Message: "Trade logged successfully",
		Data:    trade.Row(),
	})
}

// handleQuery serves the P/L report and the liveness echo.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	fields := flatten(r.URL.Query())

	if !s.authorized(fields["token"]) {
		log.Warn().Str("remote", r.RemoteAddr).Msg("unauthorized query attempt")
		writeJSON(w, envelope{OK: false, Error: "Unauthorized"})
		return
	}

	if fields["action"] == "get_pnl" {
		res, err := s.pnl.Compute(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		if res.Trades == 0 {
			writeJSON(w, envelope{OK: true, PnL: float(0), Message: "No trades found"})
			return
		}
		writeJSON(w, envelope{OK: true, PnL: float(res.Realized), Positions: res.Positions})
		return
	}

	writeJSON(w, envelope{
		OK:         true,
		Message:    "Trade logger is running",
		Method:     "GET",
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Parameters: fields,
	})
}

// authorized compares the presented token in constant time.
func (s *Server) authorized(token string) bool {
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) == 1
}

// flatten keeps the first value per key, matching form semantics of the
// legacy endpoint.
func flatten(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k := range values {
		out[k] = values.Get(k)
	}
	return out
}
