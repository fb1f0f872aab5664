package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"tradelog/internal/application/service"
)

type Server struct {
	addr   string
	token  string
	ingest *service.IngestService
	pnl    *service.PnLService
	hub    *Hub
}

func NewServer(addr, token string, ingest *service.IngestService, pnl *service.PnLService, hub *Hub) *Server {
	return &Server{
		addr:   addr,
		token:  token,
		ingest: ingest,
		pnl:    pnl,
		hub:    hub,
	}
}

// Handler builds the full request mux, wrapped with panic recovery.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/webhook", s.handleWebhook)
	mux.HandleFunc("/ws", s.handleWS)
	return s.recoverer(mux)
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", s.addr).Msg("webhook server listening")
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// recoverer converts any panic into a structured ok:false response so a
// single bad request cannot take the process down.
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				log.Error().Any("panic", v).Str("path", r.URL.Path).Msg("handler panicked")
				writeJSON(w, envelope{OK: false, Error: "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
