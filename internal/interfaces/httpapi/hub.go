package httpapi

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"tradelog/internal/application/port"
	"tradelog/internal/domain/model"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the webhook API is open to any origin, the live feed follows suit
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Hub fans successfully appended trades out to websocket subscribers.
// Delivery is best-effort: a subscriber that cannot keep up is dropped.
type Hub struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[*websocket.Conn]struct{})}
}

// Publish implements port.TradeSink.
func (h *Hub) Publish(t *model.Trade) {
	b, err := json.Marshal(t)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Warn().Err(err).Msg("dropping slow ws subscriber")
			_ = conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Count returns the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) add(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[conn] = struct{}{}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[conn]; ok {
		_ = conn.Close()
		delete(h.clients, conn)
	}
}

// handleWS upgrades an authenticated connection and streams every trade
// appended from that point on.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r.URL.Query().Get("token")) {
		writeJSON(w, envelope{OK: false, Error: "Unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Err(err).Msg("ws upgrade failed")
		return
	}
	s.hub.add(conn)
	log.Info().Str("remote", conn.RemoteAddr().String()).Msg("ws subscriber connected")

	// read loop exists only to observe the close
	go func() {
		defer s.hub.remove(conn)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

var _ port.TradeSink = (*Hub)(nil)
