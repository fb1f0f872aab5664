package httpapi

import (
	"encoding/json"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"tradelog/internal/domain/model"
	"tradelog/internal/infrastructure/storage"
)

func TestWSRejectsBadToken(t *testing.T) {
	s := newTestServer(storage.NewMemoryRepo())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?token=wrong"
	_, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err == nil {
		t.Fatal("expected the handshake to fail without a valid token")
	}
}

func TestWSReceivesAppendedTrades(t *testing.T) {
	repo := storage.NewMemoryRepo()
	s := newTestServer(repo)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?token=" + testToken
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	// registration happens just after the handshake; wait for it
	deadline := time.Now().Add(2 * time.Second)
	for s.hub.Count() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	postForm(t, s, url.Values{
		"token":  {testToken},
		"ticker": {"YNDX"},
		"side":   {"BUY"},
		"price":  {"2500"},
		"qty":    {"2"},
	})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var trade model.Trade
	if err := json.Unmarshal(msg, &trade); err != nil {
		t.Fatalf("decode broadcast: %v", err)
	}
	if trade.Ticker != "YNDX" || trade.Quantity != 2 {
		t.Errorf("broadcast trade mismatch: %+v", trade)
	}
}

func TestHubDropsClosedSubscriber(t *testing.T) {
	s := newTestServer(storage.NewMemoryRepo())
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws?token=" + testToken
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for s.hub.Count() != 0 {
		if time.Now().After(deadline) {
			t.Fatal("closed subscriber was never dropped")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
