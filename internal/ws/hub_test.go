package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func dialHub(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastsLotUpdates(t *testing.T) {
	hub := NewHub(zap.NewNop())
	server := httptest.NewServer(hub.Handler())
	defer server.Close()

	conn := dialHub(t, server)

	// The subscribe is asynchronous to the dial; wait for registration.
	waitFor(t, time.Second, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients) == 1
	})

	hub.LotUpdated(3, 4)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	var update LotUpdate
	if err := json.Unmarshal(payload, &update); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if update.Type != "lot_update" {
		t.Fatalf("expected lot_update type, got %q", update.Type)
	}
	if update.LotID != 3 || update.AvailableSpots != 4 {
		t.Fatalf("unexpected update: %+v", update)
	}
}

func TestHubDropsDisconnectedClients(t *testing.T) {
	hub := NewHub(zap.NewNop())
	server := httptest.NewServer(hub.Handler())
	defer server.Close()

	conn := dialHub(t, server)
	waitFor(t, time.Second, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients) == 1
	})

	conn.Close()
	waitFor(t, time.Second, func() bool {
		hub.mu.RLock()
		defer hub.mu.RUnlock()
		return len(hub.clients) == 0
	})

	// Broadcasting to an empty hub is a no-op.
	hub.LotUpdated(1, 1)
}

func waitFor(t *testing.T, timeout time.Duration, condition func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}
