package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// LotUpdate is broadcast to every subscriber after an allocation, release or
// capacity change.
type LotUpdate struct {
	Type           string `json:"type"`
	LotID          int64  `json:"lot_id"`
	AvailableSpots int    `json:"available_spots"`
}

// Hub fans lot occupancy updates out to connected websocket clients. Delivery
// is best effort; a slow or broken client is dropped, never waited on.
type Hub struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]struct{}
	logger  *zap.Logger
}

// NewHub builds an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[*websocket.Conn]struct{}),
		logger:  logger,
	}
}

// LotUpdated broadcasts the new availability of a lot.
func (h *Hub) LotUpdated(lotID int64, availableSpots int) {
	payload, err := json.Marshal(LotUpdate{
		Type:           "lot_update",
		LotID:          lotID,
		AvailableSpots: availableSpots,
	})
	if err != nil {
		h.logger.Warn("ws marshal failed", zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}

// Handler upgrades the request and keeps the connection subscribed until the
// client goes away.
func (h *Hub) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			h.logger.Warn("ws upgrade failed", zap.Error(err))
			return
		}

		h.mu.Lock()
		h.clients[conn] = struct{}{}
		total := len(h.clients)
		h.mu.Unlock()
		h.logger.Info("ws client connected", zap.Int("total", total))

		// Drain reads to detect disconnects; inbound frames are ignored.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					h.remove(conn)
					return
				}
			}
		}()
	}
}

func (h *Hub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	if _, ok := h.clients[conn]; ok {
		conn.Close()
		delete(h.clients, conn)
	}
	total := len(h.clients)
	h.mu.Unlock()
	h.logger.Info("ws client disconnected", zap.Int("total", total))
}
