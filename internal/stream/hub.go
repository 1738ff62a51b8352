// Package stream pushes freshly ingested whale trades to dashboard websocket clients.
package stream

import (
	"net/http"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"crypto-sentiment-dashboard/internal/models"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	// sendBuffer is how many messages a client may fall behind before it is dropped.
	sendBuffer = 16
)

// Message is the envelope sent to clients.
type Message struct {
	Type      string              `json:"type"`
	Timestamp int64               `json:"timestamp"`
	Trades    []models.WhaleTrade `json:"trades,omitempty"`
}

// client is a connection with its outgoing queue. Only writePump writes to conn.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub maintains the set of connected clients and broadcasts to them.
type Hub struct {
	logger    *zap.Logger
	clients   map[*client]struct{}
	clientsMu sync.Mutex
	upgrader  websocket.Upgrader
}

// NewHub creates a Hub accepting connections from any origin.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:  logger.Named("stream"),
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP upgrades the request and keeps the connection until the client leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.Error(err))
		return
	}

	c := &client{conn: conn, send: make(chan []byte, sendBuffer)}
	if data, err := json.Marshal(Message{Type: "connection_init", Timestamp: time.Now().UnixMilli()}); err == nil {
		c.send <- data
	}
	h.register(c)
	go h.writePump(c)

	defer func() {
		h.unregister(c)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(pongWait)) })

	// Incoming messages are ignored, reading only detects disconnects.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// writePump drains the client's queue and keeps it alive with pings.
func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				h.logger.Debug("Websocket write failed", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}

// Publish broadcasts a batch of whale trades.
func (h *Hub) Publish(trades []models.WhaleTrade) {
	h.Broadcast(Message{Type: "whale_trades", Timestamp: time.Now().UnixMilli(), Trades: trades})
}

// Broadcast queues msg for every connected client without waiting on the network.
// A client whose queue is full is dropped.
func (h *Hub) Broadcast(msg Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Broadcast marshal failed", zap.Error(err))
		return
	}

	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	for c := range h.clients {
		select {
		case c.send <- data:
		default:
			h.logger.Debug("Dropping slow websocket client")
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	h.clients[c] = struct{}{}
	h.logger.Debug("Client connected", zap.Int("clients", len(h.clients)))
}

// unregister removes c and closes its queue, once.
func (h *Hub) unregister(c *client) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
		h.logger.Debug("Client disconnected", zap.Int("clients", len(h.clients)))
	}
}
