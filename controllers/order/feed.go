package orderControllers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/junaidrashid-git/yoruwear-api/models"
	"github.com/sirupsen/logrus"
)

const (
	EventOrderCreated = "order.created"
	EventOrderStatus  = "order.status"
)

// Event is what admin dashboards receive over the websocket.
type Event struct {
	Type           string             `json:"type"`
	Order          *models.Order      `json:"order"`
	PreviousStatus models.OrderStatus `json:"previousStatus,omitempty"`
}

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = pongWait * 9 / 10
	sendBuffer   = 16
)

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Feed fans order events out to connected websocket clients. A client that
// cannot keep up is disconnected rather than allowed to block publishers.
type Feed struct {
	mu       sync.Mutex
	clients  map[*feedClient]struct{}
	upgrader websocket.Upgrader
	log      *logrus.Logger
}

func NewFeed(log *logrus.Logger) *Feed {
	return &Feed{
		clients: make(map[*feedClient]struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		log: log,
	}
}

func (f *Feed) Publish(ev Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		f.log.WithError(err).Error("encode order event")
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		select {
		case c.send <- data:
		default:
			f.log.Warn("order feed client too slow, disconnecting")
			f.removeLocked(c)
		}
	}
}

// Clients returns the number of connected clients.
func (f *Feed) Clients() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.clients)
}

// Close disconnects every client.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for c := range f.clients {
		f.removeLocked(c)
	}
}

func (f *Feed) removeLocked(c *feedClient) {
	if _, ok := f.clients[c]; ok {
		delete(f.clients, c)
		close(c.send)
	}
}

func (f *Feed) remove(c *feedClient) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeLocked(c)
}

// Handler upgrades the request and streams events until the client goes away.
func (f *Feed) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := f.upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			f.log.WithError(err).Warn("order feed upgrade failed")
			return
		}
		client := &feedClient{conn: conn, send: make(chan []byte, sendBuffer)}

		f.mu.Lock()
		f.clients[client] = struct{}{}
		f.mu.Unlock()

		go f.writePump(client)
		f.readPump(client)
	}
}

// readPump only exists to notice disconnects and answer pings.
func (f *Feed) readPump(c *feedClient) {
	defer func() {
		f.remove(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (f *Feed) writePump(c *feedClient) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
