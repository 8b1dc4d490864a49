// Package live pushes order events to dashboard browsers over websockets.
package live

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"shoestore/mq"
	"shoestore/orders"
)

const TopicOrders = "orders"

type Client struct {
	Conn  *websocket.Conn
	Send  chan []byte
	Topic string
}

type broadcastMsg struct {
	Topic string
	Data  []byte
}

type Hub struct {
	topics     map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan broadcastMsg
	quit       chan struct{}
	mu         sync.Mutex
}

func NewHub() *Hub {
	return &Hub{
		topics:     make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan broadcastMsg, 64),
		quit:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.mu.Lock()
			if h.topics[c.Topic] == nil {
				h.topics[c.Topic] = make(map[*Client]bool)
			}
			h.topics[c.Topic][c] = true
			h.mu.Unlock()

		case c := <-h.unregister:
			h.mu.Lock()
			if conns := h.topics[c.Topic]; conns != nil && conns[c] {
				delete(conns, c)
				close(c.Send)
			}
			h.mu.Unlock()

		case m := <-h.broadcast:
			h.mu.Lock()
			for c := range h.topics[m.Topic] {
				select {
				case c.Send <- m.Data:
				default:
					// slow reader
					close(c.Send)
					delete(h.topics[m.Topic], c)
				}
			}
			h.mu.Unlock()

		case <-h.quit:
			h.mu.Lock()
			for _, conns := range h.topics {
				for c := range conns {
					close(c.Send)
					delete(conns, c)
				}
			}
			h.mu.Unlock()
			return
		}
	}
}

// Stop closes every client and ends Run.
func (h *Hub) Stop() {
	close(h.quit)
}

func (h *Hub) Publish(topic string, data []byte) {
	select {
	case h.broadcast <- broadcastMsg{Topic: topic, Data: data}:
	case <-h.quit:
	}
}

// Clients reports how many listeners a topic has.
func (h *Hub) Clients(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.topics[topic])
}

type outboundPayload struct {
	mq.Event
	Color string `json:"color"`
}

// Deliver forwards an order event to every dashboard listener.
func (h *Hub) Deliver(e mq.Event) {
	if e.Label == "" {
		e.Label = orders.Label(e.Status)
	}
	data, err := json.Marshal(outboundPayload{Event: e, Color: orders.Color(e.Status)})
	if err != nil {
		zap.L().Warn("encode live event", zap.Error(err))
		return
	}
	h.Publish(TopicOrders, data)
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Handler upgrades an authenticated dashboard request to a websocket.
func Handler(hub *Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			zap.L().Warn("websocket upgrade", zap.Error(err))
			return
		}
		client := &Client{
			Conn:  conn,
			Send:  make(chan []byte, 256),
			Topic: TopicOrders,
		}

		select {
		case hub.register <- client:
		case <-hub.quit:
			conn.Close()
			return
		}
		go writePump(client)
		go readPump(client, hub)
	}
}

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

func writePump(c *Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for close and pong frames; listeners never send.
func readPump(c *Client, hub *Hub) {
	defer func() {
		select {
		case hub.unregister <- c:
		case <-hub.quit:
		}
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(512)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		return c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.Conn.ReadMessage(); err != nil {
			break
		}
	}
}
