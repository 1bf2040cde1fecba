package controllers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"go-food-ordering/models"
	"go-food-ordering/store"
)

const (
	writeWait  = 5 * time.Second
	sendBuffer = 16
)

// NotificationHub pushes order events to every connected websocket client.
// Each client has its own writer, so a slow connection never blocks Dispatch.
type NotificationHub struct {
	upgrader websocket.Upgrader
	mu       sync.Mutex
	clients  map[*websocket.Conn]*client
	logger   *log.Entry
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *client) stop() {
	c.once.Do(func() { close(c.done) })
}

func NewNotificationHub() *NotificationHub {
	return &NotificationHub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*websocket.Conn]*client),
		logger:  log.WithField("component", "notifications"),
	}
}

// Dispatch queues event as {"event": type, "payload": event} for every client.
// Clients whose queue is full are disconnected.
func (h *NotificationHub) Dispatch(event store.Event) error {
	message := models.Message{
		Event:   event.Type(),
		Payload: event,
	}
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return err
	}

	for _, c := range h.snapshot() {
		select {
		case c.send <- messageBytes:
		default:
			h.logger.WithField("event", event.Type()).Warn("websocket client is not keeping up, dropping it")
			h.drop(c)
		}
	}
	return nil
}

func (h *NotificationHub) HandleWebSocket() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		conn, err := h.upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
		if err != nil {
			h.logger.WithError(err).Warn("error during connection upgrade")
			return
		}

		c := &client{
			conn: conn,
			send: make(chan []byte, sendBuffer),
			done: make(chan struct{}),
		}
		h.mu.Lock()
		h.clients[conn] = c
		h.mu.Unlock()
		go h.writePump(c)

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				break
			}
		}
		h.drop(c)
	}
}

func (h *NotificationHub) writePump(c *client) {
	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				h.logger.WithError(err).Warn("dropping websocket client")
				h.drop(c)
				return
			}
		case <-c.done:
			return
		}
	}
}

func (h *NotificationHub) snapshot() []*client {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients := make([]*client, 0, len(h.clients))
	for _, c := range h.clients {
		clients = append(clients, c)
	}
	return clients
}

func (h *NotificationHub) drop(c *client) {
	h.mu.Lock()
	delete(h.clients, c.conn)
	h.mu.Unlock()
	c.stop()
	c.conn.Close()
}

func (h *NotificationHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every client.
func (h *NotificationHub) Close() {
	for _, c := range h.snapshot() {
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"),
			time.Now().Add(writeWait))
		h.drop(c)
	}
}
