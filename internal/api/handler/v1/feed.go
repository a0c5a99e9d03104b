package v1

import (
	"context"
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/yizeng/gab/gin/gorm/inventory/internal/domain"
)

const (
	feedWriteWait      = 10 * time.Second
	feedPongWait       = 60 * time.Second
	feedPingPeriod     = (feedPongWait * 9) / 10
	feedReadLimit      = 512
	feedClientBuffer   = 16
	feedBroadcastQueue = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// ItemFeedHandler fans item change events out to websocket subscribers.
// The client set is owned by the Run goroutine.
type ItemFeedHandler struct {
	clients    map[*feedClient]struct{}
	broadcast  chan []byte
	register   chan *feedClient
	unregister chan *feedClient
	done       chan struct{}
	count      atomic.Int64
}

func NewItemFeedHandler() *ItemFeedHandler {
	return &ItemFeedHandler{
		clients:    make(map[*feedClient]struct{}),
		broadcast:  make(chan []byte, feedBroadcastQueue),
		register:   make(chan *feedClient),
		unregister: make(chan *feedClient),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is cancelled, then disconnects every client.
func (h *ItemFeedHandler) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				h.drop(client)
			}
			return
		case client := <-h.register:
			h.clients[client] = struct{}{}
			h.count.Add(1)
		case client := <-h.unregister:
			h.drop(client)
		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					zap.L().Warn("dropping slow item feed subscriber")
					h.drop(client)
				}
			}
		}
	}
}

func (h *ItemFeedHandler) drop(client *feedClient) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.count.Add(-1)
}

func (h *ItemFeedHandler) ClientCount() int {
	return int(h.count.Load())
}

// Publish queues event for broadcast. It never blocks; events are dropped
// when the queue is full.
func (h *ItemFeedHandler) Publish(event domain.ItemEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		zap.L().Error("failed to encode item event", zap.Error(err))
		return
	}

	select {
	case h.broadcast <- payload:
	default:
		zap.L().Warn("item feed queue full, dropping event",
			zap.String("type", string(event.Type)),
			zap.Uint("item_id", event.Item.ID))
	}
}

// HandleWebSocket godoc
// @Summary      Subscribe to item changes
// @Description  Streams {"type": "created|updated|deleted", "item": {...}} messages.
// @Tags         items
// @Success      101      {string}   string  "Switching Protocols to WebSocket"
// @Router       /items/ws [get]
func (h *ItemFeedHandler) HandleWebSocket(ctx *gin.Context) {
	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		zap.L().Info("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &feedClient{
		conn: conn,
		send: make(chan []byte, feedClientBuffer),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump(h)
}

func (c *feedClient) writePump() {
	ticker := time.NewTicker(feedPingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(feedWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump only watches for the peer going away; subscribers never send data.
func (c *feedClient) readPump(h *ItemFeedHandler) {
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(feedReadLimit)
	c.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(feedPongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				zap.L().Info("item feed subscriber closed", zap.Error(err))
			}
			return
		}
	}
}
