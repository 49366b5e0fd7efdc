package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait = 10 * time.Second

	// heartbeatInterval: dashboard bu aralıkla heartbeat gönderir.
	heartbeatInterval = 30 * time.Second

	// pongWait: 3 heartbeat kaçırılırsa bağlantı kopmuş sayılır.
	pongWait = 3 * heartbeatInterval

	// Dashboard sadece heartbeat gönderir; büyük mesaj beklenmez.
	maxMessageSize = 1024

	// Buffer dolarsa client yavaş sayılır ve düşürülür.
	sendBufferSize = 64
)

// Client, tek bir admin WebSocket bağlantısı.
// ReadPump ve WritePump ayrı goroutine'lerde çalışır; gorilla/websocket
// aynı anda tek okuyucu ve tek yazıcı destekler.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	userID string
	send   chan []byte
	mu     sync.Mutex // conn yazmalarını korur
}

// ReadPump, bağlantı kapanana kadar gelen mesajları okur.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.drop(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("unexpected close", zap.String("user_id", c.userID), zap.Error(err))
			}
			return
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			continue
		}

		if event.Op == OpHeartbeat {
			if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
				return
			}
			c.sendEvent(Event{Op: OpHeartbeatAck})
		}
	}
}

// sendEvent, tek bir client'a event gönderir.
// Hub kilidi altında üyelik kontrol edilir: çıkarılmış client'ın send channel'ı kapalıdır.
func (c *Client) sendEvent(event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}

	c.hub.mu.RLock()
	defer c.hub.mu.RUnlock()
	if !c.hub.clients[c.userID][c] {
		return
	}

	select {
	case c.send <- data:
	default:
		go c.hub.drop(c)
	}
}

// WritePump, send channel'ındaki mesajları bağlantıya yazar.
func (c *Client) WritePump() {
	defer c.conn.Close()

	for message := range c.send {
		if err := c.writeMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	// Channel kapandı: Hub client'ı çıkardı
	_ = c.writeMessage(websocket.CloseMessage, nil)
}

func (c *Client) writeMessage(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteMessage(messageType, data)
}
