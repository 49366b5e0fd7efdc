package ws

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// EventPublisher, service katmanının event yayınlamak için kullandığı interface.
// Service'ler Hub'ın concrete struct'ına değil bu interface'e bağımlıdır;
// testlerde kaydedici bir fake geçilir.
type EventPublisher interface {
	BroadcastToAll(event Event)
	ConnectionCount() int
}

// Hub, bağlı admin client'larını tutar.
//
// register/unregister channel'ları Run goroutine'inde işlenir; broadcast
// okuma kilidiyle doğrudan client'ların send channel'ına yazar.
type Hub struct {
	// clients: userID → bağlantı seti (bir admin'in birden fazla sekmesi olabilir)
	clients map[string]map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	stop       chan struct{}
	stopOnce   sync.Once

	seq    atomic.Int64
	logger *zap.Logger
}

// NewHub, yeni bir Hub oluşturur. Run ayrı goroutine'de başlatılmalı.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		stop:       make(chan struct{}),
		logger:     logger.Named("ws"),
	}
}

// Run, Hub'ın event loop'u. Shutdown çağrılana kadar bloklar.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.stop:
			return
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.userID]; !ok {
		h.clients[client.userID] = make(map[*Client]bool)
	}
	h.clients[client.userID][client] = true

	h.logger.Debug("client connected",
		zap.String("user_id", client.userID), zap.Int("user_connections", len(h.clients[client.userID])))
}

// removeClient, client'ı çıkarır ve send channel'ını kapatır. İkinci çağrı etkisizdir.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[client.userID]
	if !ok {
		return
	}
	if _, exists := clients[client]; !exists {
		return
	}

	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.userID)
	}
	h.logger.Debug("client disconnected", zap.String("user_id", client.userID))
}

// BroadcastToAll, tüm bağlı client'lara event gönderir.
// Buffer'ı dolu (yavaş) client'lar bağlantıdan düşürülür.
func (h *Hub) BroadcastToAll(event Event) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("failed to marshal broadcast event", zap.String("op", event.Op), zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, clients := range h.clients {
		for client := range clients {
			select {
			case client.send <- data:
			default:
				go h.drop(client)
			}
		}
	}
}

// ConnectionCount, açık bağlantı sayısı.
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

// Shutdown, tüm bağlantıları kapatır ve Run'ı sonlandırır.
func (h *Hub) Shutdown() {
	h.stopOnce.Do(func() {
		close(h.stop)

		h.mu.Lock()
		defer h.mu.Unlock()
		for _, clients := range h.clients {
			for client := range clients {
				close(client.send)
			}
		}
		h.clients = make(map[string]map[*Client]bool)
		h.logger.Info("hub shut down, all connections closed")
	})
}

// drop, Run kapanmışsa bloklamadan çıkar.
func (h *Hub) drop(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.stop:
	}
}
