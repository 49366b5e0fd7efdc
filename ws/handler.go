package ws

import (
	"encoding/json"
	"net/http"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// TokenValidator, handler'ın JWT doğrulaması için ihtiyaç duyduğu tek metod.
// services.AuthService bunu implicit olarak karşılar; ws → services import'u
// olmadığı için döngü oluşmaz.
type TokenValidator interface {
	ValidateAccessToken(tokenString string) (*models.TokenClaims, error)
}

// Handler, /ws bağlantı isteklerini karşılar.
type Handler struct {
	hub            *Hub
	tokenValidator TokenValidator
	upgrader       websocket.Upgrader
}

// NewHandler, allowedOrigins "*" içeriyorsa tüm origin'leri kabul eder.
func NewHandler(hub *Hub, tokenValidator TokenValidator, allowedOrigins []string) *Handler {
	allowAll := false
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return &Handler{
		hub:            hub,
		tokenValidator: tokenValidator,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || allowed[origin]
			},
		},
	}
}

// HandleConnection, token'ı doğrular, bağlantıyı yükseltir ve client'ı Hub'a kaydeder.
//
// Tarayıcı WebSocket'inde header gönderilemediği için token query'de gelir:
//
//	ws://host/ws?token=JWT
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "missing token", http.StatusUnauthorized)
		return
	}

	claims, err := h.tokenValidator.ValidateAccessToken(token)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}
	if !claims.IsAdmin {
		http.Error(w, "admin access required", http.StatusForbidden)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.logger.Warn("upgrade failed", zap.String("user_id", claims.UserID), zap.Error(err))
		return
	}

	client := &Client{
		hub:    h.hub,
		conn:   conn,
		userID: claims.UserID,
		send:   make(chan []byte, sendBufferSize),
	}

	// ready, client paylaşılmadan önce kendi buffer'ına yazılır
	ready, err := json.Marshal(Event{Op: OpReady, Data: ReadyData{
		UserID:           claims.UserID,
		ConnectedAdmins:  h.hub.ConnectionCount() + 1,
		HeartbeatSeconds: int(heartbeatInterval.Seconds()),
	}})
	if err == nil {
		client.send <- ready
	}

	select {
	case h.hub.register <- client:
	case <-h.hub.stop:
		conn.Close()
		return
	}

	go client.WritePump()
	client.ReadPump() // bağlantı kapanana kadar bloklar
}
