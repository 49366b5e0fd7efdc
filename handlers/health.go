package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"go.uber.org/zap"
)

// Pinger, readiness kontrolü için veritabanı bağlantısı. *database.DB karşılar.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnectionCounter, açık WebSocket bağlantı sayısı. ws.Hub karşılar.
type ConnectionCounter interface {
	ConnectionCount() int
}

// HealthResponse, /api/health ve /api/ready yanıtı.
type HealthResponse struct {
	Status      string `json:"status"`
	Database    string `json:"database,omitempty"`
	Connections int    `json:"ws_connections"`
}

// HealthHandler, auth gerektirmeyen sağlık endpoint'leri.
type HealthHandler struct {
	db     Pinger
	conns  ConnectionCounter
	logger *zap.Logger
}

func NewHealthHandler(db Pinger, conns ConnectionCounter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{db: db, conns: conns, logger: logger.Named("health")}
}

// Health godoc
// GET /api/health
// Süreç ayakta mı; bağımlılıkları kontrol etmez.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	pkg.JSON(w, http.StatusOK, HealthResponse{Status: "ok", Connections: h.conns.ConnectionCount()})
}

// Ready godoc
// GET /api/ready
// Veritabanına ulaşılamıyorsa 503.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		h.logger.Warn("readiness check failed", zap.Error(err))
		pkg.ErrorWithDetails(w, http.StatusServiceUnavailable, "database unavailable",
			HealthResponse{Status: "unavailable", Database: "down", Connections: h.conns.ConnectionCount()})
		return
	}

	pkg.JSON(w, http.StatusOK, HealthResponse{Status: "ok", Database: "up", Connections: h.conns.ConnectionCount()})
}
