// Package ws, admin paneline gerçek zamanlı audit akışı sağlar.
//
// Mimari:
//   - Hub: bağlı admin client'larını yönetir, event'leri dağıtır
//   - Client: tek bir WebSocket bağlantısı (ReadPump + WritePump)
//   - Event: client-server arası mesaj formatı
//
// Event akışı:
//  1. Service bir mutasyonu audit satırıyla birlikte commit eder
//  2. Commit sonrası Hub.BroadcastToAll(audit_created) çağrılır
//  3. Her client'ın WritePump'ı event'i WebSocket'e yazar
//  4. Dashboard son işlemler listesini günceller
package ws

// Event, WebSocket üzerinden iletilen bir mesaj.
//
// Seq her outbound event'te artar; dashboard kaçırılan event'i bununla fark eder.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server
const (
	OpHeartbeat = "heartbeat" // Client her 30sn'de gönderir
)

// Server → Client
const (
	OpReady        = "ready"
	OpHeartbeatAck = "heartbeat_ack"
	OpAuditCreated = "audit_created" // Commit edilmiş yeni audit kaydı
)

// ReadyData, bağlantı kurulunca gönderilen ilk event'in payload'ı.
type ReadyData struct {
	UserID           string `json:"user_id"`
	ConnectedAdmins  int    `json:"connected_admins"`
	HeartbeatSeconds int    `json:"heartbeat_seconds"`
}
