package models

import "time"

// RequestLog, secure endpoint'lere yapılan tek bir isteğin kaydı.
type RequestLog struct {
	ID          string    `json:"id" db:"id"`
	APIClientID string    `json:"api_client_id" db:"api_client_id"`
	APIKeyID    *string   `json:"api_key_id" db:"api_key_id"`
	Method      string    `json:"method" db:"method"`
	Path        string    `json:"path" db:"path"`
	StatusCode  int       `json:"status_code" db:"status_code"`
	DurationMs  int64     `json:"duration_ms" db:"duration_ms"`
	IPAddress   *string   `json:"ip_address" db:"ip_address"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// UsageStats, bir client'ın belirli zaman aralığındaki kullanım özeti.
type UsageStats struct {
	ClientID      string         `json:"client_id"`
	From          time.Time      `json:"from"`
	To            time.Time      `json:"to"`
	TotalRequests int            `json:"total_requests"`
	AvgDurationMs float64        `json:"avg_duration_ms"`
	ByStatusClass map[string]int `json:"by_status_class"` // "2xx", "4xx", ...
	TopPaths      []PathCount    `json:"top_paths"`
}

// PathCount, bir path'e yapılan istek sayısı.
type PathCount struct {
	Path  string `json:"path" db:"path"`
	Count int    `json:"count" db:"count"`
}
