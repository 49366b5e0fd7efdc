package models

import "time"

// Session, JWT refresh token oturumunu temsil eder.
//
// Access token kısa ömürlüdür ve DB'ye gitmeden doğrulanır.
// Refresh token DB'de tutulur; böylece logout'ta iptal edilebilir,
// her kullanımda yenisiyle değiştirilir (rotation) ve süresi dolanlar
// periyodik job ile temizlenir.
type Session struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	RefreshToken string    `json:"-" db:"refresh_token"` // API'ye gönderilmez
	ExpiresAt    time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
