package models

import "github.com/golang-jwt/jwt/v5"

// TokenClaims, admin access token'ının payload'ı.
//
// Server her request'te token'ı doğrular; DB'ye gitmeden kullanıcının kim
// olduğunu ve admin olup olmadığını bilir. models paketinde durur çünkü
// services, middleware ve ws katmanlarının üçü de kullanır.
type TokenClaims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}
