// Package apikey, üçüncü parti API key'lerinin üretimi ve doğrulamasını yapar.
//
// Key formatı: fk_<prefix>_<secret>
//   - prefix: 8 hex karakter, DB'de düz metin ve UNIQUE, lookup için
//   - secret: 32 hex karakter, sadece bcrypt hash'i saklanır
//
// Ham key sadece oluşturulduğu anda bir kez döner; sonra geri elde edilemez.
package apikey

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	scheme     = "fk"
	prefixLen  = 8
	secretLen  = 32
	hashCost   = bcrypt.DefaultCost
	HeaderName = "X-API-Key"
)

// ErrMalformed, key formatı geçersiz olduğunda döner.
var ErrMalformed = errors.New("malformed api key")

// Generated, yeni üretilmiş bir key.
type Generated struct {
	Raw    string // İstemciye bir kez gösterilir
	Prefix string
	Hash   string
}

// Generate, kriptografik rastgele yeni bir key üretir ve hash'ler.
func Generate() (*Generated, error) {
	prefix, err := randomHex(prefixLen / 2)
	if err != nil {
		return nil, err
	}
	secret, err := randomHex(secretLen / 2)
	if err != nil {
		return nil, err
	}

	raw := fmt.Sprintf("%s_%s_%s", scheme, prefix, secret)
	hash, err := bcrypt.GenerateFromPassword([]byte(raw), hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash api key: %w", err)
	}

	return &Generated{Raw: raw, Prefix: prefix, Hash: string(hash)}, nil
}

// Parse, ham key'den prefix'i çıkarır. Format bozuksa ErrMalformed.
func Parse(raw string) (prefix string, err error) {
	parts := strings.Split(raw, "_")
	if len(parts) != 3 || parts[0] != scheme || len(parts[1]) != prefixLen || len(parts[2]) != secretLen {
		return "", ErrMalformed
	}
	if !isHex(parts[1]) || !isHex(parts[2]) {
		return "", ErrMalformed
	}
	return parts[1], nil
}

// Verify, ham key'i saklanan bcrypt hash ile karşılaştırır.
func Verify(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}

// CacheKey, doğrulanmış key'lerin cache anahtarı: ham key'in SHA-256'sı.
// Ham key bellekte anahtar olarak tutulmaz.
func CacheKey(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Mask, log'lar için key'i maskeler: "fk_1a2b3c4d_****".
func Mask(raw string) string {
	prefix, err := Parse(raw)
	if err != nil {
		return "****"
	}
	return scheme + "_" + prefix + "_****"
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func isHex(s string) bool {
	for _, c := range s {
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f') {
			return false
		}
	}
	return true
}
