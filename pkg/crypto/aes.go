// Package crypto: AES-256-GCM şifreleme ve deterministik lookup hash'i.
//
// Personel TC kimlik numarası veritabanında şifreli saklanır (Encrypt),
// tekillik kontrolü ve arama ise anahtarlı SHA-256 hash'i (LookupHash)
// üzerinden yapılır. GCM her şifrelemede rastgele nonce kullandığı için
// aynı değerin iki şifreli hali eşit değildir; bu yüzden ayrı bir hash gerekir.
//
//	key, _ := crypto.DeriveKey(cfg.Security.EncryptionKey)
//	enc, _ := crypto.Encrypt("12345678950", key)
//	plain, _ := crypto.Decrypt(enc, key)
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"
)

// DeriveKey, 64 hex karakterden 32-byte AES-256 anahtarı üretir.
func DeriveKey(hexKey string) ([]byte, error) {
	key, err := hex.DecodeString(hexKey)
	if err != nil {
		return nil, fmt.Errorf("invalid hex key: %w", err)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("key must be exactly 32 bytes (64 hex chars), got %d bytes", len(key))
	}
	return key, nil
}

// Encrypt, plaintext'i AES-256-GCM ile şifreler.
// Çıktı base64: nonce (12 byte) + ciphertext + auth tag.
func Encrypt(plaintext string, key []byte) (string, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("nonce generation: %w", err)
	}

	ciphertext := gcm.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(ciphertext), nil
}

// Decrypt, Encrypt çıktısını çözer. Yanlış anahtar veya bozuk veri hata döner.
func Decrypt(encoded string, key []byte) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	nonceSize := gcm.NonceSize()
	if len(data) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := data[:nonceSize], data[nonceSize:]
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}

	return string(plaintext), nil
}

// LookupHash, değerin anahtarlı (HMAC-SHA256) hex hash'i.
// Aynı girdi ve anahtar için her zaman aynı çıktı; UNIQUE index ve eşitlik araması için.
func LookupHash(value string, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write([]byte(value))
	return hex.EncodeToString(mac.Sum(nil))
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aes.NewCipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("cipher.NewGCM: %w", err)
	}
	return gcm, nil
}
