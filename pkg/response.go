package pkg

import (
	"encoding/json"
	"errors"
	"net/http"
)

// APIResponse, tüm API yanıtları için standart zarf (envelope).
// İstemci her zaman aynı yapıyı bekler.
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Details any    `json:"details,omitempty"`
}

// JSON, başarılı bir yanıt gönderir.
func JSON(w http.ResponseWriter, status int, data any) {
	write(w, status, APIResponse{Success: true, Data: data})
}

// JSONWithMessage, data ile birlikte kısa bir bilgi mesajı gönderir.
func JSONWithMessage(w http.ResponseWriter, status int, data any, message string) {
	write(w, status, APIResponse{Success: true, Data: data, Message: message})
}

// Error, hata yanıtı gönderir.
// Domain error'ları otomatik olarak uygun HTTP status code'a çevrilir.
// 500'lerde iç hata detayı istemciye sızdırılmaz.
func Error(w http.ResponseWriter, err error) {
	status := StatusFor(err)

	resp := APIResponse{Success: false, Error: err.Error()}
	if status == http.StatusInternalServerError {
		resp.Error = "internal server error"
	}

	var verr *ValidationError
	if errors.As(err, &verr) {
		resp.Error = "validation failed"
		resp.Details = verr.Fields
	}

	write(w, status, resp)
}

// ErrorWithMessage, özel mesajlı hata yanıtı gönderir.
func ErrorWithMessage(w http.ResponseWriter, status int, message string) {
	write(w, status, APIResponse{Success: false, Error: message})
}

// ErrorWithDetails, mesaj + yapılandırılmış detay ile hata yanıtı gönderir.
func ErrorWithDetails(w http.ResponseWriter, status int, message string, details any) {
	write(w, status, APIResponse{Success: false, Error: message, Details: details})
}

func write(w http.ResponseWriter, status int, resp APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// StatusFor, domain error'ları HTTP status code'larına eşler.
// errors.Is() wrap edilmiş error'ları da yakalar.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
