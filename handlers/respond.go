// Package handlers, HTTP request/response işlemlerini yönetir.
//
// Handler'ın görevi "ince" (thin) olmalı:
//  1. Request body'yi veya query'yi parse et
//  2. Service katmanını çağır
//  3. Sonucu zarf (envelope) içinde döndür
//
// Handler iş mantığı içermez, doğrudan DB'ye erişmez.
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/i18n"
	"go.uber.org/zap"
)

// maxBodyBytes, JSON body üst sınırı.
const maxBodyBytes = 1 << 20

// localizer, isteğin Accept-Language header'ına göre çevirmen döner.
func localizer(r *http.Request) *i18n.Localizer {
	return i18n.NewLocalizer(i18n.DetectLanguage(r.Header.Get("Accept-Language")))
}

// WriteError, service hatasını zarfa çevirir.
//
// Doğrulama hataları alan bazlı, çevrilmiş detaylarla 400 döner.
// 500'lerde iç hata loglanır, istemciye sadece genel mesaj gider.
// Middleware'lar da aynı fonksiyonu kullanır.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	loc := localizer(r)
	status := pkg.StatusFor(err)

	var verr *pkg.ValidationError
	switch {
	case errors.As(err, &verr):
		pkg.ErrorWithDetails(w, http.StatusBadRequest, loc.T("errors.validation"), loc.Fields(verr.Fields))
	case status == http.StatusInternalServerError:
		zap.L().Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", RequestID(r.Context())),
			zap.Error(err),
		)
		pkg.ErrorWithMessage(w, status, loc.T("errors.internal"))
	default:
		pkg.ErrorWithMessage(w, status, err.Error())
	}
}

// WriteMessage, çeviri anahtarından üretilen mesajla hata yanıtı gönderir.
func WriteMessage(w http.ResponseWriter, r *http.Request, status int, key string, params map[string]string) {
	pkg.ErrorWithMessage(w, status, localizer(r).TWithParams(key, params))
}

// decodeJSON, body'yi dst'ye okur. Hata durumunda yanıtı yazar ve false döner.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		WriteMessage(w, r, http.StatusBadRequest, "errors.invalidBody", nil)
		return false
	}
	return true
}

// decodeOptionalJSON, boş body'yi kabul eder; dst sıfır değerinde kalır.
func decodeOptionalJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		WriteMessage(w, r, http.StatusBadRequest, "errors.invalidBody", nil)
		return false
	}
	return true
}

// listParams, liste query'sini okur. Hata durumunda yanıtı yazar ve false döner.
func listParams(w http.ResponseWriter, r *http.Request, sortable []string, filters ...string) (models.ListParams, bool) {
	p, err := models.ParseListParams(r.URL.Query(), sortable, filters...)
	if err != nil {
		WriteError(w, r, err)
		return p, false
	}
	return p, true
}

// includeInactive, ?include_inactive=true verilmiş mi. Secure route'larda
// middleware bu parametreyi siler; sadece admin panelinde etkilidir.
func includeInactive(r *http.Request) bool {
	v := r.URL.Query().Get("include_inactive")
	return v == "true" || v == "1"
}
