// Package i18n, backend tarafında çoklu dil desteği sağlar.
//
// Hata zarfındaki genel mesajlar ve doğrulama detayları istemcinin diline
// göre döner. Dil Accept-Language header'ından belirlenir, yoksa varsayılan (en).
//
// Kullanım:
//
//	localizer := i18n.NewLocalizer(i18n.DetectLanguage(r.Header.Get("Accept-Language")))
//	msg := localizer.T("errors.validation")
//	// → "Doğrulama başarısız"
package i18n

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"go.uber.org/zap"
)

// SupportedLanguages, desteklenen dil kodları.
var SupportedLanguages = []string{"en", "tr"}

// DefaultLanguage, varsayılan dil.
const DefaultLanguage = "en"

// translations, map[lang]map[key]value. Load ile bir kez yazılır, sonra sadece okunur.
var (
	translations map[string]map[string]string
	loadOnce     sync.Once
)

// Load, çeviri dosyalarını fs.FS'ten yükler (en.json, tr.json).
// Programın ömrü boyunca yalnızca ilk çağrı etkilidir.
func Load(localesFS fs.FS, logger *zap.Logger) error {
	var loadErr error

	loadOnce.Do(func() {
		loaded := make(map[string]map[string]string)

		for _, lang := range SupportedLanguages {
			fileName := lang + ".json"

			data, err := fs.ReadFile(localesFS, fileName)
			if err != nil {
				loadErr = fmt.Errorf("failed to read translation file %s: %w", fileName, err)
				return
			}

			// Nested JSON'u flat key'lere dönüştür: {"errors": {"internal": "..."}} → "errors.internal"
			var nested map[string]any
			if err := json.Unmarshal(data, &nested); err != nil {
				loadErr = fmt.Errorf("failed to parse translation file %s: %w", fileName, err)
				return
			}

			flat := make(map[string]string)
			flattenMap("", nested, flat)
			loaded[lang] = flat

			logger.Info("translations loaded", zap.String("lang", lang), zap.Int("keys", len(flat)))
		}

		translations = loaded
	})

	return loadErr
}

// Localizer, belirli bir dil için çeviri yapan struct.
type Localizer struct {
	lang string
}

// NewLocalizer, desteklenmeyen dil verilirse varsayılana düşer.
func NewLocalizer(lang string) *Localizer {
	if !isSupported(lang) {
		lang = DefaultLanguage
	}
	return &Localizer{lang: lang}
}

// Lang, localizer'ın dil kodu.
func (l *Localizer) Lang() string {
	return l.lang
}

// T, anahtarın çevirisini döner. Bulunamazsa İngilizce'ye, o da yoksa anahtarın kendisine düşer.
func (l *Localizer) T(key string) string {
	if msg, ok := translations[l.lang][key]; ok {
		return msg
	}
	if msg, ok := translations[DefaultLanguage][key]; ok {
		return msg
	}
	return key
}

// TWithParams, metindeki {{param}} yer tutucularını değerlerle değiştirir.
//
//	localizer.TWithParams("validation.max", map[string]string{"field": "name", "param": "100"})
//	→ "name en fazla 100 olmalı"
func (l *Localizer) TWithParams(key string, params map[string]string) string {
	msg := l.T(key)
	for k, v := range params {
		msg = strings.ReplaceAll(msg, "{{"+k+"}}", v)
	}
	return msg
}

// ErrorKey, domain error'ının genel mesaj anahtarı.
func ErrorKey(err error) string {
	var verr *pkg.ValidationError
	switch {
	case errors.As(err, &verr):
		return "errors.validation"
	case errors.Is(err, pkg.ErrNotFound):
		return "errors.notFound"
	case errors.Is(err, pkg.ErrUnauthorized):
		return "errors.unauthorized"
	case errors.Is(err, pkg.ErrForbidden):
		return "errors.forbidden"
	case errors.Is(err, pkg.ErrAlreadyExists):
		return "errors.alreadyExists"
	case errors.Is(err, pkg.ErrBadRequest):
		return "errors.badRequest"
	case errors.Is(err, pkg.ErrRateLimited):
		return "errors.rateLimited"
	default:
		return "errors.internal"
	}
}

// Fields, doğrulama hatalarının Message alanını doldurulmuş kopyasını döner.
// Bilinmeyen kural için "validation.default" kullanılır.
func (l *Localizer) Fields(fields []pkg.FieldError) []pkg.FieldError {
	out := make([]pkg.FieldError, len(fields))
	for i, f := range fields {
		key := "validation." + f.Rule
		if l.T(key) == key {
			key = "validation.default"
		}
		f.Message = l.TWithParams(key, map[string]string{"field": f.Field, "param": f.Param})
		out[i] = f
	}
	return out
}

// DetectLanguage, Accept-Language header'ından en uygun dili belirler.
// Header formatı: "tr-TR,tr;q=0.9,en-US;q=0.8,en;q=0.7"
func DetectLanguage(acceptLanguage string) string {
	if acceptLanguage == "" {
		return DefaultLanguage
	}

	// Basit parsing: ilk eşleşen desteklenen dili döndür
	for _, part := range strings.Split(acceptLanguage, ",") {
		lang := strings.TrimSpace(strings.Split(part, ";")[0])
		lang = strings.ToLower(strings.Split(lang, "-")[0])

		if isSupported(lang) {
			return lang
		}
	}

	return DefaultLanguage
}

func isSupported(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// flattenMap, nested JSON'u "dot notation" key'lere dönüştürür.
func flattenMap(prefix string, src map[string]any, dst map[string]string) {
	for k, v := range src {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			dst[key] = val
		case map[string]any:
			flattenMap(key, val, dst)
		}
	}
}
