// Package static, admin dashboard ve API explorer sayfalarını binary'ye gömer.
//
// Sayfalar build adımı gerektirmeyen düz HTML + JS'tir; API'yi aynı origin'den
// çağırır. Bilinmeyen path'ler index.html'e düşer (SPA fallback).
package static

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// FrontendFS, dist/ dizinindeki dosyaları içerir.
// Kullanım: fs.Sub(FrontendFS, "dist") ile alt dizine eriş.
//
//go:embed all:dist
var FrontendFS embed.FS

// Handler, dist içeriğini servis eder. Dosya bulunamazsa ve istek bir asset
// (uzantılı path) değilse index.html döner; /api ve /ws altındakiler asla
// fallback'e düşmez, 404 alır.
func Handler() http.Handler {
	dist, err := fs.Sub(FrontendFS, "dist")
	if err != nil {
		// go:embed derleme zamanında dist'i garanti eder
		panic(err)
	}
	return spaHandler(dist)
}

func spaHandler(dist fs.FS) http.Handler {
	files := http.FileServerFS(dist)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if strings.HasPrefix(p, "api/") || p == "api" || p == "ws" {
			http.NotFound(w, r)
			return
		}

		if p == "" {
			files.ServeHTTP(w, r)
			return
		}
		if _, err := fs.Stat(dist, p); err == nil {
			files.ServeHTTP(w, r)
			return
		}
		if path.Ext(p) != "" {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Cache-Control", "no-cache")
		http.ServeFileFS(w, r, dist, "index.html")
	})
}
