// Package actor, bir isteği kimin yaptığını context üzerinden taşır.
//
// Auth middleware'leri Actor'ü context'e koyar; service katmanı audit kaydı
// yazarken okur. Service'ler HTTP bilmez, sadece context.Context alır.
package actor

import "context"

// Actor, mutasyonu başlatan taraf. UserID (admin JWT) veya APIClientID
// (API key) dolu olur; ikisi de boşsa sistem işlemidir (cron, bootstrap).
type Actor struct {
	UserID      string
	APIClientID string
	APIKeyID    string
	IP          string
	UserAgent   string
}

type ctxKey struct{}

// With, actor'ü context'e ekler.
func With(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// From, context'teki actor'ü döner. Yoksa boş Actor.
func From(ctx context.Context) Actor {
	a, _ := ctx.Value(ctxKey{}).(Actor)
	return a
}

// Label, log ve created_by alanları için kısa tanımlayıcı.
func (a Actor) Label() string {
	switch {
	case a.UserID != "":
		return "user:" + a.UserID
	case a.APIClientID != "":
		return "client:" + a.APIClientID
	default:
		return "system"
	}
}
