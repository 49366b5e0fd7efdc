// Package email, uygulama genelinde email gönderimi için soyutlama katmanı sağlar.
//
// EmailSender interface'i ile gönderim detayları soyutlanır. Varsayılan
// implementasyon Resend API kullanır; RESEND_API_KEY tanımlı değilse
// NewNoopSender ile gönderimler sadece loglanır.
//
// Gönderilen bildirimler API client'ın contact_email adresine gider:
// yeni key oluşturulduğunda ve bir key iptal edildiğinde. Key'in kendisi
// ASLA email'e konmaz, sadece maskelenmiş prefix'i.
package email

import (
	"context"
	"fmt"
	"html"
	"time"

	"github.com/resend/resend-go/v3"
	"go.uber.org/zap"
)

// KeyNotice, key bildirim email'lerinin içeriği.
type KeyNotice struct {
	ClientName string
	KeyName    string
	KeyPrefix  string // "fk_1a2b3c4d", secret kısmı içermez
	ExpiresAt  *time.Time
	At         time.Time
}

// EmailSender, email gönderimi için interface.
// Service katmanı bu interface'e bağımlıdır, concrete Resend implementasyonuna değil.
type EmailSender interface {
	SendAPIKeyCreated(ctx context.Context, toEmail string, n KeyNotice) error
	SendAPIKeyRevoked(ctx context.Context, toEmail string, n KeyNotice) error
}

// resendSender, Resend API ile email gönderen EmailSender implementasyonu.
type resendSender struct {
	client    *resend.Client
	fromEmail string // Gönderici adresi (ör: noreply@filoapi.local)
	appURL    string // Admin panelinin public URL'i
}

// NewResendSender, Resend API client'ı ile yeni bir EmailSender oluşturur.
//
// apiKey: Resend dashboard'dan alınan API key (re_xxxxxxxx formatında).
// fromEmail: Resend'de doğrulanmış domain altında olmalı.
func NewResendSender(apiKey, fromEmail, appURL string) EmailSender {
	return &resendSender{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
		appURL:    appURL,
	}
}

func (s *resendSender) SendAPIKeyCreated(ctx context.Context, toEmail string, n KeyNotice) error {
	body := fmt.Sprintf(
		"A new API key <b>%s</b> (%s) was created for client <b>%s</b> at %s.%s",
		html.EscapeString(keyLabel(n)), html.EscapeString(n.KeyPrefix),
		html.EscapeString(n.ClientName), n.At.UTC().Format(time.RFC1123), expiryLine(n),
	)
	return s.send(ctx, toEmail, "FiloAPI: new API key created", "API key created", body)
}

func (s *resendSender) SendAPIKeyRevoked(ctx context.Context, toEmail string, n KeyNotice) error {
	body := fmt.Sprintf(
		"The API key <b>%s</b> (%s) of client <b>%s</b> was revoked at %s. Requests using it are now rejected.",
		html.EscapeString(keyLabel(n)), html.EscapeString(n.KeyPrefix),
		html.EscapeString(n.ClientName), n.At.UTC().Format(time.RFC1123),
	)
	return s.send(ctx, toEmail, "FiloAPI: API key revoked", "API key revoked", body)
}

func (s *resendSender) send(ctx context.Context, toEmail, subject, title, body string) error {
	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="font-family:Arial,Helvetica,sans-serif;">
  <h2>%s</h2>
  <p>%s</p>
  <p>Manage your keys in the <a href="%s/">FiloAPI admin panel</a>.</p>
  <p style="color:#64748b;font-size:13px;">If you did not expect this change, contact your administrator.</p>
</body>
</html>`, title, body, html.EscapeString(s.appURL))

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("FiloAPI <%s>", s.fromEmail),
		To:      []string{toEmail},
		Subject: subject,
		Html:    page,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send %q email: %w", subject, err)
	}
	return nil
}

// noopSender, email yapılandırılmamışsa kullanılır; sadece loglar.
type noopSender struct {
	logger *zap.Logger
}

// NewNoopSender, hiçbir şey göndermeyen EmailSender döner.
func NewNoopSender(logger *zap.Logger) EmailSender {
	return &noopSender{logger: logger}
}

func (s *noopSender) SendAPIKeyCreated(_ context.Context, toEmail string, n KeyNotice) error {
	s.logger.Debug("email disabled, skipping key created notice",
		zap.String("to", toEmail), zap.String("key_prefix", n.KeyPrefix))
	return nil
}

func (s *noopSender) SendAPIKeyRevoked(_ context.Context, toEmail string, n KeyNotice) error {
	s.logger.Debug("email disabled, skipping key revoked notice",
		zap.String("to", toEmail), zap.String("key_prefix", n.KeyPrefix))
	return nil
}

func keyLabel(n KeyNotice) string {
	if n.KeyName != "" {
		return n.KeyName
	}
	return "unnamed"
}

func expiryLine(n KeyNotice) string {
	if n.ExpiresAt == nil {
		return " The key does not expire."
	}
	return " The key expires at " + n.ExpiresAt.UTC().Format(time.RFC1123) + "."
}
