package services

import (
	"context"
	"sync"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/metrics"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const usageWriteTimeout = 5 * time.Second

// UsageRecorder, secure isteklerin kullanım kaydını alır. Record bloklamaz.
type UsageRecorder interface {
	Record(entry *models.RequestLog)
}

// UsageWriter, api_request_logs yazımını istek yolundan ayırır.
//
// Middleware Record ile buffered channel'a bırakır; tek bir goroutine
// sırayla DB'ye yazar. Buffer doluysa kayıt düşürülür, uyarı loglanır ve
// metrik artırılır. İstek hiçbir zaman log yazımını beklemez.
//
// Goroutine pattern: channel + done (pkg/cache/ttl_cache.go ile aynı).
// Graceful shutdown: main.go'da writer.Stop() kalan kayıtları yazıp döner.
type UsageWriter struct {
	repo   repository.UsageRepository
	ch     chan *models.RequestLog
	done   chan struct{}
	logger *zap.Logger

	mu      sync.RWMutex // closed ile ch kapanışını korur
	closed  bool
	started sync.Once
}

func NewUsageWriter(repo repository.UsageRepository, buffer int, logger *zap.Logger) *UsageWriter {
	if buffer <= 0 {
		buffer = 1
	}
	return &UsageWriter{
		repo:   repo,
		ch:     make(chan *models.RequestLog, buffer),
		done:   make(chan struct{}),
		logger: logger.Named("usage"),
	}
}

// Start, yazıcı goroutine'ini başlatır. Birden fazla çağrı tek goroutine açar.
func (w *UsageWriter) Start() {
	w.started.Do(func() {
		go w.run()
	})
}

// Record, kaydı kuyruğa bırakır. Kuyruk doluysa veya writer durdurulmuşsa düşürür.
func (w *UsageWriter) Record(entry *models.RequestLog) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now()
	}

	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}

	select {
	case w.ch <- entry:
	default:
		metrics.RecordRequestLogDrop()
		w.logger.Warn("request log buffer full, entry dropped",
			zap.String("client_id", entry.APIClientID), zap.String("path", entry.Path))
	}
}

// Stop, yeni kayıt almayı keser ve kuyruktakiler yazılana kadar bekler.
func (w *UsageWriter) Stop() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	close(w.ch)
	w.mu.Unlock()

	// Start hiç çağrılmadıysa kalanları burada yaz
	w.started.Do(func() { go w.run() })
	<-w.done
}

func (w *UsageWriter) run() {
	defer close(w.done)

	for entry := range w.ch {
		ctx, cancel := context.WithTimeout(context.Background(), usageWriteTimeout)
		if err := w.repo.Create(ctx, entry); err != nil {
			w.logger.Warn("failed to write request log", zap.String("client_id", entry.APIClientID), zap.Error(err))
		}
		cancel()
	}
}
