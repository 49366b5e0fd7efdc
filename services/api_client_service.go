package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/apikey"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/cache"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/email"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg/metrics"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

const (
	// lastUsedInterval, bir key'in last_used_at'i en fazla bu sıklıkla yazılır.
	lastUsedInterval = time.Minute

	// defaultUsageWindow, from verilmezse kullanım raporunun kapsadığı süre.
	defaultUsageWindow = 7 * 24 * time.Hour

	emailTimeout = 10 * time.Second
)

// APIClientService, üçüncü parti client'ların, izinlerinin ve key'lerinin yönetimi;
// secure isteklerde key doğrulaması.
type APIClientService interface {
	List(ctx context.Context, p models.ListParams) (*models.Page[models.APIClient], error)
	// GetByID, client'ı izinleri ve key metadata'sı ile döner.
	GetByID(ctx context.Context, id string) (*models.APIClient, error)
	Create(ctx context.Context, ownerUserID string, req *models.CreateAPIClientRequest) (*models.APIClient, error)
	Update(ctx context.Context, id string, req *models.UpdateAPIClientRequest) (*models.APIClient, error)
	Deactivate(ctx context.Context, id string) (*models.APIClient, error)
	SetPermissions(ctx context.Context, id string, req *models.SetPermissionsRequest) (*models.APIClient, error)

	// CreateKey, yeni key üretir. Ham key yanıtta sadece bu sefer döner.
	CreateKey(ctx context.Context, clientID string, req *models.CreateAPIKeyRequest) (*models.CreatedAPIKey, error)
	RevokeKey(ctx context.Context, clientID, keyID string) error

	Usage(ctx context.Context, clientID string, from, to *time.Time) (*models.UsageStats, error)

	// Verify, ham key'i doğrular ve client kimliğini döner.
	// Geçersiz, süresi dolmuş veya iptal edilmiş key ErrUnauthorized döner.
	Verify(ctx context.Context, raw string) (*models.APIClientIdentity, error)
}

type apiClientService struct {
	clientRepo repository.APIClientRepository
	keyRepo    repository.APIKeyRepository
	usageRepo  repository.UsageRepository
	audit      AuditService
	mailer     email.EmailSender
	verified   *cache.TTLCache[string, *models.APIClientIdentity]
	touched    *cache.TTLCache[string, struct{}]
	cacheTTL   time.Duration
	defaultRPM int
	logger     *zap.Logger
}

func NewAPIClientService(
	clientRepo repository.APIClientRepository,
	keyRepo repository.APIKeyRepository,
	usageRepo repository.UsageRepository,
	audit AuditService,
	mailer email.EmailSender,
	verified *cache.TTLCache[string, *models.APIClientIdentity],
	cacheTTL time.Duration,
	defaultRateLimit int,
	logger *zap.Logger,
) APIClientService {
	return &apiClientService{
		clientRepo: clientRepo,
		keyRepo:    keyRepo,
		usageRepo:  usageRepo,
		audit:      audit,
		mailer:     mailer,
		verified:   verified,
		touched:    cache.New[string, struct{}](lastUsedInterval, 5*lastUsedInterval),
		cacheTTL:   cacheTTL,
		defaultRPM: defaultRateLimit,
		logger:     logger.Named("apiclient"),
	}
}

func (s *apiClientService) List(ctx context.Context, p models.ListParams) (*models.Page[models.APIClient], error) {
	items, total, err := s.clientRepo.List(ctx, p)
	return listPage(items, total, err, p)
}

func (s *apiClientService) GetByID(ctx context.Context, id string) (*models.APIClient, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client.Permissions, err = s.clientRepo.GetPermissions(ctx, id); err != nil {
		return nil, err
	}
	if client.Keys, err = s.keyRepo.ListByClient(ctx, id); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *apiClientService) Create(ctx context.Context, ownerUserID string, req *models.CreateAPIClientRequest) (*models.APIClient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	at := now()
	client := &models.APIClient{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		ContactEmail: req.ContactEmail,
		OwnerUserID:  optional(ownerUserID),
		IsActive:     true,
		CreatedAt:    at,
		UpdatedAt:    at,
		Permissions:  req.Permissions,
	}
	if req.RateLimitPerMinute != nil {
		client.RateLimitPerMinute = *req.RateLimitPerMinute
	} else {
		client.RateLimitPerMinute = s.defaultRPM
	}

	err := s.audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		repo := s.clientRepo.WithTx(tx)
		if err := repo.Create(ctx, client); err != nil {
			return err
		}
		if err := repo.SetPermissions(ctx, client.ID, client.Permissions, at); err != nil {
			return err
		}
		return rec("api_clients", client.ID, models.AuditInsert, nil, client)
	})
	if err != nil {
		return nil, err
	}

	client.Keys = []*models.APIKey{}
	return client, nil
}

func (s *apiClientService) Update(ctx context.Context, id string, req *models.UpdateAPIClientRequest) (*models.APIClient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var updated *models.APIClient
	err := s.audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		repo := s.clientRepo.WithTx(tx)
		before, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}

		after := *before
		req.Apply(&after)
		after.UpdatedAt = now()
		if err := repo.Update(ctx, &after); err != nil {
			return err
		}
		updated = &after
		return rec("api_clients", id, models.AuditUpdate, before, &after)
	})
	if err != nil {
		return nil, err
	}

	// Rate limit ve aktiflik cache'teki kimlikte taşınır
	s.invalidateClient(id)
	return s.GetByID(ctx, updated.ID)
}

func (s *apiClientService) Deactivate(ctx context.Context, id string) (*models.APIClient, error) {
	client, err := toggleActive(ctx, s.audit, entityInfo[models.APIClient]{
		table:  "api_clients",
		name:   "api client",
		active: func(c *models.APIClient) bool { return c.IsActive },
	}, id, false, func(tx *sqlx.Tx) activeRepo[models.APIClient] { return s.clientRepo.WithTx(tx) })
	if err != nil {
		return nil, err
	}

	s.invalidateClient(id)
	return client, nil
}

func (s *apiClientService) SetPermissions(ctx context.Context, id string, req *models.SetPermissionsRequest) (*models.APIClient, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	err := s.audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		repo := s.clientRepo.WithTx(tx)
		before, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if before.Permissions, err = repo.GetPermissions(ctx, id); err != nil {
			return err
		}

		after := *before
		after.Permissions = req.Permissions
		after.UpdatedAt = now()
		if err := repo.Update(ctx, &after); err != nil {
			return err
		}
		if err := repo.SetPermissions(ctx, id, req.Permissions, after.UpdatedAt); err != nil {
			return err
		}
		return rec("api_clients", id, models.AuditUpdate, before, &after)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateClient(id)
	return s.GetByID(ctx, id)
}

func (s *apiClientService) CreateKey(ctx context.Context, clientID string, req *models.CreateAPIKeyRequest) (*models.CreatedAPIKey, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	gen, err := apikey.Generate()
	if err != nil {
		return nil, err
	}

	at := now()
	key := &models.APIKey{
		ID:        uuid.NewString(),
		ClientID:  clientID,
		Name:      req.Name,
		KeyPrefix: gen.Prefix,
		KeyHash:   gen.Hash,
		IsActive:  true,
		CreatedAt: at,
	}
	if req.ExpiresInDays != nil {
		exp := at.AddDate(0, 0, *req.ExpiresInDays)
		key.ExpiresAt = &exp
	}

	var client *models.APIClient
	err = s.audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		c, err := s.clientRepo.WithTx(tx).GetByID(ctx, clientID)
		if err != nil {
			return err
		}
		if !c.IsActive {
			return fmt.Errorf("%w: api client is inactive", pkg.ErrBadRequest)
		}
		client = c

		if err := s.keyRepo.WithTx(tx).Create(ctx, key); err != nil {
			return err
		}
		return rec("api_keys", key.ID, models.AuditInsert, nil, key)
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, client, key, s.mailer.SendAPIKeyCreated)
	return &models.CreatedAPIKey{APIKey: key, Key: gen.Raw}, nil
}

func (s *apiClientService) RevokeKey(ctx context.Context, clientID, keyID string) error {
	var (
		client *models.APIClient
		after  *models.APIKey
	)
	err := s.audit.InTx(ctx, func(tx *sqlx.Tx, rec Recorder) error {
		repo := s.keyRepo.WithTx(tx)
		before, err := repo.GetByID(ctx, keyID)
		if err != nil {
			return err
		}
		// Başka client'ın key'i bu URL'den görünmez
		if before.ClientID != clientID {
			return fmt.Errorf("%w: api key", pkg.ErrNotFound)
		}

		if err := repo.Revoke(ctx, keyID, now()); err != nil {
			return err
		}
		if after, err = repo.GetByID(ctx, keyID); err != nil {
			return err
		}
		if client, err = s.clientRepo.WithTx(tx).GetByID(ctx, clientID); err != nil {
			return err
		}
		return rec("api_keys", keyID, models.AuditDelete, before, after)
	})
	if err != nil {
		return err
	}

	s.verified.DeleteFunc(func(_ string, id *models.APIClientIdentity) bool { return id.KeyID == keyID })
	s.notify(ctx, client, after, s.mailer.SendAPIKeyRevoked)
	return nil
}

func (s *apiClientService) Usage(ctx context.Context, clientID string, from, to *time.Time) (*models.UsageStats, error) {
	if _, err := s.clientRepo.GetByID(ctx, clientID); err != nil {
		return nil, err
	}

	end := now()
	if to != nil {
		end = to.UTC()
	}
	start := end.Add(-defaultUsageWindow)
	if from != nil {
		start = from.UTC()
	}
	if end.Before(start) {
		return nil, pkg.NewValidationError("to", "gtefield", "from")
	}

	return s.usageRepo.Stats(ctx, clientID, start, end)
}

func (s *apiClientService) Verify(ctx context.Context, raw string) (*models.APIClientIdentity, error) {
	prefix, err := apikey.Parse(raw)
	if err != nil {
		metrics.RecordAPIKeyVerification("invalid")
		return nil, fmt.Errorf("%w: invalid api key", pkg.ErrUnauthorized)
	}

	cacheKey := apikey.CacheKey(raw)
	if identity, ok := s.verified.Get(cacheKey); ok {
		metrics.RecordAPIKeyVerification("cache_hit")
		s.touch(ctx, identity.KeyID)
		return identity, nil
	}

	key, err := s.keyRepo.GetByPrefix(ctx, prefix)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			metrics.RecordAPIKeyVerification("invalid")
			return nil, fmt.Errorf("%w: invalid api key", pkg.ErrUnauthorized)
		}
		return nil, err
	}
	if !apikey.Verify(key.KeyHash, raw) {
		metrics.RecordAPIKeyVerification("invalid")
		return nil, fmt.Errorf("%w: invalid api key", pkg.ErrUnauthorized)
	}

	at := time.Now()
	if key.Expired(at) {
		metrics.RecordAPIKeyVerification("expired")
		return nil, fmt.Errorf("%w: api key expired", pkg.ErrUnauthorized)
	}
	if !key.Usable(at) {
		metrics.RecordAPIKeyVerification("inactive")
		return nil, fmt.Errorf("%w: api key revoked", pkg.ErrUnauthorized)
	}

	client, err := s.clientRepo.GetByID(ctx, key.ClientID)
	if err != nil {
		return nil, err
	}
	if !client.IsActive {
		metrics.RecordAPIKeyVerification("inactive")
		return nil, fmt.Errorf("%w: api client is inactive", pkg.ErrUnauthorized)
	}

	perms, err := s.clientRepo.GetPermissions(ctx, client.ID)
	if err != nil {
		return nil, err
	}

	identity := &models.APIClientIdentity{
		ClientID:           client.ID,
		ClientName:         client.Name,
		KeyID:              key.ID,
		Permissions:        models.PermissionSet(perms),
		RateLimitPerMinute: client.RateLimitPerMinute,
		KeyExpiresAt:       key.ExpiresAt,
	}

	// Key'in bitişi cache TTL'inden yakınsa entry onunla birlikte düşer
	ttl := s.cacheTTL
	if key.ExpiresAt != nil {
		if left := key.ExpiresAt.Sub(at); left < ttl {
			ttl = left
		}
	}
	s.verified.SetWithTTL(cacheKey, identity, ttl)

	metrics.RecordAPIKeyVerification("ok")
	s.touch(ctx, key.ID)
	return identity, nil
}

// ─── Private Helpers ───

// invalidateClient, client'a ait tüm doğrulanmış key'leri cache'ten düşürür.
func (s *apiClientService) invalidateClient(clientID string) {
	n := s.verified.DeleteFunc(func(_ string, id *models.APIClientIdentity) bool { return id.ClientID == clientID })
	if n > 0 {
		s.logger.Debug("verified keys invalidated", zap.String("client_id", clientID), zap.Int("count", n))
	}
}

// touch, last_used_at'i key başına dakikada en fazla bir kez yazar.
// Hata isteği düşürmez, sadece loglanır.
func (s *apiClientService) touch(ctx context.Context, keyID string) {
	if _, seen := s.touched.Get(keyID); seen {
		return
	}
	s.touched.Set(keyID, struct{}{})

	if err := s.keyRepo.TouchLastUsed(ctx, keyID, now()); err != nil {
		s.logger.Warn("failed to update api key last use", zap.String("key_id", keyID), zap.Error(err))
	}
}

// notify, client'ın contact_email'i varsa bildirimi arka planda gönderir.
func (s *apiClientService) notify(
	ctx context.Context,
	client *models.APIClient,
	key *models.APIKey,
	send func(context.Context, string, email.KeyNotice) error,
) {
	if client == nil || key == nil || client.ContactEmail == nil {
		return
	}

	notice := email.KeyNotice{
		ClientName: client.Name,
		KeyPrefix:  "fk_" + key.KeyPrefix,
		ExpiresAt:  key.ExpiresAt,
		At:         now(),
	}
	if key.Name != nil {
		notice.KeyName = *key.Name
	}
	to := *client.ContactEmail

	go func() {
		sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), emailTimeout)
		defer cancel()
		if err := send(sendCtx, to, notice); err != nil {
			s.logger.Warn("failed to send api key notice",
				zap.String("client_id", client.ID), zap.String("key_prefix", notice.KeyPrefix), zap.Error(err))
		}
	}()
}
