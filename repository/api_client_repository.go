package repository

import (
	"context"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
)

// APIClientRepository, üçüncü parti client'lar ve izinleri.
type APIClientRepository interface {
	Create(ctx context.Context, client *models.APIClient) error
	GetByID(ctx context.Context, id string) (*models.APIClient, error)
	List(ctx context.Context, p models.ListParams) ([]models.APIClient, int, error)
	Update(ctx context.Context, client *models.APIClient) error
	SetActive(ctx context.Context, id string, active bool, at time.Time) error
	// GetPermissions, client'ın izinlerini sıralı döner.
	GetPermissions(ctx context.Context, clientID string) ([]string, error)
	// SetPermissions, mevcut izinleri silip verilen listeyi yazar. Transaction içinde çağrılmalı.
	SetPermissions(ctx context.Context, clientID string, perms []string, at time.Time) error
	WithTx(q database.TxQuerier) APIClientRepository
}

var APIClientSortable = []string{"name", "created_at", "rate_limit_per_minute"}

// APIKeyRepository, client key'lerinin metadata'sı.
type APIKeyRepository interface {
	Create(ctx context.Context, key *models.APIKey) error
	GetByID(ctx context.Context, id string) (*models.APIKey, error)
	// GetByPrefix, doğrulamada key'i bulmak için; prefix UNIQUE'dir.
	GetByPrefix(ctx context.Context, prefix string) (*models.APIKey, error)
	ListByClient(ctx context.Context, clientID string) ([]*models.APIKey, error)
	Revoke(ctx context.Context, id string, at time.Time) error
	TouchLastUsed(ctx context.Context, id string, at time.Time) error
	WithTx(q database.TxQuerier) APIKeyRepository
}
