// Package receipts keeps short-lived receipts of delivered cards in the cache.
package receipts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/unifiedui/card-service/internal/core/cache"
	domainerrors "github.com/unifiedui/card-service/internal/domain/errors"
	"github.com/unifiedui/card-service/internal/domain/models"
	"github.com/unifiedui/card-service/internal/pkg/encryption"
)

// DefaultReceiptTTL is how long a delivery receipt stays readable.
const DefaultReceiptTTL = 24 * time.Hour

// Service stores and reads delivery receipts.
type Service interface {
	// Record stores a receipt under its delivery ID.
	Record(ctx context.Context, receipt *models.DeliveryReceipt) error

	// Get returns the receipt for deliveryID or a not found error.
	Get(ctx context.Context, deliveryID string) (*models.DeliveryReceipt, error)
}

type service struct {
	cacheClient cache.Client
	sealer      encryption.Sealer
	ttl         time.Duration
}

// Config holds the configuration for the receipts service.
type Config struct {
	CacheClient cache.Client
	Sealer      encryption.Sealer
	TTL         time.Duration
}

// NewService creates a new receipts service.
func NewService(cfg *Config) (Service, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if cfg.CacheClient == nil {
		return nil, fmt.Errorf("cache client is required")
	}
	if cfg.Sealer == nil {
		return nil, fmt.Errorf("sealer is required")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultReceiptTTL
	}

	return &service{
		cacheClient: cfg.CacheClient,
		sealer:      cfg.Sealer,
		ttl:         ttl,
	}, nil
}

// Record stores a receipt.
func (s *service) Record(ctx context.Context, receipt *models.DeliveryReceipt) error {
	if receipt == nil || receipt.DeliveryID == "" {
		return fmt.Errorf("receipt with delivery id is required")
	}

	data, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("failed to marshal receipt: %w", err)
	}

	key := BuildCacheKey(receipt.DeliveryID)
	sealed, err := s.sealer.Seal(data, []byte(key))
	if err != nil {
		return fmt.Errorf("failed to seal receipt: %w", err)
	}

	if err := s.cacheClient.Set(ctx, key, []byte(sealed), s.ttl); err != nil {
		return fmt.Errorf("failed to store receipt in cache: %w", err)
	}
	return nil
}

// Get reads a receipt. Entries that no longer open (e.g. after a key change)
// are deleted and reported as not found.
func (s *service) Get(ctx context.Context, deliveryID string) (*models.DeliveryReceipt, error) {
	key := BuildCacheKey(deliveryID)

	sealed, err := s.cacheClient.Get(ctx, key)
	if err != nil {
		return nil, domainerrors.NewServiceUnavailableError("receipt cache", err)
	}
	if sealed == nil {
		return nil, domainerrors.NewNotFoundError("delivery receipt", deliveryID)
	}

	data, err := s.sealer.Open(string(sealed), []byte(key))
	if err != nil {
		log.Warn().Err(err).Str("delivery_id", deliveryID).Msg("dropping unreadable receipt")
		_, _ = s.cacheClient.Delete(ctx, key)
		return nil, domainerrors.NewNotFoundError("delivery receipt", deliveryID)
	}

	var receipt models.DeliveryReceipt
	if err := json.Unmarshal(data, &receipt); err != nil {
		_, _ = s.cacheClient.Delete(ctx, key)
		return nil, domainerrors.NewNotFoundError("delivery receipt", deliveryID)
	}
	return &receipt, nil
}

// BuildCacheKey generates the cache key for a receipt.
func BuildCacheKey(deliveryID string) string {
	return "receipt:" + deliveryID
}
