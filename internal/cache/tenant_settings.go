package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/mohit-mindspick/whatsapp/internal/logging"
	"github.com/mohit-mindspick/whatsapp/internal/models"
)

const tenantSettingsPrefix = "whatsapp:tenant-settings"

var ErrCacheUnavailable = errors.New("tenant settings cache unavailable")

type TenantSettingsSource interface {
	FindTenantSettings(ctx context.Context, tenantID uuid.UUID) (*models.TenantSettings, error)
}

// TenantSettings is a read-through cache in front of a TenantSettingsSource.
// Redis failures are logged and the lookup falls through to the source.
type TenantSettings struct {
	redis *redis.Client
	next  TenantSettingsSource
	ttl   time.Duration
}

func NewTenantSettings(client *redis.Client, next TenantSettingsSource, ttl time.Duration) *TenantSettings {
	return &TenantSettings{redis: client, next: next, ttl: ttl}
}

func (c *TenantSettings) key(tenantID uuid.UUID) string {
	return tenantSettingsPrefix + ":" + tenantID.String()
}

func (c *TenantSettings) FindTenantSettings(ctx context.Context, tenantID uuid.UUID) (*models.TenantSettings, error) {
	l := logging.FromContext(ctx)

	cached, err := c.get(ctx, tenantID)
	switch {
	case err == nil:
		return cached, nil
	case errors.Is(err, redis.Nil):
	default:
		l.Warn("tenant_settings_cache_read_error", "tenant_id", tenantID, "error", err)
	}

	settings, err := c.next.FindTenantSettings(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if err := c.put(ctx, tenantID, settings); err != nil {
		l.Warn("tenant_settings_cache_write_error", "tenant_id", tenantID, "error", err)
	}
	return settings, nil
}

// Invalidate drops the cached entry for a tenant.
func (c *TenantSettings) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	if err := c.redis.Del(ctx, c.key(tenantID)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}

func (c *TenantSettings) get(ctx context.Context, tenantID uuid.UUID) (*models.TenantSettings, error) {
	raw, err := c.redis.Get(ctx, c.key(tenantID)).Bytes()
	if err != nil {
		return nil, err
	}
	var s models.TenantSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("decode cached settings: %w", err)
	}
	return &s, nil
}

func (c *TenantSettings) put(ctx context.Context, tenantID uuid.UUID, s *models.TenantSettings) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	if err := c.redis.Set(ctx, c.key(tenantID), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrCacheUnavailable, err)
	}
	return nil
}
