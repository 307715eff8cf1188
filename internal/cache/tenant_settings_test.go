package cache

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohit-mindspick/whatsapp/internal/models"
	"github.com/mohit-mindspick/whatsapp/internal/repo"
)

type countingSource struct {
	calls    atomic.Int32
	settings map[uuid.UUID]*models.TenantSettings
}

func (s *countingSource) FindTenantSettings(_ context.Context, tenantID uuid.UUID) (*models.TenantSettings, error) {
	s.calls.Add(1)
	if v, ok := s.settings[tenantID]; ok {
		return v, nil
	}
	return nil, repo.ErrNotFound
}

func newTestCache(t *testing.T, src TenantSettingsSource) (*TenantSettings, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = rdb.Close()
		mr.Close()
	})
	return NewTenantSettings(rdb, src, time.Minute), mr
}

func TestTenantSettings_ReadThrough(t *testing.T) {
	t.Parallel()

	tenant := uuid.New()
	src := &countingSource{settings: map[uuid.UUID]*models.TenantSettings{
		tenant: {TenantID: tenant, MultiDeviceEnabled: true},
	}}
	c, mr := newTestCache(t, src)
	ctx := context.Background()

	got, err := c.FindTenantSettings(ctx, tenant)
	require.NoError(t, err)
	assert.True(t, got.MultiDeviceEnabled)

	got, err = c.FindTenantSettings(ctx, tenant)
	require.NoError(t, err)
	assert.True(t, got.MultiDeviceEnabled)
	assert.EqualValues(t, 1, src.calls.Load())

	assert.True(t, mr.Exists("whatsapp:tenant-settings:"+tenant.String()))
	assert.Equal(t, time.Minute, mr.TTL("whatsapp:tenant-settings:"+tenant.String()))

	require.NoError(t, c.Invalidate(ctx, tenant))
	_, err = c.FindTenantSettings(ctx, tenant)
	require.NoError(t, err)
	assert.EqualValues(t, 2, src.calls.Load())
}

func TestTenantSettings_MissIsNotCached(t *testing.T) {
	t.Parallel()

	src := &countingSource{}
	c, _ := newTestCache(t, src)

	_, err := c.FindTenantSettings(context.Background(), uuid.New())
	require.ErrorIs(t, err, repo.ErrNotFound)
}

func TestTenantSettings_RedisDownFallsBack(t *testing.T) {
	t.Parallel()

	tenant := uuid.New()
	src := &countingSource{settings: map[uuid.UUID]*models.TenantSettings{
		tenant: {TenantID: tenant},
	}}
	c, mr := newTestCache(t, src)
	mr.Close()

	got, err := c.FindTenantSettings(context.Background(), tenant)
	require.NoError(t, err)
	assert.False(t, got.MultiDeviceEnabled)
	assert.EqualValues(t, 1, src.calls.Load())
}
