package permission_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohit-mindspick/whatsapp/internal/models"
	"github.com/mohit-mindspick/whatsapp/internal/permission"
	"github.com/mohit-mindspick/whatsapp/internal/repo"
	"github.com/mohit-mindspick/whatsapp/internal/repo/repotest"
)

var tenant = uuid.MustParse("3f0c0c4e-1b7a-4c8e-9d55-7f1c8a0b9e21")

type failingStore struct{}

func (failingStore) ActiveRolesByCodes(context.Context, []string, uuid.UUID) ([]models.Role, error) {
	return nil, errors.New("connection refused")
}

func (failingStore) AllPermissionCodes(context.Context) ([]string, error) {
	return nil, errors.New("connection refused")
}

func newResolver(t *testing.T, adminActive bool) *permission.Resolver {
	t.Helper()
	router, g := repotest.NewRouter(t)

	a := models.Permission{Code: "A", Name: "a"}
	b := models.Permission{Code: "B", Name: "b"}
	c := models.Permission{Code: "C", Name: "c"}
	for _, p := range []*models.Permission{&a, &b, &c} {
		require.NoError(t, g.Create(p).Error)
	}
	admin := &models.Role{Code: "ADMIN", Name: "Admin", RoleType: "STANDARD", Active: adminActive, TenantID: tenant, Permissions: []models.Permission{a, b}}
	tech := &models.Role{Code: "TECH", Name: "Tech", RoleType: "STANDARD", Active: true, TenantID: tenant, Permissions: []models.Permission{b}}
	require.NoError(t, g.Create(admin).Error)
	require.NoError(t, g.Create(tech).Error)

	return permission.NewResolver(repo.New(router))
}

func TestResolver_ForRoles(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		adminActive bool
		roles       []string
		tenant      string
		want        []string
	}{
		{"active admin", true, []string{"ADMIN"}, tenant.String(), []string{"A", "B"}},
		{"inactive admin", false, []string{"ADMIN"}, tenant.String(), []string{}},
		{"dedupe across roles", true, []string{"ADMIN", "TECH"}, tenant.String(), []string{"A", "B"}},
		{"unknown role dropped", true, []string{"GHOST", "TECH"}, tenant.String(), []string{"B"}},
		{"other tenant", true, []string{"ADMIN"}, uuid.NewString(), []string{}},
		{"malformed tenant", true, []string{"ADMIN"}, "not-a-uuid", []string{}},
		{"no roles", true, nil, tenant.String(), []string{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := newResolver(t, tt.adminActive)
			got := r.ForRoles(context.Background(), tt.roles, tt.tenant)
			assert.Equal(t, tt.want, got.Sorted())
		})
	}
}

func TestResolver_AllPermissions(t *testing.T) {
	t.Parallel()

	r := newResolver(t, true)
	assert.Equal(t, []string{"A", "B", "C"}, r.AllPermissions(context.Background()).Sorted())
}

func TestResolver_StoreFailureIsEmpty(t *testing.T) {
	t.Parallel()

	r := permission.NewResolver(failingStore{})
	assert.Empty(t, r.ForRoles(context.Background(), []string{"ADMIN"}, tenant.String()))
	assert.Empty(t, r.AllPermissions(context.Background()))
}

func TestSet(t *testing.T) {
	t.Parallel()

	s := permission.NewSet("b", "a", "b", "")
	assert.Equal(t, []string{"a", "b"}, s.Sorted())
	assert.True(t, s.Has("a"))
	assert.False(t, s.Has(""))
}
