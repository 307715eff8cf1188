package permission

import (
	"context"
	"log/slog"
	"sort"

	"github.com/google/uuid"

	"github.com/mohit-mindspick/whatsapp/internal/logging"
	"github.com/mohit-mindspick/whatsapp/internal/models"
)

// Set is a deduplicated collection of permission codes.
type Set map[string]struct{}

func NewSet(codes ...string) Set {
	s := make(Set, len(codes))
	s.Add(codes...)
	return s
}

func (s Set) Add(codes ...string) {
	for _, c := range codes {
		if c != "" {
			s[c] = struct{}{}
		}
	}
}

func (s Set) Has(code string) bool {
	_, ok := s[code]
	return ok
}

func (s Set) Sorted() []string {
	out := make([]string, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

type Store interface {
	ActiveRolesByCodes(ctx context.Context, codes []string, tenantID uuid.UUID) ([]models.Role, error)
	AllPermissionCodes(ctx context.Context) ([]string, error)
}

type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// AllPermissions returns every known permission code. A lookup failure yields
// an empty set.
func (r *Resolver) AllPermissions(ctx context.Context) Set {
	codes, err := r.store.AllPermissionCodes(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("load_all_permissions_error", "error", err)
		return Set{}
	}
	return NewSet(codes...)
}

// ForRoles unions the direct permissions of the tenant's active roles with the
// given codes. A malformed tenant id or a lookup failure yields an empty set.
func (r *Resolver) ForRoles(ctx context.Context, roleCodes []string, tenantID string) Set {
	l := logging.FromContext(ctx)
	if len(roleCodes) == 0 {
		return Set{}
	}
	tid, err := uuid.Parse(tenantID)
	if err != nil {
		l.Warn("resolve_permissions_bad_tenant", "tenant_id", tenantID)
		return Set{}
	}
	roles, err := r.store.ActiveRolesByCodes(ctx, roleCodes, tid)
	if err != nil {
		l.Error("resolve_permissions_error", "tenant_id", tenantID, "error", err)
		return Set{}
	}
	out := Set{}
	for _, role := range roles {
		if !role.Active {
			continue
		}
		for _, p := range role.Permissions {
			out.Add(p.Code)
		}
	}
	l.Debug("permissions_resolved", slog.Int("roles", len(roles)), slog.Int("permissions", len(out)))
	return out
}
