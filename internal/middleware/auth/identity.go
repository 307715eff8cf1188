package auth

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mohit-mindspick/whatsapp/internal/tokens"
)

const (
	// IdentityKey is the echo context key holding the *Identity.
	IdentityKey = "identity"
	claimsKey   = "token_claims"

	rolePrefix = "ROLE_"
)

// Identity is the authenticated caller of the current request.
type Identity struct {
	Subject   string
	TenantID  string
	SessionID string
	// Token is the raw bearer token, forwarded to sibling services.
	Token       string
	Roles       []string
	Authorities []string
	// AuthorizedSiteIDs is nil when the token carries no site ids.
	AuthorizedSiteIDs []string
	Claims            *tokens.Claims
}

func (id *Identity) HasAuthority(authority string) bool {
	for _, a := range id.Authorities {
		if a == authority {
			return true
		}
	}
	return false
}

func (id *Identity) HasRole(role string) bool {
	return id.HasAuthority(rolePrefix + role)
}

// Tenant returns the token's tenant id as a UUID.
func (id *Identity) Tenant() (uuid.UUID, bool) {
	tid, err := uuid.Parse(strings.TrimSpace(id.TenantID))
	if err != nil || tid == uuid.Nil {
		return uuid.Nil, false
	}
	return tid, true
}

type ctxKey struct{}

func IntoContext(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

func FromContext(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(ctxKey{}).(*Identity)
	return id, ok && id != nil
}

// IdentityFrom returns the identity installed by the filter, if any.
func IdentityFrom(c echo.Context) (*Identity, bool) {
	id, ok := c.Get(IdentityKey).(*Identity)
	return id, ok && id != nil
}
