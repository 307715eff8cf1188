// Package auth authenticates requests from their bearer token and installs
// the caller's identity for the rest of the chain.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"

	"github.com/mohit-mindspick/whatsapp/internal/logging"
	"github.com/mohit-mindspick/whatsapp/internal/metrics"
	"github.com/mohit-mindspick/whatsapp/internal/models"
	"github.com/mohit-mindspick/whatsapp/internal/permission"
	"github.com/mohit-mindspick/whatsapp/internal/repo"
	"github.com/mohit-mindspick/whatsapp/internal/reqctx"
	"github.com/mohit-mindspick/whatsapp/internal/tokens"
)

const (
	ErrSessionNotFound      = "ERR_SESSION_NOT_FOUND"
	ErrAuthenticationFailed = "ERR_AUTHENTICATION_FAILED"
	ErrMissingAuthToken     = "ERR_MISSING_AUTH_TOKEN"
	ErrInvalidAuthToken     = "ERR_INVALID_AUTH_TOKEN"

	tenantMismatch = "Tenant ID mismatch"
)

type SessionStore interface {
	FindSession(ctx context.Context, sessionID uuid.UUID) (*models.UserSession, error)
}

type TenantSettingsStore interface {
	FindTenantSettings(ctx context.Context, tenantID uuid.UUID) (*models.TenantSettings, error)
}

type PermissionSource interface {
	AllPermissions(ctx context.Context) permission.Set
	ForRoles(ctx context.Context, roleCodes []string, tenantID string) permission.Set
}

type Options struct {
	Codec       *tokens.Codec
	Sessions    SessionStore
	Settings    TenantSettingsStore
	Permissions PermissionSource
	// SkipAuthorization grants every known permission instead of resolving
	// them from the caller's roles.
	SkipAuthorization bool
	OnUnexpectedError ErrorPolicy
	Metrics           *metrics.Metrics
}

type Filter struct {
	opts Options
}

func NewFilter(opts Options) *Filter {
	if opts.OnUnexpectedError == "" {
		opts.OnUnexpectedError = PassThrough
	}
	return &Filter{opts: opts}
}

// rejection is an explicit policy violation with a fixed response.
type rejection struct {
	status int
	body   map[string]string
	reason string
}

func (r *rejection) Error() string { return r.reason }

// Middleware extracts and verifies the bearer token with echo-jwt, then runs
// the tenant, session, site and authority steps. Requests without a valid
// token continue anonymously.
func (f *Filter) Middleware() echo.MiddlewareFunc {
	extract := echojwt.WithConfig(echojwt.Config{
		Skipper:     func(c echo.Context) bool { return IsPublic(c.Request().URL.Path) },
		ContextKey:  claimsKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(_ echo.Context, auth string) (any, error) {
			return f.opts.Codec.Claims(auth)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			f.opts.Metrics.AuthDecision("anonymous")
			logging.FromContext(c.Request().Context()).Debug("auth_anonymous", "reason", err.Error())
			return nil
		},
		ContinueOnIgnoredError: true,
	})
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return extract(f.authenticate(next))
	}
}

func (f *Filter) authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if IsPublic(c.Request().URL.Path) {
			return next(c)
		}
		claims, ok := c.Get(claimsKey).(*tokens.Claims)
		if !ok || claims == nil {
			return next(c)
		}

		req := c.Request()
		ctx := req.Context()
		l := logging.FromContext(ctx)

		id, overrides, err := f.resolve(ctx, req, claims)
		var rej *rejection
		switch {
		case errors.As(err, &rej):
			f.opts.Metrics.AuthDecision(rej.reason)
			l.Warn("auth_rejected", "reason", rej.reason, "user", claims.Subject, "tenant_id", claims.TenantID)
			return c.JSON(rej.status, rej.body)
		case err != nil:
			f.opts.Metrics.AuthDecision("error")
			l.Error("auth_unexpected_error", "user", claims.Subject, "policy", string(f.opts.OnUnexpectedError), "error", err)
			if f.opts.OnUnexpectedError == Reject {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error":   ErrAuthenticationFailed,
					"message": "Authentication could not be completed",
				})
			}
			return next(c)
		}

		f.opts.Metrics.AuthDecision("authenticated")
		req = reqctx.Apply(req, reqctx.New(req.Header, overrides))
		rctx := IntoContext(req.Context(), id)
		rctx = logging.IntoContext(rctx, l.With("user", id.Subject, "tenant_id", id.TenantID))
		c.SetRequest(req.WithContext(rctx))
		c.Set(IdentityKey, id)
		return next(c)
	}
}

func (f *Filter) resolve(ctx context.Context, req *http.Request, claims *tokens.Claims) (*Identity, map[string]string, error) {
	overrides := map[string]string{}
	tenantID := strings.TrimSpace(claims.TenantID)

	if tenantID != "" {
		if inbound := strings.TrimSpace(req.Header.Get(reqctx.HeaderTenantID)); inbound != "" {
			if inbound != tenantID {
				return nil, nil, &rejection{
					status: http.StatusForbidden,
					body:   map[string]string{"error": tenantMismatch},
					reason: "tenant_mismatch",
				}
			}
		} else {
			overrides[reqctx.HeaderTenantID] = tenantID
		}
	}

	if !f.multiDevice(ctx, tenantID) {
		if err := f.checkSession(ctx, claims.SessionID); err != nil {
			return nil, nil, err
		}
	}

	var authorized []string
	if len(claims.SiteIDs) > 0 {
		authorized = AuthorizedSites(claims.SiteIDs, req.Header.Get(reqctx.HeaderSiteID))
		overrides[reqctx.HeaderAuthorizedSiteIDs] = strings.Join(authorized, ",")
	}

	id := &Identity{
		Subject:           claims.Subject,
		TenantID:          tenantID,
		SessionID:         claims.SessionID,
		Token:             bearer(req),
		Roles:             claims.Roles,
		Authorities:       f.authorities(ctx, claims, tenantID),
		AuthorizedSiteIDs: authorized,
		Claims:            claims,
	}
	return id, overrides, nil
}

// multiDevice reports the tenant's multi-device setting. Any lookup failure
// means single device.
func (f *Filter) multiDevice(ctx context.Context, tenantID string) bool {
	if f.opts.Settings == nil {
		return false
	}
	tid, err := uuid.Parse(tenantID)
	if err != nil {
		return false
	}
	s, err := f.opts.Settings.FindTenantSettings(ctx, tid)
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			logging.FromContext(ctx).Warn("tenant_settings_lookup_error", "tenant_id", tenantID, "error", err)
		}
		return false
	}
	return s.MultiDeviceEnabled
}

func (f *Filter) checkSession(ctx context.Context, sessionID string) error {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" || f.opts.Sessions == nil {
		return nil
	}
	notFound := &rejection{
		status: http.StatusUnauthorized,
		body:   map[string]string{"error": ErrSessionNotFound},
		reason: "session_rejected",
	}
	sid, err := uuid.Parse(sessionID)
	if err != nil {
		return notFound
	}
	s, err := f.opts.Sessions.FindSession(ctx, sid)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return notFound
	case err != nil:
		return fmt.Errorf("session lookup: %w", err)
	case !s.Active:
		return notFound
	}
	return nil
}

func (f *Filter) authorities(ctx context.Context, claims *tokens.Claims, tenantID string) []string {
	perms := permission.Set{}
	if f.opts.Permissions != nil {
		if f.opts.SkipAuthorization {
			perms = f.opts.Permissions.AllPermissions(ctx)
		} else {
			perms = f.opts.Permissions.ForRoles(ctx, claims.Roles, tenantID)
		}
	}
	if perms == nil {
		perms = permission.Set{}
	}
	perms.Add(claims.Permissions...)

	out := make([]string, 0, len(claims.Roles)+len(perms))
	for _, role := range claims.Roles {
		if role = strings.TrimSpace(role); role != "" {
			out = append(out, rolePrefix+role)
		}
	}
	out = append(out, perms.Sorted()...)
	return out
}

// AuthorizedSites intersects the token's site ids with the comma separated
// X-SITE-ID value, matching case-insensitively after trimming. An empty
// request value authorizes every token site.
func AuthorizedSites(tokenSites []string, requested string) []string {
	if strings.TrimSpace(requested) == "" {
		return append([]string{}, tokenSites...)
	}
	wanted := map[string]struct{}{}
	for _, s := range strings.Split(requested, ",") {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			wanted[s] = struct{}{}
		}
	}
	out := []string{}
	seen := map[string]struct{}{}
	for _, s := range tokenSites {
		key := strings.ToLower(strings.TrimSpace(s))
		if _, ok := wanted[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

func bearer(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get(echo.HeaderAuthorization))
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

