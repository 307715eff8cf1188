package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohit-mindspick/whatsapp/internal/metrics"
	"github.com/mohit-mindspick/whatsapp/internal/models"
	"github.com/mohit-mindspick/whatsapp/internal/permission"
	"github.com/mohit-mindspick/whatsapp/internal/repo"
	"github.com/mohit-mindspick/whatsapp/internal/reqctx"
	"github.com/mohit-mindspick/whatsapp/internal/tokens"
)

var (
	testSecret = []byte("0123456789abcdef0123456789abcdef")
	tenantA    = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	tenantB    = uuid.MustParse("22222222-2222-2222-2222-222222222222")
)

type fakeSessions struct {
	sessions map[uuid.UUID]*models.UserSession
	err      error
}

func (f *fakeSessions) FindSession(_ context.Context, id uuid.UUID) (*models.UserSession, error) {
	if f.err != nil {
		return nil, f.err
	}
	if s, ok := f.sessions[id]; ok {
		return s, nil
	}
	return nil, repo.ErrNotFound
}

type fakeSettings map[uuid.UUID]bool

func (f fakeSettings) FindTenantSettings(_ context.Context, id uuid.UUID) (*models.TenantSettings, error) {
	multi, ok := f[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &models.TenantSettings{TenantID: id, MultiDeviceEnabled: multi}, nil
}

type fakePerms struct {
	byRole map[string][]string
	all    []string
}

func (f fakePerms) AllPermissions(context.Context) permission.Set {
	return permission.NewSet(f.all...)
}

func (f fakePerms) ForRoles(_ context.Context, roles []string, _ string) permission.Set {
	out := permission.Set{}
	for _, r := range roles {
		out.Add(f.byRole[r]...)
	}
	return out
}

type seen struct {
	Subject     string   `json:"subject"`
	Authorities []string `json:"authorities"`
	Tenant      string   `json:"tenant"`
	Sites       string   `json:"sites"`
	InContext   bool     `json:"in_context"`
}

func newCodec(t *testing.T) *tokens.Codec {
	t.Helper()
	c, err := tokens.NewCodec(testSecret, time.Hour)
	require.NoError(t, err)
	return c
}

func newServer(opts Options) *echo.Echo {
	e := echo.New()
	e.Use(NewFilter(opts).Middleware())
	h := func(c echo.Context) error {
		out := seen{
			Tenant: reqctx.Get(c.Request(), reqctx.HeaderTenantID),
			Sites:  reqctx.Get(c.Request(), reqctx.HeaderAuthorizedSiteIDs),
		}
		if id, ok := IdentityFrom(c); ok {
			out.Subject = id.Subject
			out.Authorities = id.Authorities
			_, out.InContext = FromContext(c.Request().Context())
		}
		return c.JSON(http.StatusOK, out)
	}
	e.GET("/api/v1/thing", h)
	e.GET("/api/v1/protected", h, RequireAuthenticated)
	e.GET("/actuator/health", h)
	return e
}

func do(t *testing.T, e *echo.Echo, path, token string, headers map[string]string) (*httptest.ResponseRecorder, *http.Request) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, req
}

func decodeSeen(t *testing.T, rec *httptest.ResponseRecorder) seen {
	t.Helper()
	var s seen
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &s))
	return s
}

func TestFilter_AnonymousRequests(t *testing.T) {
	t.Parallel()

	codec := newCodec(t)
	e := newServer(Options{Codec: codec})

	tests := []struct {
		name     string
		path     string
		token    string
		wantCode int
		wantErr  string
	}{
		{"no token passes unauthenticated", "/api/v1/thing", "", http.StatusOK, ""},
		{"garbage token passes unauthenticated", "/api/v1/thing", "not.a.jwt", http.StatusOK, ""},
		{"protected without token", "/api/v1/protected", "", http.StatusUnauthorized, ErrMissingAuthToken},
		{"protected with bad token", "/api/v1/protected", "not.a.jwt", http.StatusUnauthorized, ErrInvalidAuthToken},
		{"public path ignores token", "/actuator/health", "not.a.jwt", http.StatusOK, ""},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, _ := do(t, e, tt.path, tt.token, nil)
			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantErr != "" {
				assert.Contains(t, rec.Body.String(), tt.wantErr)
				return
			}
			assert.Empty(t, decodeSeen(t, rec).Subject)
		})
	}
}

func TestFilter_TenantReconciliation(t *testing.T) {
	t.Parallel()

	codec := newCodec(t)
	e := newServer(Options{Codec: codec})
	token, err := codec.Issue("alice", []string{"TECH"}, nil, tokens.WithTenant(tenantA.String()))
	require.NoError(t, err)

	t.Run("matching header proceeds", func(t *testing.T) {
		t.Parallel()
		rec, _ := do(t, e, "/api/v1/protected", token, map[string]string{reqctx.HeaderTenantID: tenantA.String()})
		require.Equal(t, http.StatusOK, rec.Code)
		s := decodeSeen(t, rec)
		assert.Equal(t, "alice", s.Subject)
		assert.True(t, s.InContext)
	})

	t.Run("different header is rejected", func(t *testing.T) {
		t.Parallel()
		rec, _ := do(t, e, "/api/v1/protected", token, map[string]string{reqctx.HeaderTenantID: tenantB.String()})
		require.Equal(t, http.StatusForbidden, rec.Code)
		assert.JSONEq(t, `{"error":"Tenant ID mismatch"}`, rec.Body.String())
	})

	t.Run("absent header is injected without touching the original request", func(t *testing.T) {
		t.Parallel()
		rec, req := do(t, e, "/api/v1/protected", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, tenantA.String(), decodeSeen(t, rec).Tenant)
		assert.Empty(t, req.Header.Get(reqctx.HeaderTenantID))
	})
}

func TestFilter_SessionCheck(t *testing.T) {
	t.Parallel()

	codec := newCodec(t)
	active := uuid.New()
	inactive := uuid.New()
	sessions := &fakeSessions{sessions: map[uuid.UUID]*models.UserSession{
		active:   {SessionID: active, Active: true},
		inactive: {SessionID: inactive, Active: false},
	}}
	settings := fakeSettings{tenantA: false, tenantB: true}
	e := newServer(Options{Codec: codec, Sessions: sessions, Settings: settings})

	tests := []struct {
		name     string
		tenant   uuid.UUID
		session  string
		wantCode int
	}{
		{"active session", tenantA, active.String(), http.StatusOK},
		{"unknown session", tenantA, uuid.NewString(), http.StatusUnauthorized},
		{"inactive session", tenantA, inactive.String(), http.StatusUnauthorized},
		{"malformed session", tenantA, "not-a-uuid", http.StatusUnauthorized},
		{"no session claim", tenantA, "", http.StatusOK},
		{"multi device skips check", tenantB, uuid.NewString(), http.StatusOK},
		{"missing settings means single device", uuid.New(), uuid.NewString(), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			token, err := codec.Issue("bob", nil, nil, tokens.WithTenant(tt.tenant.String()), tokens.WithSession(tt.session))
			require.NoError(t, err)
			rec, _ := do(t, e, "/api/v1/thing", token, nil)
			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusUnauthorized {
				assert.JSONEq(t, `{"error":"ERR_SESSION_NOT_FOUND"}`, rec.Body.String())
			}
		})
	}
}

func TestFilter_UnexpectedErrorPolicy(t *testing.T) {
	t.Parallel()

	codec := newCodec(t)
	sessions := &fakeSessions{err: errors.New("connection refused")}
	token, err := codec.Issue("carol", nil, nil, tokens.WithTenant(tenantA.String()), tokens.WithSession(uuid.NewString()))
	require.NoError(t, err)

	t.Run("pass through continues anonymously", func(t *testing.T) {
		t.Parallel()
		_, m := metrics.NewRegistry()
		e := newServer(Options{Codec: codec, Sessions: sessions, Metrics: m})
		rec, _ := do(t, e, "/api/v1/thing", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decodeSeen(t, rec).Subject)
		assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthDecisions.WithLabelValues("error")))
	})

	t.Run("reject stops the request", func(t *testing.T) {
		t.Parallel()
		e := newServer(Options{Codec: codec, Sessions: sessions, OnUnexpectedError: Reject})
		rec, _ := do(t, e, "/api/v1/thing", token, nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), ErrAuthenticationFailed)
	})
}

func TestFilter_AuthorizedSites(t *testing.T) {
	t.Parallel()

	codec := newCodec(t)
	e := newServer(Options{Codec: codec})
	token, err := codec.Issue("dave", nil, nil, tokens.WithSiteIDs("S1", "S2", "S3"))
	require.NoError(t, err)

	rec, _ := do(t, e, "/api/v1/thing", token, map[string]string{reqctx.HeaderSiteID: "S2,S4"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "S2", decodeSeen(t, rec).Sites)

	rec, _ = do(t, e, "/api/v1/thing", token, nil)
	assert.Equal(t, "S1,S2,S3", decodeSeen(t, rec).Sites)
}

func TestAuthorizedSites(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		token     []string
		requested string
		want      []string
	}{
		{"no header", []string{"S1", "S2"}, "", []string{"S1", "S2"}},
		{"intersection", []string{"S1", "S2", "S3"}, "S2,S4", []string{"S2"}},
		{"case and space insensitive", []string{"Site-A", "site-b"}, " site-a , SITE-B ", []string{"Site-A", "site-b"}},
		{"disjoint", []string{"S1"}, "S9", []string{}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, AuthorizedSites(tt.token, tt.requested))
		})
	}
}

func TestFilter_Authorities(t *testing.T) {
	t.Parallel()

	codec := newCodec(t)
	perms := fakePerms{
		byRole: map[string][]string{"ADMIN": {"A", "B"}},
		all:    []string{"A", "B", "C"},
	}
	token, err := codec.Issue("erin", []string{"ADMIN"}, []string{"LEGACY"}, tokens.WithTenant(tenantA.String()))
	require.NoError(t, err)

	t.Run("resolved from roles", func(t *testing.T) {
		t.Parallel()
		e := newServer(Options{Codec: codec, Permissions: perms})
		rec, _ := do(t, e, "/api/v1/thing", token, nil)
		assert.Equal(t, []string{"ROLE_ADMIN", "A", "B", "LEGACY"}, decodeSeen(t, rec).Authorities)
	})

	t.Run("skip grants every permission", func(t *testing.T) {
		t.Parallel()
		e := newServer(Options{Codec: codec, Permissions: perms, SkipAuthorization: true})
		rec, _ := do(t, e, "/api/v1/thing", token, nil)
		assert.Equal(t, []string{"ROLE_ADMIN", "A", "B", "C", "LEGACY"}, decodeSeen(t, rec).Authorities)
	})
}

func TestIdentity_Helpers(t *testing.T) {
	t.Parallel()

	id := &Identity{TenantID: tenantA.String(), Authorities: []string{"ROLE_TECH", "WO_READ"}}
	assert.True(t, id.HasRole("TECH"))
	assert.True(t, id.HasAuthority("WO_READ"))
	assert.False(t, id.HasRole("ADMIN"))

	tid, ok := id.Tenant()
	assert.True(t, ok)
	assert.Equal(t, tenantA, tid)

	_, ok = (&Identity{TenantID: "nope"}).Tenant()
	assert.False(t, ok)
}

func TestParsePolicy(t *testing.T) {
	t.Parallel()

	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, PassThrough, p)

	p, err = ParsePolicy(" REJECT ")
	require.NoError(t, err)
	assert.Equal(t, Reject, p)

	_, err = ParsePolicy("fail_closed")
	assert.Error(t, err)
}
