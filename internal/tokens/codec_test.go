package tokens

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	c, err := NewCodec(testSecret, time.Hour)
	require.NoError(t, err)
	return c
}

func TestNewCodec_RejectsWeakSecret(t *testing.T) {
	t.Parallel()

	_, err := NewCodec([]byte("short"), time.Hour)
	require.ErrorIs(t, err, ErrWeakSecret)

	_, err = NewCodec(testSecret, 0)
	require.Error(t, err)
}

func TestCodec_IssueAndExtract(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t)
	tok, err := c.Issue("alice", []string{"TECH"}, []string{"wo.read"},
		WithTenant("3f0c0c4e-1b7a-4c8e-9d55-7f1c8a0b9e21"),
		WithSession("a9a3e8f2-0b1c-4c1d-8e2f-112233445566"),
		WithSiteIDs("S1", "S2"),
		WithSites(Site{Latitude: 12.9716, Longitude: 77.5946, GeofenceRadiusMetres: 500}),
	)
	require.NoError(t, err)

	assert.True(t, c.Validate(tok))
	assert.Equal(t, "alice", c.Subject(tok))
	assert.Equal(t, "3f0c0c4e-1b7a-4c8e-9d55-7f1c8a0b9e21", c.TenantID(tok))
	assert.Equal(t, "a9a3e8f2-0b1c-4c1d-8e2f-112233445566", c.SessionID(tok))
	assert.Equal(t, []string{"TECH"}, c.Roles(tok))
	assert.Equal(t, []string{"wo.read"}, c.Permissions(tok))
	assert.Equal(t, []string{"S1", "S2"}, c.SiteIDs(tok))
	require.Len(t, c.Sites(tok), 1)
	assert.InDelta(t, 500, c.Sites(tok)[0].GeofenceRadiusMetres, 1e-9)
}

func TestCodec_ValidateRejectsTampering(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t)
	tok, err := c.Issue("alice", []string{"TECH"}, nil)
	require.NoError(t, err)

	// flip one character in the middle of the signature segment
	idx := strings.LastIndex(tok, ".") + 10
	repl := byte('A')
	if tok[idx] == 'A' {
		repl = 'B'
	}
	tampered := tok[:idx] + string(repl) + tok[idx+1:]

	assert.False(t, c.Validate(tampered))
	_, err = c.Claims(tampered)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestCodec_ValidateFailures(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t)
	other, err := NewCodec([]byte("ffffffffffffffffffffffffffffffff"), time.Hour)
	require.NoError(t, err)
	foreign, err := other.Issue("mallory", nil, nil)
	require.NoError(t, err)

	expired := newTestCodec(t)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, err := expired.Issue("alice", nil, nil)
	require.NoError(t, err)

	noExp, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice"}).SignedString(testSecret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not.a.token"},
		{"foreign key", foreign},
		{"expired", old},
		{"missing exp", noExp},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.False(t, c.Validate(tt.token))
			assert.Empty(t, c.Subject(tt.token))
			assert.Empty(t, c.TenantID(tt.token))
			assert.Nil(t, c.Roles(tt.token))
			assert.Nil(t, c.SiteIDs(tt.token))
		})
	}
}

func TestCodec_RejectsOtherAlgorithms(t *testing.T) {
	t.Parallel()

	c := newTestCodec(t)
	claims := jwt.MapClaims{"sub": "alice", "exp": time.Now().Add(time.Hour).Unix()}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
	require.NoError(t, err)
	assert.False(t, c.Validate(tok))
}

func TestClaims_TolerantNestedDecoding(t *testing.T) {
	t.Parallel()

	payload := `{
		"sub": "alice",
		"siteIds": [" S1 ", 42, null, ""],
		"sites": [
			{"latitude": 12.9716, "longitude": "77.5946", "geofenceRadiusMetres": 500},
			{"latitude": 1, "longitude": 2},
			{"latitude": "north", "longitude": 2, "geofenceRadiusMetres": 10},
			"junk"
		]
	}`
	var cl Claims
	require.NoError(t, json.Unmarshal([]byte(payload), &cl))
	assert.Equal(t, StringList{"S1", "42"}, cl.SiteIDs)
	require.Len(t, cl.Sites, 1)
	assert.InDelta(t, 77.5946, cl.Sites[0].Longitude, 1e-9)

	var notArray Claims
	require.NoError(t, json.Unmarshal([]byte(`{"sites": {"latitude": 1}, "siteIds": "S1"}`), &notArray))
	assert.Empty(t, notArray.Sites)
	assert.Empty(t, notArray.SiteIDs)
}
