package tokens

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const MinSecretLength = 32

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWeakSecret   = errors.New("jwt secret must be at least 32 bytes")
)

// Codec signs and verifies HS256 tokens with a key supplied at construction.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewCodec(secret []byte, ttl time.Duration) (*Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &Codec{secret: key, ttl: ttl, now: time.Now}, nil
}

type IssueOption func(*Claims)

func WithTenant(tenantID string) IssueOption {
	return func(c *Claims) { c.TenantID = tenantID }
}

func WithSession(sessionID string) IssueOption {
	return func(c *Claims) { c.SessionID = sessionID }
}

func WithSiteIDs(ids ...string) IssueOption {
	return func(c *Claims) { c.SiteIDs = append(StringList(nil), ids...) }
}

func WithSites(sites ...Site) IssueOption {
	return func(c *Claims) { c.Sites = append(SiteList(nil), sites...) }
}

func (c *Codec) Issue(subject string, roles, permissions []string, opts ...IssueOption) (string, error) {
	now := c.now()
	claims := Claims{
		Roles:       roles,
		Permissions: permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}
	for _, opt := range opts {
		opt(&claims)
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Claims verifies the signature and expiry and returns the decoded claim set.
func (c *Codec) Claims(token string) (*Claims, error) {
	var claims Claims
	tkn, err := jwt.ParseWithClaims(token, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return c.secret, nil
	}, jwt.WithExpirationRequired(), jwt.WithTimeFunc(c.now))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !tkn.Valid {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

func (c *Codec) Validate(token string) bool {
	_, err := c.Claims(token)
	return err == nil
}

func (c *Codec) Subject(token string) string {
	if cl, err := c.Claims(token); err == nil {
		return cl.Subject
	}
	return ""
}

func (c *Codec) TenantID(token string) string {
	if cl, err := c.Claims(token); err == nil {
		return cl.TenantID
	}
	return ""
}

func (c *Codec) SessionID(token string) string {
	if cl, err := c.Claims(token); err == nil {
		return cl.SessionID
	}
	return ""
}

func (c *Codec) Roles(token string) []string {
	if cl, err := c.Claims(token); err == nil {
		return cl.Roles
	}
	return nil
}

func (c *Codec) Permissions(token string) []string {
	if cl, err := c.Claims(token); err == nil {
		return cl.Permissions
	}
	return nil
}

func (c *Codec) SiteIDs(token string) []string {
	if cl, err := c.Claims(token); err == nil {
		return cl.SiteIDs
	}
	return nil
}

func (c *Codec) Sites(token string) []Site {
	if cl, err := c.Claims(token); err == nil {
		return cl.Sites
	}
	return nil
}
