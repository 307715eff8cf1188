// Package reqctx carries the effective request headers through the filter
// chain as an immutable value: the inbound headers merged with the overrides
// the filters computed.
package reqctx

import (
	"context"
	"net/http"
	"sort"
)

const (
	HeaderTenantID          = "X-Tenant-Id"
	HeaderSiteID            = "X-SITE-ID"
	HeaderAuthorizedSiteIDs = "X-AUTHORIZED-SITE-IDS"
	HeaderCorrelationID     = "X-Correlation-ID"
)

// Headers is built once and never mutated. Overrides shadow the inbound
// values of the same (canonical) name.
type Headers struct {
	merged http.Header
}

func New(base http.Header, overrides map[string]string) Headers {
	merged := base.Clone()
	if merged == nil {
		merged = http.Header{}
	}
	for name, value := range overrides {
		merged[http.CanonicalHeaderKey(name)] = []string{value}
	}
	return Headers{merged: merged}
}

// With returns a new Headers with extra overrides layered on top of h.
func (h Headers) With(overrides map[string]string) Headers {
	return New(h.merged, overrides)
}

func (h Headers) Get(name string) string {
	return h.merged.Get(name)
}

func (h Headers) Values(name string) []string {
	vs := h.merged.Values(name)
	if vs == nil {
		return nil
	}
	return append([]string(nil), vs...)
}

func (h Headers) Names() []string {
	names := make([]string, 0, len(h.merged))
	for name := range h.merged {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (h Headers) Header() http.Header {
	return h.merged.Clone()
}

type ctxKey struct{}

func IntoContext(ctx context.Context, h Headers) context.Context {
	return context.WithValue(ctx, ctxKey{}, h)
}

func FromContext(ctx context.Context) (Headers, bool) {
	h, ok := ctx.Value(ctxKey{}).(Headers)
	return h, ok
}

// Apply returns a shallow clone of r whose header set and context carry h.
// r itself is left as it was.
func Apply(r *http.Request, h Headers) *http.Request {
	clone := r.Clone(IntoContext(r.Context(), h))
	clone.Header = h.Header()
	return clone
}

// Get reads a header from the effective set in ctx, falling back to r.
func Get(r *http.Request, name string) string {
	if h, ok := FromContext(r.Context()); ok {
		return h.Get(name)
	}
	return r.Header.Get(name)
}
