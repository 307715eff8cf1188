package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/mohit-mindspick/whatsapp/internal/client"
	"github.com/mohit-mindspick/whatsapp/internal/events"
	"github.com/mohit-mindspick/whatsapp/internal/repo"
	"github.com/mohit-mindspick/whatsapp/internal/repo/repotest"
)

var tenantA = uuid.MustParse("3f0c0c4e-1b7a-4c8e-9d55-7f1c8a0b9e21")

func ptr[T any](v T) *T { return &v }

type call struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   map[string]any
}

// sibling is a fake downstream service answering per path.
type sibling struct {
	mu     sync.Mutex
	calls  []call
	routes map[string]func() (int, string)
	srv    *httptest.Server
}

func newSibling(t *testing.T, routes map[string]func() (int, string)) *sibling {
	t.Helper()
	s := &sibling{routes: routes}
	s.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)

		s.mu.Lock()
		s.calls = append(s.calls, call{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Header: r.Header.Clone(), Body: body})
		s.mu.Unlock()

		status, payload := http.StatusNotFound, `{"error":"no route"}`
		if fn, ok := s.routes[r.Method+" "+r.URL.Path]; ok {
			status, payload = fn()
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, payload)
	}))
	t.Cleanup(s.srv.Close)
	return s
}

func (s *sibling) client(name string) *client.Client {
	return client.NewClient(name, s.srv.URL, 2*time.Second, nil)
}

func (s *sibling) recorded() []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]call(nil), s.calls...)
}

func reply(status int, body string) func() (int, string) {
	return func() (int, string) { return status, body }
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.BaseEvent
}

func (p *recordingPublisher) Publish(_ context.Context, e events.BaseEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) published() []events.BaseEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.BaseEvent(nil), p.events...)
}

func newStore(t *testing.T) (*repo.GormRepo, *gorm.DB) {
	t.Helper()
	router, g := repotest.NewRouter(t)
	return repo.New(router), g
}

func testCaller() client.Caller {
	return client.Caller{Token: "tok", TenantID: tenantA.String(), CorrelationID: "corr-1"}
}
