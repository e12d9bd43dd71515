package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

type stubIdempotencyStore struct {
	records map[string]string
}

func newStubIdempotencyStore() *stubIdempotencyStore {
	return &stubIdempotencyStore{records: map[string]string{}}
}

func (s *stubIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	return s.records[key], nil
}

func (s *stubIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := s.records[key]; ok {
		return false, nil
	}
	s.records[key] = value.(string)
	return true, nil
}

func (s *stubIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "at:idempotency:" + scope + ":" + id
}

func (s *stubIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.records, key)
	}
	return nil
}

func submitRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/wizard/collection/submit", strings.NewReader(body))
	req.Header.Set("Idempotency-Key", "key-1")
	return req
}

func TestIdempotencyReplaysStoredResponse(t *testing.T) {
	store := newStubIdempotencyStore()
	var calls atomic.Int32
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"data":{"id":"abc"}}`))
	}))

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, submitRequest(`{}`))
	second := httptest.NewRecorder()
	handler.ServeHTTP(second, submitRequest(`{}`))

	if calls.Load() != 1 {
		t.Fatalf("expected a single handler execution, got %d", calls.Load())
	}
	if second.Code != http.StatusCreated {
		t.Fatalf("expected replayed status, got %d", second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Fatalf("expected replayed body %q, got %q", first.Body.String(), second.Body.String())
	}
}

func TestIdempotencyRejectsReusedKeyWithDifferentBody(t *testing.T) {
	store := newStubIdempotencyStore()
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), submitRequest(`{"a":1}`))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, submitRequest(`{"a":2}`))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for mismatched body, got %d", rec.Code)
	}
}

func TestIdempotencyRequiresHeaderOnGuardedRoute(t *testing.T) {
	handler := Idempotency(newStubIdempotencyStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run without an idempotency key")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/wizard/collection/submit", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestIdempotencySkipsUnguardedRoutes(t *testing.T) {
	var calls atomic.Int32
	handler := Idempotency(newStubIdempotencyStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/marketplace/listings", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	handler.ServeHTTP(httptest.NewRecorder(), req.Clone(context.Background()))

	if calls.Load() != 2 {
		t.Fatalf("expected unguarded route to run each time, got %d", calls.Load())
	}
}
