package chain

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/animetoken/anime-token-backend/pkg/config"
)

type stubFeeCache struct {
	values map[string]string
}

func newStubFeeCache() *stubFeeCache {
	return &stubFeeCache{values: map[string]string{}}
}

func (s *stubFeeCache) Get(_ context.Context, key string) (string, error) {
	value, ok := s.values[key]
	if !ok {
		return "", errors.New("cache miss")
	}
	return value, nil
}

func (s *stubFeeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	s.values[key] = value.(string)
	return nil
}

func (s *stubFeeCache) FeeEstimateKey(scope string) string {
	return "at:fee:" + scope
}

func TestEstimateFetchesAndCaches(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if got := r.URL.Query().Get("kind"); got != "collection" {
			t.Errorf("unexpected kind %q", got)
		}
		_, _ = w.Write([]byte(`{"network_fee":"0.015","platform_fee":"0.5","currency":"ANIME"}`))
	}))
	defer server.Close()

	cache := newStubFeeCache()
	estimator := NewFeeEstimator(config.FeeConfig{
		EstimateURL: server.URL,
		CacheTTL:    30 * time.Second,
		StaleTTL:    10 * time.Minute,
	}, cache, nil)

	estimate, err := estimator.Estimate(context.Background(), "collection")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if estimate.Degraded {
		t.Fatal("live estimate must not be degraded")
	}
	if estimate.NetworkFee.String() != "0.015" {
		t.Fatalf("unexpected network fee %s", estimate.NetworkFee)
	}
	if estimate.Currency != "ANIME" {
		t.Fatalf("unexpected currency %q", estimate.Currency)
	}

	// second call served from cache
	if _, err := estimator.Estimate(context.Background(), "collection"); err != nil {
		t.Fatalf("unexpected error on cached read: %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected one upstream call, got %d", calls.Load())
	}
}

func TestEstimateServesStaleWhenSourceDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	cache := newStubFeeCache()
	stale, _ := json.Marshal(FeeEstimate{Currency: "ANIME"})
	cache.values["at:fee:nft:stale"] = string(stale)

	estimator := NewFeeEstimator(config.FeeConfig{
		EstimateURL: server.URL,
		CacheTTL:    30 * time.Second,
		StaleTTL:    10 * time.Minute,
	}, cache, nil)

	estimate, err := estimator.Estimate(context.Background(), "nft")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !estimate.Degraded {
		t.Fatal("stale fallback must be flagged degraded")
	}
}

func TestEstimateErrorsWithoutStaleFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	estimator := NewFeeEstimator(config.FeeConfig{
		EstimateURL: server.URL,
	}, newStubFeeCache(), nil)

	if _, err := estimator.Estimate(context.Background(), "collection"); err == nil {
		t.Fatal("expected error when source is down and no stale copy exists")
	}
}
