package chain

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/animetoken/anime-token-backend/pkg/config"
	"github.com/animetoken/anime-token-backend/pkg/logger"
)

// FeeEstimate is the user-facing cost preview for a mint. Degraded marks an
// estimate served from the stale cache because the live source was down; the
// flow never blocks on it.
type FeeEstimate struct {
	NetworkFee  decimal.Decimal `json:"network_fee"`
	PlatformFee decimal.Decimal `json:"platform_fee"`
	Currency    string          `json:"currency"`
	Degraded    bool            `json:"degraded"`
	FetchedAt   time.Time       `json:"fetched_at"`
}

// FeeCache is the caching surface the estimator needs.
type FeeCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	FeeEstimateKey(scope string) string
}

// FeeEstimator serves cached fee estimates with a stale fallback.
type FeeEstimator struct {
	httpClient *http.Client
	cache      FeeCache
	cfg        config.FeeConfig
	logg       *logger.Logger
}

// NewFeeEstimator builds the estimator.
func NewFeeEstimator(cfg config.FeeConfig, cache FeeCache, logg *logger.Logger) *FeeEstimator {
	return &FeeEstimator{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache,
		cfg:        cfg,
		logg:       logg,
	}
}

// Estimate returns the fee preview for the given mint kind. Resolution order:
// fresh cache, live fetch, stale cache flagged Degraded.
func (e *FeeEstimator) Estimate(ctx context.Context, kind string) (*FeeEstimate, error) {
	if cached := e.readCache(ctx, e.cache.FeeEstimateKey(kind)); cached != nil {
		return cached, nil
	}

	estimate, err := e.fetch(ctx, kind)
	if err == nil {
		e.writeCache(ctx, kind, estimate)
		return estimate, nil
	}

	if e.logg != nil {
		e.logg.Warn(ctx, fmt.Sprintf("live fee estimate failed, trying stale cache: %v", err))
	}
	if stale := e.readCache(ctx, e.staleKey(kind)); stale != nil {
		stale.Degraded = true
		return stale, nil
	}
	return nil, fmt.Errorf("fee estimate unavailable: %w", err)
}

func (e *FeeEstimator) fetch(ctx context.Context, kind string) (*FeeEstimate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.cfg.EstimateURL+"?kind="+kind, nil)
	if err != nil {
		return nil, fmt.Errorf("build fee request: %w", err)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling fee source: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && e.logg != nil {
			e.logg.Warn(ctx, "closing fee response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fee source returned status %d", resp.StatusCode)
	}

	var estimate FeeEstimate
	if err := json.NewDecoder(resp.Body).Decode(&estimate); err != nil {
		return nil, fmt.Errorf("decode fee response: %w", err)
	}
	estimate.Degraded = false
	estimate.FetchedAt = time.Now().UTC()
	return &estimate, nil
}

func (e *FeeEstimator) readCache(ctx context.Context, key string) *FeeEstimate {
	raw, err := e.cache.Get(ctx, key)
	if err != nil || raw == "" {
		return nil
	}
	var estimate FeeEstimate
	if err := json.Unmarshal([]byte(raw), &estimate); err != nil {
		return nil
	}
	return &estimate
}

func (e *FeeEstimator) writeCache(ctx context.Context, kind string, estimate *FeeEstimate) {
	raw, err := json.Marshal(estimate)
	if err != nil {
		return
	}
	if err := e.cache.Set(ctx, e.cache.FeeEstimateKey(kind), string(raw), e.cfg.CacheTTL); err != nil && e.logg != nil {
		e.logg.Warn(ctx, "caching fee estimate failed")
	}
	if err := e.cache.Set(ctx, e.staleKey(kind), string(raw), e.cfg.StaleTTL); err != nil && e.logg != nil {
		e.logg.Warn(ctx, "caching stale fee estimate failed")
	}
}

func (e *FeeEstimator) staleKey(kind string) string {
	return e.cache.FeeEstimateKey(kind) + ":stale"
}
