package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/animetoken/anime-token-backend/api/responses"
	"github.com/animetoken/anime-token-backend/pkg/chain"
	pkgerrors "github.com/animetoken/anime-token-backend/pkg/errors"
	"github.com/animetoken/anime-token-backend/pkg/logger"
)

// FeeEstimator is the estimate surface the controller depends on.
type FeeEstimator interface {
	Estimate(ctx context.Context, kind string) (*chain.FeeEstimate, error)
}

// FeeEstimate returns the current network and platform fee estimate for a
// mint kind. A degraded estimate is served from the stale cache.
func FeeEstimate(estimator FeeEstimator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		kind := strings.TrimSpace(r.URL.Query().Get("kind"))
		if kind == "" {
			kind = "collection"
		}
		if kind != "collection" && kind != "nft" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "kind must be collection or nft"))
			return
		}

		estimate, err := estimator.Estimate(ctx, kind)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, estimate)
	}
}
