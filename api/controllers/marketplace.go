package controllers

import (
	"net/http"
	"strings"

	"github.com/animetoken/anime-token-backend/api/responses"
	"github.com/animetoken/anime-token-backend/api/validators"
	"github.com/animetoken/anime-token-backend/internal/marketplace"
	"github.com/animetoken/anime-token-backend/pkg/enums"
	pkgerrors "github.com/animetoken/anime-token-backend/pkg/errors"
	"github.com/animetoken/anime-token-backend/pkg/logger"
	"github.com/animetoken/anime-token-backend/pkg/pagination"
)

// MarketplaceListings browses active listings with filters, sorts, and
// cursor pagination. Public: no auth required.
func MarketplaceListings(svc marketplace.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		collectionID, err := validators.ParseQueryUUID(r, "collection")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		priceMin, err := validators.ParseQueryDecimal(r, "price_min")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		priceMax, err := validators.ParseQueryDecimal(r, "price_max")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := marketplace.BrowseInput{
			Filter: marketplace.Filter{
				CollectionID: collectionID,
				PriceMin:     priceMin,
				PriceMax:     priceMax,
				VerifiedOnly: r.URL.Query().Get("verified") == "true",
				Query:        r.URL.Query().Get("query"),
			},
			Sort:   r.URL.Query().Get("sort"),
			Limit:  limit,
			Cursor: r.URL.Query().Get("cursor"),
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			category, parseErr := enums.ParseCollectionCategory(raw)
			if parseErr != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, parseErr.Error()))
				return
			}
			input.Filter.Category = &category
		}

		page, err := svc.Browse(ctx, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}
