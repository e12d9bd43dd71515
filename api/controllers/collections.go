package controllers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/animetoken/anime-token-backend/api/responses"
	"github.com/animetoken/anime-token-backend/api/validators"
	"github.com/animetoken/anime-token-backend/internal/collections"
	"github.com/animetoken/anime-token-backend/internal/minting"
	"github.com/animetoken/anime-token-backend/pkg/enums"
	pkgerrors "github.com/animetoken/anime-token-backend/pkg/errors"
	"github.com/animetoken/anime-token-backend/pkg/logger"
)

type updateCollectionPayload struct {
	Name            *string    `json:"name,omitempty"`
	Description     *string    `json:"description,omitempty"`
	Category        *string    `json:"category,omitempty"`
	MintEndAt       *time.Time `json:"mint_end_at,omitempty"`
	ClearMintEnd    bool       `json:"clear_mint_end,omitempty"`
	WhitelistOn     *bool      `json:"whitelist_enabled,omitempty"`
	ExplicitContent *bool      `json:"explicit_content,omitempty"`
}

type lockFieldsPayload struct {
	Fields []string `json:"fields" validate:"required,min=1"`
}

func collectionID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid collection id")
	}
	return id, nil
}

// CollectionGet returns one collection record.
func CollectionGet(svc collections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id, err := collectionID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		row, err := svc.Get(ctx, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// CollectionList returns the caller's collections.
func CollectionList(svc collections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rows, err := svc.ListByCreator(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// CollectionUpdate edits post-creation fields, honoring locks.
func CollectionUpdate(svc collections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		id, err := collectionID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload updateCollectionPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := collections.UpdateInput{
			Name:            payload.Name,
			Description:     payload.Description,
			MintEndAt:       payload.MintEndAt,
			ClearMintEnd:    payload.ClearMintEnd,
			WhitelistOn:     payload.WhitelistOn,
			ExplicitContent: payload.ExplicitContent,
		}
		if payload.Category != nil {
			category, parseErr := enums.ParseCollectionCategory(*payload.Category)
			if parseErr != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, parseErr.Error()))
				return
			}
			input.Category = &category
		}

		row, err := svc.Update(ctx, userID, id, input)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// CollectionLock freezes the named fields against further edits.
func CollectionLock(svc collections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		id, err := collectionID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload lockFieldsPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		row, err := svc.LockFields(ctx, userID, id, payload.Fields)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// CollectionUnlock releases creator locks. Chain locks stay.
func CollectionUnlock(svc collections.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		id, err := collectionID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload lockFieldsPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		row, err := svc.UnlockFields(ctx, userID, id, payload.Fields)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, row)
	}
}

// CollectionRetryMint re-runs the on-chain phase for an unminted collection.
func CollectionRetryMint(svc minting.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		id, err := collectionID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.RetryCollectionMint(ctx, userID, id)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
