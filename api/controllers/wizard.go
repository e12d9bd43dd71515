package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/animetoken/anime-token-backend/api/responses"
	"github.com/animetoken/anime-token-backend/api/validators"
	"github.com/animetoken/anime-token-backend/internal/draft"
	"github.com/animetoken/anime-token-backend/internal/minting"
	"github.com/animetoken/anime-token-backend/internal/wizard"
	"github.com/animetoken/anime-token-backend/pkg/enums"
	pkgerrors "github.com/animetoken/anime-token-backend/pkg/errors"
	"github.com/animetoken/anime-token-backend/pkg/logger"
)

func wizardKind(r *http.Request) (enums.DraftKind, error) {
	kind, err := enums.ParseDraftKind(chi.URLParam(r, "kind"))
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}
	return kind, nil
}

// WizardState returns the active draft, creating one on first fetch. An
// optional ?collection= query seeds the new draft from an existing record.
func WizardState(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		kind, err := wizardKind(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		seed, err := validators.ParseQueryUUID(r, "collection")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.State(ctx, userID, kind, seed)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// WizardPatch applies a partial draft update. Field content is never
// validated here; only forward navigation gates.
func WizardPatch(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		kind, err := wizardKind(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var patch draft.Patch
		if err := validators.DecodeJSONBody(r, &patch); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.Patch(ctx, userID, kind, patch)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// WizardNext advances one step when the current step's gate passes.
func WizardNext(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		kind, err := wizardKind(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.Next(ctx, userID, kind)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// WizardBack moves one step backward without validating anything.
func WizardBack(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		kind, err := wizardKind(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.Back(ctx, userID, kind)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// WizardReset discards the draft and starts a blank one.
func WizardReset(svc wizard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		kind, err := wizardKind(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		seed, err := validators.ParseQueryUUID(r, "collection")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		view, err := svc.Reset(ctx, userID, kind, seed)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// WizardSubmit runs the full submission flow for the draft kind.
func WizardSubmit(svc minting.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		kind, err := wizardKind(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var result *minting.Result
		switch kind {
		case enums.DraftKindNFT:
			result, err = svc.SubmitNFT(ctx, userID)
		default:
			result, err = svc.SubmitCollection(ctx, userID)
		}
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
