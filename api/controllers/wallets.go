package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/animetoken/anime-token-backend/api/middleware"
	"github.com/animetoken/anime-token-backend/api/responses"
	"github.com/animetoken/anime-token-backend/api/validators"
	"github.com/animetoken/anime-token-backend/internal/wallets"
	pkgerrors "github.com/animetoken/anime-token-backend/pkg/errors"
	"github.com/animetoken/anime-token-backend/pkg/logger"
)

type linkWalletPayload struct {
	Address     string `json:"address" validate:"required,min=32,max=64"`
	MakePrimary bool   `json:"make_primary"`
}

// WalletLink attaches a wallet address to the caller's account.
func WalletLink(svc wallets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload linkWalletPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		link, err := svc.LinkWallet(ctx, userID, middleware.HandleFromContext(ctx), payload.Address, payload.MakePrimary)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, link)
	}
}

// WalletList returns the caller's linked wallets.
func WalletList(svc wallets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		links, err := svc.ListWallets(ctx, userID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, links)
	}
}

// WalletMakePrimary moves the wallet of record to the given link.
func WalletMakePrimary(svc wallets.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		linkID, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid wallet link id"))
			return
		}

		link, err := svc.MakePrimary(ctx, userID, linkID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, link)
	}
}
