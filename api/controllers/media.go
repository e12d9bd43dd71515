package controllers

import (
	"io"
	"net/http"
	"strings"

	"github.com/animetoken/anime-token-backend/api/responses"
	"github.com/animetoken/anime-token-backend/internal/media"
	"github.com/animetoken/anime-token-backend/pkg/enums"
	pkgerrors "github.com/animetoken/anime-token-backend/pkg/errors"
	"github.com/animetoken/anime-token-backend/pkg/logger"
)

const maxMultipartMemory = 8 << 20

// MediaStage accepts a multipart upload and stages it as a draft preview.
// The object moves to the public bucket only at submission.
func MediaStage(coordinator *media.Coordinator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID, err := actorID(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart body"))
			return
		}

		slot := enums.MediaSlot(strings.TrimSpace(r.FormValue("slot")))
		file, header, err := r.FormFile("file")
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "file field required"))
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read upload"))
			return
		}

		mimeType := header.Header.Get("Content-Type")
		asset, err := coordinator.Stage(ctx, userID, slot, header.Filename, mimeType, data)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, asset)
	}
}
