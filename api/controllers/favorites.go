package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tudor-manea/lahinch/api/responses"
	"github.com/tudor-manea/lahinch/api/validators"
	"github.com/tudor-manea/lahinch/internal/favorites"
	pkgerrors "github.com/tudor-manea/lahinch/pkg/errors"
	"github.com/tudor-manea/lahinch/pkg/logger"
)

type addFavoritePayload struct {
	ArtworkID string `json:"artwork_id" validate:"required,uuid"`
}

// FavoriteAdd marks an artwork as favorited by the user.
func FavoriteAdd(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := parseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addFavoritePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		artworkID, err := uuid.Parse(payload.ArtworkID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid artwork id"))
			return
		}

		if err := svc.Add(ctx, userID, artworkID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]bool{"added": true})
	}
}

// FavoriteRemove unmarks a favorited artwork.
func FavoriteRemove(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := parseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		artworkID, err := parseUUIDParam(r, "artworkId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := svc.Remove(ctx, userID, artworkID); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"removed": true})
	}
}

// FavoriteCheck reports whether the user has favorited the artwork.
func FavoriteCheck(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := parseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		artworkID, err := parseUUIDParam(r, "artworkId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		favorited, err := svc.IsFavorited(ctx, userID, artworkID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"favorited": favorited})
	}
}

// FavoriteList returns the user's favorites, newest first.
func FavoriteList(svc favorites.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		userID, err := parseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListByUser(ctx, userID, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
