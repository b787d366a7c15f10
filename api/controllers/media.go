package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tudor-manea/lahinch/api/responses"
	"github.com/tudor-manea/lahinch/api/validators"
	"github.com/tudor-manea/lahinch/internal/media"
	"github.com/tudor-manea/lahinch/pkg/enums"
	pkgerrors "github.com/tudor-manea/lahinch/pkg/errors"
	"github.com/tudor-manea/lahinch/pkg/logger"
)

// MediaCreate attaches a premium media file (plus optional thumbnail) to an
// artist or artwork from a multipart form.
func MediaCreate(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := validators.ParseMultipartForm(r); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		kind, err := parseMediaKind(formValue(r, "kind"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		ownerKind, err := parseOwnerKind(formValue(r, "owner_kind"))
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rawOwnerID := formValue(r, "owner_id")
		if rawOwnerID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "owner id is required"))
			return
		}
		ownerID, err := uuid.Parse(rawOwnerID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid owner id"))
			return
		}

		duration, err := formOptInt(r, "duration_seconds")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		file, err := validators.FormFile(r, "file")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		thumbnail, err := validators.FormFile(r, "thumbnail")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.CreateMedia(ctx, media.CreateMediaInput{
			Title:           formValue(r, "title"),
			Description:     formOptString(r, "description"),
			Kind:            kind,
			OwnerKind:       ownerKind,
			OwnerID:         ownerID,
			DurationSeconds: duration,
		}, file, thumbnail)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// MediaGet returns one premium media item.
func MediaGet(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		mediaID, err := parseUUIDParam(r, "mediaId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		item, err := svc.GetMedia(ctx, mediaID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// MediaUpdate mutates a media item; supplied file parts replace the stored
// objects and cleanup leftovers are reported alongside the result.
func MediaUpdate(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		mediaID, err := parseUUIDParam(r, "mediaId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := validators.ParseMultipartForm(r); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input := media.UpdateMediaInput{
			Title:       formOptString(r, "title"),
			Description: formOptString(r, "description"),
		}

		if raw := formValue(r, "kind"); raw != "" {
			kind, err := parseMediaKind(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			input.Kind = &kind
		}
		if raw := formValue(r, "owner_kind"); raw != "" {
			ownerKind, err := parseOwnerKind(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			input.OwnerKind = &ownerKind
		}
		if raw := formValue(r, "owner_id"); raw != "" {
			ownerID, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid owner id"))
				return
			}
			input.OwnerID = &ownerID
		}

		duration, err := formOptInt(r, "duration_seconds")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		input.DurationSeconds = duration

		clearThumbnail, err := formOptBool(r, "clear_thumbnail")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if clearThumbnail != nil {
			input.ClearThumbnail = *clearThumbnail
		}

		file, err := validators.FormFile(r, "file")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		thumbnail, err := validators.FormFile(r, "thumbnail")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.UpdateMedia(ctx, mediaID, input, file, thumbnail)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// MediaDelete removes a media item and its storage objects.
func MediaDelete(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		mediaID, err := parseUUIDParam(r, "mediaId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.DeleteMedia(ctx, mediaID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func parseMediaKind(raw string) (enums.MediaKind, error) {
	kind, err := enums.ParseMediaKind(strings.ToUpper(strings.TrimSpace(raw)))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid media kind")
	}
	return kind, nil
}

func parseOwnerKind(raw string) (enums.OwnerKind, error) {
	kind, err := enums.ParseOwnerKind(strings.ToUpper(strings.TrimSpace(raw)))
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid owner kind")
	}
	return kind, nil
}
