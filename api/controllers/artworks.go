package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/tudor-manea/lahinch/api/responses"
	"github.com/tudor-manea/lahinch/api/validators"
	"github.com/tudor-manea/lahinch/internal/artworks"
	"github.com/tudor-manea/lahinch/internal/media"
	"github.com/tudor-manea/lahinch/internal/sales"
	"github.com/tudor-manea/lahinch/pkg/enums"
	pkgerrors "github.com/tudor-manea/lahinch/pkg/errors"
	"github.com/tudor-manea/lahinch/pkg/logger"
)

type availabilityPayload struct {
	Status string `json:"status" validate:"required"`
}

// ArtworkSearch runs the permissive catalog query. Unknown filters and
// malformed filter values narrow nothing.
func ArtworkSearch(svc artworks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		term := strings.TrimSpace(r.URL.Query().Get("term"))
		sort := strings.TrimSpace(r.URL.Query().Get("sort"))

		filters := map[string]string{}
		for key, values := range r.URL.Query() {
			switch key {
			case "page", "page_size", "term", "sort":
				continue
			}
			if len(values) > 0 {
				filters[key] = values[0]
			}
		}

		list, err := svc.Search(ctx, params, filters, term, sort)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ArtworkGet returns one artwork with its artist summary.
func ArtworkGet(svc artworks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		artworkID, err := parseUUIDParam(r, "artworkId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		artwork, err := svc.GetArtwork(ctx, artworkID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, artwork)
	}
}

// ArtworkCreate creates an artwork from a multipart form with an optional
// image part.
func ArtworkCreate(svc artworks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := validators.ParseMultipartForm(r); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		rawArtistID := formValue(r, "artist_id")
		if rawArtistID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "artist id is required"))
			return
		}
		artistID, err := uuid.Parse(rawArtistID)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid artist id"))
			return
		}

		yearCreated, err := formOptInt(r, "year_created")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		price, err := formOptDecimal(r, "price")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		image, err := validators.FormFile(r, "image")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		artwork, err := svc.CreateArtwork(ctx, artworks.CreateArtworkInput{
			ArtistID:    artistID,
			Title:       formValue(r, "title"),
			Description: formOptString(r, "description"),
			Medium:      formOptString(r, "medium"),
			Dimensions:  formOptString(r, "dimensions"),
			YearCreated: yearCreated,
			Price:       price,
		}, image)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, artwork)
	}
}

// ArtworkUpdate mutates an artwork; a supplied image replaces the stored one.
func ArtworkUpdate(svc artworks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		artworkID, err := parseUUIDParam(r, "artworkId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := validators.ParseMultipartForm(r); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		yearCreated, err := formOptInt(r, "year_created")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		price, err := formOptDecimal(r, "price")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		image, err := validators.FormFile(r, "image")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		artwork, err := svc.UpdateArtwork(ctx, artworkID, artworks.UpdateArtworkInput{
			Title:       formOptString(r, "title"),
			Description: formOptString(r, "description"),
			Medium:      formOptString(r, "medium"),
			Dimensions:  formOptString(r, "dimensions"),
			YearCreated: yearCreated,
			Price:       price,
		}, image)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, artwork)
	}
}

// ArtworkDelete removes an unsold artwork and its dependent rows.
func ArtworkDelete(svc artworks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		artworkID, err := parseUUIDParam(r, "artworkId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.DeleteArtwork(ctx, artworkID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ArtworkUpdateAvailability sets the availability state directly.
func ArtworkUpdateAvailability(svc artworks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		artworkID, err := parseUUIDParam(r, "artworkId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload availabilityPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		status, err := enums.ParseAvailabilityStatus(strings.ToUpper(strings.TrimSpace(payload.Status)))
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid availability status"))
			return
		}

		artwork, err := svc.UpdateAvailability(ctx, artworkID, status)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, artwork)
	}
}

// ArtworkMedia lists premium media attached to an artwork.
func ArtworkMedia(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		artworkID, err := parseUUIDParam(r, "artworkId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListForArtwork(ctx, artworkID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ArtworkSales lists settlement records for an artwork.
func ArtworkSales(svc sales.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		artworkID, err := parseUUIDParam(r, "artworkId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.GetSalesByArtwork(ctx, artworkID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}
