package controllers

import (
	"net/http"

	"github.com/tudor-manea/lahinch/api/responses"
	"github.com/tudor-manea/lahinch/api/validators"
	"github.com/tudor-manea/lahinch/internal/artists"
	"github.com/tudor-manea/lahinch/internal/artworks"
	"github.com/tudor-manea/lahinch/internal/media"
	"github.com/tudor-manea/lahinch/pkg/logger"
)

// ArtistList returns the paginated artist catalog.
func ArtistList(svc artists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		params, err := pageParams(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListArtists(ctx, params)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ArtistFeatured returns the featured artists for the gallery front page.
func ArtistFeatured(svc artists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		list, err := svc.ListFeatured(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ArtistGet returns one artist.
func ArtistGet(svc artists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		artistID, err := parseUUIDParam(r, "artistId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		artist, err := svc.GetArtist(ctx, artistID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, artist)
	}
}

// ArtistCreate creates an artist from a multipart form with an optional
// profile image part.
func ArtistCreate(svc artists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if err := validators.ParseMultipartForm(r); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input, err := artistInputFromForm(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		image, err := validators.FormFile(r, "image")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		artist, err := svc.CreateArtist(ctx, input, image)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, artist)
	}
}

// ArtistUpdate mutates an artist; a supplied image replaces the stored one.
func ArtistUpdate(svc artists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		artistID, err := parseUUIDParam(r, "artistId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		if err := validators.ParseMultipartForm(r); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		input, err := artistInputFromForm(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		image, err := validators.FormFile(r, "image")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		artist, err := svc.UpdateArtist(ctx, artistID, input, image)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, artist)
	}
}

// ArtistDelete removes an artist and everything attached to them.
func ArtistDelete(svc artists.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		artistID, err := parseUUIDParam(r, "artistId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		result, err := svc.DeleteArtist(ctx, artistID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ArtistArtworks lists all artworks by one artist.
func ArtistArtworks(svc artworks.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		artistID, err := parseUUIDParam(r, "artistId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListByArtist(ctx, artistID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ArtistMedia lists premium media attached directly to an artist.
func ArtistMedia(svc media.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		artistID, err := parseUUIDParam(r, "artistId")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		list, err := svc.ListForArtist(ctx, artistID)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func artistInputFromForm(r *http.Request) (artists.ArtistInput, error) {
	featured, err := formOptBool(r, "featured")
	if err != nil {
		return artists.ArtistInput{}, err
	}

	return artists.ArtistInput{
		Name:        formValue(r, "name"),
		Specialty:   formValue(r, "specialty"),
		Location:    formValue(r, "location"),
		Born:        formValue(r, "born"),
		Education:   formValue(r, "education"),
		Website:     formValue(r, "website"),
		Bio:         formValue(r, "bio"),
		ExtendedBio: formValue(r, "extended_bio"),
		Featured:    featured,
	}, nil
}
