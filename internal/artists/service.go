package artists

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/tudor-manea/lahinch/pkg/config"
	"github.com/tudor-manea/lahinch/pkg/db"
	"github.com/tudor-manea/lahinch/pkg/db/models"
	pkgerrors "github.com/tudor-manea/lahinch/pkg/errors"
	"github.com/tudor-manea/lahinch/pkg/logger"
	"github.com/tudor-manea/lahinch/pkg/pagination"
	"github.com/tudor-manea/lahinch/pkg/types"
)

type blobStore interface {
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, bucket, path string) error
	PublicURL(bucket, path string) string
	PathFromURL(bucket, fileURL string) string
}

// ServiceParams groups dependencies for the artist service.
type ServiceParams struct {
	Repo     *Repository
	DBClient *db.Client
	Storage  blobStore
	Buckets  config.StorageConfig
	Logger   *logger.Logger
}

// Service exposes catalog management for artists.
type Service interface {
	CreateArtist(ctx context.Context, input ArtistInput, image *types.FileUpload) (*ArtistDTO, error)
	UpdateArtist(ctx context.Context, artistID uuid.UUID, input ArtistInput, image *types.FileUpload) (*ArtistDTO, error)
	DeleteArtist(ctx context.Context, artistID uuid.UUID) (*DeleteResultDTO, error)
	GetArtist(ctx context.Context, artistID uuid.UUID) (*ArtistDTO, error)
	ListArtists(ctx context.Context, params pagination.Params) (ArtistListDTO, error)
	ListFeatured(ctx context.Context) ([]ArtistDTO, error)
}

// ArtistInput holds the mutable artist fields. On update, blank strings leave
// the stored value untouched.
type ArtistInput struct {
	Name        string
	Specialty   string
	Location    string
	Born        string
	Education   string
	Website     string
	Bio         string
	ExtendedBio string
	Featured    *bool
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	storage  blobStore
	buckets  config.StorageConfig
	logg     *logger.Logger
}

// NewService builds an artist service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artist repo is required")
	}
	if params.DBClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.Storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:     params.Repo,
		dbClient: params.DBClient,
		storage:  params.Storage,
		buckets:  params.Buckets,
		logg:     params.Logger,
	}, nil
}

// CreateArtist inserts a new artist, uploading the profile image first when
// one is supplied.
func (s *service) CreateArtist(ctx context.Context, input ArtistInput, image *types.FileUpload) (*ArtistDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artist name is required")
	}

	artist := &models.Artist{
		ID:   uuid.New(),
		Name: name,
	}
	applyArtistInput(artist, input)

	if !image.IsEmpty() {
		url, err := s.uploadProfileImage(ctx, artist.ID, image)
		if err != nil {
			return nil, err
		}
		artist.ProfileImageURL = &url
	}

	created, err := s.repo.Create(ctx, artist)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create artist")
	}
	return NewArtistDTO(created), nil
}

// UpdateArtist applies non-blank fields and optionally replaces the profile
// image. The previous image object is removed best-effort after the new one
// is stored.
func (s *service) UpdateArtist(ctx context.Context, artistID uuid.UUID, input ArtistInput, image *types.FileUpload) (*ArtistDTO, error) {
	artist, err := s.loadArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		artist.Name = name
	}
	applyArtistInput(artist, input)

	var oldImageURL string
	if !image.IsEmpty() {
		if artist.ProfileImageURL != nil {
			oldImageURL = *artist.ProfileImageURL
		}
		url, err := s.uploadProfileImage(ctx, artist.ID, image)
		if err != nil {
			return nil, err
		}
		artist.ProfileImageURL = &url
	}

	saved, err := s.repo.Save(ctx, artist)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save artist")
	}

	if oldImageURL != "" {
		s.deleteImageBestEffort(ctx, oldImageURL)
	}
	return NewArtistDTO(saved), nil
}

// DeleteArtist removes the artist and everything hanging off it in one
// transaction: favorites, sales, premium media rows, artworks, then the
// artist. Storage objects are collected up front and deleted after commit;
// failures there are reported, not fatal.
func (s *service) DeleteArtist(ctx context.Context, artistID uuid.UUID) (*DeleteResultDTO, error) {
	artist, err := s.loadArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}

	artworks, err := s.repo.ListArtworks(ctx, artistID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list artworks")
	}
	ownedMedia, err := s.repo.ListOwnedMedia(ctx, artistID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list premium media")
	}

	blobs := s.collectBlobs(artist, artworks, ownedMedia)

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeleteFavoritesForArtist(ctx, artistID); err != nil {
			return err
		}
		if err := txRepo.DeleteSalesForArtist(ctx, artistID); err != nil {
			return err
		}
		if err := txRepo.DeleteMediaForArtist(ctx, artistID); err != nil {
			return err
		}
		if err := txRepo.DeleteArtworksForArtist(ctx, artistID); err != nil {
			return err
		}
		return txRepo.Delete(ctx, artistID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete artist")
	}

	var cleanup error
	for _, blob := range blobs {
		if err := s.storage.Delete(ctx, blob.bucket, blob.path); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "path", blob.path), "artist cleanup: storage delete failed")
			cleanup = multierr.Append(cleanup, fmt.Errorf("%s/%s: %w", blob.bucket, blob.path, err))
		}
	}

	result := &DeleteResultDTO{
		DeletedArtworks: len(artworks),
		DeletedMedia:    len(ownedMedia),
	}
	for _, e := range multierr.Errors(cleanup) {
		result.CleanupErrors = append(result.CleanupErrors, e.Error())
	}
	return result, nil
}

// GetArtist loads a single artist.
func (s *service) GetArtist(ctx context.Context, artistID uuid.UUID) (*ArtistDTO, error) {
	artist, err := s.loadArtist(ctx, artistID)
	if err != nil {
		return nil, err
	}
	return NewArtistDTO(artist), nil
}

// ListArtists returns a page of artists.
func (s *service) ListArtists(ctx context.Context, params pagination.Params) (ArtistListDTO, error) {
	params = params.Normalize()
	artists, total, err := s.repo.List(ctx, params)
	if err != nil {
		return ArtistListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list artists")
	}
	return newArtistListDTO(artists, pagination.NewMeta(params, total)), nil
}

// ListFeatured returns all featured artists.
func (s *service) ListFeatured(ctx context.Context) ([]ArtistDTO, error) {
	artists, err := s.repo.ListFeatured(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list featured artists")
	}
	items := make([]ArtistDTO, 0, len(artists))
	for i := range artists {
		items = append(items, *NewArtistDTO(&artists[i]))
	}
	return items, nil
}

func (s *service) loadArtist(ctx context.Context, artistID uuid.UUID) (*models.Artist, error) {
	if artistID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artist id is required")
	}
	artist, err := s.repo.FindByID(ctx, artistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "artist not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load artist")
	}
	return artist, nil
}

func (s *service) uploadProfileImage(ctx context.Context, artistID uuid.UUID, image *types.FileUpload) (string, error) {
	path := fmt.Sprintf("%s/%s-%s", artistID, uuid.NewString(), sanitizeFilename(image.Filename))
	stored, err := s.storage.Upload(ctx, s.buckets.ArtistImagesBucket, path, image.Data, image.ContentType)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload artist image")
	}
	return s.storage.PublicURL(s.buckets.ArtistImagesBucket, stored), nil
}

func (s *service) deleteImageBestEffort(ctx context.Context, imageURL string) {
	path := s.storage.PathFromURL(s.buckets.ArtistImagesBucket, imageURL)
	if path == "" {
		return
	}
	if err := s.storage.Delete(ctx, s.buckets.ArtistImagesBucket, path); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "path", path), "artist image cleanup failed")
	}
}

type blobRef struct {
	bucket string
	path   string
}

// collectBlobs resolves every storage object that belongs to the artist
// subtree into bucket/path pairs. Foreign URLs resolve to empty paths and are
// skipped.
func (s *service) collectBlobs(artist *models.Artist, artworks []models.Artwork, media []models.PremiumMedia) []blobRef {
	var blobs []blobRef
	add := func(bucket string, url *string) {
		if url == nil || *url == "" {
			return
		}
		if path := s.storage.PathFromURL(bucket, *url); path != "" {
			blobs = append(blobs, blobRef{bucket: bucket, path: path})
		}
	}

	add(s.buckets.ArtistImagesBucket, artist.ProfileImageURL)
	for i := range artworks {
		add(s.buckets.ArtworkImagesBucket, artworks[i].ImageURL)
	}
	for i := range media {
		fileURL := media[i].FileURL
		add(s.buckets.MediaFilesBucket, &fileURL)
		add(s.buckets.MediaThumbnailsBucket, media[i].ThumbnailURL)
	}
	return blobs
}

func applyArtistInput(artist *models.Artist, input ArtistInput) {
	setIfPresent := func(target **string, value string) {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			*target = &trimmed
		}
	}
	setIfPresent(&artist.Specialty, input.Specialty)
	setIfPresent(&artist.Location, input.Location)
	setIfPresent(&artist.Born, input.Born)
	setIfPresent(&artist.Education, input.Education)
	setIfPresent(&artist.Website, input.Website)
	setIfPresent(&artist.Bio, input.Bio)
	setIfPresent(&artist.ExtendedBio, input.ExtendedBio)
	if input.Featured != nil {
		artist.Featured = *input.Featured
	}
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "file"
	}
	name = strings.ReplaceAll(name, "/", "_")
	return strings.ReplaceAll(name, "\\", "_")
}
