package artworks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/tudor-manea/lahinch/pkg/config"
	"github.com/tudor-manea/lahinch/pkg/db"
	"github.com/tudor-manea/lahinch/pkg/db/models"
	"github.com/tudor-manea/lahinch/pkg/enums"
	pkgerrors "github.com/tudor-manea/lahinch/pkg/errors"
	"github.com/tudor-manea/lahinch/pkg/logger"
	"github.com/tudor-manea/lahinch/pkg/pagination"
	"github.com/tudor-manea/lahinch/pkg/types"
)

type artistLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Artist, error)
}

type blobStore interface {
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, bucket, path string) error
	PublicURL(bucket, path string) string
	PathFromURL(bucket, fileURL string) string
}

// ServiceParams groups dependencies for the artwork service.
type ServiceParams struct {
	Repo       *Repository
	DBClient   *db.Client
	ArtistRepo artistLoader
	Storage    blobStore
	Buckets    config.StorageConfig
	Logger     *logger.Logger
}

// Service exposes catalog search and management for artworks.
type Service interface {
	Search(ctx context.Context, page pagination.Params, filters map[string]string, term, sort string) (ArtworkListDTO, error)
	GetArtwork(ctx context.Context, artworkID uuid.UUID) (*ArtworkDTO, error)
	ListByArtist(ctx context.Context, artistID uuid.UUID) ([]ArtworkDTO, error)
	CreateArtwork(ctx context.Context, input CreateArtworkInput, image *types.FileUpload) (*ArtworkDTO, error)
	UpdateArtwork(ctx context.Context, artworkID uuid.UUID, input UpdateArtworkInput, image *types.FileUpload) (*ArtworkDTO, error)
	DeleteArtwork(ctx context.Context, artworkID uuid.UUID) (*DeleteResultDTO, error)
	UpdateAvailability(ctx context.Context, artworkID uuid.UUID, status enums.AvailabilityStatus) (*ArtworkDTO, error)
}

// CreateArtworkInput holds the validated payload to create an artwork.
type CreateArtworkInput struct {
	ArtistID    uuid.UUID
	Title       string
	Description *string
	Medium      *string
	Dimensions  *string
	YearCreated *int
	Price       *decimal.Decimal
}

// UpdateArtworkInput holds optional mutation values for an artwork.
type UpdateArtworkInput struct {
	Title       *string
	Description *string
	Medium      *string
	Dimensions  *string
	YearCreated *int
	Price       *decimal.Decimal
}

type service struct {
	repo       *Repository
	dbClient   *db.Client
	artistRepo artistLoader
	storage    blobStore
	buckets    config.StorageConfig
	logg       *logger.Logger
}

// NewService builds an artwork service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artwork repo is required")
	}
	if params.DBClient == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "db client is required")
	}
	if params.ArtistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artist repo is required")
	}
	if params.Storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:       params.Repo,
		dbClient:   params.DBClient,
		artistRepo: params.ArtistRepo,
		storage:    params.Storage,
		buckets:    params.Buckets,
		logg:       params.Logger,
	}, nil
}

// Search runs the catalog query. Every input is optional; with none, the
// result is the unrestricted newest-first listing.
func (s *service) Search(ctx context.Context, page pagination.Params, filters map[string]string, term, sort string) (ArtworkListDTO, error) {
	query := ParseSearchQuery(page, filters, term, sort)
	artworks, total, err := s.repo.Search(ctx, query)
	if err != nil {
		return ArtworkListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search artworks")
	}
	return newArtworkListDTO(artworks, pagination.NewMeta(query.Page, total)), nil
}

// GetArtwork loads a single artwork with its artist.
func (s *service) GetArtwork(ctx context.Context, artworkID uuid.UUID) (*ArtworkDTO, error) {
	if artworkID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artwork id is required")
	}
	artwork, err := s.repo.FindByIDWithArtist(ctx, artworkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "artwork not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load artwork")
	}
	return NewArtworkDTO(artwork), nil
}

// ListByArtist returns the artist's artworks, newest first.
func (s *service) ListByArtist(ctx context.Context, artistID uuid.UUID) ([]ArtworkDTO, error) {
	if err := s.ensureArtist(ctx, artistID); err != nil {
		return nil, err
	}
	artworks, err := s.repo.ListByArtist(ctx, artistID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list artworks")
	}
	items := make([]ArtworkDTO, 0, len(artworks))
	for i := range artworks {
		items = append(items, *NewArtworkDTO(&artworks[i]))
	}
	return items, nil
}

// CreateArtwork inserts a new artwork under an existing artist. New pieces
// start AVAILABLE.
func (s *service) CreateArtwork(ctx context.Context, input CreateArtworkInput, image *types.FileUpload) (*ArtworkDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artwork title is required")
	}
	if err := s.ensureArtist(ctx, input.ArtistID); err != nil {
		return nil, err
	}

	artwork := &models.Artwork{
		ID:                 uuid.New(),
		ArtistID:           input.ArtistID,
		Title:              title,
		Description:        input.Description,
		Medium:             input.Medium,
		Dimensions:         input.Dimensions,
		YearCreated:        input.YearCreated,
		Price:              input.Price,
		AvailabilityStatus: enums.AvailabilityAvailable,
	}

	if !image.IsEmpty() {
		url, err := s.uploadImage(ctx, artwork.ID, image)
		if err != nil {
			return nil, err
		}
		artwork.ImageURL = &url
	}

	created, err := s.repo.Create(ctx, artwork)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create artwork")
	}
	return NewArtworkDTO(created), nil
}

// UpdateArtwork applies provided fields and optionally replaces the image.
// The previous image object is removed best-effort after the new one is
// stored.
func (s *service) UpdateArtwork(ctx context.Context, artworkID uuid.UUID, input UpdateArtworkInput, image *types.FileUpload) (*ArtworkDTO, error) {
	artwork, err := s.loadArtwork(ctx, artworkID)
	if err != nil {
		return nil, err
	}

	applyUpdateToArtwork(artwork, input)

	var oldImageURL string
	if !image.IsEmpty() {
		if artwork.ImageURL != nil {
			oldImageURL = *artwork.ImageURL
		}
		url, err := s.uploadImage(ctx, artwork.ID, image)
		if err != nil {
			return nil, err
		}
		artwork.ImageURL = &url
	}

	saved, err := s.repo.Save(ctx, artwork)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save artwork")
	}

	if oldImageURL != "" {
		if path := s.storage.PathFromURL(s.buckets.ArtworkImagesBucket, oldImageURL); path != "" {
			if err := s.storage.Delete(ctx, s.buckets.ArtworkImagesBucket, path); err != nil {
				s.logg.Warn(s.logg.WithField(ctx, "path", path), "artwork image cleanup failed")
			}
		}
	}
	return NewArtworkDTO(saved), nil
}

// DeleteArtwork removes the artwork and its dependent favorites and premium
// media rows in one transaction. A settled artwork cannot be deleted while
// its sale record exists. Blobs go afterwards, best-effort.
func (s *service) DeleteArtwork(ctx context.Context, artworkID uuid.UUID) (*DeleteResultDTO, error) {
	artwork, err := s.loadArtwork(ctx, artworkID)
	if err != nil {
		return nil, err
	}

	sold, err := s.repo.HasSale(ctx, artworkID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check sale")
	}
	if sold {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "artwork has a recorded sale")
	}

	media, err := s.repo.ListMediaForArtwork(ctx, artworkID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list premium media")
	}

	err = s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if err := txRepo.DeleteFavoritesForArtwork(ctx, artworkID); err != nil {
			return err
		}
		if err := txRepo.DeleteMediaForArtwork(ctx, artworkID); err != nil {
			return err
		}
		return txRepo.Delete(ctx, artworkID)
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete artwork")
	}

	var cleanup error
	deleteBlob := func(bucket, url string) {
		path := s.storage.PathFromURL(bucket, url)
		if path == "" {
			return
		}
		if err := s.storage.Delete(ctx, bucket, path); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "path", path), "artwork cleanup: storage delete failed")
			cleanup = multierr.Append(cleanup, fmt.Errorf("%s/%s: %w", bucket, path, err))
		}
	}
	if artwork.ImageURL != nil {
		deleteBlob(s.buckets.ArtworkImagesBucket, *artwork.ImageURL)
	}
	for i := range media {
		deleteBlob(s.buckets.MediaFilesBucket, media[i].FileURL)
		if media[i].ThumbnailURL != nil {
			deleteBlob(s.buckets.MediaThumbnailsBucket, *media[i].ThumbnailURL)
		}
	}

	result := &DeleteResultDTO{DeletedMedia: len(media)}
	for _, e := range multierr.Errors(cleanup) {
		result.CleanupErrors = append(result.CleanupErrors, e.Error())
	}
	return result, nil
}

// UpdateAvailability sets the availability state unconditionally. Settlement
// flows use the guarded transition in the sales package instead.
func (s *service) UpdateAvailability(ctx context.Context, artworkID uuid.UUID, status enums.AvailabilityStatus) (*ArtworkDTO, error) {
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid availability status")
	}
	affected, err := s.repo.UpdateAvailability(ctx, artworkID, status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update availability")
	}
	if affected == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "artwork not found")
	}
	return s.GetArtwork(ctx, artworkID)
}

func (s *service) ensureArtist(ctx context.Context, artistID uuid.UUID) error {
	if artistID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "artist id is required")
	}
	if _, err := s.artistRepo.FindByID(ctx, artistID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "artist not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load artist")
	}
	return nil
}

func (s *service) loadArtwork(ctx context.Context, artworkID uuid.UUID) (*models.Artwork, error) {
	if artworkID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artwork id is required")
	}
	artwork, err := s.repo.FindByID(ctx, artworkID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "artwork not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load artwork")
	}
	return artwork, nil
}

func (s *service) uploadImage(ctx context.Context, artworkID uuid.UUID, image *types.FileUpload) (string, error) {
	filename := strings.TrimSpace(image.Filename)
	if filename == "" {
		filename = "image"
	}
	filename = strings.ReplaceAll(filename, "/", "_")
	path := fmt.Sprintf("%s/%s-%s", artworkID, uuid.NewString(), filename)
	stored, err := s.storage.Upload(ctx, s.buckets.ArtworkImagesBucket, path, image.Data, image.ContentType)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload artwork image")
	}
	return s.storage.PublicURL(s.buckets.ArtworkImagesBucket, stored), nil
}

func applyUpdateToArtwork(artwork *models.Artwork, input UpdateArtworkInput) {
	if input.Title != nil {
		if title := strings.TrimSpace(*input.Title); title != "" {
			artwork.Title = title
		}
	}
	if input.Description != nil {
		artwork.Description = input.Description
	}
	if input.Medium != nil {
		artwork.Medium = input.Medium
	}
	if input.Dimensions != nil {
		artwork.Dimensions = input.Dimensions
	}
	if input.YearCreated != nil {
		artwork.YearCreated = input.YearCreated
	}
	if input.Price != nil {
		artwork.Price = input.Price
	}
}
