package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/tudor-manea/lahinch/pkg/config"
	"github.com/tudor-manea/lahinch/pkg/db/models"
	"github.com/tudor-manea/lahinch/pkg/enums"
	pkgerrors "github.com/tudor-manea/lahinch/pkg/errors"
	"github.com/tudor-manea/lahinch/pkg/logger"
	"github.com/tudor-manea/lahinch/pkg/types"
)

type mediaStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.PremiumMedia, error)
	Create(ctx context.Context, media *models.PremiumMedia) (*models.PremiumMedia, error)
	Save(ctx context.Context, media *models.PremiumMedia) (*models.PremiumMedia, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByOwner(ctx context.Context, kind enums.OwnerKind, ownerID uuid.UUID) ([]models.PremiumMedia, error)
}

type artistLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Artist, error)
}

type artworkLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Artwork, error)
}

type blobStore interface {
	Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, bucket, path string) error
	PublicURL(bucket, path string) string
	PathFromURL(bucket, fileURL string) string
}

// ServiceParams groups dependencies for the premium media service.
type ServiceParams struct {
	Repo        mediaStore
	ArtistRepo  artistLoader
	ArtworkRepo artworkLoader
	Storage     blobStore
	Buckets     config.StorageConfig
	Logger      *logger.Logger
}

// Service manages premium media attachments and their storage objects. Blob
// uploads and deletes always happen outside any metadata write; deletions of
// replaced or orphaned objects are best-effort and surfaced, never fatal.
type Service interface {
	CreateMedia(ctx context.Context, input CreateMediaInput, file, thumbnail *types.FileUpload) (*MediaDTO, error)
	UpdateMedia(ctx context.Context, mediaID uuid.UUID, input UpdateMediaInput, file, thumbnail *types.FileUpload) (*UpdateResultDTO, error)
	DeleteMedia(ctx context.Context, mediaID uuid.UUID) (*DeleteResultDTO, error)
	GetMedia(ctx context.Context, mediaID uuid.UUID) (*MediaDTO, error)
	ListForArtist(ctx context.Context, artistID uuid.UUID) ([]MediaDTO, error)
	ListForArtwork(ctx context.Context, artworkID uuid.UUID) ([]MediaDTO, error)
}

// CreateMediaInput holds the validated payload to attach premium media.
type CreateMediaInput struct {
	Title           string
	Description     *string
	Kind            enums.MediaKind
	OwnerKind       enums.OwnerKind
	OwnerID         uuid.UUID
	DurationSeconds *int
}

// UpdateMediaInput holds optional mutation values. ClearThumbnail removes the
// stored thumbnail without supplying a replacement.
type UpdateMediaInput struct {
	Title           *string
	Description     *string
	Kind            *enums.MediaKind
	OwnerKind       *enums.OwnerKind
	OwnerID         *uuid.UUID
	DurationSeconds *int
	ClearThumbnail  bool
}

type service struct {
	repo        mediaStore
	artistRepo  artistLoader
	artworkRepo artworkLoader
	storage     blobStore
	buckets     config.StorageConfig
	logg        *logger.Logger
}

// NewService builds a media service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "media repo is required")
	}
	if params.ArtistRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artist repo is required")
	}
	if params.ArtworkRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artwork repo is required")
	}
	if params.Storage == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "storage client is required")
	}
	if params.Logger == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &service{
		repo:        params.Repo,
		artistRepo:  params.ArtistRepo,
		artworkRepo: params.ArtworkRepo,
		storage:     params.Storage,
		buckets:     params.Buckets,
		logg:        params.Logger,
	}, nil
}

// CreateMedia uploads the primary file (and optional thumbnail) and inserts
// the metadata row. If the insert fails, the fresh blobs are removed
// best-effort so storage does not accumulate orphans.
func (s *service) CreateMedia(ctx context.Context, input CreateMediaInput, file, thumbnail *types.FileUpload) (*MediaDTO, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "media title is required")
	}
	if !input.Kind.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind")
	}
	if err := s.ensureOwner(ctx, input.OwnerKind, input.OwnerID); err != nil {
		return nil, err
	}
	if file.IsEmpty() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "media file is required")
	}

	mediaID := uuid.New()

	filePath := objectPath(input.OwnerKind, input.OwnerID, mediaID, "file", file.Filename)
	if _, err := s.storage.Upload(ctx, s.buckets.MediaFilesBucket, filePath, file.Data, file.ContentType); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload media file")
	}
	fileURL := s.storage.PublicURL(s.buckets.MediaFilesBucket, filePath)

	var thumbnailURL *string
	if !thumbnail.IsEmpty() {
		thumbPath := objectPath(input.OwnerKind, input.OwnerID, mediaID, "thumb", thumbnail.Filename)
		if _, err := s.storage.Upload(ctx, s.buckets.MediaThumbnailsBucket, thumbPath, thumbnail.Data, thumbnail.ContentType); err != nil {
			s.deleteBlobBestEffort(ctx, s.buckets.MediaFilesBucket, filePath, nil)
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload media thumbnail")
		}
		url := s.storage.PublicURL(s.buckets.MediaThumbnailsBucket, thumbPath)
		thumbnailURL = &url
	}

	row := &models.PremiumMedia{
		ID:              mediaID,
		Title:           title,
		Description:     input.Description,
		Kind:            input.Kind,
		FileURL:         fileURL,
		ThumbnailURL:    thumbnailURL,
		DurationSeconds: input.DurationSeconds,
		OwnerKind:       input.OwnerKind,
		OwnerID:         input.OwnerID,
	}
	created, err := s.repo.Create(ctx, row)
	if err != nil {
		s.deleteBlobBestEffort(ctx, s.buckets.MediaFilesBucket, filePath, nil)
		if thumbnailURL != nil {
			s.deleteBlobURLBestEffort(ctx, s.buckets.MediaThumbnailsBucket, *thumbnailURL, nil)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create media")
	}
	return NewMediaDTO(created), nil
}

// UpdateMedia applies metadata changes and optionally replaces the stored
// objects. Replaced or cleared blobs are removed after the row is saved;
// failures land in CleanupErrors.
func (s *service) UpdateMedia(ctx context.Context, mediaID uuid.UUID, input UpdateMediaInput, file, thumbnail *types.FileUpload) (*UpdateResultDTO, error) {
	row, err := s.loadMedia(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	ownerKind := row.OwnerKind
	ownerID := row.OwnerID
	if input.OwnerKind != nil || input.OwnerID != nil {
		if input.OwnerKind != nil {
			ownerKind = *input.OwnerKind
		}
		if input.OwnerID != nil {
			ownerID = *input.OwnerID
		}
		if err := s.ensureOwner(ctx, ownerKind, ownerID); err != nil {
			return nil, err
		}
		row.OwnerKind = ownerKind
		row.OwnerID = ownerID
	}

	if input.Title != nil {
		if title := strings.TrimSpace(*input.Title); title != "" {
			row.Title = title
		}
	}
	if input.Description != nil {
		row.Description = input.Description
	}
	if input.Kind != nil {
		if !input.Kind.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid media kind")
		}
		row.Kind = *input.Kind
	}
	if input.DurationSeconds != nil {
		row.DurationSeconds = input.DurationSeconds
	}

	var oldFileURL, oldThumbURL string
	if !file.IsEmpty() {
		oldFileURL = row.FileURL
		filePath := objectPath(ownerKind, ownerID, row.ID, "file", file.Filename)
		if _, err := s.storage.Upload(ctx, s.buckets.MediaFilesBucket, filePath, file.Data, file.ContentType); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload media file")
		}
		row.FileURL = s.storage.PublicURL(s.buckets.MediaFilesBucket, filePath)
	}

	switch {
	case !thumbnail.IsEmpty():
		if row.ThumbnailURL != nil {
			oldThumbURL = *row.ThumbnailURL
		}
		thumbPath := objectPath(ownerKind, ownerID, row.ID, "thumb", thumbnail.Filename)
		if _, err := s.storage.Upload(ctx, s.buckets.MediaThumbnailsBucket, thumbPath, thumbnail.Data, thumbnail.ContentType); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "upload media thumbnail")
		}
		url := s.storage.PublicURL(s.buckets.MediaThumbnailsBucket, thumbPath)
		row.ThumbnailURL = &url
	case input.ClearThumbnail && row.ThumbnailURL != nil:
		oldThumbURL = *row.ThumbnailURL
		row.ThumbnailURL = nil
	}

	saved, err := s.repo.Save(ctx, row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save media")
	}

	var cleanup error
	if oldFileURL != "" && oldFileURL != saved.FileURL {
		s.deleteBlobURLBestEffort(ctx, s.buckets.MediaFilesBucket, oldFileURL, &cleanup)
	}
	if oldThumbURL != "" {
		s.deleteBlobURLBestEffort(ctx, s.buckets.MediaThumbnailsBucket, oldThumbURL, &cleanup)
	}

	result := &UpdateResultDTO{Media: *NewMediaDTO(saved)}
	for _, e := range multierr.Errors(cleanup) {
		result.CleanupErrors = append(result.CleanupErrors, e.Error())
	}
	return result, nil
}

// DeleteMedia removes both storage objects best-effort, then the metadata
// row. A blob that fails to delete is reported, never fatal.
func (s *service) DeleteMedia(ctx context.Context, mediaID uuid.UUID) (*DeleteResultDTO, error) {
	row, err := s.loadMedia(ctx, mediaID)
	if err != nil {
		return nil, err
	}

	var cleanup error
	s.deleteBlobURLBestEffort(ctx, s.buckets.MediaFilesBucket, row.FileURL, &cleanup)
	if row.ThumbnailURL != nil {
		s.deleteBlobURLBestEffort(ctx, s.buckets.MediaThumbnailsBucket, *row.ThumbnailURL, &cleanup)
	}

	if err := s.repo.Delete(ctx, mediaID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete media")
	}

	result := &DeleteResultDTO{}
	for _, e := range multierr.Errors(cleanup) {
		result.CleanupErrors = append(result.CleanupErrors, e.Error())
	}
	return result, nil
}

// GetMedia loads a single media row.
func (s *service) GetMedia(ctx context.Context, mediaID uuid.UUID) (*MediaDTO, error) {
	row, err := s.loadMedia(ctx, mediaID)
	if err != nil {
		return nil, err
	}
	return NewMediaDTO(row), nil
}

// ListForArtist returns the media attached directly to an artist.
func (s *service) ListForArtist(ctx context.Context, artistID uuid.UUID) ([]MediaDTO, error) {
	if err := s.ensureOwner(ctx, enums.OwnerKindArtist, artistID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByOwner(ctx, enums.OwnerKindArtist, artistID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list media")
	}
	return newMediaDTOs(rows), nil
}

// ListForArtwork returns the media attached to an artwork.
func (s *service) ListForArtwork(ctx context.Context, artworkID uuid.UUID) ([]MediaDTO, error) {
	if err := s.ensureOwner(ctx, enums.OwnerKindArtwork, artworkID); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByOwner(ctx, enums.OwnerKindArtwork, artworkID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list media")
	}
	return newMediaDTOs(rows), nil
}

func (s *service) loadMedia(ctx context.Context, mediaID uuid.UUID) (*models.PremiumMedia, error) {
	if mediaID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "media id is required")
	}
	row, err := s.repo.FindByID(ctx, mediaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "media not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load media")
	}
	return row, nil
}

// ensureOwner checks the tag is valid and the referenced owner row exists.
func (s *service) ensureOwner(ctx context.Context, kind enums.OwnerKind, ownerID uuid.UUID) error {
	if !kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid owner kind")
	}
	if ownerID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner id is required")
	}

	var err error
	switch kind {
	case enums.OwnerKindArtist:
		_, err = s.artistRepo.FindByID(ctx, ownerID)
	case enums.OwnerKindArtwork:
		_, err = s.artworkRepo.FindByID(ctx, ownerID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "media owner not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load media owner")
	}
	return nil
}

func (s *service) deleteBlobBestEffort(ctx context.Context, bucket, path string, cleanup *error) {
	if path == "" {
		return
	}
	if err := s.storage.Delete(ctx, bucket, path); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "path", path), "media cleanup: storage delete failed")
		if cleanup != nil {
			*cleanup = multierr.Append(*cleanup, fmt.Errorf("%s/%s: %w", bucket, path, err))
		}
	}
}

func (s *service) deleteBlobURLBestEffort(ctx context.Context, bucket, url string, cleanup *error) {
	s.deleteBlobBestEffort(ctx, bucket, s.storage.PathFromURL(bucket, url), cleanup)
}

// objectPath builds the storage key for a media object. The owner prefix
// keeps all of an owner's objects under one listing, and the media id keeps
// replacements from colliding across rows.
func objectPath(kind enums.OwnerKind, ownerID, mediaID uuid.UUID, slot, filename string) string {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		filename = "file"
	}
	filename = strings.ReplaceAll(filename, "/", "_")
	return fmt.Sprintf("%s/%s/%s/%s/%s", kind.PathSegment(), ownerID, mediaID, slot, filename)
}
