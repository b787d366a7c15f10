package favorites

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tudor-manea/lahinch/pkg/db"
	"github.com/tudor-manea/lahinch/pkg/db/models"
	pkgerrors "github.com/tudor-manea/lahinch/pkg/errors"
	"github.com/tudor-manea/lahinch/pkg/pagination"
)

type artworkLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Artwork, error)
}

type profileLoader interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
}

// ServiceParams groups dependencies for the favorites service.
type ServiceParams struct {
	Repo        *Repository
	ArtworkRepo artworkLoader
	ProfileRepo profileLoader
}

// Service exposes favorite management for gallery users.
type Service interface {
	Add(ctx context.Context, userID, artworkID uuid.UUID) error
	Remove(ctx context.Context, userID, artworkID uuid.UUID) error
	IsFavorited(ctx context.Context, userID, artworkID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (FavoriteListDTO, error)
}

type service struct {
	repo        *Repository
	artworkRepo artworkLoader
	profileRepo profileLoader
}

// NewService builds a favorites service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "favorites repo is required")
	}
	if params.ArtworkRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "artwork repo is required")
	}
	if params.ProfileRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile repo is required")
	}
	return &service{
		repo:        params.Repo,
		artworkRepo: params.ArtworkRepo,
		profileRepo: params.ProfileRepo,
	}, nil
}

// Add favorites an artwork for a user. Both sides must exist, and the pair
// must not already be present.
func (s *service) Add(ctx context.Context, userID, artworkID uuid.UUID) error {
	if err := s.ensureProfile(ctx, userID); err != nil {
		return err
	}
	if err := s.ensureArtwork(ctx, artworkID); err != nil {
		return err
	}

	exists, err := s.repo.Exists(ctx, userID, artworkID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check favorite")
	}
	if exists {
		return pkgerrors.New(pkgerrors.CodeConflict, "artwork already favorited")
	}

	if err := s.repo.Add(ctx, userID, artworkID); err != nil {
		if db.IsUniqueViolation(err, "") {
			return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "artwork already favorited")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add favorite")
	}
	return nil
}

// Remove unfavorites an artwork. Removing an absent pair is an error so
// clients can detect stale state.
func (s *service) Remove(ctx context.Context, userID, artworkID uuid.UUID) error {
	if userID == uuid.Nil || artworkID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id and artwork id are required")
	}
	affected, err := s.repo.Remove(ctx, userID, artworkID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove favorite")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "favorite not found")
	}
	return nil
}

// IsFavorited reports whether the pair exists.
func (s *service) IsFavorited(ctx context.Context, userID, artworkID uuid.UUID) (bool, error) {
	if userID == uuid.Nil || artworkID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeValidation, "user id and artwork id are required")
	}
	favorited, err := s.repo.Exists(ctx, userID, artworkID)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check favorite")
	}
	return favorited, nil
}

// ListByUser returns a page of the user's favorites, newest first.
func (s *service) ListByUser(ctx context.Context, userID uuid.UUID, params pagination.Params) (FavoriteListDTO, error) {
	if err := s.ensureProfile(ctx, userID); err != nil {
		return FavoriteListDTO{}, err
	}

	params = params.Normalize()
	records, total, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return FavoriteListDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list favorites")
	}
	return newFavoriteListDTO(records, pagination.NewMeta(params, total)), nil
}

func (s *service) ensureProfile(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if _, err := s.profileRepo.FindByUserID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "profile not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return nil
}

func (s *service) ensureArtwork(ctx context.Context, artworkID uuid.UUID) error {
	if artworkID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "artwork id is required")
	}
	if _, err := s.artworkRepo.FindByID(ctx, artworkID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "artwork not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load artwork")
	}
	return nil
}
