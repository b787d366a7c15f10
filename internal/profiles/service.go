package profiles

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tudor-manea/lahinch/pkg/db"
	"github.com/tudor-manea/lahinch/pkg/db/models"
	"github.com/tudor-manea/lahinch/pkg/enums"
	pkgerrors "github.com/tudor-manea/lahinch/pkg/errors"
)

// ServiceParams groups dependencies for the profile service.
type ServiceParams struct {
	Repo *Repository
}

// Service exposes business rules for user profiles. User ids come from the
// external identity provider and are never minted here.
type Service interface {
	CreateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*ProfileDTO, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*ProfileDTO, error)
	CreateOrUpdate(ctx context.Context, userID uuid.UUID, input ProfileInput) (*ProfileDTO, error)
	GetRole(ctx context.Context, userID uuid.UUID) (enums.UserRole, error)
}

// ProfileInput holds the mutable profile fields. Blank values are ignored on
// update.
type ProfileInput struct {
	FirstName string
	LastName  string
}

type service struct {
	repo *Repository
}

// NewService builds a profile service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "profile repo is required")
	}
	return &service{repo: params.Repo}, nil
}

// CreateProfile inserts a profile for a user that does not have one yet.
func (s *service) CreateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	profile := &models.Profile{
		UserID: userID,
		Role:   enums.UserRolePublic,
	}
	applyProfileInput(profile, input)

	created, err := s.repo.Create(ctx, profile)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "profile already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create profile")
	}
	return NewProfileDTO(created), nil
}

// GetProfile loads a profile by user id.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*ProfileDTO, error) {
	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return NewProfileDTO(profile), nil
}

// UpdateProfile applies non-blank input fields to an existing profile.
func (s *service) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*ProfileDTO, error) {
	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	applyProfileInput(profile, input)
	saved, err := s.repo.Save(ctx, profile)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save profile")
	}
	return NewProfileDTO(saved), nil
}

// CreateOrUpdate upserts a profile lazily at a user's first interaction.
func (s *service) CreateOrUpdate(ctx context.Context, userID uuid.UUID, input ProfileInput) (*ProfileDTO, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return s.CreateProfile(ctx, userID, input)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}

	applyProfileInput(profile, input)
	saved, err := s.repo.Save(ctx, profile)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save profile")
	}
	return NewProfileDTO(saved), nil
}

// GetRole returns the user's current role.
func (s *service) GetRole(ctx context.Context, userID uuid.UUID) (enums.UserRole, error) {
	profile, err := s.loadProfile(ctx, userID)
	if err != nil {
		return "", err
	}
	return profile.Role, nil
}

func (s *service) loadProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	profile, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return profile, nil
}

func applyProfileInput(profile *models.Profile, input ProfileInput) {
	if first := strings.TrimSpace(input.FirstName); first != "" {
		profile.FirstName = &first
	}
	if last := strings.TrimSpace(input.LastName); last != "" {
		profile.LastName = &last
	}
}
