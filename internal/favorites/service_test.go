package favorites

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tudor-manea/lahinch/pkg/db/models"
	pkgerrors "github.com/tudor-manea/lahinch/pkg/errors"
)

type fakeArtworkLoader struct {
	rows map[uuid.UUID]*models.Artwork
}

func (f *fakeArtworkLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Artwork, error) {
	if artwork, ok := f.rows[id]; ok {
		return artwork, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeProfileLoader struct {
	rows map[uuid.UUID]*models.Profile
}

func (f *fakeProfileLoader) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	if profile, ok := f.rows[userID]; ok {
		return profile, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestAddMissingProfileIsNotFound(t *testing.T) {
	svc := &service{
		artworkRepo: &fakeArtworkLoader{},
		profileRepo: &fakeProfileLoader{},
	}

	err := svc.Add(context.Background(), uuid.New(), uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddMissingArtworkIsNotFound(t *testing.T) {
	userID := uuid.New()
	svc := &service{
		artworkRepo: &fakeArtworkLoader{},
		profileRepo: &fakeProfileLoader{rows: map[uuid.UUID]*models.Profile{
			userID: {UserID: userID},
		}},
	}

	err := svc.Add(context.Background(), userID, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddNilIDsRejected(t *testing.T) {
	svc := &service{
		artworkRepo: &fakeArtworkLoader{},
		profileRepo: &fakeProfileLoader{},
	}

	err := svc.Add(context.Background(), uuid.Nil, uuid.New())
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestIsFavoritedRequiresBothIDs(t *testing.T) {
	svc := &service{}

	if _, err := svc.IsFavorited(context.Background(), uuid.New(), uuid.Nil); err == nil {
		t.Fatal("expected validation error")
	}
}
