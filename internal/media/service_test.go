package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tudor-manea/lahinch/pkg/config"
	"github.com/tudor-manea/lahinch/pkg/db/models"
	"github.com/tudor-manea/lahinch/pkg/enums"
	pkgerrors "github.com/tudor-manea/lahinch/pkg/errors"
	"github.com/tudor-manea/lahinch/pkg/logger"
	"github.com/tudor-manea/lahinch/pkg/types"
)

var errStorageDown = errors.New("storage unavailable")

type fakeMediaStore struct {
	rows map[uuid.UUID]*models.PremiumMedia
}

func newFakeMediaStore() *fakeMediaStore {
	return &fakeMediaStore{rows: map[uuid.UUID]*models.PremiumMedia{}}
}

func (f *fakeMediaStore) FindByID(ctx context.Context, id uuid.UUID) (*models.PremiumMedia, error) {
	if row, ok := f.rows[id]; ok {
		copied := *row
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeMediaStore) Create(ctx context.Context, media *models.PremiumMedia) (*models.PremiumMedia, error) {
	f.rows[media.ID] = media
	return media, nil
}

func (f *fakeMediaStore) Save(ctx context.Context, media *models.PremiumMedia) (*models.PremiumMedia, error) {
	f.rows[media.ID] = media
	return media, nil
}

func (f *fakeMediaStore) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeMediaStore) ListByOwner(ctx context.Context, kind enums.OwnerKind, ownerID uuid.UUID) ([]models.PremiumMedia, error) {
	var out []models.PremiumMedia
	for _, row := range f.rows {
		if row.OwnerKind == kind && row.OwnerID == ownerID {
			out = append(out, *row)
		}
	}
	return out, nil
}

type fakeArtistLoader struct {
	rows map[uuid.UUID]*models.Artist
}

func (f *fakeArtistLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Artist, error) {
	if artist, ok := f.rows[id]; ok {
		return artist, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeArtworkLoader struct {
	rows map[uuid.UUID]*models.Artwork
}

func (f *fakeArtworkLoader) FindByID(ctx context.Context, id uuid.UUID) (*models.Artwork, error) {
	if artwork, ok := f.rows[id]; ok {
		return artwork, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeBlobStore struct {
	base        string
	uploads     []string
	deletes     []string
	failDeletes bool
}

func (f *fakeBlobStore) Upload(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	f.uploads = append(f.uploads, bucket+"/"+path)
	return path, nil
}

func (f *fakeBlobStore) Delete(ctx context.Context, bucket, path string) error {
	f.deletes = append(f.deletes, bucket+"/"+path)
	if f.failDeletes {
		return errStorageDown
	}
	return nil
}

func (f *fakeBlobStore) PublicURL(bucket, path string) string {
	return fmt.Sprintf("%s/%s/%s", f.base, bucket, path)
}

func (f *fakeBlobStore) PathFromURL(bucket, fileURL string) string {
	prefix := fmt.Sprintf("%s/%s/", f.base, bucket)
	if !strings.HasPrefix(fileURL, prefix) {
		return ""
	}
	return strings.TrimPrefix(fileURL, prefix)
}

func newTestService(store *fakeMediaStore, blobs *fakeBlobStore, artists *fakeArtistLoader, artworks *fakeArtworkLoader) *service {
	if artists == nil {
		artists = &fakeArtistLoader{}
	}
	if artworks == nil {
		artworks = &fakeArtworkLoader{}
	}
	return &service{
		repo:        store,
		artistRepo:  artists,
		artworkRepo: artworks,
		storage:     blobs,
		buckets: config.StorageConfig{
			MediaFilesBucket:      "premium-media-files",
			MediaThumbnailsBucket: "premium-media-thumbnails",
		},
		logg: logger.New(logger.Options{ServiceName: "media-test"}),
	}
}

func upload(name string) *types.FileUpload {
	return &types.FileUpload{Filename: name, ContentType: "application/octet-stream", Data: []byte("data")}
}

func TestObjectPathShape(t *testing.T) {
	ownerID := uuid.New()
	mediaID := uuid.New()

	got := objectPath(enums.OwnerKindArtwork, ownerID, mediaID, "file", "clip.mp4")
	want := fmt.Sprintf("artwork/%s/%s/file/clip.mp4", ownerID, mediaID)
	if got != want {
		t.Fatalf("objectPath = %q, want %q", got, want)
	}

	got = objectPath(enums.OwnerKindArtist, ownerID, mediaID, "thumb", "")
	want = fmt.Sprintf("artist/%s/%s/thumb/file", ownerID, mediaID)
	if got != want {
		t.Fatalf("objectPath = %q, want %q", got, want)
	}
}

func TestCreateMediaRequiresFile(t *testing.T) {
	artistID := uuid.New()
	svc := newTestService(newFakeMediaStore(), &fakeBlobStore{base: "https://s"},
		&fakeArtistLoader{rows: map[uuid.UUID]*models.Artist{artistID: {ID: artistID}}}, nil)

	_, err := svc.CreateMedia(context.Background(), CreateMediaInput{
		Title:     "Studio Tour",
		Kind:      enums.MediaKindVideo,
		OwnerKind: enums.OwnerKindArtist,
		OwnerID:   artistID,
	}, nil, nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateMediaInvalidOwnerKind(t *testing.T) {
	svc := newTestService(newFakeMediaStore(), &fakeBlobStore{base: "https://s"}, nil, nil)

	_, err := svc.CreateMedia(context.Background(), CreateMediaInput{
		Title:     "Broken",
		Kind:      enums.MediaKindImage,
		OwnerKind: enums.OwnerKind("GALLERY"),
		OwnerID:   uuid.New(),
	}, upload("x.jpg"), nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateMediaMissingOwner(t *testing.T) {
	svc := newTestService(newFakeMediaStore(), &fakeBlobStore{base: "https://s"}, nil, nil)

	_, err := svc.CreateMedia(context.Background(), CreateMediaInput{
		Title:     "Orphan",
		Kind:      enums.MediaKindImage,
		OwnerKind: enums.OwnerKindArtwork,
		OwnerID:   uuid.New(),
	}, upload("x.jpg"), nil)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateMediaStoresBothObjects(t *testing.T) {
	artworkID := uuid.New()
	blobs := &fakeBlobStore{base: "https://s"}
	store := newFakeMediaStore()
	svc := newTestService(store, blobs, nil,
		&fakeArtworkLoader{rows: map[uuid.UUID]*models.Artwork{artworkID: {ID: artworkID}}})

	dto, err := svc.CreateMedia(context.Background(), CreateMediaInput{
		Title:     "Process Film",
		Kind:      enums.MediaKindVideo,
		OwnerKind: enums.OwnerKindArtwork,
		OwnerID:   artworkID,
	}, upload("film.mp4"), upload("frame.jpg"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(blobs.uploads) != 2 {
		t.Fatalf("expected 2 uploads, got %v", blobs.uploads)
	}
	if dto.ThumbnailURL == nil {
		t.Fatal("expected thumbnail url set")
	}
	if !strings.Contains(dto.FileURL, "/file/film.mp4") {
		t.Fatalf("unexpected file url %q", dto.FileURL)
	}
}

func TestUpdateMediaReplacementSurfacesCleanupErrors(t *testing.T) {
	artworkID := uuid.New()
	mediaID := uuid.New()
	blobs := &fakeBlobStore{base: "https://s", failDeletes: true}
	store := newFakeMediaStore()
	oldURL := blobs.PublicURL("premium-media-files", fmt.Sprintf("artwork/%s/%s/file/old.mp4", artworkID, mediaID))
	store.rows[mediaID] = &models.PremiumMedia{
		ID:        mediaID,
		Title:     "Old",
		Kind:      enums.MediaKindVideo,
		FileURL:   oldURL,
		OwnerKind: enums.OwnerKindArtwork,
		OwnerID:   artworkID,
	}
	svc := newTestService(store, blobs, nil,
		&fakeArtworkLoader{rows: map[uuid.UUID]*models.Artwork{artworkID: {ID: artworkID}}})

	result, err := svc.UpdateMedia(context.Background(), mediaID, UpdateMediaInput{}, upload("new.mp4"), nil)
	if err != nil {
		t.Fatalf("replacement must not fail on cleanup, got %v", err)
	}
	if len(result.CleanupErrors) != 1 {
		t.Fatalf("expected 1 cleanup error, got %v", result.CleanupErrors)
	}
	if len(blobs.deletes) != 1 {
		t.Fatalf("expected old object delete attempted, got %v", blobs.deletes)
	}
	if !strings.Contains(result.Media.FileURL, "new.mp4") {
		t.Fatalf("expected new file url, got %q", result.Media.FileURL)
	}
}

func TestUpdateMediaClearThumbnail(t *testing.T) {
	artistID := uuid.New()
	mediaID := uuid.New()
	blobs := &fakeBlobStore{base: "https://s"}
	store := newFakeMediaStore()
	thumbURL := blobs.PublicURL("premium-media-thumbnails", fmt.Sprintf("artist/%s/%s/thumb/t.jpg", artistID, mediaID))
	store.rows[mediaID] = &models.PremiumMedia{
		ID:           mediaID,
		Title:        "With Thumb",
		Kind:         enums.MediaKindAudio,
		FileURL:      blobs.PublicURL("premium-media-files", "artist/x/file/a.mp3"),
		ThumbnailURL: &thumbURL,
		OwnerKind:    enums.OwnerKindArtist,
		OwnerID:      artistID,
	}
	svc := newTestService(store, blobs,
		&fakeArtistLoader{rows: map[uuid.UUID]*models.Artist{artistID: {ID: artistID}}}, nil)

	result, err := svc.UpdateMedia(context.Background(), mediaID, UpdateMediaInput{ClearThumbnail: true}, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Media.ThumbnailURL != nil {
		t.Fatal("expected thumbnail cleared")
	}
	if len(blobs.deletes) != 1 {
		t.Fatalf("expected thumbnail delete attempted, got %v", blobs.deletes)
	}
}

func TestDeleteMediaRemovesRowDespiteStorageFailure(t *testing.T) {
	artworkID := uuid.New()
	mediaID := uuid.New()
	blobs := &fakeBlobStore{base: "https://s", failDeletes: true}
	store := newFakeMediaStore()
	thumbURL := blobs.PublicURL("premium-media-thumbnails", fmt.Sprintf("artwork/%s/%s/thumb/t.jpg", artworkID, mediaID))
	store.rows[mediaID] = &models.PremiumMedia{
		ID:           mediaID,
		Title:        "Doomed",
		Kind:         enums.MediaKindImage,
		FileURL:      blobs.PublicURL("premium-media-files", fmt.Sprintf("artwork/%s/%s/file/i.jpg", artworkID, mediaID)),
		ThumbnailURL: &thumbURL,
		OwnerKind:    enums.OwnerKindArtwork,
		OwnerID:      artworkID,
	}
	svc := newTestService(store, blobs, nil,
		&fakeArtworkLoader{rows: map[uuid.UUID]*models.Artwork{artworkID: {ID: artworkID}}})

	result, err := svc.DeleteMedia(context.Background(), mediaID)
	if err != nil {
		t.Fatalf("delete must not fail on cleanup, got %v", err)
	}
	if len(result.CleanupErrors) != 2 {
		t.Fatalf("expected 2 cleanup errors, got %v", result.CleanupErrors)
	}
	if _, ok := store.rows[mediaID]; ok {
		t.Fatal("expected row removed")
	}
}

// blobOrderStore records how many blob deletes had run when the row delete
// arrived.
type blobOrderStore struct {
	*fakeMediaStore
	blobs            *fakeBlobStore
	deletesBeforeRow int
}

func (s *blobOrderStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.deletesBeforeRow = len(s.blobs.deletes)
	return s.fakeMediaStore.Delete(ctx, id)
}

func TestDeleteMediaRemovesBlobsBeforeRow(t *testing.T) {
	artworkID := uuid.New()
	mediaID := uuid.New()
	blobs := &fakeBlobStore{base: "https://s"}
	inner := newFakeMediaStore()
	thumbURL := blobs.PublicURL("premium-media-thumbnails", fmt.Sprintf("artwork/%s/%s/thumb/t.jpg", artworkID, mediaID))
	inner.rows[mediaID] = &models.PremiumMedia{
		ID:           mediaID,
		Title:        "Ordered",
		Kind:         enums.MediaKindImage,
		FileURL:      blobs.PublicURL("premium-media-files", fmt.Sprintf("artwork/%s/%s/file/i.jpg", artworkID, mediaID)),
		ThumbnailURL: &thumbURL,
		OwnerKind:    enums.OwnerKindArtwork,
		OwnerID:      artworkID,
	}
	store := &blobOrderStore{fakeMediaStore: inner, blobs: blobs}
	svc := newTestService(nil, blobs,
		nil, &fakeArtworkLoader{rows: map[uuid.UUID]*models.Artwork{artworkID: {ID: artworkID}}})
	svc.repo = store

	if _, err := svc.DeleteMedia(context.Background(), mediaID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if store.deletesBeforeRow != 2 {
		t.Fatalf("expected both blob deletes before the row delete, got %d", store.deletesBeforeRow)
	}
	if _, ok := inner.rows[mediaID]; ok {
		t.Fatal("expected row removed")
	}
}
