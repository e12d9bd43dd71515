package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/animetoken/anime-token-backend/pkg/config"
	"github.com/animetoken/anime-token-backend/pkg/db/models"
	"github.com/animetoken/anime-token-backend/pkg/enums"
	pkgerrors "github.com/animetoken/anime-token-backend/pkg/errors"
)

type stubAssetStore struct {
	assets   map[uuid.UUID]*models.MediaAsset
	failNext error
}

func newStubAssetStore() *stubAssetStore {
	return &stubAssetStore{assets: map[uuid.UUID]*models.MediaAsset{}}
}

func (s *stubAssetStore) Create(_ context.Context, asset *models.MediaAsset) (*models.MediaAsset, error) {
	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return nil, err
	}
	asset.ID = uuid.New()
	s.assets[asset.ID] = asset
	return asset, nil
}

func (s *stubAssetStore) FindOwned(_ context.Context, ownerID, assetID uuid.UUID) (*models.MediaAsset, error) {
	asset, ok := s.assets[assetID]
	if !ok || asset.OwnerID != ownerID {
		return nil, nil
	}
	return asset, nil
}

func (s *stubAssetStore) MarkStored(_ context.Context, assetID uuid.UUID, bucket, objectKey, publicURL string) error {
	asset := s.assets[assetID]
	asset.Status = enums.MediaStatusStored
	asset.Bucket = bucket
	asset.ObjectKey = objectKey
	asset.PublicURL = &publicURL
	return nil
}

func (s *stubAssetStore) MarkReleased(_ context.Context, assetID uuid.UUID) error {
	s.assets[assetID].Status = enums.MediaStatusReleased
	return nil
}

type stubObjectStore struct {
	objects    map[string][]byte
	failUpload map[string]error
}

func newStubObjectStore() *stubObjectStore {
	return &stubObjectStore{objects: map[string][]byte{}, failUpload: map[string]error{}}
}

func (s *stubObjectStore) objectID(bucket, key string) string { return bucket + "/" + key }

func (s *stubObjectStore) Upload(_ context.Context, bucket, key string, data []byte, _ string) error {
	if err, ok := s.failUpload[bucket]; ok {
		return err
	}
	s.objects[s.objectID(bucket, key)] = data
	return nil
}

func (s *stubObjectStore) Download(_ context.Context, bucket, key string) ([]byte, error) {
	data, ok := s.objects[s.objectID(bucket, key)]
	if !ok {
		return nil, errors.New("object not found")
	}
	return data, nil
}

func (s *stubObjectStore) Remove(_ context.Context, bucket string, keys ...string) error {
	for _, key := range keys {
		delete(s.objects, s.objectID(bucket, key))
	}
	return nil
}

func (s *stubObjectStore) PublicURL(bucket, key string) string {
	return fmt.Sprintf("https://cdn.test/%s/%s", bucket, key)
}

func testStorageConfig() config.StorageConfig {
	return config.StorageConfig{
		MediaBucket:    "nft-assets",
		StagingBucket:  "nft-staging",
		MetadataBucket: "nft-metadata",
	}
}

func newTestCoordinator(t *testing.T) (*Coordinator, *stubAssetStore, *stubObjectStore) {
	t.Helper()
	repo := newStubAssetStore()
	store := newStubObjectStore()
	coord, err := NewCoordinator(repo, store, testStorageConfig(), config.MediaConfig{MaxUploadMB: 1}, nil, nil)
	if err != nil {
		t.Fatalf("new coordinator: %v", err)
	}
	return coord, repo, store
}

func TestStageWritesStagingObjectAndRow(t *testing.T) {
	coord, repo, store := newTestCoordinator(t)
	ownerID := uuid.New()

	asset, err := coord.Stage(context.Background(), ownerID, enums.MediaSlotAvatar, "art.png", "image/png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	if asset.Status != enums.MediaStatusStaged {
		t.Fatalf("expected staged status, got %s", asset.Status)
	}
	if asset.Bucket != "nft-staging" {
		t.Fatalf("expected staging bucket, got %s", asset.Bucket)
	}
	if !strings.HasPrefix(asset.ObjectKey, "avatar/") {
		t.Fatalf("expected slot-prefixed key, got %s", asset.ObjectKey)
	}
	if _, ok := store.objects["nft-staging/"+asset.ObjectKey]; !ok {
		t.Fatal("staging object missing")
	}
	if len(repo.assets) != 1 {
		t.Fatalf("expected one asset row, got %d", len(repo.assets))
	}
}

func TestStageRejectsOversizedFile(t *testing.T) {
	coord, _, _ := newTestCoordinator(t)

	big := make([]byte, 2*1024*1024)
	_, err := coord.Stage(context.Background(), uuid.New(), enums.MediaSlotPrimary, "movie.mp4", "video/mp4", big)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestStageRemovesObjectWhenRowInsertFails(t *testing.T) {
	coord, repo, store := newTestCoordinator(t)
	repo.failNext = errors.New("insert failed")

	_, err := coord.Stage(context.Background(), uuid.New(), enums.MediaSlotAvatar, "art.png", "image/png", []byte("png"))
	if err == nil {
		t.Fatal("expected error")
	}
	for id := range store.objects {
		if strings.HasPrefix(id, "nft-staging/") {
			t.Fatalf("orphaned staging object left behind: %s", id)
		}
	}
}

func TestPromoteMovesAssetToPublicBucket(t *testing.T) {
	coord, repo, store := newTestCoordinator(t)
	ownerID := uuid.New()

	asset, err := coord.Stage(context.Background(), ownerID, enums.MediaSlotAvatar, "art.png", "image/png", []byte("png-bytes"))
	if err != nil {
		t.Fatalf("stage: %v", err)
	}
	stagingKey := asset.ObjectKey

	publicURL, err := coord.Promote(context.Background(), ownerID, asset.ID)
	if err != nil {
		t.Fatalf("promote: %v", err)
	}
	if !strings.Contains(publicURL, "nft-assets/avatar/") {
		t.Fatalf("unexpected public url %s", publicURL)
	}

	stored := repo.assets[asset.ID]
	if stored.Status != enums.MediaStatusStored {
		t.Fatalf("expected stored status, got %s", stored.Status)
	}
	if _, ok := store.objects["nft-staging/"+stagingKey]; ok {
		t.Fatal("staging object should be removed after promote")
	}
	if _, ok := store.objects["nft-assets/"+stored.ObjectKey]; !ok {
		t.Fatal("public object missing after promote")
	}
}

func TestPromoteFailureNamesTheAsset(t *testing.T) {
	coord, _, store := newTestCoordinator(t)
	ownerID := uuid.New()

	asset, err := coord.Stage(context.Background(), ownerID, enums.MediaSlotBanner, "banner.jpg", "image/jpeg", []byte("jpg"))
	if err != nil {
		t.Fatalf("stage: %v", err)
	}

	store.failUpload["nft-assets"] = errors.New("bucket unavailable")
	_, err = coord.Promote(context.Background(), ownerID, asset.ID)
	if err == nil {
		t.Fatal("expected promote failure")
	}
	if !strings.Contains(err.Error(), "banner.jpg") {
		t.Fatalf("error must name the failing asset, got %v", err)
	}
}

func TestPromoteOtherOwnersAssetNotFound(t *testing.T) {
	coord, _, _ := newTestCoordinator(t)

	asset, err := coord.Stage(context.Background(), uuid.New(), enums.MediaSlotCover, "cover.png", "image/png", []byte("png"))
	if err != nil {
		t.Fatalf("stage: %v", err)
	}

	_, err = coord.Promote(context.Background(), uuid.New(), asset.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestReleaseRemovesObjectsAndMarksRows(t *testing.T) {
	coord, repo, store := newTestCoordinator(t)
	ownerID := uuid.New()

	first, _ := coord.Stage(context.Background(), ownerID, enums.MediaSlotAvatar, "a.png", "image/png", []byte("a"))
	second, _ := coord.Stage(context.Background(), ownerID, enums.MediaSlotBanner, "b.png", "image/png", []byte("b"))

	if err := coord.Release(context.Background(), ownerID, first.ID, second.ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	if repo.assets[first.ID].Status != enums.MediaStatusReleased {
		t.Fatal("first asset not released")
	}
	if repo.assets[second.ID].Status != enums.MediaStatusReleased {
		t.Fatal("second asset not released")
	}
	if len(store.objects) != 0 {
		t.Fatalf("expected no staging objects, got %d", len(store.objects))
	}
}

func TestReleaseSkipsUnknownAndForeignAssets(t *testing.T) {
	coord, repo, _ := newTestCoordinator(t)
	ownerID := uuid.New()

	foreign, _ := coord.Stage(context.Background(), uuid.New(), enums.MediaSlotAvatar, "x.png", "image/png", []byte("x"))

	if err := coord.Release(context.Background(), ownerID, uuid.New(), foreign.ID); err != nil {
		t.Fatalf("release: %v", err)
	}
	if repo.assets[foreign.ID].Status != enums.MediaStatusStaged {
		t.Fatal("foreign asset must be untouched")
	}
}
