package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/animetoken/anime-token-backend/pkg/config"
	"github.com/animetoken/anime-token-backend/pkg/db/models"
	"github.com/animetoken/anime-token-backend/pkg/enums"
	pkgerrors "github.com/animetoken/anime-token-backend/pkg/errors"
	"github.com/animetoken/anime-token-backend/pkg/logger"
	"github.com/animetoken/anime-token-backend/pkg/metrics"
	"github.com/animetoken/anime-token-backend/pkg/storage/supabase"
)

type assetStore interface {
	Create(ctx context.Context, asset *models.MediaAsset) (*models.MediaAsset, error)
	FindOwned(ctx context.Context, ownerID, assetID uuid.UUID) (*models.MediaAsset, error)
	MarkStored(ctx context.Context, assetID uuid.UUID, bucket, objectKey, publicURL string) error
	MarkReleased(ctx context.Context, assetID uuid.UUID) error
}

// Coordinator owns the media lifecycle for wizard drafts: staging an upload
// as a preview, promoting staged assets to their public home at submission,
// and releasing superseded previews.
type Coordinator struct {
	repo    assetStore
	store   supabase.ObjectStore
	cfg     config.StorageConfig
	maxSize int64
	metrics *metrics.MintingMetrics
	logg    *logger.Logger
}

// NewCoordinator constructs the media coordinator.
func NewCoordinator(repo assetStore, store supabase.ObjectStore, storageCfg config.StorageConfig, mediaCfg config.MediaConfig, mm *metrics.MintingMetrics, logg *logger.Logger) (*Coordinator, error) {
	if repo == nil {
		return nil, fmt.Errorf("media repository required")
	}
	if store == nil {
		return nil, fmt.Errorf("object store required")
	}
	return &Coordinator{
		repo:    repo,
		store:   store,
		cfg:     storageCfg,
		maxSize: int64(mediaCfg.MaxUploadMB) * 1024 * 1024,
		metrics: mm,
		logg:    logg,
	}, nil
}

// Stage uploads draft media into the staging bucket and records the asset.
// Staged objects are the server-side previews; they move to the public
// bucket only at submission.
func (c *Coordinator) Stage(ctx context.Context, ownerID uuid.UUID, slot enums.MediaSlot, fileName, mimeType string, data []byte) (*models.MediaAsset, error) {
	if !slot.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown media slot %q", slot))
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "file is empty")
	}
	if c.maxSize > 0 && int64(len(data)) > c.maxSize {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("file exceeds the %dMB limit", c.maxSize/(1024*1024)))
	}
	if !strings.HasPrefix(mimeType, "image/") && !strings.HasPrefix(mimeType, "video/") && !strings.HasPrefix(mimeType, "audio/") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unsupported content type %q", mimeType))
	}

	key := supabase.ObjectKey(slot.String(), fileName)
	if err := c.store.Upload(ctx, c.cfg.StagingBucket, key, data, mimeType); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("staging %s upload", slot))
	}

	asset := &models.MediaAsset{
		OwnerID:   ownerID,
		Slot:      slot,
		Bucket:    c.cfg.StagingBucket,
		ObjectKey: key,
		FileName:  fileName,
		MimeType:  mimeType,
		SizeBytes: int64(len(data)),
		Status:    enums.MediaStatusStaged,
	}
	if _, err := c.repo.Create(ctx, asset); err != nil {
		// best effort: do not leave the object orphaned
		if remErr := c.store.Remove(ctx, c.cfg.StagingBucket, key); remErr != nil && c.logg != nil {
			c.logg.Warn(ctx, fmt.Sprintf("removing orphaned staging object %s failed: %v", key, remErr))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record staged asset")
	}
	c.metrics.IncStaged(slot.String())
	return asset, nil
}

// Promote moves one staged asset into the public media bucket and returns
// its public URL. A failure names the asset so the submission error can
// point at it.
func (c *Coordinator) Promote(ctx context.Context, ownerID, assetID uuid.UUID) (string, error) {
	asset, err := c.repo.FindOwned(ctx, ownerID, assetID)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load asset")
	}
	if asset == nil {
		return "", pkgerrors.New(pkgerrors.CodeNotFound, "media asset not found")
	}
	if asset.Status == enums.MediaStatusStored && asset.PublicURL != nil {
		return *asset.PublicURL, nil
	}
	if asset.Status == enums.MediaStatusReleased {
		return "", pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("asset %s was already released", asset.FileName))
	}

	data, err := c.store.Download(ctx, asset.Bucket, asset.ObjectKey)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("uploading %s (%s)", asset.Slot, asset.FileName))
	}

	publicKey := supabase.ObjectKey(asset.Slot.String(), asset.FileName)
	if err := c.store.Upload(ctx, c.cfg.MediaBucket, publicKey, data, asset.MimeType); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("uploading %s (%s)", asset.Slot, asset.FileName))
	}
	publicURL := c.store.PublicURL(c.cfg.MediaBucket, publicKey)

	if err := c.repo.MarkStored(ctx, asset.ID, c.cfg.MediaBucket, publicKey, publicURL); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark asset stored")
	}

	stagingKey := asset.ObjectKey
	if err := c.store.Remove(ctx, c.cfg.StagingBucket, stagingKey); err != nil && c.logg != nil {
		c.logg.Warn(ctx, fmt.Sprintf("removing staging object %s after promote failed: %v", stagingKey, err))
	}
	return publicURL, nil
}

// Release drops staged previews: the staging objects are removed and the
// rows marked released. Failures are collected so one bad asset does not
// stop the rest.
func (c *Coordinator) Release(ctx context.Context, ownerID uuid.UUID, assetIDs ...uuid.UUID) error {
	var errs error
	for _, assetID := range assetIDs {
		asset, err := c.repo.FindOwned(ctx, ownerID, assetID)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("load asset %s: %w", assetID, err))
			continue
		}
		if asset == nil || asset.Status != enums.MediaStatusStaged {
			continue
		}
		if err := c.store.Remove(ctx, asset.Bucket, asset.ObjectKey); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("remove object %s: %w", asset.ObjectKey, err))
		}
		if err := c.repo.MarkReleased(ctx, asset.ID); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("mark released %s: %w", assetID, err))
		}
	}
	return errs
}

// Upload writes an arbitrary document (metadata JSON) to the metadata bucket
// and returns its public URL.
func (c *Coordinator) UploadMetadata(ctx context.Context, key string, data []byte) (string, error) {
	if err := c.store.Upload(ctx, c.cfg.MetadataBucket, key, data, "application/json"); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeDependency, err, "uploading metadata document")
	}
	return c.store.PublicURL(c.cfg.MetadataBucket, key), nil
}
