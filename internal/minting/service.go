package minting

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/animetoken/anime-token-backend/internal/draft"
	"github.com/animetoken/anime-token-backend/internal/wizard"
	"github.com/animetoken/anime-token-backend/pkg/chain"
	"github.com/animetoken/anime-token-backend/pkg/db/models"
	"github.com/animetoken/anime-token-backend/pkg/enums"
	pkgerrors "github.com/animetoken/anime-token-backend/pkg/errors"
	"github.com/animetoken/anime-token-backend/pkg/logger"
	"github.com/animetoken/anime-token-backend/pkg/metrics"
	"github.com/animetoken/anime-token-backend/pkg/outbox"
	"github.com/animetoken/anime-token-backend/pkg/redis"
)

// submissionTTL bounds how long the per-user busy flag can outlive a crashed
// submission.
const submissionTTL = 2 * time.Minute

// Result is the submission outcome. A persisted record with a populated
// MintError is a partial success: the off-chain write landed and the on-chain
// mint can be retried.
type Result struct {
	Collection  *models.Collection `json:"collection,omitempty"`
	NFT         *models.NFT        `json:"nft,omitempty"`
	ExplorerURL string             `json:"explorer_url,omitempty"`
	MintError   *string            `json:"mint_error,omitempty"`
}

// Service orchestrates wizard submission: final gate check, media promotion,
// transactional persistence, and the optional on-chain mint.
type Service interface {
	SubmitCollection(ctx context.Context, userID uuid.UUID) (*Result, error)
	SubmitNFT(ctx context.Context, userID uuid.UUID) (*Result, error)
	RetryCollectionMint(ctx context.Context, userID, collectionID uuid.UUID) (*Result, error)
}

type draftStore interface {
	Get(ctx context.Context, ownerID uuid.UUID, kind enums.DraftKind, seedCollectionID *uuid.UUID) (*draft.State, error)
	SetStep(ctx context.Context, ownerID uuid.UUID, kind enums.DraftKind, step enums.WizardStep) (*draft.State, error)
}

type walletSource interface {
	PrimaryWallet(ctx context.Context, userID uuid.UUID) (*models.WalletLink, error)
}

type mediaPromoter interface {
	Promote(ctx context.Context, ownerID, assetID uuid.UUID) (string, error)
	UploadMetadata(ctx context.Context, key string, data []byte) (string, error)
}

type submissionStore interface {
	PersistCollection(ctx context.Context, row *models.Collection, signal *models.SecuritySignal, events []outbox.DomainEvent) (*models.Collection, error)
	PersistNFT(ctx context.Context, row *models.NFT, listing *models.Listing, events []outbox.DomainEvent) (*models.NFT, error)
	RecordCollectionMint(ctx context.Context, id uuid.UUID, mintAddress, mintError *string, verified bool, event *outbox.DomainEvent) error
	RecordNFTMint(ctx context.Context, id uuid.UUID, mintAddress, mintError *string, event *outbox.DomainEvent) error
	FindCollection(ctx context.Context, id uuid.UUID) (*models.Collection, error)
}

type service struct {
	drafts  draftStore
	wallets walletSource
	media   mediaPromoter
	store   submissionStore
	minter  chain.Minter
	locker  redis.SubmissionLocker
	metrics *metrics.MintingMetrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService constructs the submission orchestrator.
func NewService(drafts draftStore, wallets walletSource, media mediaPromoter, store submissionStore, minter chain.Minter, locker redis.SubmissionLocker, mm *metrics.MintingMetrics, logg *logger.Logger) (Service, error) {
	if drafts == nil {
		return nil, fmt.Errorf("draft service required")
	}
	if wallets == nil {
		return nil, fmt.Errorf("wallet service required")
	}
	if media == nil {
		return nil, fmt.Errorf("media coordinator required")
	}
	if store == nil {
		return nil, fmt.Errorf("submission store required")
	}
	if minter == nil {
		return nil, fmt.Errorf("chain minter required")
	}
	if locker == nil {
		return nil, fmt.Errorf("submission locker required")
	}
	return &service{
		drafts:  drafts,
		wallets: wallets,
		media:   media,
		store:   store,
		minter:  minter,
		locker:  locker,
		metrics: mm,
		logg:    logg,
		now:     time.Now,
	}, nil
}

// SubmitCollection turns the collection draft into a server-confirmed record.
// The mint runs only when the draft asked for it, and a mint failure after
// persistence is reported on the record, never as a request error.
func (s *service) SubmitCollection(ctx context.Context, userID uuid.UUID) (*Result, error) {
	release, err := s.acquire(ctx, userID, enums.DraftKindCollection)
	if err != nil {
		return nil, err
	}
	defer release()

	state, err := s.drafts.Get(ctx, userID, enums.DraftKindCollection, nil)
	if err != nil {
		return nil, err
	}
	payload := state.Payload
	if err := s.checkSubmittable(enums.DraftKindCollection, payload); err != nil {
		return nil, err
	}

	wallet, err := s.wallets.PrimaryWallet(ctx, userID)
	if err != nil {
		return nil, err
	}
	treasury := strings.TrimSpace(payload.TreasuryWallet)
	if treasury == "" {
		treasury = wallet.Address
	}

	avatarURL, err := s.media.Promote(ctx, userID, *payload.AvatarAssetID)
	if err != nil {
		return nil, err
	}
	var bannerURL *string
	if payload.BannerAssetID != nil {
		url, promoteErr := s.media.Promote(ctx, userID, *payload.BannerAssetID)
		if promoteErr != nil {
			return nil, promoteErr
		}
		bannerURL = &url
	}

	row := &models.Collection{
		CreatorID:          userID,
		Name:               strings.TrimSpace(payload.Name),
		Symbol:             strings.TrimSpace(payload.Symbol),
		Description:        payload.Description,
		OnChainDescription: payload.OnChainDescription,
		Category:           payload.Category,
		AvatarURL:          avatarURL,
		BannerURL:          bannerURL,
		MintPrice:          payload.MintPrice.Committed,
		RoyaltyPercent:     payload.RoyaltyPercent.Committed,
		SupplyMode:         payload.SupplyMode,
		MaxSupply:          payload.MaxSupply.Committed.IntPart(),
		TreasuryWallet:     treasury,
		ExplicitContent:    payload.ExplicitContent,
		PrimarySalesOn:     payload.PrimarySalesOn,
		WhitelistEnabled:   payload.WhitelistEnabled,
		MintEndAt:          payload.MintEndAt,
		LockedFields:       pq.StringArray(payload.LockedFields),
	}

	actor := &outbox.ActorRef{UserID: userID, Wallet: wallet.Address}
	events := []outbox.DomainEvent{{
		EventType:     enums.OutboxEventCollectionCreated,
		AggregateType: "collection",
		Actor:         actor,
		Data:          map[string]any{"name": row.Name, "symbol": row.Symbol},
	}}

	signal := s.largeSupplySignal(payload)
	if signal != nil {
		events = append(events, outbox.DomainEvent{
			EventType:     enums.OutboxEventSecurityLargeSupply,
			AggregateType: "collection",
			Actor:         actor,
			Data:          map[string]any{"max_supply": payload.MaxSupply.Committed.String()},
		})
	}

	persisted, err := s.store.PersistCollection(ctx, row, signal, events)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: persist collection")
	}

	result := &Result{Collection: persisted}
	if payload.MintNow {
		if err := s.mintCollection(ctx, persisted, actor, result); err != nil {
			return nil, err
		}
	}

	s.finishDraft(ctx, userID, enums.DraftKindCollection)
	return result, nil
}

// SubmitNFT turns the item draft into a server-confirmed NFT, minting it
// immediately and opening a listing when the draft asked for one.
func (s *service) SubmitNFT(ctx context.Context, userID uuid.UUID) (*Result, error) {
	release, err := s.acquire(ctx, userID, enums.DraftKindNFT)
	if err != nil {
		return nil, err
	}
	defer release()

	state, err := s.drafts.Get(ctx, userID, enums.DraftKindNFT, nil)
	if err != nil {
		return nil, err
	}
	payload := state.Payload
	if err := s.checkSubmittable(enums.DraftKindNFT, payload); err != nil {
		return nil, err
	}

	wallet, err := s.wallets.PrimaryWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	var parent *models.Collection
	if payload.CollectionID != nil {
		parent, err = s.store.FindCollection(ctx, *payload.CollectionID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load parent collection")
		}
		if parent == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "parent collection not found")
		}
		if parent.CreatorID != userID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "parent collection belongs to another creator")
		}
	}

	mediaURL, err := s.media.Promote(ctx, userID, *payload.PrimaryAssetID)
	if err != nil {
		return nil, err
	}
	coverURL, err := s.media.Promote(ctx, userID, *payload.CoverAssetID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(payload.Name)
	if name == "" && parent != nil {
		name = parent.Name
	}

	row := &models.NFT{
		CreatorID:       userID,
		Name:            name,
		Description:     payload.Description,
		MediaURL:        mediaURL,
		CoverURL:        coverURL,
		Attributes:      payload.Attributes,
		ExplicitContent: payload.ExplicitContent,
		ListImmediately: payload.ListImmediately,
		ListingPrice:    payload.ListingPrice.Committed,
	}
	if parent != nil {
		id := parent.ID
		row.CollectionID = &id
	}

	var listing *models.Listing
	if payload.ListImmediately {
		listing = &models.Listing{
			SellerID: userID,
			Price:    payload.ListingPrice.Committed,
			Currency: "ANIME",
			Status:   enums.ListingStatusActive,
		}
	}

	actor := &outbox.ActorRef{UserID: userID, Wallet: wallet.Address}
	events := []outbox.DomainEvent{{
		EventType:     enums.OutboxEventNFTCreated,
		AggregateType: "nft",
		Actor:         actor,
		Data:          map[string]any{"name": row.Name, "listed": payload.ListImmediately},
	}}

	persisted, err := s.store.PersistNFT(ctx, row, listing, events)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: persist nft")
	}

	result := &Result{NFT: persisted}
	if err := s.mintNFT(ctx, persisted, parent, actor, result); err != nil {
		return nil, err
	}

	s.finishDraft(ctx, userID, enums.DraftKindNFT)
	return result, nil
}

// RetryCollectionMint re-runs only the on-chain phase for a persisted but
// unminted collection.
func (s *service) RetryCollectionMint(ctx context.Context, userID, collectionID uuid.UUID) (*Result, error) {
	release, err := s.acquire(ctx, userID, enums.DraftKindCollection)
	if err != nil {
		return nil, err
	}
	defer release()

	col, err := s.store.FindCollection(ctx, collectionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load collection")
	}
	if col == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "collection not found")
	}
	if col.CreatorID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "collection belongs to another creator")
	}
	if col.IsMinted() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "collection is already minted")
	}

	wallet, err := s.wallets.PrimaryWallet(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &Result{Collection: col}
	actor := &outbox.ActorRef{UserID: userID, Wallet: wallet.Address}
	if err := s.mintCollection(ctx, col, actor, result); err != nil {
		return nil, err
	}
	return result, nil
}

// mintCollection uploads the metadata document and calls the edge service.
// Any failure past this point lands on the record as its mint error; only a
// failed outcome write surfaces as an error.
func (s *service) mintCollection(ctx context.Context, col *models.Collection, actor *outbox.ActorRef, result *Result) error {
	start := s.now()

	doc, err := buildCollectionMetadata(col)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode collection metadata")
	}
	metadataURL, err := s.media.UploadMetadata(ctx, metadataKey("collections", col.ID), doc)
	if err != nil {
		return s.recordCollectionFailure(ctx, col, actor, result, err.Error())
	}

	res, err := s.minter.MintCollection(ctx, chain.CollectionMintRequest{
		Name:           col.Name,
		Symbol:         col.Symbol,
		Description:    col.OnChainDescription,
		MetadataURL:    metadataURL,
		MintPrice:      col.MintPrice,
		RoyaltyPercent: col.RoyaltyPercent,
		MaxSupply:      col.MaxSupply,
		TreasuryWallet: col.TreasuryWallet,
		CreatorWallet:  actor.Wallet,
	})
	s.metrics.ObserveDuration("collection", s.now().Sub(start))
	if err != nil {
		return s.recordCollectionFailure(ctx, col, actor, result, err.Error())
	}
	if !res.Success {
		return s.recordCollectionFailure(ctx, col, actor, result, res.Error)
	}

	addr := res.MintAddress
	event := &outbox.DomainEvent{
		EventType:     enums.OutboxEventMintSucceeded,
		AggregateType: "collection",
		Actor:         actor,
		Data:          map[string]any{"mint_address": addr},
	}
	if err := s.store.RecordCollectionMint(ctx, col.ID, &addr, nil, true, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record mint outcome")
	}
	s.metrics.IncSuccess("collection")
	col.MintAddress = &addr
	col.Verified = true
	col.MintError = nil
	result.ExplorerURL = res.ExplorerURL
	result.MintError = nil
	return nil
}

func (s *service) recordCollectionFailure(ctx context.Context, col *models.Collection, actor *outbox.ActorRef, result *Result, message string) error {
	event := &outbox.DomainEvent{
		EventType:     enums.OutboxEventMintFailed,
		AggregateType: "collection",
		Actor:         actor,
		Data:          map[string]any{"error": message},
	}
	if err := s.store.RecordCollectionMint(ctx, col.ID, nil, &message, false, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record mint outcome")
	}
	s.metrics.IncFailure("collection")
	if s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("collection %s mint failed: %s", col.ID, message))
	}
	col.MintError = &message
	result.MintError = &message
	return nil
}

func (s *service) mintNFT(ctx context.Context, nft *models.NFT, parent *models.Collection, actor *outbox.ActorRef, result *Result) error {
	start := s.now()

	var collectionAddress string
	if parent.IsMinted() {
		collectionAddress = *parent.MintAddress
	}
	doc, err := buildNFTMetadata(nft, collectionAddress)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode nft metadata")
	}
	metadataURL, err := s.media.UploadMetadata(ctx, metadataKey("nfts", nft.ID), doc)
	if err != nil {
		return s.recordNFTFailure(ctx, nft, actor, result, err.Error())
	}

	res, err := s.minter.MintNFT(ctx, chain.NFTMintRequest{
		Name:              nft.Name,
		MetadataURL:       metadataURL,
		CollectionAddress: collectionAddress,
		CreatorWallet:     actor.Wallet,
	})
	s.metrics.ObserveDuration("nft", s.now().Sub(start))
	if err != nil {
		return s.recordNFTFailure(ctx, nft, actor, result, err.Error())
	}
	if !res.Success {
		return s.recordNFTFailure(ctx, nft, actor, result, res.Error)
	}

	addr := res.MintAddress
	event := &outbox.DomainEvent{
		EventType:     enums.OutboxEventMintSucceeded,
		AggregateType: "nft",
		Actor:         actor,
		Data:          map[string]any{"mint_address": addr},
	}
	if err := s.store.RecordNFTMint(ctx, nft.ID, &addr, nil, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record mint outcome")
	}
	s.metrics.IncSuccess("nft")
	nft.MintAddress = &addr
	nft.MintError = nil
	result.ExplorerURL = res.ExplorerURL
	result.MintError = nil
	return nil
}

func (s *service) recordNFTFailure(ctx context.Context, nft *models.NFT, actor *outbox.ActorRef, result *Result, message string) error {
	event := &outbox.DomainEvent{
		EventType:     enums.OutboxEventMintFailed,
		AggregateType: "nft",
		Actor:         actor,
		Data:          map[string]any{"error": message},
	}
	if err := s.store.RecordNFTMint(ctx, nft.ID, nil, &message, event); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: record mint outcome")
	}
	s.metrics.IncFailure("nft")
	if s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("nft %s mint failed: %s", nft.ID, message))
	}
	nft.MintError = &message
	result.MintError = &message
	return nil
}

// acquire claims the per-user busy flag and returns its release func.
func (s *service) acquire(ctx context.Context, userID uuid.UUID, kind enums.DraftKind) (func(), error) {
	ok, err := s.locker.AcquireSubmission(ctx, userID.String(), kind.String(), submissionTTL)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: acquire submission flag")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "a submission is already in progress")
	}
	release := func() {
		if err := s.locker.ReleaseSubmission(ctx, userID.String(), kind.String()); err != nil && s.logg != nil {
			s.logg.Warn(ctx, fmt.Sprintf("releasing submission flag failed: %v", err))
		}
	}
	return release, nil
}

// checkSubmittable re-runs the review gate server-side; the wizard UI state
// is never trusted at submit time.
func (s *service) checkSubmittable(kind enums.DraftKind, payload draft.Payload) error {
	gate := wizard.CheckStep(kind, enums.StepReview, payload, s.now())
	if !gate.Passed {
		return pkgerrors.New(pkgerrors.CodeValidation, "draft is not ready to submit").WithDetails(gate.Reasons)
	}
	return nil
}

// largeSupplySignal flags fixed-supply drafts above the review threshold.
// The signal is recorded for review and never blocks the submission.
func (s *service) largeSupplySignal(payload draft.Payload) *models.SecuritySignal {
	if payload.SupplyMode != enums.SupplyModeFixed {
		return nil
	}
	if !payload.MaxSupply.Committed.GreaterThan(draft.LargeSupplyThreshold) {
		return nil
	}
	details, _ := json.Marshal(map[string]string{"max_supply": payload.MaxSupply.Committed.String()})
	return &models.SecuritySignal{Kind: "large_supply", Details: details}
}

// finishDraft advances the wizard to its terminal step. The submission
// already committed, so a failed step write is logged, not returned.
func (s *service) finishDraft(ctx context.Context, userID uuid.UUID, kind enums.DraftKind) {
	if _, err := s.drafts.SetStep(ctx, userID, kind, enums.TerminalStep(kind)); err != nil && s.logg != nil {
		s.logg.Warn(ctx, fmt.Sprintf("advancing %s draft to terminal step failed: %v", kind, err))
	}
}
