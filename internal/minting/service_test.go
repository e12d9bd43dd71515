package minting

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/animetoken/anime-token-backend/internal/draft"
	"github.com/animetoken/anime-token-backend/pkg/chain"
	"github.com/animetoken/anime-token-backend/pkg/db/models"
	"github.com/animetoken/anime-token-backend/pkg/enums"
	pkgerrors "github.com/animetoken/anime-token-backend/pkg/errors"
	"github.com/animetoken/anime-token-backend/pkg/outbox"
	"github.com/animetoken/anime-token-backend/pkg/types"
)

type stubLocker struct {
	held map[string]bool
}

func (l *stubLocker) AcquireSubmission(_ context.Context, userID, kind string, _ time.Duration) (bool, error) {
	key := userID + ":" + kind
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *stubLocker) ReleaseSubmission(_ context.Context, userID, kind string) error {
	delete(l.held, userID+":"+kind)
	return nil
}

type stubDraftStore struct {
	states map[enums.DraftKind]*draft.State
}

func (s *stubDraftStore) Get(_ context.Context, ownerID uuid.UUID, kind enums.DraftKind, _ *uuid.UUID) (*draft.State, error) {
	state, ok := s.states[kind]
	if !ok {
		state = &draft.State{
			Draft:   &models.Draft{OwnerID: ownerID, Kind: kind, Step: enums.FirstStep(kind)},
			Payload: draft.NewPayload(),
		}
		s.states[kind] = state
	}
	return state, nil
}

func (s *stubDraftStore) SetStep(_ context.Context, _ uuid.UUID, kind enums.DraftKind, step enums.WizardStep) (*draft.State, error) {
	state := s.states[kind]
	state.Draft.Step = step
	return state, nil
}

type stubWallets struct {
	wallet *models.WalletLink
	err    error
}

func (s *stubWallets) PrimaryWallet(_ context.Context, _ uuid.UUID) (*models.WalletLink, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.wallet, nil
}

type stubMedia struct {
	promoted  map[uuid.UUID]string
	failAsset uuid.UUID
	metadata  map[string][]byte
}

func (s *stubMedia) Promote(_ context.Context, _ uuid.UUID, assetID uuid.UUID) (string, error) {
	if assetID == s.failAsset {
		return "", pkgerrors.New(pkgerrors.CodeDependency, "uploading avatar (hero.png)")
	}
	url := "https://cdn.animetoken.io/nft-assets/" + assetID.String()
	s.promoted[assetID] = url
	return url, nil
}

func (s *stubMedia) UploadMetadata(_ context.Context, key string, data []byte) (string, error) {
	s.metadata[key] = data
	return "https://cdn.animetoken.io/metadata/" + key, nil
}

type stubStore struct {
	collections map[uuid.UUID]*models.Collection
	nfts        map[uuid.UUID]*models.NFT
	listings    []*models.Listing
	signals     []*models.SecuritySignal
	events      []outbox.DomainEvent
}

func newStubStore() *stubStore {
	return &stubStore{
		collections: map[uuid.UUID]*models.Collection{},
		nfts:        map[uuid.UUID]*models.NFT{},
	}
}

func (s *stubStore) PersistCollection(_ context.Context, row *models.Collection, signal *models.SecuritySignal, events []outbox.DomainEvent) (*models.Collection, error) {
	row.ID = uuid.New()
	s.collections[row.ID] = row
	if signal != nil {
		signal.UserID = row.CreatorID
		s.signals = append(s.signals, signal)
	}
	s.events = append(s.events, events...)
	return row, nil
}

func (s *stubStore) PersistNFT(_ context.Context, row *models.NFT, listing *models.Listing, events []outbox.DomainEvent) (*models.NFT, error) {
	row.ID = uuid.New()
	s.nfts[row.ID] = row
	if listing != nil {
		listing.NFTID = row.ID
		s.listings = append(s.listings, listing)
	}
	s.events = append(s.events, events...)
	return row, nil
}

func (s *stubStore) RecordCollectionMint(_ context.Context, id uuid.UUID, mintAddress, mintError *string, verified bool, event *outbox.DomainEvent) error {
	row := s.collections[id]
	row.MintAddress = mintAddress
	row.MintError = mintError
	row.Verified = verified
	if event != nil {
		s.events = append(s.events, *event)
	}
	return nil
}

func (s *stubStore) RecordNFTMint(_ context.Context, id uuid.UUID, mintAddress, mintError *string, event *outbox.DomainEvent) error {
	row := s.nfts[id]
	row.MintAddress = mintAddress
	row.MintError = mintError
	if event != nil {
		s.events = append(s.events, *event)
	}
	return nil
}

func (s *stubStore) FindCollection(_ context.Context, id uuid.UUID) (*models.Collection, error) {
	row, ok := s.collections[id]
	if !ok {
		return nil, nil
	}
	return row, nil
}

type stubMinter struct {
	result *chain.MintResult
	err    error
	calls  int
}

func (m *stubMinter) MintCollection(_ context.Context, _ chain.CollectionMintRequest) (*chain.MintResult, error) {
	m.calls++
	return m.result, m.err
}

func (m *stubMinter) MintNFT(_ context.Context, _ chain.NFTMintRequest) (*chain.MintResult, error) {
	m.calls++
	return m.result, m.err
}

type fixture struct {
	svc     Service
	userID  uuid.UUID
	drafts  *stubDraftStore
	wallets *stubWallets
	media   *stubMedia
	store   *stubStore
	minter  *stubMinter
	locker  *stubLocker
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		userID:  uuid.New(),
		drafts:  &stubDraftStore{states: map[enums.DraftKind]*draft.State{}},
		media:   &stubMedia{promoted: map[uuid.UUID]string{}, metadata: map[string][]byte{}},
		store:   newStubStore(),
		minter:  &stubMinter{result: &chain.MintResult{Success: true, MintAddress: "So1ar1sMintAddr111", ExplorerURL: "https://explorer.test/token/So1ar1sMintAddr111"}},
		locker:  &stubLocker{held: map[string]bool{}},
		wallets: &stubWallets{},
	}
	f.wallets.wallet = &models.WalletLink{UserID: f.userID, Address: "CreatorWa11et111", IsPrimary: true}

	svc, err := NewService(f.drafts, f.wallets, f.media, f.store, f.minter, f.locker, nil, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) seedCollectionDraft(mutate func(*draft.Payload)) {
	payload := draft.NewPayload()
	payload.Name = "Neon Samurai"
	payload.Symbol = "NSAM"
	avatar := uuid.New()
	payload.AvatarAssetID = &avatar
	payload.MintPrice = types.FromDecimal(decimal.NewFromFloat(1.5))
	payload.RoyaltyPercent = types.FromDecimal(decimal.NewFromInt(5))
	payload.MaxSupply = types.FromDecimal(decimal.NewFromInt(500))
	if mutate != nil {
		mutate(&payload)
	}
	f.drafts.states[enums.DraftKindCollection] = &draft.State{
		Draft:   &models.Draft{OwnerID: f.userID, Kind: enums.DraftKindCollection, Step: enums.StepReview},
		Payload: payload,
	}
}

func (f *fixture) seedNFTDraft(mutate func(*draft.Payload)) {
	payload := draft.NewPayload()
	payload.Name = "Mecha Pilot #7"
	primary, cover := uuid.New(), uuid.New()
	payload.PrimaryAssetID = &primary
	payload.CoverAssetID = &cover
	if mutate != nil {
		mutate(&payload)
	}
	f.drafts.states[enums.DraftKindNFT] = &draft.State{
		Draft:   &models.Draft{OwnerID: f.userID, Kind: enums.DraftKindNFT, Step: enums.StepReview},
		Payload: payload,
	}
}

func TestSubmitCollectionPersistsAndAdvancesDraft(t *testing.T) {
	f := newFixture(t)
	f.seedCollectionDraft(nil)

	result, err := f.svc.SubmitCollection(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Collection == nil || result.Collection.Name != "Neon Samurai" {
		t.Fatalf("expected persisted collection, got %+v", result.Collection)
	}
	if result.Collection.AvatarURL == "" {
		t.Fatal("expected promoted avatar url")
	}
	if f.minter.calls != 0 {
		t.Fatalf("expected no mint call without mint_now, got %d", f.minter.calls)
	}
	if step := f.drafts.states[enums.DraftKindCollection].Draft.Step; step != enums.StepSuccess {
		t.Fatalf("expected draft at success step, got %s", step)
	}
	if len(f.locker.held) != 0 {
		t.Fatal("expected busy flag released after submit")
	}
}

func TestSubmitCollectionBusyFlagConflict(t *testing.T) {
	f := newFixture(t)
	f.seedCollectionDraft(nil)
	f.locker.held[f.userID.String()+":collection"] = true

	_, err := f.svc.SubmitCollection(context.Background(), f.userID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestSubmitCollectionGateFailure(t *testing.T) {
	f := newFixture(t)
	f.seedCollectionDraft(func(p *draft.Payload) {
		p.Name = "   "
	})

	_, err := f.svc.SubmitCollection(context.Background(), f.userID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.store.collections) != 0 {
		t.Fatal("expected nothing persisted")
	}
	if len(f.locker.held) != 0 {
		t.Fatal("expected busy flag released after rejection")
	}
}

func TestSubmitCollectionMissingWalletForbidden(t *testing.T) {
	f := newFixture(t)
	f.seedCollectionDraft(nil)
	f.wallets.wallet = nil
	f.wallets.err = pkgerrors.New(pkgerrors.CodeForbidden, "no primary wallet linked")

	_, err := f.svc.SubmitCollection(context.Background(), f.userID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestSubmitCollectionUploadFailureAborts(t *testing.T) {
	f := newFixture(t)
	f.seedCollectionDraft(func(p *draft.Payload) {
		f.media.failAsset = *p.AvatarAssetID
	})

	_, err := f.svc.SubmitCollection(context.Background(), f.userID)
	if err == nil {
		t.Fatal("expected upload failure to abort the submission")
	}
	if len(f.store.collections) != 0 {
		t.Fatal("expected nothing persisted after upload failure")
	}
}

func TestSubmitCollectionMintFailureIsPartialSuccess(t *testing.T) {
	f := newFixture(t)
	f.seedCollectionDraft(func(p *draft.Payload) {
		p.MintNow = true
	})
	f.minter.result = &chain.MintResult{Success: false, Error: "network congested"}

	result, err := f.svc.SubmitCollection(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("mint rejection must not fail the submission: %v", err)
	}
	if result.Collection == nil {
		t.Fatal("expected persisted collection")
	}
	if result.MintError == nil || *result.MintError != "network congested" {
		t.Fatalf("expected mint error on result, got %v", result.MintError)
	}
	stored := f.store.collections[result.Collection.ID]
	if stored.MintAddress != nil {
		t.Fatalf("expected no mint address, got %v", *stored.MintAddress)
	}
	if stored.MintError == nil || *stored.MintError != "network congested" {
		t.Fatalf("expected mint error persisted, got %v", stored.MintError)
	}
}

func TestSubmitCollectionMintSuccess(t *testing.T) {
	f := newFixture(t)
	f.seedCollectionDraft(func(p *draft.Payload) {
		p.MintNow = true
	})

	result, err := f.svc.SubmitCollection(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Collection.MintAddress == nil || *result.Collection.MintAddress != "So1ar1sMintAddr111" {
		t.Fatalf("expected mint address, got %v", result.Collection.MintAddress)
	}
	if !result.Collection.Verified {
		t.Fatal("expected collection verified after mint")
	}
	if result.ExplorerURL == "" {
		t.Fatal("expected explorer url on result")
	}
	if len(f.media.metadata) != 1 {
		t.Fatalf("expected one metadata document, got %d", len(f.media.metadata))
	}
}

func TestSubmitCollectionDefaultsTreasuryToPrimaryWallet(t *testing.T) {
	f := newFixture(t)
	f.seedCollectionDraft(func(p *draft.Payload) {
		p.TreasuryWallet = ""
	})

	result, err := f.svc.SubmitCollection(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Collection.TreasuryWallet != "CreatorWa11et111" {
		t.Fatalf("expected primary wallet as treasury, got %q", result.Collection.TreasuryWallet)
	}
}

func TestSubmitCollectionLargeSupplyRecordsSignal(t *testing.T) {
	f := newFixture(t)
	f.seedCollectionDraft(func(p *draft.Payload) {
		p.MaxSupply = types.FromDecimal(decimal.NewFromInt(50_000))
	})

	result, err := f.svc.SubmitCollection(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("large supply must not block the submission: %v", err)
	}
	if result.Collection == nil {
		t.Fatal("expected persisted collection")
	}
	if len(f.store.signals) != 1 || f.store.signals[0].Kind != "large_supply" {
		t.Fatalf("expected a large_supply signal, got %+v", f.store.signals)
	}
	var found bool
	for _, event := range f.store.events {
		if event.EventType == enums.OutboxEventSecurityLargeSupply {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a security event queued")
	}
}

func TestSubmitNFTCreatesListingAndMints(t *testing.T) {
	f := newFixture(t)
	f.seedNFTDraft(func(p *draft.Payload) {
		p.ListImmediately = true
		p.ListingPrice = types.FromDecimal(decimal.NewFromFloat(2.5))
	})

	result, err := f.svc.SubmitNFT(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.NFT == nil || result.NFT.MintAddress == nil {
		t.Fatalf("expected minted nft, got %+v", result.NFT)
	}
	if len(f.store.listings) != 1 {
		t.Fatalf("expected one listing, got %d", len(f.store.listings))
	}
	listing := f.store.listings[0]
	if listing.NFTID != result.NFT.ID || !listing.Price.Equal(decimal.NewFromFloat(2.5)) {
		t.Fatalf("unexpected listing %+v", listing)
	}
	if step := f.drafts.states[enums.DraftKindNFT].Draft.Step; step != enums.StepCongratulations {
		t.Fatalf("expected draft at congratulations step, got %s", step)
	}
}

func TestSubmitNFTForeignParentForbidden(t *testing.T) {
	f := newFixture(t)
	parent := &models.Collection{ID: uuid.New(), CreatorID: uuid.New(), Name: "Someone Else"}
	f.store.collections[parent.ID] = parent
	f.seedNFTDraft(func(p *draft.Payload) {
		id := parent.ID
		p.CollectionID = &id
	})

	_, err := f.svc.SubmitNFT(context.Background(), f.userID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestRetryMintAlreadyMintedConflict(t *testing.T) {
	f := newFixture(t)
	addr := "So1ar1sMintAddr111"
	col := &models.Collection{ID: uuid.New(), CreatorID: f.userID, MintAddress: &addr}
	f.store.collections[col.ID] = col

	_, err := f.svc.RetryCollectionMint(context.Background(), f.userID, col.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestRetryMintRecordsSuccess(t *testing.T) {
	f := newFixture(t)
	failure := "network congested"
	col := &models.Collection{ID: uuid.New(), CreatorID: f.userID, Name: "Neon Samurai", Symbol: "NSAM", MintError: &failure}
	f.store.collections[col.ID] = col

	result, err := f.svc.RetryCollectionMint(context.Background(), f.userID, col.ID)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if result.Collection.MintAddress == nil {
		t.Fatal("expected mint address after retry")
	}
	if result.Collection.MintError != nil {
		t.Fatalf("expected mint error cleared, got %v", *result.Collection.MintError)
	}
	if f.minter.calls != 1 {
		t.Fatalf("expected one mint call, got %d", f.minter.calls)
	}
}
