package wallets

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/animetoken/anime-token-backend/pkg/db/models"
	pkgerrors "github.com/animetoken/anime-token-backend/pkg/errors"
)

type stubStore struct {
	users        []models.User
	links        []models.WalletLink
	clearedFor   []uuid.UUID
	madePrimary  []uuid.UUID
	byAddress    map[string]*models.WalletLink
	listResponse []models.WalletLink
}

func newStubStore() *stubStore {
	return &stubStore{byAddress: map[string]*models.WalletLink{}}
}

func (s *stubStore) FindByAddress(_ context.Context, address string) (*models.WalletLink, error) {
	return s.byAddress[address], nil
}

func (s *stubStore) ListByUser(_ context.Context, _ uuid.UUID) ([]models.WalletLink, error) {
	return s.listResponse, nil
}

func (s *stubStore) FindPrimary(_ context.Context, userID uuid.UUID) (*models.WalletLink, error) {
	for i := range s.links {
		if s.links[i].UserID == userID && s.links[i].IsPrimary {
			return &s.links[i], nil
		}
	}
	return nil, nil
}

func (s *stubStore) FindOwned(_ context.Context, userID, linkID uuid.UUID) (*models.WalletLink, error) {
	for i := range s.links {
		if s.links[i].ID == linkID && s.links[i].UserID == userID {
			return &s.links[i], nil
		}
	}
	return nil, nil
}

func (s *stubStore) UpsertUserTx(_ *gorm.DB, user *models.User) error {
	s.users = append(s.users, *user)
	return nil
}

func (s *stubStore) CreateTx(_ *gorm.DB, link *models.WalletLink) error {
	link.ID = uuid.New()
	s.links = append(s.links, *link)
	return nil
}

func (s *stubStore) ClearPrimaryTx(_ *gorm.DB, userID uuid.UUID) error {
	s.clearedFor = append(s.clearedFor, userID)
	for i := range s.links {
		if s.links[i].UserID == userID {
			s.links[i].IsPrimary = false
		}
	}
	return nil
}

func (s *stubStore) SetPrimaryTx(_ *gorm.DB, linkID uuid.UUID) error {
	s.madePrimary = append(s.madePrimary, linkID)
	for i := range s.links {
		if s.links[i].ID == linkID {
			s.links[i].IsPrimary = true
		}
	}
	return nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(&gorm.DB{})
}

func newTestService(t *testing.T, store *stubStore) Service {
	t.Helper()
	svc, err := NewService(store, stubTxRunner{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestLinkWalletAnchorsIdentityRow(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store)
	userID := uuid.New()

	link, err := svc.LinkWallet(context.Background(), userID, "sakura", "CreatorWa11et111CreatorWa11et111", false)
	if err != nil {
		t.Fatalf("LinkWallet: %v", err)
	}
	if len(store.users) != 1 {
		t.Fatalf("expected users row written, got %d", len(store.users))
	}
	if store.users[0].ID != userID || store.users[0].Handle != "sakura" {
		t.Fatalf("unexpected identity row %+v", store.users[0])
	}
	if !link.IsPrimary {
		t.Fatal("first link must become primary")
	}
}

func TestLinkWalletBlankHandleGetsFallback(t *testing.T) {
	store := newStubStore()
	svc := newTestService(t, store)
	userID := uuid.New()

	if _, err := svc.LinkWallet(context.Background(), userID, "  ", "CreatorWa11et111CreatorWa11et111", false); err != nil {
		t.Fatalf("LinkWallet: %v", err)
	}
	want := "creator-" + userID.String()[:8]
	if store.users[0].Handle != want {
		t.Fatalf("expected fallback handle %q, got %q", want, store.users[0].Handle)
	}
}

func TestLinkWalletMakePrimaryClearsOthers(t *testing.T) {
	store := newStubStore()
	store.listResponse = []models.WalletLink{{ID: uuid.New()}}
	svc := newTestService(t, store)
	userID := uuid.New()

	link, err := svc.LinkWallet(context.Background(), userID, "sakura", "SecondWa11et2222SecondWa11et2222", true)
	if err != nil {
		t.Fatalf("LinkWallet: %v", err)
	}
	if !link.IsPrimary {
		t.Fatal("expected new link primary")
	}
	if len(store.clearedFor) != 1 || store.clearedFor[0] != userID {
		t.Fatalf("expected previous primaries cleared, got %+v", store.clearedFor)
	}
}

func TestLinkWalletForeignAddressConflict(t *testing.T) {
	store := newStubStore()
	store.byAddress["TakenWa11et3333TakenWa11et333333"] = &models.WalletLink{UserID: uuid.New()}
	svc := newTestService(t, store)

	_, err := svc.LinkWallet(context.Background(), uuid.New(), "sakura", "TakenWa11et3333TakenWa11et333333", false)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if len(store.users) != 0 {
		t.Fatal("no identity row should be written on conflict")
	}
}

func TestMakePrimarySwitchesWalletOfRecord(t *testing.T) {
	store := newStubStore()
	userID := uuid.New()
	first := models.WalletLink{ID: uuid.New(), UserID: userID, IsPrimary: true}
	second := models.WalletLink{ID: uuid.New(), UserID: userID}
	store.links = []models.WalletLink{first, second}
	svc := newTestService(t, store)

	link, err := svc.MakePrimary(context.Background(), userID, second.ID)
	if err != nil {
		t.Fatalf("MakePrimary: %v", err)
	}
	if !link.IsPrimary {
		t.Fatal("expected link promoted")
	}
	if len(store.madePrimary) != 1 || store.madePrimary[0] != second.ID {
		t.Fatalf("expected SetPrimary on %s, got %+v", second.ID, store.madePrimary)
	}
	primary, err := svc.PrimaryWallet(context.Background(), userID)
	if err != nil {
		t.Fatalf("PrimaryWallet: %v", err)
	}
	if primary.ID != second.ID {
		t.Fatalf("wallet of record is %s, want %s", primary.ID, second.ID)
	}
}

func TestMakePrimaryForeignLinkNotFound(t *testing.T) {
	store := newStubStore()
	other := models.WalletLink{ID: uuid.New(), UserID: uuid.New()}
	store.links = []models.WalletLink{other}
	svc := newTestService(t, store)

	_, err := svc.MakePrimary(context.Background(), uuid.New(), other.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMakePrimaryAlreadyPrimaryNoop(t *testing.T) {
	store := newStubStore()
	userID := uuid.New()
	link := models.WalletLink{ID: uuid.New(), UserID: userID, IsPrimary: true}
	store.links = []models.WalletLink{link}
	svc := newTestService(t, store)

	got, err := svc.MakePrimary(context.Background(), userID, link.ID)
	if err != nil {
		t.Fatalf("MakePrimary: %v", err)
	}
	if !got.IsPrimary {
		t.Fatal("expected primary link returned")
	}
	if len(store.clearedFor) != 0 || len(store.madePrimary) != 0 {
		t.Fatal("no writes expected for an already-primary link")
	}
}

func TestPrimaryWalletMissingForbidden(t *testing.T) {
	svc := newTestService(t, newStubStore())

	_, err := svc.PrimaryWallet(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
