package wallets

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/animetoken/anime-token-backend/pkg/db"
	"github.com/animetoken/anime-token-backend/pkg/db/models"
	pkgerrors "github.com/animetoken/anime-token-backend/pkg/errors"
)

// Service exposes the account-linking boundary: external wallet addresses
// attached to a user, with one primary wallet of record. Linking also anchors
// the identity row for the JWT subject, since identity is issued upstream and
// no other write path creates users.
type Service interface {
	LinkWallet(ctx context.Context, userID uuid.UUID, handle, address string, makePrimary bool) (*models.WalletLink, error)
	ListWallets(ctx context.Context, userID uuid.UUID) ([]models.WalletLink, error)
	PrimaryWallet(ctx context.Context, userID uuid.UUID) (*models.WalletLink, error)
	MakePrimary(ctx context.Context, userID, linkID uuid.UUID) (*models.WalletLink, error)
}

type walletStore interface {
	FindByAddress(ctx context.Context, address string) (*models.WalletLink, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.WalletLink, error)
	FindPrimary(ctx context.Context, userID uuid.UUID) (*models.WalletLink, error)
	FindOwned(ctx context.Context, userID, linkID uuid.UUID) (*models.WalletLink, error)
	UpsertUserTx(tx *gorm.DB, user *models.User) error
	CreateTx(tx *gorm.DB, link *models.WalletLink) error
	ClearPrimaryTx(tx *gorm.DB, userID uuid.UUID) error
	SetPrimaryTx(tx *gorm.DB, linkID uuid.UUID) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo walletStore
	tx   txRunner
}

// NewService constructs the wallet linking service.
func NewService(repo walletStore, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("wallet repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// LinkWallet attaches an address to the user. The first link for a user
// always becomes primary. The users row is upserted in the same transaction
// so the link's foreign key holds even for a first-time caller.
func (s *service) LinkWallet(ctx context.Context, userID uuid.UUID, handle, address string, makePrimary bool) (*models.WalletLink, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "wallet address is required")
	}

	existing, err := s.repo.FindByAddress(ctx, address)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: lookup wallet")
	}
	if existing != nil {
		if existing.UserID != userID {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "wallet is linked to another account")
		}
		return existing, nil
	}

	current, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list wallets")
	}
	isPrimary := makePrimary || len(current) == 0

	link := &models.WalletLink{
		UserID:    userID,
		Address:   address,
		IsPrimary: isPrimary,
	}
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.UpsertUserTx(tx, identityRow(userID, handle)); err != nil {
			return err
		}
		if isPrimary {
			if err := s.repo.ClearPrimaryTx(tx, userID); err != nil {
				return err
			}
		}
		return s.repo.CreateTx(tx, link)
	}); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "wallet is already linked")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: link wallet")
	}
	return link, nil
}

// identityRow shapes the users row from the JWT claims. A blank handle gets
// a stable per-user fallback so the unique index cannot collide.
func identityRow(userID uuid.UUID, handle string) *models.User {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		handle = "creator-" + userID.String()[:8]
	}
	return &models.User{
		ID:          userID,
		Handle:      handle,
		DisplayName: handle,
		IsActive:    true,
	}
}

// ListWallets returns all linked wallets for the user.
func (s *service) ListWallets(ctx context.Context, userID uuid.UUID) ([]models.WalletLink, error) {
	rows, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list wallets")
	}
	return rows, nil
}

// PrimaryWallet returns the wallet of record, erroring when none is linked.
func (s *service) PrimaryWallet(ctx context.Context, userID uuid.UUID) (*models.WalletLink, error) {
	link, err := s.repo.FindPrimary(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find primary wallet")
	}
	if link == nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "no primary wallet linked")
	}
	return link, nil
}

// MakePrimary moves the wallet of record to the given link.
func (s *service) MakePrimary(ctx context.Context, userID, linkID uuid.UUID) (*models.WalletLink, error) {
	link, err := s.repo.FindOwned(ctx, userID, linkID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find wallet")
	}
	if link == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "wallet link not found")
	}
	if link.IsPrimary {
		return link, nil
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.ClearPrimaryTx(tx, userID); err != nil {
			return err
		}
		return s.repo.SetPrimaryTx(tx, link.ID)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: set primary wallet")
	}
	link.IsPrimary = true
	return link, nil
}
