package minting

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/animetoken/anime-token-backend/internal/collections"
	"github.com/animetoken/anime-token-backend/pkg/db"
	"github.com/animetoken/anime-token-backend/pkg/db/models"
	"github.com/animetoken/anime-token-backend/pkg/outbox"
)

// Persister groups the transactional writes of the submission flow: the
// domain row, any security signal, and the outbox events commit together.
type Persister struct {
	dbClient    *db.Client
	repo        *Repository
	collections *collections.Repository
	events      *outbox.Service
}

// NewPersister constructs the transactional writer.
func NewPersister(dbClient *db.Client, repo *Repository, collectionRepo *collections.Repository, events *outbox.Service) (*Persister, error) {
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if repo == nil {
		return nil, fmt.Errorf("minting repository required")
	}
	if collectionRepo == nil {
		return nil, fmt.Errorf("collection repository required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox service required")
	}
	return &Persister{dbClient: dbClient, repo: repo, collections: collectionRepo, events: events}, nil
}

// PersistCollection inserts the collection row, the optional security
// signal, and the outbox events in one transaction.
func (p *Persister) PersistCollection(ctx context.Context, row *models.Collection, signal *models.SecuritySignal, events []outbox.DomainEvent) (*models.Collection, error) {
	err := p.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if _, err := p.collections.WithTx(tx).Create(ctx, row); err != nil {
			return err
		}
		if signal != nil {
			signal.UserID = row.CreatorID
			if err := p.repo.WithTx(tx).CreateSecuritySignal(ctx, signal); err != nil {
				return err
			}
		}
		for _, event := range events {
			event.AggregateID = row.ID
			if err := p.events.Emit(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// PersistNFT inserts the item row, its optional immediate listing, and the
// outbox events in one transaction.
func (p *Persister) PersistNFT(ctx context.Context, row *models.NFT, listing *models.Listing, events []outbox.DomainEvent) (*models.NFT, error) {
	err := p.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := p.repo.WithTx(tx)
		if _, err := txRepo.CreateNFT(ctx, row); err != nil {
			return err
		}
		if listing != nil {
			listing.NFTID = row.ID
			if _, err := txRepo.CreateListing(ctx, listing); err != nil {
				return err
			}
		}
		for _, event := range events {
			event.AggregateID = row.ID
			if err := p.events.Emit(ctx, tx, event); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return row, nil
}

// RecordCollectionMint stores a mint outcome and its event together.
func (p *Persister) RecordCollectionMint(ctx context.Context, id uuid.UUID, mintAddress, mintError *string, verified bool, event *outbox.DomainEvent) error {
	return p.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := p.collections.WithTx(tx).SetMintOutcome(ctx, id, mintAddress, mintError, verified); err != nil {
			return err
		}
		if event != nil {
			event.AggregateID = id
			return p.events.Emit(ctx, tx, *event)
		}
		return nil
	})
}

// RecordNFTMint stores an item mint outcome and its event together.
func (p *Persister) RecordNFTMint(ctx context.Context, id uuid.UUID, mintAddress, mintError *string, event *outbox.DomainEvent) error {
	return p.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		if err := p.repo.WithTx(tx).SetNFTMintOutcome(ctx, id, mintAddress, mintError); err != nil {
			return err
		}
		if event != nil {
			event.AggregateID = id
			return p.events.Emit(ctx, tx, *event)
		}
		return nil
	})
}

// FindCollection loads a collection row.
func (p *Persister) FindCollection(ctx context.Context, id uuid.UUID) (*models.Collection, error) {
	return p.collections.FindByID(ctx, id)
}
