package minting

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/animetoken/anime-token-backend/pkg/db/models"
)

var hundred = decimal.NewFromInt(100)

// metadataAttribute is the on-chain attribute shape.
type metadataAttribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type collectionMetadata struct {
	Name                 string `json:"name"`
	Symbol               string `json:"symbol"`
	Description          string `json:"description"`
	Image                string `json:"image"`
	SellerFeeBasisPoints int64  `json:"seller_fee_basis_points"`
	ExplicitContent      bool   `json:"explicit_content"`
}

type nftMetadata struct {
	Name            string              `json:"name"`
	Description     string              `json:"description"`
	Image           string              `json:"image"`
	AnimationURL    string              `json:"animation_url,omitempty"`
	Attributes      []metadataAttribute `json:"attributes"`
	Collection      string              `json:"collection,omitempty"`
	ExplicitContent bool                `json:"explicit_content"`
}

// buildCollectionMetadata renders the on-chain metadata document from the
// persisted record, never from the draft, so what mints is what was stored.
func buildCollectionMetadata(col *models.Collection) ([]byte, error) {
	doc := collectionMetadata{
		Name:                 col.Name,
		Symbol:               col.Symbol,
		Description:          col.OnChainDescription,
		Image:                col.AvatarURL,
		SellerFeeBasisPoints: col.RoyaltyPercent.Mul(hundred).IntPart(),
		ExplicitContent:      col.ExplicitContent,
	}
	if doc.Description == "" {
		doc.Description = col.Description
	}
	return json.Marshal(doc)
}

func buildNFTMetadata(nft *models.NFT, collectionAddress string) ([]byte, error) {
	attrs := make([]metadataAttribute, 0, len(nft.Attributes))
	for _, attr := range nft.Attributes {
		attrs = append(attrs, metadataAttribute{TraitType: attr.TraitType, Value: attr.Value})
	}
	doc := nftMetadata{
		Name:            nft.Name,
		Description:     nft.Description,
		Image:           nft.CoverURL,
		Attributes:      attrs,
		Collection:      collectionAddress,
		ExplicitContent: nft.ExplicitContent,
	}
	if nft.MediaURL != nft.CoverURL {
		doc.AnimationURL = nft.MediaURL
	}
	return json.Marshal(doc)
}

func metadataKey(kind string, id fmt.Stringer) string {
	return fmt.Sprintf("%s/%s.json", kind, id.String())
}
