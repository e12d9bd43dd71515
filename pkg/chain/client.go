package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/animetoken/anime-token-backend/pkg/config"
	"github.com/animetoken/anime-token-backend/pkg/logger"
)

// Minter is the on-chain surface the submission flow depends on.
type Minter interface {
	MintCollection(ctx context.Context, req CollectionMintRequest) (*MintResult, error)
	MintNFT(ctx context.Context, req NFTMintRequest) (*MintResult, error)
}

// CollectionMintRequest carries the immutable on-chain collection payload.
type CollectionMintRequest struct {
	Name           string          `json:"name"`
	Symbol         string          `json:"symbol"`
	Description    string          `json:"description"`
	MetadataURL    string          `json:"metadata_url"`
	MintPrice      decimal.Decimal `json:"mint_price"`
	RoyaltyPercent decimal.Decimal `json:"royalty_percent"`
	MaxSupply      int64           `json:"max_supply"`
	TreasuryWallet string          `json:"treasury_wallet"`
	CreatorWallet  string          `json:"creator_wallet"`
}

// NFTMintRequest carries the on-chain item payload.
type NFTMintRequest struct {
	Name              string `json:"name"`
	MetadataURL       string `json:"metadata_url"`
	CollectionAddress string `json:"collection_address,omitempty"`
	CreatorWallet     string `json:"creator_wallet"`
}

// MintResult is the edge service verdict. A response with Success=false is a
// domain outcome, not a transport failure: the caller persisted the record
// already and records the mint error alongside it.
type MintResult struct {
	Success     bool   `json:"success"`
	MintAddress string `json:"mint_address"`
	ExplorerURL string `json:"explorer_url"`
	Error       string `json:"error"`
}

// Client talks to the minting edge service over HTTP.
type Client struct {
	httpClient *http.Client
	cfg        config.ChainConfig
	logg       *logger.Logger
}

// NewClient builds the mint client with the configured request timeout.
func NewClient(cfg config.ChainConfig, logg *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		cfg:        cfg,
		logg:       logg,
	}
}

// MintCollection submits a collection mint and returns the edge verdict.
func (c *Client) MintCollection(ctx context.Context, req CollectionMintRequest) (*MintResult, error) {
	return c.post(ctx, "/v1/collections/mint", req)
}

// MintNFT submits an item mint and returns the edge verdict.
func (c *Client) MintNFT(ctx context.Context, req NFTMintRequest) (*MintResult, error) {
	return c.post(ctx, "/v1/nfts/mint", req)
}

func (c *Client) post(ctx context.Context, path string, payload any) (*MintResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode mint request: %w", err)
	}

	endpoint := strings.TrimSuffix(c.cfg.MintServiceURL, "/") + path
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build mint request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.ServiceKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.ServiceKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("calling mint service: %w", err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil && c.logg != nil {
			c.logg.Warn(ctx, "closing mint response body")
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("mint service returned status %d", resp.StatusCode)
	}

	var result MintResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode mint response: %w", err)
	}
	if result.Success && result.ExplorerURL == "" && result.MintAddress != "" {
		result.ExplorerURL = c.ExplorerURL(result.MintAddress)
	}
	return &result, nil
}

// ExplorerURL returns the block explorer link for a mint address.
func (c *Client) ExplorerURL(address string) string {
	return fmt.Sprintf("%s/token/%s", strings.TrimSuffix(c.cfg.ExplorerBase, "/"), address)
}
