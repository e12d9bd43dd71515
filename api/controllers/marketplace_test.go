package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/animetoken/anime-token-backend/internal/marketplace"
)

type stubMarketplaceService struct {
	page *marketplace.Page
	err  error
	got  marketplace.BrowseInput
}

func (s *stubMarketplaceService) Browse(_ context.Context, input marketplace.BrowseInput) (*marketplace.Page, error) {
	s.got = input
	if s.err != nil {
		return nil, s.err
	}
	if s.page != nil {
		return s.page, nil
	}
	return &marketplace.Page{}, nil
}

func TestMarketplaceListingsForwardsFilters(t *testing.T) {
	svc := &stubMarketplaceService{}
	handler := MarketplaceListings(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/marketplace/listings?sort=price_asc&limit=12&price_min=1.5&verified=true&query=samurai&category=art", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.got.Sort != "price_asc" || svc.got.Limit != 12 {
		t.Fatalf("unexpected sort/limit %q/%d", svc.got.Sort, svc.got.Limit)
	}
	if svc.got.Filter.PriceMin == nil || svc.got.Filter.PriceMin.String() != "1.5" {
		t.Fatalf("expected price_min forwarded, got %+v", svc.got.Filter.PriceMin)
	}
	if !svc.got.Filter.VerifiedOnly || svc.got.Filter.Query != "samurai" {
		t.Fatalf("unexpected filter %+v", svc.got.Filter)
	}
	if svc.got.Filter.Category == nil || string(*svc.got.Filter.Category) != "art" {
		t.Fatalf("expected category forwarded, got %+v", svc.got.Filter.Category)
	}
}

func TestMarketplaceListingsRejectsBadPrice(t *testing.T) {
	handler := MarketplaceListings(&stubMarketplaceService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/marketplace/listings?price_min=cheap", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMarketplaceListingsRejectsBadCategory(t *testing.T) {
	handler := MarketplaceListings(&stubMarketplaceService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/marketplace/listings?category=cooking", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestMarketplaceListingsRejectsOversizeLimit(t *testing.T) {
	handler := MarketplaceListings(&stubMarketplaceService{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/marketplace/listings?limit=5000", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
