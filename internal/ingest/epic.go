package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const epicPromotionsURL = "https://store-site-backend-static-ipv4.ak.epicgames.com/freeGamesPromotions?locale=en-US&country=US&allowCountries=US"

// EpicSource reads the Epic Games Store free promotions feed.
type EpicSource struct {
	client *http.Client
	url    string
}

// NewEpicSource constructs the Epic storefront source.
func NewEpicSource(timeout time.Duration) *EpicSource {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &EpicSource{
		client: &http.Client{Timeout: timeout},
		url:    epicPromotionsURL,
	}
}

func (s *EpicSource) Name() string { return "Epic" }

type epicFeed struct {
	Data struct {
		Catalog struct {
			SearchStore struct {
				Elements []epicElement `json:"elements"`
			} `json:"searchStore"`
		} `json:"Catalog"`
	} `json:"data"`
}

type epicElement struct {
	Title       string `json:"title"`
	Slug        string `json:"slug"`
	ProductSlug string `json:"productSlug"`
	CatalogNs   struct {
		Mappings []struct {
			PageSlug string `json:"pageSlug"`
		} `json:"mappings"`
	} `json:"catalogNs"`
	Price struct {
		TotalPrice struct {
			DiscountPrice int `json:"discountPrice"`
		} `json:"totalPrice"`
	} `json:"price"`
	Promotions *struct {
		PromotionalOffers []struct {
			PromotionalOffers []struct {
				EndDate string `json:"endDate"`
			} `json:"promotionalOffers"`
		} `json:"promotionalOffers"`
	} `json:"promotions"`
}

// Fetch returns the promotions whose discounted price is currently zero.
// Elements without a resolvable title or slug are skipped.
func (s *EpicSource) Fetch(ctx context.Context) ([]Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build epic request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch epic promotions: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("epic promotions responded %d", resp.StatusCode)
	}

	var feed epicFeed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decode epic promotions: %w", err)
	}

	var candidates []Candidate
	for _, element := range feed.Data.Catalog.SearchStore.Elements {
		if element.Price.TotalPrice.DiscountPrice != 0 {
			continue
		}
		slug := element.slugOrMapping()
		if element.Title == "" || slug == "" {
			continue
		}
		candidate := Candidate{
			Title:    element.Title,
			Platform: s.Name(),
			URL:      "https://store.epicgames.com/en-US/p/" + slug,
			EndDate:  element.promotionEndDate(),
		}
		candidates = append(candidates, candidate)
	}
	return candidates, nil
}

func (e epicElement) slugOrMapping() string {
	if e.Slug != "" {
		return e.Slug
	}
	if e.ProductSlug != "" {
		return e.ProductSlug
	}
	if len(e.CatalogNs.Mappings) > 0 {
		return e.CatalogNs.Mappings[0].PageSlug
	}
	return ""
}

func (e epicElement) promotionEndDate() *string {
	if e.Promotions == nil {
		return nil
	}
	for _, group := range e.Promotions.PromotionalOffers {
		for _, offer := range group.PromotionalOffers {
			if offer.EndDate != "" {
				endDate := offer.EndDate
				return &endDate
			}
		}
	}
	return nil
}
