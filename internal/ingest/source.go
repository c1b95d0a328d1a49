package ingest

import "context"

// Candidate is one free promotion announced by a storefront, before it is
// recorded. EndDate stays the raw storefront string so unparsable values
// survive into storage and can be repaired by a later scrape.
type Candidate struct {
	Title    string
	Platform string
	URL      string
	EndDate  *string
	Genre    *string
	Language *string
}

// Source fetches the current free promotions of one storefront.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]Candidate, error)
}
