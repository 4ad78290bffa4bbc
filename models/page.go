package models

import "math"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100

	// MaxPage keeps Page*MaxPageSize within int64.
	MaxPage = math.MaxInt64 / MaxPageSize
)

// Page is offset/limit windowing: page p of size n covers [p*n, p*n+n).
type Page struct {
	Page  int64 `json:"page" binding:"gte=0,lte=92233720368547758"`
	Limit int64 `json:"limit" binding:"gte=0,lte=100"`
}

// Normalize fills in the default page size.
func (p Page) Normalize() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultPageSize
	}
	if p.Limit > MaxPageSize {
		p.Limit = MaxPageSize
	}
	if p.Page < 0 {
		p.Page = 0
	}
	if p.Page > MaxPage {
		p.Page = MaxPage
	}
	return p
}

func (p Page) Skip() int64 {
	return p.Page * p.Limit
}
