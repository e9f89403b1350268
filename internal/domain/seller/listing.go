package seller

import (
	"time"

	"github.com/shopspring/decimal"
)

// ListingStatus represents the lifecycle state of a marketplace listing
type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusPaused   ListingStatus = "paused"
	ListingStatusClosed   ListingStatus = "closed"
	ListingStatusUnderRev ListingStatus = "under_review"
)

// Listing is a marketplace product listing reshaped for the dashboard.
// Field names are the dashboard contract; adapters translate the
// marketplace's own JSON (sold_quantity -> Sales, available_quantity ->
// Stock, secure_thumbnail -> Thumbnail, and so on).
type Listing struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	CategoryID string          `json:"category_id"`
	Price      decimal.Decimal `json:"price"`
	Currency   string          `json:"currency"`
	Stock      int64           `json:"stock"`
	Sales      int64           `json:"sales"`
	Status     ListingStatus   `json:"status"`
	Permalink  string          `json:"permalink"`
	Thumbnail  string          `json:"thumbnail"`
	PictureIDs []string        `json:"picture_ids,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ListingUpdate carries the mutable listing fields the dashboard may
// change. Nil fields are left untouched upstream.
type ListingUpdate struct {
	Price *decimal.Decimal `json:"price,omitempty"`
	Stock *int64           `json:"stock,omitempty"`
	Title *string          `json:"title,omitempty"`
}

// IsZero reports whether the update would be a no-op.
func (u ListingUpdate) IsZero() bool {
	return u.Price == nil && u.Stock == nil && u.Title == nil
}

// ListingPage is one page of reshaped listings plus the upstream total.
type ListingPage struct {
	Listings []Listing `json:"listings"`
	Total    int64     `json:"total"`
	Offset   int       `json:"offset"`
	Limit    int       `json:"limit"`
}
