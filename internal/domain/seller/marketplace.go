package seller

import "context"

// Hard limits imposed by the marketplace API. Callers paginate and
// batch against these; adapters reject calls that exceed them.
const (
	// MaxSearchPageSize is the largest id page a listing search returns.
	MaxSearchPageSize = 100
	// MaxDetailBatchSize is the largest id list the listing detail
	// multiget accepts.
	MaxDetailBatchSize = 20
	// MaxScanRecords is the safety cutoff for pagination loops: scans
	// stop here even when the advertised total is larger.
	MaxScanRecords = 10000
)

// Marketplace is the port interface for the upstream marketplace REST
// API. The concrete adapter lives in internal/infrastructure/marketplace.
type Marketplace interface {
	// Profile returns the authenticated seller account.
	Profile(ctx context.Context) (*Profile, error)

	// SearchListingIDs returns one page of the seller's listing ids
	// together with the advertised total. limit is clamped to
	// MaxSearchPageSize.
	SearchListingIDs(ctx context.Context, sellerID string, offset, limit int) ([]string, int64, error)

	// ListingDetails resolves up to MaxDetailBatchSize listing ids in
	// one multiget call. Larger batches fail with ErrTooManyIDs.
	ListingDetails(ctx context.Context, ids []string) ([]Listing, error)

	// UpdateListing applies the given field changes upstream and
	// returns the updated listing.
	UpdateListing(ctx context.Context, id string, upd ListingUpdate) (*Listing, error)

	// SetListingStatus pauses or reactivates a listing.
	SetListingStatus(ctx context.Context, id string, status ListingStatus) error

	// SearchOrders returns one page of the seller's orders matching
	// the query, with the advertised total.
	SearchOrders(ctx context.Context, sellerID string, q OrderQuery) ([]Order, int64, error)

	// Order returns a single order.
	Order(ctx context.Context, id string) (*Order, error)

	// Shipment returns a single shipment.
	Shipment(ctx context.Context, id string) (*Shipment, error)

	// OrderShipments returns the shipments attached to an order.
	OrderShipments(ctx context.Context, orderID string) ([]Shipment, error)

	// UploadPicture pushes image bytes to the marketplace picture
	// store and returns the hosted picture.
	UploadPicture(ctx context.Context, data []byte, contentType string) (*Picture, error)

	// Picture returns a hosted picture's metadata.
	Picture(ctx context.Context, id string) (*Picture, error)

	// PredictCategory asks the marketplace for the best category for a
	// free-text listing title.
	PredictCategory(ctx context.Context, title string) (*CategoryPrediction, error)

	// Category returns a category with its path to the root.
	Category(ctx context.Context, id string) (*Category, error)
}
