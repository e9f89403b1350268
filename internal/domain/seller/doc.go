// Package seller holds the dashboard-facing domain model for an
// authenticated marketplace seller: the OAuth credential the backend
// keeps on the seller's behalf, and the reshaped listing, order,
// shipment and category types the dashboard renders.
//
// The package also defines the Marketplace port interface. Concrete
// REST adapters live in internal/infrastructure/marketplace; keeping
// the interface here lets application services depend on the domain
// only (Ports & Adapters).
package seller
