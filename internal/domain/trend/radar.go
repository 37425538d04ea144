// internal/domain/trend/radar.go

package trend

import (
	"context"
	"errors"
)

// ErrProductNotFound is returned when no aggregated product matches a
// requested identifier
var ErrProductNotFound = errors.New("product not found")

// ErrHistoryDisabled is returned by ProductHistory when no snapshot
// store is configured
var ErrHistoryDisabled = errors.New("trend history is not enabled")

// Change records a significant movement in a product's trend score
// between two analysis sweeps
type Change struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	OldScore    float64 `json:"old_score"`
	NewScore    float64 `json:"new_score"`
	Change      float64 `json:"change"`
}

// SnapshotStore persists per-sweep product observations for trend
// history
type SnapshotStore interface {
	// SaveSnapshots persists one observation row per product
	SaveSnapshots(ctx context.Context, snapshots []Snapshot) error

	// History returns the most recent observations for a product,
	// newest first
	History(ctx context.Context, productID string, limit int) ([]Snapshot, error)
}

// Radar defines the interface for product trend analysis
type Radar interface {
	// Start begins the periodic background sweep
	Start(ctx context.Context) error

	// Stop gracefully stops the background sweep
	Stop(ctx context.Context) error

	// AggregateProductTrends fetches signals from every platform for the
	// given keywords and returns scored products
	AggregateProductTrends(ctx context.Context, keywords, categories []string, daysBack int) ([]Product, error)

	// ProductByID returns the scored product with the given identifier
	ProductByID(ctx context.Context, productID string) (*Product, error)

	// GenerateReport builds a trend report tailored to the user type
	GenerateReport(ctx context.Context, userType UserType, categories []string, daysBack int) (*TrendReport, error)

	// TrendingCategories summarizes current trends per category
	TrendingCategories(ctx context.Context) ([]CategoryTrend, error)

	// ProductHistory returns persisted score snapshots for a product,
	// newest first. Returns ErrHistoryDisabled when no snapshot store
	// is configured.
	ProductHistory(ctx context.Context, productID string, limit int) ([]Snapshot, error)

	// RegisterChangeHandler registers a callback invoked for each
	// significant score change found by the background sweep
	RegisterChangeHandler(handler func(Change) error)
}
