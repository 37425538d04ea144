// internal/domain/market/service.go

package market

import (
	"context"
)

// Service defines the interface for product market operations
type Service interface {
	// ComparePrices gathers price quotes for a product across the given
	// commerce platforms
	ComparePrices(ctx context.Context, productName string, platforms []string) (*ProductComparison, error)

	// EventRecommendations suggests trending products for shopping
	// events within the next daysAhead days
	EventRecommendations(ctx context.Context, daysAhead int) ([]EventRecommendation, error)

	// MerchantInsights builds seller guidance for a product
	MerchantInsights(ctx context.Context, productID string) (*MerchantInsight, error)

	// ConsumerInsights builds buyer guidance for a product
	ConsumerInsights(ctx context.Context, productID string) (*ConsumerInsight, error)

	// ComplianceCheck verifies a product against platform listing
	// policies
	ComplianceCheck(ctx context.Context, query ComplianceQuery) (*ComplianceReport, error)
}
