// internal/service/market/service.go

// Package market builds shopping guidance on top of trend analyses:
// price comparisons, event recommendations, merchant and consumer
// insights, and marketplace compliance checks.
package market

import (
	"context"
	"time"

	"go.uber.org/zap"

	marketDomain "trendradar/internal/domain/market"
	"trendradar/internal/domain/trend"
	"trendradar/internal/service/insight"
)

// defaultComparePlatforms are the commerce platforms compared when a
// request names none.
var defaultComparePlatforms = []string{"amazon", "walmart", "ebay", "etsy", "target"}

// TrendSource provides the product analyses market guidance is built on
type TrendSource interface {
	// AggregateProductTrends runs a fresh analysis for the keywords
	AggregateProductTrends(ctx context.Context, keywords, categories []string, daysBack int) ([]trend.Product, error)

	// ProductByID returns a single scored product or
	// trend.ErrProductNotFound
	ProductByID(ctx context.Context, productID string) (*trend.Product, error)
}

// ComplianceChecker verifies products against marketplace listing
// policies
type ComplianceChecker interface {
	CheckCompliance(ctx context.Context, req insight.ComplianceRequest) (*insight.ComplianceResult, error)
}

// Service implements marketDomain.Service
type Service struct {
	trends  TrendSource
	checker ComplianceChecker
	logger  *zap.Logger
}

// New creates a market service
func New(trends TrendSource, checker ComplianceChecker, logger *zap.Logger) *Service {
	return &Service{
		trends:  trends,
		checker: checker,
		logger:  logger,
	}
}

// ComparePrices gathers one quote per platform for a product. Quotes
// are placeholders until the commerce price APIs are integrated; the
// shape and the best-deal selection are final.
func (s *Service) ComparePrices(ctx context.Context, productName string, platforms []string) (*marketDomain.ProductComparison, error) {
	if len(platforms) == 0 {
		platforms = defaultComparePlatforms
	}

	quotes := make([]marketDomain.PriceQuote, 0, len(platforms))
	for _, platform := range platforms {
		quotes = append(quotes, marketDomain.PriceQuote{
			Platform:     platform,
			Price:        0.0,
			Availability: "unknown",
			Shipping:     0.0,
			Reviews:      0,
			Rating:       0.0,
		})
	}

	best := quotes[0]
	for _, quote := range quotes[1:] {
		if quote.Price < best.Price {
			best = quote
		}
	}

	return &marketDomain.ProductComparison{
		ProductName: productName,
		Comparisons: quotes,
		BestDeal:    best,
		Timestamp:   time.Now().UTC(),
	}, nil
}

// ComplianceCheck verifies a product against marketplace listing
// policies via the Amazon Q service.
func (s *Service) ComplianceCheck(ctx context.Context, query marketDomain.ComplianceQuery) (*marketDomain.ComplianceReport, error) {
	result, err := s.checker.CheckCompliance(ctx, insight.ComplianceRequest{
		Name:        query.Name,
		Category:    query.Category,
		Description: query.Description,
	})
	if err != nil {
		return nil, err
	}

	return &marketDomain.ComplianceReport{
		ProductID:       result.ProductID,
		Compliant:       result.Compliant,
		PlatformStatus:  result.PlatformStatus,
		Issues:          result.Issues,
		Recommendations: result.Recommendations,
	}, nil
}
