// internal/service/market/insights.go

package market

import (
	"context"
	"fmt"
	"strings"

	marketDomain "trendradar/internal/domain/market"
	"trendradar/internal/domain/trend"
)

// MerchantInsights builds seller guidance for one trending product.
// Returns trend.ErrProductNotFound when the id matches nothing.
func (s *Service) MerchantInsights(ctx context.Context, productID string) (*marketDomain.MerchantInsight, error) {
	product, err := s.trends.ProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &marketDomain.MerchantInsight{
		ProductID:               product.ID,
		SourcingRecommendations: sourcingOptions(product),
		CompetitionLevel:        competitionLevel(product.TrendScore),
		ProfitPotential:         product.TrendScore * product.ViralVelocity * 100,
		InventoryRecommendation: inventoryRecommendation(product.Status),
		AdTargetingSuggestions:  adTargeting(product),
		NicheOpportunities:      nicheOpportunities(product.Category),
	}, nil
}

func competitionLevel(score float64) string {
	switch {
	case score > 0.8:
		return "high"
	case score > 0.5:
		return "medium"
	default:
		return "low"
	}
}

// sourcingOptions estimates supplier paths from the product's retail
// price. A zero price yields zero cost estimates rather than an error.
func sourcingOptions(product *trend.Product) []marketDomain.SourcingOption {
	return []marketDomain.SourcingOption{
		{
			Supplier:         "Alibaba",
			EstimatedCost:    product.Price * 0.3,
			LeadTimeDays:     30,
			MinOrderQuantity: 100,
		},
		{
			Supplier:         "Local Wholesaler",
			EstimatedCost:    product.Price * 0.5,
			LeadTimeDays:     7,
			MinOrderQuantity: 20,
		},
	}
}

func inventoryRecommendation(status trend.Status) marketDomain.InventoryRecommendation {
	var recommendation string
	var units int

	switch status {
	case trend.StatusEmerging:
		recommendation, units = "moderate", 50
	case trend.StatusRising:
		recommendation, units = "high", 200
	case trend.StatusPeak:
		recommendation, units = "very_high", 500
	default:
		recommendation, units = "low", 20
	}

	return marketDomain.InventoryRecommendation{
		Recommendation: recommendation,
		SuggestedUnits: units,
		ReorderPoint:   float64(units) * 0.3,
	}
}

func adTargeting(product *trend.Product) []marketDomain.AdTargetingSuggestion {
	suggestions := make([]marketDomain.AdTargetingSuggestion, 0, len(product.Platforms))
	for _, platform := range product.Platforms {
		suggestions = append(suggestions, marketDomain.AdTargetingSuggestion{
			Platform:        platform,
			TargetAudience:  fmt.Sprintf("%s enthusiasts", product.Category),
			SuggestedBudget: "$50-100/day",
			Keywords:        []string{product.Name, product.Category, "trending"},
		})
	}
	return suggestions
}

func nicheOpportunities(category string) []string {
	return []string{
		fmt.Sprintf("Eco-friendly version of %s", category),
		fmt.Sprintf("Premium %s for luxury market", category),
		"Budget-friendly alternative",
	}
}

// ConsumerInsights builds buyer guidance for one trending product.
// Returns trend.ErrProductNotFound when the id matches nothing.
func (s *Service) ConsumerInsights(ctx context.Context, productID string) (*marketDomain.ConsumerInsight, error) {
	product, err := s.trends.ProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	similar, err := s.similarProducts(ctx, product)
	if err != nil {
		return nil, err
	}

	return &marketDomain.ConsumerInsight{
		ProductID:               product.ID,
		PopularityScore:         product.TrendScore,
		PriceTrend:              priceTrend(product.ViralVelocity),
		BestTimeToBuy:           bestTimeToBuy(product.Status),
		SimilarTrendingProducts: similar,
		SocialProof: marketDomain.SocialProof{
			TotalMentions:   len(product.Platforms),
			TotalEngagement: product.TotalEngagement(),
			Platforms:       product.Platforms,
			ViralStatus:     string(product.Status),
		},
		GiftSuitability: giftSuitability(product),
	}, nil
}

func priceTrend(velocity float64) string {
	switch {
	case velocity > 0.5:
		return "increasing"
	case velocity < -0.3:
		return "decreasing"
	default:
		return "stable"
	}
}

func bestTimeToBuy(status trend.Status) string {
	switch status {
	case trend.StatusEmerging:
		return "Buy now - price may increase as popularity grows"
	case trend.StatusPeak:
		return "Wait - price may drop soon as trend peaks"
	case trend.StatusDeclining:
		return "Good time to buy - prices dropping"
	default:
		return "Stable - buy when convenient"
	}
}

func giftSuitability(product *trend.Product) marketDomain.GiftSuitability {
	suitableFor := []string{}
	if product.TrendScore > 0.6 {
		suitableFor = []string{"birthdays", "holidays"}
	}

	ageGroups := []string{"all"}
	if strings.Contains(strings.ToLower(product.Category), "tech") {
		ageGroups = []string{"18-35"}
	}

	occasions := []string{"casual"}
	if product.TrendScore > 0.7 {
		occasions = []string{"casual", "special"}
	}

	return marketDomain.GiftSuitability{
		SuitableFor: suitableFor,
		AgeGroups:   ageGroups,
		Occasions:   occasions,
	}
}

// similarProducts finds up to five other trending products in the same
// category.
func (s *Service) similarProducts(ctx context.Context, product *trend.Product) ([]string, error) {
	candidates, err := s.trends.AggregateProductTrends(ctx, []string{product.Category}, nil, 7)
	if err != nil {
		return nil, err
	}

	similar := []string{}
	for _, candidate := range candidates {
		if candidate.ID == product.ID || candidate.Category != product.Category {
			continue
		}
		similar = append(similar, candidate.ID)
		if len(similar) == 5 {
			break
		}
	}
	return similar, nil
}
