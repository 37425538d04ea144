// internal/domain/market/model.go

package market

import (
	"time"

	"trendradar/internal/domain/trend"
)

// PriceQuote is one platform's offer for a product
type PriceQuote struct {
	Platform     string  `json:"platform"`
	Price        float64 `json:"price"`
	Availability string  `json:"availability"`
	Shipping     float64 `json:"shipping"`
	Reviews      int     `json:"reviews"`
	Rating       float64 `json:"rating"`
}

// ProductComparison collects quotes for a product across platforms
type ProductComparison struct {
	ProductName string       `json:"product_name"`
	Comparisons []PriceQuote `json:"comparisons"`
	BestDeal    PriceQuote   `json:"best_deal"`
	Timestamp   time.Time    `json:"timestamp"`
}

// EventRecommendation suggests trending products for an upcoming
// shopping event
type EventRecommendation struct {
	EventName           string             `json:"event_name"`
	EventDate           time.Time          `json:"event_date"`
	DaysUntilEvent      int                `json:"days_until_event"`
	RecommendedProducts []trend.Product    `json:"recommended_products"`
	BestPlatforms       []string           `json:"best_platforms"`
	PriceTrends         map[string]float64 `json:"price_trends"`
	BuyingUrgency       string             `json:"buying_urgency"`
}

// SourcingOption describes one supplier path for a product
type SourcingOption struct {
	Supplier         string  `json:"supplier"`
	EstimatedCost    float64 `json:"estimated_cost"`
	LeadTimeDays     int     `json:"lead_time_days"`
	MinOrderQuantity int     `json:"min_order_quantity"`
}

// InventoryRecommendation suggests stocking levels for a product
type InventoryRecommendation struct {
	Recommendation string  `json:"recommendation"`
	SuggestedUnits int     `json:"suggested_units"`
	ReorderPoint   float64 `json:"reorder_point"`
}

// AdTargetingSuggestion proposes an ad campaign on one platform
type AdTargetingSuggestion struct {
	Platform        string   `json:"platform"`
	TargetAudience  string   `json:"target_audience"`
	SuggestedBudget string   `json:"suggested_budget"`
	Keywords        []string `json:"keywords"`
}

// MerchantInsight packages seller-oriented guidance for a product
type MerchantInsight struct {
	ProductID               string                  `json:"product_id"`
	SourcingRecommendations []SourcingOption        `json:"sourcing_recommendations"`
	CompetitionLevel        string                  `json:"competition_level"`
	ProfitPotential         float64                 `json:"profit_potential"`
	InventoryRecommendation InventoryRecommendation `json:"inventory_recommendation"`
	AdTargetingSuggestions  []AdTargetingSuggestion `json:"ad_targeting_suggestions"`
	NicheOpportunities      []string                `json:"niche_opportunities"`
}

// SocialProof summarizes audience signals for a product
type SocialProof struct {
	TotalMentions   int      `json:"total_mentions"`
	TotalEngagement int64    `json:"total_engagement"`
	Platforms       []string `json:"platforms"`
	ViralStatus     string   `json:"viral_status"`
}

// GiftSuitability describes how well a product works as a gift
type GiftSuitability struct {
	SuitableFor []string `json:"suitable_for"`
	AgeGroups   []string `json:"age_groups"`
	Occasions   []string `json:"occasions"`
}

// ConsumerInsight packages buyer-oriented guidance for a product
type ConsumerInsight struct {
	ProductID               string          `json:"product_id"`
	PopularityScore         float64         `json:"popularity_score"`
	PriceTrend              string          `json:"price_trend"`
	BestTimeToBuy           string          `json:"best_time_to_buy"`
	SimilarTrendingProducts []string        `json:"similar_trending_products"`
	SocialProof             SocialProof     `json:"social_proof"`
	GiftSuitability         GiftSuitability `json:"gift_suitability"`
}

// ComplianceReport is the outcome of checking a product against
// platform listing policies
type ComplianceReport struct {
	ProductID       string          `json:"product_id,omitempty"`
	Compliant       bool            `json:"compliant"`
	PlatformStatus  map[string]bool `json:"platform_status"`
	Issues          []string        `json:"issues"`
	Recommendations []string        `json:"recommendations"`
}

// ComplianceQuery identifies the product to check
type ComplianceQuery struct {
	Name        string
	Category    string
	Description string
}
