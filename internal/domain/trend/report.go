// internal/domain/trend/report.go

package trend

import (
	"fmt"
	"time"
)

// UserType selects the audience a report's insights are written for
type UserType string

const (
	UserTypeMerchant UserType = "merchant"
	UserTypeConsumer UserType = "consumer"
)

// ParseUserType converts a string into a UserType
func ParseUserType(s string) (UserType, error) {
	switch UserType(s) {
	case UserTypeMerchant, UserTypeConsumer:
		return UserType(s), nil
	}
	return "", fmt.Errorf("unknown user type %q", s)
}

// PlatformStats summarizes one platform's slice of a report
type PlatformStats struct {
	ProductCount int     `json:"product_count"`
	AvgScore     float64 `json:"avg_score"`
}

// UpcomingEvent is a shopping event noted in a report
type UpcomingEvent struct {
	Date       string   `json:"date"`
	Name       string   `json:"name"`
	Categories []string `json:"categories"`
}

// TrendReport is a point-in-time summary of trending products,
// tailored to a merchant or consumer audience
type TrendReport struct {
	ReportID          string                   `json:"report_id"`
	UserType          UserType                 `json:"user_type"`
	GeneratedAt       time.Time                `json:"generated_at"`
	TopTrending       []Product                `json:"top_trending"`
	EmergingTrends    []Product                `json:"emerging_trends"`
	CategoryBreakdown map[string]int           `json:"category_breakdown"`
	PlatformAnalysis  map[string]PlatformStats `json:"platform_analysis"`
	Predictions       []TrendPrediction        `json:"predictions"`
	UpcomingEvents    []UpcomingEvent          `json:"upcoming_events"`
	Insights          []string                 `json:"insights"`
}

// TrendPrediction is a forward-looking trajectory estimate for one
// product, produced by the model advisory service
type TrendPrediction struct {
	ProductID         string             `json:"product_id"`
	PredictedPeakDate *string            `json:"predicted_peak_date"`
	ConfidenceScore   float64            `json:"confidence_score"`
	DurationDays      *int               `json:"duration_days"`
	MaxPredictedScore float64            `json:"max_predicted_score"`
	Recommendation    string             `json:"recommendation"`
	Factors           map[string]float64 `json:"factors"`
}

// CategoryTrend aggregates trend momentum for a single category
type CategoryTrend struct {
	Category      string  `json:"category"`
	ProductCount  int     `json:"product_count"`
	AvgTrendScore float64 `json:"avg_trend_score"`
	Momentum      string  `json:"momentum"`
}

// DemandForecast is an inventory-planning forecast for one product
type DemandForecast struct {
	ProductID           string               `json:"product_id"`
	Forecast            []float64            `json:"forecast"`
	ConfidenceIntervals map[string][]float64 `json:"confidence_intervals"`
	RecommendedStock    int                  `json:"recommended_stock"`
	PeakDemandDate      *time.Time           `json:"peak_demand_date"`
}

// Snapshot is one persisted observation of a product's score, used for
// trend history when the snapshot store is enabled
type Snapshot struct {
	ProductID     string    `json:"product_id"`
	ProductName   string    `json:"product_name"`
	Category      string    `json:"category"`
	TrendScore    float64   `json:"trend_score"`
	ViralVelocity float64   `json:"viral_velocity"`
	Status        Status    `json:"status"`
	Platforms     []string  `json:"platforms"`
	CapturedAt    time.Time `json:"captured_at"`
}
