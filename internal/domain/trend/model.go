// internal/domain/trend/model.go

package trend

import (
	"fmt"
	"time"
)

// Status represents the lifecycle stage of a product trend
type Status string

const (
	StatusEmerging  Status = "emerging"
	StatusRising    Status = "rising"
	StatusPeak      Status = "peak"
	StatusDeclining Status = "declining"
	StatusStable    Status = "stable"
)

// ParseStatus converts a string into a Status, rejecting unknown values
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusEmerging, StatusRising, StatusPeak, StatusDeclining, StatusStable:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown trend status %q", s)
}

// PlatformMetrics holds the engagement signals a single platform
// contributed to a product
type PlatformMetrics struct {
	Platform        string    `json:"platform"`
	EngagementCount int64     `json:"engagement_count"`
	Views           int64     `json:"views"`
	Likes           int64     `json:"likes"`
	Shares          int64     `json:"shares"`
	Comments        int64     `json:"comments"`
	Mentions        int       `json:"mentions"`
	GrowthRate      float64   `json:"growth_rate"`
	Timestamp       time.Time `json:"timestamp"`
}

// Product represents a product aggregated from social and commerce
// signals, scored for trendiness. Products are rebuilt on every
// analysis pass and are not persisted.
type Product struct {
	ID              string                     `json:"id"`
	Name            string                     `json:"name"`
	Category        string                     `json:"category"`
	Description     string                     `json:"description"`
	Price           float64                    `json:"price,omitempty"`
	ReviewCount     int                        `json:"review_count,omitempty"`
	Rating          float64                    `json:"rating,omitempty"`
	Platforms       []string                   `json:"platforms"`
	PlatformMetrics map[string]PlatformMetrics `json:"platform_metrics"`
	TrendScore      float64                    `json:"trend_score"`
	ViralVelocity   float64                    `json:"viral_velocity"`
	Status          Status                     `json:"status"`
	Prediction      *ModelPrediction           `json:"prediction,omitempty"`
	FirstSeen       time.Time                  `json:"first_seen"`
	LastUpdated     time.Time                  `json:"last_updated"`
}

// TotalEngagement sums the engagement counts across all platforms
func (p *Product) TotalEngagement() int64 {
	var total int64
	for _, metrics := range p.PlatformMetrics {
		total += metrics.EngagementCount
	}
	return total
}

// TotalViews sums the view counts across all platforms
func (p *Product) TotalViews() int64 {
	var total int64
	for _, metrics := range p.PlatformMetrics {
		total += metrics.Views
	}
	return total
}

// HasPlatform reports whether the product was observed on the platform
func (p *Product) HasPlatform(platform string) bool {
	for _, candidate := range p.Platforms {
		if candidate == platform {
			return true
		}
	}
	return false
}

// ModelPrediction is a per-product forecast from the inference endpoint
type ModelPrediction struct {
	ProductID      string    `json:"product_id,omitempty"`
	TrendScore     float64   `json:"trend_score"`
	TrendDirection string    `json:"trend_direction"`
	Confidence     float64   `json:"confidence"`
	PredictedAt    time.Time `json:"predicted_at"`
	ModelVersion   string    `json:"model_version,omitempty"`
	Error          string    `json:"error,omitempty"`
}

// Filter defines criteria for filtering scored products
type Filter struct {
	MinScore   float64
	Categories []string
	Platforms  []string
	Status     Status
	Limit      int
}

// Match reports whether a product passes the filter. Limit is applied
// by the caller after sorting.
func (f Filter) Match(p Product) bool {
	if p.TrendScore < f.MinScore {
		return false
	}

	if len(f.Platforms) > 0 {
		found := false
		for _, platform := range f.Platforms {
			if p.HasPlatform(platform) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if f.Status != "" && p.Status != f.Status {
		return false
	}

	return true
}
