// internal/domain/alert/model.go

package alert

import (
	"strings"
	"time"

	"trendradar/internal/domain/trend"
)

// Alert is a user's standing request to be notified when products
// matching its criteria start trending. Alerts live in process memory
// and are lost on restart.
type Alert struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Keywords       []string   `json:"keywords"`
	Categories     []string   `json:"categories"`
	MinTrendScore  float64    `json:"min_trend_score"`
	Platforms      []string   `json:"platforms"`
	Active         bool       `json:"active"`
	CreatedAt      time.Time  `json:"created_at"`
	TriggeredCount int        `json:"triggered_count"`
	LastTriggered  *time.Time `json:"last_triggered,omitempty"`
}

// CreateRequest is the body for creating an alert. MinTrendScore is a
// pointer so an omitted value can fall back to the configured default.
type CreateRequest struct {
	UserID        string   `json:"user_id" validate:"required"`
	Keywords      []string `json:"keywords"`
	Categories    []string `json:"categories"`
	MinTrendScore *float64 `json:"min_trend_score" validate:"omitempty,gte=0,lte=1"`
	Platforms     []string `json:"platforms"`
}

// UpdateRequest is the body for partially updating an alert. Nil fields
// are left unchanged.
type UpdateRequest struct {
	Keywords      *[]string `json:"keywords"`
	Categories    *[]string `json:"categories"`
	MinTrendScore *float64  `json:"min_trend_score" validate:"omitempty,gte=0,lte=1"`
	Platforms     *[]string `json:"platforms"`
	Active        *bool     `json:"active"`
}

// CheckResult is the outcome of evaluating one alert against current
// trends
type CheckResult struct {
	AlertID          string          `json:"alert_id"`
	Triggered        bool            `json:"triggered"`
	Reason           string          `json:"reason,omitempty"`
	MatchingProducts []trend.Product `json:"matching_products,omitempty"`
	CheckedAt        *time.Time      `json:"checked_at,omitempty"`
}

// Trigger is published when a background sweep finds products matching
// an active alert
type Trigger struct {
	Alert            Alert           `json:"alert"`
	MatchingProducts []trend.Product `json:"matching_products"`
	TriggeredAt      time.Time       `json:"triggered_at"`
}

// Matches reports whether a product satisfies this alert's criteria.
// Keywords match as case-insensitive substrings of the product name and
// description, categories and platforms as set membership.
func (a Alert) Matches(p trend.Product) bool {
	if p.TrendScore < a.MinTrendScore {
		return false
	}

	if len(a.Keywords) > 0 && !matchesKeywords(a.Keywords, p) {
		return false
	}

	if len(a.Categories) > 0 && !contains(a.Categories, p.Category) {
		return false
	}

	if len(a.Platforms) > 0 {
		found := false
		for _, platform := range a.Platforms {
			if p.HasPlatform(platform) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}

func matchesKeywords(keywords []string, p trend.Product) bool {
	text := strings.ToLower(p.Name + " " + p.Description)
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(text, strings.ToLower(keyword)) {
			return true
		}
	}
	return false
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
