// internal/config/platforms.go

package config

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Platform describes a monitored platform and its contribution to the
// composite trend score.
type Platform struct {
	Name        string   `yaml:"name"`
	APIEndpoint string   `yaml:"api_endpoint"`
	Weight      float64  `yaml:"weight"`
	Metrics     []string `yaml:"metrics"`
}

// PlatformRegistry maps platform keys to their configuration.
type PlatformRegistry map[string]Platform

// DefaultWeight is applied when scoring signals from a platform that is
// not in the registry.
const DefaultWeight = 0.1

// SupportedPlatforms is the built-in registry of the ten monitored
// platforms. Weights sum to 1.0.
var SupportedPlatforms = PlatformRegistry{
	"amazon": {
		Name:        "Amazon",
		APIEndpoint: "https://webservices.amazon.com/paapi5",
		Weight:      0.25,
		Metrics:     []string{"sales_rank", "reviews", "ratings", "best_seller_badge"},
	},
	"youtube": {
		Name:        "YouTube",
		APIEndpoint: "https://www.googleapis.com/youtube/v3",
		Weight:      0.20,
		Metrics:     []string{"views", "likes", "comments", "mentions"},
	},
	"tiktok": {
		Name:        "TikTok",
		APIEndpoint: "https://open-api.tiktok.com",
		Weight:      0.20,
		Metrics:     []string{"views", "likes", "shares", "hashtag_usage"},
	},
	"instagram": {
		Name:        "Instagram",
		APIEndpoint: "https://graph.instagram.com",
		Weight:      0.15,
		Metrics:     []string{"likes", "comments", "saves", "hashtag_usage"},
	},
	"meta": {
		Name:        "Meta (Facebook)",
		APIEndpoint: "https://graph.facebook.com",
		Weight:      0.10,
		Metrics:     []string{"likes", "shares", "comments", "engagement_rate"},
	},
	"pinterest": {
		Name:        "Pinterest",
		APIEndpoint: "https://api.pinterest.com/v5",
		Weight:      0.03,
		Metrics:     []string{"pins", "saves", "impressions"},
	},
	"etsy": {
		Name:        "Etsy",
		APIEndpoint: "https://openapi.etsy.com/v3",
		Weight:      0.02,
		Metrics:     []string{"favorites", "sales", "views"},
	},
	"walmart": {
		Name:        "Walmart",
		APIEndpoint: "https://developer.api.walmart.com",
		Weight:      0.02,
		Metrics:     []string{"sales_rank", "reviews", "stock_status"},
	},
	"ebay": {
		Name:        "eBay",
		APIEndpoint: "https://api.ebay.com/buy/browse/v1",
		Weight:      0.02,
		Metrics:     []string{"bids", "watchers", "sales"},
	},
	"target": {
		Name:        "Target",
		APIEndpoint: "https://api.target.com",
		Weight:      0.01,
		Metrics:     []string{"ratings", "reviews", "stock_status"},
	},
}

// ProductCategories lists the categories products can be classified into.
var ProductCategories = []string{
	"Electronics", "Fashion", "Beauty", "Home & Garden",
	"Sports & Outdoors", "Toys & Games", "Health & Wellness",
	"Food & Beverage", "Pet Supplies", "Books & Media",
	"Automotive", "Office Supplies", "Baby & Kids",
}

// CalendarEvent is a shopping event with the categories that typically
// spike around it.
type CalendarEvent struct {
	Name       string   `yaml:"name"`
	Categories []string `yaml:"categories"`
}

// CalendarEvents maps MM-DD dates to shopping events.
var CalendarEvents = map[string]CalendarEvent{
	"01-01": {Name: "New Year's Day", Categories: []string{"Party Supplies", "Home Decor"}},
	"02-14": {Name: "Valentine's Day", Categories: []string{"Gifts", "Jewelry", "Flowers"}},
	"03-17": {Name: "St. Patrick's Day", Categories: []string{"Party Supplies", "Apparel"}},
	"05-12": {Name: "Mother's Day", Categories: []string{"Gifts", "Jewelry", "Flowers"}},
	"06-16": {Name: "Father's Day", Categories: []string{"Gifts", "Tools", "Electronics"}},
	"07-04": {Name: "Independence Day", Categories: []string{"Party Supplies", "BBQ"}},
	"10-31": {Name: "Halloween", Categories: []string{"Costumes", "Decorations", "Candy"}},
	"11-28": {Name: "Thanksgiving", Categories: []string{"Kitchen", "Home Decor"}},
	"11-29": {Name: "Black Friday", Categories: []string{"All"}},
	"12-02": {Name: "Cyber Monday", Categories: []string{"Electronics", "Fashion"}},
	"12-25": {Name: "Christmas", Categories: []string{"Gifts", "Decorations", "Toys"}},
}

// LoadPlatforms returns the platform registry, merging overrides from
// the YAML file at path when it is non-empty. Overrides replace whole
// platform entries keyed by platform name.
func LoadPlatforms(path string) (PlatformRegistry, error) {
	registry := make(PlatformRegistry, len(SupportedPlatforms))
	for key, platform := range SupportedPlatforms {
		registry[key] = platform
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading platform config: %w", err)
		}

		overrides := make(map[string]Platform)
		if err := yaml.Unmarshal(data, &overrides); err != nil {
			return nil, fmt.Errorf("parsing platform config: %w", err)
		}

		for key, platform := range overrides {
			registry[key] = platform
		}
	}

	if err := registry.Validate(); err != nil {
		return nil, err
	}

	return registry, nil
}

// Validate checks that platform weights form a proper distribution.
func (r PlatformRegistry) Validate() error {
	if len(r) == 0 {
		return fmt.Errorf("platform registry is empty")
	}

	var sum float64
	for key, platform := range r {
		if platform.Weight < 0 {
			return fmt.Errorf("platform %s has negative weight %f", key, platform.Weight)
		}
		sum += platform.Weight
	}

	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("platform weights must sum to 1.0, got %f", sum)
	}

	return nil
}

// Weight returns the scoring weight for a platform key, falling back to
// DefaultWeight for unknown platforms.
func (r PlatformRegistry) Weight(key string) float64 {
	if platform, ok := r[key]; ok {
		return platform.Weight
	}
	return DefaultWeight
}

// Keys returns the platform keys in stable order.
func (r PlatformRegistry) Keys() []string {
	keys := make([]string, 0, len(r))
	for key := range r {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
