// internal/service/radar/aggregator.go

package radar

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"trendradar/internal/domain/trend"
)

// productSeed accumulates one product's raw signals while a fetch
// pass is being merged.
type productSeed struct {
	platforms map[string]struct{}
	metrics   map[string]trend.PlatformMetrics
	firstPost *trend.SocialPost
	sales     *trend.SalesRecord
	name      string
}

// mergeSignals folds per-platform social posts and sales records into
// unscored products keyed by "{platform}_{id}". Posts without an id or
// identifying text are dropped; when a key repeats on a platform the
// later post's metrics win.
func mergeSignals(social map[string][]trend.SocialPost, sales map[string][]trend.SalesRecord, now time.Time) []trend.Product {
	seeds := make(map[string]*productSeed)
	var order []string

	grab := func(key string) *productSeed {
		if seed, ok := seeds[key]; ok {
			return seed
		}
		seed := &productSeed{
			platforms: make(map[string]struct{}),
			metrics:   make(map[string]trend.PlatformMetrics),
		}
		seeds[key] = seed
		order = append(order, key)
		return seed
	}

	for _, platform := range sortedKeys(social) {
		for _, post := range social[platform] {
			if post.ID == "" || post.Text() == "" {
				continue
			}
			seed := grab(platform + "_" + post.ID)
			seed.platforms[platform] = struct{}{}
			seed.metrics[platform] = postMetrics(post, platform, now)
			if seed.firstPost == nil {
				first := post
				seed.firstPost = &first
			}
		}
	}

	for _, platform := range sortedKeys(sales) {
		for _, record := range sales[platform] {
			if record.ProductID == "" {
				continue
			}
			seed := grab(platform + "_" + record.ProductID)
			seed.platforms[platform] = struct{}{}
			latest := record
			seed.sales = &latest
			if record.ProductName != "" {
				seed.name = record.ProductName
			}
		}
	}

	products := make([]trend.Product, 0, len(seeds))
	for _, key := range order {
		products = append(products, buildProduct(key, seeds[key], now))
	}
	return products
}

// postMetrics normalizes one social post into platform metrics. Each
// post counts as a single mention.
func postMetrics(post trend.SocialPost, platform string, now time.Time) trend.PlatformMetrics {
	return trend.PlatformMetrics{
		Platform:        platform,
		EngagementCount: post.Engagement(),
		Views:           post.Views,
		Likes:           post.Likes,
		Shares:          post.Shares,
		Comments:        post.Comments,
		Mentions:        1,
		GrowthRate:      growthRate(post),
		Timestamp:       now,
	}
}

// growthRate proxies growth with engagement per view. There is no
// historical baseline to compare against yet.
func growthRate(post trend.SocialPost) float64 {
	if post.Views <= 0 {
		return 0
	}
	rate := float64(post.Engagement()) / float64(post.Views)
	return math.Min(rate, 1.0)
}

func buildProduct(key string, seed *productSeed, now time.Time) trend.Product {
	name := seed.name
	if name == "" && seed.firstPost != nil {
		name = seed.firstPost.Title
	}
	if name == "" {
		name = "Unknown Product"
	}

	platforms := make([]string, 0, len(seed.platforms))
	for platform := range seed.platforms {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)

	product := trend.Product{
		ID:              key,
		Name:            name,
		Category:        inferCategory(name),
		Description:     seedDescription(seed),
		Platforms:       platforms,
		PlatformMetrics: seed.metrics,
		// No per-product history yet, so assume the fetch window.
		FirstSeen:   now.AddDate(0, 0, -7),
		LastUpdated: now,
	}
	if seed.sales != nil {
		product.Price = seed.sales.Price
	}
	return product
}

func seedDescription(seed *productSeed) string {
	if seed.firstPost == nil {
		return ""
	}
	if seed.firstPost.Description != "" {
		return seed.firstPost.Description
	}
	return seed.firstPost.Caption
}

// scoreProducts computes the composite score, viral velocity, and
// lifecycle status for every product in place.
func (s *Service) scoreProducts(products []trend.Product, now time.Time) {
	for i := range products {
		s.scoreProduct(&products[i], now)
	}
}

// scoreProduct scores a single product. A failure zeroes the score and
// leaves the rest of the batch untouched.
func (s *Service) scoreProduct(p *trend.Product, now time.Time) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("trend score calculation failed",
				zap.String("product_id", p.ID),
				zap.Any("cause", r))
			p.TrendScore = 0
			p.Status = trend.StatusStable
		}
	}()

	var totalEngagement, totalViews, totalGrowth float64
	for platform, metrics := range p.PlatformMetrics {
		weight := s.registry.Weight(platform)
		totalEngagement += float64(metrics.EngagementCount) * weight
		totalViews += float64(metrics.Views) * weight
		totalGrowth += metrics.GrowthRate * weight
	}

	engagementScore := math.Min(totalEngagement/100000, 1.0)
	viewScore := math.Min(totalViews/1000000, 1.0)
	growthScore := math.Min(totalGrowth, 1.0)
	platformScore := math.Min(float64(len(p.Platforms))/5.0, 1.0)

	p.TrendScore = 0.35*engagementScore + 0.25*viewScore + 0.30*growthScore + 0.10*platformScore

	daysActive := int(now.Sub(p.FirstSeen).Hours() / 24)
	if daysActive == 0 {
		daysActive = 1
	}
	p.ViralVelocity = totalGrowth / float64(daysActive)
	p.Status = classifyStatus(p.TrendScore, p.ViralVelocity, daysActive)
}

// classifyStatus maps score and velocity onto a lifecycle stage. The
// checks run in priority order and the first match wins.
func classifyStatus(score, velocity float64, daysActive int) trend.Status {
	switch {
	case velocity > 0.8 && daysActive < 3:
		return trend.StatusEmerging
	case score > 0.7 && velocity > 0.5:
		return trend.StatusRising
	case score > 0.8 && velocity < 0.3:
		return trend.StatusPeak
	case score < 0.5 && velocity < 0:
		return trend.StatusDeclining
	default:
		return trend.StatusStable
	}
}

func averageScore(products []trend.Product) float64 {
	if len(products) == 0 {
		return 0
	}
	var total float64
	for i := range products {
		total += products[i].TrendScore
	}
	return total / float64(len(products))
}

func sortedKeys[M ~map[string]V, V any](m M) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
