// internal/service/radar/report.go

package radar

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode"

	"trendradar/internal/domain/trend"
)

// reportKeywords seed the analysis behind a report when the caller
// names no categories.
var reportKeywords = []string{"trending", "popular", "viral"}

// reportPlatforms are broken out individually in the platform analysis
// section of a report.
var reportPlatforms = []string{"amazon", "youtube", "tiktok", "instagram", "meta"}

// GenerateReport runs an analysis over the given categories (or the
// default report keywords) and summarizes it for the audience.
func (s *Service) GenerateReport(ctx context.Context, userType trend.UserType, categories []string, daysBack int) (*trend.TrendReport, error) {
	keywords := categories
	if len(keywords) == 0 {
		keywords = reportKeywords
	}

	products, err := s.AggregateProductTrends(ctx, keywords, categories, daysBack)
	if err != nil {
		return nil, err
	}

	return s.buildReport(products, userType), nil
}

// buildReport summarizes already-scored products into a report. The
// sweep reuses it so dashboard snapshots do not trigger a second
// fetch pass.
func (s *Service) buildReport(products []trend.Product, userType trend.UserType) *trend.TrendReport {
	sorted := make([]trend.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TrendScore > sorted[j].TrendScore
	})

	topTrending := sorted
	if len(topTrending) > 20 {
		topTrending = topTrending[:20]
	}

	emerging := make([]trend.Product, 0, 10)
	for _, product := range products {
		if product.Status != trend.StatusEmerging {
			continue
		}
		emerging = append(emerging, product)
		if len(emerging) == 10 {
			break
		}
	}

	breakdown := make(map[string]int)
	for i := range products {
		breakdown[products[i].Category]++
	}

	analysis := make(map[string]trend.PlatformStats)
	for _, platform := range reportPlatforms {
		var count int
		var total float64
		for i := range products {
			if !products[i].HasPlatform(platform) {
				continue
			}
			count++
			total += products[i].TrendScore
		}
		if count == 0 {
			continue
		}
		analysis[platform] = trend.PlatformStats{
			ProductCount: count,
			AvgScore:     total / float64(count),
		}
	}

	return &trend.TrendReport{
		ReportID:          fmt.Sprintf("report_%d", time.Now().Unix()),
		UserType:          userType,
		GeneratedAt:       time.Now().UTC(),
		TopTrending:       topTrending,
		EmergingTrends:    emerging,
		CategoryBreakdown: breakdown,
		PlatformAnalysis:  analysis,
		Predictions:       []trend.TrendPrediction{},
		UpcomingEvents:    []trend.UpcomingEvent{},
		Insights:          buildInsights(products, userType),
	}
}

// buildInsights produces the rule-based insight lines for a report
func buildInsights(products []trend.Product, userType trend.UserType) []string {
	if len(products) == 0 {
		return []string{"No trending products found in the specified criteria."}
	}

	insights := []string{
		fmt.Sprintf("Average trend score across %d products: %.2f", len(products), averageScore(products)),
	}

	counts := make(map[string]int)
	for i := range products {
		for _, platform := range products[i].Platforms {
			counts[platform]++
		}
	}
	if platform, count := topPlatform(counts); platform != "" {
		insights = append(insights, fmt.Sprintf("%s has the most trending products (%d products)", capitalize(platform), count))
	}

	switch userType {
	case trend.UserTypeMerchant:
		if emerging := countStatus(products, trend.StatusEmerging); emerging > 0 {
			insights = append(insights, fmt.Sprintf("%d emerging trends detected - opportunity for early positioning", emerging))
		}
		var fast int
		for i := range products {
			if products[i].ViralVelocity > 0.7 {
				fast++
			}
		}
		if fast > 0 {
			insights = append(insights, fmt.Sprintf("%d products showing high viral velocity - act quickly", fast))
		}
	case trend.UserTypeConsumer:
		if peak := countStatus(products, trend.StatusPeak); peak > 0 {
			insights = append(insights, fmt.Sprintf("%d products at peak popularity - high social proof", peak))
		}
		insights = append(insights, "Check product comparisons for best deals across platforms")
	}

	return insights
}

func countStatus(products []trend.Product, status trend.Status) int {
	var count int
	for i := range products {
		if products[i].Status == status {
			count++
		}
	}
	return count
}

// topPlatform returns the platform with the most products. Ties go to
// the alphabetically first platform so output is stable.
func topPlatform(counts map[string]int) (string, int) {
	var top string
	var best int
	for _, platform := range sortedKeys(counts) {
		if counts[platform] > best {
			top, best = platform, counts[platform]
		}
	}
	return top, best
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// TrendingCategories groups the current trending products by category
// and ranks categories by average score.
func (s *Service) TrendingCategories(ctx context.Context) ([]trend.CategoryTrend, error) {
	products, err := s.AggregateProductTrends(ctx, []string{"trending"}, nil, s.cfg.LookbackDays)
	if err != nil {
		return nil, err
	}

	type bucket struct {
		count int
		total float64
	}
	buckets := make(map[string]*bucket)
	for i := range products {
		entry := buckets[products[i].Category]
		if entry == nil {
			entry = &bucket{}
			buckets[products[i].Category] = entry
		}
		entry.count++
		entry.total += products[i].TrendScore
	}

	categories := make([]trend.CategoryTrend, 0, len(buckets))
	for _, name := range sortedKeys(buckets) {
		entry := buckets[name]
		avg := entry.total / float64(entry.count)
		categories = append(categories, trend.CategoryTrend{
			Category:      name,
			ProductCount:  entry.count,
			AvgTrendScore: avg,
			Momentum:      categoryMomentum(avg),
		})
	}

	sort.SliceStable(categories, func(i, j int) bool {
		return categories[i].AvgTrendScore > categories[j].AvgTrendScore
	})

	return categories, nil
}

func categoryMomentum(avgScore float64) string {
	if avgScore > 0.7 {
		return "rising"
	}
	return "stable"
}
