package radar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trendradar/internal/config"
	"trendradar/internal/domain/trend"
	"trendradar/internal/observability"
)

func newBareService() *Service {
	logger := zap.NewNop()
	return New(Deps{
		Registry: config.SupportedPlatforms,
		Metrics:  observability.NewCollector("test", nil, false, logger),
		Config: config.TrendConfig{
			ScoreThreshold:   0.5,
			LookbackDays:     7,
			FetchTimeout:     time.Second,
			SweepInterval:    time.Minute,
			SweepKeywords:    []string{"trending"},
			SignificantDelta: 0.2,
			EventsTopic:      "trends",
		},
		Logger: logger,
	})
}

func TestMergeSignals_SocialPosts(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	social := map[string][]trend.SocialPost{
		"youtube": {
			{
				Platform: "youtube",
				ID:       "yt1",
				Title:    "Wireless Headphones Review",
				Views:    100000,
				Likes:    4000,
				Comments: 500,
				Shares:   500,
			},
			{Platform: "youtube", Title: "post without an id", Views: 50},
			{Platform: "youtube", ID: "yt2"},
		},
	}

	products := mergeSignals(social, nil, now)
	require.Len(t, products, 1)

	product := products[0]
	assert.Equal(t, "youtube_yt1", product.ID)
	assert.Equal(t, "Wireless Headphones Review", product.Name)
	assert.Equal(t, "Electronics", product.Category)
	assert.Equal(t, []string{"youtube"}, product.Platforms)
	assert.Equal(t, now.AddDate(0, 0, -7), product.FirstSeen)
	assert.Equal(t, now, product.LastUpdated)

	metrics, ok := product.PlatformMetrics["youtube"]
	require.True(t, ok)
	assert.Equal(t, int64(5000), metrics.EngagementCount)
	assert.Equal(t, int64(100000), metrics.Views)
	assert.Equal(t, 1, metrics.Mentions)
	assert.InDelta(t, 0.05, metrics.GrowthRate, 1e-9)
}

func TestMergeSignals_DuplicateKeyLastMetricsWin(t *testing.T) {
	now := time.Now().UTC()

	social := map[string][]trend.SocialPost{
		"tiktok": {
			{Platform: "tiktok", ID: "v1", Caption: "first look", Likes: 10},
			{Platform: "tiktok", ID: "v1", Caption: "second look", Likes: 999},
		},
	}

	products := mergeSignals(social, nil, now)
	require.Len(t, products, 1)

	// Metrics come from the later post, the description from the first.
	assert.Equal(t, int64(999), products[0].PlatformMetrics["tiktok"].EngagementCount)
	assert.Equal(t, "first look", products[0].Description)
}

func TestMergeSignals_MessageOnlyPostsAreDropped(t *testing.T) {
	social := map[string][]trend.SocialPost{
		"meta": {
			{Platform: "meta", ID: "m1", Message: "everyone is buying this", Likes: 5000},
		},
	}

	products := mergeSignals(social, nil, time.Now().UTC())
	assert.Empty(t, products)
}

func TestMergeSignals_SalesRecords(t *testing.T) {
	now := time.Now().UTC()

	sales := map[string][]trend.SalesRecord{
		"amazon": {
			{Platform: "amazon", ProductID: "B001", ProductName: "Ceramic Kitchen Set", Sales: 120, Price: 49.99},
			{Platform: "amazon", ProductName: "record without an id"},
		},
	}

	products := mergeSignals(nil, sales, now)
	require.Len(t, products, 1)

	product := products[0]
	assert.Equal(t, "amazon_B001", product.ID)
	assert.Equal(t, "Ceramic Kitchen Set", product.Name)
	assert.Equal(t, "Home & Garden", product.Category)
	assert.Equal(t, []string{"amazon"}, product.Platforms)
	assert.Equal(t, 49.99, product.Price)
	assert.Empty(t, product.Description)
	assert.Empty(t, product.PlatformMetrics)
}

func TestMergeSignals_NameFallbacks(t *testing.T) {
	now := time.Now().UTC()

	t.Run("caption only post falls back to unknown", func(t *testing.T) {
		social := map[string][]trend.SocialPost{
			"instagram": {{Platform: "instagram", ID: "p1", Caption: "obsessed with this", Likes: 10}},
		}
		products := mergeSignals(social, nil, now)
		require.Len(t, products, 1)
		assert.Equal(t, "Unknown Product", products[0].Name)
		assert.Equal(t, "obsessed with this", products[0].Description)
	})

	t.Run("description preferred over caption", func(t *testing.T) {
		social := map[string][]trend.SocialPost{
			"pinterest": {{Platform: "pinterest", ID: "p2", Title: "Velvet Jacket", Description: "fall staple", Caption: "ignored"}},
		}
		products := mergeSignals(social, nil, now)
		require.Len(t, products, 1)
		assert.Equal(t, "Velvet Jacket", products[0].Name)
		assert.Equal(t, "Fashion", products[0].Category)
		assert.Equal(t, "fall staple", products[0].Description)
	})
}

func TestGrowthRate(t *testing.T) {
	tests := []struct {
		name string
		post trend.SocialPost
		want float64
	}{
		{"no views", trend.SocialPost{Likes: 50}, 0},
		{"ratio under one", trend.SocialPost{Views: 100, Likes: 40, Comments: 10}, 0.5},
		{"ratio clamped", trend.SocialPost{Views: 100, Likes: 500}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, growthRate(tt.post), 1e-9)
		})
	}
}

func TestScoreProduct(t *testing.T) {
	service := newBareService()
	now := time.Now().UTC()

	product := trend.Product{
		ID:        "youtube_yt1",
		Platforms: []string{"youtube"},
		PlatformMetrics: map[string]trend.PlatformMetrics{
			"youtube": {EngagementCount: 50000, Views: 500000, GrowthRate: 0.5},
		},
		FirstSeen: now.AddDate(0, 0, -7),
	}

	service.scoreProduct(&product, now)

	// youtube weight 0.20: engagement 10000/100000, views 100000/1000000,
	// growth 0.1, one platform of five.
	assert.InDelta(t, 0.35*0.1+0.25*0.1+0.30*0.1+0.10*0.2, product.TrendScore, 1e-9)
	assert.InDelta(t, 0.1/7.0, product.ViralVelocity, 1e-9)
	assert.Equal(t, trend.StatusStable, product.Status)
}

func TestScoreProduct_SalesOnlySinglePlatform(t *testing.T) {
	service := newBareService()
	now := time.Now().UTC()

	product := trend.Product{
		ID:        "amazon_B001",
		Platforms: []string{"amazon"},
		FirstSeen: now.AddDate(0, 0, -7),
	}

	service.scoreProduct(&product, now)

	// No metrics, so only the platform component contributes.
	assert.InDelta(t, 0.02, product.TrendScore, 1e-9)
	assert.Zero(t, product.ViralVelocity)
}

func TestScoreProduct_UnknownPlatformUsesDefaultWeight(t *testing.T) {
	service := newBareService()
	now := time.Now().UTC()

	product := trend.Product{
		ID:        "newsite_1",
		Platforms: []string{"newsite"},
		PlatformMetrics: map[string]trend.PlatformMetrics{
			"newsite": {EngagementCount: 100000},
		},
		FirstSeen: now.AddDate(0, 0, -7),
	}

	service.scoreProduct(&product, now)

	// 100000 * default weight 0.1 = 10000 weighted engagement.
	assert.InDelta(t, 0.35*0.1+0.10*0.2, product.TrendScore, 1e-9)
}

func TestScoreProduct_VelocityIsNotClamped(t *testing.T) {
	service := newBareService()
	now := time.Now().UTC()

	product := trend.Product{
		ID:        "amazon_hot",
		Platforms: []string{"amazon"},
		PlatformMetrics: map[string]trend.PlatformMetrics{
			"amazon": {GrowthRate: 30},
		},
		FirstSeen: now,
	}

	service.scoreProduct(&product, now)

	// Weighted growth 7.5 over one active day stays above 1.0 even
	// though the growth component of the score is capped.
	assert.InDelta(t, 7.5, product.ViralVelocity, 1e-9)
	assert.Greater(t, product.ViralVelocity, 1.0)
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		name       string
		score      float64
		velocity   float64
		daysActive int
		want       trend.Status
	}{
		{"fast and new is emerging", 0.3, 0.9, 2, trend.StatusEmerging},
		{"fast but old falls through", 0.9, 0.9, 7, trend.StatusRising},
		{"high score low velocity is peak", 0.9, 0.2, 7, trend.StatusPeak},
		{"high score high velocity is rising", 0.75, 0.6, 7, trend.StatusRising},
		{"low score negative velocity is declining", 0.4, -0.1, 7, trend.StatusDeclining},
		{"low score flat velocity is stable", 0.4, 0.1, 7, trend.StatusStable},
		{"middling product is stable", 0.6, 0.1, 7, trend.StatusStable},
		{"peak requires score above 0.8", 0.8, 0.2, 7, trend.StatusStable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyStatus(tt.score, tt.velocity, tt.daysActive))
		})
	}
}

func TestInferCategory(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"iPhone 15 Phone Case", "Electronics"},
		{"Floral Summer Dress", "Fashion"},
		{"Vitamin C Serum", "Beauty"},
		{"Kitchen Organizer Rack", "Home & Garden"},
		{"Beauty cream for the kitchen", "Beauty"},
		{"Mystery Novel", "General"},
		{"", "General"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inferCategory(tt.name))
		})
	}
}
