package radar

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trendradar/internal/domain/trend"
)

type fakeSocialSource struct {
	platform string
	posts    []trend.SocialPost
	err      error
	panics   bool
	gotQuery trend.Query
}

func (f *fakeSocialSource) Platform() string { return f.platform }

func (f *fakeSocialSource) Fetch(_ context.Context, query trend.Query) ([]trend.SocialPost, error) {
	f.gotQuery = query
	if f.panics {
		panic("connector blew up")
	}
	return f.posts, f.err
}

type fakeSalesSource struct {
	platform string
	records  []trend.SalesRecord
	err      error
	gotStart time.Time
	gotEnd   time.Time
}

func (f *fakeSalesSource) Platform() string { return f.platform }

func (f *fakeSalesSource) Fetch(_ context.Context, start, end time.Time) ([]trend.SalesRecord, error) {
	f.gotStart, f.gotEnd = start, end
	return f.records, f.err
}

type fakePredictor struct {
	predictions []trend.ModelPrediction
	gotProducts []trend.Product
}

func (f *fakePredictor) BatchPredict(_ context.Context, products []trend.Product) []trend.ModelPrediction {
	f.gotProducts = products
	return f.predictions
}

func youtubePost(id, title string, views, likes int64) trend.SocialPost {
	return trend.SocialPost{
		Platform: "youtube",
		ID:       id,
		Title:    title,
		Views:    views,
		Likes:    likes,
	}
}

func TestAggregateProductTrends(t *testing.T) {
	service := newBareService()

	youtube := &fakeSocialSource{
		platform: "youtube",
		posts:    []trend.SocialPost{youtubePost("yt1", "Wireless Headphones Pro", 500000, 50000)},
	}
	amazon := &fakeSalesSource{
		platform: "amazon",
		records: []trend.SalesRecord{
			{Platform: "amazon", ProductID: "B001", ProductName: "Wireless Headphones", Sales: 300, Price: 99.99},
		},
	}
	service.social = []trend.SocialSource{youtube}
	service.sales = []trend.SalesSource{amazon}

	products, err := service.AggregateProductTrends(context.Background(), []string{"wireless headphones"}, nil, 7)
	require.NoError(t, err)
	require.Len(t, products, 2)

	byID := make(map[string]trend.Product)
	for _, product := range products {
		byID[product.ID] = product
	}
	require.Contains(t, byID, "youtube_yt1")
	require.Contains(t, byID, "amazon_B001")

	assert.Greater(t, byID["youtube_yt1"].TrendScore, byID["amazon_B001"].TrendScore)
	assert.Equal(t, []string{"wireless headphones"}, youtube.gotQuery.Keywords)
	assert.Equal(t, []string{"#wirelessheadphones"}, youtube.gotQuery.Hashtags)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, -7), amazon.gotStart, time.Minute)
}

func TestAggregateProductTrends_PlatformFailureIsIsolated(t *testing.T) {
	service := newBareService()
	service.social = []trend.SocialSource{
		&fakeSocialSource{platform: "tiktok", err: errors.New("rate limited")},
		&fakeSocialSource{
			platform: "youtube",
			posts:    []trend.SocialPost{youtubePost("yt1", "Standing Desk", 1000, 100)},
		},
	}

	products, err := service.AggregateProductTrends(context.Background(), []string{"desk"}, nil, 7)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "youtube_yt1", products[0].ID)
}

func TestAggregateProductTrends_PlatformPanicIsIsolated(t *testing.T) {
	service := newBareService()
	service.social = []trend.SocialSource{
		&fakeSocialSource{platform: "pinterest", panics: true},
		&fakeSocialSource{
			platform: "youtube",
			posts:    []trend.SocialPost{youtubePost("yt1", "Air Fryer", 1000, 100)},
		},
	}

	products, err := service.AggregateProductTrends(context.Background(), []string{"air fryer"}, nil, 7)
	require.NoError(t, err)
	require.Len(t, products, 1)
}

func TestAggregateProductTrends_NoSources(t *testing.T) {
	service := newBareService()

	products, err := service.AggregateProductTrends(context.Background(), []string{"anything"}, nil, 7)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestAggregateProductTrends_EnrichesWithPredictions(t *testing.T) {
	service := newBareService()
	service.social = []trend.SocialSource{
		&fakeSocialSource{
			platform: "youtube",
			posts:    []trend.SocialPost{youtubePost("yt1", "Robot Vacuum", 1000, 100)},
		},
	}
	predictor := &fakePredictor{
		predictions: []trend.ModelPrediction{
			{ProductID: "youtube_yt1", TrendScore: 0.9, TrendDirection: "rising", Confidence: 0.8},
			{ProductID: "someone_else", TrendScore: 0.1},
		},
	}
	service.predictor = predictor

	products, err := service.AggregateProductTrends(context.Background(), []string{"vacuum"}, nil, 7)
	require.NoError(t, err)
	require.Len(t, products, 1)

	require.NotNil(t, products[0].Prediction)
	assert.Equal(t, "rising", products[0].Prediction.TrendDirection)
	assert.Len(t, predictor.gotProducts, 1)
}

func TestProductByID(t *testing.T) {
	service := newBareService()
	service.social = []trend.SocialSource{
		&fakeSocialSource{
			platform: "youtube",
			posts:    []trend.SocialPost{youtubePost("yt1", "Gaming Laptop", 1000, 100)},
		},
	}

	t.Run("found", func(t *testing.T) {
		product, err := service.ProductByID(context.Background(), "youtube_yt1")
		require.NoError(t, err)
		assert.Equal(t, "Gaming Laptop", product.Name)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := service.ProductByID(context.Background(), "youtube_missing")
		assert.ErrorIs(t, err, trend.ErrProductNotFound)
	})
}

func TestProductHistory_DisabledWithoutStore(t *testing.T) {
	service := newBareService()

	_, err := service.ProductHistory(context.Background(), "youtube_yt1", 30)
	assert.ErrorIs(t, err, trend.ErrHistoryDisabled)
}

func TestBuildReport(t *testing.T) {
	service := newBareService()

	products := make([]trend.Product, 0, 25)
	for i := 0; i < 25; i++ {
		product := trend.Product{
			ID:         fmt.Sprintf("youtube_v%d", i),
			Name:       fmt.Sprintf("Product %d", i),
			Category:   "Electronics",
			Platforms:  []string{"youtube"},
			TrendScore: float64(i) / 25.0,
			Status:     trend.StatusStable,
		}
		if i%5 == 0 {
			product.Status = trend.StatusEmerging
		}
		products = append(products, product)
	}
	products[3].Category = "Fashion"
	products[3].Platforms = []string{"tiktok"}

	report := service.buildReport(products, trend.UserTypeMerchant)

	assert.Equal(t, trend.UserTypeMerchant, report.UserType)
	assert.Contains(t, report.ReportID, "report_")

	require.Len(t, report.TopTrending, 20)
	assert.Equal(t, "Product 24", report.TopTrending[0].Name)
	assert.GreaterOrEqual(t, report.TopTrending[0].TrendScore, report.TopTrending[19].TrendScore)

	// Emerging products keep their analysis order.
	require.Len(t, report.EmergingTrends, 5)
	assert.Equal(t, "Product 0", report.EmergingTrends[0].Name)

	assert.Equal(t, 24, report.CategoryBreakdown["Electronics"])
	assert.Equal(t, 1, report.CategoryBreakdown["Fashion"])

	require.Contains(t, report.PlatformAnalysis, "youtube")
	require.Contains(t, report.PlatformAnalysis, "tiktok")
	assert.NotContains(t, report.PlatformAnalysis, "amazon")
	assert.Equal(t, 24, report.PlatformAnalysis["youtube"].ProductCount)

	assert.NotNil(t, report.Predictions)
	assert.NotNil(t, report.UpcomingEvents)
	assert.NotEmpty(t, report.Insights)
}

func TestBuildInsights(t *testing.T) {
	t.Run("no products", func(t *testing.T) {
		insights := buildInsights(nil, trend.UserTypeMerchant)
		assert.Equal(t, []string{"No trending products found in the specified criteria."}, insights)
	})

	products := []trend.Product{
		{Name: "A", Platforms: []string{"youtube"}, TrendScore: 0.8, ViralVelocity: 0.9, Status: trend.StatusEmerging},
		{Name: "B", Platforms: []string{"youtube"}, TrendScore: 0.6, ViralVelocity: 0.1, Status: trend.StatusPeak},
		{Name: "C", Platforms: []string{"amazon"}, TrendScore: 0.4, ViralVelocity: 0.2, Status: trend.StatusStable},
	}

	t.Run("merchant", func(t *testing.T) {
		insights := buildInsights(products, trend.UserTypeMerchant)
		assert.Contains(t, insights, "Average trend score across 3 products: 0.60")
		assert.Contains(t, insights, "Youtube has the most trending products (2 products)")
		assert.Contains(t, insights, "1 emerging trends detected - opportunity for early positioning")
		assert.Contains(t, insights, "1 products showing high viral velocity - act quickly")
	})

	t.Run("consumer", func(t *testing.T) {
		insights := buildInsights(products, trend.UserTypeConsumer)
		assert.Contains(t, insights, "1 products at peak popularity - high social proof")
		assert.Contains(t, insights, "Check product comparisons for best deals across platforms")
		assert.NotContains(t, insights, "1 emerging trends detected - opportunity for early positioning")
	})
}

func TestGenerateReport_DefaultKeywords(t *testing.T) {
	service := newBareService()
	youtube := &fakeSocialSource{platform: "youtube"}
	service.social = []trend.SocialSource{youtube}

	report, err := service.GenerateReport(context.Background(), trend.UserTypeConsumer, nil, 7)
	require.NoError(t, err)

	assert.Equal(t, []string{"trending", "popular", "viral"}, youtube.gotQuery.Keywords)
	assert.Equal(t, []string{"No trending products found in the specified criteria."}, report.Insights)
}

func TestTrendingCategories(t *testing.T) {
	service := newBareService()
	service.social = []trend.SocialSource{
		&fakeSocialSource{
			platform: "youtube",
			posts: []trend.SocialPost{
				youtubePost("yt1", "Flagship Phone", 10000000, 10000000),
				youtubePost("yt2", "Mystery Novel", 1000, 10),
			},
		},
	}

	categories, err := service.TrendingCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 2)

	assert.Equal(t, "Electronics", categories[0].Category)
	assert.Equal(t, "General", categories[1].Category)
	assert.Greater(t, categories[0].AvgTrendScore, categories[1].AvgTrendScore)
	assert.Equal(t, 1, categories[0].ProductCount)
}

func TestCategoryMomentum(t *testing.T) {
	assert.Equal(t, "rising", categoryMomentum(0.71))
	assert.Equal(t, "stable", categoryMomentum(0.7))
	assert.Equal(t, "stable", categoryMomentum(0.1))
}
