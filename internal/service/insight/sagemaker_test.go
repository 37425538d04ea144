package insight

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trendradar/internal/domain/trend"
)

type fakeEndpointInvoker struct {
	input *sagemakerruntime.InvokeEndpointInput
	body  string
	err   error
}

func (f *fakeEndpointInvoker) InvokeEndpoint(ctx context.Context, params *sagemakerruntime.InvokeEndpointInput, optFns ...func(*sagemakerruntime.Options)) (*sagemakerruntime.InvokeEndpointOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	return &sagemakerruntime.InvokeEndpointOutput{Body: []byte(f.body)}, nil
}

func TestPredictor_PredictTrend(t *testing.T) {
	runtime := &fakeEndpointInvoker{
		body: `{"predictions": [[0.85]], "confidence": 0.9, "model_version": "2.1"}`,
	}
	predictor := NewPredictor(runtime, "trend-prediction-endpoint", zap.NewNop())

	series := make([]float64, 35)
	for i := range series {
		series[i] = float64(i)
	}

	prediction := predictor.PredictTrend(context.Background(), Features{
		EngagementRate: 0.02,
		GrowthRate:     0.4,
		PlatformCount:  3,
	}, series)

	assert.Equal(t, 0.85, prediction.TrendScore)
	assert.Equal(t, "strongly_rising", prediction.TrendDirection)
	assert.Equal(t, 0.9, prediction.Confidence)
	assert.Equal(t, "2.1", prediction.ModelVersion)
	assert.Empty(t, prediction.Error)

	require.NotNil(t, runtime.input)
	assert.Equal(t, "trend-prediction-endpoint", aws.ToString(runtime.input.EndpointName))
	assert.Equal(t, "application/json", aws.ToString(runtime.input.ContentType))

	var request struct {
		Features struct {
			EngagementRate float64 `json:"engagement_rate"`
			GrowthRate     float64 `json:"growth_rate"`
			PlatformCount  int     `json:"platform_count"`
		} `json:"features"`
		TimeSeries []float64 `json:"time_series"`
	}
	require.NoError(t, json.Unmarshal(runtime.input.Body, &request))
	assert.Equal(t, 0.02, request.Features.EngagementRate)
	assert.Equal(t, 3, request.Features.PlatformCount)
	require.Len(t, request.TimeSeries, 30)
	assert.Equal(t, 5.0, request.TimeSeries[0])
	assert.Equal(t, 34.0, request.TimeSeries[29])
}

func TestPredictor_PredictTrend_ScalarPrediction(t *testing.T) {
	runtime := &fakeEndpointInvoker{body: `{"predictions": [0.45]}`}
	predictor := NewPredictor(runtime, "ep", zap.NewNop())

	prediction := predictor.PredictTrend(context.Background(), Features{}, nil)

	assert.Equal(t, 0.45, prediction.TrendScore)
	assert.Equal(t, "stable", prediction.TrendDirection)
	assert.Equal(t, 0.5, prediction.Confidence)
	assert.Equal(t, "1.0", prediction.ModelVersion)
}

func TestPredictor_PredictTrend_ErrorFallsBack(t *testing.T) {
	runtime := &fakeEndpointInvoker{err: errors.New("endpoint not in service")}
	predictor := NewPredictor(runtime, "ep", zap.NewNop())

	prediction := predictor.PredictTrend(context.Background(), Features{}, nil)

	assert.Equal(t, 0.5, prediction.TrendScore)
	assert.Equal(t, "stable", prediction.TrendDirection)
	assert.Equal(t, 0.0, prediction.Confidence)
	assert.Equal(t, "Prediction service unavailable", prediction.Error)
}

func TestTrendDirection(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0.9, "strongly_rising"},
		{0.8, "rising"},
		{0.7, "rising"},
		{0.5, "stable"},
		{0.4, "declining"},
		{0.3, "declining"},
		{0.1, "strongly_declining"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, trendDirection(tt.score), "score %v", tt.score)
	}
}

func TestPredictor_BatchPredict(t *testing.T) {
	runtime := &fakeEndpointInvoker{body: `{"predictions": [0.65]}`}
	predictor := NewPredictor(runtime, "ep", zap.NewNop())

	products := []trend.Product{
		{
			ID:        "amazon_B001",
			Platforms: []string{"amazon", "tiktok"},
			Price:     19.99,
			FirstSeen: time.Now().AddDate(0, 0, -3),
			PlatformMetrics: map[string]trend.PlatformMetrics{
				"tiktok": {EngagementCount: 5000, Views: 100000, GrowthRate: 0.05},
			},
		},
		{ID: "etsy_123", FirstSeen: time.Now()},
	}

	predictions := predictor.BatchPredict(context.Background(), products)

	require.Len(t, predictions, 2)
	assert.Equal(t, "amazon_B001", predictions[0].ProductID)
	assert.Equal(t, "etsy_123", predictions[1].ProductID)
	assert.Equal(t, 0.65, predictions[0].TrendScore)
	assert.Equal(t, "rising", predictions[0].TrendDirection)
}

func TestExtractFeatures(t *testing.T) {
	product := trend.Product{
		Platforms:   []string{"tiktok", "youtube"},
		Price:       34.5,
		ReviewCount: 120,
		Rating:      4.3,
		FirstSeen:   time.Now().AddDate(0, 0, -5),
		PlatformMetrics: map[string]trend.PlatformMetrics{
			"tiktok":  {EngagementCount: 2000, Views: 50000, GrowthRate: 0.04},
			"youtube": {EngagementCount: 1000, Views: 50000, GrowthRate: 0.02},
		},
	}

	features := extractFeatures(product)

	assert.InDelta(t, 0.03, features.EngagementRate, 1e-9)
	assert.InDelta(t, 0.06, features.GrowthRate, 1e-9)
	assert.Equal(t, 2, features.PlatformCount)
	assert.Equal(t, 34.5, features.Price)
	assert.Equal(t, 120, features.ReviewCount)
	assert.Equal(t, 4.3, features.Rating)
	assert.Equal(t, 5, features.DaysTrending)
}

func TestExtractFeatures_NoViews(t *testing.T) {
	features := extractFeatures(trend.Product{
		PlatformMetrics: map[string]trend.PlatformMetrics{
			"pinterest": {EngagementCount: 40},
		},
		FirstSeen: time.Now(),
	})

	assert.Equal(t, 40.0, features.EngagementRate)
}

func TestPredictor_ForecastDemand(t *testing.T) {
	runtime := &fakeEndpointInvoker{
		body: `{"predictions": [10, 20, 30, 20, 10], "confidence_intervals": {"p90": [12, 24, 36, 24, 12]}}`,
	}
	predictor := NewPredictor(runtime, "ep", zap.NewNop())

	forecast, err := predictor.ForecastDemand(context.Background(), "prod-9", []int{8, 12, 15}, 30)

	require.NoError(t, err)
	assert.Equal(t, "prod-9", forecast.ProductID)
	assert.Equal(t, []float64{10, 20, 30, 20, 10}, forecast.Forecast)
	assert.Equal(t, []float64{12, 24, 36, 24, 12}, forecast.ConfidenceIntervals["p90"])
	assert.Equal(t, 33, forecast.RecommendedStock)

	require.NotNil(t, forecast.PeakDemandDate)
	wantPeak := time.Now().UTC().AddDate(0, 0, 2)
	assert.WithinDuration(t, wantPeak, *forecast.PeakDemandDate, time.Minute)

	var request struct {
		ProductID       string `json:"product_id"`
		HistoricalSales []int  `json:"historical_sales"`
		ForecastHorizon int    `json:"forecast_horizon"`
	}
	require.NoError(t, json.Unmarshal(runtime.input.Body, &request))
	assert.Equal(t, "prod-9", request.ProductID)
	assert.Equal(t, []int{8, 12, 15}, request.HistoricalSales)
	assert.Equal(t, 30, request.ForecastHorizon)
}

func TestPredictor_ForecastDemand_ErrorPropagates(t *testing.T) {
	runtime := &fakeEndpointInvoker{err: errors.New("model loading")}
	predictor := NewPredictor(runtime, "ep", zap.NewNop())

	forecast, err := predictor.ForecastDemand(context.Background(), "prod-9", nil, 30)

	require.Error(t, err)
	assert.Nil(t, forecast)
}

func TestRecommendStock_Empty(t *testing.T) {
	assert.Equal(t, 0, recommendStock(nil))
}

func TestFindPeakDate_Empty(t *testing.T) {
	assert.Nil(t, findPeakDate(nil))
}
