// internal/service/insight/sagemaker.go

package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
	"go.uber.org/zap"

	"trendradar/internal/domain/trend"
)

// EndpointInvoker is the subset of the SageMaker runtime client the
// predictor uses.
type EndpointInvoker interface {
	InvokeEndpoint(ctx context.Context, params *sagemakerruntime.InvokeEndpointInput, optFns ...func(*sagemakerruntime.Options)) (*sagemakerruntime.InvokeEndpointOutput, error)
}

// Features are the model inputs extracted from one aggregated product
type Features struct {
	EngagementRate float64 `json:"engagement_rate"`
	GrowthRate     float64 `json:"growth_rate"`
	PlatformCount  int     `json:"platform_count"`
	Price          float64 `json:"price"`
	ReviewCount    int     `json:"review_count"`
	Rating         float64 `json:"rating"`
	DaysTrending   int     `json:"days_trending"`
}

// Predictor scores products against the trend inference endpoint
type Predictor struct {
	runtime  EndpointInvoker
	endpoint string
	logger   *zap.Logger
}

// NewPredictor creates a SageMaker predictor for the named endpoint
func NewPredictor(runtime EndpointInvoker, endpoint string, logger *zap.Logger) *Predictor {
	return &Predictor{
		runtime:  runtime,
		endpoint: endpoint,
		logger:   logger,
	}
}

type endpointRequest struct {
	Features   Features  `json:"features"`
	TimeSeries []float64 `json:"time_series"`
	Timestamp  string    `json:"timestamp"`
}

type endpointResponse struct {
	Predictions         []json.RawMessage    `json:"predictions"`
	Confidence          *float64             `json:"confidence"`
	ConfidenceIntervals map[string][]float64 `json:"confidence_intervals"`
	ModelVersion        string               `json:"model_version"`
}

// PredictTrend scores one feature vector. The time series is truncated
// to its most recent 30 points. Any endpoint failure yields the
// fallback prediction.
func (p *Predictor) PredictTrend(ctx context.Context, features Features, timeSeries []float64) trend.ModelPrediction {
	if len(timeSeries) > 30 {
		timeSeries = timeSeries[len(timeSeries)-30:]
	}

	result, err := p.invoke(ctx, endpointRequest{
		Features:   features,
		TimeSeries: timeSeries,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		p.logger.Error("sagemaker prediction failed", zap.Error(err))
		return fallbackModelPrediction()
	}

	prediction := parseModelPrediction(result)
	p.logger.Info("sagemaker prediction completed", zap.String("direction", prediction.TrendDirection))
	return prediction
}

// BatchPredict scores every product and maps each prediction back to
// its product ID.
func (p *Predictor) BatchPredict(ctx context.Context, products []trend.Product) []trend.ModelPrediction {
	predictions := make([]trend.ModelPrediction, 0, len(products))

	for _, product := range products {
		prediction := p.PredictTrend(ctx, extractFeatures(product), nil)
		prediction.ProductID = product.ID
		predictions = append(predictions, prediction)
	}

	return predictions
}

// ForecastDemand projects daily demand for inventory planning from a
// product's sales history.
func (p *Predictor) ForecastDemand(ctx context.Context, productID string, historicalSales []int, daysAhead int) (*trend.DemandForecast, error) {
	body, err := json.Marshal(map[string]interface{}{
		"product_id":       productID,
		"historical_sales": historicalSales,
		"forecast_horizon": daysAhead,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode forecast request: %w", err)
	}

	output, err := p.runtime.InvokeEndpoint(ctx, &sagemakerruntime.InvokeEndpointInput{
		EndpointName: aws.String(p.endpoint),
		ContentType:  aws.String("application/json"),
		Body:         body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke forecast endpoint: %w", err)
	}

	var result struct {
		Predictions         []float64            `json:"predictions"`
		ConfidenceIntervals map[string][]float64 `json:"confidence_intervals"`
	}
	if err := json.Unmarshal(output.Body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode forecast response: %w", err)
	}

	intervals := result.ConfidenceIntervals
	if intervals == nil {
		intervals = map[string][]float64{}
	}

	return &trend.DemandForecast{
		ProductID:           productID,
		Forecast:            result.Predictions,
		ConfidenceIntervals: intervals,
		RecommendedStock:    recommendStock(result.Predictions),
		PeakDemandDate:      findPeakDate(result.Predictions),
	}, nil
}

func (p *Predictor) invoke(ctx context.Context, request endpointRequest) (*endpointResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode prediction request: %w", err)
	}

	output, err := p.runtime.InvokeEndpoint(ctx, &sagemakerruntime.InvokeEndpointInput{
		EndpointName: aws.String(p.endpoint),
		ContentType:  aws.String("application/json"),
		Body:         body,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke endpoint: %w", err)
	}

	var result endpointResponse
	if err := json.Unmarshal(output.Body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode prediction response: %w", err)
	}

	return &result, nil
}

func extractFeatures(product trend.Product) Features {
	var growth float64
	for _, metrics := range product.PlatformMetrics {
		growth += metrics.GrowthRate
	}

	views := product.TotalViews()
	if views < 1 {
		views = 1
	}

	return Features{
		EngagementRate: float64(product.TotalEngagement()) / float64(views),
		GrowthRate:     growth,
		PlatformCount:  len(product.Platforms),
		Price:          product.Price,
		ReviewCount:    product.ReviewCount,
		Rating:         product.Rating,
		DaysTrending:   int(time.Since(product.FirstSeen).Hours() / 24),
	}
}

// parseModelPrediction reads the first prediction, which the endpoint
// may return as a bare number or a nested array.
func parseModelPrediction(result *endpointResponse) trend.ModelPrediction {
	score := 0.5
	if len(result.Predictions) > 0 {
		var nested []float64
		if err := json.Unmarshal(result.Predictions[0], &nested); err == nil && len(nested) > 0 {
			score = nested[0]
		} else {
			var single float64
			if err := json.Unmarshal(result.Predictions[0], &single); err == nil {
				score = single
			}
		}
	}

	confidence := 0.5
	if result.Confidence != nil {
		confidence = *result.Confidence
	}

	version := result.ModelVersion
	if version == "" {
		version = "1.0"
	}

	return trend.ModelPrediction{
		TrendScore:     score,
		TrendDirection: trendDirection(score),
		Confidence:     confidence,
		PredictedAt:    time.Now().UTC(),
		ModelVersion:   version,
	}
}

func trendDirection(score float64) string {
	switch {
	case score > 0.8:
		return "strongly_rising"
	case score > 0.6:
		return "rising"
	case score > 0.4:
		return "stable"
	case score > 0.2:
		return "declining"
	default:
		return "strongly_declining"
	}
}

func recommendStock(predictions []float64) int {
	if len(predictions) == 0 {
		return 0
	}

	var sum float64
	peak := predictions[0]
	for _, demand := range predictions {
		sum += demand
		if demand > peak {
			peak = demand
		}
	}
	avg := sum / float64(len(predictions))

	// Safety stock is 1.5x average demand plus half the peak overshoot.
	recommended := int(avg*1.5 + (peak-avg)*0.5)
	if recommended < 0 {
		return 0
	}
	return recommended
}

func findPeakDate(predictions []float64) *time.Time {
	if len(predictions) == 0 {
		return nil
	}

	peakIndex := 0
	for i, demand := range predictions {
		if demand > predictions[peakIndex] {
			peakIndex = i
		}
	}

	peak := time.Now().UTC().AddDate(0, 0, peakIndex)
	return &peak
}

func fallbackModelPrediction() trend.ModelPrediction {
	return trend.ModelPrediction{
		TrendScore:     0.5,
		TrendDirection: "stable",
		Confidence:     0.0,
		PredictedAt:    time.Now().UTC(),
		Error:          "Prediction service unavailable",
	}
}
