// internal/observability/metrics.go

package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"go.uber.org/zap"
)

// Collector sends application metrics to CloudWatch. Every Record method is a
// no-op when the collector is disabled or has no client, so callers can
// instrument unconditionally.
type Collector struct {
	namespace string
	client    *cloudwatch.Client
	enabled   bool
	logger    *zap.Logger
}

// NewCollector creates a metrics collector publishing under the given
// namespace. Pass a nil client or enabled=false to disable publishing.
func NewCollector(namespace string, client *cloudwatch.Client, enabled bool, logger *zap.Logger) *Collector {
	return &Collector{
		namespace: namespace,
		client:    client,
		enabled:   enabled,
		logger:    logger,
	}
}

func (c *Collector) disabled() bool {
	return c == nil || !c.enabled || c.client == nil
}

// RecordAPICall records latency and call count for a single HTTP request.
func (c *Collector) RecordAPICall(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	if c.disabled() {
		return
	}

	now := time.Now()
	c.put(ctx, []types.MetricDatum{
		{
			MetricName: aws.String("APILatency"),
			Dimensions: []types.Dimension{
				{
					Name:  aws.String("Endpoint"),
					Value: aws.String(endpoint),
				},
				{
					Name:  aws.String("StatusCode"),
					Value: aws.String(strconv.Itoa(statusCode)),
				},
			},
			Value:     aws.Float64(float64(duration.Milliseconds())),
			Unit:      types.StandardUnitMilliseconds,
			Timestamp: aws.Time(now),
		},
		{
			MetricName: aws.String("APICallCount"),
			Dimensions: []types.Dimension{
				{
					Name:  aws.String("Endpoint"),
					Value: aws.String(endpoint),
				},
			},
			Value:     aws.Float64(1),
			Unit:      types.StandardUnitCount,
			Timestamp: aws.Time(now),
		},
	})
}

// RecordTrendAnalysis records the outcome of one aggregation pass.
func (c *Collector) RecordTrendAnalysis(ctx context.Context, productCount int, avgScore float64, processingTime time.Duration) {
	if c.disabled() {
		return
	}

	now := time.Now()
	c.put(ctx, []types.MetricDatum{
		{
			MetricName: aws.String("ProductsAnalyzed"),
			Value:      aws.Float64(float64(productCount)),
			Unit:       types.StandardUnitCount,
			Timestamp:  aws.Time(now),
		},
		{
			MetricName: aws.String("AverageTrendScore"),
			Value:      aws.Float64(avgScore),
			Unit:       types.StandardUnitNone,
			Timestamp:  aws.Time(now),
		},
		{
			MetricName: aws.String("AnalysisProcessingTime"),
			Value:      aws.Float64(float64(processingTime.Milliseconds())),
			Unit:       types.StandardUnitMilliseconds,
			Timestamp:  aws.Time(now),
		},
	})
}

// RecordPlatformFetch records the result of one upstream platform fetch.
func (c *Collector) RecordPlatformFetch(ctx context.Context, platform string, itemCount int, success bool) {
	if c.disabled() {
		return
	}

	outcome := 0.0
	if success {
		outcome = 1
	}

	now := time.Now()
	c.put(ctx, []types.MetricDatum{
		{
			MetricName: aws.String("PlatformFetchSuccess"),
			Dimensions: []types.Dimension{
				{
					Name:  aws.String("Platform"),
					Value: aws.String(platform),
				},
			},
			Value:     aws.Float64(outcome),
			Unit:      types.StandardUnitCount,
			Timestamp: aws.Time(now),
		},
		{
			MetricName: aws.String("ItemsFetched"),
			Dimensions: []types.Dimension{
				{
					Name:  aws.String("Platform"),
					Value: aws.String(platform),
				},
			},
			Value:     aws.Float64(float64(itemCount)),
			Unit:      types.StandardUnitCount,
			Timestamp: aws.Time(now),
		},
	})
}

func (c *Collector) put(ctx context.Context, data []types.MetricDatum) {
	input := &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(c.namespace),
		MetricData: data,
	}
	if _, err := c.client.PutMetricData(ctx, input); err != nil {
		c.logger.Warn("failed to record metrics", zap.Error(err))
	}
}
