// internal/adapter/commerce/walmart.go

package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trendradar/internal/domain/trend"
)

// WalmartClient ingests item insights from the Walmart marketplace API
type WalmartClient struct {
	HTTPClient  *http.Client
	BaseURL     string
	accessToken string
	logger      *zap.Logger
}

type walmartInsightsResponse struct {
	Elements []struct {
		ItemID         int64   `json:"itemId"`
		ProductName    string  `json:"productName"`
		OrderedUnits   int64   `json:"orderedUnits"`
		OrderedRevenue float64 `json:"orderedRevenue"`
		PageViews      int64   `json:"pageViews"`
	} `json:"elements"`
}

// NewWalmartClient creates a Walmart marketplace API client
func NewWalmartClient(accessToken string, logger *zap.Logger) *WalmartClient {
	return &WalmartClient{
		HTTPClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL:     "https://marketplace.walmartapis.com",
		accessToken: accessToken,
		logger:      logger,
	}
}

// Platform returns the registry key of the platform
func (c *WalmartClient) Platform() string { return "walmart" }

// Fetch returns item insights for the date range.
func (c *WalmartClient) Fetch(ctx context.Context, start, end time.Time) ([]trend.SalesRecord, error) {
	params := url.Values{}
	params.Set("startDate", start.Format("2006-01-02"))
	params.Set("endDate", end.Format("2006-01-02"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v3/insights/items?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("WM_SVC.NAME", "Walmart Marketplace")
	req.Header.Set("WM_QOS.CORRELATION_ID", uuid.New().String())
	req.Header.Set("WM_SEC.ACCESS_TOKEN", c.accessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Walmart API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("walmart insights returned non-200", zap.Int("status", resp.StatusCode))
		return nil, nil
	}

	var parsed walmartInsightsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode Walmart response: %w", err)
	}

	now := time.Now().UTC()
	var records []trend.SalesRecord
	for _, item := range parsed.Elements {
		records = append(records, trend.SalesRecord{
			Platform:    "walmart",
			ProductID:   strconv.FormatInt(item.ItemID, 10),
			ProductName: item.ProductName,
			Sales:       item.OrderedUnits,
			Revenue:     item.OrderedRevenue,
			Views:       item.PageViews,
			Timestamp:   now,
		})
	}

	c.logger.Info("ingested walmart sales", zap.Int("count", len(records)))
	return records, nil
}
