// internal/adapter/commerce/target.go

package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"trendradar/internal/config"
	"trendradar/internal/domain/trend"
)

// TargetClient ingests product sales from the Target partner API
type TargetClient struct {
	HTTPClient *http.Client
	BaseURL    string
	apiKey     string
	logger     *zap.Logger
}

type targetSalesRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type targetSalesResponse struct {
	Products []struct {
		TCIN      string  `json:"tcin"`
		Title     string  `json:"title"`
		UnitsSold int64   `json:"units_sold"`
		Revenue   float64 `json:"revenue"`
	} `json:"products"`
}

// NewTargetClient creates a Target partner API client
func NewTargetClient(apiKey string, logger *zap.Logger) *TargetClient {
	return &TargetClient{
		HTTPClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: config.SupportedPlatforms["target"].APIEndpoint,
		apiKey:  apiKey,
		logger:  logger,
	}
}

// Platform returns the registry key of the platform
func (c *TargetClient) Platform() string { return "target" }

// Fetch returns product sales for the date range.
func (c *TargetClient) Fetch(ctx context.Context, start, end time.Time) ([]trend.SalesRecord, error) {
	payload := targetSalesRequest{
		StartDate: start.Format(time.RFC3339),
		EndDate:   end.Format(time.RFC3339),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode sales request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/products/v1/sales", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Target API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("target sales returned non-200", zap.Int("status", resp.StatusCode))
		return nil, nil
	}

	var parsed targetSalesResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode Target response: %w", err)
	}

	now := time.Now().UTC()
	var records []trend.SalesRecord
	for _, product := range parsed.Products {
		records = append(records, trend.SalesRecord{
			Platform:    "target",
			ProductID:   product.TCIN,
			ProductName: product.Title,
			Sales:       product.UnitsSold,
			Revenue:     product.Revenue,
			Timestamp:   now,
		})
	}

	c.logger.Info("ingested target sales", zap.Int("count", len(records)))
	return records, nil
}
