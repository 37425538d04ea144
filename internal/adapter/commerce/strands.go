// internal/adapter/commerce/strands.go

package commerce

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"trendradar/internal/domain/trend"
)

// StrandsClient ingests Amazon sales data through the Strands API
type StrandsClient struct {
	HTTPClient  *http.Client
	BaseURL     string
	apiKey      string
	workspaceID string
	logger      *zap.Logger
}

type strandsIngestRequest struct {
	WorkspaceID string   `json:"workspace_id"`
	Source      string   `json:"source"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	Metrics     []string `json:"metrics"`
}

type strandsIngestResponse struct {
	Items []struct {
		ProductID      string  `json:"product_id"`
		Name           string  `json:"name"`
		Sales          int64   `json:"sales"`
		Revenue        float64 `json:"revenue"`
		UnitsSold      int64   `json:"units_sold"`
		Views          int64   `json:"views"`
		ConversionRate float64 `json:"conversion_rate"`
		Timestamp      string  `json:"timestamp"`
	} `json:"items"`
}

// NewStrandsClient creates a Strands ingestion client for Amazon sales
func NewStrandsClient(apiKey, workspaceID, baseURL string, logger *zap.Logger) *StrandsClient {
	return &StrandsClient{
		HTTPClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL:     baseURL,
		apiKey:      apiKey,
		workspaceID: workspaceID,
		logger:      logger,
	}
}

// Platform returns the registry key of the platform
func (c *StrandsClient) Platform() string { return "amazon" }

// Fetch ingests Amazon sales observed between start and end.
func (c *StrandsClient) Fetch(ctx context.Context, start, end time.Time) ([]trend.SalesRecord, error) {
	payload := strandsIngestRequest{
		WorkspaceID: c.workspaceID,
		Source:      "amazon",
		StartDate:   start.Format(time.RFC3339),
		EndDate:     end.Format(time.RFC3339),
		Metrics:     []string{"sales", "revenue", "units_sold", "views"},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ingest request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/data/ingest", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Strands API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("amazon sales ingestion failed", zap.Int("status", resp.StatusCode))
		return nil, nil
	}

	var parsed strandsIngestResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode Strands response: %w", err)
	}

	var records []trend.SalesRecord
	for _, item := range parsed.Items {
		timestamp, err := time.Parse(time.RFC3339, item.Timestamp)
		if err != nil {
			timestamp = time.Now().UTC()
		}
		records = append(records, trend.SalesRecord{
			Platform:       "amazon",
			ProductID:      item.ProductID,
			ProductName:    item.Name,
			Sales:          item.Sales,
			Revenue:        item.Revenue,
			UnitsSold:      item.UnitsSold,
			Views:          item.Views,
			ConversionRate: item.ConversionRate,
			Timestamp:      timestamp,
		})
	}

	c.logger.Info("ingested amazon sales", zap.Int("count", len(records)))
	return records, nil
}
