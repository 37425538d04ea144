// internal/adapter/commerce/etsy.go

package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"trendradar/internal/config"
	"trendradar/internal/domain/trend"
)

// EtsyClient ingests shop receipts from the Etsy v3 API
type EtsyClient struct {
	HTTPClient *http.Client
	BaseURL    string
	apiKey     string
	logger     *zap.Logger
}

type etsyReceiptsResponse struct {
	Results []struct {
		CreatedTimestamp int64 `json:"created_timestamp"`
		Transactions     []struct {
			ListingID int64  `json:"listing_id"`
			Title     string `json:"title"`
			Quantity  int64  `json:"quantity"`
			Price     struct {
				Amount float64 `json:"amount"`
			} `json:"price"`
		} `json:"transactions"`
	} `json:"results"`
}

// NewEtsyClient creates an Etsy API client
func NewEtsyClient(apiKey string, logger *zap.Logger) *EtsyClient {
	return &EtsyClient{
		HTTPClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: config.SupportedPlatforms["etsy"].APIEndpoint,
		apiKey:  apiKey,
		logger:  logger,
	}
}

// Platform returns the registry key of the platform
func (c *EtsyClient) Platform() string { return "etsy" }

// Fetch returns receipt transactions created in the date range.
func (c *EtsyClient) Fetch(ctx context.Context, start, end time.Time) ([]trend.SalesRecord, error) {
	params := url.Values{}
	params.Set("min_created", strconv.FormatInt(start.Unix(), 10))
	params.Set("max_created", strconv.FormatInt(end.Unix(), 10))
	params.Set("limit", "100")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/application/shops/receipts?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Etsy API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("etsy receipts returned non-200", zap.Int("status", resp.StatusCode))
		return nil, nil
	}

	var parsed etsyReceiptsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode Etsy response: %w", err)
	}

	var records []trend.SalesRecord
	for _, receipt := range parsed.Results {
		timestamp := time.Unix(receipt.CreatedTimestamp, 0).UTC()
		for _, transaction := range receipt.Transactions {
			records = append(records, trend.SalesRecord{
				Platform:    "etsy",
				ProductID:   strconv.FormatInt(transaction.ListingID, 10),
				ProductName: transaction.Title,
				Sales:       transaction.Quantity,
				Revenue:     transaction.Price.Amount,
				Timestamp:   timestamp,
			})
		}
	}

	c.logger.Info("ingested etsy sales", zap.Int("count", len(records)))
	return records, nil
}
