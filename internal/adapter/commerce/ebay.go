// internal/adapter/commerce/ebay.go

package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"trendradar/internal/domain/trend"
)

// EbayClient ingests inventory items from the eBay sell API
type EbayClient struct {
	HTTPClient *http.Client
	BaseURL    string
	appID      string
	logger     *zap.Logger
}

type ebayInventoryResponse struct {
	InventoryItems []struct {
		SKU     string `json:"sku"`
		Product struct {
			Title   string `json:"title"`
			Aspects struct {
				Price float64 `json:"price"`
			} `json:"aspects"`
		} `json:"product"`
		Availability struct {
			ShipToLocationAvailability struct {
				Quantity int64 `json:"quantity"`
			} `json:"shipToLocationAvailability"`
		} `json:"availability"`
	} `json:"inventoryItems"`
}

// NewEbayClient creates an eBay sell API client
func NewEbayClient(appID string, logger *zap.Logger) *EbayClient {
	return &EbayClient{
		HTTPClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: "https://api.ebay.com",
		appID:   appID,
		logger:  logger,
	}
}

// Platform returns the registry key of the platform
func (c *EbayClient) Platform() string { return "ebay" }

// Fetch returns inventory items modified in the date range.
func (c *EbayClient) Fetch(ctx context.Context, start, end time.Time) ([]trend.SalesRecord, error) {
	params := url.Values{}
	params.Set("filter", fmt.Sprintf("lastModifiedDate:[%s..%s]",
		start.Format(time.RFC3339), end.Format(time.RFC3339)))
	params.Set("fieldgroups", "COMPACT")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/sell/inventory/v1/inventory_item?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.appID)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to eBay API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("ebay inventory returned non-200", zap.Int("status", resp.StatusCode))
		return nil, nil
	}

	var parsed ebayInventoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode eBay response: %w", err)
	}

	now := time.Now().UTC()
	var records []trend.SalesRecord
	for _, item := range parsed.InventoryItems {
		records = append(records, trend.SalesRecord{
			Platform:          "ebay",
			ProductID:         item.SKU,
			ProductName:       item.Product.Title,
			AvailableQuantity: item.Availability.ShipToLocationAvailability.Quantity,
			Price:             item.Product.Aspects.Price,
			Timestamp:         now,
		})
	}

	c.logger.Info("ingested ebay inventory", zap.Int("count", len(records)))
	return records, nil
}
