// internal/adapter/commerce/commerce.go

// Package commerce contains connectors for the commerce platforms the
// radar ingests sales data from. Each connector normalizes one
// platform's API responses into trend.SalesRecord values and implements
// trend.SalesSource.
//
// The registry endpoints in internal/config describe where trend
// metrics originate; ingestion does not always go through them. Amazon
// sales arrive through the Strands gateway, Walmart through the
// marketplace insights API, and eBay through the sell inventory API.
package commerce

import (
	"go.uber.org/zap"

	"trendradar/internal/config"
	"trendradar/internal/domain/trend"
)

// NewConnectors builds the full set of commerce connectors from
// platform credentials.
func NewConnectors(creds config.PlatformCredentials, logger *zap.Logger) []trend.SalesSource {
	return []trend.SalesSource{
		NewStrandsClient(creds.StrandsAPIKey, creds.StrandsWorkspaceID, creds.StrandsAPIURL, logger),
		NewWalmartClient(creds.WalmartAPIKey, logger),
		NewEbayClient(creds.EbayAppID, logger),
		NewEtsyClient(creds.EtsyAPIKey, logger),
		NewTargetClient(creds.TargetAPIKey, logger),
	}
}
