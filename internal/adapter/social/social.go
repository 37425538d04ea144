// internal/adapter/social/social.go

// Package social contains connectors for the social platforms the radar
// watches. Each connector normalizes one platform's API responses into
// trend.SocialPost values and implements trend.SocialSource.
package social

import (
	"go.uber.org/zap"

	"trendradar/internal/config"
	"trendradar/internal/domain/trend"
)

// NewConnectors builds the full set of social connectors from platform
// credentials. Connectors for platforms with missing credentials are
// still returned; their fetches fail upstream and contribute nothing.
func NewConnectors(creds config.PlatformCredentials, logger *zap.Logger) []trend.SocialSource {
	return []trend.SocialSource{
		NewYouTubeClient(creds.YouTubeAPIKey, logger),
		NewTikTokClient(creds.TikTokClientKey, logger),
		NewInstagramClient(creds.InstagramAccessToken, logger),
		NewPinterestClient(creds.PinterestAccessToken, logger),
		NewMetaClient(creds.MetaAppID, creds.MetaAppSecret, logger),
	}
}
