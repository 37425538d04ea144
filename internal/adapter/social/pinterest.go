// internal/adapter/social/pinterest.go

package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"trendradar/internal/config"
	"trendradar/internal/domain/trend"
)

// PinterestClient fetches pins from the Pinterest v5 search API
type PinterestClient struct {
	HTTPClient  *http.Client
	BaseURL     string
	accessToken string
	logger      *zap.Logger
}

type pinterestSearchResponse struct {
	Items []struct {
		ID          string `json:"id"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Link        string `json:"link"`
		SaveCount   int64  `json:"save_count"`
		Media       struct {
			Images struct {
				Original struct {
					URL string `json:"url"`
				} `json:"original"`
			} `json:"images"`
		} `json:"media"`
	} `json:"items"`
}

// NewPinterestClient creates a Pinterest API client
func NewPinterestClient(accessToken string, logger *zap.Logger) *PinterestClient {
	return &PinterestClient{
		HTTPClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL:     config.SupportedPlatforms["pinterest"].APIEndpoint,
		accessToken: accessToken,
		logger:      logger,
	}
}

// Platform returns the registry key of the platform
func (c *PinterestClient) Platform() string { return "pinterest" }

// Fetch searches pins once per keyword.
func (c *PinterestClient) Fetch(ctx context.Context, query trend.Query) ([]trend.SocialPost, error) {
	var posts []trend.SocialPost

	for _, keyword := range query.Keywords {
		batch, err := c.searchPins(ctx, keyword)
		if err != nil {
			return nil, err
		}
		posts = append(posts, batch...)
	}

	c.logger.Info("fetched pinterest trends", zap.Int("count", len(posts)))
	return posts, nil
}

func (c *PinterestClient) searchPins(ctx context.Context, keyword string) ([]trend.SocialPost, error) {
	params := url.Values{}
	params.Set("query", keyword)
	params.Set("limit", "50")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search/pins?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Pinterest API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("pinterest search returned non-200",
			zap.String("keyword", keyword),
			zap.Int("status", resp.StatusCode))
		return nil, nil
	}

	var parsed pinterestSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode Pinterest response: %w", err)
	}

	fetchedAt := time.Now().UTC()
	var posts []trend.SocialPost
	for _, pin := range parsed.Items {
		posts = append(posts, trend.SocialPost{
			Platform:    "pinterest",
			ID:          pin.ID,
			Title:       pin.Title,
			Description: pin.Description,
			MediaURL:    pin.Media.Images.Original.URL,
			URL:         pin.Link,
			Saves:       pin.SaveCount,
			Keyword:     keyword,
			FetchedAt:   fetchedAt,
		})
	}

	return posts, nil
}
