// internal/adapter/social/youtube.go

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

// YouTubeClient fetches trending product videos from the YouTube Data API
type YouTubeClient struct {
	HTTPClient *http.Client
	BaseURL    string
	apiKey     string
	logger     *zap.Logger
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string `json:"title"`
			Description  string `json:"description"`
			PublishedAt  string `json:"publishedAt"`
			ChannelTitle string `json:"channelTitle"`
			Thumbnails   struct {
				High struct {
					URL string `json:"url"`
				} `json:"high"`
			} `json:"thumbnails"`
		} `json:"snippet"`
	} `json:"items"`
}

// NewYouTubeClient creates a YouTube Data API client
func NewYouTubeClient(apiKey string, logger *zap.Logger) *YouTubeClient {
	return &YouTubeClient{
		HTTPClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL: config.SupportedPlatforms["youtube"].APIEndpoint,
		apiKey:  apiKey,
		logger:  logger,
	}
}

// Platform returns the registry key of the platform
func (c *YouTubeClient) Platform() string { return "youtube" }

// Fetch searches for high-view videos published in the last week matching
// each keyword.
func (c *YouTubeClient) Fetch(ctx context.Context, query trend.Query) ([]trend.SocialPost, error) {
	var posts []trend.SocialPost

	for _, keyword := range query.Keywords {
		batch, err := c.search(ctx, keyword)
		if err != nil {
			return nil, err
		}
		posts = append(posts, batch...)
	}

	c.logger.Info("fetched youtube trends", zap.Int("count", len(posts)))
	return posts, nil
}

func (c *YouTubeClient) search(ctx context.Context, keyword string) ([]trend.SocialPost, error) {
	params := url.Values{}
	params.Set("part", "snippet,statistics")
	params.Set("q", keyword)
	params.Set("type", "video")
	params.Set("order", "viewCount")
	params.Set("publishedAfter", time.Now().UTC().AddDate(0, 0, -7).Format(time.RFC3339))
	params.Set("maxResults", "50")
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to YouTube API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("youtube search returned non-200",
			zap.String("keyword", keyword),
			zap.Int("status", resp.StatusCode))
		return nil, nil
	}

	var parsed youtubeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode YouTube response: %w", err)
	}

	fetchedAt := time.Now().UTC()
	var posts []trend.SocialPost
	for _, item := range parsed.Items {
		if item.ID.VideoID == "" {
			continue
		}
		posts = append(posts, trend.SocialPost{
			Platform:    "youtube",
			ID:          item.ID.VideoID,
			Title:       item.Snippet.Title,
			Description: item.Snippet.Description,
			URL:         "https://www.youtube.com/watch?v=" + item.ID.VideoID,
			Thumbnail:   item.Snippet.Thumbnails.High.URL,
			Channel:     item.Snippet.ChannelTitle,
			Keyword:     keyword,
			PublishedAt: item.Snippet.PublishedAt,
			FetchedAt:   fetchedAt,
		})
	}

	return posts, nil
}
