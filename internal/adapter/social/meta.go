// internal/adapter/social/meta.go

package social

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"trendradar/internal/config"
	"trendradar/internal/domain/trend"
)

// MetaClient fetches public posts from the Meta Graph API using app
// credentials. Posts carry only a message body, so they never merge
// with other platforms downstream.
type MetaClient struct {
	HTTPClient *http.Client
	BaseURL    string
	appID      string
	appSecret  string
	logger     *zap.Logger
}

type metaSearchResponse struct {
	Data []struct {
		ID          string `json:"id"`
		Message     string `json:"message"`
		CreatedTime string `json:"created_time"`
		Likes       struct {
			Summary struct {
				TotalCount int64 `json:"total_count"`
			} `json:"summary"`
		} `json:"likes"`
		Comments struct {
			Summary struct {
				TotalCount int64 `json:"total_count"`
			} `json:"summary"`
		} `json:"comments"`
		Shares struct {
			Count int64 `json:"count"`
		} `json:"shares"`
	} `json:"data"`
}

// NewMetaClient creates a Meta Graph API client
func NewMetaClient(appID, appSecret string, logger *zap.Logger) *MetaClient {
	return &MetaClient{
		HTTPClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL:   config.SupportedPlatforms["meta"].APIEndpoint,
		appID:     appID,
		appSecret: appSecret,
		logger:    logger,
	}
}

// Platform returns the registry key of the platform
func (c *MetaClient) Platform() string { return "meta" }

// Fetch runs a single post search over all keywords joined together.
func (c *MetaClient) Fetch(ctx context.Context, query trend.Query) ([]trend.SocialPost, error) {
	params := url.Values{}
	params.Set("access_token", c.appID+"|"+c.appSecret)
	params.Set("q", strings.Join(query.Keywords, ","))
	params.Set("type", "post")
	params.Set("fields", "id,message,created_time,likes.summary(true),comments.summary(true),shares")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v18.0/search?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Meta API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("meta search returned non-200", zap.Int("status", resp.StatusCode))
		return nil, nil
	}

	var parsed metaSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode Meta response: %w", err)
	}

	fetchedAt := time.Now().UTC()
	var posts []trend.SocialPost
	for _, post := range parsed.Data {
		posts = append(posts, trend.SocialPost{
			Platform:    "meta",
			ID:          post.ID,
			Message:     post.Message,
			Likes:       post.Likes.Summary.TotalCount,
			Comments:    post.Comments.Summary.TotalCount,
			Shares:      post.Shares.Count,
			PublishedAt: post.CreatedTime,
			FetchedAt:   fetchedAt,
		})
	}

	c.logger.Info("fetched meta trends", zap.Int("count", len(posts)))
	return posts, nil
}
