// internal/adapter/social/instagram.go

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

// InstagramClient fetches hashtag media from the Instagram Graph API.
// Each hashtag takes two calls: one to resolve the hashtag ID, one for
// its recent media.
type InstagramClient struct {
	HTTPClient  *http.Client
	BaseURL     string
	accessToken string
	logger      *zap.Logger
}

type instagramHashtagSearchResponse struct {
	Data []struct {
		ID string `json:"id"`
	} `json:"data"`
}

type instagramMediaResponse struct {
	Data []struct {
		ID            string `json:"id"`
		Caption       string `json:"caption"`
		MediaURL      string `json:"media_url"`
		LikeCount     int64  `json:"like_count"`
		CommentsCount int64  `json:"comments_count"`
		Timestamp     string `json:"timestamp"`
	} `json:"data"`
}

// NewInstagramClient creates an Instagram Graph API client
func NewInstagramClient(accessToken string, logger *zap.Logger) *InstagramClient {
	return &InstagramClient{
		HTTPClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL:     config.SupportedPlatforms["instagram"].APIEndpoint,
		accessToken: accessToken,
		logger:      logger,
	}
}

// Platform returns the registry key of the platform
func (c *InstagramClient) Platform() string { return "instagram" }

// Fetch resolves each hashtag and collects its recent media.
func (c *InstagramClient) Fetch(ctx context.Context, query trend.Query) ([]trend.SocialPost, error) {
	var posts []trend.SocialPost

	for _, hashtag := range query.Hashtags {
		hashtagID, err := c.searchHashtag(ctx, hashtag)
		if err != nil {
			return nil, err
		}
		if hashtagID == "" {
			continue
		}

		batch, err := c.recentMedia(ctx, hashtagID)
		if err != nil {
			return nil, err
		}
		posts = append(posts, batch...)
	}

	c.logger.Info("fetched instagram trends", zap.Int("count", len(posts)))
	return posts, nil
}

func (c *InstagramClient) searchHashtag(ctx context.Context, hashtag string) (string, error) {
	params := url.Values{}
	params.Set("q", hashtag)
	params.Set("type", "hashtag")
	params.Set("access_token", c.accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/ig_hashtag_search?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to connect to Instagram API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("instagram hashtag search returned non-200",
			zap.String("hashtag", hashtag),
			zap.Int("status", resp.StatusCode))
		return "", nil
	}

	var parsed instagramHashtagSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode Instagram response: %w", err)
	}

	if len(parsed.Data) == 0 {
		return "", nil
	}
	return parsed.Data[0].ID, nil
}

func (c *InstagramClient) recentMedia(ctx context.Context, hashtagID string) ([]trend.SocialPost, error) {
	params := url.Values{}
	params.Set("user_id", strings.Split(c.accessToken, ".")[0])
	params.Set("fields", "id,caption,media_type,media_url,permalink,timestamp,like_count,comments_count")
	params.Set("access_token", c.accessToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/"+hashtagID+"/recent_media?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Instagram API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil
	}

	var parsed instagramMediaResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode Instagram response: %w", err)
	}

	fetchedAt := time.Now().UTC()
	var posts []trend.SocialPost
	for _, post := range parsed.Data {
		posts = append(posts, trend.SocialPost{
			Platform:    "instagram",
			ID:          post.ID,
			Caption:     post.Caption,
			MediaURL:    post.MediaURL,
			Likes:       post.LikeCount,
			Comments:    post.CommentsCount,
			PublishedAt: post.Timestamp,
			FetchedAt:   fetchedAt,
		})
	}

	return posts, nil
}
