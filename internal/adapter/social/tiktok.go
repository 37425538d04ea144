// internal/adapter/social/tiktok.go

package social

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

// TikTokClient fetches trending videos from the TikTok Research API
type TikTokClient struct {
	HTTPClient *http.Client
	BaseURL    string
	clientKey  string
	logger     *zap.Logger
}

type tiktokQueryRequest struct {
	Query tiktokQuery `json:"query"`
}

type tiktokQuery struct {
	Hashtag  string `json:"hashtag"`
	MaxCount int    `json:"max_count"`
}

type tiktokQueryResponse struct {
	Data struct {
		Videos []struct {
			ID           string `json:"id"`
			Description  string `json:"video_description"`
			ViewCount    int64  `json:"view_count"`
			LikeCount    int64  `json:"like_count"`
			ShareCount   int64  `json:"share_count"`
			CommentCount int64  `json:"comment_count"`
			CreateTime   int64  `json:"create_time"`
		} `json:"videos"`
	} `json:"data"`
}

// NewTikTokClient creates a TikTok Research API client
func NewTikTokClient(clientKey string, logger *zap.Logger) *TikTokClient {
	return &TikTokClient{
		HTTPClient: &http.Client{
			Timeout: time.Second * 10,
		},
		BaseURL:   config.SupportedPlatforms["tiktok"].APIEndpoint,
		clientKey: clientKey,
		logger:    logger,
	}
}

// Platform returns the registry key of the platform
func (c *TikTokClient) Platform() string { return "tiktok" }

// Fetch queries the research endpoint once per hashtag.
func (c *TikTokClient) Fetch(ctx context.Context, query trend.Query) ([]trend.SocialPost, error) {
	var posts []trend.SocialPost

	for _, hashtag := range query.Hashtags {
		batch, err := c.queryHashtag(ctx, hashtag)
		if err != nil {
			return nil, err
		}
		posts = append(posts, batch...)
	}

	c.logger.Info("fetched tiktok trends", zap.Int("count", len(posts)))
	return posts, nil
}

func (c *TikTokClient) queryHashtag(ctx context.Context, hashtag string) ([]trend.SocialPost, error) {
	payload := tiktokQueryRequest{
		Query: tiktokQuery{
			Hashtag:  hashtag,
			MaxCount: 50,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/research/query/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.clientKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to TikTok API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("tiktok query returned non-200",
			zap.String("hashtag", hashtag),
			zap.Int("status", resp.StatusCode))
		return nil, nil
	}

	var parsed tiktokQueryResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode TikTok response: %w", err)
	}

	fetchedAt := time.Now().UTC()
	var posts []trend.SocialPost
	for _, video := range parsed.Data.Videos {
		published := ""
		if video.CreateTime > 0 {
			published = time.Unix(video.CreateTime, 0).UTC().Format(time.RFC3339)
		}
		posts = append(posts, trend.SocialPost{
			Platform:    "tiktok",
			ID:          video.ID,
			Description: video.Description,
			Views:       video.ViewCount,
			Likes:       video.LikeCount,
			Shares:      video.ShareCount,
			Comments:    video.CommentCount,
			Hashtag:     hashtag,
			PublishedAt: published,
			FetchedAt:   fetchedAt,
		})
	}

	return posts, nil
}
