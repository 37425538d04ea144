// internal/domain/trend/signal.go

package trend

import (
	"context"
	"time"
)

// SocialPost is the normalized form of a single social media item.
// Platforms fill different subsets of these fields; the aggregator
// only merges posts that carry an ID and at least one of Title,
// Description, or Caption.
type SocialPost struct {
	Platform    string    `json:"platform"`
	ID          string    `json:"id"`
	Title       string    `json:"title,omitempty"`
	Description string    `json:"description,omitempty"`
	Caption     string    `json:"caption,omitempty"`
	Message     string    `json:"message,omitempty"`
	URL         string    `json:"url,omitempty"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	MediaURL    string    `json:"media_url,omitempty"`
	Channel     string    `json:"channel,omitempty"`
	Keyword     string    `json:"keyword,omitempty"`
	Hashtag     string    `json:"hashtag,omitempty"`
	Views       int64     `json:"views"`
	Likes       int64     `json:"likes"`
	Shares      int64     `json:"shares"`
	Comments    int64     `json:"comments"`
	Saves       int64     `json:"saves"`
	PublishedAt string    `json:"published_at,omitempty"`
	FetchedAt   time.Time `json:"fetched_at"`
}

// Text returns the first non-empty identifying text of the post
func (p SocialPost) Text() string {
	if p.Title != "" {
		return p.Title
	}
	if p.Description != "" {
		return p.Description
	}
	return p.Caption
}

// Engagement is the sum of all interaction counts
func (p SocialPost) Engagement() int64 {
	return p.Likes + p.Comments + p.Shares + p.Saves
}

// SalesRecord is the normalized form of a commerce platform sales item
type SalesRecord struct {
	Platform          string    `json:"platform"`
	ProductID         string    `json:"product_id"`
	ProductName       string    `json:"product_name"`
	Sales             int64     `json:"sales"`
	UnitsSold         int64     `json:"units_sold,omitempty"`
	Revenue           float64   `json:"revenue"`
	Views             int64     `json:"views,omitempty"`
	ConversionRate    float64   `json:"conversion_rate,omitempty"`
	AvailableQuantity int64     `json:"available_quantity,omitempty"`
	Price             float64   `json:"price,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
}

// Query carries the search terms handed to the social connectors.
// Keyword-oriented platforms read Keywords, hashtag-oriented ones read
// Hashtags.
type Query struct {
	Keywords []string
	Hashtags []string
}

// SocialSource fetches trending posts from one social platform
type SocialSource interface {
	// Platform returns the registry key of the platform
	Platform() string

	// Fetch returns normalized posts for the query. A non-nil error
	// means the platform was unreachable; callers treat it as a scan
	// with no posts.
	Fetch(ctx context.Context, query Query) ([]SocialPost, error)
}

// SalesSource fetches sales records from one commerce platform
type SalesSource interface {
	// Platform returns the registry key of the platform
	Platform() string

	// Fetch returns sales records observed between start and end
	Fetch(ctx context.Context, start, end time.Time) ([]SalesRecord, error)
}
