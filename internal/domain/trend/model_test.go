package trend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{"emerging", StatusEmerging, false},
		{"rising", StatusRising, false},
		{"peak", StatusPeak, false},
		{"declining", StatusDeclining, false},
		{"stable", StatusStable, false},
		{"viral", "", true},
		{"", "", true},
		{"Peak", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStatus(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSocialPost_Text(t *testing.T) {
	tests := []struct {
		name string
		post SocialPost
		want string
	}{
		{"title wins", SocialPost{Title: "Wireless Earbuds", Description: "desc", Caption: "cap"}, "Wireless Earbuds"},
		{"description next", SocialPost{Description: "LED strip lights unboxing"}, "LED strip lights unboxing"},
		{"caption last", SocialPost{Caption: "obsessed with this serum"}, "obsessed with this serum"},
		{"message does not identify", SocialPost{Message: "check out this deal"}, ""},
		{"empty", SocialPost{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.post.Text())
		})
	}
}

func TestSocialPost_Engagement(t *testing.T) {
	post := SocialPost{Likes: 10, Comments: 5, Shares: 3, Saves: 2, Views: 1000}
	assert.Equal(t, int64(20), post.Engagement())
}

func TestProduct_Totals(t *testing.T) {
	p := Product{
		PlatformMetrics: map[string]PlatformMetrics{
			"tiktok":    {EngagementCount: 1500, Views: 40000},
			"instagram": {EngagementCount: 700, Views: 0},
		},
	}

	assert.Equal(t, int64(2200), p.TotalEngagement())
	assert.Equal(t, int64(40000), p.TotalViews())
}

func TestProduct_HasPlatform(t *testing.T) {
	p := Product{Platforms: []string{"tiktok", "amazon"}}

	assert.True(t, p.HasPlatform("amazon"))
	assert.False(t, p.HasPlatform("etsy"))
}

func TestFilter_Match(t *testing.T) {
	product := Product{
		TrendScore: 0.75,
		Status:     StatusRising,
		Platforms:  []string{"tiktok", "amazon"},
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"passes min score", Filter{MinScore: 0.5}, true},
		{"fails min score", Filter{MinScore: 0.8}, false},
		{"platform overlap", Filter{Platforms: []string{"amazon", "ebay"}}, true},
		{"no platform overlap", Filter{Platforms: []string{"ebay"}}, false},
		{"status match", Filter{Status: StatusRising}, true},
		{"status mismatch", Filter{Status: StatusPeak}, false},
		{"combined", Filter{MinScore: 0.7, Platforms: []string{"tiktok"}, Status: StatusRising}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Match(product))
		})
	}
}

func TestParseUserType(t *testing.T) {
	merchant, err := ParseUserType("merchant")
	require.NoError(t, err)
	assert.Equal(t, UserTypeMerchant, merchant)

	consumer, err := ParseUserType("consumer")
	require.NoError(t, err)
	assert.Equal(t, UserTypeConsumer, consumer)

	_, err = ParseUserType("admin")
	assert.Error(t, err)
}
