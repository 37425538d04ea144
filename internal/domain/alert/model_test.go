package alert

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"trendradar/internal/domain/trend"
)

func sampleProduct() trend.Product {
	return trend.Product{
		ID:          "tiktok_7312",
		Name:        "Mini Projector",
		Description: "portable home cinema projector",
		Category:    "Electronics",
		Platforms:   []string{"tiktok", "amazon"},
		TrendScore:  0.82,
	}
}

func TestAlert_Matches(t *testing.T) {
	tests := []struct {
		name  string
		alert Alert
		want  bool
	}{
		{
			"score threshold only",
			Alert{MinTrendScore: 0.7},
			true,
		},
		{
			"score too low",
			Alert{MinTrendScore: 0.9},
			false,
		},
		{
			"keyword in name",
			Alert{MinTrendScore: 0.5, Keywords: []string{"projector"}},
			true,
		},
		{
			"keyword in description",
			Alert{MinTrendScore: 0.5, Keywords: []string{"CINEMA"}},
			true,
		},
		{
			"keyword missing",
			Alert{MinTrendScore: 0.5, Keywords: []string{"blender"}},
			false,
		},
		{
			"category match",
			Alert{MinTrendScore: 0.5, Categories: []string{"Electronics", "Fashion"}},
			true,
		},
		{
			"category mismatch",
			Alert{MinTrendScore: 0.5, Categories: []string{"Beauty"}},
			false,
		},
		{
			"platform overlap",
			Alert{MinTrendScore: 0.5, Platforms: []string{"amazon", "walmart"}},
			true,
		},
		{
			"platform disjoint",
			Alert{MinTrendScore: 0.5, Platforms: []string{"etsy"}},
			false,
		},
		{
			"all criteria",
			Alert{MinTrendScore: 0.8, Keywords: []string{"mini"}, Categories: []string{"Electronics"}, Platforms: []string{"tiktok"}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.alert.Matches(sampleProduct()))
		})
	}
}

func TestAlert_Matches_EmptyKeywordIgnored(t *testing.T) {
	a := Alert{MinTrendScore: 0.5, Keywords: []string{""}}
	assert.False(t, a.Matches(sampleProduct()))
}
