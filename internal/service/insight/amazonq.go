// internal/service/insight/amazonq.go

package insight

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/qbusiness"
	"go.uber.org/zap"

	"trendradar/internal/config"
)

// QClient is the subset of the Amazon Q business client the service
// uses.
type QClient interface {
	ChatSync(ctx context.Context, params *qbusiness.ChatSyncInput, optFns ...func(*qbusiness.Options)) (*qbusiness.ChatSyncOutput, error)
}

// PolicyAnswer summarizes listing rules for a category on a platform
type PolicyAnswer struct {
	Category        string   `json:"category"`
	Platform        string   `json:"platform"`
	Policies        []string `json:"policies"`
	Restrictions    []string `json:"restrictions"`
	ComplianceNotes []string `json:"compliance_notes"`
}

// CategoryInsights summarizes market intelligence for a category
type CategoryInsights struct {
	Category        string            `json:"category"`
	Insights        []string          `json:"insights"`
	KeyMetrics      map[string]string `json:"key_metrics"`
	Recommendations []string          `json:"recommendations"`
}

// ComplianceRequest describes the product fields checked against
// marketplace policies
type ComplianceRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// ComplianceResult reports a product's marketplace compliance status
type ComplianceResult struct {
	ProductID       string          `json:"product_id"`
	Compliant       bool            `json:"compliant"`
	PlatformStatus  map[string]bool `json:"platform_status"`
	Issues          []string        `json:"issues"`
	Recommendations []string        `json:"recommendations"`
}

var marketplacePlatforms = []string{"amazon", "ebay", "walmart", "etsy", "target"}

// QService answers policy and compliance questions through Amazon Q
type QService struct {
	client QClient
	cfg    config.AmazonQConfig
	logger *zap.Logger
}

// NewQService creates an Amazon Q service
func NewQService(client QClient, cfg config.AmazonQConfig, logger *zap.Logger) *QService {
	return &QService{
		client: client,
		cfg:    cfg,
		logger: logger,
	}
}

// QueryProductPolicy asks for listing policies and restrictions for a
// category on one platform.
func (s *QService) QueryProductPolicy(ctx context.Context, category, platform string) (*PolicyAnswer, error) {
	query := fmt.Sprintf("What are the listing policies and restrictions for %s products on %s?", category, platform)

	message, err := s.chat(ctx, query)
	if err != nil {
		s.logger.Error("amazon q policy query failed", zap.Error(err))
		return nil, err
	}

	return &PolicyAnswer{
		Category:        category,
		Platform:        platform,
		Policies:        extractLines(message, []string{"policy", "requirement", "must", "required"}),
		Restrictions:    extractLines(message, []string{"restrict", "prohibit", "not allow", "forbidden"}),
		ComplianceNotes: extractLines(message, []string{"comply", "compliance", "regulation", "standard"}),
	}, nil
}

// QueryCategoryInsights asks for market intelligence about a category.
func (s *QService) QueryCategoryInsights(ctx context.Context, category string) (*CategoryInsights, error) {
	query := fmt.Sprintf("Provide market insights, trends, and key metrics for %s category", category)

	message, err := s.chat(ctx, query)
	if err != nil {
		s.logger.Error("amazon q category insights failed", zap.Error(err))
		return nil, err
	}

	return &CategoryInsights{
		Category: category,
		Insights: extractInsights(message),
		// The data source does not expose structured metrics yet.
		KeyMetrics: map[string]string{
			"market_size":       "Unknown",
			"growth_rate":       "Unknown",
			"competition_level": "Unknown",
		},
		Recommendations: extractRecommendations(message),
	}, nil
}

// CheckCompliance verifies a product against the policies of the five
// marketplaces.
func (s *QService) CheckCompliance(ctx context.Context, req ComplianceRequest) (*ComplianceResult, error) {
	query := fmt.Sprintf(`Check compliance for this product:
Name: %s
Category: %s
Description: %s

Verify compliance for Amazon, eBay, Walmart, Etsy, and Target.`, req.Name, req.Category, req.Description)

	message, err := s.chat(ctx, query)
	if err != nil {
		s.logger.Error("amazon q compliance check failed", zap.Error(err))
		return nil, err
	}

	return &ComplianceResult{
		ProductID:       req.ID,
		Compliant:       isCompliant(message),
		PlatformStatus:  parsePlatformCompliance(message),
		Issues:          extractLines(message, []string{"issue", "problem", "violation", "concern"}),
		Recommendations: extractRecommendations(message),
	}, nil
}

func (s *QService) chat(ctx context.Context, query string) (string, error) {
	output, err := s.client.ChatSync(ctx, &qbusiness.ChatSyncInput{
		ApplicationId: aws.String(s.cfg.ApplicationID),
		UserId:        aws.String(s.cfg.UserID),
		UserMessage:   aws.String(query),
	})
	if err != nil {
		return "", fmt.Errorf("chat sync failed: %w", err)
	}

	return aws.ToString(output.SystemMessage), nil
}

// extractLines collects trimmed lines whose lowercase form contains any
// of the keywords.
func extractLines(message string, keywords []string) []string {
	matches := []string{}
	for _, line := range strings.Split(message, "\n") {
		lower := strings.ToLower(line)
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				matches = append(matches, strings.TrimSpace(line))
				break
			}
		}
	}
	return matches
}

func extractRecommendations(message string) []string {
	return extractLines(message, []string{"recommend", "suggest", "should", "consider"})
}

// extractInsights keeps substantive lines, skipping headers and filler.
func extractInsights(message string) []string {
	insights := []string{}
	for _, line := range strings.Split(message, "\n") {
		trimmed := strings.TrimSpace(line)
		if len(trimmed) > 20 {
			insights = append(insights, trimmed)
		}
	}
	return insights
}

func isCompliant(message string) bool {
	lower := strings.ToLower(message)
	for _, indicator := range []string{"not compliant", "violates", "prohibited", "restricted"} {
		if strings.Contains(lower, indicator) {
			return false
		}
	}
	return true
}

// parsePlatformCompliance marks each marketplace mentioned in the
// answer with the message-wide compliance verdict, and assumes
// compliant for marketplaces the answer does not mention.
func parsePlatformCompliance(message string) map[string]bool {
	lower := strings.ToLower(message)

	status := make(map[string]bool, len(marketplacePlatforms))
	for _, platform := range marketplacePlatforms {
		if strings.Contains(lower, platform) {
			status[platform] = strings.Contains(lower, "compliant") || strings.Contains(lower, "allowed")
		} else {
			status[platform] = true
		}
	}
	return status
}
