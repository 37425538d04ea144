// internal/service/insight/bedrock.go

// Package insight wraps the AWS AI services that enrich aggregated
// trends: Bedrock for qualitative analysis and trajectory prediction,
// SageMaker for numeric trend scoring and demand forecasts, and Amazon
// Q for marketplace compliance answers.
//
// Apart from agent queries, every call degrades to a fallback payload
// on vendor failure instead of returning an error.
package insight

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	agenttypes "github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime/types"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"trendradar/internal/config"
	"trendradar/internal/domain/trend"
)

// ModelInvoker is the subset of the Bedrock runtime client the advisor
// uses.
type ModelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// AgentInvoker is the subset of the Bedrock agent runtime client the
// advisor uses.
type AgentInvoker interface {
	InvokeAgent(ctx context.Context, params *bedrockagentruntime.InvokeAgentInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.InvokeAgentOutput, error)
}

// Analysis is the model's qualitative read on one product's trend
type Analysis struct {
	TrendScore          float64            `json:"trend_score"`
	ViralVelocity       float64            `json:"viral_velocity"`
	Status              trend.Status       `json:"status"`
	PlatformInsights    map[string]string  `json:"platform_insights"`
	CompetitiveAnalysis string             `json:"competitive_analysis"`
	KeyFactors          []string           `json:"key_factors"`
	Confidence          float64            `json:"confidence"`
}

// AgentResponse is the assembled completion of one agent invocation
type AgentResponse struct {
	Response  string    `json:"response"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Advisor runs trend prompts against a Bedrock Anthropic model
type Advisor struct {
	runtime ModelInvoker
	agent   AgentInvoker
	cfg     config.BedrockConfig
	logger  *zap.Logger
}

// NewAdvisor creates a Bedrock advisor
func NewAdvisor(runtime ModelInvoker, agent AgentInvoker, cfg config.BedrockConfig, logger *zap.Logger) *Advisor {
	return &Advisor{
		runtime: runtime,
		agent:   agent,
		cfg:     cfg,
		logger:  logger,
	}
}

type anthropicRequest struct {
	AnthropicVersion string             `json:"anthropic_version"`
	MaxTokens        int                `json:"max_tokens"`
	Messages         []anthropicMessage `json:"messages"`
	Temperature      float64            `json:"temperature"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

const analysisPromptFmt = `Analyze this product's trending status across multiple platforms:

Product: %s
Category: %s
Price: $%v

Platform Metrics:
%s

Calculate and provide:
1. Overall trend score (0-1, where 1 is highest trending)
2. Viral velocity (rate of growth, 0-1)
3. Trend status (emerging/rising/peak/declining/stable)
4. Platform-specific insights
5. Competitive analysis
6. Key factors driving the trend

Provide response as JSON with these exact keys:
{
    "trend_score": 0.0-1.0,
    "viral_velocity": 0.0-1.0,
    "status": "emerging|rising|peak|declining|stable",
    "platform_insights": {"platform_name": "insight"},
    "competitive_analysis": "string",
    "key_factors": ["factor1", "factor2"],
    "confidence": 0.0-1.0
}`

const trajectoryPromptFmt = `Analyze the following product trend data and predict its trajectory:

Product ID: %s
Historical Data: %s

Provide:
1. Predicted peak date (format: YYYY-MM-DD)
2. Confidence score (0-1)
3. Estimated duration in days
4. Key factors influencing the trend
5. Recommendation (buy now, wait, avoid)

Format as JSON with these exact keys:
{
    "predicted_peak_date": "YYYY-MM-DD or null",
    "confidence_score": 0.0-1.0,
    "duration_days": integer or null,
    "factors": {"factor_name": importance_score},
    "recommendation": "string"
}`

// AnalyzeProduct asks the model for a qualitative trend analysis. Any
// vendor or parse failure yields the fallback analysis.
func (a *Advisor) AnalyzeProduct(ctx context.Context, product trend.Product) Analysis {
	metricsJSON, err := json.MarshalIndent(product.PlatformMetrics, "", "  ")
	if err != nil {
		a.logger.Error("failed to encode platform metrics", zap.Error(err))
		return fallbackAnalysis()
	}

	prompt := fmt.Sprintf(analysisPromptFmt, product.Name, product.Category, product.Price, metricsJSON)

	text, err := a.invokeModel(ctx, prompt, 2000, 0.7)
	if err != nil {
		a.logger.Error("bedrock trend analysis failed", zap.Error(err))
		return fallbackAnalysis()
	}

	analysis := a.parseAnalysis(text)
	a.logger.Info("trend analysis completed", zap.String("product", product.Name))
	return analysis
}

// PredictTrajectory asks the model for a forward trajectory estimate
// from persisted score history. Any vendor or parse failure yields the
// fallback prediction.
func (a *Advisor) PredictTrajectory(ctx context.Context, productID string, history []trend.Snapshot) *trend.TrendPrediction {
	historyJSON, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		a.logger.Error("failed to encode history", zap.Error(err))
		return fallbackPrediction(productID)
	}

	prompt := fmt.Sprintf(trajectoryPromptFmt, productID, historyJSON)

	text, err := a.invokeModel(ctx, prompt, 1500, 0.5)
	if err != nil {
		a.logger.Error("bedrock trajectory prediction failed", zap.Error(err))
		return fallbackPrediction(productID)
	}

	return a.parseTrajectory(productID, text)
}

// QueryAgent streams a Bedrock agent completion for a free-form query.
// Unlike the model calls, agent failures are returned to the caller.
func (a *Advisor) QueryAgent(ctx context.Context, sessionID, inputText string) (*AgentResponse, error) {
	output, err := a.agent.InvokeAgent(ctx, &bedrockagentruntime.InvokeAgentInput{
		AgentId:      aws.String(a.cfg.AgentID),
		AgentAliasId: aws.String(a.cfg.AgentAliasID),
		SessionId:    aws.String(sessionID),
		InputText:    aws.String(inputText),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke agent: %w", err)
	}

	stream := output.GetStream()
	if stream == nil {
		return nil, fmt.Errorf("agent returned no completion stream")
	}
	defer stream.Close()

	var completion strings.Builder
	for event := range stream.Events() {
		if chunk, ok := event.(*agenttypes.ResponseStreamMemberChunk); ok {
			completion.Write(chunk.Value.Bytes)
		}
	}
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("agent stream failed: %w", err)
	}

	return &AgentResponse{
		Response:  completion.String(),
		SessionID: sessionID,
		Timestamp: time.Now().UTC(),
	}, nil
}

func (a *Advisor) invokeModel(ctx context.Context, prompt string, maxTokens int, temperature float64) (string, error) {
	body, err := json.Marshal(anthropicRequest{
		AnthropicVersion: "bedrock-2023-05-31",
		MaxTokens:        maxTokens,
		Messages: []anthropicMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode model request: %w", err)
	}

	output, err := a.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(a.cfg.ModelID),
		ContentType: aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke model: %w", err)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(output.Body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode model response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("model response has no content")
	}

	return parsed.Content[0].Text, nil
}

func (a *Advisor) parseAnalysis(text string) Analysis {
	payload := stripCodeFences(text)

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		a.logger.Error("failed to parse analysis response", zap.Error(err))
		return fallbackAnalysis()
	}

	for _, field := range []string{"trend_score", "viral_velocity", "status"} {
		if _, ok := raw[field]; !ok {
			a.logger.Warn("analysis response missing required field", zap.String("field", field))
			return fallbackAnalysis()
		}
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(payload), &analysis); err != nil {
		a.logger.Error("failed to parse analysis response", zap.Error(err))
		return fallbackAnalysis()
	}

	return analysis
}

func (a *Advisor) parseTrajectory(productID, text string) *trend.TrendPrediction {
	payload := stripCodeFences(text)

	var parsed struct {
		PredictedPeakDate *string            `json:"predicted_peak_date"`
		ConfidenceScore   float64            `json:"confidence_score"`
		DurationDays      *int               `json:"duration_days"`
		Recommendation    *string            `json:"recommendation"`
		Factors           map[string]float64 `json:"factors"`
	}
	if err := json.Unmarshal([]byte(payload), &parsed); err != nil {
		a.logger.Error("failed to parse trajectory response", zap.Error(err))
		return fallbackPrediction(productID)
	}

	prediction := &trend.TrendPrediction{
		ProductID:         productID,
		PredictedPeakDate: parsed.PredictedPeakDate,
		ConfidenceScore:   parsed.ConfidenceScore,
		DurationDays:      parsed.DurationDays,
		Recommendation:    "No recommendation available",
		Factors:           map[string]float64{},
	}
	if parsed.Recommendation != nil {
		prediction.Recommendation = *parsed.Recommendation
	}
	if parsed.DurationDays != nil && *parsed.DurationDays == 0 {
		prediction.DurationDays = nil
	}
	if parsed.Factors != nil {
		prediction.Factors = parsed.Factors
	}

	return prediction
}

// stripCodeFences extracts the JSON payload when the model wraps its
// answer in a markdown code block.
func stripCodeFences(text string) string {
	if strings.Contains(text, "```json") {
		after := strings.SplitN(text, "```json", 2)[1]
		return strings.TrimSpace(strings.SplitN(after, "```", 2)[0])
	}
	if strings.Contains(text, "```") {
		parts := strings.Split(text, "```")
		if len(parts) >= 2 {
			return strings.TrimSpace(parts[1])
		}
	}
	return text
}

func fallbackAnalysis() Analysis {
	return Analysis{
		TrendScore:          0.5,
		ViralVelocity:       0.0,
		Status:              trend.StatusStable,
		PlatformInsights:    map[string]string{},
		CompetitiveAnalysis: "Analysis service temporarily unavailable",
		KeyFactors:          []string{"Service unavailable"},
		Confidence:          0.3,
	}
}

func fallbackPrediction(productID string) *trend.TrendPrediction {
	return &trend.TrendPrediction{
		ProductID:      productID,
		Recommendation: "Insufficient data for prediction",
		Factors:        map[string]float64{},
	}
}
