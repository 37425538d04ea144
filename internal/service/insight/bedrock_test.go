package insight

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockagentruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"trendradar/internal/config"
	"trendradar/internal/domain/trend"
)

type fakeModelInvoker struct {
	input *bedrockruntime.InvokeModelInput
	text  string
	err   error
}

func (f *fakeModelInvoker) InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}

	body, err := json.Marshal(map[string]interface{}{
		"content": []map[string]string{{"text": f.text}},
	})
	if err != nil {
		return nil, err
	}
	return &bedrockruntime.InvokeModelOutput{Body: body}, nil
}

type fakeAgentInvoker struct {
	input  *bedrockagentruntime.InvokeAgentInput
	output *bedrockagentruntime.InvokeAgentOutput
	err    error
}

func (f *fakeAgentInvoker) InvokeAgent(ctx context.Context, params *bedrockagentruntime.InvokeAgentInput, optFns ...func(*bedrockagentruntime.Options)) (*bedrockagentruntime.InvokeAgentOutput, error) {
	f.input = params
	return f.output, f.err
}

func testBedrockConfig() config.BedrockConfig {
	return config.BedrockConfig{
		ModelID:      "anthropic.claude-3-sonnet-20240229-v1:0",
		AgentID:      "AGENT1",
		AgentAliasID: "ALIAS1",
	}
}

func TestAdvisor_AnalyzeProduct(t *testing.T) {
	runtime := &fakeModelInvoker{
		text: "Here is the analysis:\n```json\n" + `{
			"trend_score": 0.82,
			"viral_velocity": 0.6,
			"status": "rising",
			"platform_insights": {"tiktok": "strong short-form traction"},
			"competitive_analysis": "crowded but growing",
			"key_factors": ["creator adoption"],
			"confidence": 0.9
		}` + "\n```",
	}
	advisor := NewAdvisor(runtime, nil, testBedrockConfig(), zap.NewNop())

	product := trend.Product{
		Name:     "LED Strip Lights",
		Category: "electronics",
		Price:    24.99,
		PlatformMetrics: map[string]trend.PlatformMetrics{
			"tiktok": {Platform: "tiktok", Views: 500000},
		},
	}

	analysis := advisor.AnalyzeProduct(context.Background(), product)

	assert.Equal(t, 0.82, analysis.TrendScore)
	assert.Equal(t, 0.6, analysis.ViralVelocity)
	assert.Equal(t, trend.StatusRising, analysis.Status)
	assert.Equal(t, "crowded but growing", analysis.CompetitiveAnalysis)
	assert.Equal(t, []string{"creator adoption"}, analysis.KeyFactors)
	assert.Equal(t, 0.9, analysis.Confidence)

	require.NotNil(t, runtime.input)
	assert.Equal(t, "anthropic.claude-3-sonnet-20240229-v1:0", aws.ToString(runtime.input.ModelId))
	assert.Equal(t, "application/json", aws.ToString(runtime.input.ContentType))

	var request struct {
		AnthropicVersion string  `json:"anthropic_version"`
		MaxTokens        int     `json:"max_tokens"`
		Temperature      float64 `json:"temperature"`
		Messages         []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(runtime.input.Body, &request))
	assert.Equal(t, "bedrock-2023-05-31", request.AnthropicVersion)
	assert.Equal(t, 2000, request.MaxTokens)
	assert.Equal(t, 0.7, request.Temperature)
	require.Len(t, request.Messages, 1)
	assert.Equal(t, "user", request.Messages[0].Role)
	assert.Contains(t, request.Messages[0].Content, "LED Strip Lights")
	assert.Contains(t, request.Messages[0].Content, "electronics")
}

func TestAdvisor_AnalyzeProduct_MissingFieldFallsBack(t *testing.T) {
	runtime := &fakeModelInvoker{
		text: `{"trend_score": 0.9, "status": "peak"}`,
	}
	advisor := NewAdvisor(runtime, nil, testBedrockConfig(), zap.NewNop())

	analysis := advisor.AnalyzeProduct(context.Background(), trend.Product{Name: "Widget"})

	assert.Equal(t, 0.5, analysis.TrendScore)
	assert.Equal(t, 0.0, analysis.ViralVelocity)
	assert.Equal(t, trend.StatusStable, analysis.Status)
	assert.Equal(t, "Analysis service temporarily unavailable", analysis.CompetitiveAnalysis)
	assert.Equal(t, []string{"Service unavailable"}, analysis.KeyFactors)
	assert.Equal(t, 0.3, analysis.Confidence)
}

func TestAdvisor_AnalyzeProduct_InvokeErrorFallsBack(t *testing.T) {
	runtime := &fakeModelInvoker{err: errors.New("throttled")}
	advisor := NewAdvisor(runtime, nil, testBedrockConfig(), zap.NewNop())

	analysis := advisor.AnalyzeProduct(context.Background(), trend.Product{Name: "Widget"})

	assert.Equal(t, 0.5, analysis.TrendScore)
	assert.Equal(t, trend.StatusStable, analysis.Status)
	assert.Equal(t, 0.3, analysis.Confidence)
}

func TestAdvisor_PredictTrajectory(t *testing.T) {
	runtime := &fakeModelInvoker{
		text: "```\n" + `{
			"predicted_peak_date": "2026-09-15",
			"confidence_score": 0.75,
			"duration_days": 14,
			"factors": {"seasonality": 0.8},
			"recommendation": "buy now"
		}` + "\n```",
	}
	advisor := NewAdvisor(runtime, nil, testBedrockConfig(), zap.NewNop())

	history := []trend.Snapshot{
		{ProductID: "prod-1", TrendScore: 0.4},
		{ProductID: "prod-1", TrendScore: 0.6},
	}

	prediction := advisor.PredictTrajectory(context.Background(), "prod-1", history)

	require.NotNil(t, prediction)
	assert.Equal(t, "prod-1", prediction.ProductID)
	require.NotNil(t, prediction.PredictedPeakDate)
	assert.Equal(t, "2026-09-15", *prediction.PredictedPeakDate)
	assert.Equal(t, 0.75, prediction.ConfidenceScore)
	require.NotNil(t, prediction.DurationDays)
	assert.Equal(t, 14, *prediction.DurationDays)
	assert.Equal(t, "buy now", prediction.Recommendation)
	assert.Equal(t, map[string]float64{"seasonality": 0.8}, prediction.Factors)

	var request struct {
		MaxTokens   int     `json:"max_tokens"`
		Temperature float64 `json:"temperature"`
		Messages    []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(runtime.input.Body, &request))
	assert.Equal(t, 1500, request.MaxTokens)
	assert.Equal(t, 0.5, request.Temperature)
	assert.Contains(t, request.Messages[0].Content, "prod-1")
}

func TestAdvisor_PredictTrajectory_ZeroDurationBecomesNil(t *testing.T) {
	runtime := &fakeModelInvoker{
		text: `{"predicted_peak_date": null, "confidence_score": 0.4, "duration_days": 0}`,
	}
	advisor := NewAdvisor(runtime, nil, testBedrockConfig(), zap.NewNop())

	prediction := advisor.PredictTrajectory(context.Background(), "prod-2", nil)

	require.NotNil(t, prediction)
	assert.Nil(t, prediction.PredictedPeakDate)
	assert.Nil(t, prediction.DurationDays)
	assert.Equal(t, "No recommendation available", prediction.Recommendation)
	assert.Empty(t, prediction.Factors)
}

func TestAdvisor_PredictTrajectory_ParseErrorFallsBack(t *testing.T) {
	runtime := &fakeModelInvoker{text: "I could not produce JSON for this."}
	advisor := NewAdvisor(runtime, nil, testBedrockConfig(), zap.NewNop())

	prediction := advisor.PredictTrajectory(context.Background(), "prod-3", nil)

	require.NotNil(t, prediction)
	assert.Equal(t, "prod-3", prediction.ProductID)
	assert.Nil(t, prediction.PredictedPeakDate)
	assert.Equal(t, 0.0, prediction.ConfidenceScore)
	assert.Nil(t, prediction.DurationDays)
	assert.Equal(t, "Insufficient data for prediction", prediction.Recommendation)
	assert.Empty(t, prediction.Factors)
}

func TestAdvisor_QueryAgent_InvokeErrorPropagates(t *testing.T) {
	agent := &fakeAgentInvoker{err: errors.New("access denied")}
	advisor := NewAdvisor(nil, agent, testBedrockConfig(), zap.NewNop())

	response, err := advisor.QueryAgent(context.Background(), "session-1", "what is trending?")

	require.Error(t, err)
	assert.Nil(t, response)

	require.NotNil(t, agent.input)
	assert.Equal(t, "AGENT1", aws.ToString(agent.input.AgentId))
	assert.Equal(t, "ALIAS1", aws.ToString(agent.input.AgentAliasId))
	assert.Equal(t, "session-1", aws.ToString(agent.input.SessionId))
	assert.Equal(t, "what is trending?", aws.ToString(agent.input.InputText))
}

func TestAdvisor_QueryAgent_MissingStreamFails(t *testing.T) {
	agent := &fakeAgentInvoker{output: &bedrockagentruntime.InvokeAgentOutput{}}
	advisor := NewAdvisor(nil, agent, testBedrockConfig(), zap.NewNop())

	response, err := advisor.QueryAgent(context.Background(), "session-2", "hello")

	require.Error(t, err)
	assert.Nil(t, response)
}

func TestStripCodeFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "json fence",
			in:   "Sure:\n```json\n{\"a\": 1}\n```\nDone.",
			want: `{"a": 1}`,
		},
		{
			name: "bare fence",
			in:   "```\n{\"b\": 2}\n```",
			want: `{"b": 2}`,
		},
		{
			name: "no fence",
			in:   `{"c": 3}`,
			want: `{"c": 3}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripCodeFences(tt.in))
		})
	}
}
