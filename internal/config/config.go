// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	Debug       bool
	Server      ServerConfig
	AWS         AWSConfig
	Bedrock     BedrockConfig
	SageMaker   SageMakerConfig
	AmazonQ     AmazonQConfig
	S3          S3Config
	Platforms   PlatformCredentials
	Database    DatabaseConfig
	NATS        NATSConfig
	Trend       TrendConfig
	Alert       AlertConfig
	Monitoring  MonitoringConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host               string
	Port               int
	APIPrefix          string
	ReadTimeout        time.Duration
	WriteTimeout       time.Duration
	ShutdownTimeout    time.Duration
	CorsOrigins        []string
	RateLimitPerMinute int
}

// AWSConfig holds shared AWS client configuration
type AWSConfig struct {
	Region string
}

// BedrockConfig holds Bedrock model and agent configuration
type BedrockConfig struct {
	ModelID      string
	AgentID      string
	AgentAliasID string
}

// SageMakerConfig holds SageMaker inference configuration
type SageMakerConfig struct {
	EndpointName string
}

// AmazonQConfig holds Amazon Q Business configuration
type AmazonQConfig struct {
	ApplicationID string
	UserID        string
}

// S3Config holds report archive configuration
type S3Config struct {
	Bucket          string
	DashboardPrefix string
	DataPrefix      string
}

// PlatformCredentials holds API credentials for the upstream platforms
type PlatformCredentials struct {
	YouTubeAPIKey        string
	TikTokClientKey      string
	TikTokClientSecret   string
	InstagramAccessToken string
	MetaAppID            string
	MetaAppSecret        string
	PinterestAccessToken string
	EtsyAPIKey           string
	WalmartAPIKey        string
	EbayAppID            string
	TargetAPIKey         string
	NovaAPIKey           string
	NovaAPIURL           string
	StrandsAPIKey        string
	StrandsWorkspaceID   string
	StrandsAPIURL        string
}

// DatabaseConfig holds Postgres configuration. An empty URL disables
// the trend snapshot store.
type DatabaseConfig struct {
	URL          string
	MaxConns     int32
	ConnTimeout  time.Duration
	QueryTimeout time.Duration
}

// NATSConfig holds NATS configuration. An empty URL disables event
// publishing and the live websocket feed.
type NATSConfig struct {
	URL            string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// TrendConfig holds trend analysis configuration
type TrendConfig struct {
	ScoreThreshold    float64
	VelocityThreshold float64
	MinEngagement     int
	LookbackDays      int
	FetchTimeout      time.Duration
	SweepInterval     time.Duration
	SweepKeywords     []string
	SignificantDelta  float64
	EventsTopic       string
}

// AlertConfig holds alert sweep configuration
type AlertConfig struct {
	CheckInterval time.Duration
	EventsTopic   string
}

// MonitoringConfig holds logging and metrics configuration
type MonitoringConfig struct {
	LogLevel            string
	MetricsEnabled      bool
	CloudWatchNamespace string
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		AppName:     getEnv("APP_NAME", "Shopping Trend Radar Agent"),
		AppVersion:  getEnv("APP_VERSION", "1.0.0"),
		Environment: getEnv("APP_ENV", "development"),
		Debug:       getEnvAsBool("DEBUG", false),
		Server: ServerConfig{
			Host:               getEnv("HOST", "0.0.0.0"),
			Port:               getEnvAsInt("PORT", 8000),
			APIPrefix:          getEnv("API_PREFIX", "/api/v1"),
			ReadTimeout:        getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:       getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout:    getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:        getEnvAsSlice("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:8000"}),
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 60),
		},
		AWS: AWSConfig{
			Region: getEnv("AWS_REGION", "us-east-1"),
		},
		Bedrock: BedrockConfig{
			ModelID:      getEnv("BEDROCK_MODEL_ID", "anthropic.claude-3-sonnet-20240229-v1:0"),
			AgentID:      getEnv("BEDROCK_AGENT_ID", ""),
			AgentAliasID: getEnv("BEDROCK_AGENT_ALIAS_ID", ""),
		},
		SageMaker: SageMakerConfig{
			EndpointName: getEnv("SAGEMAKER_ENDPOINT_NAME", "trend-prediction-endpoint"),
		},
		AmazonQ: AmazonQConfig{
			ApplicationID: getEnv("AMAZON_Q_APP_ID", ""),
			UserID:        getEnv("AMAZON_Q_USER_ID", ""),
		},
		S3: S3Config{
			Bucket:          getEnv("S3_BUCKET_NAME", "shopping-trend-radar-data"),
			DashboardPrefix: getEnv("S3_DASHBOARD_PREFIX", "dashboards/"),
			DataPrefix:      getEnv("S3_DATA_PREFIX", "data/"),
		},
		Platforms: PlatformCredentials{
			YouTubeAPIKey:        getEnv("YOUTUBE_API_KEY", ""),
			TikTokClientKey:      getEnv("TIKTOK_CLIENT_KEY", ""),
			TikTokClientSecret:   getEnv("TIKTOK_CLIENT_SECRET", ""),
			InstagramAccessToken: getEnv("INSTAGRAM_ACCESS_TOKEN", ""),
			MetaAppID:            getEnv("META_APP_ID", ""),
			MetaAppSecret:        getEnv("META_APP_SECRET", ""),
			PinterestAccessToken: getEnv("PINTEREST_ACCESS_TOKEN", ""),
			EtsyAPIKey:           getEnv("ETSY_API_KEY", ""),
			WalmartAPIKey:        getEnv("WALMART_API_KEY", ""),
			EbayAppID:            getEnv("EBAY_APP_ID", ""),
			TargetAPIKey:         getEnv("TARGET_API_KEY", ""),
			NovaAPIKey:           getEnv("NOVA_API_KEY", ""),
			NovaAPIURL:           getEnv("NOVA_API_URL", "https://api.nova.ai/v1"),
			StrandsAPIKey:        getEnv("STRANDS_API_KEY", ""),
			StrandsWorkspaceID:   getEnv("STRANDS_WORKSPACE_ID", ""),
			StrandsAPIURL:        getEnv("STRANDS_API_URL", "https://api.strands.com/v1"),
		},
		Database: DatabaseConfig{
			URL:          getEnv("DATABASE_URL", ""),
			MaxConns:     int32(getEnvAsInt("DB_MAX_CONNS", 10)),
			ConnTimeout:  getEnvAsDuration("DB_CONNECT_TIMEOUT", 5*time.Second),
			QueryTimeout: getEnvAsDuration("DB_QUERY_TIMEOUT", 5*time.Second),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", ""),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Trend: TrendConfig{
			ScoreThreshold:    getEnvAsFloat("TREND_SCORE_THRESHOLD", 0.7),
			VelocityThreshold: getEnvAsFloat("VIRAL_VELOCITY_THRESHOLD", 0.8),
			MinEngagement:     getEnvAsInt("MIN_ENGAGEMENT_COUNT", 1000),
			LookbackDays:      getEnvAsInt("TREND_LOOKBACK_DAYS", 7),
			FetchTimeout:      getEnvAsDuration("TREND_FETCH_TIMEOUT", 15*time.Second),
			SweepInterval:     getEnvAsDuration("TREND_SWEEP_INTERVAL", 30*time.Minute),
			SweepKeywords:     getEnvAsSlice("TREND_SWEEP_KEYWORDS", []string{"trending", "viral", "popular"}),
			SignificantDelta:  getEnvAsFloat("TREND_SIGNIFICANT_DELTA", 0.2),
			EventsTopic:       getEnv("TREND_EVENTS_TOPIC", "trends"),
		},
		Alert: AlertConfig{
			CheckInterval: getEnvAsDuration("ALERT_CHECK_INTERVAL", 5*time.Minute),
			EventsTopic:   getEnv("ALERT_EVENTS_TOPIC", "alerts"),
		},
		Monitoring: MonitoringConfig{
			LogLevel:            getEnv("LOG_LEVEL", "info"),
			MetricsEnabled:      getEnvAsBool("METRICS_ENABLED", true),
			CloudWatchNamespace: getEnv("CLOUDWATCH_NAMESPACE", "TrendRadar"),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Trend.ScoreThreshold < 0 || config.Trend.ScoreThreshold > 1 {
		return fmt.Errorf("trend score threshold must be between 0 and 1, got %f", config.Trend.ScoreThreshold)
	}

	if config.Alert.CheckInterval <= 0 {
		return fmt.Errorf("alert check interval must be positive, got %s", config.Alert.CheckInterval)
	}

	if config.Server.RateLimitPerMinute <= 0 {
		return fmt.Errorf("rate limit must be positive, got %d", config.Server.RateLimitPerMinute)
	}

	if !strings.HasPrefix(config.Server.APIPrefix, "/") {
		return fmt.Errorf("api prefix must start with '/', got %q", config.Server.APIPrefix)
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
