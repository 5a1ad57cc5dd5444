package config

import (
	"time"
)

// Config is built once at startup and treated as read-only afterwards.
type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Logging        LoggingConfig        `mapstructure:"logging"`
	WhatsApp       WhatsAppConfig       `mapstructure:"whatsapp"`
	GreenAPI       GreenAPIConfig       `mapstructure:"green_api"`
	Webhook        WebhookConfig        `mapstructure:"webhook"`
	Poll           PollConfig           `mapstructure:"poll"`
	Lookup         LookupConfig         `mapstructure:"lookup"`
	Formatting     FormattingConfig     `mapstructure:"formatting"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Broker         BrokerConfig         `mapstructure:"broker"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
	Tracing        TracingConfig        `mapstructure:"tracing"`
}

type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// WhatsAppConfig holds the Cloud API credentials used in push mode.
type WhatsAppConfig struct {
	VerifyToken   string        `mapstructure:"verify_token"`
	AccessToken   string        `mapstructure:"access_token"`
	PhoneNumberID string        `mapstructure:"phone_number_id"`
	AppSecret     string        `mapstructure:"app_secret"`
	APIVersion    string        `mapstructure:"api_version"`
	BaseURL       string        `mapstructure:"base_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// GreenAPIConfig holds the instance credentials used in poll mode.
type GreenAPIConfig struct {
	InstanceID string        `mapstructure:"instance_id"`
	Token      string        `mapstructure:"token"`
	BaseURL    string        `mapstructure:"base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

type WebhookConfig struct {
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
}

type RateLimitConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	RPS             float64 `mapstructure:"rps"`
	Burst           int     `mapstructure:"burst"`
	CleanupInterval int     `mapstructure:"cleanup_interval"`
	MaxAge          int     `mapstructure:"max_age"`
}

type PollConfig struct {
	Interval        time.Duration `mapstructure:"interval"`
	DedupCapacity   int           `mapstructure:"dedup_capacity"`
	PipelineTimeout time.Duration `mapstructure:"pipeline_timeout"`
}

type LookupConfig struct {
	Provider string            `mapstructure:"provider"`
	Timeout  time.Duration     `mapstructure:"timeout"`
	API      LookupAPIConfig   `mapstructure:"api"`
	Mock     LookupMockConfig  `mapstructure:"mock"`
	Cache    LookupCacheConfig `mapstructure:"cache"`
}

type LookupAPIConfig struct {
	// URL may contain the {gstin} placeholder; otherwise the identifier is appended as a path segment.
	URL    string `mapstructure:"url"`
	APIKey string `mapstructure:"api_key"`
}

type LookupMockConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

type LookupCacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds"`
}

type FormattingConfig struct {
	Style     string `mapstructure:"style"`
	AlertDays int    `mapstructure:"alert_days"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type BrokerConfig struct {
	Type  string      `mapstructure:"type"`
	Kafka KafkaConfig `mapstructure:"kafka"`
}

type KafkaConfig struct {
	Brokers      []string `mapstructure:"brokers"`
	OutcomeTopic string   `mapstructure:"outcome_topic"`
}

type CircuitBreakerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
	MinRequests  uint32        `mapstructure:"min_requests"`
}

type TracingConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	ServiceName string        `mapstructure:"service_name"`
	OTLP        OTLPConfig    `mapstructure:"otlp"`
	Sampler     SamplerConfig `mapstructure:"sampler"`
}

type OTLPConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Insecure bool   `mapstructure:"insecure"`
}

type SamplerConfig struct {
	Type  string  `mapstructure:"type"`
	Param float64 `mapstructure:"param"`
}

func Load(configFile string) (*Config, error) {
	return LoadConfig(configFile)
}
