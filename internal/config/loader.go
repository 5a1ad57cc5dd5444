package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"gstrelay/internal/constants"
)

// LoadConfig reads .env (if present), the optional YAML file and the environment.
// Environment values win over the file.
func LoadConfig(configFile string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	viper.Reset()

	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()
	bindEnvVariables()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyEnvOverrides(&cfg)

	if err := ValidateStatic(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func loadDotEnv() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("server.port", constants.DefaultPort)
	viper.SetDefault("server.read_timeout", "15s")
	viper.SetDefault("server.write_timeout", "15s")
	viper.SetDefault("server.environment", "development")

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")

	viper.SetDefault("whatsapp.api_version", constants.DefaultGraphAPIVersion)
	viper.SetDefault("whatsapp.base_url", constants.DefaultGraphAPIBaseURL)
	viper.SetDefault("whatsapp.timeout", constants.DefaultHTTPTimeout)

	viper.SetDefault("green_api.base_url", constants.DefaultGreenAPIBaseURL)
	viper.SetDefault("green_api.timeout", constants.DefaultHTTPTimeout)

	viper.SetDefault("webhook.rate_limit.enabled", false)
	viper.SetDefault("webhook.rate_limit.rps", 10.0)
	viper.SetDefault("webhook.rate_limit.burst", 20)
	viper.SetDefault("webhook.rate_limit.cleanup_interval", 300)
	viper.SetDefault("webhook.rate_limit.max_age", 600)

	viper.SetDefault("poll.interval", constants.DefaultPollingInterval)
	viper.SetDefault("poll.dedup_capacity", 0)
	viper.SetDefault("poll.pipeline_timeout", constants.DefaultPipelineTimeout)

	viper.SetDefault("lookup.provider", constants.ProviderMock)
	viper.SetDefault("lookup.timeout", constants.DefaultHTTPTimeout)
	viper.SetDefault("lookup.mock.delay", constants.DefaultMockDelay)
	viper.SetDefault("lookup.cache.enabled", false)
	viper.SetDefault("lookup.cache.ttl_seconds", constants.DefaultCacheTTLSeconds)

	viper.SetDefault("formatting.style", constants.StyleRich)
	viper.SetDefault("formatting.alert_days", constants.DefaultAlertDays)

	viper.SetDefault("database.redis.port", 6379)

	viper.SetDefault("broker.type", "")

	viper.SetDefault("circuit_breaker.enabled", false)

	viper.SetDefault("tracing.enabled", false)
	viper.SetDefault("tracing.sampler.type", "always_on")
}

func bindEnvVariables() {
	viper.BindEnv("server.port", "SERVER_PORT", "PORT")
	viper.BindEnv("server.environment", "SERVER_ENVIRONMENT", "NODE_ENV")

	viper.BindEnv("logging.level", "LOGGING_LEVEL")
	viper.BindEnv("logging.format", "LOGGING_FORMAT")

	viper.BindEnv("whatsapp.verify_token", "WHATSAPP_VERIFY_TOKEN", "VERIFY_TOKEN")
	viper.BindEnv("whatsapp.access_token", "WHATSAPP_ACCESS_TOKEN", "WHATSAPP_TOKEN")
	viper.BindEnv("whatsapp.phone_number_id", "WHATSAPP_PHONE_NUMBER_ID", "PHONE_NUMBER_ID")
	viper.BindEnv("whatsapp.app_secret", "WHATSAPP_APP_SECRET", "APP_SECRET")
	viper.BindEnv("whatsapp.api_version", "WHATSAPP_API_VERSION")

	viper.BindEnv("green_api.instance_id", "GREEN_API_INSTANCE_ID", "ID_INSTANCE")
	viper.BindEnv("green_api.token", "GREEN_API_TOKEN", "API_TOKEN_INSTANCE")
	viper.BindEnv("green_api.base_url", "GREEN_API_BASE_URL")

	viper.BindEnv("poll.interval", "POLL_INTERVAL", "POLLING_INTERVAL")
	viper.BindEnv("poll.dedup_capacity", "POLL_DEDUP_CAPACITY")

	viper.BindEnv("lookup.provider", "LOOKUP_PROVIDER")
	viper.BindEnv("lookup.api.url", "LOOKUP_API_URL", "GST_API_URL")
	viper.BindEnv("lookup.api.api_key", "LOOKUP_API_KEY", "GST_API_KEY")
	viper.BindEnv("lookup.cache.enabled", "LOOKUP_CACHE_ENABLED")

	viper.BindEnv("formatting.style", "FORMATTING_STYLE")

	viper.BindEnv("database.redis.host", "DATABASE_REDIS_HOST", "REDIS_HOST")
	viper.BindEnv("database.redis.port", "DATABASE_REDIS_PORT", "REDIS_PORT")
	viper.BindEnv("database.redis.password", "DATABASE_REDIS_PASSWORD", "REDIS_PASSWORD")
	viper.BindEnv("database.redis.db", "DATABASE_REDIS_DB")

	viper.BindEnv("broker.type", "BROKER_TYPE")
	viper.BindEnv("broker.kafka.brokers", "BROKER_KAFKA_BROKERS")
	viper.BindEnv("broker.kafka.outcome_topic", "BROKER_KAFKA_OUTCOME_TOPIC")

	viper.BindEnv("tracing.enabled", "TRACING_ENABLED")
	viper.BindEnv("tracing.service_name", "TRACING_SERVICE_NAME")
	viper.BindEnv("tracing.otlp.endpoint", "TRACING_OTLP_ENDPOINT")
	viper.BindEnv("tracing.otlp.insecure", "TRACING_OTLP_INSECURE")
}

func applyEnvOverrides(cfg *Config) {
	if brokersEnv := os.Getenv("BROKER_KAFKA_BROKERS"); brokersEnv != "" {
		brokers := strings.Split(brokersEnv, ",")
		for i := range brokers {
			brokers[i] = strings.TrimSpace(brokers[i])
		}
		if len(brokers) > 0 && brokers[0] != "" {
			cfg.Broker.Kafka.Brokers = brokers
		}
	}
}
