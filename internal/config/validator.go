package config

import (
	"fmt"
	"strings"

	"gstrelay/internal/constants"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// ValidateStatic checks settings shared by both services.
func ValidateStatic(cfg *Config) error {
	var errors []error

	for _, check := range []func(*Config) error{
		func(c *Config) error { return validateServer(c.Server) },
		func(c *Config) error { return validateLookup(c.Lookup, c.Database.Redis) },
		func(c *Config) error { return validateFormatting(c.Formatting) },
		func(c *Config) error { return validateBroker(c.Broker) },
	} {
		if err := check(cfg); err != nil {
			errors = append(errors, err)
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}

	return nil
}

// ValidateWebhook checks the credentials the push-mode service needs.
func ValidateWebhook(cfg *Config) error {
	if cfg.WhatsApp.VerifyToken == "" {
		return &ValidationError{Field: "whatsapp.verify_token", Message: "verify token is required"}
	}
	if cfg.WhatsApp.AccessToken == "" {
		return &ValidationError{Field: "whatsapp.access_token", Message: "access token is required"}
	}
	if cfg.WhatsApp.PhoneNumberID == "" {
		return &ValidationError{Field: "whatsapp.phone_number_id", Message: "phone number id is required"}
	}
	if cfg.Webhook.RateLimit.Enabled && (cfg.Webhook.RateLimit.RPS <= 0 || cfg.Webhook.RateLimit.Burst <= 0) {
		return &ValidationError{Field: "webhook.rate_limit", Message: "rps and burst must be positive when enabled"}
	}
	return nil
}

// ValidatePoll checks the credentials the poll-mode service needs.
func ValidatePoll(cfg *Config) error {
	if cfg.GreenAPI.InstanceID == "" {
		return &ValidationError{Field: "green_api.instance_id", Message: "instance id is required"}
	}
	if cfg.GreenAPI.Token == "" {
		return &ValidationError{Field: "green_api.token", Message: "api token is required"}
	}
	if cfg.Poll.Interval <= 0 {
		return &ValidationError{Field: "poll.interval", Message: "polling interval must be positive"}
	}
	if cfg.Poll.DedupCapacity < 0 {
		return &ValidationError{Field: "poll.dedup_capacity", Message: "dedup capacity must be non-negative"}
	}
	return nil
}

func validateServer(cfg ServerConfig) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return &ValidationError{
			Field:   "server.port",
			Message: fmt.Sprintf("port must be between 1 and 65535, got %d", cfg.Port),
		}
	}
	return nil
}

func validateLookup(cfg LookupConfig, redis RedisConfig) error {
	switch strings.ToLower(cfg.Provider) {
	case constants.ProviderMock:
	case constants.ProviderAPI:
		if cfg.API.URL == "" {
			return &ValidationError{
				Field:   "lookup.api.url",
				Message: "lookup API URL is required for the api provider",
			}
		}
		if !strings.HasPrefix(cfg.API.URL, "http://") && !strings.HasPrefix(cfg.API.URL, "https://") {
			return &ValidationError{
				Field:   "lookup.api.url",
				Message: "lookup API URL must start with http:// or https://",
			}
		}
	default:
		return &ValidationError{
			Field:   "lookup.provider",
			Message: fmt.Sprintf("unknown lookup provider: %s (supported: mock, api)", cfg.Provider),
		}
	}

	if cfg.Timeout <= 0 {
		return &ValidationError{Field: "lookup.timeout", Message: "timeout must be positive"}
	}

	if cfg.Cache.Enabled {
		if redis.Host == "" {
			return &ValidationError{
				Field:   "database.redis.host",
				Message: "Redis host is required when the lookup cache is enabled",
			}
		}
		if redis.Port < 1 || redis.Port > 65535 {
			return &ValidationError{
				Field:   "database.redis.port",
				Message: fmt.Sprintf("port must be between 1 and 65535, got %d", redis.Port),
			}
		}
		if cfg.Cache.TTLSeconds <= 0 {
			return &ValidationError{Field: "lookup.cache.ttl_seconds", Message: "TTL must be positive"}
		}
	}

	return nil
}

func validateFormatting(cfg FormattingConfig) error {
	switch cfg.Style {
	case constants.StyleRich, constants.StylePlain:
	default:
		return &ValidationError{
			Field:   "formatting.style",
			Message: fmt.Sprintf("invalid style: %s (valid: rich, plain)", cfg.Style),
		}
	}
	if cfg.AlertDays < 0 {
		return &ValidationError{Field: "formatting.alert_days", Message: "alert days must be non-negative"}
	}
	return nil
}

func validateBroker(cfg BrokerConfig) error {
	switch cfg.Type {
	case "":
		return nil
	case "kafka":
		if len(cfg.Kafka.Brokers) == 0 {
			return &ValidationError{
				Field:   "broker.kafka.brokers",
				Message: "at least one Kafka broker is required",
			}
		}
		for i, broker := range cfg.Kafka.Brokers {
			if broker == "" {
				return &ValidationError{
					Field:   fmt.Sprintf("broker.kafka.brokers[%d]", i),
					Message: "broker address cannot be empty",
				}
			}
		}
		if cfg.Kafka.OutcomeTopic == "" {
			return &ValidationError{
				Field:   "broker.kafka.outcome_topic",
				Message: "outcome topic is required for the kafka broker",
			}
		}
		return nil
	default:
		return &ValidationError{
			Field:   "broker.type",
			Message: fmt.Sprintf("unknown broker type: %s (supported: kafka)", cfg.Type),
		}
	}
}
