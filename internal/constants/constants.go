package constants

import "time"

const (
	KafkaBatchTimeout = 10 * time.Millisecond
	KafkaWriteTimeout = 10 * time.Second
)

const (
	DefaultHTTPTimeout     = 10 * time.Second
	DefaultPollingInterval = 5 * time.Second
	DefaultMockDelay       = 1 * time.Second
	DefaultPipelineTimeout = 60 * time.Second
)

const (
	CacheKeyPrefixGSTIN = "gstin:"
)

const (
	DefaultPort            = 10000
	DefaultGraphAPIVersion = "v19.0"
	DefaultGraphAPIBaseURL = "https://graph.facebook.com"
	DefaultGreenAPIBaseURL = "https://api.green-api.com"
	DefaultAlertDays       = 7
	DefaultCacheTTLSeconds = 3600
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	LogPreviewLen = 50
)

const (
	HTTPStatusOKMin = 200
	HTTPStatusOKMax = 300
)

const (
	ProviderMock = "mock"
	ProviderAPI  = "api"
)

const (
	StyleRich  = "rich"
	StylePlain = "plain"
)

const (
	ServiceNameWebhook = "webhook-service"
	ServiceNamePoll    = "poll-service"
)
