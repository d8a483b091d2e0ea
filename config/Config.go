package config

import (
	"time"

	"github.com/owlhub/owlflow-jira/analytics"
)

type Config struct {
	RedisConfig     RedisStorageConfig
	NatsConfig      NatsConfig
	WebhookConfig   WebhookConfig
	TracingConfig   TracingConfig
	HttpPort        int
	JiraTimeout     time.Duration
	NodeCacheTTL    time.Duration
	WorkerCapacity  int
	LogLevel        string
	AnalyticsConfig analytics.DataCollectorConfig
}

type RedisStorageConfig struct {
	Addrs     []string
	Namespace string
	Password  string
}

type NatsConfig struct {
	URL             string
	Stream          string
	SubjectPrefix   string
	ConsumerService string
	EventBusName    string
	HandleTimeout   time.Duration
}

type WebhookConfig struct {
	UserAgents []string
}

// TracingConfig is disabled when OTLPEndpoint is empty.
type TracingConfig struct {
	ServiceName  string
	OTLPEndpoint string
	SampleRatio  float64
}
