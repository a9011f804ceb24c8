// Package config loads server configuration from an optional config file and
// BOLNA_-prefixed environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full server configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Twilio    TwilioConfig    `mapstructure:"twilio"`
	AWS       AWSConfig       `mapstructure:"aws"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
}

// ServerConfig configures the HTTP/websocket listener.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// MetricsConfig configures the Prometheus exporter.
type MetricsConfig struct {
	Enabled        bool `mapstructure:"enabled"`
	PrometheusPort int  `mapstructure:"prometheus_port"`
}

// TwilioConfig holds the telephony provider credentials.
type TwilioConfig struct {
	AccountSID string `mapstructure:"account_sid"`
	AuthToken  string `mapstructure:"auth_token"`
}

// AWSConfig names the durable stores.
type AWSConfig struct {
	Region          string `mapstructure:"region"`
	RecordingBucket string `mapstructure:"recording_bucket"`
	RunTable        string `mapstructure:"run_table"`
}

// PricingConfig overrides the default unit rates. Zero values keep defaults.
type PricingConfig struct {
	LLMInputPerToken       float64 `mapstructure:"llm_input_per_token"`
	LLMOutputPerToken      float64 `mapstructure:"llm_output_per_token"`
	TranscriptionPerSecond float64 `mapstructure:"transcription_per_second"`
	SynthesisPerChar       float64 `mapstructure:"synthesis_per_char"`
}

// Load reads configuration. path may be empty, in which case only defaults
// and environment variables apply (BOLNA_TWILIO_ACCOUNT_SID and friends).
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 5001)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("metrics.enabled", false)
	v.SetDefault("metrics.prometheus_port", 9090)
	v.SetDefault("aws.region", "us-east-1")
	v.SetDefault("aws.recording_bucket", "bolna")
	v.SetDefault("aws.run_table", "bolna-runs")

	// Defaults for every key so AutomaticEnv-provided values survive
	// Unmarshal (viper only unmarshals keys it knows about).
	v.SetDefault("twilio.account_sid", "")
	v.SetDefault("twilio.auth_token", "")
	v.SetDefault("pricing.llm_input_per_token", 0.0)
	v.SetDefault("pricing.llm_output_per_token", 0.0)
	v.SetDefault("pricing.transcription_per_second", 0.0)
	v.SetDefault("pricing.synthesis_per_char", 0.0)

	v.SetEnvPrefix("BOLNA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings a server cannot start without.
func (c *Config) Validate() error {
	if c.Twilio.AccountSID == "" || c.Twilio.AuthToken == "" {
		return fmt.Errorf("twilio credentials are required (BOLNA_TWILIO_ACCOUNT_SID, BOLNA_TWILIO_AUTH_TOKEN)")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
