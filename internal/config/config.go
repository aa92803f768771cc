package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

const (
	cfgKeyApiBase        = "api_base"
	cfgKeyApiToken       = "api_token"
	cfgKeyMappingFieldId = "mapping_field_id"
	cfgKeyRequestTimeout = "request_timeout"
	cfgKeyPageDelay      = "page_delay"
	cfgKeyWriteDelay     = "write_delay"
	cfgKeyDatabasePath   = "database_path"
	cfgKeySummaryPath    = "summary_path"
)

// Config carries everything the client and the migration service need. All
// fields have defaults except the API token, which must come from the
// QASE_API_TOKEN environment variable (or config.yaml).
type Config struct {
	ApiBase        string
	ApiToken       string
	MappingFieldId int64
	RequestTimeout time.Duration
	PageDelay      time.Duration
	WriteDelay     time.Duration
	DatabasePath   string
	SummaryPath    string
}

// Load reads config.yaml from the working directory when present and lets
// QASE_* environment variables override it. A missing config.yaml is not an
// error.
func Load() (*Config, error) {
	v := viper.New()
	v.SetDefault(cfgKeyApiBase, "https://api.qase.io/v1")
	v.SetDefault(cfgKeyMappingFieldId, 1)
	v.SetDefault(cfgKeyRequestTimeout, "30s")
	v.SetDefault(cfgKeyPageDelay, "50ms")
	v.SetDefault(cfgKeyWriteDelay, "100ms")
	v.SetDefault(cfgKeyDatabasePath, "./migrator.db")
	v.SetDefault(cfgKeySummaryPath, "summary.json")

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	v.SetEnvPrefix("qase")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		ApiBase:        v.GetString(cfgKeyApiBase),
		ApiToken:       v.GetString(cfgKeyApiToken),
		MappingFieldId: v.GetInt64(cfgKeyMappingFieldId),
		RequestTimeout: v.GetDuration(cfgKeyRequestTimeout),
		PageDelay:      v.GetDuration(cfgKeyPageDelay),
		WriteDelay:     v.GetDuration(cfgKeyWriteDelay),
		DatabasePath:   v.GetString(cfgKeyDatabasePath),
		SummaryPath:    v.GetString(cfgKeySummaryPath),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.ApiToken == "" {
		return errors.New("QASE_API_TOKEN is not set")
	}
	if c.ApiBase == "" {
		return errors.New("api_base must not be empty")
	}
	if c.MappingFieldId <= 0 {
		return fmt.Errorf("mapping_field_id must be positive, got %d", c.MappingFieldId)
	}
	return nil
}
