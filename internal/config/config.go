// =================================
// File: internal/config/config.go
// =================================
package config

import (
	"errors"
	"net/url"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

type Config struct {
	BackendURL           string  `mapstructure:"backend_url"`
	RelayURL             string  `mapstructure:"relay_url"`
	Relay                string  `mapstructure:"relay"` // "backend" or "jito"
	JitoURL              string  `mapstructure:"jito_url"`
	JitoUUID             string  `mapstructure:"jito_uuid"`
	RequestTimeoutMs     int     `mapstructure:"request_timeout_ms"`
	MaxBundleSize        int     `mapstructure:"max_bundle_size"`
	SubmitsPerSecond     int     `mapstructure:"submits_per_second"`
	FetchRPS             float64 `mapstructure:"fetch_rps"`
	MaxRetryAttempts     int     `mapstructure:"max_retry_attempts"`
	MaxConsecutiveErrors int     `mapstructure:"max_consecutive_errors"`
	BaseRetryDelayMs     int     `mapstructure:"base_retry_delay_ms"`
	BundleDelayMs        int     `mapstructure:"bundle_delay_ms"`
	RecipientDelayMs     int     `mapstructure:"recipient_delay_ms"`
	SlippagePercent      float64 `mapstructure:"slippage_percent"`
	PriorityFeeSol       string  `mapstructure:"priority_fee_sol"`
	WalletsFile          string  `mapstructure:"wallets_file"`
	TasksFile            string  `mapstructure:"tasks_file"`
	DebugLogging         bool    `mapstructure:"debug_logging"`
}

const (
	DefaultRequestTimeoutMs     = 30_000
	DefaultMaxBundleSize        = 5
	DefaultSubmitsPerSecond     = 2
	DefaultFetchRPS             = 5.0
	DefaultMaxRetryAttempts     = 50
	DefaultMaxConsecutiveErrors = 3
	DefaultBaseRetryDelayMs     = 200
	DefaultBundleDelayMs        = 1000
	DefaultRecipientDelayMs     = 3000
	DefaultSlippagePercent      = 5.0
)

func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	defaults := map[string]interface{}{
		"relay":                  "backend",
		"request_timeout_ms":     DefaultRequestTimeoutMs,
		"max_bundle_size":        DefaultMaxBundleSize,
		"submits_per_second":     DefaultSubmitsPerSecond,
		"fetch_rps":              DefaultFetchRPS,
		"max_retry_attempts":     DefaultMaxRetryAttempts,
		"max_consecutive_errors": DefaultMaxConsecutiveErrors,
		"base_retry_delay_ms":    DefaultBaseRetryDelayMs,
		"bundle_delay_ms":        DefaultBundleDelayMs,
		"recipient_delay_ms":     DefaultRecipientDelayMs,
		"slippage_percent":       DefaultSlippagePercent,
		"wallets_file":           "configs/wallets.yaml",
		"tasks_file":             "configs/tasks.yaml",
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := loadEnvironmentVariables(v, &cfg); err != nil {
		return nil, err
	}

	// The relay defaults to the backend itself unless configured separately.
	if cfg.RelayURL == "" {
		cfg.RelayURL = cfg.BackendURL
	}

	return &cfg, validateConfig(&cfg)
}

func validateConfig(cfg *Config) error {
	if cfg.BackendURL == "" {
		return errors.New("missing backend_url in configuration")
	}
	if err := validateURLWithCache(cfg.BackendURL, "http"); err != nil {
		return errors.New("invalid backend URL protocol")
	}
	if err := validateURLWithCache(cfg.RelayURL, "http"); err != nil {
		return errors.New("invalid relay URL protocol")
	}
	switch cfg.Relay {
	case "backend", "jito":
	default:
		return errors.New("relay must be \"backend\" or \"jito\"")
	}
	if cfg.Relay == "jito" && cfg.JitoURL == "" {
		return errors.New("jito relay selected but jito_url is empty")
	}
	if cfg.JitoURL != "" {
		if err := validateURLWithCache(cfg.JitoURL, "http"); err != nil {
			return errors.New("invalid jito URL protocol")
		}
	}
	return validateNumericParams(cfg)
}

func validateNumericParams(cfg *Config) error {
	if cfg.RequestTimeoutMs <= 0 {
		return errors.New("invalid request_timeout_ms")
	}
	if cfg.MaxBundleSize <= 0 {
		return errors.New("invalid max_bundle_size")
	}
	if cfg.SubmitsPerSecond <= 0 {
		return errors.New("invalid submits_per_second")
	}
	if cfg.FetchRPS <= 0 {
		return errors.New("invalid fetch_rps")
	}
	if cfg.MaxRetryAttempts <= 0 {
		return errors.New("invalid max_retry_attempts")
	}
	if cfg.MaxConsecutiveErrors <= 0 {
		return errors.New("invalid max_consecutive_errors")
	}
	if cfg.BaseRetryDelayMs <= 0 {
		return errors.New("invalid base_retry_delay_ms")
	}
	if cfg.BundleDelayMs < 0 {
		return errors.New("invalid bundle_delay_ms")
	}
	if cfg.RecipientDelayMs < 0 {
		return errors.New("invalid recipient_delay_ms")
	}
	if cfg.SlippagePercent < 0 || cfg.SlippagePercent > 100 {
		return errors.New("invalid slippage_percent")
	}
	return nil
}

var urlCache sync.Map

func validateURLWithCache(rawURL string, protocol string) error {
	if _, ok := urlCache.Load(rawURL); ok {
		return nil
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return errors.New("invalid URL format")
	}
	if !strings.HasPrefix(parsed.Scheme, protocol) {
		return errors.New("invalid URL protocol")
	}
	urlCache.Store(rawURL, parsed)
	return nil
}

func loadEnvironmentVariables(v *viper.Viper, cfg *Config) error {
	v.AutomaticEnv()
	v.SetEnvPrefix("BUNDLER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBackend := v.GetString("BACKEND_URL")
	if envBackend != "" {
		cfg.BackendURL = envBackend
	}

	envRelay := v.GetString("RELAY_URL")
	if envRelay != "" {
		cfg.RelayURL = envRelay
	}

	envJitoUUID := v.GetString("JITO_UUID")
	if envJitoUUID != "" {
		cfg.JitoUUID = envJitoUUID
	}
	return nil
}
