package config

import (
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultServerURL    = "http://localhost:8000"
	DefaultAnalysisCode = "12345"
	DefaultSizeUnit     = "" // command default: bytes for analyze, auto for estimate
	DefaultIndicator    = "tui"
	DefaultFrameMs      = 16
)

// Config holds all configuration options
type Config struct {
	// Version information
	Version   string
	BuildTime string
	GitCommit string

	// Analysis service
	ServerURL    string
	AnalysisCode string
	Timeout      time.Duration // 0 means no timeout

	// Progress options
	SizeUnit      string // "", "auto", "bytes", "kb"
	Indicator     string // "tui", "bar", "line", "none"
	FrameInterval time.Duration

	// Object storage for remote inputs
	StorageEndpoint  string
	StorageRegion    string
	StorageAccessKey string
	StorageSecretKey string

	// Output options
	NoColor   bool
	Debug     bool
	LogLevel  string
	LogFormat string
	LogFile   string

	// Local config file handling
	NoSaveConfig bool
	NoLoadConfig bool
}

// New creates a new configuration with default values
func New() *Config {
	return &Config{
		// Service defaults
		ServerURL:    getEnvString("AUDIOPROBE_URL", DefaultServerURL),
		AnalysisCode: getEnvString("ANALYSIS_CODE", DefaultAnalysisCode),
		Timeout:      getEnvDuration("AUDIOPROBE_TIMEOUT", 0),

		// Progress defaults
		SizeUnit:      getEnvString("AUDIOPROBE_SIZE_UNIT", DefaultSizeUnit),
		Indicator:     getEnvString("AUDIOPROBE_INDICATOR", DefaultIndicator),
		FrameInterval: time.Duration(getEnvInt("AUDIOPROBE_FRAME_MS", DefaultFrameMs)) * time.Millisecond,

		// Storage defaults
		StorageEndpoint:  getEnvString("AUDIOPROBE_ENDPOINT", ""),
		StorageRegion:    getEnvString("AWS_REGION", "us-east-1"),
		StorageAccessKey: getEnvString("AUDIOPROBE_ACCESS_KEY", ""),
		StorageSecretKey: getEnvString("AUDIOPROBE_SECRET_KEY", ""),

		// Output defaults
		NoColor:   getEnvBool("NO_COLOR", false),
		Debug:     getEnvBool("DEBUG", false),
		LogLevel:  getEnvString("LOG_LEVEL", "info"),
		LogFormat: getEnvString("LOG_FORMAT", "text"),
		LogFile:   getEnvString("AUDIOPROBE_LOG_FILE", ""),
	}
}

// UpdateFromEnvironment refreshes secrets that may be set after startup
func (c *Config) UpdateFromEnvironment() {
	if code := os.Getenv("ANALYSIS_CODE"); code != "" {
		c.AnalysisCode = code
	}
	if secret := os.Getenv("AUDIOPROBE_SECRET_KEY"); secret != "" {
		c.StorageSecretKey = secret
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	u, err := url.Parse(c.ServerURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return &ConfigError{Field: "url", Value: c.ServerURL, Message: "must be an http(s) URL"}
	}

	switch strings.ToLower(c.SizeUnit) {
	case "", "auto", "bytes", "kb":
	default:
		return &ConfigError{Field: "size-unit", Value: c.SizeUnit, Message: "must be 'auto', 'bytes' or 'kb'"}
	}

	switch c.Indicator {
	case "tui", "bar", "line", "none":
	default:
		return &ConfigError{Field: "indicator", Value: c.Indicator, Message: "must be 'tui', 'bar', 'line' or 'none'"}
	}

	if c.FrameInterval <= 0 {
		return &ConfigError{Field: "frame-ms", Value: c.FrameInterval.String(), Message: "must be positive"}
	}

	if c.Timeout < 0 {
		return &ConfigError{Field: "timeout", Value: c.Timeout.String(), Message: "must not be negative"}
	}

	return nil
}

// SizeUnitOr returns SizeUnit, or fallback when none was configured
func (c *Config) SizeUnitOr(fallback string) string {
	if c.SizeUnit == "" {
		return fallback
	}
	return strings.ToLower(c.SizeUnit)
}

// EffectiveLogLevel returns "debug" when Debug is set, LogLevel otherwise
func (c *Config) EffectiveLogLevel() string {
	if c.Debug {
		return "debug"
	}
	return c.LogLevel
}

// ConfigError represents a configuration validation error
type ConfigError struct {
	Field   string
	Value   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "' with value '" + e.Value + "': " + e.Message
}

// Helper functions
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
