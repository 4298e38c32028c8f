package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const ConfigFileName = ".audioprobe.conf"

// LocalConfig represents a saved configuration in the current directory.
// Secrets (analysis code, storage keys) are never written.
type LocalConfig struct {
	// Server settings
	ServerURL string
	Timeout   time.Duration

	// Progress settings
	SizeUnit  string
	Indicator string
	FrameMs   int

	// Storage settings
	Endpoint string
	Region   string
}

// LoadLocalConfig loads configuration from .audioprobe.conf in current directory
func LoadLocalConfig() (*LocalConfig, error) {
	configPath := filepath.Join(".", ConfigFileName)

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil // No config file, not an error
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return parseLocalConfig(string(data)), nil
}

func parseLocalConfig(data string) *LocalConfig {
	cfg := &LocalConfig{}
	currentSection := ""

	for _, line := range strings.Split(data, "\n") {
		line = strings.TrimSpace(line)

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.Trim(line, "[]")
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch currentSection {
		case "server":
			switch key {
			case "url":
				cfg.ServerURL = value
			case "timeout":
				if d, err := time.ParseDuration(value); err == nil {
					cfg.Timeout = d
				}
			}
		case "progress":
			switch key {
			case "size_unit":
				cfg.SizeUnit = value
			case "indicator":
				cfg.Indicator = value
			case "frame_ms":
				if ms, err := strconv.Atoi(value); err == nil {
					cfg.FrameMs = ms
				}
			}
		case "storage":
			switch key {
			case "endpoint":
				cfg.Endpoint = value
			case "region":
				cfg.Region = value
			}
		}
	}

	return cfg
}

// SaveLocalConfig saves configuration to .audioprobe.conf in current directory
func SaveLocalConfig(cfg *LocalConfig) error {
	var sb strings.Builder

	sb.WriteString("# audioprobe configuration\n")
	sb.WriteString("# This file is auto-generated. Edit with care.\n\n")

	sb.WriteString("[server]\n")
	if cfg.ServerURL != "" {
		sb.WriteString(fmt.Sprintf("url = %s\n", cfg.ServerURL))
	}
	if cfg.Timeout != 0 {
		sb.WriteString(fmt.Sprintf("timeout = %s\n", cfg.Timeout))
	}
	sb.WriteString("\n")

	sb.WriteString("[progress]\n")
	if cfg.SizeUnit != "" {
		sb.WriteString(fmt.Sprintf("size_unit = %s\n", cfg.SizeUnit))
	}
	if cfg.Indicator != "" {
		sb.WriteString(fmt.Sprintf("indicator = %s\n", cfg.Indicator))
	}
	if cfg.FrameMs != 0 {
		sb.WriteString(fmt.Sprintf("frame_ms = %d\n", cfg.FrameMs))
	}
	sb.WriteString("\n")

	sb.WriteString("[storage]\n")
	if cfg.Endpoint != "" {
		sb.WriteString(fmt.Sprintf("endpoint = %s\n", cfg.Endpoint))
	}
	if cfg.Region != "" {
		sb.WriteString(fmt.Sprintf("region = %s\n", cfg.Region))
	}

	configPath := filepath.Join(".", ConfigFileName)
	if err := os.WriteFile(configPath, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyLocalConfig applies loaded local config to the main config if values are still at their defaults
func ApplyLocalConfig(cfg *Config, local *LocalConfig) {
	if local == nil {
		return
	}

	if cfg.ServerURL == DefaultServerURL && local.ServerURL != "" {
		cfg.ServerURL = local.ServerURL
	}
	if cfg.Timeout == 0 && local.Timeout > 0 {
		cfg.Timeout = local.Timeout
	}
	if cfg.SizeUnit == DefaultSizeUnit && local.SizeUnit != "" {
		cfg.SizeUnit = local.SizeUnit
	}
	if cfg.Indicator == DefaultIndicator && local.Indicator != "" {
		cfg.Indicator = local.Indicator
	}
	if cfg.FrameInterval == DefaultFrameMs*time.Millisecond && local.FrameMs > 0 {
		cfg.FrameInterval = time.Duration(local.FrameMs) * time.Millisecond
	}
	if cfg.StorageEndpoint == "" && local.Endpoint != "" {
		cfg.StorageEndpoint = local.Endpoint
	}
	if local.Region != "" {
		cfg.StorageRegion = local.Region
	}
}

// ConfigFromConfig creates a LocalConfig from a Config
func ConfigFromConfig(cfg *Config) *LocalConfig {
	return &LocalConfig{
		ServerURL: cfg.ServerURL,
		Timeout:   cfg.Timeout,
		SizeUnit:  cfg.SizeUnit,
		Indicator: cfg.Indicator,
		FrameMs:   int(cfg.FrameInterval / time.Millisecond),
		Endpoint:  cfg.StorageEndpoint,
		Region:    cfg.StorageRegion,
	}
}
