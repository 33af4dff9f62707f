package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Set defaults if necessary. MaxTries keeps its zero value: 0 means
	// unlimited attempts.
	if cfg.Directory.TimeoutS == 0 {
		cfg.Directory.TimeoutS = 30
	}
	if cfg.Retry.RetryDelayS == 0 {
		cfg.Retry.RetryDelayS = 5
	}
	if cfg.ErrorLog.Sink == "" {
		cfg.ErrorLog.Sink = "none"
	}
	if cfg.ErrorLog.Sink == "file" && cfg.ErrorLog.Path == "" {
		cfg.ErrorLog.Path = "dfsclient_errors.log"
	}

	return &cfg, nil
}
