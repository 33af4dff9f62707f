package config

import (
	"github.com/vietddude/dfsclient/internal/infra/errlog"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server    ServerConfig    `yaml:"server"`
	Directory DirectoryConfig `yaml:"directory"`
	Retry     RetryConfig     `yaml:"retry"`
	Logging   LoggingConfig   `yaml:"logging"`
	ErrorLog  ErrorLogConfig  `yaml:"error_log"`
}

// ServerConfig holds debug HTTP server settings (health and metrics).
type ServerConfig struct {
	Port int `yaml:"port"` // 0 = disabled
}

// DirectoryConfig holds directory service connection settings.
type DirectoryConfig struct {
	Endpoint string `yaml:"endpoint"`
	TimeoutS int    `yaml:"timeout_s"`
}

// RetryConfig holds retry engine settings. Delays are whole seconds, the
// granularity servers report TTLs in.
type RetryConfig struct {
	MaxTries         int  `yaml:"max_tries"` // 0 = unlimited
	RetryDelayS      int  `yaml:"retry_delay_s"`
	DelayLastAttempt bool `yaml:"delay_last_attempt"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// ErrorLogConfig selects and configures the persistent error log sink.
type ErrorLogConfig struct {
	Sink     string                `yaml:"sink"` // none, file, redis, postgres
	Path     string                `yaml:"path"` // file sink only
	Redis    errlog.RedisConfig    `yaml:"redis"`
	Database errlog.PostgresConfig `yaml:"database"`
}
