package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
directory:
  endpoint: http://dir.example:30638
  timeout_s: 10
retry:
  max_tries: 40
  retry_delay_s: 15
  delay_last_attempt: true
logging:
  level: debug
  format: json
error_log:
  sink: file
  path: /var/log/dfs/errors.log
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.Server.Port)
	}
	if cfg.Directory.Endpoint != "http://dir.example:30638" {
		t.Errorf("unexpected endpoint %s", cfg.Directory.Endpoint)
	}
	if cfg.Retry.MaxTries != 40 || cfg.Retry.RetryDelayS != 15 || !cfg.Retry.DelayLastAttempt {
		t.Errorf("unexpected retry config %+v", cfg.Retry)
	}
	if cfg.ErrorLog.Sink != "file" || cfg.ErrorLog.Path != "/var/log/dfs/errors.log" {
		t.Errorf("unexpected error_log config %+v", cfg.ErrorLog)
	}
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
directory:
  endpoint: http://localhost:30638
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Directory.TimeoutS != 30 {
		t.Errorf("expected default timeout 30s, got %d", cfg.Directory.TimeoutS)
	}
	if cfg.Retry.RetryDelayS != 5 {
		t.Errorf("expected default retry delay 5s, got %d", cfg.Retry.RetryDelayS)
	}
	// Zero max_tries means unlimited attempts and must survive defaulting.
	if cfg.Retry.MaxTries != 0 {
		t.Errorf("expected max_tries 0, got %d", cfg.Retry.MaxTries)
	}
	if cfg.ErrorLog.Sink != "none" {
		t.Errorf("expected sink none, got %s", cfg.ErrorLog.Sink)
	}
}

func TestLoad_FileSinkDefaultPath(t *testing.T) {
	path := writeConfig(t, `
error_log:
  sink: file
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.ErrorLog.Path != "dfsclient_errors.log" {
		t.Errorf("expected default file path, got %s", cfg.ErrorLog.Path)
	}
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("DIR_ENDPOINT", "http://dir.internal:30638")
	t.Setenv("REDIS_PASSWORD", "hunter2")

	path := writeConfig(t, `
directory:
  endpoint: ${DIR_ENDPOINT}
error_log:
  sink: redis
  redis:
    url: redis://localhost:6379/0
    password: ${REDIS_PASSWORD}
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Directory.Endpoint != "http://dir.internal:30638" {
		t.Errorf("env substitution failed: %s", cfg.Directory.Endpoint)
	}
	if cfg.ErrorLog.Redis.Password != "hunter2" {
		t.Errorf("env substitution failed: %s", cfg.ErrorLog.Redis.Password)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}
