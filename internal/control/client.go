// Package control assembles the client's components from configuration and
// owns their lifecycle.
package control

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vietddude/dfsclient/internal/core/config"
	"github.com/vietddude/dfsclient/internal/infra/dir"
	"github.com/vietddude/dfsclient/internal/infra/errlog"
	"github.com/vietddude/dfsclient/internal/infra/rpc"
	"github.com/vietddude/dfsclient/internal/resolve"
)

// Client wires the directory client, address cache, volume resolver and
// retry engine behind a single handle.
type Client struct {
	cfg      config.AppConfig
	log      *slog.Logger
	errSink  errlog.Log
	engine   *rpc.Engine
	cache    *resolve.Cache
	resolver *resolve.VolumeResolver
	debug    *DebugServer
}

// New creates a Client with all dependencies initialized.
func New(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sink, err := newSink(ctx, cfg.ErrorLog)
	if err != nil {
		return nil, fmt.Errorf("failed to init error log: %w", err)
	}

	classifier := rpc.NewClassifier(logger, sink)
	engine := rpc.NewEngine(logger, classifier)

	retry := rpc.RetryOptions{
		MaxTries:         cfg.Retry.MaxTries,
		RetryDelay:       time.Duration(cfg.Retry.RetryDelayS) * time.Second,
		DelayLastAttempt: cfg.Retry.DelayLastAttempt,
	}

	timeout := time.Duration(cfg.Directory.TimeoutS) * time.Second
	dirClient := dir.NewHTTPClient(cfg.Directory.Endpoint, timeout, engine, retry, logger)
	cache := resolve.NewCache(dirClient, logger)
	resolver := resolve.NewVolumeResolver(dirClient, cache, logger)

	c := &Client{
		cfg:      cfg,
		log:      logger,
		errSink:  sink,
		engine:   engine,
		cache:    cache,
		resolver: resolver,
	}

	if cfg.Server.Port > 0 {
		c.debug = NewDebugServer(cfg.Server.Port)
		go func() {
			if err := c.debug.Start(); err != nil {
				logger.Error("debug server stopped", "error", err)
			}
		}()
	}

	return c, nil
}

// newSink builds the configured persistent error log sink.
func newSink(ctx context.Context, cfg config.ErrorLogConfig) (errlog.Log, error) {
	switch cfg.Sink {
	case "", "none":
		return errlog.Nop(), nil
	case "file":
		return errlog.NewFileLog(cfg.Path)
	case "redis":
		return errlog.NewRedisLog(cfg.Redis)
	case "postgres":
		return errlog.NewPostgresLog(ctx, cfg.Database)
	default:
		return nil, fmt.Errorf("unknown error log sink %q", cfg.Sink)
	}
}

// Resolve returns the endpoint for a service UUID.
func (c *Client) Resolve(ctx context.Context, uuid string) (string, error) {
	return c.cache.Resolve(ctx, uuid)
}

// ResolveVolume returns the metadata service endpoint for a volume name.
func (c *Client) ResolveVolume(ctx context.Context, name string) (string, error) {
	return c.resolver.ResolveVolume(ctx, name)
}

// Engine returns the retry engine, for callers issuing their own RPC
// attempts against resolved endpoints.
func (c *Client) Engine() *rpc.Engine {
	return c.engine
}

// RecentErrors returns up to n most recent entries from the persistent
// error log, newest first. Fails when the configured sink retains no
// history (none, file).
func (c *Client) RecentErrors(ctx context.Context, n int) ([]errlog.Entry, error) {
	reader, ok := c.errSink.(errlog.Reader)
	if !ok {
		return nil, fmt.Errorf("error log sink %q retains no browsable history", c.cfg.ErrorLog.Sink)
	}
	return reader.Recent(ctx, n)
}

// Invalidate drops the cached address of a UUID, e.g. after a redirect.
func (c *Client) Invalidate(uuid string) {
	c.cache.Invalidate(uuid)
}

// Close shuts down the debug server and the error log sink.
func (c *Client) Close(ctx context.Context) error {
	if c.debug != nil {
		if err := c.debug.Stop(ctx); err != nil {
			c.log.Error("failed to stop debug server", "error", err)
		}
	}
	return c.errSink.Close()
}
