package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/vietddude/dfsclient/internal/control"
	"github.com/vietddude/dfsclient/internal/core/config"
	"github.com/vietddude/stylelog"
)

const usage = `usage: dfsclient [flags] <command> <arg>

commands:
  resolve <uuid>          resolve a service UUID to its endpoint
  resolve-volume <name>   resolve a volume name to its metadata service endpoint
  errors <count>          print the most recent persistent error log entries
`

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	isDebug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command, arg := flag.Arg(0), flag.Arg(1)

	_ = godotenv.Load()

	// Load Configuration first (before setting up logger)
	cfg, err := config.Load(*configPath)
	if err != nil {
		// Fall back to default logger for config load errors
		stylelog.InitDefault()
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slogLevel := slog.LevelInfo
	if *isDebug || cfg.Logging.Level == "debug" {
		slogLevel = slog.LevelDebug
	}

	stylelog.InitDefault(
		&tint.Options{
			Level:      slogLevel,
			TimeFormat: time.RFC3339,
		})

	// SIGINT/SIGTERM interrupt an in-flight call between attempts.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := control.New(ctx, *cfg, slog.Default())
	if err != nil {
		slog.Error("Failed to initialize client", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Close(shutdownCtx); err != nil {
			slog.Error("Error during shutdown", "error", err)
		}
	}()

	var endpoint string
	switch command {
	case "resolve":
		endpoint, err = client.Resolve(ctx, arg)
	case "resolve-volume":
		endpoint, err = client.ResolveVolume(ctx, arg)
	case "errors":
		n, convErr := strconv.Atoi(arg)
		if convErr != nil || n < 1 {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		entries, err := client.RecentErrors(ctx, n)
		if err != nil {
			slog.Error("Failed to read error log", "error", err)
			os.Exit(1)
		}
		for _, e := range entries {
			fmt.Printf("%s %s\n", e.At.Format(time.RFC3339), e.Message)
		}
		return
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if err != nil {
		slog.Error("Resolution failed", "command", command, "arg", arg, "error", err)
		os.Exit(1)
	}

	fmt.Println(endpoint)
}
