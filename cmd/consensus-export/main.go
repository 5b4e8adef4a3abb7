package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/s3blob"

	"github.com/rickgao/consensus-export/internal/api"
	"github.com/rickgao/consensus-export/internal/auth"
	"github.com/rickgao/consensus-export/internal/config"
	"github.com/rickgao/consensus-export/internal/download"
	"github.com/rickgao/consensus-export/internal/metrics"
	"github.com/rickgao/consensus-export/internal/report"
	"github.com/rickgao/consensus-export/internal/version"
	"github.com/rickgao/consensus-export/internal/writer"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitConfig = 2
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "configs/export.yaml", "path to config file")
	envPath := flag.String("env", ".env", "optional dotenv file loaded before the config")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return exitOK
	}

	// Bootstrap logger until the configured level and format are known
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := config.LoadEnvFile(*envPath); err != nil {
		logger.Error("failed to load env file", "path", *envPath, "error", err)
		return exitConfig
	}

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "path", *configPath, "error", err)
		return exitConfig
	}

	logger = newLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting consensus-export",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	baseURL, err := cfg.BaseURL()
	if err != nil {
		logger.Error("failed to resolve endpoint", "error", err)
		return exitConfig
	}

	creds, err := auth.NewCredentials(cfg.API.APIKey, cfg.API.APISecret)
	if err != nil {
		logger.Error("invalid credentials", "error", err)
		return exitConfig
	}

	logger.Info("configuration loaded",
		"mode", cfg.API.Mode,
		"base_url", baseURL,
		"client", cfg.Run.Client,
		"snap_date", cfg.Run.SnapDate,
		"asset_types", len(cfg.Run.AssetTypes),
		"snap_times", len(cfg.Run.SnapTimes),
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	sink, err := writer.Open(ctx, cfg.Output)
	if err != nil {
		logger.Error("failed to open output", "error", err)
		return exitFailed
	}
	defer func() {
		if err := sink.Close(); err != nil {
			logger.Warn("failed to close output", "error", err)
		}
	}()

	client := api.NewClient(
		baseURL,
		creds,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
	)

	recorder := metrics.NewRecorder()
	downloader := download.New(client, sink, logger,
		report.NewConsole(os.Stdout),
		recorder,
	)

	summary := downloader.Run(ctx, cfg.Run)
	recorder.Finish(summary)

	logger.Info("run complete",
		"run_id", summary.RunID,
		"downloaded", summary.Count(download.Downloaded),
		"skipped", summary.Count(download.Skipped),
		"failed", summary.Count(download.Failed),
		"duration", summary.Duration().Round(time.Millisecond),
	)

	code := exitOK

	if path := cfg.Report.XLSXPath; path != "" {
		if err := report.WriteWorkbook(path, summary); err != nil {
			logger.Error("failed to write report", "path", path, "error", err)
			code = exitFailed
		} else {
			logger.Info("report written", "path", path)
		}
	}

	if url := cfg.Metrics.PushgatewayURL; url != "" {
		// The run context may already be cancelled by a signal
		pushCtx, pushCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer pushCancel()

		grouping := map[string]string{"client": cfg.Run.Client}
		if err := recorder.Push(pushCtx, url, cfg.Metrics.Job, grouping); err != nil {
			logger.Error("failed to push metrics", "error", err)
			code = exitFailed
		} else {
			logger.Info("metrics pushed", "url", url, "job", cfg.Metrics.Job)
		}
	}

	return code
}

func newLogger(cfg config.LogConfig) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
