package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vault-md/launchdeck/internal/config"
	"github.com/vault-md/launchdeck/internal/logging"
	"github.com/vault-md/launchdeck/internal/spacex"
	"github.com/vault-md/launchdeck/internal/usecase"
)

// session is what every command runs against: resolved settings, a logger,
// the request metrics and one dashboard.
type session struct {
	cfg       *config.Config
	logger    *zap.Logger
	registry  *prometheus.Registry
	dashboard *usecase.Dashboard
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(globalFlags.configPath)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	logger, err := logging.New(cfg.Log.Format, cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	client, err := spacex.New(cfg.BaseURL,
		spacex.WithTimeout(cfg.Timeout),
		spacex.WithRetry(cfg.Retries+1),
		spacex.WithLogger(logger),
		spacex.WithMetrics(registry),
	)
	if err != nil {
		return nil, err
	}

	dashboard, err := usecase.NewDashboard(client, usecase.Options{
		PageSize: cfg.PageSize,
		Locale:   cfg.Locale,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid locale %q: %w", cfg.Locale, err)
	}

	logger.Debug("session ready",
		zap.String("base_url", cfg.BaseURL),
		zap.Duration("timeout", cfg.Timeout),
		zap.Int("retries", cfg.Retries),
		zap.Int("page_size", cfg.PageSize),
	)

	return &session{cfg: cfg, logger: logger, registry: registry, dashboard: dashboard}, nil
}

func (s *session) close() {
	_ = s.logger.Sync()
}

// applyFlags lets explicitly set persistent flags win over the config file
// and environment.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("base-url") {
		cfg.BaseURL = globalFlags.baseURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = globalFlags.timeout
	}
	if flags.Changed("retries") {
		cfg.Retries = globalFlags.retries
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = globalFlags.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = globalFlags.logFormat
	}
	return cfg.Validate()
}
