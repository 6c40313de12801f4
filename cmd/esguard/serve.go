package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/reoring/esguard/grammar"
	"github.com/reoring/esguard/internal/config"
	"github.com/reoring/esguard/internal/logging"
	"github.com/reoring/esguard/internal/metrics"
	"github.com/reoring/esguard/internal/service"
)

func newServeCmd(global *globalOptions) *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the validation HTTP service",
		Long: `Serve the validation API. With --watch (the default when --config is
set) the config file is reloaded on change: caps, decode limits and log
settings apply to new requests without a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, global.configPath, watch && global.configPath != "")
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", true, "reload the config file on change")
	return cmd
}

func runServe(ctx context.Context, configPath string, watch bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.Log, nil)
	if err != nil {
		return err
	}
	if log.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	opts := []service.Option{service.WithLogger(log)}
	if cfg.Metrics.Enabled {
		opts = append(opts, service.WithMetrics(metrics.New(cfg.Metrics)))
	}
	if cfg.Gateway.BaseURL != "" {
		fw, err := service.NewHTTPForwarder(cfg.Gateway)
		if err != nil {
			return err
		}
		opts = append(opts, service.WithForwarder(fw))
	}
	svc, err := service.New(grammar.Default(), cfg, opts...)
	if err != nil {
		return err
	}

	if watch {
		go func() {
			err := config.Watch(ctx, configPath, func(next *config.Config) {
				if err := svc.Reload(next); err != nil {
					log.WithError(err).Error("config reload rejected")
					return
				}
				if err := logging.Apply(log, next.Log); err != nil {
					log.WithError(err).Warn("log settings not applied")
				}
				log.WithField("config", next.String()).Info("config reloaded")
			}, func(err error) {
				log.WithError(err).Error("config reload failed")
			})
			if err != nil {
				log.WithError(err).Error("config watch stopped")
			}
		}()
	}

	log.WithFields(logrus.Fields{
		"listen":  cfg.Server.ListenAddress,
		"schemas": svc.Catalog().IDs(),
		"metrics": cfg.Metrics.Enabled,
		"gateway": cfg.Gateway.BaseURL != "",
	}).Info("esguard listening")
	return service.Serve(ctx, cfg.Server, svc.Router(cfg.Metrics))
}
