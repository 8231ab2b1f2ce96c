package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/restocksgo/restocks/internal/config"
	"github.com/restocksgo/restocks/pkg/logger"
	"github.com/restocksgo/restocks/pkg/monitor"
	"github.com/restocksgo/restocks/pkg/notify"
	"github.com/restocksgo/restocks/pkg/restocks"
)

func monitorCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Run the sales monitor daemon",
		Long: "monitor polls your current sales on a schedule and announces new\n" +
			"ones through a Discord webhook (or the log when none is configured).",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runMonitor(configPath)
		},
	}

	cmd.Flags().StringVar(&configPath, "config-file", "restocks.yaml", "monitor config file")

	return cmd
}

func runMonitor(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)

	opts := []restocks.Option{
		restocks.WithCredentials(cfg.Restocks.Email, cfg.Restocks.Password),
		restocks.WithProxies(cfg.Restocks.Proxies),
		restocks.WithTimeout(cfg.Restocks.Timeout.Std()),
		restocks.WithLogger(log),
	}
	if cfg.Restocks.BaseURL != "" {
		opts = append(opts, restocks.WithBaseURL(cfg.Restocks.BaseURL))
	}
	if rl := cfg.Restocks.RateLimit; rl.PerSecond > 0 {
		opts = append(opts, restocks.WithRateLimiter(
			restocks.NewRateLimiter(rl.PerSecond, rl.Burst, rl.DailyLimit),
		))
	}

	client, err := restocks.New(opts...)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := client.Login(ctx, "", ""); err != nil {
		return fmt.Errorf("logging in: %w", err)
	}

	var notifier notify.Notifier
	if cfg.Monitor.DiscordWebhook != "" {
		notifier = notify.NewDiscordNotifier(cfg.Monitor.DiscordWebhook)
	} else {
		notifier = notify.NewNoopNotifier(log)
	}

	mon, err := monitor.New(client, notifier, cfg.Monitor.Interval.Std(), log)
	if err != nil {
		return err
	}

	// Prime the seen set before the schedule starts.
	if err := mon.Poll(ctx); err != nil {
		log.Warn("initial sales poll failed", "error", err)
	}

	if cfg.Monitor.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			if err := http.ListenAndServe(cfg.Monitor.MetricsAddr, mux); err != nil {
				log.Error("metrics server failed", "error", err)
			}
		}()
		log.Info("metrics server listening", "addr", cfg.Monitor.MetricsAddr)
	}

	mon.Start()
	defer func() {
		<-mon.Stop().Done()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Info("shutting down")

	return nil
}
