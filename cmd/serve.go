package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/hveem/calwatch/config"
	"github.com/hveem/calwatch/gcal"
	"github.com/hveem/calwatch/logging"
	"github.com/hveem/calwatch/sensor"
	"github.com/hveem/calwatch/server"
)

const (
	defaultListen       = ":8787"
	defaultScanInterval = time.Minute
	shutdownTimeout     = 10 * time.Second
)

func newServeCmd() *cobra.Command {
	var listen string
	var scan time.Duration

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the poll loop and serve entity state over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), listen, scan)
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")
	cmd.Flags().DurationVar(&scan, "scan", 0, "scan interval (overrides config)")
	return cmd
}

func runServe(parent context.Context, listen string, scan time.Duration) error {
	logger := logging.New(slog.LevelInfo)

	loader, err := config.NewFileLoader()
	if err != nil {
		return fmt.Errorf("config.NewFileLoader: %w", err)
	}
	cfg, err := loader.LoadConfig()
	if err != nil {
		return fmt.Errorf("loader.LoadConfig: %w", err)
	}
	if !cfg.Tracked() {
		return fmt.Errorf("no tracked entities in config")
	}

	svc, err := gcal.NewService(loader)
	if err != nil {
		return fmt.Errorf("gcal.NewService: %w", err)
	}

	entities := buildEntities(svc, cfg, logger)

	if listen == "" {
		listen = cfg.Listen
	}
	if listen == "" {
		listen = defaultListen
	}
	if scan <= 0 {
		scan = cfg.ScanInterval.Duration
	}
	if scan <= 0 {
		scan = defaultScanInterval
	}

	metrics := server.NewMetrics(prometheus.DefaultRegisterer)
	httpSrv := server.New(entities, logger, metrics).HTTPServer(listen)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("serving entity state", slog.String("addr", listen))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", logging.Err(err))
			stop()
		}
	}()

	exec := sensor.NewExecutor(sensor.DefaultExecutorSlots)
	poll := func() {
		for _, e := range entities {
			go func(e *sensor.Entity) {
				_ = exec.Do(ctx, func() error {
					pollEntity(ctx, e, metrics, logger)
					return nil
				})
			}(e)
		}
	}

	logger.Info("starting poll loop",
		slog.Duration("scan_interval", scan),
		slog.Int("entities", len(entities)))

	poll()
	ticker := time.NewTicker(scan)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := httpSrv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("httpSrv.Shutdown: %w", err)
			}
			return nil
		case <-ticker.C:
			poll()
		}
	}
}

// buildEntities turns the config into entities, skipping untracked ones.
func buildEntities(src gcal.EventSource, cfg *config.Config, logger *slog.Logger) []*sensor.Entity {
	var entities []*sensor.Entity
	for _, cal := range cfg.Calendars {
		for _, ent := range cal.Entities {
			if !ent.Track {
				continue
			}
			w := sensor.NewWatcher(src, sensor.WatcherConfig{
				CalendarID:         cal.CalID,
				Search:             ent.Search,
				IgnoreAvailability: ent.IgnoreAvailability,
				MinInterval:        cfg.MinPollInterval.Duration,
				Logger:             logger,
			})
			entities = append(entities, sensor.NewEntity(w, sensor.EntityConfig{
				DeviceID: ent.DeviceID,
				Name:     ent.Name,
				Offset:   ent.Offset,
			}))
		}
	}
	return entities
}

func pollEntity(ctx context.Context, e *sensor.Entity, metrics *server.Metrics, logger *slog.Logger) {
	start := time.Now()
	err := e.Update(ctx)

	result := server.ResultSuccess
	if err != nil {
		result = server.ResultError
	}
	metrics.Polls.WithLabelValues(e.ID(), result).Inc()
	metrics.LastPoll.WithLabelValues(e.ID()).SetToCurrentTime()

	upcoming := 0.0
	if e.Event() != nil {
		upcoming = 1.0
	}
	metrics.Upcoming.WithLabelValues(e.ID()).Set(upcoming)

	if err != nil {
		logger.Error("entity update failed",
			logging.Entity(e.ID()),
			slog.Duration(logging.KeyDuration, time.Since(start)),
			logging.Err(err))
		return
	}
	logger.Debug("entity updated",
		logging.Entity(e.ID()),
		slog.Duration(logging.KeyDuration, time.Since(start)),
		slog.Bool("upcoming", upcoming == 1.0))
}
