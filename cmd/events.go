package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hveem/calwatch/config"
	"github.com/hveem/calwatch/dateparse"
	"github.com/hveem/calwatch/gcal"
	"github.com/hveem/calwatch/logging"
	"github.com/hveem/calwatch/sensor"
)

func newEventsCmd() *cobra.Command {
	var search string
	var ignoreAvailability bool

	cmd := &cobra.Command{
		Use:   "events <user|calendar-id> [day] [day]",
		Short: "List a calendar's visible events for a time window",
		Long: `Lists the events of a calendar for a day or a span of days. Bare
usernames are expanded with the configured default domain. Days can be
"today", "tomorrow", a weekday name, or an explicit YYYY-MM-DD date;
the default window is today.`,
		Args: cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			loader, err := config.NewFileLoader()
			if err != nil {
				return fmt.Errorf("config.NewFileLoader: %w", err)
			}
			cfg, err := loader.LoadConfig()
			if err != nil {
				return fmt.Errorf("loader.LoadConfig: %w", err)
			}

			calendarID := buildCalendarID(args[0], cfg.DefaultDomain)

			start, end, err := dateparse.New().Window(args[1:], time.Now())
			if err != nil {
				return err
			}

			svc, err := gcal.NewService(loader)
			if err != nil {
				return fmt.Errorf("gcal.NewService: %w", err)
			}

			w := sensor.NewWatcher(svc, sensor.WatcherConfig{
				CalendarID:         calendarID,
				Search:             search,
				IgnoreAvailability: ignoreAvailability,
				Logger:             logging.New(slog.LevelWarn),
			})

			events, err := w.Events(cmd.Context(), start, end)
			if err != nil {
				return fmt.Errorf("listing events: %w", err)
			}

			gcal.PrintAgenda(os.Stdout, events, calendarID, cfg.DefaultDomain, start, end)
			return nil
		},
	}

	cmd.Flags().StringVar(&search, "search", "", "free-text search filter")
	cmd.Flags().BoolVar(&ignoreAvailability, "ignore-availability", false, "include events marked as free")
	return cmd
}

// buildCalendarID expands a bare username with the default domain.
func buildCalendarID(user, defaultDomain string) string {
	if strings.Contains(user, "@") || defaultDomain == "" {
		return user
	}
	return fmt.Sprintf("%s@%s", user, defaultDomain)
}
