package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"planner/internal/clock"
	"planner/internal/config"
	"planner/internal/digest"
	"planner/internal/ics"
	appLog "planner/internal/log"
	"planner/internal/store"
	"planner/internal/view"
	"planner/internal/web"
)

var listenOverride string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the planner page",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenOverride, "listen", "", "HTTP listen address (overrides config if set)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	conf, err := config.Load(configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", configPath)
		return err
	}
	if listenOverride != "" {
		conf.Listen = listenOverride
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	appLog.Info("effective config",
		"listen", conf.Listen,
		"timezone", conf.Timezone,
		"upcoming_limit", conf.UpcomingLimit,
		"cell_event_limit", conf.CellEventLimit,
		"digest_cron", conf.DigestCron,
		"seed_events", len(conf.SeedEvents),
		"seed_ics", conf.SeedICS != "",
	)

	st, loc, err := bootstrap(conf)
	if err != nil {
		return err
	}
	ctrl := view.NewController(st)

	srv, err := web.NewServer(conf, st, ctrl, loc)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	if conf.DigestCron != "" {
		d, err := digest.New(conf.DigestCron, st, conf.UpcomingLimit)
		if err != nil {
			return err
		}
		d.Start(ctx)
	}

	if err := srv.Run(ctx); err != nil {
		appLog.Error("http server stopped", err)
		return err
	}
	appLog.Info("planner exiting")
	return nil
}

// bootstrap builds the event store for conf: resolves the display location,
// then loads config seed events followed by the optional seed ICS file.
func bootstrap(conf *config.Config) (*store.Store, *time.Location, error) {
	loc, err := conf.Location()
	if err != nil {
		appLog.Error("failed to load timezone; falling back to local", err)
	}
	st := store.New(clock.System{Location: loc})

	seeds, err := conf.Events(store.NewID)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	for _, ev := range seeds {
		st.Add(ev)
	}

	if conf.SeedICS != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		body, err := ics.NewFetcher().Load(ctx, conf.SeedICS)
		if err != nil {
			return nil, nil, fmt.Errorf("seed ics: %w", err)
		}
		evs, err := ics.ParseSeed("seed_ics", body, loc, store.NewID)
		if err != nil {
			return nil, nil, fmt.Errorf("seed ics: %w", err)
		}
		for _, ev := range evs {
			st.Add(ev)
		}
	}
	return st, loc, nil
}
