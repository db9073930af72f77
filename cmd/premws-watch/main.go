// premws-watch wires the premws live-odds pipeline together: a headless
// browser captures WebSocket frames, the livefeed engine decodes them, and
// the resulting change events fan out to the log and Telegram, while an
// optional Postgres sink periodically snapshots the match table. Run from the
// repo root:
//
//	go run ./cmd/premws-watch
//	go run ./cmd/premws-watch -config configs/production.yaml -run-for 10m
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Vodeneev/premwsfeed/internal/notify"
	pkgconfig "github.com/Vodeneev/premwsfeed/internal/pkg/config"
	"github.com/Vodeneev/premwsfeed/internal/pkg/health"
	"github.com/Vodeneev/premwsfeed/internal/pkg/health/handlers"
	"github.com/Vodeneev/premwsfeed/internal/pkg/livefeed"
	"github.com/Vodeneev/premwsfeed/internal/pkg/logging"
	"github.com/Vodeneev/premwsfeed/internal/pkg/performance"
	"github.com/Vodeneev/premwsfeed/internal/pkg/storage"
	"github.com/Vodeneev/premwsfeed/internal/transport/browsercapture"
)

const (
	defaultConfigPath       = "configs/production.yaml"
	defaultSocketSubstring  = "premws-pt1.us.365lpodds.com"
	defaultReconnectBackoff = 5 * time.Second
)

type flags struct {
	configPath string
	healthAddr string
	runFor     time.Duration
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("premws-watch failed: %v", err)
	}
}

func run() error {
	cfg := parseFlags()
	fmt.Printf("Loading config from: %s\n", cfg.configPath)

	appConfig, err := pkgconfig.Load(cfg.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if _, err := logging.SetupLogger(&appConfig.Logging, "premws-watch"); err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	premws := appConfig.Premws
	if premws.SocketURLSubstring == "" {
		premws.SocketURLSubstring = defaultSocketSubstring
	}
	if premws.ReconnectBackoff <= 0 {
		premws.ReconnectBackoff = defaultReconnectBackoff
	}
	if premws.NavigateURL == "" {
		return fmt.Errorf("premws.navigate_url is required")
	}

	engine := livefeed.NewEngineWithRegistry(buildRegistry(premws.ExtraSports))

	ctx, cancel := createContext(cfg.runFor)
	defer cancel()
	setupSignalHandler(ctx, cancel)

	var notifier *notify.TelegramNotifier
	if premws.Notify.Enabled && premws.Notify.TelegramBotToken != "" {
		notifier = notify.NewTelegramNotifier(premws.Notify.TelegramBotToken, premws.Notify.TelegramChatID)
	}

	onUpdate := func(updates []livefeed.MatchUpdate) {
		for _, u := range updates {
			slog.Info("premws: " + livefeed.FormatUpdate(u))
		}
		if notifier != nil {
			notifier.HandleUpdates(ctx, updates)
		}
	}

	collector := browsercapture.New(premws, engine, onUpdate)

	// The engine is lock-free and expects its embedding to serialize access
	// (frames arrive on chromedp's event goroutine, queries on the health
	// server's). Everything below reads it through collector.Snapshot.
	snapshotMatches := func(get func(e *livefeed.Engine) []*livefeed.Match) []*livefeed.Match {
		var out []*livefeed.Match
		collector.Snapshot(func(e *livefeed.Engine) { out = get(e) })
		return out
	}
	handlers.SetGetPremwsAllMatchesFunc(func() []*livefeed.Match {
		return snapshotMatches((*livefeed.Engine).AllMatches)
	})
	handlers.SetGetPremwsLiveMatchesFunc(func() []*livefeed.Match {
		return snapshotMatches((*livefeed.Engine).LiveMatches)
	})
	handlers.SetGetPremwsMatchesBySportFunc(func(sportID string) []*livefeed.Match {
		return snapshotMatches(func(e *livefeed.Engine) []*livefeed.Match {
			return e.MatchesBySport(sportID)
		})
	})
	healthAddr := cfg.healthAddr
	if healthAddr == "" {
		healthAddr = health.AddrFor(appConfig.Health.Port)
	}
	health.Run(ctx, healthAddr, "premws-watch", appConfig.Health.ReadHeaderTimeout)

	if premws.Snapshot.Enabled {
		snap, err := storage.NewPremwsSnapshotStorage(&appConfig.Postgres, premws.Snapshot)
		if err != nil {
			return fmt.Errorf("failed to init snapshot storage: %w", err)
		}
		defer snap.Close()
		go snap.RunPeriodic(ctx, premws.Snapshot.Interval, func() []*livefeed.Match {
			return snapshotMatches((*livefeed.Engine).AllMatches)
		})
	}

	defer performance.GetTracker().PrintSummary()

	backoff := premws.ReconnectBackoff
	for {
		err := collector.Run(ctx)
		if ctx.Err() != nil {
			var tracked int
			collector.Snapshot(func(e *livefeed.Engine) { tracked = e.MatchCount() })
			slog.Info("premws: stopped", "matches_tracked", tracked)
			return nil
		}
		if err != nil {
			slog.Warn("premws: capture session ended, reconnecting", "error", err, "backoff", backoff)
		} else {
			slog.Warn("premws: browser exited, reconnecting", "backoff", backoff)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(backoff):
		}
		backoff *= 2
		if limit := premws.ReconnectBackoffMax; limit > 0 && backoff > limit {
			backoff = limit
		} else if limit <= 0 && backoff > time.Minute {
			backoff = time.Minute
		}
	}
}

// buildRegistry merges operator-supplied sport rows over the compiled-in
// seed table. The seed is never removed, only extended or overridden.
func buildRegistry(extra []pkgconfig.PremwsSportOverride) *livefeed.Registry {
	reg := livefeed.NewRegistry()
	if len(extra) == 0 {
		return reg
	}
	rows := make([]livefeed.SportConfig, 0, len(extra))
	for _, e := range extra {
		if e.SportID == "" {
			continue
		}
		rows = append(rows, livefeed.SportConfig{
			SportID:       e.SportID,
			Name:          e.Name,
			Folder:        e.Folder,
			Separators:    e.Separators,
			SetScoring:    e.SetScoring,
			HasServing:    e.HasServing,
			HasPointScore: e.HasPointScore,
		})
	}
	reg.Extend(rows)
	return reg
}

func parseFlags() flags {
	var cfg flags

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	flag.StringVar(&cfg.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.StringVar(&cfg.healthAddr, "health-addr", "", "Health server listen address (e.g. :8080). Empty = use health.port from config")
	flag.DurationVar(&cfg.runFor, "run-for", 0, "Auto-stop after duration (e.g. 10s, 1m). 0 = run until SIGINT/SIGTERM")
	flag.Parse()
	return cfg
}

func createContext(runFor time.Duration) (context.Context, context.CancelFunc) {
	if runFor > 0 {
		return context.WithTimeout(context.Background(), runFor)
	}
	return context.WithCancel(context.Background())
}

func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			log.Printf("Received shutdown signal (%s), stopping premws-watch...", sig)
			cancel()
		case <-ctx.Done():
			signal.Stop(sigChan)
			close(sigChan)
		}
	}()
}
