// Package main is the entry point for the settle application.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/billie-coop/settle/internal/config"
	"github.com/billie-coop/settle/internal/events"
	"github.com/billie-coop/settle/internal/logging"
	"github.com/billie-coop/settle/internal/tui"
	"github.com/billie-coop/settle/internal/watcher"
	tea "github.com/charmbracelet/bubbletea/v2"
	flag "github.com/spf13/pflag"
)

// settings is the resolved configuration after flags are applied.
type settings struct {
	cfg       *config.Config
	configDir string
	watchDir  string
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	s, err := loadSettings(args)
	if err != nil {
		return err
	}
	if s.watchDir != "" {
		return runWatch(s)
	}
	return runTUI(s)
}

// loadSettings parses flags, loads .settle/config.json from the config dir
// and lets explicitly set flags win over the file.
func loadSettings(args []string) (*settings, error) {
	fs := flag.NewFlagSet("settle", flag.ContinueOnError)
	debounce := fs.Duration("debounce", 0, "debounce delay (overrides debounce_ms)")
	throttle := fs.Duration("throttle", 0, "throttle delay (overrides throttle_ms)")
	configDir := fs.String("config-dir", ".", "directory holding .settle/config.json")
	logLevel := fs.String("log-level", "", "log level: debug, info, warn, error")
	logFormat := fs.String("log-format", "", "log format: text or json")
	watchDir := fs.String("watch", "", "watch a directory headless and log settled change batches")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	m := config.NewManager(*configDir)
	if err := m.Load(); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := *m.Get()

	if fs.Changed("debounce") {
		cfg.DebounceMs = int(debounce.Milliseconds())
		if *debounce < 0 {
			cfg.DebounceMs = -1
		}
	}
	if fs.Changed("throttle") {
		cfg.ThrottleMs = int(throttle.Milliseconds())
		if *throttle < 0 {
			cfg.ThrottleMs = -1
		}
	}
	if fs.Changed("log-level") {
		cfg.LogLevel = *logLevel
	}
	if fs.Changed("log-format") {
		cfg.LogFormat = *logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &settings{cfg: &cfg, configDir: m.Dir(), watchDir: *watchDir}, nil
}

// runTUI logs to a file in the config dir because the terminal belongs to
// the program.
func runTUI(s *settings) error {
	f, err := logging.OpenFile(filepath.Join(s.configDir, "settle.log"))
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer f.Close()

	logger, err := logging.New(f, s.cfg.LogLevel, s.cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	broker := events.NewBroker(64)
	defer broker.Clear()

	clock := tui.NewClock()
	model, err := tui.New(tui.Options{
		DebounceDelay: s.cfg.DebounceDelay(),
		ThrottleDelay: s.cfg.ThrottleDelay(),
		Theme:         s.cfg.Theme,
		Clock:         clock,
		Broker:        broker,
		Logger:        logger,
		OnClose:       clock.Close,
	})
	if err != nil {
		return err
	}
	defer model.Shutdown()

	p := tea.NewProgram(model, tea.WithAltScreen())
	clock.Attach(p)

	logger.Info("starting", "debounce", s.cfg.DebounceDelay(), "throttle", s.cfg.ThrottleDelay())
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func runWatch(s *settings) error {
	logger, err := logging.New(os.Stderr, s.cfg.LogLevel, s.cfg.LogFormat)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	broker := events.NewBroker(64)
	defer broker.Clear()
	sub := broker.Subscribe(events.WatcherBatchEvent)
	done := make(chan struct{})
	go func() {
		defer close(done)
		logBatches(sub, logger)
	}()

	w := watcher.New(watcher.Config{
		DebounceDelay: s.cfg.DebounceDelay(),
		IgnorePaths:   s.cfg.WatchIgnore,
		Logger:        logger,
	}, func(paths []string) {
		broker.Publish(events.Event{
			Type:    events.WatcherBatchEvent,
			Payload: events.BatchPayload{Paths: paths},
		})
	})

	err = w.Watch(ctx, s.watchDir)
	if stopErr := w.Stop(); stopErr != nil {
		logger.Warn("failed to stop watcher", "err", stopErr)
	}
	broker.Unsubscribe(sub)
	<-done

	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// logBatches logs each settled batch until sub is closed.
func logBatches(sub <-chan events.Event, logger *slog.Logger) {
	for event := range sub {
		payload, ok := event.Payload.(events.BatchPayload)
		if !ok {
			continue
		}
		logger.Info("changes settled", "count", len(payload.Paths), "paths", payload.Paths)
	}
}
