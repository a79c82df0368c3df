package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harrisonrobin/tasker/pkg/auth"
	"github.com/harrisonrobin/tasker/pkg/cli"
	"github.com/harrisonrobin/tasker/pkg/colors"
	"github.com/harrisonrobin/tasker/pkg/config"
	"github.com/harrisonrobin/tasker/pkg/google"
	"github.com/harrisonrobin/tasker/pkg/index"
	"github.com/harrisonrobin/tasker/pkg/logging"
	"github.com/harrisonrobin/tasker/pkg/store"
	"github.com/harrisonrobin/tasker/pkg/taskwarrior"
)

func main() {
	// 1. Parse Flags
	configPath := flag.String("config", "", "Path to config.toml (default ~/.config/tasker/config.toml)")
	dbPath := flag.String("db", "", "Task database file (overrides config)")
	calendarName := flag.String("calendar", "", "Google Calendar name to sync with (overrides config)")
	setCalendar := flag.String("set-calendar", "", "Set the default Google Calendar name")
	doAuth := flag.Bool("auth", false, "Authenticate with Google Calendar")
	doSync := flag.Bool("sync", false, "Push tasks with deadlines to Google Calendar")
	importFrom := flag.String("import", "", "Import Taskwarrior tasks: '-' reads JSON from stdin, otherwise a filter for `task export`")
	flag.Parse()

	if *configPath == "" {
		p, err := config.GetConfigPath()
		if err != nil {
			log.Fatal("could not find path to configuration file", "err", err)
		}
		*configPath = p
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config", "err", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)

	// 2. Handle Set Calendar
	if *setCalendar != "" {
		cfg.Calendar = *setCalendar
		if err := config.Save(*configPath, cfg); err != nil {
			logger.Fatal("error saving config", "err", err)
		}
		fmt.Printf("Default calendar set to: %s\n", *setCalendar)
		return
	}

	if *calendarName != "" {
		cfg.Calendar = *calendarName
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// 3. Handle Authentication
	if *doAuth {
		if err := auth.ResetToken(); err != nil {
			logger.Fatal("could not reset token", "err", err)
		}
		if _, err := auth.GetCalendarService(ctx); err != nil {
			logger.Fatal("authentication failed", "err", err)
		}
		logger.Info("authentication successful")
		return
	}

	// 4. Open the task store
	s, err := store.Open(logger, cfg.DBPath)
	if err != nil {
		logger.Fatal("failed to open task database", "path", cfg.DBPath, "err", err)
	}
	defer func() {
		if err := s.Close(); err != nil {
			logger.Error("failed to close task database", "err", err)
		}
	}()
	if err := s.Initialize(ctx); err != nil {
		logger.Fatal("failed to initialize task database", "err", err)
	}

	switch {
	case *importFrom != "":
		err = runImport(ctx, s, logger, *importFrom)
	case *doSync:
		err = runSync(ctx, s, logger, cfg.Calendar)
	default:
		err = cli.NewMenu(s, logger, os.Stdin, os.Stdout).Run(ctx)
	}
	if err != nil {
		logger.Error("tasker failed", "err", err)
		if err := s.Close(); err != nil {
			logger.Error("failed to close task database", "err", err)
		}
		os.Exit(1)
	}
}

func runImport(ctx context.Context, s store.TaskStore, logger *log.Logger, source string) error {
	client := taskwarrior.NewClient()

	var (
		tasks []taskwarrior.Task
		err   error
	)
	if source == "-" {
		tasks, err = client.ParseTasks(os.Stdin)
	} else {
		tasks, err = client.GetTasks(strings.Fields(source))
	}
	if err != nil {
		return err
	}

	n, err := taskwarrior.Import(ctx, s, tasks, logger)
	fmt.Printf("Imported %d of %d tasks.\n", n, len(tasks))
	return err
}

func runSync(ctx context.Context, s store.TaskStore, logger *log.Logger, calendarName string) error {
	dir, err := config.GetXdgHome()
	if err != nil {
		return err
	}

	evtIndex, err := index.NewEventIndex(dir)
	if err != nil {
		logger.Warn("failed to load event index", "err", err)
	}
	colorCache, err := colors.NewColorCache(dir)
	if err != nil {
		logger.Warn("failed to load color cache", "err", err)
	}

	gClient, err := google.NewClient(ctx, calendarName, evtIndex, colorCache)
	if err != nil {
		return fmt.Errorf("error creating Google Calendar client: %w", err)
	}

	report, err := google.Sync(ctx, s, gClient, logger, time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Synced %d tasks, skipped %d, removed %d stale events.\n", report.Synced, report.Skipped, report.Deleted)
	return nil
}
