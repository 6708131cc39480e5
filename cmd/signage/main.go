package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/jonboulle/clockwork"

	httpAdapter "github.com/githubixx/signage-go/internal/adapters/primary/http"
	"github.com/githubixx/signage-go/internal/adapters/secondary/feeds"
	"github.com/githubixx/signage-go/internal/adapters/secondary/sqlite"
	"github.com/githubixx/signage-go/internal/application/services"
	"github.com/githubixx/signage-go/internal/infrastructure/config"
	"github.com/githubixx/signage-go/internal/infrastructure/seed"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run starts the board and blocks until it is shut down. It returns the
// process exit code so deferred cleanup runs before exiting.
func run(args []string) int {
	// Parse command-line flags
	flags := flag.NewFlagSet("signage", flag.ContinueOnError)
	configPath := flags.String("config", "config.yaml", "path to configuration file")
	seedPath := flags.String("seed", "", "YAML fixture file to load into the database before starting")
	showVersion := flags.Bool("version", false, "show version and exit")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	if *showVersion {
		fmt.Printf("signage-go v%s (%s %s)\n", version, commit, date)
		return 0
	}

	// Load configuration before the logger so the level can be applied.
	cfg, cfgErr := config.Load(*configPath)
	level := slog.LevelInfo
	if cfgErr == nil {
		level = cfg.Log.SlogLevel()
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	logger.Info("starting signage-go", slog.String("version", version), slog.String("commit", commit), slog.String("date", date))

	if cfgErr != nil {
		logger.Error("failed to load config", slog.Any("error", cfgErr))
		return 1
	}

	loc, _ := cfg.Display.Zone() // validated by Load
	logger.Info("configuration loaded",
		slog.String("server_host", cfg.Server.Host),
		slog.Int("server_port", cfg.Server.Port),
		slog.String("database", cfg.Database.Path),
		slog.String("location", loc.String()),
		slog.String("course", cfg.Display.Course),
		slog.Int("feeds", len(cfg.Feeds.URLs)),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open the board store
	store, err := sqlite.Open(ctx, cfg.Database.Path)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	clock := clockwork.NewRealClock()
	store.SetClock(clock)

	if *seedPath != "" {
		fixtures, err := seed.Load(*seedPath)
		if err != nil {
			logger.Error("failed to load fixtures", slog.Any("error", err), slog.String("path", *seedPath))
			return 1
		}
		res, err := fixtures.Apply(ctx, store, clock.Now())
		if err != nil {
			logger.Error("failed to seed database", slog.Any("error", err))
			return 1
		}
		logger.Info("database seeded",
			slog.Int("professors", res.Professors),
			slog.Int("classes", res.Classes),
			slog.Int("news", res.News),
		)
	}

	// Initialize services
	board := services.NewBoardService(store, services.BoardConfig{
		Location:        loc,
		Course:          cfg.Display.Course,
		PageSize:        cfg.Display.PageSize,
		ClassInterval:   cfg.Display.ClassInterval,
		RefreshInterval: cfg.Display.RefreshInterval,
		FeedInterval:    cfg.Feeds.Interval,
	}, clock, logger)

	if len(cfg.Feeds.URLs) > 0 {
		board.SetFeedSyncer(feeds.NewFetcher(store, feeds.Config{
			URLs:            cfg.Feeds.URLs,
			ItemTTL:         cfg.Feeds.ItemTTL,
			DefaultDuration: cfg.Feeds.DefaultDuration,
			Course:          cfg.Feeds.Course,
			Timeout:         cfg.Feeds.Timeout,
		}, clock, logger))
	}

	// Load templates - each page gets its own template set
	templates := make(map[string]*template.Template)
	for _, page := range []string{"display.html", "news.html"} {
		templates[page] = template.Must(template.ParseFiles("web/templates/_header.html", "web/templates/"+page))
	}

	httpHandler := httpAdapter.NewHandler(logger, board)
	httpHandler.SetTemplates(templates)
	httpHandler.SetHealthCheck(store.Ping)

	mux := httpAdapter.SetupRoutes(httpHandler, logger)
	server := httpAdapter.NewServer(&cfg.Server, logger, mux)

	boardDone := make(chan error, 1)
	go func() { boardDone <- board.Run(ctx) }()

	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	logger.Info("server started",
		slog.String("addr", fmt.Sprintf("http://%s:%d", cfg.Server.Host, cfg.Server.Port)),
	)

	exitCode := 0
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		logger.Error("server error", slog.Any("error", err))
		exitCode = 1
		stop()
	}

	logger.Info("shutting down...")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", slog.Any("error", err))
	}
	if err := <-boardDone; err != nil {
		logger.Error("board error", slog.Any("error", err))
		exitCode = 1
	}

	logger.Info("shutdown complete")
	return exitCode
}
