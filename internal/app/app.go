package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"GameNewsBot/internal/config"
	"GameNewsBot/internal/infrastructure/source"
	"GameNewsBot/internal/infrastructure/storage"
	"GameNewsBot/internal/infrastructure/telegram"
	"GameNewsBot/internal/infrastructure/web"
	"GameNewsBot/internal/logging"
	"GameNewsBot/internal/ports"
	"GameNewsBot/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
// All dependencies are constructed here and passed down explicitly; there
// is no ambient global state.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}
	return &Application{cfg: cfg, logger: baseLogger}
}

// Run opens the store, starts the health server and drives the control loop
// until ctx is cancelled. Resources close on the way out.
func (a *Application) Run(ctx context.Context) error {
	openCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	store, err := storage.Open(openCtx, a.cfg.Database.DSN)
	cancel()
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	publisher, err := telegram.NewPublisher(
		a.cfg.Telegram.BotToken,
		a.cfg.Telegram.ChatID,
		a.cfg.Limits.MaxMessageLength,
		a.logger.With("component", "telegram"),
	)
	if err != nil {
		return fmt.Errorf("create publisher: %w", err)
	}

	selection := usecase.NewSelectionEngine(store, a.logger.With("component", "selection"))

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Sources:       a.buildSources(),
		Selection:     selection,
		Store:         store,
		Publisher:     publisher,
		SourceTimeout: a.cfg.Limits.SourceTimeout(),
		Logger:        a.logger.With("component", "pipeline"),
	})

	server := web.NewServer(a.cfg.Server.Port, pipeline, a.logger.With("component", "web"))
	server.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			a.logger.Error("http server shutdown", "error", err)
		}
	}()

	loop := usecase.NewLoop(
		pipeline,
		a.cfg.Scheduler.BaseHours,
		a.cfg.Scheduler.Location(),
		nil,
		a.logger.With("component", "loop"),
	)

	return loop.Run(ctx)
}

func (a *Application) buildSources() []ports.ArticleSource {
	sources := make([]ports.ArticleSource, 0, len(a.cfg.Sources.Feeds)+len(a.cfg.Sources.Pages))

	for _, feed := range a.cfg.Sources.Feeds {
		sources = append(sources, source.NewFeedSource(feed, a.cfg.Limits))
	}

	pageClient := &http.Client{Timeout: a.cfg.Limits.SourceTimeout()}
	for _, page := range a.cfg.Sources.Pages {
		sources = append(sources, source.NewPageSource(page, a.cfg.Limits, pageClient))
	}

	return sources
}
