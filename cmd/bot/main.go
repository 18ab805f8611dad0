// Mood-journal Telegram bot.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/MaxRosokha/mood-bot/internal/advisor"
	"github.com/MaxRosokha/mood-bot/internal/api"
	"github.com/MaxRosokha/mood-bot/internal/checkin"
	"github.com/MaxRosokha/mood-bot/internal/config"
	"github.com/MaxRosokha/mood-bot/internal/dispatch"
	"github.com/MaxRosokha/mood-bot/internal/scheduler"
	"github.com/MaxRosokha/mood-bot/internal/stats"
	"github.com/MaxRosokha/mood-bot/internal/store"
	"github.com/MaxRosokha/mood-bot/internal/telegram"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(context.Background()); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected", "path", cfg.DBPath)

	llm, err := advisor.NewOpenAIClient(advisor.OpenAIConfig{
		APIKey:  cfg.OpenAIAPIKey,
		BaseURL: cfg.OpenAIBaseURL,
		Model:   cfg.OpenAIModel,
	})
	if err != nil {
		slog.Error("Failed to initialize AI client", "error", err)
		os.Exit(1)
	}

	// Initialize core components.
	sessions := checkin.NewManager(repo)
	aggregator := stats.NewAggregator(repo)
	reflector := advisor.New(llm, repo, cfg.AITimeout)
	dispatcher := dispatch.New(repo, sessions, aggregator, reflector)

	bot, err := telegram.New(cfg.BotToken, dispatcher)
	if err != nil {
		slog.Error("Failed to initialize telegram bot", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Daily check-in broadcast.
	sched, err := scheduler.New(cfg.CheckInHour, cfg.CheckInMinute, cfg.Location, repo, bot)
	if err != nil {
		slog.Error("Failed to initialize scheduler", "error", err)
		os.Exit(1)
	}
	if err := sched.Start(ctx); err != nil {
		slog.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	// Ops endpoint.
	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.Recoverer)
	api.NewHealthHandler(repo).RegisterHealth(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("Health server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Health server failed", "error", err)
		}
	}()

	// Poll for updates until shutdown. Run also returns on an
	// unexpected polling failure, which must tear the process down
	// rather than leave it idling without a transport.
	slog.Info("Bot started",
		"checkin_time", cfg.CheckInHour, "checkin_minute", cfg.CheckInMinute,
		"timezone", cfg.Location.String())
	if err := bot.Run(ctx); err != nil {
		slog.Error("Update loop failed", "error", err)
	}

	stop()
	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Health server forced to shutdown", "error", err)
	}

	slog.Info("Bot stopped successfully")
}
