// Command pointsbot is the main entrypoint for the chat points bot.
// It:
//   - Loads configuration and initializes structured logging.
//   - Opens the SQLite database and runs idempotent migrations.
//   - Seeds default command and cron rows and clears stale execution locks.
//   - Connects to Twitch chat and dispatches commands from inbound messages.
//   - Runs the scheduler driving the status, reward, trivia and raffle jobs.
//   - Exposes a minimal HTTP server with /healthz, /readyz, /status, and /metrics.
//
// Shutdown is graceful on SIGINT/SIGTERM.
package main

import (
	"context"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/onnwee/pointsbot/bot"
	"github.com/onnwee/pointsbot/chat"
	"github.com/onnwee/pointsbot/command"
	"github.com/onnwee/pointsbot/config"
	"github.com/onnwee/pointsbot/cron"
	"github.com/onnwee/pointsbot/db"
	"github.com/onnwee/pointsbot/ledger"
	"github.com/onnwee/pointsbot/models"
	"github.com/onnwee/pointsbot/server"
	"github.com/onnwee/pointsbot/store"
	"github.com/onnwee/pointsbot/telemetry"
	"github.com/onnwee/pointsbot/twitchapi"
)

func main() {
	// Load .env file if present (local dev convenience only; production relies on real env)
	_ = godotenv.Load()

	// Configure logging (level + format). Defaults: level=info, format=text.
	lvl := slog.LevelInfo
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	case "info", "":
		// keep default
	default:
		// unknown level -> keep info but note once using temporary logger
		tmp := slog.New(slog.NewTextHandler(os.Stdout, nil))
		tmp.Warn("unknown LOG_LEVEL, using info", slog.String("value", os.Getenv("LOG_LEVEL")))
	}
	format := strings.ToLower(os.Getenv("LOG_FORMAT")) // text | json
	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	default:
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	}
	slog.SetDefault(slog.New(handler))
	slog.Info("logger initialized", slog.String("level", lvl.String()))

	// Config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", slog.Any("err", err))
		os.Exit(1)
	}

	// Metrics / telemetry init
	telemetry.Init()

	// Initialize OpenTelemetry tracing (optional; requires OTEL_EXPORTER_OTLP_ENDPOINT)
	shutdown, err := telemetry.InitTracing("pointsbot", "1.0.0")
	if err != nil {
		slog.Error("tracing initialization failed", slog.Any("err", err))
		os.Exit(1)
	}
	defer shutdown()

	// DB
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		slog.Error("failed to open db", slog.Any("err", err))
		os.Exit(1)
	}
	defer func() {
		if err := database.Close(); err != nil {
			slog.Error("failed to close database", slog.Any("err", err))
		}
	}()

	slog.Info("running database migrations", slog.String("component", "db_migrate"))
	migrationCtx := context.Background()
	if err := db.Migrate(migrationCtx, database); err != nil {
		slog.Error("failed to migrate db", slog.Any("err", err))
		os.Exit(1)
	}

	stores := store.New(database)
	handlers := command.All()
	jobs := cron.All()

	// Seed default command/cron rows so a fresh database is fully
	// operational, then clear execution locks left by an unclean exit.
	commandDefaults := make([]models.Command, 0, len(handlers))
	for _, h := range handlers {
		commandDefaults = append(commandDefaults, h.DefaultConfig())
	}
	if err := stores.Commands.SeedDefaults(migrationCtx, commandDefaults); err != nil {
		slog.Error("failed to seed commands", slog.Any("err", err))
		os.Exit(1)
	}
	cronDefaults := make([]models.Cron, 0, len(jobs))
	for _, j := range jobs {
		cronDefaults = append(cronDefaults, j.DefaultConfig())
	}
	if err := stores.Crons.SeedDefaults(migrationCtx, cronDefaults); err != nil {
		slog.Error("failed to seed crons", slog.Any("err", err))
		os.Exit(1)
	}
	if err := stores.Crons.ResetExecution(migrationCtx); err != nil {
		slog.Error("failed to reset cron execution locks", slog.Any("err", err))
		os.Exit(1)
	}

	// Root context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Helix status collaborator (app token via client credentials). The
	// bot runs without it, but the status/reward jobs will report errors.
	var status bot.StatusAPI = &twitchapi.StatusClient{
		Helix: &twitchapi.HelixClient{
			AppTokenSource: &twitchapi.TokenSource{ClientID: cfg.TwitchClientID, ClientSecret: cfg.TwitchClientSecret},
			ClientID:       cfg.TwitchClientID,
		},
		Channel:     cfg.TwitchChannel,
		BotUsername: cfg.TwitchBotUsername,
	}
	if cfg.TwitchClientID == "" || cfg.TwitchClientSecret == "" {
		slog.Warn("missing TWITCH_CLIENT_ID/TWITCH_CLIENT_SECRET; stream status checks will fail")
	}

	if err := cfg.ValidateChatReady(); err != nil {
		slog.Error("chat not configured", slog.Any("err", err))
		os.Exit(1)
	}
	chatClient := chat.NewClient(cfg.TwitchBotUsername, cfg.TwitchOAuthToken, cfg.TwitchChannel)

	env := &bot.Env{
		Stores:        stores,
		Ledger:        ledger.New(stores.Users, stores.Logs),
		Chat:          chatClient,
		Status:        status,
		Currency:      cfg.CurrencyName,
		DefaultPoints: cfg.DefaultPoints,
		Rand:          rand.New(rand.NewSource(time.Now().UnixNano())),
		Now:           time.Now,
	}

	dispatcher := bot.NewDispatcher(env, handlers)
	chatClient.OnMessage(func(msg bot.ChatMessage) {
		dispatcher.HandleMessage(ctx, msg)
	})

	go cron.NewScheduler(env, jobs, cfg.SchedulerTick).Run(ctx)

	// HTTP server (health/status/metrics)
	go func() {
		if err := server.Start(ctx, database, stores, cfg.HTTPAddr); err != nil {
			slog.Error("http server exited with error", slog.Any("err", err))
		}
	}()

	go func() {
		if err := chatClient.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("chat connection failed", slog.Any("err", err))
			stop()
		}
	}()

	// Block until shutdown signal
	<-ctx.Done()
	slog.Info("shutting down")
}
