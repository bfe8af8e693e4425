package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/bfgbuilds/buildmanager/buildmanager"
	"github.com/bfgbuilds/buildmanager/buildmanager/database"
	"github.com/bfgbuilds/buildmanager/buildmanager/database/repositories"
	"github.com/bfgbuilds/buildmanager/buildmanager/logger"
	"github.com/bfgbuilds/buildmanager/buildmanager/schema"
	"github.com/bfgbuilds/buildmanager/buildmanager/services"
	"github.com/bfgbuilds/buildmanager/web"
	"github.com/bfgbuilds/buildmanager/web/handlers"
	websvc "github.com/bfgbuilds/buildmanager/web/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := buildmanager.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Setup(cfg.Log.Level)
	logger.LogSystem("Starting Albion Build Manager",
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	builds, users, botSettings, pingStore, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("Failed to open storage", slog.Any("error", err))
		os.Exit(1)
	}
	defer closeStore()

	if err := ensureAdminUser(ctx, users); err != nil {
		slog.Error("Failed to bootstrap admin user", slog.Any("error", err))
		os.Exit(1)
	}

	images, uploadsDir, err := newImageStore(cfg)
	if err != nil {
		slog.Error("Failed to initialize image storage", slog.Any("error", err))
		os.Exit(1)
	}

	sessions, err := websvc.NewSessionService(cfg.Web.SessionSecret, false)
	if err != nil {
		slog.Error("Failed to initialize sessions", slog.Any("error", err))
		os.Exit(1)
	}

	bot := buildmanager.NewBot(cfg, builds, botSettings)
	if err := bot.Start(ctx); err != nil {
		// The web API stays up even when Discord is unreachable; saving
		// fresh settings retries the connection.
		slog.Error("Discord bot failed to start", slog.Any("error", err))
	}

	webApp := &handlers.WebApp{
		Builds:      builds,
		Users:       users,
		BotSettings: botSettings,
		Sessions:    sessions,
		Images:      images,
		RestartBot:  bot.Restart,
		CheckStore:  pingStore,
		BotRunning:  bot.Running,
	}
	app := web.NewApp(webApp, uploadsDir)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("Web server listening",
			slog.String("type", "web"),
			slog.String("address", cfg.Addr()))
		return app.Listen(cfg.Addr())
	})
	g.Go(func() error {
		<-gctx.Done()

		logger.LogSystem("Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		bot.Stop(shutdownCtx)
		return app.ShutdownWithContext(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server exited with error", slog.Any("error", err))
		os.Exit(1)
	}
	logger.LogSystem("Shutdown complete")
}

// openStore wires the repositories against the configured backend. The
// returned ping func checks store reachability and is nil for the in-memory
// driver.
func openStore(ctx context.Context, cfg *buildmanager.Config) (
	repositories.BuildRepository,
	repositories.UserRepository,
	repositories.BotSettingsRepository,
	func(ctx context.Context) error,
	func(),
	error,
) {
	if cfg.Storage.Driver == "memory" {
		slog.Warn("Using in-memory storage, data is lost on restart")
		return repositories.NewMemoryBuildRepository(),
			repositories.NewMemoryUserRepository(),
			repositories.NewMemoryBotSettingsRepository(),
			nil, func() {}, nil
	}

	start := time.Now()
	db, err := database.New(ctx, cfg.Storage.DB)
	if err != nil {
		return nil, nil, nil, nil, nil, err
	}
	if err := db.InitializeSchema(ctx); err != nil {
		db.Close()
		return nil, nil, nil, nil, nil, err
	}
	slog.Info("Database connected",
		slog.String("type", "db"),
		slog.String("database", cfg.Storage.DB.Database),
		slog.Duration("took", time.Since(start)))

	return repositories.NewBuildRepository(db.BunDB()),
		repositories.NewUserRepository(db.BunDB()),
		repositories.NewBotSettingsRepository(db.BunDB()),
		db.Ping, db.Close, nil
}

// ensureAdminUser creates the default admin/admin account on first run.
func ensureAdminUser(ctx context.Context, users repositories.UserRepository) error {
	_, err := users.GetByUsername(ctx, "admin")
	if err == nil {
		return nil
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err = users.Create(ctx, &schema.UserInput{
		Username: "admin",
		Password: string(hash),
		IsAdmin:  true,
	}); err != nil {
		return err
	}

	slog.Warn("Created default admin account, change its password", slog.String("username", "admin"))
	return nil
}

// newImageStore picks Spaces when configured, local disk otherwise. The
// returned dir is empty for Spaces since nothing needs static serving.
func newImageStore(cfg *buildmanager.Config) (services.ImageStore, string, error) {
	if cfg.Uploads.Spaces.Enabled() {
		store, err := services.NewSpacesImageStore(
			cfg.Uploads.Spaces.Key,
			cfg.Uploads.Spaces.Secret,
			cfg.Uploads.Spaces.Region,
			cfg.Uploads.Spaces.Bucket,
		)
		return store, "", err
	}

	store, err := services.NewLocalImageStore(cfg.Uploads.Dir)
	if err != nil {
		return nil, "", err
	}
	return store, store.Dir(), nil
}
