package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"

	apihttp "github.com/msulikowski96-cmd/newcvtoai/api/http"
	"github.com/msulikowski96-cmd/newcvtoai/api/http/handlers"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/account"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/avatar"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/ai/openrouter"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/config"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/health"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/health/checkers"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/history"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/logging"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/session"
	"github.com/msulikowski96-cmd/newcvtoai/pkg/storage"
)

func main() {
	log := logging.New(slog.LevelInfo)
	cfg := config.Load()

	// Backend is selected once here and never re-evaluated.
	db, err := storage.Open(context.Background(), cfg.DatabaseURL, cfg.SQLitePath)
	if err != nil {
		log.Error("open storage", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	avatars, err := avatar.NewStore(cfg.UploadDir)
	if err != nil {
		log.Error("init avatar store", "err", err)
		os.Exit(1)
	}

	// Wire dependencies
	accountRepo := account.NewSQLRepository(db)
	accountSvc := account.NewService(accountRepo)

	sessionStore := session.NewSQLStore(db)
	sessions := session.NewManager(sessionStore, cfg.SessionSecret, cfg.SessionIssuer,
		time.Duration(cfg.SessionTTLMinutes)*time.Minute)

	historyRepo := history.NewSQLRepository(db)
	historySvc := history.NewService(historyRepo)

	analyzer := openrouter.New(cfg.OpenRouterAPIKey, cfg.OpenRouterBase, cfg.OpenRouterModel,
		time.Duration(cfg.AITimeoutSeconds)*time.Second)

	readiness := health.NewService(checkers.NewStorageChecker(db))

	app := fiber.New(fiber.Config{
		BodyLimit: 10 << 20, // bounded by the largest accepted upload
	})
	app.Use(apihttp.RequestLogger(log))

	apihttp.Register(app,
		handlers.NewAuthHandler(accountSvc, sessions),
		handlers.NewProfileHandler(accountSvc, avatars),
		handlers.NewHistoryHandler(historySvc),
		handlers.NewAnalyzeHandler(analyzer),
		handlers.NewHealthHandler(readiness),
		session.NewMiddleware(sessions),
		avatars.Dir(),
	)

	backend := "sqlite"
	if cfg.DatabaseURL != "" {
		backend = "postgres"
	}
	log.Info("server starting", "port", cfg.Port, "backend", backend)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Error("server stopped", "err", err)
		os.Exit(1)
	}
}
