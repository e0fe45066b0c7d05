package main

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/contentdee/contentdee/internal/app"
	"github.com/contentdee/contentdee/internal/config"
	"github.com/contentdee/contentdee/internal/logger"
	"github.com/contentdee/contentdee/internal/routes"
	"github.com/contentdee/contentdee/internal/service"
)

func main() {
	cfg := config.Load()

	logger.Init(cfg.IsDevelopment(), cfg.SentryDSN)

	app, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		panic(err)
	}
	defer func() {
		closeErr := app.Close()
		if closeErr != nil {
			slog.Error("failed to close app", "error", closeErr)
		}
	}()

	go reapSessions(app.AuthService)

	handler := routes.SetupRoutes(app)
	slog.Info("server starting", "port", cfg.Port, "env", cfg.AppEnv, "url", "http://localhost:"+cfg.Port)

	err = http.ListenAndServe(":"+cfg.Port, handler)
	if err != nil {
		slog.Error("server failed", "error", err)
		panic(err)
	}
}

// reapSessions purges expired sessions hourly for the life of the process.
func reapSessions(authService *service.AuthService) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		authService.PurgeExpiredSessions()
	}
}
