package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"habitq/internal/config"
	"habitq/internal/db"
	"habitq/internal/handlers"
	"habitq/internal/logging"
	mw "habitq/internal/middleware"
	"habitq/internal/services"
	"habitq/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		// No logger yet; the config decides how to build one.
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	dbConn, err := db.Open(context.Background(), cfg.Driver, cfg.DSN)
	if err != nil {
		logger.Fatal("failed to open db", zap.String("driver", cfg.Driver), zap.Error(err))
	}
	defer dbConn.Close()

	encSvc, err := services.NewEncryptionService(cfg.EncryptionKey, cfg.BlindIndexKey)
	if err != nil {
		logger.Fatal("failed to init encryption", zap.Error(err))
	}

	st := store.New(dbConn, cfg.Timeout)
	router := handlers.NewRouter(handlers.Deps{
		Logger:         logger,
		Auth:           services.NewAuthService(st, encSvc),
		Habits:         services.NewHabitService(st, logger.Named("habits")),
		Logs:           services.NewLogService(st, st, cfg.DayLocation, logger.Named("logs")),
		Heatmap:        services.NewHeatmapService(st, st, cfg.DayLocation),
		Sessions:       mw.NewSessions(cfg.JWTSecret, cfg.SessionTTL),
		Timeout:        cfg.Timeout,
		AllowedOrigins: cfg.AllowedOrigins,
		SecureCookie:   cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("driver", cfg.Driver),
			zap.String("day_boundary_tz", cfg.DayLocation.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown initiated")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
	logger.Info("server stopped")
}
