package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"vvf-listone/config"
	"vvf-listone/internal/api/handler"
	"vvf-listone/internal/api/middleware"
	"vvf-listone/internal/api/router"
	"vvf-listone/internal/app"
	"vvf-listone/internal/service"
	"vvf-listone/internal/storage"
	"vvf-listone/pkg/browser"
	"vvf-listone/pkg/jwt"
	applogger "vvf-listone/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	flag.Parse()

	// 1. config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logger
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("mode", cfg.Server.Mode),
		zap.String("storage", cfg.Storage.Driver),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. storage backend
	backend, err := app.OpenBackend(cfg, logger)
	if err != nil {
		logger.Fatal("storage unavailable", zap.Error(err))
	}
	defer backend.Close()

	// 4. wiring: store → adapter → services → handlers
	adapter := storage.NewAdapter(backend.Store, cfg.Storage.Namespace, logger)
	launcher := browser.NewChromeLauncher(browser.ChromeOptions{
		ExecPath:  cfg.Export.ChromePath,
		NoSandbox: cfg.Export.NoSandbox,
	}, logger)
	svc := service.NewService(context.Background(), cfg, adapter, launcher, logger)

	jwtMgr := jwt.NewManager(&cfg.Auth)
	h := handler.NewHandler(svc, jwtMgr)

	var limiter middleware.Limiter
	if backend.Redis != nil {
		limiter = backend.Redis
	}

	// 5. router
	engine := router.Setup(cfg, h, jwtMgr, svc.Session, limiter, logger)

	// 6. HTTP server with graceful shutdown.
	// WriteTimeout leaves room for a cold browser start plus rendering.
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 7. wait for a signal; in-flight renders finish within the shutdown window
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}

	logger.Info("server stopped")
}
