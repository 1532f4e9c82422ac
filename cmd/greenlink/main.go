package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ChKSz/GreenLink/internal/app"
	"github.com/ChKSz/GreenLink/internal/config"
	grpcserver "github.com/ChKSz/GreenLink/internal/grpc"
	"github.com/ChKSz/GreenLink/internal/grpc/proto"
	"github.com/ChKSz/GreenLink/internal/log"
	"github.com/ChKSz/GreenLink/internal/repository"
	"github.com/ChKSz/GreenLink/internal/service"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		panic(err)
	}
}

func run() error {
	// Получаем конфигурацию
	cfg, err := config.NewConfig()
	if err != nil {
		return err
	}

	logger := log.NewLogger()
	defer func() {
		_ = logger.Sync()
	}()

	store, err := newStore(cfg, logger)
	if err != nil {
		return err
	}

	// Собираем сервисы
	statsTracker := service.NewStatsTracker(store, logger)
	linkRegistry := service.NewLinkRegistry(store, statsTracker, logger)
	redirectEngine := service.NewRedirectEngine(linkRegistry, statsTracker, logger)
	adminAuth := service.NewAdminAuth(store, cfg.AdminPassword, logger)
	rateLimiter := service.NewRateLimiter(store, logger)
	languageSettings := service.NewLanguageSettings(store, logger)

	appInstance := app.NewApp(
		linkRegistry,
		statsTracker,
		redirectEngine,
		adminAuth,
		rateLimiter,
		languageSettings,
		store,
		cfg.BaseURL,
		logger,
	)

	httpServer := &http.Server{
		Addr:         cfg.RunAddr,
		Handler:      appInstance.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 2)

	go func() {
		logger.Info("HTTP server starting", zap.String("addr", cfg.RunAddr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	var grpcSrv *grpc.Server
	if cfg.GRPCAddr != "" {
		grpcSrv = grpc.NewServer(
			grpc.ChainUnaryInterceptor(
				grpcserver.LoggingInterceptor(logger),
				grpcserver.AuthInterceptor(adminAuth, logger),
			),
		)
		proto.RegisterGreenLinkServiceServer(grpcSrv, grpcserver.NewServer(
			linkRegistry,
			statsTracker,
			adminAuth,
			rateLimiter,
			languageSettings,
			store,
			logger,
		))

		go func() {
			listener, err := net.Listen("tcp", cfg.GRPCAddr)
			if err != nil {
				serverErr <- err
				return
			}
			logger.Info("gRPC server starting", zap.String("addr", cfg.GRPCAddr))
			if err := grpcSrv.Serve(listener); err != nil {
				serverErr <- err
			}
		}()
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("Server error", zap.Error(err))
	case sig := <-shutdown:
		logger.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if grpcSrv != nil {
		grpcSrv.GracefulStop()
	}
	if err := store.Close(); err != nil {
		logger.Error("Failed to close storage", zap.Error(err))
	}

	logger.Info("Server stopped")
	return nil
}

// newStore выбирает бэкенд хранилища по конфигурации:
// PostgreSQL, затем Redis, затем файл, иначе память.
func newStore(cfg *config.Config, logger *zap.Logger) (repository.Store, error) {
	switch {
	case cfg.DatabaseDSN != "":
		logger.Info("Using PostgreSQL storage")
		return repository.NewPostgresStore(cfg.DatabaseDSN, logger)
	case cfg.RedisAddr != "":
		logger.Info("Using Redis storage", zap.String("addr", cfg.RedisAddr))
		return repository.NewRedisStore(cfg.RedisAddr)
	case cfg.FileStoragePath != "":
		logger.Info("Using file storage", zap.String("path", cfg.FileStoragePath))
		return repository.NewFileStore(cfg.FileStoragePath, logger)
	default:
		logger.Info("Using in-memory storage")
		return repository.NewMemoryStore(), nil
	}
}
