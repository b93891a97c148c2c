package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"siruang/internal/api"
	"siruang/internal/auth"
	"siruang/internal/config"
	"siruang/internal/database"
	"siruang/internal/domain"
	"siruang/internal/events"
	"siruang/internal/google"
	"siruang/internal/logging"
	"siruang/internal/metrics"
	"siruang/internal/notify"
	"siruang/internal/repository"
	"siruang/internal/service"
	"siruang/internal/worker"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	cfg, logger, closer, err := loadConfigAndLogger()
	if err != nil {
		return err
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	db, err := database.NewDB(cfg.Database.Path, &logger)
	if err != nil {
		logger.Error().Err(err).Str("db_path", cfg.Database.Path).Msg("init database")
		return err
	}
	defer db.Close()

	redisClient := initRedis(cfg, &logger)
	if redisClient != nil {
		defer redisClient.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	tokenStore := buildTokenStore(redisClient, &logger)
	tokens := auth.NewTokenManager(
		cfg.Auth.JWTSecret,
		time.Duration(cfg.Auth.TokenTTLHours)*time.Hour,
		tokenStore,
	)

	eventBus := events.NewEventBus()
	if cfg.Telegram.Enabled {
		notifier, err := notify.NewTelegramNotifier(cfg.Telegram, &logger)
		if err != nil {
			logger.Warn().Err(err).Msg("telegram init failed, continuing without notifications")
		} else {
			notifier.SubscribeTo(eventBus)
			logger.Info().Msg("telegram notifications enabled")
		}
	}

	syncWorker := startSheetsWorker(ctx, cfg, db, redisClient, &logger)

	reservations := service.NewReservationService(db, eventBus, syncWorker, &logger)
	users := service.NewUserService(db, tokens, cfg.Auth.AdminRegistrationSecret, cfg.Auth.BcryptCost, &logger)

	httpServer := api.NewHTTPServer(cfg.Server, api.Services{
		Tokens:       tokens,
		Users:        users,
		Reservations: reservations,
		Gedung:       service.NewGedungService(db),
		Ruangan:      service.NewRuanganService(db),
		Exports:      service.NewExportService(db, cfg.Exports.Path),
	}, &logger)

	if cfg.Backup.Enabled {
		backup := database.NewBackupService(cfg.Database.Path, cfg.Backup, &logger)
		go backup.Start(ctx)
	}

	startMetrics(ctx, cfg, &logger)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(shutdownCtx)

	logger.Info().Msg("server stopped")
	return nil
}

func loadConfigAndLogger() (*config.Config, zerolog.Logger, io.Closer, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("load config: %w", err)
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return nil, zerolog.Logger{}, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := baseLogger.With().Str("component", "api-main").Logger()

	return cfg, logger, closer, nil
}

func initRedis(cfg *config.Config, logger *zerolog.Logger) *redis.Client {
	if cfg.Redis.Address == "" {
		return nil
	}

	redisClient := repository.NewRedisClient(cfg.Redis)
	if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
		logger.Warn().Err(err).Msg("redis connection failed, continuing without redis")
		return nil
	}

	logger.Info().Str("addr", cfg.Redis.Address).Msg("redis connected")
	return redisClient
}

// buildTokenStore prefers redis so revocations survive restarts; the in-memory
// store is always present as the failover target.
func buildTokenStore(redisClient *redis.Client, logger *zerolog.Logger) domain.TokenStore {
	memory := repository.NewMemoryTokenStore()
	if redisClient == nil {
		return memory
	}
	return repository.NewFailoverTokenStore(repository.NewRedisTokenStore(redisClient), memory, logger)
}

func startSheetsWorker(ctx context.Context, cfg *config.Config, db *database.DB, redisClient *redis.Client, logger *zerolog.Logger) domain.SyncWorker {
	if cfg.Google.CredentialsFile == "" || cfg.Google.ReservationSpreadSheetID == "" {
		return nil
	}

	sheetsService, err := google.NewSheetsService(cfg.Google.CredentialsFile, cfg.Google.ReservationSpreadSheetID)
	if err != nil {
		logger.Warn().Err(err).Msg("google sheets init failed, continuing without sheets")
		return nil
	}

	w := worker.NewSheetsWorker(db, sheetsService, redisClient, worker.RetryPolicy{}, logger)
	go w.Start(ctx)

	logger.Info().Msg("google sheets sync enabled")
	return w
}

func startMetrics(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) {
	if !cfg.Monitoring.PrometheusEnabled {
		return
	}

	metrics.Register()
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())

		srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Monitoring.PrometheusPort), Handler: mux}
		go func() {
			<-ctx.Done()
			ctxShutdown, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			_ = srv.Shutdown(ctxShutdown)
		}()
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()
}
