package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"setlist-service/internal/api"
	"setlist-service/internal/auth"
	"setlist-service/internal/config"
	"setlist-service/internal/logging"
	"setlist-service/internal/realtime"
	"setlist-service/internal/remote"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store remote.Store = remote.Offline{}
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("pg", zap.Error(err))
		}
		defer pool.Close()
		if err := remote.AutoMigrate(ctx, pool); err != nil {
			logger.Fatal("migrate", zap.Error(err))
		}
		store = remote.NewPostgresStore(pool)
	} else {
		logger.Warn("DATABASE_URL not set, running without remote store")
	}

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("redis", zap.Error(err))
		}
		rdb = redis.NewClient(opt)
		defer rdb.Close()
	}

	hub := realtime.NewHub()
	go hub.Run()
	rt := realtime.NewServer(hub, rdb, cfg.CORSAllowedOrigin, logger)
	go rt.RunRedisSubscriber(ctx)

	if err := os.MkdirAll(cfg.SessionsDir(), 0o755); err != nil {
		logger.Fatal("data dir", zap.String("dir", cfg.SessionsDir()), zap.Error(err))
	}
	sessions := api.NewSessions(api.FileEngineFactory(cfg.SessionsDir(), store, logger, cfg.CollationLocale))
	ownersPath := filepath.Join(cfg.SessionsDir(), api.OwnersFile)
	if err := sessions.PersistOwners(ownersPath); err != nil {
		logger.Fatal("session owners", zap.String("path", ownersPath), zap.Error(err))
	}

	srv := api.NewServer(sessions, api.Options{
		ShareBaseURL: cfg.ShareBaseURL,
		Publisher:    rt,
		WebSocket:    rt.HandleWS,
		Logger:       logger,
	})

	handler := srv.Router(
		api.CORS(cfg.CORSAllowedOrigin),
		middleware.RequestID,
		middleware.Recoverer,
		api.RequestLog(logger),
		api.RateLimit(cfg.RateLimitRPS),
		api.BodyLimit(cfg.MaxBodyBytes),
		auth.Middleware(cfg.JWTSecret, api.WriteError),
	)

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	logger.Info("setlist-service listening", zap.String("port", cfg.Port))
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("listen", zap.Error(err))
	}
}
