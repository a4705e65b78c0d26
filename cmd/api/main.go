package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	_ "orderdesk/docs"
	"orderdesk/internal/config"
	"orderdesk/pkg/api"
	"orderdesk/pkg/logger"
	"orderdesk/pkg/menu"
	"orderdesk/pkg/order"
	"orderdesk/pkg/order/memory"
	pg "orderdesk/pkg/order/postgres"
	rdb "orderdesk/pkg/order/redis"
	"orderdesk/pkg/otel"
	"orderdesk/pkg/session"
)

// @title OrderDesk API
// @version 1.0
// @description API for taking restaurant orders against a fixed menu
// @host localhost:8443
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in cookie
// @name session_id
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(os.Stderr, logger.LevelError, "orderdesk", nil).Error(context.Background(), "load config", "error", err)
		os.Exit(1)
	}
	level, _ := logger.ParseLevel(cfg.LogLevel)
	log := logger.New(os.Stdout, level, "orderdesk", otel.GetTraceID)
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Error(context.Background(), "shutdown", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *logger.Logger) error {
	ctx := context.Background()

	tp, shutdown, err := otel.InitTracing(log, otel.Config{ServiceName: "orderdesk", Host: cfg.OtelHost, Probability: cfg.TraceProbability})
	if err != nil {
		return err
	}
	defer shutdown(context.Background())

	var redisClient *redis.Client
	if cfg.Store == config.StoreRedis || cfg.Auth {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
	}

	repo, closeRepo, err := openRepository(ctx, cfg, redisClient)
	if err != nil {
		return err
	}
	defer closeRepo()
	log.Info(ctx, "order store ready", "store", cfg.Store)

	m := menu.New(cfg.MenuItems()...)
	svc := order.NewService(m, repo, log)

	apiCfg := api.Config{
		Service:    svc,
		SessionTTL: cfg.SessionTTL,
		Log:        log,
		Tracer:     tp.Tracer("orderdesk"),
	}
	if cfg.Auth {
		apiCfg.Sessions = session.NewStore(redisClient, cfg.SessionTTL)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.New(apiCfg).Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening", "addr", cfg.Addr, "tls", cfg.TLSEnabled(), "menu", m.Items())
		if cfg.TLSEnabled() {
			serverErrors <- srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
			return
		}
		serverErrors <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-stop:
		log.Info(ctx, "shutdown started", "signal", sig.String())
		sctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		return srv.Shutdown(sctx)
	}
}

func openRepository(ctx context.Context, cfg *config.Config, redisClient *redis.Client) (order.Repository, func(), error) {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		repo := pg.New(db)
		if err := repo.Migrate(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		return repo, func() { db.Close() }, nil
	case config.StoreRedis:
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, nil, err
		}
		return rdb.New(redisClient, cfg.RedisKey), func() {}, nil
	default:
		return memory.New(), func() {}, nil
	}
}
