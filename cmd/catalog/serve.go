package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Skotchmaster/online_catalog/internal/cache"
	"github.com/Skotchmaster/online_catalog/internal/config"
	"github.com/Skotchmaster/online_catalog/internal/db"
	"github.com/Skotchmaster/online_catalog/internal/es"
	"github.com/Skotchmaster/online_catalog/internal/httpserver"
	"github.com/Skotchmaster/online_catalog/internal/logging"
	"github.com/Skotchmaster/online_catalog/internal/metrics"
	loggingmw "github.com/Skotchmaster/online_catalog/internal/middleware/logging"
	"github.com/Skotchmaster/online_catalog/internal/mykafka"
	"github.com/Skotchmaster/online_catalog/internal/repo"
	"github.com/Skotchmaster/online_catalog/internal/service"
	"github.com/Skotchmaster/online_catalog/internal/storage"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		if err := cfg.Validate(); err != nil {
			return err
		}

		logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
		slog.SetDefault(logger)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx, cfg, logger)
	},
}

// app holds everything serve opened and has to close.
type app struct {
	db       *gorm.DB
	producer *mykafka.Producer
	cache    *cache.ProductCache
}

func (a *app) close(l *slog.Logger) {
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			l.Warn("kafka_close_failed", "error", err)
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			l.Warn("redis_close_failed", "error", err)
		}
	}
	closeStore(a.db)
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	startCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	gdb, err := openStore(startCtx, cfg)
	if err != nil {
		return err
	}
	a := &app{db: gdb}
	defer a.close(logger)

	if err := db.Migrate(gdb); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	blobs, err := storage.New(startCtx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	m := metrics.New()
	products := &service.ProductService{Repo: &repo.GormRepo{DB: gdb, Blobs: blobs}, Metrics: m}
	categories := &service.CategoryService{Repo: &repo.GormRepo{DB: gdb}}
	users := &service.UserService{Repo: &repo.GormRepo{DB: gdb}}

	if len(cfg.KafkaBrokers) > 0 {
		if err := mykafka.EnsureTopics(startCtx, cfg.KafkaBrokers[0], service.ProductTopic, service.CategoryTopic, service.UserTopic); err != nil {
			logger.Warn("kafka_topics_not_ensured", "error", err)
		}
		a.producer = mykafka.NewProducer(cfg.KafkaBrokers)
		products.Events = a.producer
		categories.Events = a.producer
		users.Events = a.producer
	}

	if cfg.ESURL != "" {
		client, err := es.NewClient(startCtx, es.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword})
		if err != nil {
			return err
		}
		idx := &es.ProductIndex{Client: client, Name: cfg.ESIndex}
		if err := idx.EnsureIndex(startCtx); err != nil {
			return err
		}
		products.Index = idx
	}

	if cfg.RedisAddr != "" {
		c, err := cache.Connect(startCtx, cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
		if err != nil {
			return err
		}
		a.cache = c
		products.Cache = c
	}

	e := newEcho(logger, m)
	httpserver.Register(e, &httpserver.Deps{
		ProductHandler:  &httpserver.ProductHTTP{Svc: products},
		CategoryHandler: &httpserver.CategoryHTTP{Svc: categories},
		UserHandler: &httpserver.UserHTTP{
			Svc:  users,
			Auth: &service.AuthService{Repo: &repo.GormRepo{DB: gdb}, JWTSecret: cfg.JWTSecret, TTL: cfg.JWTExpiresIn},
		},
		JWTSecret: cfg.JWTSecret,
		Metrics:   m,
		Ready: func(c echo.Context) error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(c.Request().Context())
		},
	})

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("catalog_listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown_failed", "error", err)
	}
	logger.Info("catalog_stopped")
	return nil
}

func newEcho(logger *slog.Logger, m *metrics.Metrics) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echomw.Secure())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(m.Middleware())
	e.Use(echomw.CORS())
	return e
}

func openStore(ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	if cfg.DBDriver == "postgres" {
		if err := db.EnsureDatabase(ctx, cfg.DatabaseURL); err != nil {
			return nil, fmt.Errorf("ensure database: %w", err)
		}
	}
	gdb, err := db.Open(ctx, cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}
	return gdb, nil
}

func closeStore(gdb *gorm.DB) {
	if sqlDB, err := gdb.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
