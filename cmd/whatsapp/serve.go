package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/mohit-mindspick/whatsapp/internal/cache"
	"github.com/mohit-mindspick/whatsapp/internal/client"
	"github.com/mohit-mindspick/whatsapp/internal/config"
	"github.com/mohit-mindspick/whatsapp/internal/db"
	"github.com/mohit-mindspick/whatsapp/internal/events"
	"github.com/mohit-mindspick/whatsapp/internal/httpserver"
	"github.com/mohit-mindspick/whatsapp/internal/logging"
	"github.com/mohit-mindspick/whatsapp/internal/metrics"
	"github.com/mohit-mindspick/whatsapp/internal/middleware/auth"
	"github.com/mohit-mindspick/whatsapp/internal/middleware/geofence"
	loggingmw "github.com/mohit-mindspick/whatsapp/internal/middleware/logging"
	"github.com/mohit-mindspick/whatsapp/internal/permission"
	"github.com/mohit-mindspick/whatsapp/internal/repo"
	"github.com/mohit-mindspick/whatsapp/internal/service"
	"github.com/mohit-mindspick/whatsapp/internal/tokens"
)

const publisherKafka = "KAFKA"

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(log)

	authPolicy, err := auth.ParsePolicy(cfg.AuthOnUnexpectedError)
	if err != nil {
		return fmt.Errorf("AUTH_ON_UNEXPECTED_ERROR: %w", err)
	}
	geoPolicy, err := auth.ParsePolicy(cfg.GeofenceOnUnexpectedError)
	if err != nil {
		return fmt.Errorf("GEOFENCE_ON_UNEXPECTED_ERROR: %w", err)
	}
	codec, err := tokens.NewCodec(cfg.JWTSecret, cfg.JWTExpiration)
	if err != nil {
		return err
	}

	router, err := openDatabases(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := router.Close(); err != nil {
			log.Error("db_close_error", "error", err)
		}
	}()

	store := repo.New(router)
	reg, m := metrics.NewRegistry()

	var settings auth.TenantSettingsStore = store
	if cfg.RedisAddr != "" {
		rdb, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			log.Warn("redis_unavailable", "addr", cfg.RedisAddr, "error", err)
		} else {
			defer rdb.Close()
			settings = cache.NewTenantSettings(rdb, store, cfg.TenantSettingTTL)
		}
	}

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.EventPublisherType == publisherKafka {
		if err := events.EnsureTopic(ctx, cfg.KafkaBrokers, cfg.EventsTopic, cfg.TopicPartitions, cfg.TopicReplicas); err != nil {
			log.Warn("kafka_topic_setup_failed", "topic", cfg.EventsTopic, "error", err)
		}
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventsTopic)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Error("kafka_close_error", "error", err)
		}
	}()
	emitter := events.NewEmitter(publisher, m)

	workOrders := client.NewClient("workorder", cfg.WorkOrderServiceURL, cfg.HTTPClientTimeout, m)
	documents := client.NewClient("document", cfg.DocumentServiceURL, cfg.HTTPClientTimeout, m)
	comments := client.NewClient("comment", cfg.CommentServiceURL, cfg.HTTPClientTimeout, m)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestIDWithConfig(middleware.RequestIDConfig{Generator: uuid.NewString}),
		loggingmw.RequestLogger(log, m),
		middleware.Secure(),
		middleware.CORS(),
	)

	httpserver.Register(e, &httpserver.Deps{
		WorkOrders: &httpserver.WorkOrderHTTP{Svc: &service.WorkOrderService{
			Store: store, WorkOrders: workOrders, Documents: documents, Comments: comments, Events: emitter,
		}},
		Tasks: &httpserver.TaskHTTP{Svc: &service.TaskService{Store: store, WorkOrders: workOrders, Events: emitter}},
		Parts: &httpserver.PartHTTP{Svc: &service.PartService{Store: store, WorkOrders: workOrders, Events: emitter}},
		Users: &httpserver.UserHTTP{Svc: &service.UserService{Store: store}},
		Auth: auth.NewFilter(auth.Options{
			Codec:             codec,
			Sessions:          store,
			Settings:          settings,
			Permissions:       permission.NewResolver(store),
			SkipAuthorization: cfg.AuthorizationSkip,
			OnUnexpectedError: authPolicy,
			Metrics:           m,
		}),
		Geofence: geofence.Options{OnUnexpectedError: geoPolicy, Metrics: m},
		DB:       router,
		Gatherer: reg,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_starting", "port", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	}

	log.Info("shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server_shutdown_error", "error", err)
	}
	log.Info("shutdown_complete")
	return nil
}

// openDatabases opens the write pool and, when a distinct read url is
// configured, the read pool.
func openDatabases(ctx context.Context, cfg *config.Config) (*db.Router, error) {
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	write, err := db.Open(initCtx, cfg.DBDriver, cfg.DatabaseURL, db.PoolOptions{MaxOpen: cfg.DBWriteMaxOpen, MinIdle: db.WritePool.MinIdle})
	if err != nil {
		return nil, fmt.Errorf("write pool: %w", err)
	}

	var read *gorm.DB
	if cfg.DatabaseReadURL != "" && cfg.DatabaseReadURL != cfg.DatabaseURL {
		read, err = db.Open(initCtx, cfg.DBDriver, cfg.DatabaseReadURL, db.PoolOptions{MaxOpen: cfg.DBReadMaxOpen, MinIdle: db.ReadPool.MinIdle})
		if err != nil {
			_ = db.Close(write)
			return nil, fmt.Errorf("read pool: %w", err)
		}
	}
	return db.NewRouter(write, read), nil
}
