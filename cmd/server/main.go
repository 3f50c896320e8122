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

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	app "github.com/VenusCh001/Placement-support-system/internal/app"
	"github.com/VenusCh001/Placement-support-system/internal/app/auth"
	"github.com/VenusCh001/Placement-support-system/internal/app/httpapi"
	"github.com/VenusCh001/Placement-support-system/internal/app/metrics"
	"github.com/VenusCh001/Placement-support-system/internal/app/storage/postgres"
	"github.com/VenusCh001/Placement-support-system/internal/config"
	"github.com/VenusCh001/Placement-support-system/internal/filestore"
	"github.com/VenusCh001/Placement-support-system/internal/middleware"
	"github.com/VenusCh001/Placement-support-system/internal/platform/migrations"
	"github.com/VenusCh001/Placement-support-system/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	log := logger.NewDefault("server")

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.WithError(err).Error("load configuration")
		os.Exit(1)
	}

	var stores app.Stores
	if cfg.Database.DSN != "" {
		db, err := sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			log.WithError(err).Error("open database")
			os.Exit(1)
		}
		defer db.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.PingContext(ctx); err != nil {
			cancel()
			log.WithError(err).Error("ping database")
			os.Exit(1)
		}
		if err := migrations.Apply(ctx, db); err != nil {
			cancel()
			log.WithError(err).Error("apply migrations")
			os.Exit(1)
		}
		cancel()

		pg := postgres.New(db)
		stores = app.Stores{
			Accounts:      pg,
			Jobs:          pg,
			Applications:  pg,
			Permissions:   pg,
			EditRequests:  pg,
			Notifications: pg,
		}
		log.Info("using postgres storage")
	} else {
		log.Warn("database.dsn not set; using in-memory storage")
	}

	application := app.New(stores, log)
	tokens := auth.NewManager(cfg.Auth.Secret, cfg.Auth.TokenTTL)

	resumes, err := filestore.New(cfg.Resumes.Dir)
	if err != nil {
		log.WithError(err).Error("init resume store")
		os.Exit(1)
	}

	api := httpapi.NewHandler(application, httpapi.Config{
		Auth:      tokens,
		Resumes:   resumes,
		AuditPath: cfg.Audit.Path,
		AuditMax:  cfg.Audit.Max,
		Log:       log,
	})

	root := http.NewServeMux()
	root.Handle("/metrics", metrics.Handler())
	root.Handle("/", api)

	var handler http.Handler = metrics.InstrumentHandler(root)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, log)
	limiter.StartCleanup(10 * time.Minute)
	handler = limiter.Handler(handler)

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.WithError(err).Warn("redis unreachable; shared rate limiting disabled")
		} else {
			redisLimiter := middleware.NewRedisLimiter(client)
			handler = redisLimiter.Handler(cfg.Redis.RateLimit, cfg.Redis.RateWindow, handler)
			log.WithField("addr", cfg.Redis.Addr).Info("redis rate limiting enabled")
		}
	}

	handler = middleware.NewCORSMiddleware(cfg.CORS.AllowedOrigins).Handler(handler)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}
