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
	"golang.org/x/sync/errgroup"

	"taskshare/internal/audit"
	"taskshare/internal/identity"
	identityhandler "taskshare/internal/identity/handler"
	"taskshare/internal/identity/session"
	"taskshare/internal/platform/config"
	"taskshare/internal/platform/httpserver"
	"taskshare/internal/platform/logger"
	"taskshare/internal/platform/metrics"
	platformredis "taskshare/internal/platform/redis"
	"taskshare/internal/task"
	taskhandler "taskshare/internal/task/handler"
	taskmetrics "taskshare/internal/task/metrics"
	transport "taskshare/internal/transport/http"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checks := map[string]transport.HealthCheck{}

	// Stores: postgres when configured, memory otherwise.
	var taskStore task.Store
	var userStore identity.UserStore
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("open database", "error", err.Error())
			os.Exit(1)
		}
		defer db.Close()

		pgTasks := task.NewPostgres(db)
		pgUsers := identity.NewPostgresUserStore(db)
		if err := pgTasks.Migrate(ctx); err != nil {
			log.Error("migrate", "error", err.Error())
			os.Exit(1)
		}
		if err := pgUsers.Migrate(ctx); err != nil {
			log.Error("migrate", "error", err.Error())
			os.Exit(1)
		}
		taskStore, userStore = pgTasks, pgUsers
		checks["postgres"] = db.PingContext
	} else {
		taskStore = task.NewInMemoryStore()
		userStore = identity.NewInMemoryUserStore()
	}

	// Sessions: redis when configured, memory otherwise.
	var sessionStore session.Store
	redisClient, err := platformredis.Connect(ctx, cfg.Redis)
	if err != nil {
		log.Error("connect redis", "error", err.Error())
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		sessionStore = session.NewRedis(redisClient.Client)
		checks["redis"] = redisClient.Health
	} else {
		sessionStore = session.NewInMemoryStore()
	}

	// Audit sink: kafka when configured, channel-fed local store otherwise.
	group, groupCtx := errgroup.WithContext(ctx)
	var auditor task.AuditPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := audit.NewKafkaPublisher(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("connect kafka", "error", err.Error())
			os.Exit(1)
		}
		defer kafkaPublisher.Close()
		auditor = kafkaPublisher
	} else {
		inbox := make(chan audit.Event, 256)
		auditor = audit.NewChannelPublisher(inbox)
		worker := audit.NewWorker(audit.NewInMemoryStore(), inbox, log)
		group.Go(func() error {
			if err := worker.Run(groupCtx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	tokens := identity.NewTokenService(cfg.JWTSigningKey, "taskshare", "taskshare-api")
	identityService := identity.NewService(
		userStore,
		sessionStore,
		tokens,
		identity.NewFederatedProvider(cfg.Federated),
		cfg.TokenTTL,
		log,
	)
	validator := identityService.Validator()

	taskService := task.NewService(taskStore, auditor, taskmetrics.New(), log)

	router := transport.NewRouter(log, metrics.New(), checks,
		taskhandler.New(taskService, log, validator),
		identityhandler.New(identityService, log, validator),
	)

	srv := httpserver.New(cfg.Addr, router)

	group.Go(func() error {
		log.Info("starting taskshare", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		return httpserver.Shutdown(srv, 10*time.Second)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server error", "error", err.Error())
		os.Exit(1)
	}
}
