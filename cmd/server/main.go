// @title        Incident Reporting API
// @version      1.0
// @description  Events, incidents, evidence and catalogs for civil protection reporting.
// @BasePath     /

// @securityDefinitions.apikey  CookieAuth
// @in                          header
// @name                        Cookie
// @description                 access_token=<jwt>, set by POST /auth/login.

// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Bearer <jwt>.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/proteccion-civil/incident-system/docs"
	"github.com/proteccion-civil/incident-system/internal/api"
	"github.com/proteccion-civil/incident-system/internal/api/handler"
	"github.com/proteccion-civil/incident-system/internal/core/service"
	"github.com/proteccion-civil/incident-system/internal/infrastructure/db/mongo"
	"github.com/proteccion-civil/incident-system/internal/infrastructure/db/postgres"
	"github.com/proteccion-civil/incident-system/internal/infrastructure/db/redis"
	"github.com/proteccion-civil/incident-system/internal/infrastructure/queue"
	"github.com/proteccion-civil/incident-system/internal/infrastructure/storage"
	"github.com/proteccion-civil/incident-system/internal/infrastructure/token"
	"github.com/proteccion-civil/incident-system/internal/pkg/config"
	"github.com/proteccion-civil/incident-system/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		// Logger is not configured yet.
		boot := logger.Init(logger.Options{})
		boot.Fatal().Err(err).Msg("load configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "incident-system",
	})

	// --- Infrastructure ---
	db, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.URL, MaxOpenConns: cfg.Postgres.MaxOpenConns})
	if err != nil {
		log.Fatal().Err(err).Msg("connect postgres")
	}
	defer db.Close()
	if cfg.Postgres.AutoMigrate {
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("apply schema")
		}
	}

	mongoClient, mongoDB, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("connect mongo")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("connect redis")
	}
	defer rdb.Close()

	files, err := storage.NewLocal(cfg.Upload.Dir)
	if err != nil {
		log.Fatal().Err(err).Msg("prepare upload directory")
	}

	tokens, err := token.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("token service")
	}

	// --- Audit trail ---
	auditRepo := mongo.NewAuditRepository(mongoDB)
	if err := auditRepo.EnsureIndexes(ctx); err != nil {
		log.Warn().Err(err).Msg("audit indexes not created")
	}
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	audit := queue.NewDispatcher(cfg.AuditWorkers, auditRepo, logger.Component("audit"))
	audit.Start(workerCtx)

	// --- Services ---
	users := postgres.NewUserRepository(db)
	incidentRepo := postgres.NewIncidentRepository(db)
	corporations := service.NewCatalogService(postgres.NewCorporationRepository(db), "corporation", logger.Component("corporations"))
	motives := service.NewCatalogService(postgres.NewMotiveRepository(db), "motive", logger.Component("motives"))

	authService := service.NewAuthService(users, tokens,
		redis.NewLoginLimiter(rdb, cfg.Auth.LoginMaxAttempts, cfg.Auth.LoginWindow), logger.Component("auth"))
	eventService := service.NewEventService(postgres.NewEventRepository(db), logger.Component("events"))
	incidentService := service.NewIncidentService(incidentRepo, redis.NewIdempotencyStore(rdb), audit, logger.Component("incidents"))
	evidenceService := service.NewEvidenceService(postgres.NewEvidenceRepository(db), incidentRepo, files, audit, logger.Component("evidence"))
	userService := service.NewUserService(users, logger.Component("users"))

	// --- HTTP ---
	e := api.NewRouter(api.Handlers{
		Auth:         handler.NewAuthHandler(authService, cfg.Auth.CookieSecure),
		Events:       handler.NewEventHandler(eventService),
		Corporations: handler.NewCorporationHandler(corporations),
		Motives:      handler.NewMotiveHandler(motives),
		Incidents:    handler.NewIncidentHandler(incidentService, corporations, motives),
		Evidence:     handler.NewEvidenceHandler(evidenceService, cfg.Upload.MaxBytes),
		Users:        handler.NewUserHandler(userService),
		Health: handler.NewHealthHandler(map[string]handler.Pinger{
			"postgres": db.PingContext,
			"mongodb":  mongo.Ping(mongoClient),
			"redis":    redis.Ping(rdb),
		}),
	}, tokens, api.Options{
		CORSOrigins:    cfg.CORSOrigins,
		BodyLimitBytes: cfg.Upload.MaxBytes + 1<<20,
		Log:            log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}

	stopWorkers()
	audit.Wait()
	log.Info().Msg("stopped")
}
