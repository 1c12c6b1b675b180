// @title                       Catalog API
// @version                     1.0
// @description                 Product catalog with email/password auth and role-based access.
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/redis/go-redis/v9"

	"github.com/99minutos/catalog-api/docs"
	"github.com/99minutos/catalog-api/internal/api"
	"github.com/99minutos/catalog-api/internal/api/handler"
	"github.com/99minutos/catalog-api/internal/core/ports"
	"github.com/99minutos/catalog-api/internal/core/service"
	mongodb "github.com/99minutos/catalog-api/internal/infrastructure/db/mongo"
	redisdb "github.com/99minutos/catalog-api/internal/infrastructure/db/redis"
	"github.com/99minutos/catalog-api/internal/pkg/config"
	"github.com/99minutos/catalog-api/pkg/logger"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Init(logger.Options{Service: "catalog-api"})
		l := logger.Get()
		l.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "catalog-api",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("mongo index bootstrap failed")
	}

	// Idempotent replay is optional; the API works without Redis.
	var (
		rdb         *redis.Client
		idempotency ports.IdempotencyStore
	)
	if cfg.Redis.Enabled() {
		rdb, err = redisdb.Connect(ctx, redisdb.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("redis connection failed")
		}
		idempotency = redisdb.NewIdempotencyStore(rdb, cfg.Redis.IdempotencyTTL)
	} else {
		log.Info().Msg("REDIS_ADDR not set, idempotent create replay disabled")
	}

	creds := service.NewCredentialService(service.CredentialConfig{
		Secret:     cfg.JWTSecret,
		BcryptCost: cfg.BcryptCost,
	})
	users := mongodb.NewUserRepository(db)
	products := mongodb.NewProductRepository(db)

	docs.SwaggerInfo.BasePath = cfg.APIPrefix

	e := api.NewRouter(api.RouterConfig{
		APIPrefix:   cfg.APIPrefix,
		CORSOrigins: cfg.CORSOrigins,
	}, api.Deps{
		Auth:        service.NewAuthService(users, creds, log),
		Tokens:      creds,
		Products:    service.NewProductService(products, log),
		Idempotency: idempotency,
		Health:      handler.NewHealthHandler(db, rdb),
		Logger:      log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	ops := map[string]gfshutdown.Operation{
		"http": func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
		"mongo": func(ctx context.Context) error {
			return client.Disconnect(ctx)
		},
	}
	if rdb != nil {
		ops["redis"] = func(ctx context.Context) error {
			return rdb.Close()
		}
	}

	wait := gfshutdown.GracefulShutdown(context.Background(), cfg.ShutdownTimeout, ops)
	exitCode := <-wait
	log.Info().Int("exit_code", exitCode).Msg("shutdown complete")
	os.Exit(exitCode)
}
