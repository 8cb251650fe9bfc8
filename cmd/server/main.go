// Command server runs the PrivyTune backend HTTP API.
//
//	@title						PrivyTune API
//	@version					1.0
//	@description				Session issuance, model catalogue and shard-download bookkeeping.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	_ "github.com/privytune/backend/docs"
	"github.com/privytune/backend/internal/api"
	"github.com/privytune/backend/internal/api/handler"
	"github.com/privytune/backend/internal/api/middleware"
	"github.com/privytune/backend/internal/core/service"
	"github.com/privytune/backend/internal/infrastructure/cdn"
	mongostore "github.com/privytune/backend/internal/infrastructure/db/mongo"
	redisstore "github.com/privytune/backend/internal/infrastructure/db/redis"
	"github.com/privytune/backend/internal/infrastructure/objectstore"
	"github.com/privytune/backend/internal/infrastructure/password"
	"github.com/privytune/backend/internal/infrastructure/queue"
	"github.com/privytune/backend/internal/infrastructure/token"
	"github.com/privytune/backend/internal/pkg/config"
	"github.com/privytune/backend/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "privytune-backend",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("server exited with error")
		os.Exit(1)
	}
	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// --- Stores ---
	mongoClient, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(dctx); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect failed")
		}
	}()

	rdb, err := redisstore.Connect(ctx, redisstore.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	userRepo := mongostore.NewUserRepository(db)
	downloadRepo := mongostore.NewDownloadRepository(db)
	if err := mongostore.EnsureIndexes(ctx, userRepo, downloadRepo); err != nil {
		return err
	}

	s3Client, err := objectstore.NewS3Client(ctx, objectstore.Config{
		Region:          cfg.S3.Region,
		Bucket:          cfg.S3.Bucket,
		Prefix:          cfg.S3.Prefix,
		Endpoint:        cfg.S3.Endpoint,
		AccessKeyID:     cfg.S3.AccessKeyID,
		SecretAccessKey: cfg.S3.SecretAccessKey,
	})
	if err != nil {
		return err
	}

	// --- Auth ---
	codec, err := token.NewJWTCodec(token.Config{Secret: []byte(cfg.Auth.JWTSecret)})
	if err != nil {
		return err
	}
	hasher := password.NewHasher(password.Params{
		Memory:      cfg.Auth.Argon2.Memory,
		Iterations:  cfg.Auth.Argon2.Iterations,
		Parallelism: cfg.Auth.Argon2.Parallelism,
	})
	verifier, err := service.NewCredentialVerifier(userRepo, hasher)
	if err != nil {
		return err
	}
	authService := service.NewAuthService(userRepo, verifier, hasher, codec, cfg.Auth.TokenTTL, log)

	// --- Models and downloads ---
	modelService := service.NewModelService(
		objectstore.NewModelLister(s3Client, cfg.S3.Bucket, cfg.S3.Prefix),
		cdn.NewManifestClient(cfg.CDN.URL, cfg.CDN.Timeout),
		redisstore.NewManifestCache(rdb),
		cfg.CDN.CacheTTL,
		log,
	)
	downloadService := service.NewDownloadService(downloadRepo, redisstore.NewDedupChecker(rdb), log)

	workerCtx, stopWorkers := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.Worker.DownloadWorkers, downloadService, log)
	dispatcher.Start(workerCtx)
	defer func() {
		stopWorkers()
		dispatcher.Wait()
	}()

	e := api.NewRouter(api.Deps{
		Log:        log,
		Tokens:     codec,
		Users:      userRepo,
		Auth:       authService,
		Models:     modelService,
		Downloads:  downloadService,
		Dispatcher: dispatcher,
		ReadinessChecks: map[string]handler.DependencyCheck{
			"mongodb": mongostore.Ping(db),
			"redis":   redisstore.Ping(rdb),
		},
		CORSOrigins:  cfg.CORSAllowedOrigins,
		AuthLimiter:  middleware.NewRateLimiter(ctx, cfg.Auth.RatePerMinute, cfg.Auth.RateBurst),
		CookieSecure: cfg.Auth.CookieSecure,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
