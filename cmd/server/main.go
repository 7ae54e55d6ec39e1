package main

import (
	"context"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/Hemanshukumar-dev/cloudvault/internal/config"
	"github.com/Hemanshukumar-dev/cloudvault/internal/database"
	"github.com/Hemanshukumar-dev/cloudvault/internal/handler"
	"github.com/Hemanshukumar-dev/cloudvault/internal/middleware"
	"github.com/Hemanshukumar-dev/cloudvault/internal/queue"
	"github.com/Hemanshukumar-dev/cloudvault/internal/repository"
	"github.com/Hemanshukumar-dev/cloudvault/internal/router"
	"github.com/Hemanshukumar-dev/cloudvault/internal/service/access"
	"github.com/Hemanshukumar-dev/cloudvault/internal/service/share"
	"github.com/Hemanshukumar-dev/cloudvault/internal/storage"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	storageCfg := config.LoadStorageConfig()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: rate limiting and response caching degrade to
	// passthrough middleware when it is absent.
	rdb := config.NewRedisClient()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(storageCfg.Region))
	if err != nil {
		log.Fatalf("aws config: %v", err)
	}
	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if storageCfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(storageCfg.Endpoint)
			o.UsePathStyle = true // S3-compatible stores need path-style addressing
		}
	})
	store, err := storage.NewS3Provider(ctx, storage.S3ProviderConfig{
		Client:        s3Client,
		Bucket:        storageCfg.Bucket,
		KeyPrefix:     storageCfg.KeyPrefix,
		PublicBaseURL: storageCfg.PublicBaseURL,
	})
	if err != nil {
		log.Fatalf("storage: %v", err)
	}

	users := repository.NewUserRepo(db, cfg.ProtectedAdmins)
	files := repository.NewFileRepo(db)
	perms := repository.NewPermissionRepo(db)
	tokens := repository.NewTokenRepo(db)

	resolver := access.NewResolver(perms)
	shareSvc := share.NewService(files, perms)

	authH := handler.NewAuthHandler(cfg, users, tokens)
	fileH := handler.NewFileHandler(files, resolver, store)
	permH := handler.NewPermissionHandler(shareSvc, files)
	adminH := handler.NewAdminHandler(cfg, users, files, perms, store)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	e := echo.New()
	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret, limiter)
	router.RegisterFiles(e, fileH, cfg.JWTSecret, cache)
	router.RegisterPermissions(e, permH, cfg.JWTSecret, limiter)
	router.RegisterAdmin(e, adminH, cfg.JWTSecret)

	// Background consumer writing share activity to logs/share.log. Runs
	// its own reconnect loop, so a missing broker never blocks startup.
	go func() {
		if err := queue.StartShareConsumer(); err != nil {
			log.Printf("share consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
