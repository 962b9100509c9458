package api

import (
	"context"
	"log"

	"backend/internal/app/config"
	"backend/internal/app/dsn"
	"backend/internal/app/events"
	"backend/internal/app/handler"
	"backend/internal/app/lifecycle"
	"backend/internal/app/middleware"
	"backend/internal/app/orggraph"
	"backend/internal/app/redis"
	"backend/internal/app/repository"
	"backend/internal/app/storage"
	"backend/internal/app/visibility"
	"backend/internal/pkg"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func StartServer() {
	log.Println("Starting server")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatalf("cannot load config: %v", err)
	}

	repo, err := repository.New(dsn.FromEnv())
	if err != nil {
		logrus.Fatalf("cannot init repository: %v", err)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logrus.Fatalf("cannot connect to redis: %v", err)
	}

	// Evidence storage is optional in dev; submissions proceed without photos.
	var minioClient *storage.MinIOClient
	if cfg.Minio.Endpoint != "" {
		minioClient, err = storage.NewMinIOClient(
			cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey,
			cfg.Minio.Bucket, cfg.Minio.UseSSL)
		if err != nil {
			logrus.Warnf("minio unavailable, evidence uploads disabled: %v", err)
		}
	}

	org := orggraph.New(repo)
	resolver := visibility.NewResolver(repo, org, repo)
	dispatcher := events.NewDispatcher(events.LogNotifier{})
	engine := lifecycle.New(repo, org, dispatcher)

	authHandler := handler.NewAuthHandler(repo, redisClient, cfg)
	h := handler.NewHandler(repo, resolver, engine, org, minioClient, authHandler)
	authMiddleware := middleware.NewAuthMiddleware(redisClient, cfg)

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-CSRF-Token"},
		AllowCredentials: true,
	}))

	h.RegisterAPIRoutes(r, authMiddleware)

	app := pkg.NewApp(cfg, r)
	app.RunApp()

	log.Println("Server down")
}
