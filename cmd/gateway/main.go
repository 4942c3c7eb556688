package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/saral1230/AIML-applied-mocks/internal/config"
	v1 "github.com/saral1230/AIML-applied-mocks/internal/controller/http/v1"
	"github.com/saral1230/AIML-applied-mocks/internal/domain/usecase"
	psqlRepo "github.com/saral1230/AIML-applied-mocks/internal/repository/psql"
	"github.com/saral1230/AIML-applied-mocks/internal/repository/rabbitmq"
	"github.com/saral1230/AIML-applied-mocks/internal/repository/redis"
	"github.com/saral1230/AIML-applied-mocks/internal/repository/s3"
	"github.com/saral1230/AIML-applied-mocks/pkg/client/psql"
	redisGo "github.com/saral1230/AIML-applied-mocks/pkg/client/redis"
	s3ClientGo "github.com/saral1230/AIML-applied-mocks/pkg/client/s3"
	"github.com/saral1230/AIML-applied-mocks/pkg/logger"
	"github.com/saral1230/AIML-applied-mocks/pkg/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if len(cfg.APITokens) == 0 {
		log.Fatal("API_TOKENS is not set")
	}

	vocabulary, err := config.LoadVocabulary(cfg.VocabularyFile)
	if err != nil {
		log.Fatal("failed to load vocabulary", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redisGo.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()

	db, err := psql.NewPostgresDB(cfg.PSQL)
	if err != nil {
		log.Fatal("failed to connect to postgres", "error", err)
	}
	jobRepo := psqlRepo.NewGormJobRepo(db)
	if err := jobRepo.Migrate(); err != nil {
		log.Fatal("failed to migrate", "error", err)
	}

	s3Client, err := s3ClientGo.NewS3Client(cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket, cfg.S3.Secure)
	if err != nil {
		log.Fatal("failed to init s3 client", "error", err)
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatal("failed to connect to rabbitmq", "error", err)
	}
	defer conn.Close()

	jobPublisher, err := rabbitmq.NewRabbitPublisher(conn, rabbitmq.Exchange, rabbitmq.RoutingJobCreated)
	if err != nil {
		log.Fatal("failed to init publisher", "error", err)
	}
	defer jobPublisher.Close()

	uc := usecase.NewDatasetUseCase(redis.NewRedisRepo(redisClient), s3.NewS3Repo(s3Client), jobRepo, jobPublisher, log)
	uc.Vocabulary = vocabulary
	handler := v1.NewDatasetHandler(uc, log)

	if cfg.LogMode == "prod" || cfg.LogMode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.GET("/healthz", handler.Healthz)

	v1Group := r.Group("/api/v1")
	v1Group.Use(
		middleware.APITokenAuth(cfg.APITokens),
		middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RedisClient: redisClient,
			Limit:       cfg.RateLimit,
			Window:      cfg.RateLimitWindow,
			KeyPrefix:   "rl:",
		}),
	)
	handler.Register(v1Group)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Info("gateway listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server stopped", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down gateway")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
