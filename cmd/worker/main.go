package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/saral1230/AIML-applied-mocks/internal/config"
	"github.com/saral1230/AIML-applied-mocks/internal/domain/usecase"
	psqlRepo "github.com/saral1230/AIML-applied-mocks/internal/repository/psql"
	"github.com/saral1230/AIML-applied-mocks/internal/repository/rabbitmq"
	"github.com/saral1230/AIML-applied-mocks/internal/repository/redis"
	"github.com/saral1230/AIML-applied-mocks/internal/repository/s3"
	"github.com/saral1230/AIML-applied-mocks/pkg/client/psql"
	redisGo "github.com/saral1230/AIML-applied-mocks/pkg/client/redis"
	s3ClientGo "github.com/saral1230/AIML-applied-mocks/pkg/client/s3"
	"github.com/saral1230/AIML-applied-mocks/pkg/logger"
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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient, err := redisGo.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("failed to connect to redis", "error", err)
	}
	defer redisClient.Close()
	progressTracker := redis.NewRedisRepo(redisClient)

	db, err := psql.NewPostgresDB(cfg.PSQL)
	if err != nil {
		log.Fatal("failed to connect to postgres", "error", err)
	}
	jobRepo := psqlRepo.NewGormJobRepo(db)

	s3Client, err := s3ClientGo.NewS3Client(cfg.S3.Endpoint, cfg.S3.AccessKey, cfg.S3.SecretKey, cfg.S3.Bucket, cfg.S3.Secure)
	if err != nil {
		log.Fatal("failed to init s3 client", "error", err)
	}
	if err := s3Client.EnsureBucket(ctx); err != nil {
		log.Fatal("failed to prepare bucket", "error", err)
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatal("failed to connect to rabbitmq", "error", err)
	}
	defer conn.Close()

	readyPublisher, err := rabbitmq.NewRabbitPublisher(conn, rabbitmq.Exchange, rabbitmq.RoutingReady)
	if err != nil {
		log.Fatal("failed to init publisher", "error", err)
	}
	defer readyPublisher.Close()

	generationUC := usecase.NewGenerationUseCase(jobRepo, s3.NewS3Repo(s3Client), readyPublisher, progressTracker, cfg.ChunkSize, log)
	generationUC.UploadConcurrency = cfg.UploadConcurrency

	consumer, err := rabbitmq.NewDatasetConsumer(conn, rabbitmq.Exchange, rabbitmq.RoutingJobCreated, rabbitmq.QueueJobCreated,
		cfg.Prefetch, generationUC, log)
	if err != nil {
		log.Fatal("failed to init consumer", "error", err)
	}
	defer consumer.Close()

	log.Info("dataset worker started", "chunk_size", cfg.ChunkSize, "prefetch", cfg.Prefetch)
	if err := consumer.Start(ctx); err != nil {
		log.Error("consumer stopped with error", "error", err)
	}
	log.Info("dataset worker stopped")
}
