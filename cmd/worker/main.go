package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/jobs/repository"
	"github.com/clipforge/clipforge/internal/media"
	"github.com/clipforge/clipforge/internal/pipeline"
	"github.com/clipforge/clipforge/internal/worker"
	"github.com/clipforge/clipforge/pkg/db/aws"
	"github.com/clipforge/clipforge/pkg/db/postgres"
	clientRedis "github.com/clipforge/clipforge/pkg/db/redis"
	"github.com/clipforge/clipforge/pkg/logger"
)

func main() {
	configFile := "config.yml"
	cfgFile, err := config.LoadConfig(configFile)
	if err != nil {
		log.Fatalf("loadConfig: %v", err)
	}
	cfg, err := config.ParseConfig(cfgFile)
	if err != nil {
		log.Fatalf("parseConfig: %v", err)
	}
	appLogger := logger.NewApiLogger(cfg)
	appLogger.InitLogger()
	appLogger.Infof("AppVersion: %s, LogLevel: %s, Mode: %s", cfg.Server.AppVersion, cfg.Logger.Level, cfg.Server.Mode)

	psqlDB, err := postgres.NewPsqlDB(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to db: %s", err)
	}
	appLogger.Infof("db connected, status: %#v", psqlDB.Stats())
	defer psqlDB.Close()

	redisClient, err := clientRedis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to redis: %s", err)
	}
	appLogger.Infof("redis connected")
	defer redisClient.Close()

	awsClient, presignClient, err := aws.NewAWSClient(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		appLogger.Fatalf("could not connect to s3: %s", err)
	}

	jobsRepo := repository.NewJobsRepo(psqlDB)
	redisRepo := repository.NewJobRedisRepo(redisClient, cfg.Redis.StatusPrefix)
	awsRepo := repository.NewAwsRepository(awsClient, presignClient)

	prober := media.NewProber(appLogger)
	captions := media.NewCaptionBuilder(cfg.Caption, appLogger)
	compositor := media.NewCompositor(cfg.Clips, appLogger)
	pl := pipeline.New(cfg, prober, captions, compositor, appLogger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		appLogger.Info("Shutting down...")
		cancel()
	}()

	w := worker.NewWorker(cfg, appLogger, redisRepo, awsRepo, jobsRepo, pl)
	w.Start(ctx)
	w.Wait()
}
