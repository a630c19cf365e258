package main

import (
	"log"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/server"
	"github.com/clipforge/clipforge/pkg/db/aws"
	"github.com/clipforge/clipforge/pkg/db/postgres"
	"github.com/clipforge/clipforge/pkg/db/redis"
	"github.com/clipforge/clipforge/pkg/logger"
)

func main() {
	log.Println("Starting server")
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

	redisClient, err := redis.NewRedisClient(cfg)
	if err != nil {
		appLogger.Fatalf("could not connect to redis: %s", err)
	}
	appLogger.Infof("redis connected")
	defer redisClient.Close()

	s3Client, presignClient, err := aws.NewAWSClient(cfg.S3.Endpoint, cfg.S3.Region, cfg.S3.AccessKey, cfg.S3.SecretKey)
	if err != nil {
		appLogger.Fatalf("could not connect to s3: %s", err)
	}

	s := server.NewServer(cfg, psqlDB, redisClient, s3Client, presignClient, appLogger)
	if err = s.Run(); err != nil {
		appLogger.Infof("could not start server: %s", err)
	}
}
