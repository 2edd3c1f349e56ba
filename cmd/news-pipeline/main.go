package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travel-news/internal/article"
	"travel-news/internal/config"
	"travel-news/internal/db"
	"travel-news/internal/event"
	"travel-news/internal/ingest"
	"travel-news/internal/sink"
)

// news-pipeline runs one ingestion pass: scrape, store new articles, print the
// top-N and mirror the full store to CSV. It exits non-zero only when config
// or storage fails.
func main() {
	os.Exit(run())
}

func run() int {
	// Root context cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Printf("failed to load config: %v", err)
		return 1
	}

	var out io.Writer = os.Stdout
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if err != nil {
			log.Printf("log file %s unavailable, logging to stdout only: %v", cfg.LogFile, err)
		} else {
			defer f.Close()
			out = io.MultiWriter(os.Stdout, f)
		}
	}
	logger := log.New(out, "[news-pipeline] ", log.LstdFlags|log.Lshortfile)

	sources, err := ingest.BuildSources(cfg.Sources, ingest.SourceOptions{
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.Timeout,
	})
	if err != nil {
		logger.Printf("invalid source configuration: %v", err)
		return 1
	}

	// Mongo
	mongoClient, err := db.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		logger.Printf("storage unavailable: failed to connect to db: %v", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Disconnect(shutdownCtx); err != nil {
			logger.Printf("mongo disconnect error: %v", err)
		}
	}()

	articleRepo, err := article.NewMongoArticleRepository(mongoClient.Database(cfg.MongoDBName), logger)
	if err != nil {
		logger.Printf("storage unavailable: failed to init repository: %v", err)
		return 1
	}
	logger.Println("article repository initialised")

	sinks := sink.Set{
		Archive: []sink.Sink{sink.NewCSVSink(cfg.CSVPath)},
		Top:     []sink.Sink{sink.NewTableSink(out, fmt.Sprintf("Top %d Latest Articles:", cfg.TopN))},
	}
	if cfg.S3Bucket != "" {
		s3Sink, err := sink.NewS3Sink(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region)
		if err != nil {
			logger.Printf("s3 mirror disabled: %v", err)
		} else {
			sinks.Archive = append(sinks.Archive, s3Sink)
		}
	}

	// Event publisher (RabbitMQ), optional
	var notifier ingest.Notifier
	if cfg.RabbitURI != "" {
		publisher, err := event.NewRabbitPublisher(cfg.RabbitURI, cfg.RabbitExchange, cfg.RabbitRoutingKey, logger)
		if err != nil {
			logger.Printf("event publishing disabled: %v", err)
		} else {
			defer publisher.Close()
			notifier = publisher
		}
	}

	svc := ingest.NewService(articleRepo, sources, sinks, notifier, cfg.TopN, logger)

	report, err := svc.RunOnce(ctx)
	if err != nil {
		if errors.Is(err, article.ErrStorage) {
			logger.Printf("run %s aborted, storage failure: %v", report.RunID, err)
		} else {
			logger.Printf("run %s aborted: %v", report.RunID, err)
		}
		return 1
	}
	if report.SinkErr != nil {
		logger.Printf("run %s finished with export errors: %v", report.RunID, report.SinkErr)
	}

	if cfg.LogFile != "" {
		logger.Printf("logs are stored in file: %s", cfg.LogFile)
	}
	logger.Printf("all extracted articles are stored in database: %s/%s", cfg.MongoDBName, "articles")
	logger.Printf("all extracted articles are also stored in CSV file: %s", cfg.CSVPath)
	logger.Println("news pipeline completed successfully")
	return 0
}
