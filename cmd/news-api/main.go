package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"travel-news/internal/api"
	"travel-news/internal/article"
	"travel-news/internal/config"
	"travel-news/internal/db"
)

func main() {
	// Root context cancelled on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := log.New(os.Stdout, "[news-api] ", log.LstdFlags|log.Lshortfile)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	// Mongo
	mongoClient, err := db.ConnectMongo(ctx, cfg.MongoURI)
	if err != nil {
		logger.Fatalf("failed to connect to db: %v", err)
	}

	articleRepo, err := article.NewMongoArticleRepository(mongoClient.Database(cfg.MongoDBName), logger)
	if err != nil {
		logger.Fatalf("failed to init repository: %v", err)
	}

	// Redis response cache, optional
	var cache api.Cache
	if cfg.RedisAddr != "" {
		rdb, err := db.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Printf("warn: redis unavailable, serving without cache: %v", err)
		} else {
			defer rdb.Close()
			cache = api.NewRedisCache(rdb)
		}
	}

	handler := api.NewHandler(articleRepo, cache, cfg.TopN, cfg.CacheTTL, logger)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           api.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Printf("HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Printf("HTTP server error: %v", err)
			stop()
		}
	}()

	// Block until we receive a signal / ctx cancelled
	<-ctx.Done()
	logger.Println("shutdown signal received, shutting down...")

	// Unified shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Graceful HTTP shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Printf("HTTP server shutdown error: %v", err)
	}

	// Graceful Mongo shutdown
	if err := mongoClient.Disconnect(shutdownCtx); err != nil {
		logger.Printf("mongo disconnect error: %v", err)
	}

	logger.Println("shutdown complete")
}
