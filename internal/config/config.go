package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	MongoURI         string
	MongoDBName      string
	Sources          []string
	TopN             int
	Timeout          time.Duration // per listing fetch
	UserAgent        string
	CSVPath          string
	LogFile          string // empty disables the log file
	RabbitURI        string // empty disables event publishing
	RabbitExchange   string
	RabbitRoutingKey string
	S3Bucket         string // empty disables the S3 mirror
	S3Prefix         string
	S3Region         string
	RedisAddr        string // empty disables the API cache
	CacheTTL         time.Duration
	HTTPAddr         string
}

const (
	MongoURI            = "MONGO_URI"
	MongoDBName         = "MONGO_DB_NAME"
	Sources             = "SOURCES"
	TopN                = "TOP_N"
	Timeout             = "TIMEOUT"
	UserAgent           = "USER_AGENT"
	CSVPath             = "CSV_PATH"
	LogFile             = "LOG_FILE"
	RabbitURIEnv        = "RABBIT_URI"
	RabbitExchangeEnv   = "RABBIT_EXCHANGE"
	RabbitRoutingKeyEnv = "RABBIT_ROUTING_KEY"
	S3BucketEnv         = "S3_BUCKET"
	S3PrefixEnv         = "S3_PREFIX"
	S3RegionEnv         = "S3_REGION"
	RedisAddrEnv        = "REDIS_ADDR"
	CacheTTL            = "CACHE_TTL"
	HTTPAddr            = "HTTP_ADDR"
)

// Load reads an optional .env file (or the given files) and then the environment.
// Variables already set in the environment win over the files.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	var cfg Config

	cfg.MongoURI = getEnv(MongoURI, "mongodb://localhost:27017")
	cfg.MongoDBName = getEnv(MongoDBName, "newsdb")
	cfg.Sources = splitList(getEnv(Sources, "Skift,PhocusWire"))
	cfg.UserAgent = getEnv(UserAgent, "Mozilla/5.0 (Windows NT 10.0; Win64; x64)")
	cfg.CSVPath = getEnv(CSVPath, "articles.csv")
	cfg.LogFile = getEnv(LogFile, "news_pipeline.log")
	cfg.RabbitURI = os.Getenv(RabbitURIEnv)
	cfg.RabbitExchange = getEnv(RabbitExchangeEnv, "news.articles")
	cfg.RabbitRoutingKey = getEnv(RabbitRoutingKeyEnv, "article.created")
	cfg.S3Bucket = os.Getenv(S3BucketEnv)
	cfg.S3Prefix = os.Getenv(S3PrefixEnv)
	cfg.S3Region = getEnv(S3RegionEnv, "us-east-1")
	cfg.RedisAddr = os.Getenv(RedisAddrEnv)
	cfg.HTTPAddr = getEnv(HTTPAddr, ":8080")

	var err error
	if cfg.TopN, err = getEnvInt(TopN, 5); err != nil {
		return cfg, fmt.Errorf("invalid %v: %w", TopN, err)
	}
	if cfg.TopN <= 0 {
		return cfg, fmt.Errorf("invalid %v: must be positive, got %d", TopN, cfg.TopN)
	}
	if cfg.Timeout, err = getEnvDuration(Timeout, 10*time.Second); err != nil {
		return cfg, fmt.Errorf("invalid %v: %w", Timeout, err)
	}
	if cfg.CacheTTL, err = getEnvDuration(CacheTTL, 5*time.Minute); err != nil {
		return cfg, fmt.Errorf("invalid %v: %w", CacheTTL, err)
	}
	if len(cfg.Sources) == 0 {
		return cfg, fmt.Errorf("invalid %v: no sources listed", Sources)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, err
	}
	return i, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
