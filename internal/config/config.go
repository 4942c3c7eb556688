package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/saral1230/AIML-applied-mocks/pkg/client/psql"
	"github.com/saral1230/AIML-applied-mocks/pkg/client/redis"
)

const EnvFile = "./.env.local"

type S3Config struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Secure    bool
}

type Config struct {
	LogMode string

	Redis redis.Config
	PSQL  psql.Config
	S3    S3Config

	RabbitMQURL string

	// gateway
	HTTPAddr        string
	APITokens       map[string]string // token -> client id
	RateLimit       int
	RateLimitWindow time.Duration
	VocabularyFile  string

	// worker
	ChunkSize         int
	Prefetch          int
	UploadConcurrency int
}

// Load reads .env.local when present, then the process environment. Every
// missing or malformed key is reported in one error.
func Load() (Config, error) {
	envLoaded := godotenv.Load(EnvFile) == nil
	r := &envReader{}

	cfg := Config{
		LogMode: r.get("LOG_MODE", "dev"),

		Redis: redis.Config{
			Addr:     r.must("REDIS_HOST") + ":" + r.must("REDIS_PORT"),
			Password: r.get("REDIS_PASSWORD", ""),
			DB:       r.getInt("REDIS_DB", 0),
		},

		PSQL: psql.Config{
			Host:     r.must("PSQL_HOST"),
			Port:     r.getInt("PSQL_PORT", 5432),
			User:     r.must("PSQL_USER"),
			Password: r.must("PSQL_PASSWORD"),
			DBName:   r.must("PSQL_DB"),
			SslMode:  r.get("PSQL_SSLMODE", "disable"),
		},

		S3: S3Config{
			Endpoint:  r.must("S3_HOST") + ":" + r.must("S3_PORT"),
			Bucket:    r.must("S3_BUCKET"),
			AccessKey: r.must("S3_ACCESS_KEY"),
			SecretKey: r.must("S3_SECRET_KEY"),
			Secure:    r.getBool("S3_SECURE", false),
		},

		RabbitMQURL: "amqp://" + r.must("RABBITMQ_USER") + ":" + r.must("RABBITMQ_PASSWORD") +
			"@" + r.must("RABBITMQ_HOST") + ":" + r.must("RABBITMQ_PORT") + "/",

		HTTPAddr:        r.get("HTTP_ADDR", ":8080"),
		APITokens:       r.tokens("API_TOKENS"),
		RateLimit:       r.getInt("RATE_LIMIT", 10),
		RateLimitWindow: r.getDuration("RATE_LIMIT_WINDOW", time.Second),
		VocabularyFile:  r.get("VOCABULARY_FILE", ""),

		ChunkSize:         r.getInt("WORKER_CHUNK_SIZE", 100000),
		Prefetch:          r.getInt("WORKER_PREFETCH", 1),
		UploadConcurrency: r.getInt("WORKER_UPLOAD_CONCURRENCY", 4),
	}

	if err := r.err(); err != nil {
		if !envLoaded {
			return Config{}, fmt.Errorf("no %s found and environment incomplete: %w", EnvFile, err)
		}
		return Config{}, err
	}
	return cfg, nil
}

// envReader collects problems instead of stopping at the first one.
type envReader struct {
	missing []string
	errs    []error
}

func (r *envReader) must(key string) string {
	val := os.Getenv(key)
	if val == "" {
		r.missing = append(r.missing, key)
	}
	return val
}

func (r *envReader) get(key, def string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return def
}

func (r *envReader) getInt(key string, def int) int {
	val := r.get(key, "")
	if val == "" {
		return def
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s value %q: %w", key, val, err))
		return def
	}
	return i
}

func (r *envReader) getBool(key string, def bool) bool {
	val := r.get(key, "")
	if val == "" {
		return def
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s value %q: %w", key, val, err))
		return def
	}
	return b
}

func (r *envReader) getDuration(key string, def time.Duration) time.Duration {
	val := r.get(key, "")
	if val == "" {
		return def
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		r.errs = append(r.errs, fmt.Errorf("invalid %s value %q: %w", key, val, err))
		return def
	}
	return d
}

// tokens parses "client:token,client:token".
func (r *envReader) tokens(key string) map[string]string {
	val := r.get(key, "")
	if val == "" {
		return nil
	}
	out := make(map[string]string)
	for _, pair := range strings.Split(val, ",") {
		client, token, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || client == "" || token == "" {
			r.errs = append(r.errs, fmt.Errorf("invalid %s entry %q, want client:token", key, pair))
			continue
		}
		out[token] = client
	}
	return out
}

func (r *envReader) err() error {
	errs := r.errs
	if len(r.missing) > 0 {
		errs = append([]error{fmt.Errorf("environment variables not set: %s", strings.Join(r.missing, ", "))}, errs...)
	}
	return errors.Join(errs...)
}
