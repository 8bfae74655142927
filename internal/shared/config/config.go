package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"investor-backend/internal/shared/telemetry"
)

const (
	defaultMaxUploadBytes    = 10 << 20
	defaultMaxObjectBytes    = 25 << 20
	defaultExtractionTimeout = 2 * time.Minute
)

// Config holds application configuration.
type Config struct {
	Port              string
	CORSAllowOrigin   []string
	Env               string
	DatabaseURL       string
	ObjectStoreType   string
	LocalStoreDir     string
	StorageBucket     string
	StoragePrefix     string
	AWSRegion         string
	S3Endpoint        string
	S3ForcePathStyle  bool
	SSEKMSKeyID       string
	S3AccessKeyID     string
	S3SecretKey       string
	TaskScheduler     string
	SQSQueueURL       string
	WorkerConcurrency int
	MaxParsers        int
	TaskQueueSize     int
	ExtractionTimeout time.Duration
	MaxUploadBytes    int64
	MaxObjectBytes    int64
	SQSVisibility     time.Duration
	ShutdownTimeout   time.Duration
	UploadRatePerSec  float64
	UploadBurst       int
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		telemetry.Warn("config.database_url_missing", map[string]any{"env": env})
	}

	return Config{
		Port:              getEnv("PORT", "8080"),
		CORSAllowOrigin:   splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		Env:               env,
		DatabaseURL:       dbURL,
		ObjectStoreType:   normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:     getEnv("LOCAL_STORE_DIR", "./data"),
		StorageBucket:     strings.TrimSpace(os.Getenv("STORAGE_BUCKET")),
		StoragePrefix:     getEnv("STORAGE_PREFIX", "documents"),
		AWSRegion:         getEnv("AWS_REGION", "us-east-1"),
		S3Endpoint:        getEnv("S3_ENDPOINT", ""),
		S3ForcePathStyle:  getEnvBool("S3_FORCE_PATH_STYLE", false),
		SSEKMSKeyID:       getEnv("SSE_KMS_KEY_ID", ""),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:       getEnv("S3_SECRET_ACCESS_KEY", ""),
		TaskScheduler:     normalizeScheduler(getEnv("TASK_SCHEDULER", "inprocess")),
		SQSQueueURL:       getEnv("SQS_QUEUE_URL", ""),
		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 4),
		MaxParsers:        getEnvInt("MAX_CONCURRENT_PARSERS", 8),
		TaskQueueSize:     getEnvInt("TASK_QUEUE_SIZE", 64),
		ExtractionTimeout: getEnvDuration("EXTRACTION_TIMEOUT", defaultExtractionTimeout),
		MaxUploadBytes:    int64(getEnvInt("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
		MaxObjectBytes:    int64(getEnvInt("MAX_OBJECT_BYTES", defaultMaxObjectBytes)),
		SQSVisibility:     getEnvDuration("SQS_VISIBILITY_TIMEOUT", 5*time.Minute),
		ShutdownTimeout:   getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		UploadRatePerSec:  getEnvFloat("UPLOAD_RATE_PER_SEC", 2),
		UploadBurst:       getEnvInt("UPLOAD_BURST", 10),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil || val <= 0 {
		telemetry.Warn("config.invalid_value", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return val
}

func getEnvFloat(key string, def float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil || val < 0 {
		telemetry.Warn("config.invalid_value", map[string]any{"key": key, "value": raw, "default": def})
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return val
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := time.ParseDuration(raw)
	if err != nil || val <= 0 {
		telemetry.Warn("config.invalid_value", map[string]any{"key": key, "value": raw, "default": def.String()})
		return def
	}
	return val
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeScheduler(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sqs":
		return "sqs"
	default:
		return "inprocess"
	}
}
