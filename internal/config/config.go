package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port         string
	DatabasePath string
	LogLevel     string

	// S3
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3BucketName      string
	S3UseSSL          bool

	// Gemini (remote extraction backend). When GeminiProjectID is empty the
	// remote stage reports BackendUnavailable and only local extraction runs.
	GeminiProjectID string
	GeminiRegion    string
	GeminiModel     string

	// Extraction pipeline. Thresholds and stage order are deliberately
	// parameterized rather than hard-wired into algorithm code.
	LocalMinChars         int
	RemoteMinChars        int
	SegmentMinChars       int
	MaxConcurrentSegments int
	SegmentBatchPause     time.Duration
	MaxOutputTokens       int
	BytesPerPage          int

	// Upload limits
	MaxFileSize int64
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:              getEnv("PORT", "8080"),
		DatabasePath:      getEnv("DATABASE_PATH", "data/screenplays.db"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		S3Endpoint:        getEnv("S3_ENDPOINT", "localhost:9000"),
		S3AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", "minioadmin"),
		S3SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", "minioadmin"),
		S3BucketName:      getEnv("S3_BUCKET_NAME", "screenplays"),
		S3UseSSL:          getEnv("S3_USE_SSL", "false") == "true",

		GeminiProjectID: getEnv("GEMINI_PROJECT_ID", ""),
		GeminiRegion:    getEnv("GEMINI_REGION", "us-central1"),
		GeminiModel:     getEnv("GEMINI_MODEL", "gemini-1.5-flash"),

		LocalMinChars:         getEnvInt("LOCAL_MIN_CHARS", 100),
		RemoteMinChars:        getEnvInt("REMOTE_MIN_CHARS", 50000),
		SegmentMinChars:       getEnvInt("SEGMENT_MIN_CHARS", 100),
		MaxConcurrentSegments: getEnvInt("MAX_CONCURRENT_SEGMENTS", 4),
		SegmentBatchPause:     time.Duration(getEnvInt("SEGMENT_BATCH_PAUSE_MS", 1000)) * time.Millisecond,
		MaxOutputTokens:       getEnvInt("MAX_OUTPUT_TOKENS", 8192),
		BytesPerPage:          getEnvInt("BYTES_PER_PAGE", 2000),

		MaxFileSize: 10 * 1024 * 1024,
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
