package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is everything the service and the CLI read from the environment.
// Database and S3 settings are optional: empty values disable those parts.
type Config struct {
	Port           string
	CacheDir       string
	UploadDir      string
	SchemaPath     string
	MaxUploadBytes int64
	ProcessTimeout time.Duration
	LogLevel       string
	AllowedOrigins []string

	OCREnginePath     string
	OCRRasterizerPath string
	OCRLanguages      string
	OCRDPI            int

	DatabaseURL string

	AwsAccessKey string
	AwsSecretKey string
	AwsRegion    string
	BucketName   string

	// Warnings lists env values that were rejected in favour of defaults.
	Warnings []string
}

// LoadConfig loads the environment variables and return config
func LoadConfig() *Config {
	_ = godotenv.Load()
	r := &envReader{}

	cfg := &Config{
		Port:           getEnv("PORT", "8080"),
		CacheDir:       getEnv("CACHE_DIR", "outputs"),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		SchemaPath:     getEnv("SCHEMA_PATH", "config/dmp_structure.json"),
		MaxUploadBytes: r.int64("MAX_UPLOAD_BYTES", 16<<20),
		ProcessTimeout: r.duration("PROCESS_TIMEOUT", 5*time.Minute),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: getEnvList("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),

		OCREnginePath:     getEnv("OCR_ENGINE_PATH", ""),
		OCRRasterizerPath: getEnv("OCR_RASTERIZER_PATH", "pdftoppm"),
		OCRLanguages:      getEnv("OCR_LANGUAGES", "pol+eng"),
		OCRDPI:            r.int("OCR_DPI", 300),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		AwsAccessKey: getEnv("AWS_ACCESS_KEY", ""),
		AwsSecretKey: getEnv("AWS_SECRET_KEY", ""),
		AwsRegion:    getEnv("AWS_REGION", ""),
		BucketName:   getEnv("BUCKET_NAME", ""),
	}
	cfg.Warnings = r.warnings
	return cfg
}

// Helper to read environment variables with a default fallback; an empty
// value counts as unset.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

// envReader parses typed values and keeps a warning for every value it had
// to replace with the default. Config loads before the logger exists.
type envReader struct {
	warnings []string
}

func (r *envReader) warn(key, value, want string, def any) {
	r.warnings = append(r.warnings, fmt.Sprintf("%s=%q is not %s, using default %v", key, value, want, def))
}

func (r *envReader) int(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		r.warn(key, v, "a positive int", def)
		return def
	}
	return n
}

func (r *envReader) int64(key string, def int64) int64 {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		r.warn(key, v, "a positive int", def)
		return def
	}
	return n
}

func (r *envReader) duration(key string, def time.Duration) time.Duration {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		r.warn(key, v, "a positive duration", def)
		return def
	}
	return d
}

// getEnvList splits a comma separated value, dropping empty entries.
func getEnvList(key string, def []string) []string {
	v := getEnv(key, "")
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
