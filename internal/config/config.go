package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir          string // Base directory for the database and model artifacts
	Port             int
	LogLevel         string
	DevMode          bool
	PriceFeedBaseURL string // Yahoo chart API base URL
	NAVFeedBaseURL   string // AMFI mutual-fund NAV API base URL
	PriceTimeout     time.Duration
	PriceCacheTTL    time.Duration
	InflationRate    float64 // Annual inflation rate used for real-value projection
	TrainingSamples  int     // Synthetic dataset size for model fitting
	TrainingSeed     int64
	RetrainSchedule  string // cron expression for the nightly retrain job
	Backup           BackupConfig
}

// BackupConfig holds the optional S3 artifact backup configuration
type BackupConfig struct {
	Enabled bool
	Bucket  string
	Prefix  string
	Region  string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "")
	if dataDir == "" {
		if _, err := os.Stat("../data"); err == nil {
			dataDir = "../data"
		} else {
			dataDir = "./data"
		}
	}

	cfg := &Config{
		DataDir:          dataDir,
		Port:             getEnvAsInt("PORT", 8001),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		DevMode:          getEnvAsBool("DEV_MODE", false),
		PriceFeedBaseURL: getEnv("PRICE_FEED_URL", "https://query1.finance.yahoo.com"),
		NAVFeedBaseURL:   getEnv("NAV_FEED_URL", "https://api.mfapi.in"),
		PriceTimeout:     time.Duration(getEnvAsInt("PRICE_TIMEOUT_SECONDS", 10)) * time.Second,
		PriceCacheTTL:    time.Duration(getEnvAsInt("PRICE_CACHE_TTL_MINUTES", 15)) * time.Minute,
		InflationRate:    getEnvAsFloat("INFLATION_RATE", 0.05),
		TrainingSamples:  getEnvAsInt("TRAINING_SAMPLES", 7000),
		TrainingSeed:     int64(getEnvAsInt("TRAINING_SEED", 42)),
		RetrainSchedule:  getEnv("RETRAIN_SCHEDULE", "0 30 2 * * *"),
		Backup: BackupConfig{
			Enabled: getEnvAsBool("BACKUP_ENABLED", false),
			Bucket:  getEnv("BACKUP_S3_BUCKET", ""),
			Prefix:  getEnv("BACKUP_S3_PREFIX", "advisor/models"),
			Region:  getEnv("AWS_REGION", "ap-south-1"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks required configuration values
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Port)
	}
	if c.TrainingSamples < 100 {
		return fmt.Errorf("training samples too low: %d (minimum 100)", c.TrainingSamples)
	}
	if c.InflationRate < 0 || c.InflationRate > 1 {
		return fmt.Errorf("inflation rate must be a decimal in [0,1], got %f", c.InflationRate)
	}
	if c.Backup.Enabled && c.Backup.Bucket == "" {
		return fmt.Errorf("backup enabled but BACKUP_S3_BUCKET is not set")
	}
	return nil
}

// getEnv gets environment variable with fallback
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt gets environment variable as integer with fallback
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

// getEnvAsFloat gets environment variable as float with fallback
func getEnvAsFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

// getEnvAsBool gets environment variable as boolean with fallback
func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}
