package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// Statement ingestion folders. Folder ids are paths relative to the
	// file store root.
	InputFolder   string
	SuccessFolder string
	FailureFolder string
	UploadFolder  string
	FileStoreRoot string

	// TargetCurrencyCode is the ledger base currency every transfer amount
	// is converted into.
	TargetCurrencyCode string

	// RecentRecordsURL is the link shown on the upload status page.
	RecentRecordsURL string

	JobQueueSize    int
	JobWorkerCount  int
	UploadRateLimit string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("INPUT_FOLDER", "input")
	viper.SetDefault("SUCCESS_FOLDER", "processed")
	viper.SetDefault("FAILURE_FOLDER", "failed")
	viper.SetDefault("UPLOAD_FOLDER", "uploads")
	viper.SetDefault("FILE_STORE_ROOT", "./data/statements")
	viper.SetDefault("TARGET_CURRENCY_CODE", "EUR")
	viper.SetDefault("RECENT_RECORDS_URL", "/api/v1/records/recent")
	viper.SetDefault("JOB_QUEUE_SIZE", 64)
	viper.SetDefault("JOB_WORKER_COUNT", 1)
	viper.SetDefault("UPLOAD_RATE_LIMIT", "10-M")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.InputFolder = viper.GetString("INPUT_FOLDER")
	cfg.SuccessFolder = viper.GetString("SUCCESS_FOLDER")
	cfg.FailureFolder = viper.GetString("FAILURE_FOLDER")
	cfg.UploadFolder = viper.GetString("UPLOAD_FOLDER")
	cfg.FileStoreRoot = viper.GetString("FILE_STORE_ROOT")

	cfg.TargetCurrencyCode = viper.GetString("TARGET_CURRENCY_CODE")
	if len(cfg.TargetCurrencyCode) != 3 {
		log.Printf("Warning: Invalid TARGET_CURRENCY_CODE (%q). Defaulting to EUR.\n", cfg.TargetCurrencyCode)
		cfg.TargetCurrencyCode = "EUR"
	}

	cfg.RecentRecordsURL = viper.GetString("RECENT_RECORDS_URL")

	cfg.JobQueueSize = viper.GetInt("JOB_QUEUE_SIZE")
	if cfg.JobQueueSize <= 0 {
		cfg.JobQueueSize = 64
	}
	cfg.JobWorkerCount = viper.GetInt("JOB_WORKER_COUNT")
	if cfg.JobWorkerCount <= 0 {
		cfg.JobWorkerCount = 1
	}

	cfg.UploadRateLimit = viper.GetString("UPLOAD_RATE_LIMIT")

	return cfg, nil
}
