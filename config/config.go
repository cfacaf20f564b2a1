// Package config resolves runtime configuration from the environment.
// Every key can be set as CASEBANK_<SECTION>_<KEY>; a handful of
// conventional names (DATABASE_URL, GEMINI_API_KEY, AWS_*) are bound
// as fallbacks so standard deployment environments work unchanged.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

const (
	envPrefix = "CASEBANK"

	defaultHTTPAddress = "0.0.0.0:8080"
	defaultLogLevel    = "info"
	defaultSQLitePath  = "casebank.db"
	defaultLocalPath   = "./storage/files"
	defaultLLMTimeout  = 120
)

// AppConfig captures runtime configuration for the API server
type AppConfig struct {
	HTTPAddress string
	LogLevel    string

	RecordStoreDriver string
	DatabaseURL       string
	SQLitePath        string

	StorageType  string
	LocalPath    string
	S3Bucket     string
	S3Region     string
	AWSAccessKey string
	AWSSecretKey string

	LLMProvider string
	LLMModel    string
	LLMAPIKey   string
	LLMBaseURL  string
	LLMTimeout  int
}

// NewViper returns a viper instance with defaults and env bindings
// configured
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided
// viper instance
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("record_store.driver", "sqlite")
	configViper.SetDefault("record_store.sqlite_path", defaultSQLitePath)
	configViper.SetDefault("storage.type", "local")
	configViper.SetDefault("storage.local_path", defaultLocalPath)
	configViper.SetDefault("llm.provider", "gemini")
	configViper.SetDefault("llm.timeout", defaultLLMTimeout)

	configViper.BindEnv("record_store.database_url", "CASEBANK_RECORD_STORE_DATABASE_URL", "DATABASE_URL")
	configViper.BindEnv("storage.s3_bucket", "CASEBANK_STORAGE_S3_BUCKET", "AWS_S3_BUCKET")
	configViper.BindEnv("storage.s3_region", "CASEBANK_STORAGE_S3_REGION", "AWS_REGION")
	configViper.BindEnv("storage.aws_access_key", "CASEBANK_STORAGE_AWS_ACCESS_KEY", "AWS_ACCESS_KEY_ID")
	configViper.BindEnv("storage.aws_secret_key", "CASEBANK_STORAGE_AWS_SECRET_KEY", "AWS_SECRET_ACCESS_KEY")
	configViper.BindEnv("llm.gemini_api_key", "GEMINI_API_KEY")
	configViper.BindEnv("llm.openai_api_key", "OPENAI_API_KEY")
}

// Load parses runtime configuration from viper
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:       configViper.GetString("http.address"),
		LogLevel:          configViper.GetString("log.level"),
		RecordStoreDriver: configViper.GetString("record_store.driver"),
		DatabaseURL:       configViper.GetString("record_store.database_url"),
		SQLitePath:        configViper.GetString("record_store.sqlite_path"),
		StorageType:       configViper.GetString("storage.type"),
		LocalPath:         configViper.GetString("storage.local_path"),
		S3Bucket:          configViper.GetString("storage.s3_bucket"),
		S3Region:          configViper.GetString("storage.s3_region"),
		AWSAccessKey:      configViper.GetString("storage.aws_access_key"),
		AWSSecretKey:      configViper.GetString("storage.aws_secret_key"),
		LLMProvider:       configViper.GetString("llm.provider"),
		LLMModel:          configViper.GetString("llm.model"),
		LLMAPIKey:         configViper.GetString("llm.api_key"),
		LLMBaseURL:        configViper.GetString("llm.base_url"),
		LLMTimeout:        configViper.GetInt("llm.timeout"),
	}

	// A missing LLM key is not an error: the server starts with the
	// generative endpoints disabled.
	if cfg.LLMAPIKey == "" {
		switch cfg.LLMProvider {
		case "gemini":
			cfg.LLMAPIKey = configViper.GetString("llm.gemini_api_key")
		case "openai":
			cfg.LLMAPIKey = configViper.GetString("llm.openai_api_key")
		}
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	switch c.RecordStoreDriver {
	case "sqlite":
		if strings.TrimSpace(c.SQLitePath) == "" {
			return fmt.Errorf("record_store.sqlite_path is required")
		}
	case "postgres":
		if strings.TrimSpace(c.DatabaseURL) == "" {
			return fmt.Errorf("record_store.database_url is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown record store driver %q (supported: sqlite, postgres)", c.RecordStoreDriver)
	}

	switch c.StorageType {
	case "local":
		if strings.TrimSpace(c.LocalPath) == "" {
			return fmt.Errorf("storage.local_path is required")
		}
	case "s3":
		if strings.TrimSpace(c.S3Bucket) == "" {
			return fmt.Errorf("storage.s3_bucket is required for s3 storage")
		}
	default:
		return fmt.Errorf("unknown storage type %q (supported: local, s3)", c.StorageType)
	}

	if c.LLMTimeout <= 0 {
		return fmt.Errorf("llm.timeout must be positive")
	}

	return nil
}
