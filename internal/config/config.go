package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	StoreFile   = "file"
	StoreGorm   = "gorm"
	StoreBadger = "badger"
	StoreS3     = "s3"
	StoreMemory = "memory"
)

type Config struct {
	ListenAddr    string `yaml:"listen_addr"`
	GinMode       string `yaml:"gin_mode"`
	SessionSecret string `yaml:"session_secret"`
	SessionStore  string `yaml:"session_store"`
	RedisHost     string `yaml:"redis_host"`
	RedisPort     string `yaml:"redis_port"`

	StoreDriver      string `yaml:"store_driver"`
	DataDir          string `yaml:"data_dir"`
	UsersDocument    string `yaml:"users_document"`
	ProjectsDocument string `yaml:"projects_document"`
	AdminDocument    string `yaml:"admin_document"`

	DBDriver   string `yaml:"db_driver"`
	DBHost     string `yaml:"db_host"`
	DBPort     string `yaml:"db_port"`
	DBUser     string `yaml:"db_user"`
	DBPassword string `yaml:"db_password"`
	DBName     string `yaml:"db_name"`
	SQLitePath string `yaml:"sqlite_path"`

	BadgerPath string `yaml:"badger_path"`

	S3Bucket    string `yaml:"s3_bucket"`
	S3Region    string `yaml:"s3_region"`
	S3Endpoint  string `yaml:"s3_endpoint"`
	S3Prefix    string `yaml:"s3_prefix"`
	S3PathStyle bool   `yaml:"s3_path_style"`

	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file"`

	OpenAIAPIKey string `yaml:"openai_api_key"`
}

func defaults() *Config {
	return &Config{
		ListenAddr:       ":8080",
		GinMode:          "debug",
		SessionSecret:    "default-secret-key-change-me",
		SessionStore:     "cookie",
		RedisHost:        "localhost",
		RedisPort:        "6379",
		StoreDriver:      StoreFile,
		DataDir:          ".",
		UsersDocument:    "users.json",
		ProjectsDocument: "projects.json",
		AdminDocument:    "admin.json",
		DBDriver:         "sqlite",
		DBHost:           "localhost",
		DBPort:           "3306",
		DBUser:           "taskuser",
		DBPassword:       "taskpassword",
		DBName:           "task_management",
		SQLitePath:       "duty_tracker.db",
		BadgerPath:       "badger",
		S3Region:         "us-east-1",
		LogLevel:         "info",
		LogFile:          "project_log.log",
	}
}

// Load builds the configuration from defaults, then the YAML file named by
// CONFIG_FILE (if any), then the environment. A .env file in the working
// directory is loaded into the environment first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	overrideEnv(&cfg.ListenAddr, "LISTEN_ADDR")
	overrideEnv(&cfg.GinMode, "GIN_MODE")
	overrideEnv(&cfg.SessionSecret, "SESSION_SECRET")
	overrideEnv(&cfg.SessionStore, "SESSION_STORE")
	overrideEnv(&cfg.RedisHost, "REDIS_HOST")
	overrideEnv(&cfg.RedisPort, "REDIS_PORT")
	overrideEnv(&cfg.StoreDriver, "STORE_DRIVER")
	overrideEnv(&cfg.DataDir, "DATA_DIR")
	overrideEnv(&cfg.UsersDocument, "USERS_DOCUMENT")
	overrideEnv(&cfg.ProjectsDocument, "PROJECTS_DOCUMENT")
	overrideEnv(&cfg.AdminDocument, "ADMIN_DOCUMENT")
	overrideEnv(&cfg.DBDriver, "DB_DRIVER")
	overrideEnv(&cfg.DBHost, "DB_HOST")
	overrideEnv(&cfg.DBPort, "DB_PORT")
	overrideEnv(&cfg.DBUser, "DB_USER")
	overrideEnv(&cfg.DBPassword, "DB_PASSWORD")
	overrideEnv(&cfg.DBName, "DB_NAME")
	overrideEnv(&cfg.SQLitePath, "SQLITE_PATH")
	overrideEnv(&cfg.BadgerPath, "BADGER_PATH")
	overrideEnv(&cfg.S3Bucket, "S3_BUCKET")
	overrideEnv(&cfg.S3Region, "S3_REGION")
	overrideEnv(&cfg.S3Endpoint, "S3_ENDPOINT")
	overrideEnv(&cfg.S3Prefix, "S3_PREFIX")
	overrideEnv(&cfg.LogLevel, "LOG_LEVEL")
	overrideEnv(&cfg.LogFile, "LOG_FILE")
	overrideEnv(&cfg.OpenAIAPIKey, "OPENAI_API_KEY")
	if v := os.Getenv("S3_PATH_STYLE"); v != "" {
		cfg.S3PathStyle = strings.EqualFold(v, "true")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unknown drivers and missing required settings.
func (c *Config) Validate() error {
	switch c.StoreDriver {
	case StoreFile, StoreGorm, StoreBadger, StoreMemory:
	case StoreS3:
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for store driver %q", StoreS3)
		}
	default:
		return fmt.Errorf("unknown store driver %q", c.StoreDriver)
	}

	switch c.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unknown database driver %q", c.DBDriver)
	}

	switch c.SessionStore {
	case "cookie", "redis":
	default:
		return fmt.Errorf("unknown session store %q", c.SessionStore)
	}

	if c.UsersDocument == "" || c.ProjectsDocument == "" {
		return errors.New("document names must not be empty")
	}
	if c.UsersDocument == c.ProjectsDocument {
		return errors.New("users and projects documents must differ")
	}
	return nil
}

func overrideEnv(target *string, key string) {
	*target = getEnv(key, *target)
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
