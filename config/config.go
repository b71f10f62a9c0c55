package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

const (
	StorageDriverFile     = "file"
	StorageDriverPostgres = "postgres"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	StorageDriver string        `envconfig:"STORAGE_DRIVER" default:"file"`
	DataDir       string        `envconfig:"DATA_DIR" default:"data"`
	DatabaseURL   string        `envconfig:"DATABASE_URL"`
	DBTimeout     time.Duration `envconfig:"DB_CONNECT_TIMEOUT" default:"5s"`
	UsersFile     string        `envconfig:"USERS_FILE" default:"users.json"`
	JWTSecretKey  string        `envconfig:"JWT_SECRET_KEY"`
	TokenTTL      time.Duration `envconfig:"TOKEN_TTL" default:"24h"`
	ServerPort    int           `envconfig:"SERVER_PORT" default:"8080"`
	CORSOrigins   []string      `envconfig:"CORS_ORIGINS" default:"*"`
	ClubFile      string        `envconfig:"CLUB_FILE"`
	BackupCron    string        `envconfig:"BACKUP_CRON"`

	R2AccountID       string `envconfig:"R2_ACCOUNT_ID"`
	R2AccessKeyID     string `envconfig:"R2_ACCESS_KEY_ID"`
	R2SecretAccessKey string `envconfig:"R2_SECRET_ACCESS_KEY"`
	R2BucketName      string `envconfig:"R2_BUCKET_NAME"`
	R2PublicBaseURL   string `envconfig:"R2_PUBLIC_BASE_URL"`
	R2Endpoint        string `envconfig:"R2_ENDPOINT"`

	Club Club `ignored:"true"`
}

// Club хранит настройки клуба по умолчанию из YAML-файла CLUB_FILE.
type Club struct {
	Name             string          `yaml:"name"`
	DefaultStackSize int             `yaml:"default_stack_size"`
	DefaultEarnings  map[int]float64 `yaml:"default_earnings"`
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.ClubFile != "" {
		club, err := LoadClub(cfg.ClubFile)
		if err != nil {
			return nil, err
		}
		cfg.Club = *club
	}
	return cfg, nil
}

// Validate проверяет то, что нельзя выразить тегами envconfig.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverFile:
	case StorageDriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL environment variable is required for the postgres storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("TOKEN_TTL must be positive, got %s", c.TokenTTL)
	}
	return nil
}

// RequireJWTSecret проверяют только команды, которые выдают или проверяют токены.
func (c *Config) RequireJWTSecret() error {
	if c.JWTSecretKey == "" {
		return errors.New("JWT_SECRET_KEY environment variable is not set")
	}
	return nil
}

func LoadClub(path string) (*Club, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read club file: %w", err)
	}
	club := &Club{}
	if err := yaml.Unmarshal(data, club); err != nil {
		return nil, fmt.Errorf("failed to parse club file %s: %w", path, err)
	}
	if club.DefaultStackSize < 0 {
		return nil, fmt.Errorf("club file %s: default_stack_size must not be negative", path)
	}
	return club, nil
}
