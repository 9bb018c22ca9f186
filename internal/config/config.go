package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAPIBaseURL         = "http://localhost:8000"
	DefaultAPITimeout         = 15 * time.Second
	DefaultMigrationsPath     = "migrations"
	DefaultSessionSweepPeriod = time.Hour
)

type Config struct {
	TelegramToken  string
	DBDSN          string
	Environment    string
	MigrationsPath string
	SweepInterval  time.Duration
	API            APIConfig
	DotEnvLoaded   bool // найден ли .env; логирует вызывающий
}

// APIConfig настройки клиента бэкенда (общие для бота и CLI)
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

// CLIConfig настройки mentorctl
type CLIConfig struct {
	Environment  string
	SessionFile  string
	API          APIConfig
	DotEnvLoaded bool
}

// Load загружает конфигурацию бота
func Load() (*Config, error) {
	dotEnv := loadDotEnv()

	api, err := loadAPI()
	if err != nil {
		return nil, err
	}

	sweep, err := getDuration("SESSION_SWEEP_INTERVAL", DefaultSessionSweepPeriod)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    getEnv("ENV", "development"),
		MigrationsPath: getEnv("MIGRATIONS_PATH", DefaultMigrationsPath),
		SweepInterval:  sweep,
		API:            api,
		DotEnvLoaded:   dotEnv,
	}

	// Проверяем обязательные поля
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}

// LoadCLI загружает конфигурацию CLI. БД и токен бота не нужны.
func LoadCLI() (*CLIConfig, error) {
	dotEnv := loadDotEnv()

	api, err := loadAPI()
	if err != nil {
		return nil, err
	}

	sessionFile := os.Getenv("MENTORCTL_SESSION_FILE")
	if sessionFile == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve config dir: %w", err)
		}
		sessionFile = filepath.Join(dir, "mentorctl", "session.json")
	}

	return &CLIConfig{
		Environment:  getEnv("ENV", "development"),
		SessionFile:  sessionFile,
		API:          api,
		DotEnvLoaded: dotEnv,
	}, nil
}

func (c *Config) GetDBDSN() string {
	return c.DBDSN
}

// loadDotEnv загружает .env, если он есть. Логгера ещё нет, поэтому
// результат возвращается и логируется вызывающим.
func loadDotEnv() bool {
	return godotenv.Load(".env") == nil
}

func loadAPI() (APIConfig, error) {
	timeout, err := getDuration("API_TIMEOUT", DefaultAPITimeout)
	if err != nil {
		return APIConfig{}, err
	}
	return APIConfig{
		BaseURL: getEnv("API_BASE_URL", DefaultAPIBaseURL),
		Timeout: timeout,
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration, got %q", key, raw)
	}
	return d, nil
}
