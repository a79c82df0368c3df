package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	xdgAppName      = "tasker"
	configFile      = "config.toml"
	databaseFile    = "tasks.db"
	DefaultCalendar = "Tasks"
)

type Config struct {
	DBPath    string `toml:"db_path" env:"TASKER_DB"`
	Calendar  string `toml:"calendar" env:"TASKER_CALENDAR" env-default:"Tasks"`
	LogLevel  string `toml:"log_level" env:"TASKER_LOG_LEVEL" env-default:"info"`
	LogFormat string `toml:"log_format" env:"TASKER_LOG_FORMAT" env-default:"text"`
}

// GetXdgHome returns ~/.config/tasker, where the config file, the task
// database and the calendar sync state live.
func GetXdgHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := GetXdgHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Load reads the TOML file at path. Environment variables override file
// values; a missing file falls back to environment and defaults only.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %q: %w", path, err)
		}
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read env: %w", err)
		}
	}

	if cfg.DBPath == "" {
		dir, err := GetXdgHome()
		if err != nil {
			return nil, err
		}
		cfg.DBPath = filepath.Join(dir, databaseFile)
	}
	if cfg.Calendar == "" {
		cfg.Calendar = DefaultCalendar
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
