package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	envPrefix       = "CONFETTI_"
	configName      = "config"
	configType      = "toml"
	configFile      = "config.toml"
	defaultDirName  = ".confetti"
	defaultInterval = time.Minute
	minInterval     = time.Second
)

type Config struct {
	DataDir       string        `env:"DATA_DIR"`
	DBPath        string        `env:"DB_PATH"`
	UserFile      string        `env:"USER_FILE"`
	LogFile       string        `env:"LOG_FILE"`
	LogLevel      string        `env:"LOG_LEVEL"`
	Conference    string        `env:"CONFERENCE"`
	ClockInterval time.Duration `env:"CLOCK_INTERVAL"`
}

// fileSchema is the on-disk shape of config.toml.
type fileSchema struct {
	Conference    string `toml:"conference" mapstructure:"conference"`
	ClockInterval string `toml:"clock_interval" mapstructure:"clock_interval"`
	LogLevel      string `toml:"log_level" mapstructure:"log_level"`
	DBPath        string `toml:"db_path,omitempty" mapstructure:"db_path"`
	LogFile       string `toml:"log_file,omitempty" mapstructure:"log_file"`
}

// New derives a default configuration rooted at dataDir.
func New(dataDir string) (Config, error) {
	if dataDir == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	return Config{
		DataDir:       dataDir,
		DBPath:        filepath.Join(dataDir, "confetti.db"),
		UserFile:      filepath.Join(dataDir, "user.json"),
		LogFile:       filepath.Join(dataDir, "confetti.log"),
		LogLevel:      "info",
		ClockInterval: defaultInterval,
	}, nil
}

// DefaultDataDir resolves the data dir from CONFETTI_DATA_DIR or the home dir.
func DefaultDataDir() (string, error) {
	if dir := os.Getenv(envPrefix + "DATA_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, defaultDirName), nil
}

// Load layers defaults, <dataDir>/config.toml and CONFETTI_* variables.
func Load(dataDir string) (Config, error) {
	cfg, err := New(dataDir)
	if err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(dataDir)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}
	file := fileSchema{}
	if err := v.Unmarshal(&file); err != nil {
		return Config{}, fmt.Errorf("decode config file: %w", err)
	}
	if err := file.applyTo(&cfg); err != nil {
		return Config{}, err
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data dir is required")
	}
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.ClockInterval < minInterval {
		return fmt.Errorf("clock interval must be at least %s, got %s", minInterval, c.ClockInterval)
	}
	return nil
}

// WriteDefault renders a starter config.toml into the data dir. An existing
// file is left untouched.
func WriteDefault(cfg Config) (string, error) {
	path := filepath.Join(cfg.DataDir, configFile)
	if _, err := os.Stat(path); err == nil {
		return path, fmt.Errorf("config already exists at %s", path)
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	payload, err := toml.Marshal(fileSchema{
		Conference:    cfg.Conference,
		ClockInterval: cfg.ClockInterval.String(),
		LogLevel:      cfg.LogLevel,
	})
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}

func (f fileSchema) applyTo(cfg *Config) error {
	if f.Conference != "" {
		cfg.Conference = f.Conference
	}
	if f.LogLevel != "" {
		cfg.LogLevel = f.LogLevel
	}
	if f.DBPath != "" {
		cfg.DBPath = f.DBPath
	}
	if f.LogFile != "" {
		cfg.LogFile = f.LogFile
	}
	if f.ClockInterval != "" {
		d, err := time.ParseDuration(f.ClockInterval)
		if err != nil {
			return fmt.Errorf("parse clock_interval: %w", err)
		}
		cfg.ClockInterval = d
	}
	return nil
}
