package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store kinds
const (
	StoreFile  = "file"
	StoreRedis = "redis"
)

// Config holds application configuration
type Config struct {
	Difficulty       string      `json:"difficulty"`
	CatalogPath      string      `json:"catalog_path"`
	MusicDirectories []string    `json:"music_directories"`
	DefaultVolume    float64     `json:"default_volume"`
	DataDir          string      `json:"data_dir"`
	Store            StoreConfig `json:"store"`
	Log              LogConfig   `json:"log"`
	KeyBindings      KeyMap      `json:"key_bindings"`
}

// StoreConfig selects where an unfinished session is kept
type StoreConfig struct {
	Kind          string `json:"kind"`
	Profile       string `json:"profile"`
	RedisAddr     string `json:"redis_addr"`
	RedisPassword string `json:"redis_password,omitempty"`
	RedisDB       int    `json:"redis_db"`
}

// LogConfig controls the log file
type LogConfig struct {
	File       string `json:"file"`
	Level      string `json:"level"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
}

// KeyMap defines keyboard shortcuts. Number keys always pick options.
type KeyMap struct {
	Play    string `json:"play"`
	Advance string `json:"advance"`
	Stop    string `json:"stop"`
	Reset   string `json:"reset"`
	Quit    string `json:"quit"`
}

// GetDefaultConfig returns default configuration
func GetDefaultConfig() *Config {
	return &Config{
		Difficulty:       "medium",
		MusicDirectories: []string{},
		DefaultVolume:    0.5,
		DataDir:          defaultDataDir(),
		Store: StoreConfig{
			Kind:      StoreFile,
			Profile:   "default",
			RedisAddr: "127.0.0.1:6379",
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
		KeyBindings: KeyMap{
			Play:    " ",
			Advance: "enter",
			Stop:    "s",
			Reset:   "r",
			Quit:    "q",
		},
	}
}

// LoadConfig reads and unmarshals configuration from file. Missing fields
// keep their defaults.
func LoadConfig(path string) (*Config, error) {
	config := GetDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return config, nil
}

// SaveConfig marshals and saves configuration to file
func SaveConfig(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// LoadOrCreate loads config from path or creates default if not exists
func LoadOrCreate(path string) (*Config, error) {
	config, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := SaveConfig(config, path); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	return config, nil
}

// Load reads the config file, applies .env and QUIZ_* overrides and
// validates the result
func Load(path string) (*Config, error) {
	config, err := LoadOrCreate(path)
	if err != nil {
		return nil, err
	}

	// A missing .env file is fine; existing variables are not overridden.
	_ = godotenv.Load()
	config.ApplyEnv()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ApplyEnv overrides fields from QUIZ_* environment variables
func (c *Config) ApplyEnv() {
	c.Difficulty = getEnv("QUIZ_DIFFICULTY", c.Difficulty)
	c.CatalogPath = getEnv("QUIZ_CATALOG", c.CatalogPath)
	if dirs := os.Getenv("QUIZ_MUSIC_DIR"); dirs != "" {
		c.MusicDirectories = filepath.SplitList(dirs)
	}
	c.DataDir = getEnv("QUIZ_DATA_DIR", c.DataDir)
	c.Store.Kind = getEnv("QUIZ_STORE", c.Store.Kind)
	c.Store.Profile = getEnv("QUIZ_PROFILE", c.Store.Profile)
	c.Store.RedisAddr = getEnv("QUIZ_REDIS_ADDR", c.Store.RedisAddr)
	c.Store.RedisPassword = getEnv("QUIZ_REDIS_PASSWORD", c.Store.RedisPassword)
	c.Store.RedisDB = getEnvInt("QUIZ_REDIS_DB", c.Store.RedisDB)
	c.Log.File = getEnv("QUIZ_LOG_FILE", c.Log.File)
	c.Log.Level = getEnv("QUIZ_LOG_LEVEL", c.Log.Level)
}

// Validate rejects values the quiz cannot run with
func (c *Config) Validate() error {
	switch strings.ToLower(c.Difficulty) {
	case "easy", "medium", "hard":
		c.Difficulty = strings.ToLower(c.Difficulty)
	default:
		return fmt.Errorf("invalid difficulty %q", c.Difficulty)
	}
	switch c.Store.Kind {
	case StoreFile, StoreRedis:
	default:
		return fmt.Errorf("invalid store kind %q", c.Store.Kind)
	}
	if c.DefaultVolume < 0 || c.DefaultVolume > 1 {
		return fmt.Errorf("invalid volume %.2f", c.DefaultVolume)
	}
	return nil
}

// SessionPath returns the file the file store writes to
func (c *Config) SessionPath() string {
	return filepath.Join(c.DataDir, "session.json")
}

// LogPath returns the log file, defaulting to the data directory
func (c *Config) LogPath() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, "quiz.log")
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	if path := os.Getenv("QUIZ_CONFIG"); path != "" {
		return path
	}

	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "musicquiz", "config.json")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "./config.json"
	}

	return filepath.Join(home, ".config", "musicquiz", "config.json")
}

func defaultDataDir() string {
	if xdgData := os.Getenv("XDG_DATA_HOME"); xdgData != "" {
		return filepath.Join(xdgData, "musicquiz")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}
	return filepath.Join(home, ".local", "share", "musicquiz")
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

// getEnvInt gets an environment variable as int or returns a default value
func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
