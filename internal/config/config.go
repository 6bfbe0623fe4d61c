package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Env      string         `yaml:"env"`
	Log      LogConfig      `yaml:"log"`
	Bot      BotConfig      `yaml:"bot"`
	API      APIConfig      `yaml:"api"`
	Ops      OpsConfig      `yaml:"ops"`
	Storage  StorageConfig  `yaml:"storage"`
	Limits   LimitsConfig   `yaml:"limits"`
	AutoLike AutoLikeConfig `yaml:"auto_like"`
	Display  DisplayConfig  `yaml:"display"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

type BotConfig struct {
	Token    string        `yaml:"token"`
	OwnerIDs []int64       `yaml:"owner_ids"`
	Cooldown time.Duration `yaml:"cooldown"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type OpsConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
	IdleTimeout  time.Duration `yaml:"idle_timeout"`
}

type StorageConfig struct {
	Path string `yaml:"path"`
}

type LimitsConfig struct {
	DefaultDaily int `yaml:"default_daily"`
}

type AutoLikeConfig struct {
	Interval time.Duration `yaml:"interval"`
	Pacing   time.Duration `yaml:"pacing"`
}

type DisplayConfig struct {
	Timezone string `yaml:"timezone"`
}

func Default() Config {
	return Config{
		Env: "dev",
		Log: LogConfig{Level: "info"},
		Bot: BotConfig{
			Token:    "",
			Cooldown: 30 * time.Second,
		},
		API: APIConfig{
			BaseURL: "https://jamilikeapi.vercel.app/like",
			Timeout: 30 * time.Second,
		},
		Ops: OpsConfig{
			Addr:         "",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  30 * time.Second,
		},
		Storage: StorageConfig{Path: "data.json"},
		Limits:  LimitsConfig{DefaultDaily: 2},
		AutoLike: AutoLikeConfig{
			Interval: time.Hour,
			Pacing:   5 * time.Second,
		},
		Display: DisplayConfig{Timezone: "Asia/Kathmandu"},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// IsOwner reports whether a user id is on the operator allow-list.
func (c Config) IsOwner(userID int64) bool {
	for _, id := range c.Bot.OwnerIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func loadFromYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal config yaml: %w", err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.Env = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if v := os.Getenv("BOT_TOKEN"); v != "" {
		cfg.Bot.Token = v
	}
	if err := overrideOwnerIDs("BOT_OWNER_IDS", &cfg.Bot.OwnerIDs); err != nil {
		return err
	}
	if err := overrideDuration("BOT_COOLDOWN", &cfg.Bot.Cooldown); err != nil {
		return err
	}

	if v := os.Getenv("LIKE_API_BASE_URL"); v != "" {
		cfg.API.BaseURL = v
	}
	if err := overrideDuration("LIKE_API_TIMEOUT", &cfg.API.Timeout); err != nil {
		return err
	}

	if v := os.Getenv("OPS_ADDR"); v != "" {
		cfg.Ops.Addr = v
	}

	if v := os.Getenv("STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}

	if err := overrideInt("DEFAULT_DAILY_LIMIT", &cfg.Limits.DefaultDaily); err != nil {
		return err
	}

	if err := overrideDuration("AUTOLIKE_INTERVAL", &cfg.AutoLike.Interval); err != nil {
		return err
	}
	if err := overrideDuration("AUTOLIKE_PACING", &cfg.AutoLike.Pacing); err != nil {
		return err
	}

	if v := os.Getenv("DISPLAY_TIMEZONE"); v != "" {
		cfg.Display.Timezone = v
	}

	return nil
}

func overrideOwnerIDs(key string, target *[]int64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var ids []int64
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			return fmt.Errorf("parse %s entry %q: %w", key, part, err)
		}
		ids = append(ids, id)
	}
	*target = ids
	return nil
}

func overrideDuration(key string, target *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s duration: %w", key, err)
	}
	*target = d
	return nil
}

func overrideInt(key string, target *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s int: %w", key, err)
	}
	*target = n
	return nil
}
