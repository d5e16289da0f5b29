// Package config loads server settings from config.json, a .env file and SCRAP_* environment
// variables, in increasing order of precedence.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/btrahan1/Scrapper3000/internal/storage"
)

const envPrefix = "SCRAP_"

type Config struct {
	ServerName      string `json:"server_name"`
	ListenAddr      string `json:"listen_addr"`
	TickRateMS      int    `json:"tick_rate_ms"`
	PersistenceMode string `json:"persistence_mode"`
	SaveDir         string `json:"save_dir"`
	SQLitePath      string `json:"sqlite_path"`
	PostgresDSN     string `json:"postgres_dsn"`
	RedisAddr       string `json:"redis_addr"`
	MobDataDir      string `json:"mob_data_dir"`
	LogLevel        string `json:"log_level"`
	AuthSecret      string `json:"auth_secret"`
	Env             string `json:"env"`
	LoginListenAddr string `json:"login_listen_addr"`
	AccountsPath    string `json:"accounts_path"`
	TokenTTLMinutes int    `json:"token_ttl_minutes"`
}

func Defaults() Config {
	return Config{
		ServerName:      "Scrapper3000 Zone Server",
		ListenAddr:      ":7777",
		TickRateMS:      50,
		PersistenceMode: string(storage.ModeSQLite),
		SaveDir:         "saves",
		SQLitePath:      "data/saves.db",
		MobDataDir:      "data/mobs",
		LogLevel:        "info",
		Env:             "dev",
		LoginListenAddr: ":8888",
		AccountsPath:    "data/accounts.json",
		TokenTTLMinutes: 60,
	}
}

// Load never fails hard: a missing or broken config file keeps the defaults. The returned error
// only reports what was ignored so the caller can log it.
func Load(path string) (Config, error) {
	var errs []error
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		errs = append(errs, fmt.Errorf("load .env: %w", err))
	}

	cfg := Defaults()
	if data, err := os.ReadFile(path); err == nil {
		var fromFile Config
		if err := json.Unmarshal(data, &fromFile); err != nil {
			errs = append(errs, fmt.Errorf("parse %s: %w", path, err))
		} else {
			cfg = merge(cfg, fromFile)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		errs = append(errs, fmt.Errorf("read %s: %w", path, err))
	}

	cfg = applyEnv(cfg, os.LookupEnv)
	cfg = normalize(cfg)
	return cfg, errors.Join(errs...)
}

// merge keeps the default for every zero-valued field in override.
func merge(base, override Config) Config {
	str := func(dst *string, v string) {
		if strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}
	str(&base.ServerName, override.ServerName)
	str(&base.ListenAddr, override.ListenAddr)
	str(&base.PersistenceMode, override.PersistenceMode)
	str(&base.SaveDir, override.SaveDir)
	str(&base.SQLitePath, override.SQLitePath)
	str(&base.PostgresDSN, override.PostgresDSN)
	str(&base.RedisAddr, override.RedisAddr)
	str(&base.MobDataDir, override.MobDataDir)
	str(&base.LogLevel, override.LogLevel)
	str(&base.AuthSecret, override.AuthSecret)
	str(&base.Env, override.Env)
	str(&base.LoginListenAddr, override.LoginListenAddr)
	str(&base.AccountsPath, override.AccountsPath)
	if override.TickRateMS > 0 {
		base.TickRateMS = override.TickRateMS
	}
	if override.TokenTTLMinutes > 0 {
		base.TokenTTLMinutes = override.TokenTTLMinutes
	}
	return base
}

func applyEnv(cfg Config, lookup func(string) (string, bool)) Config {
	env := func(key string) string {
		v, _ := lookup(envPrefix + key)
		return v
	}
	num := func(key string) int {
		n, err := strconv.Atoi(strings.TrimSpace(env(key)))
		if err != nil {
			return 0
		}
		return n
	}
	return merge(cfg, Config{
		ServerName:      env("SERVER_NAME"),
		ListenAddr:      env("LISTEN_ADDR"),
		TickRateMS:      num("TICK_RATE_MS"),
		PersistenceMode: env("PERSISTENCE_MODE"),
		SaveDir:         env("SAVE_DIR"),
		SQLitePath:      env("SQLITE_PATH"),
		PostgresDSN:     env("POSTGRES_DSN"),
		RedisAddr:       env("REDIS_ADDR"),
		MobDataDir:      env("MOB_DATA_DIR"),
		LogLevel:        env("LOG_LEVEL"),
		AuthSecret:      env("AUTH_SECRET"),
		Env:             env("ENV"),
		LoginListenAddr: env("LOGIN_LISTEN_ADDR"),
		AccountsPath:    env("ACCOUNTS_PATH"),
		TokenTTLMinutes: num("TOKEN_TTL_MINUTES"),
	})
}

func normalize(cfg Config) Config {
	if cfg.TickRateMS < 10 {
		cfg.TickRateMS = 10
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	return cfg
}

func (c Config) TickRate() time.Duration {
	return time.Duration(c.TickRateMS) * time.Millisecond
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

func (c Config) StorageOptions() storage.Options {
	return storage.Options{
		Mode:        c.PersistenceMode,
		SaveDir:     c.SaveDir,
		SQLitePath:  c.SQLitePath,
		PostgresDSN: c.PostgresDSN,
		RedisAddr:   c.RedisAddr,
	}
}

// NewLogger returns a JSON slog logger on stderr. Unknown levels mean info.
func NewLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
