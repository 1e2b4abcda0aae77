package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	AppHost                  string `toml:"app_host"`
	AppPort                  string `toml:"app_port"`
	AppURL                   string `toml:"-"`
	DatabaseDSN              string `toml:"database_dsn"`
	RateLimit                int    `toml:"rate_limit_per_minute"`
	RedisEnabled             bool   `toml:"redis_enabled"`
	RedisHost                string `toml:"redis_host"`
	RedisPort                string `toml:"redis_port"`
	RedisAddr                string `toml:"-"`
	RedisLeaseKey            string `toml:"redis_lease_key"`
	RedisNotifyChannel       string `toml:"redis_notify_channel"`
	CouncilMinApprovals      int    `toml:"council_min_approvals"`
	MaxStartingPrice         int64  `toml:"max_starting_price"`
	BiddingWindowHours       int    `toml:"bidding_window_hours"`
	AwardScanIntervalSeconds int    `toml:"award_scan_interval_seconds"`
	SaveMaxAttempts          int    `toml:"save_max_attempts"`
	ShutdownTimeoutSeconds   int    `toml:"shutdown_timeout_seconds"`
}

func Defaults() Config {
	return Config{
		AppHost:                  "127.0.0.1",
		AppPort:                  "8080",
		DatabaseDSN:              "repair-pool.db",
		RateLimit:                60,
		RedisHost:                "127.0.0.1",
		RedisPort:                "6379",
		RedisLeaseKey:            "repair_pool:award_sweep",
		RedisNotifyChannel:       "repair_pool:notifications",
		CouncilMinApprovals:      2,
		MaxStartingPrice:         500,
		BiddingWindowHours:       24,
		AwardScanIntervalSeconds: 10,
		SaveMaxAttempts:          3,
		ShutdownTimeoutSeconds:   20,
	}
}

// Load resolves configuration from defaults, the optional TOML file at path
// and the environment, in that order, and exits on invalid values.
func Load(path string) Config {
	cfg, err := Parse(path, os.Getenv)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func Parse(path string, getenv func(string) string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("config file %s: %w", path, err)
			}
			log.Printf("config file %s not found, using defaults and environment", path)
		}
	}

	env := envReader{getenv: getenv}
	cfg.AppHost = env.get("APP_HOST", cfg.AppHost)
	cfg.AppPort = env.get("APP_PORT", cfg.AppPort)
	cfg.DatabaseDSN = env.get("DATABASE_DSN", cfg.DatabaseDSN)
	cfg.RateLimit = env.asInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimit)
	cfg.RedisEnabled = env.asBool("REDIS_ENABLED", cfg.RedisEnabled)
	cfg.RedisHost = env.get("REDIS_HOST", cfg.RedisHost)
	cfg.RedisPort = env.get("REDIS_PORT", cfg.RedisPort)
	cfg.RedisLeaseKey = env.get("REDIS_LEASE_KEY", cfg.RedisLeaseKey)
	cfg.RedisNotifyChannel = env.get("REDIS_NOTIFY_CHANNEL", cfg.RedisNotifyChannel)
	cfg.CouncilMinApprovals = env.asInt("COUNCIL_MIN_APPROVALS", cfg.CouncilMinApprovals)
	cfg.MaxStartingPrice = int64(env.asInt("MAX_STARTING_PRICE", int(cfg.MaxStartingPrice)))
	cfg.BiddingWindowHours = env.asInt("BIDDING_WINDOW_HOURS", cfg.BiddingWindowHours)
	cfg.AwardScanIntervalSeconds = env.asInt("AWARD_SCAN_INTERVAL_SECONDS", cfg.AwardScanIntervalSeconds)
	cfg.SaveMaxAttempts = env.asInt("SAVE_MAX_ATTEMPTS", cfg.SaveMaxAttempts)
	cfg.ShutdownTimeoutSeconds = env.asInt("SHUTDOWN_TIMEOUT_SECONDS", cfg.ShutdownTimeoutSeconds)
	if env.err != nil {
		return Config{}, env.err
	}

	cfg.AppURL = fmt.Sprintf("%s:%s", cfg.AppHost, cfg.AppPort)
	cfg.RedisAddr = fmt.Sprintf("%s:%s", cfg.RedisHost, cfg.RedisPort)

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) BiddingWindow() time.Duration {
	return time.Duration(c.BiddingWindowHours) * time.Hour
}

func (c Config) AwardScanInterval() time.Duration {
	return time.Duration(c.AwardScanIntervalSeconds) * time.Second
}

func (c Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

func validate(cfg Config) error {
	switch {
	case cfg.AppHost == "" || cfg.AppPort == "":
		return errors.New("APP_HOST and APP_PORT must not be empty (e.g. 127.0.0.1:8080)")
	case cfg.DatabaseDSN == "":
		return errors.New("DATABASE_DSN must not be empty")
	case cfg.RateLimit <= 0:
		return errors.New("RATE_LIMIT_PER_MINUTE must be greater than 0")
	case cfg.CouncilMinApprovals <= 0:
		return errors.New("COUNCIL_MIN_APPROVALS must be greater than 0")
	case cfg.MaxStartingPrice <= 0:
		return errors.New("MAX_STARTING_PRICE must be greater than 0")
	case cfg.BiddingWindowHours <= 0:
		return errors.New("BIDDING_WINDOW_HOURS must be greater than 0")
	case cfg.AwardScanIntervalSeconds <= 0:
		return errors.New("AWARD_SCAN_INTERVAL_SECONDS must be greater than 0")
	case cfg.SaveMaxAttempts <= 0:
		return errors.New("SAVE_MAX_ATTEMPTS must be greater than 0")
	case cfg.RedisEnabled && (cfg.RedisLeaseKey == "" || cfg.RedisNotifyChannel == ""):
		return errors.New("REDIS_LEASE_KEY and REDIS_NOTIFY_CHANNEL are required when REDIS_ENABLED is set")
	}
	return nil
}

// envReader keeps the first parse error so Parse can report it once.
type envReader struct {
	getenv func(string) string
	err    error
}

func (e *envReader) get(key, defaultVal string) string {
	if v := e.getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func (e *envReader) asInt(key string, defaultVal int) int {
	v := e.getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		if e.err == nil {
			e.err = fmt.Errorf("invalid integer value for %s", key)
		}
		return defaultVal
	}
	return i
}

func (e *envReader) asBool(key string, defaultVal bool) bool {
	v := e.getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		if e.err == nil {
			e.err = fmt.Errorf("invalid boolean value for %s", key)
		}
		return defaultVal
	}
	return b
}
