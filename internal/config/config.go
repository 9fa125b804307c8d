package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	// DBDriver selects the storage backend, "sqlite" (default) or "postgres".
	DBDriver string
	// DBPath is the sqlite database file location.
	DBPath string
	// DatabaseURL is the postgres DSN, required when DBDriver is "postgres".
	DatabaseURL string

	// VersionCap is the maximum number of retained versions per document.
	VersionCap int
	// Compression names the codec applied to version and image content:
	// "", "gzip", "lz4" or "brotli".
	Compression string

	AutosaveDebounce  time.Duration
	IdleSnapshotAfter time.Duration
	SnapshotMinGap    time.Duration

	LogLevel string
}

// Load reads configuration from the environment, with an optional .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		DBDriver:          getenv("WRITENEX_DB_DRIVER", "sqlite"),
		DBPath:            getenv("WRITENEX_DB_PATH", ".writenex/writenex.db"),
		DatabaseURL:       getenv("DATABASE_URL", ""),
		VersionCap:        getenvInt("WRITENEX_VERSION_CAP", 50),
		Compression:       getenv("WRITENEX_COMPRESSION", ""),
		AutosaveDebounce:  getenvDuration("WRITENEX_AUTOSAVE_DEBOUNCE", 3*time.Second),
		IdleSnapshotAfter: getenvDuration("WRITENEX_IDLE_SNAPSHOT_AFTER", 30*time.Second),
		SnapshotMinGap:    getenvDuration("WRITENEX_SNAPSHOT_MIN_GAP", 5*time.Minute),
		LogLevel:          getenv("LOG_LEVEL", "info"),
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	return cfg
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		logrus.Warnf("invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func getenvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		logrus.Warnf("invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}
