// Package config holds the process-bootstrap settings needed before a
// store exists: where the database file and log sink live. Everything
// else the core reads (backoff_base, max_retries, default_timeout,
// poll_interval_ms) is a store-held config key, not a process-global —
// see internal/store.ConfigGet/ConfigSet.
package config

import "os"

type Config struct {
	DBPath string
	LogDir string
}

func Load() *Config {
	return &Config{
		DBPath: envOr("QCTL_DB", "qctl.db"),
		LogDir: envOr("QCTL_LOGDIR", "logs"),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
