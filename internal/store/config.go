package store

import (
	"database/sql"
	"fmt"
	"strconv"

	"queueCtl/internal/apierr"
)

var recognizedConfig = map[string]func(string) error{
	"backoff_base": func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 2 {
			return fmt.Errorf("%w: backoff_base must be an integer >= 2", apierr.ErrInvalidSpec)
		}
		return nil
	},
	"max_retries": func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: max_retries must be an integer >= 0", apierr.ErrInvalidSpec)
		}
		return nil
	},
	"default_timeout": func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: default_timeout must be a positive integer", apierr.ErrInvalidSpec)
		}
		return nil
	},
	"poll_interval_ms": func(v string) error {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("%w: poll_interval_ms must be a positive integer", apierr.ErrInvalidSpec)
		}
		return nil
	},
}

// ConfigGet reads a recognized key. ok is false if the key has never
// been set (callers fall back to the built-in default).
func (s *Store) ConfigGet(key string) (string, bool, error) {
	if _, ok := recognizedConfig[key]; !ok {
		return "", false, apierr.ErrUnknownConfig
	}
	var value string
	err := s.db.QueryRow(`SELECT value FROM config WHERE key=?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, apierr.WrapStore(err)
	}
	return value, true, nil
}

// ConfigSet validates value against key's recognized type and persists it.
func (s *Store) ConfigSet(key, value string) error {
	validate, ok := recognizedConfig[key]
	if !ok {
		return apierr.ErrUnknownConfig
	}
	if err := validate(value); err != nil {
		return err
	}
	_, err := s.db.Exec(`
		INSERT INTO config(key, value) VALUES(?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value`, key, value)
	if err != nil {
		return apierr.WrapStore(err)
	}
	return nil
}

func (s *Store) intConfig(key string, fallback int) (int, error) {
	value, ok, err := s.ConfigGet(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback, nil
	}
	return n, nil
}
