// Package config loads process settings from the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/shiraDuek/OOP-EX1-2025-Ariel/internal/domain"
)

// Config holds settings shared by the whole process.
type Config struct {
	// ServerPort is the HTTP listen port.
	ServerPort string
	// DatabasePath is the SQLite file holding finished games.
	DatabasePath string
	// LogLevel is "info" or "debug".
	LogLevel string
	// Allowance is the per-game special disc budget of each player.
	Allowance domain.Allowance
}

const (
	envServerPort        = "SERVER_PORT"
	envDatabaseDir       = "DATABASE_DIR"
	envDatabasePath      = "DATABASE_PATH"
	envLogLevel          = "LOG_LEVEL"
	envVolatileAllowance = "VOLATILE_ALLOWANCE"
	envImmuneAllowance   = "IMMUNE_ALLOWANCE"
)

// Load reads the environment, falling back to defaults for unset values.
func Load() (Config, error) {
	port := os.Getenv(envServerPort)
	if port == "" {
		port = "8080"
	}

	databasePath := os.Getenv(envDatabasePath)
	if databasePath == "" {
		dir := os.Getenv(envDatabaseDir)
		if dir == "" {
			dir = "./data"
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Config{}, fmt.Errorf("create database dir: %w", err)
		}
		databasePath = filepath.Join(dir, "games.sqlite3")
	}

	level := os.Getenv(envLogLevel)
	switch level {
	case "":
		level = "info"
	case "info", "debug":
	default:
		return Config{}, fmt.Errorf("%s: unsupported level %q", envLogLevel, level)
	}

	allowance := domain.DefaultAllowance
	var err error
	if allowance.Volatile, err = intEnv(envVolatileAllowance, allowance.Volatile); err != nil {
		return Config{}, err
	}
	if allowance.Immune, err = intEnv(envImmuneAllowance, allowance.Immune); err != nil {
		return Config{}, err
	}

	return Config{
		ServerPort:   port,
		DatabasePath: databasePath,
		LogLevel:     level,
		Allowance:    allowance,
	}, nil
}

func intEnv(key string, def int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s: want a non-negative integer, got %q", key, raw)
	}
	return v, nil
}
