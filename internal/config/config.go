// Package config loads settings from the environment and an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/idilsaglam/shoplist/internal/store/jsonstore"
)

// What to do when the data file exists but cannot be parsed.
const (
	OnCorruptAbort = "abort"
	OnCorruptReset = "reset"
)

const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

type Config struct {
	DataFile  string
	Theme     string
	OnCorrupt string
	Color     string
	Debug     bool
	LogFile   string
}

// Load reads envPath if given (it must exist), otherwise .env in the working
// directory if present. Variables already set in the environment win.
func Load(envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			return nil, fmt.Errorf("load env file: %w", err)
		}
	} else {
		_ = godotenv.Load()
	}

	dataFile := os.Getenv("SHOPLIST_FILE")
	if dataFile == "" {
		p, err := jsonstore.DefaultPath()
		if err != nil {
			return nil, err
		}
		dataFile = p
	}

	debug, err := parseBoolEnv("SHOPLIST_DEBUG", false)
	if err != nil {
		return nil, err
	}

	return &Config{
		DataFile:  dataFile,
		Theme:     strings.ToLower(getEnvOrDefault("SHOPLIST_THEME", "classic")),
		OnCorrupt: strings.ToLower(getEnvOrDefault("SHOPLIST_ON_CORRUPT", OnCorruptAbort)),
		Color:     strings.ToLower(getEnvOrDefault("SHOPLIST_COLOR", ColorAuto)),
		Debug:     debug,
		LogFile:   getEnvOrDefault("SHOPLIST_LOG_FILE", "shoplist-debug.log"),
	}, nil
}

func (c *Config) Validate() error {
	switch c.Theme {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("SHOPLIST_THEME: unknown theme %q (classic, neon, mono)", c.Theme)
	}
	switch c.OnCorrupt {
	case OnCorruptAbort, OnCorruptReset:
	default:
		return fmt.Errorf("SHOPLIST_ON_CORRUPT: unknown policy %q (abort, reset)", c.OnCorrupt)
	}
	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("SHOPLIST_COLOR: unknown mode %q (auto, always, never)", c.Color)
	}
	if strings.TrimSpace(c.DataFile) == "" {
		return fmt.Errorf("SHOPLIST_FILE: empty path")
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseBoolEnv(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}
