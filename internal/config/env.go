package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// Env holds the environment overrides.
type Env struct {
	DBPath   string
	LogLevel string
	Deck     string
}

// LoadEnv loads the given .env files into the process environment, then
// reads the overrides. Missing files are skipped and variables already set
// in the environment are not replaced.
func LoadEnv(paths ...string) (Env, error) {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return Env{}, fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return Env{
		DBPath:   os.Getenv("CARDTYPE_DB"),
		LogLevel: os.Getenv("CARDTYPE_LOG_LEVEL"),
		Deck:     os.Getenv("CARDTYPE_DECK"),
	}, nil
}

// DBPathOrDefault returns the override or the default database path.
func (e Env) DBPathOrDefault() string {
	if e.DBPath != "" {
		return e.DBPath
	}
	return DefaultDBPath()
}
