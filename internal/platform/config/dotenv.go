package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
)

// DefaultProfile is used when APP_ENVIRONMENT is unset.
const DefaultProfile = "local"

// envFiles are read in order. Variables already set are never overwritten,
// so the process environment wins over .env.local, which wins over .env.
var envFiles = []string{".env.local", ".env"}

// LoadEnvFiles loads the given .env files into the process environment,
// defaulting to .env.local and .env. Missing files are skipped.
func LoadEnvFiles(files ...string) error {
	if len(files) == 0 {
		files = envFiles
	}

	for _, f := range files {
		err := godotenv.Load(f)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}

	return nil
}

// Profile returns the config profile named by APP_ENVIRONMENT.
func Profile() string {
	if p := os.Getenv("APP_ENVIRONMENT"); p != "" {
		return p
	}

	return DefaultProfile
}

// LoadValidated reads .env files, loads the active profile from dir, and validates it.
func LoadValidated(dir string) (*Config, error) {
	if err := LoadEnvFiles(); err != nil {
		return nil, err
	}

	cfg, err := LoadFrom(dir, Profile())
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}
