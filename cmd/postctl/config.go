package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	APIURL     string        `env:"API_URL" envDefault:"http://localhost:3000/"`
	APITimeout time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	SessionDB  string        `env:"SESSION_DB"`
	LogLevel   string        `env:"LOG_LEVEL" envDefault:"warn"`
}

func loadConfig(options env.Options) (*Config, error) {
	c := &Config{}
	if err := env.ParseWithOptions(c, options); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if c.SessionDB == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("locate home directory: %w", err)
		}
		c.SessionDB = filepath.Join(home, ".postctl", "session.db")
	}
	return c, nil
}
