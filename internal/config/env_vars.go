package config

import (
	"strings"
)

const (
	envEnvVar   = "ENV"
	storeEnvVar = "STORE"
	devEnv      = "DEV"
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

type EnvVars struct {
	Port         string `env:"PORT" envDefault:"3000"`
	AppName      string `env:"APP_NAME" envDefault:"Post Scheduler"`
	Env          string `env:"ENV" envDefault:"DEV"`
	Store        string `env:"STORE" envDefault:"memory"`
	DatabasePath string `env:"DATABASE_PATH" envDefault:"post-scheduler.db"`
	LogLevel     string `env:"LOG_LEVEL"`
}

var _ EnvConfig = EnvVars{}

func (e EnvVars) GetPort() string {
	port := e.Port
	if !strings.HasPrefix(port, ":") {
		port = ":" + port
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return devEnv
	}
	return strings.ToUpper(e.Env)
}

func (e EnvVars) IsDev() bool {
	return e.GetEnv() == devEnv
}

func (e EnvVars) GetStore() string {
	return strings.ToLower(e.Store)
}

func (e EnvVars) GetDatabasePath() string {
	return e.DatabasePath
}

// GetLogLevel defaults to debug in DEV and info everywhere else.
func (e EnvVars) GetLogLevel() string {
	if e.LogLevel != "" {
		return e.LogLevel
	}
	if e.IsDev() {
		return "debug"
	}
	return "info"
}
