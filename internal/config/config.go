package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config interface {
	EnvConfig
	CorsConfig
	SecurityConfig
	TokenConfig
	Validate() error
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	IsDev() bool
	GetStore() string
	GetDatabasePath() string
	GetLogLevel() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetDefaultOrigin() string
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type mainConfig struct {
	EnvVars
	Cors
	Security
	Token
}

var _ Config = (*mainConfig)(nil)

// New reads the configuration from the process environment.
func New() (Config, error) {
	c := &mainConfig{}
	if err := env.Parse(c); err != nil {
		return nil, fmt.Errorf("[config New] parse env: %w", err)
	}
	return c, nil
}

// NewFromMap reads the configuration from the given variables instead of the
// process environment.
func NewFromMap(vars map[string]string) (Config, error) {
	c := &mainConfig{}
	if err := env.ParseWithOptions(c, env.Options{Environment: vars}); err != nil {
		return nil, fmt.Errorf("[config NewFromMap] parse env: %w", err)
	}
	return c, nil
}

// Validate fails when the configuration is not safe to start with. Outside of
// DEV a signing secret is mandatory.
func (c *mainConfig) Validate() error {
	if !c.IsDev() && c.Token.Secret == "" {
		return fmt.Errorf("%s must be set when %s=%s", jwtSecretEnvVar, envEnvVar, c.GetEnv())
	}
	if c.BcryptCost < minBcryptCost || c.BcryptCost > maxBcryptCost {
		return fmt.Errorf("%s must be between %d and %d, got %d", bcryptCostEnvVar, minBcryptCost, maxBcryptCost, c.BcryptCost)
	}
	switch c.GetStore() {
	case StoreMemory, StoreSQLite:
	default:
		return fmt.Errorf("%s must be %q or %q, got %q", storeEnvVar, StoreMemory, StoreSQLite, c.GetStore())
	}
	return nil
}

// GetJWTSecret resolves the secret against the environment so the DEV
// fallback is only ever handed out in DEV.
func (c *mainConfig) GetJWTSecret() string {
	if c.Token.Secret == "" && c.IsDev() {
		return DevJWTSecret
	}
	return c.Token.Secret
}

func (c *mainConfig) UsingDevSecret() bool {
	return c.GetJWTSecret() == DevJWTSecret
}
