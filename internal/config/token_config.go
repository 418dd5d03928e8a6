package config

import "time"

const (
	jwtSecretEnvVar = "JWT_SECRET"

	// DevJWTSecret is the insecure signing secret used when JWT_SECRET is unset
	// in DEV. It must never sign tokens anywhere else.
	DevJWTSecret = "dev-secret-change-me"
)

type TokenConfig interface {
	GetJWTSecret() string
	UsingDevSecret() bool
	GetTokenExpiry() time.Duration
}

type Token struct {
	Secret string `env:"JWT_SECRET"`
}

func (Token) GetTokenExpiry() time.Duration {
	return 7 * 24 * time.Hour // 7 days
}
