package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/post-scheduler/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNewFromMap_Defaults(t *testing.T) {
	c, err := config.NewFromMap(map[string]string{})
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	require.Equal(t, ":3000", c.GetPort())
	require.Equal(t, "DEV", c.GetEnv())
	require.True(t, c.IsDev())
	require.Equal(t, config.StoreMemory, c.GetStore())
	require.Equal(t, "debug", c.GetLogLevel())
	require.Equal(t, 10, c.GetBcryptCost())
	require.Equal(t, 6, c.GetMinPasswordLength())
	require.Equal(t, 7*24*time.Hour, c.GetTokenExpiry())
	require.False(t, c.GetEnableRateLimiting())
	require.Equal(t, "http://localhost:5173", c.GetDefaultOrigin())
}

func TestJWTSecret(t *testing.T) {
	t.Run("dev falls back to the insecure secret", func(t *testing.T) {
		c, err := config.NewFromMap(map[string]string{})
		require.NoError(t, err)
		require.Equal(t, config.DevJWTSecret, c.GetJWTSecret())
		require.True(t, c.UsingDevSecret())
	})

	t.Run("explicit secret wins in dev", func(t *testing.T) {
		c, err := config.NewFromMap(map[string]string{"JWT_SECRET": "s3cr3t"})
		require.NoError(t, err)
		require.Equal(t, "s3cr3t", c.GetJWTSecret())
		require.False(t, c.UsingDevSecret())
	})

	t.Run("production without secret fails validation", func(t *testing.T) {
		c, err := config.NewFromMap(map[string]string{"ENV": "prod"})
		require.NoError(t, err)
		require.Empty(t, c.GetJWTSecret())
		err = c.Validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "JWT_SECRET")
	})

	t.Run("production with secret validates", func(t *testing.T) {
		c, err := config.NewFromMap(map[string]string{"ENV": "prod", "JWT_SECRET": "s3cr3t"})
		require.NoError(t, err)
		require.NoError(t, c.Validate())
		require.Equal(t, "info", c.GetLogLevel())
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		wantErr string
	}{
		{name: "cost too low", vars: map[string]string{"BCRYPT_COST": "3"}, wantErr: "BCRYPT_COST"},
		{name: "cost too high", vars: map[string]string{"BCRYPT_COST": "15"}, wantErr: "BCRYPT_COST"},
		{name: "unknown store", vars: map[string]string{"STORE": "redis"}, wantErr: "STORE"},
		{name: "sqlite store", vars: map[string]string{"STORE": "SQLite"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := config.NewFromMap(tt.vars)
			require.NoError(t, err)
			err = c.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestPortPrefix(t *testing.T) {
	c, err := config.NewFromMap(map[string]string{"PORT": ":8080"})
	require.NoError(t, err)
	require.Equal(t, ":8080", c.GetPort())
}

func TestAllowedOrigins(t *testing.T) {
	c, err := config.NewFromMap(map[string]string{})
	require.NoError(t, err)
	require.True(t, c.GetAllowedOrigins().IsAllowedOrigin("http://anything.test"))

	c, err = config.NewFromMap(map[string]string{"ALLOWED_ORIGINS": "http://a.test, http://b.test"})
	require.NoError(t, err)
	origins := c.GetAllowedOrigins()
	require.True(t, origins.IsAllowedOrigin("http://a.test"))
	require.True(t, origins.IsAllowedOrigin("http://b.test"))
	require.False(t, origins.IsAllowedOrigin("http://c.test"))
}
