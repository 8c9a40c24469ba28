package config_test

import (
	"testing"
	"time"

	"tokostore/internal/config"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	config.SetDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := config.FromViper(newViper(nil))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.NotEmpty(t, cfg.Auth.JWTSecret, "development gets a fallback secret")
	assert.True(t, cfg.IsDevelopment())
	assert.Empty(t, cfg.RabbitMQ.URL)
}

func TestFromViper_ProductionRequiresSecret(t *testing.T) {
	_, err := config.FromViper(newViper(map[string]any{"APP_ENV": "production"}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg, err := config.FromViper(newViper(map[string]any{"APP_ENV": "production", "JWT_SECRET": "s3cret"}))
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.False(t, cfg.IsDevelopment())
}

func TestFromViper_RejectsBadValues(t *testing.T) {
	_, err := config.FromViper(newViper(map[string]any{"DB_DRIVER": "oracle"}))
	assert.Error(t, err)

	_, err = config.FromViper(newViper(map[string]any{"TOKEN_TTL": "0s"}))
	assert.Error(t, err)

	_, err = config.FromViper(newViper(map[string]any{"ADMIN_USERNAME": "root"}))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADMIN_PASSWORD")
}
