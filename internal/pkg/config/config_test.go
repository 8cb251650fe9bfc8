package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseEnv() map[string]string {
	return map[string]string{
		"JWT_SECRET":     "s3cr3t",
		"S3_BUCKET":      "models",
		"CLOUDFRONT_URL": "d111.cloudfront.net",
	}
}

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(baseEnv()))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.False(t, cfg.Auth.CookieSecure)
	assert.Equal(t, 30, cfg.Auth.RatePerMinute)
	assert.Equal(t, uint32(65536), cfg.Auth.Argon2.Memory)
	assert.Equal(t, uint8(4), cfg.Auth.Argon2.Parallelism)
	assert.Equal(t, "privytune", cfg.Mongo.Database)
	assert.Equal(t, "us-east-1", cfg.S3.Region)
	assert.Equal(t, 5*time.Minute, cfg.CDN.CacheTTL)
	assert.Equal(t, 4, cfg.Worker.DownloadWorkers)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
}

func TestLoadWith_Overrides(t *testing.T) {
	env := baseEnv()
	env["TOKEN_TTL"] = "90m"
	env["COOKIE_SECURE"] = "true"
	env["ENV"] = "production"
	env["DOWNLOAD_WORKERS"] = "8"
	env["CORS_ALLOWED_ORIGINS"] = "https://app.privytune.dev,https://admin.privytune.dev"

	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
	require.NoError(t, err)

	assert.Equal(t, 90*time.Minute, cfg.Auth.TokenTTL)
	assert.True(t, cfg.Auth.CookieSecure)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 8, cfg.Worker.DownloadWorkers)
	assert.Equal(t, []string{"https://app.privytune.dev", "https://admin.privytune.dev"}, cfg.CORSAllowedOrigins)
}

func TestLoadWith_MissingSecret(t *testing.T) {
	env := baseEnv()
	delete(env, "JWT_SECRET")

	_, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
	assert.Error(t, err)
}

func TestLoadWith_InvalidValues(t *testing.T) {
	env := baseEnv()
	env["TOKEN_TTL"] = "-1h"
	delete(env, "CLOUDFRONT_URL")

	_, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TOKEN_TTL")
	assert.Contains(t, err.Error(), "CLOUDFRONT_URL")
}
