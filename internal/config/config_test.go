package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("ENV", "local")
	t.Setenv("DB_SERVER", "127.0.0.1:3306")
	t.Setenv("DB_NAME", "rubbishit")
	t.Setenv("DB_USER", "rubbishit")
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("SESSION_SECRET", strings.Repeat("k", 32))
	t.Setenv("SMTP_FROM", "noreply@rubbishit.org")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.HttpServer.Port)
	assert.Equal(t, 10*time.Minute, cfg.Auth.CodeTTL)
	assert.Equal(t, time.Hour, cfg.Auth.RateWindow)
	assert.Equal(t, 3, cfg.Auth.MaxCodes)
	assert.Equal(t, DeliveryModeSync, cfg.Email.DeliveryMode)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.True(t, cfg.SMTP.UseTLS)
	assert.Equal(t, "UTC", cfg.Database.TimeZone)
}

func TestLoad_EnvFile(t *testing.T) {
	setRequiredEnv(t)
	os.Unsetenv("SMTP_PORT")
	t.Cleanup(func() { os.Unsetenv("SMTP_PORT") })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("SMTP_PORT=465\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 465, cfg.SMTP.Port)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	setRequiredEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.NoError(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "unknown delivery mode", mutate: func(c *Config) { c.Email.DeliveryMode = "pigeon" }, wantErr: true},
		{name: "missing from", mutate: func(c *Config) { c.SMTP.FromAddr = "" }, wantErr: true},
		{name: "log mode without from", mutate: func(c *Config) {
			c.Email.DeliveryMode = DeliveryModeLog
			c.SMTP.FromAddr = ""
		}},
		{name: "short secret", mutate: func(c *Config) { c.Session.Secret = "short" }, wantErr: true},
		{name: "zero max codes", mutate: func(c *Config) { c.Auth.MaxCodes = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Auth:    AuthConfig{MaxCodes: 3},
				Session: SessionConfig{Secret: strings.Repeat("k", 32)},
				SMTP:    SMTPConfig{FromAddr: "noreply@rubbishit.org"},
				Email:   EmailConfig{DeliveryMode: DeliveryModeSync},
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
