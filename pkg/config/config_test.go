package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Duration
		wantErr bool
	}{
		{in: "15m", want: 15 * time.Minute},
		{in: "1h", want: time.Hour},
		{in: "7d", want: 7 * 24 * time.Hour},
		{in: " 2d ", want: 48 * time.Hour},
		{in: "xd", wantErr: true},
		{in: "soon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseDuration(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"JWT_ACCESS_EXPIRES_IN", "JWT_REFRESH_EXPIRES_IN", "JWT_EMAIL_EXPIRES_IN", "JWT_PASSWORD_EXPIRES_IN", "ALLOWED_EMAILS", "GOOGLE_CLIENT_ID", "TRUST_PROXY"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, 15*time.Minute, cfg.Tokens.AccessTTL)
	assert.Equal(t, 7*24*time.Hour, cfg.Tokens.RefreshTTL)
	assert.Equal(t, time.Hour, cfg.Tokens.EmailTTL)
	assert.Equal(t, time.Hour, cfg.Tokens.PasswordTTL)
	assert.Empty(t, cfg.AllowedEmails)
	assert.False(t, cfg.GoogleEnabled())
	assert.False(t, cfg.TrustProxy)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_ACCESS_EXPIRES_IN", "30m")
	t.Setenv("JWT_REFRESH_EXPIRES_IN", "14d")
	t.Setenv("JWT_EMAIL_EXPIRES_IN", "not-a-duration")
	t.Setenv("ALLOWED_EMAILS", "a@example.com, b@example.com,,")
	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")
	t.Setenv("TRUST_PROXY", "true")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "s3cret", cfg.Tokens.AccessSecret)
	assert.Equal(t, 30*time.Minute, cfg.Tokens.AccessTTL)
	assert.Equal(t, 14*24*time.Hour, cfg.Tokens.RefreshTTL)
	assert.Equal(t, time.Hour, cfg.Tokens.EmailTTL)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, cfg.AllowedEmails)
	assert.True(t, cfg.GoogleEnabled())
	assert.True(t, cfg.TrustProxy)
}
