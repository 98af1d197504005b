package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "STORAGE", "STORE_TIMEOUT", "CLAP_RATE_PER_MINUTE", "NOTIFICATION_RETENTION"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, StoragePostgres, cfg.Storage)
	assert.Equal(t, 5*time.Second, cfg.StoreTimeout)
	assert.Equal(t, 30*24*time.Hour, cfg.NotificationRetention)
	assert.Equal(t, 120, cfg.ClapRatePerMinute)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORAGE", StorageMemory)
	t.Setenv("STORE_TIMEOUT", "250ms")
	t.Setenv("NOTIFICATION_SWEEP_INTERVAL", "not-a-duration")
	t.Setenv("CLAP_RATE_BURST", "-3")

	cfg := Load()
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 250*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, time.Hour, cfg.NotificationSweepInterval)
	assert.Equal(t, 50, cfg.ClapRateBurst)
}

func TestJWTSecretDefaultsOnlyInDevelopment(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("AUTH_PROVIDER", "")

	t.Setenv("ENV", "")
	cfg := Load()
	assert.True(t, cfg.UsesDevJWTSecret())
	assert.NoError(t, cfg.Validate())

	t.Setenv("ENV", "production")
	cfg = Load()
	assert.Empty(t, cfg.JWTSecret)
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET must be set")

	t.Setenv("JWT_SECRET", "rotated")
	cfg = Load()
	assert.False(t, cfg.UsesDevJWTSecret())
	assert.NoError(t, cfg.Validate())
}

func TestValidateAuthProvider(t *testing.T) {
	cfg := &Config{AuthProvider: AuthFirebase}
	assert.ErrorContains(t, cfg.Validate(), "FIREBASE_CREDENTIALS_PATH")

	cfg.FirebaseCredentialsPath = "creds.json"
	assert.NoError(t, cfg.Validate())

	cfg.AuthProvider = "saml"
	assert.ErrorContains(t, cfg.Validate(), "unknown AUTH_PROVIDER")
}
