package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable Load consults so the ambient test
// environment cannot leak into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "APP_ENV",
		"EMAIL_HOST", "EMAIL_PORT", "EMAIL_USER", "EMAIL_PASS", "EMAIL_FROM",
		"ADMIN_EMAIL", "EMAIL_INSECURE_SKIP_VERIFY",
		"FIREBASE_SERVICE_ACCOUNT_PATH", "FIREBASE_DATABASE_URL",
		"AUDIT_KAFKA_BROKERS", "AUDIT_KAFKA_TOPIC",
		"AUDIT_KAFKA_SASL_USER", "AUDIT_KAFKA_SASL_PASS",
	} {
		t.Setenv(key, "")
	}
	t.Setenv("NOTIFY_CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":5001", cfg.Server.ListenAddress)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.Production())
	assert.Equal(t, 465, cfg.Mail.Port)
	assert.Equal(t, 3, cfg.Mail.RetryCount)
	assert.Equal(t, 100, cfg.Mail.RetryBackoffMs)
	assert.Equal(t, 30, cfg.Mail.SendTimeoutSec)
	assert.Equal(t, "notification-deliveries", cfg.Audit.Topic)
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", "production")
	t.Setenv("EMAIL_HOST", "smtp.example.com")
	t.Setenv("EMAIL_PORT", "587")
	t.Setenv("EMAIL_USER", "mailer")
	t.Setenv("EMAIL_PASS", "secret")
	t.Setenv("EMAIL_FROM", "noreply@example.com")
	t.Setenv("ADMIN_EMAIL", "admin@example.com")
	t.Setenv("EMAIL_INSECURE_SKIP_VERIFY", "true")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_PATH", "/etc/secrets/sa.json")
	t.Setenv("AUDIT_KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.ListenAddress)
	assert.True(t, cfg.Production())
	assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, "mailer", cfg.Mail.User)
	assert.Equal(t, "secret", cfg.Mail.Password)
	assert.Equal(t, "noreply@example.com", cfg.Mail.From)
	assert.Equal(t, "admin@example.com", cfg.Mail.AdminAddress)
	assert.True(t, cfg.Mail.InsecureSkipVerify)
	assert.Equal(t, "/etc/secrets/sa.json", cfg.Identity.CredentialsFile)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Audit.Brokers)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAMLFileWithEnvWinning(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
mail:
  host: yaml-host
  port: 25
  adminAddress: yaml-admin@example.com
environment: staging
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("NOTIFY_CONFIG_PATH", path)
	t.Setenv("EMAIL_HOST", "env-host")

	cfg, err := Load()
	require.NoError(t, err)

	// Environment variables win over the YAML layer.
	assert.Equal(t, "env-host", cfg.Mail.Host)
	assert.Equal(t, 25, cfg.Mail.Port)
	assert.Equal(t, "yaml-admin@example.com", cfg.Mail.AdminAddress)
	assert.Equal(t, "staging", cfg.Environment)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("mail: ["), 0o600))
	t.Setenv("NOTIFY_CONFIG_PATH", path)

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateListsEveryMissingSetting(t *testing.T) {
	err := Config{}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "EMAIL_HOST")
	assert.Contains(t, err.Error(), "EMAIL_USER")
	assert.Contains(t, err.Error(), "EMAIL_PASS")
	assert.Contains(t, err.Error(), "FIREBASE_SERVICE_ACCOUNT_PATH")
	// Admin address gaps are reported per request, not at startup.
	assert.NotContains(t, err.Error(), "ADMIN_EMAIL")
}

func TestValidatePassesWithRequiredSettings(t *testing.T) {
	cfg := Config{}
	cfg.Mail.Host = "smtp.example.com"
	cfg.Mail.User = "mailer"
	cfg.Mail.Password = "secret"
	cfg.Identity.CredentialsFile = "/etc/secrets/sa.json"
	assert.NoError(t, cfg.Validate())
}
