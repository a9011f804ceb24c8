package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5001, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "us-east-1", cfg.AWS.Region)
	assert.Equal(t, "bolna", cfg.AWS.RecordingBucket)
	assert.Equal(t, "bolna-runs", cfg.AWS.RunTable)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("BOLNA_SERVER_PORT", "6001")
	t.Setenv("BOLNA_TWILIO_ACCOUNT_SID", "AC42")
	t.Setenv("BOLNA_TWILIO_AUTH_TOKEN", "secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 6001, cfg.Server.Port)
	assert.Equal(t, "AC42", cfg.Twilio.AccountSID)
	assert.Equal(t, "secret", cfg.Twilio.AuthToken)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bolna.yaml")
	body := []byte("server:\n  port: 7001\ntwilio:\n  account_sid: ACfile\n  auth_token: tokenfile\npricing:\n  llm_input_per_token: 0.5\n")
	require.NoError(t, os.WriteFile(path, body, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7001, cfg.Server.Port)
	assert.Equal(t, "ACfile", cfg.Twilio.AccountSID)
	assert.InDelta(t, 0.5, cfg.Pricing.LLMInputPerToken, 1e-12)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Error(t, cfg.Validate(), "missing credentials must fail validation")

	cfg.Twilio.AccountSID = "AC42"
	cfg.Twilio.AuthToken = "secret"
	assert.NoError(t, cfg.Validate())

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}
