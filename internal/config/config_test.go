package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "loopback", cfg.Server.Bind)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "INBOX", cfg.Mailbox.Folder)
	assert.Equal(t, 993, cfg.Mailbox.Port)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.Equal(t, "web_user", cfg.Voice.ClientIdentity)
	assert.Equal(t, 60, cfg.Voice.TokenTTLMinutes)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestLoadParsesYAML(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 8080
  bind: lan
sms:
  fromNumber: "+19016574402"
  accountSid: AC123
mailbox:
  username: inbox@example.com
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "lan", cfg.Server.Bind)
	assert.Equal(t, "+19016574402", cfg.SMS.FromNumber)
	assert.Equal(t, "AC123", cfg.SMS.AccountSID)
	assert.Equal(t, "inbox@example.com", cfg.Mailbox.Username)
	// Unset fields still get defaults.
	assert.Equal(t, "INBOX", cfg.Mailbox.Folder)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a map")
	_, err := Load(path)
	require.Error(t, err)
	var cfgErr *ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestExpandSensitiveFields(t *testing.T) {
	t.Setenv("TEST_SMS_TOKEN", "secret-token")
	path := writeConfig(t, `
sms:
  authToken: ${TEST_SMS_TOKEN}
smtp:
  password: ${UNSET_VARIABLE_XYZ}
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "secret-token", cfg.SMS.AuthToken)
	// Unset variables are left as-is.
	assert.Equal(t, "${UNSET_VARIABLE_XYZ}", cfg.SMTP.Password)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SWITCHBOARD_PORT", "9999")
	t.Setenv("TWILIO_PHONE_NUMBER", "+15550001111")
	path := writeConfig(t, "server:\n  port: 8080\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "+15550001111", cfg.SMS.FromNumber)
}

func TestEnvDoesNotOverrideExplicitCredential(t *testing.T) {
	t.Setenv("ACCOUNT_SID", "AC-env")
	path := writeConfig(t, "sms:\n  accountSid: AC-file\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "AC-file", cfg.SMS.AccountSID)
}

func TestValidateOK(t *testing.T) {
	cfg := Defaults()
	assert.Empty(t, Validate(&cfg))
}

func TestValidateIssues(t *testing.T) {
	cfg := Defaults()
	cfg.Server.Port = 70000
	cfg.Server.Bind = "space"
	cfg.SMS.FromNumber = "19016574402"
	cfg.Logging.Level = "loud"
	cfg.Voice.TokenTTLMinutes = -5

	issues := Validate(&cfg)
	require.Len(t, issues, 5)

	paths := make([]string, len(issues))
	for i, issue := range issues {
		paths[i] = issue.Path
	}
	assert.Contains(t, paths, "server.port")
	assert.Contains(t, paths, "server.bind")
	assert.Contains(t, paths, "sms.fromNumber")
	assert.Contains(t, paths, "logging.level")
	assert.Contains(t, paths, "voice.tokenTtlMinutes")
}

func TestValidateTLSRequiresPaths(t *testing.T) {
	cfg := Defaults()
	cfg.Server.TLS.Enabled = true
	issues := Validate(&cfg)
	require.Len(t, issues, 1)
	assert.Equal(t, "server.tls", issues[0].Path)
}
