package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestConfig() *Config {
	config := DefaultConfig()
	config.Cloud.Email = "ops@example.com"
	config.Cloud.Password = "hunter2"
	return config
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "capto.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "https://us.cloud.avigilon.com/unity/", config.Cloud.LoginURL)
	assert.Equal(t, "ingress.cluster", config.Cloud.IngressPattern)
	assert.Equal(t, []string{"#/healthMonitor", "#/servers"}, config.Cloud.FallbackRoutes)
	assert.Equal(t, Duration(24*time.Hour), config.Refresh.SuccessInterval)
	assert.Equal(t, Duration(5*time.Minute), config.Refresh.RetryInterval)
	assert.True(t, config.Browser.Headless)
}

func TestLoadFromFilesOverridesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
[server]
port = 9090

[cloud]
email = "file@example.com"
password = "from-file"

[refresh]
success_interval = "1h"
retry_interval = "30s"
`)

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "file@example.com", config.Cloud.Email)
	assert.Equal(t, Duration(time.Hour), config.Refresh.SuccessInterval)
	assert.Equal(t, Duration(30*time.Second), config.Refresh.RetryInterval)
	// Untouched sections keep their defaults.
	assert.Equal(t, "ingress.cluster", config.Cloud.IngressPattern)
}

func TestLoadFromFilesParsesDurationStrings(t *testing.T) {
	path := writeConfigFile(t, `
[backend]
timeout = "45s"

[browser]
nav_timeout = "90s"
settle_delay = "500ms"
bootstrap_wait = "20s"
route_timeout = "1m"
`)

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, Duration(45*time.Second), config.Backend.Timeout)
	assert.Equal(t, Duration(90*time.Second), config.Browser.NavTimeout)
	assert.Equal(t, Duration(500*time.Millisecond), config.Browser.SettleDelay)
	assert.Equal(t, Duration(20*time.Second), config.Browser.BootstrapWait)
	assert.Equal(t, Duration(time.Minute), config.Browser.RouteTimeout)
}

func TestLoadFromFilesRejectsMalformedDuration(t *testing.T) {
	path := writeConfigFile(t, `
[refresh]
success_interval = "one day"
`)

	_, err := LoadFromFiles(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadFromFilesMissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "nope.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadFromFilesMalformedTOML(t *testing.T) {
	path := writeConfigFile(t, "[server\nport=")
	_, err := LoadFromFiles(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestEnvOverridesBeatFileValues(t *testing.T) {
	path := writeConfigFile(t, `
[cloud]
email = "file@example.com"
password = "from-file"
`)

	t.Setenv("CAPTO_CLOUD_EMAIL", "env@example.com")
	t.Setenv("CAPTO_BACKEND_URL", "http://backend.internal:3001")
	t.Setenv("CAPTO_SUCCESS_INTERVAL", "6h")
	t.Setenv("CAPTO_TRIGGER_PORT", "7777")

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, "env@example.com", config.Cloud.Email)
	assert.Equal(t, "from-file", config.Cloud.Password)
	assert.Equal(t, "http://backend.internal:3001", config.Backend.URL)
	assert.Equal(t, Duration(6*time.Hour), config.Refresh.SuccessInterval)
	assert.Equal(t, 7777, config.Server.Port)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := DefaultConfig()
	ApplyFlagOverrides(config, 9999, "127.0.0.1")
	assert.Equal(t, 9999, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Host)

	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 9999, config.Server.Port)
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	assert.NoError(t, validTestConfig().Validate())
}

func TestValidateRequiresCredentials(t *testing.T) {
	config := DefaultConfig()
	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Email")
}

func TestValidateRejectsRetryNotShorterThanSuccess(t *testing.T) {
	config := validTestConfig()
	config.Refresh.SuccessInterval = Duration(5 * time.Minute)
	config.Refresh.RetryInterval = Duration(5 * time.Minute)

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "retry_interval")
}

func TestValidateRejectsBadCronSchedule(t *testing.T) {
	config := validTestConfig()
	config.Refresh.Schedule = "not a cron spec"

	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refresh schedule")
}

func TestValidateRejectsBadLoginURL(t *testing.T) {
	config := validTestConfig()
	config.Cloud.LoginURL = "not-a-url"
	assert.Error(t, config.Validate())
}
