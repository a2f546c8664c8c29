package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/book-expert/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eduforge/assetgen/internal/config"
)

const (
	testAPIKeyEnvName = "ASSETGEN_TEST_API_KEY"
	testLogFileName   = "app.log"
)

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()

	log, err := logger.New(t.TempDir(), "config_test.log")
	require.NoError(t, err)

	return log
}

// createTempConfigFile creates a temporary TOML config file and returns its path.
func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), "config.*.toml")
	require.NoError(t, err)

	_, err = tmpFile.WriteString(content)
	require.NoError(t, err)

	err = tmpFile.Close()
	require.NoError(t, err)

	return tmpFile.Name()
}

func TestLoad_Success(t *testing.T) {
	t.Parallel()

	log := newTestLogger(t)

	validConfigContent := `
[service]
log_dir = "/tmp/assetgen/logs"
output_dir = "/tmp/assetgen/out"

[gemini]
api_key_variable = "` + testAPIKeyEnvName + `"
text_model = "gemini-2.5-flash"
image_model = "imagen-4.0-generate-001"
audio_model = "gemini-2.5-flash-preview-tts"
max_attempts = 5
timeout_seconds = 90

[media]
style_profile = "storybook"
voice = "Leda"

[bank]
database_path = "/tmp/assetgen/questions.db"
`
	configPath := createTempConfigFile(t, validConfigContent)

	cfg, loadErr := config.Load(configPath, log)

	require.NoError(t, loadErr)
	require.NotNil(t, cfg)
	assert.Equal(t, testAPIKeyEnvName, cfg.Gemini.APIKeyEnvironmentVariable)
	assert.Equal(t, "gemini-2.5-flash", cfg.Gemini.TextModel)
	assert.Equal(t, 5, cfg.Gemini.MaxAttempts)
	assert.Equal(t, "storybook", cfg.Media.StyleProfile)
	assert.Equal(t, "/tmp/assetgen/questions.db", cfg.Bank.DatabasePath)
}

func TestLoad_FileMissing(t *testing.T) {
	t.Parallel()

	log := newTestLogger(t)

	cfg, loadErr := config.Load(filepath.Join(t.TempDir(), "missing.toml"), log)

	require.Error(t, loadErr)
	assert.Nil(t, cfg)
}

func TestLoad_MalformedTOML(t *testing.T) {
	t.Parallel()

	log := newTestLogger(t)
	configPath := createTempConfigFile(t, "[service\nlog_dir = broken")

	cfg, loadErr := config.Load(configPath, log)

	require.Error(t, loadErr)
	assert.Nil(t, cfg)
}

func TestGetAPIKey_Success(t *testing.T) {
	apiKeySecretValue := "test-key-12345"
	t.Setenv(testAPIKeyEnvName, apiKeySecretValue)

	cfg := &config.Config{
		Gemini: config.GeminiSettings{APIKeyEnvironmentVariable: testAPIKeyEnvName},
	}

	assert.Equal(t, apiKeySecretValue, cfg.GetAPIKey())
}

func TestGetAPIKey_NotSet(t *testing.T) {
	t.Setenv(testAPIKeyEnvName, "")

	cfg := &config.Config{
		Gemini: config.GeminiSettings{APIKeyEnvironmentVariable: testAPIKeyEnvName},
	}

	assert.Empty(t, cfg.GetAPIKey())
}

func TestGetLogFilePath(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Service: config.ServiceSettings{LogDir: "/var/log/assetgen"},
	}

	assert.Equal(t, filepath.Join("/var/log/assetgen", testLogFileName), cfg.GetLogFilePath(testLogFileName))
}

func TestGetDatabasePath_DefaultsToOutputDir(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Service: config.ServiceSettings{OutputDir: "/data/out"},
	}

	assert.Equal(t, filepath.Join("/data/out", "questions.db"), cfg.GetDatabasePath())

	cfg.Bank.DatabasePath = "/data/bank.db"
	assert.Equal(t, "/data/bank.db", cfg.GetDatabasePath())
}
