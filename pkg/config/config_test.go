package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, Init(filepath.Join(dir, "config.toml")))
	return dir
}

func TestInitWithCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	customConfigPath := filepath.Join(tempDir, "custom", "path", "config.toml")

	require.NoError(t, Init(customConfigPath))

	assert.Equal(t, filepath.Join(tempDir, "custom", "path"), GetConfigDir())
	assert.Equal(t, customConfigPath, GetConfigFilePath())

	info, err := os.Stat(GetConfigDir())
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestDefaults(t *testing.T) {
	initTemp(t)

	assert.Equal(t, "http://localhost:8081/api", GetString("api.base_url"))
	assert.Equal(t, 30, GetInt("api.timeout"))
	assert.Equal(t, "text", GetString("output.format"))
	assert.Equal(t, "info", GetString("log.level"))
	assert.Equal(t, 10, GetInt("log.max_size_mb"))
	assert.Equal(t, 3, GetInt("log.max_backups"))
	assert.False(t, GetBool("some.bool.key"))
}

func TestDerivedPathsUnderConfigDir(t *testing.T) {
	dir := initTemp(t)

	assert.Equal(t, filepath.Join(dir, "credentials"), GetCredentialsPath())
	assert.Equal(t, filepath.Join(dir, "notifications.json"), GetNotificationsPath())
	assert.Equal(t, filepath.Join(dir, "skillshare-cli.log"), GetString("log.file"))
}

func TestUserConfigOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := "[api]\nbase_url = \"https://skills.example.com/api\"\ntimeout = 5\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0600))

	require.NoError(t, Init(path))

	assert.Equal(t, "https://skills.example.com/api", GetString("api.base_url"))
	assert.Equal(t, 5, GetInt("api.timeout"))
	assert.Equal(t, "text", GetString("output.format"))
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("SKILLSHARE_API_BASE_URL", "http://env.example.com/api")
	initTemp(t)

	assert.Equal(t, "http://env.example.com/api", GetString("api.base_url"))
}

func TestSetStringPersists(t *testing.T) {
	dir := initTemp(t)

	require.NoError(t, SetString("output.format", "json"))

	require.NoError(t, Init(filepath.Join(dir, "config.toml")))
	assert.Equal(t, "json", GetString("output.format"))
}

func TestMultipleInitCalls(t *testing.T) {
	tempDir := t.TempDir()

	require.NoError(t, Init(filepath.Join(tempDir, "config1", "config.toml")))
	firstDir := GetConfigDir()

	require.NoError(t, Init(filepath.Join(tempDir, "config2", "config.toml")))
	assert.NotEqual(t, firstDir, GetConfigDir())
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, "logs"), expandPath("~/logs"))
	assert.Equal(t, "/var/log/x", expandPath("/var/log/x"))
	assert.Equal(t, "", expandPath(""))
}
