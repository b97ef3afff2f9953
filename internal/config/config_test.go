package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKeys = []string{
	"CONFIG_FILE", "CACHE_API_URL", "VITE_CACHE_API_URL", "API_URL", "VITE_API_URL",
	"APP_URL", "VITE_APP_URL", "HTTP_ADDR", "HTTP_TIMEOUT", "TIMEZONE", "TELEGRAM_BOT_TOKEN",
	"GOOGLE_SHEETS_SPREADSHEET_ID", "GOOGLE_SERVICE_ACCOUNT_JSON", "EXPORT_SECRET",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range allKeys {
		t.Setenv(k, "")
	}
}

func TestFromEnvDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_API_URL", "https://cache.example.com/")
	t.Setenv("VITE_API_URL", "https://api.example.com")

	c, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://cache.example.com", c.CacheAPIURL)
	assert.Equal(t, "https://api.example.com", c.APIURL)
	assert.Equal(t, ":8080", c.HTTPAddr)
	assert.Equal(t, 15*time.Second, c.HTTPTimeout)
	assert.Equal(t, "America/Sao_Paulo", c.Location().String())
	assert.Equal(t, "change-me", c.ExportSecret)
	assert.False(t, c.BotEnabled())
	assert.False(t, c.SheetsEnabled())
}

func TestFromEnvRequiresURLs(t *testing.T) {
	clearEnv(t)
	_, err := FromEnv()
	require.ErrorContains(t, err, "CACHE_API_URL")

	t.Setenv("CACHE_API_URL", "https://cache.example.com")
	_, err = FromEnv()
	require.ErrorContains(t, err, "API_URL")
}

func TestFromEnvRejectsHalfSheetsConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_API_URL", "https://cache.example.com")
	t.Setenv("API_URL", "https://api.example.com")
	t.Setenv("GOOGLE_SHEETS_SPREADSHEET_ID", "sheet")

	_, err := FromEnv()
	require.Error(t, err)
}

func TestFromEnvBadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("CACHE_API_URL", "https://cache.example.com")
	t.Setenv("API_URL", "https://api.example.com")
	t.Setenv("HTTP_TIMEOUT", "soon")

	_, err := FromEnv()
	require.ErrorContains(t, err, "HTTP_TIMEOUT")
}

func TestFileOverlaidByEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "portal.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
cacheApiUrl = "https://cache.file"
apiUrl = "https://api.file"
httpAddr = ":9000"
httpTimeout = "3s"
timezone = "UTC"
`), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_ADDR", ":7000")

	c, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://cache.file", c.CacheAPIURL)
	assert.Equal(t, ":7000", c.HTTPAddr)
	assert.Equal(t, 3*time.Second, c.HTTPTimeout)
	assert.Equal(t, time.UTC, c.Location())
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.ErrorContains(t, err, "config file not found")
}
