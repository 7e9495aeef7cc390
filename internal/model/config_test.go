package model

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfig_ReadsTOML(t *testing.T) {
	path := writeFile(t, t.TempDir(), "seqmail.toml", `
[jmap]
hostname = "api.example.com"
token = "jmap-secret"

[todoist]
key = "todo-secret"

[browser]
name = "Safari"

[web]
base_url = "https://mail.example.com/mail/"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "api.example.com", cfg.JMAP.Hostname)
	assert.Equal(t, "jmap-secret", cfg.JMAP.Token)
	assert.Equal(t, "todo-secret", cfg.Todoist.Key)
	assert.Equal(t, "Safari", cfg.Browser.Name)
	assert.Equal(t, "https://mail.example.com/mail", cfg.Web.BaseURL)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Validate())
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultWebBaseURL, cfg.Web.BaseURL)
	assert.NotEmpty(t, cfg.Log.File)
	assert.ElementsMatch(t,
		[]string{"jmap.hostname", "jmap.token", "todoist.key"},
		cfg.Validate(),
	)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeFile(t, t.TempDir(), "seqmail.toml", `
[jmap]
hostname = "api.example.com"
token = "from-file"
`)
	t.Setenv("SEQMAIL_JMAP_TOKEN", "from-env")
	t.Setenv("SEQMAIL_TODOIST_KEY", "todo-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JMAP.Token)
	assert.Equal(t, "todo-env", cfg.Todoist.Key)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "seqmail.toml", "[jmap\nhostname = ")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestWriteConfigTemplate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "seqmail.toml")

	created, err := WriteConfigTemplate(path)
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, ConfigTemplate, string(data))

	created, err = WriteConfigTemplate(path)
	require.NoError(t, err)
	assert.False(t, created, "existing file must not be overwritten")
}

func TestDefaultConfigPath_HonoursXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/seqmail.toml", DefaultConfigPath())
}
