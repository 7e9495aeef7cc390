package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultWebBaseURL is the Fastmail web client root used to build links to
// individual messages.
const DefaultWebBaseURL = "https://www.fastmail.com/mail"

// JMAPConfig holds the mail service connection settings.
type JMAPConfig struct {
	// Hostname is the JMAP server host; the session resource is discovered
	// at https://<hostname>/.well-known/jmap.
	Hostname string `mapstructure:"hostname"`

	// Token is the bearer API token.
	Token string `mapstructure:"token"`
}

// TodoistConfig holds the task service settings.
type TodoistConfig struct {
	Key string `mapstructure:"key"`
}

// BrowserConfig selects the browser used for unsubscribe and open links.
type BrowserConfig struct {
	// Name is an application name (macOS) or executable. Empty means the
	// platform default.
	Name string `mapstructure:"name"`
}

// WebConfig controls how links to the web client are built.
type WebConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// LogConfig controls the file logger.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	JMAP    JMAPConfig    `mapstructure:"jmap"`
	Todoist TodoistConfig `mapstructure:"todoist"`
	Browser BrowserConfig `mapstructure:"browser"`
	Web     WebConfig     `mapstructure:"web"`
	Log     LogConfig     `mapstructure:"log"`
}

// ConfigTemplate is written by `seqmail setup` when no config exists yet.
const ConfigTemplate = `[jmap]
hostname = "api.fastmail.com"
token = ""

[todoist]
key = ""

[browser]
# Leave empty for the system default browser.
name = ""

[web]
base_url = "https://www.fastmail.com/mail"

[log]
file = ""
level = "info"
`

// configHome returns $XDG_CONFIG_HOME, falling back to ~/.config.
func configHome() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config")
}

// stateHome returns $XDG_STATE_HOME, falling back to ~/.local/state.
func stateHome() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "state")
}

// DefaultConfigPath returns the default location of the settings file,
// $XDG_CONFIG_HOME/seqmail.toml.
func DefaultConfigPath() string {
	return filepath.Join(configHome(), "seqmail.toml")
}

// DefaultLogPath returns $XDG_STATE_HOME/seqmail/seqmail.log.
func DefaultLogPath() string {
	return filepath.Join(stateHome(), "seqmail", "seqmail.log")
}

// LoadConfig reads the TOML settings file at path using Viper. Every key
// can be overridden by an environment variable with the SEQMAIL_ prefix,
// e.g. SEQMAIL_JMAP_TOKEN. A missing file is not an error; callers
// validate the result with Validate once credentials are resolved.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	v.SetEnvPrefix("seqmail")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults also register the keys so AutomaticEnv picks them up
	// during Unmarshal.
	v.SetDefault("jmap.hostname", "")
	v.SetDefault("jmap.token", "")
	v.SetDefault("todoist.key", "")
	v.SetDefault("browser.name", "")
	v.SetDefault("web.base_url", DefaultWebBaseURL)
	v.SetDefault("log.file", DefaultLogPath())
	v.SetDefault("log.level", "info")

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.JMAP.Hostname = strings.TrimSpace(cfg.JMAP.Hostname)
	cfg.Web.BaseURL = strings.TrimRight(cfg.Web.BaseURL, "/")
	if cfg.Web.BaseURL == "" {
		cfg.Web.BaseURL = DefaultWebBaseURL
	}
	if cfg.Log.File == "" {
		cfg.Log.File = DefaultLogPath()
	}

	return cfg, nil
}

// Validate returns the names of required settings that are still empty.
func (c *AppConfig) Validate() []string {
	var missing []string
	if c.JMAP.Hostname == "" {
		missing = append(missing, "jmap.hostname")
	}
	if c.JMAP.Token == "" {
		missing = append(missing, "jmap.token")
	}
	if c.Todoist.Key == "" {
		missing = append(missing, "todoist.key")
	}
	return missing
}

// WriteConfigTemplate writes ConfigTemplate to path unless a file already
// exists there, creating parent directories if needed.
func WriteConfigTemplate(path string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	if err := os.WriteFile(path, []byte(ConfigTemplate), 0o600); err != nil {
		return false, fmt.Errorf("writing config to %s: %w", path, err)
	}

	return true, nil
}
