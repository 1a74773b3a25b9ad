// Package config handles the XDG configuration directory, the optional
// config.toml file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	// AppName is the application directory name.
	AppName = "taskmcp"

	// ConfigFile is the optional TOML settings filename.
	ConfigFile = "config.toml"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"
)

// Transports accepted by Server.Transport.
const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

// Defaults.
const (
	DefaultServerName = "task-mcp-server"
	DefaultAddr       = ":8080"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultGoogleList = "taskmcp"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string `toml:"-"`

	// Debug enables debug logging.
	Debug bool `toml:"-"`

	// Quiet suppresses informational output.
	Quiet bool `toml:"-"`

	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`
	Google GoogleConfig `toml:"google"`
}

// ServerConfig configures the tool hosts.
type ServerConfig struct {
	// Name is the MCP server name reported to clients.
	Name string `toml:"name"`
	// Transport is "stdio" or "http".
	Transport string `toml:"transport"`
	// Addr is the HTTP listen address.
	Addr string `toml:"addr"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `toml:"level"`  // debug, info, warn, error
	Format string `toml:"format"` // text or json
}

// GoogleConfig configures the optional Google Tasks export tool.
type GoogleConfig struct {
	Export bool   `toml:"export"`
	List   string `toml:"list"`
}

// New creates a Config for the default or specified config directory,
// applying config.toml (if present) and environment overrides.
// If configDir is empty, uses XDG_CONFIG_HOME/taskmcp or $HOME/.config/taskmcp.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}

	cfg := Default()
	cfg.Dir = dir

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}
	cfg.loadEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns a Config holding default settings and no directory.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Name:      DefaultServerName,
			Transport: TransportStdio,
			Addr:      DefaultAddr,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Google: GoogleConfig{
			List: DefaultGoogleList,
		},
	}
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// loadFile decodes config.toml over the current settings. A missing file is not an error.
func (c *Config) loadFile() error {
	path := c.FilePath()
	if _, err := toml.DecodeFile(path, c); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// loadEnv overrides settings from TASKMCP_* environment variables.
func (c *Config) loadEnv() {
	if v := os.Getenv("TASKMCP_TRANSPORT"); v != "" {
		c.Server.Transport = v
	}
	if v := os.Getenv("TASKMCP_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("TASKMCP_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("TASKMCP_GOOGLE_LIST"); v != "" {
		c.Google.List = v
	}
	if v := os.Getenv("TASKMCP_GOOGLE_EXPORT"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Google.Export = b
		}
	}
}

// Validate checks settings that have a closed set of values.
func (c *Config) Validate() error {
	c.Server.Transport = strings.ToLower(strings.TrimSpace(c.Server.Transport))
	switch c.Server.Transport {
	case TransportStdio, TransportHTTP:
	default:
		return fmt.Errorf("invalid transport %q, must be one of: stdio, http", c.Server.Transport)
	}

	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q, must be one of: text, json", c.Log.Format)
	}
	return nil
}

// FilePath returns the path to config.toml.
func (c *Config) FilePath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}

// HasToken checks if the token file exists.
func (c *Config) HasToken() bool {
	_, err := os.Stat(c.TokenPath())
	return err == nil
}

// RemoveToken deletes the token file.
func (c *Config) RemoveToken() error {
	return os.Remove(c.TokenPath())
}
