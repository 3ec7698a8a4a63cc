package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend names accepted by credential_backend.
const (
	BackendAuto     = "auto"
	BackendKeychain = "keychain"
	BackendFile     = "file"
	BackendKeyring  = "keyring"
)

// BaseDirEnv overrides the default base directory.
const BaseDirEnv = "CCSWITCH_HOME"

// Config holds user configuration loaded from ~/.claude-switch-backup/config.yaml.
type Config struct {
	CredentialBackend string `yaml:"credential_backend"`
	HostHome          string `yaml:"host_home"`
	SecurityPath      string `yaml:"security_path"`
	LogLevel          string `yaml:"log_level"`
	Audit             *bool  `yaml:"audit"`
}

// DefaultBaseDir returns the base directory: $CCSWITCH_HOME if set,
// otherwise ~/.claude-switch-backup.
func DefaultBaseDir() (string, error) {
	if dir := os.Getenv(BaseDirEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home dir: %w", err)
	}
	return filepath.Join(home, ".claude-switch-backup"), nil
}

// DefaultPath returns the config file path inside baseDir.
func DefaultPath(baseDir string) string {
	return filepath.Join(baseDir, "config.yaml")
}

// Load reads a YAML config file from path. If the file does not exist,
// it returns an empty Config and no error. An empty or all-comment file
// also returns an empty Config with no error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects unknown backend and log level names.
func (c *Config) Validate() error {
	switch c.Backend() {
	case BackendAuto, BackendKeychain, BackendFile, BackendKeyring:
	default:
		return fmt.Errorf("unknown credential_backend %q", c.CredentialBackend)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// Backend returns the configured backend, defaulting to auto.
func (c *Config) Backend() string {
	if c.CredentialBackend == "" {
		return BackendAuto
	}
	return strings.ToLower(c.CredentialBackend)
}

// SecurityBinary returns the keychain utility to execute.
func (c *Config) SecurityBinary() string {
	if c.SecurityPath == "" {
		return "security"
	}
	return c.SecurityPath
}

// AuditEnabled reports whether the audit log should be written. Defaults to true.
func (c *Config) AuditEnabled() bool {
	return c.Audit == nil || *c.Audit
}

// Level returns the slog level for log_level. Unset means info.
func (c *Config) Level() slog.Level {
	lvl, _ := parseLevel(c.LogLevel)
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", s)
}
