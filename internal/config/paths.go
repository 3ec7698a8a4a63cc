package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Paths is every filesystem location the tool touches. It is built once at
// startup and handed to each store.
type Paths struct {
	// BaseDir holds the ledger, backups, audit log and config file.
	BaseDir string
	// HostHome is the home directory the host application lives under.
	HostHome string
}

// NewPaths builds Paths for baseDir. cfg.HostHome overrides the user's home.
func NewPaths(baseDir string, cfg *Config) (Paths, error) {
	hostHome := ""
	if cfg != nil {
		hostHome = cfg.HostHome
	}
	if hostHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, fmt.Errorf("finding home dir: %w", err)
		}
		hostHome = home
	}
	return Paths{BaseDir: baseDir, HostHome: hostHome}, nil
}

// Ledger is the slot ledger file.
func (p Paths) Ledger() string { return filepath.Join(p.BaseDir, "sequence.json") }

// ConfigBackups holds one host config snapshot per slot.
func (p Paths) ConfigBackups() string { return filepath.Join(p.BaseDir, "configs") }

// CredentialBackups holds file-backed credential backups and the active token.
func (p Paths) CredentialBackups() string { return filepath.Join(p.BaseDir, "credentials") }

// AuditLog is the append-only audit trail.
func (p Paths) AuditLog() string { return filepath.Join(p.BaseDir, "audit.log") }

// ActiveTokenFile is the file-backed active-token location.
func (p Paths) ActiveTokenFile() string {
	return filepath.Join(p.CredentialBackups(), ".active-token")
}

// HostDir is the host application's own directory (~/.claude).
func (p Paths) HostDir() string { return filepath.Join(p.HostHome, ".claude") }

// HostCredentials is the host's live credentials file on non-keychain platforms.
func (p Paths) HostCredentials() string {
	return filepath.Join(p.HostDir(), ".credentials.json")
}

// HostConfigPrimary is preferred when it carries an account identity.
func (p Paths) HostConfigPrimary() string { return filepath.Join(p.HostDir(), ".claude.json") }

// HostConfigFallback is used otherwise.
func (p Paths) HostConfigFallback() string { return filepath.Join(p.HostHome, ".claude.json") }

// RCFile is the shell snippet that exports the active static token.
func (p Paths) RCFile() string { return filepath.Join(p.HostHome, ".ccswitchrc") }

// EnsureDirs creates the base directory tree with owner-only permissions.
func (p Paths) EnsureDirs() error {
	for _, dir := range []string{p.BaseDir, p.ConfigBackups(), p.CredentialBackups()} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		if err := os.Chmod(dir, 0700); err != nil {
			return fmt.Errorf("restricting %s: %w", dir, err)
		}
	}
	return nil
}
