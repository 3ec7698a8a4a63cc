package credential

import (
	"github.com/benaskins/ccswitch/internal/config"
	"github.com/benaskins/ccswitch/internal/platform"
)

// New returns the store for backend.
func New(backend platform.Backend, paths config.Paths, cfg *config.Config) Store {
	if cfg == nil {
		cfg = &config.Config{}
	}
	switch backend {
	case platform.Keychain:
		return NewKeychainStore(cfg.SecurityBinary())
	case platform.Keyring:
		return NewKeyringStore(NewFileStore(paths))
	}
	return NewFileStore(paths)
}
