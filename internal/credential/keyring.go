package credential

import (
	"errors"
	"fmt"
	"os"

	"github.com/zalando/go-keyring"

	"github.com/benaskins/ccswitch/internal/apperr"
)

// KeyringStore keeps backups and the active token in the desktop Secret
// Service. The host application only ever reads its credentials file, so the
// live credential is delegated to a file-backed store.
type KeyringStore struct {
	user string
	live Store
}

// NewKeyringStore creates a Secret Service store. live handles KindLive.
func NewKeyringStore(live Store) *KeyringStore {
	return &KeyringStore{user: os.Getenv("USER"), live: live}
}

func (s *KeyringStore) Read(svc Service) (string, error) {
	if svc.Kind == KindLive {
		return s.live.Read(svc)
	}
	name := ServiceName(svc)
	val, err := keyring.Get(name, s.user)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", notFound(svc)
		}
		return "", apperr.Wrap(apperr.KindIO, "keyring read", name, err)
	}
	return val, nil
}

func (s *KeyringStore) Write(svc Service, blob string) error {
	if svc.Kind == KindLive {
		return s.live.Write(svc, blob)
	}
	name := ServiceName(svc)
	if err := keyring.Set(name, s.user, blob); err != nil {
		return apperr.Wrap(apperr.KindIO, "keyring write", name, err)
	}
	return nil
}

func (s *KeyringStore) Delete(svc Service) error {
	if svc.Kind == KindLive {
		return s.live.Delete(svc)
	}
	name := ServiceName(svc)
	if err := keyring.Delete(name, s.user); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return apperr.Wrap(apperr.KindIO, "keyring delete", name, err)
	}
	return nil
}

// TokenExport is the shell expression that prints the active token.
func (s *KeyringStore) TokenExport() string {
	return fmt.Sprintf("secret-tool lookup service %q username %q 2>/dev/null", ActiveTokenServiceName, s.user)
}
