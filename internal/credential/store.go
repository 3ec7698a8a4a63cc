// Package credential stores opaque credential blobs for the host
// application: the live credential the host reads, one backup per managed
// account, and the active static token exported to shells.
//
// Three backends exist:
//   - KeychainStore: macOS Keychain via security(1)
//   - FileStore: owner-only files (Linux, WSL)
//   - KeyringStore: desktop Secret Service, opt-in only
//
// All of them address secrets by Service and share the same naming, so a
// backup written by one invocation is found by the next.
package credential

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned when a secret does not exist in the store.
var ErrNotFound = errors.New("credential not found")

// Store is the capability every backend provides.
type Store interface {
	// Read returns the blob for svc or an error wrapping ErrNotFound.
	Read(svc Service) (string, error)
	// Write creates or overwrites the blob for svc.
	Write(svc Service, blob string) error
	// Delete removes svc. Deleting an absent secret succeeds.
	Delete(svc Service) error
}

// Kind is the role a secret plays.
type Kind int

const (
	KindLive Kind = iota
	KindBackup
	KindActiveToken
)

// Service identifies one secret. Only backups carry a slot and label.
type Service struct {
	Kind  Kind
	Slot  int
	Label string
}

// Live is the credential the host application is using right now.
func Live() Service { return Service{Kind: KindLive} }

// Backup is the saved credential for a managed account.
func Backup(slot int, label string) Service {
	return Service{Kind: KindBackup, Slot: slot, Label: label}
}

// ActiveToken is the static token shells export on startup.
func ActiveToken() Service { return Service{Kind: KindActiveToken} }

func (s Service) String() string {
	switch s.Kind {
	case KindLive:
		return "live"
	case KindBackup:
		return fmt.Sprintf("backup-%d-%s", s.Slot, s.Label)
	case KindActiveToken:
		return "active-token"
	}
	return fmt.Sprintf("unknown-%d", s.Kind)
}

// Keychain service names. The live one is owned by the host application.
const (
	LiveServiceName        = "Claude Code-credentials"
	ActiveTokenServiceName = "ccswitch-active-token"
	backupServicePrefix    = "Claude Code-Account-"
)

// ServiceName maps svc to the keychain/keyring service attribute.
func ServiceName(svc Service) string {
	switch svc.Kind {
	case KindLive:
		return LiveServiceName
	case KindActiveToken:
		return ActiveTokenServiceName
	}
	return fmt.Sprintf("%s%d-%s", backupServicePrefix, svc.Slot, svc.Label)
}

// safeLabel keeps a label usable as part of a single file name.
func safeLabel(label string) string {
	return strings.NewReplacer("/", "_", "\\", "_", "\x00", "_").Replace(label)
}

// notFound wraps ErrNotFound with the service name.
func notFound(svc Service) error {
	return fmt.Errorf("%w: %s", ErrNotFound, svc)
}
