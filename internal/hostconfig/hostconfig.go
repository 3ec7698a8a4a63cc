// Package hostconfig reads and writes the host application's configuration
// document and keeps one snapshot of it per managed account. The host keeps
// the signed-in account in the document's oauthAccount object, so switching
// OAuth accounts means carrying that object between snapshots and the live
// file.
package hostconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/benaskins/ccswitch/internal/apperr"
	"github.com/benaskins/ccswitch/internal/atomicfile"
	"github.com/benaskins/ccswitch/internal/config"
)

// MarkerKey is the top-level key holding the signed-in account.
const MarkerKey = "oauthAccount"

// ErrNoMarker is returned when a document has no oauthAccount object.
var ErrNoMarker = errors.New("config has no oauthAccount")

// Document is a parsed config. Values other than the marker are kept as raw
// JSON and written back unchanged.
type Document map[string]json.RawMessage

// Identity is the account a document is signed in as.
type Identity struct {
	Label      string // oauthAccount.emailAddress
	ExternalID string // oauthAccount.accountUuid
}

type marker struct {
	EmailAddress string `json:"emailAddress"`
	AccountUUID  string `json:"accountUuid"`
}

// Store locates the live document and the per-slot snapshots.
type Store struct {
	paths  config.Paths
	logger *slog.Logger
}

// New returns a Store rooted at paths.
func New(paths config.Paths, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{paths: paths, logger: logger}
}

// LivePath is ~/.claude/.claude.json when that file parses and carries an
// account, otherwise ~/.claude.json.
func (s *Store) LivePath() string {
	primary := s.paths.HostConfigPrimary()
	if doc, err := readDocument(primary); err == nil {
		if _, ok := doc[MarkerKey]; ok {
			return primary
		}
	}
	return s.paths.HostConfigFallback()
}

// LoadLive reads the live document.
func (s *Store) LoadLive() (Document, error) {
	path := s.LivePath()
	doc, err := readDocument(path)
	if err != nil {
		return nil, classify("load live config", path, err)
	}
	return doc, nil
}

// SaveLive writes doc over the live document atomically.
func (s *Store) SaveLive(doc Document) error {
	path := s.LivePath()
	data, err := doc.Pretty()
	if err != nil {
		return apperr.Wrap(apperr.KindInvalidState, "save live config", path, err)
	}
	if err := atomicfile.WriteJSON(path, data); err != nil {
		return apperr.Wrap(apperr.KindIO, "save live config", path, err)
	}
	s.logger.Debug("live config saved", "path", path)
	return nil
}

// CurrentIdentity reports who the live document is signed in as. A missing
// or unreadable document, or one without a usable marker, has no identity.
func (s *Store) CurrentIdentity() (Identity, bool) {
	path := s.LivePath()
	doc, err := readDocument(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("live config unreadable", "path", path, "error", err)
		}
		return Identity{}, false
	}
	return IdentityOf(doc)
}

// BackupPath is the snapshot file for a slot.
func (s *Store) BackupPath(slot int, label string) string {
	name := fmt.Sprintf(".claude-config-%d-%s.json", slot, safeLabel(label))
	return filepath.Join(s.paths.ConfigBackups(), name)
}

// Backup snapshots the live document for a slot, owner-only.
func (s *Store) Backup(slot int, label string) error {
	doc, err := s.LoadLive()
	if err != nil {
		return err
	}
	return s.SaveBackup(slot, label, doc)
}

// SaveBackup writes doc as a slot's snapshot.
func (s *Store) SaveBackup(slot int, label string, doc Document) error {
	data, err := doc.Pretty()
	if err != nil {
		return apperr.Wrap(apperr.KindInvalidState, "backup config", "", err)
	}
	path := s.BackupPath(slot, label)
	if err := atomicfile.WritePrivate(path, data); err != nil {
		return apperr.Wrap(apperr.KindIO, "backup config", path, err)
	}
	s.logger.Debug("config backed up", "slot", slot, "label", label)
	return nil
}

// Restore reads a slot's snapshot. Missing is NotFound, malformed is
// InvalidState.
func (s *Store) Restore(slot int, label string) (Document, error) {
	path := s.BackupPath(slot, label)
	doc, err := readDocument(path)
	if err != nil {
		return nil, classify("restore config", path, err)
	}
	return doc, nil
}

// DeleteBackup removes a slot's snapshot. A missing snapshot is not an error.
func (s *Store) DeleteBackup(slot int, label string) error {
	path := s.BackupPath(slot, label)
	if err := atomicfile.Remove(path); err != nil {
		return apperr.Wrap(apperr.KindIO, "delete config backup", path, err)
	}
	return nil
}

// Pretty serializes the document with two-space indentation.
func (d Document) Pretty() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// ExtractMarker returns the raw oauthAccount object.
func ExtractMarker(doc Document) (json.RawMessage, error) {
	raw, ok := doc[MarkerKey]
	if !ok || isNull(raw) {
		return nil, ErrNoMarker
	}
	return raw, nil
}

// MergeIdentity returns a copy of live with oauthAccount replaced by marker.
// Every other key is kept as is.
func MergeIdentity(live Document, marker json.RawMessage) Document {
	out := make(Document, len(live)+1)
	for k, v := range live {
		out[k] = v
	}
	out[MarkerKey] = marker
	return out
}

// IdentityOf extracts the account from a document. The label is required.
func IdentityOf(doc Document) (Identity, bool) {
	raw, err := ExtractMarker(doc)
	if err != nil {
		return Identity{}, false
	}
	var m marker
	if err := json.Unmarshal(raw, &m); err != nil || m.EmailAddress == "" {
		return Identity{}, false
	}
	return Identity{Label: m.EmailAddress, ExternalID: m.AccountUUID}, true
}

func readDocument(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &malformedError{err: err}
	}
	if doc == nil {
		return nil, &malformedError{err: errors.New("document is null")}
	}
	return doc, nil
}

type malformedError struct{ err error }

func (e *malformedError) Error() string { return "malformed JSON: " + e.err.Error() }
func (e *malformedError) Unwrap() error { return e.err }

func classify(op, path string, err error) error {
	var bad *malformedError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return apperr.Wrap(apperr.KindNotFound, op, path, err)
	case errors.As(err, &bad):
		return apperr.Wrap(apperr.KindInvalidState, op, path, err)
	}
	return apperr.Wrap(apperr.KindIO, op, path, err)
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func safeLabel(label string) string {
	return strings.NewReplacer("/", "_", "\\", "_", "\x00", "_").Replace(label)
}
