package ledger

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/benaskins/ccswitch/internal/apperr"
	"github.com/benaskins/ccswitch/internal/atomicfile"
)

// Load reads the ledger at path. A missing file yields an empty ledger. A
// file that fails schema validation, has a non-numeric slot key or breaks
// the structural invariants is an InvalidState error and is never repaired.
func Load(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return New(), nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindIO, "load ledger", path, err)
	}

	if err := validateDocument(data); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidState, "load ledger", path, err)
	}
	l := New()
	if err := json.Unmarshal(data, l); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidState, "load ledger", path, err)
	}
	if err := l.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.KindInvalidState, "load ledger", path, err)
	}
	return l, nil
}

// Save writes l to path atomically. The serialized document is checked
// against the schema first and nothing is written if it fails.
func Save(path string, l *Ledger) error {
	if err := l.Validate(); err != nil {
		return apperr.Wrap(apperr.KindInvalidState, "save ledger", "", err)
	}
	data, err := l.MarshalJSON()
	if err != nil {
		return apperr.Wrap(apperr.KindInvalidState, "save ledger", "", err)
	}
	if err := validateDocument(data); err != nil {
		return apperr.Wrap(apperr.KindInvalidState, "save ledger", "", err)
	}
	if err := atomicfile.WriteJSON(path, data); err != nil {
		return apperr.Wrap(apperr.KindIO, "save ledger", path, err)
	}
	return nil
}
