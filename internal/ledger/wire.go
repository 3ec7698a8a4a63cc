package ledger

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"
)

const timeFormat = time.RFC3339

// wireAccount and wireLedger are the on-disk JSON shapes. Slot ids are
// string keys only here.
type wireAccount struct {
	Email    string   `json:"email"`
	UUID     string   `json:"uuid"`
	Added    string   `json:"added"`
	AuthKind AuthMode `json:"authKind"`
}

type wireLedger struct {
	ActiveAccountNumber *int                   `json:"activeAccountNumber"`
	LastUpdated         string                 `json:"lastUpdated"`
	Sequence            []int                  `json:"sequence"`
	Accounts            map[string]wireAccount `json:"accounts"`
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeFormat)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(timeFormat, s)
}

// MarshalJSON writes the ledger in its file format.
func (l *Ledger) MarshalJSON() ([]byte, error) {
	w := wireLedger{
		LastUpdated: formatTime(l.LastUpdated),
		Sequence:    append([]int{}, l.Order...),
		Accounts:    make(map[string]wireAccount, len(l.Slots)),
	}
	if l.Active != 0 {
		active := l.Active
		w.ActiveAccountNumber = &active
	}
	for id, s := range l.Slots {
		mode := s.Mode
		if mode == "" {
			mode = OAuth
		}
		w.Accounts[strconv.Itoa(id)] = wireAccount{
			Email:    s.Label,
			UUID:     s.ExternalID,
			Added:    formatTime(s.Added),
			AuthKind: mode,
		}
	}
	return json.MarshalIndent(w, "", "  ")
}

// UnmarshalJSON reads the file format. It does not check invariants; see
// Validate.
func (l *Ledger) UnmarshalJSON(data []byte) error {
	var w wireLedger
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	out := New()
	if w.ActiveAccountNumber != nil {
		out.Active = *w.ActiveAccountNumber
	}
	updated, err := parseTime(w.LastUpdated)
	if err != nil {
		return fmt.Errorf("lastUpdated: %w", err)
	}
	out.LastUpdated = updated
	if w.Sequence != nil {
		out.Order = w.Sequence
	}

	keys := make([]string, 0, len(w.Accounts))
	for k := range w.Accounts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		id, err := strconv.Atoi(k)
		if err != nil {
			return fmt.Errorf("account key %q is not a slot number", k)
		}
		a := w.Accounts[k]
		added, err := parseTime(a.Added)
		if err != nil {
			return fmt.Errorf("account %d added: %w", id, err)
		}
		mode := a.AuthKind
		if mode == "" {
			mode = OAuth
		}
		out.Slots[id] = Slot{
			ID:         id,
			Label:      a.Email,
			ExternalID: a.UUID,
			Added:      added,
			Mode:       mode,
		}
	}

	*l = *out
	return nil
}
