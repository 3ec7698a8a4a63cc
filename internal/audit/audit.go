// Package audit provides append-only structured logging for account and
// secret operations.
//
// Every add, switch and remove, and every credential read, write and delete
// made on behalf of one, is recorded to ~/.claude-switch-backup/audit.log as
// newline-delimited JSON. Secret values are never written.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"
)

// Action describes what happened.
type Action string

const (
	ActionAccountAdd    Action = "account_add"
	ActionAccountSwitch Action = "account_switch"
	ActionAccountRemove Action = "account_remove"
	ActionSecretRead    Action = "secret_read"
	ActionSecretWrite   Action = "secret_write"
	ActionSecretDelete  Action = "secret_delete"
)

// Entry is a single audit log record.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	Action    Action    `json:"action"`
	OpID      string    `json:"op_id,omitempty"`
	Key       string    `json:"key,omitempty"`   // credential service name
	Slot      int       `json:"slot,omitempty"`  // target slot
	From      int       `json:"from,omitempty"`  // outgoing slot on switch
	Label     string    `json:"label,omitempty"` // account label
	Actor     string    `json:"actor,omitempty"` // "cli", "tui"
	Error     string    `json:"error,omitempty"`
}

// Logger writes audit entries to an append-only file. A nil *Logger
// discards everything.
type Logger struct {
	mu   sync.Mutex
	file *os.File
	path string
}

// NewLogger creates or opens an audit log file for appending.
func NewLogger(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return nil, fmt.Errorf("opening audit log: %w", err)
	}
	return &Logger{file: f, path: path}, nil
}

// Log writes an audit entry.
func (l *Logger) Log(entry Entry) error {
	if l == nil {
		return nil
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshaling audit entry: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.file.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("writing audit entry: %w", err)
	}
	return nil
}

// Path returns the log file location.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Close closes the audit log file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	return l.file.Close()
}
